package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part 零件主数据（目录）
type Part struct {
	ID          string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PartNumber  string           `json:"part_number" gorm:"size:100;not null;uniqueIndex"`
	Name        string           `json:"name" gorm:"size:255;not null"`
	Description string           `json:"description" gorm:"type:text"`
	LastPrice   *decimal.Decimal `json:"last_price" gorm:"type:decimal(12,2)"`
	Make        string           `json:"make" gorm:"size:100;index"`
	Category    string           `json:"category" gorm:"size:100;index"`
	Component   string           `json:"component" gorm:"size:255"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (Part) TableName() string {
	return "parts"
}

// Location 库位主数据（由公司模块维护，库存核心只读）
type Location struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code      string    `json:"code" gorm:"size:32;not null;uniqueIndex"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	Site      string    `json:"site" gorm:"size:128"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Location) TableName() string {
	return "locations"
}

// WorkOrder 工单主数据（由工单模块维护，库存核心只读）
type WorkOrder struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code      string    `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Subject   string    `json:"subject" gorm:"size:255"`
	Status    string    `json:"status" gorm:"size:20;not null;default:OPEN"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (WorkOrder) TableName() string {
	return "work_orders"
}
