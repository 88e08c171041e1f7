package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkOrderPart 工单用料行：一次发料/退料对单个批次的消耗记录。
// qty_used 正数为发料、负数为退料；单价快照取自批次，写入后不再重算。
type WorkOrderPart struct {
	ID               string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	WorkOrderID      string          `json:"work_order_id" gorm:"type:uuid;not null;index"`
	PartID           string          `json:"part_id" gorm:"type:uuid;not null;index"`
	BatchID          string          `json:"batch_id" gorm:"type:uuid;not null;index"`
	QtyUsed          int64           `json:"qty_used" gorm:"not null"`
	UnitCostSnapshot decimal.Decimal `json:"unit_cost_snapshot" gorm:"type:decimal(12,2);not null"`
	TotalCost        decimal.Decimal `json:"total_cost" gorm:"type:decimal(12,2);not null"`
	CreatedBy        string          `json:"created_by" gorm:"size:64;not null"`
	CreatedAt        time.Time       `json:"created_at"`

	WorkOrder *WorkOrder      `json:"work_order,omitempty" gorm:"foreignKey:WorkOrderID"`
	Part      *Part           `json:"part,omitempty" gorm:"foreignKey:PartID"`
	Batch     *InventoryBatch `json:"batch,omitempty" gorm:"foreignKey:BatchID"`
}

func (WorkOrderPart) TableName() string {
	return "work_order_parts"
}
