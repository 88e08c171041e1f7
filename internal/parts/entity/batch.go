package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryBatch 库存批次：同一零件在同一库位、同一接收日期、同一单价的一个物理批次。
// 批次永不删除，数量归零后保留用于审计与台账重建。
type InventoryBatch struct {
	ID          string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PartID      string          `json:"part_id" gorm:"type:uuid;not null;index:idx_batch_part_loc_recv,priority:1"`
	LocationID  string          `json:"location_id" gorm:"type:uuid;not null;index:idx_batch_part_loc_recv,priority:2"`
	QtyOnHand   int64           `json:"qty_on_hand" gorm:"not null;default:0;check:chk_batch_qty_on_hand,qty_on_hand >= 0"`
	QtyReserved int64           `json:"qty_reserved" gorm:"not null;default:0;check:chk_batch_qty_reserved,qty_reserved >= 0"`
	QtyReceived int64           `json:"qty_received" gorm:"not null;default:0"`
	UnitCost    decimal.Decimal `json:"unit_cost" gorm:"type:decimal(12,2);not null"`
	ReceivedAt  time.Time       `json:"received_at" gorm:"not null;index:idx_batch_part_loc_recv,priority:3"`
	Aisle       string          `json:"aisle" gorm:"size:32"`
	Row         string          `json:"row" gorm:"size:32"`
	Bin         string          `json:"bin" gorm:"size:32"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Part     *Part     `json:"part,omitempty" gorm:"foreignKey:PartID"`
	Location *Location `json:"location,omitempty" gorm:"foreignKey:LocationID"`
}

func (InventoryBatch) TableName() string {
	return "inventory_batches"
}

// QtyAvailable 可用数量（在库 - 预留）
func (b *InventoryBatch) QtyAvailable() int64 {
	if avail := b.QtyOnHand - b.QtyReserved; avail > 0 {
		return avail
	}
	return 0
}

// TotalValue 批次总价值
func (b *InventoryBatch) TotalValue() decimal.Decimal {
	return b.UnitCost.Mul(decimal.NewFromInt(b.QtyOnHand))
}
