package entity

import (
	"time"
)

// MovementType 零件移动类型
const (
	MovementReceive     = "receive"      // 收货入库
	MovementIssue       = "issue"        // 发料到工单
	MovementReturn      = "return"       // 工单退料
	MovementTransferOut = "transfer_out" // 调拨出库
	MovementTransferIn  = "transfer_in"  // 调拨入库
	MovementAdjustment  = "adjustment"   // 人工调整
	MovementRTVOut      = "rtv_out"      // 退回供应商
	MovementCountAdjust = "count_adjust" // 盘点调整
)

// PartMovement 零件移动台账。只增不改：每一次数量变化写一行，
// 任何批次的 qty_on_hand 恒等于引用该批次的所有 qty_delta 之和。
type PartMovement struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PartID         string    `json:"part_id" gorm:"type:uuid;not null;index:idx_movement_part_created,priority:1"`
	BatchID        *string   `json:"batch_id" gorm:"type:uuid;index"`
	FromLocationID *string   `json:"from_location_id" gorm:"type:uuid;index"`
	ToLocationID   *string   `json:"to_location_id" gorm:"type:uuid;index"`
	MovementType   string    `json:"movement_type" gorm:"size:20;not null;index:idx_movement_type_created,priority:1"`
	QtyDelta       int64     `json:"qty_delta" gorm:"not null"`
	WorkOrderID    *string   `json:"work_order_id" gorm:"type:uuid;index:idx_movement_wo_created,priority:1"`
	ReceiptID      *string   `json:"receipt_id" gorm:"size:100;index"`
	Notes          string    `json:"notes" gorm:"type:text"`
	CreatedBy      string    `json:"created_by" gorm:"size:64;not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"index:idx_movement_part_created,priority:2;index:idx_movement_wo_created,priority:2;index:idx_movement_type_created,priority:2"`

	Part         *Part           `json:"part,omitempty" gorm:"foreignKey:PartID"`
	Batch        *InventoryBatch `json:"batch,omitempty" gorm:"foreignKey:BatchID"`
	FromLocation *Location       `json:"from_location,omitempty" gorm:"foreignKey:FromLocationID"`
	ToLocation   *Location       `json:"to_location,omitempty" gorm:"foreignKey:ToLocationID"`
	WorkOrder    *WorkOrder      `json:"work_order,omitempty" gorm:"foreignKey:WorkOrderID"`
}

func (PartMovement) TableName() string {
	return "part_movements"
}
