package entity

import (
	"time"
)

// PartRequestStatus 零件申请状态。单一枚举 + 迁移函数，
// 取代旧版 is_requested/is_available/is_ordered/is_delivered 布尔标志，
// 布尔视图仅作为派生投影保留在 API 载荷中。
const (
	RequestStatusNew                  = "NEW"
	RequestStatusRequested            = "REQUESTED"
	RequestStatusAvailable            = "AVAILABLE"
	RequestStatusOrdered              = "ORDERED"
	RequestStatusDelivered            = "DELIVERED"
	RequestStatusCancelledAwaitingAck = "CANCELLED_AWAITING_ACK"
	RequestStatusCancelled            = "CANCELLED"
)

// CancelType 统一取消操作自动选择的分支
const (
	CancelTypeAwaitingAck = "cancelled_awaiting_ack" // 已备料，预留释放，等库房确认
	CancelTypeFull        = "cancelled"              // 仅申请，直接终结
)

// PartRequest 机修工的零件申请，跟踪从申请到交付的全生命周期。
// 取消是状态迁移而非删除，记录永不硬删。
type PartRequest struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	WorkOrderID  string    `json:"work_order_id" gorm:"type:uuid;not null;index"`
	PartID       string    `json:"part_id" gorm:"type:uuid;not null;index"`
	LocationID   *string   `json:"location_id" gorm:"type:uuid"`
	Status       string    `json:"status" gorm:"size:30;not null;default:NEW;index"`
	QtyNeeded    int64     `json:"qty_needed" gorm:"not null;default:0"`
	QtyAvailable int64     `json:"qty_available" gorm:"not null;default:0"`
	QtyOrdered   int64     `json:"qty_ordered" gorm:"not null;default:0"`
	QtyDelivered int64     `json:"qty_delivered" gorm:"not null;default:0"`
	QtyUsed      int64     `json:"qty_used" gorm:"not null;default:0"`
	BatchID      *string   `json:"batch_id" gorm:"type:uuid"`
	Notes        string    `json:"notes" gorm:"type:text"`
	CreatedBy    string    `json:"created_by" gorm:"size:64;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	WorkOrder *WorkOrder      `json:"work_order,omitempty" gorm:"foreignKey:WorkOrderID"`
	Part      *Part           `json:"part,omitempty" gorm:"foreignKey:PartID"`
	Batch     *InventoryBatch `json:"batch,omitempty" gorm:"foreignKey:BatchID"`
}

func (PartRequest) TableName() string {
	return "part_requests"
}

// IsRequested 派生标志：申请是否仍然有效
func (r *PartRequest) IsRequested() bool {
	switch r.Status {
	case RequestStatusRequested, RequestStatusAvailable, RequestStatusOrdered, RequestStatusDelivered:
		return true
	}
	return false
}

// IsAvailable 派生标志：是否已备料（含取消待确认，备料方仍能看到暂存量）
func (r *PartRequest) IsAvailable() bool {
	switch r.Status {
	case RequestStatusAvailable, RequestStatusOrdered, RequestStatusDelivered, RequestStatusCancelledAwaitingAck:
		return true
	}
	return false
}

// IsOrdered 派生标志：是否已下采购单
func (r *PartRequest) IsOrdered() bool {
	return r.Status == RequestStatusOrdered || r.Status == RequestStatusDelivered
}

// IsDelivered 派生标志：是否已交付
func (r *PartRequest) IsDelivered() bool {
	return r.Status == RequestStatusDelivered
}

// MarkRequested NEW -> REQUESTED
func (r *PartRequest) MarkRequested(qtyNeeded int64) error {
	if r.Status != RequestStatusNew {
		return &InvalidOperationError{Msg: "request is not new"}
	}
	if qtyNeeded <= 0 {
		return &ValidationError{Msg: "quantity needed must be positive"}
	}
	r.Status = RequestStatusRequested
	r.QtyNeeded = qtyNeeded
	return nil
}

// MarkAvailable REQUESTED -> AVAILABLE，关联预留批次
func (r *PartRequest) MarkAvailable(batchID string, qty int64) error {
	if r.Status != RequestStatusRequested {
		return &InvalidOperationError{Msg: "request is not in a requestable state"}
	}
	if qty <= 0 {
		return &ValidationError{Msg: "available quantity must be positive"}
	}
	r.Status = RequestStatusAvailable
	r.QtyAvailable = qty
	r.BatchID = &batchID
	return nil
}

// MarkOrdered AVAILABLE/REQUESTED -> ORDERED
func (r *PartRequest) MarkOrdered(qty int64) error {
	if r.Status != RequestStatusRequested && r.Status != RequestStatusAvailable {
		return &InvalidOperationError{Msg: "request cannot be ordered in its current state"}
	}
	if qty <= 0 {
		return &ValidationError{Msg: "ordered quantity must be positive"}
	}
	if r.Status == RequestStatusRequested {
		// 直接下单视为同时备料为零的升级路径
		r.QtyAvailable = 0
	}
	r.Status = RequestStatusOrdered
	r.QtyOrdered = qty
	return nil
}

// MarkDelivered 终态交付；对取消待确认的申请则完成取消（见 AcknowledgeCancel）
func (r *PartRequest) MarkDelivered(qty int64) error {
	if r.Status != RequestStatusAvailable && r.Status != RequestStatusOrdered {
		return &InvalidOperationError{Msg: "request cannot be delivered in its current state"}
	}
	if qty <= 0 {
		return &ValidationError{Msg: "delivered quantity must be positive"}
	}
	r.Status = RequestStatusDelivered
	r.QtyDelivered += qty
	return nil
}

// CancelOutcome 统一取消的结果
type CancelOutcome struct {
	CancelType  string // CancelTypeAwaitingAck 或 CancelTypeFull
	ReleaseQty  int64  // 需要在关联批次上释放的预留数量
	ReleaseFrom string // 释放预留的批次 ID，空表示无预留
}

// Cancel 统一取消：根据当前状态自动选择行为，调用方不提供取消类型。
// 已下单或已交付的申请拒绝取消；已备料的进入 CANCELLED_AWAITING_ACK 子状态，
// 保留 qty_available 与批次链接供备料方查看，但释放库存预留。
func (r *PartRequest) Cancel() (*CancelOutcome, error) {
	switch r.Status {
	case RequestStatusOrdered:
		return nil, &InvalidOperationError{Msg: "parts already ordered"}
	case RequestStatusDelivered:
		return nil, &InvalidOperationError{Msg: "parts already delivered"}
	case RequestStatusAvailable:
		out := &CancelOutcome{CancelType: CancelTypeAwaitingAck, ReleaseQty: r.QtyAvailable}
		if r.BatchID != nil {
			out.ReleaseFrom = *r.BatchID
		}
		r.Status = RequestStatusCancelledAwaitingAck
		return out, nil
	case RequestStatusRequested:
		r.Status = RequestStatusCancelled
		r.QtyNeeded = 0
		return &CancelOutcome{CancelType: CancelTypeFull}, nil
	default:
		return nil, &InvalidOperationError{Msg: "not in a cancellable state"}
	}
}

// AcknowledgeCancel CANCELLED_AWAITING_ACK -> CANCELLED。
// 清空暂存量与需求量，已记录的 qty_delivered/qty_used 反映真实消耗，保持不变。
func (r *PartRequest) AcknowledgeCancel() error {
	if r.Status != RequestStatusCancelledAwaitingAck {
		return &InvalidOperationError{Msg: "request is not awaiting cancel acknowledgement"}
	}
	r.Status = RequestStatusCancelled
	r.QtyAvailable = 0
	r.QtyNeeded = 0
	return nil
}
