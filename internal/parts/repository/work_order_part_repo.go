package repository

import (
	"github.com/MOE349/tenmil-backend/internal/parts/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WorkOrderPartRepository struct {
	db *gorm.DB
}

func NewWorkOrderPartRepository(db *gorm.DB) *WorkOrderPartRepository {
	return &WorkOrderPartRepository{db: db}
}

func (r *WorkOrderPartRepository) Create(tx *gorm.DB, wp *entity.WorkOrderPart) error {
	return tx.Create(wp).Error
}

// ListByWorkOrder 工单用料行，含零件与批次
func (r *WorkOrderPartRepository) ListByWorkOrder(workOrderID string) ([]entity.WorkOrderPart, error) {
	var parts []entity.WorkOrderPart
	err := r.db.Preload("Part").Preload("Batch").
		Where("work_order_id = ?", workOrderID).
		Order("created_at ASC, id ASC").
		Find(&parts).Error
	return parts, err
}

// TotalCost 工单零件总成本（发料为正、退料为负，净额）
func (r *WorkOrderPartRepository) TotalCost(workOrderID string) (decimal.Decimal, error) {
	var result struct{ Total decimal.Decimal }
	err := r.db.Raw(`
		SELECT COALESCE(SUM(total_cost), 0) AS total
		FROM work_order_parts
		WHERE work_order_id = ?
	`, workOrderID).Scan(&result).Error
	return result.Total, err
}

// NetIssued (工单, 零件) 的净发料数量：发料之和减退料之和
func (r *WorkOrderPartRepository) NetIssued(tx *gorm.DB, workOrderID, partID string) (int64, error) {
	var result struct{ Total int64 }
	err := tx.Raw(`
		SELECT COALESCE(SUM(qty_used), 0) AS total
		FROM work_order_parts
		WHERE work_order_id = ? AND part_id = ?
	`, workOrderID, partID).Scan(&result).Error
	return result.Total, err
}
