package repository

import (
	"time"

	"github.com/MOE349/tenmil-backend/internal/parts/entity"
	"gorm.io/gorm"
)

type MovementRepository struct {
	db *gorm.DB
}

func NewMovementRepository(db *gorm.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

// Create 追加一条台账记录；台账只增不改
func (r *MovementRepository) Create(tx *gorm.DB, movement *entity.PartMovement) error {
	return tx.Create(movement).Error
}

// MovementFilter 台账查询条件
type MovementFilter struct {
	PartID       string
	LocationID   string
	WorkOrderID  string
	MovementType string
	FromDate     *time.Time
	ToDate       *time.Time
	Limit        int
}

// List 按条件查询台账，按创建时间降序，限制返回条数
func (r *MovementRepository) List(filter MovementFilter) ([]entity.PartMovement, error) {
	query := r.db.Model(&entity.PartMovement{}).
		Preload("Part").Preload("Batch").
		Preload("FromLocation").Preload("ToLocation").Preload("WorkOrder")
	if filter.PartID != "" {
		query = query.Where("part_id = ?", filter.PartID)
	}
	if filter.LocationID != "" {
		query = query.Where("from_location_id = ? OR to_location_id = ?", filter.LocationID, filter.LocationID)
	}
	if filter.WorkOrderID != "" {
		query = query.Where("work_order_id = ?", filter.WorkOrderID)
	}
	if filter.MovementType != "" {
		query = query.Where("movement_type = ?", filter.MovementType)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	var movements []entity.PartMovement
	err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&movements).Error
	return movements, err
}
