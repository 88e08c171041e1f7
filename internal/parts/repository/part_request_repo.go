package repository

import (
	"github.com/MOE349/tenmil-backend/internal/parts/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PartRequestRepository struct {
	db *gorm.DB
}

func NewPartRequestRepository(db *gorm.DB) *PartRequestRepository {
	return &PartRequestRepository{db: db}
}

func (r *PartRequestRepository) Create(tx *gorm.DB, request *entity.PartRequest) error {
	return tx.Create(request).Error
}

func (r *PartRequestRepository) GetByID(tx *gorm.DB, id string) (*entity.PartRequest, error) {
	var request entity.PartRequest
	err := tx.Preload("Part").Where("id = ?", id).First(&request).Error
	return &request, err
}

// GetForUpdate 锁定申请行，状态迁移期间阻止并发修改
func (r *PartRequestRepository) GetForUpdate(tx *gorm.DB, id string) (*entity.PartRequest, error) {
	var request entity.PartRequest
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&request).Error
	return &request, err
}

func (r *PartRequestRepository) Save(tx *gorm.DB, request *entity.PartRequest) error {
	return tx.Save(request).Error
}

type PartRequestListParams struct {
	WorkOrderID string
	PartID      string
	Status      string
	Page        int
	Size        int
}

func (r *PartRequestRepository) List(params PartRequestListParams) ([]entity.PartRequest, int64, error) {
	query := r.db.Model(&entity.PartRequest{})
	if params.WorkOrderID != "" {
		query = query.Where("work_order_id = ?", params.WorkOrderID)
	}
	if params.PartID != "" {
		query = query.Where("part_id = ?", params.PartID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var requests []entity.PartRequest
	err := query.Preload("Part").Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&requests).Error
	return requests, total, err
}
