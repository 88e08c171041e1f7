package repository

import (
	"github.com/MOE349/tenmil-backend/internal/parts/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PartRepository struct {
	db *gorm.DB
}

func NewPartRepository(db *gorm.DB) *PartRepository {
	return &PartRepository{db: db}
}

// GetByID 按 ID 获取零件，事务内调用传 tx
func (r *PartRepository) GetByID(tx *gorm.DB, id string) (*entity.Part, error) {
	var part entity.Part
	err := tx.Where("id = ?", id).First(&part).Error
	return &part, err
}

func (r *PartRepository) GetByNumber(partNumber string) (*entity.Part, error) {
	var part entity.Part
	err := r.db.Where("part_number = ?", partNumber).First(&part).Error
	return &part, err
}

// UpdateLastPrice 收货后更新零件最近采购价
func (r *PartRepository) UpdateLastPrice(tx *gorm.DB, partID string, price decimal.Decimal) error {
	return tx.Model(&entity.Part{}).Where("id = ?", partID).Update("last_price", price).Error
}

type PartListParams struct {
	Keyword  string
	Category string
	Make     string
	Page     int
	Size     int
}

func (r *PartRepository) List(params PartListParams) ([]entity.Part, int64, error) {
	query := r.db.Model(&entity.Part{})
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("part_number ILIKE ? OR name ILIKE ?", kw, kw)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Make != "" {
		query = query.Where("make = ?", params.Make)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var parts []entity.Part
	err := query.Order("part_number ASC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&parts).Error
	return parts, total, err
}
