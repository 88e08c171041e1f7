package repository

import (
	"github.com/MOE349/tenmil-backend/internal/parts/entity"
	"gorm.io/gorm"
)

type IdempotencyRepository struct {
	db *gorm.DB
}

func NewIdempotencyRepository(db *gorm.DB) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

// Get 按 (操作类型, 幂等键) 查找记录
func (r *IdempotencyRepository) Get(tx *gorm.DB, operationType, key string) (*entity.IdempotencyRecord, error) {
	var record entity.IdempotencyRecord
	err := tx.Where("operation_type = ? AND key = ?", operationType, key).First(&record).Error
	return &record, err
}

// Create 插入幂等记录；(operation_type, key) 唯一约束保证并发下只有一个插入成功
func (r *IdempotencyRepository) Create(tx *gorm.DB, record *entity.IdempotencyRecord) error {
	return tx.Create(record).Error
}

// DB 返回底层db用于事务
func (r *IdempotencyRepository) DB() *gorm.DB {
	return r.db
}
