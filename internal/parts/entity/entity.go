package entity

import "gorm.io/gorm"

// AutoMigrate 自动迁移零件库存相关表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// 主数据
		&Part{},
		&Location{},
		&WorkOrder{},

		// 库存
		&InventoryBatch{},
		&PartMovement{},
		&WorkOrderPart{},

		// 申请与幂等
		&PartRequest{},
		&IdempotencyRecord{},
	)
}
