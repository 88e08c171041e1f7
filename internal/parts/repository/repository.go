package repository

import "gorm.io/gorm"

// Repositories 零件库存仓库集合
type Repositories struct {
	Part          *PartRepository
	Batch         *BatchRepository
	Movement      *MovementRepository
	WorkOrderPart *WorkOrderPartRepository
	Idempotency   *IdempotencyRepository
	PartRequest   *PartRequestRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Part:          NewPartRepository(db),
		Batch:         NewBatchRepository(db),
		Movement:      NewMovementRepository(db),
		WorkOrderPart: NewWorkOrderPartRepository(db),
		Idempotency:   NewIdempotencyRepository(db),
		PartRequest:   NewPartRequestRepository(db),
	}
}
