package service

import (
	"github.com/MOE349/tenmil-backend/internal/parts/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services 服务集合
type Services struct {
	Inventory   *InventoryService
	PartRequest *PartRequestService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) *Services {
	return &Services{
		Inventory:   NewInventoryService(repos, db, rdb, logger),
		PartRequest: NewPartRequestService(repos, db, logger),
	}
}
