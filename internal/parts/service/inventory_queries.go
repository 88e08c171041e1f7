package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MOE349/tenmil-backend/internal/parts/entity"
	"github.com/MOE349/tenmil-backend/internal/parts/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const onHandCacheTTL = 5 * time.Minute

// OnHand 按零件/库位汇总在库数量。同时给出 part_id 与 location_id 时
// 走 Redis 读缓存，写操作提交后失效。
func (s *InventoryService) OnHand(ctx context.Context, partID, locationID string) ([]repository.OnHandRow, error) {
	cacheKey := ""
	if s.rdb != nil && partID != "" && locationID != "" {
		cacheKey = onHandCacheKey(partID, locationID)
		if data, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var rows []repository.OnHandRow
			if err := json.Unmarshal(data, &rows); err == nil {
				return rows, nil
			}
		}
	}

	rows, err := s.batches.OnHandSummary(partID, locationID)
	if err != nil {
		return nil, fmt.Errorf("on-hand summary: %w", err)
	}

	if cacheKey != "" {
		if data, err := json.Marshal(rows); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, data, onHandCacheTTL).Err(); err != nil {
				s.logger.Warn("cache on-hand summary", zap.Error(err))
			}
		}
	}
	return rows, nil
}

// PartLocationsOnHand 单个零件在各库位的在库分布
func (s *InventoryService) PartLocationsOnHand(partID string) ([]repository.PartLocationRow, error) {
	rows, err := s.batches.PartLocationsOnHand(partID)
	if err != nil {
		return nil, fmt.Errorf("part locations on-hand: %w", err)
	}
	return rows, nil
}

// ListBatches 批次分页查询
func (s *InventoryService) ListBatches(params repository.BatchListParams) ([]entity.InventoryBatch, int64, error) {
	return s.batches.List(params)
}

// ListMovements 台账查询，倒序返回
func (s *InventoryService) ListMovements(filter repository.MovementFilter) ([]entity.PartMovement, error) {
	return s.moves.List(filter)
}

// WorkOrderPartsSummary 工单用料汇总
type WorkOrderPartsSummary struct {
	WorkOrderID string                 `json:"work_order_id"`
	Parts       []entity.WorkOrderPart `json:"parts"`
	TotalCost   decimal.Decimal        `json:"total_cost"`
}

// WorkOrderParts 工单用料明细与总成本（退料行为负，汇总自动抵减）
func (s *InventoryService) WorkOrderParts(workOrderID string) (*WorkOrderPartsSummary, error) {
	parts, err := s.woParts.ListByWorkOrder(workOrderID)
	if err != nil {
		return nil, fmt.Errorf("list work order parts: %w", err)
	}
	total, err := s.woParts.TotalCost(workOrderID)
	if err != nil {
		return nil, fmt.Errorf("sum work order cost: %w", err)
	}
	return &WorkOrderPartsSummary{
		WorkOrderID: workOrderID,
		Parts:       parts,
		TotalCost:   total,
	}, nil
}

// ListParts 零件主数据分页查询
func (s *InventoryService) ListParts(params repository.PartListParams) ([]entity.Part, int64, error) {
	return s.parts.List(params)
}

func onHandCacheKey(partID, locationID string) string {
	return fmt.Sprintf("inventory:onhand:%s:%s", partID, locationID)
}

func (s *InventoryService) invalidateOnHand(ctx context.Context, partID, locationID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, onHandCacheKey(partID, locationID)).Err(); err != nil {
		s.logger.Warn("invalidate on-hand cache", zap.Error(err))
	}
}
