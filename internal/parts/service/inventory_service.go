package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MOE349/tenmil-backend/internal/parts/entity"
	"github.com/MOE349/tenmil-backend/internal/parts/repository"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InventoryService 库存核心服务：收货、发料、退料、调拨、调整与只读查询。
// 每个写操作是一个数据库事务，全部提交或全部回滚，幂等键重放安全。
type InventoryService struct {
	db      *gorm.DB
	parts   *repository.PartRepository
	batches *repository.BatchRepository
	moves   *repository.MovementRepository
	woParts *repository.WorkOrderPartRepository
	guard   *IdempotencyGuard
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewInventoryService(repos *repository.Repositories, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		db:      db,
		parts:   repos.Part,
		batches: repos.Batch,
		moves:   repos.Movement,
		woParts: repos.WorkOrderPart,
		guard:   NewIdempotencyGuard(repos.Idempotency),
		rdb:     rdb,
		logger:  logger,
	}
}

// AllocationLine 单个批次的分配结果行
type AllocationLine struct {
	BatchID   string          `json:"batch_id"`
	Qty       int64           `json:"qty"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// OperationResult 写操作的统一结果
type OperationResult struct {
	Success          bool             `json:"success"`
	Allocations      []AllocationLine `json:"allocations"`
	MovementIDs      []string         `json:"movement_ids"`
	WorkOrderPartIDs []string         `json:"work_order_part_ids,omitempty"`
	TotalCost        decimal.Decimal  `json:"total_cost"`
	Message          string           `json:"message"`
	Idempotent       bool             `json:"idempotent,omitempty"`
}

// runKeyed 在单个事务内执行写操作并套用幂等守卫。
// key 为空直接执行；并发幂等竞态落败时回滚本事务并重放胜者结果。
func (s *InventoryService) runKeyed(ctx context.Context, opType, key string, req interface{}, userID string, fn func(tx *gorm.DB) (*OperationResult, error)) (*OperationResult, error) {
	var result *OperationResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if key != "" {
			cached, err := s.guard.Check(tx, opType, key, req)
			if err != nil {
				return err
			}
			if cached != nil {
				result = cached
				return nil
			}
		}
		var err error
		result, err = fn(tx)
		if err != nil {
			return err
		}
		if key != "" {
			if err := s.guard.Record(tx, opType, key, req, result, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, errIdempotencyRace) {
		return s.guard.Replay(opType, key, req)
	}
	if err != nil {
		return nil, translateLockError(err)
	}
	return result, nil
}

// ReceiveRequest 收货入库请求
type ReceiveRequest struct {
	PartID         string          `json:"part_id" binding:"required"`
	LocationID     string          `json:"location_id" binding:"required"`
	Qty            int64           `json:"qty" binding:"required"`
	UnitCost       decimal.Decimal `json:"unit_cost" binding:"required"`
	ReceivedAt     *time.Time      `json:"received_at"`
	ReceiptID      string          `json:"receipt_id"`
	Aisle          string          `json:"aisle"`
	Row            string          `json:"row"`
	Bin            string          `json:"bin"`
	IdempotencyKey string          `json:"idempotency_key"`
}

// Receive 收货：创建新批次、追加 receive 台账、更新零件最近采购价
func (s *InventoryService) Receive(ctx context.Context, req ReceiveRequest, userID string) (*OperationResult, error) {
	if req.Qty <= 0 {
		return nil, &entity.ValidationError{Msg: "quantity must be positive"}
	}
	if req.UnitCost.Sign() <= 0 {
		return nil, &entity.ValidationError{Msg: "unit cost must be positive"}
	}
	receivedAt := time.Now()
	if req.ReceivedAt != nil {
		receivedAt = *req.ReceivedAt
	}

	result, err := s.runKeyed(ctx, entity.OpReceive, req.IdempotencyKey, req, userID, func(tx *gorm.DB) (*OperationResult, error) {
		part, err := s.resolvePart(tx, req.PartID)
		if err != nil {
			return nil, err
		}
		location, err := s.resolveLocation(tx, req.LocationID)
		if err != nil {
			return nil, err
		}

		batch := &entity.InventoryBatch{
			PartID:      part.ID,
			LocationID:  location.ID,
			QtyOnHand:   req.Qty,
			QtyReceived: req.Qty,
			UnitCost:    req.UnitCost,
			ReceivedAt:  receivedAt,
			Aisle:       req.Aisle,
			Row:         req.Row,
			Bin:         req.Bin,
		}
		if err := s.batches.Create(tx, batch); err != nil {
			return nil, fmt.Errorf("create batch: %w", err)
		}

		movement := &entity.PartMovement{
			PartID:       part.ID,
			BatchID:      &batch.ID,
			ToLocationID: &location.ID,
			MovementType: entity.MovementReceive,
			QtyDelta:     req.Qty,
			ReceiptID:    optional(req.ReceiptID),
			CreatedBy:    userID,
		}
		if err := s.moves.Create(tx, movement); err != nil {
			return nil, fmt.Errorf("create movement: %w", err)
		}

		if err := s.parts.UpdateLastPrice(tx, part.ID, req.UnitCost); err != nil {
			return nil, fmt.Errorf("update last price: %w", err)
		}

		cost := req.UnitCost.Mul(decimal.NewFromInt(req.Qty))
		return &OperationResult{
			Success: true,
			Allocations: []AllocationLine{{
				BatchID: batch.ID, Qty: req.Qty, UnitCost: req.UnitCost, TotalCost: cost,
			}},
			MovementIDs: []string{movement.ID},
			TotalCost:   cost,
			Message:     fmt.Sprintf("received %d of %s at %s", req.Qty, part.PartNumber, location.Name),
		}, nil
	})
	if err == nil {
		s.invalidateOnHand(ctx, req.PartID, req.LocationID)
	}
	return result, err
}

// IssueRequest 工单发料请求
type IssueRequest struct {
	WorkOrderID    string `json:"work_order_id" binding:"required"`
	PartID         string `json:"part_id" binding:"required"`
	LocationID     string `json:"location_id" binding:"required"`
	Qty            int64  `json:"qty" binding:"required"`
	IdempotencyKey string `json:"idempotency_key"`
}

// Issue 发料到工单：FIFO 消耗批次，每个触及的批次产生一行工单用料与一条 issue 台账
func (s *InventoryService) Issue(ctx context.Context, req IssueRequest, userID string) (*OperationResult, error) {
	if req.Qty <= 0 {
		return nil, &entity.ValidationError{Msg: "quantity must be positive"}
	}

	result, err := s.runKeyed(ctx, entity.OpIssue, req.IdempotencyKey, req, userID, func(tx *gorm.DB) (*OperationResult, error) {
		part, err := s.resolvePart(tx, req.PartID)
		if err != nil {
			return nil, err
		}
		location, err := s.resolveLocation(tx, req.LocationID)
		if err != nil {
			return nil, err
		}
		workOrder, err := s.resolveWorkOrder(tx, req.WorkOrderID)
		if err != nil {
			return nil, err
		}

		allocations, err := allocateFIFO(tx, s.batches, part, location.ID, req.Qty)
		if err != nil {
			return nil, err
		}

		result := &OperationResult{Success: true, TotalCost: decimal.Zero}
		for _, alloc := range allocations {
			if err := s.batches.AddOnHand(tx, alloc.Batch.ID, -alloc.Qty); err != nil {
				return nil, fmt.Errorf("decrement batch: %w", err)
			}

			movement := &entity.PartMovement{
				PartID:         part.ID,
				BatchID:        &alloc.Batch.ID,
				FromLocationID: &location.ID,
				MovementType:   entity.MovementIssue,
				QtyDelta:       -alloc.Qty,
				WorkOrderID:    &workOrder.ID,
				CreatedBy:      userID,
			}
			if err := s.moves.Create(tx, movement); err != nil {
				return nil, fmt.Errorf("create movement: %w", err)
			}

			lineCost := alloc.Batch.UnitCost.Mul(decimal.NewFromInt(alloc.Qty))
			woPart := &entity.WorkOrderPart{
				WorkOrderID:      workOrder.ID,
				PartID:           part.ID,
				BatchID:          alloc.Batch.ID,
				QtyUsed:          alloc.Qty,
				UnitCostSnapshot: alloc.Batch.UnitCost,
				TotalCost:        lineCost,
				CreatedBy:        userID,
			}
			if err := s.woParts.Create(tx, woPart); err != nil {
				return nil, fmt.Errorf("create work order part: %w", err)
			}

			result.Allocations = append(result.Allocations, AllocationLine{
				BatchID: alloc.Batch.ID, Qty: alloc.Qty,
				UnitCost: alloc.Batch.UnitCost, TotalCost: lineCost,
			})
			result.MovementIDs = append(result.MovementIDs, movement.ID)
			result.WorkOrderPartIDs = append(result.WorkOrderPartIDs, woPart.ID)
			result.TotalCost = result.TotalCost.Add(lineCost)
		}
		result.Message = fmt.Sprintf("issued %d of %s to %s", req.Qty, part.PartNumber, workOrder.Code)
		return result, nil
	})
	if err == nil {
		s.invalidateOnHand(ctx, req.PartID, req.LocationID)
	}
	return result, err
}

// ReturnRequest 工单退料请求
type ReturnRequest struct {
	WorkOrderID    string `json:"work_order_id" binding:"required"`
	PartID         string `json:"part_id" binding:"required"`
	LocationID     string `json:"location_id" binding:"required"`
	Qty            int64  `json:"qty" binding:"required"`
	IdempotencyKey string `json:"idempotency_key"`
}

// Return 工单退料：退回最旧的可用批次，与发料使用同一 FIFO 顺序规则。
// 不校验历史发料是否存在（纯加性操作），累计退料超过累计发料时仅告警
func (s *InventoryService) Return(ctx context.Context, req ReturnRequest, userID string) (*OperationResult, error) {
	if req.Qty <= 0 {
		return nil, &entity.ValidationError{Msg: "quantity must be positive"}
	}

	result, err := s.runKeyed(ctx, entity.OpReturn, req.IdempotencyKey, req, userID, func(tx *gorm.DB) (*OperationResult, error) {
		part, err := s.resolvePart(tx, req.PartID)
		if err != nil {
			return nil, err
		}
		location, err := s.resolveLocation(tx, req.LocationID)
		if err != nil {
			return nil, err
		}
		workOrder, err := s.resolveWorkOrder(tx, req.WorkOrderID)
		if err != nil {
			return nil, err
		}

		candidates, err := s.batches.ListForReturn(tx, part.ID, location.ID)
		if err != nil {
			return nil, fmt.Errorf("list return candidates: %w", err)
		}
		if len(candidates) == 0 {
			count, countErr := s.batches.CountBatches(tx, part.ID, location.ID)
			if countErr != nil {
				return nil, fmt.Errorf("count batches: %w", countErr)
			}
			if count == 0 {
				return nil, &entity.InvalidOperationError{Msg: fmt.Sprintf("no inventory batches for %s at %s to return into", part.PartNumber, location.Name)}
			}
			return nil, &entity.ConcurrentModificationError{Msg: "all candidate batches are locked, retry"}
		}

		netIssued, err := s.woParts.NetIssued(tx, workOrder.ID, part.ID)
		if err != nil {
			return nil, fmt.Errorf("sum issued quantity: %w", err)
		}
		if netIssued < req.Qty {
			s.logger.Warn("return exceeds cumulative issues",
				zap.String("work_order_id", workOrder.ID),
				zap.String("part_number", part.PartNumber),
				zap.Int64("net_issued", netIssued),
				zap.Int64("returning", req.Qty),
			)
		}

		// 全部退入最旧批次
		batch := &candidates[0]
		if err := s.batches.AddOnHand(tx, batch.ID, req.Qty); err != nil {
			return nil, fmt.Errorf("increment batch: %w", err)
		}

		movement := &entity.PartMovement{
			PartID:       part.ID,
			BatchID:      &batch.ID,
			ToLocationID: &location.ID,
			MovementType: entity.MovementReturn,
			QtyDelta:     req.Qty,
			WorkOrderID:  &workOrder.ID,
			CreatedBy:    userID,
		}
		if err := s.moves.Create(tx, movement); err != nil {
			return nil, fmt.Errorf("create movement: %w", err)
		}

		lineCost := batch.UnitCost.Mul(decimal.NewFromInt(req.Qty))
		woPart := &entity.WorkOrderPart{
			WorkOrderID:      workOrder.ID,
			PartID:           part.ID,
			BatchID:          batch.ID,
			QtyUsed:          -req.Qty,
			UnitCostSnapshot: batch.UnitCost,
			TotalCost:        lineCost.Neg(),
			CreatedBy:        userID,
		}
		if err := s.woParts.Create(tx, woPart); err != nil {
			return nil, fmt.Errorf("create work order part: %w", err)
		}

		return &OperationResult{
			Success: true,
			Allocations: []AllocationLine{{
				BatchID: batch.ID, Qty: req.Qty, UnitCost: batch.UnitCost, TotalCost: lineCost,
			}},
			MovementIDs:      []string{movement.ID},
			WorkOrderPartIDs: []string{woPart.ID},
			TotalCost:        lineCost,
			Message:          fmt.Sprintf("returned %d of %s from %s", req.Qty, part.PartNumber, workOrder.Code),
		}, nil
	})
	if err == nil {
		s.invalidateOnHand(ctx, req.PartID, req.LocationID)
	}
	return result, err
}

// TransferRequest 库位调拨请求
type TransferRequest struct {
	PartID         string `json:"part_id" binding:"required"`
	FromLocationID string `json:"from_location_id" binding:"required"`
	ToLocationID   string `json:"to_location_id" binding:"required"`
	Qty            int64  `json:"qty" binding:"required"`
	Aisle          string `json:"aisle"`
	Row            string `json:"row"`
	Bin            string `json:"bin"`
	IdempotencyKey string `json:"idempotency_key"`
}

// Transfer 库位间调拨：源库位 FIFO 出库，每个消耗片段在目标库位
// 生成保留原接收日期与原单价的批次，FIFO 顺位与成本基础随调拨保持不变
func (s *InventoryService) Transfer(ctx context.Context, req TransferRequest, userID string) (*OperationResult, error) {
	if req.Qty <= 0 {
		return nil, &entity.ValidationError{Msg: "quantity must be positive"}
	}
	if req.FromLocationID == req.ToLocationID {
		return nil, &entity.InvalidOperationError{Msg: "source and destination locations must be different"}
	}

	result, err := s.runKeyed(ctx, entity.OpTransfer, req.IdempotencyKey, req, userID, func(tx *gorm.DB) (*OperationResult, error) {
		part, err := s.resolvePart(tx, req.PartID)
		if err != nil {
			return nil, err
		}
		fromLocation, err := s.resolveLocation(tx, req.FromLocationID)
		if err != nil {
			return nil, err
		}
		toLocation, err := s.resolveLocation(tx, req.ToLocationID)
		if err != nil {
			return nil, err
		}

		allocations, err := allocateFIFO(tx, s.batches, part, fromLocation.ID, req.Qty)
		if err != nil {
			return nil, err
		}

		result := &OperationResult{Success: true, TotalCost: decimal.Zero}
		for _, alloc := range allocations {
			if err := s.batches.AddOnHand(tx, alloc.Batch.ID, -alloc.Qty); err != nil {
				return nil, fmt.Errorf("decrement source batch: %w", err)
			}

			outMovement := &entity.PartMovement{
				PartID:         part.ID,
				BatchID:        &alloc.Batch.ID,
				FromLocationID: &fromLocation.ID,
				MovementType:   entity.MovementTransferOut,
				QtyDelta:       -alloc.Qty,
				CreatedBy:      userID,
			}
			if err := s.moves.Create(tx, outMovement); err != nil {
				return nil, fmt.Errorf("create transfer_out movement: %w", err)
			}

			dest, created, err := s.batches.FindOrCreateDestination(tx, alloc.Batch, toLocation.ID, req.Aisle, req.Row, req.Bin)
			if err != nil {
				return nil, fmt.Errorf("destination batch: %w", err)
			}
			if err := s.batches.AddOnHand(tx, dest.ID, alloc.Qty); err != nil {
				return nil, fmt.Errorf("increment destination batch: %w", err)
			}
			if created {
				if err := s.batches.AddReceived(tx, dest.ID, alloc.Qty); err != nil {
					return nil, fmt.Errorf("set destination received qty: %w", err)
				}
			}

			inMovement := &entity.PartMovement{
				PartID:       part.ID,
				BatchID:      &dest.ID,
				ToLocationID: &toLocation.ID,
				MovementType: entity.MovementTransferIn,
				QtyDelta:     alloc.Qty,
				CreatedBy:    userID,
			}
			if err := s.moves.Create(tx, inMovement); err != nil {
				return nil, fmt.Errorf("create transfer_in movement: %w", err)
			}

			lineCost := alloc.Batch.UnitCost.Mul(decimal.NewFromInt(alloc.Qty))
			result.Allocations = append(result.Allocations, AllocationLine{
				BatchID: dest.ID, Qty: alloc.Qty,
				UnitCost: alloc.Batch.UnitCost, TotalCost: lineCost,
			})
			result.MovementIDs = append(result.MovementIDs, outMovement.ID, inMovement.ID)
			result.TotalCost = result.TotalCost.Add(lineCost)
		}
		result.Message = fmt.Sprintf("transferred %d of %s from %s to %s", req.Qty, part.PartNumber, fromLocation.Name, toLocation.Name)
		return result, nil
	})
	if err == nil {
		s.invalidateOnHand(ctx, req.PartID, req.FromLocationID)
		s.invalidateOnHand(ctx, req.PartID, req.ToLocationID)
	}
	return result, err
}

// RTVRequest 退回供应商请求
type RTVRequest struct {
	PartID         string `json:"part_id" binding:"required"`
	LocationID     string `json:"location_id" binding:"required"`
	Qty            int64  `json:"qty" binding:"required"`
	ReceiptID      string `json:"receipt_id"`
	IdempotencyKey string `json:"idempotency_key"`
}

// ReturnToVendor 退回供应商：与发料相同的 FIFO 消耗，但无工单，产生 rtv_out 台账
func (s *InventoryService) ReturnToVendor(ctx context.Context, req RTVRequest, userID string) (*OperationResult, error) {
	if req.Qty <= 0 {
		return nil, &entity.ValidationError{Msg: "quantity must be positive"}
	}

	result, err := s.runKeyed(ctx, entity.OpRTV, req.IdempotencyKey, req, userID, func(tx *gorm.DB) (*OperationResult, error) {
		part, err := s.resolvePart(tx, req.PartID)
		if err != nil {
			return nil, err
		}
		location, err := s.resolveLocation(tx, req.LocationID)
		if err != nil {
			return nil, err
		}

		allocations, err := allocateFIFO(tx, s.batches, part, location.ID, req.Qty)
		if err != nil {
			return nil, err
		}

		result := &OperationResult{Success: true, TotalCost: decimal.Zero}
		for _, alloc := range allocations {
			if err := s.batches.AddOnHand(tx, alloc.Batch.ID, -alloc.Qty); err != nil {
				return nil, fmt.Errorf("decrement batch: %w", err)
			}
			movement := &entity.PartMovement{
				PartID:         part.ID,
				BatchID:        &alloc.Batch.ID,
				FromLocationID: &location.ID,
				MovementType:   entity.MovementRTVOut,
				QtyDelta:       -alloc.Qty,
				ReceiptID:      optional(req.ReceiptID),
				CreatedBy:      userID,
			}
			if err := s.moves.Create(tx, movement); err != nil {
				return nil, fmt.Errorf("create movement: %w", err)
			}
			lineCost := alloc.Batch.UnitCost.Mul(decimal.NewFromInt(alloc.Qty))
			result.Allocations = append(result.Allocations, AllocationLine{
				BatchID: alloc.Batch.ID, Qty: alloc.Qty,
				UnitCost: alloc.Batch.UnitCost, TotalCost: lineCost,
			})
			result.MovementIDs = append(result.MovementIDs, movement.ID)
			result.TotalCost = result.TotalCost.Add(lineCost)
		}
		result.Message = fmt.Sprintf("returned %d of %s to vendor", req.Qty, part.PartNumber)
		return result, nil
	})
	if err == nil {
		s.invalidateOnHand(ctx, req.PartID, req.LocationID)
	}
	return result, err
}

// AdjustRequest 人工调整请求：对单个批次的带符号修正
type AdjustRequest struct {
	BatchID        string `json:"batch_id" binding:"required"`
	QtyDelta       int64  `json:"qty_delta" binding:"required"`
	Reason         string `json:"reason" binding:"required"`
	IdempotencyKey string `json:"idempotency_key"`
}

// Adjust 人工调整单个批次数量，产生 adjustment 台账
func (s *InventoryService) Adjust(ctx context.Context, req AdjustRequest, userID string) (*OperationResult, error) {
	if req.QtyDelta == 0 {
		return nil, &entity.ValidationError{Msg: "adjustment delta must be non-zero"}
	}
	var touched *entity.InventoryBatch
	result, err := s.runKeyed(ctx, entity.OpAdjust, req.IdempotencyKey, req, userID, func(tx *gorm.DB) (*OperationResult, error) {
		batch, err := s.lockBatch(tx, req.BatchID)
		if err != nil {
			return nil, err
		}
		touched = batch
		return s.applyAdjustment(tx, batch, req.QtyDelta, entity.MovementAdjustment, req.Reason, userID)
	})
	if err == nil && touched != nil {
		s.invalidateOnHand(ctx, touched.PartID, touched.LocationID)
	}
	return result, err
}

// CountAdjustRequest 盘点调整请求：把批次在库数量校正到实盘值
type CountAdjustRequest struct {
	BatchID        string `json:"batch_id" binding:"required"`
	CountedQty     int64  `json:"counted_qty"`
	Reason         string `json:"reason" binding:"required"`
	IdempotencyKey string `json:"idempotency_key"`
}

// CountAdjust 盘点调整：delta = 实盘 - 在库，产生 count_adjust 台账；无差异则不写台账
func (s *InventoryService) CountAdjust(ctx context.Context, req CountAdjustRequest, userID string) (*OperationResult, error) {
	if req.CountedQty < 0 {
		return nil, &entity.ValidationError{Msg: "counted quantity cannot be negative"}
	}
	var touched *entity.InventoryBatch
	result, err := s.runKeyed(ctx, entity.OpCountAdjust, req.IdempotencyKey, req, userID, func(tx *gorm.DB) (*OperationResult, error) {
		batch, err := s.lockBatch(tx, req.BatchID)
		if err != nil {
			return nil, err
		}
		touched = batch
		delta := req.CountedQty - batch.QtyOnHand
		if delta == 0 {
			return &OperationResult{Success: true, Message: "count matches, no adjustment"}, nil
		}
		return s.applyAdjustment(tx, batch, delta, entity.MovementCountAdjust, req.Reason, userID)
	})
	if err == nil && touched != nil {
		s.invalidateOnHand(ctx, touched.PartID, touched.LocationID)
	}
	return result, err
}

func (s *InventoryService) lockBatch(tx *gorm.DB, batchID string) (*entity.InventoryBatch, error) {
	batch, err := s.batches.GetForUpdate(tx, batchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &entity.ValidationError{Msg: "batch not found"}
		}
		return nil, fmt.Errorf("lock batch: %w", err)
	}
	return batch, nil
}

func (s *InventoryService) applyAdjustment(tx *gorm.DB, batch *entity.InventoryBatch, delta int64, movementType, reason, userID string) (*OperationResult, error) {
	if batch.QtyOnHand+delta < 0 {
		part, err := s.parts.GetByID(tx, batch.PartID)
		if err != nil {
			return nil, fmt.Errorf("resolve part: %w", err)
		}
		return nil, &entity.InsufficientStockError{
			PartNumber: part.PartNumber,
			Requested:  -delta,
			Available:  batch.QtyOnHand,
		}
	}
	if err := s.batches.AddOnHand(tx, batch.ID, delta); err != nil {
		return nil, fmt.Errorf("adjust batch: %w", err)
	}
	movement := &entity.PartMovement{
		PartID:       batch.PartID,
		BatchID:      &batch.ID,
		MovementType: movementType,
		QtyDelta:     delta,
		Notes:        reason,
		CreatedBy:    userID,
	}
	if delta > 0 {
		movement.ToLocationID = &batch.LocationID
	} else {
		movement.FromLocationID = &batch.LocationID
	}
	if err := s.moves.Create(tx, movement); err != nil {
		return nil, fmt.Errorf("create movement: %w", err)
	}
	return &OperationResult{
		Success:     true,
		MovementIDs: []string{movement.ID},
		Message:     fmt.Sprintf("adjusted batch %s by %d", batch.ID, delta),
	}, nil
}

func (s *InventoryService) resolvePart(tx *gorm.DB, id string) (*entity.Part, error) {
	part, err := s.parts.GetByID(tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &entity.ValidationError{Msg: "part not found"}
		}
		return nil, fmt.Errorf("resolve part: %w", err)
	}
	return part, nil
}

func (s *InventoryService) resolveLocation(tx *gorm.DB, id string) (*entity.Location, error) {
	var location entity.Location
	if err := tx.Where("id = ?", id).First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &entity.ValidationError{Msg: "location not found"}
		}
		return nil, fmt.Errorf("resolve location: %w", err)
	}
	return &location, nil
}

func (s *InventoryService) resolveWorkOrder(tx *gorm.DB, id string) (*entity.WorkOrder, error) {
	var workOrder entity.WorkOrder
	if err := tx.Where("id = ?", id).First(&workOrder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &entity.ValidationError{Msg: "work order not found"}
		}
		return nil, fmt.Errorf("resolve work order: %w", err)
	}
	return &workOrder, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
