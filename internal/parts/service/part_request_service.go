package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MOE349/tenmil-backend/internal/parts/entity"
	"github.com/MOE349/tenmil-backend/internal/parts/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PartRequestService 零件申请服务：申请、备料、下单、交付与统一取消
type PartRequestService struct {
	db       *gorm.DB
	requests *repository.PartRequestRepository
	batches  *repository.BatchRepository
	parts    *repository.PartRepository
	logger   *zap.Logger
}

func NewPartRequestService(repos *repository.Repositories, db *gorm.DB, logger *zap.Logger) *PartRequestService {
	return &PartRequestService{
		db:       db,
		requests: repos.PartRequest,
		batches:  repos.Batch,
		parts:    repos.Part,
		logger:   logger,
	}
}

// CreatePartRequestRequest 新建零件申请
type CreatePartRequestRequest struct {
	WorkOrderID string `json:"work_order_id" binding:"required"`
	PartID      string `json:"part_id" binding:"required"`
	LocationID  string `json:"location_id"`
	QtyNeeded   int64  `json:"qty_needed" binding:"required"`
	Notes       string `json:"notes"`
}

// Create 新建申请并立即进入 REQUESTED
func (s *PartRequestService) Create(ctx context.Context, req CreatePartRequestRequest, userID string) (*entity.PartRequest, error) {
	request := &entity.PartRequest{
		WorkOrderID: req.WorkOrderID,
		PartID:      req.PartID,
		LocationID:  optional(req.LocationID),
		Status:      entity.RequestStatusNew,
		Notes:       req.Notes,
		CreatedBy:   userID,
	}
	if err := request.MarkRequested(req.QtyNeeded); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var part entity.Part
		if err := tx.Where("id = ?", req.PartID).First(&part).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &entity.ValidationError{Msg: "part not found"}
			}
			return fmt.Errorf("resolve part: %w", err)
		}
		var workOrder entity.WorkOrder
		if err := tx.Where("id = ?", req.WorkOrderID).First(&workOrder).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &entity.ValidationError{Msg: "work order not found"}
			}
			return fmt.Errorf("resolve work order: %w", err)
		}
		return s.requests.Create(tx, request)
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// MarkAvailableRequest 备料：从指定批次为申请预留数量
type MarkAvailableRequest struct {
	BatchID string `json:"batch_id" binding:"required"`
	Qty     int64  `json:"qty" binding:"required"`
}

// MarkAvailable 备料：锁定批次，校验零件一致与可用量充足，增加预留
func (s *PartRequestService) MarkAvailable(ctx context.Context, requestID string, req MarkAvailableRequest) (*entity.PartRequest, error) {
	var request *entity.PartRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		request, err = s.lockRequest(tx, requestID)
		if err != nil {
			return err
		}
		batch, err := s.batches.GetForUpdate(tx, req.BatchID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &entity.ValidationError{Msg: "batch not found"}
			}
			return fmt.Errorf("lock batch: %w", err)
		}
		if batch.PartID != request.PartID {
			return &entity.InvalidOperationError{Msg: "batch holds a different part"}
		}
		if req.Qty > batch.QtyAvailable() {
			part, perr := s.parts.GetByID(tx, request.PartID)
			if perr != nil {
				return fmt.Errorf("resolve part: %w", perr)
			}
			return &entity.InsufficientStockError{
				PartNumber: part.PartNumber,
				Requested:  req.Qty,
				Available:  batch.QtyAvailable(),
			}
		}
		if err := request.MarkAvailable(batch.ID, req.Qty); err != nil {
			return err
		}
		if err := s.batches.AddReserved(tx, batch.ID, req.Qty); err != nil {
			return fmt.Errorf("reserve stock: %w", err)
		}
		return s.requests.Save(tx, request)
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// MarkOrderedRequest 下采购单
type MarkOrderedRequest struct {
	Qty int64 `json:"qty" binding:"required"`
}

// MarkOrdered 申请进入已下单状态
func (s *PartRequestService) MarkOrdered(ctx context.Context, requestID string, req MarkOrderedRequest) (*entity.PartRequest, error) {
	var request *entity.PartRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		request, err = s.lockRequest(tx, requestID)
		if err != nil {
			return err
		}
		if err := request.MarkOrdered(req.Qty); err != nil {
			return err
		}
		return s.requests.Save(tx, request)
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// DeliverRequest 交付
type DeliverRequest struct {
	Qty int64 `json:"qty"`
}

// Deliver 交付申请的零件并释放预留。
// 当申请处于取消待确认状态时，同一入口完成取消确认而非交付。
func (s *PartRequestService) Deliver(ctx context.Context, requestID string, req DeliverRequest) (*entity.PartRequest, error) {
	var request *entity.PartRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		request, err = s.lockRequest(tx, requestID)
		if err != nil {
			return err
		}
		if request.Status == entity.RequestStatusCancelledAwaitingAck {
			if err := request.AcknowledgeCancel(); err != nil {
				return err
			}
			return s.requests.Save(tx, request)
		}
		qty := req.Qty
		if qty == 0 {
			qty = request.QtyAvailable + request.QtyOrdered
		}
		if err := request.MarkDelivered(qty); err != nil {
			return err
		}
		if err := s.releaseReservation(tx, request); err != nil {
			return err
		}
		return s.requests.Save(tx, request)
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// CancelRequest 取消申请的可选输入
type CancelRequest struct {
	Notes string `json:"notes"`
}

// CancelResult 统一取消的 API 结果，含派生布尔投影
type CancelResult struct {
	CancelType   string `json:"cancel_type"`
	Status       string `json:"status"`
	IsRequested  bool   `json:"is_requested"`
	IsAvailable  bool   `json:"is_available"`
	IsOrdered    bool   `json:"is_ordered"`
	IsDelivered  bool   `json:"is_delivered"`
	QtyNeeded    int64  `json:"qty_needed"`
	QtyAvailable int64  `json:"qty_available"`
}

// Cancel 统一取消入口：按当前状态自动选择分支，释放已有的库存预留，
// 可选的取消备注追加到申请备注
func (s *PartRequestService) Cancel(ctx context.Context, requestID string, req CancelRequest) (*CancelResult, error) {
	var result *CancelResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		request, err := s.lockRequest(tx, requestID)
		if err != nil {
			return err
		}
		outcome, err := request.Cancel()
		if err != nil {
			return err
		}
		if req.Notes != "" {
			if request.Notes != "" {
				request.Notes += "\n"
			}
			request.Notes += req.Notes
		}
		if outcome.ReleaseFrom != "" && outcome.ReleaseQty > 0 {
			if err := s.releaseFromBatch(tx, outcome.ReleaseFrom, outcome.ReleaseQty); err != nil {
				return err
			}
		}
		if err := s.requests.Save(tx, request); err != nil {
			return err
		}
		result = &CancelResult{
			CancelType:   outcome.CancelType,
			Status:       request.Status,
			IsRequested:  request.IsRequested(),
			IsAvailable:  request.IsAvailable(),
			IsOrdered:    request.IsOrdered(),
			IsDelivered:  request.IsDelivered(),
			QtyNeeded:    request.QtyNeeded,
			QtyAvailable: request.QtyAvailable,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Get 查询单个申请
func (s *PartRequestService) Get(id string) (*entity.PartRequest, error) {
	request, err := s.requests.GetByID(s.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get part request: %w", err)
	}
	return request, nil
}

// List 申请分页查询
func (s *PartRequestService) List(params repository.PartRequestListParams) ([]entity.PartRequest, int64, error) {
	return s.requests.List(params)
}

func (s *PartRequestService) lockRequest(tx *gorm.DB, id string) (*entity.PartRequest, error) {
	request, err := s.requests.GetForUpdate(tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &entity.ValidationError{Msg: "part request not found"}
		}
		return nil, fmt.Errorf("lock part request: %w", err)
	}
	return request, nil
}

// releaseReservation 释放申请在批次上的预留（交付或取消后调用）
func (s *PartRequestService) releaseReservation(tx *gorm.DB, request *entity.PartRequest) error {
	if request.BatchID == nil || request.QtyAvailable <= 0 {
		return nil
	}
	return s.releaseFromBatch(tx, *request.BatchID, request.QtyAvailable)
}

func (s *PartRequestService) releaseFromBatch(tx *gorm.DB, batchID string, qty int64) error {
	batch, err := s.batches.GetForUpdate(tx, batchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 批次可能已被盘点清理，预留无从释放，记录后继续
			s.logger.Warn("reservation batch missing", zap.String("batch_id", batchID))
			return nil
		}
		return fmt.Errorf("lock batch: %w", err)
	}
	release := qty
	if release > batch.QtyReserved {
		release = batch.QtyReserved
	}
	if release <= 0 {
		return nil
	}
	if err := s.batches.AddReserved(tx, batch.ID, -release); err != nil {
		return fmt.Errorf("release reservation: %w", err)
	}
	return nil
}
