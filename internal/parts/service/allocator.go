package service

import (
	"fmt"

	"github.com/MOE349/tenmil-backend/internal/parts/entity"
	"github.com/MOE349/tenmil-backend/internal/parts/repository"
	"gorm.io/gorm"
)

// allocation FIFO 分配出的单个批次片段
type allocation struct {
	Batch *entity.InventoryBatch
	Qty   int64
}

// allocateFIFO 在 (part, location) 上按最旧优先确定性地选取批次：
// 接收日期升序、ID 升序打破并列，锁不到的批次跳过（SKIP LOCKED），
// 逐批贪心取 min(剩余需求, 批次在库)。锁定批次不足以满足需求时整体失败，
// 不产生部分分配；若未锁定的行本可满足，错误标记 Contended 供调用方重试。
func allocateFIFO(tx *gorm.DB, batches *repository.BatchRepository, part *entity.Part, locationID string, qty int64) ([]allocation, error) {
	candidates, err := batches.ListForAllocation(tx, part.ID, locationID)
	if err != nil {
		return nil, fmt.Errorf("list allocation candidates: %w", err)
	}

	var allocations []allocation
	remaining := qty
	var lockedTotal int64
	for i := range candidates {
		batch := &candidates[i]
		lockedTotal += batch.QtyOnHand
		if remaining <= 0 {
			continue
		}
		take := remaining
		if batch.QtyOnHand < take {
			take = batch.QtyOnHand
		}
		allocations = append(allocations, allocation{Batch: batch, Qty: take})
		remaining -= take
	}

	if remaining > 0 {
		// 区分真实缺货与锁竞争：不加锁统计全部在库量
		totalOnHand, sumErr := batches.TotalOnHand(tx, part.ID, locationID)
		if sumErr != nil {
			return nil, fmt.Errorf("sum on-hand: %w", sumErr)
		}
		return nil, &entity.InsufficientStockError{
			PartNumber: part.PartNumber,
			Requested:  qty,
			Available:  lockedTotal,
			Contended:  totalOnHand >= qty,
		}
	}
	return allocations, nil
}
