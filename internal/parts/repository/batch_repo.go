package repository

import (
	"errors"

	"github.com/MOE349/tenmil-backend/internal/parts/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BatchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

func (r *BatchRepository) Create(tx *gorm.DB, batch *entity.InventoryBatch) error {
	return tx.Create(batch).Error
}

func (r *BatchRepository) GetByID(tx *gorm.DB, id string) (*entity.InventoryBatch, error) {
	var batch entity.InventoryBatch
	err := tx.Where("id = ?", id).First(&batch).Error
	return &batch, err
}

// GetForUpdate 锁定单个批次行
func (r *BatchRepository) GetForUpdate(tx *gorm.DB, id string) (*entity.InventoryBatch, error) {
	var batch entity.InventoryBatch
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&batch).Error
	return &batch, err
}

// AddReceived 调拨新建目标批次时补记原始接收数量
func (r *BatchRepository) AddReceived(tx *gorm.DB, id string, delta int64) error {
	return tx.Model(&entity.InventoryBatch{}).Where("id = ?", id).
		Update("qty_received", gorm.Expr("qty_received + ?", delta)).Error
}

// ListForAllocation FIFO 候选批次：qty_on_hand > 0，接收日期升序（ID 升序打破并列），
// SKIP LOCKED 跳过被并发事务锁定的行而不等待，换取无死锁
func (r *BatchRepository) ListForAllocation(tx *gorm.DB, partID, locationID string) ([]entity.InventoryBatch, error) {
	var batches []entity.InventoryBatch
	err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("part_id = ? AND location_id = ? AND qty_on_hand > 0", partID, locationID).
		Order("received_at ASC, id ASC").
		Find(&batches).Error
	return batches, err
}

// ListForReturn 退料候选批次：包含数量归零的批次，最旧优先
func (r *BatchRepository) ListForReturn(tx *gorm.DB, partID, locationID string) ([]entity.InventoryBatch, error) {
	var batches []entity.InventoryBatch
	err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("part_id = ? AND location_id = ?", partID, locationID).
		Order("received_at ASC, id ASC").
		Find(&batches).Error
	return batches, err
}

// TotalOnHand (part, location) 的在库总量，不加锁
func (r *BatchRepository) TotalOnHand(tx *gorm.DB, partID, locationID string) (int64, error) {
	var result struct{ Total int64 }
	err := tx.Raw(`
		SELECT COALESCE(SUM(qty_on_hand), 0) AS total
		FROM inventory_batches
		WHERE part_id = ? AND location_id = ?
	`, partID, locationID).Scan(&result).Error
	return result.Total, err
}

// CountBatches (part, location) 的批次总数（含零数量批次）
func (r *BatchRepository) CountBatches(tx *gorm.DB, partID, locationID string) (int64, error) {
	var count int64
	err := tx.Model(&entity.InventoryBatch{}).
		Where("part_id = ? AND location_id = ?", partID, locationID).
		Count(&count).Error
	return count, err
}

// AddOnHand 原子增减在库数量；行锁由调用方先行持有
func (r *BatchRepository) AddOnHand(tx *gorm.DB, id string, delta int64) error {
	return tx.Model(&entity.InventoryBatch{}).Where("id = ?", id).
		Update("qty_on_hand", gorm.Expr("qty_on_hand + ?", delta)).Error
}

// AddReserved 原子增减预留数量
func (r *BatchRepository) AddReserved(tx *gorm.DB, id string, delta int64) error {
	return tx.Model(&entity.InventoryBatch{}).Where("id = ?", id).
		Update("qty_reserved", gorm.Expr("qty_reserved + ?", delta)).Error
}

// FindOrCreateDestination 调拨目标批次：同零件、目标库位、原接收日期与原单价，
// 保持 FIFO 顺位与成本基础跨库位不变。已存在则锁行返回。
func (r *BatchRepository) FindOrCreateDestination(tx *gorm.DB, src *entity.InventoryBatch, toLocationID string, aisle, row, bin string) (*entity.InventoryBatch, bool, error) {
	var dest entity.InventoryBatch
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(`part_id = ? AND location_id = ? AND received_at = ? AND unit_cost = ? AND aisle = ? AND "row" = ? AND bin = ?`,
			src.PartID, toLocationID, src.ReceivedAt, src.UnitCost, aisle, row, bin).
		First(&dest).Error
	if err == nil {
		return &dest, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	dest = entity.InventoryBatch{
		PartID:      src.PartID,
		LocationID:  toLocationID,
		QtyOnHand:   0,
		QtyReserved: 0,
		QtyReceived: 0,
		UnitCost:    src.UnitCost,
		ReceivedAt:  src.ReceivedAt,
		Aisle:       aisle,
		Row:         row,
		Bin:         bin,
	}
	if err := tx.Create(&dest).Error; err != nil {
		return nil, false, err
	}
	return &dest, true, nil
}

type BatchListParams struct {
	PartID     string
	LocationID string
	NonZero    bool
	Page       int
	Size       int
}

func (r *BatchRepository) List(params BatchListParams) ([]entity.InventoryBatch, int64, error) {
	query := r.db.Model(&entity.InventoryBatch{})
	if params.PartID != "" {
		query = query.Where("part_id = ?", params.PartID)
	}
	if params.LocationID != "" {
		query = query.Where("location_id = ?", params.LocationID)
	}
	if params.NonZero {
		query = query.Where("qty_on_hand > 0")
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var batches []entity.InventoryBatch
	err := query.Preload("Part").Preload("Location").
		Order("received_at ASC, id ASC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&batches).Error
	return batches, total, err
}

// OnHandRow (零件, 库位) 维度的在库汇总行
type OnHandRow struct {
	PartID        string `json:"part_id"`
	PartNumber    string `json:"part_number"`
	PartName      string `json:"part_name"`
	LocationID    string `json:"location_id"`
	LocationName  string `json:"location_name"`
	TotalOnHand   int64  `json:"total_on_hand"`
	TotalReserved int64  `json:"total_reserved"`
}

// OnHandSummary 按 (零件, 库位) 汇总在库与预留数量
func (r *BatchRepository) OnHandSummary(partID, locationID string) ([]OnHandRow, error) {
	query := r.db.Table("inventory_batches AS b").
		Select(`b.part_id, p.part_number, p.name AS part_name,
			b.location_id, l.name AS location_name,
			SUM(b.qty_on_hand) AS total_on_hand, SUM(b.qty_reserved) AS total_reserved`).
		Joins("JOIN parts p ON p.id = b.part_id").
		Joins("JOIN locations l ON l.id = b.location_id").
		Group("b.part_id, p.part_number, p.name, b.location_id, l.name").
		Having("SUM(b.qty_on_hand) > 0").
		Order("p.part_number ASC, l.name ASC")
	if partID != "" {
		query = query.Where("b.part_id = ?", partID)
	}
	if locationID != "" {
		query = query.Where("b.location_id = ?", locationID)
	}
	var rows []OnHandRow
	err := query.Scan(&rows).Error
	return rows, err
}

// PartLocationRow 单一零件按库位与货位聚合的在库行
type PartLocationRow struct {
	LocationID   string `json:"location_id"`
	LocationName string `json:"location_name"`
	Site         string `json:"site"`
	Aisle        string `json:"aisle"`
	Row          string `json:"row"`
	Bin          string `json:"bin"`
	TotalOnHand  int64  `json:"total_on_hand"`
}

// PartLocationsOnHand 某零件在各库位/货位的在库聚合
func (r *BatchRepository) PartLocationsOnHand(partID string) ([]PartLocationRow, error) {
	var rows []PartLocationRow
	err := r.db.Table("inventory_batches AS b").
		Select(`b.location_id, l.name AS location_name, l.site,
			b.aisle, b."row", b.bin, SUM(b.qty_on_hand) AS total_on_hand`).
		Joins("JOIN locations l ON l.id = b.location_id").
		Where("b.part_id = ?", partID).
		Group(`b.location_id, l.name, l.site, b.aisle, b."row", b.bin`).
		Order(`l.name ASC, b.aisle ASC, b."row" ASC, b.bin ASC`).
		Scan(&rows).Error
	return rows, err
}

// SumDeltaByBatch 台账中引用某批次的 qty_delta 之和，用于对账
func (r *BatchRepository) SumDeltaByBatch(tx *gorm.DB, batchID string) (int64, error) {
	var result struct{ Total int64 }
	err := tx.Raw(`
		SELECT COALESCE(SUM(qty_delta), 0) AS total
		FROM part_movements
		WHERE batch_id = ?
	`, batchID).Scan(&result).Error
	return result.Total, err
}
