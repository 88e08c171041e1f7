package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/MOE349/tenmil-backend/internal/parts/entity"
	"github.com/MOE349/tenmil-backend/internal/parts/repository"
	"gorm.io/gorm"
)

// errIdempotencyRace 并发写入同一幂等键时由落败方抛出，
// 事务回滚后在事务外读回胜者的结果重放
var errIdempotencyRace = errors.New("idempotency record inserted concurrently")

// IdempotencyGuard 幂等守卫：同一 (操作类型, 键) 的操作只执行一次。
// 命中时比对请求载荷，不一致视为调用方缺陷而非静默重放。
type IdempotencyGuard struct {
	repo *repository.IdempotencyRepository
}

func NewIdempotencyGuard(repo *repository.IdempotencyRepository) *IdempotencyGuard {
	return &IdempotencyGuard{repo: repo}
}

// Check 事务内查找幂等记录。未命中返回 (nil, nil)；
// 命中且载荷一致返回缓存结果；载荷不一致返回 IdempotencyConflictError。
func (g *IdempotencyGuard) Check(tx *gorm.DB, operationType, key string, req interface{}) (*OperationResult, error) {
	record, err := g.repo.Get(tx, operationType, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup idempotency record: %w", err)
	}
	return g.replay(record, operationType, key, req)
}

// Record 执行成功后在同一事务内写入幂等记录；
// 唯一约束冲突说明并发方已写入，由调用方回滚后重放
func (g *IdempotencyGuard) Record(tx *gorm.DB, operationType, key string, req interface{}, result *OperationResult, userID string) error {
	reqData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request payload: %w", err)
	}
	respData, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal response payload: %w", err)
	}
	record := &entity.IdempotencyRecord{
		Key:           key,
		OperationType: operationType,
		RequestData:   entity.JSON(reqData),
		ResponseData:  entity.JSON(respData),
		CreatedBy:     userID,
	}
	if err := g.repo.Create(tx, record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errIdempotencyRace
		}
		return fmt.Errorf("create idempotency record: %w", err)
	}
	return nil
}

// Replay 事务外读回已提交的幂等记录并重放其结果（并发落败方使用）
func (g *IdempotencyGuard) Replay(operationType, key string, req interface{}) (*OperationResult, error) {
	record, err := g.repo.Get(g.repo.DB(), operationType, key)
	if err != nil {
		return nil, fmt.Errorf("reread idempotency record: %w", err)
	}
	return g.replay(record, operationType, key, req)
}

func (g *IdempotencyGuard) replay(record *entity.IdempotencyRecord, operationType, key string, req interface{}) (*OperationResult, error) {
	incoming, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request payload: %w", err)
	}
	if !jsonEqual(incoming, []byte(record.RequestData)) {
		return nil, &entity.IdempotencyConflictError{Key: key, OperationType: operationType}
	}
	var result OperationResult
	if err := json.Unmarshal([]byte(record.ResponseData), &result); err != nil {
		return nil, fmt.Errorf("unmarshal stored result: %w", err)
	}
	result.Idempotent = true
	return &result, nil
}

// jsonEqual 语义比较两个 JSON 文档；jsonb 存储会规范化键序与空白，逐字节比较不可靠
func jsonEqual(a, b []byte) bool {
	var av, bv interface{}
	if err := json.Unmarshal(a, &av); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bv); err != nil {
		return false
	}
	return reflect.DeepEqual(av, bv)
}
