package entity

import "fmt"

// 库存核心的业务错误类型。分配器、状态机与服务层抛出类型化错误，
// 服务层保证事务回滚后原样上抛，由 HTTP 层映射状态码。

// ValidationError 输入不合法，调用方修正前重试无意义
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// InsufficientStockError 库存不足。Contended 为 true 表示未加锁的行
// 本可满足请求，因跳过被锁批次而不足，调用方可重试。
type InsufficientStockError struct {
	PartNumber string
	Requested  int64
	Available  int64
	Contended  bool
}

func (e *InsufficientStockError) Error() string {
	msg := fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.PartNumber, e.Requested, e.Available)
	if e.Contended {
		msg += " (lock contention, retryable)"
	}
	return msg
}

// InvalidOperationError 违反业务规则的操作（同库位调拨、下单后取消等）
type InvalidOperationError struct {
	Msg string
}

func (e *InvalidOperationError) Error() string {
	return e.Msg
}

// IdempotencyConflictError 同一幂等键携带了不同的请求载荷，属调用方缺陷
type IdempotencyConflictError struct {
	Key           string
	OperationType string
}

func (e *IdempotencyConflictError) Error() string {
	return fmt.Sprintf("idempotency key %q already used for %s with a different payload", e.Key, e.OperationType)
}

// ConcurrentModificationError 并发事务导致的约束冲突或锁冲突，可重试
type ConcurrentModificationError struct {
	Msg string
}

func (e *ConcurrentModificationError) Error() string {
	return e.Msg
}
