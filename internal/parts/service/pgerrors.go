package service

import (
	"errors"

	"github.com/MOE349/tenmil-backend/internal/parts/entity"
	"github.com/jackc/pgx/v5/pgconn"
)

// 行锁相关的 SQLSTATE：死锁、序列化失败、NOWAIT 拿锁失败。
// 这类错误事务已回滚且重试即可恢复，对调用方统一表现为并发冲突
const (
	pgDeadlockDetected     = "40P01"
	pgSerializationFailure = "40001"
	pgLockNotAvailable     = "55P03"
)

// translateLockError 把数据库层的锁错误翻译为可重试的并发冲突错误，
// 其余错误原样返回
func translateLockError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgDeadlockDetected, pgSerializationFailure, pgLockNotAvailable:
		return &entity.ConcurrentModificationError{Msg: "conflicting concurrent transaction, retry the operation"}
	}
	return err
}
