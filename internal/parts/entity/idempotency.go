package entity

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// OperationType 幂等操作类型
const (
	OpReceive     = "receive"
	OpIssue       = "issue"
	OpReturn      = "return"
	OpTransfer    = "transfer"
	OpRTV         = "rtv"
	OpAdjust      = "adjust"
	OpCountAdjust = "count_adjust"
)

// JSON jsonb 列的原始载荷
type JSON json.RawMessage

func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return []byte(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
	case string:
		*j = JSON(v)
	}
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return []byte(j), nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	*j = append((*j)[0:0], data...)
	return nil
}

// IdempotencyRecord 幂等记录：同一 (operation_type, key) 只执行一次，
// 重放请求直接返回存储的结果；同 key 不同载荷视为调用方错误。
type IdempotencyRecord struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Key           string    `json:"key" gorm:"size:255;not null;uniqueIndex:idx_idem_op_key,priority:2"`
	OperationType string    `json:"operation_type" gorm:"size:50;not null;uniqueIndex:idx_idem_op_key,priority:1;index:idx_idem_op_created,priority:1"`
	RequestData   JSON      `json:"request_data" gorm:"type:jsonb;not null"`
	ResponseData  JSON      `json:"response_data" gorm:"type:jsonb"`
	CreatedBy     string    `json:"created_by" gorm:"size:64;not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"index:idx_idem_op_created,priority:2"`
}

func (IdempotencyRecord) TableName() string {
	return "idempotency_records"
}
