package handler

import (
	"errors"
	"strconv"

	"github.com/MOE349/tenmil-backend/internal/parts/entity"
	"github.com/MOE349/tenmil-backend/internal/parts/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handlers 处理器集合
type Handlers struct {
	Inventory   *InventoryHandler
	PartRequest *PartRequestHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Inventory:   NewInventoryHandler(svc.Inventory),
		PartRequest: NewPartRequestHandler(svc.PartRequest),
	}
}

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Errors  []string    `json:"errors,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse 列表响应结构
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// Pagination 分页信息
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Success: true,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Success: true,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应，HTTP 状态码取业务码前三位
func Error(c *gin.Context, code int, message string) {
	ErrorWithData(c, code, message, nil)
}

// ErrorWithData 带附加数据的错误响应
func ErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Success: false,
		Message: message,
		Errors:  []string{message},
		Data:    data,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// Unauthorized 未授权响应
func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// Conflict 业务状态冲突响应
func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// HandleError 领域错误到响应的统一映射
func HandleError(c *gin.Context, err error) {
	var validationErr *entity.ValidationError
	var stockErr *entity.InsufficientStockError
	var invalidOpErr *entity.InvalidOperationError
	var idemErr *entity.IdempotencyConflictError
	var concurrentErr *entity.ConcurrentModificationError

	switch {
	case errors.As(err, &validationErr):
		BadRequest(c, validationErr.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, "record not found")
	case errors.As(err, &stockErr):
		ErrorWithData(c, 40900, stockErr.Error(), gin.H{
			"part_number": stockErr.PartNumber,
			"requested":   stockErr.Requested,
			"available":   stockErr.Available,
			"contended":   stockErr.Contended,
		})
	case errors.As(err, &invalidOpErr):
		Conflict(c, invalidOpErr.Error())
	case errors.As(err, &idemErr):
		Conflict(c, idemErr.Error())
	case errors.As(err, &concurrentErr):
		Conflict(c, concurrentErr.Error())
	default:
		InternalError(c, err.Error())
	}
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// QueryInt 读取整型查询参数，缺失或非法返回默认值
func QueryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// QueryInt64 读取 int64 查询参数
func QueryInt64(c *gin.Context, key string, def int64) int64 {
	if v := c.Query(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}
