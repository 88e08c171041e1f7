package handler

import (
	"time"

	"github.com/MOE349/tenmil-backend/internal/parts/repository"
	"github.com/MOE349/tenmil-backend/internal/parts/service"
	"github.com/gin-gonic/gin"
)

// InventoryHandler 库存操作处理器
type InventoryHandler struct {
	svc *service.InventoryService
}

func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// Receive POST /inventory/receive
func (h *InventoryHandler) Receive(c *gin.Context) {
	var req service.ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	result, err := h.svc.Receive(c.Request.Context(), req, GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, result)
}

// Issue POST /inventory/issue
func (h *InventoryHandler) Issue(c *gin.Context) {
	var req service.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	result, err := h.svc.Issue(c.Request.Context(), req, GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, result)
}

// Return POST /inventory/return
func (h *InventoryHandler) Return(c *gin.Context) {
	var req service.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	result, err := h.svc.Return(c.Request.Context(), req, GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, result)
}

// Transfer POST /inventory/transfer
func (h *InventoryHandler) Transfer(c *gin.Context) {
	var req service.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	result, err := h.svc.Transfer(c.Request.Context(), req, GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, result)
}

// ReturnToVendor POST /inventory/rtv
func (h *InventoryHandler) ReturnToVendor(c *gin.Context) {
	var req service.RTVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	result, err := h.svc.ReturnToVendor(c.Request.Context(), req, GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, result)
}

// Adjust POST /inventory/adjust
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req service.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	result, err := h.svc.Adjust(c.Request.Context(), req, GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, result)
}

// CountAdjust POST /inventory/count-adjust
func (h *InventoryHandler) CountAdjust(c *gin.Context) {
	var req service.CountAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	result, err := h.svc.CountAdjust(c.Request.Context(), req, GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, result)
}

// OnHand GET /inventory/on-hand
func (h *InventoryHandler) OnHand(c *gin.Context) {
	rows, err := h.svc.OnHand(c.Request.Context(), c.Query("part_id"), c.Query("location_id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, rows)
}

// PartLocations GET /parts/:id/locations
func (h *InventoryHandler) PartLocations(c *gin.Context) {
	rows, err := h.svc.PartLocationsOnHand(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, rows)
}

// ListParts GET /parts
func (h *InventoryHandler) ListParts(c *gin.Context) {
	params := repository.PartListParams{
		Keyword:  c.Query("keyword"),
		Category: c.Query("category"),
		Make:     c.Query("make"),
		Page:     QueryInt(c, "page", 1),
		Size:     QueryInt(c, "page_size", 20),
	}
	parts, total, err := h.svc.ListParts(params)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, ListResponse{
		Items:      parts,
		Pagination: paginate(params.Page, params.Size, total),
	})
}

// ListBatches GET /inventory/batches
func (h *InventoryHandler) ListBatches(c *gin.Context) {
	params := repository.BatchListParams{
		PartID:     c.Query("part_id"),
		LocationID: c.Query("location_id"),
		NonZero:    c.Query("non_zero") == "true",
		Page:       QueryInt(c, "page", 1),
		Size:       QueryInt(c, "page_size", 20),
	}
	batches, total, err := h.svc.ListBatches(params)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, ListResponse{
		Items:      batches,
		Pagination: paginate(params.Page, params.Size, total),
	})
}

// ListMovements GET /inventory/movements
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	filter := movementFilterFromQuery(c)
	movements, err := h.svc.ListMovements(filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, movements)
}

// ExportMovements GET /inventory/movements/export
func (h *InventoryHandler) ExportMovements(c *gin.Context) {
	filter := movementFilterFromQuery(c)
	f, filename, err := h.svc.ExportMovements(filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}

// WorkOrderParts GET /work-orders/:id/parts
func (h *InventoryHandler) WorkOrderParts(c *gin.Context) {
	summary, err := h.svc.WorkOrderParts(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, summary)
}

func movementFilterFromQuery(c *gin.Context) repository.MovementFilter {
	filter := repository.MovementFilter{
		PartID:       c.Query("part_id"),
		LocationID:   c.Query("location_id"),
		WorkOrderID:  c.Query("work_order_id"),
		MovementType: c.Query("movement_type"),
		Limit:        QueryInt(c, "limit", 0),
	}
	if v := c.Query("from_date"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.FromDate = &t
		}
	}
	if v := c.Query("to_date"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.ToDate = &t
		}
	}
	return filter
}

func paginate(page, pageSize int, total int64) *Pagination {
	if pageSize <= 0 {
		pageSize = 20
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      int(total),
		TotalPages: totalPages,
	}
}
