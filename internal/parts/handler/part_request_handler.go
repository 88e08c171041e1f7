package handler

import (
	"github.com/MOE349/tenmil-backend/internal/parts/repository"
	"github.com/MOE349/tenmil-backend/internal/parts/service"
	"github.com/gin-gonic/gin"
)

// PartRequestHandler 零件申请处理器
type PartRequestHandler struct {
	svc *service.PartRequestService
}

func NewPartRequestHandler(svc *service.PartRequestService) *PartRequestHandler {
	return &PartRequestHandler{svc: svc}
}

// Create POST /part-requests
func (h *PartRequestHandler) Create(c *gin.Context) {
	var req service.CreatePartRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	request, err := h.svc.Create(c.Request.Context(), req, GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, request)
}

// Get GET /part-requests/:id
func (h *PartRequestHandler) Get(c *gin.Context) {
	request, err := h.svc.Get(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, request)
}

// List GET /part-requests
func (h *PartRequestHandler) List(c *gin.Context) {
	params := repository.PartRequestListParams{
		WorkOrderID: c.Query("work_order_id"),
		PartID:      c.Query("part_id"),
		Status:      c.Query("status"),
		Page:        QueryInt(c, "page", 1),
		Size:        QueryInt(c, "page_size", 20),
	}
	requests, total, err := h.svc.List(params)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, ListResponse{
		Items:      requests,
		Pagination: paginate(params.Page, params.Size, total),
	})
}

// MarkAvailable POST /part-requests/:id/available
func (h *PartRequestHandler) MarkAvailable(c *gin.Context) {
	var req service.MarkAvailableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	request, err := h.svc.MarkAvailable(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, request)
}

// MarkOrdered POST /part-requests/:id/ordered
func (h *PartRequestHandler) MarkOrdered(c *gin.Context) {
	var req service.MarkOrderedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	request, err := h.svc.MarkOrdered(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, request)
}

// Deliver POST /part-requests/:id/deliver
func (h *PartRequestHandler) Deliver(c *gin.Context) {
	var req service.DeliverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	request, err := h.svc.Deliver(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, request)
}

// Cancel POST /part-requests/:id/cancel，请求体可省略
func (h *PartRequestHandler) Cancel(c *gin.Context) {
	var req service.CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, err.Error())
			return
		}
	}
	result, err := h.svc.Cancel(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, result)
}
