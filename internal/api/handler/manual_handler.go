package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ismaelg12/timeflow/internal/dto"
	"github.com/Ismaelg12/timeflow/internal/service"
	"github.com/Ismaelg12/timeflow/pkg/response"
)

// ManualAdjustmentHandler 补录下班 HTTP 处理器
type ManualAdjustmentHandler struct {
	manualSvc service.ManualAdjustmentService
	logger    *zap.Logger
}

// NewManualAdjustmentHandler 创建 ManualAdjustmentHandler
func NewManualAdjustmentHandler(manualSvc service.ManualAdjustmentService, logger *zap.Logger) *ManualAdjustmentHandler {
	return &ManualAdjustmentHandler{manualSvc: manualSvc, logger: logger}
}

// Justifications 补录理由选项
// GET /api/v1/manual-adjustments/justifications
func (h *ManualAdjustmentHandler) Justifications(c *gin.Context) {
	response.OK(c, h.manualSvc.Justifications(c.Request.Context()))
}

// CreateExit 补录下班
// POST /api/v1/manual-adjustments/exits
func (h *ManualAdjustmentHandler) CreateExit(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateManualExitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.manualSvc.CreateManualExit(c.Request.Context(), &req, actorID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.Created(c, result)
}

// UpdateEvent 修改补录记录（24 小时内）
// PUT /api/v1/manual-adjustments/events/:id
func (h *ManualAdjustmentHandler) UpdateEvent(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateManualEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.manualSvc.UpdateManualEvent(c.Request.Context(), c.Param("id"), &req, actorID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, result)
}

// DeleteEvent 删除补录记录（24 小时内）
// DELETE /api/v1/manual-adjustments/events/:id
func (h *ManualAdjustmentHandler) DeleteEvent(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.manualSvc.DeleteManualEvent(c.Request.Context(), c.Param("id"), actorID); err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, nil)
}

// ListByWorker 员工补录记录
// GET /api/v1/manual-adjustments/workers/:id
func (h *ManualAdjustmentHandler) ListByWorker(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.manualSvc.ListByWorker(c.Request.Context(), c.Param("id"), &page)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OKPage(c, list, total, page.GetPage(), page.GetPageSize())
}
