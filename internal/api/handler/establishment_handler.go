package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ismaelg12/timeflow/internal/dto"
	"github.com/Ismaelg12/timeflow/internal/service"
	"github.com/Ismaelg12/timeflow/pkg/response"
)

// EstablishmentHandler 工作地点 HTTP 处理器
type EstablishmentHandler struct {
	svc    service.EstablishmentService
	logger *zap.Logger
}

// NewEstablishmentHandler 创建 EstablishmentHandler
func NewEstablishmentHandler(svc service.EstablishmentService, logger *zap.Logger) *EstablishmentHandler {
	return &EstablishmentHandler{svc: svc, logger: logger}
}

// CreateEstablishment 创建工作地点
// POST /api/v1/establishments
func (h *EstablishmentHandler) CreateEstablishment(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateEstablishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	est, err := h.svc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.Created(c, est)
}

// ListEstablishments 工作地点列表（打卡终端也会调用）
// GET /api/v1/establishments
func (h *EstablishmentHandler) ListEstablishments(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, list)
}

// GetEstablishment 工作地点详情
// GET /api/v1/establishments/:id
func (h *EstablishmentHandler) GetEstablishment(c *gin.Context) {
	est, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, est)
}

// UpdateEstablishment 更新工作地点
// PUT /api/v1/establishments/:id
func (h *EstablishmentHandler) UpdateEstablishment(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateEstablishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	est, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, est)
}

// DeleteEstablishment 软删除工作地点
// DELETE /api/v1/establishments/:id
func (h *EstablishmentHandler) DeleteEstablishment(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, nil)
}
