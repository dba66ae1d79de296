package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ismaelg12/timeflow/internal/dto"
	"github.com/Ismaelg12/timeflow/internal/service"
	"github.com/Ismaelg12/timeflow/pkg/response"
)

// DashboardHandler 管理看板 HTTP 处理器
type DashboardHandler struct {
	dashboardSvc service.DashboardService
	logger       *zap.Logger
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc, logger: logger}
}

// Dashboard 看板统计
// GET /api/v1/dashboard?period=today|yesterday|week|month|custom
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	var req dto.DashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.dashboardSvc.Dashboard(c.Request.Context(), &req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, result)
}
