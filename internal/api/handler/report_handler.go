package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ismaelg12/timeflow/internal/dto"
	"github.com/Ismaelg12/timeflow/internal/service"
	"github.com/Ismaelg12/timeflow/pkg/response"
)

// ReportHandler 工时报表 HTTP 处理器
// 员工角色只能查询自己的报表
type ReportHandler struct {
	reportSvc service.ReportService
	logger    *zap.Logger
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc, logger: logger}
}

// bindRange 解析日期区间并校验访问权限
func (h *ReportHandler) bindRange(c *gin.Context) (string, *dto.DateRangeRequest, bool) {
	workerID := c.Param("id")
	if !CanAccessWorker(c, workerID) {
		return "", nil, false
	}
	var req dto.DateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return "", nil, false
	}
	return workerID, &req, true
}

// WorkedHours 实际工时与结余
// GET /api/v1/reports/workers/:id/worked-hours
func (h *ReportHandler) WorkedHours(c *gin.Context) {
	workerID, req, ok := h.bindRange(c)
	if !ok {
		return
	}

	result, err := h.reportSvc.WorkedHours(c.Request.Context(), workerID, req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, result)
}

// ExpectedHours 应出勤工时
// GET /api/v1/reports/workers/:id/expected-hours
func (h *ReportHandler) ExpectedHours(c *gin.Context) {
	workerID, req, ok := h.bindRange(c)
	if !ok {
		return
	}

	result, err := h.reportSvc.Expected(c.Request.Context(), workerID, req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, result)
}

// WorkerReport 完整报表：每日明细、星期汇总、容差统计
// GET /api/v1/reports/workers/:id
func (h *ReportHandler) WorkerReport(c *gin.Context) {
	workerID, req, ok := h.bindRange(c)
	if !ok {
		return
	}

	result, err := h.reportSvc.WorkerReport(c.Request.Context(), workerID, req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, result)
}
