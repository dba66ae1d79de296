package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ismaelg12/timeflow/internal/dto"
	"github.com/Ismaelg12/timeflow/internal/service"
	"github.com/Ismaelg12/timeflow/pkg/response"
)

// AttendanceHandler 公共打卡终端 HTTP 处理器，无需登录，仅凭 CPF
type AttendanceHandler struct {
	clockSvc service.ClockService
	logger   *zap.Logger
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(clockSvc service.ClockService, logger *zap.Logger) *AttendanceHandler {
	return &AttendanceHandler{clockSvc: clockSvc, logger: logger}
}

// ClockIn 打卡，自动判定上班或下班
// POST /api/v1/clock-in
func (h *AttendanceHandler) ClockIn(c *gin.Context) {
	var req dto.ClockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.clockSvc.ClockIn(c.Request.Context(), &req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.Created(c, result)
}

type nextEventQuery struct {
	CPF             string `form:"cpf"              binding:"required,max=14"`
	EstablishmentID string `form:"establishment_id" binding:"required,uuid"`
}

// NextEvent 预览下一次打卡类型
// GET /api/v1/clock-in/next?cpf=&establishment_id=
func (h *AttendanceHandler) NextEvent(c *gin.Context) {
	var q nextEventQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.clockSvc.NextEvent(c.Request.Context(), q.CPF, q.EstablishmentID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, result)
}

// History 按 CPF 查询区间打卡记录
// GET /api/v1/attendance/history?cpf=&start_date=&end_date=
func (h *AttendanceHandler) History(c *gin.Context) {
	var req dto.HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.clockSvc.History(c.Request.Context(), &req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, result)
}

// Recent 最近 N 天打卡
// GET /api/v1/attendance/recent?cpf=&days=
func (h *AttendanceHandler) Recent(c *gin.Context) {
	var req dto.RecentRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.clockSvc.Recent(c.Request.Context(), &req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, result)
}
