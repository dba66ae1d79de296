package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ismaelg12/timeflow/internal/dto"
	"github.com/Ismaelg12/timeflow/internal/service"
	apperrors "github.com/Ismaelg12/timeflow/pkg/errors"
	"github.com/Ismaelg12/timeflow/pkg/response"
)

// WorkerHandler 员工档案 HTTP 处理器
type WorkerHandler struct {
	workerSvc service.WorkerService
	logger    *zap.Logger
}

// NewWorkerHandler 创建 WorkerHandler
func NewWorkerHandler(workerSvc service.WorkerService, logger *zap.Logger) *WorkerHandler {
	return &WorkerHandler{workerSvc: workerSvc, logger: logger}
}

// Register 登记员工
// POST /api/v1/workers
func (h *WorkerHandler) Register(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.RegisterWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	worker, err := h.workerSvc.Register(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.Created(c, worker)
}

// ListWorkers 员工列表
// GET /api/v1/workers
func (h *WorkerHandler) ListWorkers(c *gin.Context) {
	var req dto.WorkerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	workers, total, err := h.workerSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OKPage(c, workers, total, req.GetPage(), req.GetPageSize())
}

// GetWorker 员工详情
// GET /api/v1/workers/:id
func (h *WorkerHandler) GetWorker(c *gin.Context) {
	id := c.Param("id")
	if !CanAccessWorker(c, id) {
		return
	}

	worker, err := h.workerSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, worker)
}

// UpdateWorker 更新档案（乐观锁）
// PUT /api/v1/workers/:id
func (h *WorkerHandler) UpdateWorker(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	worker, err := h.workerSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, worker)
}

// SetActive 启用或停用员工
// PUT /api/v1/workers/:id/active
func (h *WorkerHandler) SetActive(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.SetUserActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	worker, err := h.workerSvc.SetActive(c.Request.Context(), c.Param("id"), *req.IsActive, callerID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, worker)
}

// ImportWorkers Excel 批量登记
// POST /api/v1/workers/import
// multipart/form-data: file=<xlsx>, establishment_id 可选
func (h *WorkerHandler) ImportWorkers(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		bindError(c, err)
		return
	}
	defer file.Close()

	rows, err := h.workerSvc.ParseImportFile(file)
	if err != nil {
		// 非业务错误说明文件本身无法解析
		if apperrors.KindOf(err) == apperrors.KindInternal {
			bindError(c, err)
			return
		}
		handleError(c, h.logger, err)
		return
	}

	result, err := h.workerSvc.ImportWorkers(c.Request.Context(), rows, c.PostForm("establishment_id"), callerID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, result)
}
