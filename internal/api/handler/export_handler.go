package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ismaelg12/timeflow/internal/dto"
	"github.com/Ismaelg12/timeflow/internal/service"
	"github.com/Ismaelg12/timeflow/pkg/response"
)

// ExportHandler 报表导出 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
	logger    *zap.Logger
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, logger: logger}
}

type exportQuery struct {
	Format string `form:"format" binding:"omitempty,oneof=xlsx pdf ics"`
	dto.DateRangeRequest
}

// ExportWorker 导出员工报表
// GET /api/v1/exports/workers/:id?format=xlsx|pdf|ics&start_date=&end_date=
func (h *ExportHandler) ExportWorker(c *gin.Context) {
	workerID := c.Param("id")
	if !CanAccessWorker(c, workerID) {
		return
	}
	var q exportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	var (
		out *service.Export
		err error
	)
	ctx := c.Request.Context()
	switch q.Format {
	case "pdf":
		out, err = h.exportSvc.WorkerPDF(ctx, workerID, &q.DateRangeRequest)
	case "ics":
		out, err = h.exportSvc.WorkerCalendar(ctx, workerID, &q.DateRangeRequest)
	default:
		out, err = h.exportSvc.WorkerExcel(ctx, workerID, &q.DateRangeRequest)
	}
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	response.Attachment(c, out.Filename, out.ContentType, out.Data.Bytes())
}
