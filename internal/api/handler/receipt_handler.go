package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ismaelg12/timeflow/internal/service"
	"github.com/Ismaelg12/timeflow/pkg/response"
)

// ReceiptHandler 打卡凭证 HTTP 处理器
type ReceiptHandler struct {
	receiptSvc service.ReceiptService
	logger     *zap.Logger
}

// NewReceiptHandler 创建 ReceiptHandler
func NewReceiptHandler(receiptSvc service.ReceiptService, logger *zap.Logger) *ReceiptHandler {
	return &ReceiptHandler{receiptSvc: receiptSvc, logger: logger}
}

// Receipt 打卡凭证，?qr=true 附带二维码
// GET /api/v1/receipts/:id
func (h *ReceiptHandler) Receipt(c *gin.Context) {
	withQR, _ := strconv.ParseBool(c.DefaultQuery("qr", "false"))

	result, err := h.receiptSvc.Receipt(c.Request.Context(), c.Param("id"), withQR)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, result)
}

// Validate 扫码校验
// GET /api/v1/receipts/:id/validate
func (h *ReceiptHandler) Validate(c *gin.Context) {
	result, err := h.receiptSvc.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, result)
}
