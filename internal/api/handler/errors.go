package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/Ismaelg12/timeflow/pkg/errors"
	"github.com/Ismaelg12/timeflow/pkg/i18n"
	"github.com/Ismaelg12/timeflow/pkg/response"
)

// handleError 按错误类别映射 HTTP 状态码并返回翻译后的提示
func handleError(c *gin.Context, logger *zap.Logger, err error) {
	ctx := c.Request.Context()
	msgID := apperrors.MessageIDOf(err)

	var outOfRange *apperrors.OutOfRangeError
	var duplicate *apperrors.DuplicateEventError

	switch kind := apperrors.KindOf(err); kind {
	case apperrors.KindValidation:
		status, code := http.StatusBadRequest, response.CodeValidation
		switch msgID {
		case "InvalidCredentials", "InvalidToken":
			status, code = http.StatusUnauthorized, response.CodeUnauthorized
		}
		response.Error(c, status, code, i18n.T(ctx, msgID))
	case apperrors.KindNotFound:
		response.NotFound(c, response.CodeNotFound, i18n.T(ctx, msgID))
	case apperrors.KindOutOfRange:
		data := map[string]any{}
		if errors.As(err, &outOfRange) {
			data["Radius"] = outOfRange.RadiusMeters
		}
		response.Forbidden(c, response.CodeOutOfRange, i18n.T(ctx, msgID, data))
	case apperrors.KindDuplicateEvent:
		data := map[string]any{}
		if errors.As(err, &duplicate) {
			data["Type"] = i18n.T(ctx, "EventType."+duplicate.Type)
			data["Next"] = i18n.T(ctx, "EventType."+duplicate.Next)
		}
		response.Conflict(c, response.CodeDuplicateEvent, i18n.T(ctx, msgID, data))
	case apperrors.KindStorageConflict:
		response.Conflict(c, response.CodeStorageConflict, i18n.T(ctx, msgID))
	case apperrors.KindSequence:
		response.Unprocessable(c, response.CodeSequence, i18n.T(ctx, msgID))
	case apperrors.KindForbidden:
		response.Forbidden(c, response.CodeForbidden, i18n.T(ctx, msgID))
	default:
		logger.Error("请求处理失败",
			zap.String("path", c.FullPath()),
			zap.String("kind", kind.String()),
			zap.Error(err),
		)
		response.InternalError(c, i18n.T(ctx, "InternalError"))
	}
}

// bindError 参数绑定或校验失败
func bindError(c *gin.Context, err error) {
	response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeInvalidRequest,
		i18n.T(c.Request.Context(), "InvalidRequest"), err.Error())
}
