package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ismaelg12/timeflow/pkg/i18n"
	"github.com/Ismaelg12/timeflow/pkg/response"
)

// BodyLimit 请求体大小限制
// 声明的 Content-Length 超限时直接拒绝，其余情况由 MaxBytesReader 在读取时截断
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge,
				i18n.T(c.Request.Context(), "InvalidRequest"))
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
