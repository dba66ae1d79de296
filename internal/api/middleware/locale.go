package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Ismaelg12/timeflow/pkg/i18n"
)

// Locale 按 Accept-Language 协商响应语言并写入请求 context
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := i18n.Negotiate(c.GetHeader("Accept-Language"))
		c.Request = c.Request.WithContext(i18n.WithLocale(c.Request.Context(), locale))
		c.Header("Content-Language", locale)

		c.Next()
	}
}
