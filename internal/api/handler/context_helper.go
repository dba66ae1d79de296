package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Ismaelg12/timeflow/internal/model"
	"github.com/Ismaelg12/timeflow/pkg/i18n"
	"github.com/Ismaelg12/timeflow/pkg/jwt"
	"github.com/Ismaelg12/timeflow/pkg/response"
)

// 上下文键，由 JWTAuth 中间件写入
const (
	CtxUserID   = "user_id"
	CtxRole     = "role"
	CtxWorkerID = "worker_id"
	CtxClaims   = "claims"
)

func unauthorized(c *gin.Context) {
	response.Unauthorized(c, response.CodeUnauthorized, i18n.T(c.Request.Context(), "Unauthorized"))
}

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 调用方应在 ok=false 时直接 return，401 响应已写入。
func MustGetUserID(c *gin.Context) (string, bool) {
	s := c.GetString(CtxUserID)
	if s == "" {
		unauthorized(c)
		return "", false
	}
	return s, true
}

// MustGetClaims 从 Gin 上下文中提取当前 Token 声明
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(CtxClaims)
	if !exists {
		unauthorized(c)
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		unauthorized(c)
		return nil, false
	}
	return claims, true
}

// CanAccessWorker 员工角色只能访问自己的档案，管理角色不受限
// 返回 false 时 403 响应已写入
func CanAccessWorker(c *gin.Context, workerID string) bool {
	if c.GetString(CtxRole) != model.RoleWorker {
		return true
	}
	if own := c.GetString(CtxWorkerID); own != "" && own == workerID {
		return true
	}
	response.Forbidden(c, response.CodeForbidden, i18n.T(c.Request.Context(), "Forbidden"))
	return false
}
