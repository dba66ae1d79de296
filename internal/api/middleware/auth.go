package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ismaelg12/timeflow/pkg/i18n"
	"github.com/Ismaelg12/timeflow/pkg/jwt"
	"github.com/Ismaelg12/timeflow/pkg/response"
)

// TokenBlacklist 查询 Token 是否已登出（由 *redis.Client 实现）
type TokenBlacklist interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

func abortUnauthorized(c *gin.Context) {
	response.Unauthorized(c, response.CodeUnauthorized, i18n.T(c.Request.Context(), "Unauthorized"))
	c.Abort()
}

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token
// blacklist 为 nil 时跳过黑名单检查
func JWTAuth(jwtMgr *jwt.Manager, blacklist TokenBlacklist, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abortUnauthorized(c)
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil || claims.TokenType != jwt.TokenAccess {
			abortUnauthorized(c)
			return
		}

		if blacklist != nil {
			revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				// Redis 出错时降级放行
				logger.Warn("查询 Token 黑名单失败", zap.Error(err))
			} else if revoked {
				abortUnauthorized(c)
				return
			}
		}

		// 键名与 handler 包的 Ctx* 常量一致
		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("worker_id", claims.WorkerID)
		c.Set("claims", claims)

		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString("role")
		if userRole == "" {
			abortUnauthorized(c)
			return
		}

		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, response.CodeForbidden, i18n.T(c.Request.Context(), "Forbidden"))
		c.Abort()
	}
}
