package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ismaelg12/timeflow/config"
	"github.com/Ismaelg12/timeflow/internal/api/handler"
	"github.com/Ismaelg12/timeflow/internal/api/middleware"
	"github.com/Ismaelg12/timeflow/internal/model"
	"github.com/Ismaelg12/timeflow/pkg/jwt"
	"github.com/Ismaelg12/timeflow/pkg/redis"
)

const (
	maxBodyBytes   = 1 << 20
	maxImportBytes = 10 << 20
	loginRateLimit = 10
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时黑名单与限流降级
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	var (
		blacklist middleware.TokenBlacklist
		limiter   middleware.RateLimiter
	)
	if rdb != nil {
		blacklist, limiter = rdb, rdb
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.Locale())

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	admin := middleware.RoleAuth(model.RoleAdmin)
	staff := middleware.RoleAuth(model.RoleAdmin, model.RoleStaff)
	anyRole := middleware.RoleAuth(model.RoleAdmin, model.RoleStaff, model.RoleWorker)
	body := middleware.BodyLimit(maxBodyBytes)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 公共打卡终端（无需认证，仅凭 CPF）
		clockLimit := middleware.RateLimit(limiter, cfg.Attendance.ClockInRateLimit, time.Minute, logger)
		v1.POST("/clock-in", clockLimit, body, h.Attendance.ClockIn)
		v1.GET("/clock-in/next", clockLimit, h.Attendance.NextEvent)
		v1.GET("/attendance/history", clockLimit, h.Attendance.History)
		v1.GET("/attendance/recent", clockLimit, h.Attendance.Recent)
		v1.GET("/establishments", h.Establishment.ListEstablishments)

		// 打卡凭证（二维码扫描校验）
		v1.GET("/receipts/:id", h.Receipt.Receipt)
		v1.GET("/receipts/:id/validate", h.Receipt.Validate)

		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(limiter, loginRateLimit, time.Minute, logger), body, h.Auth.Login)
			auth.POST("/refresh", body, h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 登录身份
			users := authorized.Group("/users", admin)
			{
				users.POST("", body, h.User.CreateUser)
				users.GET("", h.User.ListUsers)
				users.GET("/:id", h.User.GetUser)
				users.PUT("/:id/active", body, h.User.SetActive)
				users.POST("/:id/reset-password", h.User.ResetPassword)
			}

			// 员工档案
			workers := authorized.Group("/workers")
			{
				workers.POST("", staff, body, h.Worker.Register)
				workers.GET("", staff, h.Worker.ListWorkers)
				workers.POST("/import", staff, middleware.BodyLimit(maxImportBytes), h.Worker.ImportWorkers)
				workers.GET("/:id", anyRole, h.Worker.GetWorker) // 员工本人或管理角色（Handler 层鉴权）
				workers.PUT("/:id", staff, body, h.Worker.UpdateWorker)
				workers.PUT("/:id/active", staff, body, h.Worker.SetActive)
			}

			// 工作地点
			establishments := authorized.Group("/establishments", admin)
			{
				establishments.POST("", body, h.Establishment.CreateEstablishment)
				establishments.GET("/:id", h.Establishment.GetEstablishment)
				establishments.PUT("/:id", body, h.Establishment.UpdateEstablishment)
				establishments.DELETE("/:id", h.Establishment.DeleteEstablishment)
			}

			// 工时报表（员工只能看自己）
			reports := authorized.Group("/reports/workers/:id", anyRole)
			{
				reports.GET("", h.Report.WorkerReport)
				reports.GET("/worked-hours", h.Report.WorkedHours)
				reports.GET("/expected-hours", h.Report.ExpectedHours)
			}
			authorized.GET("/exports/workers/:id", anyRole, h.Export.ExportWorker)

			// 补录下班
			manual := authorized.Group("/manual-adjustments", staff)
			{
				manual.GET("/justifications", h.Manual.Justifications)
				manual.POST("/exits", body, h.Manual.CreateExit)
				manual.PUT("/events/:id", body, h.Manual.UpdateEvent)
				manual.DELETE("/events/:id", h.Manual.DeleteEvent)
				manual.GET("/workers/:id", h.Manual.ListByWorker)
			}

			// 管理看板
			authorized.GET("/dashboard", staff, h.Dashboard.Dashboard)
		}
	}

	return r
}
