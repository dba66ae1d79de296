package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Ismaelg12/timeflow/config"
	"github.com/Ismaelg12/timeflow/internal/api/handler"
	"github.com/Ismaelg12/timeflow/internal/api/router"
	"github.com/Ismaelg12/timeflow/internal/dto"
	"github.com/Ismaelg12/timeflow/internal/job"
	"github.com/Ismaelg12/timeflow/internal/repository"
	"github.com/Ismaelg12/timeflow/internal/service"
	"github.com/Ismaelg12/timeflow/pkg/clock"
	"github.com/Ismaelg12/timeflow/pkg/database"
	"github.com/Ismaelg12/timeflow/pkg/i18n"
	"github.com/Ismaelg12/timeflow/pkg/jwt"
	applogger "github.com/Ismaelg12/timeflow/pkg/logger"
	"github.com/Ismaelg12/timeflow/pkg/redis"
)

func main() {
	// 0. 本地开发可用 .env 注入 TIMEFLOW_* 环境变量
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("TIMEFLOW_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.Int("utc_offset_hours", cfg.Attendance.UTCOffsetHours),
	)

	// 2.1 翻译与自定义校验器
	if err := i18n.Init(cfg.Attendance.DefaultLocale); err != nil {
		logger.Fatal("加载翻译文件失败", zap.Error(err))
	}
	if err := dto.RegisterValidators(); err != nil {
		logger.Fatal("注册校验器失败", zap.Error(err))
	}

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level == "debug", logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单、限流与缺卡缓存将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 业务时钟与 JWT 管理器
	clk := clock.NewZoned(cfg.Attendance.UTCOffsetHours)
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, clk, logger)
	h := handler.NewHandler(svc, logger)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 8. 每日缺卡扫描
	var sweeper *job.Sweeper
	if cfg.Feature.SweeperEnabled {
		sweeper, err = job.NewSweeper(cfg.Attendance.SweepCron, svc.Dashboard, clk, logger)
		if err != nil {
			logger.Fatal("缺卡扫描任务初始化失败", zap.Error(err))
		}
		sweeper.Start()
	}

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 等待正在执行的扫描结束
	if sweeper != nil {
		select {
		case <-sweeper.Stop().Done():
		case <-ctx.Done():
			logger.Warn("缺卡扫描任务未在超时前结束")
		}
	}

	if sqlDB != nil {
		sqlDB.Close()
	}

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
