package service

import (
	"go.uber.org/zap"

	"github.com/Ismaelg12/timeflow/config"
	"github.com/Ismaelg12/timeflow/internal/repository"
	"github.com/Ismaelg12/timeflow/pkg/clock"
	"github.com/Ismaelg12/timeflow/pkg/jwt"
	"github.com/Ismaelg12/timeflow/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth          AuthService
	User          UserService
	Worker        WorkerService
	Establishment EstablishmentService
	Clock         ClockService
	Report        ReportService
	Manual        ManualAdjustmentService
	Dashboard     DashboardService
	Export        ExportService
	Receipt       ReceiptService
}

// NewService 创建 Service 聚合
// rdb 为 nil 时不启用 Token 黑名单与缺卡日缓存。
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	clk clock.Clock,
	logger *zap.Logger,
) *Service {
	// 避免把 nil 指针装进非 nil 接口
	var (
		blacklist TokenBlacklist
		cache     Cache
	)
	if rdb != nil {
		blacklist = rdb
		cache = rdb
	}

	company := cfg.Attendance.CompanyName
	reports := NewReportService(repo, clk, logger)

	return &Service{
		Auth:          NewAuthService(repo, jwtMgr, blacklist, logger),
		User:          NewUserService(repo, logger),
		Worker:        NewWorkerService(repo, logger),
		Establishment: NewEstablishmentService(repo, logger),
		Clock:         NewClockService(repo, clk, logger),
		Report:        reports,
		Manual:        NewManualAdjustmentService(repo, clk, logger),
		Dashboard:     NewDashboardService(repo, cache, clk, logger),
		Export:        NewExportService(repo, reports, clk, company, logger),
		Receipt:       NewReceiptService(repo, clk, company, cfg.Server.BaseURL, logger),
	}
}
