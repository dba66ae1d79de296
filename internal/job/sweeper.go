// Package job 定时任务
package job

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Ismaelg12/timeflow/internal/attendance"
	"github.com/Ismaelg12/timeflow/pkg/clock"
)

// sweepTimeout 单次扫描的最长耗时
const sweepTimeout = 2 * time.Minute

// IncompleteRefresher 计算并缓存某日缺卡名单（由 service.DashboardService 实现）
type IncompleteRefresher interface {
	RefreshIncomplete(ctx context.Context, date time.Time) (int, error)
}

// Sweeper 每日扫描前一天缺卡的员工，结果写入看板缓存
type Sweeper struct {
	cron      *cron.Cron
	refresher IncompleteRefresher
	clock     clock.Clock
	logger    *zap.Logger
}

// NewSweeper 按 cron 表达式创建扫描任务，表达式在业务时区解释
func NewSweeper(spec string, refresher IncompleteRefresher, clk clock.Clock, logger *zap.Logger) (*Sweeper, error) {
	cl := cronLogger{logger.Sugar()}
	s := &Sweeper{
		cron: cron.New(
			cron.WithLocation(clk.Location()),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		refresher: refresher,
		clock:     clk,
		logger:    logger,
	}

	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("无效的扫描计划 %q: %w", spec, err)
	}
	return s, nil
}

// Start 启动调度（非阻塞）
func (s *Sweeper) Start() {
	s.cron.Start()
	s.logger.Info("缺卡扫描任务已启动", zap.String("location", s.clock.Location().String()))
}

// Stop 停止调度，返回的 context 在进行中的任务结束后关闭
func (s *Sweeper) Stop() context.Context {
	return s.cron.Stop()
}

// RunOnce 立即扫描业务时区的昨天
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	yesterday := attendance.Civil(s.clock.Now()).AddDate(0, 0, -1)
	n, err := s.refresher.RefreshIncomplete(ctx, yesterday)
	if err != nil {
		return 0, err
	}
	s.logger.Info("缺卡扫描完成",
		zap.String("date", yesterday.Format("2006-01-02")),
		zap.Int("incomplete", n),
	)
	return n, nil
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.Error("缺卡扫描失败", zap.Error(err))
	}
}

// cronLogger 把 cron 的日志接到 zap
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
