package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Ismaelg12/timeflow/internal/attendance"
	"github.com/Ismaelg12/timeflow/internal/dto"
	"github.com/Ismaelg12/timeflow/internal/model"
	"github.com/Ismaelg12/timeflow/internal/repository"
	"github.com/Ismaelg12/timeflow/pkg/clock"
	apperrors "github.com/Ismaelg12/timeflow/pkg/errors"
	"github.com/Ismaelg12/timeflow/pkg/i18n"
	"github.com/Ismaelg12/timeflow/pkg/redis"
)

// 看板周期
const (
	PeriodToday     = "today"
	PeriodYesterday = "yesterday"
	PeriodWeek      = "week"
	PeriodMonth     = "month"
	PeriodCustom    = "custom"
)

const (
	dashboardTopN = 5
	// SevereDelayMinutes 迟到超过该分钟数为严重告警
	SevereDelayMinutes = 30
	// IncompleteCacheTTL 缺卡名单缓存时长
	IncompleteCacheTTL = 48 * time.Hour
)

// ErrInvalidPeriod 看板周期无效
var ErrInvalidPeriod = apperrors.New(apperrors.KindValidation, "InvalidPeriod", "看板周期无效")

// Cache 看板使用的缓存（由 *redis.Client 实现）
type Cache interface {
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, v interface{}) error
}

// IncompleteCacheKey 某日缺卡名单的缓存键
func IncompleteCacheKey(date time.Time) string {
	return "dashboard:incomplete:" + date.Format(dateLayout)
}

// DashboardService 管理看板业务接口
type DashboardService interface {
	Dashboard(ctx context.Context, req *dto.DashboardRequest) (*dto.DashboardResponse, error)
	// IncompleteForDate 计算某日缺卡的在职员工
	IncompleteForDate(ctx context.Context, date time.Time) ([]dto.WorkerBrief, error)
	// RefreshIncomplete 计算并缓存某日缺卡名单
	RefreshIncomplete(ctx context.Context, date time.Time) (int, error)
}

type dashboardService struct {
	repo   *repository.Repository
	cache  Cache
	clock  clock.Clock
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例，cache 可为 nil
func NewDashboardService(repo *repository.Repository, cache Cache, clk clock.Clock, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, cache: cache, clock: clk, logger: logger}
}

// ────────────────────── Dashboard ──────────────────────

func (s *dashboardService) Dashboard(ctx context.Context, req *dto.DashboardRequest) (*dto.DashboardResponse, error) {
	today := attendance.Civil(s.clock.Now())
	period := req.Period
	if period == "" {
		period = PeriodToday
	}
	start, end, err := s.resolvePeriod(period, today, &req.DateRangeRequest)
	if err != nil {
		return nil, err
	}

	activeWorkers, err := s.repo.Worker.CountActive(ctx)
	if err != nil {
		s.logger.Error("统计在职员工失败", zap.Error(err))
		return nil, err
	}
	establishments, err := s.repo.Establishment.Count(ctx)
	if err != nil {
		s.logger.Error("统计工作地点失败", zap.Error(err))
		return nil, err
	}

	periodEvents, err := s.repo.Event.ListByRange(ctx, start, end, req.EstablishmentID)
	if err != nil {
		s.logger.Error("查询区间打卡失败", zap.Error(err))
		return nil, err
	}
	todayEvents := periodEvents
	if period != PeriodToday {
		if todayEvents, err = s.repo.Event.ListByRange(ctx, today, today, req.EstablishmentID); err != nil {
			s.logger.Error("查询当日打卡失败", zap.Error(err))
			return nil, err
		}
	}

	resp := &dto.DashboardResponse{
		Period:                 period,
		StartDate:              start.Format(dateLayout),
		EndDate:                end.Format(dateLayout),
		ActiveWorkers:          activeWorkers,
		Establishments:         establishments,
		EventsInPeriod:         len(periodEvents),
		PercentWithinTolerance: attendance.ComputeToleranceStats(periodEvents).PercentWithin,
		TopLate:                topLate(periodEvents),
		TopEstablishments:      topEstablishments(periodEvents),
	}

	counts := attendance.Count(todayEvents)
	resp.EntriesToday, resp.ExitsToday = counts.Entries, counts.Exits
	resp.IncompleteToday = incompleteToday(todayEvents)
	resp.BiggestDelaysToday = biggestDelays(todayEvents)
	resp.Alerts = delayAlerts(ctx, todayEvents)

	active, err := s.repo.Worker.ListActive(ctx, req.EstablishmentID)
	if err != nil {
		s.logger.Error("列出在职员工失败", zap.Error(err))
		return nil, err
	}
	resp.WithoutRecordToday = withoutRecord(active, todayEvents)

	if resp.IncompleteYesterday, err = s.incompleteYesterday(ctx, today.AddDate(0, 0, -1)); err != nil {
		return nil, err
	}
	return resp, nil
}

// resolvePeriod 周期换算为日期区间；week 从本周一开始，month 从本月 1 日开始
func (s *dashboardService) resolvePeriod(period string, today time.Time, custom *dto.DateRangeRequest) (time.Time, time.Time, error) {
	switch period {
	case PeriodToday:
		return today, today, nil
	case PeriodYesterday:
		y := today.AddDate(0, 0, -1)
		return y, y, nil
	case PeriodWeek:
		offset := (int(today.Weekday()) + 6) % 7
		return today.AddDate(0, 0, -offset), today, nil
	case PeriodMonth:
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), today, nil
	case PeriodCustom:
		return resolveRange(s.clock, custom)
	default:
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}
}

// incompleteYesterday 优先读缓存，未命中时现算并回写
func (s *dashboardService) incompleteYesterday(ctx context.Context, date time.Time) ([]dto.WorkerBrief, error) {
	if s.cache != nil {
		var cached []dto.WorkerBrief
		err := s.cache.GetJSON(ctx, IncompleteCacheKey(date), &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Warn("读取缺卡缓存失败", zap.Error(err))
		}
	}

	list, err := s.IncompleteForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	s.store(ctx, date, list)
	return list, nil
}

// ────────────────────── 缺卡名单 ──────────────────────

func (s *dashboardService) IncompleteForDate(ctx context.Context, date time.Time) ([]dto.WorkerBrief, error) {
	date = attendance.Civil(date)

	workers, err := s.repo.Worker.ListActive(ctx, "")
	if err != nil {
		s.logger.Error("列出在职员工失败", zap.Error(err))
		return nil, err
	}
	events, err := s.repo.Event.ListByRange(ctx, date.AddDate(0, 0, -1), date.AddDate(0, 0, 1), "")
	if err != nil {
		s.logger.Error("查询缺卡区间打卡失败", zap.Error(err))
		return nil, err
	}

	byWorker := make(map[string][]model.AttendanceEvent)
	for i := range events {
		byWorker[events[i].WorkerID] = append(byWorker[events[i].WorkerID], events[i])
	}

	result := make([]dto.WorkerBrief, 0)
	for i := range workers {
		w := &workers[i]
		evs, ok := byWorker[w.WorkerID]
		if !ok {
			continue
		}
		if len(attendance.IncompleteDays(w, evs, date, date)) > 0 {
			result = append(result, toWorkerBrief(w))
		}
	}
	return result, nil
}

func (s *dashboardService) RefreshIncomplete(ctx context.Context, date time.Time) (int, error) {
	list, err := s.IncompleteForDate(ctx, date)
	if err != nil {
		return 0, err
	}
	s.store(ctx, attendance.Civil(date), list)
	return len(list), nil
}

func (s *dashboardService) store(ctx context.Context, date time.Time, list []dto.WorkerBrief) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, IncompleteCacheKey(date), list, IncompleteCacheTTL); err != nil {
		s.logger.Warn("写入缺卡缓存失败", zap.String("date", date.Format(dateLayout)), zap.Error(err))
	}
}

// ── 统计 ──

func workerName(e *model.AttendanceEvent) string {
	if e.Worker != nil {
		return e.Worker.FullName()
	}
	return ""
}

func topLate(events []model.AttendanceEvent) []dto.LateWorkerItem {
	byWorker := make(map[string]*dto.LateWorkerItem)
	for i := range events {
		e := &events[i]
		if e.Type != model.EventEntry || e.WithinTolerance {
			continue
		}
		item, ok := byWorker[e.WorkerID]
		if !ok {
			item = &dto.LateWorkerItem{WorkerID: e.WorkerID, Name: workerName(e)}
			byWorker[e.WorkerID] = item
		}
		item.LateCount++
		item.LateMinutes += e.LateMinutes
	}

	items := make([]dto.LateWorkerItem, 0, len(byWorker))
	for _, item := range byWorker {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].LateCount != items[j].LateCount {
			return items[i].LateCount > items[j].LateCount
		}
		if items[i].LateMinutes != items[j].LateMinutes {
			return items[i].LateMinutes > items[j].LateMinutes
		}
		return items[i].Name < items[j].Name
	})
	if len(items) > dashboardTopN {
		items = items[:dashboardTopN]
	}
	return items
}

func topEstablishments(events []model.AttendanceEvent) []dto.EstablishmentActivityItem {
	byEst := make(map[string]*dto.EstablishmentActivityItem)
	for i := range events {
		e := &events[i]
		item, ok := byEst[e.EstablishmentID]
		if !ok {
			item = &dto.EstablishmentActivityItem{EstablishmentID: e.EstablishmentID}
			if e.Establishment != nil {
				item.Name = e.Establishment.Name
			}
			byEst[e.EstablishmentID] = item
		}
		item.Events++
	}

	items := make([]dto.EstablishmentActivityItem, 0, len(byEst))
	for _, item := range byEst {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Events != items[j].Events {
			return items[i].Events > items[j].Events
		}
		return items[i].Name < items[j].Name
	})
	if len(items) > dashboardTopN {
		items = items[:dashboardTopN]
	}
	return items
}

// incompleteToday 今天上下班条数不对称的员工（含尚未下班）
func incompleteToday(events []model.AttendanceEvent) []dto.WorkerBrief {
	counts := make(map[string]*attendance.DayCounts)
	var order []*model.AttendanceEvent
	for i := range events {
		e := &events[i]
		c, ok := counts[e.WorkerID]
		if !ok {
			c = &attendance.DayCounts{}
			counts[e.WorkerID] = c
			order = append(order, e)
		}
		c.Add(e.Type)
	}

	result := make([]dto.WorkerBrief, 0)
	for _, e := range order {
		if counts[e.WorkerID].Complete() {
			continue
		}
		brief := dto.WorkerBrief{ID: e.WorkerID, Name: workerName(e)}
		if e.Worker != nil {
			brief.CPF = e.Worker.CPF
		}
		result = append(result, brief)
	}
	return result
}

func withoutRecord(active []model.Worker, todayEvents []model.AttendanceEvent) []dto.WorkerBrief {
	seen := make(map[string]bool, len(todayEvents))
	for i := range todayEvents {
		seen[todayEvents[i].WorkerID] = true
	}
	result := make([]dto.WorkerBrief, 0)
	for i := range active {
		if !seen[active[i].WorkerID] {
			result = append(result, toWorkerBrief(&active[i]))
		}
	}
	return result
}

func lateEntries(events []model.AttendanceEvent) []*model.AttendanceEvent {
	var late []*model.AttendanceEvent
	for i := range events {
		if e := &events[i]; e.Type == model.EventEntry && e.LateMinutes > 0 {
			late = append(late, e)
		}
	}
	sort.SliceStable(late, func(i, j int) bool { return late[i].LateMinutes > late[j].LateMinutes })
	return late
}

func biggestDelays(events []model.AttendanceEvent) []dto.DelayItem {
	late := lateEntries(events)
	if len(late) > dashboardTopN {
		late = late[:dashboardTopN]
	}
	items := make([]dto.DelayItem, 0, len(late))
	for _, e := range late {
		item := dto.DelayItem{
			WorkerID:    e.WorkerID,
			Name:        workerName(e),
			Time:        formatClock(&e.Time),
			LateMinutes: e.LateMinutes,
		}
		if e.Establishment != nil {
			item.EstablishmentName = e.Establishment.Name
		}
		items = append(items, item)
	}
	return items
}

func delayAlerts(ctx context.Context, events []model.AttendanceEvent) []dto.AlertItem {
	late := lateEntries(events)
	alerts := make([]dto.AlertItem, 0, len(late))
	for _, e := range late {
		alert := dto.AlertItem{
			Level:       "warning",
			WorkerID:    e.WorkerID,
			Name:        workerName(e),
			LateMinutes: e.LateMinutes,
		}
		data := map[string]any{"Minutes": e.LateMinutes}
		if e.LateMinutes > SevereDelayMinutes {
			alert.Level = "severe"
			alert.Message = i18n.T(ctx, "Alert.SevereDelay", data)
		} else {
			alert.Message = i18n.T(ctx, "Alert.Delay", data)
		}
		alerts = append(alerts, alert)
	}
	return alerts
}
