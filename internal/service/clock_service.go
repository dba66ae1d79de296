package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Ismaelg12/timeflow/internal/attendance"
	"github.com/Ismaelg12/timeflow/internal/dto"
	"github.com/Ismaelg12/timeflow/internal/model"
	"github.com/Ismaelg12/timeflow/internal/repository"
	"github.com/Ismaelg12/timeflow/pkg/clock"
	"github.com/Ismaelg12/timeflow/pkg/cpf"
	apperrors "github.com/Ismaelg12/timeflow/pkg/errors"
	"github.com/Ismaelg12/timeflow/pkg/i18n"
)

const (
	// RecentDefaultDays 最近打卡默认回溯天数
	RecentDefaultDays = 30
	// RecentLimit 最近打卡最多返回条数
	RecentLimit = 50
	// HistoryDefaultDays 历史查询缺省区间
	HistoryDefaultDays = 30
)

// ErrDayCompleted 当天上下班均已打卡
var ErrDayCompleted = apperrors.New(apperrors.KindDuplicateEvent, "DayCompleted", "当天上下班打卡均已完成")

// ClockService 打卡业务接口
type ClockService interface {
	ClockIn(ctx context.Context, req *dto.ClockInRequest) (*dto.ClockInResponse, error)
	NextEvent(ctx context.Context, rawCPF, establishmentID string) (*dto.NextEventResponse, error)
	ResolveNextEventType(ctx context.Context, workerID, establishmentID string, date time.Time) (model.EventType, error)
	IsDuplicate(ctx context.Context, workerID, establishmentID string, date time.Time, eventType model.EventType) (bool, error)
	History(ctx context.Context, req *dto.HistoryRequest) (*dto.HistoryResponse, error)
	Recent(ctx context.Context, req *dto.RecentRequest) ([]dto.EventResponse, error)
}

type clockService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewClockService 创建 ClockService 实例
func NewClockService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) ClockService {
	return &clockService{repo: repo, clock: clk, logger: logger}
}

// ────────────────────── ClockIn ──────────────────────

func (s *clockService) ClockIn(ctx context.Context, req *dto.ClockInRequest) (*dto.ClockInResponse, error) {
	worker, err := s.activeWorkerByCPF(ctx, req.CPF)
	if err != nil {
		return nil, err
	}

	est, err := s.getEstablishment(ctx, req.EstablishmentID)
	if err != nil {
		return nil, err
	}

	if !attendance.ValidateRawLocation(est, string(req.Latitude), string(req.Longitude)) {
		s.logger.Info("打卡坐标超出范围",
			zap.String("worker_id", worker.WorkerID),
			zap.String("establishment_id", est.EstablishmentID),
			zap.String("lat", string(req.Latitude)),
			zap.String("lon", string(req.Longitude)))
		return nil, &apperrors.OutOfRangeError{
			RadiusMeters:   est.AllowedRadius,
			DistanceMeters: attendance.Distance(est, req.Latitude.Float(), req.Longitude.Float()),
		}
	}

	now := s.clock.Now()
	today := attendance.Civil(now)

	todayCounts, yesterdayCounts, err := s.dayCounts(ctx, worker, est.EstablishmentID, today)
	if err != nil {
		return nil, err
	}
	shift24h := worker.Is24hShift()
	next := attendance.NextEventType(todayCounts, shift24h, yesterdayCounts)
	if attendance.IsDuplicate(todayCounts, next, shift24h) {
		return nil, duplicateError(todayCounts, next)
	}

	event := &model.AttendanceEvent{
		WorkerID:        worker.WorkerID,
		EstablishmentID: est.EstablishmentID,
		Date:            datatypes.Date(today),
		Time:            timeOfDay(now),
		Type:            next,
		Latitude:        req.Latitude.Float(),
		Longitude:       req.Longitude.Float(),
		Shift24h:        shift24h,
		CreatedAt:       now,
	}
	attendance.ComputeTolerance(worker, event.Time, next).Apply(event)

	if err := s.repo.Event.Create(ctx, event); err != nil {
		if errors.Is(err, apperrors.ErrUniqueViolation) {
			return nil, duplicateError(todayCounts, next)
		}
		s.logger.Error("保存打卡记录失败", zap.String("worker_id", worker.WorkerID), zap.Error(err))
		return nil, err
	}
	event.Worker = worker
	event.Establishment = est

	todayCounts.Add(next)
	s.logger.Info("打卡成功",
		zap.String("worker_id", worker.WorkerID),
		zap.String("event_id", event.EventID),
		zap.String("type", string(next)),
		zap.Bool("within_tolerance", event.WithinTolerance))

	return &dto.ClockInResponse{
		Event:        toEventResponse(ctx, event, now),
		Message:      clockInMessage(ctx, event),
		NextType:     string(oppositeType(next)),
		DayCompleted: todayCounts.Entries > 0 && todayCounts.Complete(),
		ReceiptCode:  ReceiptCode(event.EventID),
	}, nil
}

// duplicateError 当天已闭合时不再提示下一次打卡类型
func duplicateError(today attendance.DayCounts, next model.EventType) error {
	if today.Entries > 0 && today.Complete() {
		return ErrDayCompleted
	}
	return &apperrors.DuplicateEventError{Type: string(next), Next: string(oppositeType(next))}
}

// clockInMessage 打卡结果提示
func clockInMessage(ctx context.Context, e *model.AttendanceEvent) string {
	switch {
	case e.Type == model.EventEntry && e.WithinTolerance:
		return i18n.T(ctx, "ClockInEntryOnTime")
	case e.Type == model.EventEntry:
		return i18n.T(ctx, "ClockInEntryLate", map[string]any{"Minutes": e.LateMinutes})
	case e.WithinTolerance:
		return i18n.T(ctx, "ClockInExitOnTime")
	default:
		return i18n.T(ctx, "ClockInExitEarly", map[string]any{"Minutes": e.EarlyDepartureMinutes})
	}
}

// ────────────────────── NextEvent ──────────────────────

func (s *clockService) NextEvent(ctx context.Context, rawCPF, establishmentID string) (*dto.NextEventResponse, error) {
	worker, err := s.activeWorkerByCPF(ctx, rawCPF)
	if err != nil {
		return nil, err
	}
	if _, err := s.getEstablishment(ctx, establishmentID); err != nil {
		return nil, err
	}

	today, yesterday, err := s.dayCounts(ctx, worker, establishmentID, attendance.Civil(s.clock.Now()))
	if err != nil {
		return nil, err
	}
	next := attendance.NextEventType(today, worker.Is24hShift(), yesterday)
	return &dto.NextEventResponse{
		WorkerName: worker.FullName(),
		Type:       string(next),
		TypeLabel:  eventTypeLabel(ctx, next),
	}, nil
}

// ────────────────────── ResolveNextEventType ──────────────────────

func (s *clockService) ResolveNextEventType(ctx context.Context, workerID, establishmentID string, date time.Time) (model.EventType, error) {
	worker, err := s.getWorker(ctx, workerID)
	if err != nil {
		return "", err
	}
	today, yesterday, err := s.dayCounts(ctx, worker, establishmentID, attendance.Civil(date))
	if err != nil {
		return "", err
	}
	return attendance.NextEventType(today, worker.Is24hShift(), yesterday), nil
}

// ────────────────────── IsDuplicate ──────────────────────

func (s *clockService) IsDuplicate(ctx context.Context, workerID, establishmentID string, date time.Time, eventType model.EventType) (bool, error) {
	worker, err := s.getWorker(ctx, workerID)
	if err != nil {
		return false, err
	}
	events, err := s.repo.Event.ListByWorkerDate(ctx, worker.WorkerID, establishmentID, attendance.Civil(date))
	if err != nil {
		s.logger.Error("查询当日打卡失败", zap.String("worker_id", workerID), zap.Error(err))
		return false, err
	}
	return attendance.IsDuplicate(attendance.Count(events), eventType, worker.Is24hShift()), nil
}

// ────────────────────── History ──────────────────────

func (s *clockService) History(ctx context.Context, req *dto.HistoryRequest) (*dto.HistoryResponse, error) {
	worker, err := s.activeWorkerByCPF(ctx, req.CPF)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	today := attendance.Civil(now)
	start := today.AddDate(0, 0, -HistoryDefaultDays)
	end := today
	if req.StartDate != "" {
		if start, err = parseDate(req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.EndDate != "" {
		if end, err = parseDate(req.EndDate); err != nil {
			return nil, err
		}
	}
	if end.Before(start) {
		end = start
	}

	events, err := s.repo.Event.ListByWorkerRange(ctx, worker.WorkerID, start, end)
	if err != nil {
		s.logger.Error("查询打卡历史失败", zap.String("worker_id", worker.WorkerID), zap.Error(err))
		return nil, err
	}

	resp := &dto.HistoryResponse{
		Worker:    toWorkerBrief(worker),
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
		Events:    make([]dto.EventResponse, 0, len(events)),
	}
	counts := attendance.Count(events)
	resp.TotalEntries, resp.TotalExits = counts.Entries, counts.Exits
	for i := range events {
		resp.Events = append(resp.Events, toEventResponse(ctx, &events[i], now))
	}
	return resp, nil
}

// ────────────────────── Recent ──────────────────────

func (s *clockService) Recent(ctx context.Context, req *dto.RecentRequest) ([]dto.EventResponse, error) {
	worker, err := s.activeWorkerByCPF(ctx, req.CPF)
	if err != nil {
		return nil, err
	}

	days := req.Days
	if days <= 0 {
		days = RecentDefaultDays
	}
	now := s.clock.Now()
	since := attendance.Civil(now).AddDate(0, 0, -days)

	events, err := s.repo.Event.ListRecentByWorker(ctx, worker.WorkerID, since, RecentLimit)
	if err != nil {
		s.logger.Error("查询最近打卡失败", zap.String("worker_id", worker.WorkerID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		result = append(result, toEventResponse(ctx, &events[i], now))
	}
	return result, nil
}

// ── 内部方法 ──

// activeWorkerByCPF 接受带格式或纯数字的 CPF，只返回已启用的员工
func (s *clockService) activeWorkerByCPF(ctx context.Context, raw string) (*model.Worker, error) {
	return findActiveByCPF(ctx, s.repo, s.logger, raw)
}

func findActiveByCPF(ctx context.Context, repo *repository.Repository, logger *zap.Logger, raw string) (*model.Worker, error) {
	canonical, err := cpf.Normalize(raw)
	if err != nil {
		return nil, ErrInvalidCPF
	}
	worker, err := repo.Worker.GetByCPF(ctx, canonical)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		logger.Error("按 CPF 查询员工失败", zap.Error(err))
		return nil, err
	}
	if !worker.Active {
		return nil, ErrWorkerNotFound
	}
	return worker, nil
}

func (s *clockService) getWorker(ctx context.Context, id string) (*model.Worker, error) {
	worker, err := s.repo.Worker.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		s.logger.Error("查询员工失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return worker, nil
}

func (s *clockService) getEstablishment(ctx context.Context, id string) (*model.Establishment, error) {
	est, err := s.repo.Establishment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEstablishmentNotFound
		}
		s.logger.Error("查询工作地点失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return est, nil
}

// dayCounts 同一地点当天与前一天的打卡条数
// 非 24 小时班不需要前一天的数据。
func (s *clockService) dayCounts(ctx context.Context, w *model.Worker, establishmentID string, today time.Time) (attendance.DayCounts, attendance.DayCounts, error) {
	var todayCounts, yesterdayCounts attendance.DayCounts

	events, err := s.repo.Event.ListByWorkerDate(ctx, w.WorkerID, establishmentID, today)
	if err != nil {
		s.logger.Error("查询当日打卡失败", zap.String("worker_id", w.WorkerID), zap.Error(err))
		return todayCounts, yesterdayCounts, err
	}
	todayCounts = attendance.Count(events)

	if w.Is24hShift() {
		prev, err := s.repo.Event.ListByWorkerDate(ctx, w.WorkerID, establishmentID, today.AddDate(0, 0, -1))
		if err != nil {
			s.logger.Error("查询前一日打卡失败", zap.String("worker_id", w.WorkerID), zap.Error(err))
			return todayCounts, yesterdayCounts, err
		}
		yesterdayCounts = attendance.Count(prev)
	}
	return todayCounts, yesterdayCounts, nil
}
