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
	apperrors "github.com/Ismaelg12/timeflow/pkg/errors"
	"github.com/Ismaelg12/timeflow/pkg/i18n"
)

// ── 补录模块业务错误 ──

var (
	ErrNoEntryForDay     = apperrors.New(apperrors.KindSequence, "NoEntryForDay", "当天没有上班打卡")
	ErrExitAlreadyExists = apperrors.New(apperrors.KindSequence, "ExitAlreadyExists", "当天已有下班打卡")
	ErrExitNotAfterEntry = apperrors.New(apperrors.KindSequence, "ExitNotAfterEntry", "下班时间必须晚于上班时间")
	ErrEditWindowExpired = apperrors.New(apperrors.KindForbidden, "EditWindowExpired", "补录记录已超过 24 小时修改期限")
	ErrNotManualEvent    = apperrors.New(apperrors.KindForbidden, "NotManualEvent", "只能修改补录记录")
)

// ManualAdjustmentService 补录业务接口
type ManualAdjustmentService interface {
	// CreateManualExit 为有上班无下班的一天补录下班，打卡记录与审计记录在同一事务内写入
	CreateManualExit(ctx context.Context, req *dto.CreateManualExitRequest, actorID string) (*dto.ManualAdjustmentResponse, error)
	UpdateManualEvent(ctx context.Context, eventID string, req *dto.UpdateManualEventRequest, actorID string) (*dto.EventResponse, error)
	DeleteManualEvent(ctx context.Context, eventID string, actorID string) error
	ListByWorker(ctx context.Context, workerID string, req *dto.PaginationRequest) ([]dto.ManualAdjustmentResponse, int64, error)
	Justifications(ctx context.Context) []dto.JustificationOption
}

type manualAdjustmentService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewManualAdjustmentService 创建 ManualAdjustmentService 实例
func NewManualAdjustmentService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) ManualAdjustmentService {
	return &manualAdjustmentService{repo: repo, clock: clk, logger: logger}
}

// ────────────────────── CreateManualExit ──────────────────────

func (s *manualAdjustmentService) CreateManualExit(ctx context.Context, req *dto.CreateManualExitRequest, actorID string) (*dto.ManualAdjustmentResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	exitTime, err := parseClock(req.Time)
	if err != nil {
		return nil, err
	}
	justification := attendance.Justification{Code: req.ReasonCode, Description: req.Description}
	if err := justification.Validate(); err != nil {
		return nil, err
	}

	worker, err := s.repo.Worker.GetByID(ctx, req.WorkerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		s.logger.Error("查询员工失败", zap.String("id", req.WorkerID), zap.Error(err))
		return nil, err
	}

	// 当天记录不限地点
	events, err := s.repo.Event.ListByWorkerDate(ctx, worker.WorkerID, "", date)
	if err != nil {
		s.logger.Error("查询当日打卡失败", zap.String("worker_id", worker.WorkerID), zap.Error(err))
		return nil, err
	}
	var lastEntry *model.AttendanceEvent
	for i := range events {
		e := &events[i]
		switch e.Type {
		case model.EventExit:
			return nil, ErrExitAlreadyExists
		case model.EventEntry:
			if lastEntry == nil || e.Time > lastEntry.Time {
				lastEntry = e
			}
		}
	}
	if lastEntry == nil {
		return nil, ErrNoEntryForDay
	}
	if exitTime <= lastEntry.Time {
		return nil, ErrExitNotAfterEntry
	}

	now := s.clock.Now()
	adjustment := &model.ManualAdjustment{
		WorkerID:    worker.WorkerID,
		Date:        datatypes.Date(date),
		Time:        exitTime,
		Type:        model.EventExit,
		ReasonCode:  justification.Code,
		Description: justification.Description,
		AdjustedBy:  actorID,
		Confirmed:   true,
		ConfirmedBy: &actorID,
		ConfirmedAt: &now,
		CreatedAt:   now,
	}
	event := &model.AttendanceEvent{
		WorkerID:         worker.WorkerID,
		EstablishmentID:  lastEntry.EstablishmentID,
		Date:             datatypes.Date(date),
		Time:             exitTime,
		Type:             model.EventExit,
		ManualAdjustment: true,
		Justification:    justification.Text(),
		Notes:            req.Notes,
		AdjustedBy:       &actorID,
		Shift24h:         worker.Is24hShift(),
		CreatedAt:        now,
	}
	attendance.ComputeTolerance(worker, exitTime, model.EventExit).Apply(event)

	// ── 事务：审计记录 + 打卡记录 ──
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Adjustment.Create(ctx, adjustment); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("创建补录审计记录失败", zap.String("worker_id", worker.WorkerID), zap.Error(err))
		return nil, err
	}

	event.AdjustmentID = &adjustment.AdjustmentID
	if err := txRepo.Event.Create(ctx, event); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("创建补录打卡记录失败", zap.String("worker_id", worker.WorkerID), zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("补录下班成功",
		zap.String("worker_id", worker.WorkerID),
		zap.String("event_id", event.EventID),
		zap.String("adjustment_id", adjustment.AdjustmentID),
		zap.String("actor_id", actorID))

	event.Worker = worker
	return toAdjustmentResponse(ctx, adjustment, event, now), nil
}

// checkExitAfterEntry 修改后的下班时间仍须晚于当天最后一次上班
func (s *manualAdjustmentService) checkExitAfterEntry(ctx context.Context, event *model.AttendanceEvent, exitTime datatypes.Time) error {
	events, err := s.repo.Event.ListByWorkerDate(ctx, event.WorkerID, "", event.Day())
	if err != nil {
		s.logger.Error("查询当日打卡失败", zap.String("worker_id", event.WorkerID), zap.Error(err))
		return err
	}
	var lastEntry *model.AttendanceEvent
	for i := range events {
		e := &events[i]
		if e.Type == model.EventEntry && (lastEntry == nil || e.Time > lastEntry.Time) {
			lastEntry = e
		}
	}
	if lastEntry == nil {
		return ErrNoEntryForDay
	}
	if exitTime <= lastEntry.Time {
		return ErrExitNotAfterEntry
	}
	return nil
}

// ────────────────────── UpdateManualEvent ──────────────────────

func (s *manualAdjustmentService) UpdateManualEvent(ctx context.Context, eventID string, req *dto.UpdateManualEventRequest, actorID string) (*dto.EventResponse, error) {
	event, err := s.editableEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if req.Time != nil {
		t, err := parseClock(*req.Time)
		if err != nil {
			return nil, err
		}
		if event.Type == model.EventExit {
			if err := s.checkExitAfterEntry(ctx, event, t); err != nil {
				return nil, err
			}
		}
		event.Time = t
		if event.Worker != nil {
			attendance.ComputeTolerance(event.Worker, t, event.Type).Apply(event)
		}
	}
	if req.Notes != nil {
		event.Notes = *req.Notes
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Event.UpdateManual(ctx, event); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("更新补录打卡失败", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}
	if event.AdjustmentID != nil && req.Time != nil {
		adj, err := txRepo.Adjustment.GetByID(ctx, *event.AdjustmentID)
		if err == nil {
			adj.Time = event.Time
			err = txRepo.Adjustment.UpdateTime(ctx, adj)
		}
		if err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("同步补录审计记录失败", zap.String("event_id", eventID), zap.Error(err))
			return nil, err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("修改补录记录", zap.String("event_id", eventID), zap.String("actor_id", actorID))
	resp := toEventResponse(ctx, event, s.clock.Now())
	return &resp, nil
}

// ────────────────────── DeleteManualEvent ──────────────────────

func (s *manualAdjustmentService) DeleteManualEvent(ctx context.Context, eventID string, actorID string) error {
	event, err := s.editableEvent(ctx, eventID)
	if err != nil {
		return err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	// 打卡记录引用审计记录，先删打卡
	if err := txRepo.Event.Delete(ctx, event.EventID); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("删除补录打卡失败", zap.String("event_id", eventID), zap.Error(err))
		return err
	}
	if event.AdjustmentID != nil {
		if err := txRepo.Adjustment.Delete(ctx, *event.AdjustmentID); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("删除补录审计记录失败", zap.String("event_id", eventID), zap.Error(err))
			return err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}

	s.logger.Info("删除补录记录", zap.String("event_id", eventID), zap.String("actor_id", actorID))
	return nil
}

// ────────────────────── ListByWorker ──────────────────────

func (s *manualAdjustmentService) ListByWorker(ctx context.Context, workerID string, req *dto.PaginationRequest) ([]dto.ManualAdjustmentResponse, int64, error) {
	adjustments, total, err := s.repo.Adjustment.ListByWorker(ctx, workerID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出补录记录失败", zap.String("worker_id", workerID), zap.Error(err))
		return nil, 0, err
	}

	events, err := s.repo.Event.ListManualByWorker(ctx, workerID)
	if err != nil {
		s.logger.Error("列出补录打卡失败", zap.String("worker_id", workerID), zap.Error(err))
		return nil, 0, err
	}
	byAdjustment := make(map[string]*model.AttendanceEvent, len(events))
	for i := range events {
		if id := events[i].AdjustmentID; id != nil {
			byAdjustment[*id] = &events[i]
		}
	}

	now := s.clock.Now()
	result := make([]dto.ManualAdjustmentResponse, 0, len(adjustments))
	for i := range adjustments {
		result = append(result, *toAdjustmentResponse(ctx, &adjustments[i], byAdjustment[adjustments[i].AdjustmentID], now))
	}
	return result, total, nil
}

// ────────────────────── Justifications ──────────────────────

func (s *manualAdjustmentService) Justifications(ctx context.Context) []dto.JustificationOption {
	options := make([]dto.JustificationOption, 0, len(attendance.ReasonCodes))
	for _, code := range attendance.ReasonCodes {
		options = append(options, dto.JustificationOption{
			Code:  code,
			Label: i18n.T(ctx, "Justification."+code),
		})
	}
	return options
}

// ── 内部方法 ──

// editableEvent 取出可修改的补录记录：必须是补录且在 24 小时期限内
func (s *manualAdjustmentService) editableEvent(ctx context.Context, eventID string) (*model.AttendanceEvent, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询打卡记录失败", zap.String("id", eventID), zap.Error(err))
		return nil, err
	}
	if !event.ManualAdjustment {
		return nil, ErrNotManualEvent
	}
	if !attendance.CanEdit(event, s.clock.Now()) {
		return nil, ErrEditWindowExpired
	}
	return event, nil
}

func toAdjustmentResponse(ctx context.Context, a *model.ManualAdjustment, e *model.AttendanceEvent, now time.Time) *dto.ManualAdjustmentResponse {
	resp := &dto.ManualAdjustmentResponse{
		AdjustmentID: a.AdjustmentID,
		ReasonCode:   a.ReasonCode,
		ReasonLabel:  i18n.T(ctx, "Justification."+a.ReasonCode),
		Description:  a.Description,
		AdjustedBy:   a.AdjustedBy,
		Confirmed:    a.Confirmed,
		CreatedAt:    a.CreatedAt.Format(dateTimeLayout),
	}
	if a.ConfirmedAt != nil {
		resp.ConfirmedAt = a.ConfirmedAt.Format(dateTimeLayout)
	}
	if e != nil {
		resp.Event = toEventResponse(ctx, e, now)
	}
	return resp
}
