package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Ismaelg12/timeflow/internal/model"
)

// EventRepository 打卡记录数据访问接口
type EventRepository interface {
	// Create 插入打卡记录，唯一约束冲突返回 apperrors.ErrUniqueViolation
	Create(ctx context.Context, e *model.AttendanceEvent) error
	GetByID(ctx context.Context, id string) (*model.AttendanceEvent, error)
	// ListByWorkerDate 某员工某日的记录，establishmentID 为空时不限地点
	ListByWorkerDate(ctx context.Context, workerID, establishmentID string, date time.Time) ([]model.AttendanceEvent, error)
	// ListByWorkerRange 某员工 [start, end] 日期区间的记录
	ListByWorkerRange(ctx context.Context, workerID string, start, end time.Time) ([]model.AttendanceEvent, error)
	ListRecentByWorker(ctx context.Context, workerID string, since time.Time, limit int) ([]model.AttendanceEvent, error)
	// ListByRange 全部员工 [start, end] 的记录，预加载员工与地点
	ListByRange(ctx context.Context, start, end time.Time, establishmentID string) ([]model.AttendanceEvent, error)
	ListManualByWorker(ctx context.Context, workerID string) ([]model.AttendanceEvent, error)
	UpdateManual(ctx context.Context, e *model.AttendanceEvent) error
	Delete(ctx context.Context, id string) error
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo 创建 EventRepository 实例
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, e *model.AttendanceEvent) error {
	return translateError(r.db.WithContext(ctx).Create(e).Error)
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*model.AttendanceEvent, error) {
	var e model.AttendanceEvent
	err := r.db.WithContext(ctx).
		Preload("Worker").
		Preload("Establishment").
		Where("event_id = ?", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepo) ListByWorkerDate(ctx context.Context, workerID, establishmentID string, date time.Time) ([]model.AttendanceEvent, error) {
	var events []model.AttendanceEvent
	db := r.db.WithContext(ctx).
		Where("worker_id = ? AND date = ?", workerID, dateArg(date))
	if establishmentID != "" {
		db = db.Where("establishment_id = ?", establishmentID)
	}
	err := db.Order("time ASC").Find(&events).Error
	return events, err
}

func (r *eventRepo) ListByWorkerRange(ctx context.Context, workerID string, start, end time.Time) ([]model.AttendanceEvent, error) {
	var events []model.AttendanceEvent
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND date BETWEEN ? AND ?", workerID, dateArg(start), dateArg(end)).
		Order("date ASC, time ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepo) ListRecentByWorker(ctx context.Context, workerID string, since time.Time, limit int) ([]model.AttendanceEvent, error) {
	var events []model.AttendanceEvent
	err := r.db.WithContext(ctx).
		Preload("Establishment").
		Where("worker_id = ? AND date >= ?", workerID, dateArg(since)).
		Order("date DESC, time DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *eventRepo) ListByRange(ctx context.Context, start, end time.Time, establishmentID string) ([]model.AttendanceEvent, error) {
	var events []model.AttendanceEvent
	db := r.db.WithContext(ctx).
		Preload("Worker").
		Preload("Establishment").
		Where("date BETWEEN ? AND ?", dateArg(start), dateArg(end))
	if establishmentID != "" {
		db = db.Where("establishment_id = ?", establishmentID)
	}
	err := db.Order("date ASC, time ASC").Find(&events).Error
	return events, err
}

func (r *eventRepo) ListManualByWorker(ctx context.Context, workerID string) ([]model.AttendanceEvent, error) {
	var events []model.AttendanceEvent
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND manual_adjustment = ?", workerID, true).
		Order("created_at DESC").
		Find(&events).Error
	return events, err
}

// UpdateManual 只允许修改补录记录的时刻、容差结果与备注
func (r *eventRepo) UpdateManual(ctx context.Context, e *model.AttendanceEvent) error {
	return r.db.WithContext(ctx).
		Model(&model.AttendanceEvent{}).
		Where("event_id = ? AND manual_adjustment = ?", e.EventID, true).
		Updates(map[string]interface{}{
			"time":                    e.Time,
			"late_minutes":            e.LateMinutes,
			"early_departure_minutes": e.EarlyDepartureMinutes,
			"within_tolerance":        e.WithinTolerance,
			"notes":                   e.Notes,
		}).Error
}

func (r *eventRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", id).
		Delete(&model.AttendanceEvent{}).Error
}
