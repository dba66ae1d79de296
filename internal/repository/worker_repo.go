package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ismaelg12/timeflow/internal/model"
	apperrors "github.com/Ismaelg12/timeflow/pkg/errors"
)

// WorkerFilter 员工列表筛选条件
type WorkerFilter struct {
	EstablishmentID string
	Active          *bool
	Keyword         string // 匹配姓名或 CPF
}

// WorkerRepository 员工档案数据访问接口
type WorkerRepository interface {
	Create(ctx context.Context, w *model.Worker) error
	GetByID(ctx context.Context, id string) (*model.Worker, error)
	GetByCPF(ctx context.Context, cpf string) (*model.Worker, error)
	GetByUserID(ctx context.Context, userID string) (*model.Worker, error)
	List(ctx context.Context, filter WorkerFilter, offset, limit int) ([]model.Worker, int64, error)
	ListActive(ctx context.Context, establishmentID string) ([]model.Worker, error)
	Update(ctx context.Context, w *model.Worker) error
	CountActive(ctx context.Context) (int64, error)
}

type workerRepo struct {
	db *gorm.DB
}

// NewWorkerRepo 创建 WorkerRepository 实例
func NewWorkerRepo(db *gorm.DB) WorkerRepository {
	return &workerRepo{db: db}
}

func (r *workerRepo) Create(ctx context.Context, w *model.Worker) error {
	return translateError(r.db.WithContext(ctx).Create(w).Error)
}

func (r *workerRepo) GetByID(ctx context.Context, id string) (*model.Worker, error) {
	var w model.Worker
	err := r.db.WithContext(ctx).
		Preload("Establishment").
		Where("worker_id = ?", id).
		First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *workerRepo) GetByCPF(ctx context.Context, cpf string) (*model.Worker, error) {
	var w model.Worker
	err := r.db.WithContext(ctx).
		Where("cpf = ?", cpf).
		First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *workerRepo) GetByUserID(ctx context.Context, userID string) (*model.Worker, error) {
	var w model.Worker
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *workerRepo) List(ctx context.Context, filter WorkerFilter, offset, limit int) ([]model.Worker, int64, error) {
	var workers []model.Worker
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Worker{})
	if filter.EstablishmentID != "" {
		db = db.Where("establishment_id = ?", filter.EstablishmentID)
	}
	if filter.Active != nil {
		db = db.Where("active = ?", *filter.Active)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		db = db.Where("first_name ILIKE ? OR last_name ILIKE ? OR cpf LIKE ?", like, like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Establishment").
		Offset(offset).Limit(limit).
		Order("first_name ASC, last_name ASC").
		Find(&workers).Error; err != nil {
		return nil, 0, err
	}

	return workers, total, nil
}

func (r *workerRepo) ListActive(ctx context.Context, establishmentID string) ([]model.Worker, error) {
	var workers []model.Worker
	db := r.db.WithContext(ctx).Where("active = ?", true)
	if establishmentID != "" {
		db = db.Where("establishment_id = ?", establishmentID)
	}
	err := db.Order("first_name ASC").Find(&workers).Error
	return workers, err
}

// Update 乐观锁更新，版本不一致时返回 ErrOptimisticLock
func (r *workerRepo) Update(ctx context.Context, w *model.Worker) error {
	oldVersion := w.Version
	result := r.db.WithContext(ctx).
		Model(w).
		Where("worker_id = ? AND version = ?", w.WorkerID, oldVersion).
		Updates(map[string]interface{}{
			"first_name":        w.FirstName,
			"last_name":         w.LastName,
			"email":             w.Email,
			"phone":             w.Phone,
			"profession":        w.Profession,
			"establishment_id":  w.EstablishmentID,
			"entry_time":        w.EntryTime,
			"exit_time":         w.ExitTime,
			"tolerance_minutes": w.ToleranceMinutes,
			"daily_minutes":     w.DailyMinutes,
			"weekly_minutes":    w.WeeklyMinutes,
			"active":            w.Active,
			"user_id":           w.UserID,
			"updated_by":        w.UpdatedBy,
			"updated_at":        gorm.Expr("NOW()"),
			"version":           oldVersion + 1,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrOptimisticLock
	}
	w.Version = oldVersion + 1
	return nil
}

func (r *workerRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Worker{}).Where("active = ?", true).Count(&n).Error
	return n, err
}
