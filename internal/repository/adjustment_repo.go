package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ismaelg12/timeflow/internal/model"
)

// AdjustmentRepository 补录审计数据访问接口
type AdjustmentRepository interface {
	Create(ctx context.Context, a *model.ManualAdjustment) error
	GetByID(ctx context.Context, id string) (*model.ManualAdjustment, error)
	UpdateTime(ctx context.Context, a *model.ManualAdjustment) error
	Delete(ctx context.Context, id string) error
	ListByWorker(ctx context.Context, workerID string, offset, limit int) ([]model.ManualAdjustment, int64, error)
}

type adjustmentRepo struct {
	db *gorm.DB
}

// NewAdjustmentRepo 创建 AdjustmentRepository 实例
func NewAdjustmentRepo(db *gorm.DB) AdjustmentRepository {
	return &adjustmentRepo{db: db}
}

func (r *adjustmentRepo) Create(ctx context.Context, a *model.ManualAdjustment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *adjustmentRepo) GetByID(ctx context.Context, id string) (*model.ManualAdjustment, error) {
	var a model.ManualAdjustment
	err := r.db.WithContext(ctx).
		Where("adjustment_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *adjustmentRepo) UpdateTime(ctx context.Context, a *model.ManualAdjustment) error {
	return r.db.WithContext(ctx).
		Model(&model.ManualAdjustment{}).
		Where("adjustment_id = ?", a.AdjustmentID).
		Updates(map[string]interface{}{
			"time":        a.Time,
			"description": a.Description,
		}).Error
}

func (r *adjustmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("adjustment_id = ?", id).
		Delete(&model.ManualAdjustment{}).Error
}

func (r *adjustmentRepo) ListByWorker(ctx context.Context, workerID string, offset, limit int) ([]model.ManualAdjustment, int64, error) {
	var list []model.ManualAdjustment
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ManualAdjustment{}).Where("worker_id = ?", workerID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
