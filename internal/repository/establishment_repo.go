package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ismaelg12/timeflow/internal/model"
)

// EstablishmentRepository 工作地点数据访问接口
type EstablishmentRepository interface {
	Create(ctx context.Context, est *model.Establishment) error
	GetByID(ctx context.Context, id string) (*model.Establishment, error)
	List(ctx context.Context) ([]model.Establishment, error)
	Update(ctx context.Context, est *model.Establishment) error
	Delete(ctx context.Context, id string, deletedBy string) error
	Count(ctx context.Context) (int64, error)
}

type establishmentRepo struct {
	db *gorm.DB
}

// NewEstablishmentRepo 创建 EstablishmentRepository 实例
func NewEstablishmentRepo(db *gorm.DB) EstablishmentRepository {
	return &establishmentRepo{db: db}
}

func (r *establishmentRepo) Create(ctx context.Context, est *model.Establishment) error {
	return translateError(r.db.WithContext(ctx).Create(est).Error)
}

func (r *establishmentRepo) GetByID(ctx context.Context, id string) (*model.Establishment, error) {
	var est model.Establishment
	err := r.db.WithContext(ctx).
		Where("establishment_id = ?", id).
		First(&est).Error
	if err != nil {
		return nil, err
	}
	return &est, nil
}

func (r *establishmentRepo) List(ctx context.Context) ([]model.Establishment, error) {
	var list []model.Establishment
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *establishmentRepo) Update(ctx context.Context, est *model.Establishment) error {
	return translateError(r.db.WithContext(ctx).Save(est).Error)
}

func (r *establishmentRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Establishment{}).
		Where("establishment_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *establishmentRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Establishment{}).Count(&n).Error
	return n, err
}
