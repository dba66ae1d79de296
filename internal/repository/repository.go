package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/Ismaelg12/timeflow/pkg/errors"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User          UserRepository
	Worker        WorkerRepository
	Establishment EstablishmentRepository
	Event         EventRepository
	Adjustment    AdjustmentRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:            db,
		User:          NewUserRepo(db),
		Worker:        NewWorkerRepo(db),
		Establishment: NewEstablishmentRepo(db),
		Event:         NewEventRepo(db),
		Adjustment:    NewAdjustmentRepo(db),
	}
}

// BeginTx 开启事务
// 未绑定数据库（单元测试用 mock 组装）时返回 nil 事务，调用方按无事务处理。
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到事务的 Repository 聚合
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// ── 公共工具 ──

const uniqueViolation = "23505"

// translateError 将 PostgreSQL 唯一约束冲突映射为 ErrUniqueViolation
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperrors.ErrUniqueViolation
	}
	return err
}

// dateArg 日期查询参数，只取日历日期
func dateArg(t time.Time) string {
	return t.Format("2006-01-02")
}
