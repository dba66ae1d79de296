//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	gormPg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Ismaelg12/timeflow/internal/model"
	"github.com/Ismaelg12/timeflow/internal/repository"
	"github.com/Ismaelg12/timeflow/pkg/database"
	apperrors "github.com/Ismaelg12/timeflow/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("timeflow_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "启动 PostgreSQL 容器失败: %v\n", err)
		os.Exit(1)
	}

	code := func() int {
		defer pgContainer.Terminate(ctx)

		connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Fprintf(os.Stderr, "获取连接串失败: %v\n", err)
			return 1
		}

		testDB, err = gorm.Open(gormPg.Open(connStr), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
			return 1
		}

		// 使用与生产一致的嵌入式迁移建表
		sqlDB, err := testDB.DB()
		if err != nil {
			fmt.Fprintf(os.Stderr, "获取底层 sql.DB 失败: %v\n", err)
			return 1
		}
		if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
			fmt.Fprintf(os.Stderr, "数据库迁移失败: %v\n", err)
			return 1
		}

		return m.Run()
	}()
	os.Exit(code)
}

var cpfSeq = time.Now().UnixNano() % 1_000_000_000

// nextCPF 生成仅满足表约束（11 位数字）的唯一 CPF
func nextCPF() string {
	cpfSeq++
	return fmt.Sprintf("%011d", cpfSeq)
}

// setupTestData 创建工作地点与在职员工
func setupTestData(t *testing.T) (*model.Establishment, *model.Worker) {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewRepository(testDB)

	est := &model.Establishment{
		Name:          "UBS Centro",
		CNPJ:          fmt.Sprintf("%018d", time.Now().UnixNano()%1_000_000_000_000),
		Latitude:      -5.0892,
		Longitude:     -42.8019,
		AllowedRadius: 100,
	}
	require.NoError(t, repo.Establishment.Create(ctx, est))

	entry := datatypes.NewTime(7, 0, 0, 0)
	exit := datatypes.NewTime(13, 0, 0, 0)
	w := &model.Worker{
		FirstName:        "Ana",
		LastName:         "Souza",
		CPF:              nextCPF(),
		EstablishmentID:  &est.EstablishmentID,
		EntryTime:        &entry,
		ExitTime:         &exit,
		ToleranceMinutes: 10,
		Active:           true,
	}
	require.NoError(t, repo.Worker.Create(ctx, w))

	t.Cleanup(func() {
		testDB.Exec("DELETE FROM attendance_events WHERE worker_id = ?", w.WorkerID)
		testDB.Exec("DELETE FROM manual_adjustments WHERE worker_id = ?", w.WorkerID)
		testDB.Exec("DELETE FROM professionals WHERE worker_id = ?", w.WorkerID)
		testDB.Exec("DELETE FROM establishments WHERE establishment_id = ?", est.EstablishmentID)
	})
	return est, w
}

func newEvent(w *model.Worker, est *model.Establishment, day time.Time, hh, mm int, typ model.EventType) *model.AttendanceEvent {
	return &model.AttendanceEvent{
		WorkerID:        w.WorkerID,
		EstablishmentID: est.EstablishmentID,
		Date:            datatypes.Date(day),
		Time:            datatypes.NewTime(hh, mm, 0, 0),
		Type:            typ,
		WithinTolerance: true,
	}
}

var testDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

// ═══════════════════════════════════════════════════════════
// Test: Attendance Events
// ═══════════════════════════════════════════════════════════

func TestEvent_DuplicateRejectedByUniqueIndex(t *testing.T) {
	est, w := setupTestData(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	require.NoError(t, repo.Event.Create(ctx, newEvent(w, est, testDay, 7, 5, model.EventEntry)))

	err := repo.Event.Create(ctx, newEvent(w, est, testDay, 7, 6, model.EventEntry))
	assert.True(t, errors.Is(err, apperrors.ErrUniqueViolation), "同日同类型第二条应触发唯一约束，得到: %v", err)

	// 下班记录不受影响
	require.NoError(t, repo.Event.Create(ctx, newEvent(w, est, testDay, 13, 0, model.EventExit)))

	events, err := repo.Event.ListByWorkerDate(ctx, w.WorkerID, est.EstablishmentID, testDay)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.EventEntry, events[0].Type, "应按时刻升序")
	assert.Equal(t, "07:05:00", events[0].Time.String())
}

func TestEvent_Shift24hExitExempt(t *testing.T) {
	est, w := setupTestData(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	require.NoError(t, repo.Event.Create(ctx, newEvent(w, est, testDay, 7, 0, model.EventExit)))

	exit24 := newEvent(w, est, testDay, 7, 2, model.EventExit)
	exit24.Shift24h = true
	assert.NoError(t, repo.Event.Create(ctx, exit24), "24 小时班下班不受同日唯一约束限制")
}

func TestEvent_ListByWorkerRange(t *testing.T) {
	est, w := setupTestData(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		day := testDay.AddDate(0, 0, i)
		require.NoError(t, repo.Event.Create(ctx, newEvent(w, est, day, 7, 0, model.EventEntry)))
		require.NoError(t, repo.Event.Create(ctx, newEvent(w, est, day, 13, 0, model.EventExit)))
	}

	events, err := repo.Event.ListByWorkerRange(ctx, w.WorkerID, testDay, testDay.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, events, 4, "区间两端均应包含")
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction (manual exit dual write)
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	est, w := setupTestData(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	txRepo := repo.WithTx(tx)

	adj := &model.ManualAdjustment{
		WorkerID:   w.WorkerID,
		Date:       datatypes.Date(testDay),
		Time:       datatypes.NewTime(17, 0, 0, 0),
		Type:       model.EventExit,
		ReasonCode: "ESQUECIMENTO",
		AdjustedBy: uuid.NewString(),
	}
	require.NoError(t, txRepo.Adjustment.Create(ctx, adj))

	ev := newEvent(w, est, testDay, 17, 0, model.EventExit)
	ev.ManualAdjustment = true
	ev.AdjustmentID = &adj.AdjustmentID
	require.NoError(t, txRepo.Event.Create(ctx, ev))

	tx.Rollback()

	_, err = repo.Adjustment.GetByID(ctx, adj.AdjustmentID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound), "回滚后补录记录不应存在")
	_, err = repo.Event.GetByID(ctx, ev.EventID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound), "回滚后打卡记录不应存在")
}

func TestTransaction_Commit(t *testing.T) {
	est, w := setupTestData(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	txRepo := repo.WithTx(tx)

	adj := &model.ManualAdjustment{
		WorkerID:   w.WorkerID,
		Date:       datatypes.Date(testDay),
		Time:       datatypes.NewTime(17, 0, 0, 0),
		Type:       model.EventExit,
		ReasonCode: "ESQUECIMENTO",
		AdjustedBy: uuid.NewString(),
	}
	require.NoError(t, txRepo.Adjustment.Create(ctx, adj))
	ev := newEvent(w, est, testDay, 17, 0, model.EventExit)
	ev.ManualAdjustment = true
	ev.AdjustmentID = &adj.AdjustmentID
	require.NoError(t, txRepo.Event.Create(ctx, ev))

	require.NoError(t, tx.Commit().Error)

	found, err := repo.Event.GetByID(ctx, ev.EventID)
	require.NoError(t, err)
	require.NotNil(t, found.AdjustmentID)
	assert.Equal(t, adj.AdjustmentID, *found.AdjustmentID)

	list, total, err := repo.Adjustment.ListByWorker(ctx, w.WorkerID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)
}

// ═══════════════════════════════════════════════════════════
// Test: Workers / Establishments
// ═══════════════════════════════════════════════════════════

func TestOptimisticLock_Worker_ConflictDetected(t *testing.T) {
	_, w := setupTestData(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	copy1, err := repo.Worker.GetByID(ctx, w.WorkerID)
	require.NoError(t, err)
	copy2, err := repo.Worker.GetByID(ctx, w.WorkerID)
	require.NoError(t, err)

	copy1.Profession = "Enfermeira"
	require.NoError(t, repo.Worker.Update(ctx, copy1))
	assert.Equal(t, 2, copy1.Version)

	copy2.Profession = "Médica"
	err = repo.Worker.Update(ctx, copy2)
	assert.Equal(t, apperrors.ErrOptimisticLock, err)
}

func TestWorker_DuplicateCPF(t *testing.T) {
	_, w := setupTestData(t)
	repo := repository.NewRepository(testDB)

	dup := &model.Worker{FirstName: "Outra", LastName: "Pessoa", CPF: w.CPF}
	err := repo.Worker.Create(context.Background(), dup)
	assert.True(t, errors.Is(err, apperrors.ErrUniqueViolation), "重复 CPF 应映射为唯一约束冲突，得到: %v", err)
}

func TestEstablishment_SoftDelete(t *testing.T) {
	est, _ := setupTestData(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	require.NoError(t, repo.Establishment.Delete(ctx, est.EstablishmentID, uuid.NewString()))

	_, err := repo.Establishment.GetByID(ctx, est.EstablishmentID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound), "软删除后应查不到")

	// 已删除地点的 CNPJ 可以重新登记
	again := &model.Establishment{
		Name:          "UBS Centro (novo)",
		CNPJ:          est.CNPJ,
		Latitude:      est.Latitude,
		Longitude:     est.Longitude,
		AllowedRadius: 100,
	}
	require.NoError(t, repo.Establishment.Create(ctx, again))
	testDB.Exec("DELETE FROM establishments WHERE establishment_id = ?", again.EstablishmentID)
}
