package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Ismaelg12/timeflow/internal/model"
	"github.com/Ismaelg12/timeflow/internal/repository"
	apperrors "github.com/Ismaelg12/timeflow/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return apperrors.ErrUniqueViolation
		}
	}
	if user.UserID == "" {
		user.UserID = "user-" + user.Username
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	all := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	return paginate(all, offset, limit), int64(len(all)), nil
}

// ── Mock WorkerRepository ──

type mockWorkerRepo struct {
	workers map[string]*model.Worker
	// updateErr 非 nil 时 Update 直接返回该错误
	updateErr error
}

func newMockWorkerRepo() *mockWorkerRepo {
	return &mockWorkerRepo{workers: make(map[string]*model.Worker)}
}

func (m *mockWorkerRepo) Create(_ context.Context, w *model.Worker) error {
	for _, existing := range m.workers {
		if existing.CPF == w.CPF {
			return apperrors.ErrUniqueViolation
		}
	}
	if w.WorkerID == "" {
		w.WorkerID = "worker-" + w.CPF
	}
	if w.Version == 0 {
		w.Version = 1
	}
	m.workers[w.WorkerID] = w
	return nil
}

func (m *mockWorkerRepo) GetByID(_ context.Context, id string) (*model.Worker, error) {
	if w, ok := m.workers[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkerRepo) GetByCPF(_ context.Context, cpf string) (*model.Worker, error) {
	for _, w := range m.workers {
		if w.CPF == cpf {
			cp := *w
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkerRepo) GetByUserID(_ context.Context, userID string) (*model.Worker, error) {
	for _, w := range m.workers {
		if w.UserID != nil && *w.UserID == userID {
			cp := *w
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkerRepo) List(_ context.Context, filter repository.WorkerFilter, offset, limit int) ([]model.Worker, int64, error) {
	var all []model.Worker
	for _, w := range m.workers {
		if filter.EstablishmentID != "" && (w.EstablishmentID == nil || *w.EstablishmentID != filter.EstablishmentID) {
			continue
		}
		if filter.Active != nil && w.Active != *filter.Active {
			continue
		}
		if filter.Keyword != "" &&
			!strings.Contains(strings.ToLower(w.FullName()), strings.ToLower(filter.Keyword)) &&
			!strings.Contains(w.CPF, filter.Keyword) {
			continue
		}
		all = append(all, *w)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].FullName() < all[j].FullName() })
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockWorkerRepo) ListActive(_ context.Context, establishmentID string) ([]model.Worker, error) {
	var result []model.Worker
	for _, w := range m.workers {
		if !w.Active {
			continue
		}
		if establishmentID != "" && (w.EstablishmentID == nil || *w.EstablishmentID != establishmentID) {
			continue
		}
		result = append(result, *w)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FirstName < result[j].FirstName })
	return result, nil
}

func (m *mockWorkerRepo) Update(_ context.Context, w *model.Worker) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.workers[w.WorkerID]
	if !ok || stored.Version != w.Version {
		return apperrors.ErrOptimisticLock
	}
	w.Version++
	cp := *w
	m.workers[w.WorkerID] = &cp
	return nil
}

func (m *mockWorkerRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, w := range m.workers {
		if w.Active {
			n++
		}
	}
	return n, nil
}

// ── Mock EstablishmentRepository ──

type mockEstablishmentRepo struct {
	establishments map[string]*model.Establishment
}

func newMockEstablishmentRepo() *mockEstablishmentRepo {
	return &mockEstablishmentRepo{establishments: make(map[string]*model.Establishment)}
}

func (m *mockEstablishmentRepo) Create(_ context.Context, est *model.Establishment) error {
	for _, e := range m.establishments {
		if e.CNPJ == est.CNPJ {
			return apperrors.ErrUniqueViolation
		}
	}
	if est.EstablishmentID == "" {
		est.EstablishmentID = "est-" + est.CNPJ
	}
	m.establishments[est.EstablishmentID] = est
	return nil
}

func (m *mockEstablishmentRepo) GetByID(_ context.Context, id string) (*model.Establishment, error) {
	if e, ok := m.establishments[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEstablishmentRepo) List(_ context.Context) ([]model.Establishment, error) {
	var result []model.Establishment
	for _, e := range m.establishments {
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockEstablishmentRepo) Update(_ context.Context, est *model.Establishment) error {
	m.establishments[est.EstablishmentID] = est
	return nil
}

func (m *mockEstablishmentRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.establishments, id)
	return nil
}

func (m *mockEstablishmentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.establishments)), nil
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	events  []*model.AttendanceEvent
	workers *mockWorkerRepo
	ests    *mockEstablishmentRepo
}

func newMockEventRepo(workers *mockWorkerRepo, ests *mockEstablishmentRepo) *mockEventRepo {
	return &mockEventRepo{workers: workers, ests: ests}
}

// Create 模拟 uq_event_worker_day_type 部分唯一索引
func (m *mockEventRepo) Create(_ context.Context, e *model.AttendanceEvent) error {
	if !e.ManualAdjustment && !(e.Type == model.EventExit && e.Shift24h) {
		for _, x := range m.events {
			if x.ManualAdjustment || (x.Type == model.EventExit && x.Shift24h) {
				continue
			}
			if x.WorkerID == e.WorkerID && x.EstablishmentID == e.EstablishmentID &&
				x.Day().Equal(e.Day()) && x.Type == e.Type {
				return apperrors.ErrUniqueViolation
			}
		}
	}
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	cp := *e
	m.events = append(m.events, &cp)
	return nil
}

func (m *mockEventRepo) preload(e *model.AttendanceEvent) model.AttendanceEvent {
	cp := *e
	if w, ok := m.workers.workers[cp.WorkerID]; ok {
		cp.Worker = w
	}
	if est, ok := m.ests.establishments[cp.EstablishmentID]; ok {
		cp.Establishment = est
	}
	return cp
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*model.AttendanceEvent, error) {
	for _, e := range m.events {
		if e.EventID == id {
			cp := m.preload(e)
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) ListByWorkerDate(_ context.Context, workerID, establishmentID string, date time.Time) ([]model.AttendanceEvent, error) {
	var result []model.AttendanceEvent
	for _, e := range m.events {
		if e.WorkerID != workerID || !sameDay(e.Day(), date) {
			continue
		}
		if establishmentID != "" && e.EstablishmentID != establishmentID {
			continue
		}
		result = append(result, *e)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Time < result[j].Time })
	return result, nil
}

func (m *mockEventRepo) ListByWorkerRange(_ context.Context, workerID string, start, end time.Time) ([]model.AttendanceEvent, error) {
	var result []model.AttendanceEvent
	for _, e := range m.events {
		if e.WorkerID == workerID && inRange(e.Day(), start, end) {
			result = append(result, *e)
		}
	}
	sortByAt(result)
	return result, nil
}

func (m *mockEventRepo) ListRecentByWorker(_ context.Context, workerID string, since time.Time, limit int) ([]model.AttendanceEvent, error) {
	var result []model.AttendanceEvent
	for _, e := range m.events {
		if e.WorkerID == workerID && !e.Day().Before(civil(since)) {
			result = append(result, m.preload(e))
		}
	}
	sortByAt(result)
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockEventRepo) ListByRange(_ context.Context, start, end time.Time, establishmentID string) ([]model.AttendanceEvent, error) {
	var result []model.AttendanceEvent
	for _, e := range m.events {
		if !inRange(e.Day(), start, end) {
			continue
		}
		if establishmentID != "" && e.EstablishmentID != establishmentID {
			continue
		}
		result = append(result, m.preload(e))
	}
	sortByAt(result)
	return result, nil
}

func (m *mockEventRepo) ListManualByWorker(_ context.Context, workerID string) ([]model.AttendanceEvent, error) {
	var result []model.AttendanceEvent
	for _, e := range m.events {
		if e.WorkerID == workerID && e.ManualAdjustment {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockEventRepo) UpdateManual(_ context.Context, e *model.AttendanceEvent) error {
	for _, x := range m.events {
		if x.EventID == e.EventID && x.ManualAdjustment {
			x.Time = e.Time
			x.LateMinutes = e.LateMinutes
			x.EarlyDepartureMinutes = e.EarlyDepartureMinutes
			x.WithinTolerance = e.WithinTolerance
			x.Notes = e.Notes
		}
	}
	return nil
}

func (m *mockEventRepo) Delete(_ context.Context, id string) error {
	for i, e := range m.events {
		if e.EventID == id {
			m.events = append(m.events[:i], m.events[i+1:]...)
			return nil
		}
	}
	return nil
}

// ── Mock AdjustmentRepository ──

type mockAdjustmentRepo struct {
	adjustments map[string]*model.ManualAdjustment
	// createErr 非 nil 时 Create 直接返回该错误
	createErr error
}

func newMockAdjustmentRepo() *mockAdjustmentRepo {
	return &mockAdjustmentRepo{adjustments: make(map[string]*model.ManualAdjustment)}
}

func (m *mockAdjustmentRepo) Create(_ context.Context, a *model.ManualAdjustment) error {
	if m.createErr != nil {
		return m.createErr
	}
	if a.AdjustmentID == "" {
		a.AdjustmentID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	m.adjustments[a.AdjustmentID] = a
	return nil
}

func (m *mockAdjustmentRepo) GetByID(_ context.Context, id string) (*model.ManualAdjustment, error) {
	if a, ok := m.adjustments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdjustmentRepo) UpdateTime(_ context.Context, a *model.ManualAdjustment) error {
	if stored, ok := m.adjustments[a.AdjustmentID]; ok {
		stored.Time = a.Time
		stored.Description = a.Description
	}
	return nil
}

func (m *mockAdjustmentRepo) Delete(_ context.Context, id string) error {
	delete(m.adjustments, id)
	return nil
}

func (m *mockAdjustmentRepo) ListByWorker(_ context.Context, workerID string, offset, limit int) ([]model.ManualAdjustment, int64, error) {
	var all []model.ManualAdjustment
	for _, a := range m.adjustments {
		if a.WorkerID == workerID {
			all = append(all, *a)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, offset, limit), int64(len(all)), nil
}

// ── 测试辅助 ──

// mockStore 所有 mock repo 的组合，便于各测试按需取用
type mockStore struct {
	users          *mockUserRepo
	workers        *mockWorkerRepo
	establishments *mockEstablishmentRepo
	events         *mockEventRepo
	adjustments    *mockAdjustmentRepo
}

func newMockStore() *mockStore {
	workers := newMockWorkerRepo()
	ests := newMockEstablishmentRepo()
	return &mockStore{
		users:          newMockUserRepo(),
		workers:        workers,
		establishments: ests,
		events:         newMockEventRepo(workers, ests),
		adjustments:    newMockAdjustmentRepo(),
	}
}

// repo 未绑定数据库，BeginTx 返回 nil 事务
func (s *mockStore) repo() *repository.Repository {
	return &repository.Repository{
		User:          s.users,
		Worker:        s.workers,
		Establishment: s.establishments,
		Event:         s.events,
		Adjustment:    s.adjustments,
	}
}

func paginate[T any](all []T, offset, limit int) []T {
	if offset > len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool { return civil(a).Equal(civil(b)) }

func inRange(day, start, end time.Time) bool {
	return !day.Before(civil(start)) && !day.After(civil(end))
}

func sortByAt(events []model.AttendanceEvent) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].At().Before(events[j].At()) })
}
