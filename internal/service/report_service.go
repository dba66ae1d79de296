package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ismaelg12/timeflow/internal/attendance"
	"github.com/Ismaelg12/timeflow/internal/dto"
	"github.com/Ismaelg12/timeflow/internal/model"
	"github.com/Ismaelg12/timeflow/internal/repository"
	"github.com/Ismaelg12/timeflow/pkg/clock"
)

// ReportService 工时报表业务接口
type ReportService interface {
	// AggregateWorkedHours 汇总员工 [start, end] 的实际工时
	AggregateWorkedHours(ctx context.Context, workerID string, start, end time.Time) (*attendance.Summary, error)
	// ExpectedHours 员工 [start, end] 的应出勤工时
	ExpectedHours(ctx context.Context, workerID string, start, end time.Time) (time.Duration, error)
	// BuildSummary 解析日期区间并返回员工与汇总结果，供报表与导出共用
	BuildSummary(ctx context.Context, workerID string, req *dto.DateRangeRequest) (*model.Worker, *attendance.Summary, error)

	WorkedHours(ctx context.Context, workerID string, req *dto.DateRangeRequest) (*dto.WorkedHoursResponse, error)
	Expected(ctx context.Context, workerID string, req *dto.DateRangeRequest) (*dto.ExpectedHoursResponse, error)
	WorkerReport(ctx context.Context, workerID string, req *dto.DateRangeRequest) (*dto.WorkerReportResponse, error)
}

type reportService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, clock: clk, logger: logger}
}

// ────────────────────── 汇总 ──────────────────────

func (s *reportService) AggregateWorkedHours(ctx context.Context, workerID string, start, end time.Time) (*attendance.Summary, error) {
	worker, err := s.getWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}
	return s.aggregate(ctx, worker, start, end)
}

// aggregate 多取前后各一天的记录，以便配对跨零点班次
func (s *reportService) aggregate(ctx context.Context, w *model.Worker, start, end time.Time) (*attendance.Summary, error) {
	start, end = attendance.Civil(start), attendance.Civil(end)
	if end.Before(start) {
		end = start
	}
	events, err := s.repo.Event.ListByWorkerRange(ctx, w.WorkerID, start.AddDate(0, 0, -1), end.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error("查询区间打卡失败", zap.String("worker_id", w.WorkerID), zap.Error(err))
		return nil, err
	}
	return attendance.Aggregate(w, events, start, end), nil
}

func (s *reportService) ExpectedHours(ctx context.Context, workerID string, start, end time.Time) (time.Duration, error) {
	worker, err := s.getWorker(ctx, workerID)
	if err != nil {
		return 0, err
	}
	return attendance.ExpectedHours(worker, attendance.Civil(start), attendance.Civil(end)), nil
}

func (s *reportService) BuildSummary(ctx context.Context, workerID string, req *dto.DateRangeRequest) (*model.Worker, *attendance.Summary, error) {
	start, end, err := resolveRange(s.clock, req)
	if err != nil {
		return nil, nil, err
	}
	worker, err := s.getWorker(ctx, workerID)
	if err != nil {
		return nil, nil, err
	}
	summary, err := s.aggregate(ctx, worker, start, end)
	if err != nil {
		return nil, nil, err
	}
	return worker, summary, nil
}

// ────────────────────── 响应 ──────────────────────

func (s *reportService) WorkedHours(ctx context.Context, workerID string, req *dto.DateRangeRequest) (*dto.WorkedHoursResponse, error) {
	worker, summary, err := s.BuildSummary(ctx, workerID, req)
	if err != nil {
		return nil, err
	}
	resp := toWorkedHoursResponse(worker, summary)
	return &resp, nil
}

func (s *reportService) Expected(ctx context.Context, workerID string, req *dto.DateRangeRequest) (*dto.ExpectedHoursResponse, error) {
	start, end, err := resolveRange(s.clock, req)
	if err != nil {
		return nil, err
	}
	expected, err := s.ExpectedHours(ctx, workerID, start, end)
	if err != nil {
		return nil, err
	}
	return &dto.ExpectedHoursResponse{
		WorkerID:  workerID,
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
		Expected:  attendance.FormatDuration(expected),
		Decimal:   attendance.DecimalHours(expected),
	}, nil
}

func (s *reportService) WorkerReport(ctx context.Context, workerID string, req *dto.DateRangeRequest) (*dto.WorkerReportResponse, error) {
	worker, summary, err := s.BuildSummary(ctx, workerID, req)
	if err != nil {
		return nil, err
	}

	resp := &dto.WorkerReportResponse{
		WorkedHoursResponse: toWorkedHoursResponse(worker, summary),
		Worker:              toWorkerBrief(worker),
		PercentComplete:     summary.PercentComplete(),
		DaysWorked:          summary.DaysWorked,
		WeekdaysInRange:     summary.WeekdaysInRange,
		Weekdays:            make([]dto.WeekdayBreakdown, 0, len(summary.Weekdays)),
		Days:                make([]dto.DayReport, 0, len(summary.Days)),
		IncompleteDays:      make([]string, 0, len(summary.IncompleteDays)),
		Tolerance:           summary.Tolerance,
	}
	for _, row := range summary.Weekdays {
		resp.Weekdays = append(resp.Weekdays, dto.WeekdayBreakdown{
			Weekday: weekdayLabel(ctx, row.Weekday),
			Hours:   attendance.FormatDuration(row.Total),
			Decimal: row.Hours(),
			Average: row.Average(),
			Days:    row.Days,
		})
	}
	for _, row := range summary.Days {
		resp.Days = append(resp.Days, dto.DayReport{
			Date:       row.Date.Format(dateLayout),
			Weekday:    weekdayLabel(ctx, row.Date.Weekday()),
			Worked:     attendance.FormatDuration(row.Worked),
			Expected:   attendance.FormatDuration(row.Expected),
			Entries:    row.Entries,
			Exits:      row.Exits,
			Incomplete: row.Incomplete,
		})
	}
	for _, d := range summary.IncompleteDays {
		resp.IncompleteDays = append(resp.IncompleteDays, d.Format(dateLayout))
	}
	return resp, nil
}

func toWorkedHoursResponse(w *model.Worker, s *attendance.Summary) dto.WorkedHoursResponse {
	balance := s.Balance()
	return dto.WorkedHoursResponse{
		WorkerID:        w.WorkerID,
		StartDate:       s.Start.Format(dateLayout),
		EndDate:         s.End.Format(dateLayout),
		Worked:          attendance.FormatDuration(s.Worked),
		WorkedDecimal:   attendance.DecimalHours(s.Worked),
		Expected:        attendance.FormatDuration(s.Expected),
		ExpectedDecimal: attendance.DecimalHours(s.Expected),
		Balance:         attendance.FormatBalance(balance),
		BalanceMinutes:  int(balance / time.Minute),
	}
}

func (s *reportService) getWorker(ctx context.Context, id string) (*model.Worker, error) {
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
