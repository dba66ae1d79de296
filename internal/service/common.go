package service

import (
	"context"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/Ismaelg12/timeflow/internal/attendance"
	"github.com/Ismaelg12/timeflow/internal/dto"
	"github.com/Ismaelg12/timeflow/internal/model"
	"github.com/Ismaelg12/timeflow/pkg/clock"
	apperrors "github.com/Ismaelg12/timeflow/pkg/errors"
	"github.com/Ismaelg12/timeflow/pkg/i18n"
)

// ── 跨模块业务错误 ──

var (
	ErrInvalidCPF            = apperrors.New(apperrors.KindValidation, "InvalidCPF", "CPF 无效")
	ErrInvalidDate           = apperrors.New(apperrors.KindValidation, "InvalidDate", "日期格式无效")
	ErrInvalidTime           = apperrors.New(apperrors.KindValidation, "InvalidTime", "时间格式无效")
	ErrWorkerNotFound        = apperrors.New(apperrors.KindNotFound, "WorkerNotFound", "员工不存在或未启用")
	ErrEstablishmentNotFound = apperrors.New(apperrors.KindNotFound, "EstablishmentNotFound", "工作地点不存在")
	ErrEventNotFound         = apperrors.New(apperrors.KindNotFound, "EventNotFound", "打卡记录不存在")
)

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04:05"
	clockLayout    = "15:04"
	dateTimeLayout = "2006-01-02T15:04:05Z07:00"
)

// ── 日期与时刻 ──

// timeOfDay 取业务时区下的当日时刻（秒级）
func timeOfDay(t time.Time) datatypes.Time {
	return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0)
}

// parseClock 解析 HH:MM
func parseClock(s string) (datatypes.Time, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, ErrInvalidTime
	}
	return datatypes.NewTime(t.Hour(), t.Minute(), 0, 0), nil
}

// formatClock datatypes.Time 输出 HH:MM
func formatClock(t *datatypes.Time) string {
	if t == nil {
		return ""
	}
	d := time.Duration(*t)
	return attendance.FormatDuration(d)
}

// parseDate 解析 YYYY-MM-DD 为民用日期
func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// resolveRange 解析日期区间
// 缺省开始日期为当月 1 日，缺省结束日期为今天；结束早于开始时按开始日处理。
func resolveRange(c clock.Clock, req *dto.DateRangeRequest) (time.Time, time.Time, error) {
	today := attendance.Civil(c.Now())
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := today

	var err error
	if req != nil && req.StartDate != "" {
		if start, err = parseDate(req.StartDate); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if req != nil && req.EndDate != "" {
		if end, err = parseDate(req.EndDate); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if end.Before(start) {
		end = start
	}
	return start, end, nil
}

// ── 展示文案 ──

func eventTypeLabel(ctx context.Context, t model.EventType) string {
	return i18n.T(ctx, "EventType."+string(t))
}

func weekdayLabel(ctx context.Context, wd time.Weekday) string {
	return i18n.T(ctx, "Weekday."+wd.String())
}

func oppositeType(t model.EventType) model.EventType {
	if t == model.EventEntry {
		return model.EventExit
	}
	return model.EventEntry
}

// ── 模型转换 ──

func toEventResponse(ctx context.Context, e *model.AttendanceEvent, now time.Time) dto.EventResponse {
	resp := dto.EventResponse{
		ID:                    e.EventID,
		WorkerID:              e.WorkerID,
		EstablishmentID:       e.EstablishmentID,
		Date:                  e.Day().Format(dateLayout),
		Time:                  e.Time.String(),
		Type:                  string(e.Type),
		TypeLabel:             eventTypeLabel(ctx, e.Type),
		Latitude:              e.Latitude,
		Longitude:             e.Longitude,
		LateMinutes:           e.LateMinutes,
		EarlyDepartureMinutes: e.EarlyDepartureMinutes,
		WithinTolerance:       e.WithinTolerance,
		ManualAdjustment:      e.ManualAdjustment,
		Justification:         e.Justification,
		Notes:                 e.Notes,
		Editable:              attendance.CanEdit(e, now),
		ReceiptCode:           ReceiptCode(e.EventID),
		CreatedAt:             e.CreatedAt.Format(dateTimeLayout),
	}
	if e.Worker != nil {
		resp.WorkerName = e.Worker.FullName()
	}
	if e.Establishment != nil {
		resp.EstablishmentName = e.Establishment.Name
	}
	return resp
}

func toWorkerBrief(w *model.Worker) dto.WorkerBrief {
	return dto.WorkerBrief{ID: w.WorkerID, Name: w.FullName(), CPF: w.CPF}
}
