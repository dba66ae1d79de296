package dto

import "github.com/Ismaelg12/timeflow/internal/attendance"

// ── 报表模块 DTO ──

// WorkedHoursResponse 区间工时汇总
type WorkedHoursResponse struct {
	WorkerID        string  `json:"worker_id"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	Worked          string  `json:"worked"`
	WorkedDecimal   float64 `json:"worked_decimal"`
	Expected        string  `json:"expected"`
	ExpectedDecimal float64 `json:"expected_decimal"`
	Balance         string  `json:"balance"`
	BalanceMinutes  int     `json:"balance_minutes"`
}

// ExpectedHoursResponse 区间应出勤工时
type ExpectedHoursResponse struct {
	WorkerID  string  `json:"worker_id"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Expected  string  `json:"expected"`
	Decimal   float64 `json:"decimal"`
}

// WeekdayBreakdown 按星期汇总
type WeekdayBreakdown struct {
	Weekday string  `json:"weekday"`
	Hours   string  `json:"hours"`
	Decimal float64 `json:"decimal"`
	Average float64 `json:"average"`
	Days    int     `json:"days"`
}

// DayReport 单日明细
type DayReport struct {
	Date       string `json:"date"`
	Weekday    string `json:"weekday"`
	Worked     string `json:"worked"`
	Expected   string `json:"expected"`
	Entries    int    `json:"entries"`
	Exits      int    `json:"exits"`
	Incomplete bool   `json:"incomplete"`
}

// WorkerReportResponse 员工报表
type WorkerReportResponse struct {
	WorkedHoursResponse
	Worker          WorkerBrief               `json:"worker"`
	PercentComplete float64                   `json:"percent_complete"`
	DaysWorked      int                       `json:"days_worked"`
	WeekdaysInRange int                       `json:"weekdays_in_range"`
	Weekdays        []WeekdayBreakdown        `json:"weekdays"`
	Days            []DayReport               `json:"days"`
	IncompleteDays  []string                  `json:"incomplete_days"`
	Tolerance       attendance.ToleranceStats `json:"tolerance"`
}
