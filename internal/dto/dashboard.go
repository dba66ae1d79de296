package dto

// ── 看板模块 DTO ──

// DashboardRequest 看板查询参数
type DashboardRequest struct {
	Period          string `form:"period"           binding:"omitempty,oneof=today yesterday week month custom"`
	EstablishmentID string `form:"establishment_id" binding:"omitempty,uuid"`
	DateRangeRequest
}

// LateWorkerItem 迟到排行
type LateWorkerItem struct {
	WorkerID    string `json:"worker_id"`
	Name        string `json:"name"`
	LateCount   int    `json:"late_count"`
	LateMinutes int    `json:"late_minutes"`
}

// EstablishmentActivityItem 地点活跃度排行
type EstablishmentActivityItem struct {
	EstablishmentID string `json:"establishment_id"`
	Name            string `json:"name"`
	Events          int    `json:"events"`
}

// DelayItem 今日迟到明细
type DelayItem struct {
	WorkerID          string `json:"worker_id"`
	Name              string `json:"name"`
	EstablishmentName string `json:"establishment_name"`
	Time              string `json:"time"`
	LateMinutes       int    `json:"late_minutes"`
}

// AlertItem 看板告警
type AlertItem struct {
	Level       string `json:"level"` // severe | warning
	WorkerID    string `json:"worker_id"`
	Name        string `json:"name"`
	Message     string `json:"message"`
	LateMinutes int    `json:"late_minutes"`
}

// DashboardResponse 看板数据
type DashboardResponse struct {
	Period                 string                      `json:"period"`
	StartDate              string                      `json:"start_date"`
	EndDate                string                      `json:"end_date"`
	ActiveWorkers          int64                       `json:"active_workers"`
	Establishments         int64                       `json:"establishments"`
	EventsInPeriod         int                         `json:"events_in_period"`
	EntriesToday           int                         `json:"entries_today"`
	ExitsToday             int                         `json:"exits_today"`
	PercentWithinTolerance float64                     `json:"percent_within_tolerance"`
	TopLate                []LateWorkerItem            `json:"top_late"`
	TopEstablishments      []EstablishmentActivityItem `json:"top_establishments"`
	IncompleteToday        []WorkerBrief               `json:"incomplete_today"`
	WithoutRecordToday     []WorkerBrief               `json:"without_record_today"`
	BiggestDelaysToday     []DelayItem                 `json:"biggest_delays_today"`
	Alerts                 []AlertItem                 `json:"alerts"`
	IncompleteYesterday    []WorkerBrief               `json:"incomplete_yesterday"`
}
