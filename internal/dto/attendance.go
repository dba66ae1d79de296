package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ── 打卡模块 DTO ──

// Coordinate 坐标，兼容 JSON 数字与字符串
// 无法解析的文本原样保留，由地理围栏判定为范围外。
type Coordinate string

// UnmarshalJSON 接受 -5.08 或 "-5.08"
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Coordinate(s)
		return nil
	}
	*c = Coordinate(data)
	return nil
}

// Float 解析为浮点数，失败时返回 0
func (c Coordinate) Float() float64 {
	f, err := strconv.ParseFloat(string(c), 64)
	if err != nil {
		return 0
	}
	return f
}

// ClockInRequest 公共打卡请求
type ClockInRequest struct {
	CPF             string     `json:"cpf"              binding:"required,max=14"`
	EstablishmentID string     `json:"establishment_id" binding:"required,uuid"`
	Latitude        Coordinate `json:"latitude"         binding:"required"`
	Longitude       Coordinate `json:"longitude"        binding:"required"`
}

// ClockInResponse 打卡结果
type ClockInResponse struct {
	Event        EventResponse `json:"event"`
	Message      string        `json:"message"`
	NextType     string        `json:"next_type"`
	DayCompleted bool          `json:"day_completed"`
	ReceiptCode  string        `json:"receipt_code"`
}

// NextEventResponse 下一次打卡类型
type NextEventResponse struct {
	WorkerName string `json:"worker_name"`
	Type       string `json:"type"`
	TypeLabel  string `json:"type_label"`
}

// HistoryRequest 打卡历史查询
type HistoryRequest struct {
	CPF string `form:"cpf" binding:"required,max=14"`
	DateRangeRequest
}

// RecentRequest 最近打卡查询
type RecentRequest struct {
	CPF  string `form:"cpf"  binding:"required,max=14"`
	Days int    `form:"days" binding:"omitempty,min=1,max=365"`
}

// EventResponse 打卡记录响应
type EventResponse struct {
	ID                    string  `json:"id"`
	WorkerID              string  `json:"worker_id"`
	WorkerName            string  `json:"worker_name,omitempty"`
	EstablishmentID       string  `json:"establishment_id"`
	EstablishmentName     string  `json:"establishment_name,omitempty"`
	Date                  string  `json:"date"`
	Time                  string  `json:"time"`
	Type                  string  `json:"type"`
	TypeLabel             string  `json:"type_label"`
	Latitude              float64 `json:"latitude"`
	Longitude             float64 `json:"longitude"`
	LateMinutes           int     `json:"late_minutes"`
	EarlyDepartureMinutes int     `json:"early_departure_minutes"`
	WithinTolerance       bool    `json:"within_tolerance"`
	ManualAdjustment      bool    `json:"manual_adjustment"`
	Justification         string  `json:"justification,omitempty"`
	Notes                 string  `json:"notes,omitempty"`
	Editable              bool    `json:"editable"`
	ReceiptCode           string  `json:"receipt_code"`
	CreatedAt             string  `json:"created_at"`
}

// HistoryResponse 打卡历史
type HistoryResponse struct {
	Worker       WorkerBrief     `json:"worker"`
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	TotalEntries int             `json:"total_entries"`
	TotalExits   int             `json:"total_exits"`
	Events       []EventResponse `json:"events"`
}
