package model

import (
	"time"

	"gorm.io/datatypes"
)

// EventType 打卡类型
type EventType string

const (
	EventEntry EventType = "ENTRY"
	EventExit  EventType = "EXIT"
)

// Valid 是否为合法类型
func (t EventType) Valid() bool { return t == EventEntry || t == EventExit }

// AttendanceEvent 打卡记录表，对应 attendance_events
// 创建后字段不可变；只有补录记录可以在 24 小时内修改或删除。
type AttendanceEvent struct {
	EventID               string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	WorkerID              string         `gorm:"type:uuid;not null;index:idx_event_worker_date"  json:"worker_id"`
	EstablishmentID       string         `gorm:"type:uuid;not null"                              json:"establishment_id"`
	Date                  datatypes.Date `gorm:"type:date;not null;index:idx_event_worker_date"  json:"date"`
	Time                  datatypes.Time `gorm:"type:time;not null"                              json:"time"`
	Type                  EventType      `gorm:"type:varchar(10);not null"                       json:"type"`
	Latitude              float64        `gorm:"not null;default:0"                              json:"latitude"`
	Longitude             float64        `gorm:"not null;default:0"                              json:"longitude"`
	LateMinutes           int            `gorm:"not null;default:0"                              json:"late_minutes"`
	EarlyDepartureMinutes int            `gorm:"not null;default:0"                              json:"early_departure_minutes"`
	WithinTolerance       bool           `gorm:"not null;default:true"                           json:"within_tolerance"`
	ManualAdjustment      bool           `gorm:"not null;default:false"                          json:"manual_adjustment"`
	AdjustmentID          *string        `gorm:"type:uuid;uniqueIndex"                           json:"adjustment_id,omitempty"`
	Justification         string         `gorm:"type:text"                                       json:"justification,omitempty"`
	Notes                 string         `gorm:"type:text"                                       json:"notes,omitempty"`
	AdjustedBy            *string        `gorm:"type:uuid"                                       json:"adjusted_by,omitempty"`
	Shift24h              bool           `gorm:"column:shift_24h;not null;default:false"         json:"shift_24h"`
	CreatedAt             time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"              json:"created_at"`

	// 关联
	Worker        *Worker        `gorm:"foreignKey:WorkerID;references:WorkerID"               json:"worker,omitempty"`
	Establishment *Establishment `gorm:"foreignKey:EstablishmentID;references:EstablishmentID" json:"establishment,omitempty"`
}

// TableName 指定表名
func (AttendanceEvent) TableName() string { return "attendance_events" }

// Day 打卡日期（民用日期，UTC 零点表示）
func (e *AttendanceEvent) Day() time.Time {
	y, m, d := time.Time(e.Date).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// At 打卡日期与时刻合成的民用时间点
func (e *AttendanceEvent) At() time.Time {
	return e.Day().Add(time.Duration(e.Time))
}
