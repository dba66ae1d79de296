package model

import (
	"time"

	"gorm.io/datatypes"
)

// ManualAdjustment 补录审计表，对应 manual_adjustments
// 与其生成的打卡记录一对一（或零）。
type ManualAdjustment struct {
	AdjustmentID string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"adjustment_id"`
	WorkerID     string         `gorm:"type:uuid;not null;index"                       json:"worker_id"`
	Date         datatypes.Date `gorm:"type:date;not null"                             json:"date"`
	Time         datatypes.Time `gorm:"type:time;not null"                             json:"time"`
	Type         EventType      `gorm:"type:varchar(10);not null"                      json:"type"`
	ReasonCode   string         `gorm:"type:varchar(30);not null"                      json:"reason_code"`
	Description  string         `gorm:"type:text"                                      json:"description,omitempty"`
	AdjustedBy   string         `gorm:"type:uuid;not null"                             json:"adjusted_by"`
	Confirmed    bool           `gorm:"not null;default:false"                         json:"confirmed"`
	ConfirmedBy  *string        `gorm:"type:uuid"                                      json:"confirmed_by,omitempty"`
	ConfirmedAt  *time.Time     `json:"confirmed_at,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (ManualAdjustment) TableName() string { return "manual_adjustments" }
