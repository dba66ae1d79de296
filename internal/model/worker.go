package model

import (
	"time"

	"gorm.io/datatypes"
)

// 合同工时哨兵值（分钟）
const (
	Shift12hMinutes = 720
	Shift24hMinutes = 1440

	DefaultToleranceMinutes = 10
	DefaultDailyDuration    = 8 * time.Hour
)

// Worker 员工档案表，对应 professionals
// 创建时为停用状态，由管理员启用；只能停用，不能删除。
type Worker struct {
	WorkerID         string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"worker_id"`
	UserID           *string         `gorm:"type:uuid;uniqueIndex"                          json:"user_id,omitempty"`
	FirstName        string          `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName         string          `gorm:"type:varchar(100);not null"                     json:"last_name"`
	CPF              string          `gorm:"type:char(11);not null;uniqueIndex"             json:"cpf"`
	Email            string          `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	Phone            string          `gorm:"type:varchar(20)"                               json:"phone,omitempty"`
	Profession       string          `gorm:"type:varchar(100)"                              json:"profession,omitempty"`
	EstablishmentID  *string         `gorm:"type:uuid"                                      json:"establishment_id,omitempty"`
	EntryTime        *datatypes.Time `gorm:"type:time"                                      json:"entry_time,omitempty"`
	ExitTime         *datatypes.Time `gorm:"type:time"                                      json:"exit_time,omitempty"`
	ToleranceMinutes int             `gorm:"not null;default:10"                            json:"tolerance_minutes"`
	DailyMinutes     *int            `json:"daily_minutes,omitempty"`
	WeeklyMinutes    *int            `json:"weekly_minutes,omitempty"`
	Active           bool            `gorm:"not null;default:false"                         json:"active"`
	VersionedModel

	// 关联
	Establishment *Establishment `gorm:"foreignKey:EstablishmentID;references:EstablishmentID" json:"establishment,omitempty"`
}

// TableName 指定表名
func (Worker) TableName() string { return "professionals" }

// FullName 姓名全称
func (w *Worker) FullName() string {
	if w.LastName == "" {
		return w.FirstName
	}
	return w.FirstName + " " + w.LastName
}

// HasLogin 是否绑定了登录身份
func (w *Worker) HasLogin() bool { return w.UserID != nil && *w.UserID != "" }

// Is24hShift 合同日工时为 24 小时（跨日值班）
func (w *Worker) Is24hShift() bool {
	return w.DailyMinutes != nil && *w.DailyMinutes == Shift24hMinutes
}

// Is12hShift 合同日工时为 12 小时
func (w *Worker) Is12hShift() bool {
	return w.DailyMinutes != nil && *w.DailyMinutes == Shift12hMinutes
}

// DailyDuration 合同日工时，未设置时按 8 小时计
func (w *Worker) DailyDuration() time.Duration {
	if w.DailyMinutes == nil || *w.DailyMinutes <= 0 {
		return DefaultDailyDuration
	}
	return time.Duration(*w.DailyMinutes) * time.Minute
}
