package attendance

import (
	"time"

	"gorm.io/datatypes"

	"github.com/Ismaelg12/timeflow/internal/model"
)

// Deviation 容差计算结果
// Minutes 为超出容差的分钟数（向下取整），Within 为是否在容差内。
type Deviation struct {
	Minutes int
	Within  bool
}

// ComputeTolerance 计算一次打卡相对排班的偏差
//
//	ENTRY：晚于 应到时间+容差 记为迟到
//	EXIT ：早于 应退时间-容差 记为早退
//
// 未设置对应排班时间时视为在容差内。只比较当日时刻，不跨日。
func ComputeTolerance(w *model.Worker, actual datatypes.Time, eventType model.EventType) Deviation {
	tolerance := time.Duration(max(w.ToleranceMinutes, 0)) * time.Minute
	at := time.Duration(actual)

	switch eventType {
	case model.EventEntry:
		if w.EntryTime == nil {
			return Deviation{Within: true}
		}
		limit := time.Duration(*w.EntryTime) + tolerance
		if at > limit {
			return Deviation{Minutes: int((at - limit) / time.Minute), Within: false}
		}
	case model.EventExit:
		if w.ExitTime == nil {
			return Deviation{Within: true}
		}
		limit := time.Duration(*w.ExitTime) - tolerance
		if at < limit {
			return Deviation{Minutes: int((limit - at) / time.Minute), Within: false}
		}
	}
	return Deviation{Within: true}
}

// Apply 将偏差写入打卡记录：ENTRY 写迟到分钟，EXIT 写早退分钟，另一项为 0
func (d Deviation) Apply(e *model.AttendanceEvent) {
	e.WithinTolerance = d.Within
	e.LateMinutes = 0
	e.EarlyDepartureMinutes = 0
	if e.Type == model.EventEntry {
		e.LateMinutes = d.Minutes
	} else {
		e.EarlyDepartureMinutes = d.Minutes
	}
}
