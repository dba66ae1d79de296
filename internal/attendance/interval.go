package attendance

import (
	"time"

	"github.com/Ismaelg12/timeflow/internal/model"
)

// Interval 一次上下班配对
type Interval struct {
	Entry model.AttendanceEvent
	Exit  model.AttendanceEvent
}

// Duration 配对时长
func (iv Interval) Duration() time.Duration {
	d, _ := pairDuration(&iv.Entry, &iv.Exit)
	return d
}

// Intervals 按与 Aggregate 相同的规则配对上下班，只返回上班日期落在 [start, end] 的配对
func Intervals(events []model.AttendanceEvent, start, end time.Time) []Interval {
	start, end = Civil(start), Civil(end)

	var result []Interval
	var open *model.AttendanceEvent
	for _, e := range chronological(events) {
		switch e.Type {
		case model.EventEntry:
			entry := e
			open = &entry
		case model.EventExit:
			exit := e
			if _, ok := pairDuration(open, &exit); !ok {
				open = nil
				continue
			}
			if d := open.Day(); !d.Before(start) && !d.After(end) {
				result = append(result, Interval{Entry: *open, Exit: exit})
			}
			open = nil
		}
	}
	return result
}
