package attendance

import (
	"time"

	"github.com/Ismaelg12/timeflow/internal/model"
)

// ExpectedForDay 单日应出勤工时
//
//	24 小时班：每个自然日 24 小时
//	12 小时班：工作日 12 小时
//	其他：工作日按合同日工时（默认 8 小时）
func ExpectedForDay(w *model.Worker, d time.Time) time.Duration {
	if w.Is24hShift() {
		return 24 * time.Hour
	}
	if !isWeekday(d) {
		return 0
	}
	if w.Is12hShift() {
		return 12 * time.Hour
	}
	return w.DailyDuration()
}

// ExpectedHours [start, end] 区间应出勤工时，end 早于 start 时为 0
func ExpectedHours(w *model.Worker, start, end time.Time) time.Duration {
	start, end = Civil(start), Civil(end)
	var total time.Duration
	for d := start; !d.After(end); d = d.Add(day) {
		total += ExpectedForDay(w, d)
	}
	return total
}

// CountWeekdays 区间内周一至周五的天数
func CountWeekdays(start, end time.Time) int {
	start, end = Civil(start), Civil(end)
	n := 0
	for d := start; !d.After(end); d = d.Add(day) {
		if isWeekday(d) {
			n++
		}
	}
	return n
}
