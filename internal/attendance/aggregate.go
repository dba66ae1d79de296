package attendance

import (
	"sort"
	"time"

	"github.com/Ismaelg12/timeflow/internal/model"
)

const day = 24 * time.Hour

// DayRow 单日汇总
// 跨零点的上下班配对计入上班所在日期。
type DayRow struct {
	Date       time.Time
	Worked     time.Duration
	Expected   time.Duration
	Entries    int
	Exits      int
	Incomplete bool
}

// WeekdayRow 按星期汇总（ISO 顺序，周一在前）
type WeekdayRow struct {
	Weekday time.Weekday
	Total   time.Duration
	Days    int
}

// Hours 小数小时，保留两位
func (r WeekdayRow) Hours() float64 { return roundTo(r.Total.Hours(), 2) }

// Average 日均小时，保留一位
func (r WeekdayRow) Average() float64 {
	if r.Days == 0 {
		return 0
	}
	return roundTo(r.Total.Hours()/float64(r.Days), 1)
}

// Summary 区间汇总结果
type Summary struct {
	Start, End      time.Time
	Worked          time.Duration
	Expected        time.Duration
	Days            []DayRow
	Weekdays        [7]WeekdayRow
	IncompleteDays  []time.Time
	DaysWorked      int
	WeekdaysInRange int
	Tolerance       ToleranceStats
}

// Balance 工时结余（实际 - 应出勤）
func (s *Summary) Balance() time.Duration { return s.Worked - s.Expected }

// PercentComplete 完成度百分比，上限 100
func (s *Summary) PercentComplete() float64 {
	if s.Expected <= 0 {
		return 0
	}
	p := float64(s.Worked) / float64(s.Expected) * 100
	if p > 100 {
		p = 100
	}
	return roundTo(p, 1)
}

// Aggregate 汇总 [start, end] 区间的工时
//
// events 应覆盖 start 前一日到 end 后一日，以便配对跨零点的班次；
// 区间外的配对结果被丢弃。按时间顺序扫描，维护一个未闭合的上班指针：
// 下班闭合指针并累加时长；没有可闭合的上班（或与上班相隔超过 24 小时）时
// 丢弃指针，下班计入自身日期；未闭合的上班不计工时并使所在日期缺卡。
func Aggregate(w *model.Worker, events []model.AttendanceEvent, start, end time.Time) *Summary {
	start, end = Civil(start), Civil(end)
	if end.Before(start) {
		end = start
	}

	sorted := chronological(events)

	worked := make(map[time.Time]time.Duration)
	counts := make(map[time.Time]*DayCounts)
	countFor := func(d time.Time) *DayCounts {
		c, ok := counts[d]
		if !ok {
			c = &DayCounts{}
			counts[d] = c
		}
		return c
	}

	var open *model.AttendanceEvent
	for i := range sorted {
		e := &sorted[i]
		switch e.Type {
		case model.EventEntry:
			open = e
			countFor(e.Day()).Entries++
		case model.EventExit:
			if d, ok := pairDuration(open, e); ok {
				worked[open.Day()] += d
				countFor(open.Day()).Exits++
				open = nil
				continue
			}
			open = nil
			countFor(e.Day()).Exits++
		}
	}

	s := &Summary{Start: start, End: end}
	for d := start; !d.After(end); d = d.Add(day) {
		row := DayRow{Date: d, Worked: worked[d], Expected: ExpectedForDay(w, d)}
		if c, ok := counts[d]; ok {
			row.Entries, row.Exits = c.Entries, c.Exits
			row.Incomplete = !c.Complete()
		}
		s.Worked += row.Worked
		s.Expected += row.Expected
		if row.Incomplete {
			s.IncompleteDays = append(s.IncompleteDays, d)
		}
		if row.Worked > 0 {
			s.DaysWorked++
			idx := isoIndex(d.Weekday())
			s.Weekdays[idx].Total += row.Worked
			s.Weekdays[idx].Days++
		}
		if isWeekday(d) {
			s.WeekdaysInRange++
		}
		s.Days = append(s.Days, row)
	}
	for i := range s.Weekdays {
		s.Weekdays[i].Weekday = time.Weekday((i + 1) % 7)
	}

	inRange := make([]model.AttendanceEvent, 0, len(sorted))
	for _, e := range sorted {
		if d := e.Day(); !d.Before(start) && !d.After(end) {
			inRange = append(inRange, e)
		}
	}
	s.Tolerance = ComputeToleranceStats(inRange)
	return s
}

// chronological 按时间排序的副本
// 同一时刻下班排在上班之前：24 小时班交接时先闭合前一班，再开始新一班。
func chronological(events []model.AttendanceEvent) []model.AttendanceEvent {
	sorted := make([]model.AttendanceEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		ai, aj := sorted[i].At(), sorted[j].At()
		if !ai.Equal(aj) {
			return ai.Before(aj)
		}
		return sorted[i].Type == model.EventExit && sorted[j].Type == model.EventEntry
	})
	return sorted
}

// pairDuration 下班能否闭合未闭合的上班，能则返回时长
// 一个班次最长 24 小时，超过视为两条孤立记录。
func pairDuration(open, exit *model.AttendanceEvent) (time.Duration, bool) {
	if open == nil {
		return 0, false
	}
	d := exit.At().Sub(open.At())
	if d < 0 || d > day {
		return 0, false
	}
	return d, true
}

// IncompleteDays 仅返回区间内的缺卡日期
func IncompleteDays(w *model.Worker, events []model.AttendanceEvent, start, end time.Time) []time.Time {
	return Aggregate(w, events, start, end).IncompleteDays
}

// Civil 丢弃时区，只保留日历日期（UTC 零点表示）
func Civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isoIndex(wd time.Weekday) int { return (int(wd) + 6) % 7 }

func isWeekday(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
