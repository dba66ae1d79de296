package attendance

import "github.com/Ismaelg12/timeflow/internal/model"

// ToleranceStats 容差统计
type ToleranceStats struct {
	TotalEvents     int     `json:"total_events"`
	WithinTolerance int     `json:"within_tolerance"`
	PercentWithin   float64 `json:"percent_within"`
	LateCount       int     `json:"late_count"`
	LateMinutes     int     `json:"late_minutes"`
	AverageLate     float64 `json:"average_late"`
	EarlyCount      int     `json:"early_count"`
	EarlyMinutes    int     `json:"early_minutes"`
	AverageEarly    float64 `json:"average_early"`
}

// ComputeToleranceStats 统计迟到与早退
func ComputeToleranceStats(events []model.AttendanceEvent) ToleranceStats {
	var s ToleranceStats
	for i := range events {
		e := &events[i]
		s.TotalEvents++
		if e.WithinTolerance {
			s.WithinTolerance++
			continue
		}
		if e.Type == model.EventEntry {
			s.LateCount++
			s.LateMinutes += e.LateMinutes
		} else {
			s.EarlyCount++
			s.EarlyMinutes += e.EarlyDepartureMinutes
		}
	}
	if s.TotalEvents > 0 {
		s.PercentWithin = roundTo(float64(s.WithinTolerance)/float64(s.TotalEvents)*100, 1)
	}
	if s.LateCount > 0 {
		s.AverageLate = roundTo(float64(s.LateMinutes)/float64(s.LateCount), 1)
	}
	if s.EarlyCount > 0 {
		s.AverageEarly = roundTo(float64(s.EarlyMinutes)/float64(s.EarlyCount), 1)
	}
	return s
}
