package attendance

import (
	"fmt"
	"math"
	"time"
)

// FormatDuration 输出 HH:MM，小时可超过 24
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	total := int64(d / time.Minute)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatBalance 输出带符号的 +HH:MM / -HH:MM，零值为 +00:00
func FormatBalance(d time.Duration) string {
	d = d.Truncate(time.Minute)
	sign := "+"
	if d < 0 {
		sign = "-"
	}
	return sign + FormatDuration(d)
}

// DecimalHours 小数小时，保留两位
func DecimalHours(d time.Duration) float64 { return roundTo(d.Hours(), 2) }

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
