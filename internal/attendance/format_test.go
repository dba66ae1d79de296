package attendance

import (
	"testing"
	"time"
)

func TestFormatBalance(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "+00:00"},
		{90 * time.Minute, "+01:30"},
		{-90 * time.Minute, "-01:30"},
		{169*time.Hour + 30*time.Minute, "+169:30"},
		{-59 * time.Second, "+00:00"},
	}
	for _, tt := range tests {
		if got := FormatBalance(tt.in); got != tt.want {
			t.Errorf("FormatBalance(%v) 期望 %s，实际: %s", tt.in, tt.want, got)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(8*time.Hour + 5*time.Minute + 59*time.Second); got != "08:05" {
		t.Errorf("期望 08:05，实际: %s", got)
	}
	if got := DecimalHours(8*time.Hour + 20*time.Minute); got != 8.33 {
		t.Errorf("期望 8.33，实际: %v", got)
	}
}
