package attendance

import (
	"testing"
	"time"

	"github.com/Ismaelg12/timeflow/internal/model"
)

func TestIntervals_PairsInOrder(t *testing.T) {
	events := []model.AttendanceEvent{
		ev("2025-03-10", 13, 0, model.EventEntry),
		ev("2025-03-10", 8, 0, model.EventEntry),
		ev("2025-03-10", 12, 0, model.EventExit),
		ev("2025-03-10", 17, 30, model.EventExit),
	}

	got := Intervals(events, date("2025-03-10"), date("2025-03-10"))
	if len(got) != 2 {
		t.Fatalf("期望 2 个配对，实际 %d", len(got))
	}
	if got[0].Duration() != 4*time.Hour {
		t.Errorf("第一段期望 4h，实际 %v", got[0].Duration())
	}
	if got[1].Duration() != 4*time.Hour+30*time.Minute {
		t.Errorf("第二段期望 4h30m，实际 %v", got[1].Duration())
	}
}

func TestIntervals_CrossMidnightAttributedToEntryDay(t *testing.T) {
	events := []model.AttendanceEvent{
		ev("2025-03-10", 19, 0, model.EventEntry),
		ev("2025-03-11", 7, 0, model.EventExit),
	}

	got := Intervals(events, date("2025-03-10"), date("2025-03-10"))
	if len(got) != 1 {
		t.Fatalf("期望 1 个配对，实际 %d", len(got))
	}
	if got[0].Duration() != 12*time.Hour {
		t.Errorf("期望 12h，实际 %v", got[0].Duration())
	}

	if got := Intervals(events, date("2025-03-11"), date("2025-03-11")); len(got) != 0 {
		t.Errorf("上班日不在区间内时不应返回配对，实际 %d", len(got))
	}
}

func TestIntervals_DropsOrphansAndStalePairs(t *testing.T) {
	events := []model.AttendanceEvent{
		ev("2025-03-10", 7, 0, model.EventExit), // 无对应上班
		ev("2025-03-10", 8, 0, model.EventEntry),
		ev("2025-03-12", 9, 0, model.EventExit), // 间隔超过一天
		ev("2025-03-12", 10, 0, model.EventEntry),
	}

	if got := Intervals(events, date("2025-03-10"), date("2025-03-12")); len(got) != 0 {
		t.Errorf("期望无配对，实际 %d", len(got))
	}
}

func TestIntervals_NextDayExitBeyond24h(t *testing.T) {
	events := []model.AttendanceEvent{
		ev("2025-03-10", 8, 0, model.EventEntry),
		ev("2025-03-11", 17, 0, model.EventExit),
	}
	if got := Intervals(events, date("2025-03-10"), date("2025-03-11")); len(got) != 0 {
		t.Errorf("相隔 33 小时不应配对，实际 %d", len(got))
	}
}

func TestIntervals_HandoverExitBeforeEntry(t *testing.T) {
	events := []model.AttendanceEvent{
		ev("2025-03-11", 7, 0, model.EventEntry),
		ev("2025-03-10", 7, 0, model.EventEntry),
		ev("2025-03-11", 7, 0, model.EventExit),
		ev("2025-03-12", 7, 0, model.EventExit),
	}
	got := Intervals(events, date("2025-03-10"), date("2025-03-11"))
	if len(got) != 2 {
		t.Fatalf("期望 2 个 24 小时班，实际 %d", len(got))
	}
	for i, iv := range got {
		if iv.Duration() != 24*time.Hour {
			t.Errorf("第 %d 段期望 24h，实际 %v", i, iv.Duration())
		}
	}
}
