package attendance

import (
	"testing"

	"github.com/Ismaelg12/timeflow/internal/model"
)

func TestNextEventType(t *testing.T) {
	tests := []struct {
		name      string
		today     DayCounts
		shift24h  bool
		yesterday DayCounts
		want      model.EventType
	}{
		{"无记录", DayCounts{}, false, DayCounts{}, model.EventEntry},
		{"已上班", DayCounts{Entries: 1}, false, DayCounts{}, model.EventExit},
		{"已上下班", DayCounts{Entries: 1, Exits: 1}, false, DayCounts{}, model.EventEntry},
		{"两次上班一次下班", DayCounts{Entries: 2, Exits: 1}, false, DayCounts{}, model.EventExit},
		{"普通班不看昨天", DayCounts{}, false, DayCounts{Entries: 1}, model.EventEntry},
		{"24 小时班昨天未下班", DayCounts{}, true, DayCounts{Entries: 1}, model.EventExit},
		{"24 小时班昨天未下班且今天已有记录", DayCounts{Entries: 1, Exits: 1}, true, DayCounts{Entries: 1}, model.EventExit},
		{"24 小时班昨天已闭合", DayCounts{}, true, DayCounts{Entries: 1, Exits: 1}, model.EventEntry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextEventType(tt.today, tt.shift24h, tt.yesterday); got != tt.want {
				t.Errorf("期望 %s，实际: %s", tt.want, got)
			}
		})
	}
}

func TestIsDuplicate(t *testing.T) {
	today := DayCounts{Entries: 1, Exits: 1}
	if !IsDuplicate(today, model.EventEntry, false) {
		t.Error("同日第二次上班应判定为重复")
	}
	if !IsDuplicate(today, model.EventExit, false) {
		t.Error("同日第二次下班应判定为重复")
	}
	if IsDuplicate(today, model.EventExit, true) {
		t.Error("24 小时班下班不应判定为重复")
	}
	if !IsDuplicate(today, model.EventEntry, true) {
		t.Error("24 小时班上班仍受重复限制")
	}
	if IsDuplicate(DayCounts{}, model.EventEntry, false) {
		t.Error("当日无记录不应重复")
	}
}

func TestCount(t *testing.T) {
	c := Count([]model.AttendanceEvent{
		ev("2024-03-04", 8, 0, model.EventEntry),
		ev("2024-03-04", 12, 0, model.EventExit),
		ev("2024-03-04", 13, 0, model.EventEntry),
	})
	if c.Entries != 2 || c.Exits != 1 || c.Complete() {
		t.Errorf("统计错误: %+v", c)
	}
}
