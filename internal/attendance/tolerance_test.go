package attendance

import (
	"testing"

	"gorm.io/datatypes"

	"github.com/Ismaelg12/timeflow/internal/model"
)

func TestComputeTolerance_Entry(t *testing.T) {
	w := scheduledWorker()

	tests := []struct {
		name       string
		actual     datatypes.Time
		wantMin    int
		wantWithin bool
	}{
		{"提前到达", tod(7, 50), 0, true},
		{"恰好容差边界", tod(8, 10), 0, true},
		{"超出 1 分钟", tod(8, 11), 1, false},
		{"不足一分钟向下取整", datatypes.NewTime(8, 10, 30, 0), 0, false},
		{"超出 15 分半", datatypes.NewTime(8, 25, 30, 0), 15, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTolerance(w, tt.actual, model.EventEntry)
			if got.Minutes != tt.wantMin || got.Within != tt.wantWithin {
				t.Errorf("期望 (%d, %v)，实际: (%d, %v)", tt.wantMin, tt.wantWithin, got.Minutes, got.Within)
			}
		})
	}
}

func TestComputeTolerance_Exit(t *testing.T) {
	w := scheduledWorker()

	if got := ComputeTolerance(w, tod(16, 50), model.EventExit); !got.Within || got.Minutes != 0 {
		t.Errorf("16:50 应在容差内，实际: %+v", got)
	}
	if got := ComputeTolerance(w, tod(16, 45), model.EventExit); got.Within || got.Minutes != 5 {
		t.Errorf("16:45 应早退 5 分钟，实际: %+v", got)
	}
	if got := ComputeTolerance(w, tod(18, 0), model.EventExit); !got.Within {
		t.Errorf("加班离开应在容差内，实际: %+v", got)
	}
}

func TestComputeTolerance_NoSchedule(t *testing.T) {
	w := &model.Worker{ToleranceMinutes: 10}
	for _, typ := range []model.EventType{model.EventEntry, model.EventExit} {
		got := ComputeTolerance(w, tod(23, 59), typ)
		if got.Minutes != 0 || !got.Within {
			t.Errorf("%s 未排班应为 (0, true)，实际: %+v", typ, got)
		}
	}
}

func TestComputeTolerance_ZeroTolerance(t *testing.T) {
	w := scheduledWorker()
	w.ToleranceMinutes = 0
	if got := ComputeTolerance(w, tod(8, 1), model.EventEntry); got.Within || got.Minutes != 1 {
		t.Errorf("零容差迟到 1 分钟，实际: %+v", got)
	}
}

func TestDeviation_Apply(t *testing.T) {
	e := &model.AttendanceEvent{Type: model.EventExit, LateMinutes: 3}
	Deviation{Minutes: 7, Within: false}.Apply(e)
	if e.EarlyDepartureMinutes != 7 || e.LateMinutes != 0 || e.WithinTolerance {
		t.Errorf("下班偏差应写入早退字段，实际: %+v", e)
	}

	e = &model.AttendanceEvent{Type: model.EventEntry}
	Deviation{Minutes: 4}.Apply(e)
	if e.LateMinutes != 4 || e.EarlyDepartureMinutes != 0 {
		t.Errorf("上班偏差应写入迟到字段，实际: %+v", e)
	}
}
