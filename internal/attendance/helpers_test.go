package attendance

import (
	"time"

	"gorm.io/datatypes"

	"github.com/Ismaelg12/timeflow/internal/model"
)

func tod(h, m int) datatypes.Time { return datatypes.NewTime(h, m, 0, 0) }

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func ev(day string, h, m int, t model.EventType) model.AttendanceEvent {
	return model.AttendanceEvent{
		Date:            datatypes.Date(date(day)),
		Time:            tod(h, m),
		Type:            t,
		WithinTolerance: true,
	}
}

func intPtr(n int) *int { return &n }

func scheduledWorker() *model.Worker {
	in, out := tod(8, 0), tod(17, 0)
	return &model.Worker{
		FirstName:        "Ana",
		LastName:         "Souza",
		EntryTime:        &in,
		ExitTime:         &out,
		ToleranceMinutes: 10,
	}
}
