package attendance

import "github.com/Ismaelg12/timeflow/internal/model"

// DayCounts 某日某类打卡的条数
type DayCounts struct {
	Entries int
	Exits   int
}

// Count 统计打卡记录条数
func Count(events []model.AttendanceEvent) DayCounts {
	var c DayCounts
	for i := range events {
		c.Add(events[i].Type)
	}
	return c
}

// Add 累加一条记录
func (c *DayCounts) Add(t model.EventType) {
	if t == model.EventEntry {
		c.Entries++
	} else {
		c.Exits++
	}
}

// Of 指定类型的条数
func (c DayCounts) Of(t model.EventType) int {
	if t == model.EventEntry {
		return c.Entries
	}
	return c.Exits
}

// Complete 当日上下班条数对称
func (c DayCounts) Complete() bool { return c.Entries == c.Exits }

// NextEventType 判定下一次打卡类型
//
// 24 小时班：昨天有上班且没有下班，则无论今天如何都应下班。
// 其余情况：今天无记录为上班；上班多于下班为下班；否则为上班。
func NextEventType(today DayCounts, shift24h bool, yesterday DayCounts) model.EventType {
	if shift24h && yesterday.Entries > 0 && yesterday.Exits == 0 {
		return model.EventExit
	}
	if today.Entries > today.Exits {
		return model.EventExit
	}
	return model.EventEntry
}

// IsDuplicate 同日同类型是否已有记录
// 24 小时班的下班打卡不受此限制。
func IsDuplicate(today DayCounts, eventType model.EventType, shift24h bool) bool {
	if eventType == model.EventExit && shift24h {
		return false
	}
	return today.Of(eventType) > 0
}
