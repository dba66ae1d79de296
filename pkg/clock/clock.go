// Package clock 提供业务时钟
// 所有“今天”“昨天”的判断都以固定偏移的业务时区为准，与服务器本地时区无关。
package clock

import (
	"fmt"
	"time"
)

// Clock 业务时钟
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

// zoned 固定偏移时区的真实时钟
type zoned struct {
	loc *time.Location
}

// NewZoned 创建固定 UTC 偏移的时钟（巴西利亚时间为 -3）
func NewZoned(offsetHours int) Clock {
	name := fmt.Sprintf("UTC%+d", offsetHours)
	return &zoned{loc: time.FixedZone(name, offsetHours*3600)}
}

func (z *zoned) Now() time.Time           { return time.Now().In(z.loc) }
func (z *zoned) Location() *time.Location { return z.loc }

// Fixed 返回固定时间的时钟，用于测试
type Fixed struct {
	T time.Time
}

func (f *Fixed) Now() time.Time           { return f.T }
func (f *Fixed) Location() *time.Location { return f.T.Location() }

// Today 返回业务时区当天零点
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}

// DateOf 截断到所在时区的零点
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate 按业务时区解析 YYYY-MM-DD
func ParseDate(c Clock, s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, c.Location())
}
