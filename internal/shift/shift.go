// Package shift 提供班次窗口与时刻归类的纯函数
package shift

import (
	"fmt"
	"regexp"
	"time"

	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/model"
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Windows 班次时间窗口配置,均为 24 小时制 "HH:MM"
// 夜班窗口允许跨午夜
type Windows struct {
	DayStart   string
	DayEnd     string
	NightStart string
	NightEnd   string
}

// DefaultWindows 默认班次窗口: 白班 08:00-20:00,夜班 20:00-08:00
func DefaultWindows() Windows {
	return Windows{
		DayStart:   "08:00",
		DayEnd:     "20:00",
		NightStart: "20:00",
		NightEnd:   "08:00",
	}
}

// Validate 校验窗口配置格式
func (w Windows) Validate() error {
	for _, v := range []struct{ name, clock string }{
		{"dayStart", w.DayStart},
		{"dayEnd", w.DayEnd},
		{"nightStart", w.NightStart},
		{"nightEnd", w.NightEnd},
	} {
		if !ValidClock(v.clock) {
			return fmt.Errorf("shift window %s: %q is not a valid HH:MM clock", v.name, v.clock)
		}
	}
	return nil
}

// Bounds 返回指定班次的起止时刻
func (w Windows) Bounds(shiftName string) (start, end string) {
	if shiftName == model.ShiftNight {
		return w.NightStart, w.NightEnd
	}
	return w.DayStart, w.DayEnd
}

// Classify 将时刻归类到班次
// 先检查白班窗口,不在其中即为夜班
func Classify(w Windows, clock string) string {
	if inWindow(clock, w.DayStart, w.DayEnd) {
		return model.ShiftDay
	}
	return model.ShiftNight
}

// inWindow 判断时刻是否落在窗口内
// start < end 为普通窗口 [start, end);start >= end 为跨午夜窗口
func inWindow(t, start, end string) bool {
	if start < end {
		return t >= start && t < end
	}
	return t >= start || t < end
}

// ValidClock 判断字符串是否为合法的 24 小时制 "HH:MM"
func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// Clock 格式化时刻为 "HH:MM"
func Clock(t time.Time) string {
	return t.Format("15:04")
}

// Date 格式化日期为 "YYYY-MM-DD"
func Date(t time.Time) string {
	return t.Format("2006-01-02")
}
