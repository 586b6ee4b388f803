package model

import (
	"errors"
	"time"
)

// Session 当前会话值对象
// 由调用方显式传递,仓储为唯一事实来源,不再维护内存缓存
type Session struct {
	Date  string `json:"currentDate"`  // YYYY-MM-DD
	Shift string `json:"currentShift"` // day | night
}

// SessionModel 会话数据模型,单行记录
type SessionModel struct {
	ID           uint      `gorm:"primaryKey"`
	CurrentDate  string    `gorm:"type:varchar(10);not null"`
	CurrentShift string    `gorm:"type:varchar(8);not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName 指定表名
func (SessionModel) TableName() string {
	return "session"
}

// Validate 验证会话模型
func (sm *SessionModel) Validate() error {
	if sm.CurrentDate == "" {
		return errors.New("session date is required")
	}
	if sm.CurrentShift != ShiftDay && sm.CurrentShift != ShiftNight {
		return errors.New("session shift must be day or night")
	}
	return nil
}

// Session 转换为领域值对象
func (sm *SessionModel) Session() Session {
	return Session{Date: sm.CurrentDate, Shift: sm.CurrentShift}
}
