package utils

import (
	"errors"
	"html"
	"regexp"
	"strings"
	"unicode"
)

// 输入校验错误
var (
	ErrEmptyID         = errors.New("id is empty")
	ErrInvalidIDFormat = errors.New("id contains invalid characters")
	ErrIDTooLong       = errors.New("id is too long")
	ErrInvalidClock    = errors.New("clock must be HH:MM in 24h format")
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
)

var (
	idPattern    = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// SanitizeString 清理字符串,移除或转义危险字符
func SanitizeString(input string) string {
	// 1. HTML 转义
	sanitized := html.EscapeString(input)

	// 2. 移除控制字符（除了换行符和制表符）
	var result strings.Builder
	for _, r := range sanitized {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		result.WriteRune(r)
	}

	return result.String()
}

// ValidateTaskID 验证任务 ID 格式
func ValidateTaskID(id string) error {
	if id == "" {
		return ErrEmptyID
	}
	if !idPattern.MatchString(id) {
		return ErrInvalidIDFormat
	}
	if len(id) > 64 {
		return ErrIDTooLong
	}
	return nil
}

// ValidateClock 验证 "HH:MM" 时刻格式
func ValidateClock(clock string) error {
	if !clockPattern.MatchString(clock) {
		return ErrInvalidClock
	}
	return nil
}

// ValidateDate 验证 "YYYY-MM-DD" 日期格式
func ValidateDate(date string) error {
	if !datePattern.MatchString(date) {
		return ErrInvalidDate
	}
	return nil
}
