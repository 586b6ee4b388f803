package model

import (
	"errors"
	"fmt"
)

// 业务错误分类
var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrValidation 输入校验失败
	ErrValidation = errors.New("validation failed")
	// ErrInvalidSelection 所选工种不在类别允许范围内
	ErrInvalidSelection = errors.New("item type not allowed under category")
	// ErrReferenceDataUnavailable 参考数据加载失败
	ErrReferenceDataUnavailable = errors.New("reference data unavailable")
	// ErrPersistenceCorruption 存储的 JSON 数据无法解析
	ErrPersistenceCorruption = errors.New("stored data corrupted")
)

// ValidationError 字段级校验错误
type ValidationError struct {
	Field   string
	Message string
}

// Error 实现 error 接口
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap 支持 errors.Is(err, ErrValidation)
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError 创建字段级校验错误
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
