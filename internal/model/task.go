package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// 任务状态
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// 班次标识
const (
	ShiftDay   = "day"
	ShiftNight = "night"
)

// Task 运送任务领域对象
// JSON 字段名即持久化格式,读写必须逐字段往返一致
type Task struct {
	ID               string  `json:"id"`
	Date             string  `json:"date"`  // YYYY-MM-DD
	Shift            string  `json:"shift"` // day | night
	JobCategoryID    int     `json:"jobCategoryId"`
	ItemTypeID       int     `json:"itemTypeId"`
	FromDepartmentID int     `json:"fromDepartmentId"`
	ToDepartmentID   int     `json:"toDepartmentId"`
	TransportType    string  `json:"transportType,omitempty"`
	StaffID          *int    `json:"staffId"`
	TimeReceived     string  `json:"timeReceived"` // HH:MM
	TimeAllocated    *string `json:"timeAllocated"`
	TimeCompleted    *string `json:"timeCompleted"`
	Status           string  `json:"status"`
}

// RecomputeStatus 根据字段推导状态
// 不变式: status == completed 当且仅当已分配运送员且已记录完成时间
func (t *Task) RecomputeStatus() {
	if t.StaffID != nil && t.TimeCompleted != nil {
		t.Status = StatusCompleted
	} else {
		t.Status = StatusPending
	}
}

// CheckInvariant 校验任务不变式,每次变更后调用
func (t *Task) CheckInvariant() error {
	completed := t.StaffID != nil && t.TimeCompleted != nil
	if completed != (t.Status == StatusCompleted) {
		return fmt.Errorf("status %q inconsistent with staffId/timeCompleted", t.Status)
	}
	if t.StaffID != nil && t.TimeAllocated == nil {
		return errors.New("timeAllocated must be set when staffId is set")
	}
	if t.StaffID == nil && t.TimeAllocated != nil {
		return errors.New("timeAllocated must be cleared when staffId is cleared")
	}
	return nil
}

// Clone 深拷贝任务,归档快照使用,避免与在役任务共享指针
func (t *Task) Clone() *Task {
	c := *t
	if t.StaffID != nil {
		v := *t.StaffID
		c.StaffID = &v
	}
	if t.TimeAllocated != nil {
		v := *t.TimeAllocated
		c.TimeAllocated = &v
	}
	if t.TimeCompleted != nil {
		v := *t.TimeCompleted
		c.TimeCompleted = &v
	}
	return &c
}

// TaskModel 任务数据模型
// 标量列用于索引和过滤,Data 保存任务的规范 JSON
type TaskModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)"`
	Date      string    `gorm:"type:varchar(10);not null;index"` // 班次归属日期
	Shift     string    `gorm:"type:varchar(8);not null;index"`  // 班次
	Status    string    `gorm:"type:varchar(16);not null;index"` // 任务状态
	StaffID   *int      `gorm:"index"`                           // 运送员 ID
	Data      []byte    `gorm:"type:jsonb;not null"`             // 序列化后的 Task 对象
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName 指定表名
func (TaskModel) TableName() string {
	return "tasks"
}

// Validate 验证任务模型
func (tm *TaskModel) Validate() error {
	if tm.ID == "" {
		return errors.New("task ID is required")
	}
	if tm.Date == "" {
		return errors.New("task date is required")
	}
	if tm.Shift == "" {
		return errors.New("task shift is required")
	}
	if tm.Status == "" {
		return errors.New("task status is required")
	}
	if len(tm.Data) == 0 {
		return errors.New("task data is required")
	}
	return nil
}

// NewTaskModel 由领域对象构建数据模型
func NewTaskModel(task *Task) (*TaskModel, error) {
	data, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task: %w", err)
	}
	return &TaskModel{
		ID:      task.ID,
		Date:    task.Date,
		Shift:   task.Shift,
		Status:  task.Status,
		StaffID: task.StaffID,
		Data:    data,
	}, nil
}

// Decode 解析存储的任务 JSON
// 解析失败按数据损坏处理,由调用方决定跳过并告警
func (tm *TaskModel) Decode() (*Task, error) {
	var task Task
	if err := json.Unmarshal(tm.Data, &task); err != nil {
		return nil, fmt.Errorf("task %s: %w: %v", tm.ID, ErrPersistenceCorruption, err)
	}
	return &task, nil
}
