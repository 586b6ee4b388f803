package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ArchivedShift 已归档班次快照
// 写入后不可变,tasks 为归档时刻的深拷贝,与在役任务无别名
type ArchivedShift struct {
	Date       string    `json:"date"`
	Shift      string    `json:"shift"`
	ShiftStart string    `json:"shiftStart"`
	ShiftEnd   string    `json:"shiftEnd"`
	Tasks      []Task    `json:"tasks"`
	ArchivedAt time.Time `json:"archivedAt"`
}

// ArchiveModel 归档数据模型
type ArchiveModel struct {
	ID         string    `gorm:"primaryKey;type:varchar(64)"`
	Date       string    `gorm:"type:varchar(10);not null;index:idx_archives_date_shift"`
	Shift      string    `gorm:"type:varchar(8);not null;index:idx_archives_date_shift"`
	ArchivedAt time.Time `gorm:"not null;index"`
	Data       []byte    `gorm:"type:jsonb;not null"` // 序列化后的 ArchivedShift 对象
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName 指定表名
func (ArchiveModel) TableName() string {
	return "archived_shifts"
}

// Validate 验证归档模型
func (am *ArchiveModel) Validate() error {
	if am.ID == "" {
		return errors.New("archive ID is required")
	}
	if am.Date == "" {
		return errors.New("archive date is required")
	}
	if am.Shift == "" {
		return errors.New("archive shift is required")
	}
	if len(am.Data) == 0 {
		return errors.New("archive data is required")
	}
	return nil
}

// NewArchiveModel 由班次快照构建数据模型
func NewArchiveModel(id string, snapshot *ArchivedShift) (*ArchiveModel, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal archived shift: %w", err)
	}
	return &ArchiveModel{
		ID:         id,
		Date:       snapshot.Date,
		Shift:      snapshot.Shift,
		ArchivedAt: snapshot.ArchivedAt,
		Data:       data,
	}, nil
}

// Decode 解析存储的班次快照 JSON
func (am *ArchiveModel) Decode() (*ArchivedShift, error) {
	var snapshot ArchivedShift
	if err := json.Unmarshal(am.Data, &snapshot); err != nil {
		return nil, fmt.Errorf("archive %s: %w: %v", am.ID, ErrPersistenceCorruption, err)
	}
	return &snapshot, nil
}
