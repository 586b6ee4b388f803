package repository

import (
	"fmt"

	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/model"
	"gorm.io/gorm"
)

// StateHistoryRepository 状态变更历史仓储接口
type StateHistoryRepository interface {
	Save(history *model.StateHistoryModel) error
	FindByTaskID(taskID string) ([]*model.StateHistoryModel, error)
}

// stateHistoryRepository 状态变更历史仓储实现
type stateHistoryRepository struct {
	db *gorm.DB
}

// NewStateHistoryRepository 创建状态变更历史仓储
func NewStateHistoryRepository(db *gorm.DB) StateHistoryRepository {
	return &stateHistoryRepository{db: db}
}

// Save 保存状态变更记录
func (r *stateHistoryRepository) Save(history *model.StateHistoryModel) error {
	if err := history.Validate(); err != nil {
		return fmt.Errorf("invalid state history: %w", err)
	}
	return r.db.Create(history).Error
}

// FindByTaskID 按任务 ID 查找状态变更记录,按时间正序
func (r *stateHistoryRepository) FindByTaskID(taskID string) ([]*model.StateHistoryModel, error) {
	var histories []*model.StateHistoryModel
	err := r.db.Where("task_id = ?", taskID).Order("created_at ASC").Find(&histories).Error
	return histories, err
}
