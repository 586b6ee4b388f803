package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/model"
	"gorm.io/gorm"
)

// 会话为单行记录,固定主键
const sessionRowID = 1

// SessionRepository 会话仓储接口
type SessionRepository interface {
	Get() (*model.SessionModel, error)
	Put(session model.Session) error
}

// sessionRepository 会话仓储实现
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository 创建会话仓储
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Get 读取当前会话
// 尚未建立会话时返回 (nil, nil),由服务层按当前时刻初始化
func (r *sessionRepository) Get() (*model.SessionModel, error) {
	var sm model.SessionModel
	if err := r.db.First(&sm, sessionRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sm, nil
}

// Put 写入当前会话
func (r *sessionRepository) Put(session model.Session) error {
	sm := model.SessionModel{
		ID:           sessionRowID,
		CurrentDate:  session.Date,
		CurrentShift: session.Shift,
		UpdatedAt:    time.Now(),
	}
	if err := sm.Validate(); err != nil {
		return fmt.Errorf("invalid session: %w", err)
	}
	return r.db.Save(&sm).Error
}
