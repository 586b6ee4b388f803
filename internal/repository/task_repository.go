package repository

import (
	"errors"
	"fmt"

	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskRepository 任务仓储接口
type TaskRepository interface {
	Save(task *model.TaskModel) error
	FindByID(id string) (*model.TaskModel, error)
	FindAll() ([]*model.TaskModel, error)
	FindByFilter(filter *TaskFilter) ([]*model.TaskModel, error)
	Delete(id string) error
	DeleteByIDs(ids []string) (int64, error)
	DeleteByDateShift(date, shift string) (int64, error)
	WithTx(tx *gorm.DB) TaskRepository
}

// TaskFilter 任务查询过滤器
type TaskFilter struct {
	Date    *string
	Shift   *string
	Status  *string
	StaffID *int
}

// taskRepository 任务仓储实现
type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository 创建任务仓储
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// WithTx 返回绑定到事务的仓储
func (r *taskRepository) WithTx(tx *gorm.DB) TaskRepository {
	return &taskRepository{db: tx}
}

// Save 保存任务
// 插入或按 ID 更新,更新时保留 created_at 以保持列表顺序稳定
func (r *taskRepository) Save(task *model.TaskModel) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("invalid task model: %w", err)
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"date", "shift", "status", "staff_id", "data", "updated_at",
		}),
	}).Create(task).Error
}

// FindByID 根据 ID 查找任务
func (r *taskRepository) FindByID(id string) (*model.TaskModel, error) {
	var task model.TaskModel
	if err := r.db.Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindAll 查找所有任务
func (r *taskRepository) FindAll() ([]*model.TaskModel, error) {
	var tasks []*model.TaskModel
	err := r.db.Order("created_at ASC").Find(&tasks).Error
	return tasks, err
}

// FindByFilter 根据过滤器查找任务
func (r *taskRepository) FindByFilter(filter *TaskFilter) ([]*model.TaskModel, error) {
	var tasks []*model.TaskModel
	query := r.db.Model(&model.TaskModel{})

	if filter != nil {
		if filter.Date != nil {
			query = query.Where("date = ?", *filter.Date)
		}
		if filter.Shift != nil {
			query = query.Where("shift = ?", *filter.Shift)
		}
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.StaffID != nil {
			query = query.Where("staff_id = ?", *filter.StaffID)
		}
	}

	err := query.Order("created_at ASC").Find(&tasks).Error
	return tasks, err
}

// Delete 根据 ID 删除任务
// 目标不存在时返回 ErrNotFound,由调用方按无操作处理
func (r *taskRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&model.TaskModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// DeleteByIDs 批量删除指定 ID 的任务,返回删除行数
// 不存在的 ID 跳过,不计入行数
func (r *taskRepository) DeleteByIDs(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Where("id IN ?", ids).Delete(&model.TaskModel{})
	return result.RowsAffected, result.Error
}

// DeleteByDateShift 删除指定日期和班次的全部任务,返回删除行数
// 其他日期/班次的任务保持不变
func (r *taskRepository) DeleteByDateShift(date, shift string) (int64, error) {
	result := r.db.Where("date = ? AND shift = ?", date, shift).Delete(&model.TaskModel{})
	return result.RowsAffected, result.Error
}
