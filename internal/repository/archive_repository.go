package repository

import (
	"errors"
	"fmt"

	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/model"
	"gorm.io/gorm"
)

// ArchiveRepository 班次归档仓储接口,只追加
type ArchiveRepository interface {
	Save(archive *model.ArchiveModel) error
	FindAll() ([]*model.ArchiveModel, error)
	FindByDateShift(date, shift string) (*model.ArchiveModel, error)
	ExistsForShift(date, shift string) (bool, error)
	WithTx(tx *gorm.DB) ArchiveRepository
}

// archiveRepository 班次归档仓储实现
type archiveRepository struct {
	db *gorm.DB
}

// NewArchiveRepository 创建班次归档仓储
func NewArchiveRepository(db *gorm.DB) ArchiveRepository {
	return &archiveRepository{db: db}
}

// WithTx 返回绑定到事务的仓储
func (r *archiveRepository) WithTx(tx *gorm.DB) ArchiveRepository {
	return &archiveRepository{db: tx}
}

// Save 追加归档记录
func (r *archiveRepository) Save(archive *model.ArchiveModel) error {
	if err := archive.Validate(); err != nil {
		return fmt.Errorf("invalid archive model: %w", err)
	}
	return r.db.Create(archive).Error
}

// FindAll 查找所有归档,按归档时间倒序
func (r *archiveRepository) FindAll() ([]*model.ArchiveModel, error) {
	var archives []*model.ArchiveModel
	err := r.db.Order("archived_at DESC").Find(&archives).Error
	return archives, err
}

// FindByDateShift 查找指定日期和班次的归档
// 重复归档被 ExistsForShift 阻止,正常情况下至多一条
func (r *archiveRepository) FindByDateShift(date, shift string) (*model.ArchiveModel, error) {
	var archive model.ArchiveModel
	err := r.db.Where("date = ? AND shift = ?", date, shift).
		Order("archived_at DESC").First(&archive).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &archive, nil
}

// ExistsForShift 判断指定日期和班次是否已有归档
func (r *archiveRepository) ExistsForShift(date, shift string) (bool, error) {
	var count int64
	err := r.db.Model(&model.ArchiveModel{}).
		Where("date = ? AND shift = ?", date, shift).Count(&count).Error
	return count > 0, err
}
