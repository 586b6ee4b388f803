package repository_test

import (
	"testing"
	"time"

	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/model"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDBForArchive 创建归档测试数据库
func setupTestDBForArchive(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&model.ArchiveModel{})
	require.NoError(t, err)

	return db
}

func newArchiveModel(t *testing.T, id, date, shift string, archivedAt time.Time) *model.ArchiveModel {
	t.Helper()
	snapshot := &model.ArchivedShift{
		Date:       date,
		Shift:      shift,
		ShiftStart: "08:00",
		ShiftEnd:   "20:00",
		Tasks: []model.Task{
			{ID: "task-001", Date: date, Shift: shift, TimeReceived: "09:15", Status: "pending"},
		},
		ArchivedAt: archivedAt,
	}
	am, err := model.NewArchiveModel(id, snapshot)
	require.NoError(t, err)
	return am
}

// TestArchiveRepository_SaveAndFind 测试保存归档并按日期班次查找
func TestArchiveRepository_SaveAndFind(t *testing.T) {
	db := setupTestDBForArchive(t)
	repo := repository.NewArchiveRepository(db)

	am := newArchiveModel(t, "archive-001", "2025-03-27", "day", time.Now())
	require.NoError(t, repo.Save(am))

	found, err := repo.FindByDateShift("2025-03-27", "day")
	require.NoError(t, err)
	assert.Equal(t, "archive-001", found.ID)

	snapshot, err := found.Decode()
	require.NoError(t, err)
	assert.Equal(t, "2025-03-27", snapshot.Date)
	assert.Len(t, snapshot.Tasks, 1)

	_, err = repo.FindByDateShift("2025-03-27", "night")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

// TestArchiveRepository_ExistsForShift 测试归档存在性检查
func TestArchiveRepository_ExistsForShift(t *testing.T) {
	db := setupTestDBForArchive(t)
	repo := repository.NewArchiveRepository(db)

	exists, err := repo.ExistsForShift("2025-03-27", "day")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Save(newArchiveModel(t, "archive-001", "2025-03-27", "day", time.Now())))

	exists, err = repo.ExistsForShift("2025-03-27", "day")
	require.NoError(t, err)
	assert.True(t, exists)
}

// TestArchiveRepository_FindAll 按归档时间倒序返回
func TestArchiveRepository_FindAll(t *testing.T) {
	db := setupTestDBForArchive(t)
	repo := repository.NewArchiveRepository(db)

	base := time.Now()
	require.NoError(t, repo.Save(newArchiveModel(t, "archive-001", "2025-03-26", "night", base.Add(-time.Hour))))
	require.NoError(t, repo.Save(newArchiveModel(t, "archive-002", "2025-03-27", "day", base)))

	archives, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, archives, 2)
	assert.Equal(t, "archive-002", archives[0].ID)
	assert.Equal(t, "archive-001", archives[1].ID)
}
