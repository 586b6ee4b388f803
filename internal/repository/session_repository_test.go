package repository_test

import (
	"testing"

	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/model"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDBForSession 创建会话测试数据库
func setupTestDBForSession(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&model.SessionModel{})
	require.NoError(t, err)

	return db
}

// TestSessionRepository_GetEmpty 未建立会话时返回 nil
func TestSessionRepository_GetEmpty(t *testing.T) {
	db := setupTestDBForSession(t)
	repo := repository.NewSessionRepository(db)

	sm, err := repo.Get()
	require.NoError(t, err)
	assert.Nil(t, sm)
}

// TestSessionRepository_PutAndGet 测试会话写入与读取
func TestSessionRepository_PutAndGet(t *testing.T) {
	db := setupTestDBForSession(t)
	repo := repository.NewSessionRepository(db)

	require.NoError(t, repo.Put(model.Session{Date: "2025-03-27", Shift: "day"}))

	sm, err := repo.Get()
	require.NoError(t, err)
	require.NotNil(t, sm)
	assert.Equal(t, "2025-03-27", sm.CurrentDate)
	assert.Equal(t, "day", sm.CurrentShift)
}

// TestSessionRepository_PutOverwrites 会话保持单行
func TestSessionRepository_PutOverwrites(t *testing.T) {
	db := setupTestDBForSession(t)
	repo := repository.NewSessionRepository(db)

	require.NoError(t, repo.Put(model.Session{Date: "2025-03-27", Shift: "day"}))
	require.NoError(t, repo.Put(model.Session{Date: "2025-03-27", Shift: "night"}))

	sm, err := repo.Get()
	require.NoError(t, err)
	require.NotNil(t, sm)
	assert.Equal(t, "night", sm.CurrentShift)

	var count int64
	db.Model(&model.SessionModel{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

// TestSessionRepository_PutInvalid 无效会话被拒绝
func TestSessionRepository_PutInvalid(t *testing.T) {
	db := setupTestDBForSession(t)
	repo := repository.NewSessionRepository(db)

	assert.Error(t, repo.Put(model.Session{Date: "", Shift: "day"}))
	assert.Error(t, repo.Put(model.Session{Date: "2025-03-27", Shift: "evening"}))
}
