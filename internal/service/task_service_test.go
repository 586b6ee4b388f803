package service_test

import (
	"context"
	"io"
	"testing"

	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/model"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/refdata"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/repository"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func intPtr(v int) *int { return &v }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// setupServiceDB 创建服务层测试数据库
func setupServiceDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.TaskModel{},
		&model.ArchiveModel{},
		&model.SessionModel{},
		&model.StateHistoryModel{},
	)
	require.NoError(t, err)

	return db
}

// testRefStore 服务层测试用的参考数据
func testRefStore() *refdata.Store {
	return refdata.NewStore(
		[]model.Staff{
			{ID: 1, Name: "John Smith"},
			{ID: 2, Name: "Sarah Johnson"},
		},
		[]model.Building{{ID: 1, Name: "Main Hospital"}, {ID: 3, Name: "Emergency Services"}},
		[]model.Department{
			{ID: 1, Name: "Emergency Room", BuildingID: 3},
			{ID: 3, Name: "Radiology", BuildingID: 1},
			{ID: 4, Name: "Laboratory", BuildingID: 1},
			{ID: 5, Name: "Pharmacy", BuildingID: 1},
		},
		[]model.JobType{
			{ID: 1, Name: "Patient Transfer", TransportOptions: []string{"Bed", "Chair", "Walker", "Stretcher"}},
			{ID: 2, Name: "Lab Sample", DefaultToDepartmentID: intPtr(4)},
			{ID: 5, Name: "Documents"},
		},
		[]model.JobCategory{
			{ID: 2, Name: "Urgent", AllowedTypes: []int{1, 2}, PersonMovement: true},
			{ID: 4, Name: "Staff Request", AllowedTypes: []int{5}},
		},
	)
}

func newTestTaskService(t *testing.T) (service.TaskService, *gorm.DB) {
	db := setupServiceDB(t)
	svc := service.NewTaskService(
		repository.NewTaskRepository(db),
		repository.NewStateHistoryRepository(db),
		testRefStore(),
		testLogger(),
	)
	return svc, db
}

var testSession = model.Session{Date: "2025-03-27", Shift: "day"}

// TestTaskService_CreatePending 创建未分配的任务
func TestTaskService_CreatePending(t *testing.T) {
	svc, _ := newTestTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, testSession, &service.CreateTaskRequest{
		JobCategoryID:    2,
		ItemTypeID:       1,
		FromDepartmentID: 1,
		ToDepartmentID:   3,
		TransportType:    "Stretcher",
		TimeReceived:     "09:15",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "2025-03-27", task.Date)
	assert.Equal(t, "day", task.Shift)
	assert.Equal(t, model.StatusPending, task.Status)
	assert.Nil(t, task.StaffID)
	assert.Nil(t, task.TimeAllocated)
	assert.Nil(t, task.TimeCompleted)

	// 创建即记录状态历史
	histories, err := svc.History(task.ID)
	require.NoError(t, err)
	require.Len(t, histories, 1)
	assert.Equal(t, "", histories[0].FromStatus)
	assert.Equal(t, model.StatusPending, histories[0].ToStatus)
}

// TestTaskService_CreateCompleted 建单即完成(补录场景)
func TestTaskService_CreateCompleted(t *testing.T) {
	svc, _ := newTestTaskService(t)

	task, err := svc.Create(context.Background(), testSession, &service.CreateTaskRequest{
		JobCategoryID:    2,
		ItemTypeID:       1,
		FromDepartmentID: 1,
		ToDepartmentID:   3,
		TransportType:    "Bed",
		StaffID:          intPtr(1),
		TimeReceived:     "09:15",
		TimeCompleted:    "09:45",
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusCompleted, task.Status)
	require.NotNil(t, task.TimeAllocated)
	require.NotNil(t, task.TimeCompleted)
	assert.Equal(t, "09:45", *task.TimeCompleted)
	assert.NoError(t, task.CheckInvariant())
}

// TestTaskService_CreateValidation 校验失败时不落任何状态
func TestTaskService_CreateValidation(t *testing.T) {
	svc, db := newTestTaskService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  *service.CreateTaskRequest
	}{
		{"缺少类别", &service.CreateTaskRequest{ItemTypeID: 1, FromDepartmentID: 1, ToDepartmentID: 3}},
		{"无完成时间的运送员缺失", &service.CreateTaskRequest{
			JobCategoryID: 2, ItemTypeID: 1, FromDepartmentID: 1, ToDepartmentID: 3,
			TransportType: "Bed", TimeCompleted: "09:45",
		}},
		{"未知类别", &service.CreateTaskRequest{
			JobCategoryID: 99, ItemTypeID: 1, FromDepartmentID: 1, ToDepartmentID: 3,
		}},
		{"工种不在类别允许范围", &service.CreateTaskRequest{
			JobCategoryID: 4, ItemTypeID: 1, FromDepartmentID: 1, ToDepartmentID: 3,
		}},
		{"未知科室", &service.CreateTaskRequest{
			JobCategoryID: 2, ItemTypeID: 1, FromDepartmentID: 99, ToDepartmentID: 3,
			TransportType: "Bed",
		}},
		{"缺少转运方式", &service.CreateTaskRequest{
			JobCategoryID: 2, ItemTypeID: 1, FromDepartmentID: 1, ToDepartmentID: 3,
		}},
		{"转运方式不在声明列表", &service.CreateTaskRequest{
			JobCategoryID: 2, ItemTypeID: 1, FromDepartmentID: 1, ToDepartmentID: 3,
			TransportType: "Wheelchair",
		}},
		{"物品工种给了转运方式", &service.CreateTaskRequest{
			JobCategoryID: 2, ItemTypeID: 2, FromDepartmentID: 1, ToDepartmentID: 4,
			TransportType: "Bed",
		}},
		{"非法接单时间", &service.CreateTaskRequest{
			JobCategoryID: 2, ItemTypeID: 1, FromDepartmentID: 1, ToDepartmentID: 3,
			TransportType: "Bed", TimeReceived: "9:15",
		}},
		{"未知运送员", &service.CreateTaskRequest{
			JobCategoryID: 2, ItemTypeID: 1, FromDepartmentID: 1, ToDepartmentID: 3,
			TransportType: "Bed", StaffID: intPtr(99),
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Create(ctx, testSession, c.req)
			assert.Error(t, err)
		})
	}

	// 所有失败的创建均未落库
	var count int64
	db.Model(&model.TaskModel{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

// TestTaskService_CreateAppliesDefaults 创建时默认科室只填充未填写的字段
func TestTaskService_CreateAppliesDefaults(t *testing.T) {
	svc, _ := newTestTaskService(t)

	// Lab Sample 默认送往 Laboratory
	task, err := svc.Create(context.Background(), testSession, &service.CreateTaskRequest{
		JobCategoryID:    2,
		ItemTypeID:       2,
		FromDepartmentID: 1,
		TimeReceived:     "09:30",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, task.FromDepartmentID)
	assert.Equal(t, 4, task.ToDepartmentID)

	// 已填写的值不被默认覆盖
	task, err = svc.Create(context.Background(), testSession, &service.CreateTaskRequest{
		JobCategoryID:    2,
		ItemTypeID:       2,
		FromDepartmentID: 1,
		ToDepartmentID:   3,
		TimeReceived:     "09:35",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, task.ToDepartmentID)
}

// TestTaskService_Lifecycle 建单 -> 分配 -> 完成 -> 取消完成
func TestTaskService_Lifecycle(t *testing.T) {
	svc, _ := newTestTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, testSession, &service.CreateTaskRequest{
		JobCategoryID:    2,
		ItemTypeID:       1,
		FromDepartmentID: 1,
		ToDepartmentID:   3,
		TransportType:    "Chair",
		TimeReceived:     "09:15",
	})
	require.NoError(t, err)

	// 分配运送员记录分配时间
	task, err = svc.Assign(ctx, task.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, task.Status)
	require.NotNil(t, task.StaffID)
	assert.Equal(t, 1, *task.StaffID)
	require.NotNil(t, task.TimeAllocated)

	firstAllocated := *task.TimeAllocated

	// 换人不重置分配时间
	task, err = svc.Assign(ctx, task.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, *task.StaffID)
	assert.Equal(t, firstAllocated, *task.TimeAllocated)

	// 完成
	task, err = svc.Complete(ctx, task.ID, "09:45")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, task.Status)
	require.NotNil(t, task.TimeCompleted)
	assert.Equal(t, "09:45", *task.TimeCompleted)

	// 取消完成保留运送员与分配时间
	task, err = svc.Reopen(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, task.Status)
	assert.Nil(t, task.TimeCompleted)
	require.NotNil(t, task.StaffID)
	require.NotNil(t, task.TimeAllocated)

	// 历史记录了每次状态变化: 创建、完成、取消完成
	histories, err := svc.History(task.ID)
	require.NoError(t, err)
	require.Len(t, histories, 3)
	assert.Equal(t, model.StatusCompleted, histories[1].ToStatus)
	assert.Equal(t, model.StatusPending, histories[2].ToStatus)
}

// TestTaskService_CompleteRequiresStaff 未分配运送员不能完成
func TestTaskService_CompleteRequiresStaff(t *testing.T) {
	svc, _ := newTestTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, testSession, &service.CreateTaskRequest{
		JobCategoryID:    2,
		ItemTypeID:       1,
		FromDepartmentID: 1,
		ToDepartmentID:   3,
		TransportType:    "Bed",
		TimeReceived:     "09:15",
	})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, task.ID, "09:45")
	assert.ErrorIs(t, err, model.ErrValidation)
}

// TestTaskService_Update 部分更新,nil 字段保持不变
func TestTaskService_Update(t *testing.T) {
	svc, _ := newTestTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, testSession, &service.CreateTaskRequest{
		JobCategoryID:    2,
		ItemTypeID:       1,
		FromDepartmentID: 1,
		ToDepartmentID:   3,
		TransportType:    "Bed",
		TimeReceived:     "09:15",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, task.ID, &service.UpdateTaskRequest{
		ToDepartmentID: intPtr(5),
		TransportType:  strPtr("Stretcher"),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.ToDepartmentID)
	assert.Equal(t, "Stretcher", updated.TransportType)
	assert.Equal(t, 1, updated.FromDepartmentID)
	assert.Equal(t, "09:15", updated.TimeReceived)

	// 非法的组合编辑被整体拒绝,任务保持原样
	_, err = svc.Update(ctx, task.ID, &service.UpdateTaskRequest{
		TransportType: strPtr("Wheelchair"),
	})
	assert.Error(t, err)
	got, err := svc.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stretcher", got.TransportType)

	// 清除运送员一并清除分配时间
	_, err = svc.Assign(ctx, task.ID, 1)
	require.NoError(t, err)
	updated, err = svc.Update(ctx, task.ID, &service.UpdateTaskRequest{ClearStaff: true})
	require.NoError(t, err)
	assert.Nil(t, updated.StaffID)
	assert.Nil(t, updated.TimeAllocated)
	assert.Equal(t, model.StatusPending, updated.Status)
}

// TestTaskService_UpdateContradictory 清除与赋值同时出现的请求被拒绝
func TestTaskService_UpdateContradictory(t *testing.T) {
	svc, _ := newTestTaskService(t)
	ctx := context.Background()

	staffID := 1
	task, err := svc.Create(ctx, testSession, &service.CreateTaskRequest{
		JobCategoryID:    2,
		ItemTypeID:       2,
		FromDepartmentID: 1,
		TimeReceived:     "09:15",
		StaffID:          &staffID,
		TimeCompleted:    "10:00",
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, task.ID, &service.UpdateTaskRequest{
		ClearCompleted: true,
		TimeCompleted:  strPtr("11:00"),
	})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Update(ctx, task.ID, &service.UpdateTaskRequest{
		ClearStaff: true,
		StaffID:    intPtr(2),
	})
	assert.ErrorIs(t, err, model.ErrValidation)

	// 矛盾请求不改动任务
	got, err := svc.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)
	require.NotNil(t, got.TimeCompleted)
	assert.Equal(t, "10:00", *got.TimeCompleted)
}

// TestTaskService_Delete 删除与重复删除
func TestTaskService_Delete(t *testing.T) {
	svc, _ := newTestTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, testSession, &service.CreateTaskRequest{
		JobCategoryID:    2,
		ItemTypeID:       2,
		FromDepartmentID: 1,
		TimeReceived:     "09:15",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, task.ID))
	_, err = svc.Get(task.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	// 目标不存在时返回 ErrNotFound,调用方按无操作处理
	assert.ErrorIs(t, svc.Delete(ctx, task.ID), model.ErrNotFound)
}

// TestTaskService_ListSkipsCorrupt 损坏记录跳过并计数
func TestTaskService_ListSkipsCorrupt(t *testing.T) {
	svc, db := newTestTaskService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, testSession, &service.CreateTaskRequest{
		JobCategoryID:    2,
		ItemTypeID:       2,
		FromDepartmentID: 1,
		TimeReceived:     "09:15",
	})
	require.NoError(t, err)

	// 直接写入一条损坏的记录
	corrupt := &model.TaskModel{
		ID:     "corrupt-001",
		Date:   testSession.Date,
		Shift:  testSession.Shift,
		Status: model.StatusPending,
		Data:   []byte(`{not json`),
	}
	require.NoError(t, db.Create(corrupt).Error)

	list, err := svc.List(nil)
	require.NoError(t, err)
	assert.Len(t, list.Tasks, 1)
	assert.Equal(t, 1, list.Corrupt)
}

func strPtr(s string) *string { return &s }
