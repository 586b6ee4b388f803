package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/model"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/refdata"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/repository"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/rules"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/shift"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TaskService 任务服务接口
// 会话由调用方显式传入,仓储是唯一事实来源
type TaskService interface {
	Create(ctx context.Context, sess model.Session, req *CreateTaskRequest) (*model.Task, error)
	Get(id string) (*model.Task, error)
	List(filter *repository.TaskFilter) (*TaskList, error)
	Update(ctx context.Context, id string, req *UpdateTaskRequest) (*model.Task, error)
	Assign(ctx context.Context, id string, staffID int) (*model.Task, error)
	Complete(ctx context.Context, id string, timeCompleted string) (*model.Task, error)
	Reopen(ctx context.Context, id string) (*model.Task, error)
	Delete(ctx context.Context, id string) error
	History(id string) ([]*model.StateHistoryModel, error)
}

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	JobCategoryID    int    `json:"jobCategoryId" validate:"required"`
	ItemTypeID       int    `json:"itemTypeId" validate:"required"`
	FromDepartmentID int    `json:"fromDepartmentId"`
	ToDepartmentID   int    `json:"toDepartmentId"`
	TransportType    string `json:"transportType"`
	StaffID          *int   `json:"staffId"`
	TimeReceived     string `json:"timeReceived"`  // 空则取当前时刻
	TimeCompleted    string `json:"timeCompleted"` // 建单即完成时使用,需同时给出运送员
}

// UpdateTaskRequest 更新任务请求,nil 字段保持不变
type UpdateTaskRequest struct {
	JobCategoryID    *int    `json:"jobCategoryId"`
	ItemTypeID       *int    `json:"itemTypeId"`
	FromDepartmentID *int    `json:"fromDepartmentId"`
	ToDepartmentID   *int    `json:"toDepartmentId"`
	TransportType    *string `json:"transportType"`
	StaffID          *int    `json:"staffId"`
	ClearStaff       bool    `json:"clearStaff"`
	TimeReceived     *string `json:"timeReceived"`
	TimeCompleted    *string `json:"timeCompleted"`
	ClearCompleted   bool    `json:"clearCompleted"`
}

// TaskList 任务列表结果
// Corrupt 为跳过的损坏记录数,非零时应提示操作员(意味着曾有数据丢失)
type TaskList struct {
	Tasks   []*model.Task
	Corrupt int
}

type taskService struct {
	tasks    repository.TaskRepository
	history  repository.StateHistoryRepository
	ref      *refdata.Store
	validate *validator.Validate
	logger   *logrus.Logger
	now      func() time.Time
}

// NewTaskService 创建任务服务
func NewTaskService(tasks repository.TaskRepository, history repository.StateHistoryRepository,
	ref *refdata.Store, logger *logrus.Logger) TaskService {
	return &taskService{
		tasks:    tasks,
		history:  history,
		ref:      ref,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
		now:      time.Now,
	}
}

// Create 创建任务
// 校验失败时不落任何状态;新任务默认为 pending
func (s *taskService) Create(ctx context.Context, sess model.Session, req *CreateTaskRequest) (*model.Task, error) {
	if req == nil {
		return nil, model.NewValidationError("", "request is required")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, translateValidatorError(err)
	}
	if err := utils.ValidateDate(sess.Date); err != nil {
		return nil, model.NewValidationError("date", err.Error())
	}
	if sess.Shift != model.ShiftDay && sess.Shift != model.ShiftNight {
		return nil, model.NewValidationError("shift", "shift must be day or night")
	}

	task := &model.Task{
		ID:               uuid.NewString(),
		Date:             sess.Date,
		Shift:            sess.Shift,
		JobCategoryID:    req.JobCategoryID,
		ItemTypeID:       req.ItemTypeID,
		FromDepartmentID: req.FromDepartmentID,
		ToDepartmentID:   req.ToDepartmentID,
		TransportType:    req.TransportType,
	}

	// 接单时间默认为当前时刻
	task.TimeReceived = req.TimeReceived
	if task.TimeReceived == "" {
		task.TimeReceived = shift.Clock(s.now())
	}
	if err := utils.ValidateClock(task.TimeReceived); err != nil {
		return nil, model.NewValidationError("timeReceived", err.Error())
	}

	// 建单即分配运送员时顺带记录分配时间
	if req.StaffID != nil {
		allocated := shift.Clock(s.now())
		task.StaffID = req.StaffID
		task.TimeAllocated = &allocated
	}
	if req.TimeCompleted != "" {
		if task.StaffID == nil {
			return nil, model.NewValidationError("staffId", "a staff member is required to complete a task")
		}
		if err := utils.ValidateClock(req.TimeCompleted); err != nil {
			return nil, model.NewValidationError("timeCompleted", err.Error())
		}
		completed := req.TimeCompleted
		task.TimeCompleted = &completed
	}

	if err := s.resolveAndValidate(task, true); err != nil {
		return nil, err
	}

	task.RecomputeStatus()
	if err := task.CheckInvariant(); err != nil {
		return nil, fmt.Errorf("task invariant violated: %w", err)
	}

	tm, err := model.NewTaskModel(task)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Save(tm); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	s.recordTransition(task.ID, "", task.Status, "task created")
	s.logger.WithFields(logrus.Fields{
		"task_id": task.ID,
		"date":    task.Date,
		"shift":   task.Shift,
		"status":  task.Status,
	}).Info("task created")

	return task, nil
}

// Get 按 ID 读取任务
func (s *taskService) Get(id string) (*model.Task, error) {
	if err := utils.ValidateTaskID(id); err != nil {
		return nil, model.NewValidationError("id", err.Error())
	}
	tm, err := s.tasks.FindByID(id)
	if err != nil {
		return nil, err
	}
	return tm.Decode()
}

// List 按过滤器列出任务
// 损坏的存储记录跳过并告警,绝不让整个会话崩溃
func (s *taskService) List(filter *repository.TaskFilter) (*TaskList, error) {
	rows, err := s.tasks.FindByFilter(filter)
	if err != nil {
		return nil, err
	}

	list := &TaskList{Tasks: make([]*model.Task, 0, len(rows))}
	for _, tm := range rows {
		task, err := tm.Decode()
		if err != nil {
			list.Corrupt++
			s.logger.WithError(err).WithField("task_id", tm.ID).
				Error("skipping corrupt task record, previous data loss likely")
			continue
		}
		list.Tasks = append(list.Tasks, task)
	}
	return list, nil
}

// Update 就地编辑任务,nil 字段不变
// 编辑后整体重新按字段方案校验;状态在每次变更后重新推导
func (s *taskService) Update(ctx context.Context, id string, req *UpdateTaskRequest) (*model.Task, error) {
	if req == nil {
		return nil, model.NewValidationError("", "request is required")
	}
	// 同一请求里既清除又赋值属于矛盾输入,直接拒绝
	if req.ClearStaff && req.StaffID != nil {
		return nil, model.NewValidationError("staffId", "cannot clear and assign staff in the same request")
	}
	if req.ClearCompleted && req.TimeCompleted != nil {
		return nil, model.NewValidationError("timeCompleted", "cannot clear and set completion time in the same request")
	}

	task, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	prevStatus := task.Status

	if req.JobCategoryID != nil {
		task.JobCategoryID = *req.JobCategoryID
	}
	if req.ItemTypeID != nil {
		task.ItemTypeID = *req.ItemTypeID
	}
	if req.FromDepartmentID != nil {
		task.FromDepartmentID = *req.FromDepartmentID
	}
	if req.ToDepartmentID != nil {
		task.ToDepartmentID = *req.ToDepartmentID
	}
	if req.TransportType != nil {
		task.TransportType = *req.TransportType
	}
	if req.TimeReceived != nil {
		if err := utils.ValidateClock(*req.TimeReceived); err != nil {
			return nil, model.NewValidationError("timeReceived", err.Error())
		}
		task.TimeReceived = *req.TimeReceived
	}

	// 运送员变更: 首次分配记录分配时间,清除分配时一并清除
	if req.ClearStaff {
		task.StaffID = nil
		task.TimeAllocated = nil
	} else if req.StaffID != nil {
		if task.TimeAllocated == nil {
			allocated := shift.Clock(s.now())
			task.TimeAllocated = &allocated
		}
		task.StaffID = req.StaffID
	}

	if req.ClearCompleted {
		task.TimeCompleted = nil
	} else if req.TimeCompleted != nil {
		if err := utils.ValidateClock(*req.TimeCompleted); err != nil {
			return nil, model.NewValidationError("timeCompleted", err.Error())
		}
		if task.StaffID == nil {
			return nil, model.NewValidationError("staffId", "a staff member is required to complete a task")
		}
		completed := *req.TimeCompleted
		task.TimeCompleted = &completed
	}

	// 编辑环节不套用默认科室,用户已填的值不被覆盖
	if err := s.resolveAndValidate(task, false); err != nil {
		return nil, err
	}

	return s.persist(task, prevStatus, "task updated")
}

// Assign 分配运送员
// pending 状态下首次分配会记录分配时间
func (s *taskService) Assign(ctx context.Context, id string, staffID int) (*model.Task, error) {
	task, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	prevStatus := task.Status

	if _, ok := s.ref.StaffByID(staffID); !ok {
		return nil, model.NewValidationError("staffId", fmt.Sprintf("unknown staff member %d", staffID))
	}

	if task.TimeAllocated == nil {
		allocated := shift.Clock(s.now())
		task.TimeAllocated = &allocated
	}
	task.StaffID = &staffID

	return s.persist(task, prevStatus, "staff assigned")
}

// Complete 完成任务
// 需要已分配运送员;完成时间缺省为当前时刻
func (s *taskService) Complete(ctx context.Context, id string, timeCompleted string) (*model.Task, error) {
	task, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	prevStatus := task.Status

	if task.StaffID == nil {
		return nil, model.NewValidationError("staffId", "a staff member is required to complete a task")
	}
	if timeCompleted == "" {
		timeCompleted = shift.Clock(s.now())
	}
	if err := utils.ValidateClock(timeCompleted); err != nil {
		return nil, model.NewValidationError("timeCompleted", err.Error())
	}
	task.TimeCompleted = &timeCompleted

	return s.persist(task, prevStatus, "task completed")
}

// Reopen 取消完成
// 清除完成时间,保留运送员与分配时间
func (s *taskService) Reopen(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	prevStatus := task.Status

	task.TimeCompleted = nil

	return s.persist(task, prevStatus, "task reopened")
}

// Delete 永久删除任务,任意状态均可,不可恢复
// 目标不存在时返回 ErrNotFound,调用方按无操作处理
func (s *taskService) Delete(ctx context.Context, id string) error {
	if err := utils.ValidateTaskID(id); err != nil {
		return model.NewValidationError("id", err.Error())
	}
	if err := s.tasks.Delete(id); err != nil {
		return err
	}
	s.logger.WithField("task_id", id).Info("task deleted")
	return nil
}

// History 读取任务状态变更历史
func (s *taskService) History(id string) ([]*model.StateHistoryModel, error) {
	return s.history.FindByTaskID(id)
}

// persist 重新推导状态、校验不变式并保存,状态变化时记录历史
func (s *taskService) persist(task *model.Task, prevStatus, note string) (*model.Task, error) {
	task.RecomputeStatus()
	if err := task.CheckInvariant(); err != nil {
		return nil, fmt.Errorf("task invariant violated: %w", err)
	}

	tm, err := model.NewTaskModel(task)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Save(tm); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	if task.Status != prevStatus {
		s.recordTransition(task.ID, prevStatus, task.Status, note)
	}
	s.logger.WithFields(logrus.Fields{
		"task_id": task.ID,
		"status":  task.Status,
	}).Debug(note)

	return task, nil
}

// resolveAndValidate 按字段方案校验任务的选择项
// applyDefaults 仅在创建时为 true: 默认科室只填充用户未填的字段
func (s *taskService) resolveAndValidate(task *model.Task, applyDefaults bool) error {
	category, ok := s.ref.JobCategoryByID(task.JobCategoryID)
	if !ok {
		// 参考数据缺失时选择按关闭失败处理
		return model.NewValidationError("jobCategoryId",
			fmt.Sprintf("unknown job category %d", task.JobCategoryID))
	}
	jobType, ok := s.ref.JobTypeByID(task.ItemTypeID)
	if !ok {
		return model.NewValidationError("itemTypeId",
			fmt.Sprintf("unknown job type %d", task.ItemTypeID))
	}

	plan, err := rules.ResolveFieldPlan(category, jobType)
	if err != nil {
		return err
	}

	if applyDefaults {
		task.FromDepartmentID, task.ToDepartmentID =
			rules.ApplyDefaults(task.FromDepartmentID, task.ToDepartmentID, plan)
	}

	if _, ok := s.ref.DepartmentByID(task.FromDepartmentID); !ok {
		return model.NewValidationError("fromDepartmentId",
			fmt.Sprintf("unknown department %d", task.FromDepartmentID))
	}
	if _, ok := s.ref.DepartmentByID(task.ToDepartmentID); !ok {
		return model.NewValidationError("toDepartmentId",
			fmt.Sprintf("unknown department %d", task.ToDepartmentID))
	}

	if err := rules.ValidateTransport(plan, jobType, task.TransportType); err != nil {
		return err
	}

	if task.StaffID != nil {
		if _, ok := s.ref.StaffByID(*task.StaffID); !ok {
			return model.NewValidationError("staffId",
				fmt.Sprintf("unknown staff member %d", *task.StaffID))
		}
	}

	return nil
}

// recordTransition 记录状态迁移,失败只告警不阻断业务
func (s *taskService) recordTransition(taskID, from, to, note string) {
	history := &model.StateHistoryModel{
		ID:         uuid.NewString(),
		TaskID:     taskID,
		FromStatus: from,
		ToStatus:   to,
		Note:       utils.SanitizeString(note),
		CreatedAt:  s.now(),
	}
	if err := s.history.Save(history); err != nil {
		s.logger.WithError(err).WithField("task_id", taskID).
			Warn("failed to record state transition")
	}
}

// translateValidatorError 将 validator 错误转换为字段级校验错误
func translateValidatorError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return model.NewValidationError(first.Field(),
			fmt.Sprintf("failed %s validation", first.Tag()))
	}
	return model.NewValidationError("", err.Error())
}
