package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/model"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/repository"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/shift"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ShiftService 班次会话服务接口
// 持有当前日期、班次与班次窗口,并负责交班归档
type ShiftService interface {
	Current() (model.Session, error)
	SetDate(date string) (model.Session, error)
	SetShift(shiftName string) (model.Session, error)
	Windows() shift.Windows
	SetWindows(w shift.Windows) error
	CompleteShift(ctx context.Context) (*model.ArchivedShift, error)
}

type shiftService struct {
	db       *gorm.DB
	sessions repository.SessionRepository
	tasks    repository.TaskRepository
	archives repository.ArchiveRepository
	logger   *logrus.Logger
	now      func() time.Time

	mu      sync.RWMutex // 保护 windows,看板命令会热更新
	windows shift.Windows
}

// NewShiftService 创建班次会话服务
func NewShiftService(db *gorm.DB, sessions repository.SessionRepository,
	tasks repository.TaskRepository, archives repository.ArchiveRepository,
	windows shift.Windows, logger *logrus.Logger) ShiftService {
	return &shiftService{
		db:       db,
		sessions: sessions,
		tasks:    tasks,
		archives: archives,
		windows:  windows,
		logger:   logger,
		now:      time.Now,
	}
}

// Current 读取当前会话
// 尚无会话时按当前时刻归类班次并落库
func (s *shiftService) Current() (model.Session, error) {
	sm, err := s.sessions.Get()
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	if sm != nil {
		return sm.Session(), nil
	}

	now := s.now()
	sess := model.Session{
		Date:  shift.Date(now),
		Shift: shift.Classify(s.Windows(), shift.Clock(now)),
	}
	if err := s.sessions.Put(sess); err != nil {
		return model.Session{}, fmt.Errorf("failed to initialize session: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"date":  sess.Date,
		"shift": sess.Shift,
	}).Info("session initialized")
	return sess, nil
}

// SetDate 修改会话日期
func (s *shiftService) SetDate(date string) (model.Session, error) {
	if err := utils.ValidateDate(date); err != nil {
		return model.Session{}, model.NewValidationError("date", err.Error())
	}
	sess, err := s.Current()
	if err != nil {
		return model.Session{}, err
	}
	sess.Date = date
	if err := s.sessions.Put(sess); err != nil {
		return model.Session{}, err
	}
	return sess, nil
}

// SetShift 修改会话班次
func (s *shiftService) SetShift(shiftName string) (model.Session, error) {
	if shiftName != model.ShiftDay && shiftName != model.ShiftNight {
		return model.Session{}, model.NewValidationError("shift", "shift must be day or night")
	}
	sess, err := s.Current()
	if err != nil {
		return model.Session{}, err
	}
	sess.Shift = shiftName
	if err := s.sessions.Put(sess); err != nil {
		return model.Session{}, err
	}
	return sess, nil
}

// Windows 当前班次窗口
func (s *shiftService) Windows() shift.Windows {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.windows
}

// SetWindows 热更新班次窗口
func (s *shiftService) SetWindows(w shift.Windows) error {
	if err := w.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.windows = w
	s.mu.Unlock()
	return nil
}

// CompleteShift 交班
// 在单个事务中读取当前日期+班次的全部任务,深拷贝为一条归档快照,
// 写入归档后删除这些任务;其他日期/班次的任务不受影响。
// 同一班次重复调用时不再追加归档,只补删快照内的任务,保证至多一条归档且不丢任务:
// 归档之后新建的任务保留在当前班次并告警,不会被悄悄删除
func (s *shiftService) CompleteShift(ctx context.Context) (*model.ArchivedShift, error) {
	sess, err := s.Current()
	if err != nil {
		return nil, err
	}

	exists, err := s.archives.ExistsForShift(sess.Date, sess.Shift)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing archive: %w", err)
	}
	if exists {
		// 上次交班在归档与删除之间被打断,按快照逐条补删
		am, err := s.archives.FindByDateShift(sess.Date, sess.Shift)
		if err != nil {
			return nil, err
		}
		snapshot, err := am.Decode()
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(snapshot.Tasks))
		for _, t := range snapshot.Tasks {
			ids = append(ids, t.ID)
		}
		removed, err := s.tasks.DeleteByIDs(ids)
		if err != nil {
			return nil, fmt.Errorf("failed to clear archived tasks: %w", err)
		}
		remaining, err := s.tasks.FindByFilter(&repository.TaskFilter{
			Date:  &sess.Date,
			Shift: &sess.Shift,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to check remaining tasks: %w", err)
		}
		s.logger.WithFields(logrus.Fields{
			"date":    sess.Date,
			"shift":   sess.Shift,
			"removed": removed,
		}).Warn("archive already exists for shift, resumed task cleanup")
		if len(remaining) > 0 {
			s.logger.WithFields(logrus.Fields{
				"date":  sess.Date,
				"shift": sess.Shift,
				"tasks": len(remaining),
			}).Warn("tasks recorded after the shift archive were kept")
		}
		return snapshot, nil
	}

	windows := s.Windows()
	start, end := windows.Bounds(sess.Shift)

	var snapshot *model.ArchivedShift
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskRepo := s.tasks.WithTx(tx)

		rows, err := taskRepo.FindByFilter(&repository.TaskFilter{
			Date:  &sess.Date,
			Shift: &sess.Shift,
		})
		if err != nil {
			return fmt.Errorf("failed to read shift tasks: %w", err)
		}

		copied := make([]model.Task, 0, len(rows))
		for _, tm := range rows {
			task, err := tm.Decode()
			if err != nil {
				s.logger.WithError(err).WithField("task_id", tm.ID).
					Error("corrupt task record dropped from archive")
				continue
			}
			copied = append(copied, *task.Clone())
		}

		snapshot = &model.ArchivedShift{
			Date:       sess.Date,
			Shift:      sess.Shift,
			ShiftStart: start,
			ShiftEnd:   end,
			Tasks:      copied,
			ArchivedAt: s.now(),
		}

		am, err := model.NewArchiveModel(uuid.NewString(), snapshot)
		if err != nil {
			return err
		}
		if err := s.archives.WithTx(tx).Save(am); err != nil {
			return fmt.Errorf("failed to write archive: %w", err)
		}

		if _, err := taskRepo.DeleteByDateShift(sess.Date, sess.Shift); err != nil {
			return fmt.Errorf("failed to clear shift tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"date":  sess.Date,
		"shift": sess.Shift,
		"tasks": len(snapshot.Tasks),
	}).Info("shift completed and archived")

	return snapshot, nil
}
