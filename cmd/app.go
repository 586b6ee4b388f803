package cmd

import (
	"fmt"
	"time"

	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/config"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/database"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/logging"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/refdata"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/repository"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// app 命令运行期依赖
// 配置 -> 日志 -> 数据库 -> 参考数据 -> 仓储 -> 服务,命令内逐级装配
type app struct {
	cfg     *config.Config
	logger  *logrus.Logger
	db      *gorm.DB
	ref     *refdata.Store
	tasks   service.TaskService
	shifts  service.ShiftService
	reports service.ReportService
}

// newApp 按配置装配全部依赖
func newApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.NewLoggerFromConfig(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	// 生产环境不输出 debug 日志
	if config.IsProduction(cfg) && logger.IsLevelEnabled(logrus.DebugLevel) {
		logger.SetLevel(logrus.InfoLevel)
	}

	// 默认重试 3 次,初始间隔 1 秒,指数退避
	db, err := database.ConnectWithRetry(cfg.Database, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if !database.CheckHealth(db) {
		return nil, fmt.Errorf("database health check failed")
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 参考数据每次启动加载一次,单个集合失败降级为空
	ref := refdata.NewLoader(cfg.Data.Dir, logger).Load()

	taskRepo := repository.NewTaskRepository(db)
	historyRepo := repository.NewStateHistoryRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	archiveRepo := repository.NewArchiveRepository(db)

	return &app{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		ref:     ref,
		tasks:   service.NewTaskService(taskRepo, historyRepo, ref, logger),
		shifts:  service.NewShiftService(db, sessionRepo, taskRepo, archiveRepo, cfg.Shift.Windows(), logger),
		reports: service.NewReportService(archiveRepo, ref),
	}, nil
}

// Close 释放数据库连接
func (a *app) Close() {
	sqlDB, _ := a.db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}
