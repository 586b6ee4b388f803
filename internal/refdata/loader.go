package refdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/model"
	"github.com/sirupsen/logrus"
)

// 参考数据文件名,与数据目录下的 JSON 文件一一对应
const (
	FileStaff         = "staff.json"
	FileBuildings     = "buildings.json"
	FileDepartments   = "departments.json"
	FileJobTypes      = "jobTypes.json"
	FileJobCategories = "jobCategories.json"
)

// Loader 参考数据加载器
// 单个集合加载失败时降级为空集合并告警,不阻断启动;
// 依赖该集合的选择会在校验阶段以 ValidationError 失败
type Loader struct {
	dir    string
	logger *logrus.Logger
}

// NewLoader 创建参考数据加载器
func NewLoader(dir string, logger *logrus.Logger) *Loader {
	return &Loader{dir: dir, logger: logger}
}

// Load 加载全部参考数据集合并构建存储
func (l *Loader) Load() *Store {
	staff := loadCollection[model.Staff](l, FileStaff)
	buildings := loadCollection[model.Building](l, FileBuildings)
	departments := loadCollection[model.Department](l, FileDepartments)
	jobTypes := loadCollection[model.JobType](l, FileJobTypes)
	jobCategories := loadCollection[model.JobCategory](l, FileJobCategories)

	store := NewStore(staff, buildings, departments, jobTypes, jobCategories)
	if err := store.Validate(); err != nil {
		l.logger.WithError(err).Warn("reference data failed referential checks")
	}
	return store
}

// loadCollection 读取单个集合
// 读取或解析失败返回空切片,保证不会留下部分解析的脏数据
func loadCollection[T any](l *Loader, name string) []T {
	path := filepath.Join(l.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		l.logger.WithError(fmt.Errorf("%w: %v", model.ErrReferenceDataUnavailable, err)).
			WithField("file", name).
			Warn("reference data unavailable, using empty collection")
		return nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		l.logger.WithError(fmt.Errorf("%w: %v", model.ErrReferenceDataUnavailable, err)).
			WithField("file", name).
			Warn("reference data unparsable, using empty collection")
		return nil
	}
	return items
}
