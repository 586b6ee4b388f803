// Package refdata 管理会话期不可变的参考数据
// (运送员、建筑、科室、工种、工单类别)
package refdata

import (
	"fmt"
	"strings"

	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/model"
)

// Store 参考数据只读存储
// 启动时加载一次,之后不再变更
type Store struct {
	staff         []model.Staff
	buildings     []model.Building
	departments   []model.Department
	jobTypes      []model.JobType
	jobCategories []model.JobCategory

	staffByID      map[int]model.Staff
	buildingByID   map[int]model.Building
	departmentByID map[int]model.Department
	jobTypeByID    map[int]model.JobType
	categoryByID   map[int]model.JobCategory
}

// NewStore 构建参考数据存储并建立 ID 索引
func NewStore(staff []model.Staff, buildings []model.Building, departments []model.Department,
	jobTypes []model.JobType, jobCategories []model.JobCategory) *Store {
	s := &Store{
		staff:          staff,
		buildings:      buildings,
		departments:    departments,
		jobTypes:       jobTypes,
		jobCategories:  jobCategories,
		staffByID:      make(map[int]model.Staff, len(staff)),
		buildingByID:   make(map[int]model.Building, len(buildings)),
		departmentByID: make(map[int]model.Department, len(departments)),
		jobTypeByID:    make(map[int]model.JobType, len(jobTypes)),
		categoryByID:   make(map[int]model.JobCategory, len(jobCategories)),
	}
	for _, v := range staff {
		s.staffByID[v.ID] = v
	}
	for _, v := range buildings {
		s.buildingByID[v.ID] = v
	}
	for _, v := range departments {
		s.departmentByID[v.ID] = v
	}
	for _, v := range jobTypes {
		s.jobTypeByID[v.ID] = v
	}
	for _, v := range jobCategories {
		s.categoryByID[v.ID] = v
	}
	return s
}

// Validate 校验引用完整性
// allowedTypes 必须引用存在的工种,科室必须引用存在的建筑
func (s *Store) Validate() error {
	for _, c := range s.jobCategories {
		for _, typeID := range c.AllowedTypes {
			if _, ok := s.jobTypeByID[typeID]; !ok {
				return fmt.Errorf("category %q references unknown job type %d", c.Name, typeID)
			}
		}
	}
	for _, d := range s.departments {
		if _, ok := s.buildingByID[d.BuildingID]; !ok {
			return fmt.Errorf("department %q references unknown building %d", d.Name, d.BuildingID)
		}
	}
	return nil
}

// Staff 返回全部运送员
func (s *Store) Staff() []model.Staff { return s.staff }

// Buildings 返回全部建筑
func (s *Store) Buildings() []model.Building { return s.buildings }

// Departments 返回全部科室
func (s *Store) Departments() []model.Department { return s.departments }

// JobTypes 返回全部工种
func (s *Store) JobTypes() []model.JobType { return s.jobTypes }

// JobCategories 返回全部工单类别
func (s *Store) JobCategories() []model.JobCategory { return s.jobCategories }

// StaffByID 按 ID 查找运送员
func (s *Store) StaffByID(id int) (model.Staff, bool) {
	v, ok := s.staffByID[id]
	return v, ok
}

// DepartmentByID 按 ID 查找科室
func (s *Store) DepartmentByID(id int) (model.Department, bool) {
	v, ok := s.departmentByID[id]
	return v, ok
}

// JobTypeByID 按 ID 查找工种
func (s *Store) JobTypeByID(id int) (model.JobType, bool) {
	v, ok := s.jobTypeByID[id]
	return v, ok
}

// JobCategoryByID 按 ID 查找工单类别
func (s *Store) JobCategoryByID(id int) (model.JobCategory, bool) {
	v, ok := s.categoryByID[id]
	return v, ok
}

// AllowedTypesFor 返回类别允许的工种列表,保持声明顺序
func (s *Store) AllowedTypesFor(category model.JobCategory) []model.JobType {
	types := make([]model.JobType, 0, len(category.AllowedTypes))
	for _, id := range category.AllowedTypes {
		if jt, ok := s.jobTypeByID[id]; ok {
			types = append(types, jt)
		}
	}
	return types
}

// DepartmentName 科室显示名,未知 ID 返回占位文案
func (s *Store) DepartmentName(id int) string {
	if d, ok := s.departmentByID[id]; ok {
		return d.Name
	}
	return "Unknown Department"
}

// JobTypeName 工种显示名
func (s *Store) JobTypeName(id int) string {
	if jt, ok := s.jobTypeByID[id]; ok {
		return jt.Name
	}
	return "Unknown Type"
}

// JobCategoryName 类别显示名
func (s *Store) JobCategoryName(id int) string {
	if c, ok := s.categoryByID[id]; ok {
		return c.Name
	}
	return "Unknown Category"
}

// StaffName 运送员显示名,nil 表示未分配
func (s *Store) StaffName(id *int) string {
	if id == nil {
		return "Unassigned"
	}
	if v, ok := s.staffByID[*id]; ok {
		return v.Name
	}
	return "Unassigned"
}

// SearchStaff 按姓名做不区分大小写的子串搜索,少于 2 个字符不搜索
func (s *Store) SearchStaff(query string) []model.Staff {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil
	}
	lower := strings.ToLower(query)
	var results []model.Staff
	for _, v := range s.staff {
		if strings.Contains(strings.ToLower(v.Name), lower) {
			results = append(results, v)
		}
	}
	return results
}
