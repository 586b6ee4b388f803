package model

// Staff 运送员参考数据
type Staff struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Building 建筑参考数据
type Building struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Department 科室参考数据
type Department struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	BuildingID int    `json:"buildingId"`
}

// JobType 工种参考数据
// TransportOptions 仅在涉及转运人员的工种上出现(如 Patient Transfer),
// 其存在即表示该工种需要选择转运方式而不是物品类型
type JobType struct {
	ID                      int      `json:"id"`
	Name                    string   `json:"name"`
	TransportOptions        []string `json:"transportOptions,omitempty"`
	DefaultFromDepartmentID *int     `json:"defaultFromDepartmentId,omitempty"`
	DefaultToDepartmentID   *int     `json:"defaultToDepartmentId,omitempty"`
}

// HasTransportOptions 判断工种是否声明了转运方式
func (jt JobType) HasTransportOptions() bool {
	return len(jt.TransportOptions) > 0
}

// AllowsTransport 判断转运方式是否在工种声明的列表内
func (jt JobType) AllowsTransport(transport string) bool {
	for _, opt := range jt.TransportOptions {
		if opt == transport {
			return true
		}
	}
	return false
}

// JobCategory 工单类别参考数据
// PersonMovement 表示该类别属于人员转运场景(数据驱动,替代对类别名称的子串匹配)
type JobCategory struct {
	ID                      int    `json:"id"`
	Name                    string `json:"name"`
	AllowedTypes            []int  `json:"allowedTypes"`
	PersonMovement          bool   `json:"personMovement"`
	DefaultFromDepartmentID *int   `json:"defaultFromDepartmentId,omitempty"`
	DefaultToDepartmentID   *int   `json:"defaultToDepartmentId,omitempty"`
}

// Allows 判断工种是否在类别允许范围内
func (jc JobCategory) Allows(typeID int) bool {
	for _, id := range jc.AllowedTypes {
		if id == typeID {
			return true
		}
	}
	return false
}
