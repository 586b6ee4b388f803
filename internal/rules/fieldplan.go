// Package rules 提供类别/工种到表单字段方案的纯推导逻辑
//
// 历史实现中该逻辑分散在四处页面脚本里,匹配策略互不一致
// (类别名子串匹配、精确匹配、data 属性、optgroup 标签),
// 此处以参考数据上的显式字段统一为单一事实来源:
// PersonMovement 标志决定转运语境,默认科室按 ID 配置在数据上
package rules

import (
	"fmt"

	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/model"
)

// DepartmentDefaults 科室默认预选,nil 表示无默认
type DepartmentDefaults struct {
	From *int
	To   *int
}

// FieldPlan 某类别+工种组合下的表单字段方案
type FieldPlan struct {
	ShowTransportField bool
	ItemTypeRequired   bool
	TransportRequired  bool
	DepartmentDefaults DepartmentDefaults
}

// ResolveFieldPlan 推导字段方案
//
// 转运字段仅在类别标记为人员转运且工种声明了转运方式时出现;
// 此时转运方式必填、物品类型不必填,否则相反。
// 工种不在类别允许范围内时返回 ErrInvalidSelection,调用方应重新提示
// 而不是静默清空已选值
func ResolveFieldPlan(category model.JobCategory, jobType model.JobType) (FieldPlan, error) {
	if !category.Allows(jobType.ID) {
		return FieldPlan{}, fmt.Errorf("job type %d under category %d: %w",
			jobType.ID, category.ID, model.ErrInvalidSelection)
	}

	show := category.PersonMovement && jobType.HasTransportOptions()
	plan := FieldPlan{
		ShowTransportField: show,
		TransportRequired:  show,
		ItemTypeRequired:   !show,
	}

	// 默认科室: 工种上的配置优先于类别上的配置
	plan.DepartmentDefaults.From = firstNonNil(jobType.DefaultFromDepartmentID, category.DefaultFromDepartmentID)
	plan.DepartmentDefaults.To = firstNonNil(jobType.DefaultToDepartmentID, category.DefaultToDepartmentID)

	return plan, nil
}

// ApplyDefaults 将默认科室应用到调用方尚未填写的字段上
// 已填写的值(非零)一律不覆盖
func ApplyDefaults(from, to int, plan FieldPlan) (int, int) {
	if from == 0 && plan.DepartmentDefaults.From != nil {
		from = *plan.DepartmentDefaults.From
	}
	if to == 0 && plan.DepartmentDefaults.To != nil {
		to = *plan.DepartmentDefaults.To
	}
	return from, to
}

// ValidateTransport 按字段方案校验转运方式取值
func ValidateTransport(plan FieldPlan, jobType model.JobType, transport string) error {
	if plan.TransportRequired {
		if transport == "" {
			return model.NewValidationError("transportType", "transport type is required for this job type")
		}
		if !jobType.AllowsTransport(transport) {
			return model.NewValidationError("transportType",
				fmt.Sprintf("%q is not a transport option of %s", transport, jobType.Name))
		}
		return nil
	}
	if transport != "" {
		return model.NewValidationError("transportType", "transport type is not applicable for this job type")
	}
	return nil
}

func firstNonNil(vals ...*int) *int {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
