package refdata_test

import (
	"testing"

	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/model"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/refdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func testStore() *refdata.Store {
	return refdata.NewStore(
		[]model.Staff{
			{ID: 1, Name: "John Smith"},
			{ID: 2, Name: "Sarah Johnson"},
			{ID: 3, Name: "Michael Brown"},
		},
		[]model.Building{{ID: 1, Name: "Main Hospital"}},
		[]model.Department{
			{ID: 1, Name: "Emergency Room", BuildingID: 1},
			{ID: 3, Name: "Radiology", BuildingID: 1},
		},
		[]model.JobType{
			{ID: 1, Name: "Patient Transfer", TransportOptions: []string{"Bed", "Stretcher"}},
			{ID: 2, Name: "Lab Sample"},
		},
		[]model.JobCategory{
			{ID: 1, Name: "Routine", AllowedTypes: []int{1, 2}, PersonMovement: true},
			{ID: 4, Name: "Staff Request", AllowedTypes: []int{2}},
		},
	)
}

// TestStoreLookups 测试 ID 索引查找
func TestStoreLookups(t *testing.T) {
	store := testStore()

	staff, ok := store.StaffByID(1)
	require.True(t, ok)
	assert.Equal(t, "John Smith", staff.Name)

	_, ok = store.StaffByID(99)
	assert.False(t, ok)

	jt, ok := store.JobTypeByID(1)
	require.True(t, ok)
	assert.True(t, jt.HasTransportOptions())

	category, ok := store.JobCategoryByID(1)
	require.True(t, ok)
	assert.True(t, category.Allows(2))
	assert.False(t, category.Allows(5))
}

// TestStoreDisplayNames 未知 ID 使用占位文案而不是报错
func TestStoreDisplayNames(t *testing.T) {
	store := testStore()

	assert.Equal(t, "Emergency Room", store.DepartmentName(1))
	assert.Equal(t, "Unknown Department", store.DepartmentName(99))
	assert.Equal(t, "Patient Transfer", store.JobTypeName(1))
	assert.Equal(t, "Unknown Type", store.JobTypeName(99))
	assert.Equal(t, "Unknown Category", store.JobCategoryName(99))

	assert.Equal(t, "Unassigned", store.StaffName(nil))
	assert.Equal(t, "Unassigned", store.StaffName(intPtr(99)))
	assert.Equal(t, "John Smith", store.StaffName(intPtr(1)))
}

// TestStoreAllowedTypesFor 按类别声明顺序返回允许的工种
func TestStoreAllowedTypesFor(t *testing.T) {
	store := testStore()

	category, ok := store.JobCategoryByID(1)
	require.True(t, ok)

	types := store.AllowedTypesFor(category)
	require.Len(t, types, 2)
	assert.Equal(t, "Patient Transfer", types[0].Name)
	assert.Equal(t, "Lab Sample", types[1].Name)
}

// TestStoreSearchStaff 测试运送员姓名搜索
func TestStoreSearchStaff(t *testing.T) {
	store := testStore()

	// 少于 2 个字符不搜索
	assert.Nil(t, store.SearchStaff("j"))
	assert.Nil(t, store.SearchStaff("  "))

	results := store.SearchStaff("jo")
	require.Len(t, results, 2)
	assert.Equal(t, "John Smith", results[0].Name)
	assert.Equal(t, "Sarah Johnson", results[1].Name)

	results = store.SearchStaff("BROWN")
	require.Len(t, results, 1)
	assert.Equal(t, "Michael Brown", results[0].Name)

	assert.Empty(t, store.SearchStaff("nobody"))
}

// TestStoreValidate 测试引用完整性校验
func TestStoreValidate(t *testing.T) {
	assert.NoError(t, testStore().Validate())

	// 类别引用不存在的工种
	bad := refdata.NewStore(nil, nil, nil,
		[]model.JobType{{ID: 1, Name: "Patient Transfer"}},
		[]model.JobCategory{{ID: 1, Name: "Routine", AllowedTypes: []int{1, 9}}},
	)
	assert.Error(t, bad.Validate())

	// 科室引用不存在的建筑
	bad = refdata.NewStore(nil,
		[]model.Building{{ID: 1, Name: "Main Hospital"}},
		[]model.Department{{ID: 1, Name: "Records", BuildingID: 4}},
		nil, nil,
	)
	assert.Error(t, bad.Validate())
}
