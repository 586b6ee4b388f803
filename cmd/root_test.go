package cmd_test

import (
	"testing"

	"github.com/Hypha-Media-UK/Porter-Task-Management/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCommandTree 测试全部子命令已注册
func TestCommandTree(t *testing.T) {
	rootCmd := cmd.GetRootCmd()

	paths := [][]string{
		{"migrate"},
		{"board"},
		{"task", "new"},
		{"task", "list"},
		{"task", "show"},
		{"task", "assign"},
		{"task", "complete"},
		{"task", "reopen"},
		{"task", "delete"},
		{"shift", "status"},
		{"shift", "set"},
		{"shift", "complete"},
		{"report", "show"},
		{"report", "list"},
		{"ref", "staff"},
		{"ref", "departments"},
		{"ref", "categories"},
	}
	for _, path := range paths {
		found, _, err := rootCmd.Find(path)
		require.NoError(t, err, "command %v should exist", path)
		assert.NotNil(t, found)
		assert.NotEqual(t, rootCmd, found, "command %v should resolve past the root", path)
	}
}

// TestRootPersistentFlags 测试全局 --config 标志
func TestRootPersistentFlags(t *testing.T) {
	rootCmd := cmd.GetRootCmd()
	flag := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "", flag.DefValue)
}
