package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/model"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/repository"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/service"
	"github.com/spf13/cobra"
)

// taskCmd represents the task command
var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage porter tasks for the current shift",
}

// taskNewCmd 创建任务
var taskNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Log a new task",
	Long: `Log a new task for the current shift.
The task starts as pending unless a staff member and a completion
time are both supplied. Departments may be pre-filled by the
category defaults when not given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.shifts.Current()
		if err != nil {
			return err
		}

		req := &service.CreateTaskRequest{}
		req.JobCategoryID, _ = cmd.Flags().GetInt("category")
		req.ItemTypeID, _ = cmd.Flags().GetInt("type")
		req.FromDepartmentID, _ = cmd.Flags().GetInt("from")
		req.ToDepartmentID, _ = cmd.Flags().GetInt("to")
		req.TransportType, _ = cmd.Flags().GetString("transport")
		req.TimeReceived, _ = cmd.Flags().GetString("received")
		req.TimeCompleted, _ = cmd.Flags().GetString("completed")
		if cmd.Flags().Changed("staff") {
			staffID, _ := cmd.Flags().GetInt("staff")
			req.StaffID = &staffID
		}

		task, err := a.tasks.Create(cmd.Context(), sess, req)
		if err != nil {
			return err
		}

		fmt.Printf("Created task %s (%s, %s shift, status %s)\n",
			task.ID, task.Date, task.Shift, task.Status)
		return nil
	},
}

// taskListCmd 列出任务
var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks for the current shift",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		filter := &repository.TaskFilter{}
		all, _ := cmd.Flags().GetBool("all")
		if !all {
			sess, err := a.shifts.Current()
			if err != nil {
				return err
			}
			filter.Date = &sess.Date
			filter.Shift = &sess.Shift
		}
		if cmd.Flags().Changed("status") {
			status, _ := cmd.Flags().GetString("status")
			filter.Status = &status
		}

		list, err := a.tasks.List(filter)
		if err != nil {
			return err
		}
		if list.Corrupt > 0 {
			fmt.Fprintf(os.Stderr, "warning: %d corrupt task record(s) skipped, previous data loss likely\n", list.Corrupt)
		}
		if len(list.Tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tFROM\tTO\tTRANSPORT\tRECEIVED\tSTAFF\tSTATUS")
		for _, task := range list.Tasks {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				task.ID,
				a.ref.JobTypeName(task.ItemTypeID),
				a.ref.DepartmentName(task.FromDepartmentID),
				a.ref.DepartmentName(task.ToDepartmentID),
				orDash(task.TransportType),
				task.TimeReceived,
				a.ref.StaffName(task.StaffID),
				task.Status)
		}
		return w.Flush()
	},
}

// taskShowCmd 查看任务详情与状态历史
var taskShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show a task with its status history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		task, err := a.tasks.Get(args[0])
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				fmt.Println("Task not found.")
				return nil
			}
			return err
		}

		fmt.Printf("Task:           %s\n", task.ID)
		fmt.Printf("Date / Shift:   %s / %s\n", task.Date, task.Shift)
		fmt.Printf("Category:       %s\n", a.ref.JobCategoryName(task.JobCategoryID))
		fmt.Printf("Type:           %s\n", a.ref.JobTypeName(task.ItemTypeID))
		fmt.Printf("From:           %s\n", a.ref.DepartmentName(task.FromDepartmentID))
		fmt.Printf("To:             %s\n", a.ref.DepartmentName(task.ToDepartmentID))
		fmt.Printf("Transport:      %s\n", orDash(task.TransportType))
		fmt.Printf("Staff:          %s\n", a.ref.StaffName(task.StaffID))
		fmt.Printf("Received:       %s\n", task.TimeReceived)
		fmt.Printf("Allocated:      %s\n", orDashPtr(task.TimeAllocated))
		fmt.Printf("Completed:      %s\n", orDashPtr(task.TimeCompleted))
		fmt.Printf("Status:         %s\n", task.Status)

		histories, err := a.tasks.History(task.ID)
		if err != nil {
			return err
		}
		if len(histories) > 0 {
			fmt.Println("\nHistory:")
			for _, h := range histories {
				from := h.FromStatus
				if from == "" {
					from = "-"
				}
				fmt.Printf("  %s  %s -> %s  (%s)\n",
					h.CreatedAt.Format("2006-01-02 15:04"), from, h.ToStatus, h.Note)
			}
		}
		return nil
	},
}

// taskAssignCmd 分配运送员
var taskAssignCmd = &cobra.Command{
	Use:   "assign <task-id> <staff-id>",
	Short: "Assign a staff member to a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		var staffID int
		if _, err := fmt.Sscanf(args[1], "%d", &staffID); err != nil {
			return fmt.Errorf("staff-id must be a number: %w", err)
		}

		task, err := a.tasks.Assign(cmd.Context(), args[0], staffID)
		if err != nil {
			return err
		}
		fmt.Printf("Assigned %s to task %s (allocated %s)\n",
			a.ref.StaffName(task.StaffID), task.ID, orDashPtr(task.TimeAllocated))
		return nil
	},
}

// taskCompleteCmd 完成任务
var taskCompleteCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		at, _ := cmd.Flags().GetString("time")
		task, err := a.tasks.Complete(cmd.Context(), args[0], at)
		if err != nil {
			return err
		}
		fmt.Printf("Task %s completed at %s\n", task.ID, orDashPtr(task.TimeCompleted))
		return nil
	},
}

// taskReopenCmd 取消完成
var taskReopenCmd = &cobra.Command{
	Use:   "reopen <task-id>",
	Short: "Move a completed task back to pending",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		task, err := a.tasks.Reopen(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Task %s is %s again (staff %s kept)\n",
			task.ID, task.Status, a.ref.StaffName(task.StaffID))
		return nil
	},
}

// taskDeleteCmd 删除任务
var taskDeleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Permanently delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.tasks.Delete(cmd.Context(), args[0]); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				fmt.Println("Task not found, nothing deleted.")
				return nil
			}
			return err
		}
		fmt.Printf("Task %s deleted\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskNewCmd, taskListCmd, taskShowCmd,
		taskAssignCmd, taskCompleteCmd, taskReopenCmd, taskDeleteCmd)

	taskNewCmd.Flags().Int("category", 0, "Job category ID")
	taskNewCmd.Flags().Int("type", 0, "Job type ID")
	taskNewCmd.Flags().Int("from", 0, "From department ID (category default when omitted)")
	taskNewCmd.Flags().Int("to", 0, "To department ID (category default when omitted)")
	taskNewCmd.Flags().String("transport", "", "Transport type for patient movement tasks")
	taskNewCmd.Flags().Int("staff", 0, "Staff member ID")
	taskNewCmd.Flags().String("received", "", "Time received HH:MM (default: now)")
	taskNewCmd.Flags().String("completed", "", "Completion time HH:MM (requires --staff)")

	taskListCmd.Flags().Bool("all", false, "List tasks across all dates and shifts")
	taskListCmd.Flags().String("status", "", "Filter by status: pending, completed")

	taskCompleteCmd.Flags().String("time", "", "Completion time HH:MM (default: now)")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func orDashPtr(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
