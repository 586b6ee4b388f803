package cmd

import (
	"fmt"

	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/model"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/repository"
	"github.com/spf13/cobra"
)

func filterFor(sess model.Session, status *string) *repository.TaskFilter {
	return &repository.TaskFilter{Date: &sess.Date, Shift: &sess.Shift, Status: status}
}

// shiftCmd represents the shift command
var shiftCmd = &cobra.Command{
	Use:   "shift",
	Short: "Manage the current shift session",
}

// shiftStatusCmd 查看当前会话
var shiftStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current date and shift",
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
		w := a.shifts.Windows()
		start, end := w.Bounds(sess.Shift)

		pending := "pending"
		list, err := a.tasks.List(filterFor(sess, &pending))
		if err != nil {
			return err
		}

		fmt.Printf("Date:    %s\n", sess.Date)
		fmt.Printf("Shift:   %s (%s - %s)\n", sess.Shift, start, end)
		fmt.Printf("Pending: %d task(s)\n", len(list.Tasks))
		return nil
	},
}

// shiftSetCmd 调整会话日期或班次
var shiftSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Override the session date or shift",
	Long: `Override the session date or shift.
Useful when logging tasks after the fact or when a shift
ran past its window boundary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("date") && !cmd.Flags().Changed("shift") {
			return fmt.Errorf("nothing to set, use --date and/or --shift")
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if cmd.Flags().Changed("date") {
			date, _ := cmd.Flags().GetString("date")
			if _, err := a.shifts.SetDate(date); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("shift") {
			name, _ := cmd.Flags().GetString("shift")
			if _, err := a.shifts.SetShift(name); err != nil {
				return err
			}
		}

		sess, err := a.shifts.Current()
		if err != nil {
			return err
		}
		fmt.Printf("Session is now %s, %s shift\n", sess.Date, sess.Shift)
		return nil
	},
}

// shiftCompleteCmd 交班归档
var shiftCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Archive the current shift and clear its tasks",
	Long: `Archive every task of the current date and shift into a single
snapshot, then remove them from the active list. Pending tasks are
archived as-is. Running it again for the same shift does not create
a second archive.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		snapshot, err := a.shifts.CompleteShift(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Shift %s (%s) archived: %d task(s)\n",
			snapshot.Shift, snapshot.Date, len(snapshot.Tasks))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shiftCmd)
	shiftCmd.AddCommand(shiftStatusCmd, shiftSetCmd, shiftCompleteCmd)

	shiftSetCmd.Flags().String("date", "", "Session date YYYY-MM-DD")
	shiftSetCmd.Flags().String("shift", "", "Shift name: day or night")
}
