package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/model"
	"github.com/spf13/cobra"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Shift reports built from archived shifts",
}

// reportShowCmd 输出指定班次的交班报告
var reportShowCmd = &cobra.Command{
	Use:   "show <date> <shift>",
	Short: "Print the report for an archived shift",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.reports.BuildReport(args[0], args[1])
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				fmt.Printf("No archive found for %s %s shift.\n", args[0], args[1])
				return nil
			}
			return err
		}

		fmt.Printf("Shift report: %s, %s shift (%s - %s)\n",
			report.Date, report.Shift, report.ShiftStart, report.ShiftEnd)
		fmt.Printf("Archived:  %s\n", report.ArchivedAt.Format("2006-01-02 15:04"))
		fmt.Printf("Tasks:     %d total, %d completed, %d pending\n\n",
			report.TotalTasks, report.CompletedCount, report.PendingCount)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tFROM\tTO\tTRANSPORT\tRECEIVED\tALLOCATED\tCOMPLETED\tSTAFF\tSTATUS")
		for _, line := range report.Lines {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				line.JobType, line.From, line.To, line.Transport,
				line.TimeReceived, line.TimeAllocated, line.TimeCompleted,
				line.Staff, line.Status)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if len(report.StaffCounts) > 0 {
			fmt.Println("\nTasks per staff member:")
			for _, sc := range report.StaffCounts {
				fmt.Printf("  %-24s %d\n", sc.Staff, sc.Count)
			}
		}
		return nil
	},
}

// reportListCmd 列出全部归档班次
var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived shifts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		snapshots, err := a.reports.ListArchives()
		if err != nil {
			return err
		}
		if len(snapshots) == 0 {
			fmt.Println("No archived shifts.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tSHIFT\tWINDOW\tTASKS\tARCHIVED AT")
		for _, s := range snapshots {
			fmt.Fprintf(w, "%s\t%s\t%s - %s\t%d\t%s\n",
				s.Date, s.Shift, s.ShiftStart, s.ShiftEnd, len(s.Tasks),
				s.ArchivedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportShowCmd, reportListCmd)
}
