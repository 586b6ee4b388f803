/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// boardCmd represents the board command
var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Run the live pending-task board",
	Long: `Run the live pending-task board.
The board re-renders the pending tasks of the current shift at a
fixed interval and picks up shift window changes from the config
file without a restart. Stop it with Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		interval, _ := cmd.Flags().GetDuration("interval")
		if interval < time.Second {
			interval = time.Minute
		}

		// 配置文件存在时监听班次窗口变更
		configPath, _ := cmd.Flags().GetString("config")
		if configPath != "" {
			watcher := config.NewConfigWatcher(a.cfg, configPath, a.logger)
			watcher.OnConfigChange(func(newCfg *config.Config) {
				if err := a.shifts.SetWindows(newCfg.Shift.Windows()); err != nil {
					a.logger.WithError(err).Warn("Ignoring shift window change")
					return
				}
				a.logger.WithFields(logrus.Fields{
					"day_start":   newCfg.Shift.DayStart,
					"night_start": newCfg.Shift.NightStart,
				}).Info("Shift windows reloaded")
			})
			if err := watcher.Start(); err != nil {
				a.logger.WithError(err).Warn("Config watching disabled")
			} else {
				defer watcher.Stop()
			}
		}

		if err := renderBoard(a); err != nil {
			return err
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		for {
			select {
			case <-ticker.C:
				if err := renderBoard(a); err != nil {
					a.logger.WithError(err).Error("Failed to render board")
				}
			case <-quit:
				fmt.Println("\nBoard stopped")
				return nil
			}
		}
	},
}

// renderBoard 渲染当前班次的待处理任务
func renderBoard(a *app) error {
	sess, err := a.shifts.Current()
	if err != nil {
		return err
	}

	pending := "pending"
	list, err := a.tasks.List(filterFor(sess, &pending))
	if err != nil {
		return err
	}

	start, end := a.shifts.Windows().Bounds(sess.Shift)
	fmt.Printf("\n== %s, %s shift (%s - %s) at %s ==\n",
		sess.Date, sess.Shift, start, end, time.Now().Format("15:04"))
	if list.Corrupt > 0 {
		fmt.Printf("!! %d corrupt task record(s) skipped\n", list.Corrupt)
	}
	if len(list.Tasks) == 0 {
		fmt.Println("No pending tasks.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tFROM\tTO\tRECEIVED\tSTAFF")
	for _, task := range list.Tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			task.ID,
			a.ref.JobTypeName(task.ItemTypeID),
			a.ref.DepartmentName(task.FromDepartmentID),
			a.ref.DepartmentName(task.ToDepartmentID),
			task.TimeReceived,
			a.ref.StaffName(task.StaffID))
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(boardCmd)

	boardCmd.Flags().Duration("interval", time.Minute, "Board refresh interval")
}
