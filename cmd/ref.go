package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// refCmd represents the ref command
var refCmd = &cobra.Command{
	Use:   "ref",
	Short: "Browse the reference data",
}

// refStaffCmd 列出或搜索运送员
var refStaffCmd = &cobra.Command{
	Use:   "staff [query]",
	Short: "List staff members, or search them by name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		staff := a.ref.Staff()
		if len(args) == 1 {
			if len(strings.TrimSpace(args[0])) < 2 {
				fmt.Println("Search needs at least 2 characters.")
				return nil
			}
			staff = a.ref.SearchStaff(args[0])
		}
		if len(staff) == 0 {
			fmt.Println("No staff members found.")
			return nil
		}
		for _, s := range staff {
			fmt.Printf("%3d  %s\n", s.ID, s.Name)
		}
		return nil
	},
}

// refDepartmentsCmd 列出科室及所属建筑
var refDepartmentsCmd = &cobra.Command{
	Use:   "departments",
	Short: "List departments with their buildings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		buildings := make(map[int]string, len(a.ref.Buildings()))
		for _, b := range a.ref.Buildings() {
			buildings[b.ID] = b.Name
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDEPARTMENT\tBUILDING")
		for _, d := range a.ref.Departments() {
			building := buildings[d.BuildingID]
			if building == "" {
				building = "-"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", d.ID, d.Name, building)
		}
		return w.Flush()
	},
}

// refCategoriesCmd 列出类别及允许的工种
var refCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List job categories and the job types they allow",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCATEGORY\tALLOWED TYPES")
		for _, c := range a.ref.JobCategories() {
			names := make([]string, 0, len(c.AllowedTypes))
			for _, jt := range a.ref.AllowedTypesFor(c) {
				name := jt.Name
				if jt.HasTransportOptions() {
					name += " (" + strings.Join(jt.TransportOptions, ", ") + ")"
				}
				names = append(names, name)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, strings.Join(names, "; "))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(refCmd)
	refCmd.AddCommand(refStaffCmd, refDepartmentsCmd, refCategoriesCmd)
}
