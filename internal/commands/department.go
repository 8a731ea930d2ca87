package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finad-dev/finad/internal/gitops"
)

func newDepartmentCommand(g *globals) *cobra.Command {
	deptCmd := &cobra.Command{
		Use:     "department",
		Aliases: []string{"dept"},
		Short:   "Manage the department catalogue",
	}
	deptCmd.AddCommand(
		newDepartmentListCommand(g),
		newDepartmentAddCommand(g),
		newDepartmentRemoveCommand(g),
	)
	return deptCmd
}

func newDepartmentListCommand(g *globals) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List departments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			depts, err := w.sess.Departments(w.principal, all)
			if err != nil {
				return w.finish(err, "")
			}
			rows := make([][]string, len(depts))
			for i, d := range depts {
				state := "active"
				if d.Retired {
					state = "retired"
				}
				rows[i] = []string{d.Label, d.Name, d.Color, state}
			}
			return w.finish(printTable(cmd.OutOrStdout(), []string{"LABEL", "NAME", "COLOR", "STATE"}, rows), "")
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include retired departments")
	return cmd
}

func newDepartmentAddCommand(g *globals) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a department with a zero budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			d, err := w.sess.AddDepartment(w.principal, args[0], color)
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", d.Label)
			}
			return w.finish(err, gitops.Message("department", "add %s", d.Label))
		},
	}
	cmd.Flags().StringVar(&color, "color", "", "display color, e.g. #10b981")
	return cmd
}

func newDepartmentRemoveCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <label>",
		Aliases: []string{"rm"},
		Short:   "Retire a department; its bills keep their label",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			err = w.sess.RemoveDepartment(w.principal, args[0])
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Retired %s\n", args[0])
			}
			return w.finish(err, gitops.Message("department", "retire %s", args[0]))
		},
	}
}
