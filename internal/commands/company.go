package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/finad-dev/finad/internal/access"
	"github.com/finad-dev/finad/internal/company"
	"github.com/finad-dev/finad/internal/gitops"
	"github.com/finad-dev/finad/internal/model"
)

func newCompanyCommand(g *globals) *cobra.Command {
	companyCmd := &cobra.Command{
		Use:   "company",
		Short: "Manage client companies and their portal logins",
	}
	companyCmd.AddCommand(
		newCompanyAddCommand(g),
		newCompanyListCommand(g),
		newCompanyUpdateCommand(g),
		newCompanyRemoveCommand(g),
		newCompanyUseCommand(g),
		newCompanyActiveCommand(g),
		newCompanyCredentialsCommand(g),
	)
	return companyCmd
}

// profileFields maps flag names to the company profile fields they set.
func profileFields(in *company.Input) map[string]*string {
	return map[string]*string{
		"address":          &in.Address,
		"phone":            &in.Phone,
		"email":            &in.Email,
		"industry":         &in.Industry,
		"financial-year":   &in.FinancialYear,
		"accountant-name":  &in.AccountantName,
		"accountant-email": &in.AccountantEmail,
		"accountant-phone": &in.AccountantPhone,
		"accountant-role":  &in.AccountantRole,
	}
}

func addProfileFlags(f *pflag.FlagSet, in *company.Input) {
	f.StringVar(&in.Name, "name", "", "company name")
	for name, dst := range profileFields(in) {
		f.StringVar(dst, name, "", "company "+name)
	}
}

func newCompanyAddCommand(g *globals) *cobra.Command {
	var in company.Input
	var role string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if role != "" {
				r, err := access.ParseCompanyRole(role)
				if err != nil {
					return err
				}
				in.CompanyRole = r
			}
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			c, err := w.sess.AddCompany(w.principal, in)
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", c.Name, c.ID)
			}
			return w.finish(err, gitops.Message("company", "add %s", c.Name))
		},
	}
	addProfileFlags(cmd.Flags(), &in)
	cmd.Flags().StringVar(&role, "company-role", "", "portal role: \"Company Owner\" or Accountant")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCompanyListCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List companies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			companies, err := w.sess.Companies(w.principal)
			if err != nil {
				return w.finish(err, "")
			}
			active, _ := w.sess.ActiveCompany(w.principal)
			rows := make([][]string, len(companies))
			for i, c := range companies {
				mark := ""
				if c.ID == active.ID {
					mark = "*"
				}
				rows[i] = []string{mark, c.ID, c.Name, c.Industry, c.FinancialYear, c.LoginID, string(c.CompanyRole)}
			}
			err = printTable(cmd.OutOrStdout(), []string{"", "ID", "NAME", "INDUSTRY", "YEAR", "LOGIN", "ROLE"}, rows)
			return w.finish(err, "")
		},
	}
}

func newCompanyUpdateCommand(g *globals) *cobra.Command {
	var in company.Input

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a company profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p company.Patch
			flags := cmd.Flags()
			targets := map[string]**string{
				"name":             &p.Name,
				"address":          &p.Address,
				"phone":            &p.Phone,
				"email":            &p.Email,
				"industry":         &p.Industry,
				"financial-year":   &p.FinancialYear,
				"accountant-name":  &p.AccountantName,
				"accountant-email": &p.AccountantEmail,
				"accountant-phone": &p.AccountantPhone,
				"accountant-role":  &p.AccountantRole,
			}
			values := profileFields(&in)
			values["name"] = &in.Name
			for name, dst := range targets {
				if flags.Changed(name) {
					*dst = values[name]
				}
			}

			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			c, err := w.sess.UpdateCompany(w.principal, args[0], p)
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", c.Name, c.ID)
			}
			return w.finish(err, gitops.Message("company", "update %s", args[0]))
		},
	}
	addProfileFlags(cmd.Flags(), &in)
	return cmd
}

func newCompanyRemoveCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a company and its portal login",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			err = w.sess.RemoveCompany(w.principal, args[0])
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			}
			return w.finish(err, gitops.Message("company", "remove %s", args[0]))
		},
	}
}

func newCompanyUseCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Select the active company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			err = w.sess.SetActiveCompany(w.principal, args[0])
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Active company is %s\n", args[0])
			}
			return w.finish(err, gitops.Message("company", "use %s", args[0]))
		},
	}
}

func newCompanyActiveCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "Show the company this session works in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			c, err := w.sess.ActiveCompany(w.principal)
			if err == nil {
				printCompany(cmd, c)
			}
			return w.finish(err, "")
		},
	}
}

func printCompany(cmd *cobra.Command, c model.Company) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s\n", c.ID, c.Name)
	for _, kv := range [][2]string{
		{"Industry", c.Industry},
		{"Financial year", c.FinancialYear},
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"Address", c.Address},
		{"Accountant", c.AccountantName},
		{"Accountant role", c.AccountantRole},
		{"Portal login", c.LoginID},
	} {
		if kv[1] != "" {
			fmt.Fprintf(out, "  %-15s %s\n", kv[0], kv[1])
		}
	}
}

func newCompanyCredentialsCommand(g *globals) *cobra.Command {
	var loginID, password, role string

	cmd := &cobra.Command{
		Use:   "credentials <id>",
		Short: "Set a company's portal login and password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := model.CompanyOwner
			if role != "" {
				var err error
				if r, err = access.ParseCompanyRole(role); err != nil {
					return err
				}
			}
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			c, err := w.sess.SetCredentials(w.principal, args[0], loginID, password, r)
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s can sign in as %s (%s)\n", c.Name, c.LoginID, c.CompanyRole)
			}
			return w.finish(err, gitops.Message("company", "set credentials for %s", args[0]))
		},
	}
	cmd.Flags().StringVar(&loginID, "login-id", "", "portal login (required)")
	cmd.Flags().StringVar(&password, "new-password", "", "portal password (required)")
	cmd.Flags().StringVar(&role, "company-role", "", "portal role: \"Company Owner\" or Accountant")
	_ = cmd.MarkFlagRequired("login-id")
	_ = cmd.MarkFlagRequired("new-password")
	return cmd
}
