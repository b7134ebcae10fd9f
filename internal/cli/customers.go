package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/macropower/leads/pkg/customer"
	"github.com/macropower/leads/pkg/pagination"
	"github.com/macropower/leads/pkg/rule"
	"github.com/macropower/leads/pkg/ui/form"
)

var (
	errNoChanges   = errors.New("no changes")
	errNotDeleted  = errors.New("not deleted")
	errNeedConfirm = errors.New("refusing to delete without --yes when stdin is not a terminal")
)

type ListArgs struct {
	*RootArgs

	Filters     customer.Filters
	Where       string
	Output      string
	HasLawsuits string
	Page        int
	Limit       int
	All         bool
}

func NewListCmd(root *RootArgs) *cobra.Command {
	la := &ListArgs{RootArgs: root}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Example: `  # Show the second page of 50 customers:
  leads list --page 2 --limit 50

  # Search by name, email, or phone number:
  leads list --search maria

  # Filter the page with a CEL expression:
  leads list --where 'adtsAtual >= 20.0 && !possuiProcessos'

  # Every customer of a tier, as YAML:
  leads list --all --letter B -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return la.run(cmd)
		},
	}

	f := cmd.Flags()
	f.IntVar(&la.Page, "page", 1, "Page to show")
	f.IntVar(&la.Limit, "limit", 0, "Customers per page, defaults to table.pageSize")
	f.BoolVar(&la.All, "all", false, "List every matching customer instead of one page")
	f.StringVar(&la.Where, "where", "", "Only show customers matching a CEL expression")
	f.StringVar(&la.Filters.Search, "search", "", "Match name, email, or phone number")
	f.StringVar(&la.Filters.Letter, "letter", "", "Only customers in this letter tier")
	f.StringVar(&la.Filters.Level, "level", "", "Only customers at this level")
	f.StringVar(&la.Filters.Status, "status", "", "Only customers with this status")
	f.StringVar(&la.Filters.Source, "source", "", "Only customers from this source")
	f.StringVar(&la.Filters.DateFrom, "date-from", "", "Only customers created on or after this date")
	f.StringVar(&la.Filters.DateTo, "date-to", "", "Only customers created on or before this date")
	f.IntVar(&la.Filters.YearMin, "year-min", 0, "Only customers who joined in or after this year")
	f.IntVar(&la.Filters.YearMax, "year-max", 0, "Only customers who joined in or before this year")
	f.StringVar(&la.HasLawsuits, "has-lawsuits", "", "Only customers with (true) or without (false) lawsuits")
	addOutputFlag(cmd, &la.Output)

	must(cmd.RegisterFlagCompletionFunc("letter",
		cobra.FixedCompletions(customer.Letters, cobra.ShellCompDirectiveNoFileComp)))
	must(cmd.RegisterFlagCompletionFunc("level",
		cobra.FixedCompletions(customer.Levels, cobra.ShellCompDirectiveNoFileComp)))

	return cmd
}

func (la *ListArgs) run(cmd *cobra.Command) error {
	err := validateOutput(la.Output)
	if err != nil {
		return err
	}

	if la.HasLawsuits != "" {
		b, err := strconv.ParseBool(la.HasLawsuits)
		if err != nil {
			return fmt.Errorf("invalid argument %q for --has-lawsuits: %w", la.HasLawsuits, err)
		}

		la.Filters.HasLawsuits = &b
	}

	var filter *rule.Filter
	if la.Where != "" {
		filter, err = rule.NewFilter(la.Where)
		if err != nil {
			return fmt.Errorf("invalid argument %q for --where: %w", la.Where, err)
		}
	}

	a, err := la.newApp()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	var p *customer.Page
	if la.All {
		customers, err := a.client.ListCustomers(ctx, la.Filters)
		if err != nil {
			return fmt.Errorf("list customers: %w", err)
		}

		p = &customer.Page{
			Customers:  customers,
			Pagination: pagination.Info{Page: 1, Limit: len(customers), Total: len(customers), TotalPages: 1},
		}
	} else {
		limit := la.Limit
		if limit <= 0 {
			limit = a.cfg.Table.PageSize
		}

		p, err = a.client.ListPage(ctx, max(la.Page, 1), limit, la.Filters)
		if err != nil {
			return fmt.Errorf("list customers: %w", err)
		}
	}

	if filter != nil {
		p.Customers, err = filter.Apply(p.Customers)
		if err != nil {
			return fmt.Errorf("apply --where: %w", err)
		}
	}

	return writeOutput(cmd.OutOrStdout(), la.Output, p, func() string {
		if filter != nil {
			return renderCustomers(a.theme, p.Customers, time.Now())
		}

		return renderPage(a.theme, p, time.Now())
	})
}

func NewGetCmd(root *RootArgs) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := validateOutput(output)
			if err != nil {
				return err
			}

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := root.newApp()
			if err != nil {
				return err
			}

			c, err := a.client.GetCustomer(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get customer %d: %w", id, err)
			}

			return writeOutput(cmd.OutOrStdout(), output, c, func() string {
				return renderCustomer(a.theme, c)
			})
		},
	}

	addOutputFlag(cmd, &output)

	return cmd
}

// CustomerArgs are the customer fields accepted by create and update.
type CustomerArgs struct {
	*RootArgs

	Fields      form.Fields
	Output      string
	Interactive bool
}

func (ca *CustomerArgs) AddFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&ca.Fields.FullName, "name", "", "Full name")
	f.StringVar(&ca.Fields.Email, "email", "", "Email address")
	f.StringVar(&ca.Fields.WhatsApp, "whatsapp", "", "WhatsApp number")
	f.StringVar(&ca.Fields.Letter, "letter", "", "Letter tier, A to J")
	f.StringVar(&ca.Fields.Level, "level", "", "Level, I to VI")
	f.StringVar(&ca.Fields.ADTS, "adts", "", "Current ADTS percentage")
	f.StringVar(&ca.Fields.YearJoined, "year", "", "Year the customer joined")
	f.BoolVar(&ca.Fields.HasLawsuits, "lawsuits", false, "The customer has lawsuits")
	f.BoolVar(&ca.Fields.Conditions, "conditions", false, "The customer accepted the conditions")
	f.BoolVar(&ca.Fields.Newsletter, "newsletter", false, "The customer receives the newsletter")
	f.BoolVarP(&ca.Interactive, "interactive", "i", false, "Edit the fields in a form")
	addOutputFlag(cmd, &ca.Output)

	must(cmd.RegisterFlagCompletionFunc("letter",
		cobra.FixedCompletions(customer.Letters, cobra.ShellCompDirectiveNoFileComp)))
	must(cmd.RegisterFlagCompletionFunc("level",
		cobra.FixedCompletions(customer.Levels, cobra.ShellCompDirectiveNoFileComp)))
}

// fieldFlags are the flags that set a customer field.
var fieldFlags = []string{
	"name", "email", "whatsapp", "letter", "level", "adts", "year", "lawsuits", "conditions", "newsletter",
}

func fieldsChanged(fs *pflag.FlagSet) bool {
	for _, name := range fieldFlags {
		if fs.Changed(name) {
			return true
		}
	}

	return false
}

// overlay copies the fields set on the command line onto dst.
func (ca *CustomerArgs) overlay(fs *pflag.FlagSet, dst *form.Fields) {
	src := &ca.Fields

	set := map[string]func(){
		"name":       func() { dst.FullName = src.FullName },
		"email":      func() { dst.Email = src.Email },
		"whatsapp":   func() { dst.WhatsApp = src.WhatsApp },
		"letter":     func() { dst.Letter = src.Letter },
		"level":      func() { dst.Level = src.Level },
		"adts":       func() { dst.ADTS = src.ADTS },
		"year":       func() { dst.YearJoined = src.YearJoined },
		"lawsuits":   func() { dst.HasLawsuits = src.HasLawsuits },
		"conditions": func() { dst.Conditions = src.Conditions },
		"newsletter": func() { dst.Newsletter = src.Newsletter },
	}

	for _, name := range fieldFlags {
		if fs.Changed(name) {
			set[name]()
		}
	}
}

func NewCreateCmd(root *RootArgs) *cobra.Command {
	ca := &CustomerArgs{RootArgs: root}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a customer",
		Long:  "Create a customer from flags. Without any field flags, a form is shown when stdin is a terminal.",
		Example: `  leads create --name "Maria Oliveira" --email maria@example.com --letter B --level IV
  leads create -i`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := validateOutput(ca.Output)
			if err != nil {
				return err
			}

			a, err := ca.newApp()
			if err != nil {
				return err
			}

			fields := &form.Fields{Letter: customer.Letters[0], Level: customer.Levels[0]}
			ca.overlay(cmd.Flags(), fields)

			if ca.Interactive || (!fieldsChanged(cmd.Flags()) && isTerminal(os.Stdin)) {
				err = form.NewCustomerForm(a.theme, "New customer", fields).Run()
				if err != nil {
					return fmt.Errorf("customer form: %w", err)
				}
			}

			req, err := fields.CreateRequest()
			if err != nil {
				return err
			}

			c, err := a.client.CreateCustomer(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("create customer: %w", err)
			}

			return writeOutput(cmd.OutOrStdout(), ca.Output, c, func() string {
				return renderCustomer(a.theme, c)
			})
		},
	}

	ca.AddFlags(cmd)

	return cmd
}

func NewUpdateCmd(root *RootArgs) *cobra.Command {
	ca := &CustomerArgs{RootArgs: root}

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a customer",
		Long:  "Update the fields given as flags. Only changed fields are sent.",
		Example: `  leads update 7 --level V --newsletter=false
  leads update 7 -i`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := validateOutput(ca.Output)
			if err != nil {
				return err
			}

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := ca.newApp()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			prev, err := a.client.GetCustomer(ctx, id)
			if err != nil {
				return fmt.Errorf("get customer %d: %w", id, err)
			}

			fields := form.FieldsFrom(prev)
			ca.overlay(cmd.Flags(), fields)

			if ca.Interactive {
				err = form.NewCustomerForm(a.theme, "Edit "+prev.FullName, fields).Run()
				if err != nil {
					return fmt.Errorf("customer form: %w", err)
				}
			}

			req, next, err := fields.UpdateRequest(*prev)
			if err != nil {
				return err
			}
			if req.Empty() {
				return fmt.Errorf("update customer %d: %w", id, errNoChanges)
			}

			diff, err := form.Diff(*prev, next)
			if err == nil && diff != "" {
				mustN(fmt.Fprintln(cmd.ErrOrStderr(), form.StyleDiff(a.theme, diff)))
			}

			c, err := a.client.UpdateCustomer(ctx, id, req)
			if err != nil {
				return fmt.Errorf("update customer %d: %w", id, err)
			}

			return writeOutput(cmd.OutOrStdout(), ca.Output, c, func() string {
				return renderCustomer(a.theme, c)
			})
		},
	}

	ca.AddFlags(cmd)

	return cmd
}

func NewDeleteCmd(root *RootArgs) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := root.newApp()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			if !yes {
				if !isTerminal(os.Stdin) {
					return errNeedConfirm
				}

				c, err := a.client.GetCustomer(ctx, id)
				if err != nil {
					return fmt.Errorf("get customer %d: %w", id, err)
				}

				confirm := false

				err = form.NewDeleteForm(a.theme, c, &confirm).Run()
				if err != nil && !errors.Is(err, huh.ErrUserAborted) {
					return fmt.Errorf("confirm: %w", err)
				}
				if !confirm {
					return errNotDeleted
				}
			}

			err = a.client.DeleteCustomer(ctx, id)
			if err != nil {
				return fmt.Errorf("delete customer %d: %w", id, err)
			}

			mustN(fmt.Fprintf(cmd.OutOrStdout(), "deleted customer #%d\n", id))

			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")

	return cmd
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid argument %q: customer id must be a positive integer", s)
	}

	return id, nil
}
