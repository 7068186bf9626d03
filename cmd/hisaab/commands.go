package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"hisaab/internal/cli"
	"hisaab/internal/core"
	"hisaab/internal/ledger"
	"hisaab/internal/taxonomy"
)

var ownerFlag string

var (
	addKind        string
	addCategory    string
	addAmount      string
	addDate        string
	addDescription string

	filterKind     string
	filterCategory string
	filterYear     int
	filterMonth    int
	sortBy         string
	sortDesc       bool

	breakdownKind string

	deletePosition int
	clearConfirm   bool
)

// bootstrap opens the configured ledger and taxonomy. The returned cleanup
// must be deferred by the caller.
func bootstrap() (*ledger.Ledger, taxonomy.Taxonomy, func(), error) {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	lg, _, cleanup, err := cli.OpenLedger(cfg, logger)
	if err != nil {
		return nil, taxonomy.Taxonomy{}, nil, fmt.Errorf("open ledger: %w", err)
	}
	tax, err := taxonomy.Load(cfg.TaxonomyFile)
	if err != nil {
		cleanup()
		return nil, taxonomy.Taxonomy{}, nil, fmt.Errorf("load taxonomy: %w", err)
	}
	return lg, tax, cleanup, nil
}

func requireOwner() error {
	if strings.TrimSpace(ownerFlag) == "" {
		return errors.New("an owner is required: pass --owner or set HISAAB_OWNER")
	}
	ownerFlag = strings.ToLower(strings.TrimSpace(ownerFlag))
	return nil
}

// viewFilter builds the filter shared by list and positional delete so
// both resolve positions against the same rows in the same order.
func viewFilter() core.Filter {
	return core.Filter{
		Kind:     core.Kind(strings.ToLower(filterKind)),
		Category: filterCategory,
		Year:     filterYear,
		Month:    filterMonth,
	}
}

func buildView(cmd *cobra.Command, lg *ledger.Ledger) ([]core.Transaction, error) {
	txns, err := lg.Filter(cmd.Context(), ownerFlag, viewFilter())
	if err != nil {
		return nil, err
	}
	switch sortBy {
	case "date":
		txns = core.SortByDate(txns, sortDesc)
	case "amount":
		txns = core.SortByAmount(txns, sortDesc)
	case "":
		// insertion order
	default:
		return nil, fmt.Errorf("unknown sort key %q (want date or amount)", sortBy)
	}
	return txns, nil
}

func printTransactions(txns []core.Transaction) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "POS\tDATE\tTYPE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for i, t := range txns {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, t.Date, t.Kind.Title(), t.Category, t.Amount, t.Description)
	}
	w.Flush()
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a transaction",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		lg, tax, cleanup, err := bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		kind, err := core.ParseKind(addKind)
		if err != nil {
			return err
		}
		if !tax.Allowed(kind, addCategory) {
			return fmt.Errorf("unknown %s category %q (known: %s)",
				kind, addCategory, strings.Join(tax.Categories(kind), ", "))
		}
		cents, err := core.ParseAmount(addAmount)
		if err != nil {
			return err
		}
		date := core.Today()
		if addDate != "" {
			if date, err = core.ParseDate(addDate); err != nil {
				return err
			}
		}

		saved, err := lg.Append(cmd.Context(), ownerFlag, core.Transaction{
			Kind:        kind,
			Category:    addCategory,
			Amount:      core.Money{Cents: cents},
			Date:        date,
			Description: addDescription,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Recorded %s of %s in %s on %s\n", saved.Kind, saved.Amount, saved.Category, saved.Date)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions, optionally filtered and sorted",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		lg, _, cleanup, err := bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		txns, err := buildView(cmd, lg)
		if err != nil {
			return err
		}
		if len(txns) == 0 {
			fmt.Println("No transactions found.")
			return nil
		}
		printTransactions(txns)
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show income, expense and balance totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		lg, _, cleanup, err := bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		summary, _, err := lg.Overview(cmd.Context(), ownerFlag, filterYear, filterMonth)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Total income:\t%s\n", summary.TotalIncome)
		fmt.Fprintf(w, "Total expense:\t%s\n", summary.TotalExpense)
		fmt.Fprintf(w, "Balance:\t%s\n", summary.Balance)
		w.Flush()
		return nil
	},
}

var breakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Show per-category totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		lg, _, cleanup, err := bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		kind, err := core.ParseKind(breakdownKind)
		if err != nil {
			return err
		}
		txns, err := lg.Filter(cmd.Context(), ownerFlag, core.Filter{Year: filterYear, Month: filterMonth})
		if err != nil {
			return err
		}
		rows := core.GroupByCategory(txns, kind)
		if len(rows) == 0 {
			fmt.Printf("No %s transactions found.\n", kind)
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, row := range rows {
			fmt.Fprintf(w, "%s\t%s\n", row.Name, row.Amount)
		}
		w.Flush()
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete transactions by position or by field match",
	Long: `With --position, deletes the row at that position of the view the same
flags would produce with "list". Without it, deletes every transaction
matching all of --kind, --category, --amount, --date and --description.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		lg, _, cleanup, err := bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		if deletePosition > 0 {
			view, err := buildView(cmd, lg)
			if err != nil {
				return err
			}
			removed, err := lg.DeleteAt(cmd.Context(), ownerFlag, view, deletePosition)
			if err != nil {
				return err
			}
			if removed == 0 {
				fmt.Println("No transaction at that position.")
				return nil
			}
			fmt.Println("Transaction deleted.")
			return nil
		}

		kind, err := core.ParseKind(addKind)
		if err != nil {
			return err
		}
		cents, err := core.ParseAmount(addAmount)
		if err != nil {
			return err
		}
		date, err := core.ParseDate(addDate)
		if err != nil {
			return err
		}
		removed, err := lg.DeleteMatching(cmd.Context(), ownerFlag, core.FieldMatcher{
			Kind:        kind,
			Category:    addCategory,
			Amount:      core.Money{Cents: cents},
			Date:        date,
			Description: addDescription,
		})
		if err != nil {
			return err
		}
		if removed == 0 {
			fmt.Println("No matching transaction found.")
			return nil
		}
		fmt.Printf("Deleted %d transaction(s).\n", removed)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every transaction for the owner",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		if !clearConfirm {
			return errors.New("refusing to clear the ledger without --yes")
		}
		lg, _, cleanup, err := bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := lg.Clear(cmd.Context(), ownerFlag); err != nil {
			return err
		}
		fmt.Println("Ledger cleared.")
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addKind, "kind", "", "income or expense")
	addCmd.Flags().StringVar(&addCategory, "category", "", "transaction category")
	addCmd.Flags().StringVar(&addAmount, "amount", "", "amount, e.g. 120.50")
	addCmd.Flags().StringVar(&addDate, "date", "", "date as YYYY-MM-DD (default today)")
	addCmd.Flags().StringVar(&addDescription, "description", "", "free-form note")
	_ = addCmd.MarkFlagRequired("kind")
	_ = addCmd.MarkFlagRequired("category")
	_ = addCmd.MarkFlagRequired("amount")

	for _, c := range []*cobra.Command{listCmd, deleteCmd} {
		c.Flags().StringVar(&filterKind, "filter-kind", "", "only income or expense")
		c.Flags().StringVar(&filterCategory, "filter-category", "", "only this category")
		c.Flags().StringVar(&sortBy, "sort", "", "sort by date or amount")
		c.Flags().BoolVar(&sortDesc, "desc", false, "sort descending")
	}
	for _, c := range []*cobra.Command{listCmd, summaryCmd, breakdownCmd, deleteCmd} {
		c.Flags().IntVar(&filterYear, "year", 0, "only this year")
		c.Flags().IntVar(&filterMonth, "month", 0, "only this month (1-12)")
	}

	breakdownCmd.Flags().StringVar(&breakdownKind, "kind", "expense", "income or expense")

	deleteCmd.Flags().IntVar(&deletePosition, "position", 0, "1-based position in the list view")
	deleteCmd.Flags().StringVar(&addKind, "kind", "", "kind of the transaction to match")
	deleteCmd.Flags().StringVar(&addCategory, "category", "", "category to match")
	deleteCmd.Flags().StringVar(&addAmount, "amount", "", "amount to match")
	deleteCmd.Flags().StringVar(&addDate, "date", "", "date to match")
	deleteCmd.Flags().StringVar(&addDescription, "description", "", "description to match")

	clearCmd.Flags().BoolVar(&clearConfirm, "yes", false, "confirm clearing the ledger")
}
