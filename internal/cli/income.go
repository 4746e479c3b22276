package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/arrotondami/wealth-engine/internal/ledger"
)

type addCmd struct {
	source   string
	amount   string
	date     string
	category string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a new extra income" }
func (*addCmd) Usage() string {
	return `add -source <source> -amount <amount> -category <category> [-date <YYYY-MM-DD>]

  Adds an income record to the active profile's ledger:
  - source:   where the money came from (e.g., "Babysitting").
  - amount:   non-negative amount (e.g., "50" or "49.90").
  - category: label used for the per-category totals.
  - date:     day of the income, defaults to today.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.source, "source", "", "Income source (required)")
	f.StringVar(&c.amount, "amount", "", "Amount (required)")
	f.StringVar(&c.date, "date", time.Now().Format("2006-01-02"), "Income date")
	f.StringVar(&c.category, "category", "", "Category label (required)")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -amount %q is not a number.\n", c.amount)
		return subcommands.ExitUsageError
	}

	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := a.requireSession(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	record, err := a.engine.AddIncome(ctx, ledger.IncomeInput{
		Source:   c.source,
		Amount:   amount,
		Date:     c.date,
		Category: c.category,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding income: %v\n", err)
		if ledger.IsValidation(err) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}

	fmt.Printf("Recorded %s from %s on %s (id %s)\n", record.Amount, record.Source, record.Date, record.ID)
	return subcommands.ExitSuccess
}

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete an income record by id" }
func (*rmCmd) Usage() string {
	return `rm <record-id>

  Deletes the record with the given id from the active profile's ledger.
  Deleting an id that does not exist is reported, not an error.
`
}

func (*rmCmd) SetFlags(f *flag.FlagSet) {}

func (c *rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one record id is required.")
		return subcommands.ExitUsageError
	}
	id := f.Arg(0)

	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := a.requireSession(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	deleted, err := a.engine.DeleteIncome(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting income: %v\n", err)
		return subcommands.ExitFailure
	}
	if !deleted {
		fmt.Printf("No record with id %s.\n", id)
		return subcommands.ExitSuccess
	}

	fmt.Printf("Deleted record %s.\n", id)
	return subcommands.ExitSuccess
}
