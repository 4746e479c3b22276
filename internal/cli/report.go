package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type goalCmd struct {
	set string
}

func (*goalCmd) Name() string     { return "goal" }
func (*goalCmd) Synopsis() string { return "show or change the monthly goal" }
func (*goalCmd) Usage() string {
	return `goal [-set <amount>]

  Without flags, prints the active profile's monthly goal.
  With -set, replaces it with the given non-negative amount.
`
}

func (c *goalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.set, "set", "", "New goal amount")
}

func (c *goalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := a.requireSession(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.set == "" {
		fmt.Printf("Monthly goal: %s\n", a.engine.Goal())
		return subcommands.ExitSuccess
	}

	goal, err := decimal.NewFromString(c.set)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -set %q is not a number.\n", c.set)
		return subcommands.ExitUsageError
	}
	if err := a.engine.SetGoal(ctx, goal); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting goal: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Monthly goal set to %s\n", goal)
	return subcommands.ExitSuccess
}

type statusCmd struct{}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "show the ledger and progress towards the goal" }
func (*statusCmd) Usage() string {
	return `status

  Prints the active profile, its records (newest first), the per-category
  totals and the progress towards the monthly goal.
`
}

func (*statusCmd) SetFlags(f *flag.FlagSet) {}

func (c *statusCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := a.requireSession(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	agg := a.engine.Aggregates()
	fmt.Printf("Profile: %s\n", a.user.Name)
	fmt.Printf("Goal:    %s   Total: %s   Progress: %.0f%%   Records: %d\n\n",
		a.engine.Goal(), agg.TotalOverall, agg.ProgressRatio*100, agg.RecordCount)

	if agg.RecordCount == 0 {
		fmt.Println("No income recorded yet.")
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSOURCE\tCATEGORY\tAMOUNT\tID")
	for _, r := range a.engine.Records() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Date, r.Source, r.Category, r.Amount, r.ID)
	}
	w.Flush()

	fmt.Println()
	for category, total := range agg.TotalByCategory {
		fmt.Printf("%s: %s\n", category, total)
	}
	return subcommands.ExitSuccess
}
