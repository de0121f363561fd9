package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/beanbudget/budget"
)

type AssignCmd struct {
	File     string `help:"Budget spec file." arg:"" type:"existingfile"`
	Category string `help:"Category key to assign to." arg:""`
	Amount   string `help:"Amount to assign, in the budget currency." arg:""`
	Month    string `help:"Month to assign in (YYYY-MM, defaults to the current month)." short:"m"`
}

func (cmd *AssignCmd) Run(ctx *kong.Context, globals *Globals) error {
	month, err := resolveMonth(cmd.Month)
	if err != nil {
		return err
	}

	runCtx, report := withTelemetry(ctx, globals, fmt.Sprintf("assign %s %s", cmd.Category, month))
	defer report()

	b, err := loadBudget(runCtx, cmd.File)
	if err != nil {
		return err
	}

	amount, err := budget.NewAmount(cmd.Amount, b.Spec.Currency)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", cmd.Amount, err)
	}

	// Overwriting an existing differing assignment is asked about;
	// re-running with the same amount is a no-op and passes silently.
	if totals, ok := b.Totals(month); ok && isTerminal() && b.Spec.HasCategory(cmd.Category) {
		current := totals.Assigning.Get(cmd.Category)
		if !current.IsZero() && !current.Equal(amount) {
			confirmed, err := promptYesNo(ctx, fmt.Sprintf("Replace assigned amount %s for %s in %s?",
				formatAmount(current), cmd.Category, month.Display()))
			if err != nil {
				return fmt.Errorf("failed to read confirmation: %w", err)
			}
			if !confirmed {
				printInfof(ctx.Stdout, "Left %s assigned to %s", formatAmount(current), cmd.Category)
				return nil
			}
		}
	}

	if err := b.SetAssigned(month, cmd.Category, amount); err != nil {
		return err
	}
	if err := b.Save(); err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Assigned %s to %s for %s", formatAmount(amount), cmd.Category, month.Display()))
	if totals, ok := b.Totals(month); ok {
		printInfof(ctx.Stdout, "Category balance: %s", formatBalance(totals.CategoryBalances().Get(cmd.Category)))
		printInfof(ctx.Stdout, "To be assigned: %s", formatBalance(totals.ToBeAssigned()))
	}

	return nil
}
