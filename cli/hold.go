package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/beanbudget/budget"
)

type HoldCmd struct {
	File   string `help:"Budget spec file." arg:"" type:"existingfile"`
	Amount string `help:"Amount to hold back, in the budget currency." arg:""`
	Month  string `help:"Month to hold in (YYYY-MM, defaults to the current month)." short:"m"`
}

func (cmd *HoldCmd) Run(ctx *kong.Context, globals *Globals) error {
	month, err := resolveMonth(cmd.Month)
	if err != nil {
		return err
	}

	runCtx, report := withTelemetry(ctx, globals, fmt.Sprintf("hold %s", month))
	defer report()

	b, err := loadBudget(runCtx, cmd.File)
	if err != nil {
		return err
	}

	amount, err := budget.NewAmount(cmd.Amount, b.Spec.Currency)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", cmd.Amount, err)
	}

	if err := b.SetHeld(month, amount); err != nil {
		return err
	}
	if err := b.Save(); err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Holding %s back in %s", formatAmount(amount), month.Display()))
	if totals, ok := b.Totals(month); ok {
		printInfof(ctx.Stdout, "To be assigned: %s", formatBalance(totals.ToBeAssigned()))
	}

	return nil
}
