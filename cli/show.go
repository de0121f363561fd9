package cli

import (
	"fmt"
	"io"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/beanbudget/budget"
)

type ShowCmd struct {
	File  string `help:"Budget spec file." arg:"" type:"existingfile"`
	Month string `help:"Month to show (YYYY-MM, defaults to the current month)." short:"m"`
}

func (cmd *ShowCmd) Run(ctx *kong.Context, globals *Globals) error {
	month, err := resolveMonth(cmd.Month)
	if err != nil {
		return err
	}

	runCtx, report := withTelemetry(ctx, globals, fmt.Sprintf("show %s", month))
	defer report()

	b, err := loadBudget(runCtx, cmd.File)
	if err != nil {
		return err
	}

	return renderMonth(ctx.Stdout, b, month)
}

const amountColumn = 14

// renderMonth writes the full budget table for one month: the
// to-be-assigned pool, then per-group category rows with assigned,
// activity, and balance columns.
func renderMonth(w io.Writer, b *budget.Budget, month budget.Month) error {
	totals, ok := b.Totals(month)
	if !ok {
		return fmt.Errorf("month %s is outside the budget range (%s to %s)",
			month, b.StartMonth(), b.LatestMonth())
	}

	nameColumn := 0
	for _, group := range b.Spec.Groups {
		for _, category := range group.Categories {
			if len(category.Name) > nameColumn {
				nameColumn = len(category.Name)
			}
		}
	}

	title := month.Display()
	if b.Spec.Name != "" {
		title = fmt.Sprintf("%s - %s", month.Display(), b.Spec.Name)
	}
	_, _ = fmt.Fprintln(w, headingStyle.Render(title))
	_, _ = fmt.Fprintf(w, "To be assigned: %s\n", paddedBalance(totals.ToBeAssigned(), 0))
	if !totals.Holding.IsZero() {
		_, _ = fmt.Fprintf(w, "Held back: %s\n", formatAmount(totals.Holding))
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintf(w, "%-*s %*s %*s %*s\n",
		nameColumn, "",
		amountColumn, "Assigned",
		amountColumn, "Activity",
		amountColumn, "Balance",
	)

	balances := totals.CategoryBalances()
	for _, group := range b.Spec.Groups {
		_, _ = fmt.Fprintln(w, groupStyle.Render(group.Name))
		for _, category := range group.Categories {
			_, _ = fmt.Fprintf(w, "%-*s %s %s %s\n",
				nameColumn, category.Name,
				paddedAmount(totals.Assigning.Get(category.Key), amountColumn),
				paddedAmount(totals.Spending.Get(category.Key), amountColumn),
				paddedBalance(balances.Get(category.Key), amountColumn),
			)
		}
		_, _ = fmt.Fprintf(w, "%-*s %s %s %s\n",
			nameColumn, "",
			paddedAmount(totals.GroupAssigned(group), amountColumn),
			paddedAmount(totals.GroupSpending(group), amountColumn),
			paddedBalance(totals.GroupBalance(group), amountColumn),
		)
	}

	return nil
}

// paddedAmount right-aligns an amount in a fixed column. Padding
// happens before styling so escape codes don't skew the width.
func paddedAmount(a budget.Amount, width int) string {
	return fmt.Sprintf("%*s", width, formatAmount(a))
}

func paddedBalance(a budget.Amount, width int) string {
	padded := paddedAmount(a, width)
	if a.IsNegative() {
		return negativeStyle.Render(padded)
	}
	return padded
}
