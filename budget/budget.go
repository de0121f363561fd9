// Package budget implements zero-based budgeting calculations on top of
// a beancount transaction ledger. Every ledger transaction is
// classified into budget-relevant flow and per-category spending, and a
// chain of per-month totals tracks how money assigned to categories
// accumulates, overspends, or rolls forward.
//
// Each classified transaction satisfies the conservation equation
//
//	flow = funding + total spending
//
// exactly, with decimal arithmetic throughout. Monthly totals form a
// chain: month M inherits the to-be-assigned pool, held amount,
// overspending, and non-negative category carryovers from month M-1,
// so editing an assignment in one month re-derives that month and every
// later month, and never an earlier one.
//
// Example usage:
//
//	b, err := budget.Load(ctx, "budget.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	totals, _ := b.Totals(budget.CurrentMonth())
//	fmt.Println(totals.ToBeAssigned())
//
//	if err := b.SetAssigned(month, "rent", budget.MustAmount("250.00", "AUD")); err != nil {
//	    log.Fatal(err)
//	}
//	if err := b.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// The engine is single-threaded and synchronous: every operation runs
// to completion before returning and there is no internal locking. A
// concurrent host must serialize access itself.
package budget

import (
	"context"
	"fmt"

	"github.com/robinvdvleuten/beancount/ast"
	"github.com/robinvdvleuten/beancount/loader"
	"github.com/robinvdvleuten/beancount/telemetry"
)

// Budget combines all data sources and owns the monthly totals chain.
// It loads the spec from its YAML file, the transactions from the
// beancount ledger, and the assigned amounts from the JSON store, then
// derives a MonthlyTotals record for every month from the start of the
// budget through the latest relevant month.
//
// The Budget exclusively owns the totals chain. Assigned amounts are
// edited only through SetAssigned and SetHeld, which re-derive the
// chain forward from the edited month.
type Budget struct {
	Spec *BudgetSpec

	store        *Store
	transactions map[Month][]*BudgetTransaction
	totals       map[Month]*MonthlyTotals

	// now is swappable so tests pin the "latest relevant month" policy.
	now func() Month
}

// Load reads the budget spec at the given path, then the ledger and
// store it references, classifies every ledger transaction, and
// computes the full monthly totals chain.
func Load(ctx context.Context, specPath string) (*Budget, error) {
	timer := telemetry.FromContext(ctx).Start(fmt.Sprintf("budget.load %s", specPath))
	defer timer.End()

	spec, err := LoadSpec(specPath)
	if err != nil {
		return nil, err
	}

	loadTimer := timer.Child("ledger.load")
	ldr := loader.New(loader.WithFollowIncludes())
	tree, err := ldr.Load(ctx, spec.Ledger)
	loadTimer.End()
	if err != nil {
		return nil, err
	}

	store, err := LoadStore(spec.Storage, spec)
	if err != nil {
		return nil, err
	}

	return New(ctx, spec, store, tree)
}

// New builds a Budget from an already-loaded spec, store, and ledger
// AST. Classification failures abort with the first offending
// transaction's error.
func New(ctx context.Context, spec *BudgetSpec, store *Store, tree *ast.AST) (*Budget, error) {
	b := &Budget{
		Spec:         spec,
		store:        store,
		transactions: make(map[Month][]*BudgetTransaction),
		totals:       make(map[Month]*MonthlyTotals),
		now:          CurrentMonth,
	}

	classifyTimer := telemetry.FromContext(ctx).Start(fmt.Sprintf("budget.classify (%d directives)", len(tree.Directives)))
	for _, directive := range tree.Directives {
		txn, ok := directive.(*ast.Transaction)
		if !ok {
			continue
		}
		tx, err := ConvertTransaction(spec, txn)
		if err != nil {
			classifyTimer.End()
			return nil, err
		}
		if tx == nil {
			continue
		}
		b.transactions[tx.Month()] = append(b.transactions[tx.Month()], tx)
	}
	classifyTimer.End()

	b.Recompute(b.StartMonth())
	return b, nil
}

// StartMonth returns the first month in scope: the earlier of the
// spec's configured start and the earliest ledger transaction month.
func (b *Budget) StartMonth() Month {
	start := b.Spec.Start
	for month := range b.transactions {
		if month.Before(start) {
			start = month
		}
	}
	return start
}

// LatestMonth returns the latest relevant month: one past the current
// month, or one past the latest stored assignment, or the latest ledger
// month, whichever is furthest out.
func (b *Budget) LatestMonth() Month {
	latest := b.now().Next()
	if month, ok := b.store.LatestMonth(); ok && month.Next().After(latest) {
		latest = month.Next()
	}
	for month := range b.transactions {
		if month.After(latest) {
			latest = month
		}
	}
	return latest
}

// Recompute rebuilds the monthly totals from the given month through
// the latest relevant month, strictly in increasing order, each month
// consuming the freshly computed record of its predecessor. Months
// before from are causally unaffected and never touched.
func (b *Budget) Recompute(from Month) {
	start := b.StartMonth()
	if from.Before(start) {
		from = start
	}

	// An edit may land past the computed frontier (e.g. assigning to a
	// far-future month); walk back until the predecessor exists so the
	// chain stays contiguous.
	for from != start && b.totals[from.AddMonths(-1)] == nil {
		from = from.AddMonths(-1)
	}

	latest := b.LatestMonth()
	for month := from; !month.After(latest); month = month.Next() {
		var prev *MonthlyTotals
		if month != start {
			prev = b.totals[month.AddMonths(-1)]
		}
		assigned := b.store.Assigned(month)
		b.totals[month] = NewMonthlyTotals(
			b.Spec,
			b.transactions[month],
			assigned.Held,
			assigned.Categories,
			prev,
		)
	}
}

// Totals returns the computed record for a month, if it is in range.
func (b *Budget) Totals(month Month) (*MonthlyTotals, bool) {
	totals, ok := b.totals[month]
	return totals, ok
}

// Months returns every month in the computed chain, ascending.
func (b *Budget) Months() []Month {
	months := make([]Month, 0, len(b.totals))
	for month := b.StartMonth(); !month.After(b.LatestMonth()); month = month.Next() {
		if _, ok := b.totals[month]; ok {
			months = append(months, month)
		}
	}
	return months
}

// Transactions returns the classified transactions for a month.
func (b *Budget) Transactions(month Month) []*BudgetTransaction {
	return b.transactions[month]
}

// SetAssigned updates the amount assigned to a category for a month and
// re-derives the chain from that month forward. The category key must
// be in the spec's domain and the month must not precede the budget
// start; a pre-start write would persist without ever appearing in a
// totals record.
func (b *Budget) SetAssigned(month Month, key CategoryKey, amount Amount) error {
	if start := b.StartMonth(); month.Before(start) {
		return &MonthBeforeStartError{Month: month, Start: start}
	}
	if !b.Spec.HasCategory(key) {
		return &UnknownCategoryError{Key: key, Month: month}
	}
	b.store.Assigned(month).Categories.Set(key, amount)
	b.Recompute(month)
	return nil
}

// SetHeld updates the amount held back from assignment for a month and
// re-derives the chain from that month forward. Held amounts are never
// negative, and the month must not precede the budget start.
func (b *Budget) SetHeld(month Month, amount Amount) error {
	if start := b.StartMonth(); month.Before(start) {
		return &MonthBeforeStartError{Month: month, Start: start}
	}
	if amount.IsNegative() {
		return &NegativeHeldError{Held: amount, Month: month}
	}
	b.store.Assigned(month).Held = amount
	b.Recompute(month)
	return nil
}

// Save writes the assigned amounts back to the spec's storage path.
// In-memory state stays authoritative if the write fails; the caller
// may simply retry.
func (b *Budget) Save() error {
	return b.store.Save(b.Spec.Storage)
}

// withNow pins the wall clock for tests.
func (b *Budget) withNow(month Month) *Budget {
	b.now = func() Month { return month }
	return b
}
