package budget

// AggregateFunding sums the inferred funding of a batch of transactions
// for one month. Returns zero for an empty batch.
func AggregateFunding(spec *BudgetSpec, txs []*BudgetTransaction) Amount {
	funding := spec.Zero()
	for _, tx := range txs {
		funding = funding.Add(tx.Funding())
	}
	return funding
}

// AggregateSpending sums per-category spending of a batch of
// transactions for one month. Categories never touched stay zero.
func AggregateSpending(spec *BudgetSpec, txs []*BudgetTransaction) *CategoryMap {
	spending := spec.NewCategoryMap()
	for _, tx := range txs {
		for _, key := range tx.Spending.Keys() {
			spending.Add(key, tx.Spending.Get(key))
		}
	}
	return spending
}

// MonthlyTotals holds the inputs needed to derive every budget figure
// for one month. The chain works forward: each month's record inherits
// the previous month's derived to-be-assigned, holding, overspending
// and carryover, then layers this month's funding, spending, holding
// and assignments on top.
//
// Holding and assigned amounts are usually positive; funding is usually
// positive; spending (including overspending) is usually negative.
//
// Everything beyond the stored fields is a pure function of the record,
// recomputed on every access. Nothing derived is cached, so a record
// can never go stale against its inputs.
type MonthlyTotals struct {
	Spec *BudgetSpec

	// Global amounts.
	PreviousTBA          Amount
	PreviousHolding      Amount
	PreviousOverspending Amount
	Funding              Amount
	Holding              Amount

	// Per-category amounts.
	PreviousCarryover *CategoryMap
	Spending          *CategoryMap
	Assigning         *CategoryMap
}

// NewMonthlyTotals builds the totals record for one month from its
// transactions, assignments, and the previous month's already-computed
// record. Pass prev == nil for the first month in scope; all carried
// state then seeds to zero.
func NewMonthlyTotals(spec *BudgetSpec, txs []*BudgetTransaction, holding Amount, assigning *CategoryMap, prev *MonthlyTotals) *MonthlyTotals {
	totals := &MonthlyTotals{
		Spec:      spec,
		Funding:   AggregateFunding(spec, txs),
		Holding:   holding,
		Spending:  AggregateSpending(spec, txs),
		Assigning: assigning,
	}
	if prev == nil {
		totals.PreviousTBA = spec.Zero()
		totals.PreviousHolding = spec.Zero()
		totals.PreviousOverspending = spec.Zero()
		totals.PreviousCarryover = spec.NewCategoryMap()
	} else {
		totals.PreviousTBA = prev.ToBeAssigned()
		totals.PreviousHolding = prev.Holding
		totals.PreviousOverspending = prev.Overspending()
		totals.PreviousCarryover = prev.CarryoverBalances()
	}
	return totals
}

// TotalSpending returns the sum of spending across all categories.
func (t *MonthlyTotals) TotalSpending() Amount {
	return t.Spending.Total()
}

// TotalAssigning returns the sum of assigned amounts across all categories.
func (t *MonthlyTotals) TotalAssigning() Amount {
	return t.Assigning.Total()
}

// CategoryBalances returns carryover + spending + assigning for every
// category in the spec's domain.
func (t *MonthlyTotals) CategoryBalances() *CategoryMap {
	balances := t.Spec.NewCategoryMap()
	for _, key := range t.Spec.AllCategoryKeys() {
		balance := t.PreviousCarryover.Get(key)
		balance = balance.Add(t.Spending.Get(key))
		balance = balance.Add(t.Assigning.Get(key))
		balances.Set(key, balance)
	}
	return balances
}

// CarryoverBalances returns the category balances that roll into next
// month. A negative balance does not carry forward: overspending is
// absorbed into the global to-be-assigned pool instead of leaving the
// category in deficit.
func (t *MonthlyTotals) CarryoverBalances() *CategoryMap {
	balances := t.CategoryBalances()
	for _, key := range balances.Keys() {
		if balances.Get(key).IsNegative() {
			balances.Set(key, t.Spec.Zero())
		}
	}
	return balances
}

// Overspending returns the non-positive sum of all negative category
// balances this month. Zero exactly when no category is in deficit.
func (t *MonthlyTotals) Overspending() Amount {
	overspending := t.Spec.Zero()
	balances := t.CategoryBalances()
	for _, key := range balances.Keys() {
		if balance := balances.Get(key); balance.IsNegative() {
			overspending = overspending.Add(balance)
		}
	}
	return overspending
}

// ToBeAssigned returns the unallocated pool available to assign: last
// month's unassigned, held, and overspending amounts, plus this month's
// funding, minus what has been assigned to categories or held back.
func (t *MonthlyTotals) ToBeAssigned() Amount {
	tba := t.PreviousTBA
	tba = tba.Add(t.PreviousHolding)
	tba = tba.Add(t.PreviousOverspending)
	tba = tba.Add(t.Funding)
	tba = tba.Sub(t.TotalAssigning())
	tba = tba.Sub(t.Holding)
	return tba
}

// GroupAssigned returns the sum of assigned amounts over a group's categories.
func (t *MonthlyTotals) GroupAssigned(group CategoryGroup) Amount {
	total := t.Spec.Zero()
	for _, category := range group.Categories {
		total = total.Add(t.Assigning.Get(category.Key))
	}
	return total
}

// GroupSpending returns the sum of spending over a group's categories.
func (t *MonthlyTotals) GroupSpending(group CategoryGroup) Amount {
	total := t.Spec.Zero()
	for _, category := range group.Categories {
		total = total.Add(t.Spending.Get(category.Key))
	}
	return total
}

// GroupBalance returns the sum of category balances over a group's categories.
func (t *MonthlyTotals) GroupBalance(group CategoryGroup) Amount {
	total := t.Spec.Zero()
	balances := t.CategoryBalances()
	for _, category := range group.Categories {
		total = total.Add(balances.Get(category.Key))
	}
	return total
}
