package budget

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestAggregateEmptyBatch(t *testing.T) {
	spec := sampleSpec(t)
	assert.True(t, AggregateFunding(spec, nil).IsZero())
	assert.True(t, AggregateSpending(spec, nil).IsZero())
}

func TestAggregateFundingAndSpending(t *testing.T) {
	spec := sampleSpec(t)
	txs := []*BudgetTransaction{
		budgetTx(t, spec, "2025-01-01", "1000.00", nil),
		budgetTx(t, spec, "2025-01-05", "-200.00", map[CategoryKey]string{"rent": "-200.00"}),
		budgetTx(t, spec, "2025-01-20", "-77.45", map[CategoryKey]string{"hobbies": "-77.45"}),
	}

	assertAmount(t, "1000.00", AggregateFunding(spec, txs))
	assertCategories(t, spec, map[CategoryKey]string{
		"rent":    "-200.00",
		"hobbies": "-77.45",
	}, AggregateSpending(spec, txs))
}

func firstMonthTotals(t *testing.T, spec *BudgetSpec) *MonthlyTotals {
	t.Helper()
	txs := []*BudgetTransaction{
		budgetTx(t, spec, "2025-01-01", "1000.00", nil),
		budgetTx(t, spec, "2025-01-05", "-200.00", map[CategoryKey]string{"rent": "-200.00"}),
		budgetTx(t, spec, "2025-01-20", "-77.45", map[CategoryKey]string{"hobbies": "-77.45"}),
	}
	assigning := spec.NewCategoryMap()
	assigning.Set("rent", aud(t, "250.00"))
	assigning.Set("hobbies", aud(t, "150.00"))
	assigning.Set("utilities", aud(t, "300.00"))
	return NewMonthlyTotals(spec, txs, aud(t, "55.33"), assigning, nil)
}

func TestTotalsFirstMonth(t *testing.T) {
	spec := sampleSpec(t)
	totals := firstMonthTotals(t, spec)

	assertAmount(t, "1000.00", totals.Funding)
	assertAmount(t, "-277.45", totals.TotalSpending())
	assertAmount(t, "700.00", totals.TotalAssigning())

	assertCategories(t, spec, map[CategoryKey]string{
		"rent":      "50.00",
		"hobbies":   "72.55",
		"utilities": "300.00",
	}, totals.CategoryBalances())

	assert.True(t, totals.Overspending().IsZero())
	// 1000 - 700 assigned - 55.33 held
	assertAmount(t, "244.67", totals.ToBeAssigned())
}

func TestTotalsOverspentCategory(t *testing.T) {
	spec := sampleSpec(t)
	totals := firstMonthTotals(t, spec)
	// Under-assign rent so it ends the month in deficit.
	totals.Assigning.Set("rent", aud(t, "150.00"))

	assertCategories(t, spec, map[CategoryKey]string{
		"rent":      "-50.00",
		"hobbies":   "72.55",
		"utilities": "300.00",
	}, totals.CategoryBalances())

	// The deficit does not carry forward as a category balance; it is
	// pulled out of next month's to-be-assigned pool instead.
	assertCategories(t, spec, map[CategoryKey]string{
		"hobbies":   "72.55",
		"utilities": "300.00",
	}, totals.CarryoverBalances())

	assertAmount(t, "-50.00", totals.Overspending())
	assertAmount(t, "344.67", totals.ToBeAssigned())
}

func TestTotalsCarriedForward(t *testing.T) {
	spec := sampleSpec(t)
	txs := []*BudgetTransaction{
		budgetTx(t, spec, "2025-02-05", "-200.00", map[CategoryKey]string{"rent": "-200.00"}),
		budgetTx(t, spec, "2025-02-20", "-77.45", map[CategoryKey]string{"hobbies": "-77.45"}),
		budgetTx(t, spec, "2025-02-25", "1000.00", nil),
	}
	assigning := spec.NewCategoryMap()
	assigning.Set("rent", aud(t, "250.00"))
	assigning.Set("hobbies", aud(t, "150.00"))
	assigning.Set("utilities", aud(t, "300.00"))

	totals := NewMonthlyTotals(spec, txs, aud(t, "55.33"), assigning, nil)
	totals.PreviousTBA = aud(t, "444.44")
	totals.PreviousHolding = aud(t, "22.00")
	totals.PreviousOverspending = aud(t, "-299.99")
	totals.PreviousCarryover.Set("utilities", aud(t, "20.00"))
	totals.PreviousCarryover.Set("rent", aud(t, "45.00"))

	assertCategories(t, spec, map[CategoryKey]string{
		"rent":      "95.00",
		"hobbies":   "72.55",
		"utilities": "320.00",
	}, totals.CategoryBalances())

	// 444.44 + 22.00 - 299.99 + 1000 - 700 - 55.33
	assertAmount(t, "411.12", totals.ToBeAssigned())
}

func TestTotalsChaining(t *testing.T) {
	spec := sampleSpec(t)
	prev := firstMonthTotals(t, spec)

	txs := []*BudgetTransaction{
		budgetTx(t, spec, "2025-02-05", "-220.00", map[CategoryKey]string{"rent": "-220.00"}),
	}
	assigning := spec.NewCategoryMap()
	assigning.Set("rent", aud(t, "200.00"))
	totals := NewMonthlyTotals(spec, txs, spec.Zero(), assigning, prev)

	assertAmount(t, "244.67", totals.PreviousTBA)
	assertAmount(t, "55.33", totals.PreviousHolding)
	assert.True(t, totals.PreviousOverspending.IsZero())
	assertCategories(t, spec, map[CategoryKey]string{
		"rent":      "50.00",
		"hobbies":   "72.55",
		"utilities": "300.00",
	}, totals.PreviousCarryover)

	// 50 carried + 200 assigned - 220 spent
	assertCategories(t, spec, map[CategoryKey]string{
		"rent":      "30.00",
		"hobbies":   "72.55",
		"utilities": "300.00",
	}, totals.CategoryBalances())

	// 244.67 + 55.33 + 0 - 200
	assertAmount(t, "100.00", totals.ToBeAssigned())
}

func TestTotalsGroupRollups(t *testing.T) {
	spec := sampleSpec(t)
	totals := firstMonthTotals(t, spec)

	living := spec.Groups[0]
	assert.Equal(t, "Living", living.Name)
	assertAmount(t, "550.00", totals.GroupAssigned(living))
	assertAmount(t, "-200.00", totals.GroupSpending(living))
	assertAmount(t, "350.00", totals.GroupBalance(living))

	lifestyle := spec.Groups[1]
	assertAmount(t, "150.00", totals.GroupAssigned(lifestyle))
	assertAmount(t, "-77.45", totals.GroupSpending(lifestyle))
	assertAmount(t, "72.55", totals.GroupBalance(lifestyle))

	saving := spec.Groups[2]
	assert.True(t, totals.GroupAssigned(saving).IsZero())
	assert.True(t, totals.GroupSpending(saving).IsZero())
	assert.True(t, totals.GroupBalance(saving).IsZero())
}
