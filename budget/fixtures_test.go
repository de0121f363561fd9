package budget

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/beancount/ast"
)

const sampleSpecYAML = `
name: Sample budget
ledger: ledger.beancount
storage: budget.json
currency: AUD
start: 2024-12
accounts:
  - Assets:Checking
  - Assets:Savings
groups:
  - name: Living
    categories:
      - name: Rent
        accounts: Expenses:Rent
      - name: Utilities
        accounts:
          - Expenses:Utilities
      - name: Car
        accounts: Expenses:Car:*
  - name: Lifestyle
    categories:
      - name: Eating Out
        accounts: Expenses:Eating-Out
      - name: Hobbies
        accounts: Expenses:Hobbies
  - name: Saving
    categories:
      - name: Investments
        accounts: Assets:Investments
      - name: Rainy Day Fund
        accounts: Assets:Rainy-Day
`

func sampleSpec(t *testing.T) *BudgetSpec {
	t.Helper()
	spec, err := ParseSpec([]byte(sampleSpecYAML))
	assert.NoError(t, err)
	return spec
}

func aud(t *testing.T, value string) Amount {
	t.Helper()
	a, err := NewAmount(value, "AUD")
	assert.NoError(t, err)
	return a
}

func date(t *testing.T, value string) *ast.Date {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	assert.NoError(t, err)
	return &ast.Date{Time: parsed}
}

func posting(account, amount string) *ast.Posting {
	return &ast.Posting{
		Account: ast.Account(account),
		Amount:  &ast.Amount{Value: amount, Currency: "AUD"},
	}
}

func emptyPosting(account string) *ast.Posting {
	return &ast.Posting{Account: ast.Account(account)}
}

func transaction(t *testing.T, day string, postings ...*ast.Posting) *ast.Transaction {
	t.Helper()
	return &ast.Transaction{
		Date:     date(t, day),
		Flag:     "*",
		Postings: postings,
	}
}

// budgetTx builds a classified transaction directly, bypassing the
// ledger, for tests that exercise the totals chain in isolation.
func budgetTx(t *testing.T, spec *BudgetSpec, day, flow string, spending map[CategoryKey]string) *BudgetTransaction {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", day)
	assert.NoError(t, err)
	m := spec.NewCategoryMap()
	for key, value := range spending {
		m.Set(key, aud(t, value))
	}
	return &BudgetTransaction{Date: parsed, Flow: aud(t, flow), Spending: m}
}

// assertAmount compares by decimal value, not representation, so
// "50" and "50.00" are the same amount.
func assertAmount(t *testing.T, expected string, actual Amount) {
	t.Helper()
	assert.True(t, actual.Equal(aud(t, expected)), "expected %s AUD, got %s", expected, actual)
}

// assertCategories checks every category in the spec's domain against
// the expected map; categories absent from expected must be zero.
func assertCategories(t *testing.T, spec *BudgetSpec, expected map[CategoryKey]string, actual *CategoryMap) {
	t.Helper()
	for _, key := range spec.AllCategoryKeys() {
		want, ok := expected[key]
		if !ok {
			want = "0"
		}
		assert.True(t, actual.Get(key).Equal(aud(t, want)),
			"category %s: expected %s AUD, got %s", key, want, actual.Get(key))
	}
}
