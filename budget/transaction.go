package budget

import (
	"time"

	"github.com/robinvdvleuten/beancount/ast"
	"github.com/shopspring/decimal"
)

// BudgetTransaction is the budget-relevant view of a single ledger
// transaction. Spending represents money leaving the budget and is
// conventionally negative.
//
// Governed by the equation flow(+/-) = funding(+) + spending(-):
// funding is never posted directly, it is whatever part of the flow is
// not already explained by spending in a tracked category. Untracked
// income therefore nets out as funding without any extra configuration.
type BudgetTransaction struct {
	Date     time.Time
	Flow     Amount
	Spending *CategoryMap
}

// TotalSpending returns the sum of spending across all categories.
func (tx *BudgetTransaction) TotalSpending() Amount {
	return tx.Spending.Total()
}

// Funding returns the portion of the flow not explained by category
// spending. Conservation holds exactly: Funding + TotalSpending == Flow.
func (tx *BudgetTransaction) Funding() Amount {
	return tx.Flow.Sub(tx.TotalSpending())
}

// Month returns the month the transaction falls into.
func (tx *BudgetTransaction) Month() Month {
	return MonthOf(tx.Date)
}

func postingAmount(txn *ast.Transaction, posting *ast.Posting) (Amount, error) {
	if posting.Amount == nil {
		return Amount{}, &NullPostingError{
			Account: string(posting.Account),
			Pos:     txn.Pos,
			Date:    txn.Date,
		}
	}
	number, err := decimal.NewFromString(posting.Amount.Value)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Number: number, Currency: posting.Amount.Currency}, nil
}

// ConvertTransaction classifies one ledger transaction into a
// BudgetTransaction. It returns (nil, nil) when the transaction carries
// no net flow through budget accounts (a pure transfer, on or off
// budget) and is therefore irrelevant to the budget.
//
// Postings are scanned twice: first to accumulate the net flow through
// budget accounts, then to attribute category spending. Spending is
// negated from the raw posting so that money leaving the budget is
// recorded negative.
func ConvertTransaction(spec *BudgetSpec, txn *ast.Transaction) (*BudgetTransaction, error) {
	flow := spec.Zero()
	budgetAccounts := make(map[string]bool)
	for _, posting := range txn.Postings {
		if !spec.IsBudgetAccount(string(posting.Account)) {
			continue
		}
		amount, err := postingAmount(txn, posting)
		if err != nil {
			return nil, err
		}
		budgetAccounts[string(posting.Account)] = true
		flow = flow.Add(amount)
	}

	// No net inflow or outflow means the transaction isn't relevant
	// to the budget at all.
	if flow.IsZero() {
		return nil, nil
	}

	spending := spec.NewCategoryMap()
	for _, posting := range txn.Postings {
		key, err := spec.Classify(string(posting.Account))
		if err != nil {
			return nil, err
		}
		if key == "" {
			continue
		}
		if budgetAccounts[string(posting.Account)] {
			return nil, &CategoryConflictError{
				Account: string(posting.Account),
				Key:     key,
				Pos:     txn.Pos,
				Date:    txn.Date,
			}
		}
		amount, err := postingAmount(txn, posting)
		if err != nil {
			return nil, err
		}
		spending.Sub(key, amount)
	}

	tx := &BudgetTransaction{Date: txn.Date.Time, Flow: flow, Spending: spending}
	if tx.Funding().IsNegative() {
		return nil, &NegativeFundingError{
			Funding: tx.Funding(),
			Pos:     txn.Pos,
			Date:    txn.Date,
		}
	}

	return tx, nil
}
