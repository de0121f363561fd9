package budget

import (
	"fmt"

	"github.com/robinvdvleuten/beancount/ast"
)

// Error types for budget configuration, classification and mutation errors.

// DuplicateCategoryError is returned when two categories in the spec
// slug to the same key, across any pair of groups.
type DuplicateCategoryError struct {
	Key CategoryKey
}

func (e *DuplicateCategoryError) Error() string {
	return fmt.Sprintf("duplicate category key %q", e.Key)
}

// AmbiguousCategoryError is returned when a ledger account matches
// categories in more than one place in the spec.
type AmbiguousCategoryError struct {
	Account string
	First   CategoryKey
	Second  CategoryKey
}

func (e *AmbiguousCategoryError) Error() string {
	return fmt.Sprintf("account %s fits in multiple categories: %s and %s",
		e.Account, e.First, e.Second)
}

// location formats the transaction context for a classification error,
// preferring the source position when the parser recorded one.
func location(pos ast.Position, date *ast.Date) string {
	if pos.Filename != "" {
		return fmt.Sprintf("%s:%d", pos.Filename, pos.Line)
	}
	if date != nil {
		return date.Format("2006-01-02")
	}
	return "<unknown>"
}

// NullPostingError is returned when a budget-relevant or
// category-relevant posting carries no amount.
type NullPostingError struct {
	Account string
	Pos     ast.Position
	Date    *ast.Date
}

func (e *NullPostingError) Error() string {
	return fmt.Sprintf("%s: posting to %s has no amount but is budget-relevant",
		location(e.Pos, e.Date), e.Account)
}

// CategoryConflictError is returned when an account acts as both a
// budget account and a category account within the same transaction.
type CategoryConflictError struct {
	Account string
	Key     CategoryKey
	Pos     ast.Position
	Date    *ast.Date
}

func (e *CategoryConflictError) Error() string {
	return fmt.Sprintf("%s: account %s cannot be both a budget account and mapped to category %q",
		location(e.Pos, e.Date), e.Account, e.Key)
}

// NegativeFundingError is returned when a transaction's inferred
// funding comes out below zero, meaning money appears to leave budget
// accounts beyond what tracked categories explain. This usually
// indicates a miscategorized account.
type NegativeFundingError struct {
	Funding Amount
	Pos     ast.Position
	Date    *ast.Date
}

func (e *NegativeFundingError) Error() string {
	return fmt.Sprintf("%s: transaction has negative inferred funding %s",
		location(e.Pos, e.Date), e.Funding)
}

// UnknownCategoryError is returned when an assignment names a category
// key outside the spec's domain, either in persisted store data or in
// a mutation call.
type UnknownCategoryError struct {
	Key   CategoryKey
	Month Month
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("assigned amount for non-existent category %q in %s", e.Key, e.Month)
}

// MonthBeforeStartError is returned when a mutation names a month
// before the first month of the budget. Earlier months have no totals
// record, so an edit there could never be reflected anywhere.
type MonthBeforeStartError struct {
	Month Month
	Start Month
}

func (e *MonthBeforeStartError) Error() string {
	return fmt.Sprintf("cannot edit %s, the budget starts in %s", e.Month, e.Start)
}

// NegativeHeldError is returned when a held amount is set or loaded
// below zero.
type NegativeHeldError struct {
	Held  Amount
	Month Month
}

func (e *NegativeHeldError) Error() string {
	return fmt.Sprintf("held amount %s for %s cannot be negative", e.Held, e.Month)
}
