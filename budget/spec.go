package budget

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BudgetSpec defines the accounts, categories, and other metadata for a
// budget. It contains no transaction or assignment data, just the
// structure: which ledger accounts are "on budget", how spending
// accounts map onto categories, and which currency and starting month
// the budget operates in.
//
// A spec is loaded once from a YAML file and is immutable afterwards.
// Every other component reads it; none of them mutate it.
type BudgetSpec struct {
	Name     string          `yaml:"name"`
	Ledger   string          `yaml:"ledger"`
	Storage  string          `yaml:"storage"`
	Currency string          `yaml:"currency"`
	Start    Month           `yaml:"start"`
	Accounts AccountSet      `yaml:"accounts"`
	Groups   []CategoryGroup `yaml:"groups"`

	categoryKeys []CategoryKey
	domain       map[CategoryKey]struct{}
}

// LoadSpec reads and validates a budget spec from a YAML file. The
// ledger and storage paths inside the file are resolved relative to the
// spec file's own directory, never the process working directory.
func LoadSpec(path string) (*BudgetSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read budget spec %s: %w", path, err)
	}

	spec, err := ParseSpec(data)
	if err != nil {
		return nil, fmt.Errorf("invalid budget spec %s: %w", path, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", path, err)
	}
	baseDir := filepath.Dir(absPath)
	if !filepath.IsAbs(spec.Ledger) {
		spec.Ledger = filepath.Join(baseDir, spec.Ledger)
	}
	if !filepath.IsAbs(spec.Storage) {
		spec.Storage = filepath.Join(baseDir, spec.Storage)
	}

	return spec, nil
}

// ParseSpec parses and validates budget spec YAML. Paths are left as
// written; use LoadSpec to resolve them against the spec file location.
func ParseSpec(data []byte) (*BudgetSpec, error) {
	var spec BudgetSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, err
	}

	if spec.Currency == "" {
		return nil, fmt.Errorf("budget spec is missing a currency")
	}
	if spec.Start == (Month{}) {
		spec.Start = CurrentMonth()
	}

	// Category keys must be unique across all groups.
	spec.domain = make(map[CategoryKey]struct{})
	for _, group := range spec.Groups {
		for _, category := range group.Categories {
			if _, ok := spec.domain[category.Key]; ok {
				return nil, &DuplicateCategoryError{Key: category.Key}
			}
			spec.domain[category.Key] = struct{}{}
			spec.categoryKeys = append(spec.categoryKeys, category.Key)
		}
	}

	return &spec, nil
}

// Zero returns the zero amount in the spec's currency.
func (s *BudgetSpec) Zero() Amount {
	return Zero(s.Currency)
}

// AllCategoryKeys returns every category key in group order.
func (s *BudgetSpec) AllCategoryKeys() []CategoryKey {
	return s.categoryKeys
}

// HasCategory reports whether the key names a category in this spec.
func (s *BudgetSpec) HasCategory(key CategoryKey) bool {
	_, ok := s.domain[key]
	return ok
}

// NewCategoryMap returns an empty CategoryMap over the spec's category
// domain, defaulting every key to the spec currency's zero.
func (s *BudgetSpec) NewCategoryMap() *CategoryMap {
	return newCategoryMap(s.Zero(), s.domain)
}

// IsBudgetAccount reports whether the ledger account is on budget.
func (s *BudgetSpec) IsBudgetAccount(account string) bool {
	return s.Accounts.Contains(account)
}

// Classify maps a ledger account to the category it belongs to.
// Returns ("", nil) if the account is not tracked by any category.
// An account matching categories in more than one place is a
// configuration error reported as AmbiguousCategoryError.
func (s *BudgetSpec) Classify(account string) (CategoryKey, error) {
	var found CategoryKey
	for _, group := range s.Groups {
		for _, category := range group.Categories {
			if !category.Accounts.Contains(account) {
				continue
			}
			if found != "" {
				return "", &AmbiguousCategoryError{Account: account, First: found, Second: category.Key}
			}
			found = category.Key
		}
	}
	return found, nil
}
