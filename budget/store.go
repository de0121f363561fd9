package budget

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/slices"
)

// AssignedAmounts holds the user-editable inputs for one month: the
// amount held back from assignment and the per-category assigned
// amounts. Held is never negative.
type AssignedAmounts struct {
	Held       Amount
	Categories *CategoryMap
}

// Store holds the editable side of the budget: the per-month assigned
// amounts, keyed by month. In contrast to the read-only BudgetSpec this
// data is mutable and persisted to disk as JSON.
type Store struct {
	spec     *BudgetSpec
	assigned map[Month]*AssignedAmounts
}

// storeFile is the persisted JSON layout. Amounts are decimal strings
// in the spec's currency; zero-valued entries are omitted on save.
type storeFile struct {
	Assigned map[string]storeMonth `json:"assigned"`
}

type storeMonth struct {
	Held       string            `json:"held,omitempty"`
	Categories map[string]string `json:"categories,omitempty"`
}

// NewStore creates an empty store for the given spec.
func NewStore(spec *BudgetSpec) *Store {
	return &Store{
		spec:     spec,
		assigned: make(map[Month]*AssignedAmounts),
	}
}

// LoadStore reads persisted assigned amounts from a JSON file. A
// missing file yields an empty store; missing months or categories
// default to zero. A category key outside the spec's domain or a
// negative held amount is rejected.
func LoadStore(path string, spec *BudgetSpec) (*Store, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewStore(spec), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read budget store %s: %w", path, err)
	}

	var file storeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid budget store %s: %w", path, err)
	}

	store := NewStore(spec)
	for monthStr, record := range file.Assigned {
		month, err := ParseMonth(monthStr)
		if err != nil {
			return nil, fmt.Errorf("invalid budget store %s: %w", path, err)
		}

		held := spec.Zero()
		if record.Held != "" {
			held, err = NewAmount(record.Held, spec.Currency)
			if err != nil {
				return nil, fmt.Errorf("invalid budget store %s: %w", path, err)
			}
		}
		if held.IsNegative() {
			return nil, &NegativeHeldError{Held: held, Month: month}
		}

		categories := spec.NewCategoryMap()
		for key, value := range record.Categories {
			if !spec.HasCategory(key) {
				return nil, &UnknownCategoryError{Key: key, Month: month}
			}
			amount, err := NewAmount(value, spec.Currency)
			if err != nil {
				return nil, fmt.Errorf("invalid budget store %s: %w", path, err)
			}
			categories.Set(key, amount)
		}

		store.assigned[month] = &AssignedAmounts{Held: held, Categories: categories}
	}

	return store, nil
}

// Assigned returns the assigned amounts for a month, creating a
// zero-valued record if the month has never been touched. Records that
// remain entirely zero are pruned again on save.
func (s *Store) Assigned(month Month) *AssignedAmounts {
	if record, ok := s.assigned[month]; ok {
		return record
	}
	record := &AssignedAmounts{
		Held:       s.spec.Zero(),
		Categories: s.spec.NewCategoryMap(),
	}
	s.assigned[month] = record
	return record
}

// Months returns the months with a stored record, sorted ascending.
func (s *Store) Months() []Month {
	months := make([]Month, 0, len(s.assigned))
	for month := range s.assigned {
		months = append(months, month)
	}
	slices.SortFunc(months, func(a, b Month) int { return a.Sub(b) })
	return months
}

// LatestMonth returns the latest month carrying a non-zero record.
// Returns false if the store holds no meaningful data at all.
func (s *Store) LatestMonth() (Month, bool) {
	s.Prune()
	months := s.Months()
	if len(months) == 0 {
		return Month{}, false
	}
	return months[len(months)-1], true
}

// Prune removes months whose record is entirely zero, keeping the
// persisted form minimal and diff-friendly.
func (s *Store) Prune() {
	for month, record := range s.assigned {
		if record.Held.IsZero() && record.Categories.IsZero() {
			delete(s.assigned, month)
		}
	}
}

// Save persists the store to a JSON file. Zero-valued months and
// category entries are omitted. The file is written to a temp path and
// renamed into place so a failed write never leaves partial state.
func (s *Store) Save(path string) error {
	s.Prune()

	file := storeFile{Assigned: make(map[string]storeMonth)}
	for month, record := range s.assigned {
		entry := storeMonth{}
		if !record.Held.IsZero() {
			entry.Held = record.Held.Number.String()
		}
		for _, key := range record.Categories.Keys() {
			amount := record.Categories.Get(key)
			if amount.IsZero() {
				continue
			}
			if entry.Categories == nil {
				entry.Categories = make(map[string]string)
			}
			entry.Categories[key] = amount.Number.String()
		}
		file.Assigned[month.String()] = entry
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode budget store: %w", err)
	}
	data = append(data, '\n')

	tempPath := filepath.Join(filepath.Dir(path), filepath.Base(path)+".write")
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write budget store: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to replace budget store: %w", err)
	}

	return nil
}
