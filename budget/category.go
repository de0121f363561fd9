package budget

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// CategoryKey uniquely identifies a category across all groups.
// Keys are slugs derived from category names, e.g. "Eating Out" -> "eating-out".
type CategoryKey = string

// AccountSet matches a set of beancount accounts. Entries are either
// exact account names or prefix patterns ending in ":*", which match
// the prefix account and everything below it:
//
//	Assets:Checking       matches only that account
//	Assets:Off-Budget:*   matches Assets:Off-Budget and all sub-accounts
type AccountSet struct {
	entries []string
}

// NewAccountSet creates an AccountSet from a list of account entries.
func NewAccountSet(entries ...string) AccountSet {
	return AccountSet{entries: entries}
}

// Contains reports whether the account matches any entry in the set.
func (s AccountSet) Contains(account string) bool {
	for _, entry := range s.entries {
		if prefix, ok := strings.CutSuffix(entry, ":*"); ok {
			if account == prefix || strings.HasPrefix(account, prefix+":") {
				return true
			}
			continue
		}
		if account == entry {
			return true
		}
	}
	return false
}

// Entries returns the raw account entries.
func (s AccountSet) Entries() []string {
	return s.entries
}

// UnmarshalYAML implements yaml.Unmarshaler. Accepts either a single
// account string or a list of accounts, matching the spec file format.
func (s *AccountSet) UnmarshalYAML(node *yaml.Node) error {
	var single string
	if err := node.Decode(&single); err == nil {
		s.entries = []string{single}
		return nil
	}
	var many []string
	if err := node.Decode(&many); err != nil {
		return err
	}
	s.entries = many
	return nil
}

// Category represents a single budget ("spending") category. Ledger
// accounts matched by Accounts have their postings attributed to this
// category's spending.
type Category struct {
	Name     string     `yaml:"name"`
	Accounts AccountSet `yaml:"accounts"`

	// Key is derived from Name at load time and is unique across all groups.
	Key CategoryKey `yaml:"-"`
}

// UnmarshalYAML implements yaml.Unmarshaler and derives the category key
// from the name.
func (c *Category) UnmarshalYAML(node *yaml.Node) error {
	type plain Category
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*c = Category(p)
	c.Key = slug.Make(c.Name)
	return nil
}

// CategoryGroup represents a named, ordered group of categories.
// Grouping only affects presentation and rollups, never per-category math.
type CategoryGroup struct {
	Name       string     `yaml:"name"`
	Categories []Category `yaml:"categories"`
}

// CategoryMap maps category keys to amounts over the fixed domain of
// keys defined by a budget spec. Reads of in-domain keys that were
// never written return the currency's zero amount; reads or writes of
// keys outside the domain panic, so an unknown category can never be
// created silently. Callers taking keys from external input must
// validate them against the spec first (see Budget.SetAssigned and
// LoadStore).
type CategoryMap struct {
	zero   Amount
	domain map[CategoryKey]struct{}
	values map[CategoryKey]Amount
}

func newCategoryMap(zero Amount, domain map[CategoryKey]struct{}) *CategoryMap {
	return &CategoryMap{
		zero:   zero,
		domain: domain,
		values: make(map[CategoryKey]Amount),
	}
}

func (m *CategoryMap) checkKey(key CategoryKey) {
	if _, ok := m.domain[key]; !ok {
		panic(fmt.Sprintf("unknown budget category %q", key))
	}
}

// Get returns the amount for a category, or zero if never set.
// Panics if the key is outside the spec's category domain.
func (m *CategoryMap) Get(key CategoryKey) Amount {
	m.checkKey(key)
	if v, ok := m.values[key]; ok {
		return v
	}
	return m.zero
}

// Set stores the amount for a category.
// Panics if the key is outside the spec's category domain.
func (m *CategoryMap) Set(key CategoryKey, amount Amount) {
	m.checkKey(key)
	m.values[key] = amount
}

// Add adds the amount into a category's value.
func (m *CategoryMap) Add(key CategoryKey, amount Amount) {
	m.Set(key, m.Get(key).Add(amount))
}

// Sub subtracts the amount from a category's value.
func (m *CategoryMap) Sub(key CategoryKey, amount Amount) {
	m.Set(key, m.Get(key).Sub(amount))
}

// Has reports whether the key is inside the map's domain.
func (m *CategoryMap) Has(key CategoryKey) bool {
	_, ok := m.domain[key]
	return ok
}

// Keys returns the keys with explicitly set values, sorted for
// deterministic iteration.
func (m *CategoryMap) Keys() []CategoryKey {
	keys := make([]CategoryKey, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Total returns the sum of all values in the map.
func (m *CategoryMap) Total() Amount {
	total := m.zero
	for _, k := range m.Keys() {
		total = total.Add(m.values[k])
	}
	return total
}

// IsZero returns true if every value in the map is zero.
func (m *CategoryMap) IsZero() bool {
	for _, v := range m.values {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

// Clone returns a copy sharing the domain but not the values.
func (m *CategoryMap) Clone() *CategoryMap {
	c := newCategoryMap(m.zero, m.domain)
	for k, v := range m.values {
		c.values[k] = v
	}
	return c
}
