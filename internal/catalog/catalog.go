// Package catalog holds the immutable snapshot of known subsidy categories.
// A snapshot is loaded once per run and shared read-only by every matching
// operation; nothing mutates it after New returns.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/rmaragno/sigilo/internal/model"
	"gopkg.in/yaml.v3"
)

// Entry is one curated subsidy category
type Entry struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Examples    []string `json:"examples" yaml:"examples"` // Phrasings seen in past orders
}

// Text is the entry's full lexical surface used for vectorization
func (e Entry) Text() string {
	parts := []string{e.Name, e.Description}
	parts = append(parts, e.Examples...)
	return strings.Join(parts, " ")
}

// Catalog is an immutable, ordered snapshot of entries
type Catalog struct {
	entries []Entry
	byID    map[string]int
}

// New builds a snapshot, rejecting empty or duplicate ids
func New(entries []Entry) (*Catalog, error) {
	byID := make(map[string]int, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("catalog entry %d: empty id", i)
		}
		if _, dup := byID[e.ID]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate id %q", i, e.ID)
		}
		byID[e.ID] = i
	}
	return &Catalog{entries: entries, byID: byID}, nil
}

// Len returns the number of entries
func (c *Catalog) Len() int { return len(c.entries) }

// Entries returns the entries in declaration order. Callers must not mutate.
func (c *Catalog) Entries() []Entry { return c.entries }

// Get looks up an entry by id
func (c *Catalog) Get(id string) (Entry, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Has reports whether id exists in the catalog
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Load reads a YAML catalog file using the configured field mapping.
// Historical catalog files disagree on field casing, so the mapping is
// explicit rather than inferred.
func Load(path string, cfg model.CatalogConfig) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var raw []map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for i, row := range raw {
		e := Entry{
			ID:          stringField(row, cfg.IDField),
			Name:        stringField(row, cfg.NameField),
			Description: stringField(row, cfg.DescField),
		}
		switch v := row[cfg.ExamplesField].(type) {
		case []interface{}:
			for _, it := range v {
				if s, ok := it.(string); ok && s != "" {
					e.Examples = append(e.Examples, s)
				}
			}
		case string:
			// Some catalog exports pack examples into one ;-separated cell
			for _, s := range strings.Split(v, ";") {
				if s = strings.TrimSpace(s); s != "" {
					e.Examples = append(e.Examples, s)
				}
			}
		}
		if e.ID == "" {
			return nil, fmt.Errorf("catalog row %d: missing %q field", i, cfg.IDField)
		}
		entries = append(entries, e)
	}

	return New(entries)
}

func stringField(row map[string]interface{}, key string) string {
	switch v := row[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case int:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return ""
	}
}
