// Package template holds the registry of weekly split templates.
package template

import (
	"fmt"
	"os"

	"github.com/claude/mesoplan/internal/models"
	"gopkg.in/yaml.v3"
)

// Source resolves a split template for a days/goal pair.
type Source interface {
	Lookup(days int, goal models.Goal) (models.SplitTemplate, bool)
}

type key struct {
	days int
	goal models.Goal
}

// Catalog is a fixed registry keyed by (days, goal) with optional per-day
// defaults used when no exact key matches.
type Catalog struct {
	entries   map[key]models.SplitTemplate
	fallbacks map[int]models.SplitTemplate
	order     []key
}

// Compile-time check: *Catalog satisfies Source.
var _ Source = (*Catalog)(nil)

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		entries:   make(map[key]models.SplitTemplate),
		fallbacks: make(map[int]models.SplitTemplate),
	}
}

// Register adds tpl under (days, goal), replacing any previous entry.
func (c *Catalog) Register(days int, goal models.Goal, tpl models.SplitTemplate) {
	k := key{days: days, goal: goal}
	if _, exists := c.entries[k]; !exists {
		c.order = append(c.order, k)
	}
	c.entries[k] = tpl
}

// SetFallback makes tpl the answer for any goal with the given day count
// that has no exact entry.
func (c *Catalog) SetFallback(days int, tpl models.SplitTemplate) {
	c.fallbacks[days] = tpl
}

// Lookup returns the template for (days, goal). When no exact key matches it
// falls back to the per-day default, which ignores the goal. The returned
// template is a deep copy.
func (c *Catalog) Lookup(days int, goal models.Goal) (models.SplitTemplate, bool) {
	if tpl, ok := c.entries[key{days: days, goal: goal}]; ok {
		return clone(tpl), true
	}
	if tpl, ok := c.fallbacks[days]; ok {
		return clone(tpl), true
	}
	return models.SplitTemplate{}, false
}

// Exact reports whether (days, goal) has its own entry, i.e. Lookup would not
// need the goal-agnostic fallback.
func (c *Catalog) Exact(days int, goal models.Goal) bool {
	_, ok := c.entries[key{days: days, goal: goal}]
	return ok
}

// Entry describes one registered template for listings.
type Entry struct {
	Days     int                  `json:"days"`
	Goal     models.Goal          `json:"goal"`
	Template models.SplitTemplate `json:"template"`
}

// Entries lists registered templates in registration order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, Entry{Days: k.days, Goal: k.goal, Template: clone(c.entries[k])})
	}
	return out
}

func clone(tpl models.SplitTemplate) models.SplitTemplate {
	days := make([]models.SplitDay, len(tpl.Days))
	for i, d := range tpl.Days {
		days[i] = models.SplitDay{Name: d.Name, Slots: append([]models.DailySlot(nil), d.Slots...)}
	}
	tpl.Days = days
	return tpl
}

// fileFormat is the YAML layout accepted by LoadFile.
type fileFormat struct {
	Templates []struct {
		Days          int                  `yaml:"days"`
		Goal          models.Goal          `yaml:"goal"`
		DefaultForDay bool                 `yaml:"default_for_days"`
		Template      models.SplitTemplate `yaml:"template"`
	} `yaml:"templates"`
}

// LoadFile reads templates from a YAML file and registers them on top of the
// catalog's existing entries. Goals and slot categories are stored in their
// canonical spelling.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading template file: %w", err)
	}
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing template file: %w", err)
	}
	for i, t := range f.Templates {
		if err := validate(t.Days, t.Template); err != nil {
			return fmt.Errorf("template %d (%q): %w", i, t.Template.Name, err)
		}
		for _, d := range t.Template.Days {
			for si := range d.Slots {
				d.Slots[si].Category, _ = models.ParseCategory(string(d.Slots[si].Category))
			}
		}
		goal, _ := models.NormalizeGoal(string(t.Goal))
		c.Register(t.Days, goal, t.Template)
		if t.DefaultForDay {
			c.SetFallback(t.Days, t.Template)
		}
	}
	return nil
}

func validate(days int, tpl models.SplitTemplate) error {
	if tpl.Name == "" {
		return fmt.Errorf("name is required")
	}
	if days <= 0 {
		return fmt.Errorf("days must be positive")
	}
	for di, d := range tpl.Days {
		for si, s := range d.Slots {
			if _, ok := models.ParseCategory(string(s.Category)); !ok {
				return fmt.Errorf("day %d slot %d: unknown category %q", di, si, s.Category)
			}
		}
	}
	return nil
}
