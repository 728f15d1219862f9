package breathing

import "fmt"

// Built-in pattern names
const (
	PatternRelaxing478 = "4-7-8 Relaxing Breath"
	PatternBox         = "Box Breathing"
	PatternEnergizing  = "Energizing Breath"
)

// builtinPatterns is the compiled-in catalog, in display order
var builtinPatterns = []Pattern{
	{
		Name:        PatternRelaxing478,
		Description: "Inhale for 4, hold for 7, exhale for 8. Great for reducing anxiety.",
		Inhale:      4,
		Hold:        7,
		Exhale:      8,
		Cycles:      4,
	},
	{
		Name:            PatternBox,
		Description:     "Equal counts for inhale, hold, exhale, hold. Perfect for focus.",
		Inhale:          4,
		Hold:            4,
		Exhale:          4,
		HoldAfterExhale: 4,
		Cycles:          6,
	},
	{
		Name:        PatternEnergizing,
		Description: "Quick energizing pattern to boost alertness.",
		Inhale:      3,
		Hold:        2,
		Exhale:      3,
		Cycles:      8,
	},
}

// Catalog is an immutable, validated, ordered set of patterns with unique names
type Catalog struct {
	patterns []Pattern
	byName   map[string]int
}

// NewCatalog validates every pattern and rejects duplicate names
func NewCatalog(patterns []Pattern) (*Catalog, error) {
	c := &Catalog{
		patterns: make([]Pattern, 0, len(patterns)),
		byName:   make(map[string]int, len(patterns)),
	}
	for _, p := range patterns {
		if err := Validate(p); err != nil {
			return nil, err
		}
		if p.Name == "" {
			return nil, &PatternError{Field: "name", Message: "name is required"}
		}
		if _, exists := c.byName[p.Name]; exists {
			return nil, &PatternError{Pattern: p.Name, Field: "name", Message: "duplicate pattern name"}
		}
		c.byName[p.Name] = len(c.patterns)
		c.patterns = append(c.patterns, p)
	}
	return c, nil
}

// DefaultCatalog returns the built-in catalog. The built-ins are validated here
// and a failure is a programming error.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(builtinPatterns)
	if err != nil {
		panic(fmt.Sprintf("breathing: built-in catalog is invalid: %v", err))
	}
	return c
}

// With returns a new catalog holding this catalog's patterns followed by extra
func (c *Catalog) With(extra ...Pattern) (*Catalog, error) {
	all := make([]Pattern, 0, len(c.patterns)+len(extra))
	all = append(all, c.patterns...)
	all = append(all, extra...)
	return NewCatalog(all)
}

// List returns the patterns in catalog order. The returned slice is a copy.
func (c *Catalog) List() []Pattern {
	result := make([]Pattern, len(c.patterns))
	copy(result, c.patterns)
	return result
}

// Len returns the number of patterns
func (c *Catalog) Len() int {
	return len(c.patterns)
}

// At returns the pattern at index i
func (c *Catalog) At(i int) (Pattern, bool) {
	if i < 0 || i >= len(c.patterns) {
		return Pattern{}, false
	}
	return c.patterns[i], true
}

// Lookup finds a pattern by name
func (c *Catalog) Lookup(name string) (Pattern, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Pattern{}, false
	}
	return c.patterns[i], true
}

// IndexOf returns the catalog position of the named pattern, or -1
func (c *Catalog) IndexOf(name string) int {
	if i, ok := c.byName[name]; ok {
		return i
	}
	return -1
}
