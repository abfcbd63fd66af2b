package sections

import "fmt"

// Side enumerates the statement side a section reports on.
type Side string

const (
	SideAktiva  Side = "aktiva"
	SidePassiva Side = "passiva"
	SideRevenue Side = "revenue"
	SideExpense Side = "expense"
)

// Valid reports whether the side tag is one of the known values.
func (s Side) Valid() bool {
	switch s {
	case SideAktiva, SidePassiva, SideRevenue, SideExpense:
		return true
	}
	return false
}

// CodeRange is an inclusive interval of account codes. Bounds are kept in
// canonical zero-padded form; comparison happens on their integer values.
type CodeRange struct {
	From string
	To   string

	fromN int
	toN   int
}

// Contains reports whether the numeric value of code falls inside the range.
func (r CodeRange) Contains(code int) bool {
	return code >= r.fromN && code <= r.toN
}

// Overlaps reports whether two ranges share at least one code.
func (r CodeRange) Overlaps(o CodeRange) bool {
	return r.fromN <= o.toN && o.fromN <= r.toN
}

func (r CodeRange) String() string {
	return fmt.Sprintf("%s-%s", r.From, r.To)
}

// Section is one node of the statement taxonomy. Ranges and overrides are
// frozen at load time and never mutated during a computation.
type Section struct {
	Key       string
	Label     string
	Side      Side
	Parent    string
	Ranges    []CodeRange
	Overrides []string
}

// Config is the immutable section taxonomy for one chart of accounts.
// Order of Sections is declaration order and is significant: range matching
// walks it front to back, first match wins.
type Config struct {
	Sections []Section

	byKey map[string]int
}

// Section returns the section for key.
func (c *Config) Section(key string) (Section, bool) {
	idx, ok := c.byKey[key]
	if !ok {
		return Section{}, false
	}
	return c.Sections[idx], true
}

// Children returns the keys of the direct children of key, in declaration order.
func (c *Config) Children(key string) []string {
	var out []string
	for _, s := range c.Sections {
		if s.Parent == key {
			out = append(out, s.Key)
		}
	}
	return out
}

// Roots returns the keys of all sections without a parent, restricted to one
// side, in declaration order.
func (c *Config) Roots(side Side) []string {
	var out []string
	for _, s := range c.Sections {
		if s.Parent == "" && s.Side == side {
			out = append(out, s.Key)
		}
	}
	return out
}
