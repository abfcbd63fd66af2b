package sections

import (
	"sort"
	"strconv"
)

// Index answers code-to-section and section-to-codes queries against one
// loaded Config. It is read-only and safe for concurrent use.
type Index struct {
	cfg       *Config
	overrides map[string]string
}

// NewIndex builds the lookup structures for cfg.
func NewIndex(cfg *Config) *Index {
	idx := &Index{cfg: cfg, overrides: make(map[string]string)}
	for _, s := range cfg.Sections {
		for _, code := range s.Overrides {
			idx.overrides[code] = s.Key
		}
	}
	return idx
}

// Config returns the configuration the index was built from.
func (idx *Index) Config() *Config {
	return idx.cfg
}

// ResolveCode determines the section an account code belongs to. Explicit
// single-code overrides win over range membership; otherwise sections are
// tried in declaration order and the first matching range wins. The second
// return value is false when no override and no range claims the code.
func (idx *Index) ResolveCode(code string) (string, bool) {
	canon, err := Canonical(code)
	if err != nil {
		return "", false
	}
	if key, ok := idx.overrides[canon]; ok {
		return key, true
	}
	n, _ := strconv.Atoi(canon)
	for _, s := range idx.cfg.Sections {
		for _, r := range s.Ranges {
			if r.Contains(n) {
				return s.Key, true
			}
		}
	}
	return "", false
}

// Expand returns every account code configured for the section, in ascending
// order: the section's override codes plus every integer code inside its
// ranges, minus codes claimed by another section's override. A section with
// no ranges and no overrides expands to an empty set; an unknown key is an
// UnknownSectionError, never an empty result.
func (idx *Index) Expand(key string) ([]string, error) {
	sec, ok := idx.cfg.Section(key)
	if !ok {
		return nil, &UnknownSectionError{Key: key}
	}
	codes := make([]string, 0)
	seen := make(map[string]bool)
	emit := func(code string) {
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	for _, r := range sec.Ranges {
		for n := r.fromN; n <= r.toN; n++ {
			code, _ := Canonical(strconv.Itoa(n))
			if owner, overridden := idx.overrides[code]; overridden && owner != key {
				continue
			}
			emit(code)
		}
	}
	for _, code := range sec.Overrides {
		emit(code)
	}
	// Canonical codes are fixed-width, so lexicographic order is numeric order.
	sort.Strings(codes)
	return codes, nil
}
