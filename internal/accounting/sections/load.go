package sections

import (
	_ "embed"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// codeWidth is the canonical account code width. Shorter numeric codes are
// zero-padded; longer ones are rejected.
const codeWidth = 4

//go:embed sections.yml
var defaultConfigYAML []byte

type rangeSpec struct {
	From string `yaml:"from" validate:"required"`
	To   string `yaml:"to" validate:"required"`
}

type sectionSpec struct {
	Key       string      `yaml:"key" validate:"required"`
	Label     string      `yaml:"label" validate:"required"`
	Side      string      `yaml:"side"`
	Parent    string      `yaml:"parent"`
	Ranges    []rangeSpec `yaml:"ranges" validate:"dive"`
	Overrides []string    `yaml:"overrides"`
}

type configSpec struct {
	Sections []sectionSpec `yaml:"sections" validate:"required,min=1,dive"`
}

// LoadDefault parses the configuration artifact embedded in the binary.
func LoadDefault() (*Config, error) {
	return Load(defaultConfigYAML)
}

// Load parses and validates a YAML section configuration. Any structural
// defect (duplicate key, unknown side tag, cyclic parent reference,
// overlapping ranges, malformed code) fails here, never at request time.
func Load(data []byte) (*Config, error) {
	var spec configSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, &ConfigError{Reason: err.Error()}
	}
	if err := validator.New().Struct(spec); err != nil {
		return nil, &ConfigError{Reason: err.Error()}
	}

	cfg := &Config{byKey: make(map[string]int, len(spec.Sections))}
	for _, ss := range spec.Sections {
		if _, dup := cfg.byKey[ss.Key]; dup {
			return nil, &ConfigError{Section: ss.Key, Reason: "duplicate section key"}
		}
		side := Side(ss.Side)
		if ss.Side != "" && !side.Valid() {
			return nil, &ConfigError{Section: ss.Key, Reason: fmt.Sprintf("unknown side tag %q", ss.Side)}
		}
		sec := Section{Key: ss.Key, Label: ss.Label, Side: side, Parent: ss.Parent}
		for _, rs := range ss.Ranges {
			r, err := newRange(rs.From, rs.To)
			if err != nil {
				return nil, &ConfigError{Section: ss.Key, Reason: err.Error()}
			}
			sec.Ranges = append(sec.Ranges, r)
		}
		for _, code := range ss.Overrides {
			canon, err := Canonical(code)
			if err != nil {
				return nil, &ConfigError{Section: ss.Key, Reason: err.Error()}
			}
			sec.Overrides = append(sec.Overrides, canon)
		}
		cfg.byKey[sec.Key] = len(cfg.Sections)
		cfg.Sections = append(cfg.Sections, sec)
	}

	if err := checkParents(cfg); err != nil {
		return nil, err
	}
	inheritSides(cfg)
	if err := checkSides(cfg); err != nil {
		return nil, err
	}
	if err := checkOverlaps(cfg); err != nil {
		return nil, err
	}
	if err := checkOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRange(from, to string) (CodeRange, error) {
	fromC, err := Canonical(from)
	if err != nil {
		return CodeRange{}, err
	}
	toC, err := Canonical(to)
	if err != nil {
		return CodeRange{}, err
	}
	fromN, _ := strconv.Atoi(fromC)
	toN, _ := strconv.Atoi(toC)
	if fromN > toN {
		return CodeRange{}, fmt.Errorf("range %s-%s is inverted", from, to)
	}
	return CodeRange{From: fromC, To: toC, fromN: fromN, toN: toN}, nil
}

// Canonical normalises an account code to its zero-padded form.
func Canonical(code string) (string, error) {
	if code == "" {
		return "", fmt.Errorf("empty account code")
	}
	if len(code) > codeWidth {
		return "", fmt.Errorf("account code %q exceeds %d digits", code, codeWidth)
	}
	n, err := strconv.Atoi(code)
	if err != nil || n < 0 {
		return "", fmt.Errorf("account code %q is not numeric", code)
	}
	return fmt.Sprintf("%0*d", codeWidth, n), nil
}

func checkParents(cfg *Config) error {
	for _, s := range cfg.Sections {
		if s.Parent == "" {
			continue
		}
		if _, ok := cfg.byKey[s.Parent]; !ok {
			return &ConfigError{Section: s.Key, Reason: fmt.Sprintf("parent %q is not defined", s.Parent)}
		}
		// Walk up; more hops than sections means a cycle.
		cur := s.Parent
		for i := 0; i <= len(cfg.Sections); i++ {
			if cur == "" {
				break
			}
			if cur == s.Key {
				return &ConfigError{Section: s.Key, Reason: "cyclic parent reference"}
			}
			parent, _ := cfg.Section(cur)
			cur = parent.Parent
		}
	}
	return nil
}

// inheritSides fills an empty side tag from the nearest sided ancestor, so
// child sections only declare a side when they diverge (which checkSides
// then rejects). Runs after checkParents, so the walk cannot cycle.
func inheritSides(cfg *Config) {
	for i := range cfg.Sections {
		if cfg.Sections[i].Side != "" {
			continue
		}
		cur := cfg.Sections[i].Parent
		for cur != "" {
			parent, _ := cfg.Section(cur)
			if parent.Side != "" {
				cfg.Sections[i].Side = parent.Side
				break
			}
			cur = parent.Parent
		}
	}
}

// checkSides requires, after inheritance, that every populated section
// carries a side and that every sided child matches its parent. A section
// without a side would hold balances invisible to side totals, and a nested
// section switching sides would corrupt cumulative totals.
func checkSides(cfg *Config) error {
	for _, s := range cfg.Sections {
		if s.Side == "" && (len(s.Ranges) > 0 || len(s.Overrides) > 0) {
			return &ConfigError{Section: s.Key, Reason: "populated section requires a side tag"}
		}
		if s.Parent == "" || s.Side == "" {
			continue
		}
		parent, _ := cfg.Section(s.Parent)
		if s.Side != parent.Side {
			return &ConfigError{Section: s.Key, Reason: fmt.Sprintf("side %q differs from parent side %q", s.Side, parent.Side)}
		}
	}
	return nil
}

// checkOverlaps rejects configurations where two ranges share a code.
// Declaration order decides ties only between overrides and ranges, never
// between two ranges.
func checkOverlaps(cfg *Config) error {
	type owned struct {
		section string
		r       CodeRange
	}
	var all []owned
	for _, s := range cfg.Sections {
		for _, r := range s.Ranges {
			all = append(all, owned{section: s.Key, r: r})
		}
	}
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[i].r.Overlaps(all[j].r) {
				return &ConfigError{
					Section: all[j].section,
					Reason:  fmt.Sprintf("range %s overlaps range %s of section %q", all[j].r, all[i].r, all[i].section),
				}
			}
		}
	}
	return nil
}

func checkOverrides(cfg *Config) error {
	seen := make(map[string]string)
	for _, s := range cfg.Sections {
		for _, code := range s.Overrides {
			if other, dup := seen[code]; dup {
				return &ConfigError{Section: s.Key, Reason: fmt.Sprintf("override %s already claimed by section %q", code, other)}
			}
			seen[code] = s.Key
		}
	}
	return nil
}
