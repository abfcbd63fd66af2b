package sections

import (
	"errors"
	"strings"
	"testing"

	_ "github.com/abschluss-erp/abschluss-erp/testing"
)

func TestLoadDefaultConfig(t *testing.T) {
	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("embedded configuration must load: %v", err)
	}
	if len(cfg.Sections) == 0 {
		t.Fatal("expected sections in the default configuration")
	}
	if _, ok := cfg.Section("eigenkapital"); !ok {
		t.Fatal("default configuration must define eigenkapital")
	}
	if roots := cfg.Roots(SideAktiva); len(roots) == 0 {
		t.Fatal("expected aktiva root sections")
	}
}

func TestLoadRejectsDuplicateKey(t *testing.T) {
	_, err := Load([]byte(`
sections:
  - key: kasse
    label: Kasse
    side: aktiva
    ranges: [{ from: "1000", to: "1099" }]
  - key: kasse
    label: Kasse again
    side: aktiva
    ranges: [{ from: "1100", to: "1199" }]
`))
	assertConfigError(t, err, "duplicate")
}

func TestLoadRejectsUnknownSide(t *testing.T) {
	_, err := Load([]byte(`
sections:
  - key: kasse
    label: Kasse
    side: sideways
    ranges: [{ from: "1000", to: "1099" }]
`))
	assertConfigError(t, err, "unknown side")
}

func TestLoadRejectsCyclicParents(t *testing.T) {
	_, err := Load([]byte(`
sections:
  - key: a
    label: A
    side: aktiva
    parent: b
  - key: b
    label: B
    side: aktiva
    parent: a
`))
	assertConfigError(t, err, "cyclic")
}

func TestLoadRejectsOverlappingRanges(t *testing.T) {
	_, err := Load([]byte(`
sections:
  - key: kasse
    label: Kasse
    side: aktiva
    ranges: [{ from: "1000", to: "1199" }]
  - key: bank
    label: Bank
    side: aktiva
    ranges: [{ from: "1100", to: "1299" }]
`))
	assertConfigError(t, err, "overlap")
}

func TestLoadRejectsInvertedRange(t *testing.T) {
	_, err := Load([]byte(`
sections:
  - key: kasse
    label: Kasse
    side: aktiva
    ranges: [{ from: "1099", to: "1000" }]
`))
	assertConfigError(t, err, "inverted")
}

func TestLoadRejectsNonNumericCode(t *testing.T) {
	_, err := Load([]byte(`
sections:
  - key: kasse
    label: Kasse
    side: aktiva
    ranges: [{ from: "10A0", to: "1099" }]
`))
	assertConfigError(t, err, "not numeric")
}

func TestLoadRejectsDoubleClaimedOverride(t *testing.T) {
	_, err := Load([]byte(`
sections:
  - key: kapital
    label: Kapital
    side: passiva
    overrides: ["0800"]
  - key: sonderposten
    label: Sonderposten
    side: passiva
    overrides: ["0800"]
`))
	assertConfigError(t, err, "already claimed")
}

func TestLoadRejectsUndefinedParent(t *testing.T) {
	_, err := Load([]byte(`
sections:
  - key: kasse
    label: Kasse
    side: aktiva
    parent: umlaufvermoegen
    ranges: [{ from: "1000", to: "1099" }]
`))
	assertConfigError(t, err, "not defined")
}

func TestLoadRejectsChildOnOtherSide(t *testing.T) {
	_, err := Load([]byte(`
sections:
  - key: vermoegen
    label: Vermögen
    side: aktiva
  - key: schulden
    label: Schulden
    side: passiva
    parent: vermoegen
    ranges: [{ from: "1600", to: "1699" }]
`))
	assertConfigError(t, err, "differs from parent")
}

func TestLoadChildInheritsParentSide(t *testing.T) {
	cfg, err := Load([]byte(`
sections:
  - key: erloese
    label: Erlöse
    side: revenue
  - key: handelserloese
    label: Handelserlöse
    parent: erloese
    ranges: [{ from: "8000", to: "8099" }]
`))
	if err != nil {
		t.Fatalf("side-less child under a sided parent must load: %v", err)
	}
	sec, ok := cfg.Section("handelserloese")
	if !ok {
		t.Fatal("section handelserloese must exist")
	}
	if sec.Side != SideRevenue {
		t.Fatalf("expected inherited side revenue, got %q", sec.Side)
	}
}

func TestLoadRejectsPopulatedSectionWithoutSide(t *testing.T) {
	_, err := Load([]byte(`
sections:
  - key: gruppe
    label: Gruppe
  - key: konten
    label: Konten
    parent: gruppe
    ranges: [{ from: "8000", to: "8099" }]
`))
	assertConfigError(t, err, "requires a side tag")
}

func TestLoadRejectsSidedChildUnderSidelessParent(t *testing.T) {
	_, err := Load([]byte(`
sections:
  - key: gruppe
    label: Gruppe
  - key: konten
    label: Konten
    side: revenue
    parent: gruppe
    ranges: [{ from: "8000", to: "8099" }]
`))
	assertConfigError(t, err, "differs from parent")
}

func TestCanonicalZeroPads(t *testing.T) {
	got, err := Canonical("800")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0800" {
		t.Fatalf("expected 0800 got %s", got)
	}
	if _, err := Canonical("12345"); err == nil {
		t.Fatal("expected error for over-long code")
	}
	if _, err := Canonical(""); err == nil {
		t.Fatal("expected error for empty code")
	}
}

func assertConfigError(t *testing.T, err error, fragment string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a configuration error")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %T: %v", err, err)
	}
	if fragment != "" && !strings.Contains(err.Error(), fragment) {
		t.Fatalf("error %q does not mention %q", err.Error(), fragment)
	}
}
