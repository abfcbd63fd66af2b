package sections

import "fmt"

// ConfigError reports a malformed section configuration. It is raised at load
// time only; a Config that loaded successfully never produces one.
type ConfigError struct {
	Section string
	Reason  string
}

func (e *ConfigError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("sections: invalid configuration: %s", e.Reason)
	}
	return fmt.Sprintf("sections: invalid configuration for %q: %s", e.Section, e.Reason)
}

// UnknownSectionError reports a lookup against a key the configuration does
// not define. This is a hard failure: treating it as an empty section would
// silently hide accounting data.
type UnknownSectionError struct {
	Key string
}

func (e *UnknownSectionError) Error() string {
	return fmt.Sprintf("sections: unknown section %q", e.Key)
}
