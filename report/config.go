package report

import (
	"fmt"

	"github.com/testops/htmlreport/i18n"
)

// Visual themes recognized by the report document.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Config is the immutable rendering configuration. Free-text fields are
// treated as untrusted and escaped by the renderer.
type Config struct {
	Title         string `yaml:"title"`
	Description   string `yaml:"description"`
	Tester        string `yaml:"tester"`
	Language      string `yaml:"language"`
	Theme         string `yaml:"theme"`
	ChartHeight   int    `yaml:"chartHeight"`
	ShowPassCases bool   `yaml:"showPassCases"`
}

// DefaultConfig returns the documented defaults. The title defaults to the
// localized "Test Report" at render time when left empty.
func DefaultConfig() Config {
	return Config{
		Tester:        "QA Team",
		Language:      i18n.DefaultLanguage,
		Theme:         ThemeLight,
		ChartHeight:   400,
		ShowPassCases: true,
	}
}

// Validate rejects configurations the renderer cannot honor. An unknown
// language is not an error; it falls back silently to the default locale.
func (c Config) Validate() error {
	switch c.Theme {
	case ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("invalid theme %q: must be %q or %q", c.Theme, ThemeLight, ThemeDark)
	}
	if c.ChartHeight <= 0 {
		return fmt.Errorf("chart height must be a positive pixel count, got %d", c.ChartHeight)
	}
	return nil
}

// language resolves the effective locale, applying the silent fallback.
func (c Config) language() string {
	if i18n.Supported(c.Language) {
		return c.Language
	}
	return i18n.DefaultLanguage
}
