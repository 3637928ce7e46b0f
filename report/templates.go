package report

import (
	"embed"
	"fmt"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// loadTemplate returns the embedded report document template source.
func loadTemplate() (string, error) {
	data, err := templateFS.ReadFile("templates/report.html.tmpl")
	if err != nil {
		return "", fmt.Errorf("failed to load embedded report template: %w", err)
	}
	return string(data), nil
}
