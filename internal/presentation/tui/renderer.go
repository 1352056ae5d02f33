package tui

import (
	"github.com/charmbracelet/glamour"
)

// Styles accepted by NewRenderer besides glamour's standard style names.
const (
	StyleAuto  = "auto"
	StylePlain = "notty"
)

// NewRenderer returns a function that renders markdown using glamour.
// StyleAuto detects a light or dark background; StylePlain is used when
// output is not a terminal.
func NewRenderer(style string, width int) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == StyleAuto {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}
