package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor = lipgloss.Color("#C8771E")
	mutedColor  = lipgloss.Color("#888888")
	warnColor   = lipgloss.Color("#D7AF00")
	errorColor  = lipgloss.Color("#C00000")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	keyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(warnColor)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)
)

// printer writes styled status lines to stderr, keeping stdout for the
// result table.
type printer struct {
	w       io.Writer
	verbose bool
}

func (p printer) title(format string, args ...any) {
	fmt.Fprintln(p.w, titleStyle.Render(fmt.Sprintf(format, args...)))
}

func (p printer) info(key, format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", keyStyle.Render(key+":"), fmt.Sprintf(format, args...))
}

func (p printer) debug(key, format string, args ...any) {
	if p.verbose {
		p.info(key, format, args...)
	}
}

func (p printer) warn(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", warnStyle.Render("Warning:"), fmt.Sprintf(format, args...))
}

func (p printer) fail(err error) {
	fmt.Fprintf(p.w, "%s %v\n", errorStyle.Render("Error:"), err)
}
