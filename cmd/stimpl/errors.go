package main

import (
	"errors"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/vito/stimpl/pkg/stimpl"
)

var (
	errorHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	locationStyle    = lipgloss.NewStyle().Faint(true)
)

// formatError renders err for the terminal, one line per failure when
// several programs failed.
func formatError(err error, color bool) string {
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}

	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		lines = append(lines, formatOne(e))
	}

	out := strings.Join(lines, "\n")
	if !color {
		out = ansi.Strip(out)
	}
	return out
}

func formatOne(err error) string {
	var evalErr *stimpl.EvalError
	if !errors.As(err, &evalErr) {
		return errorHeaderStyle.Render("error") + ": " + err.Error()
	}

	line := errorHeaderStyle.Render(evalErr.Kind.String()) + ": " + evalErr.Message
	if evalErr.Location != nil {
		line = locationStyle.Render(evalErr.Location.String()) + ": " + line
	}
	return line
}
