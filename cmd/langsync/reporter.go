package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dmitrymomot/langsync"
)

var (
	colorSuccess = lipgloss.Color("#8BC34A")
	colorWarning = lipgloss.Color("#FFC107")
	colorError   = lipgloss.Color("#E53935")
	colorInfo    = lipgloss.Color("#2196F3")
	colorMuted   = lipgloss.Color("#808080")
)

type styles struct {
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	info    lipgloss.Style
	muted   lipgloss.Style
	title   lipgloss.Style
}

// newStyles binds the palette to w so colours are dropped when w is not a
// terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		success: r.NewStyle().Foreground(colorSuccess),
		warning: r.NewStyle().Foreground(colorWarning),
		failure: r.NewStyle().Foreground(colorError).Bold(true),
		info:    r.NewStyle().Foreground(colorInfo),
		muted:   r.NewStyle().Foreground(colorMuted),
		title:   r.NewStyle().Bold(true),
	}
}

// consoleReporter prints one line per pipeline event.
type consoleReporter struct {
	w      io.Writer
	styles styles
}

func newConsoleReporter(w io.Writer) *consoleReporter {
	return &consoleReporter{w: w, styles: newStyles(w)}
}

func (r *consoleReporter) Report(_ context.Context, e langsync.Event) {
	s := r.styles

	switch e.Kind {
	case langsync.EventLanguages:
		r.printf("%s %s\n", s.title.Render("languages:"), strings.Join(e.Languages, ", "))
	case langsync.EventBackup:
		line := s.info.Render("backup") + " " + e.Path
		if e.Message != "" {
			line += s.muted.Render(" uploaded to " + e.Message)
		}
		r.printf("%s\n", line)
	case langsync.EventSkipped:
		r.printf("%s %s %s\n", s.warning.Render("skipped"), e.Path, s.muted.Render("("+e.Message+")"))
	case langsync.EventSorted:
		r.printf("%s %s\n", s.info.Render("sorted"), e.Path)
	case langsync.EventMerged:
		verb := "merged"
		if e.Created {
			verb = "created"
		}
		r.printf("%s %s %s\n", s.success.Render(verb), e.Path, s.muted.Render(fmt.Sprintf("(+%d keys)", e.Added)))
	case langsync.EventConflict:
		r.printf("%s %s %s\n", s.warning.Render("conflict"), e.Path, s.muted.Render("key "+e.Key+" kept as translated"))
	case langsync.EventInvalidLanguage:
		r.printf("%s %s %s\n", s.warning.Render("warning"), e.Language, s.muted.Render("is not a language tag"))
	}
}

func (r *consoleReporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}

// printSummary writes the totals of a run. sum may be partial when err is
// set; the error itself is printed once by printError.
func printSummary(w io.Writer, sum *langsync.Summary, err error) {
	s := newStyles(w)
	if sum == nil {
		sum = &langsync.Summary{}
	}

	totals := fmt.Sprintf("%d languages, %d files merged, %d created, %d keys added, %d conflicts",
		len(sum.Languages), sum.MergedFiles, sum.CreatedFiles, sum.KeysAdded, sum.Conflicts)

	if err != nil {
		_, _ = fmt.Fprintf(w, "%s %s\n", s.warning.Render("stopped:"), s.muted.Render(totals))
		return
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", s.success.Render("done:"), totals)
}

// printError writes the failure line of a command, whatever step failed.
func printError(w io.Writer, err error) {
	s := newStyles(w)
	_, _ = fmt.Fprintf(w, "%s %s\n", s.failure.Render("failed:"), err)
}
