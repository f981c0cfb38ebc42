// Package ui prints the user-facing progress of a run: banners, section
// titles, step markers and status messages.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Printer writes coloured messages to a writer. Colour is only used when
// the writer is a terminal.
type Printer struct {
	out io.Writer

	info    *color.Color
	success *color.Color
	warn    *color.Color
	title   *color.Color
	banner  lipgloss.Style
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	p := &Printer{
		out:     w,
		info:    color.New(color.FgCyan),
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		title:   color.New(color.FgGreen, color.Bold),
	}

	renderer := lipgloss.NewRenderer(w)
	p.banner = renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Padding(0, 2)

	if !isTerminal(w) {
		for _, c := range []*color.Color{p.info, p.success, p.warn, p.title} {
			c.DisableColor()
		}
	}
	return p
}

// Discard returns a Printer that writes nothing.
func Discard() *Printer {
	return New(io.Discard)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Banner prints lines inside a bordered box.
func (p *Printer) Banner(lines ...string) {
	text := strings.TrimRight(strings.Join(lines, "\n"), "\n")
	fmt.Fprintln(p.out, p.banner.Render(text))
}

// Info prints an informational line.
func (p *Printer) Info(format string, args ...any) {
	p.info.Fprintln(p.out, fmt.Sprintf(format, args...))
}

// Success prints a success line.
func (p *Printer) Success(format string, args ...any) {
	p.success.Fprintln(p.out, fmt.Sprintf(format, args...))
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, args ...any) {
	p.warn.Fprintln(p.out, fmt.Sprintf(format, args...))
}

// Log prints a plain line.
func (p *Printer) Log(format string, args ...any) {
	fmt.Fprintln(p.out, fmt.Sprintf(format, args...))
}

// Step starts a step line ("► Save configuration... "); finish it with OK.
func (p *Printer) Step(format string, args ...any) {
	fmt.Fprintf(p.out, "► %s... ", fmt.Sprintf(format, args...))
}

// OK ends a line started with Step.
func (p *Printer) OK() {
	p.success.Fprintln(p.out, "[OK]")
}

// Title prints the closing message of a flow.
func (p *Printer) Title(format string, args ...any) {
	fmt.Fprintln(p.out)
	p.title.Fprintln(p.out, "  "+fmt.Sprintf(format, args...))
	fmt.Fprintln(p.out)
}
