package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Banner is shown before a lookup unless --no-banner is given
const Banner = `
╔══════════════════════════════════════════════════════════════╗
║                          InstaRecon                          ║
║                   Instagram OSINT Tool                       ║
║                                                              ║
║        For authorized security research and OSINT work       ║
╚══════════════════════════════════════════════════════════════╝
`

var (
	cyan   = lipgloss.Color("#00FFFF")
	red    = lipgloss.Color("#FF3B3B")
	yellow = lipgloss.Color("#FFFF00")
	green  = lipgloss.Color("#39FF14")
	orange = lipgloss.Color("#FF6700")
	dim    = lipgloss.Color("#B0B0B0")
)

// Printer writes styled status lines around the report. Colours are
// dropped when the writer is not a terminal or colour is disabled.
type Printer struct {
	out io.Writer

	banner  lipgloss.Style
	status  lipgloss.Style
	errors  lipgloss.Style
	hint    lipgloss.Style
	warning lipgloss.Style
	success lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
}

// NewPrinter creates a Printer for out
func NewPrinter(out io.Writer, noColor bool) *Printer {
	r := lipgloss.NewRenderer(out)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Printer{
		out:     out,
		banner:  r.NewStyle().Foreground(cyan).Bold(true),
		status:  r.NewStyle().Foreground(cyan),
		errors:  r.NewStyle().Foreground(red).Bold(true),
		hint:    r.NewStyle().Foreground(yellow),
		warning: r.NewStyle().Foreground(orange).Bold(true),
		success: r.NewStyle().Foreground(green).Bold(true),
		label:   r.NewStyle().Foreground(cyan).Bold(true),
		value:   r.NewStyle().Foreground(dim),
	}
}

// Writer is the underlying output, for the plain report text
func (p *Printer) Writer() io.Writer {
	return p.out
}

// PrintBanner prints the tool banner
func (p *Printer) PrintBanner() {
	fmt.Fprintln(p.out, p.banner.Render(Banner))
}

// PrintStatus prints a progress line
func (p *Printer) PrintStatus(format string, args ...interface{}) {
	fmt.Fprintln(p.out, p.status.Render(fmt.Sprintf(format, args...)))
}

// PrintError prints "❌ <prefix>: <msg>" after a blank line
func (p *Printer) PrintError(prefix, msg string) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.errors.Render(fmt.Sprintf("❌ %s: %s", prefix, msg)))
}

// PrintHint prints an actionable suggestion; empty hints are skipped
func (p *Printer) PrintHint(hint string) {
	if hint == "" {
		return
	}
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.hint.Render("💡 "+hint))
}

// PrintWarning prints a warning line
func (p *Printer) PrintWarning(msg string) {
	fmt.Fprintln(p.out, p.warning.Render("⚠️  "+msg))
}

// PrintSuccess prints a confirmation line
func (p *Printer) PrintSuccess(msg string) {
	fmt.Fprintln(p.out, p.success.Render("✅ "+msg))
}

// PrintInfo prints a "label: value" line
func (p *Printer) PrintInfo(label, value string) {
	fmt.Fprintf(p.out, "%s: %s\n", p.label.Render(label), p.value.Render(value))
}
