package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

// Reporter prints user-facing progress lines. Styling is applied by
// lipgloss, which drops colors when the writer is not a terminal.
type Reporter struct {
	w     io.Writer
	plain bool
}

// New returns a Reporter writing to w.
func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Plain returns a Reporter that never styles output.
func Plain(w io.Writer) *Reporter {
	return &Reporter{w: w, plain: true}
}

// Writer exposes the underlying writer.
func (r *Reporter) Writer() io.Writer { return r.w }

func (r *Reporter) line(style lipgloss.Style, prefix, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if prefix != "" {
		msg = prefix + " " + msg
	}
	if !r.plain {
		msg = style.Render(msg)
	}
	fmt.Fprintln(r.w, msg)
}

func (r *Reporter) Title(format string, args ...any) { r.line(titleStyle, "", format, args...) }
func (r *Reporter) Info(format string, args ...any)  { r.line(infoStyle, "", format, args...) }
func (r *Reporter) Success(format string, args ...any) {
	r.line(successStyle, "✔", format, args...)
}
func (r *Reporter) Warn(format string, args ...any)  { r.line(warnStyle, "!", format, args...) }
func (r *Reporter) Error(format string, args ...any) { r.line(errorStyle, "✖", format, args...) }
func (r *Reporter) Dim(format string, args ...any)   { r.line(dimStyle, "", format, args...) }

// Failure prints a command's final error as "Error: <message>".
func (r *Reporter) Failure(err error) { r.line(errorStyle, "Error:", "%s", err) }

// Item prints an indented bullet.
func (r *Reporter) Item(format string, args ...any) {
	fmt.Fprintf(r.w, "  • %s\n", fmt.Sprintf(format, args...))
}

// Blank prints an empty line.
func (r *Reporter) Blank() { fmt.Fprintln(r.w) }
