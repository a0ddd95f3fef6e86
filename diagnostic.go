package quill

// OVERVIEW
//
// Diagnostic rendering. Every error the pipeline can surface — lex,
// parse, runtime, or an uncaught throw — is mapped to one Diagnostic
// and printed to stderr as:
//
//	error: <title>
//	---> <line>:<column>
//	<n-1> | <context line above, when available>
//	<n>   |    <offending source line>
//	            ^^^^
//	<n+1> | <context line below, when available>
//	hint: <hint, when available>
//
// An uncaught throw instead prints `error: <value>` followed by one
// backtrace line per active call frame, innermost first.
//
// Colors degrade automatically: styles are resolved against the
// stderr terminal profile, so piped output stays plain.

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Diagnostic is one renderable error report.
type Diagnostic struct {
	Title  string
	Text   string
	Span   TextSpan
	HasPos bool
	Hint   string
	Frames []Frame
}

type diagStyles struct {
	severity lipgloss.Style
	locator  lipgloss.Style
	caret    lipgloss.Style
	hint     lipgloss.Style
	dim      lipgloss.Style
}

func newDiagStyles(profile termenv.Profile) diagStyles {
	r := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(profile))
	return diagStyles{
		severity: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		locator:  r.NewStyle().Foreground(lipgloss.Color("14")),
		caret:    r.NewStyle().Foreground(lipgloss.Color("9")),
		hint:     r.NewStyle().Foreground(lipgloss.Color("14")),
		dim:      r.NewStyle().Faint(true),
	}
}

// PrintDiagnostic renders an error to stderr with source context.
func PrintDiagnostic(err error, source *Source) {
	profile := termenv.NewOutput(os.Stderr).Profile
	WriteDiagnostic(os.Stderr, err, source, profile)
}

// WriteDiagnostic renders an error to an arbitrary writer. The profile
// controls colorization; pass termenv.Ascii for plain output.
func WriteDiagnostic(w io.Writer, err error, source *Source, profile termenv.Profile) {
	d := diagnose(err)
	d.render(w, source, newDiagStyles(profile))
}

// diagnose maps a pipeline error onto a Diagnostic.
func diagnose(err error) Diagnostic {
	var lex *LexError
	if errors.As(err, &lex) {
		return Diagnostic{Title: lex.Msg, Span: lex.Span, HasPos: true}
	}
	var parse *ParseError
	if errors.As(err, &parse) {
		return Diagnostic{Title: parse.Msg, Span: parse.Span, HasPos: true, Hint: parse.Hint}
	}
	var thrown *ThrownError
	if errors.As(err, &thrown) {
		return Diagnostic{
			Title:  thrown.Value.String(),
			Span:   thrown.Span,
			HasPos: true,
			Frames: thrown.Frames,
		}
	}
	var rt *RuntimeError
	if errors.As(err, &rt) {
		return Diagnostic{Title: rt.Msg, Span: rt.Span, HasPos: rt.HasSpan, Frames: rt.Frames}
	}
	return Diagnostic{Title: err.Error()}
}

func (d Diagnostic) render(w io.Writer, source *Source, st diagStyles) {
	fmt.Fprintf(w, "%s%s%s\n", st.severity.Render("error"), st.dim.Render(": "), d.Title)

	if d.HasPos && source != nil {
		d.renderSpan(w, source, st)
	}
	if d.Text != "" {
		fmt.Fprintln(w, d.Text)
	}
	for _, frame := range d.Frames {
		fmt.Fprintf(w, "  %s at %s:%d:%d\n",
			frame.Name, frame.Path, frame.Span.Start.Line, frame.Span.Start.Column)
	}
	if d.Hint != "" {
		fmt.Fprintf(w, "%s %s\n", st.hint.Render("hint:"), st.hint.Render(d.Hint))
	}
}

func (d Diagnostic) renderSpan(w io.Writer, source *Source, st diagStyles) {
	lines := source.Lines()
	lineNo := d.Span.Start.Line // 1-based
	if lineNo < 1 || lineNo > len(lines) {
		return
	}
	line := strings.TrimRight(lines[lineNo-1], " \t")
	column := d.Span.Start.Column

	fmt.Fprintf(w, "%s %d:%d\n", st.locator.Render("--->"), lineNo, column)

	gutter := len(fmt.Sprint(lineNo + 1))
	if lineNo > 1 {
		writeGutterLine(w, st, gutter, lineNo-1, strings.TrimRight(lines[lineNo-2], " \t"))
	}
	writeGutterLine(w, st, gutter, lineNo, line)

	width := d.Span.End.Column - column
	if width < 1 {
		width = 1
	}
	padding := strings.Repeat(" ", gutter+3+column-1)
	fmt.Fprintf(w, "%s%s\n", padding, st.caret.Render(strings.Repeat("^", width)))

	if lineNo < len(lines) {
		writeGutterLine(w, st, gutter, lineNo+1, strings.TrimRight(lines[lineNo], " \t"))
	}
}

func writeGutterLine(w io.Writer, st diagStyles, gutter, n int, content string) {
	fmt.Fprintf(w, "%s %s\n", st.locator.Render(fmt.Sprintf("%*d |", gutter, n)), content)
}
