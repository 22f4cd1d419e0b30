// Package output writes command results in the selected format: styled
// terminal text, plain text, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/scawful/barista/pkg/logging"
	"github.com/scawful/barista/pkg/style"
	"gopkg.in/yaml.v3"
)

// Printer writes results to an output stream
type Printer struct {
	w      io.Writer
	format Format
}

// New creates a printer. FormatAuto is resolved against w when it is a
// file and falls back to plain text otherwise.
func New(w io.Writer, format Format) *Printer {
	if format == FormatAuto {
		format = FormatText
		if f, ok := w.(*os.File); ok {
			format = DetectFormat(f)
		}
	}
	logger := logging.GetLogger("output")
	logger.Debug().Str("format", format.String()).Msg("Output format selected")
	return &Printer{w: w, format: format}
}

// Format returns the resolved format
func (p *Printer) Format() Format {
	return p.format
}

// Color reports whether styling escape codes are written
func (p *Printer) Color() bool {
	return p.format == FormatTerminal
}

// Emit writes v as JSON or YAML for structured formats, otherwise calls
// human to produce the text form.
func (p *Printer) Emit(v interface{}, human func() error) error {
	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return human()
	}
}

// Message writes a line of markup, styled or stripped
func (p *Printer) Message(markup string) error {
	text := style.Plain(markup)
	if p.Color() {
		text = style.Render(markup)
	}
	_, err := fmt.Fprintln(p.w, text)
	return err
}

// Messagef formats and writes a line of markup
func (p *Printer) Messagef(format string, args ...interface{}) error {
	return p.Message(fmt.Sprintf(format, args...))
}

// Status writes a titled block of status lines
func (p *Printer) Status(title string, lines []style.StatusLine) error {
	var b strings.Builder
	if title != "" {
		if p.Color() {
			b.WriteString(style.Render(title))
		} else {
			b.WriteString(style.Plain(title))
		}
		b.WriteString("\n")
	}
	for _, line := range lines {
		b.WriteString(style.RenderStatusLine(line, p.Color()))
		b.WriteString("\n")
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

// Markdown writes md rendered with glamour on a terminal and verbatim
// otherwise. Structured formats wrap it as {"text": md}.
func (p *Printer) Markdown(md string) error {
	return p.Emit(map[string]string{"text": md}, func() error {
		text := md
		if p.Color() {
			if rendered, err := renderMarkdown(md); err == nil {
				text = rendered
			}
		}
		_, err := io.WriteString(p.w, text)
		return err
	})
}

// Error writes err in the current format
func (p *Printer) Error(err error) error {
	return p.Emit(map[string]string{"error": err.Error()}, func() error {
		return p.Message("[error]Error:[/error] " + err.Error())
	})
}

func renderMarkdown(md string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}
