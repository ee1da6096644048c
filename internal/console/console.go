package console

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
)

// Printer renders conversation output with per-role styling, replacing
// raw ANSI escapes with lipgloss styles.
type Printer struct {
	out io.Writer

	assistant  lipgloss.Style
	user       lipgloss.Style
	toolCall   lipgloss.Style
	toolResult lipgloss.Style
	warn       lipgloss.Style
	severe     lipgloss.Style
	errStyle   lipgloss.Style
	info       lipgloss.Style
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:        out,
		assistant:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		user:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		toolCall:   lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
		toolResult: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		warn:       lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		severe:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		errStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		info:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func (p *Printer) Assistant(content string) {
	fmt.Fprintf(p.out, "\n%s\n%s\n", p.assistant.Render("Assistant:"), content)
}

func (p *Printer) UserLabel() string {
	return p.user.Render("User:")
}

// ToolCallRequest renders a model-issued tool call before it is gated
// or executed. Arguments are pretty-printed when they parse as JSON.
func (p *Printer) ToolCallRequest(name, id string, arguments string) {
	label := fmt.Sprintf("Tool Call Request (%s [%s]):", name, shortID(id))
	fmt.Fprintf(p.out, "\n%s\n", p.toolCall.Render(label))
	if pretty, ok := prettyJSON(arguments); ok {
		fmt.Fprintf(p.out, "  Arguments: %s\n", pretty)
	} else {
		fmt.Fprintf(p.out, "  Arguments (raw): %s\n", arguments)
	}
}

func (p *Printer) ToolResult(name, id, content string) {
	label := fmt.Sprintf("Tool Result (%s [%s]):", name, shortID(id))
	fmt.Fprintf(p.out, "\n%s\n", p.toolResult.Render(label))
	if pretty, ok := prettyJSON(content); ok {
		fmt.Fprintln(p.out, pretty)
	} else {
		fmt.Fprintln(p.out, content)
	}
}

func (p *Printer) Status(msg string) {
	fmt.Fprintln(p.out, p.toolResult.Render(msg))
}

func (p *Printer) Warning(msg string) {
	fmt.Fprintln(p.out, p.warn.Render("Warning: "+msg))
}

func (p *Printer) SevereWarning(msg string) {
	fmt.Fprintln(p.out, p.severe.Render("Warning: "+msg))
}

func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.out, p.errStyle.Render("Error: "+msg))
}

func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.out, p.info.Render(msg))
}

func prettyJSON(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	var decoded interface{}
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return "", false
	}
	pretty, err := json.MarshalIndent(decoded, "  ", "  ")
	if err != nil {
		return "", false
	}
	return string(pretty), true
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}
