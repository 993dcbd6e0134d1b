// Package output renders command results on stdout.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

// Format selects how results are printed.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
	}
}

// Renderer writes results in one format.
type Renderer struct {
	w      io.Writer
	format Format
}

// New returns a Renderer writing to w.
func New(w io.Writer, format Format) *Renderer {
	return &Renderer{w: w, format: format}
}

// Render prints v. Table output uses headers and rows; the structured
// formats encode v directly so no field is lost to the table layout.
func (r *Renderer) Render(headers []string, rows [][]string, v any) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers(headers...).
			Rows(rows...)
		_, err := fmt.Fprintln(r.w, t.String())
		return err
	}
}

// Message prints a one-line confirmation. Structured formats wrap it so
// scripts always receive parseable output.
func (r *Renderer) Message(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	switch r.format {
	case FormatJSON, FormatYAML:
		return r.Render(nil, nil, map[string]string{"message": msg})
	default:
		_, err := fmt.Fprintln(r.w, msg)
		return err
	}
}

// KeyValues renders a two column table for a single record.
func (r *Renderer) KeyValues(pairs [][2]string, v any) error {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{p[0], p[1]})
	}
	return r.Render([]string{"FIELD", "VALUE"}, rows, v)
}
