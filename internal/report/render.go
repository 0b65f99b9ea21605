// Package report turns a diagnosis into the documents shown to operators.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"sigs.k8s.io/yaml"

	"github.com/bayleafwalker/bindery-troubleshoot/internal/diagnoser"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/lifecycle"
)

type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatText, FormatYAML, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want text, yaml or json)", raw)
	}
}

// Document is everything one troubleshooting run shows.
type Document struct {
	TakenAt    time.Time        `json:"takenAt"`
	Modules    ModuleSummary    `json:"modules"`
	Components ComponentSummary `json:"components"`
	Diagnosis  diagnoser.Report `json:"diagnosis"`
	// Origins maps missing services to the managers that removed them.
	Origins map[string][]string `json:"origins,omitempty"`
	Start   *lifecycle.Result   `json:"start,omitempty"`
}

func Build(snap *inventory.Snapshot, rep diagnoser.Report) Document {
	doc := Document{Diagnosis: rep, TakenAt: rep.TakenAt}
	if snap != nil {
		doc.Modules = SummarizeModules(snap.Modules)
		doc.Components = SummarizeComponents(snap.Components)
	}
	return doc
}

// MissingServiceNames lists the services of the diagnosis in ranked order.
func (d Document) MissingServiceNames() []string {
	out := make([]string, 0, len(d.Diagnosis.MissingServices))
	for _, ms := range d.Diagnosis.MissingServices {
		out = append(out, ms.Service)
	}
	return out
}

func Render(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatYAML:
		out, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("render yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	case FormatJSON:
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("render json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case FormatText, "":
		_, err := io.WriteString(w, RenderText(doc))
		return err
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

var (
	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	unitStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")).
			Italic(true)
)

// RenderText renders doc for a terminal.
func RenderText(doc Document) string {
	var sb strings.Builder

	sb.WriteString(sectionStyle.Render("Modules"))
	sb.WriteString("\n")
	if doc.Modules.AllActive() {
		sb.WriteString(okStyle.Render(doc.Modules.Line()))
	} else {
		sb.WriteString(doc.Modules.Line())
	}
	sb.WriteString("\n\n")

	for _, m := range doc.Diagnosis.Modules {
		status := diagnoser.StatusText(inventory.Module{State: m.State, Fragment: m.Fragment})
		sb.WriteString(unitStyle.Render(m.Module.String()))
		sb.WriteString(" ")
		sb.WriteString(errorStyle.Render(status))
		sb.WriteString("\n")
		if m.Hint != "" {
			sb.WriteString("  " + hintStyle.Render(m.Hint) + "\n")
		}
		if m.Error != "" {
			sb.WriteString("  " + errorStyle.Render("diagnosis failed: "+m.Error) + "\n")
		}
		for _, f := range m.Findings {
			style := errorStyle
			if f.Kind == diagnoser.KindDependencyChainInactive || f.Candidate {
				style = infoStyle
			}
			sb.WriteString("  " + style.Render(f.Message()) + "\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(sectionStyle.Render("Components"))
	sb.WriteString("\n")
	sb.WriteString(doc.Components.Line())
	sb.WriteString("\n\n")

	for _, ms := range doc.Diagnosis.MissingServices {
		sb.WriteString(fmt.Sprintf("missing service: %s blocks %d other components\n",
			unitStyle.Render(ms.Key().String()), len(ms.Dependents)))
		for _, d := range ms.Dependents {
			sb.WriteString("  " + infoStyle.Render(d) + "\n")
		}
		if origins := doc.Origins[ms.Service]; len(origins) > 0 {
			sb.WriteString("  " + hintStyle.Render("removed by: "+strings.Join(origins, ", ")) + "\n")
		}
	}
	for _, e := range doc.Diagnosis.ComponentErrors {
		sb.WriteString(errorStyle.Render("component diagnosis failed: "+e) + "\n")
	}

	if doc.Start != nil {
		sb.WriteString("\n")
		sb.WriteString(sectionStyle.Render("Start inactive modules"))
		sb.WriteString("\n")
		for _, a := range doc.Start.Attempts {
			style := okStyle
			if !a.Outcome.Succeeded() {
				style = errorStyle
			}
			sb.WriteString(style.Render(a.Line()) + "\n")
		}
		sb.WriteString(doc.Start.Message() + "\n")
	}
	return sb.String()
}
