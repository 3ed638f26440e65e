package display

import (
	"bytes"
	"fmt"
	"log/slog"
	"slices"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/pixil98/go-tycoon/internal/events"
)

var templateFuncs = sprig.TxtFuncMap()

// HeadlineData is what headline templates can reference.
type HeadlineData struct {
	Severity  int
	Destroyed int
	Duration  int
	Teams     []string
	Status    events.Status
}

// Headlines renders the catalog's one-line event descriptions.
type Headlines struct {
	templates map[events.EventType]*template.Template
	width     int
}

// NewHeadlines parses the headline template of every event type.
func NewHeadlines(cat *events.Catalog, opts ...HeadlinesOpt) (*Headlines, error) {
	h := &Headlines{
		templates: make(map[events.EventType]*template.Template, len(events.Types)),
		width:     DefaultWidth,
	}
	for _, opt := range opts {
		opt(h)
	}
	for _, t := range events.Types {
		tmpl, err := template.New(string(t)).Funcs(templateFuncs).Parse(cat.Common(t).Headline)
		if err != nil {
			return nil, fmt.Errorf("parsing %s headline: %w", t, err)
		}
		h.templates[t] = tmpl
	}
	return h, nil
}

// Render describes inst in one line, wrapped at the configured width. Template failures fall back to
// the bare type and severity.
func (h *Headlines) Render(inst *events.Instance) string {
	fallback := fmt.Sprintf("%s (severity %d)", Capitalize(inst.Type.String()), inst.Severity)

	tmpl, ok := h.templates[inst.Type]
	if !ok {
		return fallback
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, NewHeadlineData(inst)); err != nil {
		slog.Warn("rendering headline", "type", inst.Type, "error", err)
		return fallback
	}

	return Wrap(buf.String(), h.width)
}

// NewHeadlineData summarizes an instance for a headline template.
func NewHeadlineData(inst *events.Instance) HeadlineData {
	d := HeadlineData{
		Severity: inst.Severity,
		Status:   inst.Status,
	}
	if inst.DurationCycles != nil {
		d.Duration = *inst.DurationCycles
	}

	switch p := inst.Payload.(type) {
	case *events.EarthquakePayload:
		d.Destroyed, d.Teams = buildingLosses(p.Losses)
	case *events.FirePayload:
		d.Destroyed, d.Teams = buildingLosses(p.Losses)
	case *events.TornadoPayload:
		for _, l := range p.Losses {
			d.Teams = append(d.Teams, l.Team)
		}
	case *events.PlaguePayload:
		d.Teams = slices.Clone(p.Infected)
	case *events.AutomationPayload:
		d.Teams = []string{p.TargetTeam}
	}

	return d
}

func buildingLosses(losses []events.BuildingLoss) (int, []string) {
	total := 0
	var teams []string
	for _, l := range losses {
		n := 0
		for _, c := range l.Destroyed {
			n += c
		}
		if n > 0 {
			teams = append(teams, l.Team)
		}
		total += n
	}
	return total, teams
}
