package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-tycoon/internal/display"
	"github.com/pixil98/go-tycoon/internal/events"
)

type EventsConfig struct {
	// CatalogPath is an optional YAML file tuning the event catalog.
	CatalogPath string `json:"catalog_path"`
	// HeadlineWidth is the column headlines wrap at. Zero keeps the default
	// and a negative width turns wrapping off.
	HeadlineWidth int `json:"headline_width"`
}

func (c *EventsConfig) validate() error {
	if c.CatalogPath == "" {
		return nil
	}
	if _, err := os.Stat(c.CatalogPath); err != nil {
		return fmt.Errorf("events: invalid catalog_path %q: %w", c.CatalogPath, err)
	}
	return nil
}

func (c *EventsConfig) buildCatalog() (*events.Catalog, error) {
	if c.CatalogPath == "" {
		return events.DefaultCatalog(), nil
	}
	return events.LoadCatalog(c.CatalogPath)
}

func (c *EventsConfig) buildHeadlines(cat *events.Catalog) (*display.Headlines, error) {
	var opts []display.HeadlinesOpt
	if c.HeadlineWidth != 0 {
		opts = append(opts, display.WithWidth(c.HeadlineWidth))
	}
	return display.NewHeadlines(cat, opts...)
}
