package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-tycoon/internal/game"
	"github.com/pixil98/go-tycoon/internal/storage"
)

type StorageConfig struct {
	Scenarios AssetConfig[*game.Scenario]   `json:"scenarios"`
	Results   AssetConfig[*game.GameResult] `json:"results"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Scenarios.validate("scenarios", false))
	el.Add(c.Results.validate("results", true))
	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

// validate checks the configured path. Paths that may be created on startup
// only need to be set.
func (c *AssetConfig[T]) validate(name string, creatable bool) error {
	if c.Path == "" {
		return nil
	}
	if creatable {
		return nil
	}
	if _, err := os.Stat(c.Path); err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}
	return nil
}

// BuildFileStore opens the store, or returns nil when no path is configured.
func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	if c.Path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(c.Path, 0o755); err != nil {
		return nil, fmt.Errorf("creating %q: %w", c.Path, err)
	}
	return storage.NewFileStore[T](c.Path)
}
