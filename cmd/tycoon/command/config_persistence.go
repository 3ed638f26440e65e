package command

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pixil98/go-tycoon/internal/auditlog"
	"github.com/pixil98/go-tycoon/internal/persistence"
)

type DatabaseConfig struct {
	// Path of the SQLite file; empty disables price and event history.
	Path string `json:"path"`
}

func (c *DatabaseConfig) validate() error {
	if c.Path == "" {
		return nil
	}
	if _, err := os.Stat(filepath.Dir(c.Path)); err != nil {
		return fmt.Errorf("database: invalid directory for %q: %w", c.Path, err)
	}
	return nil
}

func (c *DatabaseConfig) open() (*persistence.DB, error) {
	if c.Path == "" {
		return nil, nil
	}
	return persistence.Open(c.Path)
}

type AuditConfig struct {
	// Dir receives hourly audit files; empty disables the audit trail.
	Dir string `json:"dir"`
}

func (c *AuditConfig) validate() error {
	if c.Dir == "" {
		return nil
	}
	info, err := os.Stat(c.Dir)
	if err == nil && !info.IsDir() {
		return fmt.Errorf("audit: %q is not a directory", c.Dir)
	}
	return nil
}

func (c *AuditConfig) open() *auditlog.Log {
	if c.Dir == "" {
		return nil
	}
	return auditlog.NewLog(c.Dir)
}
