package cmdutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lepinkainen/shelfcovers/internal/config"
)

// BaseCommandConfig holds the output locations shared by the commands
type BaseCommandConfig struct {
	CoverDir   string
	JSONOutput string
	WriteJSON  bool
	ReportPath string
}

// SetupOutputDir fills unset paths from configuration and creates the directories
// that will be written to.
func SetupOutputDir(cfg *BaseCommandConfig) error {
	if cfg.CoverDir == "" {
		cfg.CoverDir = config.Download().Dir
	}
	if cfg.CoverDir == "" {
		cfg.CoverDir = "covers"
	}
	cfg.CoverDir = filepath.Clean(cfg.CoverDir)

	if cfg.ReportPath == "" {
		cfg.ReportPath = config.ReportPath()
	}

	if cfg.WriteJSON && cfg.JSONOutput == "" {
		cfg.JSONOutput = config.JSONPath()
	}
	if cfg.WriteJSON && cfg.JSONOutput == "" {
		cfg.JSONOutput = "books.json"
	}

	if err := os.MkdirAll(cfg.CoverDir, 0755); err != nil {
		return fmt.Errorf("failed to create cover directory: %w", err)
	}

	if cfg.WriteJSON {
		jsonDir := filepath.Dir(cfg.JSONOutput)
		if err := os.MkdirAll(jsonDir, 0755); err != nil {
			return fmt.Errorf("failed to create JSON output directory: %w", err)
		}
	}

	return nil
}
