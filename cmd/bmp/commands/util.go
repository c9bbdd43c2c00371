package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anas-shakeel/bmpfx/internal/config"
	"github.com/anas-shakeel/bmpfx/internal/logger"
)

// initLogger configures the structured logger from cfg. An explicit
// --log-level flag wins over level, which wins over the configured level.
func initLogger(cmd *cobra.Command, cfg *config.Config, level string) error {
	if flag, _ := cmd.Flags().GetString("log-level"); flag != "" {
		level = flag
	}
	if level == "" {
		level = cfg.Logging.Level
	}

	loggerCfg := logger.Config{
		Level:  level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// loadConfig loads configuration using the persistent --config flag and
// initializes logging from it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := initLogger(cmd, cfg, ""); err != nil {
		return nil, err
	}
	return cfg, nil
}
