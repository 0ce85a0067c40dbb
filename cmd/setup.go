package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/amzx/internal/shared"
	"github.com/desertthunder/amzx/internal/ui"
)

// Setup creates the config file named by --config when missing, then initializes the catalog
// database and runs migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath
	if configPath == "" {
		configPath = "config.toml"
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return err
		}

		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return err
		}
		r.config = config
		r.writePlain("%s config written to %s\n", ui.Styles().OK("✓"), configPath)
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)
	if err := r.openCatalog(); err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlain("%s catalog ready at %s\n", ui.Styles().OK("✓"), r.config.Database.Path)
}
