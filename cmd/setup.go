package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/melodex/internal/shared"
)

// Setup creates a starter configuration file from the embedded template.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%w: config file already exists at %s", shared.ErrInvalidInput, configPath)
	}

	if err := shared.CreateConfigFile(configPath); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	r.logger.Info("config file created", "path", configPath)

	r.writePlain("✓ Configuration file created at %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Add your Jamendo client id, ListenBrainz token, and Setlist.fm API key\n")
	r.writePlain("2. Run 'melodex search \"your favorite artist\"' to test\n")
	return nil
}
