package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/melodex/internal/services"
	"github.com/desertthunder/melodex/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	jamendo := services.NewJamendoService(config.Credentials.Jamendo.ClientID, nil, logger)
	listenbz := services.NewListenBrainzService(config.Credentials.ListenBrainz.Token, nil, logger)
	registry := services.NewMusicBrainzService(config.Credentials.MusicBrainz.UserAgent, nil, nil, logger)

	var setlists *services.SetlistService
	if config.Credentials.SetlistFM.APIKey != "" {
		setlists = services.NewSetlistService(config.Credentials.SetlistFM.APIKey, nil, logger)
	}

	runner := NewRunner(RunnerOpts{
		Config:       config,
		Jamendo:      jamendo,
		ListenBrainz: listenbz,
		MusicBrainz:  registry,
		Setlists:     setlists,
		Logger:       logger,
	})

	app := &cli.Command{
		Name:     "melodex",
		Usage:    "Browse free music, concert setlists, and scrobbles from one place",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
