// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes a configuration file from the embedded template.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create a starter configuration file",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// searchCommand runs the aggregated multi-provider search.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "search",
		Aliases: []string{"s"},
		Usage:   "Search tracks, albums, artists, and setlists across providers",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
		},
		Action: r.Search,
	}
}

// trackCommand handles catalog track operations.
func trackCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "track",
		Usage: "Catalog track operations",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Fetch a track with registry enrichment",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
				},
				Action: r.TrackGet,
			},
			{
				Name:  "stream",
				Usage: "Resolve a track's streaming URL",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{Name: "lossless", Usage: "Prefer FLAC over MP3", Value: true},
				},
				Action: r.TrackStream,
			},
		},
	}
}

// albumCommand handles catalog album operations.
func albumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "album",
		Usage: "Catalog album operations",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Fetch an album with its track list",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
					&cli.StringFlag{Name: "csv", Usage: "Write the track list to a CSV file"},
				},
				Action: r.AlbumGet,
			},
		},
	}
}

// artistCommand handles catalog artist operations.
func artistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artist",
		Usage: "Catalog artist operations",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Fetch an artist with top tracks",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
				},
				Action: r.ArtistGet,
			},
		},
	}
}

// setlistCommand handles concert setlist operations.
func setlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setlist",
		Usage: "Concert setlist operations",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: `Search setlists ("Phish 2023", "Pearl Jam 1991-09-20")`,
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{Name: "page", Usage: "Result page", Value: 1},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.SetlistSearch,
			},
			{
				Name:  "get",
				Usage: "Fetch a full setlist with all performed songs",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.StringFlag{Name: "markdown", Aliases: []string{"md"}, Usage: "Write the setlist to a Markdown file"},
				},
				Action: r.SetlistGet,
			},
		},
	}
}

// scrobbleCommand submits listens to ListenBrainz.
func scrobbleCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "scrobble",
		Usage: "Submit listens to ListenBrainz",
		Commands: []*cli.Command{
			{
				Name:  "now-playing",
				Usage: "Report a track as currently playing",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.ScrobbleNowPlaying,
			},
			{
				Name:  "listen",
				Usage: "Record a completed listen",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{Name: "at", Usage: "Listen timestamp (unix seconds, defaults to now)"},
				},
				Action: r.ScrobbleListen,
			},
		},
	}
}

// recsCommand resolves the ListenBrainz recommendation feed.
func recsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recs",
		Aliases: []string{"recommendations"},
		Usage:   "Fetch recommended tracks for a ListenBrainz user",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "user"},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Recommendations,
	}
}

// listensCommand shows a user's scrobble history.
func listensCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "listens",
		Usage: "Show a ListenBrainz user's recent listens",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "user"},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{Name: "count", Usage: "Number of listens to fetch", Value: 25},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Listens,
	}
}

// tokenCommand validates the configured ListenBrainz token.
func tokenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "ListenBrainz token operations",
		Commands: []*cli.Command{
			{
				Name:   "validate",
				Usage:  "Validate the configured ListenBrainz token",
				Flags:  []cli.Flag{configFlag()},
				Action: r.TokenValidate,
			},
		},
	}
}

// serveCommand starts the HTTP API server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the JSON API server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{Name: "host", Usage: "Bind address (overrides config)"},
			&cli.IntFlag{Name: "port", Usage: "Bind port (overrides config)"},
		},
		Action: r.Serve,
	}
}

// tuiCommand launches the interactive browser.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive terminal browser",
		Flags:  []cli.Flag{configFlag()},
		Action: r.TUI,
	}
}
