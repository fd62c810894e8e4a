package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/melodex/internal/formatter"
	"github.com/desertthunder/melodex/internal/shared"
)

// SetlistSearch interprets a free-text query and lists matching setlists.
func (r *Runner) SetlistSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}
	if r.setlists == nil {
		return fmt.Errorf("%w: setlist service not initialized", shared.ErrMissingConfig)
	}

	r.logger.Info("searching setlists", "query", query)

	setlists, err := r.setlists.SearchSetlists(ctx, query, int(cmd.Int("page")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(setlists, true)
	}

	if len(setlists) == 0 {
		return r.writePlain("No setlists found.\n")
	}

	for i, setlist := range setlists {
		r.writePlain("%d. %s\n", i+1, setlist.Name)
		r.writePlain("   %s • %s • %d songs\n", setlist.Date, setlist.City, setlist.SongCount)
		r.writePlain("   id: %s\n", setlist.ID)
	}
	return nil
}

// SetlistGet fetches a full setlist with every performed song.
func (r *Runner) SetlistGet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: setlist id", shared.ErrMissingArgument)
	}
	if r.setlists == nil {
		return fmt.Errorf("%w: setlist service not initialized", shared.ErrMissingConfig)
	}

	setlist, err := r.setlists.GetSetlist(ctx, id)
	if err != nil {
		return err
	}

	if mdPath := cmd.String("markdown"); mdPath != "" {
		data, err := formatter.SetlistToMarkdown(setlist)
		if err != nil {
			return err
		}
		if err := formatter.SaveToFile(mdPath, data); err != nil {
			return err
		}
		r.logger.Infof("setlist exported to %v with %v songs", mdPath, len(setlist.Tracks))
		return r.writePlain("✓ Setlist exported to %s\n", mdPath)
	}

	if cmd.Bool("json") {
		return r.writeJSON(setlist, true)
	}

	r.writePlainHeader(setlist.Name)
	r.writePlain("%s • %s\n\n", setlist.Date, setlist.City)

	currentSet := ""
	for _, song := range setlist.Tracks {
		if song.SetName != currentSet {
			currentSet = song.SetName
			r.writePlain("%s:\n", currentSet)
		}
		line := "  " + song.Name
		if song.CoverInfo != "" {
			line += fmt.Sprintf(" (%s cover)", song.CoverInfo)
		}
		if song.WithInfo != "" {
			line += fmt.Sprintf(" (with %s)", song.WithInfo)
		}
		r.writePlain("%s\n", line)
	}

	if setlist.AudioURL != "" {
		r.writePlainln("Audio: %s", setlist.AudioURL)
	} else if setlist.AudioSearch != "" {
		r.writePlainln("Audio: search %s for \"%s\"", setlist.AudioSource, setlist.AudioSearch)
	}
	return nil
}
