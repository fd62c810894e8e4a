package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/melodex/internal/formatter"
	"github.com/desertthunder/melodex/internal/shared"
)

// Search fans the query out across all configured providers.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	r.logger.Info("searching providers", "query", query)

	result, err := r.aggregator.SearchAll(ctx, query, nil)
	if err != nil {
		return err
	}

	for section, sectionErr := range result.Errors {
		r.writePlain("⚠ %s unavailable: %v\n", section, sectionErr)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	text, err := formatter.SearchResultToText(result)
	if err != nil {
		return err
	}
	return r.writePlain("%s", text)
}

// TrackGet fetches a catalog track and applies registry enrichment.
func (r *Runner) TrackGet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}
	if r.jamendo == nil {
		return fmt.Errorf("%w: catalog service not initialized", shared.ErrMissingConfig)
	}

	track, err := r.jamendo.GetTrack(ctx, id)
	if err != nil {
		return err
	}

	enriched := r.resolver.EnrichTrack(ctx, *track)

	if cmd.Bool("json") {
		return r.writeJSON(enriched, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s - %s", enriched.Artists, enriched.Name))
	if enriched.Album != "" {
		r.writePlain("Album: %s\n", enriched.Album)
	}
	r.writePlain("Duration: %s\n", enriched.Duration)
	if enriched.ReleaseDate != "" {
		r.writePlain("Released: %s\n", enriched.ReleaseDate)
	}
	if enriched.Label != "" {
		r.writePlain("Label: %s\n", enriched.Label)
	}
	if len(enriched.Genres) > 0 {
		r.writePlain("Genres: %v\n", enriched.Genres)
	}
	if enriched.License != "" {
		r.writePlain("License: %s\n", enriched.License)
	}
	return nil
}

// TrackStream resolves a track's streaming URL.
func (r *Runner) TrackStream(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}
	if r.jamendo == nil {
		return fmt.Errorf("%w: catalog service not initialized", shared.ErrMissingConfig)
	}

	streamURL, err := r.jamendo.GetStreamURL(ctx, id, cmd.Bool("lossless"))
	if err != nil {
		return err
	}

	return r.writePlain("%s\n", streamURL)
}

// AlbumGet fetches an album with its full track list.
func (r *Runner) AlbumGet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}
	if r.jamendo == nil {
		return fmt.Errorf("%w: catalog service not initialized", shared.ErrMissingConfig)
	}

	album, err := r.jamendo.GetAlbum(ctx, id)
	if err != nil {
		return err
	}

	if csvPath := cmd.String("csv"); csvPath != "" {
		data, err := formatter.TracksToCSV(album.Tracks)
		if err != nil {
			return err
		}
		if err := formatter.SaveToFile(csvPath, data); err != nil {
			return err
		}
		r.logger.Infof("album exported to %v with %v tracks", csvPath, len(album.Tracks))
		return r.writePlain("✓ Track list exported to %s\n", csvPath)
	}

	if cmd.Bool("json") {
		return r.writeJSON(album, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s - %s", album.Artists, album.Name))
	if album.ReleaseDate != "" {
		r.writePlain("Released: %s\n", album.ReleaseDate)
	}
	r.writePlain("Tracks: %d\n\n", len(album.Tracks))
	for i, track := range album.Tracks {
		r.writePlain("%d. %s [%s]\n", i+1, track.Name, track.Duration)
	}
	return nil
}

// ArtistGet fetches an artist with top tracks.
func (r *Runner) ArtistGet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: artist id", shared.ErrMissingArgument)
	}
	if r.jamendo == nil {
		return fmt.Errorf("%w: catalog service not initialized", shared.ErrMissingConfig)
	}

	artist, err := r.jamendo.GetArtist(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(artist, cmd.Bool("pretty"))
	}

	r.writePlainHeader(artist.Name)
	if artist.Website != "" {
		r.writePlain("Website: %s\n", artist.Website)
	}
	if len(artist.Tracks) > 0 {
		r.writePlain("\nTop tracks:\n")
		for i, track := range artist.Tracks {
			r.writePlain("%d. %s [%s]\n", i+1, track.Name, track.Duration)
		}
	}
	return nil
}
