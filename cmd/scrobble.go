package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/melodex/internal/formatter"
	"github.com/desertthunder/melodex/internal/models"
	"github.com/desertthunder/melodex/internal/shared"
)

// lookupTrackForScrobble resolves a track id into the canonical track that a
// submission is built from.
func (r *Runner) lookupTrackForScrobble(ctx context.Context, id string) (*models.Track, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}
	if r.jamendo == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrMissingConfig)
	}
	return r.jamendo.GetTrack(ctx, id)
}

// ScrobbleNowPlaying reports a catalog track as currently playing.
func (r *Runner) ScrobbleNowPlaying(ctx context.Context, cmd *cli.Command) error {
	if r.listenbz == nil {
		return fmt.Errorf("%w: listenbrainz service not initialized", shared.ErrMissingConfig)
	}

	track, err := r.lookupTrackForScrobble(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if err := r.listenbz.SubmitNowPlaying(ctx, *track); err != nil {
		return err
	}

	return r.writePlain("✓ Now playing: %s - %s\n", track.Artists, track.Name)
}

// ScrobbleListen records a completed listen for a catalog track.
func (r *Runner) ScrobbleListen(ctx context.Context, cmd *cli.Command) error {
	if r.listenbz == nil {
		return fmt.Errorf("%w: listenbrainz service not initialized", shared.ErrMissingConfig)
	}

	track, err := r.lookupTrackForScrobble(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if err := r.listenbz.SubmitListen(ctx, *track, int64(cmd.Int("at"))); err != nil {
		return err
	}

	return r.writePlain("✓ Scrobbled: %s - %s\n", track.Artists, track.Name)
}

// Recommendations resolves the user's recommendation feed into full tracks.
func (r *Runner) Recommendations(ctx context.Context, cmd *cli.Command) error {
	user := cmd.StringArg("user")
	if user == "" {
		user = r.config.Credentials.ListenBrainz.Username
	}
	if user == "" {
		return fmt.Errorf("%w: listenbrainz username", shared.ErrMissingArgument)
	}

	r.logger.Info("resolving recommendations", "user", user)

	tracks, err := r.resolver.Recommendations(ctx, user, nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	if len(tracks) == 0 {
		return r.writePlain("No recommendations available.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Recommended for %s", user))
	for i, track := range tracks {
		r.writePlain("%d. %s - %s", i+1, track.Artists, track.Name)
		if track.Album != "" {
			r.writePlain(" (%s)", track.Album)
		}
		r.writePlain("\n")
	}
	return nil
}

// Listens shows a user's recent scrobble history.
func (r *Runner) Listens(ctx context.Context, cmd *cli.Command) error {
	if r.listenbz == nil {
		return fmt.Errorf("%w: listenbrainz service not initialized", shared.ErrMissingConfig)
	}

	user := cmd.StringArg("user")
	if user == "" {
		user = r.config.Credentials.ListenBrainz.Username
	}
	if user == "" {
		return fmt.Errorf("%w: listenbrainz username", shared.ErrMissingArgument)
	}

	listens, err := r.listenbz.GetUserListens(ctx, user, int(cmd.Int("count")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(listens, true)
	}

	return r.writePlain("%s", formatter.ListensToText(listens))
}

// TokenValidate checks the configured ListenBrainz token.
func (r *Runner) TokenValidate(ctx context.Context, cmd *cli.Command) error {
	if r.listenbz == nil {
		return fmt.Errorf("%w: listenbrainz service not initialized", shared.ErrMissingConfig)
	}

	username, err := r.listenbz.ValidateToken(ctx)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Token valid for user: %s\n", username)
}
