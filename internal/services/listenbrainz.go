// ListenBrainz client: listen submission (scrobbling), listen history, and
// recommendation feeds.
//
// API reference: https://listenbrainz.readthedocs.io
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/melodex/internal/models"
	"github.com/desertthunder/melodex/internal/shared"
)

const listenBrainzBaseURL = "https://api.listenbrainz.org"

// Listen submission types, per the submit-listens endpoint.
const (
	listenTypeSingle     = "single"
	listenTypePlayingNow = "playing_now"
)

// ListenSubmission is the request payload for POST /1/submit-listens.
type ListenSubmission struct {
	ListenType string          `json:"listen_type"`
	Payload    []ListenPayload `json:"payload"`
}

// ListenPayload is one listen inside a submission.
type ListenPayload struct {
	ListenedAt    int64         `json:"listened_at,omitempty"`
	TrackMetadata TrackMetadata `json:"track_metadata"`
}

// TrackMetadata carries the track fields ListenBrainz matches against.
// AdditionalInfo is omitted entirely when empty, never sent as {}.
type TrackMetadata struct {
	ArtistName     string         `json:"artist_name"`
	TrackName      string         `json:"track_name"`
	AdditionalInfo map[string]any `json:"additional_info,omitempty"`
}

type recommendationResponse struct {
	Payload struct {
		MBIDs []struct {
			RecordingMBID string `json:"recording_mbid"`
		} `json:"mbids"`
	} `json:"payload"`
}

type listensResponse struct {
	Payload struct {
		Listens []struct {
			ListenedAt    int64 `json:"listened_at"`
			TrackMetadata struct {
				TrackName  string `json:"track_name"`
				ArtistName string `json:"artist_name"`
			} `json:"track_metadata"`
		} `json:"listens"`
	} `json:"payload"`
}

type validateTokenResponse struct {
	Valid    bool   `json:"valid"`
	UserName string `json:"user_name"`
}

// ListenBrainzService submits listens and reads a user's listen history.
type ListenBrainzService struct {
	token   string
	fetcher Fetcher
	client  *Client // set when the service owns its transport
	logger  *log.Logger
}

// NewListenBrainzService creates a ListenBrainz client. The token may be
// empty: submissions then short-circuit with [shared.ErrMissingConfig]
// before any network call, while public reads still work.
func NewListenBrainzService(token string, fetcher Fetcher, logger *log.Logger) *ListenBrainzService {
	s := &ListenBrainzService{token: token, fetcher: fetcher, logger: logger}

	if fetcher == nil {
		client := NewClient(ClientOpts{
			BaseURL: listenBrainzBaseURL,
			Headers: authHeaders(token),
			Logger:  logger,
		})
		s.client = client
		s.fetcher = client
	}

	return s
}

// Name returns the provider name.
func (s *ListenBrainzService) Name() string { return models.SourceListenBrainz }

// SetToken replaces the user token (settings UI flow).
func (s *ListenBrainzService) SetToken(token string) {
	s.token = token
	if s.client != nil {
		s.client.SetHeader("Authorization", "Token "+token)
	}
}

// IsConfigured reports whether a user token is present.
func (s *ListenBrainzService) IsConfigured() bool { return s.token != "" }

// SubmitNowPlaying reports that track just started playing.
func (s *ListenBrainzService) SubmitNowPlaying(ctx context.Context, track models.Track) error {
	if !s.IsConfigured() {
		return fmt.Errorf("%w: listenbrainz token not set", shared.ErrMissingConfig)
	}

	submission := ListenSubmission{
		ListenType: listenTypePlayingNow,
		Payload:    []ListenPayload{buildListenPayload(track, 0)},
	}

	if _, err := s.fetcher.Post(ctx, "/1/submit-listens", submission); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("submitted now playing", "track", track.Name)
	}
	return nil
}

// SubmitListen records a completed listen. Callers should submit after the
// user hears 50% of the track or 4 minutes, whichever is shorter.
// A zero listenedAt defaults to now.
func (s *ListenBrainzService) SubmitListen(ctx context.Context, track models.Track, listenedAt int64) error {
	if !s.IsConfigured() {
		return fmt.Errorf("%w: listenbrainz token not set", shared.ErrMissingConfig)
	}

	if listenedAt == 0 {
		listenedAt = time.Now().Unix()
	}

	submission := ListenSubmission{
		ListenType: listenTypeSingle,
		Payload:    []ListenPayload{buildListenPayload(track, listenedAt)},
	}

	if _, err := s.fetcher.Post(ctx, "/1/submit-listens", submission); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("scrobbled listen", "track", track.Name)
	}
	return nil
}

// GetRecommendationMBIDs fetches the user's collaborative-filtering
// recommendation feed and returns the recording identifiers. Resolution to
// full tracks happens in the tasks layer, which bounds the lookup count.
func (s *ListenBrainzService) GetRecommendationMBIDs(ctx context.Context, username string, count int) ([]string, error) {
	if count <= 0 {
		count = 25
	}

	body, err := s.fetcher.Get(ctx, "/1/cf/recommendation/recording/"+username, map[string]string{
		"count": strconv.Itoa(count),
	})
	if err != nil {
		return nil, err
	}

	var resp recommendationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding recommendations: %v", shared.ErrProviderUnavailable, err)
	}

	mbids := make([]string, 0, len(resp.Payload.MBIDs))
	for _, entry := range resp.Payload.MBIDs {
		if entry.RecordingMBID == "" {
			continue
		}
		mbids = append(mbids, entry.RecordingMBID)
	}
	return mbids, nil
}

// GetUserListens fetches a user's recent listen history.
func (s *ListenBrainzService) GetUserListens(ctx context.Context, username string, count int) ([]models.Listen, error) {
	if count <= 0 {
		count = 25
	}

	body, err := s.fetcher.Get(ctx, "/1/user/"+username+"/listens", map[string]string{
		"count": strconv.Itoa(count),
	})
	if err != nil {
		return nil, err
	}

	var resp listensResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding listens: %v", shared.ErrProviderUnavailable, err)
	}

	listens := make([]models.Listen, len(resp.Payload.Listens))
	for i, raw := range resp.Payload.Listens {
		listens[i] = models.Listen{
			TrackName:  raw.TrackMetadata.TrackName,
			ArtistName: raw.TrackMetadata.ArtistName,
			ListenedAt: raw.ListenedAt,
			Source:     models.SourceListenBrainz,
		}
	}
	return listens, nil
}

// ValidateToken checks the configured token and returns the username it
// belongs to.
func (s *ListenBrainzService) ValidateToken(ctx context.Context) (string, error) {
	if !s.IsConfigured() {
		return "", fmt.Errorf("%w: listenbrainz token not set", shared.ErrMissingConfig)
	}

	body, err := s.fetcher.Get(ctx, "/1/validate-token", nil)
	if err != nil {
		return "", err
	}

	var resp validateTokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: decoding validate-token: %v", shared.ErrProviderUnavailable, err)
	}
	if !resp.Valid {
		return "", fmt.Errorf("%w: listenbrainz token rejected", shared.ErrMissingCredentials)
	}

	return resp.UserName, nil
}

// buildListenPayload converts a canonical track into a submission payload.
//
// Optional fields enter additional_info only when present and non-empty; a
// synthetic cross-provider id in the ISRC slot is dropped rather than
// forwarded upstream as a real identifier.
func buildListenPayload(track models.Track, listenedAt int64) ListenPayload {
	artist := track.Artists
	if len(track.ArtistNames) > 0 {
		artist = strings.Join(track.ArtistNames, ", ")
	}

	name := track.Name
	if name == "" {
		name = "Unknown"
	}

	info := map[string]any{}
	if track.DurationMS > 0 {
		info["duration_ms"] = track.DurationMS
	}
	if track.Album != "" {
		info["release_name"] = track.Album
	}
	if track.ISRC != "" && !models.IsSyntheticISRC(track.ISRC) {
		info["isrc"] = track.ISRC
	}
	if track.TrackNumber > 0 {
		info["tracknumber"] = track.TrackNumber
	}
	if len(info) == 0 {
		info = nil
	}

	return ListenPayload{
		ListenedAt: listenedAt,
		TrackMetadata: TrackMetadata{
			ArtistName:     artist,
			TrackName:      name,
			AdditionalInfo: info,
		},
	}
}

func authHeaders(token string) map[string]string {
	headers := map[string]string{"Content-Type": "application/json"}
	if token != "" {
		headers["Authorization"] = "Token " + token
	}
	return headers
}
