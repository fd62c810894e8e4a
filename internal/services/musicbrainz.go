// MusicBrainz registry client: metadata enrichment (release date, label,
// genres) by ISRC, full recording lookups by MBID, and cover art from the
// Cover Art Archive.
//
// MusicBrainz allows 1 request/second without authentication and requires a
// User-Agent identifying the application.
// API reference: https://musicbrainz.org/doc/MusicBrainz_API
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/melodex/internal/models"
	"github.com/desertthunder/melodex/internal/shared"
)

const (
	musicBrainzBaseURL = "https://musicbrainz.org/ws/2"
	coverArtBaseURL    = "https://coverartarchive.org"

	defaultUserAgent = "melodex/0.1 (https://github.com/desertthunder/melodex)"

	maxGenres = 5
)

// MBRecording represents a raw recording, the registry's unit of a specific
// performance of a song. Length is in milliseconds.
type MBRecording struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Length       int              `json:"length"`
	ArtistCredit []MBArtistCredit `json:"artist-credit"`
	Releases     []MBRelease      `json:"releases"`
	Genres       []mbGenre        `json:"genres"`
}

// MBArtistCredit is one credited artist on a recording.
type MBArtistCredit struct {
	Name string `json:"name"`
}

// MBRelease represents a raw release (album, EP, single).
type MBRelease struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Date      string        `json:"date"`
	LabelInfo []mbLabelInfo `json:"label-info"`
}

type mbLabelInfo struct {
	Label *mbLabel `json:"label"`
}

type mbLabel struct {
	Name string `json:"name"`
}

type mbGenre struct {
	Name string `json:"name"`
}

type mbISRCResponse struct {
	Recordings []MBRecording `json:"recordings"`
}

// CAAImage is one image entry from the Cover Art Archive.
type CAAImage struct {
	Front      bool   `json:"front"`
	Image      string `json:"image"`
	Thumbnails struct {
		Size500 string `json:"500"`
		Large   string `json:"large"`
	} `json:"thumbnails"`
}

type caaResponse struct {
	Images []CAAImage `json:"images"`
}

// MusicBrainzService enriches tracks from the canonical recording registry.
type MusicBrainzService struct {
	registry Fetcher
	coverArt Fetcher
	logger   *log.Logger
}

// NewMusicBrainzService creates a registry client. Nil fetchers get the
// production transports; the registry transport is rate-limited to 1 req/s
// per the MusicBrainz terms of service.
func NewMusicBrainzService(userAgent string, registry, coverArt Fetcher, logger *log.Logger) *MusicBrainzService {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if registry == nil {
		registry = NewClient(ClientOpts{
			BaseURL:        musicBrainzBaseURL,
			DefaultParams:  map[string]string{"fmt": "json"},
			Headers:        map[string]string{"User-Agent": userAgent},
			RequestsPerSec: 1,
			Logger:         logger,
		})
	}
	if coverArt == nil {
		coverArt = NewClient(ClientOpts{
			BaseURL: coverArtBaseURL,
			Headers: map[string]string{"User-Agent": userAgent},
			Logger:  logger,
		})
	}

	return &MusicBrainzService{registry: registry, coverArt: coverArt, logger: logger}
}

// Name returns the provider name.
func (s *MusicBrainzService) Name() string { return models.SourceMusicBrainz }

// LookupByISRC returns enrichment metadata for a recording identified by
// ISRC, or nil without touching the network when the identifier is empty or
// synthetic. A registry miss, or a recording with no release, is also nil:
// absence, not an error.
func (s *MusicBrainzService) LookupByISRC(ctx context.Context, isrc string) (*models.Enrichment, error) {
	if isrc == "" || models.IsSyntheticISRC(isrc) {
		return nil, nil
	}

	body, err := s.registry.Get(ctx, "/isrc/"+isrc, map[string]string{
		"inc": "releases+release-groups+labels+genres",
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var resp mbISRCResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding isrc lookup: %v", shared.ErrProviderUnavailable, err)
	}
	if len(resp.Recordings) == 0 {
		return nil, nil
	}

	enrichment := normalizeEnrichment(resp.Recordings[0])
	if enrichment == nil {
		return nil, nil
	}

	if enrichment.ReleaseID != "" {
		if coverURL, err := s.CoverArtURL(ctx, enrichment.ReleaseID); err == nil {
			enrichment.CoverArtURL = coverURL
		}
	}

	if s.logger != nil {
		s.logger.Debug("registry enrichment found",
			"isrc", isrc, "release_date", enrichment.ReleaseDate, "label", enrichment.Label)
	}
	return enrichment, nil
}

// LookupRecording resolves a recording MBID into a full canonical track.
func (s *MusicBrainzService) LookupRecording(ctx context.Context, mbid string) (*models.Track, error) {
	if mbid == "" {
		return nil, fmt.Errorf("%w: empty recording mbid", shared.ErrInvalidInput)
	}

	body, err := s.registry.Get(ctx, "/recording/"+mbid, map[string]string{
		"inc": "artists+releases+genres",
	})
	if err != nil {
		return nil, err
	}

	var recording MBRecording
	if err := json.Unmarshal(body, &recording); err != nil {
		return nil, fmt.Errorf("%w: decoding recording lookup: %v", shared.ErrProviderUnavailable, err)
	}

	track := normalizeMBRecording(mbid, recording)

	if len(recording.Releases) > 0 && recording.Releases[0].ID != "" {
		if coverURL, err := s.CoverArtURL(ctx, recording.Releases[0].ID); err == nil {
			track.AlbumArt = coverURL
		}
	}

	return &track, nil
}

// CoverArtURL resolves the best cover art image for a release: the front
// cover's 500px thumbnail, then its "large" thumbnail, then the full image,
// then the first image of any kind. Empty when the archive has nothing.
func (s *MusicBrainzService) CoverArtURL(ctx context.Context, releaseID string) (string, error) {
	body, err := s.coverArt.Get(ctx, "/release/"+releaseID, nil)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", nil
		}
		return "", err
	}

	var resp caaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: decoding cover art: %v", shared.ErrProviderUnavailable, err)
	}

	return pickCoverArt(resp.Images), nil
}

// normalizeEnrichment extracts enrichment from a recording. The first listed
// release is taken as authoritative; this is a known simplification, the
// first release is not necessarily the earliest.
func normalizeEnrichment(recording MBRecording) *models.Enrichment {
	if len(recording.Releases) == 0 {
		return nil
	}

	release := recording.Releases[0]
	enrichment := &models.Enrichment{
		ReleaseDate: release.Date,
		ReleaseID:   release.ID,
	}

	if len(release.LabelInfo) > 0 && release.LabelInfo[0].Label != nil {
		enrichment.Label = release.LabelInfo[0].Label.Name
	}

	for _, genre := range recording.Genres {
		if len(enrichment.Genres) == maxGenres {
			break
		}
		enrichment.Genres = append(enrichment.Genres, genre.Name)
	}

	return enrichment
}

// normalizeMBRecording converts a raw recording into a canonical track.
func normalizeMBRecording(mbid string, recording MBRecording) models.Track {
	names := make([]string, 0, len(recording.ArtistCredit))
	for _, credit := range recording.ArtistCredit {
		if credit.Name != "" {
			names = append(names, credit.Name)
		}
	}

	track := models.Track{
		ID:          models.NamespaceID(models.TagMusicBrainz, mbid),
		Type:        models.TypeTrack,
		Name:        recording.Title,
		Artists:     strings.Join(names, ", "),
		ArtistNames: names,
		DurationMS:  recording.Length,
		Duration:    models.FormatDuration(recording.Length),
		Source:      models.SourceMusicBrainz,
	}

	if len(recording.Releases) > 0 {
		release := recording.Releases[0]
		track.Album = release.Title
		track.AlbumID = models.NamespaceID(models.TagMusicBrainz, release.ID)
		track.ReleaseDate = release.Date
	}

	for _, genre := range recording.Genres {
		if len(track.Genres) == maxGenres {
			break
		}
		track.Genres = append(track.Genres, genre.Name)
	}

	return track
}

func pickCoverArt(images []CAAImage) string {
	for _, img := range images {
		if !img.Front {
			continue
		}
		if img.Thumbnails.Size500 != "" {
			return img.Thumbnails.Size500
		}
		if img.Thumbnails.Large != "" {
			return img.Thumbnails.Large
		}
		return img.Image
	}

	if len(images) > 0 {
		return images[0].Image
	}
	return ""
}
