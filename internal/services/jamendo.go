// Jamendo catalog client.
//
// Jamendo hosts openly-licensed music; API response types based on
// https://developer.jamendo.com/v3.0
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/melodex/internal/models"
	"github.com/desertthunder/melodex/internal/shared"
)

const (
	jamendoBaseURL = "https://api.jamendo.com/v3.0"

	// Fallback client id for local testing, matching the public demo id.
	jamendoFallbackClientID = "90aefcef"

	// Audio format classification. Jamendo serves FLAC when asked but
	// silently falls back to MP3; the resolved URL is the source of truth.
	formatLossless = "flac"
	formatLossy    = "mp3"

	topTracksPageSize = 20
)

// JamendoTrack represents a raw track record. Jamendo reports ids as
// strings and durations in whole seconds.
type JamendoTrack struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ArtistID      string `json:"artist_id"`
	ArtistName    string `json:"artist_name"`
	AlbumID       string `json:"album_id"`
	AlbumName     string `json:"album_name"`
	AlbumImage    string `json:"album_image"`
	Image         string `json:"image"`
	Duration      int    `json:"duration"`
	Audio         string `json:"audio"`
	AudioDownload string `json:"audiodownload"`
	LicenseCCURL  string `json:"license_ccurl"`
	ReleaseDate   string `json:"releasedate"`
}

// JamendoAlbum represents a raw album record.
type JamendoAlbum struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ArtistID    string `json:"artist_id"`
	ArtistName  string `json:"artist_name"`
	Image       string `json:"image"`
	ReleaseDate string `json:"releasedate"`
}

// JamendoArtist represents a raw artist record.
type JamendoArtist struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Image   string `json:"image"`
	Website string `json:"website"`
}

type jamendoTrackList struct {
	Results []JamendoTrack `json:"results"`
}

type jamendoAlbumList struct {
	Results []JamendoAlbum `json:"results"`
}

type jamendoArtistList struct {
	Results []JamendoArtist `json:"results"`
}

// Nested track listings group tracks under each album/artist result.
type jamendoNestedTracks struct {
	Results []struct {
		Tracks []JamendoTrack `json:"tracks"`
	} `json:"results"`
}

// JamendoService searches and streams from the Jamendo catalog.
type JamendoService struct {
	fetcher Fetcher
	logger  *log.Logger
}

// NewJamendoService creates a Jamendo client. A nil fetcher gets the
// production transport with the client id baked into the default params.
func NewJamendoService(clientID string, fetcher Fetcher, logger *log.Logger) *JamendoService {
	if clientID == "" {
		clientID = jamendoFallbackClientID
	}
	if fetcher == nil {
		fetcher = NewClient(ClientOpts{
			BaseURL: jamendoBaseURL,
			DefaultParams: map[string]string{
				"client_id": clientID,
				"format":    "json",
			},
			Logger: logger,
		})
	}

	return &JamendoService{fetcher: fetcher, logger: logger}
}

// Name returns the provider name.
func (s *JamendoService) Name() string { return models.SourceJamendo }

// SearchTracks searches the catalog for tracks.
func (s *JamendoService) SearchTracks(ctx context.Context, query string, limit, offset int) ([]models.Track, error) {
	body, err := s.fetcher.Get(ctx, "/tracks/", map[string]string{
		"search":      query,
		"limit":       strconv.Itoa(clampLimit(limit)),
		"offset":      strconv.Itoa(max(offset, 0)),
		"include":     "musicinfo licenses",
		"audioformat": "flac",
	})
	if err != nil {
		return nil, err
	}

	var list jamendoTrackList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: decoding jamendo tracks: %v", shared.ErrProviderUnavailable, err)
	}

	tracks := make([]models.Track, len(list.Results))
	for i, raw := range list.Results {
		tracks[i] = normalizeJamendoTrack(raw)
	}
	return tracks, nil
}

// GetTrack retrieves a single track by canonical or raw id.
func (s *JamendoService) GetTrack(ctx context.Context, trackID string) (*models.Track, error) {
	cleanID := models.StripID(trackID, models.TagJamendo)

	body, err := s.fetcher.Get(ctx, "/tracks/", map[string]string{
		"id":          cleanID,
		"include":     "musicinfo licenses",
		"audioformat": "flac",
	})
	if err != nil {
		return nil, err
	}

	var list jamendoTrackList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: decoding jamendo track: %v", shared.ErrProviderUnavailable, err)
	}
	if len(list.Results) == 0 {
		return nil, fmt.Errorf("%w: jamendo track %s", shared.ErrNotFound, trackID)
	}

	track := normalizeJamendoTrack(list.Results[0])
	return &track, nil
}

// SearchAlbums searches the catalog for albums. Result entries carry no
// tracks; use [JamendoService.GetAlbum] for the full listing.
func (s *JamendoService) SearchAlbums(ctx context.Context, query string, limit, offset int) ([]models.Album, error) {
	body, err := s.fetcher.Get(ctx, "/albums/", map[string]string{
		"search": query,
		"limit":  strconv.Itoa(clampLimit(limit)),
		"offset": strconv.Itoa(max(offset, 0)),
	})
	if err != nil {
		return nil, err
	}

	var list jamendoAlbumList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: decoding jamendo albums: %v", shared.ErrProviderUnavailable, err)
	}

	albums := make([]models.Album, len(list.Results))
	for i, raw := range list.Results {
		albums[i] = normalizeJamendoAlbum(raw)
	}
	return albums, nil
}

// GetAlbum retrieves an album with its full track listing. The album header
// is fetched first, then each nested raw track is back-filled with the
// header's album and artist fields before normalization so per-track records
// are complete; provider track order is preserved.
func (s *JamendoService) GetAlbum(ctx context.Context, albumID string) (*models.Album, error) {
	cleanID := models.StripID(albumID, models.TagJamendo)

	body, err := s.fetcher.Get(ctx, "/albums/", map[string]string{"id": cleanID})
	if err != nil {
		return nil, err
	}

	var list jamendoAlbumList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: decoding jamendo album: %v", shared.ErrProviderUnavailable, err)
	}
	if len(list.Results) == 0 {
		return nil, fmt.Errorf("%w: jamendo album %s", shared.ErrNotFound, albumID)
	}

	raw := list.Results[0]
	album := normalizeJamendoAlbum(raw)

	tracksBody, err := s.fetcher.Get(ctx, "/albums/tracks/", map[string]string{
		"id":          cleanID,
		"audioformat": "flac",
	})
	if err != nil {
		return nil, err
	}

	var nested jamendoNestedTracks
	if err := json.Unmarshal(tracksBody, &nested); err != nil {
		return nil, fmt.Errorf("%w: decoding jamendo album tracks: %v", shared.ErrProviderUnavailable, err)
	}

	for _, group := range nested.Results {
		for _, rawTrack := range group.Tracks {
			rawTrack.AlbumName = album.Name
			rawTrack.AlbumImage = album.AlbumArt
			rawTrack.AlbumID = cleanID
			rawTrack.ArtistName = album.Artists
			rawTrack.ArtistID = raw.ArtistID
			album.Tracks = append(album.Tracks, normalizeJamendoTrack(rawTrack))
		}
	}
	album.TotalTracks = len(album.Tracks)

	return &album, nil
}

// SearchArtists searches the catalog for artists.
func (s *JamendoService) SearchArtists(ctx context.Context, query string, limit, offset int) ([]models.Artist, error) {
	body, err := s.fetcher.Get(ctx, "/artists/", map[string]string{
		"search": query,
		"limit":  strconv.Itoa(clampLimit(limit)),
		"offset": strconv.Itoa(max(offset, 0)),
	})
	if err != nil {
		return nil, err
	}

	var list jamendoArtistList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: decoding jamendo artists: %v", shared.ErrProviderUnavailable, err)
	}

	artists := make([]models.Artist, len(list.Results))
	for i, raw := range list.Results {
		artists[i] = normalizeJamendoArtist(raw)
	}
	return artists, nil
}

// GetArtist retrieves an artist with their top tracks, back-filling each raw
// track with the artist header fields before normalization.
func (s *JamendoService) GetArtist(ctx context.Context, artistID string) (*models.Artist, error) {
	cleanID := models.StripID(artistID, models.TagJamendoArtist, models.TagJamendo)

	body, err := s.fetcher.Get(ctx, "/artists/", map[string]string{"id": cleanID})
	if err != nil {
		return nil, err
	}

	var list jamendoArtistList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: decoding jamendo artist: %v", shared.ErrProviderUnavailable, err)
	}
	if len(list.Results) == 0 {
		return nil, fmt.Errorf("%w: jamendo artist %s", shared.ErrNotFound, artistID)
	}

	artist := normalizeJamendoArtist(list.Results[0])

	tracksBody, err := s.fetcher.Get(ctx, "/artists/tracks/", map[string]string{
		"id":          cleanID,
		"limit":       strconv.Itoa(topTracksPageSize),
		"audioformat": "flac",
	})
	if err != nil {
		return nil, err
	}

	var nested jamendoNestedTracks
	if err := json.Unmarshal(tracksBody, &nested); err != nil {
		return nil, fmt.Errorf("%w: decoding jamendo artist tracks: %v", shared.ErrProviderUnavailable, err)
	}

	for _, group := range nested.Results {
		for _, rawTrack := range group.Tracks {
			rawTrack.ArtistName = artist.Name
			rawTrack.ArtistID = cleanID
			artist.Tracks = append(artist.Tracks, normalizeJamendoTrack(rawTrack))
		}
	}

	return &artist, nil
}

// GetStreamURL resolves a direct stream URL for a track, trying FLAC first
// and falling back to MP3 (mp32, good-quality VBR).
func (s *JamendoService) GetStreamURL(ctx context.Context, trackID string, preferLossless bool) (string, error) {
	cleanID := models.StripID(trackID, models.TagJamendo)

	if preferLossless {
		if url, err := s.streamURLForFormat(ctx, cleanID, "flac"); err == nil && url != "" {
			return url, nil
		}
	}

	url, err := s.streamURLForFormat(ctx, cleanID, "mp32")
	if err != nil {
		return "", err
	}
	if url == "" {
		return "", fmt.Errorf("%w: no stream URL for jamendo track %s", shared.ErrNotFound, trackID)
	}
	return url, nil
}

func (s *JamendoService) streamURLForFormat(ctx context.Context, cleanID, audioFormat string) (string, error) {
	body, err := s.fetcher.Get(ctx, "/tracks/", map[string]string{
		"id":          cleanID,
		"audioformat": audioFormat,
	})
	if err != nil {
		return "", err
	}

	var list jamendoTrackList
	if err := json.Unmarshal(body, &list); err != nil {
		return "", fmt.Errorf("%w: decoding jamendo stream lookup: %v", shared.ErrProviderUnavailable, err)
	}
	if len(list.Results) == 0 {
		return "", nil
	}

	if url := list.Results[0].AudioDownload; url != "" {
		return url, nil
	}
	return list.Results[0].Audio, nil
}

// normalizeJamendoTrack converts a raw catalog track into the canonical
// shape. The download URL wins over the stream URL; the format is classified
// from whichever URL was resolved. Raw ids namespace even when empty.
func normalizeJamendoTrack(raw JamendoTrack) models.Track {
	audioURL := raw.AudioDownload
	if audioURL == "" {
		audioURL = raw.Audio
	}

	format := formatLossy
	if strings.Contains(strings.ToLower(audioURL), formatLossless) {
		format = formatLossless
	}

	art := raw.AlbumImage
	if art == "" {
		art = raw.Image
	}

	durationMS := raw.Duration * 1000

	return models.Track{
		ID:          models.NamespaceID(models.TagJamendo, raw.ID),
		Type:        models.TypeTrack,
		Name:        raw.Name,
		Artists:     raw.ArtistName,
		ArtistNames: []string{raw.ArtistName},
		ArtistID:    models.NamespaceID(models.TagJamendoArtist, raw.ArtistID),
		Album:       raw.AlbumName,
		AlbumID:     models.NamespaceID(models.TagJamendo, raw.AlbumID),
		AlbumArt:    art,
		DurationMS:  durationMS,
		Duration:    models.FormatDuration(durationMS),
		AudioURL:    audioURL,
		License:     raw.LicenseCCURL,
		ReleaseDate: raw.ReleaseDate,
		Source:      models.SourceJamendo,
		Format:      format,
	}
}

func normalizeJamendoAlbum(raw JamendoAlbum) models.Album {
	return models.Album{
		ID:          models.NamespaceID(models.TagJamendo, raw.ID),
		Type:        models.TypeAlbum,
		Name:        raw.Name,
		Artists:     raw.ArtistName,
		ArtistID:    models.NamespaceID(models.TagJamendoArtist, raw.ArtistID),
		AlbumArt:    raw.Image,
		ReleaseDate: raw.ReleaseDate,
		Source:      models.SourceJamendo,
	}
}

func normalizeJamendoArtist(raw JamendoArtist) models.Artist {
	return models.Artist{
		ID:      models.NamespaceID(models.TagJamendoArtist, raw.ID),
		Type:    models.TypeArtist,
		Name:    raw.Name,
		Image:   raw.Image,
		Website: raw.Website,
		Source:  models.SourceJamendo,
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 200 {
		return 200
	}
	return limit
}
