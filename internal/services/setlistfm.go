// Setlist.fm client: concert setlist search and detail, with free-text
// queries interpreted by [query.Parse] and live-recording audio routing.
//
// API reference: https://api.setlist.fm/docs/1.0
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/melodex/internal/models"
	"github.com/desertthunder/melodex/internal/query"
	"github.com/desertthunder/melodex/internal/shared"
)

const (
	setlistBaseURL = "https://api.setlist.fm/rest/1.0"

	// Setlist.fm reports event dates as DD-MM-YYYY.
	setlistDateLayout = "02-01-2006"

	setlistSearchCap = 20

	setlistPlaceholderArt = "/static/setlist-icon.svg"
)

// Audio resolution targets for concert recordings. Phish shows live on a
// dedicated archive addressable by date; everything else goes through a
// generic archive search string.
const (
	audioSourcePhishin = "phish.in"
	audioSourceArchive = "archive.org"
)

// RawSetlist represents one setlist record from the provider.
type RawSetlist struct {
	ID        string           `json:"id"`
	EventDate string           `json:"eventDate"`
	URL       string           `json:"url"`
	Artist    RawSetlistArtist `json:"artist"`
	Venue     RawVenue         `json:"venue"`
	Sets      RawSets          `json:"sets"`
}

// RawSetlistArtist is the performing act.
type RawSetlistArtist struct {
	MBID string `json:"mbid"`
	Name string `json:"name"`
}

// RawVenue is the concert venue with its city breakdown.
type RawVenue struct {
	Name string `json:"name"`
	City struct {
		Name      string `json:"name"`
		StateCode string `json:"stateCode"`
		Country   struct {
			Code string `json:"code"`
		} `json:"country"`
	} `json:"city"`
}

// RawSets wraps the provider's nested set list.
type RawSets struct {
	Set []RawSet `json:"set"`
}

// RawSet is one performance segment. Encore is a 1-based encore number,
// zero for main sets.
type RawSet struct {
	Name   string    `json:"name"`
	Encore int       `json:"encore"`
	Song   []RawSong `json:"song"`
}

// RawSong is one performed song.
type RawSong struct {
	Name  string     `json:"name"`
	Info  string     `json:"info"`
	With  *RawActRef `json:"with"`
	Cover *RawActRef `json:"cover"`
}

// RawActRef references another act (guest performer, covered artist).
type RawActRef struct {
	Name string `json:"name"`
}

type setlistSearchResponse struct {
	Setlist []RawSetlist `json:"setlist"`
}

// SetlistService searches and retrieves concert setlists.
type SetlistService struct {
	apiKey  string
	fetcher Fetcher
	logger  *log.Logger
}

// NewSetlistService creates a Setlist.fm client. Without an API key every
// operation short-circuits to an absence result before touching the network.
func NewSetlistService(apiKey string, fetcher Fetcher, logger *log.Logger) *SetlistService {
	if fetcher == nil {
		fetcher = NewClient(ClientOpts{
			BaseURL: setlistBaseURL,
			Headers: map[string]string{
				"Accept":    "application/json",
				"x-api-key": apiKey,
			},
			Logger: logger,
		})
	}

	return &SetlistService{apiKey: apiKey, fetcher: fetcher, logger: logger}
}

// Name returns the provider name.
func (s *SetlistService) Name() string { return models.SourceSetlistFM }

// IsConfigured reports whether an API key is present.
func (s *SetlistService) IsConfigured() bool { return s.apiKey != "" }

// SearchSetlists interprets a free-text query ("Grateful Dead", "Phish
// 2023", "Pearl Jam 1991-09-20") into provider filters and returns matching
// setlist summaries, capped at 20.
func (s *SetlistService) SearchSetlists(ctx context.Context, rawQuery string, page int) ([]models.Setlist, error) {
	if !s.IsConfigured() {
		return nil, fmt.Errorf("%w: setlist.fm API key not set", shared.ErrMissingConfig)
	}

	if page <= 0 {
		page = 1
	}
	params := map[string]string{"p": strconv.Itoa(page)}

	filter := query.Parse(rawQuery)
	switch {
	case filter.Date != "":
		// The provider expects DD-MM-YYYY, the filter carries ISO.
		if parsed, err := time.Parse("2006-01-02", filter.Date); err == nil {
			params["date"] = parsed.Format(setlistDateLayout)
		}
	case filter.Year != "":
		params["year"] = filter.Year
	}
	if filter.ArtistName != "" {
		params["artistName"] = filter.ArtistName
	}

	if s.logger != nil {
		s.logger.Debug("searching setlists", "params", params)
	}

	body, err := s.fetcher.Get(ctx, "/search/setlists", params)
	if err != nil {
		// The provider answers an empty result page with 404.
		if errors.Is(err, shared.ErrNotFound) {
			return []models.Setlist{}, nil
		}
		return nil, err
	}

	var resp setlistSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding setlist search: %v", shared.ErrProviderUnavailable, err)
	}

	raw := resp.Setlist
	if len(raw) > setlistSearchCap {
		raw = raw[:setlistSearchCap]
	}

	setlists := make([]models.Setlist, len(raw))
	for i, item := range raw {
		setlists[i] = normalizeSetlist(item)
	}
	return setlists, nil
}

// GetSetlist retrieves a full setlist with all performed songs.
func (s *SetlistService) GetSetlist(ctx context.Context, setlistID string) (*models.Setlist, error) {
	if !s.IsConfigured() {
		return nil, fmt.Errorf("%w: setlist.fm API key not set", shared.ErrMissingConfig)
	}

	cleanID := models.StripID(setlistID, models.TagSetlist)

	body, err := s.fetcher.Get(ctx, "/setlist/"+cleanID, nil)
	if err != nil {
		return nil, err
	}

	var raw RawSetlist
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decoding setlist: %v", shared.ErrProviderUnavailable, err)
	}

	setlist := normalizeSetlistDetail(raw)
	return &setlist, nil
}

// normalizeSetlist converts a raw setlist into the canonical summary shape.
// An unparseable event date degrades: the raw string becomes the display
// date and the ISO date stays empty.
func normalizeSetlist(raw RawSetlist) models.Setlist {
	artist := raw.Artist.Name
	if artist == "" {
		artist = "Unknown"
	}
	venue := raw.Venue.Name
	if venue == "" {
		venue = "Unknown Venue"
	}

	formattedDate := ""
	isoDate := ""
	if raw.EventDate != "" {
		if parsed, err := time.Parse(setlistDateLayout, raw.EventDate); err == nil {
			formattedDate = parsed.Format("January 02, 2006")
			isoDate = parsed.Format("2006-01-02")
		} else {
			formattedDate = raw.EventDate
		}
	}

	songCount := 0
	for _, set := range raw.Sets.Set {
		songCount += len(set.Song)
	}

	city := fmt.Sprintf("%s, %s %s", raw.Venue.City.Name, raw.Venue.City.StateCode, raw.Venue.City.Country.Code)

	return models.Setlist{
		ID:          models.NamespaceID(models.TagSetlist, raw.ID),
		Type:        models.TypeSetlist,
		Name:        fmt.Sprintf("%s at %s", artist, venue),
		Artists:     raw.Artist.Name,
		ArtistMBID:  raw.Artist.MBID,
		Venue:       raw.Venue.Name,
		City:        strings.Trim(city, ", "),
		Date:        formattedDate,
		ISODate:     isoDate,
		SongCount:   songCount,
		SetlistID:   raw.ID,
		URL:         raw.URL,
		AlbumArt:    setlistPlaceholderArt,
		TotalTracks: songCount,
		ReleaseDate: isoDate,
		Source:      models.SourceSetlistFM,
	}
}

// normalizeSetlistDetail extends the summary with every set's songs
// flattened into one ordered track sequence, plus audio source routing.
//
// Set labels: the set's own name, else "Set N" by 1-based position. An
// encore flag always wins, even over a non-empty name.
func normalizeSetlistDetail(raw RawSetlist) models.Setlist {
	setlist := normalizeSetlist(raw)

	for setIdx, set := range raw.Sets.Set {
		setName := set.Name
		if setName == "" {
			setName = fmt.Sprintf("Set %d", setIdx+1)
		}
		if set.Encore > 0 {
			setName = "Encore"
		}

		for _, song := range set.Song {
			name := song.Name
			if name == "" {
				name = "Unknown"
			}

			track := models.SetlistSong{
				ID:      models.NamespaceID(models.TagSetlistSong, fmt.Sprintf("%s_%d", setlist.SetlistID, len(setlist.Tracks))),
				Type:    models.TypeTrack,
				Name:    name,
				Artists: setlist.Artists,
				SetName: setName,
				Info:    song.Info,
				Source:  models.SourceSetlistFM,
			}
			if song.With != nil {
				track.WithInfo = song.With.Name
			}
			if song.Cover != nil {
				track.CoverInfo = song.Cover.Name
			}

			setlist.Tracks = append(setlist.Tracks, track)
		}
	}

	// Detail views render as albums.
	setlist.Type = models.TypeAlbum

	if strings.Contains(strings.ToLower(setlist.Artists), "phish") {
		setlist.AudioSource = audioSourcePhishin
		setlist.AudioURL = "https://phish.in/" + setlist.ISODate
	} else {
		setlist.AudioSource = audioSourceArchive
		setlist.AudioSearch = setlist.Artists + " " + setlist.ISODate
	}

	return setlist
}
