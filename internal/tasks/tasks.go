// package tasks orchestrates multi-provider search and registry resolution.
//
// The Aggregator fans a free-text query out to every configured provider and
// degrades per-provider failures to empty sections, so one outage never
// empties the whole results page. The Resolver turns registry identifiers
// into canonical tracks and bounds how many lookups a single request may
// spend. Operations emit progress updates via channels for non-blocking
// status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/melodex/internal/models"
	"github.com/desertthunder/melodex/internal/shared"
)

// maxRecommendationLookups bounds registry traffic per recommendation
// request. MusicBrainz allows 1 req/s, so each lookup past the cap is
// another second of latency.
const maxRecommendationLookups = 15

// defaultSearchLimit is the per-provider page size for aggregated search.
const defaultSearchLimit = 20

// CatalogService searches the free-music catalog.
type CatalogService interface {
	SearchTracks(ctx context.Context, query string, limit, offset int) ([]models.Track, error)
	SearchAlbums(ctx context.Context, query string, limit, offset int) ([]models.Album, error)
	SearchArtists(ctx context.Context, query string, limit, offset int) ([]models.Artist, error)
}

// SetlistSearcher searches concert setlists.
type SetlistSearcher interface {
	SearchSetlists(ctx context.Context, query string, page int) ([]models.Setlist, error)
}

// Registry resolves recordings against the canonical music registry.
type Registry interface {
	LookupByISRC(ctx context.Context, isrc string) (*models.Enrichment, error)
	LookupRecording(ctx context.Context, mbid string) (*models.Track, error)
}

// RecommendationFeed supplies recording identifiers recommended for a user.
type RecommendationFeed interface {
	GetRecommendationMBIDs(ctx context.Context, username string, count int) ([]string, error)
}

// SearchResult contains one section per provider for an aggregated search.
// A section is empty both when the provider had no matches and when it was
// unreachable; Errors records which providers failed and why.
type SearchResult struct {
	Query    string           `json:"query"`
	Tracks   []models.Track   `json:"tracks"`
	Albums   []models.Album   `json:"albums"`
	Artists  []models.Artist  `json:"artists"`
	Setlists []models.Setlist `json:"setlists"`
	Errors   map[string]error `json:"-"`
}

// Aggregator fans searches out across providers.
type Aggregator struct {
	catalog  CatalogService
	setlists SetlistSearcher
	logger   *log.Logger
}

// NewAggregator creates an Aggregator. Either provider may be nil; its
// sections then stay empty.
func NewAggregator(catalog CatalogService, setlists SetlistSearcher, logger *log.Logger) *Aggregator {
	return &Aggregator{catalog: catalog, setlists: setlists, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// SearchAll runs the query against every configured provider. Provider
// failures are logged, recorded in the result's Errors map, and degrade to
// empty sections; SearchAll itself only fails on an empty query.
func (a *Aggregator) SearchAll(ctx context.Context, query string, progress chan<- ProgressUpdate) (*SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", shared.ErrInvalidInput)
	}

	result := &SearchResult{
		Query:    query,
		Tracks:   []models.Track{},
		Albums:   []models.Album{},
		Artists:  []models.Artist{},
		Setlists: []models.Setlist{},
		Errors:   map[string]error{},
	}

	if a.catalog != nil {
		sendProgress(progress, searchUpdate(SearchCatalog, 1, 4, "catalog tracks"))
		if tracks, err := a.catalog.SearchTracks(ctx, query, defaultSearchLimit, 0); err != nil {
			a.degrade(result, "tracks", err)
		} else {
			result.Tracks = tracks
		}

		sendProgress(progress, searchUpdate(SearchAlbums, 2, 4, "catalog albums"))
		if albums, err := a.catalog.SearchAlbums(ctx, query, defaultSearchLimit, 0); err != nil {
			a.degrade(result, "albums", err)
		} else {
			result.Albums = albums
		}

		sendProgress(progress, searchUpdate(SearchArtists, 3, 4, "catalog artists"))
		if artists, err := a.catalog.SearchArtists(ctx, query, defaultSearchLimit, 0); err != nil {
			a.degrade(result, "artists", err)
		} else {
			result.Artists = artists
		}
	}

	if a.setlists != nil {
		sendProgress(progress, searchUpdate(SearchSetlists, 4, 4, "setlists"))
		if setlists, err := a.setlists.SearchSetlists(ctx, query, 1); err != nil {
			a.degrade(result, "setlists", err)
		} else {
			result.Setlists = setlists
		}
	}

	return result, nil
}

func (a *Aggregator) degrade(result *SearchResult, section string, err error) {
	result.Errors[section] = err
	if a.logger != nil {
		a.logger.Warn("provider search failed", "section", section, "error", err)
	}
}

// Resolver enriches tracks and resolves recommendation feeds against the
// registry.
type Resolver struct {
	registry Registry
	feed     RecommendationFeed
	logger   *log.Logger
}

// NewResolver creates a Resolver.
func NewResolver(registry Registry, feed RecommendationFeed, logger *log.Logger) *Resolver {
	return &Resolver{registry: registry, feed: feed, logger: logger}
}

// EnrichTrack fills a track's missing release date, label, genres, and cover
// art from the registry, keyed by ISRC. The input track always comes back:
// a registry miss or outage leaves it untouched.
func (r *Resolver) EnrichTrack(ctx context.Context, track models.Track) models.Track {
	if r.registry == nil {
		return track
	}

	enrichment, err := r.registry.LookupByISRC(ctx, track.ISRC)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("registry enrichment failed", "track", track.Name, "error", err)
		}
		return track
	}
	if enrichment == nil {
		return track
	}

	if track.ReleaseDate == "" {
		track.ReleaseDate = enrichment.ReleaseDate
	}
	if track.Label == "" {
		track.Label = enrichment.Label
	}
	if len(track.Genres) == 0 {
		track.Genres = enrichment.Genres
	}
	if track.AlbumArt == "" {
		track.AlbumArt = enrichment.CoverArtURL
	}

	return track
}

// EnrichTracks enriches a slice in place, reporting progress per track.
func (r *Resolver) EnrichTracks(ctx context.Context, tracks []models.Track, progress chan<- ProgressUpdate) []models.Track {
	total := len(tracks)
	for i := range tracks {
		sendProgress(progress, enrichUpdate(i+1, total, tracks[i].Name))
		tracks[i] = r.EnrichTrack(ctx, tracks[i])
	}
	return tracks
}

// Recommendations fetches a user's recommendation feed and resolves each
// recording identifier into a full canonical track. At most
// maxRecommendationLookups identifiers are resolved per call; individual
// lookup failures are skipped, so the result may be shorter than the cap.
func (r *Resolver) Recommendations(ctx context.Context, username string, progress chan<- ProgressUpdate) ([]models.Track, error) {
	if r.feed == nil || r.registry == nil {
		return nil, fmt.Errorf("%w: recommendation services not initialized", shared.ErrMissingConfig)
	}
	if username == "" {
		return nil, fmt.Errorf("%w: empty username", shared.ErrInvalidInput)
	}

	mbids, err := r.feed.GetRecommendationMBIDs(ctx, username, maxRecommendationLookups)
	if err != nil {
		return nil, err
	}
	if len(mbids) > maxRecommendationLookups {
		mbids = mbids[:maxRecommendationLookups]
	}

	total := len(mbids)
	tracks := make([]models.Track, 0, total)

	for i, mbid := range mbids {
		sendProgress(progress, resolveRecUpdate(i+1, total))

		track, err := r.registry.LookupRecording(ctx, mbid)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("skipping unresolvable recommendation", "mbid", mbid, "error", err)
			}
			continue
		}

		track.Type = models.TypeRecommendation
		track.Source = models.SourceListenBrainz
		tracks = append(tracks, *track)
	}

	return tracks, nil
}
