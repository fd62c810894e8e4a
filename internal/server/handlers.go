package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/melodex/internal/models"
	"github.com/desertthunder/melodex/internal/shared"
	"github.com/desertthunder/melodex/internal/tasks"
)

// Catalog is the free-music catalog surface the API serves.
type Catalog interface {
	GetTrack(ctx context.Context, id string) (*models.Track, error)
	GetAlbum(ctx context.Context, id string) (*models.Album, error)
	GetArtist(ctx context.Context, id string) (*models.Artist, error)
	GetStreamURL(ctx context.Context, id string, preferLossless bool) (string, error)
}

// Setlists is the concert setlist surface.
type Setlists interface {
	SearchSetlists(ctx context.Context, query string, page int) ([]models.Setlist, error)
	GetSetlist(ctx context.Context, id string) (*models.Setlist, error)
}

// Scrobbler is the listen submission and history surface.
type Scrobbler interface {
	SubmitNowPlaying(ctx context.Context, track models.Track) error
	SubmitListen(ctx context.Context, track models.Track, listenedAt int64) error
	GetUserListens(ctx context.Context, username string, count int) ([]models.Listen, error)
	ValidateToken(ctx context.Context) (string, error)
}

// Searcher fans a query out across providers.
type Searcher interface {
	SearchAll(ctx context.Context, query string, progress chan<- tasks.ProgressUpdate) (*tasks.SearchResult, error)
}

// Recommender resolves recommendation feeds and enriches tracks.
type Recommender interface {
	Recommendations(ctx context.Context, username string, progress chan<- tasks.ProgressUpdate) ([]models.Track, error)
	EnrichTrack(ctx context.Context, track models.Track) models.Track
}

// APIHandler serves the JSON API. Any dependency may be nil; its endpoints
// then answer 503.
type APIHandler struct {
	catalog   Catalog
	setlists  Setlists
	scrobbler Scrobbler
	searcher  Searcher
	resolver  Recommender
	logger    *log.Logger
}

// NewAPIHandler creates the API handler.
func NewAPIHandler(catalog Catalog, setlists Setlists, scrobbler Scrobbler, searcher Searcher, resolver Recommender, logger *log.Logger) *APIHandler {
	return &APIHandler{
		catalog:   catalog,
		setlists:  setlists,
		scrobbler: scrobbler,
		searcher:  searcher,
		resolver:  resolver,
		logger:    logger,
	}
}

// Routes returns the path patterns this handler serves.
func (h *APIHandler) Routes() []string {
	return []string{
		"GET /health",
		"GET /api/search",
		"GET /api/tracks/{id}",
		"GET /api/tracks/{id}/stream",
		"GET /api/albums/{id}",
		"GET /api/artists/{id}",
		"GET /api/setlists",
		"GET /api/setlists/{id}",
		"GET /api/recommendations/{user}",
		"GET /api/listens/{user}",
		"GET /api/token/validate",
		"POST /api/scrobble",
	}
}

// ServeHTTP dispatches to the endpoint implementations.
func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/health":
		h.handleHealth(w, r)
	case r.URL.Path == "/api/search":
		h.handleSearch(w, r)
	case r.URL.Path == "/api/setlists":
		h.handleSetlistSearch(w, r)
	case r.URL.Path == "/api/token/validate":
		h.handleValidateToken(w, r)
	case r.URL.Path == "/api/scrobble":
		h.handleScrobble(w, r)
	case r.PathValue("user") != "" && pathHasPrefix(r, "/api/recommendations/"):
		h.handleRecommendations(w, r)
	case r.PathValue("user") != "" && pathHasPrefix(r, "/api/listens/"):
		h.handleListens(w, r)
	case r.PathValue("id") != "" && pathHasPrefix(r, "/api/setlists/"):
		h.handleSetlistDetail(w, r)
	case r.PathValue("id") != "" && pathHasPrefix(r, "/api/albums/"):
		h.handleAlbum(w, r)
	case r.PathValue("id") != "" && pathHasPrefix(r, "/api/artists/"):
		h.handleArtist(w, r)
	case r.PathValue("id") != "" && pathHasPrefix(r, "/api/tracks/"):
		h.handleTrack(w, r)
	default:
		h.writeError(w, http.StatusNotFound, "not found")
	}
}

func pathHasPrefix(r *http.Request, prefix string) bool {
	return len(r.URL.Path) > len(prefix) && r.URL.Path[:len(prefix)] == prefix
}

func (h *APIHandler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *APIHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if h.searcher == nil {
		h.writeError(w, http.StatusServiceUnavailable, "search not configured")
		return
	}

	result, err := h.searcher.SearchAll(r.Context(), r.URL.Query().Get("q"), nil)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *APIHandler) handleTrack(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		h.writeError(w, http.StatusServiceUnavailable, "catalog not configured")
		return
	}

	if isStreamPath(r) {
		h.handleStream(w, r)
		return
	}

	track, err := h.catalog.GetTrack(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	enriched := *track
	if h.resolver != nil {
		enriched = h.resolver.EnrichTrack(r.Context(), enriched)
	}
	h.writeJSON(w, http.StatusOK, enriched)
}

func isStreamPath(r *http.Request) bool {
	const suffix = "/stream"
	p := r.URL.Path
	return len(p) > len(suffix) && p[len(p)-len(suffix):] == suffix
}

func (h *APIHandler) handleStream(w http.ResponseWriter, r *http.Request) {
	preferLossless := r.URL.Query().Get("lossless") != "false"

	streamURL, err := h.catalog.GetStreamURL(r.Context(), r.PathValue("id"), preferLossless)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"url": streamURL})
}

func (h *APIHandler) handleAlbum(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		h.writeError(w, http.StatusServiceUnavailable, "catalog not configured")
		return
	}

	album, err := h.catalog.GetAlbum(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, album)
}

func (h *APIHandler) handleArtist(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		h.writeError(w, http.StatusServiceUnavailable, "catalog not configured")
		return
	}

	artist, err := h.catalog.GetArtist(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, artist)
}

func (h *APIHandler) handleSetlistSearch(w http.ResponseWriter, r *http.Request) {
	if h.setlists == nil {
		h.writeError(w, http.StatusServiceUnavailable, "setlists not configured")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	setlists, err := h.setlists.SearchSetlists(r.Context(), r.URL.Query().Get("q"), page)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"setlists": setlists})
}

func (h *APIHandler) handleSetlistDetail(w http.ResponseWriter, r *http.Request) {
	if h.setlists == nil {
		h.writeError(w, http.StatusServiceUnavailable, "setlists not configured")
		return
	}

	setlist, err := h.setlists.GetSetlist(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, setlist)
}

func (h *APIHandler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if h.resolver == nil {
		h.writeError(w, http.StatusServiceUnavailable, "recommendations not configured")
		return
	}

	tracks, err := h.resolver.Recommendations(r.Context(), r.PathValue("user"), nil)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"tracks": tracks})
}

func (h *APIHandler) handleListens(w http.ResponseWriter, r *http.Request) {
	if h.scrobbler == nil {
		h.writeError(w, http.StatusServiceUnavailable, "scrobbling not configured")
		return
	}

	count, _ := strconv.Atoi(r.URL.Query().Get("count"))
	listens, err := h.scrobbler.GetUserListens(r.Context(), r.PathValue("user"), count)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"listens": listens})
}

func (h *APIHandler) handleValidateToken(w http.ResponseWriter, r *http.Request) {
	if h.scrobbler == nil {
		h.writeError(w, http.StatusServiceUnavailable, "scrobbling not configured")
		return
	}

	username, err := h.scrobbler.ValidateToken(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"valid": true, "username": username})
}

// ScrobbleRequest is the POST /api/scrobble body. NowPlaying submissions
// ignore ListenedAt.
type ScrobbleRequest struct {
	Track      models.Track `json:"track"`
	ListenedAt int64        `json:"listened_at,omitempty"`
	NowPlaying bool         `json:"now_playing,omitempty"`
}

func (h *APIHandler) handleScrobble(w http.ResponseWriter, r *http.Request) {
	if h.scrobbler == nil {
		h.writeError(w, http.StatusServiceUnavailable, "scrobbling not configured")
		return
	}

	var req ScrobbleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	var err error
	if req.NowPlaying {
		err = h.scrobbler.SubmitNowPlaying(r.Context(), req.Track)
	} else {
		err = h.scrobbler.SubmitListen(r.Context(), req.Track, req.ListenedAt)
	}
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && h.logger != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *APIHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps the error taxonomy onto HTTP statuses: absence is
// 404, configuration gaps are 503, provider outages are 502, bad input is
// 400, everything else is 500.
func (h *APIHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shared.ErrMissingConfig), errors.Is(err, shared.ErrMissingCredentials):
		h.writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, shared.ErrProviderUnavailable):
		h.writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, shared.ErrInvalidInput):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.writeError(w, http.StatusInternalServerError, err.Error())
	}
}
