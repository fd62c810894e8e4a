package models

import "fmt"

// Entity type markers used in the Type field of canonical entities.
const (
	TypeTrack          = "track"
	TypeAlbum          = "album"
	TypeArtist         = "artist"
	TypeSetlist        = "setlist"
	TypeRecommendation = "recommendation"
)

// Track is the canonical track shape consumed by the frontend.
//
// DurationMS and Duration are kept consistent by construction: normalizers
// always derive Duration via [FormatDuration].
type Track struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Artists     string   `json:"artists"`
	ArtistNames []string `json:"artist_names,omitempty"`
	ArtistID    string   `json:"artist_id,omitempty"`
	Album       string   `json:"album,omitempty"`
	AlbumID     string   `json:"album_id,omitempty"`
	AlbumArt    string   `json:"album_art,omitempty"`
	DurationMS  int      `json:"duration_ms"`
	Duration    string   `json:"duration"`
	AudioURL    string   `json:"audio_url,omitempty"`
	License     string   `json:"license,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	ISRC        string   `json:"isrc,omitempty"`
	TrackNumber int      `json:"track_number,omitempty"`
	Label       string   `json:"label,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Source      string   `json:"source"`
	Format      string   `json:"format,omitempty"`
}

// Album is the canonical album shape. Tracks is populated lazily on detail
// fetches and stays empty on search-result entries.
type Album struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Artists     string  `json:"artists"`
	ArtistID    string  `json:"artist_id,omitempty"`
	AlbumArt    string  `json:"album_art,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	TotalTracks int     `json:"total_tracks"`
	Source      string  `json:"source"`
	Tracks      []Track `json:"tracks,omitempty"`
}

// Artist is the canonical artist shape. Tracks holds top tracks only and
// stays empty on search-result entries.
type Artist struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Name    string  `json:"name"`
	Image   string  `json:"image,omitempty"`
	Website string  `json:"website,omitempty"`
	Source  string  `json:"source"`
	Tracks  []Track `json:"tracks,omitempty"`
}

// Setlist is the canonical concert setlist, a specialization of Album.
// SetlistID keeps the raw, unprefixed id for provider API round-trips.
type Setlist struct {
	ID          string        `json:"id"`
	Type        string        `json:"type"`
	Name        string        `json:"name"`
	Artists     string        `json:"artists"`
	ArtistMBID  string        `json:"artist_mbid,omitempty"`
	Venue       string        `json:"venue"`
	City        string        `json:"city"`
	Date        string        `json:"date"`
	ISODate     string        `json:"iso_date"`
	SongCount   int           `json:"song_count"`
	SetlistID   string        `json:"setlist_id"`
	URL         string        `json:"url,omitempty"`
	AlbumArt    string        `json:"album_art,omitempty"`
	TotalTracks int           `json:"total_tracks"`
	ReleaseDate string        `json:"release_date,omitempty"`
	AudioSource string        `json:"audio_source,omitempty"`
	AudioURL    string        `json:"audio_url,omitempty"`
	AudioSearch string        `json:"audio_search,omitempty"`
	Source      string        `json:"source"`
	Tracks      []SetlistSong `json:"tracks,omitempty"`
}

// SetlistSong is a performed song within a setlist. SetName carries the
// performance segment label ("Set 1", "Encore", or the set's own name).
type SetlistSong struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Name      string `json:"name"`
	Artists   string `json:"artists"`
	SetName   string `json:"set_name"`
	WithInfo  string `json:"with_info,omitempty"`
	CoverInfo string `json:"cover_info,omitempty"`
	Info      string `json:"info,omitempty"`
	Duration  string `json:"duration"`
	Source    string `json:"source"`
}

// Enrichment is supplemental metadata from the recording registry, merged
// onto a track and discarded. ReleaseID is opaque and only useful for
// further provider lookups (cover art).
type Enrichment struct {
	ReleaseDate string   `json:"release_date,omitempty"`
	ReleaseID   string   `json:"release_id,omitempty"`
	Label       string   `json:"label,omitempty"`
	CoverArtURL string   `json:"cover_art_url,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

// Listen is one entry of a user's scrobble history.
type Listen struct {
	TrackName  string `json:"track_name"`
	ArtistName string `json:"artist_name"`
	ListenedAt int64  `json:"listened_at"`
	Source     string `json:"source"`
}

// FormatDuration renders milliseconds as M:SS with zero-padded seconds.
// Zero and negative durations render as "0:00".
func FormatDuration(ms int) string {
	if ms < 0 {
		ms = 0
	}
	seconds := ms / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
