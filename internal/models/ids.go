package models

import "strings"

// Provider tags prepended to raw ids. Tags keep ids globally unique across
// providers and routable back to the originating API.
const (
	TagJamendo       = "jm"
	TagJamendoArtist = "jm_artist"
	TagMusicBrainz   = "mb"
	TagSetlist       = "setlist"
	TagSetlistSong   = "setlist_song"
)

// Provider source labels used in the Source field of canonical entities.
const (
	SourceJamendo      = "jamendo"
	SourceListenBrainz = "listenbrainz"
	SourceMusicBrainz  = "musicbrainz"
	SourceSetlistFM    = "setlist.fm"
)

// syntheticIDPrefixes mark ids other parts of the stack stuff into the ISRC
// slot. They are not industry-standard identifiers: they must never be
// forwarded upstream and short-circuit registry lookups.
var syntheticIDPrefixes = []string{"dz_", "ytm_", "LINK:", "pod_"}

// NamespaceID prefixes a raw provider id with tag, joined by an underscore.
// An empty raw id still namespaces ("jm_"): degenerate but valid output.
func NamespaceID(tag, raw string) string {
	return tag + "_" + raw
}

// StripID removes the first matching leading tag from id. Only a known
// leading tag is removed, exactly once, never a suffix; an id that already
// lacks every tag is returned unchanged, so stripping is idempotent.
//
// Pass longer tags first when one tag prefixes another (TagJamendoArtist
// before TagJamendo).
func StripID(id string, tags ...string) string {
	for _, tag := range tags {
		prefix := tag + "_"
		if strings.HasPrefix(id, prefix) {
			return strings.TrimPrefix(id, prefix)
		}
	}
	return id
}

// IsSyntheticISRC reports whether isrc carries one of the synthetic
// cross-provider prefixes rather than a real ISRC.
func IsSyntheticISRC(isrc string) bool {
	for _, prefix := range syntheticIDPrefixes {
		if strings.HasPrefix(isrc, prefix) {
			return true
		}
	}
	return false
}
