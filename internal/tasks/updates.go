package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	SearchCatalog Phase = iota
	SearchAlbums
	SearchArtists
	SearchSetlists
	Enrich
	ResolveRecs
)

func (p Phase) String() string {
	switch p {
	case SearchCatalog:
		return "search_catalog"
	case SearchAlbums:
		return "search_albums"
	case SearchArtists:
		return "search_artists"
	case SearchSetlists:
		return "search_setlists"
	case Enrich:
		return "enrich"
	case ResolveRecs:
		return "resolve_recommendations"
	default:
		return ""
	}
}

func searchUpdate(phase Phase, step, total int, provider string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Searching %s...", provider),
	}
}

func enrichUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Enrich,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Looking up registry metadata: %s", step, total, name),
	}
}

func resolveRecUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveRecs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Resolving recommended recordings...", step, total),
	}
}
