package ui

import (
	"github.com/desertthunder/melodex/internal/models"
	"github.com/desertthunder/melodex/internal/tasks"
)

// searchDoneMsg carries an aggregated search result back into the Update loop.
type searchDoneMsg struct {
	result *tasks.SearchResult
	err    error
}

// trackEnrichedMsg carries a registry-enriched track for the detail view.
type trackEnrichedMsg struct {
	track models.Track
}

// setlistFetchedMsg carries a full setlist for the detail view.
type setlistFetchedMsg struct {
	setlist *models.Setlist
	err     error
}
