package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/melodex/internal/models"
)

var (
	_ list.Item = trackItem{}
	_ list.Item = setlistItem{}
)

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return i.track.Name }
func (i trackItem) Description() string {
	desc := i.track.Artists
	if i.track.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album)
	}
	if i.track.Duration != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Duration)
	}
	return desc
}

// setlistItem wraps [models.Setlist] to implement [list.Item].
type setlistItem struct {
	setlist models.Setlist
}

func (i setlistItem) FilterValue() string { return i.setlist.Name }
func (i setlistItem) Title() string       { return i.setlist.Name }
func (i setlistItem) Description() string {
	desc := fmt.Sprintf("%d songs", i.setlist.SongCount)
	if i.setlist.Date != "" {
		desc = fmt.Sprintf("%s • %s", i.setlist.Date, desc)
	}
	return desc
}
