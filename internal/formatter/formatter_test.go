package formatter

import (
	"strings"
	"testing"

	"github.com/desertthunder/melodex/internal/models"
	"github.com/desertthunder/melodex/internal/tasks"
)

func sampleTracks() []models.Track {
	return []models.Track{
		{
			ID:       "jm_168",
			Name:     "Ambient Dawn",
			Artists:  "Nightdrive",
			Album:    "First Light",
			Duration: "3:05", DurationMS: 185000,
			License: "https://creativecommons.org/licenses/by-sa/3.0/",
			Source:  "jamendo",
		},
		{
			ID:       "jm_169",
			Name:     "City, Rain", // comma must survive CSV quoting
			Artists:  "Nightdrive",
			Duration: "0:00",
			Source:   "jamendo",
		},
	}
}

func TestTracksToCSV(t *testing.T) {
	data, err := TracksToCSV(sampleTracks())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 records, got %d lines", len(lines))
	}
	if lines[0] != "ID,Name,Artist,Album,Duration,License,Source" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "jm_168") || !strings.Contains(lines[1], "185000") {
		t.Errorf("unexpected first record: %s", lines[1])
	}
	if !strings.Contains(lines[2], `"City, Rain"`) {
		t.Errorf("embedded comma not quoted: %s", lines[2])
	}
}

func TestSetlistToMarkdown(t *testing.T) {
	setlist := &models.Setlist{
		Name:      "Pearl Jam at Crocodile Cafe",
		Date:      "September 20, 1991",
		City:      "Seattle, WA US",
		SongCount: 3,
		Tracks: []models.SetlistSong{
			{Name: "Release", SetName: "Set 1"},
			{Name: "Alive", SetName: "Set 1", WithInfo: "Guest Guitarist"},
			{Name: "Rockin' in the Free World", SetName: "Encore", CoverInfo: "Neil Young"},
		},
		AudioSource: "archive.org",
		AudioSearch: "Pearl Jam 1991-09-20",
	}

	data, err := SetlistToMarkdown(setlist)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	md := string(data)

	if !strings.HasPrefix(md, "# Pearl Jam at Crocodile Cafe\n") {
		t.Errorf("missing title heading:\n%s", md)
	}
	if !strings.Contains(md, "## Set 1\n") || !strings.Contains(md, "## Encore\n") {
		t.Errorf("missing set headings:\n%s", md)
	}
	if strings.Count(md, "## Set 1") != 1 {
		t.Errorf("set heading repeated per song:\n%s", md)
	}
	if !strings.Contains(md, "(with Guest Guitarist)") {
		t.Errorf("missing guest annotation:\n%s", md)
	}
	if !strings.Contains(md, "(Neil Young cover)") {
		t.Errorf("missing cover annotation:\n%s", md)
	}
	if !strings.Contains(md, `search archive.org for "Pearl Jam 1991-09-20"`) {
		t.Errorf("missing audio pointer:\n%s", md)
	}

	t.Run("NilSetlist", func(t *testing.T) {
		if _, err := SetlistToMarkdown(nil); err == nil {
			t.Error("expected error for nil setlist")
		}
	})
}

func TestSearchResultToText(t *testing.T) {
	t.Run("AllSections", func(t *testing.T) {
		result := &tasks.SearchResult{
			Query:  "nightdrive",
			Tracks: sampleTracks(),
			Albums: []models.Album{{Name: "First Light", Artists: "Nightdrive"}},
			Artists: []models.Artist{
				{Name: "Nightdrive"},
			},
			Setlists: []models.Setlist{
				{Name: "Nightdrive at The Vera Project", Date: "March 03, 2024", SongCount: 12},
			},
		}

		data, err := SearchResultToText(result)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		text := string(data)

		for _, want := range []string{"Results for: nightdrive", "Tracks (2)", "Albums (1)", "Artists (1)", "Setlists (1)"} {
			if !strings.Contains(text, want) {
				t.Errorf("missing %q in:\n%s", want, text)
			}
		}
	})

	t.Run("EmptyResult", func(t *testing.T) {
		data, err := SearchResultToText(&tasks.SearchResult{Query: "nothing"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(data), "No results.") {
			t.Errorf("missing empty marker:\n%s", string(data))
		}
	})
}

func TestListensToText(t *testing.T) {
	listens := []models.Listen{
		{TrackName: "Ambient Dawn", ArtistName: "Nightdrive", ListenedAt: 1700000000},
	}

	text := string(ListensToText(listens))
	if !strings.Contains(text, "1. Nightdrive - Ambient Dawn") {
		t.Errorf("unexpected output:\n%s", text)
	}

	if got := string(ListensToText(nil)); got != "No listens.\n" {
		t.Errorf("unexpected empty output: %q", got)
	}
}
