// package formatter exports search results and setlists to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/desertthunder/melodex/internal/models"
	"github.com/desertthunder/melodex/internal/tasks"
)

// TracksToCSV converts tracks to CSV format with columns: ID, Name, Artist, Album, Duration, License, Source
func TracksToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Artist", "Album", "Duration", "License", "Source"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.ID,
			track.Name,
			track.Artists,
			track.Album,
			strconv.Itoa(track.DurationMS),
			track.License,
			track.Source,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SetlistToMarkdown converts a full setlist to Markdown, grouped by set.
func SetlistToMarkdown(setlist *models.Setlist) ([]byte, error) {
	if setlist == nil {
		return nil, fmt.Errorf("nil setlist")
	}

	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", setlist.Name))
	if setlist.Date != "" {
		buf.WriteString(fmt.Sprintf("**Date**: %s\n", setlist.Date))
	}
	if setlist.City != "" {
		buf.WriteString(fmt.Sprintf("**Location**: %s\n", setlist.City))
	}
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n\n", setlist.SongCount))

	currentSet := ""
	position := 0
	for _, song := range setlist.Tracks {
		if song.SetName != currentSet {
			currentSet = song.SetName
			buf.WriteString(fmt.Sprintf("## %s\n\n", currentSet))
		}

		position++
		line := fmt.Sprintf("%d. %s", position, song.Name)
		if song.CoverInfo != "" {
			line += fmt.Sprintf(" (%s cover)", song.CoverInfo)
		}
		if song.WithInfo != "" {
			line += fmt.Sprintf(" (with %s)", song.WithInfo)
		}
		if song.Info != "" {
			line += fmt.Sprintf(" [%s]", song.Info)
		}
		buf.WriteString(line + "\n")
	}

	if setlist.AudioURL != "" {
		buf.WriteString(fmt.Sprintf("\n**Audio**: %s\n", setlist.AudioURL))
	} else if setlist.AudioSearch != "" {
		buf.WriteString(fmt.Sprintf("\n**Audio**: search %s for \"%s\"\n", setlist.AudioSource, setlist.AudioSearch))
	}

	return buf.Bytes(), nil
}

// SearchResultToText converts an aggregated search result to plain text.
func SearchResultToText(result *tasks.SearchResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("nil search result")
	}

	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Results for: %s\n\n", result.Query))

	if len(result.Tracks) > 0 {
		buf.WriteString(fmt.Sprintf("Tracks (%d)\n", len(result.Tracks)))
		for i, track := range result.Tracks {
			buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n", i+1, track.Artists, track.Name, track.Duration))
		}
		buf.WriteString("\n")
	}

	if len(result.Albums) > 0 {
		buf.WriteString(fmt.Sprintf("Albums (%d)\n", len(result.Albums)))
		for i, album := range result.Albums {
			buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, album.Artists, album.Name))
		}
		buf.WriteString("\n")
	}

	if len(result.Artists) > 0 {
		buf.WriteString(fmt.Sprintf("Artists (%d)\n", len(result.Artists)))
		for i, artist := range result.Artists {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, artist.Name))
		}
		buf.WriteString("\n")
	}

	if len(result.Setlists) > 0 {
		buf.WriteString(fmt.Sprintf("Setlists (%d)\n", len(result.Setlists)))
		for i, setlist := range result.Setlists {
			buf.WriteString(fmt.Sprintf("%d. %s (%s, %d songs)\n", i+1, setlist.Name, setlist.Date, setlist.SongCount))
		}
	}

	if len(result.Tracks)+len(result.Albums)+len(result.Artists)+len(result.Setlists) == 0 {
		buf.WriteString("No results.\n")
	}

	return buf.Bytes(), nil
}

// ListensToText converts a listen history to plain text, newest first as
// delivered by the provider.
func ListensToText(listens []models.Listen) []byte {
	var buf bytes.Buffer

	if len(listens) == 0 {
		buf.WriteString("No listens.\n")
		return buf.Bytes()
	}

	for i, listen := range listens {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, listen.ArtistName, listen.TrackName))
	}
	return buf.Bytes()
}

// SaveToFile writes data to the specified path, creating parent directories
// as needed.
func SaveToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
