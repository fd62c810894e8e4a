package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/melodex/internal/models"
	"github.com/desertthunder/melodex/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	ResultListView
	TrackDetailView
	SetlistDetailView
)

// SetlistReader fetches full setlists for the detail view.
type SetlistReader interface {
	GetSetlist(ctx context.Context, id string) (*models.Setlist, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	searcher *tasks.Aggregator
	resolver *tasks.Resolver
	setlists SetlistReader

	width  int
	height int

	input      textinput.Model
	resultList list.Model
	result     *tasks.SearchResult
	track      *models.Track
	setlist    *models.Setlist
	err        error

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, searcher *tasks.Aggregator, resolver *tasks.Resolver, setlists SetlistReader) *Model {
	input := textinput.New()
	input.Placeholder = `Search tracks, artists, or setlists ("Phish 2023")`
	input.Focus()

	return &Model{
		ctx:      ctx,
		view:     SearchView,
		searcher: searcher,
		resolver: resolver,
		setlists: setlists,
		input:    input,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init returns the initial command (cursor blink in the search box).
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.resultList.Width() == 0 {
			m.resultList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case ResultListView:
			return m.handleResultKeys(msg)
		case TrackDetailView, SetlistDetailView:
			return m.handleDetailKeys(msg)
		}

	case searchDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = SearchView
			return m, nil
		}
		m.err = nil
		m.result = msg.result
		m.resultList = list.New(m.resultItems(), list.NewDefaultDelegate(), 0, 0)
		m.resultList.Title = fmt.Sprintf("Results for '%s'", msg.result.Query)
		m.resultList.SetSize(m.width-4, m.height-8)
		m.view = ResultListView
		return m, nil

	case trackEnrichedMsg:
		track := msg.track
		m.track = &track
		m.view = TrackDetailView
		return m, nil

	case setlistFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = ResultListView
			return m, nil
		}
		m.setlist = msg.setlist
		m.view = SetlistDetailView
		return m, nil
	}

	return m.updateActive(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SearchView:
		return m.renderSearch()
	case ResultListView:
		return m.renderResults()
	case TrackDetailView:
		return m.renderTrackDetail()
	case SetlistDetailView:
		return m.renderSetlistDetail()
	default:
		return ""
	}
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		query := strings.TrimSpace(m.input.Value())
		if query != "" {
			return m, m.runSearch(query)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "/":
		m.view = SearchView
		m.input.Focus()
		return m, textinput.Blink
	case "enter":
		selected := m.resultList.SelectedItem()
		switch item := selected.(type) {
		case trackItem:
			return m, m.enrichTrack(item.track)
		case setlistItem:
			return m, m.fetchSetlist(item.setlist.ID)
		}
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ResultListView
		return m, nil
	case "/":
		m.view = SearchView
		m.input.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SearchView:
		m.input, cmd = m.input.Update(msg)
	case ResultListView:
		m.resultList, cmd = m.resultList.Update(msg)
	}
	return m, cmd
}

// resultItems interleaves nothing: tracks first, then setlists, matching how
// the web client lays out result sections.
func (m *Model) resultItems() []list.Item {
	items := make([]list.Item, 0, len(m.result.Tracks)+len(m.result.Setlists))
	for _, track := range m.result.Tracks {
		items = append(items, trackItem{track: track})
	}
	for _, setlist := range m.result.Setlists {
		items = append(items, setlistItem{setlist: setlist})
	}
	return items
}

func (m *Model) runSearch(query string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.searcher.SearchAll(m.ctx, query, nil)
		return searchDoneMsg{result: result, err: err}
	}
}

func (m *Model) enrichTrack(track models.Track) tea.Cmd {
	return func() tea.Msg {
		if m.resolver != nil {
			track = m.resolver.EnrichTrack(m.ctx, track)
		}
		return trackEnrichedMsg{track: track}
	}
}

func (m *Model) fetchSetlist(id string) tea.Cmd {
	return func() tea.Msg {
		if m.setlists == nil {
			return setlistFetchedMsg{err: fmt.Errorf("setlist provider not configured")}
		}
		setlist, err := m.setlists.GetSetlist(m.ctx, id)
		return setlistFetchedMsg{setlist: setlist, err: err}
	}
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Melodex")

	var errLine string
	if m.err != nil {
		errLine = styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s%s\n\n%s", title, errLine, m.input.View(), helpView)
}

func (m *Model) renderResults() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.search, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.resultList.View(), helpView)
}

func (m *Model) renderTrackDetail() string {
	track := m.track
	title := styles.title.Render(fmt.Sprintf("%s - %s", track.Artists, track.Name))

	var b strings.Builder
	if track.Album != "" {
		fmt.Fprintf(&b, "Album: %s\n", track.Album)
	}
	fmt.Fprintf(&b, "Duration: %s\n", track.Duration)
	if track.ReleaseDate != "" {
		fmt.Fprintf(&b, "Released: %s\n", track.ReleaseDate)
	}
	if track.Label != "" {
		fmt.Fprintf(&b, "Label: %s\n", track.Label)
	}
	if len(track.Genres) > 0 {
		fmt.Fprintf(&b, "Genres: %s\n", strings.Join(track.Genres, ", "))
	}
	if track.License != "" {
		fmt.Fprintf(&b, "License: %s\n", track.License)
	}
	if track.AudioURL != "" {
		fmt.Fprintf(&b, "Audio: %s (%s)\n", track.AudioURL, track.Format)
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.search, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, b.String(), helpView)
}

func (m *Model) renderSetlistDetail() string {
	setlist := m.setlist
	title := styles.title.Render(setlist.Name)

	var b strings.Builder
	fmt.Fprintf(&b, "%s • %s\n\n", setlist.Date, setlist.City)

	currentSet := ""
	for _, song := range setlist.Tracks {
		if song.SetName != currentSet {
			currentSet = song.SetName
			fmt.Fprintf(&b, "%s\n", styles.ok.Render(currentSet))
		}
		line := "  " + song.Name
		if song.CoverInfo != "" {
			line += fmt.Sprintf(" (%s cover)", song.CoverInfo)
		}
		b.WriteString(line + "\n")
	}

	if setlist.AudioURL != "" {
		fmt.Fprintf(&b, "\n%s\n", styles.warn.Render("Audio: "+setlist.AudioURL))
	} else if setlist.AudioSearch != "" {
		fmt.Fprintf(&b, "\n%s\n", styles.warn.Render(fmt.Sprintf("Audio: search %s for %q", setlist.AudioSource, setlist.AudioSearch)))
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.search, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, b.String(), helpView)
}
