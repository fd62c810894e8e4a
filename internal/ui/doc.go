// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view browse workflow over the aggregated catalog:
//  1. [SearchView] : Free-text search across all providers
//  2. [ResultListView] : Browse matched tracks and setlists
//  3. [TrackDetailView] : Track metadata with registry enrichment applied
//  4. [SetlistDetailView] : Full setlist grouped by performance segment
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via typed msg structs.
// Searches and registry lookups run as [tea.Cmd] functions so the event loop never blocks on the network.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, /, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
