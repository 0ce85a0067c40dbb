// Package ui implements a read-only terminal browser for decoded containers using bubbletea's Elm architecture.
//
// The browser moves through four views:
//  1. [LoadingView] : Containers are decoded by a [tasks.DecodeEngine] batch while progress is shown
//  2. [ContainerListView] : One entry per input file, failures included
//  3. [TrackListView] : Tracks of the selected container in document order
//  4. [TrackDetailView] : Every field of the selected track
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the engine, providing non-blocking status reporting while decoding.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
