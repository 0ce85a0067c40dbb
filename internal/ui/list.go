package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/amzx/internal/models"
	"github.com/desertthunder/amzx/internal/shared"
	"github.com/desertthunder/amzx/internal/tasks"
)

var (
	_ list.Item = containerItem{}
	_ list.Item = trackItem{}
)

// containerItem wraps a [tasks.FileResult] to implement [list.Item].
type containerItem struct {
	result tasks.FileResult
}

func (i containerItem) FilterValue() string { return i.Title() + " " + i.result.Path }
func (i containerItem) Title() string {
	if i.result.Export == nil {
		return filepath.Base(i.result.Path)
	}
	return i.result.Export.Playlist.Name
}
func (i containerItem) Description() string {
	if !i.result.OK() {
		return styles.Err("✗ ") + i.result.Err.Error()
	}
	n := len(i.result.Export.Tracks)
	return fmt.Sprintf("%d %s • %s • %s", n, shared.Pluralize(n, "track"),
		shared.FormatDuration(i.result.Export.TotalDuration()), i.result.Path)
}

// trackItem wraps [models.Track] with its 1-based position to implement [list.Item].
type trackItem struct {
	position int
	track    models.Track
}

func (i trackItem) FilterValue() string {
	return strings.Join([]string{i.track.Title, i.track.Creator, i.track.Album}, " ")
}
func (i trackItem) Title() string {
	title := i.track.Title
	if title == "" {
		title = filepath.Base(i.track.Location)
	}
	return fmt.Sprintf("%d. %s", i.position, title)
}
func (i trackItem) Description() string {
	parts := []string{}
	if i.track.Creator != "" {
		parts = append(parts, i.track.Creator)
	}
	if i.track.Album != "" {
		parts = append(parts, i.track.Album)
	}
	parts = append(parts, shared.FormatDuration(i.track.Duration))
	return strings.Join(parts, " • ")
}
