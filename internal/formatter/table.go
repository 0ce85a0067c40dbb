package formatter

import (
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/desertthunder/amzx/internal/models"
	"github.com/desertthunder/amzx/internal/shared"
)

// RenderTable writes the tracks of export as a table, one row per track in document order
func RenderTable(w io.Writer, export *models.PlaylistExport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(export.Playlist.Name)

	t.AppendHeader(table.Row{"#", "Creator", "Title", "Album", "No.", "Duration", "Location"})
	for i, track := range export.Tracks {
		t.AppendRow(table.Row{
			i + 1,
			track.Creator,
			track.Title,
			track.Album,
			trackNum(track.TrackNum),
			shared.FormatDuration(track.Duration),
			track.Location,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", shared.FormatDuration(export.TotalDuration()), shared.Pluralize(len(export.Tracks), "track")})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	t.Render()
}

// RenderContainerTable writes cataloged containers as a table ordered as given
func RenderContainerTable(w io.Writer, containers []*models.PersistedContainer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"#", "Title", "Creator", "Tracks", "Path", "Checksum", "Added"})
	for _, c := range containers {
		t.AppendRow(table.Row{
			c.Sequence(),
			c.Title(),
			c.Creator(),
			c.TrackCount(),
			c.Path(),
			shortChecksum(c.Checksum()),
			c.CreatedAt().Format("2006-01-02 15:04"),
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	t.Render()
}

func trackNum(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func shortChecksum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}
