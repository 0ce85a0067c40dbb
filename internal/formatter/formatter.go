// package formatter converts decoded playlists to text, Markdown, CSV, JSON, M3U and XSPF
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/desertthunder/amzx/internal/models"
	"github.com/desertthunder/amzx/internal/shared"
	"github.com/desertthunder/amzx/internal/xspf"
)

// Extensions maps each export format to the file extension used by [WriteExport].
var Extensions = map[string]string{
	"text":     ".txt",
	"markdown": ".md",
	"csv":      ".csv",
	"json":     ".json",
	"m3u":      ".m3u",
	"xspf":     ".xspf",
}

// Export renders export in the named format. pretty only affects JSON.
func Export(export *models.PlaylistExport, format string, pretty bool) ([]byte, error) {
	switch format {
	case "text":
		return ExportToText(export)
	case "markdown":
		return ExportToMarkdown(export)
	case "csv":
		return ExportToCSV(export)
	case "json":
		return ExportToJSON(export, pretty)
	case "m3u":
		return ExportToM3U(export)
	case "xspf":
		return xspf.Render(export)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want one of %s)", shared.ErrInvalidArgument, format, strings.Join(shared.ExportFormats, ", "))
	}
}

// ExportToCSV converts a PlaylistExport to CSV with one row per track in document order
func ExportToCSV(export *models.PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Title", "Creator", "Album", "TrackNum", "Duration", "Location"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, track := range export.Tracks {
		record := []string{
			strconv.Itoa(i + 1),
			track.Title,
			track.Creator,
			track.Album,
			strconv.Itoa(track.TrackNum),
			strconv.FormatInt(track.Duration, 10),
			track.Location,
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

// ExportToMarkdown converts a PlaylistExport to Markdown, linking titles to their location
func ExportToMarkdown(export *models.PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", export.Playlist.Name)

	if export.Playlist.Creator != "" {
		fmt.Fprintf(&buf, "**Creator**: %s\n", export.Playlist.Creator)
	}
	if export.Playlist.Source != "" {
		fmt.Fprintf(&buf, "**Source**: `%s`\n", export.Playlist.Source)
	}
	fmt.Fprintf(&buf, "**Tracks**: %d\n", len(export.Tracks))
	fmt.Fprintf(&buf, "**Duration**: %s\n\n", shared.FormatDuration(export.TotalDuration()))

	buf.WriteString("## Tracks\n\n")
	for i, track := range export.Tracks {
		title := track.Title
		if track.Location != "" {
			title = fmt.Sprintf("[%s](%s)", title, track.Location)
		}
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s [%s]\n", i+1, track.Creator, title, albumPart, shared.FormatDuration(track.Duration))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a PlaylistExport to plain text format
func ExportToText(export *models.PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", export.Playlist.Name)
	if export.Playlist.Creator != "" {
		fmt.Fprintf(&buf, "Creator: %s\n", export.Playlist.Creator)
	}
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(export.Tracks))

	for i, track := range export.Tracks {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, track.Creator, track.Title)
	}

	return buf.Bytes(), nil
}

// ExportToJSON marshals the whole export, tracks included
func ExportToJSON(export *models.PlaylistExport, pretty bool) ([]byte, error) {
	data, err := shared.MarshalJSON(export, pretty)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToM3U writes an extended M3U playlist. Tracks without a location cannot be played
// and are left out.
func ExportToM3U(export *models.PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("#EXTM3U\n")
	if export.Playlist.Name != "" {
		fmt.Fprintf(&buf, "#PLAYLIST:%s\n", export.Playlist.Name)
	}

	playable := lo.Filter(export.Tracks, func(t models.Track, _ int) bool {
		return strings.TrimSpace(t.Location) != ""
	})

	for _, track := range playable {
		seconds := int64(-1)
		if track.Duration > 0 {
			seconds = track.Duration / 1000
		}

		label := track.Title
		if track.Creator != "" {
			label = track.Creator + " - " + track.Title
		}

		fmt.Fprintf(&buf, "#EXTINF:%d,%s\n%s\n", seconds, label, strings.TrimSpace(track.Location))
	}

	return buf.Bytes(), nil
}

// WriteExport renders export in format and writes it to path.
//
// An empty path defaults to the playlist name plus the format's extension in the working directory.
func WriteExport(export *models.PlaylistExport, format, path string, pretty bool) (string, error) {
	data, err := Export(export, format, pretty)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = Filename(export.Playlist.Name) + Extensions[format]
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s export: %w", format, err)
	}

	return path, nil
}

// Filename turns a playlist name into a safe base filename, falling back to "playlist".
func Filename(name string) string {
	name = strings.TrimSpace(name)
	if ext := filepath.Ext(name); strings.EqualFold(ext, ".amz") {
		name = strings.TrimSuffix(name, ext)
	}
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' || r == '"' || r == '<' || r == '>' || r == '|':
			return '_'
		case r < ' ':
			return -1
		}
		return r
	}, name)

	mapped = strings.Trim(mapped, " .")
	if mapped == "" {
		return "playlist"
	}
	return mapped
}
