package xspf

import (
	"encoding/xml"
	"fmt"
	"math"

	"github.com/desertthunder/amzx/internal/models"
)

// Namespace is the XSPF version 1 namespace written by [Render].
const Namespace = "http://xspf.org/ns/0/"

// Parse extracts every track under playlist > trackList > track, in document order.
//
// Unparseable text yields an empty, non-nil slice; there is no error case.
func Parse(text []byte) []models.Track {
	return tracksOf(Build(text))
}

// ParsePlaylist is [Parse] plus the playlist-level title and creator.
//
// name is used as the playlist name when the document has no title.
func ParsePlaylist(text []byte, name string) *models.PlaylistExport {
	doc := Build(text)
	export := &models.PlaylistExport{
		Playlist: models.Playlist{Name: name},
		Tracks:   tracksOf(doc),
	}

	if playlists := doc.Elements("playlist"); len(playlists) > 0 {
		if title := lastContent(playlists[0], "title"); title != "" {
			export.Playlist.Name = title
		}
		export.Playlist.Creator = lastContent(playlists[0], "creator")
	}
	export.Playlist.TrackCount = len(export.Tracks)

	return export
}

func tracksOf(doc *Node) []models.Track {
	tracks := []models.Track{}
	for _, playlist := range doc.Elements("playlist") {
		for _, trackList := range playlist.Elements("trackList") {
			for _, track := range trackList.Elements("track") {
				tracks = append(tracks, parseTrack(track))
			}
		}
	}
	return tracks
}

// parseTrack reads the known children of a track element. A repeated child overwrites
// the earlier value.
func parseTrack(n *Node) models.Track {
	var t models.Track
	for _, c := range n.Children {
		if c.Kind != ElementNode {
			continue
		}

		switch c.Name {
		case "location":
			t.Location = c.Content()
		case "creator":
			t.Creator = c.Content()
		case "album":
			t.Album = c.Content()
		case "title":
			t.Title = c.Content()
		case "trackNum":
			t.TrackNum = int(min(LeadingInt(c.Content()), math.MaxInt32))
		case "duration":
			t.Duration = LeadingInt(c.Content())
		}
	}
	return t
}

func lastContent(n *Node, name string) string {
	els := n.Elements(name)
	if len(els) == 0 {
		return ""
	}
	return els[len(els)-1].Content()
}

// LeadingInt parses the longest run of decimal digits after optional leading whitespace
// and sign. No digits, or a negative value, gives 0; overflow saturates.
func LeadingInt(s string) int64 {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}

	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	var v int64
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		d := int64(s[i] - '0')
		if v > (math.MaxInt64-d)/10 {
			v = math.MaxInt64
			for i < len(s) && s[i] >= '0' && s[i] <= '9' {
				i++
			}
			break
		}
		v = v*10 + d
	}

	if neg {
		return 0
	}
	return v
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

type xspfDocument struct {
	XMLName   xml.Name      `xml:"playlist"`
	Version   string        `xml:"version,attr"`
	Xmlns     string        `xml:"xmlns,attr"`
	Title     string        `xml:"title,omitempty"`
	Creator   string        `xml:"creator,omitempty"`
	TrackList xspfTrackList `xml:"trackList"`
}

type xspfTrackList struct {
	Tracks []xspfTrack `xml:"track"`
}

type xspfTrack struct {
	Location string `xml:"location,omitempty"`
	Title    string `xml:"title,omitempty"`
	Creator  string `xml:"creator,omitempty"`
	Album    string `xml:"album,omitempty"`
	TrackNum int    `xml:"trackNum,omitempty"`
	Duration int64  `xml:"duration,omitempty"`
}

// Render writes export as an indented XSPF version 1 document with an XML declaration.
func Render(export *models.PlaylistExport) ([]byte, error) {
	doc := xspfDocument{
		Version: "1",
		Xmlns:   Namespace,
		Title:   export.Playlist.Name,
		Creator: export.Playlist.Creator,
	}

	doc.TrackList.Tracks = make([]xspfTrack, 0, len(export.Tracks))
	for _, t := range export.Tracks {
		doc.TrackList.Tracks = append(doc.TrackList.Tracks, xspfTrack{
			Location: t.Location,
			Title:    t.Title,
			Creator:  t.Creator,
			Album:    t.Album,
			TrackNum: t.TrackNum,
			Duration: t.Duration,
		})
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render XSPF: %w", err)
	}

	out := append([]byte(xml.Header), body...)
	return append(out, '\n'), nil
}
