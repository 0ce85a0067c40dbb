package tasks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/desertthunder/amzx/internal/amz"
	"github.com/desertthunder/amzx/internal/models"
	"github.com/desertthunder/amzx/internal/shared"
	"github.com/desertthunder/amzx/internal/xspf"
)

// Decoded is a container run through the full pipeline.
type Decoded struct {
	Path     string                 // Where the container was read from
	Checksum string                 // Hex SHA-256 of the raw container bytes
	Document []byte                 // Recovered XSPF text
	Export   *models.PlaylistExport // Extracted tracks in document order
}

// Decode runs raw through decryption and track extraction.
//
// name is recorded as the playlist source, and its base name is used as the playlist name
// when the document has no title. An empty track list is not an error here; see [NoPlaylistError].
func Decode(name string, raw []byte) (*Decoded, error) {
	sum := sha256.Sum256(raw)

	document, err := amz.Decrypt(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt %s: %w", name, err)
	}

	export := xspf.ParsePlaylist(document, filepath.Base(name))
	export.Playlist.Source = name

	return &Decoded{
		Path:     name,
		Checksum: hex.EncodeToString(sum[:]),
		Document: document,
		Export:   export,
	}, nil
}

// DecodeFile reads the container at path and decodes it.
func DecodeFile(path string) (*Decoded, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Decode(path, raw)
}

// NoPlaylistError reports a container whose document yielded no tracks.
func NoPlaylistError(path string) error {
	return fmt.Errorf("%w: failed to parse xspf file embedded in %s", shared.ErrNoPlaylist, path)
}

// FindContainers walks root and returns every regular file whose extension is in extensions,
// compared case-insensitively, in lexical order. A root that is itself a file is returned as is.
func FindContainers(root string, extensions []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	exts := lo.Map(extensions, func(ext string, _ int) string { return strings.ToLower(ext) })

	paths := []string{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return paths, nil
}

// Cataloger stores decoded containers; repositories.ContainerRepository implements it.
type Cataloger interface {
	CreateWithTracks(container *models.PersistedContainer, tracks []models.Track) ([]*models.PersistedTrack, error)
}

// DecodeEngine runs batch decodes and comparisons.
type DecodeEngine struct {
	logger  *log.Logger
	catalog Cataloger
}

// NewDecodeEngine creates a DecodeEngine. catalog may be nil when nothing is stored.
func NewDecodeEngine(logger *log.Logger, catalog Cataloger) *DecodeEngine {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &DecodeEngine{logger: logger, catalog: catalog}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *DecodeEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// ComparisonResult contains track comparison details between two playlists.
type ComparisonResult struct {
	Source        *models.PlaylistExport // Source playlist
	Dest          *models.PlaylistExport // Destination playlist
	MatchedCount  int                    // Source tracks also found in dest
	MissingInDest []models.Track         // Tracks in source but not in dest
	ExtraInDest   []models.Track         // Tracks in dest but not in source
}

// Diff decodes two containers and compares their track lists.
func (e *DecodeEngine) Diff(ctx context.Context, progress chan<- ProgressUpdate, sourcePath, destPath string) (*ComparisonResult, error) {
	e.sendProgress(progress, compareUpdate(1, 3, fmt.Sprintf("Decoding %s...", sourcePath)))
	source, err := DecodeFile(sourcePath)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.sendProgress(progress, compareUpdate(2, 3, fmt.Sprintf("Decoding %s...", destPath)))
	dest, err := DecodeFile(destPath)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, compareUpdate(3, 3, "Comparing tracks..."))
	result := CompareTracks(source.Export, dest.Export)

	e.logger.Debug("compared containers", "source", sourcePath, "dest", destPath,
		"matched", result.MatchedCount, "missing", len(result.MissingInDest), "extra", len(result.ExtraInDest))
	return &result, nil
}

// CompareTracks matches tracks by location when both sides have one, and otherwise by
// normalized title and creator.
func CompareTracks(source, dest *models.PlaylistExport) ComparisonResult {
	sourceKeys := trackIndex(source.Tracks)
	destKeys := trackIndex(dest.Tracks)

	missing := lo.Filter(source.Tracks, func(t models.Track, _ int) bool { return !destKeys.has(t) })
	extra := lo.Filter(dest.Tracks, func(t models.Track, _ int) bool { return !sourceKeys.has(t) })

	return ComparisonResult{
		Source:        source,
		Dest:          dest,
		MatchedCount:  len(source.Tracks) - len(missing),
		MissingInDest: missing,
		ExtraInDest:   extra,
	}
}

type keySet struct {
	locations map[string]bool
	metadata  map[string]bool
}

func trackIndex(tracks []models.Track) keySet {
	ks := keySet{locations: map[string]bool{}, metadata: map[string]bool{}}
	for _, t := range tracks {
		if loc := strings.TrimSpace(t.Location); loc != "" {
			ks.locations[loc] = true
		}
		ks.metadata[shared.NormalizeTrackKey(t.Title, t.Creator)] = true
	}
	return ks
}

func (ks keySet) has(t models.Track) bool {
	if loc := strings.TrimSpace(t.Location); loc != "" && ks.locations[loc] {
		return true
	}
	return ks.metadata[shared.NormalizeTrackKey(t.Title, t.Creator)]
}
