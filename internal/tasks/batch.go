package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/desertthunder/amzx/internal/formatter"
	"github.com/desertthunder/amzx/internal/models"
	"github.com/desertthunder/amzx/internal/shared"
)

const (
	defaultWorkers = 4
	maxWorkers     = 16
)

// BatchOpts contains configuration for batch decodes.
type BatchOpts struct {
	Workers   int    // Concurrent decoders (default: 4, max: 16)
	Store     bool   // Add every decoded container to the catalog
	ExportDir string // When set, each playlist is written here in Format
	Format    string // Export format, one of [shared.ExportFormats]
	Pretty    bool   // Indent JSON exports
}

// FileResult is the outcome for a single container.
type FileResult struct {
	Path        string                 `json:"path"`
	Checksum    string                 `json:"checksum,omitempty"`
	Export      *models.PlaylistExport `json:"-"`
	ExportPath  string                 `json:"export_path,omitempty"`
	ContainerID string                 `json:"container_id,omitempty"`
	Err         error                  `json:"-"` // Decode, empty playlist or export failure
	StoreErr    error                  `json:"-"` // Catalog failure, duplicates included
}

// OK reports whether the container decoded to a non-empty playlist.
func (r FileResult) OK() bool { return r.Err == nil }

// BatchResult summarizes a batch. Results are in input order.
type BatchResult struct {
	Results      []FileResult
	Decoded      int
	Failed       int
	Stored       int
	Duplicates   int
	TotalTracks  int
	ManifestPath string
}

type decodeJob struct {
	index int
	path  string
}

type decodeOutcome struct {
	index  int
	result FileResult
}

// Scan finds every container under root with one of extensions and decodes them with [DecodeEngine.Batch].
func (e *DecodeEngine) Scan(ctx context.Context, prog chan<- ProgressUpdate, root string, extensions []string, opts BatchOpts) (*BatchResult, error) {
	e.sendProgress(prog, findingContainersUpdate(root))

	paths, err := FindContainers(root, extensions)
	if err != nil {
		return nil, err
	}

	e.sendProgress(prog, foundContainersUpdate(root, len(paths)))
	e.logger.Info("found containers", "root", root, "count", len(paths))

	return e.Batch(ctx, prog, paths, opts)
}

// Batch decodes paths concurrently with a worker pool.
//
// Failures are recorded per file and never abort the batch. Catalog writes and exports happen on
// the calling goroutine, one at a time, as results arrive.
func (e *DecodeEngine) Batch(ctx context.Context, prog chan<- ProgressUpdate, paths []string, opts BatchOpts) (*BatchResult, error) {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Workers > maxWorkers {
		opts.Workers = maxWorkers
	}
	if opts.Store && e.catalog == nil {
		return nil, fmt.Errorf("%w: no catalog available to store results", shared.ErrInvalidConfig)
	}
	if opts.ExportDir != "" {
		if _, ok := formatter.Extensions[opts.Format]; !ok {
			return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, opts.Format)
		}
		if err := os.MkdirAll(opts.ExportDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	result := &BatchResult{Results: make([]FileResult, len(paths))}
	total := len(paths)

	jobs := make(chan decodeJob, total)
	outcomes := make(chan decodeOutcome, total)

	for i, path := range paths {
		jobs <- decodeJob{index: i, path: path}
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < min(opts.Workers, max(total, 1)); i++ {
		wg.Add(1)
		go e.decodeWorker(ctx, &wg, jobs, outcomes)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	e.sendProgress(prog, decodingUpdate(total))

	used := map[string]bool{}
	completed := 0
	for out := range outcomes {
		completed++
		res := out.result

		if !res.OK() {
			e.logger.Warn("decode failed", "path", res.Path, "error", res.Err)
			e.sendProgress(prog, decodeFailedUpdate(completed, total, &res))
			result.Results[out.index] = res
			continue
		}

		e.logger.Debug("decoded", "path", res.Path, "tracks", len(res.Export.Tracks))
		e.sendProgress(prog, decodedUpdate(completed, total, &res))

		if opts.ExportDir != "" {
			e.exportResult(&res, opts, used)
			if res.OK() {
				e.sendProgress(prog, exportedUpdate(completed, total, res.ExportPath))
			}
		}

		if opts.Store && res.OK() {
			e.storeResult(&res)
			if res.StoreErr != nil {
				e.sendProgress(prog, storeSkippedUpdate(completed, total, &res, res.StoreErr))
			} else {
				e.sendProgress(prog, storedUpdate(completed, total, &res))
			}
		}

		result.Results[out.index] = res
	}

	result.Decoded = lo.CountBy(result.Results, FileResult.OK)
	result.Failed = total - result.Decoded
	result.Stored = lo.CountBy(result.Results, func(r FileResult) bool { return r.ContainerID != "" })
	result.Duplicates = lo.CountBy(result.Results, func(r FileResult) bool {
		return errors.Is(r.StoreErr, shared.ErrDuplicateContainer)
	})
	result.TotalTracks = lo.SumBy(result.Results, func(r FileResult) int {
		if r.Export == nil {
			return 0
		}
		return len(r.Export.Tracks)
	})

	if opts.ExportDir != "" {
		manifestPath := filepath.Join(opts.ExportDir, "export_manifest.json")
		if err := writeManifest(result, opts.Format, manifestPath); err != nil {
			return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
		}
		result.ManifestPath = manifestPath
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("batch interrupted: %w", err)
	}

	e.logger.Info("batch complete", "decoded", result.Decoded, "failed", result.Failed, "tracks", result.TotalTracks)
	return result, nil
}

// decodeWorker is a worker goroutine that decodes containers from the jobs channel.
//
// Once ctx is done, the remaining jobs are answered with the context error so every input gets a result.
func (e *DecodeEngine) decodeWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan decodeJob, outcomes chan<- decodeOutcome) {
	defer wg.Done()

	for job := range jobs {
		if err := ctx.Err(); err != nil {
			outcomes <- decodeOutcome{index: job.index, result: FileResult{Path: job.path, Err: err}}
			continue
		}
		outcomes <- decodeOutcome{index: job.index, result: decodeSingle(job.path)}
	}
}

func decodeSingle(path string) FileResult {
	res := FileResult{Path: path}

	decoded, err := DecodeFile(path)
	if err != nil {
		res.Err = err
		return res
	}

	res.Checksum = decoded.Checksum
	res.Export = decoded.Export
	if len(decoded.Export.Tracks) == 0 {
		res.Err = NoPlaylistError(path)
	}
	return res
}

// exportResult writes res into opts.ExportDir, named after the container file. Names already in
// used, compared case-insensitively, get the first free "-N" suffix.
func (e *DecodeEngine) exportResult(res *FileResult, opts BatchOpts, used map[string]bool) {
	base := formatter.Filename(filepath.Base(res.Path))
	name := base
	for n := 2; used[strings.ToLower(name)]; n++ {
		name = fmt.Sprintf("%s-%d", base, n)
	}
	used[strings.ToLower(name)] = true

	target := filepath.Join(opts.ExportDir, name+formatter.Extensions[opts.Format])
	path, err := formatter.WriteExport(res.Export, opts.Format, target, opts.Pretty)
	if err != nil {
		res.Err = fmt.Errorf("%s export failed: %w", opts.Format, err)
		e.logger.Warn("export failed", "path", res.Path, "error", err)
		return
	}
	res.ExportPath = path
}

func (e *DecodeEngine) storeResult(res *FileResult) {
	container := models.NewPersistedContainer(0, res.Path, res.Checksum, res.Export)
	if _, err := e.catalog.CreateWithTracks(container, res.Export.Tracks); err != nil {
		res.StoreErr = err
		e.logger.Warn("catalog write failed", "path", res.Path, "error", err)
		return
	}
	res.ContainerID = container.ID()
}

type manifestEntry struct {
	FileResult
	Name   string `json:"name,omitempty"`
	Tracks int    `json:"tracks"`
	Error  string `json:"error,omitempty"`
}

type manifest struct {
	Format  string          `json:"format"`
	Decoded int             `json:"decoded"`
	Failed  int             `json:"failed"`
	Tracks  int             `json:"tracks"`
	Files   []manifestEntry `json:"files"`
}

func writeManifest(result *BatchResult, format, path string) error {
	m := manifest{
		Format:  format,
		Decoded: result.Decoded,
		Failed:  result.Failed,
		Tracks:  result.TotalTracks,
		Files: lo.Map(result.Results, func(r FileResult, _ int) manifestEntry {
			entry := manifestEntry{FileResult: r}
			if r.Export != nil {
				entry.Name = r.Export.Playlist.Name
				entry.Tracks = len(r.Export.Tracks)
			}
			if r.Err != nil {
				entry.Error = r.Err.Error()
			}
			return entry
		}),
	}

	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
