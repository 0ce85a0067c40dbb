package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/amzx/internal/shared"
	"github.com/desertthunder/amzx/internal/tasks"
	"github.com/desertthunder/amzx/internal/ui"
)

type scanEntry struct {
	tasks.FileResult
	Name   string `json:"name,omitempty"`
	Tracks int    `json:"tracks"`
	Error  string `json:"error,omitempty"`
	Store  string `json:"store_error,omitempty"`
}

type scanOutput struct {
	Decoded     int         `json:"decoded"`
	Failed      int         `json:"failed"`
	Stored      int         `json:"stored"`
	Duplicates  int         `json:"duplicates"`
	TotalTracks int         `json:"total_tracks"`
	Manifest    string      `json:"manifest,omitempty"`
	Files       []scanEntry `json:"files"`
}

// Scan decodes every container below a directory with the worker pool and reports each file.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	root := cmd.StringArg("dir")
	if root == "" {
		return fmt.Errorf("%w: directory is required", shared.ErrMissingArgument)
	}

	opts := r.batchOpts(cmd)
	opts.Store = cmd.Bool("catalog")
	opts.ExportDir = cmd.String("export-dir")
	opts.Format = cmd.String("format")
	if opts.Format == "" {
		opts.Format = r.config.Export.Format
	}

	engine, err := r.engine(opts.Store)
	if err != nil {
		return err
	}

	r.logger.Info("scanning", "root", root, "workers", opts.Workers, "catalog", opts.Store)
	result, err := engine.Scan(ctx, nil, root, r.config.Scan.Extensions, opts)
	if result == nil {
		return err
	}

	if cmd.Bool("json") {
		if werr := r.writeJSON(toScanOutput(result), true); werr != nil {
			return werr
		}
		return err
	}

	r.writeBatch(result, opts.Store)
	return err
}

// batchOpts reads --workers, falling back to scan.workers.
func (r *Runner) batchOpts(cmd *cli.Command) tasks.BatchOpts {
	workers := r.config.Scan.Workers
	if n := int(cmd.Int("workers")); n > 0 {
		workers = n
	}
	return tasks.BatchOpts{Workers: workers, Pretty: r.config.Export.Pretty}
}

// writeBatch prints one line per container followed by a summary.
func (r *Runner) writeBatch(result *tasks.BatchResult, stored bool) {
	styles := ui.Styles()

	for _, res := range result.Results {
		if !res.OK() {
			r.writePlain("%s %s: %v\n", styles.Err("✗"), res.Path, res.Err)
			continue
		}

		n := len(res.Export.Tracks)
		r.writePlain("%s %s: %d %s (%s)\n", styles.OK("✓"), res.Path, n, shared.Pluralize(n, "track"), res.Export.Playlist.Name)
		if res.ExportPath != "" {
			r.writePlain("    → %s\n", res.ExportPath)
		}
		if res.StoreErr != nil {
			r.writePlain("    %s %v\n", styles.Warn("!"), res.StoreErr)
		}
	}

	summary := fmt.Sprintf("%d decoded, %d failed, %d %s",
		result.Decoded, result.Failed, result.TotalTracks, shared.Pluralize(result.TotalTracks, "track"))
	if stored {
		summary += fmt.Sprintf(", %d stored, %d %s", result.Stored, result.Duplicates, shared.Pluralize(result.Duplicates, "duplicate"))
	}
	r.writePlainln("%s", summary)

	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}
}

func toScanOutput(result *tasks.BatchResult) scanOutput {
	out := scanOutput{
		Decoded:     result.Decoded,
		Failed:      result.Failed,
		Stored:      result.Stored,
		Duplicates:  result.Duplicates,
		TotalTracks: result.TotalTracks,
		Manifest:    result.ManifestPath,
		Files:       make([]scanEntry, 0, len(result.Results)),
	}

	for _, res := range result.Results {
		entry := scanEntry{FileResult: res}
		if res.Export != nil {
			entry.Name = res.Export.Playlist.Name
			entry.Tracks = len(res.Export.Tracks)
		}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		}
		if res.StoreErr != nil {
			entry.Store = res.StoreErr.Error()
		}
		out.Files = append(out.Files, entry)
	}

	return out
}
