package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/amzx/internal/formatter"
	"github.com/desertthunder/amzx/internal/models"
	"github.com/desertthunder/amzx/internal/shared"
	"github.com/desertthunder/amzx/internal/ui"
)

type containerOutput struct {
	ID         string    `json:"id"`
	Sequence   int       `json:"sequence"`
	Path       string    `json:"path"`
	Checksum   string    `json:"checksum"`
	Title      string    `json:"title"`
	Creator    string    `json:"creator,omitempty"`
	TrackCount int       `json:"track_count"`
	CreatedAt  time.Time `json:"created_at"`
}

func toContainerOutput(c *models.PersistedContainer, _ int) containerOutput {
	return containerOutput{
		ID:         c.ID(),
		Sequence:   c.Sequence(),
		Path:       c.Path(),
		Checksum:   c.Checksum(),
		Title:      c.Title(),
		Creator:    c.Creator(),
		TrackCount: c.TrackCount(),
		CreatedAt:  c.CreatedAt(),
	}
}

// CatalogAdd decodes the given containers and stores each with its tracks.
//
// Containers already in the catalog (same SHA-256) are reported and skipped.
func (r *Runner) CatalogAdd(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("%w: at least one container file is required", shared.ErrMissingArgument)
	}

	engine, err := r.engine(true)
	if err != nil {
		return err
	}

	opts := r.batchOpts(cmd)
	opts.Store = true

	result, err := engine.Batch(ctx, nil, paths, opts)
	if result == nil {
		return err
	}

	r.writeBatch(result, true)
	return err
}

// CatalogList prints cataloged containers ordered by sequence.
func (r *Runner) CatalogList(ctx context.Context, cmd *cli.Command) error {
	if err := r.openCatalog(); err != nil {
		return err
	}

	containers, err := r.containers.List(map[string]any{
		"title":   cmd.String("title"),
		"creator": cmd.String("creator"),
		"limit":   int(cmd.Int("limit")),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(lo.Map(containers, toContainerOutput), cmd.Bool("pretty"))
	}

	if len(containers) == 0 {
		return r.writePlain("No containers in the catalog\n")
	}

	formatter.RenderContainerTable(r.output, containers)
	return nil
}

// CatalogTracks prints the stored tracks of one container in document order.
func (r *Runner) CatalogTracks(ctx context.Context, cmd *cli.Command) error {
	container, err := r.resolveContainer(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	persisted, err := r.tracks.ListByContainer(container.ID())
	if err != nil {
		return err
	}

	export := &models.PlaylistExport{
		Playlist: models.Playlist{
			Name:       container.Title(),
			Creator:    container.Creator(),
			Source:     container.Path(),
			TrackCount: len(persisted),
		},
		Tracks: lo.Map(persisted, func(t *models.PersistedTrack, _ int) models.Track { return t.Track() }),
	}

	if cmd.Bool("json") {
		return r.writeJSON(export, cmd.Bool("pretty"))
	}

	formatter.RenderTable(r.output, export)
	return nil
}

// CatalogRemove soft-deletes a container and its tracks.
func (r *Runner) CatalogRemove(ctx context.Context, cmd *cli.Command) error {
	container, err := r.resolveContainer(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if err := r.containers.Delete(container.ID()); err != nil {
		return err
	}

	r.logger.Info("container removed", "id", container.ID(), "path", container.Path())
	return r.writePlain("%s removed #%d %s\n", ui.Styles().OK("✓"), container.Sequence(), container.Title())
}

// resolveContainer looks a container up by sequence number or ID.
func (r *Runner) resolveContainer(ref string) (*models.PersistedContainer, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: container sequence or ID is required", shared.ErrMissingArgument)
	}

	if err := r.openCatalog(); err != nil {
		return nil, err
	}

	if seq, err := strconv.Atoi(ref); err == nil {
		return r.containers.GetBySequence(seq)
	}
	return r.containers.Get(ref)
}
