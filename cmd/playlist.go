package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/amzx/internal/amz"
	"github.com/desertthunder/amzx/internal/formatter"
	"github.com/desertthunder/amzx/internal/models"
	"github.com/desertthunder/amzx/internal/shared"
	"github.com/desertthunder/amzx/internal/tasks"
	"github.com/desertthunder/amzx/internal/ui"
	"github.com/desertthunder/amzx/internal/xspf"
)

// List decodes each container and prints its tracks.
//
// The plain layout is "<file>: N track(s)" followed by one numbered "creator - title" line per
// track with the location underneath. A container without tracks fails with [shared.ErrNoPlaylist].
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("%w: at least one container file is required", shared.ErrMissingArgument)
	}

	exports := make([]*models.PlaylistExport, 0, len(paths))
	for _, path := range paths {
		export, err := r.decodePlaylist(path)
		if err != nil {
			return err
		}
		exports = append(exports, export)
	}

	if cmd.Bool("json") {
		return r.writeJSON(exports, cmd.Bool("pretty"))
	}

	for i, export := range exports {
		if i > 0 {
			r.writePlain("\n")
		}
		if cmd.Bool("table") {
			formatter.RenderTable(r.output, export)
			continue
		}
		if err := r.writeListing(paths[i], export); err != nil {
			return err
		}
	}

	return nil
}

func (r *Runner) writeListing(path string, export *models.PlaylistExport) error {
	n := len(export.Tracks)
	if err := r.writePlain("%s: %d %s\n\n", path, n, shared.Pluralize(n, "track")); err != nil {
		return err
	}

	for i, track := range export.Tracks {
		if err := r.writePlain("%5d. %s - %s\n       %s\n", i+1, track.Creator, track.Title, track.Location); err != nil {
			return err
		}
	}
	return nil
}

// decodePlaylist decodes the container at path and rejects an empty track list.
func (r *Runner) decodePlaylist(path string) (*models.PlaylistExport, error) {
	decoded, err := tasks.DecodeFile(path)
	if err != nil {
		return nil, err
	}

	if len(decoded.Export.Tracks) == 0 {
		return nil, tasks.NoPlaylistError(path)
	}

	r.logger.Debug("decoded container", "path", path, "tracks", len(decoded.Export.Tracks))
	return decoded.Export, nil
}

// Decrypt writes the decrypted document of a container to stdout or --output.
func (r *Runner) Decrypt(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: container file is required", shared.ErrMissingArgument)
	}

	decoded, err := tasks.DecodeFile(path)
	if err != nil {
		return err
	}

	if output := cmd.String("output"); output != "" {
		if err := os.WriteFile(output, decoded.Document, 0644); err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}
		r.logger.Info("document written", "path", output, "bytes", len(decoded.Document))
		return nil
	}

	if _, err := r.output.Write(decoded.Document); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Export converts the tracks of a container with [formatter.Export].
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: container file is required", shared.ErrMissingArgument)
	}

	format := cmd.String("format")
	if format == "" {
		format = r.config.Export.Format
	}
	if _, ok := formatter.Extensions[format]; !ok {
		return fmt.Errorf("%w: unknown format %q (expected one of %s)",
			shared.ErrInvalidFlag, format, strings.Join(shared.ExportFormats, ", "))
	}

	pretty := r.config.Export.Pretty
	if cmd.IsSet("pretty") {
		pretty = cmd.Bool("pretty")
	}

	export, err := r.decodePlaylist(path)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "" {
		data, err := formatter.Export(export, format, pretty)
		if err != nil {
			return err
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	written, err := formatter.WriteExport(export, format, output, pretty)
	if err != nil {
		return err
	}

	r.logger.Info("playlist exported", "path", written, "format", format, "tracks", len(export.Tracks))
	r.writePlain("%s %s\n", ui.Styles().OK("✓"), written)
	return nil
}

// Pack encrypts an XSPF document into a container, optionally normalizing it first.
func (r *Runner) Pack(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: XSPF file is required", shared.ErrMissingArgument)
	}

	document, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if cmd.Bool("normalize") {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		export := xspf.ParsePlaylist(document, name)
		if len(export.Tracks) == 0 {
			return fmt.Errorf("%w: no tracks found in %s", shared.ErrNoPlaylist, path)
		}
		if document, err = xspf.Render(export); err != nil {
			return err
		}
	}

	container, err := amz.Encrypt(document)
	if err != nil {
		return fmt.Errorf("failed to encrypt %s: %w", path, err)
	}

	output := cmd.String("output")
	if output == "" {
		output = strings.TrimSuffix(path, filepath.Ext(path)) + ".amz"
	}
	if output == path {
		return fmt.Errorf("%w: output would overwrite %s", shared.ErrInvalidFlag, path)
	}

	if err := os.WriteFile(output, container, 0644); err != nil {
		return fmt.Errorf("failed to write container: %w", err)
	}

	r.logger.Info("container packed", "source", path, "path", output)
	r.writePlain("%s %s\n", ui.Styles().OK("✓"), output)
	return nil
}

type diffOutput struct {
	Source        string         `json:"source"`
	Dest          string         `json:"dest"`
	Matched       int            `json:"matched"`
	MissingInDest []models.Track `json:"missing_in_dest"`
	ExtraInDest   []models.Track `json:"extra_in_dest"`
}

// Diff compares two containers and lists the tracks each side lacks.
func (r *Runner) Diff(ctx context.Context, cmd *cli.Command) error {
	source, dest := cmd.StringArg("source"), cmd.StringArg("dest")
	if source == "" || dest == "" {
		return fmt.Errorf("%w: source and dest containers are required", shared.ErrMissingArgument)
	}

	engine, err := r.engine(false)
	if err != nil {
		return err
	}

	result, err := engine.Diff(ctx, nil, source, dest)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(diffOutput{
			Source:        source,
			Dest:          dest,
			Matched:       result.MatchedCount,
			MissingInDest: result.MissingInDest,
			ExtraInDest:   result.ExtraInDest,
		}, cmd.Bool("pretty"))
	}

	styles := ui.Styles()
	r.writePlainHeader(fmt.Sprintf("%s → %s", result.Source.Playlist.Name, result.Dest.Playlist.Name))
	r.writePlain("Matched: %d of %d\n", result.MatchedCount, len(result.Source.Tracks))

	r.writePlainln("Missing in %s (%d):", dest, len(result.MissingInDest))
	for _, track := range result.MissingInDest {
		r.writePlain("  %s %s\n", styles.Err("-"), trackLabel(track))
	}

	r.writePlainln("Extra in %s (%d):", dest, len(result.ExtraInDest))
	for _, track := range result.ExtraInDest {
		r.writePlain("  %s %s\n", styles.OK("+"), trackLabel(track))
	}

	return nil
}

func trackLabel(t models.Track) string {
	switch {
	case t.Title == "":
		return t.Location
	case t.Creator == "":
		return t.Title
	default:
		return t.Creator + " - " + t.Title
	}
}
