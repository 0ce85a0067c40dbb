package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/amzx/internal/models"
	"github.com/desertthunder/amzx/internal/shared"
	th "github.com/desertthunder/amzx/internal/testing"
)

// writeLibrary creates two playable containers and one corrupt file under a nested directory.
func writeLibrary(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	th.WriteContainer(t, dir, "a.amz", th.SampleXSPF("Alpha", sampleTracks[0], sampleTracks[1]))
	th.WriteContainer(t, dir, "nested/b.AMZ", th.SampleXSPF("Beta", sampleTracks[2]))
	if err := os.WriteFile(filepath.Join(dir, "c.amz"), []byte("@@@@"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	return dir
}

func TestScan(t *testing.T) {
	t.Run("json summary", func(t *testing.T) {
		dir := writeLibrary(t)
		runner, output := newTestRunner(t)

		if err := run(t, runner, "scan", "--json", "-w", "2", dir); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var result scanOutput
		if err := json.Unmarshal(output.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if result.Decoded != 2 || result.Failed != 1 || result.TotalTracks != 3 {
			t.Errorf("unexpected summary: %+v", result)
		}
		if len(result.Files) != 3 {
			t.Fatalf("expected 3 files, got %d", len(result.Files))
		}
		if result.Files[0].Name != "Alpha" || result.Files[0].Tracks != 2 {
			t.Errorf("unexpected first entry: %+v", result.Files[0])
		}
		if result.Files[1].Error == "" {
			t.Errorf("expected corrupt file to report an error: %+v", result.Files[1])
		}
		if result.Files[2].Name != "Beta" {
			t.Errorf("expected nested container last, got %+v", result.Files[2])
		}
	})

	t.Run("plain output", func(t *testing.T) {
		dir := writeLibrary(t)
		runner, output := newTestRunner(t)

		if err := run(t, runner, "scan", dir); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		for _, want := range []string{"a.amz: 2 tracks (Alpha)", "b.AMZ: 1 track (Beta)", "c.amz:", "2 decoded, 1 failed, 3 tracks"} {
			if !strings.Contains(output.String(), want) {
				t.Errorf("expected output to contain %q:\n%s", want, output.String())
			}
		}
	})

	t.Run("export dir", func(t *testing.T) {
		dir := writeLibrary(t)
		exportDir := filepath.Join(t.TempDir(), "exports")
		runner, output := newTestRunner(t)

		if err := run(t, runner, "scan", "--export-dir", exportDir, "-f", "json", dir); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		th.AssertFileExists(t, filepath.Join(exportDir, "a.json"))
		th.AssertFileExists(t, filepath.Join(exportDir, "b.json"))
		th.AssertFileExists(t, filepath.Join(exportDir, "export_manifest.json"))
		if !strings.Contains(output.String(), "Manifest: ") {
			t.Errorf("expected manifest path in output:\n%s", output.String())
		}
	})

	t.Run("unknown export format", func(t *testing.T) {
		dir := writeLibrary(t)
		runner, _ := newTestRunner(t)

		err := run(t, runner, "scan", "--export-dir", t.TempDir(), "-f", "wav", dir)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		runner, _ := newTestRunner(t)
		if err := run(t, runner, "scan", filepath.Join(t.TempDir(), "nope")); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}

func TestCatalog(t *testing.T) {
	dir := writeLibrary(t)
	runner, output := newTestRunner(t)

	listContainers := func(t *testing.T, args ...string) []containerOutput {
		t.Helper()
		output.Reset()
		if err := run(t, runner, append([]string{"catalog", "list", "--json"}, args...)...); err != nil {
			t.Fatalf("catalog list failed: %v", err)
		}
		var containers []containerOutput
		if err := json.Unmarshal(output.Bytes(), &containers); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		return containers
	}

	t.Run("empty catalog", func(t *testing.T) {
		output.Reset()
		if err := run(t, runner, "catalog", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "No containers") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("scan stores containers", func(t *testing.T) {
		output.Reset()
		if err := run(t, runner, "scan", "--catalog", "-w", "1", dir); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "2 stored, 0 duplicates") {
			t.Errorf("unexpected summary:\n%s", output.String())
		}

		containers := listContainers(t)
		if len(containers) != 2 {
			t.Fatalf("expected 2 containers, got %d", len(containers))
		}
		if containers[0].Sequence != 1 || containers[0].Title != "Alpha" || containers[0].TrackCount != 2 {
			t.Errorf("unexpected first container: %+v", containers[0])
		}
		if len(containers[0].Checksum) != 64 {
			t.Errorf("expected hex SHA-256 checksum, got %q", containers[0].Checksum)
		}
	})

	t.Run("add rejects duplicates", func(t *testing.T) {
		output.Reset()
		if err := run(t, runner, "catalog", "add", filepath.Join(dir, "a.amz")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), shared.ErrDuplicateContainer.Error()) {
			t.Errorf("expected duplicate warning:\n%s", output.String())
		}
		if got := len(listContainers(t)); got != 2 {
			t.Errorf("expected catalog to stay at 2 containers, got %d", got)
		}
	})

	t.Run("list filters", func(t *testing.T) {
		containers := listContainers(t, "--title", "bet")
		if len(containers) != 1 || containers[0].Title != "Beta" {
			t.Errorf("expected only Beta, got %+v", containers)
		}

		if got := len(listContainers(t, "--limit", "1")); got != 1 {
			t.Errorf("expected limit to apply, got %d", got)
		}
	})

	t.Run("list table", func(t *testing.T) {
		output.Reset()
		if err := run(t, runner, "catalog", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Alpha") || !strings.Contains(output.String(), "Beta") {
			t.Errorf("expected both containers in table:\n%s", output.String())
		}
	})

	t.Run("tracks by sequence", func(t *testing.T) {
		output.Reset()
		if err := run(t, runner, "catalog", "tracks", "--json", "1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var export models.PlaylistExport
		if err := json.Unmarshal(output.Bytes(), &export); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if export.Playlist.Name != "Alpha" || len(export.Tracks) != 2 {
			t.Fatalf("unexpected export: %+v", export)
		}
		if export.Tracks[0] != sampleTracks[0] || export.Tracks[1] != sampleTracks[1] {
			t.Errorf("expected tracks in document order, got %+v", export.Tracks)
		}
	})

	t.Run("tracks by id", func(t *testing.T) {
		beta := listContainers(t, "--title", "Beta")[0]

		output.Reset()
		if err := run(t, runner, "catalog", "tracks", beta.ID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Three") {
			t.Errorf("expected Beta's track in table:\n%s", output.String())
		}
	})

	t.Run("unknown container", func(t *testing.T) {
		err := run(t, runner, "catalog", "tracks", "42")
		if !errors.Is(err, shared.ErrContainerNotFound) {
			t.Errorf("expected ErrContainerNotFound, got %v", err)
		}
	})

	t.Run("remove", func(t *testing.T) {
		output.Reset()
		if err := run(t, runner, "catalog", "rm", "1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "removed #1 Alpha") {
			t.Errorf("unexpected output %q", output.String())
		}

		containers := listContainers(t)
		if len(containers) != 1 || containers[0].Title != "Beta" {
			t.Errorf("expected only Beta after removal, got %+v", containers)
		}

		if err := run(t, runner, "catalog", "rm", "1"); !errors.Is(err, shared.ErrContainerNotFound) {
			t.Errorf("expected ErrContainerNotFound on second removal, got %v", err)
		}
	})

	t.Run("re-add after removal", func(t *testing.T) {
		output.Reset()
		if err := run(t, runner, "catalog", "add", filepath.Join(dir, "a.amz")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "1 stored") {
			t.Errorf("expected removed container to be stored again:\n%s", output.String())
		}
	})

	t.Run("missing argument", func(t *testing.T) {
		if err := run(t, runner, "catalog", "add"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if err := run(t, runner, "catalog", "rm"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestSetup(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	runner, output := newTestRunner(t)

	if err := runner.app().Run(t.Context(), []string{"amzx", "--config", configPath, "setup"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	th.AssertFileExists(t, configPath)
	if !strings.Contains(output.String(), "config written to "+configPath) {
		t.Errorf("unexpected output %q", output.String())
	}
	if !strings.Contains(output.String(), "catalog ready") {
		t.Errorf("unexpected output %q", output.String())
	}
}

func TestCollectPaths(t *testing.T) {
	dir := writeLibrary(t)
	runner, _ := newTestRunner(t)

	paths, err := runner.collectPaths([]string{dir, filepath.Join(dir, "notes.txt")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(paths) != 4 {
		t.Errorf("expected 3 containers plus the explicit file, got %v", paths)
	}

	if _, err := runner.collectPaths(nil); !errors.Is(err, shared.ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument, got %v", err)
	}

	if _, err := runner.collectPaths([]string{t.TempDir()}); !errors.Is(err, shared.ErrNoPlaylist) {
		t.Errorf("expected ErrNoPlaylist for an empty directory, got %v", err)
	}
}
