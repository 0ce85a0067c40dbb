package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/amzx/internal/shared"
	"github.com/desertthunder/amzx/internal/tasks"
	"github.com/desertthunder/amzx/internal/ui"
)

// Browse launches the interactive terminal UI over the given containers and directories.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	paths, err := r.collectPaths(cmd.Args().Slice())
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/amzx-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	engine, err := r.engine(false)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, engine, paths, r.batchOpts(cmd))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// collectPaths expands directories into the containers below them, keeping files as given.
func (r *Runner) collectPaths(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: at least one container file or directory is required", shared.ErrMissingArgument)
	}

	paths := []string{}
	for _, arg := range args {
		found, err := tasks.FindContainers(arg, r.config.Scan.Extensions)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no containers found under %v", shared.ErrNoPlaylist, args)
	}
	return paths, nil
}
