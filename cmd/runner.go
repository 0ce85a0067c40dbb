package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/amzx/internal/repositories"
	"github.com/desertthunder/amzx/internal/shared"
	"github.com/desertthunder/amzx/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	db         *sql.DB
	ownsDB     bool
	containers *repositories.ContainerRepository
	tracks     *repositories.TrackRepository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	DB         *sql.DB // Migrated catalog; opened from Config on first use when nil
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	if opts.DB != nil {
		r.setDB(opts.DB, false)
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, lsCommand, decryptCommand, exportCommand, packCommand, diffCommand, scanCommand, catalogCommand, browseCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// app builds the root command with every subcommand registered.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "amzx",
		Usage:   "Decode, export and catalog AMZ playlist containers",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the configured log level (debug, info, warn, error)",
			},
		},
		Before:   r.configure,
		Commands: r.register(),
	}
}

// configure loads the config file named by --config when it exists and applies the log level.
// A missing file keeps the Runner's current config.
func (r *Runner) configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	r.configPath = path

	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else if !errors.Is(err, os.ErrNotExist) {
		return ctx, fmt.Errorf("failed to stat config: %w", err)
	}

	level := r.config.Log.Level
	if override := cmd.String("log-level"); override != "" {
		level = override
	}
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(level))

	return ctx, nil
}

// SetLogger replaces the Runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Close releases the catalog database when the Runner opened it.
func (r *Runner) Close() error {
	if r.db == nil || !r.ownsDB {
		return nil
	}
	err := r.db.Close()
	r.db, r.containers, r.tracks = nil, nil, nil
	return err
}

func (r *Runner) setDB(db *sql.DB, owned bool) {
	r.db = db
	r.ownsDB = owned
	r.containers = repositories.NewContainerRepository(db)
	r.tracks = repositories.NewTrackRepository(db)
}

// openCatalog opens and migrates the configured catalog on first use.
func (r *Runner) openCatalog() error {
	if r.db != nil {
		return nil
	}

	r.logger.Debug("opening catalog", "path", r.config.Database.Path)
	db, err := shared.OpenCatalog(r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}

	r.setDB(db, true)
	return nil
}

// engine returns a [tasks.DecodeEngine], backed by the catalog when withCatalog is set.
func (r *Runner) engine(withCatalog bool) (*tasks.DecodeEngine, error) {
	if !withCatalog {
		return tasks.NewDecodeEngine(r.logger, nil), nil
	}
	if err := r.openCatalog(); err != nil {
		return nil, err
	}
	return tasks.NewDecodeEngine(r.logger, r.containers), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
