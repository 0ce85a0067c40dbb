// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// lsCommand lists the tracks of one or more containers
func lsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "ls",
		Aliases:   []string{"list"},
		Usage:     "List the tracks embedded in AMZ containers",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "table",
				Usage: "Render tracks as a table",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.List,
	}
}

// decryptCommand writes the embedded XSPF document
func decryptCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "decrypt",
		Usage: "Decrypt a container and print the embedded XSPF playlist",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "file"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: stdout)",
			},
		},
		Action: r.Decrypt,
	}
}

// exportCommand converts a container's tracks to another format
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the tracks of a container as text, markdown, csv, json, m3u or xspf",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "file"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format (default: export.format from config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: stdout)",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON (default: export.pretty from config)",
			},
		},
		Action: r.Export,
	}
}

// packCommand wraps an XSPF document into a container
func packCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "pack",
		Usage: "Encrypt an XSPF playlist into an AMZ container",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "file"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output container path (default: input name with .amz)",
			},
			&cli.BoolFlag{
				Name:  "normalize",
				Usage: "Re-render the playlist as canonical XSPF before encrypting",
			},
		},
		Action: r.Pack,
	}
}

// diffCommand compares the track lists of two containers
func diffCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "diff",
		Usage: "Compare and show missing tracks between two containers",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "source"},
			&cli.StringArg{Name: "dest"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Diff,
	}
}

// scanCommand batch-decodes a directory tree
func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Decode every container under a directory",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "dir"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Concurrent decoders (default: scan.workers from config)",
			},
			&cli.BoolFlag{
				Name:  "catalog",
				Usage: "Store decoded containers in the catalog",
			},
			&cli.StringFlag{
				Name:  "export-dir",
				Usage: "Write every playlist to this directory",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Format for --export-dir (default: export.format from config)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Scan,
	}
}

// catalogCommand manages the SQLite catalog of decoded containers
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"cat"},
		Usage:   "Manage the catalog of decoded containers",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Decode containers and store them with their tracks",
				ArgsUsage: "FILE...",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Concurrent decoders (default: scan.workers from config)",
					},
				},
				Action: r.CatalogAdd,
			},
			{
				Name:  "list",
				Usage: "List cataloged containers",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "Filter by playlist title substring",
					},
					&cli.StringFlag{
						Name:  "creator",
						Usage: "Filter by playlist creator substring",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of containers to return",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.CatalogList,
			},
			{
				Name:  "tracks",
				Usage: "Show the tracks of a cataloged container",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.CatalogTracks,
			},
			{
				Name:    "rm",
				Aliases: []string{"remove"},
				Usage:   "Remove a container and its tracks from the catalog",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.CatalogRemove,
			},
		},
	}
}

// setupCommand creates the config file and catalog database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create a config file and initialize the catalog database",
		Action: r.Setup,
	}
}

// browseCommand returns the top-level TUI command for browsing containers.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Aliases:   []string{"tui", "ui"},
		Usage:     "Browse containers and their tracks interactively",
		ArgsUsage: "FILE|DIR...",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Concurrent decoders (default: scan.workers from config)",
			},
		},
		Action: r.Browse,
	}
}
