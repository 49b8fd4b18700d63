package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/staticpress/lektorexport/internal/config"
	"github.com/staticpress/lektorexport/internal/content"
	"github.com/staticpress/lektorexport/internal/db"
	"github.com/staticpress/lektorexport/internal/errors"
	"github.com/staticpress/lektorexport/internal/ops"
	"github.com/staticpress/lektorexport/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "lektorexport",
		Usage:   "Export WordPress-shaped content into a Lektor flat-file tree",
		Version: Version,
		Commands: []*cli.Command{
			exportCmd(cfg),
			cleanupCmd(cfg),
			siteConfigCmd(cfg),
			serveCmd(cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// sourceFlags are shared by every command that reads the content database.
func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "db", Usage: "Content database path (overrides config)"},
		&cli.StringFlag{Name: "uploads", Usage: "Uploaded-media root to mirror (overrides config)"},
	}
}

// exportCmd creates the export command.
func exportCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export published content into a Lektor-compatible tree",
		Flags: append(sourceFlags(),
			&cli.StringFlag{Name: "types", Aliases: []string{"t"}, Usage: "Comma-separated content types (default: post,page)"},
			&cli.StringFlag{Name: "base-url", Usage: "Site base URL override for permalink stripping"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Exports directory override"},
			&cli.BoolFlag{Name: "zip", Aliases: []string{"z"}, Usage: "Package the export tree into a zip archive"},
			&cli.BoolFlag{Name: "keep", Aliases: []string{"k"}, Usage: "Keep the export tree after packaging"},
		),
		Action: func(c *cli.Context) error {
			runCfg := commandConfig(cfg, c)
			src, closeSource, err := openSource(runCfg, c)
			if err != nil {
				return outputError(err)
			}
			defer closeSource()

			input := ops.ExportInput{
				Zip:  c.Bool("zip"),
				Keep: c.Bool("keep"),
			}
			if types := c.String("types"); types != "" {
				input.Types = parseList(types)
			}

			output, err := ops.Export(c.Context, src, runCfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// cleanupCmd creates the cleanup command.
func cleanupCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "cleanup",
		Usage:     "Remove an export run's output directory and archive",
		ArgsUsage: "<run-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Exports directory override"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("run id argument is required"))
			}

			runCfg := commandConfig(cfg, c)
			output, err := ops.Cleanup(runCfg, ops.CleanupInput{RunID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// siteConfigCmd creates the site-config command.
func siteConfigCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "site-config",
		Usage: "Print the _config.yml an export would write",
		Flags: sourceFlags(),
		Action: func(c *cli.Context) error {
			runCfg := commandConfig(cfg, c)
			src, closeSource, err := openSource(runCfg, c)
			if err != nil {
				return outputError(err)
			}
			defer closeSource()

			opts, err := src.SiteOptions(c.Context)
			if err != nil {
				return outputError(err)
			}

			data, err := ops.SiteConfigYAML(opts)
			if err != nil {
				return outputError(err)
			}

			fmt.Print(string(data))
			return nil
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the administrative HTTP server",
		Flags: append(sourceFlags(),
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8380, Usage: "Listen port"},
		),
		Action: func(c *cli.Context) error {
			runCfg := commandConfig(cfg, c)
			src, closeSource, err := openSource(runCfg, c)
			if err != nil {
				return outputError(err)
			}
			defer closeSource()

			srv := web.NewServer(src, runCfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// commandConfig applies per-command flag overrides onto the loaded config.
func commandConfig(cfg *config.Config, c *cli.Context) *config.Config {
	overlay := &config.Config{
		DBPath:     c.String("db"),
		UploadsDir: c.String("uploads"),
		BaseURL:    c.String("base-url"),
		ExportsDir: c.String("out"),
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return config.Merge(cfg, overlay)
}

// openSource opens the content database behind a Source.
func openSource(cfg *config.Config, c *cli.Context) (content.Source, func(), error) {
	if cfg.DBPath == "" {
		return nil, nil, errors.NewInvalidRequest("content database path is required (--db or config db_path)")
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}

	src := db.NewStore(database, cfg.UploadsDir)
	return src, func() { database.Close() }, nil
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if eErr, ok := err.(*errors.ExportError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", eErr.Code, eErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// parseList splits a comma-separated string into trimmed non-empty values.
func parseList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
