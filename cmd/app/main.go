package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/chainscope/internal"
	pkgconfig "github.com/starford/chainscope/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func export(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return runExport(ctx, cfg, cmd.String("format"), cmd.String("out"))
}

// runExport writes an export to out, a dated file name when out is empty,
// or stdout for "-". A failed export leaves no file behind.
func runExport(ctx context.Context, cfg *internal.Config, format, out string) error {
	if err := internal.CheckFormat(format); err != nil {
		return err
	}

	opts := []internal.Option{internal.WithConfig(cfg)}
	if out == "" {
		out = internal.DefaultExportName(format, time.Now())
	}
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		opts = append(opts, internal.WithOutput(f))
	}

	if err := internal.Export(ctx, format, opts...); err != nil {
		if out != "-" {
			_ = os.Remove(out)
		}
		return fmt.Errorf("export: %w", err)
	}
	if out != "-" {
		fmt.Fprintln(os.Stderr, "wrote", out)
	}
	return nil
}

func importCmd(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("import takes exactly one file argument (use - for stdin)")
	}

	var r io.Reader = os.Stdin
	if name := cmd.Args().First(); name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("open %s: %w", name, err)
		}
		defer f.Close()
		r = f
	}
	return internal.Import(ctx, r, internal.WithConfig(cfg))
}

func reset(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return fmt.Errorf("reset replaces the stored dataset with the defaults; pass --yes to confirm")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Reset(ctx, internal.WithConfig(cfg))
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, internal.WithConfig(cfg))
}

func main() {
	cmd := &cli.Command{
		Name:   "chainscope",
		Usage:  "Supply-chain network dataset service with derived views, live updates, and exports",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:   "export",
				Usage:  "Write the stored dataset to a file",
				Action: export,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "json, xlsx or pdf",
						Value: internal.FormatJSON,
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output path, - for stdout (default: dated file name)",
					},
				},
			},
			{
				Name:      "import",
				Usage:     "Replace the stored dataset with a JSON export",
				ArgsUsage: "<file|->",
				Action:    importCmd,
			},
			{
				Name:   "reset",
				Usage:  "Restore the built-in default dataset",
				Action: reset,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Confirm the reset",
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: mcp,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
