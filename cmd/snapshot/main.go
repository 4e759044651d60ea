package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golden-cross/src/app"
	"golden-cross/src/config"
	"golden-cross/src/logger"
	"golden-cross/src/models"
	"golden-cross/src/presentation"

	"github.com/urfave/cli/v3"
)

// snapshotAction renders one dashboard view to stdout.
func snapshotAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.NewConfig(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Logs go to stdout, so keep them quiet unless asked for
	level := "ERROR"
	if cmd.Bool("verbose") {
		level = cfg.LogLevel
	}
	appLogger := logger.NewLogger(level, cfg.Name)
	defer appLogger.Sync()

	pipeline, err := app.New(cfg.MConfig, appLogger)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	view := pipeline.Service.Render(ctx, models.MDashboardRequest{
		Ticker: cmd.String("ticker"),
		Years:  int(cmd.Int("years")),
	})

	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			return fmt.Errorf("failed to encode view: %w", err)
		}
	} else {
		fmt.Println(presentation.RenderTerminal(view))
	}

	if view.Status == models.StatusError {
		return cli.Exit("", 1)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "snapshot",
		Usage: "Print the golden cross dashboard for one ticker",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "ticker",
				Aliases: []string{"t"},
				Usage:   "Stock ticker symbol. Defaults to data_source.default_ticker",
			},
			&cli.IntFlag{
				Name:    "years",
				Aliases: []string{"y"},
				Usage:   "Years of history to analyze (1-10). Defaults to data_source.default_years",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file",
				Value:   "config/default.yaml",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the view as JSON instead of a terminal summary",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log at the configured level",
			},
		},
		Action: snapshotAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
