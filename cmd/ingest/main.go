// Command ingest fetches daily OHLCV bars, computes technical indicators,
// and persists them to the DuckDB store. It supports a full rebuild or an
// incremental append per symbol.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/apomeroy/aitrade/internal/config"
	"github.com/apomeroy/aitrade/internal/indicator"
	"github.com/apomeroy/aitrade/internal/logger"
	"github.com/apomeroy/aitrade/internal/marketclock"
	"github.com/apomeroy/aitrade/internal/provider"
	"github.com/apomeroy/aitrade/internal/store"
	"github.com/apomeroy/aitrade/internal/updater"
)

func ingestAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	if path := cmd.String("database"); path != "" {
		cfg.Database.Path = path
	}

	lg, err := logger.NewLoggerWithVerbosity(int(cmd.Int("debuglevel")))
	if err != nil {
		return err
	}
	defer lg.Sync()

	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}

	source, err := provider.NewPolygon(cfg.Provider.APIKey, cfg.Provider.PageDelay, lg)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Database.Path, lg)
	if err != nil {
		return err
	}
	defer st.Close()

	calendar, err := marketclock.NewCalendar(
		cfg.Market.Timezone,
		cfg.Market.CloseHour,
		cfg.Market.CloseMinute,
		time.Duration(cfg.Market.GraceMinutes)*time.Minute,
		marketclock.SystemClock{},
	)
	if err != nil {
		return err
	}

	engine, err := indicator.NewEngine(indicator.DefaultConfig())
	if err != nil {
		return err
	}

	epoch, err := cfg.EpochTime()
	if err != nil {
		return err
	}

	controller := updater.NewController(source, st, engine, calendar, updater.Config{
		Epoch:   epoch,
		Workers: cfg.Update.Workers,
	}, lg)

	var bar *progressbar.ProgressBar

	controller.OnProgress = func(done, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "updating")
		}

		_ = bar.Set(done)
	}

	summary, err := controller.Run(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Printf("%d tickers updated out of %d total (%d failed) in %s\n",
		summary.Updated, summary.Total, summary.Failed, summary.Duration.Round(time.Second))

	return nil
}

// resolveOptions maps the mutually exclusive scope and mode flags onto run
// options.
func resolveOptions(cmd *cli.Command) (updater.Options, error) {
	opts := updater.Options{Mode: updater.ModeIncremental}

	if cmd.Bool("full") {
		opts.Mode = updater.ModeFull
	}

	switch {
	case cmd.String("symbol") != "":
		opts.Scope = updater.ScopeSymbol
		opts.Symbol = cmd.String("symbol")
	case cmd.Bool("db"):
		opts.Scope = updater.ScopeDatabase
	case cmd.Bool("all"):
		opts.Scope = updater.ScopeAll
	default:
		return opts, fmt.Errorf("one of --all, --db or --symbol is required")
	}

	return opts, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "ingest",
		Usage: "Fetch daily bars, compute indicators, and update the store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"o"},
				Usage:   "Path to the DuckDB database file (overrides config)",
			},
			&cli.BoolFlag{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "Process every active ticker known to the provider",
			},
			&cli.BoolFlag{
				Name:  "db",
				Usage: "Process only tickers already present in the database",
			},
			&cli.StringFlag{
				Name:    "symbol",
				Aliases: []string{"s"},
				Usage:   "Process a single ticker symbol",
			},
			&cli.BoolFlag{
				Name:    "full",
				Aliases: []string{"f"},
				Usage:   "Rebuild the full history instead of an incremental update",
			},
			&cli.IntFlag{
				Name:    "debuglevel",
				Aliases: []string{"d"},
				Usage:   "Log verbosity, 0 (quiet) to 5 (debug)",
				Value:   0,
			},
		},
		Action: ingestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
