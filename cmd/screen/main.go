// Command screen evaluates the candidate thresholds over persisted
// indicator rows and prints the matching symbols as JSON, optionally
// delivering the same payload to a webhook.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/apomeroy/aitrade/internal/config"
	"github.com/apomeroy/aitrade/internal/logger"
	"github.com/apomeroy/aitrade/internal/marketclock"
	"github.com/apomeroy/aitrade/internal/screener"
	"github.com/apomeroy/aitrade/internal/store"
	"github.com/apomeroy/aitrade/internal/webhook"
)

func screenAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	if path := cmd.String("database"); path != "" {
		cfg.Database.Path = path
	}

	if url := cmd.String("webhook"); url != "" {
		cfg.Webhook.URL = url
	}

	lg, err := logger.NewLoggerWithVerbosity(int(cmd.Int("debuglevel")))
	if err != nil {
		return err
	}
	defer lg.Sync()

	st, err := store.Open(cfg.Database.Path, lg)
	if err != nil {
		return err
	}
	defer st.Close()

	var symbols []string

	if path := cmd.String("ticker-file"); path != "" {
		symbols, err = readTickerFile(path)
		if err != nil {
			return err
		}
	}

	thresholds := screener.Thresholds{
		MinClose:     cmd.Float("min-price"),
		MaxClose:     cmd.Float("max-price"),
		RSILimit:     cmd.Float("rsilimit"),
		MaxMADelta:   cmd.Float("ma50ma200delta"),
		ADXMin:       cmd.Float("adxminlimit"),
		ADXMax:       cmd.Float("adxmaxlimit"),
		LookbackDays: int(cmd.Int("lookbackdays")),
		HistoryDays:  int(cmd.Int("history-days")),
	}

	sc := screener.New(st, marketclock.SystemClock{}, lg)

	payload, err := sc.Run(symbols, thresholds)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))

	// Delivery is best-effort: a webhook failure never fails the run.
	if cfg.Webhook.URL != "" {
		if err := webhook.NewNotifier(cfg.Webhook.URL).Send(ctx, payload); err != nil {
			lg.Warn("webhook delivery failed", zap.Error(err))
		}
	}

	return nil
}

// readTickerFile reads newline-separated ticker symbols, skipping blanks
// and # comments.
func readTickerFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ticker file: %w", err)
	}
	defer f.Close()

	var symbols []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		symbols = append(symbols, strings.ToUpper(line))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ticker file: %w", err)
	}

	// An explicit ticker file with no symbols would otherwise fall back
	// to screening every stored symbol.
	if len(symbols) == 0 {
		return nil, fmt.Errorf("ticker file %s contains no symbols", path)
	}

	return symbols, nil
}

func main() {
	defaults := screener.DefaultThresholds()

	cmd := &cli.Command{
		Name:  "screen",
		Usage: "Screen persisted indicator rows for trade candidates",
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
			&cli.StringFlag{
				Name:    "ticker-file",
				Aliases: []string{"t"},
				Usage:   "File with newline-separated symbols to screen (defaults to all stored symbols)",
			},
			&cli.FloatFlag{
				Name:  "min-price",
				Usage: "Minimum closing price",
				Value: defaults.MinClose,
			},
			&cli.FloatFlag{
				Name:  "max-price",
				Usage: "Maximum closing price",
				Value: defaults.MaxClose,
			},
			&cli.FloatFlag{
				Name:  "rsilimit",
				Usage: "Maximum RSI value",
				Value: defaults.RSILimit,
			},
			&cli.FloatFlag{
				Name:  "ma50ma200delta",
				Usage: "Maximum spread of MA50 above MA200",
				Value: defaults.MaxMADelta,
			},
			&cli.FloatFlag{
				Name:  "adxminlimit",
				Usage: "Minimum ADX value",
				Value: defaults.ADXMin,
			},
			&cli.FloatFlag{
				Name:  "adxmaxlimit",
				Usage: "Maximum ADX value",
				Value: defaults.ADXMax,
			},
			&cli.IntFlag{
				Name:  "lookbackdays",
				Usage: "Only rows within the last N calendar days can match",
				Value: int64(defaults.LookbackDays),
			},
			&cli.IntFlag{
				Name:  "history-days",
				Usage: "Rows of context history per matched symbol",
				Value: int64(defaults.HistoryDays),
			},
			&cli.StringFlag{
				Name:  "webhook",
				Usage: "URL to POST the candidates payload to (overrides config)",
			},
			&cli.IntFlag{
				Name:    "debuglevel",
				Aliases: []string{"d"},
				Usage:   "Log verbosity, 0 (quiet) to 5 (debug)",
				Value:   0,
			},
		},
		Action: screenAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
