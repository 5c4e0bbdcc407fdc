package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"sportsref/lib/configutil"
	"sportsref/lib/fetch"
	fetchdb "sportsref/lib/fetch/db"
	"sportsref/nfl"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sportsref",
	Short: "sportsref is a CLI for scraping sports-reference sites.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func Fatal(message string, err error) {
	slog.Error(message, "err", err)
	os.Exit(1)
}

type Config struct {
	BaseURL        string `json:"base_url"`
	CacheDB        string `json:"cache_db"`
	ThrottleMillis int    `json:"throttle_millis"`
	UserAgent      string `json:"user_agent"`
}

// newNFLClient wires the config into a fetch client and an NFL scraper.
// A missing config.json5 falls back to defaults with no page cache.
func newNFLClient() *nfl.Client {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		Fatal("failed to read config", err)
	}

	opts := fetch.Options{
		Throttle:  time.Duration(cfg.ThrottleMillis) * time.Millisecond,
		UserAgent: cfg.UserAgent,
	}
	if cfg.CacheDB != "" {
		db, err := fetchdb.Open(cfg.CacheDB)
		if err != nil {
			Fatal("failed to open page cache", err)
		}
		opts.CacheDB = db
	}

	fetcher, err := fetch.NewClient(opts)
	if err != nil {
		Fatal("failed to initialize fetch client", err)
	}
	return nfl.NewClient(nfl.Options{Fetch: fetcher, BaseURL: cfg.BaseURL})
}
