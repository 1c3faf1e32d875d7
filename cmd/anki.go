// The anki command crawls every Learnable Meta map and builds one Anki
// package: per map a
// deck, per meta one or more cards whose question side is chosen by the
// override policy.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/atollk/geoguessr-scripts/browser"
	"github.com/atollk/geoguessr-scripts/config"
	"github.com/atollk/geoguessr-scripts/core"
	"github.com/atollk/geoguessr-scripts/core/apkg"
	"github.com/atollk/geoguessr-scripts/core/deck"
	"github.com/atollk/geoguessr-scripts/core/fetch"
	"github.com/atollk/geoguessr-scripts/core/images"
	"github.com/atollk/geoguessr-scripts/core/scrape"
	"github.com/atollk/geoguessr-scripts/crawl"
)

var (
	flagOverrides string
	flagOutput    string
	flagLimit     int
	flagMapFilter string
	flagWorkdir   string
)

var ankiCmd = &cobra.Command{
	Use:   "anki",
	Short: "Build an Anki package from the Learnable Meta maps",
	Long: `Anki crawls the map list, scrapes every meta of every map, downloads the
referenced images, and writes a single .apkg file containing one deck per
map.

Examples:
  geoguessr-scripts anki
  geoguessr-scripts anki --overrides overrides.json --output metas.apkg
  geoguessr-scripts anki --map "European Letters" --limit 1`,
	RunE: runAnki,
}

func init() {
	rootCmd.AddCommand(ankiCmd)

	ankiCmd.Flags().StringVar(&flagOverrides, "overrides", "", "Path to the question-image override file (JSON)")
	ankiCmd.Flags().StringVar(&flagOutput, "output", "", "Output package path (default from config)")
	ankiCmd.Flags().IntVar(&flagLimit, "limit", 0, "Process at most this many maps (0 = all)")
	ankiCmd.Flags().StringVar(&flagMapFilter, "map", "", "Only process maps whose name contains this string")
	ankiCmd.Flags().StringVar(&flagWorkdir, "workdir", "", "Directory for downloaded images (default: temporary)")
}

func runAnki(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var overrides *config.Overrides
	if flagOverrides != "" {
		overrides, err = config.LoadOverrides(flagOverrides)
		if err != nil {
			return err
		}
	}

	log.Info("Loading map list")
	maps, err := loadMaps(ctx, log, cfg)
	if err != nil {
		return err
	}
	maps = filterMaps(maps, flagMapFilter, mapLimit(cfg))
	if len(maps) == 0 {
		return fmt.Errorf("no maps matched")
	}

	workdir := flagWorkdir
	if workdir == "" {
		workdir, err = os.MkdirTemp("", "geoguessr-anki-")
		if err != nil {
			return fmt.Errorf("creating workdir: %w", err)
		}
		defer os.RemoveAll(workdir)
	}

	client := fetch.New()
	scraper := scrape.NewScraper(log)
	scraper.TableTimeout = time.Duration(cfg.Scrape.TableTimeoutSeconds) * time.Second
	scraper.ResolveTimeout = time.Duration(cfg.Scrape.ResolveTimeoutSeconds) * time.Second

	var bar *progressbar.ProgressBar
	builder := &deck.Builder{
		Log:             log,
		Images:          &images.Pipeline{Log: log, Downloader: client},
		Overrides:       overrides,
		Workdir:         workdir,
		CustomImageDir:  cfg.Output.CustomImageDir,
		AttributionBase: cfg.Site.MetaBaseURL,
		Progress: func(done, total int) {
			if done == 1 {
				bar = progressbar.Default(int64(total))
			}
			if bar != nil {
				_ = bar.Set(done)
			}
		},
	}

	pkg, err := builder.BuildPackage(ctx, maps, func(ctx context.Context, meta core.MetaMap) ([]core.Entry, error) {
		// Each map gets its own session: the open detail panel is global
		// to the tab.
		sess, err := browser.NewChromeSession(ctx)
		if err != nil {
			return nil, err
		}
		defer sess.Close()

		if err := sess.Navigate(ctx, crawl.MapURL(cfg.Site.MetaBaseURL, meta.MapID)); err != nil {
			return nil, err
		}
		return scraper.Entries(ctx, sess, meta.Name)
	})
	if err != nil {
		return err
	}

	out := flagOutput
	if out == "" {
		out = cfg.Output.PackagePath
	}
	log.Info("Writing package file", "path", out)
	if err := apkg.NewWriter(log).Write(pkg, out); err != nil {
		return err
	}
	log.Info(fmt.Sprintf("Wrote %d decks with %d media files", len(pkg.Decks), len(pkg.MediaFiles)))
	return nil
}

// loadMaps discovers the available maps in a throwaway browser session.
func loadMaps(ctx context.Context, log *slog.Logger, cfg config.Config) ([]core.MetaMap, error) {
	sess, err := browser.NewChromeSession(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	lister := &crawl.MapLister{Log: log}
	return lister.LoadMapList(ctx, sess, cfg.Site.MetaBaseURL+"/maps")
}

func mapLimit(cfg config.Config) int {
	if flagLimit > 0 {
		return flagLimit
	}
	return cfg.Scrape.MapLimit
}

func filterMaps(maps []core.MetaMap, filter string, limit int) []core.MetaMap {
	if filter != "" {
		var kept []core.MetaMap
		for _, m := range maps {
			if strings.Contains(m.Name, filter) {
				kept = append(kept, m)
			}
		}
		maps = kept
	}
	if limit > 0 && len(maps) > limit {
		maps = maps[:limit]
	}
	return maps
}
