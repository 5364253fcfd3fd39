// Package crawl implements the crawl command: one full discovery and
// extraction run against a single platform.
package crawl

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/minkyu-dev/blogcrawl/internal/config"
	"github.com/minkyu-dev/blogcrawl/internal/crawl"
	"github.com/minkyu-dev/blogcrawl/internal/domain"
	"github.com/minkyu-dev/blogcrawl/internal/logger"
	"github.com/minkyu-dev/blogcrawl/internal/output"
	"github.com/minkyu-dev/blogcrawl/internal/platform"
	"github.com/minkyu-dev/blogcrawl/internal/render"
)

// Command returns the crawl command for use in the root command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [platform]",
		Short: "Crawl one platform's search results for articles",
		Long: fmt.Sprintf(`Run a full crawl against a single platform: discover article URLs for
the search keyword, fetch and extract each one, and write the collected
records as a JSON array.

Available platforms: %v`, platform.Names()),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			bindFlags(cmd, v)

			cfg, err := config.Load(v, *cfgFile)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			level := cfg.Log.Level
			if *debug {
				level = "debug"
			}
			log, err := logger.New(&logger.Config{
				Level:       level,
				Encoding:    cfg.Log.Encoding,
				Development: cfg.Log.Development,
			})
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}

			return run(cmd, args[0], cfg, log)
		},
	}

	cmd.Flags().String("query", "", "search keyword")
	cmd.Flags().Int("max-pages", 0, "maximum listing pages (or scroll iterations) to traverse")
	cmd.Flags().Int("max-articles", 0, "maximum articles to collect")
	cmd.Flags().String("output", "", "output JSON path (default: <platform>_results.json)")
	cmd.Flags().Int("workers", 0, "fetch concurrency (clamped to the configured ceiling)")

	return cmd
}

// bindFlags maps the set command flags onto viper keys so they override
// file and environment values.
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	bindings := map[string]string{
		"query":         "query",
		"max_pages":     "max-pages",
		"max_articles":  "max-articles",
		"output_path":   "output",
		"crawl.workers": "workers",
	}
	for key, flag := range bindings {
		if cmd.Flags().Changed(flag) {
			_ = v.BindPFlag(key, cmd.Flags().Lookup(flag))
		}
	}
}

// run wires the adapter, orchestrator, and sink together and executes the
// crawl. The output path is verified writable before any request goes out.
func run(cmd *cobra.Command, platformName string, cfg *config.Config, log logger.Interface) error {
	adapter, err := platform.New(platformName, platform.Options{
		UserAgent:     cfg.Fetch.UserAgent,
		Timeout:       cfg.Fetch.Timeout,
		Delay:         cfg.Crawl.Delay,
		MinContentLen: cfg.Extract.MinContentLen,
		Render: render.DynamicConfig{
			WaitTimeout: cfg.Render.WaitTimeout,
			SettleDelay: cfg.Render.SettleDelay,
			ScrollPause: cfg.Render.ScrollPause,
			MaxScrolls:  cfg.Render.MaxScrolls,
		},
	}, log)
	if err != nil {
		return err
	}

	sink := output.NewJSONFileSink(cfg.OutputPathFor(platformName), log)
	if err := sink.CheckWritable(); err != nil {
		return err
	}

	orch := crawl.New(adapter, crawl.Config{
		Delay:   cfg.Crawl.Delay,
		Workers: cfg.EffectiveWorkers(),
	}, log)

	records, err := orch.Run(cmd.Context(), domain.SearchQuery{
		Keyword:     cfg.Query,
		MaxPages:    cfg.MaxPages,
		MaxArticles: cfg.MaxArticles,
	})
	if err != nil {
		return fmt.Errorf("crawl %s: %w", platformName, err)
	}

	if err := sink.Write(records); err != nil {
		return err
	}

	log.Info("run finished", "platform", platformName, "records", len(records))
	return nil
}
