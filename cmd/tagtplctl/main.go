// Command tagtplctl renders or validates a tagtpl template from a search
// path, exercising cache.Cache's Get/Parse path end-to-end (SPEC_FULL.md
// §4.11).
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dpotapov/tagtpl/cache"
	"github.com/dpotapov/tagtpl/internal/config"
	"github.com/dpotapov/tagtpl/internal/logging"
	"github.com/dpotapov/tagtpl/tagtpl"
)

var (
	searchPath string
	noParse    bool
	configFile string
	debug      bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tagtplctl",
		Short: "Render and validate tagtpl templates",
	}
	root.PersistentFlags().StringVar(&searchPath, "search-path", ".", "root directory to resolve template names under")
	root.PersistentFlags().BoolVar(&noParse, "no-parse", false, "print the template name and content/page hashes instead of the rendered output (§4.6)")
	root.PersistentFlags().StringVar(&configFile, "config", "", "optional TOML config file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(newRenderCmd(), newCheckCmd())
	return root
}

func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	v := viper.New()
	v.BindPFlag("search_path", cmd.Flags().Lookup("search-path"))
	v.BindPFlag("no_parse", cmd.Flags().Lookup("no-parse"))

	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := logging.New(logging.Options{Level: level, Debug: debug})
	return cfg, logger, nil
}

func newRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render <template> [key=value ...]",
		Short: "Render a template against replacement values",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			replacements, err := parseReplacements(args[1:])
			if err != nil {
				return err
			}

			opts := []cache.Option{cache.WithLogger(logger)}
			if cfg.NoParse {
				opts = append(opts, cache.WithNoParse())
			}
			c := cache.New(cfg.SearchPath, opts...)

			out, noParseResult, err := c.Parse(args[0], replacements)
			if err != nil {
				return fmt.Errorf("render %s: %w", args[0], err)
			}
			if noParseResult != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", noParseResult.TemplateName, noParseResult.ContentHash, noParseResult.PageHash)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), out.String())
			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <template>",
		Short: "Compile a template without rendering it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			c := cache.New(cfg.SearchPath, cache.WithLogger(logger))
			if _, err := c.Get(args[0]); err != nil {
				return fmt.Errorf("%s: %s: %v", args[0], tagtpl.Kind(err), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
			return nil
		},
	}
}

// parseReplacements turns ["name=value", ...] into a replacements map. Every
// value is a plain string; callers needing structured replacements should use
// the library directly instead of the CLI.
func parseReplacements(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid replacement %q, want key=value", p)
		}
		out[k] = v
	}
	return out, nil
}
