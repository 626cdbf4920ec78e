// Package cli implements the streamstack command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/streamstack/pkg/buildinfo"
	"github.com/matzehuels/streamstack/pkg/cache"
	"github.com/matzehuels/streamstack/pkg/config"
	"github.com/matzehuels/streamstack/pkg/pipeline"
	"github.com/matzehuels/streamstack/pkg/series"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "streamstack"

// keysDefault is the --keys value that selects series.DefaultKeys.
const keysDefault = "default"

// cacheKeyPrefix namespaces streamstack keys in shared backends.
const cacheKeyPrefix = appName + ":"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     config.Config
}

// New creates a new CLI instance with a logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Streamstack lays out time series as streamgraphs and stacked charts",
		Long: `Streamstack renders a set of time series as a streamgraph, a stacked-area
chart or an overlapping-area chart, and animates between the three.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/streamstack/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the file named by --config, or the default file if it
// exists.
func (c *CLI) loadConfig() error {
	var (
		cfg  config.Config
		path = c.configPath
		err  error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, path, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}
	c.configPath = path
	c.config = cfg
	c.Logger.Debug("loaded config", "path", path)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, cacheKeyPrefix), c.Logger), nil
}

// newCache opens the configured cache backend. The file cache is the
// default; an unusable cache directory disables caching instead of failing.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cc := c.config.Cache
	if noCache || cc.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}

	switch cc.Backend {
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cc.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		return rc, nil
	case config.BackendMongo:
		db := cc.MongoDatabase
		if db == "" {
			db = config.DefaultMongoDatabase
		}
		mc, err := cache.NewMongoCache(ctx, cc.MongoURI, db)
		if err != nil {
			return nil, fmt.Errorf("open mongo cache: %w", err)
		}
		return mc, nil
	}

	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("caching disabled", "dir", dir, "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.config.Cache.Dir != "" {
		return c.config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/streamstack/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseList splits a comma-separated flag value, dropping empty entries.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// expandKeys replaces the "default" entry of a --keys value with
// series.DefaultKeys.
func expandKeys(keys []string) []string {
	var out []string
	for _, k := range keys {
		if k == keysDefault {
			out = append(out, series.DefaultKeys...)
			continue
		}
		out = append(out, k)
	}
	return out
}

// dataFlags are the flags shared by every command that loads a dataset.
type dataFlags struct {
	keys       []string
	dateLayout string
}

func (f *dataFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.keys, "keys", nil, `series to keep (comma-separated; "default" for the built-in list; all if unset)`)
	cmd.Flags().StringVar(&f.dateLayout, "date-layout", "", "Go time layout of input dates (default 01/02/2006)")
}

func (f *dataFlags) apply(opts *pipeline.Options) {
	opts.Keys = expandKeys(f.keys)
	opts.DateLayout = f.dateLayout
}
