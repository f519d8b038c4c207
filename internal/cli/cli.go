package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tracefold/pkg/buildinfo"
	"github.com/matzehuels/tracefold/pkg/cache"
	"github.com/matzehuels/tracefold/pkg/config"
	"github.com/matzehuels/tracefold/pkg/errors"
	"github.com/matzehuels/tracefold/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "tracefold"

	// artifactKeyType labels render cache traffic in observability hooks.
	artifactKeyType = "artifact"
)

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

	configPath string // --config, empty for the default location
	verbose    bool   // --verbose
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// settings loads the active settings, optionally replacing the theme.
// Overrides in the settings file are dropped when a theme is forced.
func (c *CLI) settings(theme string) (config.Settings, error) {
	if theme != "" {
		return config.Theme(theme)
	}
	s, err := config.Load(c.configPath)
	if err != nil {
		return config.Settings{}, err
	}
	c.Logger.Debug("loaded settings", "theme", s.Theme)
	return s, nil
}

// openSession loads a trace or project file and selects trace n. A zero n
// keeps the selection stored in the file.
func (c *CLI) openSession(ctx context.Context, path string, n int) (*session.Session, error) {
	s, err := c.settings("")
	if err != nil {
		return nil, err
	}
	sess, err := session.Open(ctx, path, session.Options{Geometry: s.Geometry, Logger: c.Logger})
	if err != nil {
		return nil, err
	}
	for _, w := range sess.Project().Warnings {
		printWarning(os.Stderr, "%s", w)
	}
	if n != 0 {
		if err := sess.Select(n); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// =============================================================================
// Cache
// =============================================================================

// newCache opens the render cache. With noCache, or when there is no
// home directory, renders go through a disabled cache so the hooks still
// see every miss.
func newCache(noCache bool) (cache.Cache, error) {
	store := cache.Disabled()
	if !noCache {
		if dir, err := cacheDir(); err == nil {
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return nil, err
			}
			store = fc
		}
	}
	return cache.Instrumented(store, artifactKeyType), nil
}

func newKeyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/tracefold/).
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

// projectPath derives the default project file for an input file:
// model.json becomes model.gry, and a .gry input is written in place.
func projectPath(input string) string {
	if session.IsProject(input) {
		return input
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + errors.ProjectExt
}

// ErrorMessage formats err for the terminal. Coded errors print their user
// message and cause without the code; "No traces were generated." is
// printed alone.
func ErrorMessage(err error) string {
	msg := "Error: " + errors.UserMessage(err)
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Cause == nil || e.Code == errors.ErrCodeNoTraces {
		return msg
	}
	return fmt.Sprintf("%s: %v", msg, e.Cause)
}
