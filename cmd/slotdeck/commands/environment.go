// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/slotdeck/cmd/slotdeck/cli"
	"github.com/bureau-foundation/slotdeck/lib/config"
	"github.com/bureau-foundation/slotdeck/lib/logging"
	"github.com/bureau-foundation/slotdeck/lib/session"
	"github.com/bureau-foundation/slotdeck/lib/slotapi"
	"github.com/bureau-foundation/slotdeck/lib/snapcache"
	"github.com/bureau-foundation/slotdeck/lib/version"
)

// envFile is loaded from the working directory when present.
const envFile = ".env"

// globalOptions are the flags every command accepts.
type globalOptions struct {
	configPath  string
	apiURL      string
	sessionFile string
	logOutput   string
	color       string
}

// flagSet returns a flag set for the named command with the global
// flags registered.
func (options *globalOptions) flagSet(name string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.StringVar(&options.configPath, "config", "", "configuration file, YAML or JSONC (default $SLOTDECK_CONFIG)")
	flagSet.StringVar(&options.apiURL, "api-url", "", "backend root URL (overrides the config file and $SLOTDECK_API_URL)")
	flagSet.StringVar(&options.sessionFile, "session-file", "", "session file (default $SLOTDECK_SESSION_FILE or ~/.config/slotdeck/session.json)")
	flagSet.StringVar(&options.logOutput, "log-output", "", "also write JSON log records to this file")
	flagSet.StringVar(&options.color, "color", "auto", "color output: auto, always, or never")
	return flagSet
}

// environment is what a command runs against.
type environment struct {
	streams Streams
	config  *config.Config
	store   *session.Store
	cache   *snapcache.Cache
	logger  *slog.Logger

	// fileHandler is the --log-output handler, or nil.
	fileHandler slog.Handler
	closers     []io.Closer
}

// open resolves the environment from the global flags. The caller
// must close it.
func (options *globalOptions) open(streams Streams) (*environment, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, cli.Validation("loading %s: %w", envFile, err)
	}

	cfg, err := config.Resolve(options.configPath)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	if options.apiURL != "" {
		cfg.APIURL = options.apiURL
	}
	if options.sessionFile != "" {
		cfg.SessionFile = options.sessionFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration: %w", err)
	}
	if err := applyColor(options.color); err != nil {
		return nil, err
	}

	env := &environment{
		streams: streams,
		config:  cfg,
		store:   session.NewStore(session.FilePath(cfg.SessionFile)),
		logger:  logging.NewCommandLogger(slog.LevelWarn),
	}
	if cfg.CacheDir != "" {
		env.cache = snapcache.New(cfg.CacheDir)
	}
	if options.logOutput != "" {
		handler, closer, err := logging.OpenFile(options.logOutput, slog.LevelDebug)
		if err != nil {
			return nil, cli.Validation("cannot open log file %s: %w", options.logOutput, err)
		}
		env.fileHandler = handler
		env.closers = append(env.closers, closer)
		env.logger = slog.New(logging.Fanout(env.logger.Handler(), handler))
	}
	return env, nil
}

func (env *environment) close() {
	for _, closer := range env.closers {
		closer.Close()
	}
}

// newGuard returns a session guard logging to logger that prints a
// hint on redirects and purges the snapshot cache when the session
// ends.
func (env *environment) newGuard(logger *slog.Logger) *session.Guard {
	guard := session.NewGuard(env.store, env.printRedirect, logger)
	if env.cache != nil {
		cache := env.cache
		guard.OnClear(func() {
			if err := cache.Purge(); err != nil {
				logger.Warn("purging snapshot cache", "error", err)
			}
		})
	}
	return guard
}

func (env *environment) printRedirect(destination session.Destination) {
	switch destination {
	case session.EntryPoint:
		fmt.Fprintln(env.streams.Stderr, "Not logged in. Run `slotdeck login` to sign in.")
	case session.Dashboard:
		fmt.Fprintln(env.streams.Stderr, "Already logged in. Run `slotdeck` to open the dashboard or `slotdeck logout` to sign out.")
	}
}

// backendURL is the configured backend, or the one the session was
// issued by when nothing but the default is configured.
func (env *environment) backendURL(current *session.Session) string {
	if env.config.APIURL == config.DefaultAPIURL && current != nil && current.APIURL != "" {
		return current.APIURL
	}
	return env.config.APIURL
}

// newClient creates a backend client for baseURL.
func (env *environment) newClient(baseURL string, token func() string, onUnauthorized func(), logger *slog.Logger) (*slotapi.Client, error) {
	client, err := slotapi.New(slotapi.Config{
		BaseURL:        baseURL,
		Timeout:        env.config.RequestTimeout.Std(),
		Token:          token,
		OnUnauthorized: onUnauthorized,
		UserAgent:      version.Current().UserAgent("slotdeck"),
		Logger:         logger,
	})
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	return client, nil
}

// applyColor forces the lipgloss color profile for --color.
func applyColor(mode string) error {
	switch mode {
	case "", "auto":
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	default:
		return cli.Validation("--color must be auto, always, or never, got %q", mode)
	}
	return nil
}

// backendError converts a backend failure into a command error.
func backendError(action string, err error) error {
	switch {
	case slotapi.IsApplication(err):
		return cli.Validation("%s: %s", action, slotapi.Message(err))
	case slotapi.IsTransient(err):
		return cli.Transient("%s: cannot reach the backend: %w", action, err)
	default:
		return cli.Internal("%s: %w", action, err)
	}
}
