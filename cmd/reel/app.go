package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/reel"
	"github.com/fwojciec/reel/backend"
	"github.com/fwojciec/reel/config"
	"github.com/fwojciec/reel/memory"
	"github.com/fwojciec/reel/sqlite"
	"github.com/rs/zerolog"
)

// defaultWidth is used for rendering when stdout is not a terminal.
const defaultWidth = 80

// app holds the state shared by all commands. Env is read through getenv
// and terminal checks go through function fields so tests can run every
// command in-process.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	getenv     func(string) string
	isTerminal func() bool
	termWidth  func() int

	// Persistent flags.
	configPath string
	apiURL     string
	provider   string
	verbose    bool

	cfg     *config.Config
	dir     string
	logger  zerolog.Logger
	logFile *os.File
	tokens  reel.TokenStore
	client  *backend.Client
	archive *sqlite.Store

	auth     *memory.AuthStore
	projects *memory.ProjectStore
	trends   *memory.TrendsStore
	plans    *memory.PlanStore
}

func newApp(stdout, stderr io.Writer, getenv func(string) string) *app {
	return &app{
		stdout:     stdout,
		stderr:     stderr,
		getenv:     getenv,
		isTerminal: func() bool { return false },
		termWidth:  func() int { return defaultWidth },
		logger:     zerolog.Nop(),
		auth:       &memory.AuthStore{},
		projects:   &memory.ProjectStore{},
		trends:     &memory.TrendsStore{},
		plans:      &memory.PlanStore{},
	}
}

// setup resolves configuration and builds the backend client. It runs
// before every command.
func (a *app) setup() error {
	path := a.configPath
	if path == "" {
		path = a.getenv("REEL_CONFIG")
	}
	if path == "" {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		path = config.Path(dir)
	}
	a.dir = filepath.Dir(path)

	cfg, err := config.Read(path, a.dir)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(a.getenv)
	if a.apiURL != "" {
		cfg.APIURL = a.apiURL
	}
	if a.provider != "" {
		cfg.Provider = a.provider
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if err := a.setupLogger(); err != nil {
		return err
	}

	a.tokens = config.NewTokenFile(config.TokensPath(a.dir))
	a.client = backend.New(a.tokens,
		backend.WithBaseURL(cfg.APIURL),
		backend.WithLogger(a.logger),
	)
	return nil
}

// setupLogger logs to the console with --verbose and to the log file
// otherwise, since the TUI owns the terminal.
func (a *app) setupLogger() error {
	if a.verbose {
		w := zerolog.ConsoleWriter{Out: a.stderr, TimeFormat: time.Kitchen}
		a.logger = zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Logger()
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(a.cfg.LogPath), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(a.cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	a.logFile = f
	a.logger = zerolog.New(f).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	return nil
}

// openArchive opens the script archive on first use.
func (a *app) openArchive() (*sqlite.Store, error) {
	if a.archive != nil {
		return a.archive, nil
	}
	if err := os.MkdirAll(filepath.Dir(a.cfg.ArchivePath), 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	s, err := sqlite.New(a.cfg.ArchivePath)
	if err != nil {
		return nil, err
	}
	a.archive = s
	return s, nil
}

func (a *app) close() {
	if a.archive != nil {
		_ = a.archive.Close()
		a.archive = nil
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}
