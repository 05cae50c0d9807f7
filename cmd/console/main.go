package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/baechuer/user-management/internal/client"
	"github.com/baechuer/user-management/internal/console"
	"github.com/baechuer/user-management/internal/logger"
)

type options struct {
	apiBaseURL  string
	sessionPath string
	logPath     string
}

// parseOptions resolves flags over env over defaults.
func parseOptions(args []string, getenv func(string) string) (options, error) {
	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	apiDefault := getenv("API_BASE_URL")
	if apiDefault == "" {
		apiDefault = client.DefaultBaseURL
	}

	var opts options
	fs.StringVar(&opts.apiBaseURL, "api", apiDefault, "user-management API base URL")
	fs.StringVar(&opts.sessionPath, "session", getenv("CONSOLE_SESSION_FILE"), "session file (default <config dir>/user-management/session.json)")
	fs.StringVar(&opts.logPath, "log", getenv("CONSOLE_LOG_FILE"), "write logs to this file instead of discarding them")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if opts.sessionPath == "" {
		p, err := client.DefaultSessionPath()
		if err != nil {
			return options{}, err
		}
		opts.sessionPath = p
	}
	return opts, nil
}

// openLog returns the log sink. The terminal belongs to the UI, so logs never go to stdout.
func openLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func run(args []string) error {
	_ = godotenv.Load()

	opts, err := parseOptions(args, os.Getenv)
	if err != nil {
		return err
	}

	w, closeLog, err := openLog(opts.logPath)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()
	logger.InitWithWriter(w)

	api := client.New(opts.apiBaseURL, nil, client.DefaultConfig())
	store := client.NewSessionStore(opts.sessionPath)

	logger.Logger.Info().
		Str("api", api.BaseURL()).
		Str("session", store.Path()).
		Msg("console starting")

	p := tea.NewProgram(console.New(api, store), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run console: %w", err)
	}
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "console:", err)
		os.Exit(1)
	}
}
