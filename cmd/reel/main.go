// Command reel generates short-video scripts from the terminal.
//
// Usage:
//
//	reel login --id-token TOKEN
//	reel project create --name NAME --category Fiction --frequency 3
//	reel generate --project ID --category Fiction "a snail who wants to fly"
//	reel scripts list --match "*Snail*"
//
// Settings come from ~/.reel/config.yaml (or --config / REEL_CONFIG), then
// environment variables, then flags. A .env file in the working directory
// is loaded into the environment first.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "reel: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp(os.Stdout, os.Stderr, os.Getenv)
	a.isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
	a.termWidth = func() int {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			return w
		}
		return defaultWidth
	}
	defer a.close()

	return newRootCmd(a).ExecuteContext(ctx)
}
