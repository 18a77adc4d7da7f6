// Package main is the naafe command-line client for the services marketplace.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Ahmed01061/Naafe/internal/api"
	"github.com/Ahmed01061/Naafe/internal/config"
	"github.com/Ahmed01061/Naafe/internal/notify"
	"github.com/Ahmed01061/Naafe/internal/obs"
)

var version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "naafe",
	Short: "Naafe marketplace client",
	Long: `naafe talks to the Naafe services marketplace.

Configuration is read from the environment and an optional .env file
(NAAFE_API_URL, NAAFE_SOCKET_URL, NAAFE_ACCESS_TOKEN, IMGBB_API_KEY, ...).

Examples:
  naafe providers                      # Featured providers
  naafe ads plans                      # Advertising plans and prices
  naafe ads purchase --plan featured --duration weekly --title "..." --description "..."
  naafe chat 65f0c2...                 # Open a conversation`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(adsCmd)
	rootCmd.AddCommand(chatCmd)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// app holds what every command needs.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	client *api.Client
	toasts *notify.Recorder
	notify notify.Notifier
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}
	log := obs.NewLogger(cfg)

	rec := &notify.Recorder{}
	return &app{
		cfg: cfg,
		log: log,
		client: api.NewClient(api.Config{
			BaseURL: cfg.APIURL,
			Token:   cfg.AccessToken,
			Timeout: cfg.HTTPTimeout,
		}, log),
		toasts: rec,
		notify: notify.Multi{rec, notify.NewLogNotifier(log)},
	}, nil
}

// flushToasts prints and clears pending toasts.
func (a *app) flushToasts(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	for _, t := range a.toasts.Drain() {
		mark := "✓"
		switch t.Level {
		case notify.LevelError:
			mark = "✗"
		case notify.LevelWarning:
			mark = "!"
		}
		if t.Title != "" {
			fmt.Fprintf(out, "%s %s: %s\n", mark, t.Title, t.Message)
		} else {
			fmt.Fprintf(out, "%s %s\n", mark, t.Message)
		}
	}
}
