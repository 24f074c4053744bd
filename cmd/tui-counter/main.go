// Package main is a demo binary: a counter application exercising
// events, commands, subscriptions, and a help overlay on a real
// terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/tui/runtime"
)

var (
	tickRate  time.Duration
	frameRate time.Duration
	logFile   string
)

var rootCmd = &cobra.Command{
	Use:   "tui-counter",
	Short: "Counter demo for the tui runtime",
	Long: `tui-counter runs a small Elm-style counter application.

Keys: + and - change the counter, s starts a slow async increment,
? opens the help overlay, q quits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := runtime.DefaultConfig().
			WithTickRate(tickRate).
			WithFrameRate(frameRate)

		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()
			cfg = cfg.WithLogger(zerolog.New(f).With().Timestamp().Logger())
		}

		rt, err := runtime.NewTerminal[counterState, counterMsg](counterApp{}, cfg)
		if err != nil {
			return err
		}

		rt.Subscribe(runtime.Every(time.Second, func(time.Time) counterMsg {
			return counterMsg{kind: msgUptime}
		}))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return rt.Run(ctx)
	},
}

func init() {
	rootCmd.Flags().DurationVar(&tickRate, "tick-rate", 50*time.Millisecond, "logic tick interval")
	rootCmd.Flags().DurationVar(&frameRate, "frame-rate", 16*time.Millisecond, "render interval")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write runtime diagnostics to this file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
