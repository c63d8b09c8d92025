// Package main is the entry point for the editr server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Ben-Lichtman/editr/internal/server"
)

var logLevel string

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := &cobra.Command{
		Use:   "editr <home-directory> <listen-address>",
		Short: "Collaborative plaintext editor server",
		Long:  "editr serves a shared pool of files over a framed TCP protocol, mediating concurrent reads, writes, and cursor movement for every connected client.",
		Args:  cobra.ExactArgs(2),
		RunE:  runServer,
	}
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runServer(cmd *cobra.Command, args []string) error {
	level, err := parseLogLevel(logLevel)
	if err != nil {
		return err
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	home, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	home, err = filepath.EvalSymlinks(home)
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	info, err := os.Stat(home)
	if err != nil {
		return fmt.Errorf("home directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("home directory: %s is not a directory", home)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		log.Info("shutting down")
		cancel()
	}()

	l := server.New(home, args[1], log)
	return l.Run(ctx)
}

func parseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", s)
	}
}
