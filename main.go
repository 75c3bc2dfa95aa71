package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"autoclicker/infrastructure/config"
	"autoclicker/infrastructure/storage"
	"autoclicker/presentation/terminal"

	"github.com/alecthomas/kong"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"autoclicker.yaml"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Run struct {
		URL      string `arg:"" optional:"" help:"Page to open"`
		Headless bool   `help:"Run the browser without a window"`
		Browser  string `short:"b" help:"Browser engine (chromium, firefox, webkit)"`
		Metrics  string `help:"Address to serve Prometheus metrics on"`
	} `cmd:"" default:"withargs" help:"Open a page and start the clicker UI"`

	Settings struct{} `cmd:"" help:"Print persisted settings"`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("autoclicker"),
		kong.Description("Record points on a web page and click them on a timer."),
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if CLI.Verbose {
		cfg.LogLevel = "debug"
	}

	switch kctx.Command() {
	case "settings":
		err = printSettings(cfg)
	default:
		applyRunFlags(cfg)
		err = run(cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func applyRunFlags(cfg *config.Config) {
	if CLI.Run.URL != "" {
		cfg.StartURL = CLI.Run.URL
	}
	if CLI.Run.Headless {
		cfg.Headless = true
	}
	if CLI.Run.Browser != "" {
		cfg.Browser = CLI.Run.Browser
	}
	if CLI.Run.Metrics != "" {
		cfg.MetricsAddr = CLI.Run.Metrics
	}
}

func run(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	termInterface, err := terminal.NewTerminalInterface(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer termInterface.Close()

	return termInterface.Run(ctx)
}

func printSettings(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	store, err := storage.Open(cfg.Storage, cfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	snap, err := store.Snapshot(context.Background())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
