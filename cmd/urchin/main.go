// Package main is the entry point for the Urchin viewer shell.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urchin-editor/urchin/internal/runtimeinfo"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()
	info := runtimeinfo.Detect(version)

	app, err := newApp(opts, info)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer app.Shutdown()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		app.Quit()
	}()

	if err := app.Run(); err != nil {
		if errors.Is(err, errQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to settings file")
	flag.StringVar(&opts.configPath, "c", "", "Path to settings file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.pluginDir, "plugins", "", "Directory of Lua plugin scripts")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Urchin - terminal file viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: urchin [options] files...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys: arrows/pgup/pgdn scroll, tab switches files, ctrl+s saves, q quits\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Urchin %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.logLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(1)
	}

	opts.files = flag.Args()
	if opts.configPath == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			opts.configPath = filepath.Join(dir, "urchin", "settings.json")
		}
	}
	return opts
}
