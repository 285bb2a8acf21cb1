package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mmcdole/holocron/internal/browse"
	"github.com/mmcdole/holocron/internal/catalog"
	"github.com/mmcdole/holocron/internal/config"
	"github.com/mmcdole/holocron/internal/log"
	"github.com/mmcdole/holocron/internal/store"
	"github.com/mmcdole/holocron/internal/swapi"
	"github.com/mmcdole/holocron/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

var errLoadFailed = errors.New("load failed")

func main() {
	var (
		showVersion bool
		configPath  string
		clearCache  bool
		printOnly   bool
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.BoolVar(&clearCache, "clear-cache", false, "delete the offline planet cache and exit")
	flag.BoolVar(&printOnly, "print", false, "print the first page as text instead of starting the UI")
	flag.Parse()

	if showVersion {
		fmt.Printf("holocron %s\n", Version)
		return
	}

	if err := run(configPath, clearCache, printOnly); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, clearCache, printOnly bool) error {
	cfg, err := config.LoadConfigFrom(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, logFile, err := log.Open(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	} else {
		defer logFile.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting holocron", "version", Version, "server", cfg.Server.BaseURL)

	if clearCache {
		if err := config.ClearCache(cfg.Cache.Dir); err != nil {
			return err
		}
		fmt.Println("✓ Cache cleared")
		return nil
	}

	planetStore, err := store.NewPlanetStore(cfg.Cache.Dir, cfg.Server.BaseURL)
	if err != nil {
		logger.Warn("cache unavailable, using memory only", "error", err)
		planetStore, err = store.NewPlanetStore("", cfg.Server.BaseURL)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
	}
	defer planetStore.Close()

	client := swapi.NewClient(cfg.Server.BaseURL, cfg.Server.Timeout, log.Component(logger, "swapi"))
	probe := swapi.NewProbe(cfg.ProbeURL(), cfg.Probe.Timeout, log.Component(logger, "probe"))
	repo := catalog.NewRepository(client, planetStore, log.Component(logger, "catalog"),
		catalog.WithImageRange(cfg.Cache.ImageRange))

	states := browse.NewChannelObserver()
	controller := browse.NewController(repo, probe,
		browse.WithLogger(log.Component(logger, "browse")),
		browse.WithObserver(states))
	defer controller.Close()

	if printOnly || !term.IsTerminal(int(os.Stdout.Fd())) {
		timeout := cfg.Server.Timeout + cfg.Probe.Timeout
		return printFirstPage(os.Stdout, controller, states.C(), timeout)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := tui.NewModel(controller, states.C(), planetStore.Observe(ctx), tui.Options{
		ShowHelp: cfg.UI.ShowHelp,
		PageHint: cfg.UI.PageHint,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// printFirstPage waits for the first settled state and writes it as a table
func printFirstPage(w io.Writer, b tui.Browser, states <-chan browse.State, timeout time.Duration) error {
	deadline := time.After(timeout)
	s := b.State()
	for {
		switch s := s.(type) {
		case browse.Success:
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCLIMATE\tGRAVITY\tTERRAIN\tPOPULATION")
			for _, p := range s.Planets {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.Climate, p.Gravity, p.Terrain, p.Population)
			}
			if s.CanLoadMore {
				fmt.Fprintln(tw, "...\t\t\t\t")
			}
			return tw.Flush()
		case browse.Error:
			return fmt.Errorf("%w: %s", errLoadFailed, s.Message)
		}

		select {
		case s = <-states:
		case <-deadline:
			return fmt.Errorf("%w: timed out after %s", errLoadFailed, timeout)
		}
	}
}
