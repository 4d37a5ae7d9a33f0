// Package main is the entry point for the apicov dashboard TUI. It loads
// configuration, starts the service manager and runs the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/n-forsell/apicov-dashboard-tui/internal/app"
	"github.com/n-forsell/apicov-dashboard-tui/internal/config"
	"github.com/n-forsell/apicov-dashboard-tui/internal/logger"
	"github.com/n-forsell/apicov-dashboard-tui/internal/services"
	"github.com/n-forsell/apicov-dashboard-tui/internal/ui/tabs/details"
	"github.com/n-forsell/apicov-dashboard-tui/internal/ui/tabs/info"
	"github.com/n-forsell/apicov-dashboard-tui/internal/ui/tabs/overview"
	"github.com/n-forsell/apicov-dashboard-tui/internal/ui/tabs/trends"
	"github.com/n-forsell/apicov-dashboard-tui/internal/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Info("starting apicov", "base_url", cfg.APIBaseURL)

	// The manager owns the HTTP client, the snapshot cache, the filter store
	// and the date-range store shared by every tab.
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	state := model.GetState()
	tabs := []app.Tab{
		overview.New(state, svcManager),
		trends.New(state, svcManager),
		details.New(state, svcManager),
		info.New(state, cfg, svcManager),
	}
	model.SetTabs(tabs)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`apicov - API coverage dashboard TUI

Usage:
  apicov [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-4             Switch between tabs (Overview, Trends, Details, Info)
  Tab/Shift+Tab   Navigate between tabs
  [ ] { }         Adjust the date range (Overview)
  /               Search APIs by name (Details)
  u / s           Cycle usage filter, toggle sort key (Details)
  r               Refresh data
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  APICOV_API_URL         Coverage service base URL (required)
  APICOV_TIMEOUT         Request timeout (default: 30s)
  APICOV_DB_PATH         SQLite snapshot cache path
  APICOV_STATE_PATH      Persisted view-state file path
  APICOV_CACHE_MAX_AGE   Snapshot retention window (default: 720h)
  APICOV_COVERAGE_ALERT  Notify when avg coverage drops below this percent

Configuration:
  The application looks for .env files in the following locations:
  - Current directory (and its parents)
  - ~/.config/apicov/.env
  - ~/.apicov/.env`)
}
