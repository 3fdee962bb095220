package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/safespend/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/safespend/internal/app"
	"github.com/MrJamesThe3rd/safespend/internal/config"
	"github.com/MrJamesThe3rd/safespend/internal/export"
	"github.com/MrJamesThe3rd/safespend/internal/importer"
	"github.com/MrJamesThe3rd/safespend/internal/importer/cgd"
	"github.com/MrJamesThe3rd/safespend/internal/savings"
)

const logFileName = "safespend-tui.log"

// screen is a menu entry. open builds a fresh view each time it is entered.
type screen struct {
	key   string
	label string
	open  func() view.View
}

type model struct {
	app     *app.App
	screens []screen

	active view.View
	size   tea.WindowSizeMsg
}

func initialModel(a *app.App) model {
	savingsSvc := savings.NewService(a.Store)
	importSvc := importer.NewService(a.Store, a.Rules, map[importer.Bank]importer.Importer{
		importer.BankCGD: cgd.NewParser(),
	})
	exportSvc := export.NewService(a.Store)

	return model{
		app: a,
		screens: []screen{
			{"1", "Dashboard", func() view.View { return view.NewDashboardModel(a.Store, savingsSvc) }},
			{"2", "Transactions", func() view.View { return view.NewTransactionsModel(a.Store, a.Rules) }},
			{"3", "Fixed Expenses", func() view.View { return view.NewPlannerModel(a.Store) }},
			{"4", "Savings", func() view.View { return view.NewSavingsModel(a.Store, savingsSvc) }},
			{"5", "Analytics", func() view.View { return view.NewAnalyticsModel(a.Store) }},
			{"6", "Import Transactions", func() view.View { return view.NewImportModel(a.Store, importSvc) }},
			{"7", "Review Uncategorized", func() view.View { return view.NewReviewModel(a.Store, a.Rules) }},
			{"8", "Export Transactions", func() view.View { return view.NewExportModel(a.Store, exportSvc) }},
		},
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case view.BackMsg:
		m.active = nil
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.active == nil {
			return m.updateMenu(msg)
		}
	}

	if m.active == nil {
		return m, nil
	}

	next, cmd := m.active.Update(msg)
	m.active = next.(view.View)

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		return m, tea.Quit
	}

	for _, s := range m.screens {
		if s.key != msg.String() {
			continue
		}

		m.active = s.open()
		cmds := []tea.Cmd{m.active.Init()}

		if m.size.Width > 0 {
			size := m.size
			cmds = append(cmds, func() tea.Msg { return size })
		}

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m model) View() string {
	if m.active != nil {
		return view.Frame(m.active)
	}

	sync := "local only"
	if m.app.SyncEnabled() {
		sync = "syncing"
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "SafeSpend (%s)\n\n", sync)

	for _, s := range m.screens {
		fmt.Fprintf(&sb, "%s. %s\n", s.key, s.label)
	}

	sb.WriteString("\nq. Quit")

	return lipgloss.NewStyle().Padding(2).Render(sb.String())
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "failed to load .env:", err)
	}

	// The terminal belongs to the UI, so logs go to a file.
	logFile, err := tea.LogToFile(logFileName, "")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to open log file:", err)
		os.Exit(1)
	}
	defer logFile.Close()

	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, nil)))

	if err := run(); err != nil {
		slog.Error("tui exited with error", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("starting app: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	_, runErr := tea.NewProgram(initialModel(a), tea.WithAltScreen()).Run()

	cancel()

	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("background workers failed", "error", err)
	}

	if err := a.Close(); err != nil {
		slog.Error("failed to close app", "error", err)
	}

	return runErr
}
