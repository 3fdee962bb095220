package view

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/matching"
)

// ReviewModel walks the uncategorized transactions one at a time. Every
// assignment is also learned as a rule for future imports.
type ReviewModel struct {
	CommonModel
	store           *ledger.Store
	matchingService *matching.Service

	queue      []ledger.Transaction
	categories []ledger.Category
	cursor     int
	suggested  string

	reviewed   int
	totalCount int
	status     string
}

func NewReviewModel(store *ledger.Store, matchSvc *matching.Service) ReviewModel {
	var queue []ledger.Transaction

	for _, tx := range store.Transactions() {
		if tx.Category == ledger.CategoryUnknown && tx.LinkedGoalID == nil {
			queue = append(queue, tx)
		}
	}

	var categories []ledger.Category

	for _, c := range store.Categories() {
		if c.ID != ledger.CategoryUnknown {
			categories = append(categories, c)
		}
	}

	m := ReviewModel{
		store:           store,
		matchingService: matchSvc,
		queue:           queue,
		categories:      categories,
		totalCount:      len(queue),
	}
	m.prepare()

	return m
}

func (m ReviewModel) Title() string { return "Review Uncategorized" }

func (m ReviewModel) ShortHelp() string {
	return "↑/↓: category | Enter: assign | s: skip | Esc: back"
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc", "q":
		return m, Back
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.categories)-1 {
			m.cursor++
		}
	case "s":
		if len(m.queue) > 0 {
			m.queue = m.queue[1:]
			m.status = "Skipped."
			m.prepare()
		}
	case "enter":
		if len(m.queue) > 0 && len(m.categories) > 0 {
			m.assign()
		}
	}

	return m, nil
}

// prepare preselects the suggested category for the head of the queue.
func (m *ReviewModel) prepare() {
	m.suggested = ""

	if len(m.queue) == 0 {
		return
	}

	ctx, cancel := RulesCtx()
	defer cancel()

	suggested, err := m.matchingService.Suggest(ctx, m.queue[0].Title)
	if err != nil {
		slog.Warn("failed to suggest category", "title", m.queue[0].Title, "error", err)
		return
	}

	for i, c := range m.categories {
		if c.ID == suggested {
			m.cursor = i
			m.suggested = suggested
		}
	}
}

func (m *ReviewModel) assign() {
	tx := m.queue[0]
	category := m.categories[m.cursor]

	if _, err := m.store.UpdateTransaction(tx.ID, ledger.TransactionPatch{Category: &category.ID}); err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
		return
	}

	ctx, cancel := RulesCtx()
	defer cancel()

	if err := m.matchingService.Learn(ctx, tx.Title, category.ID); err != nil {
		slog.Warn("failed to learn category rule", "title", tx.Title, "error", err)
	}

	m.reviewed++
	m.queue = m.queue[1:]
	m.status = fmt.Sprintf("%s → %s", tx.Title, category.Name)
	m.prepare()
}

func (m ReviewModel) View() string {
	style := lipgloss.NewStyle().Padding(1, 2)

	if len(m.queue) == 0 {
		return style.Render(successStyle.Render(
			fmt.Sprintf("All done! %d of %d transactions categorized.", m.reviewed, m.totalCount),
		) + "\n\n(Esc to go back)")
	}

	tx := m.queue[0]
	f := Formatter(m.store)

	var sb strings.Builder

	fmt.Fprintf(&sb, "Reviewing %d of %d\n\n", m.totalCount-len(m.queue)+1, m.totalCount)

	sb.WriteString(lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s  %s\n%s", FormatDate(tx.Date), f.FormatMoney(Signed(tx)), tx.Title)))

	sb.WriteString("\n\n")

	for i, c := range m.categories {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		line := fmt.Sprintf("%s %s %s", cursor, c.Icon, c.Name)
		if c.ID == m.suggested {
			line += faintStyle.Render("  (suggested)")
		}

		if i == m.cursor {
			line = accentStyle.Render(line)
		}

		sb.WriteString(line + "\n")
	}

	if m.status != "" {
		sb.WriteString("\n" + faintStyle.Render(m.status))
	}

	return style.Render(sb.String())
}
