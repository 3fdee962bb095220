package view

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/safespend/internal/importer"
	"github.com/MrJamesThe3rd/safespend/internal/ledger"
)

const importTimeout = 2 * time.Minute

type importStep int

const (
	importChooseBank importStep = iota
	importChooseFile
	importWorking
	importReview
	importFinished
)

// ImportModel reads a bank CSV, shows the parsed movements with their suggested
// categories and adds the checked ones to the ledger.
type ImportModel struct {
	CommonModel
	store   *ledger.Store
	service *importer.Service

	step   importStep
	bank   importer.Bank
	banks  *huh.Form
	picker filepicker.Model

	drafts  []importer.Draft
	skip    []bool
	preview table.Model

	status string
	failed bool
}

func NewImportModel(store *ledger.Store, svc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".CSV"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	m := ImportModel{
		store:   store,
		service: svc,
		picker:  fp,
	}
	m.banks = m.bankForm()

	return m
}

func (m ImportModel) bankForm() *huh.Form {
	options := make([]huh.Option[string], 0)
	for _, b := range m.service.Banks() {
		options = append(options, huh.NewOption(strings.ToUpper(string(b)), string(b)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("bank").
				Title("Bank").
				Options(options...),
		),
	).WithShowHelp(false)
}

func (m ImportModel) Title() string { return "Import Transactions" }

func (m ImportModel) ShortHelp() string {
	if m.step == importReview {
		return "Space: toggle | a: all | n: none | Enter: import | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.banks.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.back()
		}
	case previewResultMsg:
		return m.showPreview(msg)
	case commitResultMsg:
		m.step = importFinished
		m.failed = msg.err != nil

		if m.failed {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("Imported %d transactions, skipped %d duplicates.", len(msg.result.Imported), msg.result.Duplicates)
		}

		return m, nil
	}

	switch m.step {
	case importChooseBank:
		return m.updateBank(msg)
	case importChooseFile:
		return m.updateFile(msg)
	case importReview:
		return m.updateReview(msg)
	}

	return m, nil
}

// back steps out one level; from the bank choice it leaves the view.
func (m ImportModel) back() (tea.Model, tea.Cmd) {
	if m.step == importChooseBank || m.step == importWorking {
		return m, Back
	}

	m.step = importChooseBank
	m.drafts, m.skip = nil, nil
	m.status, m.failed = "", false
	m.banks = m.bankForm()

	return m, m.banks.Init()
}

func (m ImportModel) updateBank(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.banks.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.banks = f
	}

	if m.banks.State != huh.StateCompleted {
		return m, cmd
	}

	m.bank = importer.Bank(m.banks.GetString("bank"))
	m.step = importChooseFile

	return m, m.picker.Init()
}

func (m ImportModel) updateFile(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	ok, path := m.picker.DidSelectFile(msg)
	if !ok {
		return m, cmd
	}

	m.step = importWorking
	m.status = "Reading " + path + "..."

	return m, readExport(m.service, m.bank, path)
}

func (m ImportModel) showPreview(msg previewResultMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err != nil:
		m.step, m.failed = importFinished, true
		m.status = "Error: " + msg.err.Error()

		return m, nil
	case len(msg.drafts) == 0:
		m.step = importFinished
		m.status = "No transactions found in file."

		return m, nil
	}

	m.drafts = msg.drafts
	m.skip = make([]bool, len(msg.drafts))
	m.preview = table.New(
		table.WithColumns([]table.Column{
			{Title: " ", Width: 3},
			{Title: "Date", Width: 10},
			{Title: "Amount", Width: 14},
			{Title: "Description", Width: 36},
			{Title: "Category", Width: 16},
		}),
		table.WithFocused(true),
		table.WithHeight(16),
	)
	m.refreshRows()
	m.step = importReview

	return m, nil
}

func (m *ImportModel) refreshRows() {
	f := Formatter(m.store)
	names := categoryNames(m.store)

	rows := make([]table.Row, len(m.drafts))
	for i, d := range m.drafts {
		mark := "[x]"
		if m.skip[i] {
			mark = "[ ]"
		}

		category := names[d.Category]
		if category == "" {
			category = d.Category
		}

		rows[i] = table.Row{mark, FormatDate(d.Date), f.FormatMoney(draftSigned(d)), d.Title, category}
	}

	m.preview.SetRows(rows)
}

func (m ImportModel) updateReview(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case " ":
			i := m.preview.Cursor()
			m.skip[i] = !m.skip[i]
			m.refreshRows()

			return m, nil
		case "a", "n":
			for i := range m.skip {
				m.skip[i] = keyMsg.String() == "n"
			}

			m.refreshRows()

			return m, nil
		case "enter":
			m.step = importWorking
			m.status = "Importing..."

			return m, commitDrafts(m.service, m.checked())
		}
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)

	return m, cmd
}

func (m ImportModel) checked() []importer.Draft {
	var out []importer.Draft

	for i, d := range m.drafts {
		if !m.skip[i] {
			out = append(out, d)
		}
	}

	return out
}

func draftSigned(d importer.Draft) int64 {
	if d.Type == ledger.TypeExpense {
		return -d.Amount
	}

	return d.Amount
}

func (m ImportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1, 2)

	switch m.step {
	case importChooseBank:
		return pad.Render(m.banks.View())
	case importChooseFile:
		return pad.Render(fmt.Sprintf("Select a %s export:\n\n%s", strings.ToUpper(string(m.bank)), m.picker.View()))
	case importWorking:
		return pad.Render(m.status)
	case importReview:
		return pad.Render(m.previewHeader() + "\n\n" + m.preview.View())
	}

	style := successStyle
	if m.failed {
		style = errorStyle
	}

	return pad.Render(style.Render(m.status) + "\n\n(Esc to go back)")
}

func (m ImportModel) previewHeader() string {
	var income, expense int64

	count := 0

	for i, d := range m.drafts {
		if m.skip[i] {
			continue
		}

		count++

		if d.Type == ledger.TypeExpense {
			expense += d.Amount
		} else {
			income += d.Amount
		}
	}

	f := Formatter(m.store)

	return fmt.Sprintf("%d of %d selected   %s   %s",
		count, len(m.drafts),
		successStyle.Render("+"+f.FormatMoney(income)),
		errorStyle.Render("-"+f.FormatMoney(expense)))
}

type previewResultMsg struct {
	drafts []importer.Draft
	err    error
}

type commitResultMsg struct {
	result importer.Result
	err    error
}

func readExport(svc *importer.Service, bank importer.Bank, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return previewResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		drafts, err := svc.Preview(ctx, bank, f)

		return previewResultMsg{drafts: drafts, err: err}
	}
}

func commitDrafts(svc *importer.Service, drafts []importer.Draft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := svc.Commit(ctx, drafts)

		return commitResultMsg{result: result, err: err}
	}
}
