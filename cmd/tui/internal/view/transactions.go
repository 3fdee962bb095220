package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/safespend/internal/analytics"
	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/matching"
	"github.com/MrJamesThe3rd/safespend/internal/money"
	"github.com/MrJamesThe3rd/safespend/internal/period"
)

type txMode int

const (
	txPickRange txMode = iota
	txBrowse
	txEdit
	txDelete
)

// txRow is a transaction as shown in the list.
type txRow struct {
	tx       ledger.Transaction
	amount   string
	category string
}

func (r txRow) Title() string {
	return fmt.Sprintf("%s  %12s  %s", FormatDate(r.tx.Date), r.amount, r.tx.Title)
}

func (r txRow) Description() string {
	if r.tx.Note == "" {
		return r.category
	}

	return r.category + " · " + r.tx.Note
}

func (r txRow) FilterValue() string { return r.tx.Title + " " + r.category }

// txFields backs the add/edit form. It lives on the heap so the form's bindings
// survive the model being copied between updates.
type txFields struct {
	title    string
	amount   string
	typ      ledger.Type
	category string
	date     string
	note     string
}

func newTxFields(tx *ledger.Transaction, f *money.Formatter) *txFields {
	if tx == nil {
		return &txFields{typ: ledger.TypeExpense, category: ledger.CategoryUnknown, date: FormatDate(time.Now())}
	}

	return &txFields{
		title:    tx.Title,
		amount:   f.FormatNumber(tx.Amount),
		typ:      tx.Type,
		category: tx.Category,
		date:     FormatDate(tx.Date),
		note:     tx.Note,
	}
}

// TransactionsModel lists the transactions of a chosen range and edits them.
type TransactionsModel struct {
	CommonModel
	store *ledger.Store
	rules *matching.Service

	mode   txMode
	picker TimeframePicker
	list   list.Model

	window  period.Window
	allTime bool

	target *ledger.Transaction
	fields *txFields
	form   *huh.Form

	status string
}

func NewTransactionsModel(store *ledger.Store, rules *matching.Service) TransactionsModel {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(lipgloss.Color("205")).BorderForeground(lipgloss.Color("205"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(lipgloss.Color("240")).BorderForeground(lipgloss.Color("205"))

	l := list.New(nil, delegate, 0, 0)
	l.SetShowHelp(false)

	return TransactionsModel{
		store:  store,
		rules:  rules,
		picker: NewTimeframePicker(TimeframeThisWeek),
		list:   l,
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.mode {
	case txBrowse:
		return "Enter: edit | a: add | d: delete | /: filter | Esc: back"
	case txEdit:
		return "Tab/Enter: next field | Esc: cancel"
	case txDelete:
		return "y: delete | n/Esc: keep"
	}

	return "Enter: select | Esc: back"
}

func (m TransactionsModel) Init() tea.Cmd {
	return nil
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.window, m.allTime = msg.Window, msg.All
		m.mode = txBrowse
		m.reload()

		return m, nil
	case saveTxResultMsg:
		m.mode = txBrowse
		m.form, m.fields = nil, nil
		m.status = "Saved."

		if msg.err != nil {
			m.status = "Error saving: " + msg.err.Error()
		}

		m.reload()

		return m, nil
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)

		return m, nil
	}

	switch m.mode {
	case txPickRange:
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc && m.picker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd
	case txBrowse:
		return m.browse(msg)
	case txEdit:
		return m.edit(msg)
	case txDelete:
		return m.confirmDelete(msg)
	}

	return m, nil
}

func (m TransactionsModel) browse(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if ok && m.list.FilterState() != list.Filtering {
		row, hasRow := m.list.SelectedItem().(txRow)

		switch key.String() {
		case "esc":
			return m, Back
		case "a":
			return m.openForm(nil)
		case "enter":
			if hasRow {
				return m.openForm(&row.tx)
			}

			return m, nil
		case "d":
			if hasRow {
				m.target = &row.tx
				m.mode = txDelete
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

// openForm edits tx, or adds a new transaction when tx is nil.
func (m TransactionsModel) openForm(tx *ledger.Transaction) (tea.Model, tea.Cmd) {
	m.target = tx
	m.fields = newTxFields(tx, Formatter(m.store))
	m.form = m.buildForm(m.fields)
	m.mode = txEdit

	return m, m.form.Init()
}

func (m TransactionsModel) buildForm(fields *txFields) *huh.Form {
	var options []huh.Option[string]
	for _, c := range m.store.Categories() {
		options = append(options, huh.NewOption(c.Icon+" "+c.Name, c.ID))
	}

	rules, store := m.rules, m.store

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("title").Title("Title").Value(&fields.title).Validate(required("title")),
			huh.NewInput().Key("amount").Title("Amount").Value(&fields.amount).Validate(positiveAmount),
			huh.NewSelect[ledger.Type]().Key("type").Title("Type").
				Options(huh.NewOption("Expense", ledger.TypeExpense), huh.NewOption("Income", ledger.TypeIncome)).
				Value(&fields.typ),
			huh.NewInput().Key("date").Title("Date").Placeholder(time.DateOnly).Value(&fields.date).Validate(validDate),
			huh.NewInput().Key("note").Title("Note (optional)").Value(&fields.note),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Key("category").Title("Category").
				DescriptionFunc(func() string { return suggestionFor(rules, store, fields.title) }, &fields.title).
				Options(options...).
				Value(&fields.category),
		),
	).WithWidth(50).WithShowHelp(false)
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}

		return nil
	}
}

func positiveAmount(s string) error {
	if money.ParseFormattedNumber(s) <= 0 {
		return ledger.ErrInvalidAmount
	}

	return nil
}

// suggestionFor describes the category the learned rules would pick for title.
func suggestionFor(rules *matching.Service, store *ledger.Store, title string) string {
	ctx, cancel := RulesCtx()
	defer cancel()

	category, err := rules.Suggest(ctx, title)
	if err != nil || category == "" {
		return ""
	}

	if name, ok := categoryNames(store)[category]; ok {
		return "Suggested: " + name
	}

	return ""
}

func (m TransactionsModel) edit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.mode = txBrowse
		m.form, m.fields = nil, nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, saveTx(m.store, m.target, *m.fields)
}

func (m TransactionsModel) confirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "y":
		m.status = "Deleted."
		if err := m.store.DeleteTransaction(m.target.ID); err != nil {
			m.status = "Error deleting: " + err.Error()
		}

		m.reload()
	case "n", "esc":
	default:
		return m, nil
	}

	m.mode = txBrowse
	m.target = nil

	return m, nil
}

func (m TransactionsModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch m.mode {
	case txPickRange:
		return pad.Render(m.picker.View())
	case txBrowse:
		status := ""
		if m.status != "" {
			status = faintStyle.Render(m.status) + "\n"
		}

		return pad.Render(status + m.list.View())
	case txEdit:
		return pad.Render(m.targetCard() + "\n" + m.form.View())
	case txDelete:
		return pad.Render(m.targetCard() + "\n\nDelete this transaction? (y/n)")
	}

	return ""
}

func (m TransactionsModel) targetCard() string {
	body := "New Transaction"
	if tx := m.target; tx != nil {
		body = fmt.Sprintf("%s  |  %s  |  %s\n%s",
			FormatDate(tx.Date), tx.Type, Formatter(m.store).FormatMoney(Signed(*tx)), tx.Title)
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(body)
}

// reload refreshes the list from the store and sums the visible range in its title.
func (m *TransactionsModel) reload() {
	txs := m.store.Transactions()
	if !m.allTime {
		txs = period.Filter(txs, m.window)
	}

	f := Formatter(m.store)
	names := categoryNames(m.store)

	items := make([]list.Item, len(txs))
	for i, tx := range txs {
		category := names[tx.Category]
		if category == "" {
			category = tx.Category
		}

		items[i] = txRow{tx: tx, amount: f.FormatMoney(Signed(tx)), category: category}
	}

	m.list.SetItems(items)

	income, expense := analytics.Totals(txs)
	m.list.Title = fmt.Sprintf("%d transactions  +%s  -%s", len(txs), f.FormatMoney(income), f.FormatMoney(expense))

	if len(txs) == 0 && m.status == "" {
		m.status = "No transactions found."
	}
}

type saveTxResultMsg struct {
	err error
}

func saveTx(store *ledger.Store, existing *ledger.Transaction, fields txFields) tea.Cmd {
	title := strings.TrimSpace(fields.title)
	amount := money.ParseFormattedNumber(fields.amount)

	return func() tea.Msg {
		date, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(fields.date), time.Local)
		if err != nil {
			return saveTxResultMsg{err: err}
		}

		if existing == nil {
			_, err = store.AddTransaction(ledger.TransactionParams{
				Amount:   amount,
				Type:     fields.typ,
				Category: fields.category,
				Title:    title,
				Date:     date,
				Note:     fields.note,
			})

			return saveTxResultMsg{err: err}
		}

		_, err = store.UpdateTransaction(existing.ID, ledger.TransactionPatch{
			Amount:   &amount,
			Type:     &fields.typ,
			Category: &fields.category,
			Title:    &title,
			Date:     &date,
			Note:     &fields.note,
		})
		if errors.Is(err, ledger.ErrNotFound) {
			err = fmt.Errorf("transaction was removed: %w", err)
		}

		return saveTxResultMsg{err: err}
	}
}
