package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/safespend/internal/period"
)

// Timeframe is one of the presets offered by TimeframePicker.
type Timeframe int

const (
	TimeframeThisWeek Timeframe = iota
	TimeframeLastWeek
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeThisYear
	TimeframeAll
	TimeframeCustom
)

type preset struct {
	label   string
	resolve func(now time.Time) (period.Window, error)
}

var presets = map[Timeframe]preset{
	TimeframeThisWeek: {"This Week", func(now time.Time) (period.Window, error) {
		return period.Range(period.GranularityWeek, now, now, now)
	}},
	TimeframeLastWeek: {"Last Week", func(now time.Time) (period.Window, error) {
		return period.Range(period.GranularityWeek, now.AddDate(0, 0, -7), now, now)
	}},
	TimeframeThisMonth: {"This Month", func(now time.Time) (period.Window, error) {
		return period.Range(period.GranularityMonth, now, now, now)
	}},
	TimeframeLastMonth: {"Last Month", func(now time.Time) (period.Window, error) {
		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return period.Range(period.GranularityMonth, firstOfMonth.AddDate(0, 0, -1), now, now)
	}},
	TimeframeThisYear: {"This Year", func(now time.Time) (period.Window, error) {
		jan1 := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return period.Range(period.GranularityCustom, now, jan1, jan1.AddDate(1, 0, -1))
	}},
	TimeframeAll:    {label: "All Time"},
	TimeframeCustom: {label: "Custom Range"},
}

func (t Timeframe) String() string {
	if p, ok := presets[t]; ok {
		return p.label
	}

	return "Unknown"
}

// Window resolves t relative to now. All and Custom have no fixed window.
func (t Timeframe) Window(now time.Time) (period.Window, bool) {
	p, ok := presets[t]
	if !ok || p.resolve == nil {
		return period.Window{}, false
	}

	w, err := p.resolve(now)

	return w, err == nil
}

// TimeframeSelectedMsg is emitted once a range is chosen. Window is zero when All is true.
type TimeframeSelectedMsg struct {
	Window period.Window
	All    bool
}

func selected(w period.Window, all bool) tea.Cmd {
	return func() tea.Msg { return TimeframeSelectedMsg{Window: w, All: all} }
}

// TimeframePicker lists the presets from first onwards. Picking Custom opens a
// start/end form.
type TimeframePicker struct {
	first  Timeframe
	cursor Timeframe
	custom *huh.Form
	err    error
}

func NewTimeframePicker(first Timeframe) TimeframePicker {
	return TimeframePicker{first: first, cursor: first}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if m.custom != nil {
		return m.updateCustom(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		m.cursor = max(m.first, m.cursor-1)
	case "down", "j":
		m.cursor = min(TimeframeCustom, m.cursor+1)
	case "enter":
		switch m.cursor {
		case TimeframeCustom:
			m.custom = customRangeForm()
			return m, m.custom.Init()
		case TimeframeAll:
			return m, selected(period.Window{}, true)
		}

		if w, ok := m.cursor.Window(time.Now()); ok {
			return m, selected(w, false)
		}
	}

	return m, nil
}

func (m TimeframePicker) updateCustom(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.custom = nil
		m.err = nil

		return m, nil
	}

	form, cmd := m.custom.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.custom = f
	}

	if m.custom.State != huh.StateCompleted {
		return m, cmd
	}

	w, err := customWindow(m.custom.GetString("start"), m.custom.GetString("end"), time.Now())
	if err != nil {
		m.err = err
		m.custom = customRangeForm()

		return m, m.custom.Init()
	}

	m.custom = nil
	m.err = nil

	return m, selected(w, false)
}

func customRangeForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("start").Title("Start Date").Placeholder(time.DateOnly).Validate(validDate),
			huh.NewInput().Key("end").Title("End Date").Placeholder(time.DateOnly).Validate(validDate),
		),
	).WithWidth(40).WithShowHelp(false)
}

func validDate(s string) error {
	if _, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), time.Local); err != nil {
		return errors.New("use YYYY-MM-DD")
	}

	return nil
}

// customWindow spans whole days from start to end. Inverted and overlong ranges are
// rejected.
func customWindow(start, end string, now time.Time) (period.Window, error) {
	from, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(start), time.Local)
	if err != nil {
		return period.Window{}, errors.New("invalid start date (YYYY-MM-DD)")
	}

	to, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(end), time.Local)
	if err != nil {
		return period.Window{}, errors.New("invalid end date (YYYY-MM-DD)")
	}

	w, err := period.Range(period.GranularityCustom, now, from, to)
	if errors.Is(err, period.ErrRangeTooLong) {
		return period.Window{}, fmt.Errorf("range may span at most %d days", period.MaxCustomDays)
	}

	if err != nil || w.Empty() {
		return period.Window{}, errors.New("end date must not be before start date")
	}

	return w, nil
}

func (m TimeframePicker) View() string {
	var sb strings.Builder

	if m.custom != nil {
		sb.WriteString("Custom Range\n\n")
		sb.WriteString(m.custom.View())
		sb.WriteString(faintStyle.Render("\n(Enter to confirm, Esc to go back)"))
	} else {
		sb.WriteString("Select Timeframe:\n\n")

		for tf := m.first; tf <= TimeframeCustom; tf++ {
			if tf == m.cursor {
				sb.WriteString(accentStyle.Render("> "+tf.String()) + "\n")
				continue
			}

			sb.WriteString("  " + tf.String() + "\n")
		}

		sb.WriteString(faintStyle.Render("\n(Enter to select, Esc to go back)"))
	}

	if m.err != nil {
		sb.WriteString("\n\n" + errorStyle.Render("Error: "+m.err.Error()))
	}

	return sb.String()
}

// IsSelecting reports whether the preset list, not the custom form, has focus.
func (m TimeframePicker) IsSelecting() bool {
	return m.custom == nil
}

func (m *TimeframePicker) Reset() {
	m.cursor = m.first
	m.custom = nil
	m.err = nil
}
