package view

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
)

func TestTimeframe_Window(t *testing.T) {
	// Wednesday.
	now := time.Date(2026, 3, 18, 15, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		tf        Timeframe
		wantStart time.Time
		wantEnd   time.Time
	}

	tests := []testCase{
		{
			name:      "this week",
			tf:        TimeframeThisWeek,
			wantStart: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "last week",
			tf:        TimeframeLastWeek,
			wantStart: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "this month",
			tf:        TimeframeThisMonth,
			wantStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "last month",
			tf:        TimeframeLastMonth,
			wantStart: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "this year",
			tf:        TimeframeThisYear,
			wantStart: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ok := tt.tf.Window(now)
			require.True(t, ok)

			assert.Equal(t, tt.wantStart, w.Start)
			assert.Equal(t, FormatDate(tt.wantEnd), FormatDate(w.End))
			assert.True(t, w.Contains(tt.wantEnd.Add(23*time.Hour)))
		})
	}
}

func TestTimeframe_WindowOpenEnded(t *testing.T) {
	for _, tf := range []Timeframe{TimeframeAll, TimeframeCustom} {
		_, ok := tf.Window(time.Now())
		assert.False(t, ok, tf.String())
	}
}

func TestCustomWindow(t *testing.T) {
	now := time.Date(2026, 3, 18, 15, 0, 0, 0, time.Local)

	type testCase struct {
		name    string
		start   string
		end     string
		wantErr string
	}

	tests := []testCase{
		{name: "valid", start: "2026-01-10", end: " 2026-01-20 "},
		{name: "single day", start: "2026-01-10", end: "2026-01-10"},
		{name: "bad start", start: "10/01/2026", end: "2026-01-20", wantErr: "invalid start date"},
		{name: "bad end", start: "2026-01-10", end: "", wantErr: "invalid end date"},
		{name: "inverted", start: "2026-01-20", end: "2026-01-10", wantErr: "must not be before"},
		{name: "too long", start: "0001-01-01", end: "9999-12-31", wantErr: "at most"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := customWindow(tt.start, tt.end, now)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.start, FormatDate(w.Start))
			assert.Equal(t, strings.TrimSpace(tt.end), FormatDate(w.End))
		})
	}
}

func TestAllTime(t *testing.T) {
	now := time.Date(2026, 3, 18, 15, 0, 0, 0, time.UTC)
	txs := []ledger.Transaction{
		{Date: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)},
		{Date: time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)},
	}

	w := allTime(txs, now)

	assert.Equal(t, time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, "2026-03-18", FormatDate(w.End))
	assert.True(t, w.Contains(now))
}
