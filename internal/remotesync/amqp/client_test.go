package amqp

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/month"
	"github.com/MrJamesThe3rd/safespend/internal/remotesync"
)

func TestEncodeDecode(t *testing.T) {
	e := ledger.FixedExpense{ID: uuid.New(), Name: "Rent", Amount: 700, Day: 3}
	e.History.Set(month.New(2024, time.May), ledger.StatusPaid)
	e.PaidDates.Set(month.New(2024, time.May), time.Date(2024, time.May, 3, 10, 0, 0, 0, time.UTC))

	userID := uuid.New()
	m := remotesync.Mutation{
		Op:           ledger.OpUpsert,
		Entity:       ledger.EntityFixedExpense,
		ID:           e.ID.String(),
		UserID:       userID,
		At:           time.Date(2024, time.May, 3, 10, 0, 0, 0, time.UTC),
		FixedExpense: new(remotesync.FixedExpenseToRow(e, userID)),
	}

	body, err := Encode(m)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"paid_dates":{"2024-05":`)

	got, err := Decode(body)
	require.NoError(t, err)
	require.NotNil(t, got.FixedExpense)
	assert.Equal(t, ledger.StatusPaid, got.FixedExpense.FixedExpense().StatusFor(month.New(2024, time.May)))
	assert.Equal(t, m.UserID, got.UserID)
	assert.True(t, m.At.Equal(got.At))
}

func TestDecode_Invalid(t *testing.T) {
	type testCase struct {
		name string
		body string
	}

	tests := []testCase{
		{name: "NotJSON", body: `nope`},
		{name: "MissingEntity", body: `{"op":"upsert"}`},
		{name: "MissingOp", body: `{"entity":"transactions"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.body))
			require.Error(t, err)
		})
	}
}
