package remotesync_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/month"
	"github.com/MrJamesThe3rd/safespend/internal/remotesync"
)

func populated(t *testing.T) *ledger.Store {
	t.Helper()

	store := ledger.New(ledger.NewDocument())

	e, err := store.AddFixedExpense(ledger.FixedExpenseParams{Name: "Rent", Amount: 900, Day: 1})
	require.NoError(t, err)

	key := month.New(2024, time.April)
	_, err = store.MarkFixedExpensePaid(e.ID, key, time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	_, err = store.AddTransaction(ledger.TransactionParams{
		Amount:               900,
		Type:                 ledger.TypeExpense,
		Category:             ledger.CategoryUtilities,
		Title:                "Rent",
		Date:                 time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC),
		Note:                 "april",
		LinkedFixedExpenseID: &e.ID,
		PaymentMonth:         &key,
	})
	require.NoError(t, err)

	g, err := store.AddSavingsGoal(ledger.SavingsGoalParams{Name: "Bike", TargetAmount: 700, Deadline: new(time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC))})
	require.NoError(t, err)

	require.NoError(t, store.SetManualSavingsPool(300))

	_, err = store.MoveSavings(g.ID, func(ledger.SavingsGoal, []ledger.SavingsGoal, int64) (int64, ledger.Transaction, error) {
		return 100, ledger.Transaction{Amount: 100, Type: ledger.TypeExpense, Category: ledger.CategorySavings, Title: "Savings: Bike", Date: time.Date(2024, time.April, 2, 9, 0, 0, 0, time.UTC)}, nil
	})
	require.NoError(t, err)

	_, err = store.UpdateSettings(ledger.SettingsPatch{Currency: new("EUR"), UserName: new("Ana")})
	require.NoError(t, err)

	return store
}

func TestRows_RoundTripIsLossless(t *testing.T) {
	doc := populated(t).Snapshot()
	userID := uuid.New()

	rows := remotesync.RowsFromDocument(doc, userID)
	for _, r := range rows.Transactions {
		assert.Equal(t, userID, r.UserID)
	}

	got, err := rows.Document()
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestRows_SnakeCaseJSON(t *testing.T) {
	doc := populated(t).Snapshot()
	rows := remotesync.RowsFromDocument(doc, uuid.New())

	raw, err := json.Marshal(rows.Transactions[0])
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	for _, key := range []string{"user_id", "linked_fixed_expense_id", "payment_month", "linked_goal_id"} {
		assert.Contains(t, fields, key)
	}

	assert.Equal(t, "2024-04", fields["payment_month"])

	raw, err = json.Marshal(rows.Settings)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"manual_savings_pool":300`)
	assert.Contains(t, string(raw), `"user_name":"Ana"`)
}

func TestResolve(t *testing.T) {
	store := populated(t)
	doc := store.Snapshot()
	userID := uuid.New()

	type testCase struct {
		name   string
		change ledger.Change
		wantOK bool
		check  func(t *testing.T, m remotesync.Mutation)
	}

	tests := []testCase{
		{
			name:   "TransactionUpsert",
			change: ledger.Change{Op: ledger.OpUpsert, Entity: ledger.EntityTransaction, ID: doc.Transactions[0].ID.String()},
			wantOK: true,
			check: func(t *testing.T, m remotesync.Mutation) {
				require.NotNil(t, m.Transaction)
				assert.Equal(t, doc.Transactions[0].ID, m.Transaction.ID)
			},
		},
		{
			name:   "SavingsTransactionUpsert",
			change: ledger.Change{Op: ledger.OpUpsert, Entity: ledger.EntitySavingsTransaction, ID: doc.SavingsTransactions[0].ID.String()},
			wantOK: true,
			check: func(t *testing.T, m remotesync.Mutation) {
				require.NotNil(t, m.Transaction)
				assert.NotNil(t, m.Transaction.LinkedGoalID)
			},
		},
		{
			name:   "SettingsUpsert",
			change: ledger.Change{Op: ledger.OpUpsert, Entity: ledger.EntitySettings},
			wantOK: true,
			check: func(t *testing.T, m remotesync.Mutation) {
				require.NotNil(t, m.Settings)
				assert.Equal(t, int64(300), m.Settings.ManualSavingsPool)
			},
		},
		{
			name:   "CategoryUpsert",
			change: ledger.Change{Op: ledger.OpUpsert, Entity: ledger.EntityCategory, ID: "food"},
			wantOK: true,
			check: func(t *testing.T, m remotesync.Mutation) {
				require.NotNil(t, m.Category)
				assert.Equal(t, "Comida", m.Category.Name)
			},
		},
		{
			name:   "UpsertOfVanishedRecord",
			change: ledger.Change{Op: ledger.OpUpsert, Entity: ledger.EntitySavingsGoal, ID: uuid.NewString()},
			wantOK: false,
		},
		{
			name:   "Delete",
			change: ledger.Change{Op: ledger.OpDelete, Entity: ledger.EntityFixedExpense, ID: "x"},
			wantOK: true,
			check: func(t *testing.T, m remotesync.Mutation) {
				assert.Equal(t, ledger.OpDelete, m.Op)
				assert.Nil(t, m.FixedExpense)
				assert.Equal(t, userID, m.UserID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := remotesync.Resolve(doc, tt.change, userID)
			require.Equal(t, tt.wantOK, ok)

			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestSyncer_PushesChanges(t *testing.T) {
	ctrl := gomock.NewController(t)

	store := ledger.New(ledger.NewDocument())
	pusher := remotesync.NewMockPusher(ctrl)
	userID := uuid.New()

	s := remotesync.New(store, pusher, userID, remotesync.Options{})
	store.Subscribe(s)

	done := make(chan remotesync.Mutation, 1)

	pusher.EXPECT().
		Apply(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m remotesync.Mutation) error {
			done <- m
			return nil
		})

	tx, err := store.AddTransaction(ledger.TransactionParams{Amount: 10, Type: ledger.TypeIncome, Date: time.Now()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = s.Run(ctx) }()

	select {
	case m := <-done:
		assert.Equal(t, ledger.EntityTransaction, m.Entity)
		assert.Equal(t, userID, m.UserID)
		require.NotNil(t, m.Transaction)
		assert.Equal(t, tx.ID, m.Transaction.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("change was not pushed")
	}
}

func TestSyncer_RetriesFailedPush(t *testing.T) {
	ctrl := gomock.NewController(t)

	store := ledger.New(ledger.NewDocument())
	pusher := remotesync.NewMockPusher(ctrl)

	s := remotesync.New(store, pusher, uuid.New(), remotesync.Options{BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond})
	store.Subscribe(s)

	done := make(chan struct{})

	gomock.InOrder(
		pusher.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(errors.New("connection refused")),
		pusher.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(errors.New("connection refused")),
		pusher.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, remotesync.Mutation) error {
			close(done)
			return nil
		}),
	)

	require.NoError(t, store.SetManualSavingsPool(50))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = s.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("push was not retried")
	}
}

func TestSyncer_DropsWhenQueueFull(t *testing.T) {
	ctrl := gomock.NewController(t)

	s := remotesync.New(remotesync.NewMockSource(ctrl), remotesync.NewMockPusher(ctrl), uuid.New(), remotesync.Options{QueueSize: 1})

	s.OnChange(ledger.Change{Op: ledger.OpUpsert, Entity: ledger.EntitySettings})
	s.OnChange(ledger.Change{Op: ledger.OpUpsert, Entity: ledger.EntitySettings})

	assert.Equal(t, 1, s.Pending())
}

func TestHydrate(t *testing.T) {
	ctrl := gomock.NewController(t)

	userID := uuid.New()
	doc := populated(t).Snapshot()

	puller := remotesync.NewMockPuller(ctrl)
	puller.EXPECT().Pull(gomock.Any(), userID).Return(remotesync.RowsFromDocument(doc, userID), nil)

	restorer := remotesync.NewMockRestorer(ctrl)
	restorer.EXPECT().Restore(doc)

	require.NoError(t, remotesync.Hydrate(context.Background(), puller, userID, restorer))
}

func TestHydrate_PullError(t *testing.T) {
	ctrl := gomock.NewController(t)

	puller := remotesync.NewMockPuller(ctrl)
	puller.EXPECT().Pull(gomock.Any(), gomock.Any()).Return(remotesync.Rows{}, errors.New("boom"))

	err := remotesync.Hydrate(context.Background(), puller, uuid.New(), remotesync.NewMockRestorer(ctrl))
	require.Error(t, err)
}
