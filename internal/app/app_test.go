package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/safespend/internal/auth"
	"github.com/MrJamesThe3rd/safespend/internal/config"
	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/localstore"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.DataFile = filepath.Join(t.TempDir(), "ledger.json")
	cfg.Sync.Backend = config.SyncNone

	return cfg
}

func TestApp_PersistsChanges(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.False(t, a.SyncEnabled())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- a.Run(ctx) }()

	_, err = a.Store.AddTransaction(ledger.TransactionParams{
		Amount: 25, Type: ledger.TypeExpense, Category: "food", Title: "Lunch", Date: time.Now(),
	})
	require.NoError(t, err)

	cancel()
	require.NoError(t, <-done)

	doc, err := localstore.New(cfg.App.DataFile).Load()
	require.NoError(t, err)
	require.Len(t, doc.Transactions, 1)
	assert.Equal(t, "Lunch", doc.Transactions[0].Title)
}

func TestApp_LoadsExistingLedger(t *testing.T) {
	cfg := testConfig(t)

	doc := ledger.NewDocument()
	doc.ManualSavingsPool = 300
	require.NoError(t, localstore.New(cfg.App.DataFile).Save(doc))

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, int64(300), a.Store.ManualSavingsPool())
	assert.NotNil(t, a.Rules)
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()

	token, err := auth.NewTokenService("s3cret").GenerateToken(userID, time.Hour)
	require.NoError(t, err)

	type testCase struct {
		name    string
		token   string
		secret  string
		wantErr error
	}

	tests := []testCase{
		{name: "valid", token: token, secret: "s3cret"},
		{name: "no token", secret: "s3cret", wantErr: auth.ErrNoToken},
		{name: "wrong secret", token: token, secret: "other", wantErr: auth.ErrInvalidToken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Sync.AccessToken = tc.token
			cfg.Sync.JWTSecret = tc.secret

			got, err := authenticate(cfg)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, userID, got)
		})
	}
}
