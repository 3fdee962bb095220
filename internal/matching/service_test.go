package matching_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/safespend/internal/matching"
)

func TestService_Learn(t *testing.T) {
	type testCase struct {
		name     string
		pattern  string
		category string
		wantErr  error
		expect   bool
	}

	tests := []testCase{
		{name: "trims input", pattern: "  UBER ", category: " transport ", expect: true},
		{name: "empty pattern", pattern: "  ", category: "food", wantErr: matching.ErrEmptyPattern},
		{name: "empty category", pattern: "UBER", category: "", wantErr: matching.ErrEmptyPattern},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := matching.NewMockRepository(ctrl)

			if tc.expect {
				repo.EXPECT().CreateRule(gomock.Any(), "UBER", "transport").Return(nil)
			}

			err := matching.NewService(repo).Learn(context.Background(), tc.pattern, tc.category)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestService_Suggest(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)

	repo.EXPECT().FindMatch(gomock.Any(), "PINGO DOCE LISBOA").Return("food", nil)

	svc := matching.NewService(repo)

	got, err := svc.Suggest(context.Background(), "PINGO DOCE LISBOA")
	require.NoError(t, err)
	assert.Equal(t, "food", got)

	got, err = svc.Suggest(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}
