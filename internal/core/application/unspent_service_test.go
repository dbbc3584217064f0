package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/coinjoin/internal/core/application"
	"github.com/tdex-network/coinjoin/internal/core/domain"
	"github.com/tdex-network/coinjoin/pkg/explorer"
)

func TestGetUnspents(t *testing.T) {
	ctx := context.Background()

	t.Run("funding_only", func(t *testing.T) {
		alice := newParticipant(t, 100000)
		explorerSvc := &mockExplorer{}
		alice.register(t, explorerSvc, false)

		unspents, err := application.NewUnspentService(explorerSvc).
			GetUnspents(ctx, alice.address)
		require.NoError(t, err)
		require.Equal(t, []domain.Unspent{alice.unspent()}, unspents)
	})

	t.Run("funding_and_spending", func(t *testing.T) {
		alice := newParticipant(t, 100000)
		explorerSvc := &mockExplorer{}
		alice.register(t, explorerSvc, true)

		unspents, err := application.NewUnspentService(explorerSvc).
			GetUnspents(ctx, alice.address)
		require.NoError(t, err)
		require.Empty(t, unspents)
	})
}

func TestFailingGetUnspents(t *testing.T) {
	tests := []struct {
		name        string
		history     []byte
		explorerErr error
	}{
		{"provider_error", nil, explorer.NewProviderError("timeout")},
		{"generic_error", nil, errors.New("connection refused")},
		{"malformed_history", []byte(`{"txs": []}`), nil},
		{"not_json", []byte(`<html></html>`), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			explorerSvc := &mockExplorer{}
			explorerSvc.On("GetAddressHistory", changeAddress).
				Return(tt.history, tt.explorerErr)

			svc := application.NewUnspentService(explorerSvc)
			unspents, err := svc.GetUnspents(context.Background(), changeAddress)
			require.Error(t, err)
			require.ErrorIs(t, err, explorer.ErrProvider)
			require.Nil(t, unspents)
		})
	}
}

func TestIsSpent(t *testing.T) {
	alice := newParticipant(t, 100000)
	bob := newParticipant(t, 100000)
	explorerSvc := &mockExplorer{}
	alice.register(t, explorerSvc, true)
	bob.register(t, explorerSvc, false)

	svc := application.NewUnspentService(explorerSvc)
	ctx := context.Background()

	spent, err := svc.IsSpent(ctx, alice.address, alice.unspent().Key())
	require.NoError(t, err)
	require.True(t, spent)

	spent, err = svc.IsSpent(ctx, bob.address, bob.unspent().Key())
	require.NoError(t, err)
	require.False(t, spent)
}
