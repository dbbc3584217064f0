package application_test

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/coinjoin/internal/core/application"
	"github.com/tdex-network/coinjoin/pkg/explorer"
	"github.com/tdex-network/coinjoin/pkg/wallet"
)

func TestValidateInput(t *testing.T) {
	alice := newParticipant(t, 100000)
	explorerSvc := &mockExplorer{}
	alice.register(t, explorerSvc, false)

	svc := application.NewInputService(
		application.NewUnspentService(explorerSvc), regtest,
	)

	input, err := svc.ValidateInput(
		context.Background(), alice.wif, alice.fundingTxID, 1,
	)
	require.NoError(t, err)
	require.Equal(t, alice.address, input.Address)
	require.Equal(t, int64(100000), input.Amount)
	require.Equal(t, alice.keyPair.PublicKey(), input.PublicKey)
}

func TestFailingValidateInput(t *testing.T) {
	alice := newParticipant(t, 100000)
	bob := newParticipant(t, 100000)
	explorerSvc := &mockExplorer{}
	alice.register(t, explorerSvc, false)
	bob.register(t, explorerSvc, true)
	explorerSvc.On("GetAddressHistory", changeAddress).
		Return(nil, explorer.NewProviderError("timeout"))

	changeKey := make([]byte, 32)
	changeKey[31] = 1
	changeKeyPair, err := wallet.ParsePrivateKey(hex.EncodeToString(changeKey))
	require.NoError(t, err)
	changeWIF, err := changeKeyPair.WIF(regtest)
	require.NoError(t, err)

	tests := []struct {
		name          string
		key           string
		txid          string
		vout          uint32
		expectedError error
	}{
		{"malformed_key", "not a key", alice.fundingTxID, 1, wallet.ErrInvalidPrivateKey},
		{"wrong_vout", alice.wif, alice.fundingTxID, 0, application.ErrUnspentNotFound},
		{"other_owner", bob.wif, alice.fundingTxID, 1, application.ErrUnspentNotFound},
		{"spent", bob.wif, bob.fundingTxID, 1, application.ErrUnspentNotFound},
		{"provider_error", changeWIF, alice.fundingTxID, 0, explorer.ErrProvider},
	}

	svc := application.NewInputService(
		application.NewUnspentService(explorerSvc), regtest,
	)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := svc.ValidateInput(context.Background(), tt.key, tt.txid, tt.vout)
			require.ErrorIs(t, err, tt.expectedError)
			require.Nil(t, input)
		})
	}
}
