package domain_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/coinjoin/internal/core/domain"
	"github.com/tdex-network/coinjoin/pkg/wallet"
)

var regtest = &chaincfg.RegressionNetParams

type participant struct {
	prvkey  *btcec.PrivateKey
	address string
	input   domain.Input
}

func newParticipant(t *testing.T, amount int64) participant {
	prvkey, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	keyPair := wallet.NewKeyPair(prvkey)
	addr, err := keyPair.Address(regtest)
	require.NoError(t, err)

	return participant{
		prvkey:  prvkey,
		address: addr,
		input: domain.Input{
			Address:   addr,
			Amount:    amount,
			PublicKey: keyPair.PublicKey(),
		},
	}
}

func newCoinJoin(t *testing.T, participants ...participant) *domain.CoinJoin {
	inputs := make([]domain.Input, 0, len(participants))
	outputs := make([]domain.TxOutputSpec, 0, len(participants))
	for _, p := range participants {
		inputs = append(inputs, p.input)
		outputs = append(outputs, domain.TxOutputSpec{
			Address: p.address,
			Amount:  p.input.Amount - 1000,
		})
	}
	coinJoin, err := domain.NewCoinJoin(len(participants), inputs, outputs)
	require.NoError(t, err)
	return coinJoin
}
