package application_test

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/coinjoin/internal/core/domain"
	"github.com/tdex-network/coinjoin/pkg/explorer"
	"github.com/tdex-network/coinjoin/pkg/wallet"
)

var (
	regtest = &chaincfg.RegressionNetParams
	// p2pkh address not owned by any participant.
	changeAddress = func() string {
		key := make([]byte, 32)
		key[31] = 1
		prvkey, _ := btcec.PrivKeyFromBytes(key)
		addr, _ := wallet.NewKeyPair(prvkey).Address(regtest)
		return addr
	}()
)

// participant owns a key and a funding transaction paying fundingAmount to
// the key's address at output 1.
type participant struct {
	keyPair       *wallet.KeyPair
	wif           string
	address       string
	fundingTx     *wire.MsgTx
	fundingTxID   string
	fundingTxHex  string
	fundingAmount int64
}

func newParticipant(t *testing.T, amount int64) *participant {
	prvkey, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	keyPair := wallet.NewKeyPair(prvkey)

	wif, err := keyPair.WIF(regtest)
	require.NoError(t, err)
	addr, err := keyPair.Address(regtest)
	require.NoError(t, err)
	script, err := keyPair.Script(regtest)
	require.NoError(t, err)
	changeOut, err := domain.NewTxOutput(
		domain.TxOutputSpec{Address: changeAddress, Amount: 1000}, regtest,
	)
	require.NoError(t, err)

	tx := wire.NewMsgTx(wire.TxVersion)
	prevHash := chainhash.DoubleHashH(prvkey.Serialize())
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&prevHash, 0), []byte{0x51}, nil))
	tx.AddTxOut(wire.NewTxOut(changeOut.Value, changeOut.Script))
	tx.AddTxOut(wire.NewTxOut(amount, script))

	buf := &bytes.Buffer{}
	require.NoError(t, tx.Serialize(buf))

	return &participant{
		keyPair:       keyPair,
		wif:           wif,
		address:       addr,
		fundingTx:     tx,
		fundingTxID:   tx.TxHash().String(),
		fundingTxHex:  hex.EncodeToString(buf.Bytes()),
		fundingAmount: amount,
	}
}

func (p *participant) unspent() domain.Unspent {
	return domain.Unspent{
		TxID:    p.fundingTxID,
		VOut:    1,
		Value:   p.fundingAmount,
		Address: p.address,
	}
}

func (p *participant) fundingHistoryTx() explorer.HistoryTx {
	prevOut := p.fundingTx.TxIn[0].PreviousOutPoint
	return explorer.HistoryTx{
		Hash: p.fundingTxID,
		Inputs: []explorer.HistoryInput{
			{PrevOut: &explorer.PrevOut{Hash: prevOut.Hash.String(), N: prevOut.Index}},
		},
		Outputs: []explorer.HistoryOutput{
			{Address: changeAddress, Value: 1000},
			{Address: p.address, Value: p.fundingAmount},
		},
	}
}

func (p *participant) spendingHistoryTx() explorer.HistoryTx {
	return explorer.HistoryTx{
		Hash: "ff" + p.fundingTxID[2:],
		Inputs: []explorer.HistoryInput{
			{PrevOut: &explorer.PrevOut{Hash: p.fundingTxID, N: 1}},
		},
		Outputs: []explorer.HistoryOutput{
			{Address: changeAddress, Value: p.fundingAmount - 500},
		},
	}
}

// history returns the raw history of the participant's address, optionally
// including a transaction spending its funding output.
func (p *participant) history(t *testing.T, spent bool) []byte {
	txs := []explorer.HistoryTx{p.fundingHistoryTx()}
	if spent {
		txs = append([]explorer.HistoryTx{p.spendingHistoryTx()}, txs...)
	}
	raw, err := json.Marshal(explorer.History{Transactions: txs})
	require.NoError(t, err)
	return raw
}

// register makes the explorer aware of the participant's funding tx and
// history.
func (p *participant) register(t *testing.T, explorerSvc *mockExplorer, spent bool) {
	explorerSvc.On("GetAddressHistory", p.address).Return(p.history(t, spent), nil)
	explorerSvc.On("GetTransactionHex", p.fundingTxID).Return(p.fundingTxHex, nil)
}

func outputSpecs(amounts ...int64) []domain.TxOutputSpec {
	specs := make([]domain.TxOutputSpec, 0, len(amounts))
	for _, amount := range amounts {
		specs = append(specs, domain.TxOutputSpec{
			Address: changeAddress,
			Amount:  amount,
		})
	}
	return specs
}
