package application

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/coinjoin/internal/core/domain"
	"github.com/tdex-network/coinjoin/pkg/explorer"
	"golang.org/x/sync/errgroup"
)

// TransactionAssembler builds unsigned transactions spending previous outputs
// that are fetched from the explorer.
type TransactionAssembler interface {
	// AssembleTransaction returns a transaction with one unsigned input for
	// each of the given unspents, in the same order, and one output for each
	// of the given specs. The value of an unspent, if not zero, must match
	// that of the fetched output.
	AssembleTransaction(
		ctx context.Context,
		unspents []domain.Unspent,
		outputs []domain.TxOutputSpec,
	) (*domain.Transaction, error)
}

type transactionAssembler struct {
	explorerSvc explorer.Service
	network     *chaincfg.Params
}

func NewTransactionAssembler(
	explorerSvc explorer.Service, network *chaincfg.Params,
) TransactionAssembler {
	return newTransactionAssembler(explorerSvc, network)
}

func newTransactionAssembler(
	explorerSvc explorer.Service, network *chaincfg.Params,
) *transactionAssembler {
	return &transactionAssembler{explorerSvc, network}
}

func (a *transactionAssembler) AssembleTransaction(
	ctx context.Context,
	unspents []domain.Unspent,
	outputs []domain.TxOutputSpec,
) (*domain.Transaction, error) {
	if len(unspents) <= 0 {
		return nil, ErrMissingUnspents
	}
	if len(outputs) <= 0 {
		return nil, ErrMissingOutputs
	}

	txOutputs := make([]*domain.TxOutput, 0, len(outputs))
	for i, spec := range outputs {
		out, err := domain.NewTxOutput(spec, a.network)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		txOutputs = append(txOutputs, out)
	}

	prevTxs, err := a.fetchTransactions(ctx, unspents)
	if err != nil {
		return nil, err
	}

	tx := domain.NewTransaction()
	for i, u := range unspents {
		prevTx := prevTxs[u.TxID]
		if int(u.VOut) >= len(prevTx.TxOut) {
			return nil, &InputError{i, fmt.Errorf(
				"%w: tx %s has %d outputs", ErrIndexOutOfRange, u.TxID, len(prevTx.TxOut),
			)}
		}

		prevOut := prevTx.TxOut[u.VOut]
		if u.Value != 0 && u.Value != prevOut.Value {
			return nil, &InputError{i, fmt.Errorf(
				"%w: expected %d, got %d", ErrAmountMismatch, u.Value, prevOut.Value,
			)}
		}

		if err := tx.AddInput(u.TxID, u.VOut, &domain.TxOutput{
			Script: prevOut.PkScript,
			Value:  prevOut.Value,
		}); err != nil {
			return nil, &InputError{i, err}
		}
	}
	for _, out := range txOutputs {
		tx.AddOutput(out)
	}

	log.Debugf(
		"assembled transaction with %d inputs and %d outputs",
		len(tx.Inputs), len(tx.Outputs),
	)
	return tx, nil
}

// fetchTransactions fetches in parallel every distinct transaction referenced
// by the given unspents.
func (a *transactionAssembler) fetchTransactions(
	ctx context.Context, unspents []domain.Unspent,
) (map[string]*wire.MsgTx, error) {
	txids := make([]string, 0, len(unspents))
	seen := make(map[string]bool)
	for _, u := range unspents {
		if seen[u.TxID] {
			continue
		}
		seen[u.TxID] = true
		txids = append(txids, u.TxID)
	}

	txs := make([]*wire.MsgTx, len(txids))
	g, gctx := errgroup.WithContext(ctx)
	for i, txid := range txids {
		i, txid := i, txid
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tx, err := a.fetchTransaction(txid)
			if err != nil {
				return &FetchError{txid, err}
			}
			txs[i] = tx
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := make(map[string]*wire.MsgTx, len(txids))
	for i, txid := range txids {
		res[txid] = txs[i]
	}
	return res, nil
}

func (a *transactionAssembler) fetchTransaction(txid string) (*wire.MsgTx, error) {
	txhex, err := a.explorerSvc.GetTransactionHex(txid)
	if err != nil {
		return nil, providerError(err)
	}

	buf, err := hex.DecodeString(txhex)
	if err != nil {
		return nil, explorer.NewProviderError("transaction is not in hex format")
	}
	tx := &wire.MsgTx{}
	if err := tx.Deserialize(bytes.NewReader(buf)); err != nil {
		return nil, explorer.NewProviderError("malformed transaction: %s", err)
	}
	if hash := tx.TxHash().String(); hash != txid {
		return nil, explorer.NewProviderError(
			"fetched transaction has hash %s, expected %s", hash, txid,
		)
	}
	return tx, nil
}
