package explorer

import (
	"encoding/json"
)

// History is the canonical transaction history of an address as returned by
// a chain data provider:
//
//	{ "transactions": [ { "hash": "...",
//	                      "in": [ { "prev_out": { "hash": "...", "n": 0 } } ],
//	                      "out": [ { "address": "...", "value": 1000 } ] } ] }
type History struct {
	Transactions []HistoryTx `json:"transactions"`
}

// HistoryTx is a single transaction of an address history.
type HistoryTx struct {
	Hash    string          `json:"hash"`
	Inputs  []HistoryInput  `json:"in"`
	Outputs []HistoryOutput `json:"out"`
}

// HistoryInput is a transaction input. PrevOut is nil for coinbase inputs.
type HistoryInput struct {
	PrevOut *PrevOut `json:"prev_out,omitempty"`
}

// PrevOut references the output spent by an input.
type PrevOut struct {
	Hash string `json:"hash"`
	N    uint32 `json:"n"`
}

// HistoryOutput is a transaction output. Address is empty for outputs whose
// locking script does not pay to an address (ie. OP_RETURN).
type HistoryOutput struct {
	Address string `json:"address"`
	Value   int64  `json:"value"`
}

type rawHistory struct {
	Transactions *[]rawHistoryTx `json:"transactions"`
}

type rawHistoryTx struct {
	Hash    *string           `json:"hash"`
	Inputs  []rawHistoryInput `json:"in"`
	Outputs []HistoryOutput   `json:"out"`
}

type rawHistoryInput struct {
	PrevOut *rawPrevOut `json:"prev_out,omitempty"`
}

type rawPrevOut struct {
	Hash *string `json:"hash"`
	N    *uint32 `json:"n"`
}

// ParseHistory parses the raw document returned by Service.GetAddressHistory.
// Any deviation from the expected shape results in an ErrProvider error, a
// partial history is never returned.
func ParseHistory(raw []byte) (*History, error) {
	if len(raw) <= 0 {
		return nil, NewProviderError("empty history response")
	}

	h := rawHistory{}
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, NewProviderError("malformed history response: %s", err)
	}
	if h.Transactions == nil {
		return nil, NewProviderError("history response is missing transactions")
	}

	txs := make([]HistoryTx, 0, len(*h.Transactions))
	for i, tx := range *h.Transactions {
		if tx.Hash == nil || len(*tx.Hash) <= 0 {
			return nil, NewProviderError("transaction %d is missing hash", i)
		}
		inputs := make([]HistoryInput, 0, len(tx.Inputs))
		for j, in := range tx.Inputs {
			if in.PrevOut == nil {
				inputs = append(inputs, HistoryInput{})
				continue
			}
			prevOut := in.PrevOut
			if prevOut.Hash == nil || len(*prevOut.Hash) <= 0 || prevOut.N == nil {
				return nil, NewProviderError(
					"input %d of transaction %s has malformed prev_out", j, *tx.Hash,
				)
			}
			inputs = append(inputs, HistoryInput{
				PrevOut: &PrevOut{Hash: *prevOut.Hash, N: *prevOut.N},
			})
		}
		for j, out := range tx.Outputs {
			if out.Value < 0 {
				return nil, NewProviderError(
					"output %d of transaction %s has negative value", j, *tx.Hash,
				)
			}
		}
		txs = append(txs, HistoryTx{
			Hash:    *tx.Hash,
			Inputs:  inputs,
			Outputs: tx.Outputs,
		})
	}

	return &History{Transactions: txs}, nil
}

// Serialize returns the canonical JSON encoding of the history.
func (h *History) Serialize() ([]byte, error) {
	if h.Transactions == nil {
		h.Transactions = make([]HistoryTx, 0)
	}
	return json.Marshal(h)
}
