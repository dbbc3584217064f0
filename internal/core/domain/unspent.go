package domain

import (
	"fmt"

	"github.com/tdex-network/coinjoin/pkg/explorer"
)

// UnspentKey represent the ID of an Unspent, composed by its txid and vout.
type UnspentKey struct {
	TxID string
	VOut uint32
}

func (k UnspentKey) String() string {
	return fmt.Sprintf("%s:%d", k.TxID, k.VOut)
}

// Unspent is an output paid to Address that no transaction of the known
// history spends.
type Unspent struct {
	TxID    string `json:"txid"`
	VOut    uint32 `json:"vout"`
	Value   int64  `json:"value"`
	Address string `json:"address"`
}

// Key returns the UnspentKey of the current unspent.
func (u Unspent) Key() UnspentKey {
	return UnspentKey{
		TxID: u.TxID,
		VOut: u.VOut,
	}
}

// IsKeyEqual returns whether the provided UnspentKey matches that or the
// current unspent.
func (u Unspent) IsKeyEqual(key UnspentKey) bool {
	return u.TxID == key.TxID && u.VOut == key.VOut
}

// UnspentsFromHistory returns the outputs of the history paid to address
// that are not referenced by any input of the same history, whatever the
// address spending them. Unspents are returned in order of appearance.
func UnspentsFromHistory(address string, txs []explorer.HistoryTx) []Unspent {
	keys := make([]UnspentKey, 0)
	unspents := make(map[UnspentKey]Unspent)
	for _, tx := range txs {
		for i, out := range tx.Outputs {
			if out.Address != address {
				continue
			}
			u := Unspent{
				TxID:    tx.Hash,
				VOut:    uint32(i),
				Value:   out.Value,
				Address: address,
			}
			if _, ok := unspents[u.Key()]; !ok {
				keys = append(keys, u.Key())
			}
			unspents[u.Key()] = u
		}
	}

	for _, key := range spentKeys(txs) {
		delete(unspents, key)
	}

	res := make([]Unspent, 0, len(unspents))
	for _, key := range keys {
		if u, ok := unspents[key]; ok {
			res = append(res, u)
		}
	}
	return res
}

// IsSpentInHistory returns whether any input of the history spends the
// output identified by key.
func IsSpentInHistory(key UnspentKey, txs []explorer.HistoryTx) bool {
	for _, k := range spentKeys(txs) {
		if k == key {
			return true
		}
	}
	return false
}

func spentKeys(txs []explorer.HistoryTx) []UnspentKey {
	keys := make([]UnspentKey, 0)
	for _, tx := range txs {
		for _, in := range tx.Inputs {
			if in.PrevOut == nil {
				continue
			}
			keys = append(keys, UnspentKey{in.PrevOut.Hash, in.PrevOut.N})
		}
	}
	return keys
}
