package esplora

import "github.com/tdex-network/coinjoin/pkg/explorer"

// tx is the esplora representation of a transaction returned by the
// /address/:address/txs endpoints.
type tx struct {
	TxID    string   `json:"txid"`
	Inputs  []input  `json:"vin"`
	Outputs []output `json:"vout"`
	Status  status   `json:"status"`
}

type input struct {
	TxID       string `json:"txid"`
	Vout       uint32 `json:"vout"`
	IsCoinbase bool   `json:"is_coinbase"`
}

type output struct {
	ScriptPubKey string `json:"scriptpubkey"`
	Address      string `json:"scriptpubkey_address"`
	Value        int64  `json:"value"`
}

type status struct {
	Confirmed bool `json:"confirmed"`
}

func (t tx) toHistoryTx() explorer.HistoryTx {
	ins := make([]explorer.HistoryInput, 0, len(t.Inputs))
	for _, in := range t.Inputs {
		if in.IsCoinbase {
			ins = append(ins, explorer.HistoryInput{})
			continue
		}
		ins = append(ins, explorer.HistoryInput{
			PrevOut: &explorer.PrevOut{Hash: in.TxID, N: in.Vout},
		})
	}

	outs := make([]explorer.HistoryOutput, 0, len(t.Outputs))
	for _, out := range t.Outputs {
		outs = append(outs, explorer.HistoryOutput{
			Address: out.Address,
			Value:   out.Value,
		})
	}

	return explorer.HistoryTx{
		Hash:    t.TxID,
		Inputs:  ins,
		Outputs: outs,
	}
}
