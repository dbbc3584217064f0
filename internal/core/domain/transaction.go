package domain

import (
	"bytes"
	"encoding/hex"
	"encoding/json"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// TxOutputSpec is a requested destination of a transaction to assemble.
type TxOutputSpec struct {
	Address string `json:"address"`
	Amount  int64  `json:"amount"`
}

// TxOutput is an output of a transaction.
type TxOutput struct {
	Script []byte
	Value  int64
}

// NewTxOutput returns the output paying spec.Amount to spec.Address.
func NewTxOutput(spec TxOutputSpec, net *chaincfg.Params) (*TxOutput, error) {
	if net == nil {
		return nil, ErrNullNetwork
	}
	if spec.Amount <= 0 || spec.Amount > btcutil.MaxSatoshi {
		return nil, ErrInvalidAmount
	}
	addr, err := btcutil.DecodeAddress(spec.Address, net)
	if err != nil || !addr.IsForNet(net) {
		return nil, ErrInvalidAddress
	}
	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return nil, ErrInvalidAddress
	}
	return &TxOutput{script, spec.Amount}, nil
}

func (o *TxOutput) clone() *TxOutput {
	if o == nil {
		return nil
	}
	return &TxOutput{
		Script: append([]byte{}, o.Script...),
		Value:  o.Value,
	}
}

type jsonTxOutput struct {
	Script string `json:"script"`
	Value  int64  `json:"value"`
}

func (o TxOutput) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonTxOutput{hex.EncodeToString(o.Script), o.Value})
}

func (o *TxOutput) UnmarshalJSON(data []byte) error {
	v := jsonTxOutput{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	script, err := hex.DecodeString(v.Script)
	if err != nil {
		return err
	}
	o.Script = script
	o.Value = v.Value
	return nil
}

// TxInput is an input slot of a transaction. PrevOutput is the output it
// spends, known as connected output, while SignatureScript is empty until
// the slot is signed.
type TxInput struct {
	PrevTxID        string
	PrevIndex       uint32
	PrevOutput      *TxOutput
	SignatureScript []byte
	Sequence        uint32
}

// Key returns the UnspentKey of the output spent by the input.
func (i *TxInput) Key() UnspentKey {
	return UnspentKey{i.PrevTxID, i.PrevIndex}
}

// IsSigned returns whether the signature script of the input is not empty.
func (i *TxInput) IsSigned() bool {
	return len(i.SignatureScript) > 0
}

func (i *TxInput) clone() *TxInput {
	var sigScript []byte
	if len(i.SignatureScript) > 0 {
		sigScript = append([]byte{}, i.SignatureScript...)
	}
	return &TxInput{
		PrevTxID:        i.PrevTxID,
		PrevIndex:       i.PrevIndex,
		PrevOutput:      i.PrevOutput.clone(),
		SignatureScript: sigScript,
		Sequence:        i.Sequence,
	}
}

type jsonTxInput struct {
	PrevTxID        string    `json:"prev_txid"`
	PrevIndex       uint32    `json:"prev_index"`
	PrevOutput      *TxOutput `json:"prev_output,omitempty"`
	SignatureScript string    `json:"signature_script,omitempty"`
	Sequence        uint32    `json:"sequence"`
}

func (i TxInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonTxInput{
		PrevTxID:        i.PrevTxID,
		PrevIndex:       i.PrevIndex,
		PrevOutput:      i.PrevOutput,
		SignatureScript: hex.EncodeToString(i.SignatureScript),
		Sequence:        i.Sequence,
	})
}

func (i *TxInput) UnmarshalJSON(data []byte) error {
	v := jsonTxInput{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	var sigScript []byte
	if len(v.SignatureScript) > 0 {
		script, err := hex.DecodeString(v.SignatureScript)
		if err != nil {
			return err
		}
		sigScript = script
	}
	i.PrevTxID = v.PrevTxID
	i.PrevIndex = v.PrevIndex
	i.PrevOutput = v.PrevOutput
	i.SignatureScript = sigScript
	i.Sequence = v.Sequence
	return nil
}

// Transaction is an assembled transaction owned by the caller that built it.
// Inputs keep the order they have been added with.
type Transaction struct {
	Version  int32       `json:"version"`
	LockTime uint32      `json:"locktime"`
	Inputs   []*TxInput  `json:"inputs"`
	Outputs  []*TxOutput `json:"outputs"`
}

// NewTransaction returns an empty transaction.
func NewTransaction() *Transaction {
	return &Transaction{
		Version: wire.TxVersion,
		Inputs:  make([]*TxInput, 0),
		Outputs: make([]*TxOutput, 0),
	}
}

// NewTransactionFromJSON parses a transaction encoded with json.Marshal.
func NewTransactionFromJSON(data []byte) (*Transaction, error) {
	tx := &Transaction{}
	if err := json.Unmarshal(data, tx); err != nil {
		return nil, err
	}
	for _, in := range tx.Inputs {
		if _, err := chainhash.NewHashFromStr(in.PrevTxID); err != nil {
			return nil, ErrInvalidTxID
		}
	}
	return tx, nil
}

// AddInput appends an unsigned input spending the prevIndex-th output of
// prevTxID, which is prevOutput.
func (t *Transaction) AddInput(
	prevTxID string, prevIndex uint32, prevOutput *TxOutput,
) error {
	if _, err := chainhash.NewHashFromStr(prevTxID); err != nil {
		return ErrInvalidTxID
	}
	if prevOutput == nil {
		return ErrNullPrevOutput
	}
	t.Inputs = append(t.Inputs, &TxInput{
		PrevTxID:   prevTxID,
		PrevIndex:  prevIndex,
		PrevOutput: prevOutput.clone(),
		Sequence:   wire.MaxTxInSequenceNum,
	})
	return nil
}

// AddOutput appends the given output.
func (t *Transaction) AddOutput(out *TxOutput) {
	t.Outputs = append(t.Outputs, out.clone())
}

// Input returns the index-th input slot.
func (t *Transaction) Input(index int) (*TxInput, error) {
	if index < 0 || index >= len(t.Inputs) {
		return nil, ErrInputIndexOutOfRange
	}
	return t.Inputs[index], nil
}

// IsSigned returns whether the index-th input is signed.
func (t *Transaction) IsSigned(index int) bool {
	in, err := t.Input(index)
	if err != nil {
		return false
	}
	return in.IsSigned()
}

// IsComplete returns whether every input of the transaction is signed.
func (t *Transaction) IsComplete() bool {
	if len(t.Inputs) <= 0 {
		return false
	}
	for _, in := range t.Inputs {
		if !in.IsSigned() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the transaction.
func (t *Transaction) Clone() *Transaction {
	ins := make([]*TxInput, 0, len(t.Inputs))
	for _, in := range t.Inputs {
		ins = append(ins, in.clone())
	}
	outs := make([]*TxOutput, 0, len(t.Outputs))
	for _, out := range t.Outputs {
		outs = append(outs, out.clone())
	}
	return &Transaction{
		Version:  t.Version,
		LockTime: t.LockTime,
		Inputs:   ins,
		Outputs:  outs,
	}
}

// ToMsgTx returns the wire representation of the transaction.
func (t *Transaction) ToMsgTx() (*wire.MsgTx, error) {
	tx := wire.NewMsgTx(t.Version)
	tx.LockTime = t.LockTime
	for _, in := range t.Inputs {
		hash, err := chainhash.NewHashFromStr(in.PrevTxID)
		if err != nil {
			return nil, ErrInvalidTxID
		}
		txIn := wire.NewTxIn(wire.NewOutPoint(hash, in.PrevIndex), in.SignatureScript, nil)
		txIn.Sequence = in.Sequence
		tx.AddTxIn(txIn)
	}
	for _, out := range t.Outputs {
		tx.AddTxOut(wire.NewTxOut(out.Value, out.Script))
	}
	return tx, nil
}

// PrevOutputFetcher returns the fetcher of the connected outputs required
// by the script engine. Unconnected inputs are skipped.
func (t *Transaction) PrevOutputFetcher() (txscript.PrevOutputFetcher, error) {
	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	for _, in := range t.Inputs {
		if in.PrevOutput == nil {
			continue
		}
		hash, err := chainhash.NewHashFromStr(in.PrevTxID)
		if err != nil {
			return nil, ErrInvalidTxID
		}
		fetcher.AddPrevOut(
			*wire.NewOutPoint(hash, in.PrevIndex),
			wire.NewTxOut(in.PrevOutput.Value, in.PrevOutput.Script),
		)
	}
	return fetcher, nil
}

// Serialize returns the transaction in bitcoin wire format.
func (t *Transaction) Serialize() ([]byte, error) {
	tx, err := t.ToMsgTx()
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(make([]byte, 0, tx.SerializeSize()))
	if err := tx.Serialize(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Hex returns the transaction in bitcoin wire format, hex encoded.
func (t *Transaction) Hex() (string, error) {
	b, err := t.Serialize()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// TxID returns the hash of the transaction.
func (t *Transaction) TxID() (string, error) {
	tx, err := t.ToMsgTx()
	if err != nil {
		return "", err
	}
	return tx.TxHash().String(), nil
}
