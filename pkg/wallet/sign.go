package wallet

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// SignInputOpts is the struct given to SignInput method
type SignInputOpts struct {
	Tx            *wire.MsgTx
	InIndex       int
	PrevOutScript []byte
	KeyPair       *KeyPair
	Network       *chaincfg.Params
}

func (o SignInputOpts) validate() error {
	if o.Tx == nil {
		return ErrNullTx
	}
	if o.InIndex < 0 || o.InIndex >= len(o.Tx.TxIn) {
		return fmt.Errorf(
			"input index must be in range [0, %d]",
			len(o.Tx.TxIn)-1,
		)
	}
	if len(o.PrevOutScript) <= 0 {
		return ErrNullPrevOutScript
	}
	if txscript.GetScriptClass(o.PrevOutScript) != txscript.PubKeyHashTy {
		return ErrUnsupportedScript
	}
	if o.KeyPair == nil || o.KeyPair.PrivateKey == nil {
		return ErrNullKeyPair
	}
	if o.Network == nil {
		return ErrNullNetwork
	}

	script, err := o.KeyPair.Script(o.Network)
	if err != nil {
		return err
	}
	if !bytes.Equal(script, o.PrevOutScript) {
		return ErrKeyScriptMismatch
	}
	return nil
}

// SignInput produces the pay-to-pubkey-hash signing script (signature and
// public key) for the given input of the transaction. The transaction is not
// modified.
func SignInput(opts SignInputOpts) ([]byte, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	return txscript.SignatureScript(
		opts.Tx,
		opts.InIndex,
		opts.PrevOutScript,
		txscript.SigHashAll,
		opts.KeyPair.PrivateKey,
		opts.KeyPair.Compressed,
	)
}
