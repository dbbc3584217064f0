package application

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/coinjoin/internal/core/domain"
	"github.com/tdex-network/coinjoin/pkg/wallet"
)

// InputSigner produces and attaches signature scripts for the inputs of a
// transaction.
type InputSigner interface {
	// CreateInputScript returns the pay-to-pubkey-hash signature script of
	// the index-th input, without attaching it to the transaction.
	CreateInputScript(
		ctx context.Context, tx *domain.Transaction, index int, privateKey string,
	) ([]byte, error)
	// SignTransactionInput attaches the given script to the index-th input
	// if it is valid, otherwise the transaction is left untouched.
	SignTransactionInput(
		ctx context.Context, tx *domain.Transaction, index int, script []byte,
	) error
	IsTransactionInputUnspent(
		ctx context.Context, tx *domain.Transaction, index int,
	) bool
	IsScriptSigValid(
		ctx context.Context, tx *domain.Transaction, index int, script []byte,
	) bool
}

type inputSigner struct {
	validator InputValidator
	network   *chaincfg.Params
}

func NewInputSigner(
	validator InputValidator, network *chaincfg.Params,
) InputSigner {
	return newInputSigner(validator, network)
}

func newInputSigner(
	validator InputValidator, network *chaincfg.Params,
) *inputSigner {
	return &inputSigner{validator, network}
}

func (s *inputSigner) CreateInputScript(
	ctx context.Context, tx *domain.Transaction, index int, privateKey string,
) ([]byte, error) {
	in, err := s.validator.ValidateInput(ctx, tx, index)
	if err != nil {
		return nil, err
	}

	keyPair, err := wallet.ParsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}

	msgTx, err := tx.ToMsgTx()
	if err != nil {
		return nil, newInternalError(err)
	}

	script, err := wallet.SignInput(wallet.SignInputOpts{
		Tx:            msgTx,
		InIndex:       index,
		PrevOutScript: in.PrevOutput.Script,
		KeyPair:       keyPair,
		Network:       s.network,
	})
	if err != nil {
		return nil, &InputError{index, fmt.Errorf("failed to sign: %w", err)}
	}
	return script, nil
}

func (s *inputSigner) SignTransactionInput(
	ctx context.Context, tx *domain.Transaction, index int, script []byte,
) error {
	ok, err := s.validator.IsScriptSigValid(ctx, tx, index, script)
	if err != nil {
		return err
	}
	if !ok {
		return &InputError{index, ErrInvalidSignature}
	}

	tx.Inputs[index].SignatureScript = append([]byte{}, script...)
	log.Debugf("attached signature script to input %d", index)
	return nil
}

func (s *inputSigner) IsTransactionInputUnspent(
	ctx context.Context, tx *domain.Transaction, index int,
) bool {
	_, err := s.validator.ValidateInput(ctx, tx, index)
	return err == nil
}

func (s *inputSigner) IsScriptSigValid(
	ctx context.Context, tx *domain.Transaction, index int, script []byte,
) bool {
	ok, err := s.validator.IsScriptSigValid(ctx, tx, index, script)
	return err == nil && ok
}
