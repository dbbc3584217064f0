package application

import (
	"context"
	"errors"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/coinjoin/internal/core/domain"
	"github.com/tdex-network/coinjoin/pkg/wallet"
)

// ScriptVerdict is the outcome of the verification of an input.
type ScriptVerdict int

const (
	// ScriptInvalid means that the signature script of the input does not
	// unlock the connected output.
	ScriptInvalid ScriptVerdict = iota
	// ScriptValid means that the signature script of the input unlocks the
	// connected output.
	ScriptValid
	// ScriptAlreadySpent means that the connected output is spent by some
	// transaction known to the explorer.
	ScriptAlreadySpent
)

func (v ScriptVerdict) String() string {
	switch v {
	case ScriptValid:
		return "valid"
	case ScriptAlreadySpent:
		return "already-spent"
	default:
		return "invalid"
	}
}

// InputValidator checks whether the inputs of a transaction can be signed
// and whether their signature scripts are valid.
type InputValidator interface {
	// ValidateInput makes sure that the index-th input exists, has a
	// connected output, is not signed yet and does not spend an already
	// spent output. Checks are made in this order and the first failing one
	// determines the returned *InputError.
	ValidateInput(
		ctx context.Context, tx *domain.Transaction, index int,
	) (*domain.TxInput, error)
	// VerifyInput returns the verdict for the signature script currently
	// attached to the index-th input.
	VerifyInput(
		ctx context.Context, tx *domain.Transaction, index int,
	) (ScriptVerdict, error)
	// IsScriptSigValid returns whether the given script would be a valid
	// signature script for the index-th input, which must pass
	// ValidateInput. The transaction is never modified.
	IsScriptSigValid(
		ctx context.Context, tx *domain.Transaction, index int, script []byte,
	) (bool, error)
}

type inputValidator struct {
	unspentSvc UnspentService
	network    *chaincfg.Params
}

func NewInputValidator(
	unspentSvc UnspentService, network *chaincfg.Params,
) InputValidator {
	return newInputValidator(unspentSvc, network)
}

func newInputValidator(
	unspentSvc UnspentService, network *chaincfg.Params,
) *inputValidator {
	return &inputValidator{unspentSvc, network}
}

func (v *inputValidator) ValidateInput(
	ctx context.Context, tx *domain.Transaction, index int,
) (*domain.TxInput, error) {
	in, err := v.validateInput(ctx, tx, index)
	countCheck(checkGate, err == nil, err)
	if err != nil {
		log.WithError(err).Warn("input rejected")
		return nil, err
	}
	return in, nil
}

func (v *inputValidator) VerifyInput(
	ctx context.Context, tx *domain.Transaction, index int,
) (ScriptVerdict, error) {
	in, err := connectedInput(tx, index)
	if err != nil {
		return ScriptInvalid, err
	}
	return v.verify(ctx, tx, index, in)
}

func (v *inputValidator) IsScriptSigValid(
	ctx context.Context, tx *domain.Transaction, index int, script []byte,
) (bool, error) {
	if _, err := v.ValidateInput(ctx, tx, index); err != nil {
		return false, err
	}

	clone := tx.Clone()
	clone.Inputs[index].SignatureScript = append([]byte{}, script...)

	verdict, err := v.execScript(clone, index)
	ok := err == nil && verdict == ScriptValid
	countCheck(checkScript, ok, err)
	if err != nil {
		return false, &InputError{index, err}
	}
	return ok, nil
}

func (v *inputValidator) validateInput(
	ctx context.Context, tx *domain.Transaction, index int,
) (*domain.TxInput, error) {
	in, err := connectedInput(tx, index)
	if err != nil {
		return nil, err
	}
	if in.IsSigned() {
		return nil, &InputError{index, ErrAlreadySigned}
	}

	// An unsigned input can not be unlocked by an empty script, unless its
	// output has been spent already.
	verdict, err := v.verify(ctx, tx, index, in)
	if err != nil {
		return nil, err
	}
	if verdict != ScriptInvalid {
		return nil, &InputError{index, ErrAlreadySpent}
	}
	return in, nil
}

func (v *inputValidator) verify(
	ctx context.Context, tx *domain.Transaction, index int, in *domain.TxInput,
) (ScriptVerdict, error) {
	addr, err := wallet.AddressFromScript(in.PrevOutput.Script, v.network)
	if err != nil {
		return ScriptInvalid, &InputError{index, ErrUnsupportedOutput}
	}

	spent, err := v.unspentSvc.IsSpent(ctx, addr, in.Key())
	if err != nil {
		return ScriptInvalid, &InputError{index, err}
	}
	if spent {
		return ScriptAlreadySpent, nil
	}

	verdict, err := v.execScript(tx, index)
	if err != nil {
		return ScriptInvalid, &InputError{index, err}
	}
	return verdict, nil
}

// execScript runs the script engine for the index-th input of tx. Failures
// caused by the signature script make the verdict ScriptInvalid, anything
// else is an ErrInternal.
func (v *inputValidator) execScript(
	tx *domain.Transaction, index int,
) (ScriptVerdict, error) {
	msgTx, err := tx.ToMsgTx()
	if err != nil {
		return ScriptInvalid, newInternalError(err)
	}
	fetcher, err := tx.PrevOutputFetcher()
	if err != nil {
		return ScriptInvalid, newInternalError(err)
	}

	prevOut := tx.Inputs[index].PrevOutput
	vm, err := txscript.NewEngine(
		prevOut.Script, msgTx, index, txscript.StandardVerifyFlags, nil,
		txscript.NewTxSigHashes(msgTx, fetcher), prevOut.Value, fetcher,
	)
	if err != nil {
		if isScriptError(err) {
			return ScriptInvalid, nil
		}
		return ScriptInvalid, newInternalError(err)
	}

	if err := vm.Execute(); err != nil {
		log.WithError(err).Debugf("script verification failed for input %d", index)
		return ScriptInvalid, nil
	}
	return ScriptValid, nil
}

func connectedInput(tx *domain.Transaction, index int) (*domain.TxInput, error) {
	if tx == nil {
		return nil, &InputError{index, ErrInvalidIndex}
	}
	in, err := tx.Input(index)
	if err != nil {
		return nil, &InputError{index, ErrInvalidIndex}
	}
	if in.PrevOutput == nil || len(in.PrevOutput.Script) <= 0 {
		return nil, &InputError{index, ErrNoConnectedOutput}
	}
	return in, nil
}

func isScriptError(err error) bool {
	var scriptErr txscript.Error
	return errors.As(err, &scriptErr)
}
