package application

import (
	"errors"
	"fmt"

	"github.com/tdex-network/coinjoin/pkg/explorer"
)

var (
	// ErrInvalidIndex is returned when the index of the input to sign or
	// verify is out of the bounds of the transaction inputs.
	ErrInvalidIndex = errors.New("input index is out of range")
	// ErrIndexOutOfRange is returned when a referenced previous output does
	// not exist in the fetched transaction.
	ErrIndexOutOfRange = errors.New("referenced output index is out of range")
	// ErrNoConnectedOutput ...
	ErrNoConnectedOutput = errors.New("input has no connected output")
	// ErrAlreadySigned ...
	ErrAlreadySigned = errors.New("input is already signed")
	// ErrAlreadySpent ...
	ErrAlreadySpent = errors.New("input connected output is already spent")
	// ErrUnsupportedOutput ...
	ErrUnsupportedOutput = errors.New(
		"input connected output does not pay to a standard address",
	)
	// ErrInvalidSignature ...
	ErrInvalidSignature = errors.New("signature script is not valid for input")
	// ErrFetchFailed ...
	ErrFetchFailed = errors.New("failed to fetch referenced transaction")
	// ErrAmountMismatch ...
	ErrAmountMismatch = errors.New(
		"referenced output amount does not match the fetched one",
	)
	// ErrTxNotComplete ...
	ErrTxNotComplete = errors.New("transaction has unsigned inputs")
	// ErrUnspentNotFound ...
	ErrUnspentNotFound = errors.New("outpoint is not an unspent of the address")
	// ErrMissingUnspents ...
	ErrMissingUnspents = errors.New("at least one previous output is required")
	// ErrMissingOutputs ...
	ErrMissingOutputs = errors.New("at least one output is required")
	// ErrInternal wraps unexpected failures, like those of the script engine
	// not caused by the verified script.
	ErrInternal = errors.New("internal error")
)

// InputError is returned when an operation on a specific input slot fails.
type InputError struct {
	Index int
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input %d: %s", e.Index, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// FetchError is returned when a referenced transaction can not be retrieved
// from the explorer. It matches ErrFetchFailed and unwraps to the explorer
// error.
type FetchError struct {
	TxID string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: %s", ErrFetchFailed, e.TxID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

func newInternalError(err error) error {
	return fmt.Errorf("%w: %s", ErrInternal, err)
}

// providerError makes sure that any failure of the explorer matches
// explorer.ErrProvider.
func providerError(err error) error {
	if errors.Is(err, explorer.ErrProvider) {
		return err
	}
	return explorer.NewProviderError("%s", err)
}
