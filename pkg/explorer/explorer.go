package explorer

import (
	"errors"
	"fmt"
)

var (
	// ErrProvider is returned, wrapped, whenever the chain data provider can
	// not be reached or returns something that does not match the expected
	// format.
	ErrProvider = errors.New("chain data provider error")
	// ErrNullService ...
	ErrNullService = errors.New("explorer service must not be null")
	// ErrNullCache ...
	ErrNullCache = errors.New("transaction cache must not be null")
)

// Service is the representation of a chain data provider that allows to
// fetch the transaction history of an address, raw transactions given their
// hash and to broadcast signed transactions.
type Service interface {
	// GetAddressHistory returns the raw JSON document listing every
	// transaction that involves the given address, in the canonical format
	// parsed by ParseHistory.
	GetAddressHistory(address string) ([]byte, error)
	// GetTransactionHex fetches the transaction in hex format given its hash.
	GetTransactionHex(txid string) (string, error)
	// BroadcastTransaction attempts to add the given tx in hex format to the
	// mempool and returns its tx hash.
	BroadcastTransaction(txhex string) (string, error)
}

// NewProviderError wraps the given error with ErrProvider.
func NewProviderError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrProvider, fmt.Sprintf(format, args...))
}
