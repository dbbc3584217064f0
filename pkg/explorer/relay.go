package explorer

import "errors"

// RelayResult is the outcome of relaying a signed transaction: either the
// hash of the accepted transaction or an error with an optional detail.
type RelayResult struct {
	Hash   string `json:"hash,omitempty"`
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// NewRelayResult returns the RelayResult for the outcome of a broadcast.
func NewRelayResult(txid string, err error) RelayResult {
	if err == nil {
		return RelayResult{Hash: txid}
	}

	msg := "relay failed"
	if errors.Is(err, ErrProvider) {
		msg = ErrProvider.Error()
	}
	return RelayResult{Error: msg, Detail: err.Error()}
}

// IsSuccess returns whether the transaction has been accepted.
func (r RelayResult) IsSuccess() bool {
	return len(r.Hash) > 0 && len(r.Error) <= 0
}
