package explorer

import "fmt"

// HistoryResult is the outcome of an asynchronous history request.
type HistoryResult struct {
	History []byte
	Err     error
}

// TransactionResult is the outcome of an asynchronous raw transaction
// request.
type TransactionResult struct {
	TxHex string
	Err   error
}

// BroadcastResult is the outcome of an asynchronous broadcast.
type BroadcastResult struct {
	TxID string
	Err  error
}

// AsyncService runs the requests of the wrapped Service in the background.
// Every call delivers exactly one result, either through the returned
// channel or through the given completion handler. Channels are buffered so
// that a caller that loses interest in the result can simply drop it without
// leaking the goroutine serving the request.
type AsyncService struct {
	svc Service
}

// NewAsyncService returns an AsyncService wrapping the given Service.
func NewAsyncService(svc Service) (*AsyncService, error) {
	if svc == nil {
		return nil, ErrNullService
	}
	return &AsyncService{svc}, nil
}

// GetAddressHistory fetches the history of the address in background.
func (a *AsyncService) GetAddressHistory(address string) <-chan HistoryResult {
	chRes := make(chan HistoryResult, 1)
	go func() {
		defer close(chRes)
		var res HistoryResult
		res.Err = safeCall(func() (err error) {
			res.History, err = a.svc.GetAddressHistory(address)
			return
		})
		chRes <- res
	}()
	return chRes
}

// GetAddressHistoryWithHandler fetches the history of the address in
// background and calls handler once done.
func (a *AsyncService) GetAddressHistoryWithHandler(
	address string, handler func([]byte, error),
) {
	chRes := a.GetAddressHistory(address)
	go func() {
		res := <-chRes
		handler(res.History, res.Err)
	}()
}

// GetTransactionHex fetches the raw transaction in background.
func (a *AsyncService) GetTransactionHex(txid string) <-chan TransactionResult {
	chRes := make(chan TransactionResult, 1)
	go func() {
		defer close(chRes)
		var res TransactionResult
		res.Err = safeCall(func() (err error) {
			res.TxHex, err = a.svc.GetTransactionHex(txid)
			return
		})
		chRes <- res
	}()
	return chRes
}

// GetTransactionHexWithHandler fetches the raw transaction in background and
// calls handler once done.
func (a *AsyncService) GetTransactionHexWithHandler(
	txid string, handler func(string, error),
) {
	chRes := a.GetTransactionHex(txid)
	go func() {
		res := <-chRes
		handler(res.TxHex, res.Err)
	}()
}

// BroadcastTransaction relays the transaction in background.
func (a *AsyncService) BroadcastTransaction(txhex string) <-chan BroadcastResult {
	chRes := make(chan BroadcastResult, 1)
	go func() {
		defer close(chRes)
		var res BroadcastResult
		res.Err = safeCall(func() (err error) {
			res.TxID, err = a.svc.BroadcastTransaction(txhex)
			return
		})
		chRes <- res
	}()
	return chRes
}

// BroadcastTransactionWithHandler relays the transaction in background and
// calls handler once done.
func (a *AsyncService) BroadcastTransactionWithHandler(
	txhex string, handler func(string, error),
) {
	chRes := a.BroadcastTransaction(txhex)
	go func() {
		res := <-chRes
		handler(res.TxID, res.Err)
	}()
}

// safeCall turns a panic of the wrapped service into an error so that the
// single result of an async call is always delivered.
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewProviderError("%s", fmt.Sprint(r))
		}
	}()
	return fn()
}
