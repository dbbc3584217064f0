package explorer_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/coinjoin/pkg/explorer"
)

func TestAsyncService(t *testing.T) {
	svc := &mockService{}
	svc.On("GetAddressHistory", "addr").Return([]byte(`{"transactions":[]}`), nil)
	svc.On("GetTransactionHex", "aa").Return("0100", nil)
	svc.On("BroadcastTransaction", "0100").Return("", explorer.NewProviderError("rejected"))

	async, err := explorer.NewAsyncService(svc)
	require.NoError(t, err)

	historyRes := <-async.GetAddressHistory("addr")
	require.NoError(t, historyRes.Err)
	require.Equal(t, []byte(`{"transactions":[]}`), historyRes.History)

	txRes := <-async.GetTransactionHex("aa")
	require.NoError(t, txRes.Err)
	require.Equal(t, "0100", txRes.TxHex)

	chRes := async.BroadcastTransaction("0100")
	broadcastRes := <-chRes
	require.True(t, errors.Is(broadcastRes.Err, explorer.ErrProvider))

	// Exactly one result is delivered, the channel is closed afterwards.
	_, ok := <-chRes
	require.False(t, ok)

	svc.AssertExpectations(t)
}

func TestAsyncServiceWithHandler(t *testing.T) {
	svc := &mockService{}
	svc.On("GetTransactionHex", mock.Anything).Return("0100", nil)

	async, err := explorer.NewAsyncService(svc)
	require.NoError(t, err)

	done := make(chan string)
	async.GetTransactionHexWithHandler("aa", func(txhex string, err error) {
		require.NoError(t, err)
		done <- txhex
	})

	select {
	case txhex := <-done:
		require.Equal(t, "0100", txhex)
	case <-time.After(2 * time.Second):
		t.Fatal("handler has not been called")
	}
}

func TestAsyncServiceRecoversPanic(t *testing.T) {
	svc := &mockService{}
	svc.On("GetAddressHistory", "addr").Run(func(mock.Arguments) {
		panic("boom")
	}).Return(nil, nil)

	async, err := explorer.NewAsyncService(svc)
	require.NoError(t, err)

	res := <-async.GetAddressHistory("addr")
	require.Error(t, res.Err)
	require.True(t, errors.Is(res.Err, explorer.ErrProvider))
	require.Nil(t, res.History)
}

func TestFailingNewAsyncService(t *testing.T) {
	async, err := explorer.NewAsyncService(nil)
	require.EqualError(t, err, explorer.ErrNullService.Error())
	require.Nil(t, async)
}
