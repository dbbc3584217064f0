package explorer_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/coinjoin/pkg/explorer"
)

func TestCachedService(t *testing.T) {
	svc := &mockService{}
	svc.On("GetTransactionHex", "aa").Return("0100", nil).Once()
	svc.On("GetAddressHistory", "addr").Return([]byte(`{"transactions":[]}`), nil).Twice()

	cache := newMemCache()
	cached, err := explorer.NewCachedService(svc, cache)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		txhex, err := cached.GetTransactionHex("aa")
		require.NoError(t, err)
		require.Equal(t, "0100", txhex)
	}

	// Histories are never cached.
	for i := 0; i < 2; i++ {
		_, err := cached.GetAddressHistory("addr")
		require.NoError(t, err)
	}

	svc.AssertExpectations(t)
	svc.AssertNumberOfCalls(t, "GetTransactionHex", 1)
}

func TestCachedServiceDoesNotCacheFailures(t *testing.T) {
	svc := &mockService{}
	svc.On("GetTransactionHex", "aa").Return("", explorer.NewProviderError("not found"))

	cache := newMemCache()
	cached, err := explorer.NewCachedService(svc, cache)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := cached.GetTransactionHex("aa")
		require.True(t, errors.Is(err, explorer.ErrProvider))
	}
	require.Empty(t, cache.txs)
	svc.AssertNumberOfCalls(t, "GetTransactionHex", 2)
}

func TestCachedServiceWithBrokenCache(t *testing.T) {
	svc := &mockService{}
	svc.On("GetTransactionHex", "aa").Return("0100", nil)

	cache := newMemCache()
	cache.err = errors.New("cache is broken")
	cached, err := explorer.NewCachedService(svc, cache)
	require.NoError(t, err)

	txhex, err := cached.GetTransactionHex("aa")
	require.NoError(t, err)
	require.Equal(t, "0100", txhex)
}

func TestFailingNewCachedService(t *testing.T) {
	tests := []struct {
		svc           explorer.Service
		cache         explorer.TxCache
		expectedError error
	}{
		{nil, newMemCache(), explorer.ErrNullService},
		{&mockService{}, nil, explorer.ErrNullCache},
	}

	for _, tt := range tests {
		svc, err := explorer.NewCachedService(tt.svc, tt.cache)
		require.EqualError(t, err, tt.expectedError.Error())
		require.Nil(t, svc)
	}
}
