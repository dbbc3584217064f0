package explorer_test

import (
	"sync"

	"github.com/stretchr/testify/mock"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetAddressHistory(address string) ([]byte, error) {
	args := m.Called(address)
	var res []byte
	if a := args.Get(0); a != nil {
		res = a.([]byte)
	}
	return res, args.Error(1)
}

func (m *mockService) GetTransactionHex(txid string) (string, error) {
	args := m.Called(txid)
	return args.String(0), args.Error(1)
}

func (m *mockService) BroadcastTransaction(txhex string) (string, error) {
	args := m.Called(txhex)
	return args.String(0), args.Error(1)
}

type memCache struct {
	lock sync.Mutex
	txs  map[string]string
	err  error
}

func newMemCache() *memCache {
	return &memCache{txs: make(map[string]string)}
}

func (c *memCache) GetTransactionHex(txid string) (string, bool, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.err != nil {
		return "", false, c.err
	}
	txhex, ok := c.txs[txid]
	return txhex, ok, nil
}

func (c *memCache) AddTransactionHex(txid, txhex string) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.err != nil {
		return c.err
	}
	c.txs[txid] = txhex
	return nil
}
