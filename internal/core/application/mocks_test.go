package application_test

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// **** Explorer ****

type mockExplorer struct {
	mock.Mock
}

func (m *mockExplorer) GetAddressHistory(address string) ([]byte, error) {
	args := m.Called(address)

	var res []byte
	if a := args.Get(0); a != nil {
		res = a.([]byte)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) GetTransactionHex(txid string) (string, error) {
	args := m.Called(txid)

	var res string
	if a := args.Get(0); a != nil {
		res = a.(string)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) BroadcastTransaction(txhex string) (string, error) {
	args := m.Called(txhex)

	var res string
	if a := args.Get(0); a != nil {
		res = a.(string)
	}
	return res, args.Error(1)
}

// slowExplorer delays every address history request of the wrapped explorer.
type slowExplorer struct {
	*mockExplorer
	delay time.Duration
}

func (s slowExplorer) GetAddressHistory(address string) ([]byte, error) {
	time.Sleep(s.delay)
	return s.mockExplorer.GetAddressHistory(address)
}
