package esplora

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/coinjoin/pkg/explorer"
)

const (
	explorerURL = "http://localhost:3001"
	testAddress = "mrCDrCybB6J1vRfbwM5hemdJz73FwDBC8r"
)

func newService(t *testing.T) explorer.Service {
	httpmock.RegisterResponder(
		"GET", explorerURL+"/blocks/tip/height",
		httpmock.NewStringResponder(http.StatusOK, "101"),
	)
	svc, err := NewService(explorerURL, 1000, 100)
	require.NoError(t, err)
	return svc
}

func TestNewServiceHealthCheck(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(
		"GET", explorerURL+"/blocks/tip/height",
		httpmock.NewStringResponder(http.StatusNotFound, "not found"),
	)
	_, err := NewService(explorerURL, 1000, 100)
	require.Error(t, err)
	require.True(t, errors.Is(err, explorer.ErrProvider))
}

func TestGetAddressHistory(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	svc := newService(t)

	txs := `[
		{
			"txid": "aa",
			"vin": [{"txid": "bb", "vout": 1, "is_coinbase": false}],
			"vout": [
				{"scriptpubkey": "00", "scriptpubkey_address": "` + testAddress + `", "value": 5000},
				{"scriptpubkey": "6a", "value": 0}
			],
			"status": {"confirmed": true}
		},
		{
			"txid": "bb",
			"vin": [{"txid": "", "vout": 4294967295, "is_coinbase": true}],
			"vout": [{"scriptpubkey": "00", "scriptpubkey_address": "` + testAddress + `", "value": 7000}],
			"status": {"confirmed": true}
		}
	]`
	httpmock.RegisterResponder(
		"GET", fmt.Sprintf("%s/address/%s/txs", explorerURL, testAddress),
		httpmock.NewStringResponder(http.StatusOK, txs),
	)

	raw, err := svc.GetAddressHistory(testAddress)
	require.NoError(t, err)

	history, err := explorer.ParseHistory(raw)
	require.NoError(t, err)
	require.Len(t, history.Transactions, 2)

	tx := history.Transactions[0]
	require.Equal(t, "aa", tx.Hash)
	require.Len(t, tx.Inputs, 1)
	require.Equal(t, &explorer.PrevOut{Hash: "bb", N: 1}, tx.Inputs[0].PrevOut)
	require.Len(t, tx.Outputs, 2)
	require.Equal(t, testAddress, tx.Outputs[0].Address)
	require.Equal(t, int64(5000), tx.Outputs[0].Value)
	require.Empty(t, tx.Outputs[1].Address)

	coinbase := history.Transactions[1]
	require.Nil(t, coinbase.Inputs[0].PrevOut)
}

func TestGetAddressHistoryPagination(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	svc := newService(t)

	firstPage := "["
	for i := 0; i < confirmedTxsPerPage; i++ {
		if i > 0 {
			firstPage += ","
		}
		firstPage += fmt.Sprintf(
			`{"txid": "%02d", "vin": [], "vout": [], "status": {"confirmed": true}}`, i,
		)
	}
	firstPage += "]"
	secondPage := `[{"txid": "last", "vin": [], "vout": [], "status": {"confirmed": true}}]`

	httpmock.RegisterResponder(
		"GET", fmt.Sprintf("%s/address/%s/txs", explorerURL, testAddress),
		httpmock.NewStringResponder(http.StatusOK, firstPage),
	)
	httpmock.RegisterResponder(
		"GET", fmt.Sprintf(
			"%s/address/%s/txs/chain/%02d",
			explorerURL, testAddress, confirmedTxsPerPage-1,
		),
		httpmock.NewStringResponder(http.StatusOK, secondPage),
	)

	raw, err := svc.GetAddressHistory(testAddress)
	require.NoError(t, err)

	history, err := explorer.ParseHistory(raw)
	require.NoError(t, err)
	require.Len(t, history.Transactions, confirmedTxsPerPage+1)
	require.Equal(t, "last", history.Transactions[confirmedTxsPerPage].Hash)
}

func TestFailingGetAddressHistory(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	svc := newService(t)

	tests := []struct {
		status int
		body   string
	}{
		{http.StatusBadRequest, "Invalid Bitcoin address"},
		{http.StatusOK, `{"not": "a list"}`},
		{http.StatusOK, `[{"txid": "aa", "vout": [{"value": "ten"}]}]`},
	}

	for _, tt := range tests {
		httpmock.RegisterResponder(
			"GET", fmt.Sprintf("%s/address/%s/txs", explorerURL, testAddress),
			httpmock.NewStringResponder(tt.status, tt.body),
		)
		_, err := svc.GetAddressHistory(testAddress)
		require.Error(t, err)
		require.True(t, errors.Is(err, explorer.ErrProvider))
	}
}

func TestGetTransactionHex(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	svc := newService(t)

	httpmock.RegisterResponder(
		"GET", explorerURL+"/tx/aa/hex",
		httpmock.NewStringResponder(http.StatusOK, "0100\n"),
	)
	httpmock.RegisterResponder(
		"GET", explorerURL+"/tx/bb/hex",
		httpmock.NewStringResponder(http.StatusOK, "not hex"),
	)
	httpmock.RegisterResponder(
		"GET", explorerURL+"/tx/cc/hex",
		httpmock.NewStringResponder(http.StatusNotFound, "Transaction not found"),
	)

	txhex, err := svc.GetTransactionHex("aa")
	require.NoError(t, err)
	require.Equal(t, "0100", txhex)

	_, err = svc.GetTransactionHex("bb")
	require.True(t, errors.Is(err, explorer.ErrProvider))

	_, err = svc.GetTransactionHex("cc")
	require.True(t, errors.Is(err, explorer.ErrProvider))
}

func TestBroadcastTransaction(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	svc := newService(t)

	httpmock.RegisterResponder(
		"POST", explorerURL+"/tx",
		func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("Content-Type") != "text/plain" {
				return httpmock.NewStringResponse(http.StatusBadRequest, "bad content type"), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, "aa"), nil
		},
	)

	txid, err := svc.BroadcastTransaction("0100")
	require.NoError(t, err)
	require.Equal(t, "aa", txid)
}
