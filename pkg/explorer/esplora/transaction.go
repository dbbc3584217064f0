package esplora

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/tdex-network/coinjoin/pkg/explorer"
)

// esplora returns at most this number of confirmed txs per page.
const confirmedTxsPerPage = 25

func (e *esplora) GetAddressHistory(address string) ([]byte, error) {
	url := fmt.Sprintf("%s/address/%s/txs", e.apiURL, address)
	page, err := e.getTransactions(url)
	if err != nil {
		return nil, err
	}

	history := &explorer.History{
		Transactions: make([]explorer.HistoryTx, 0, len(page)),
	}
	for {
		lastConfirmed := ""
		numConfirmed := 0
		for _, t := range page {
			history.Transactions = append(history.Transactions, t.toHistoryTx())
			if t.Status.Confirmed {
				lastConfirmed = t.TxID
				numConfirmed++
			}
		}
		if numConfirmed < confirmedTxsPerPage {
			break
		}

		url := fmt.Sprintf(
			"%s/address/%s/txs/chain/%s", e.apiURL, address, lastConfirmed,
		)
		if page, err = e.getTransactions(url); err != nil {
			return nil, err
		}
	}

	return history.Serialize()
}

func (e *esplora) GetTransactionHex(hash string) (string, error) {
	url := fmt.Sprintf(
		"%s/tx/%s/hex",
		e.apiURL,
		hash,
	)
	status, resp, err := e.client.NewHTTPRequest("GET", url, "", nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", explorer.NewProviderError("%s", resp)
	}

	txhex := strings.TrimSpace(resp)
	if _, err := hex.DecodeString(txhex); err != nil {
		return "", explorer.NewProviderError("transaction is not in hex format")
	}
	return txhex, nil
}

func (e *esplora) BroadcastTransaction(txHex string) (string, error) {
	url := fmt.Sprintf("%s/tx", e.apiURL)
	headers := map[string]string{
		"Content-Type": "text/plain",
	}

	status, resp, err := e.client.NewHTTPRequest(
		"POST",
		url,
		txHex,
		headers,
	)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", explorer.NewProviderError("%s", resp)
	}

	return strings.TrimSpace(resp), nil
}

func (e *esplora) getTransactions(url string) ([]tx, error) {
	status, resp, err := e.client.NewHTTPRequest("GET", url, "", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, explorer.NewProviderError("%s", resp)
	}

	txs := make([]tx, 0)
	if err := json.Unmarshal([]byte(resp), &txs); err != nil {
		return nil, explorer.NewProviderError("malformed transaction list: %s", err)
	}
	return txs, nil
}
