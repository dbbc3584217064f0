package esplora

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tdex-network/coinjoin/pkg/explorer"
)

// GetBlockHeight returns the height of the chain tip.
func (e *esplora) GetBlockHeight() (int, error) {
	url := fmt.Sprintf(
		"%v/blocks/tip/height",
		e.apiURL,
	)
	status, resp, err := e.client.NewHTTPRequest("GET", url, "", nil)
	if err != nil {
		return -1, err
	}
	if status != http.StatusOK {
		return -1, explorer.NewProviderError("%s", resp)
	}

	blockHeight, err := strconv.Atoi(strings.TrimSpace(resp))
	if err != nil {
		return -1, explorer.NewProviderError("invalid block height: %s", err)
	}

	return blockHeight, nil
}
