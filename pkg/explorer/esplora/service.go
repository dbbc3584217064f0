package esplora

import (
	"fmt"
	"strings"
	"time"

	"github.com/tdex-network/coinjoin/pkg/explorer"
)

type esplora struct {
	apiURL string
	client *explorer.Client
}

// NewService returns a new esplora service as an explorer.Service interface.
// The request timeout is expressed in milliseconds, the rate limit in
// requests per second; zero values select the client defaults.
func NewService(
	apiURL string, requestTimeout, rateLimit int,
) (explorer.Service, error) {
	if len(apiURL) <= 0 {
		return nil, fmt.Errorf("missing explorer endpoint")
	}

	client := explorer.NewClient(explorer.ClientOpts{
		RequestTimeout: time.Duration(requestTimeout) * time.Millisecond,
		RateLimit:      rateLimit,
	})
	service := &esplora{strings.TrimSuffix(apiURL, "/"), client}

	if err := service.healthCheck(); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}

	return service, nil
}

func (e *esplora) healthCheck() error {
	_, err := e.GetBlockHeight()
	return err
}
