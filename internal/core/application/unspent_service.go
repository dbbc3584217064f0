package application

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/coinjoin/internal/core/domain"
	"github.com/tdex-network/coinjoin/pkg/explorer"
)

// UnspentService resolves the unspent set of an address from its raw
// transaction history.
type UnspentService interface {
	GetUnspents(ctx context.Context, address string) ([]domain.Unspent, error)
	IsSpent(
		ctx context.Context, address string, key domain.UnspentKey,
	) (bool, error)
}

type unspentService struct {
	explorerSvc explorer.Service
}

func NewUnspentService(explorerSvc explorer.Service) UnspentService {
	return newUnspentService(explorerSvc)
}

func newUnspentService(explorerSvc explorer.Service) *unspentService {
	return &unspentService{explorerSvc}
}

// GetUnspents returns the outputs paid to the address that are not spent by
// any transaction of its history.
func (s *unspentService) GetUnspents(
	ctx context.Context, address string,
) ([]domain.Unspent, error) {
	history, err := s.getHistory(ctx, address)
	if err != nil {
		return nil, err
	}

	unspents := domain.UnspentsFromHistory(address, history.Transactions)
	log.Debugf("found %d unspents for address %s", len(unspents), address)
	return unspents, nil
}

// IsSpent returns whether any transaction of the address history spends the
// output identified by key.
func (s *unspentService) IsSpent(
	ctx context.Context, address string, key domain.UnspentKey,
) (bool, error) {
	history, err := s.getHistory(ctx, address)
	if err != nil {
		return false, err
	}
	return domain.IsSpentInHistory(key, history.Transactions), nil
}

func (s *unspentService) getHistory(
	ctx context.Context, address string,
) (*explorer.History, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := s.explorerSvc.GetAddressHistory(address)
	if err != nil {
		return nil, providerError(err)
	}
	return explorer.ParseHistory(raw)
}

func unspentsFromRawHistory(address string, raw []byte) ([]domain.Unspent, error) {
	history, err := explorer.ParseHistory(raw)
	if err != nil {
		return nil, err
	}
	return domain.UnspentsFromHistory(address, history.Transactions), nil
}
