package explorer

import (
	log "github.com/sirupsen/logrus"
)

// TxCache stores raw transactions by hash. Transactions are immutable once
// they have a hash, therefore entries never expire.
type TxCache interface {
	GetTransactionHex(txid string) (txhex string, found bool, err error)
	AddTransactionHex(txid, txhex string) error
}

type cachedService struct {
	Service
	cache TxCache
}

// NewCachedService returns a Service that serves raw transactions from the
// given cache when possible and populates it otherwise. Address histories
// and broadcasts always reach the wrapped Service.
func NewCachedService(svc Service, cache TxCache) (Service, error) {
	if svc == nil {
		return nil, ErrNullService
	}
	if cache == nil {
		return nil, ErrNullCache
	}
	return &cachedService{svc, cache}, nil
}

func (s *cachedService) GetTransactionHex(txid string) (string, error) {
	txhex, found, err := s.cache.GetTransactionHex(txid)
	if err != nil {
		log.WithError(err).Warnf("failed to read tx %s from cache", txid)
	}
	if found {
		return txhex, nil
	}

	txhex, err = s.Service.GetTransactionHex(txid)
	if err != nil {
		return "", err
	}

	if err := s.cache.AddTransactionHex(txid, txhex); err != nil {
		log.WithError(err).Warnf("failed to add tx %s to cache", txid)
	}
	return txhex, nil
}
