package application

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/coinjoin/internal/core/domain"
	"github.com/tdex-network/coinjoin/pkg/wallet"
)

// InputService turns a private key and an outpoint into an Input that can be
// contributed to a coin join.
type InputService interface {
	ValidateInput(
		ctx context.Context, privateKey, txid string, vout uint32,
	) (*domain.Input, error)
}

type inputService struct {
	unspentSvc UnspentService
	network    *chaincfg.Params
}

func NewInputService(
	unspentSvc UnspentService, network *chaincfg.Params,
) InputService {
	return &inputService{unspentSvc, network}
}

// ValidateInput makes sure the outpoint is an unspent of the address of the
// given private key.
func (s *inputService) ValidateInput(
	ctx context.Context, privateKey, txid string, vout uint32,
) (*domain.Input, error) {
	input, err := s.validateInput(ctx, privateKey, txid, vout)
	countCheck(checkInput, err == nil, err)
	if err != nil {
		return nil, err
	}
	return input, nil
}

func (s *inputService) validateInput(
	ctx context.Context, privateKey, txid string, vout uint32,
) (*domain.Input, error) {
	keyPair, err := wallet.ParsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	addr, err := keyPair.Address(s.network)
	if err != nil {
		return nil, err
	}

	unspents, err := s.unspentSvc.GetUnspents(ctx, addr)
	if err != nil {
		return nil, err
	}

	key := domain.UnspentKey{TxID: txid, VOut: vout}
	for _, u := range unspents {
		if u.IsKeyEqual(key) {
			log.Debugf("validated input %s of address %s", key, addr)
			return &domain.Input{
				Address:   addr,
				Amount:    u.Value,
				PublicKey: keyPair.PublicKey(),
			}, nil
		}
	}

	log.Warnf("outpoint %s is not an unspent of address %s", key, addr)
	return nil, fmt.Errorf("%w: %s", ErrUnspentNotFound, key)
}
