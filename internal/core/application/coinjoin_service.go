package application

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/coinjoin/internal/core/domain"
	"github.com/tdex-network/coinjoin/pkg/explorer"
)

// CoinJoinService bundles every operation a participant performs during a
// coin join round, from listing its unspents to relaying the signed
// transaction.
type CoinJoinService interface {
	ListUnspents(ctx context.Context, address string) ([]domain.Unspent, error)
	ValidateInput(
		ctx context.Context, privateKey, txid string, vout uint32,
	) (*domain.Input, error)
	AssembleTransaction(
		ctx context.Context,
		unspents []domain.Unspent,
		outputs []domain.TxOutputSpec,
	) (*domain.Transaction, error)
	CreateInputScript(
		ctx context.Context, tx *domain.Transaction, index int, privateKey string,
	) ([]byte, error)
	SignInput(
		ctx context.Context, tx *domain.Transaction, index int, script []byte,
	) error
	VerifyInput(
		ctx context.Context, tx *domain.Transaction, index int,
	) (ScriptVerdict, error)
	IsInputUnspent(ctx context.Context, tx *domain.Transaction, index int) bool
	IsScriptSigValid(
		ctx context.Context, tx *domain.Transaction, index int, script []byte,
	) bool
	BroadcastTransaction(
		ctx context.Context, tx *domain.Transaction,
	) (string, error)

	BuildMessageVerification(
		coinJoin *domain.CoinJoin, decryptionCtx domain.DecryptionContext,
	) (*domain.MessageVerification, error)
	ParseMessageVerification(
		payload []byte,
		decryptionCtx domain.DecryptionContext,
		coinJoin *domain.CoinJoin,
	) (*domain.MessageVerification, error)

	ListUnspentsAsync(
		address string, handler func([]domain.Unspent, error),
	)
	AssembleTransactionAsync(
		ctx context.Context,
		unspents []domain.Unspent,
		outputs []domain.TxOutputSpec,
		handler func(*domain.Transaction, error),
	)
	BroadcastTransactionAsync(
		ctx context.Context,
		tx *domain.Transaction,
		handler func(string, error),
	)
}

type coinJoinService struct {
	explorerSvc   explorer.Service
	asyncExplorer *explorer.AsyncService
	unspentSvc    UnspentService
	inputSvc      InputService
	assembler     TransactionAssembler
	validator     InputValidator
	signer        InputSigner
}

// NewCoinJoinService returns a CoinJoinService using the given explorer for
// the given network.
func NewCoinJoinService(
	explorerSvc explorer.Service, network *chaincfg.Params,
) (CoinJoinService, error) {
	if explorerSvc == nil {
		return nil, explorer.ErrNullService
	}
	if network == nil {
		return nil, domain.ErrNullNetwork
	}

	asyncExplorer, err := explorer.NewAsyncService(explorerSvc)
	if err != nil {
		return nil, err
	}
	unspentSvc := newUnspentService(explorerSvc)
	validator := newInputValidator(unspentSvc, network)

	return &coinJoinService{
		explorerSvc:   explorerSvc,
		asyncExplorer: asyncExplorer,
		unspentSvc:    unspentSvc,
		inputSvc:      NewInputService(unspentSvc, network),
		assembler:     newTransactionAssembler(explorerSvc, network),
		validator:     validator,
		signer:        newInputSigner(validator, network),
	}, nil
}

func (s *coinJoinService) ListUnspents(
	ctx context.Context, address string,
) ([]domain.Unspent, error) {
	return s.unspentSvc.GetUnspents(ctx, address)
}

func (s *coinJoinService) ValidateInput(
	ctx context.Context, privateKey, txid string, vout uint32,
) (*domain.Input, error) {
	return s.inputSvc.ValidateInput(ctx, privateKey, txid, vout)
}

func (s *coinJoinService) AssembleTransaction(
	ctx context.Context,
	unspents []domain.Unspent,
	outputs []domain.TxOutputSpec,
) (*domain.Transaction, error) {
	return s.assembler.AssembleTransaction(ctx, unspents, outputs)
}

func (s *coinJoinService) CreateInputScript(
	ctx context.Context, tx *domain.Transaction, index int, privateKey string,
) ([]byte, error) {
	return s.signer.CreateInputScript(ctx, tx, index, privateKey)
}

func (s *coinJoinService) SignInput(
	ctx context.Context, tx *domain.Transaction, index int, script []byte,
) error {
	return s.signer.SignTransactionInput(ctx, tx, index, script)
}

func (s *coinJoinService) VerifyInput(
	ctx context.Context, tx *domain.Transaction, index int,
) (ScriptVerdict, error) {
	return s.validator.VerifyInput(ctx, tx, index)
}

func (s *coinJoinService) IsInputUnspent(
	ctx context.Context, tx *domain.Transaction, index int,
) bool {
	return s.signer.IsTransactionInputUnspent(ctx, tx, index)
}

func (s *coinJoinService) IsScriptSigValid(
	ctx context.Context, tx *domain.Transaction, index int, script []byte,
) bool {
	return s.signer.IsScriptSigValid(ctx, tx, index, script)
}

func (s *coinJoinService) BroadcastTransaction(
	ctx context.Context, tx *domain.Transaction,
) (string, error) {
	txhex, err := s.prepareBroadcast(ctx, tx)
	if err != nil {
		return "", err
	}

	txid, err := s.explorerSvc.BroadcastTransaction(txhex)
	if err != nil {
		return "", providerError(err)
	}
	log.Infof("broadcasted transaction %s", txid)
	return txid, nil
}

func (s *coinJoinService) BuildMessageVerification(
	coinJoin *domain.CoinJoin, decryptionCtx domain.DecryptionContext,
) (*domain.MessageVerification, error) {
	return domain.BuildMessageVerification(coinJoin, decryptionCtx)
}

// ParseMessageVerification parses the given payload and validates it. In
// case of violations both the parsed message verification and the
// domain.ValidationErrors are returned.
func (s *coinJoinService) ParseMessageVerification(
	payload []byte,
	decryptionCtx domain.DecryptionContext,
	coinJoin *domain.CoinJoin,
) (*domain.MessageVerification, error) {
	mv, err := domain.NewMessageVerificationFromJSON(
		payload, decryptionCtx, coinJoin,
	)
	if err != nil {
		return nil, err
	}

	if errs := mv.Validate(); !errs.IsEmpty() {
		log.Warnf("invalid message verification: %s", errs)
		return mv, errs
	}
	return mv, nil
}

func (s *coinJoinService) ListUnspentsAsync(
	address string, handler func([]domain.Unspent, error),
) {
	s.asyncExplorer.GetAddressHistoryWithHandler(
		address,
		func(raw []byte, err error) {
			if err != nil {
				handler(nil, providerError(err))
				return
			}
			handler(unspentsFromRawHistory(address, raw))
		},
	)
}

func (s *coinJoinService) AssembleTransactionAsync(
	ctx context.Context,
	unspents []domain.Unspent,
	outputs []domain.TxOutputSpec,
	handler func(*domain.Transaction, error),
) {
	go func() {
		var tx *domain.Transaction
		err := safeRun(func() (err error) {
			tx, err = s.AssembleTransaction(ctx, unspents, outputs)
			return
		})
		handler(tx, err)
	}()
}

func (s *coinJoinService) BroadcastTransactionAsync(
	ctx context.Context,
	tx *domain.Transaction,
	handler func(string, error),
) {
	go func() {
		var txhex string
		err := safeRun(func() (err error) {
			txhex, err = s.prepareBroadcast(ctx, tx)
			return
		})
		if err != nil {
			handler("", err)
			return
		}

		s.asyncExplorer.BroadcastTransactionWithHandler(
			txhex,
			func(txid string, err error) {
				if err != nil {
					handler("", providerError(err))
					return
				}
				log.Infof("broadcasted transaction %s", txid)
				handler(txid, nil)
			},
		)
	}()
}

// prepareBroadcast makes sure every input of the transaction is signed with
// a valid script before serializing it.
func (s *coinJoinService) prepareBroadcast(
	ctx context.Context, tx *domain.Transaction,
) (string, error) {
	if tx == nil || !tx.IsComplete() {
		return "", ErrTxNotComplete
	}

	for i := range tx.Inputs {
		verdict, err := s.validator.VerifyInput(ctx, tx, i)
		if err != nil {
			return "", err
		}
		switch verdict {
		case ScriptValid:
		case ScriptAlreadySpent:
			return "", &InputError{i, ErrAlreadySpent}
		default:
			return "", &InputError{i, ErrInvalidSignature}
		}
	}

	txhex, err := tx.Hex()
	if err != nil {
		return "", newInternalError(err)
	}
	return txhex, nil
}

// safeRun turns a panic into an ErrInternal so that the handler of an async
// call is always invoked.
func safeRun(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newInternalError(fmt.Errorf("%v", r))
		}
	}()
	return fn()
}
