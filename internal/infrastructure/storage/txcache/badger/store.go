package txcachestore

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/coinjoin/pkg/explorer"
	"github.com/timshannon/badgerhold/v4"
)

const gcInterval = 30 * time.Minute

type transaction struct {
	TxID      string `badgerhold:"key"`
	Hex       string
	CreatedAt int64
}

// TxCacheStore is the badger implementation of explorer.TxCache.
type TxCacheStore struct {
	store  *badgerhold.Store
	chStop chan struct{}
}

// NewTxCacheStore opens (or creates if not exists) the cache db in the txs
// subdirectory of baseDbDir. An empty baseDbDir makes the cache in-memory.
func NewTxCacheStore(
	baseDbDir string, logger badger.Logger,
) (*TxCacheStore, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "txs")
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening tx cache db: %w", err)
	}

	s := &TxCacheStore{store, make(chan struct{})}
	if len(dbDir) > 0 {
		go s.runValueLogGC()
	}
	return s, nil
}

var _ explorer.TxCache = (*TxCacheStore)(nil)

func (s *TxCacheStore) GetTransactionHex(txid string) (string, bool, error) {
	var tx transaction
	if err := s.store.Get(txid, &tx); err != nil {
		if err == badgerhold.ErrNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	return tx.Hex, true, nil
}

func (s *TxCacheStore) AddTransactionHex(txid, txhex string) error {
	tx := transaction{
		TxID:      txid,
		Hex:       txhex,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.store.Insert(txid, &tx); err != nil {
		if err == badgerhold.ErrKeyExists {
			return nil
		}
		return err
	}
	return nil
}

// Count returns the number of cached transactions.
func (s *TxCacheStore) Count() (uint64, error) {
	return s.store.Count(&transaction{}, nil)
}

// Close stops the value log GC, if running, and closes the db.
func (s *TxCacheStore) Close() error {
	close(s.chStop)
	return s.store.Close()
}

func (s *TxCacheStore) runValueLogGC() {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.chStop:
			return
		case <-ticker.C:
			if err := s.store.Badger().RunValueLogGC(0.5); err != nil &&
				err != badger.ErrNoRewrite {
				log.Error(err)
			}
		}
	}
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
