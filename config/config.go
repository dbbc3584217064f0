package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tdex-network/coinjoin/pkg/explorer"
	"github.com/tdex-network/coinjoin/pkg/explorer/esplora"
)

const (
	// NetworkKey is the network to use, one of mainnet, testnet, regtest or
	// simnet
	NetworkKey = "NETWORK"
	// ExplorerEndpointKey is the endpoint where the Esplora REST API is
	// listening
	ExplorerEndpointKey = "EXPLORER_ENDPOINT"
	// ExplorerRequestTimeoutKey are the milliseconds to wait for HTTP responses
	// before timeouts
	ExplorerRequestTimeoutKey = "EXPLORER_REQUEST_TIMEOUT"
	// ExplorerRateLimitKey is the max number of requests per second made to
	// the explorer
	ExplorerRateLimitKey = "EXPLORER_RATE_LIMIT"
	// DatadirKey is the local data directory where raw transactions are cached
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// NoTxCacheKey disables the cache of raw transactions fetched from the
	// explorer
	NoTxCacheKey = "NO_TX_CACHE"
	// FeeRateKey is the fee rate in millisatoshi per byte used to estimate the
	// network fees of assembled transactions
	FeeRateKey = "FEE_RATE"

	DbLocation = "db"
)

var (
	vip            *viper.Viper
	defaultDatadir = btcutil.AppDataDir("coinjoin", false)

	networks = map[string]*chaincfg.Params{
		"mainnet": &chaincfg.MainNetParams,
		"testnet": &chaincfg.TestNet3Params,
		"regtest": &chaincfg.RegressionNetParams,
		"simnet":  &chaincfg.SimNetParams,
		"signet":  &chaincfg.SigNetParams,
	}
)

// InitConfig sets the defaults, reads the environment (COINJOIN_ prefixed
// variables) and validates the resulting configuration.
func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("COINJOIN")
	vip.AutomaticEnv()

	vip.SetDefault(NetworkKey, "mainnet")
	vip.SetDefault(ExplorerEndpointKey, "https://blockstream.info/api")
	vip.SetDefault(ExplorerRequestTimeoutKey, 15000)
	vip.SetDefault(ExplorerRateLimitKey, explorer.DefaultRateLimit)
	vip.SetDefault(LogLevelKey, int(log.InfoLevel))
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(NoTxCacheKey, false)
	vip.SetDefault(FeeRateKey, 1000)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %w", err)
	}

	if !GetBool(NoTxCacheKey) {
		if err := makeDirectoryIfNotExists(GetDbDir()); err != nil {
			return fmt.Errorf("error while creating datadir: %w", err)
		}
	}
	return nil
}

// GetString ...
func GetString(key string) string {
	return vip.GetString(key)
}

// GetInt ...
func GetInt(key string) int {
	return vip.GetInt(key)
}

// GetDuration ...
func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

// GetBool ...
func GetBool(key string) bool {
	return vip.GetBool(key)
}

// Set a value for the given key
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

// IsSet returns whether the give key is set
func IsSet(key string) bool {
	return vip.IsSet(key)
}

// GetNetwork ...
func GetNetwork() *chaincfg.Params {
	return networks[strings.ToLower(GetString(NetworkKey))]
}

// GetLogLevel ...
func GetLogLevel() log.Level {
	return log.Level(GetInt(LogLevelKey))
}

// GetDatadir returns the data directory, specific for the current network.
func GetDatadir() string {
	return filepath.Join(GetString(DatadirKey), GetNetwork().Name)
}

// GetDbDir returns the directory of the raw transaction cache.
func GetDbDir() string {
	return filepath.Join(GetDatadir(), DbLocation)
}

// GetExplorer ...
func GetExplorer() (explorer.Service, error) {
	endpoint := GetString(ExplorerEndpointKey)
	reqTimeout := GetInt(ExplorerRequestTimeoutKey)
	rateLimit := GetInt(ExplorerRateLimitKey)
	return esplora.NewService(endpoint, reqTimeout, rateLimit)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("datadir must not be null")
	}

	if GetNetwork() == nil {
		return fmt.Errorf(
			"network must be one of 'mainnet', 'testnet', 'regtest', 'simnet' or 'signet'",
		)
	}

	explorerEndpoint := GetString(ExplorerEndpointKey)
	u, err := url.Parse(explorerEndpoint)
	if err != nil {
		return fmt.Errorf("explorer endpoint is not a valid url: %s", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("explorer endpoint must be an http(s) url")
	}

	if GetInt(ExplorerRequestTimeoutKey) <= 0 {
		return fmt.Errorf("explorer request timeout must be a positive number")
	}
	if GetInt(ExplorerRateLimitKey) <= 0 {
		return fmt.Errorf("explorer rate limit must be a positive number")
	}

	logLevel := GetInt(LogLevelKey)
	if logLevel < int(log.PanicLevel) || logLevel > int(log.TraceLevel) {
		return fmt.Errorf(
			"log level must be in range [%d, %d]", log.PanicLevel, log.TraceLevel,
		)
	}

	if GetInt(FeeRateKey) < 0 {
		return fmt.Errorf("fee rate must not be a negative number")
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
