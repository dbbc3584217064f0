package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/coinjoin/config"
	"github.com/tdex-network/coinjoin/internal/core/application"
	"github.com/tdex-network/coinjoin/internal/core/domain"
	txcachestore "github.com/tdex-network/coinjoin/internal/infrastructure/storage/txcache/badger"
	"github.com/tdex-network/coinjoin/pkg/explorer"
	"github.com/urfave/cli/v2"
)

var registry = prometheus.NewRegistry()

func main() {
	app := cli.NewApp()

	app.Version = "0.0.1"
	app.Name = "coinjoin"
	app.Usage = "Command line interface to assemble, sign and verify coin join transactions"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "metrics",
			Usage: "print the collected metrics once the command is done",
		},
	}
	app.Before = setup
	app.After = dumpMetrics
	app.Commands = append(
		app.Commands,
		&unspents,
		&input,
		&assemble,
		&sign,
		&verify,
		&broadcast,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func setup(ctx *cli.Context) error {
	if err := config.InitConfig(); err != nil {
		return err
	}
	log.SetLevel(config.GetLogLevel())
	log.SetOutput(os.Stderr)

	collectors := append(explorer.Collectors(), application.Collectors()...)
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
	}
	return nil
}

func dumpMetrics(ctx *cli.Context) error {
	if !ctx.Bool("metrics") {
		return nil
	}

	families, err := registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(os.Stderr, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

func getCoinJoinService() (application.CoinJoinService, func(), error) {
	explorerSvc, err := config.GetExplorer()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to connect to explorer: %w", err)
	}
	cleanup := func() {}

	if !config.GetBool(config.NoTxCacheKey) {
		store, err := txcachestore.NewTxCacheStore(config.GetDbDir(), nil)
		if err != nil {
			return nil, nil, err
		}
		explorerSvc, err = explorer.NewCachedService(explorerSvc, store)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		cleanup = func() {
			if err := store.Close(); err != nil {
				log.WithError(err).Warn("failed to close tx cache")
			}
		}
	}

	svc, err := application.NewCoinJoinService(explorerSvc, config.GetNetwork())
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

func readTransaction(path string) (*domain.Transaction, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading transaction: %w", err)
	}
	return domain.NewTransactionFromJSON(data)
}

func printJSON(resp interface{}) {
	b, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}
	fmt.Println(string(b))
}

// formatAmount returns the given amount of satoshis in BTC.
func formatAmount(sats int64) string {
	return decimal.NewFromInt(sats).Shift(-8).StringFixed(8)
}

// parseAmount parses an amount in BTC and returns it in satoshis.
func parseAmount(amount string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %s", amount)
	}
	sats := d.Shift(8)
	if !sats.IsInteger() || !sats.IsPositive() {
		return 0, fmt.Errorf("invalid amount %s", amount)
	}
	return sats.IntPart(), nil
}

// parseOutpoint parses a txid:vout string.
func parseOutpoint(outpoint string) (string, uint32, error) {
	parts := strings.Split(outpoint, ":")
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("invalid outpoint %s, must be txid:vout", outpoint)
	}
	vout, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return "", 0, fmt.Errorf("invalid outpoint index %s", parts[1])
	}
	return parts[0], uint32(vout), nil
}

func commandContext(ctx *cli.Context) context.Context {
	if ctx.Context != nil {
		return ctx.Context
	}
	return context.Background()
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[coinjoin] %v\n", err)
	}
	os.Exit(1)
}
