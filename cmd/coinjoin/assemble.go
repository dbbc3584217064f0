package main

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/coinjoin/config"
	"github.com/tdex-network/coinjoin/internal/core/domain"
	"github.com/tdex-network/coinjoin/pkg/wallet"
	"github.com/urfave/cli/v2"
)

var assemble = cli.Command{
	Name:  "assemble",
	Usage: "assemble an unsigned transaction spending the given unspents",
	Description: "The estimated fee counts every P2PKH input as signed with a " +
		"compressed public key.",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:     "input",
			Usage:    "an unspent to spend in the form txid:vout",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:     "output",
			Usage:    "a receiver in the form address:amount, with amount in BTC",
			Required: true,
		},
	},
	Action: assembleAction,
}

type assembleResponse struct {
	Transaction  *domain.Transaction `json:"transaction"`
	Hex          string              `json:"hex"`
	InputAmount  string              `json:"input_amount"`
	OutputAmount string              `json:"output_amount"`
	EstimatedFee string              `json:"estimated_fee"`
}

func assembleAction(ctx *cli.Context) error {
	unspentList := make([]domain.Unspent, 0)
	for _, in := range ctx.StringSlice("input") {
		txid, vout, err := parseOutpoint(in)
		if err != nil {
			return err
		}
		unspentList = append(unspentList, domain.Unspent{TxID: txid, VOut: vout})
	}

	outputs := make([]domain.TxOutputSpec, 0)
	for _, out := range ctx.StringSlice("output") {
		parts := strings.Split(out, ":")
		if len(parts) != 2 {
			return fmt.Errorf("invalid output %s, must be address:amount", out)
		}
		amount, err := parseAmount(parts[1])
		if err != nil {
			return err
		}
		outputs = append(outputs, domain.TxOutputSpec{
			Address: parts[0],
			Amount:  amount,
		})
	}

	svc, cleanup, err := getCoinJoinService()
	if err != nil {
		return err
	}
	defer cleanup()

	tx, err := svc.AssembleTransaction(commandContext(ctx), unspentList, outputs)
	if err != nil {
		return err
	}

	txhex, err := tx.Hex()
	if err != nil {
		return err
	}

	var inAmount, outAmount int64
	inTypes := make([]int, 0, len(tx.Inputs))
	for _, in := range tx.Inputs {
		inAmount += in.PrevOutput.Value
		inTypes = append(inTypes, wallet.ScriptType(in.PrevOutput.Script))
	}
	outTypes := make([]int, 0, len(tx.Outputs))
	for _, out := range tx.Outputs {
		outAmount += out.Value
		outTypes = append(outTypes, wallet.ScriptType(out.Script))
	}
	size := wallet.EstimateTxSize(inTypes, outTypes, nil)
	fee := wallet.EstimateFee(size, config.GetInt(config.FeeRateKey))

	if inAmount-outAmount < fee {
		log.Warnf(
			"transaction pays %s BTC in fees, at least %s BTC are expected",
			formatAmount(inAmount-outAmount), formatAmount(fee),
		)
	}

	printJSON(assembleResponse{
		Transaction:  tx,
		Hex:          txhex,
		InputAmount:  formatAmount(inAmount),
		OutputAmount: formatAmount(outAmount),
		EstimatedFee: formatAmount(fee),
	})

	return nil
}
