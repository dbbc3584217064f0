package main

import (
	"encoding/hex"

	"github.com/tdex-network/coinjoin/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var sign = cli.Command{
	Name:  "sign",
	Usage: "sign an input of an assembled transaction and print the updated transaction",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "tx",
			Usage:    "path of the JSON transaction returned by assemble, - for stdin",
			Required: true,
		},
		&cli.IntFlag{
			Name:     "index",
			Usage:    "the index of the input to sign",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "key",
			Usage:    "the private key, in WIF or hex format, owning the input",
			Required: true,
		},
	},
	Action: signAction,
}

type signResponse struct {
	Script      string              `json:"script"`
	Transaction *domain.Transaction `json:"transaction"`
}

func signAction(ctx *cli.Context) error {
	tx, err := readTransaction(ctx.String("tx"))
	if err != nil {
		return err
	}
	index := ctx.Int("index")

	svc, cleanup, err := getCoinJoinService()
	if err != nil {
		return err
	}
	defer cleanup()

	c := commandContext(ctx)
	script, err := svc.CreateInputScript(c, tx, index, ctx.String("key"))
	if err != nil {
		return err
	}
	if err := svc.SignInput(c, tx, index, script); err != nil {
		return err
	}

	printJSON(signResponse{hex.EncodeToString(script), tx})

	return nil
}
