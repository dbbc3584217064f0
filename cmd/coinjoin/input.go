package main

import (
	"github.com/urfave/cli/v2"
)

var input = cli.Command{
	Name:  "input",
	Usage: "check that an unspent is owned by the given key and get the coin join input for it",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "key",
			Usage:    "the private key, in WIF or hex format, owning the unspent",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "outpoint",
			Usage:    "the unspent to validate in the form txid:vout",
			Required: true,
		},
	},
	Action: validateInputAction,
}

func validateInputAction(ctx *cli.Context) error {
	txid, vout, err := parseOutpoint(ctx.String("outpoint"))
	if err != nil {
		return err
	}

	svc, cleanup, err := getCoinJoinService()
	if err != nil {
		return err
	}
	defer cleanup()

	in, err := svc.ValidateInput(
		commandContext(ctx), ctx.String("key"), txid, vout,
	)
	if err != nil {
		return err
	}

	printJSON(in)

	return nil
}
