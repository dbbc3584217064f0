package main

import (
	"github.com/tdex-network/coinjoin/pkg/explorer"
	"github.com/urfave/cli/v2"
)

var broadcast = cli.Command{
	Name:  "broadcast",
	Usage: "relay a fully signed transaction to the network",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "tx",
			Usage:    "path of the JSON transaction, - for stdin",
			Required: true,
		},
	},
	Action: broadcastAction,
}

func broadcastAction(ctx *cli.Context) error {
	tx, err := readTransaction(ctx.String("tx"))
	if err != nil {
		return err
	}

	svc, cleanup, err := getCoinJoinService()
	if err != nil {
		return err
	}
	defer cleanup()

	txid, err := svc.BroadcastTransaction(commandContext(ctx), tx)
	res := explorer.NewRelayResult(txid, err)
	printJSON(res)

	return err
}
