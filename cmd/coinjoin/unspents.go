package main

import (
	"github.com/urfave/cli/v2"
)

var unspents = cli.Command{
	Name:  "unspents",
	Usage: "list the unspent outputs owned by an address",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "address",
			Usage:    "the address for which listing unspents",
			Required: true,
		},
	},
	Action: listUnspentsAction,
}

type unspentInfo struct {
	TxID   string `json:"txid"`
	VOut   uint32 `json:"vout"`
	Value  int64  `json:"value"`
	Amount string `json:"amount"`
}

func listUnspentsAction(ctx *cli.Context) error {
	svc, cleanup, err := getCoinJoinService()
	if err != nil {
		return err
	}
	defer cleanup()

	list, err := svc.ListUnspents(commandContext(ctx), ctx.String("address"))
	if err != nil {
		return err
	}

	resp := make([]unspentInfo, 0, len(list))
	for _, u := range list {
		resp = append(resp, unspentInfo{
			TxID:   u.TxID,
			VOut:   u.VOut,
			Value:  u.Value,
			Amount: formatAmount(u.Value),
		})
	}
	printJSON(resp)

	return nil
}
