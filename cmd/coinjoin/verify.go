package main

import (
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli/v2"
)

var verify = cli.Command{
	Name:  "verify",
	Usage: "verify the signature of an input of a transaction",
	Description: "Without --script the signature already attached to the input is " +
		"verified, otherwise the given one is checked against the unsigned input.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "tx",
			Usage:    "path of the JSON transaction, - for stdin",
			Required: true,
		},
		&cli.IntFlag{
			Name:     "index",
			Usage:    "the index of the input to verify",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "script",
			Usage: "a signature script in hex format to check for the input",
		},
	},
	Action: verifyAction,
}

type verifyResponse struct {
	Index   int    `json:"index"`
	Verdict string `json:"verdict"`
}

func verifyAction(ctx *cli.Context) error {
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
	if scriptHex := ctx.String("script"); len(scriptHex) > 0 {
		script, err := hex.DecodeString(scriptHex)
		if err != nil {
			return fmt.Errorf("script must be in hex format")
		}
		verdict := "invalid"
		if svc.IsScriptSigValid(c, tx, index, script) {
			verdict = "valid"
		}
		printJSON(verifyResponse{index, verdict})
		return nil
	}

	verdict, err := svc.VerifyInput(c, tx, index)
	if err != nil {
		return err
	}
	printJSON(verifyResponse{index, verdict.String()})

	return nil
}
