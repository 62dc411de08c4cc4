package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"

	"swap-calldata.backend/internal/infrastructure/blockchain"
)

var fatalfFn = log.Fatalf

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "transformer-nonce",
		Usage:  "resolve transformer deployment nonces of a transformer deployer",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "deployer", Usage: "transformer deployer address", Required: true},
			&cli.StringSliceFlag{Name: "transformer", Usage: "transformer address to resolve (repeatable)"},
			&cli.UintFlag{Name: "nonce", Usage: "print the address deployed at this nonce instead"},
			&cli.UintFlag{Name: "limit", Usage: "highest nonce searched", Value: uint(blockchain.DefaultNonceSearchLimit)},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	deployer, err := parseAddress(c.String("deployer"))
	if err != nil {
		return err
	}

	if c.IsSet("nonce") {
		nonce := c.Uint("nonce")
		fmt.Fprintf(c.App.Writer, "%d %s\n", nonce, blockchain.TransformerAddress(deployer, uint32(nonce)).Hex())
		return nil
	}

	transformers := c.StringSlice("transformer")
	if len(transformers) == 0 {
		return errors.New("at least one --transformer or a --nonce is required")
	}

	finder := blockchain.NewTransformerNonceFinder(uint32(c.Uint("limit")))
	for _, raw := range transformers {
		transformer, err := parseAddress(raw)
		if err != nil {
			return err
		}
		nonce, err := finder.FindNonce(deployer, transformer)
		if err != nil {
			return fmt.Errorf("%s: %w", transformer.Hex(), err)
		}
		fmt.Fprintf(c.App.Writer, "%s %d\n", transformer.Hex(), nonce)
	}
	return nil
}

func parseAddress(raw string) (common.Address, error) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("invalid address %q", raw)
	}
	return common.HexToAddress(raw), nil
}

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fatalfFn("transformer-nonce: %v", err)
	}
}
