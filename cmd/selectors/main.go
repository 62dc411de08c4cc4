package main

import (
	"fmt"
	"io"
	"os"

	"swap-calldata.backend/internal/usecases"
)

type entryPoint struct {
	signature string
	selector  string
}

func entryPoints() []entryPoint {
	return []entryPoint{
		{usecases.TransformERC20Signature, usecases.TransformERC20Selector},
		{usecases.SellToUniswapSignature, usecases.SellToUniswapSelector},
		{usecases.SellToPancakeSwapSignature, usecases.SellToPancakeSwapSelector},
	}
}

func printSelectors(w io.Writer) {
	for _, ep := range entryPoints() {
		fmt.Fprintf(w, "%s: %s\n", ep.signature, ep.selector)
	}
}

func main() {
	printSelectors(os.Stdout)
}
