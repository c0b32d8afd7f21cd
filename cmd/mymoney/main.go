package main

import (
	"os"

	"github.com/shopspring/decimal"

	"github.com/mymoney-dev/mymoney/internal/commands"
)

func main() {
	// Amounts are printed as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
