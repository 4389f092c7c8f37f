package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stock-watchlist",
	Short: "A CLI for managing the stock watchlist dashboard services",
	Long:  `Stock Watchlist is a personal watchlist dashboard backed by a shared multi-tenant store...`,
}

func main() {

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
