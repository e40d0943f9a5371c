package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stock-ranker",
	Short: "A CLI for the cross-sectional stock factor ranker",
	Long:  `Stock Ranker combines momentum, volatility, value and size signals into a weighted composite score and ranks a stock universe.`,
}

func main() {

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
