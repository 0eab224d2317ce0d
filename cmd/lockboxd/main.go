package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	home       string
	blockTime  string
	instance   string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:          "lockboxd <command>",
	Short:        "Local chain holding claimable balances",
	SilenceUsage: true,
}

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".lockbox")
	rootCmd.PersistentFlags().StringVar(&home, "home", defaultHome, "directory to store files under")
	rootCmd.PersistentFlags().StringVar(&blockTime, "time", "", "block time of the transaction, unix seconds or RFC3339 (default now)")
	rootCmd.PersistentFlags().StringVar(&instance, "instance", "", "claimable balance instance (default from config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(
		initCmd,
		keygenCmd,
		keyaddrCmd,
		balanceCmd,
		sendCmd,
		fundCmd,
		withdrawCmd,
		showCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}
