package main

import (
	"fmt"
	"os"

	"github.com/iov-one/lockbox/cmd/lockboxd/app"
	"github.com/iov-one/lockbox/x/cash"
	"github.com/iov-one/lockbox/x/claimable"
	"github.com/spf13/cobra"
	amino "github.com/tendermint/go-amino"
)

var jsonCodec = amino.NewCodec()

var balanceCmd = &cobra.Command{
	Use:   "balance <key or address>",
	Short: "Print all tokens held by an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := resolveAddress(args[0])
		if err != nil {
			return err
		}
		n, err := openNode(home)
		if err != nil {
			return err
		}
		defer n.Close()

		coins, err := cash.NewController().Balances(n.app.DeliverStore(), addr)
		if err != nil {
			return err
		}
		if jsonOutput {
			human := make([]string, len(coins))
			for i, c := range coins {
				human[i] = c.String()
			}
			return printJSON(balanceOutput{Address: addr.String(), Coins: human})
		}
		if len(coins) == 0 {
			fmt.Println("no tokens")
		}
		for _, c := range coins {
			fmt.Println(c)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the state of the claimable balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := openNode(home)
		if err != nil {
			return err
		}
		defer n.Close()

		name, err := n.instanceName()
		if err != nil {
			return err
		}
		ctrl := claimable.NewController(name, app.Authenticator(), cash.NewController())
		inst, err := ctrl.Instance(n.app.DeliverStore())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(inst)
		}

		fmt.Printf("instance:  %s\n", inst.Name)
		fmt.Printf("state:     %s\n", inst.State)
		fmt.Printf("holding:   %s\n", inst.Holding)
		if e := inst.Escrow; e != nil {
			fmt.Printf("amount:    %s\n", e.Coin())
			fmt.Printf("bound:     %s\n", e.TimeBound)
			for i, c := range e.Claimants {
				fmt.Printf("claimant%d: %s\n", i, c)
			}
		}
		return nil
	},
}

type keyOutput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Bech32  string `json:"bech32"`
}

type txOutput struct {
	Path   string `json:"path"`
	Height int64  `json:"height"`
	// Code is zero for a committed transaction, otherwise the code of the
	// error it was rejected with.
	Code uint32 `json:"code"`
	Log  string `json:"log"`
	Data string `json:"data"`
}

type balanceOutput struct {
	Address string   `json:"address"`
	Coins   []string `json:"coins"`
}

func printJSON(v interface{}) error {
	raw, err := jsonCodec.MarshalJSONIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(raw))
	return err
}
