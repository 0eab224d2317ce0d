package main

import (
	"fmt"
	"time"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/cmd/lockboxd/app"
	"github.com/iov-one/lockbox/coin"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/x/cash"
	"github.com/iov-one/lockbox/x/claimable"
	"github.com/spf13/cobra"
	abci "github.com/tendermint/tendermint/abci/types"
)

var sendMemo string

var sendCmd = &cobra.Command{
	Use:   "send <key> <destination> <amount ticker>",
	Short: "Send tokens from a local key to any address",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := loadKey(args[0])
		if err != nil {
			return err
		}
		dest, err := resolveAddress(args[1])
		if err != nil {
			return err
		}
		amount, err := coin.ParseHumanFormat(args[2])
		if err != nil {
			return err
		}
		msg := &cash.SendMsg{
			Source:      key.PublicKey().Address(),
			Destination: dest,
			Amount:      amount,
			Memo:        sendMemo,
		}
		return execute(msg, args[0])
	},
}

var fundCmd = &cobra.Command{
	Use:   "fund <key> <amount ticker> <before|after>:<time> [claimant...]",
	Short: "Lock tokens of a local key in the claimable balance",
	Long: `Lock tokens of a local key in the claimable balance.

Any of the claimants can withdraw the whole amount once the time bound holds.
A time bound is "before:<time>" or "after:<time>" where time is given in unix
seconds or RFC3339, both bounds are inclusive. Claimants are local key names
or addresses, at most 10 are allowed.`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := loadKey(args[0])
		if err != nil {
			return err
		}
		amount, err := coin.ParseHumanFormat(args[1])
		if err != nil {
			return err
		}
		bound, err := claimable.ParseTimeBound(args[2])
		if err != nil {
			return err
		}
		claimants := make([]lockbox.Address, 0, len(args)-3)
		for _, c := range args[3:] {
			addr, err := resolveAddress(c)
			if err != nil {
				return err
			}
			claimants = append(claimants, addr)
		}
		msg := &claimable.FundMsg{
			Depositor: key.PublicKey().Address(),
			Asset:     amount.Ticker,
			Amount:    amount.Amount,
			Claimants: claimants,
			TimeBound: bound,
		}
		return execute(msg, args[0])
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <key>",
	Short: "Claim the whole balance to a local key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := loadKey(args[0])
		if err != nil {
			return err
		}
		msg := &claimable.WithdrawMsg{
			Claimant: key.PublicKey().Address(),
		}
		return execute(msg, args[0])
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendMemo, "memo", "", "note attached to the transfer")
}

// execute signs the message with the named key and runs it in a new block.
func execute(msg lockbox.Msg, signer string) error {
	key, err := loadKey(signer)
	if err != nil {
		return err
	}
	now, err := txTime()
	if err != nil {
		return err
	}
	n, err := openNode(home)
	if err != nil {
		return err
	}
	defer n.Close()

	// Messages without an explicit instance use the configured one.
	switch m := msg.(type) {
	case *claimable.FundMsg:
		if m.Instance, err = n.instanceName(); err != nil {
			return err
		}
	case *claimable.WithdrawMsg:
		if m.Instance, err = n.instanceName(); err != nil {
			return err
		}
	}

	tx := app.NewTx(msg)
	if err := tx.Sign(n.app.DeliverStore(), n.cfg.ChainID, key); err != nil {
		return err
	}
	raw, err := tx.Marshal()
	if err != nil {
		return err
	}

	// Every transaction is executed in its own block.
	height := n.abci.Info(abci.RequestInfo{}).LastBlockHeight + 1
	n.abci.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{ChainID: n.cfg.ChainID, Height: height, Time: now},
	})
	out := txOutput{Path: msg.Path(), Height: height}
	if chk := n.abci.CheckTx(raw); chk.IsErr() {
		out.Code, out.Log = chk.Code, chk.Log
		return txFailed(out)
	}
	res := n.abci.DeliverTx(raw)
	if res.IsErr() {
		out.Code, out.Log = res.Code, res.Log
		return txFailed(out)
	}
	n.abci.EndBlock(abci.RequestEndBlock{Height: height})
	n.abci.Commit()

	out.Log = res.Log
	out.Data = fmt.Sprintf("%X", res.Data)
	if jsonOutput {
		return printJSON(out)
	}
	fmt.Printf("%s committed at height %d\n", out.Path, out.Height)
	if out.Log != "" {
		fmt.Println(out.Log)
	}
	return nil
}

// txFailed reports a rejected transaction. The returned error is of the
// kind the response code was registered with.
func txFailed(out txOutput) error {
	if jsonOutput {
		if err := printJSON(out); err != nil {
			return err
		}
	}
	return errors.ABCIError(out.Code, out.Log)
}

// txTime returns the block time requested with --time.
func txTime() (time.Time, error) {
	if blockTime == "" {
		return time.Now().UTC(), nil
	}
	t, err := lockbox.ParseUnixTime(blockTime)
	if err != nil {
		return time.Time{}, err
	}
	return t.Time(), nil
}
