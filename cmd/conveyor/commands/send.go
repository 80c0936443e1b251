package commands

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/spf13/cobra"
	"github.com/tessellated-io/conveyor/util"
)

type sendResult struct {
	TxHash    string `json:"tx_hash"`
	Height    int64  `json:"height"`
	GasUsed   int64  `json:"gas_used"`
	GasWanted int64  `json:"gas_wanted"`
}

func newSendCmd(app *app) *cobra.Command {
	var (
		memo    string
		granter string
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "send <recipient> <amount>",
		Short: "Send tokens from the CONVEYOR_MNEMONIC account",
		Long:  "Send tokens from the CONVEYOR_MNEMONIC account. A bare integer amount is denominated in the chain's fee token.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var coins sdk.Coins
			bare, err := util.ParseAmount(args[1])
			if err != nil {
				coins, err = sdk.ParseCoinsNormalized(args[1])
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", args[1], err)
				}
				if coins.Empty() {
					return fmt.Errorf("amount %q is empty", args[1])
				}
			} else if bare.IsZero() {
				return fmt.Errorf("amount %q is empty", args[1])
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()

			session, err := app.connect(ctx)
			if err != nil {
				return err
			}
			defer session.Close()

			d, err := app.daemon(session)
			if err != nil {
				return err
			}
			if granter != "" {
				d.SetFeeGranter(granter)
			}
			if coins == nil {
				feeToken, err := session.store.Info().FeeToken()
				if err != nil {
					return err
				}
				coins = sdk.NewCoins(sdk.NewCoin(feeToken.Denom, bare))
			}

			if dryRun {
				fee, err := d.Simulate(ctx, []sdk.Msg{bankSend(d.Sender(), args[0], coins)})
				if err != nil {
					return err
				}
				return app.writeJSON(map[string]any{"gas_limit": fee.GasLimit, "fee": fee.Amount.String()})
			}

			result, err := d.Commit(ctx, []sdk.Msg{bankSend(d.Sender(), args[0], coins)}, memo)
			if err != nil {
				return err
			}
			return app.writeJSON(sendResult{
				TxHash:    result.Hash,
				Height:    result.Height,
				GasUsed:   result.GasUsed,
				GasWanted: result.GasWanted,
			})
		},
	}
	cmd.Flags().StringVar(&memo, "memo", "", "Transaction memo")
	cmd.Flags().StringVar(&granter, "fee-granter", "", "Address paying the fee through a fee grant")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the gas limit and fee without broadcasting")
	return cmd
}

func bankSend(from, to string, coins sdk.Coins) *banktypes.MsgSend {
	return &banktypes.MsgSend{
		FromAddress: from,
		ToAddress:   to,
		Amount:      coins,
	}
}
