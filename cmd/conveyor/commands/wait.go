package commands

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/tessellated-io/conveyor/cosmos/tx"
)

func newWaitCmd(app *app) *cobra.Command {
	var (
		blocks  uint64
		seconds uint64
	)

	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Wait for a number of blocks or seconds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (blocks == 0) == (seconds == 0) {
				return errors.New("exactly one of --blocks or --seconds is required")
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()

			session, err := app.connect(ctx)
			if err != nil {
				return err
			}
			defer session.Close()

			waiter := tx.NewBlockWaiter(session.store.Client(), tx.DefaultMinBlockTime, session.logger)
			if seconds > 0 {
				err = waiter.WaitSeconds(ctx, seconds)
			} else {
				err = waiter.WaitBlocks(ctx, blocks)
			}
			if err != nil {
				return err
			}

			latest, err := waiter.BlockInfo(ctx)
			if err != nil {
				return err
			}
			return app.writeJSON(map[string]int64{"height": latest.Height})
		},
	}
	cmd.Flags().Uint64Var(&blocks, "blocks", 0, "Blocks to wait for")
	cmd.Flags().Uint64Var(&seconds, "seconds", 0, "Seconds to wait for")
	return cmd
}
