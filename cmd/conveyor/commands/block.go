package commands

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/tessellated-io/conveyor/cosmos/tx"
)

type blockResult struct {
	ChainID          string    `json:"chain_id"`
	Height           int64     `json:"height"`
	Time             time.Time `json:"time"`
	AverageBlockTime string    `json:"average_block_time"`
}

func newBlockCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "block",
		Short: "Print the latest block and the average block time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			session, err := app.connect(ctx)
			if err != nil {
				return err
			}
			defer session.Close()

			blocks := tx.NewBlockWaiter(session.store.Client(), tx.DefaultMinBlockTime, session.logger)
			latest, err := blocks.BlockInfo(ctx)
			if err != nil {
				return err
			}
			average, err := blocks.AverageBlockTime(ctx, 1)
			if err != nil {
				return err
			}

			return app.writeJSON(blockResult{
				ChainID:          latest.ChainID,
				Height:           latest.Height,
				Time:             latest.Time,
				AverageBlockTime: average.String(),
			})
		},
	}
}
