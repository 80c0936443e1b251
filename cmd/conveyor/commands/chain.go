package commands

import (
	"github.com/spf13/cobra"
	"github.com/tessellated-io/conveyor/config"
	"github.com/tessellated-io/conveyor/cosmos/chain"
)

func newChainCmd(app *app) *cobra.Command {
	var (
		preset string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Resolve chain metadata and print it or save it as a chain file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			toggles, err := config.LoadToggles()
			if err != nil {
				return err
			}
			logger, err := app.logger(toggles)
			if err != nil {
				return err
			}

			var info *chain.Info
			if preset != "" {
				info, err = chain.Networks.ByChainName(preset)
			} else {
				info, err = app.loadChain(ctx, logger)
			}
			if err != nil {
				return err
			}

			if out == "" {
				return app.writeJSON(info)
			}
			return config.WriteChainFile(out, info, logger)
		},
	}
	cmd.Flags().StringVar(&preset, "preset", "", "Name of a built-in chain preset, e.g. juno")
	cmd.Flags().StringVar(&out, "out", "", "Write a chain file here instead of printing JSON. Existing files are left untouched")
	return cmd
}
