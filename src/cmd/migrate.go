package cmd

import (
	"github.com/spf13/cobra"
	"github.com/warp-contracts/escrow/src/utils/model"
)

func init() {
	RootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations using the migration user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return model.Migrate(applicationCtx, conf)
	},
}
