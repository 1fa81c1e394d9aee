package cmd

import (
	"github.com/spf13/cobra"
	"github.com/warp-contracts/escrow/src/utils/logger"
	"github.com/warp-contracts/escrow/src/watcher"
)

func init() {
	RootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Release escrows past their release time, serve monitoring and deliver events",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		controller, err := watcher.NewController(applicationCtx, conf)
		if err != nil {
			return
		}

		err = controller.Start()
		if err != nil {
			return
		}

		select {
		case <-controller.CtxRunning.Done():
		case <-applicationCtx.Done():
		}

		controller.StopWait()

		return
	},
	PostRunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("root-cmd")
		log.Debug("Finished watch command")
		return
	},
}
