// Package main is just the application entry point
package main

import (
	"fmt"
	"os"

	"github.com/warp-contracts/escrow/src/cmd"
	"github.com/warp-contracts/escrow/src/utils/fault"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(fault.KindOf(err).ExitCode())
	}
}
