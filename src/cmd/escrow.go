package cmd

import (
	"github.com/spf13/cobra"
	"github.com/warp-contracts/escrow/src/utils/model"
)

var (
	escrowMatchId     string
	escrowAmount      uint64
	escrowReleaseTime int64
	disputeReason     string
	consumerShare     uint8
	providerShare     uint8
)

func init() {
	escrowCreateCmd.Flags().StringVar(&escrowMatchId, "match", "", "id of the funded match")
	escrowCreateCmd.Flags().Uint64Var(&escrowAmount, "amount", 0, "amount moved into custody")
	escrowCreateCmd.Flags().Int64Var(&escrowReleaseTime, "release-time", 0, "unix seconds after which anyone may release the funds")
	escrowDisputeCmd.Flags().StringVar(&disputeReason, "reason", "", "why the escrow is disputed")
	escrowResolveCmd.Flags().Uint8Var(&consumerShare, "consumer-share", 0, "percent of the funds returned to the consumer")
	escrowResolveCmd.Flags().Uint8Var(&providerShare, "provider-share", 0, "percent of the funds paid to the provider")

	escrowCmd.AddCommand(escrowCreateCmd, escrowReleaseCmd, escrowRefundCmd, escrowDisputeCmd, escrowResolveCmd, escrowShowCmd)
	RootCmd.AddCommand(escrowCmd)
}

var escrowCmd = &cobra.Command{
	Use:   "escrow",
	Short: "Payments held in custody for a match",
}

var escrowCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Fund an escrow for a match, the caller is the consumer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAs(func(s *services, caller string) (any, error) {
			return s.vault.CreateEscrow(applicationCtx, caller, escrowMatchId, escrowAmount, escrowReleaseTime)
		})
	},
}

var escrowReleaseCmd = &cobra.Command{
	Use:   "release <escrow id>",
	Short: "Pay the escrowed funds to the provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAs(func(s *services, caller string) (any, error) {
			return s.vault.ReleaseFunds(applicationCtx, caller, args[0])
		})
	},
}

var escrowRefundCmd = &cobra.Command{
	Use:   "refund <escrow id>",
	Short: "Return the escrowed funds to the consumer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAs(func(s *services, caller string) (any, error) {
			return s.vault.RefundEscrow(applicationCtx, caller, args[0])
		})
	},
}

var escrowDisputeCmd = &cobra.Command{
	Use:   "dispute <escrow id>",
	Short: "Freeze the funds until the arbitrator resolves the dispute",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAs(func(s *services, caller string) (any, error) {
			return s.vault.DisputeEscrow(applicationCtx, caller, args[0], disputeReason)
		})
	},
}

var escrowResolveCmd = &cobra.Command{
	Use:   "resolve <escrow id>",
	Short: "Split disputed funds between the parties, arbitrator only",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAs(func(s *services, caller string) (any, error) {
			return s.vault.ResolveDispute(applicationCtx, caller, args[0], consumerShare, providerShare)
		})
	},
}

type escrowView struct {
	*model.Escrow
	CustodyBalance uint64 `json:"custody_balance"`
}

var escrowShowCmd = &cobra.Command{
	Use:   "show <escrow id>",
	Short: "Print the escrow with its custody balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *services) (out any, err error) {
			escrow, err := s.vault.GetEscrow(applicationCtx, args[0])
			if err != nil {
				return
			}

			balance, err := s.vault.CustodyBalance(applicationCtx, args[0])
			if err != nil {
				return
			}

			return &escrowView{Escrow: escrow, CustodyBalance: balance}, nil
		})
	},
}
