package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp-contracts/escrow/src/matching"
	"github.com/warp-contracts/escrow/src/utils/clock"
)

var (
	proposal       matching.Proposal
	proposalDryRun bool
)

func init() {
	matchCreateCmd.Flags().StringVar(&proposal.DemandId, "demand", "", "id of the matched demand")
	matchCreateCmd.Flags().StringVar(&proposal.ResourceId, "resource", "", "id of the matched resource")
	matchCreateCmd.Flags().StringVar(&proposal.Consumer, "consumer", "", "consumer identity")
	matchCreateCmd.Flags().StringVar(&proposal.Provider, "provider", "", "provider identity")
	matchCreateCmd.Flags().Int64Var(&proposal.StartTime, "start", 0, "usage window start, unix seconds")
	matchCreateCmd.Flags().Int64Var(&proposal.EndTime, "end", 0, "usage window end, unix seconds")
	matchCreateCmd.Flags().Uint64Var(&proposal.PricePerHour, "price-per-hour", 0, "price per hour in base units")
	matchCreateCmd.Flags().Uint64Var(&proposal.TotalPrice, "total-price", 0, "total price in base units")
	matchCreateCmd.Flags().Uint8Var(&proposal.MatchScore, "score", 0, "match quality, 0-100")
	matchCreateCmd.Flags().Uint64Var(&proposal.EscrowAmount, "escrow-amount", 0, "amount the consumer is expected to escrow")

	matchProposeCmd.Flags().BoolVar(&proposalDryRun, "dry-run", false, "print the scored proposal without creating the match")

	matchCmd.AddCommand(matchCreateCmd, matchProposeCmd, matchAcceptConsumerCmd, matchAcceptProviderCmd, matchRejectCmd, matchCompleteCmd, matchShowCmd)
	RootCmd.AddCommand(matchCmd)
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match lifecycle between a consumer and a provider",
}

var matchCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Propose a match, the caller is the matcher",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAs(func(s *services, caller string) (any, error) {
			return s.engine.CreateMatch(applicationCtx, caller, &proposal)
		})
	},
}

var matchProposeCmd = &cobra.Command{
	Use:   "propose <demand.json> <resource.json>",
	Short: "Score a demand against a resource and create the match if it's good enough, the caller is the matcher",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			demand   matching.Demand
			resource matching.Resource
		)
		err := readJSON(args[0], &demand)
		if err != nil {
			return err
		}
		err = readJSON(args[1], &resource)
		if err != nil {
			return err
		}

		return runAs(func(s *services, caller string) (any, error) {
			terms, err := matching.Propose(&demand, &resource, clock.NewSystem().Now())
			if err != nil || proposalDryRun {
				return terms, err
			}
			return s.engine.CreateMatch(applicationCtx, caller, terms)
		})
	},
}

func readJSON(path string, v any) error {
	/* #nosec */
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(content, v)
}

var matchAcceptConsumerCmd = &cobra.Command{
	Use:   "accept-consumer <match id>",
	Short: "Accept the match as its consumer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAs(func(s *services, caller string) (any, error) {
			return s.engine.AcceptMatchConsumer(applicationCtx, caller, args[0])
		})
	},
}

var matchAcceptProviderCmd = &cobra.Command{
	Use:   "accept-provider <match id>",
	Short: "Confirm the match as its provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAs(func(s *services, caller string) (any, error) {
			return s.engine.AcceptMatchProvider(applicationCtx, caller, args[0])
		})
	},
}

var matchRejectCmd = &cobra.Command{
	Use:   "reject <match id>",
	Short: "Reject a match that isn't confirmed yet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAs(func(s *services, caller string) (any, error) {
			return s.engine.RejectMatch(applicationCtx, caller, args[0])
		})
	},
}

var matchCompleteCmd = &cobra.Command{
	Use:   "complete <match id>",
	Short: "Mark a confirmed match as completed, provider only",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAs(func(s *services, caller string) (any, error) {
			return s.engine.CompleteMatch(applicationCtx, caller, args[0])
		})
	},
}

var matchShowCmd = &cobra.Command{
	Use:   "show <match id>",
	Short: "Print the match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *services) (any, error) {
			return s.engine.GetMatch(applicationCtx, args[0])
		})
	},
}
