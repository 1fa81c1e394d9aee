package guard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/warp-contracts/escrow/src/utils/config"
	"github.com/warp-contracts/escrow/src/utils/fault"
)

func TestRequire(t *testing.T) {
	require.Nil(t, Require("alice", "alice", "accept"))
	require.ErrorIs(t, Require("bob", "alice", "accept"), ErrUnauthorized)
	require.ErrorIs(t, Require("", "", "accept"), ErrUnauthorized)
}

func TestRequireOneOf(t *testing.T) {
	allowed := []string{"consumer", "provider"}
	require.Nil(t, RequireOneOf("consumer", allowed, "reject"))
	require.Nil(t, RequireOneOf("provider", allowed, "reject"))

	err := RequireOneOf("mallory", allowed, "reject")
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Contains(t, err.Error(), "reject")

	require.ErrorIs(t, RequireOneOf("", []string{""}, "reject"), ErrUnauthorized)
}

func TestCheckIdentity(t *testing.T) {
	require.Nil(t, CheckIdentity("wallet-1"))
	require.ErrorIs(t, CheckIdentity("  "), ErrMissingIdentity)
	require.ErrorIs(t, CheckIdentity("custody-authority/00ff"), ErrReservedIdentity)
	require.ErrorIs(t, CheckIdentity("custody/escrow-1"), ErrReservedIdentity)
}

func TestReservedIdentityMatchesConfig(t *testing.T) {
	err := CheckIdentity("custody/escrow-1")
	require.ErrorIs(t, err, config.ErrReservedIdentity)
	require.Equal(t, fault.Validation, fault.KindOf(err))

	conf := config.Default()
	conf.Escrow.CustodySecret = "guard-test-custody-secret"
	conf.Escrow.Arbitrator = "custody-authority/00ff"
	require.ErrorIs(t, conf.Validate(), ErrReservedIdentity)
}
