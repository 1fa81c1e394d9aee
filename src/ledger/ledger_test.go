package ledger

import (
	"math"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/warp-contracts/escrow/src/utils/fault"
	"github.com/warp-contracts/escrow/src/utils/model"
)

func TestCheckDebit(t *testing.T) {
	account := &model.Account{Name: "alice", Owner: "alice", Delegates: pq.StringArray{"bot"}, Balance: 100}

	require.Nil(t, CheckDebit(account, "alice", 100))
	require.Nil(t, CheckDebit(account, "bot", 1))
	require.ErrorIs(t, CheckDebit(account, "mallory", 1), ErrUnauthorizedDebit)
	require.ErrorIs(t, CheckDebit(account, "", 1), ErrUnauthorizedDebit)
	require.ErrorIs(t, CheckDebit(account, "alice", 101), ErrInsufficientFunds)
	require.ErrorIs(t, CheckDebit(account, "alice", 0), ErrInvalidAmount)
}

func TestCheckCredit(t *testing.T) {
	account := &model.Account{Name: "bob", Owner: "bob", Balance: math.MaxUint64 - 1}

	require.Nil(t, CheckCredit(account, 1))
	require.ErrorIs(t, CheckCredit(account, 2), ErrBalanceOverflow)
	require.ErrorIs(t, CheckCredit(account, 0), ErrInvalidAmount)

	squatted := &model.Account{Name: "bob", Owner: "mallory"}
	require.ErrorIs(t, CheckCredit(squatted, 1), ErrForeignAccount)

	custody := &model.Account{Name: "custody/escrow-1", Owner: "custody-authority/00ff"}
	require.Nil(t, CheckCredit(custody, 1))
}

func TestCheckOpen(t *testing.T) {
	require.Nil(t, CheckOpen("alice", "alice"))
	require.Nil(t, CheckOpen("custody/escrow-1", "custody-authority/00ff"))
	require.ErrorIs(t, CheckOpen("alice", "mallory"), ErrForeignAccount)
	require.ErrorIs(t, CheckOpen("", "alice"), ErrInvalidAccount)
	require.ErrorIs(t, CheckOpen("alice", ""), ErrInvalidAccount)
	require.Equal(t, fault.Authorization, fault.KindOf(CheckOpen("alice", "mallory")))
}

func TestCheckTransfer(t *testing.T) {
	require.Nil(t, CheckTransfer("a", "b"))
	require.ErrorIs(t, CheckTransfer("a", "a"), ErrSelfTransfer)
	require.ErrorIs(t, CheckTransfer("", "b"), ErrAccountNotFound)
}
