package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/warp-contracts/escrow/src/ledger"
	"github.com/warp-contracts/escrow/src/store"
	"github.com/warp-contracts/escrow/src/utils/clock"
	"github.com/warp-contracts/escrow/src/utils/model"
)

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	clock *clock.Manual
	store *Store
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clock.NewManual(1000)
	s.store = New(s.clock)
	require.Nil(s.T(), s.store.Deposit("alice", 500))
}

func (s *StoreTestSuite) balance(name string) uint64 {
	account, err := s.store.Account(s.ctx, name)
	require.Nil(s.T(), err)
	return account.Balance
}

func (s *StoreTestSuite) TestCommit() {
	err := s.store.Atomic(s.ctx, func(tx store.Tx) error {
		err := tx.InsertMatch(&model.Match{Id: "m1", Status: model.MatchStatusCreated})
		if err != nil {
			return err
		}
		_, err = tx.Ledger().Transfer(s.ctx, "alice", "alice", "bob", 200, "test")
		return err
	})
	require.Nil(s.T(), err)

	match, err := s.store.Match(s.ctx, "m1")
	require.Nil(s.T(), err)
	require.Equal(s.T(), model.MatchStatusCreated, match.Status)
	require.Equal(s.T(), uint64(300), s.balance("alice"))
	require.Equal(s.T(), uint64(200), s.balance("bob"))

	transfers := s.store.Transfers()
	require.Len(s.T(), transfers, 1)
	require.Equal(s.T(), "alice", transfers[0].Authority)
	require.Equal(s.T(), int64(1000), transfers[0].CreatedAt)
}

func (s *StoreTestSuite) TestRollback() {
	errBoom := errors.New("boom")
	err := s.store.Atomic(s.ctx, func(tx store.Tx) error {
		err := tx.InsertEscrow(&model.Escrow{Id: "e1", Status: model.EscrowStatusCreated})
		if err != nil {
			return err
		}
		_, err = tx.Ledger().Transfer(s.ctx, "alice", "alice", "bob", 200, "")
		if err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(s.T(), err, errBoom)

	_, err = s.store.Escrow(s.ctx, "e1")
	require.ErrorIs(s.T(), err, store.ErrNotFound)
	require.Equal(s.T(), uint64(500), s.balance("alice"))
	_, err = s.store.Account(s.ctx, "bob")
	require.ErrorIs(s.T(), err, store.ErrNotFound)
	require.Empty(s.T(), s.store.Transfers())
}

func (s *StoreTestSuite) TestCancelledContextNeverCommits() {
	ctx, cancel := context.WithCancel(s.ctx)
	err := s.store.Atomic(ctx, func(tx store.Tx) error {
		cancel()
		return tx.InsertMatch(&model.Match{Id: "m1"})
	})
	require.ErrorIs(s.T(), err, context.Canceled)

	_, err = s.store.Match(s.ctx, "m1")
	require.ErrorIs(s.T(), err, store.ErrNotFound)
}

func (s *StoreTestSuite) TestTransferRules() {
	err := s.store.Atomic(s.ctx, func(tx store.Tx) error {
		_, err := tx.Ledger().Transfer(s.ctx, "mallory", "alice", "mallory", 1, "")
		require.ErrorIs(s.T(), err, ledger.ErrUnauthorizedDebit)

		_, err = tx.Ledger().Transfer(s.ctx, "alice", "alice", "bob", 501, "")
		require.ErrorIs(s.T(), err, ledger.ErrInsufficientFunds)

		_, err = tx.Ledger().Transfer(s.ctx, "carol", "carol", "bob", 1, "")
		require.ErrorIs(s.T(), err, ledger.ErrAccountNotFound)

		_, err = tx.Ledger().Transfer(s.ctx, "alice", "alice", "alice", 1, "")
		require.ErrorIs(s.T(), err, ledger.ErrSelfTransfer)
		return nil
	})
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(500), s.balance("alice"))
}

func (s *StoreTestSuite) TestDelegatedAccount() {
	err := s.store.Atomic(s.ctx, func(tx store.Tx) error {
		err := tx.Ledger().Open(s.ctx, "owner", "owner", "vault-service")
		if err != nil {
			return err
		}
		err = tx.Ledger().Open(s.ctx, "owner", "owner")
		require.ErrorIs(s.T(), err, ledger.ErrAccountExists)

		_, err = tx.Ledger().Transfer(s.ctx, "alice", "alice", "owner", 100, "")
		if err != nil {
			return err
		}
		_, err = tx.Ledger().Transfer(s.ctx, "vault-service", "owner", "bob", 40, "")
		return err
	})
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(60), s.balance("owner"))
	require.Equal(s.T(), uint64(40), s.balance("bob"))
}

func (s *StoreTestSuite) TestAccountNamedAfterSomeoneElse() {
	err := s.store.Atomic(s.ctx, func(tx store.Tx) error {
		return tx.Ledger().Open(s.ctx, "bob", "mallory")
	})
	require.ErrorIs(s.T(), err, ledger.ErrForeignAccount)
	_, err = s.store.Account(s.ctx, "bob")
	require.ErrorIs(s.T(), err, store.ErrNotFound)

	// Accounts restored with a foreign owner can't be credited
	s.store.Restore(model.Account{Name: "bob", Owner: "mallory"})
	err = s.store.Atomic(s.ctx, func(tx store.Tx) error {
		_, err := tx.Ledger().Transfer(s.ctx, "alice", "alice", "bob", 100, "")
		return err
	})
	require.ErrorIs(s.T(), err, ledger.ErrForeignAccount)
	require.Equal(s.T(), uint64(500), s.balance("alice"))
	require.Equal(s.T(), uint64(0), s.balance("bob"))
}

func (s *StoreTestSuite) TestUpdateUnknown() {
	err := s.store.Atomic(s.ctx, func(tx store.Tx) error {
		return tx.UpdateEscrow(&model.Escrow{Id: "missing"})
	})
	require.ErrorIs(s.T(), err, store.ErrNotFound)

	err = s.store.Atomic(s.ctx, func(tx store.Tx) error {
		_, err := tx.LockMatch("missing")
		return err
	})
	require.ErrorIs(s.T(), err, store.ErrNotFound)
}

func (s *StoreTestSuite) TestDuplicateInsert() {
	insert := func(tx store.Tx) error {
		return tx.InsertMatch(&model.Match{Id: "m1"})
	}
	require.Nil(s.T(), s.store.Atomic(s.ctx, insert))
	require.ErrorIs(s.T(), s.store.Atomic(s.ctx, insert), store.ErrAlreadyExists)
}

func (s *StoreTestSuite) TestReleasable() {
	err := s.store.Atomic(s.ctx, func(tx store.Tx) error {
		for _, e := range []*model.Escrow{
			{Id: "late", ReleaseTime: 900, Status: model.EscrowStatusCreated},
			{Id: "early", ReleaseTime: 100, Status: model.EscrowStatusCreated},
			{Id: "future", ReleaseTime: 2000, Status: model.EscrowStatusCreated},
			{Id: "done", ReleaseTime: 50, Status: model.EscrowStatusReleased},
			{Id: "disputed", ReleaseTime: 50, Status: model.EscrowStatusDisputed},
		} {
			err := tx.InsertEscrow(e)
			if err != nil {
				return err
			}
		}
		return nil
	})
	require.Nil(s.T(), err)

	escrows, err := s.store.Releasable(s.ctx, 1000, 10)
	require.Nil(s.T(), err)
	require.Len(s.T(), escrows, 2)
	require.Equal(s.T(), "early", escrows[0].Id)
	require.Equal(s.T(), "late", escrows[1].Id)

	escrows, err = s.store.Releasable(s.ctx, 1000, 1)
	require.Nil(s.T(), err)
	require.Len(s.T(), escrows, 1)
}

func (s *StoreTestSuite) TestReadsReturnCopies() {
	require.Nil(s.T(), s.store.Atomic(s.ctx, func(tx store.Tx) error {
		return tx.InsertMatch(&model.Match{Id: "m1", Status: model.MatchStatusCreated})
	}))

	match, err := s.store.Match(s.ctx, "m1")
	require.Nil(s.T(), err)
	match.Status = model.MatchStatusCompleted

	match, err = s.store.Match(s.ctx, "m1")
	require.Nil(s.T(), err)
	require.Equal(s.T(), model.MatchStatusCreated, match.Status)
}
