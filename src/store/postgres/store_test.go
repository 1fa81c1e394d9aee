package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/rs/xid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/warp-contracts/escrow/src/ledger"
	"github.com/warp-contracts/escrow/src/store"
	"github.com/warp-contracts/escrow/src/utils/clock"
	"github.com/warp-contracts/escrow/src/utils/config"
	"github.com/warp-contracts/escrow/src/utils/model"
)

// Needs a running database, configured with the usual ESCROW_DATABASE_* variables
func TestStoreTestSuite(t *testing.T) {
	if os.Getenv("ESCROW_TEST_POSTGRES") == "" {
		t.Skip("ESCROW_TEST_POSTGRES not set")
	}
	suite.Run(t, new(StoreTestSuite))
}

type StoreTestSuite struct {
	suite.Suite
	ctx    context.Context
	cancel context.CancelFunc
	config *config.Config
	clock  *clock.Manual
	store  *Store
}

func (s *StoreTestSuite) SetupSuite() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.config = config.Default()
	s.clock = clock.NewManual(1000)

	db, err := model.NewConnection(s.ctx, s.config, "store-test")
	require.Nil(s.T(), err)

	s.store = New(db, s.clock).WithTimeout(s.config.Database.OperationTimeout)
}

func (s *StoreTestSuite) TearDownSuite() {
	s.store.Close()
	s.cancel()
}

func (s *StoreTestSuite) match() *model.Match {
	return &model.Match{
		Id:           xid.New().String(),
		DemandId:     "demand",
		ResourceId:   "resource",
		Consumer:     "consumer",
		Provider:     "provider",
		Matcher:      "matcher",
		StartTime:    100,
		EndTime:      200,
		PricePerHour: 10,
		TotalPrice:   1000,
		MatchScore:   90,
		EscrowAmount: 1000,
		Status:       model.MatchStatusCreated,
	}
}

func (s *StoreTestSuite) TestMatchLifecycle() {
	match := s.match()
	require.Nil(s.T(), s.store.Atomic(s.ctx, func(tx store.Tx) error {
		return tx.InsertMatch(match)
	}))

	require.Nil(s.T(), s.store.Atomic(s.ctx, func(tx store.Tx) error {
		m, err := tx.LockMatch(match.Id)
		if err != nil {
			return err
		}
		m.Status = model.MatchStatusConsumerAccepted
		m.UpdatedAt = 5
		return tx.UpdateMatch(m)
	}))

	out, err := s.store.Match(s.ctx, match.Id)
	require.Nil(s.T(), err)
	require.Equal(s.T(), model.MatchStatusConsumerAccepted, out.Status)
	require.Equal(s.T(), int64(5), out.UpdatedAt)
	require.Equal(s.T(), uint64(1000), out.TotalPrice)
}

func (s *StoreTestSuite) TestTransferRollback() {
	owner := xid.New().String()
	other := xid.New().String()
	errBoom := errors.New("boom")

	require.Nil(s.T(), s.store.Atomic(s.ctx, func(tx store.Tx) error {
		err := tx.Ledger().Open(s.ctx, owner, owner)
		if err != nil {
			return err
		}
		return tx.Ledger().Open(s.ctx, other, other)
	}))

	// Empty account can't pay
	err := s.store.Atomic(s.ctx, func(tx store.Tx) error {
		_, err := tx.Ledger().Transfer(s.ctx, owner, owner, other, 1, "")
		return err
	})
	require.ErrorIs(s.T(), err, ledger.ErrInsufficientFunds)

	err = s.store.Atomic(s.ctx, func(tx store.Tx) error {
		err := tx.Ledger().Open(s.ctx, owner, owner)
		require.ErrorIs(s.T(), err, ledger.ErrAccountExists)
		return errBoom
	})
	require.ErrorIs(s.T(), err, errBoom)

	account, err := s.store.Account(s.ctx, owner)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(0), account.Balance)
}

func (s *StoreTestSuite) TestForeignAccount() {
	name := xid.New().String()
	err := s.store.Atomic(s.ctx, func(tx store.Tx) error {
		return tx.Ledger().Open(s.ctx, name, "mallory")
	})
	require.ErrorIs(s.T(), err, ledger.ErrForeignAccount)

	_, err = s.store.Account(s.ctx, name)
	require.ErrorIs(s.T(), err, store.ErrNotFound)
}

func (s *StoreTestSuite) TestNotFound() {
	_, err := s.store.Escrow(s.ctx, "missing")
	require.ErrorIs(s.T(), err, store.ErrNotFound)
}
