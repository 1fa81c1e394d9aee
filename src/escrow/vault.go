// Package escrow holds a consumer's payment in custody until it is released to the provider,
// refunded, or split by the arbitrator after a dispute.
package escrow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgtype"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/warp-contracts/escrow/src/guard"
	"github.com/warp-contracts/escrow/src/matching"
	"github.com/warp-contracts/escrow/src/notify"
	"github.com/warp-contracts/escrow/src/store"
	"github.com/warp-contracts/escrow/src/utils/clock"
	"github.com/warp-contracts/escrow/src/utils/config"
	"github.com/warp-contracts/escrow/src/utils/logger"
	"github.com/warp-contracts/escrow/src/utils/model"
	"github.com/warp-contracts/escrow/src/utils/monitoring"
)

type Vault struct {
	config *config.Config
	log    *logrus.Entry

	store    store.Store
	clock    clock.Clock
	notifier notify.Notifier
	monitor  monitoring.Monitor

	// Identity allowed to refund and to resolve disputes
	arbitrator string

	// Custody authorities are derived from it
	secret []byte
}

func NewVault(config *config.Config) (self *Vault) {
	self = new(Vault)
	self.config = config
	self.log = logger.NewSublogger("escrow")
	self.clock = clock.NewSystem()
	self.notifier = notify.Nop{}
	self.monitor = monitoring.NewNop()
	self.arbitrator = config.Escrow.Arbitrator
	self.secret = []byte(config.Escrow.CustodySecret)
	return
}

func (self *Vault) WithStore(v store.Store) *Vault {
	self.store = v
	return self
}

func (self *Vault) WithClock(v clock.Clock) *Vault {
	self.clock = v
	return self
}

func (self *Vault) WithNotifier(v notify.Notifier) *Vault {
	self.notifier = v
	return self
}

func (self *Vault) WithMonitor(v monitoring.Monitor) *Vault {
	self.monitor = v
	return self
}

func (self *Vault) onError(err error, operation, id string) {
	if err == nil {
		return
	}
	self.monitor.GetReport().Escrow.Errors.Inc(err)
	self.log.WithError(err).WithField("operation", operation).WithField("escrow_id", id).Debug("Operation failed")
}

func lockEscrow(tx store.Tx, id string) (*model.Escrow, error) {
	escrow, err := tx.LockEscrow(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrEscrowNotFound, id)
	}
	return escrow, err
}

func invalidStatus(escrow *model.Escrow) error {
	return fmt.Errorf("%w: escrow %s is %s", ErrInvalidEscrowStatus, escrow.Id, escrow.Status)
}

// Consumer moves amount into custody for the given match
func (self *Vault) CreateEscrow(ctx context.Context, caller, matchId string, amount uint64, releaseTime int64) (out *model.Escrow, err error) {
	defer func() { self.onError(err, "create", "") }()

	err = guard.CheckIdentity(caller)
	if err != nil {
		return
	}

	if amount == 0 {
		err = ErrInvalidAmount
		return
	}

	now := self.clock.Now()
	if releaseTime <= now {
		err = fmt.Errorf("%w: %d is not after %d", ErrInvalidReleaseTime, releaseTime, now)
		return
	}

	escrow := &model.Escrow{
		Id:          xid.New().String(),
		MatchId:     matchId,
		Consumer:    caller,
		Amount:      amount,
		ReleaseTime: releaseTime,
		Status:      model.EscrowStatusCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = self.store.Atomic(ctx, func(tx store.Tx) (err error) {
		match, err := tx.LockMatch(matchId)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", matching.ErrMatchNotFound, matchId)
		}
		if err != nil {
			return
		}

		err = guard.Require(caller, match.Consumer, "fund escrow")
		if err != nil {
			return
		}

		if match.Status == model.MatchStatusRejected {
			return fmt.Errorf("%w: match %s is %s", matching.ErrInvalidMatchStatus, match.Id, match.Status)
		}

		escrow.Provider = match.Provider
		custody := CustodyAccount(escrow.Id)

		err = tx.Ledger().Open(ctx, custody, self.custodyAuthority(escrow.Id))
		if err != nil {
			return
		}

		_, err = tx.Ledger().Transfer(ctx, caller, caller, custody, amount, "escrow deposit "+escrow.Id)
		if err != nil {
			return
		}

		return tx.InsertEscrow(escrow)
	})
	if err != nil {
		return
	}

	self.monitor.GetReport().Escrow.State.EscrowsCreated.Inc()
	self.monitor.GetReport().Escrow.State.AmountDeposited.Add(amount)
	self.notifier.Notify(&model.Event{
		Id:        xid.New().String(),
		Kind:      model.EventEscrowCreated,
		EntityId:  escrow.Id,
		MatchId:   escrow.MatchId,
		Status:    string(escrow.Status),
		Caller:    caller,
		Timestamp: now,
		Consumer:  escrow.Consumer,
		Provider:  escrow.Provider,
		Amount:    escrow.Amount,
	})

	self.log.WithField("escrow_id", escrow.Id).WithField("amount", amount).Info("Escrow created")
	return escrow, nil
}

// Pays the provider. Before the release time only the consumer may do it, afterwards anyone
func (self *Vault) ReleaseFunds(ctx context.Context, caller, id string) (out *model.Escrow, err error) {
	defer func() { self.onError(err, "release", id) }()

	var released uint64
	err = self.store.Atomic(ctx, func(tx store.Tx) (err error) {
		escrow, err := lockEscrow(tx, id)
		if err != nil {
			return
		}

		if self.clock.Now() < escrow.ReleaseTime {
			err = guard.Require(caller, escrow.Consumer, "release escrow before the release time")
			if err != nil {
				return
			}
		}

		if escrow.Status != model.EscrowStatusCreated {
			return invalidStatus(escrow)
		}

		released, err = self.payOut(ctx, tx, escrow, escrow.Provider, "escrow release "+escrow.Id)
		if err != nil {
			return
		}

		out, err = self.update(tx, escrow, model.EscrowStatusReleased)
		return
	})
	if err != nil {
		out = nil
		return
	}

	self.monitor.GetReport().Escrow.State.EscrowsReleased.Inc()
	self.monitor.GetReport().Escrow.State.AmountReleased.Add(released)
	self.notify(out, model.EventEscrowReleased, caller, func(event *model.Event) {
		event.Provider = out.Provider
		event.Amount = released
		event.ProviderAmount = released
	})
	return
}

// Returns the funds to the consumer. Provider or arbitrator only
func (self *Vault) RefundEscrow(ctx context.Context, caller, id string) (out *model.Escrow, err error) {
	defer func() { self.onError(err, "refund", id) }()

	var refunded uint64
	err = self.store.Atomic(ctx, func(tx store.Tx) (err error) {
		escrow, err := lockEscrow(tx, id)
		if err != nil {
			return
		}

		err = guard.RequireOneOf(caller, []string{escrow.Provider, self.arbitrator}, "refund escrow")
		if err != nil {
			return
		}

		if escrow.Status != model.EscrowStatusCreated {
			return invalidStatus(escrow)
		}

		refunded, err = self.payOut(ctx, tx, escrow, escrow.Consumer, "escrow refund "+escrow.Id)
		if err != nil {
			return
		}

		out, err = self.update(tx, escrow, model.EscrowStatusRefunded)
		return
	})
	if err != nil {
		out = nil
		return
	}

	self.monitor.GetReport().Escrow.State.EscrowsRefunded.Inc()
	self.monitor.GetReport().Escrow.State.AmountRefunded.Add(refunded)
	self.notify(out, model.EventEscrowRefunded, caller, func(event *model.Event) {
		event.Consumer = out.Consumer
		event.Amount = refunded
		event.ConsumerAmount = refunded
	})
	return
}

// Freezes the funds until the arbitrator decides. Consumer or provider only
func (self *Vault) DisputeEscrow(ctx context.Context, caller, id, reason string) (out *model.Escrow, err error) {
	defer func() { self.onError(err, "dispute", id) }()

	reason = strings.TrimSpace(reason)
	if len(reason) > self.config.Escrow.MaxDisputeReasonLength {
		err = fmt.Errorf("%w: longer than %d bytes", ErrInvalidReason, self.config.Escrow.MaxDisputeReasonLength)
		return
	}

	err = self.store.Atomic(ctx, func(tx store.Tx) (err error) {
		escrow, err := lockEscrow(tx, id)
		if err != nil {
			return
		}

		err = guard.RequireOneOf(caller, []string{escrow.Consumer, escrow.Provider}, "dispute escrow")
		if err != nil {
			return
		}

		if escrow.Status != model.EscrowStatusCreated {
			return invalidStatus(escrow)
		}

		escrow.DisputeReason = pgtype.Text{String: reason, Status: pgtype.Present}
		escrow.DisputedBy = pgtype.Text{String: caller, Status: pgtype.Present}

		out, err = self.update(tx, escrow, model.EscrowStatusDisputed)
		return
	})
	if err != nil {
		out = nil
		return
	}

	self.monitor.GetReport().Escrow.State.EscrowsDisputed.Inc()
	self.notify(out, model.EventEscrowDisputed, caller, func(event *model.Event) {
		event.Reason = reason
	})
	return
}

// Arbitrator splits a disputed escrow between the parties, shares are percents summing to 100
func (self *Vault) ResolveDispute(ctx context.Context, caller, id string, consumerShare, providerShare uint8) (out *model.Escrow, err error) {
	defer func() { self.onError(err, "resolve", id) }()

	var consumerAmount, providerAmount uint64
	err = self.store.Atomic(ctx, func(tx store.Tx) (err error) {
		escrow, err := lockEscrow(tx, id)
		if err != nil {
			return
		}

		err = guard.Require(caller, self.arbitrator, "resolve dispute")
		if err != nil {
			return
		}

		if escrow.Status != model.EscrowStatusDisputed {
			return invalidStatus(escrow)
		}

		err = checkShares(consumerShare, providerShare)
		if err != nil {
			return
		}

		custody, err := tx.Ledger().Account(ctx, CustodyAccount(escrow.Id))
		if err != nil {
			return
		}

		consumerAmount, providerAmount = split(custody.Balance, consumerShare)
		authority := self.custodyAuthority(escrow.Id)

		// Zero legs are skipped, the ledger refuses empty transfers
		if consumerAmount > 0 {
			_, err = tx.Ledger().Transfer(ctx, authority, custody.Name, escrow.Consumer, consumerAmount, "dispute consumer share "+escrow.Id)
			if err != nil {
				return
			}
		}
		if providerAmount > 0 {
			_, err = tx.Ledger().Transfer(ctx, authority, custody.Name, escrow.Provider, providerAmount, "dispute provider share "+escrow.Id)
			if err != nil {
				return
			}
		}

		escrow.ConsumerShare = pgtype.Int2{Int: int16(consumerShare), Status: pgtype.Present}
		escrow.ProviderShare = pgtype.Int2{Int: int16(providerShare), Status: pgtype.Present}

		out, err = self.update(tx, escrow, model.EscrowStatusResolved)
		return
	})
	if err != nil {
		out = nil
		return
	}

	self.monitor.GetReport().Escrow.State.EscrowsResolved.Inc()
	self.monitor.GetReport().Escrow.State.AmountResolved.Add(consumerAmount + providerAmount)
	self.notify(out, model.EventDisputeResolved, caller, func(event *model.Event) {
		event.Consumer = out.Consumer
		event.Provider = out.Provider
		event.Amount = consumerAmount + providerAmount
		event.ConsumerAmount = consumerAmount
		event.ProviderAmount = providerAmount
		event.ConsumerShare = consumerShare
		event.ProviderShare = providerShare
	})
	return
}

func (self *Vault) GetEscrow(ctx context.Context, id string) (out *model.Escrow, err error) {
	out, err = self.store.Escrow(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		err = fmt.Errorf("%w: %s", ErrEscrowNotFound, id)
	}
	return
}

// Value currently held for the escrow
func (self *Vault) CustodyBalance(ctx context.Context, id string) (balance uint64, err error) {
	_, err = self.GetEscrow(ctx, id)
	if err != nil {
		return
	}

	account, err := self.store.Account(ctx, CustodyAccount(id))
	if err != nil {
		return
	}
	return account.Balance, nil
}

// Moves the whole custody balance to the recipient
func (self *Vault) payOut(ctx context.Context, tx store.Tx, escrow *model.Escrow, recipient, memo string) (amount uint64, err error) {
	custody, err := tx.Ledger().Account(ctx, CustodyAccount(escrow.Id))
	if err != nil {
		return
	}

	if custody.Balance == 0 {
		return
	}

	_, err = tx.Ledger().Transfer(ctx, self.custodyAuthority(escrow.Id), custody.Name, recipient, custody.Balance, memo)
	if err != nil {
		return
	}
	return custody.Balance, nil
}

func (self *Vault) update(tx store.Tx, escrow *model.Escrow, status model.EscrowStatus) (*model.Escrow, error) {
	escrow.Status = status
	escrow.UpdatedAt = self.clock.Now()

	err := tx.UpdateEscrow(escrow)
	if err != nil {
		return nil, err
	}
	return escrow, nil
}

func (self *Vault) notify(escrow *model.Escrow, kind model.EventKind, caller string, fill func(*model.Event)) {
	event := &model.Event{
		Id:        xid.New().String(),
		Kind:      kind,
		EntityId:  escrow.Id,
		MatchId:   escrow.MatchId,
		Status:    string(escrow.Status),
		Caller:    caller,
		Timestamp: escrow.UpdatedAt,
	}
	fill(event)
	self.notifier.Notify(event)

	self.log.WithField("escrow_id", escrow.Id).WithField("status", escrow.Status).Info("Escrow status updated")
}
