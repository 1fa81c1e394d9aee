// Package matching drives a match between a consumer and a provider from proposal to completion.
package matching

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/warp-contracts/escrow/src/guard"
	"github.com/warp-contracts/escrow/src/notify"
	"github.com/warp-contracts/escrow/src/store"
	"github.com/warp-contracts/escrow/src/utils/clock"
	"github.com/warp-contracts/escrow/src/utils/config"
	"github.com/warp-contracts/escrow/src/utils/logger"
	"github.com/warp-contracts/escrow/src/utils/model"
	"github.com/warp-contracts/escrow/src/utils/monitoring"
)

type Engine struct {
	config *config.Config
	log    *logrus.Entry

	store    store.Store
	clock    clock.Clock
	notifier notify.Notifier
	monitor  monitoring.Monitor
}

func NewEngine(config *config.Config) (self *Engine) {
	self = new(Engine)
	self.config = config
	self.log = logger.NewSublogger("matching")
	self.clock = clock.NewSystem()
	self.notifier = notify.Nop{}
	self.monitor = monitoring.NewNop()
	return
}

func (self *Engine) WithStore(v store.Store) *Engine {
	self.store = v
	return self
}

func (self *Engine) WithClock(v clock.Clock) *Engine {
	self.clock = v
	return self
}

func (self *Engine) WithNotifier(v notify.Notifier) *Engine {
	self.notifier = v
	return self
}

func (self *Engine) WithMonitor(v monitoring.Monitor) *Engine {
	self.monitor = v
	return self
}

func (self *Engine) onError(err error, operation, id string) {
	if err == nil {
		return
	}
	self.monitor.GetReport().Matching.Errors.Inc(err)
	self.log.WithError(err).WithField("operation", operation).WithField("match_id", id).Debug("Operation failed")
}

func (self *Engine) CreateMatch(ctx context.Context, matcher string, proposal *Proposal) (out *model.Match, err error) {
	defer func() { self.onError(err, "create", "") }()

	err = guard.CheckIdentity(matcher)
	if err != nil {
		return
	}

	err = proposal.Validate()
	if err != nil {
		return
	}

	now := self.clock.Now()
	match := &model.Match{
		Id:           xid.New().String(),
		DemandId:     proposal.DemandId,
		ResourceId:   proposal.ResourceId,
		Consumer:     proposal.Consumer,
		Provider:     proposal.Provider,
		Matcher:      matcher,
		StartTime:    proposal.StartTime,
		EndTime:      proposal.EndTime,
		PricePerHour: proposal.PricePerHour,
		TotalPrice:   proposal.TotalPrice,
		MatchScore:   proposal.MatchScore,
		EscrowAmount: proposal.EscrowAmount,
		Status:       model.MatchStatusCreated,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = self.store.Atomic(ctx, func(tx store.Tx) error {
		return tx.InsertMatch(match)
	})
	if err != nil {
		return
	}

	self.monitor.GetReport().Matching.State.MatchesCreated.Inc()
	self.notifier.Notify(&model.Event{
		Id:         xid.New().String(),
		Kind:       model.EventMatchCreated,
		EntityId:   match.Id,
		MatchId:    match.Id,
		Status:     string(match.Status),
		Caller:     matcher,
		Timestamp:  now,
		Demand:     match.DemandId,
		Resource:   match.ResourceId,
		Consumer:   match.Consumer,
		Provider:   match.Provider,
		TotalPrice: match.TotalPrice,
	})

	self.log.WithField("match_id", match.Id).Info("Match created")
	return match, nil
}

// Consumer agrees to a freshly created match
func (self *Engine) AcceptMatchConsumer(ctx context.Context, caller, id string) (out *model.Match, err error) {
	defer func() { self.onError(err, "accept_consumer", id) }()

	return self.transition(ctx, caller, id, model.MatchStatusConsumerAccepted, func(match *model.Match) error {
		err := guard.Require(caller, match.Consumer, "accept match as consumer")
		if err != nil {
			return err
		}
		if match.Status != model.MatchStatusCreated {
			return fmt.Errorf("%w: match %s is %s", ErrInvalidMatchStatus, match.Id, match.Status)
		}
		return nil
	})
}

// Provider confirms a match the consumer already accepted
func (self *Engine) AcceptMatchProvider(ctx context.Context, caller, id string) (out *model.Match, err error) {
	defer func() { self.onError(err, "accept_provider", id) }()

	return self.transition(ctx, caller, id, model.MatchStatusConfirmed, func(match *model.Match) error {
		err := guard.Require(caller, match.Provider, "accept match as provider")
		if err != nil {
			return err
		}
		if match.Status != model.MatchStatusConsumerAccepted {
			return fmt.Errorf("%w: match %s is %s", ErrInvalidMatchStatus, match.Id, match.Status)
		}
		return nil
	})
}

// Either party withdraws before the match gets confirmed
func (self *Engine) RejectMatch(ctx context.Context, caller, id string) (out *model.Match, err error) {
	defer func() { self.onError(err, "reject", id) }()

	return self.transition(ctx, caller, id, model.MatchStatusRejected, func(match *model.Match) error {
		err := guard.RequireOneOf(caller, []string{match.Consumer, match.Provider}, "reject match")
		if err != nil {
			return err
		}
		if match.Status != model.MatchStatusCreated && match.Status != model.MatchStatusConsumerAccepted {
			return fmt.Errorf("%w: match %s is %s", ErrCannotRejectActiveMatch, match.Id, match.Status)
		}
		return nil
	})
}

// Provider finishes a confirmed match
func (self *Engine) CompleteMatch(ctx context.Context, caller, id string) (out *model.Match, err error) {
	defer func() { self.onError(err, "complete", id) }()

	return self.transition(ctx, caller, id, model.MatchStatusCompleted, func(match *model.Match) error {
		err := guard.Require(caller, match.Provider, "complete match")
		if err != nil {
			return err
		}
		if match.Status != model.MatchStatusConfirmed {
			return fmt.Errorf("%w: match %s is %s", ErrInvalidMatchStatusForCompletion, match.Id, match.Status)
		}
		return nil
	})
}

func (self *Engine) GetMatch(ctx context.Context, id string) (out *model.Match, err error) {
	out, err = self.store.Match(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		err = fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}
	return
}

// Locks the match, runs the checks and stores the new status as a single unit
func (self *Engine) transition(ctx context.Context, caller, id string, to model.MatchStatus, check func(*model.Match) error) (out *model.Match, err error) {
	err = self.store.Atomic(ctx, func(tx store.Tx) (err error) {
		match, err := tx.LockMatch(id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrMatchNotFound, id)
		}
		if err != nil {
			return
		}

		err = check(match)
		if err != nil {
			return
		}

		match.Status = to
		match.UpdatedAt = self.clock.Now()

		err = tx.UpdateMatch(match)
		if err != nil {
			return
		}

		out = match
		return
	})
	if err != nil {
		out = nil
		return
	}

	self.count(to)
	self.notifier.Notify(&model.Event{
		Id:        xid.New().String(),
		Kind:      model.EventMatchStatusUpdated,
		EntityId:  out.Id,
		MatchId:   out.Id,
		Status:    string(out.Status),
		Caller:    caller,
		Timestamp: out.UpdatedAt,
	})

	self.log.WithField("match_id", out.Id).WithField("status", out.Status).Info("Match status updated")
	return
}

func (self *Engine) count(status model.MatchStatus) {
	state := &self.monitor.GetReport().Matching.State
	switch status {
	case model.MatchStatusConsumerAccepted:
		state.ConsumerAccepted.Inc()
	case model.MatchStatusConfirmed:
		state.Confirmed.Inc()
	case model.MatchStatusRejected:
		state.Rejected.Inc()
	case model.MatchStatusCompleted:
		state.Completed.Inc()
	}
}
