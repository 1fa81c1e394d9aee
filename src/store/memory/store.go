// Package memory is a Store kept in process memory. It serializes all units with one writer lock.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/warp-contracts/escrow/src/store"
	"github.com/warp-contracts/escrow/src/utils/clock"
	"github.com/warp-contracts/escrow/src/utils/model"
)

type Store struct {
	clock clock.Clock

	mtx       sync.RWMutex
	matches   map[string]*model.Match
	escrows   map[string]*model.Escrow
	accounts  map[string]*model.Account
	transfers []*model.Transfer
}

var _ store.Store = (*Store)(nil)

func New(clock clock.Clock) (self *Store) {
	self = new(Store)
	self.clock = clock
	self.matches = make(map[string]*model.Match)
	self.escrows = make(map[string]*model.Escrow)
	self.accounts = make(map[string]*model.Account)
	return
}

func (self *Store) Atomic(ctx context.Context, fn func(tx store.Tx) error) (err error) {
	err = ctx.Err()
	if err != nil {
		return
	}

	self.mtx.Lock()
	defer self.mtx.Unlock()

	tx := newTx(ctx, self)
	err = fn(tx)
	if err != nil {
		return
	}

	// Cancelled units never commit
	err = ctx.Err()
	if err != nil {
		return
	}

	tx.commit()
	return
}

func (self *Store) Match(ctx context.Context, id string) (*model.Match, error) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	match, ok := self.matches[id]
	if !ok {
		return nil, fmt.Errorf("%w: match %s", store.ErrNotFound, id)
	}
	out := *match
	return &out, nil
}

func (self *Store) Escrow(ctx context.Context, id string) (*model.Escrow, error) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	escrow, ok := self.escrows[id]
	if !ok {
		return nil, fmt.Errorf("%w: escrow %s", store.ErrNotFound, id)
	}
	out := *escrow
	return &out, nil
}

func (self *Store) Account(ctx context.Context, name string) (*model.Account, error) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	account, ok := self.accounts[name]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", store.ErrNotFound, name)
	}
	return account.Clone(), nil
}

func (self *Store) Releasable(ctx context.Context, now int64, limit int) (out []*model.Escrow, err error) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	for _, escrow := range self.escrows {
		if escrow.Status != model.EscrowStatusCreated || escrow.ReleaseTime > now {
			continue
		}
		e := *escrow
		out = append(out, &e)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ReleaseTime != out[j].ReleaseTime {
			return out[i].ReleaseTime < out[j].ReleaseTime
		}
		return out[i].Id < out[j].Id
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return
}

// Adds funds to an account, opening it for the owner with the same name if needed.
// Stands in for an external funding source.
func (self *Store) Deposit(name string, amount uint64) error {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	now := self.clock.Now()
	account, ok := self.accounts[name]
	if !ok {
		account = &model.Account{Name: name, Owner: name, CreatedAt: now}
		self.accounts[name] = account
	}
	if account.Balance > math.MaxUint64-amount {
		return fmt.Errorf("deposit overflows %s", name)
	}
	account.Balance += amount
	account.UpdatedAt = now
	return nil
}

// Puts the account into the store exactly as given, skipping the opening rules.
// Loads fixtures or accounts exported from another ledger.
func (self *Store) Restore(account model.Account) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	self.accounts[account.Name] = account.Clone()
}

// Every committed transfer, in order
func (self *Store) Transfers() []model.Transfer {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	out := make([]model.Transfer, len(self.transfers))
	for i, t := range self.transfers {
		out[i] = *t
	}
	return out
}

func (self *Store) Close() error {
	return nil
}
