package memory

import (
	"context"
	"fmt"

	"github.com/rs/xid"

	"github.com/warp-contracts/escrow/src/ledger"
	"github.com/warp-contracts/escrow/src/store"
	"github.com/warp-contracts/escrow/src/utils/model"
)

// Changes staged by a unit, applied on commit
type tx struct {
	ctx   context.Context
	store *Store

	matches   map[string]*model.Match
	escrows   map[string]*model.Escrow
	accounts  map[string]*model.Account
	transfers []*model.Transfer
}

func newTx(ctx context.Context, s *Store) *tx {
	return &tx{
		ctx:      ctx,
		store:    s,
		matches:  make(map[string]*model.Match),
		escrows:  make(map[string]*model.Escrow),
		accounts: make(map[string]*model.Account),
	}
}

func (self *tx) commit() {
	for id, match := range self.matches {
		self.store.matches[id] = match
	}
	for id, escrow := range self.escrows {
		self.store.escrows[id] = escrow
	}
	for name, account := range self.accounts {
		self.store.accounts[name] = account
	}
	self.store.transfers = append(self.store.transfers, self.transfers...)
}

func (self *tx) match(id string) (*model.Match, bool) {
	if match, ok := self.matches[id]; ok {
		out := *match
		return &out, true
	}
	if match, ok := self.store.matches[id]; ok {
		out := *match
		return &out, true
	}
	return nil, false
}

func (self *tx) escrow(id string) (*model.Escrow, bool) {
	if escrow, ok := self.escrows[id]; ok {
		out := *escrow
		return &out, true
	}
	if escrow, ok := self.store.escrows[id]; ok {
		out := *escrow
		return &out, true
	}
	return nil, false
}

func (self *tx) InsertMatch(match *model.Match) error {
	if _, ok := self.match(match.Id); ok {
		return fmt.Errorf("%w: match %s", store.ErrAlreadyExists, match.Id)
	}
	m := *match
	self.matches[match.Id] = &m
	return nil
}

func (self *tx) LockMatch(id string) (*model.Match, error) {
	match, ok := self.match(id)
	if !ok {
		return nil, fmt.Errorf("%w: match %s", store.ErrNotFound, id)
	}
	return match, nil
}

func (self *tx) UpdateMatch(match *model.Match) error {
	if _, ok := self.match(match.Id); !ok {
		return fmt.Errorf("%w: match %s", store.ErrNotFound, match.Id)
	}
	m := *match
	self.matches[match.Id] = &m
	return nil
}

func (self *tx) InsertEscrow(escrow *model.Escrow) error {
	if _, ok := self.escrow(escrow.Id); ok {
		return fmt.Errorf("%w: escrow %s", store.ErrAlreadyExists, escrow.Id)
	}
	e := *escrow
	self.escrows[escrow.Id] = &e
	return nil
}

func (self *tx) LockEscrow(id string) (*model.Escrow, error) {
	escrow, ok := self.escrow(id)
	if !ok {
		return nil, fmt.Errorf("%w: escrow %s", store.ErrNotFound, id)
	}
	return escrow, nil
}

func (self *tx) UpdateEscrow(escrow *model.Escrow) error {
	if _, ok := self.escrow(escrow.Id); !ok {
		return fmt.Errorf("%w: escrow %s", store.ErrNotFound, escrow.Id)
	}
	e := *escrow
	self.escrows[escrow.Id] = &e
	return nil
}

func (self *tx) Ledger() ledger.Ledger {
	return self
}

func (self *tx) account(name string) (*model.Account, bool) {
	if account, ok := self.accounts[name]; ok {
		return account, true
	}
	if account, ok := self.store.accounts[name]; ok {
		// Staged copy, the committed one stays untouched until commit
		account = account.Clone()
		self.accounts[name] = account
		return account, true
	}
	return nil, false
}

func (self *tx) Open(ctx context.Context, name, owner string, delegates ...string) error {
	err := ledger.CheckOpen(name, owner)
	if err != nil {
		return err
	}
	if _, ok := self.account(name); ok {
		return fmt.Errorf("%w: %s", ledger.ErrAccountExists, name)
	}
	now := self.store.clock.Now()
	self.accounts[name] = &model.Account{
		Name:      name,
		Owner:     owner,
		Delegates: delegates,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (self *tx) Account(ctx context.Context, name string) (*model.Account, error) {
	account, ok := self.account(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, name)
	}
	return account.Clone(), nil
}

func (self *tx) Transfer(ctx context.Context, authority, from, to string, amount uint64, memo string) (*model.Transfer, error) {
	err := ledger.CheckTransfer(from, to)
	if err != nil {
		return nil, err
	}

	source, ok := self.account(from)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, from)
	}

	err = ledger.CheckDebit(source, authority, amount)
	if err != nil {
		return nil, err
	}

	now := self.store.clock.Now()
	destination, ok := self.account(to)
	if !ok {
		destination = &model.Account{Name: to, Owner: to, CreatedAt: now}
		self.accounts[to] = destination
	}

	err = ledger.CheckCredit(destination, amount)
	if err != nil {
		return nil, err
	}

	source.Balance -= amount
	source.UpdatedAt = now
	destination.Balance += amount
	destination.UpdatedAt = now

	transfer := &model.Transfer{
		Id:        xid.New().String(),
		From:      from,
		To:        to,
		Amount:    amount,
		Authority: authority,
		Memo:      memo,
		CreatedAt: now,
	}
	self.transfers = append(self.transfers, transfer)

	out := *transfer
	return &out, nil
}
