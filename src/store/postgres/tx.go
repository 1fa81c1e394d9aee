package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/xid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/warp-contracts/escrow/src/ledger"
	"github.com/warp-contracts/escrow/src/store"
	"github.com/warp-contracts/escrow/src/utils/clock"
	"github.com/warp-contracts/escrow/src/utils/model"
)

type tx struct {
	ctx   context.Context
	db    *gorm.DB
	clock clock.Clock
}

func (self *tx) forUpdate() *gorm.DB {
	return self.db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (self *tx) InsertMatch(match *model.Match) error {
	return self.db.Create(match).Error
}

func (self *tx) LockMatch(id string) (out *model.Match, err error) {
	out = new(model.Match)
	err = self.forUpdate().
		Where("id = ?", id).
		First(out).
		Error
	if err != nil {
		return nil, translate(err, "match", id)
	}
	return
}

func (self *tx) UpdateMatch(match *model.Match) error {
	res := self.db.Model(match).
		Select("*").
		Omit("id", "created_at").
		Updates(match)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("%w: match %s", store.ErrNotFound, match.Id)
	}
	return nil
}

func (self *tx) InsertEscrow(escrow *model.Escrow) error {
	return self.db.Create(escrow).Error
}

func (self *tx) LockEscrow(id string) (out *model.Escrow, err error) {
	out = new(model.Escrow)
	err = self.forUpdate().
		Where("id = ?", id).
		First(out).
		Error
	if err != nil {
		return nil, translate(err, "escrow", id)
	}
	return
}

func (self *tx) UpdateEscrow(escrow *model.Escrow) error {
	res := self.db.Model(escrow).
		Select("*").
		Omit("id", "created_at").
		Updates(escrow)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("%w: escrow %s", store.ErrNotFound, escrow.Id)
	}
	return nil
}

func (self *tx) Ledger() ledger.Ledger {
	return self
}

func (self *tx) Open(ctx context.Context, name, owner string, delegates ...string) error {
	err := ledger.CheckOpen(name, owner)
	if err != nil {
		return err
	}

	now := self.clock.Now()
	res := self.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Account{
			Name:      name,
			Owner:     owner,
			Delegates: delegates,
			CreatedAt: now,
			UpdatedAt: now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ledger.ErrAccountExists, name)
	}
	return nil
}

func (self *tx) Account(ctx context.Context, name string) (out *model.Account, err error) {
	out = new(model.Account)
	err = self.db.
		Where("name = ?", name).
		First(out).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, name)
	}
	return
}

func (self *tx) lockAccount(name string) (out *model.Account, err error) {
	out = new(model.Account)
	err = self.forUpdate().
		Where("name = ?", name).
		First(out).
		Error
	return
}

func (self *tx) Transfer(ctx context.Context, authority, from, to string, amount uint64, memo string) (out *model.Transfer, err error) {
	err = ledger.CheckTransfer(from, to)
	if err != nil {
		return
	}

	source, err := self.lockAccount(from)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, from)
	}
	if err != nil {
		return
	}

	err = ledger.CheckDebit(source, authority, amount)
	if err != nil {
		return
	}

	now := self.clock.Now()
	destination, err := self.lockAccount(to)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		destination = &model.Account{Name: to, Owner: to, CreatedAt: now, UpdatedAt: now}
		err = self.db.Create(destination).Error
	}
	if err != nil {
		return
	}

	err = ledger.CheckCredit(destination, amount)
	if err != nil {
		return
	}

	// Balance condition repeats the check above on the locked row
	res := self.db.Model(&model.Account{}).
		Where("name = ?", from).
		Where("balance >= ?", amount).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance - ?", amount),
			"updated_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected != 1 {
		return nil, fmt.Errorf("%w: %s", ledger.ErrInsufficientFunds, from)
	}

	err = self.db.Model(&model.Account{}).
		Where("name = ?", to).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance + ?", amount),
			"updated_at": now,
		}).
		Error
	if err != nil {
		return
	}

	out = &model.Transfer{
		Id:        xid.New().String(),
		From:      from,
		To:        to,
		Amount:    amount,
		Authority: authority,
		Memo:      memo,
		CreatedAt: now,
	}
	err = self.db.Create(out).Error
	if err != nil {
		return nil, err
	}
	return
}
