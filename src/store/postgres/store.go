// Package postgres is a Store backed by PostgreSQL. Units are database transactions,
// entity locks are row locks taken with SELECT ... FOR UPDATE.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/warp-contracts/escrow/src/store"
	"github.com/warp-contracts/escrow/src/utils/clock"
	"github.com/warp-contracts/escrow/src/utils/model"
)

type Store struct {
	db    *gorm.DB
	clock clock.Clock

	// Upper limit for a single unit, 0 is no limit
	timeout time.Duration
}

var _ store.Store = (*Store)(nil)

func New(db *gorm.DB, clock clock.Clock) (self *Store) {
	self = new(Store)
	self.db = db
	self.clock = clock
	return
}

func (self *Store) WithTimeout(timeout time.Duration) *Store {
	self.timeout = timeout
	return self
}

func (self *Store) Atomic(ctx context.Context, fn func(tx store.Tx) error) (err error) {
	if self.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, self.timeout)
		defer cancel()
	}

	return self.db.WithContext(ctx).
		Transaction(func(db *gorm.DB) error {
			return fn(&tx{ctx: ctx, db: db, clock: self.clock})
		})
}

func (self *Store) Match(ctx context.Context, id string) (out *model.Match, err error) {
	out = new(model.Match)
	err = self.db.WithContext(ctx).
		Where("id = ?", id).
		First(out).
		Error
	if err != nil {
		return nil, translate(err, "match", id)
	}
	return
}

func (self *Store) Escrow(ctx context.Context, id string) (out *model.Escrow, err error) {
	out = new(model.Escrow)
	err = self.db.WithContext(ctx).
		Where("id = ?", id).
		First(out).
		Error
	if err != nil {
		return nil, translate(err, "escrow", id)
	}
	return
}

func (self *Store) Account(ctx context.Context, name string) (out *model.Account, err error) {
	out = new(model.Account)
	err = self.db.WithContext(ctx).
		Where("name = ?", name).
		First(out).
		Error
	if err != nil {
		return nil, translate(err, "account", name)
	}
	return
}

func (self *Store) Releasable(ctx context.Context, now int64, limit int) (out []*model.Escrow, err error) {
	err = self.db.WithContext(ctx).
		Where("status = ?", model.EscrowStatusCreated).
		Where("release_time <= ?", now).
		Order("release_time ASC, id ASC").
		Limit(limit).
		Find(&out).
		Error
	return
}

func (self *Store) Close() error {
	db, err := self.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

func translate(err error, kind, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %s", store.ErrNotFound, kind, id)
	}
	return err
}
