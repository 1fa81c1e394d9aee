// Package store keeps matches, escrows and ledger balances. Every operation on them runs inside
// Store.Atomic, entities are loaded for update with Tx.LockMatch / Tx.LockEscrow.
package store

import (
	"context"

	"github.com/warp-contracts/escrow/src/ledger"
	"github.com/warp-contracts/escrow/src/utils/fault"
	"github.com/warp-contracts/escrow/src/utils/model"
)

var (
	ErrNotFound      = fault.New(fault.NotFound, "record not found")
	ErrAlreadyExists = fault.New(fault.Internal, "record already exists")
)

type Store interface {
	// Runs fn as a single all-or-nothing unit. Nothing fn did is visible to others
	// unless it returns nil. Locks taken inside are held until the unit finishes.
	Atomic(ctx context.Context, fn func(tx Tx) error) error

	// Reads outside of any unit
	Match(ctx context.Context, id string) (*model.Match, error)
	Escrow(ctx context.Context, id string) (*model.Escrow, error)
	Account(ctx context.Context, name string) (*model.Account, error)

	// Escrows still in custody whose release time is not after now, oldest first
	Releasable(ctx context.Context, now int64, limit int) ([]*model.Escrow, error)

	Close() error
}

type Tx interface {
	InsertMatch(match *model.Match) error

	// Loads the match and holds its lock until the unit finishes
	LockMatch(id string) (*model.Match, error)
	UpdateMatch(match *model.Match) error

	InsertEscrow(escrow *model.Escrow) error

	// Loads the escrow and holds its lock until the unit finishes
	LockEscrow(id string) (*model.Escrow, error)
	UpdateEscrow(escrow *model.Escrow) error

	// Ledger bound to this unit, transfers commit or roll back together with the entities
	Ledger() ledger.Ledger
}
