package repository

import (
	"context"

	"artist-platform/internal/domains/artist/model"
)

// Store persists accounts and runs units of work against them
type Store interface {
	// WithTx runs fn inside one unit of work. Every change made through tx is
	// committed when fn returns nil and discarded otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Get reads a committed account outside any unit of work
	Get(ctx context.Context, addr model.Address) (*model.Account, error)

	// List returns committed accounts of one kind ordered by address
	List(ctx context.Context, kind model.RecordKind) ([]*model.Account, error)

	Ping(ctx context.Context) error
}

// Tx is the view of the store inside a unit of work.
// Accounts returned by Get are copies; write them back with Update.
type Tx interface {
	Get(ctx context.Context, addr model.Address) (*model.Account, error)
	Create(ctx context.Context, account *model.Account) error
	Update(ctx context.Context, account *model.Account) error
	Delete(ctx context.Context, addr model.Address) error
	List(ctx context.Context, kind model.RecordKind) ([]*model.Account, error)
}

func notFound(addr model.Address) error {
	return model.NewArtistErrorf(model.ErrAccountNotFound, "%s", addr)
}

func alreadyExists(addr model.Address) error {
	return model.NewArtistErrorf(model.ErrAccountExists, "%s", addr)
}
