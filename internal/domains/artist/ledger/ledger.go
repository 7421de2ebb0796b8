package ledger

import (
	"context"
	"errors"

	"artist-platform/internal/domains/artist/model"
	"artist-platform/internal/domains/artist/repository"
)

// Ledger moves lamports between accounts inside one unit of work
type Ledger interface {
	// Transfer debits from and credits to, or changes nothing on error.
	// A missing destination is opened as an empty wallet.
	Transfer(ctx context.Context, from, to model.Address, amount uint64) error

	// BalanceOf reports 0 for an account that does not exist
	BalanceOf(ctx context.Context, addr model.Address) (uint64, error)

	MinimumReserve(kind model.RecordKind) uint64

	// Mint credits lamports from outside the system (faucet). Only wallets
	// can be minted into; record accounts are refused with ErrNotAWallet.
	Mint(ctx context.Context, to model.Address, amount uint64) error
}

type txLedger struct {
	tx     repository.Tx
	policy ReservePolicy
}

// New binds a ledger to the unit of work tx
func New(tx repository.Tx, policy ReservePolicy) Ledger {
	return &txLedger{tx: tx, policy: policy}
}

func (l *txLedger) MinimumReserve(kind model.RecordKind) uint64 {
	return l.policy.MinimumReserve(kind)
}

func (l *txLedger) BalanceOf(ctx context.Context, addr model.Address) (uint64, error) {
	account, err := l.tx.Get(ctx, addr)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return account.Lamports, nil
}

func (l *txLedger) Transfer(ctx context.Context, from, to model.Address, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}

	// Step 1: Debit side must exist and cover the amount
	source, err := l.tx.Get(ctx, from)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return model.NewArtistErrorf(model.ErrInsufficientFunds, "%s has 0, needs %d", from.Short(), amount)
		}
		return err
	}
	if source.Lamports < amount {
		return model.NewArtistErrorf(model.ErrInsufficientFunds,
			"%s has %d, needs %d", from.Short(), source.Lamports, amount)
	}

	// Step 2: Credit side, overflow checked before anything is written
	dest, created, err := l.loadOrOpen(ctx, to)
	if err != nil {
		return err
	}
	credited, err := CheckedAdd(dest.Lamports, amount)
	if err != nil {
		return err
	}

	// Step 3: Write both sides
	source.Lamports -= amount
	dest.Lamports = credited
	if err := l.tx.Update(ctx, source); err != nil {
		return err
	}
	if created {
		return l.tx.Create(ctx, dest)
	}
	return l.tx.Update(ctx, dest)
}

func (l *txLedger) Mint(ctx context.Context, to model.Address, amount uint64) error {
	if amount == 0 {
		return model.NewArtistError(model.ErrInvalidAmount)
	}
	dest, created, err := l.loadOrOpen(ctx, to)
	if err != nil {
		return err
	}
	if dest.Kind != model.KindWallet {
		return model.NewArtistErrorf(model.ErrNotAWallet, "%s holds a %s", to.Short(), dest.Kind)
	}
	credited, err := CheckedAdd(dest.Lamports, amount)
	if err != nil {
		return err
	}
	dest.Lamports = credited
	if created {
		return l.tx.Create(ctx, dest)
	}
	return l.tx.Update(ctx, dest)
}

func (l *txLedger) loadOrOpen(ctx context.Context, addr model.Address) (*model.Account, bool, error) {
	account, err := l.tx.Get(ctx, addr)
	if err == nil {
		return account, false, nil
	}
	if !errors.Is(err, model.ErrAccountNotFound) {
		return nil, false, err
	}
	return &model.Account{Address: addr, Kind: model.KindWallet}, true, nil
}
