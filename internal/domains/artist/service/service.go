package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"artist-platform/internal/domains/artist/ledger"
	"artist-platform/internal/domains/artist/model"
	"artist-platform/internal/domains/artist/repository"
	"artist-platform/pkg/cache"
	"artist-platform/pkg/derive"
	"artist-platform/pkg/logger"
)

const profileCacheTTL = 10 * time.Minute

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

// Dependencies wires the service. Store and Deriver are required; the rest
// default to no-ops (Guard defaults to OwnerGuard, Clock to time.Now).
type Dependencies struct {
	Store         repository.Store
	Deriver       derive.Deriver
	Guard         AuthorizationGuard
	Reserve       ledger.ReservePolicy
	Clock         func() time.Time
	Cache         cache.Cache
	Events        EventPublisher
	Tasks         TaskEnqueuer
	Leaderboard   LeaderboardStore
	Decimals      int32
	FaucetEnabled bool
}

type artistService struct {
	store         repository.Store
	addresses     *Addresses
	guard         AuthorizationGuard
	reserve       ledger.ReservePolicy
	clock         func() time.Time
	cache         cache.Cache
	events        EventPublisher
	tasks         TaskEnqueuer
	leaderboard   LeaderboardStore
	decimals      int32
	faucetEnabled bool
}

func NewArtistService(deps Dependencies) ServiceInterface {
	s := &artistService{
		store:         deps.Store,
		addresses:     NewAddresses(deps.Deriver),
		guard:         deps.Guard,
		reserve:       deps.Reserve,
		clock:         deps.Clock,
		cache:         deps.Cache,
		events:        deps.Events,
		tasks:         deps.Tasks,
		leaderboard:   deps.Leaderboard,
		decimals:      deps.Decimals,
		faucetEnabled: deps.FaucetEnabled,
	}
	if s.guard == nil {
		s.guard = OwnerGuard{}
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.events == nil {
		s.events = noopPublisher{}
	}
	if s.tasks == nil {
		s.tasks = noopEnqueuer{}
	}
	if s.decimals == 0 {
		s.decimals = model.DefaultDecimals
	}
	return s
}

func (s *artistService) ProfileAddress(owner model.Key) (model.Address, error) {
	addr, _, err := s.addresses.Profile(owner)
	return addr, err
}

// =====================================================
// UNIT OF WORK
// =====================================================

// unit is the state one operation sees while its unit of work is open
type unit struct {
	ctx       context.Context
	tx        repository.Tx
	ledger    ledger.Ledger
	addresses *Addresses
}

func (s *artistService) run(ctx context.Context, fn func(u *unit) error) error {
	return s.store.WithTx(ctx, func(tx repository.Tx) error {
		return fn(&unit{ctx: ctx, tx: tx, ledger: ledger.New(tx, s.reserve), addresses: s.addresses})
	})
}

// load decodes the record stored at addr into rec
func (u *unit) load(addr model.Address, rec model.Record) (*model.Account, error) {
	account, err := u.tx.Get(u.ctx, addr)
	if err != nil {
		return nil, err
	}
	if account.Kind != rec.Kind() {
		return nil, model.NewArtistErrorf(model.ErrAccountNotFound, "%s holds a %s, not a %s", addr, account.Kind, rec.Kind())
	}
	if err := model.DecodeRecord(account.Data, rec); err != nil {
		return nil, fmt.Errorf("failed to decode %s at %s: %w", rec.Kind(), addr.Short(), err)
	}
	if err := u.addresses.Verify(addr, rec); err != nil {
		return nil, err
	}
	return account, nil
}

// loadBalance returns an account that only holds lamports (vault)
func (u *unit) loadBalance(addr model.Address, kind model.RecordKind) (*model.Account, error) {
	account, err := u.tx.Get(u.ctx, addr)
	if err != nil {
		return nil, err
	}
	if account.Kind != kind {
		return nil, model.NewArtistErrorf(model.ErrAccountNotFound, "%s holds a %s, not a %s", addr, account.Kind, kind)
	}
	return account, nil
}

// ensureAbsent lets a bare wallet through; create takes it over
func (u *unit) ensureAbsent(addr model.Address) error {
	account, err := u.tx.Get(u.ctx, addr)
	switch {
	case err == nil && isBareWallet(account):
		return nil
	case err == nil:
		return model.NewArtistErrorf(model.ErrAccountExists, "%s", addr)
	case errors.Is(err, model.ErrAccountNotFound):
		return nil
	default:
		return err
	}
}

// create opens a new account at addr and moves its storage reserve from payer.
// Lamports already credited to the address count toward the reserve.
func (u *unit) create(addr model.Address, kind model.RecordKind, rec model.Record, payer model.Key) error {
	var data []byte
	if rec != nil {
		encoded, err := model.EncodeRecord(rec)
		if err != nil {
			return err
		}
		data = encoded
	}

	reserve := u.ledger.MinimumReserve(kind)
	existing, err := u.tx.Get(u.ctx, addr)
	switch {
	case err == nil && isBareWallet(existing):
		// Update keeps an account's kind, so the balance is re-created under the new one
		if err := u.tx.Delete(u.ctx, addr); err != nil {
			return err
		}
		taken := &model.Account{Address: addr, Kind: kind, Lamports: existing.Lamports, Data: data}
		if err := u.tx.Create(u.ctx, taken); err != nil {
			return err
		}
		if existing.Lamports >= reserve {
			return nil
		}
		reserve -= existing.Lamports
	case err == nil:
		return model.NewArtistErrorf(model.ErrAccountExists, "%s", addr)
	case errors.Is(err, model.ErrAccountNotFound):
		if err := u.tx.Create(u.ctx, &model.Account{Address: addr, Kind: kind, Data: data}); err != nil {
			return err
		}
	default:
		return err
	}
	return u.ledger.Transfer(u.ctx, payer, addr, reserve)
}

// isBareWallet reports a balance with no record, as left by a credit to an unused address
func isBareWallet(account *model.Account) bool {
	return account.Kind == model.KindWallet && len(account.Data) == 0
}

// reclaim moves every lamport at addr to owner and deletes the account
func (u *unit) reclaim(addr model.Address, owner model.Key) (uint64, error) {
	account, err := u.tx.Get(u.ctx, addr)
	if err != nil {
		return 0, err
	}
	if err := u.ledger.Transfer(u.ctx, addr, owner, account.Lamports); err != nil {
		return 0, err
	}
	if err := u.tx.Delete(u.ctx, addr); err != nil {
		return 0, err
	}
	return account.Lamports, nil
}

// save re-encodes rec into the account at addr, keeping its current balance
func (u *unit) save(addr model.Address, rec model.Record) error {
	data, err := model.EncodeRecord(rec)
	if err != nil {
		return err
	}
	account, err := u.tx.Get(u.ctx, addr)
	if err != nil {
		return err
	}
	account.Data = data
	return u.tx.Update(u.ctx, account)
}

// =====================================================
// POST-COMMIT SIDE EFFECTS
// =====================================================

// publish never fails the operation; the state change already committed
func (s *artistService) publish(ctx context.Context, events ...model.Event) {
	for _, event := range events {
		if err := s.events.Publish(ctx, event); err != nil {
			logger.Error(fmt.Sprintf("failed to publish %s event", event.Type), err)
		}
	}
}

// ProfileCacheKey is where GetProfile caches a profile read
func ProfileCacheKey(profile model.Address) string {
	return "artist:profile:" + profile.String()
}

func (s *artistService) invalidateProfile(ctx context.Context, profile model.Address) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, ProfileCacheKey(profile)); err != nil {
		logger.Error("failed to invalidate profile cache", err)
	}
}

func (s *artistService) balanceResponse(account *model.Account, reserve uint64) *model.BalanceResponse {
	return &model.BalanceResponse{
		Address:  account.Address,
		Kind:     account.Kind.String(),
		Lamports: account.Lamports,
		Amount:   model.LamportsToDecimal(account.Lamports, s.decimals),
		Reserve:  reserve,
	}
}

func (s *artistService) now() int64 {
	return s.clock().Unix()
}
