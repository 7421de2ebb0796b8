package repository

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"artist-platform/internal/domains/artist/model"
)

// memoryStore keeps accounts in a map. Units of work hold the write lock for
// their whole run and stage changes in a private overlay.
type memoryStore struct {
	mu       sync.RWMutex
	accounts map[model.Address]*model.Account
	now      func() time.Time
}

func NewMemoryStore() Store {
	return &memoryStore{
		accounts: make(map[model.Address]*model.Account),
		now:      time.Now,
	}
}

func (s *memoryStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{
		base:   s.accounts,
		staged: make(map[model.Address]*model.Account),
		now:    s.now,
	}
	if err := fn(tx); err != nil {
		return err
	}

	for addr, account := range tx.staged {
		if account == nil {
			delete(s.accounts, addr)
			continue
		}
		s.accounts[addr] = account
	}
	return nil
}

func (s *memoryStore) Get(ctx context.Context, addr model.Address) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[addr]
	if !ok {
		return nil, notFound(addr)
	}
	return account.Clone(), nil
}

func (s *memoryStore) List(ctx context.Context, kind model.RecordKind) ([]*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return collect(s.accounts, nil, kind), nil
}

func (s *memoryStore) Ping(ctx context.Context) error {
	return nil
}

// memoryTx overlays staged writes on the committed map; a nil entry marks a delete
type memoryTx struct {
	base   map[model.Address]*model.Account
	staged map[model.Address]*model.Account
	now    func() time.Time
}

func (tx *memoryTx) lookup(addr model.Address) (*model.Account, bool) {
	if account, ok := tx.staged[addr]; ok {
		return account, account != nil
	}
	account, ok := tx.base[addr]
	return account, ok
}

func (tx *memoryTx) Get(ctx context.Context, addr model.Address) (*model.Account, error) {
	account, ok := tx.lookup(addr)
	if !ok {
		return nil, notFound(addr)
	}
	return account.Clone(), nil
}

func (tx *memoryTx) Create(ctx context.Context, account *model.Account) error {
	if _, ok := tx.lookup(account.Address); ok {
		return alreadyExists(account.Address)
	}
	stored := account.Clone()
	stored.UpdatedAt = tx.now()
	tx.staged[account.Address] = stored
	account.UpdatedAt = stored.UpdatedAt
	return nil
}

func (tx *memoryTx) Update(ctx context.Context, account *model.Account) error {
	current, ok := tx.lookup(account.Address)
	if !ok {
		return notFound(account.Address)
	}
	stored := account.Clone()
	stored.Kind = current.Kind
	stored.UpdatedAt = tx.now()
	tx.staged[account.Address] = stored
	account.UpdatedAt = stored.UpdatedAt
	return nil
}

func (tx *memoryTx) Delete(ctx context.Context, addr model.Address) error {
	if _, ok := tx.lookup(addr); !ok {
		return notFound(addr)
	}
	tx.staged[addr] = nil
	return nil
}

func (tx *memoryTx) List(ctx context.Context, kind model.RecordKind) ([]*model.Account, error) {
	return collect(tx.base, tx.staged, kind), nil
}

func collect(base, staged map[model.Address]*model.Account, kind model.RecordKind) []*model.Account {
	result := make([]*model.Account, 0)
	for addr, account := range base {
		if _, overridden := staged[addr]; overridden {
			continue
		}
		if account.Kind == kind {
			result = append(result, account.Clone())
		}
	}
	for _, account := range staged {
		if account != nil && account.Kind == kind {
			result = append(result, account.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return bytes.Compare(result[i].Address[:], result[j].Address[:]) < 0
	})
	return result
}
