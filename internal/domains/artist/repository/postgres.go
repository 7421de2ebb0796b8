package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"artist-platform/internal/domains/artist/model"
	"artist-platform/pkg/database"
)

// =====================================================
// POSTGRES STORE IMPLEMENTATION
// =====================================================

type postgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

// querier is satisfied by both the pool and a transaction
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const accountColumns = `address, kind, lamports, data, updated_at`

func (s *postgresStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	return database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&postgresTx{q: tx})
	})
}

func (s *postgresStore) Get(ctx context.Context, addr model.Address) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE address = $1`
	return getAccount(ctx, s.pool, query, addr)
}

func (s *postgresStore) List(ctx context.Context, kind model.RecordKind) ([]*model.Account, error) {
	return listAccounts(ctx, s.pool, kind)
}

func (s *postgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// =====================================================
// UNIT OF WORK
// =====================================================

type postgresTx struct {
	q querier
}

// Get locks the row until the unit of work ends
func (tx *postgresTx) Get(ctx context.Context, addr model.Address) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE address = $1 FOR UPDATE`
	return getAccount(ctx, tx.q, query, addr)
}

func (tx *postgresTx) Create(ctx context.Context, account *model.Account) error {
	query := `
		INSERT INTO accounts (address, kind, lamports, data, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	now := time.Now().UTC()
	_, err := tx.q.Exec(ctx, query,
		account.Address[:],
		int16(account.Kind),
		model.LamportsDecimal(account.Lamports),
		dataOrEmpty(account.Data),
		now,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return alreadyExists(account.Address)
		}
		return fmt.Errorf("failed to create account %s: %w", account.Address.Short(), err)
	}
	account.UpdatedAt = now
	return nil
}

func (tx *postgresTx) Update(ctx context.Context, account *model.Account) error {
	query := `
		UPDATE accounts
		SET lamports = $2, data = $3, updated_at = $4
		WHERE address = $1
	`
	now := time.Now().UTC()
	tag, err := tx.q.Exec(ctx, query,
		account.Address[:],
		model.LamportsDecimal(account.Lamports),
		dataOrEmpty(account.Data),
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.Address.Short(), err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(account.Address)
	}
	account.UpdatedAt = now
	return nil
}

func (tx *postgresTx) Delete(ctx context.Context, addr model.Address) error {
	tag, err := tx.q.Exec(ctx, `DELETE FROM accounts WHERE address = $1`, addr[:])
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", addr.Short(), err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(addr)
	}
	return nil
}

func (tx *postgresTx) List(ctx context.Context, kind model.RecordKind) ([]*model.Account, error) {
	return listAccounts(ctx, tx.q, kind)
}

// =====================================================
// HELPERS
// =====================================================

func getAccount(ctx context.Context, q querier, query string, addr model.Address) (*model.Account, error) {
	account, err := scanAccount(q.QueryRow(ctx, query, addr[:]))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound(addr)
		}
		return nil, fmt.Errorf("failed to get account %s: %w", addr.Short(), err)
	}
	return account, nil
}

func listAccounts(ctx context.Context, q querier, kind model.RecordKind) ([]*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE kind = $1 ORDER BY address`
	rows, err := q.Query(ctx, query, int16(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s accounts: %w", kind, err)
	}
	defer rows.Close()

	accounts := make([]*model.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return accounts, nil
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	var (
		address  []byte
		kind     int16
		lamports decimal.Decimal
		account  model.Account
	)
	if err := row.Scan(&address, &kind, &lamports, &account.Data, &account.UpdatedAt); err != nil {
		return nil, err
	}
	if len(address) != model.KeyLength {
		return nil, fmt.Errorf("address has %d bytes", len(address))
	}
	copy(account.Address[:], address)
	account.Kind = model.RecordKind(kind)

	balance, err := model.DecimalToLamports(lamports)
	if err != nil {
		return nil, err
	}
	account.Lamports = balance
	return &account, nil
}

func dataOrEmpty(data []byte) []byte {
	if data == nil {
		return []byte{}
	}
	return data
}
