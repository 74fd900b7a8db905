package pg

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"tranghoa.org/internal/auth"
	"tranghoa.org/internal/orders"
)

const pgErrUniqueViolation = "23505"

// Accounts adapts the shared Store to the auth.AccountStore interface.
type Accounts struct {
	db *sql.DB
}

var _ auth.AccountStore = (*Accounts)(nil)

// Accounts returns the account registry view of the store.
func (s *Store) Accounts() *Accounts { return &Accounts{db: s.db} }

func (s *Accounts) Create(ctx context.Context, a *auth.Account) error {
	_, err := s.db.ExecContext(ctx, `
		insert into accounts(id, email, name, role, station, password_hash, created_at, updated_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8)
	`, a.ID, a.Email, a.Name, a.Role, a.Station, a.PasswordHash, a.CreatedAt, a.UpdatedAt)
	if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
		return auth.ErrConflict
	}
	return err
}

const accountColumns = `id, email, name, role, station, password_hash, created_at, updated_at`

func (s *Accounts) Find(ctx context.Context, id string) (*auth.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+accountColumns+` from accounts where id=$1`, id)
	return scanAccount(row)
}

func (s *Accounts) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+accountColumns+` from accounts where email=$1`, email)
	return scanAccount(row)
}

func (s *Accounts) List(ctx context.Context) ([]*auth.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+accountColumns+` from accounts order by email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*auth.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (s *Accounts) UpdateRoleStation(ctx context.Context, id string, role orders.Role, station orders.Station) error {
	res, err := s.db.ExecContext(ctx,
		`update accounts set role=$2, station=$3, updated_at=now() where id=$1`,
		id, role, station)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return auth.ErrNotFound
	}
	return nil
}

func (s *Accounts) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from accounts where id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return auth.ErrNotFound
	}
	return nil
}

func scanAccount(row rowScanner) (*auth.Account, error) {
	var a auth.Account
	if err := row.Scan(&a.ID, &a.Email, &a.Name, &a.Role, &a.Station,
		&a.PasswordHash, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func maybePgError(err error) (*pgconn.PgError, bool) {
	if err == nil {
		return nil, false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}
