package auth

import (
	"context"

	"tranghoa.org/internal/orders"
)

// AccountStore describes persistence for login identities. Accounts are
// immutable after creation apart from role/station reassignment.
type AccountStore interface {
	Create(ctx context.Context, a *Account) error
	Find(ctx context.Context, id string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	List(ctx context.Context) ([]*Account, error)
	UpdateRoleStation(ctx context.Context, id string, role orders.Role, station orders.Station) error
	Delete(ctx context.Context, id string) error
}
