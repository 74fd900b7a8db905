package auth

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"tranghoa.org/internal/ids"
	"tranghoa.org/internal/orders"
)

const defaultTokenTTL = 12 * time.Hour

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service resolves session identities and performs the administrative
// employee-provisioning actions.
type Service struct {
	accounts AccountStore
	now      func() time.Time
	tokenTTL time.Duration
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithTokenTTL configures session token lifetime.
func WithTokenTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// NewService constructs a Service over the given account store.
func NewService(accounts AccountStore, opts ...ServiceOption) *Service {
	s := &Service{
		accounts: accounts,
		now:      time.Now,
		tokenTTL: defaultTokenTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session is the result of a successful login.
type Session struct {
	Identity  orders.Identity
	Token     string
	ExpiresAt time.Time
}

// Login verifies credentials and establishes a session. The working station
// is forced to the assigned station for STAFF; MANAGER/ADMIN choose one of
// the fixed stations, held for the whole session (changing it means logging
// in again).
func (s *Service) Login(ctx context.Context, email, password string, requestedStation orders.Station) (Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if err := VerifyPassword(account.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	station, err := sessionStation(account, requestedStation)
	if err != nil {
		return Session{}, err
	}

	token, err := GenerateToken(account.ID, station, s.tokenTTL)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Identity: orders.Identity{
			AccountID: account.ID,
			Name:      account.Name,
			Role:      account.Role,
			Station:   station,
		},
		Token:     token,
		ExpiresAt: s.now().UTC().Add(s.tokenTTL),
	}, nil
}

// ResolveIdentity rebuilds the session identity for a verified account id.
// Role and name come from the authoritative account record, never from
// token claims; the claimed station is only a session preference and is
// overridden by the assigned station for STAFF.
func (s *Service) ResolveIdentity(ctx context.Context, accountID string, claimedStation orders.Station) (orders.Identity, error) {
	account, err := s.accounts.Find(ctx, accountID)
	if err != nil {
		return orders.Identity{}, err
	}
	station, err := sessionStation(account, claimedStation)
	if err != nil {
		return orders.Identity{}, err
	}
	return orders.Identity{
		AccountID: account.ID,
		Name:      account.Name,
		Role:      account.Role,
		Station:   station,
	}, nil
}

func sessionStation(account *Account, requested orders.Station) (orders.Station, error) {
	if account.Role == orders.RoleStaff {
		if account.Station == "" {
			return "", fmt.Errorf("%w: staff account has no assigned station", ErrInvalidInput)
		}
		return account.Station, nil
	}
	if requested == "" {
		if account.Station != "" {
			return account.Station, nil
		}
		return "", fmt.Errorf("%w: a working station must be selected", ErrInvalidInput)
	}
	return orders.ParseStation(string(requested))
}

// NewEmployee carries the provisioning input for CreateEmployee.
type NewEmployee struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Name     string         `json:"name"`
	Role     string         `json:"role"`
	Station  orders.Station `json:"station,omitempty"`
}

// CreateEmployee provisions a new account. The caller's freshly resolved
// role must be ADMIN; validation mirrors the backend provisioning rules
// (email shape, password length, name length, role whitelist, STAFF must
// carry a station).
func (s *Service) CreateEmployee(ctx context.Context, actor orders.Identity, input NewEmployee) (*Account, error) {
	if actor.Role != orders.RoleAdmin {
		return nil, fmt.Errorf("%w: employee provisioning requires ADMIN", ErrForbidden)
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	name := strings.TrimSpace(input.Name)
	if utf8.RuneCountInString(name) < 2 {
		return nil, fmt.Errorf("%w: name must be at least 2 characters", ErrInvalidInput)
	}
	// Counted in runes, not bytes: Vietnamese names must never be cut
	// mid-character.
	if runes := []rune(name); len(runes) > 100 {
		name = string(runes[:100])
	}
	role, err := orders.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}

	var station orders.Station
	if input.Station != "" {
		station, err = orders.ParseStation(string(input.Station))
		if err != nil {
			return nil, err
		}
	}
	if role == orders.RoleStaff && station == "" {
		return nil, fmt.Errorf("%w: staff accounts require an assigned station", ErrInvalidInput)
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	account := &Account{
		ID:           ids.New(),
		Email:        email,
		Name:         name,
		Role:         role,
		Station:      station,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// RoleChange carries the reassignment input for UpdateEmployee.
type RoleChange struct {
	Role    string         `json:"role"`
	Station orders.Station `json:"station,omitempty"`
}

// UpdateEmployee reassigns an account's role and station, the one account
// mutation allowed after provisioning. ADMIN only; the same role whitelist
// and STAFF-needs-station rules as provisioning apply. Takes effect on the
// target's next request since identity is re-resolved from storage.
func (s *Service) UpdateEmployee(ctx context.Context, actor orders.Identity, accountID string, change RoleChange) (*Account, error) {
	if actor.Role != orders.RoleAdmin {
		return nil, fmt.Errorf("%w: employee reassignment requires ADMIN", ErrForbidden)
	}
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}
	role, err := orders.ParseRole(change.Role)
	if err != nil {
		return nil, err
	}
	var station orders.Station
	if change.Station != "" {
		station, err = orders.ParseStation(string(change.Station))
		if err != nil {
			return nil, err
		}
	}
	if role == orders.RoleStaff && station == "" {
		return nil, fmt.Errorf("%w: staff accounts require an assigned station", ErrInvalidInput)
	}
	if err := s.accounts.UpdateRoleStation(ctx, accountID, role, station); err != nil {
		return nil, err
	}
	return s.accounts.Find(ctx, accountID)
}

// DeleteEmployee removes an account and thereby revokes its credential.
// ADMIN only; an admin cannot delete their own account.
func (s *Service) DeleteEmployee(ctx context.Context, actor orders.Identity, accountID string) error {
	if actor.Role != orders.RoleAdmin {
		return fmt.Errorf("%w: employee deletion requires ADMIN", ErrForbidden)
	}
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}
	if accountID == actor.AccountID {
		return fmt.Errorf("%w: admins cannot delete their own account", ErrInvalidInput)
	}
	return s.accounts.Delete(ctx, accountID)
}

// ListEmployees returns every provisioned account. ADMIN only.
func (s *Service) ListEmployees(ctx context.Context, actor orders.Identity) ([]*Account, error) {
	if actor.Role != orders.RoleAdmin {
		return nil, fmt.Errorf("%w: employee listing requires ADMIN", ErrForbidden)
	}
	return s.accounts.List(ctx)
}
