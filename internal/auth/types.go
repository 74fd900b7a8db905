package auth

import (
	"time"

	"tranghoa.org/internal/orders"
)

// Account is a provisioned login identity. Station is the permanently
// assigned depot: required for STAFF, empty for MANAGER/ADMIN who pick a
// working station per session.
type Account struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Name         string         `json:"name"`
	Role         orders.Role    `json:"role"`
	Station      orders.Station `json:"station,omitempty"`
	PasswordHash string         `json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
