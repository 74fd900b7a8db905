package orders

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Station is one of the fixed physical depot locations. Orders reference
// stations by value; stations are not separately lifecycle-managed.
type Station string

const (
	StationHT Station = "HT"
	StationPA Station = "PA"
	StationSG Station = "SG"
)

// Stations lists every depot in route order.
var Stations = []Station{StationHT, StationPA, StationSG}

// ParseStation validates a station code.
func ParseStation(s string) (Station, error) {
	st := Station(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Stations {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown station %q", ErrInvalidInput, s)
}

// Role is the account tier. Tiers are ascending and superseding: ADMIN may do
// everything a MANAGER may, and so on down.
type Role string

const (
	RoleStaff   Role = "STAFF"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleStaff, RoleManager, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
}

// PaymentStatus tracks the shipment fee ("cước"). One-way in normal flow.
type PaymentStatus string

const (
	Unpaid PaymentStatus = "UNPAID"
	Paid   PaymentStatus = "PAID"
)

// ParsePaymentStatus validates a payment status value.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	p := PaymentStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case Unpaid, Paid:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, s)
}

// DeliveryStatus tracks physical handover. One-way in normal flow.
type DeliveryStatus string

const (
	Pending   DeliveryStatus = "PENDING"
	Delivered DeliveryStatus = "DELIVERED"
)

// Identity is the resolved session principal every rule in this package
// evaluates against. It is always passed explicitly; there is no ambient
// session state.
type Identity struct {
	AccountID string  `json:"account_id"`
	Name      string  `json:"name"`
	Role      Role    `json:"role"`
	Station   Station `json:"station"`
}

// PaymentRecord is one entry of the fee-collection audit trail.
type PaymentRecord struct {
	At     time.Time     `json:"at"`
	Status PaymentStatus `json:"status"`
	ByID   string        `json:"by_id"`
	ByName string        `json:"by_name"`
	Note   string        `json:"note,omitempty"`
}

// HistoryEntry is one free-text action entry of the general order log.
type HistoryEntry struct {
	At     time.Time `json:"at"`
	Action string    `json:"action"`
	ByName string    `json:"by_name"`
}

// Order is a single shipment record from a sender at one station to a
// receiver at another. Cost is in minor units (VND); no floats.
type Order struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	SenderStation   Station         `json:"sender_station"`
	ReceiverStation Station         `json:"receiver_station"`
	CreatedAt       time.Time       `json:"created_at"`
	SenderName      string          `json:"sender_name"`
	SenderPhone     string          `json:"sender_phone"`
	ReceiverName    string          `json:"receiver_name"`
	ReceiverPhone   string          `json:"receiver_phone"`
	ReceiverAddress string          `json:"receiver_address,omitempty"`
	GoodsType       string          `json:"goods_type"`
	Quantity        int             `json:"quantity"`
	Note            string          `json:"note,omitempty"`
	Cost            int64           `json:"cost"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	PaymentHistory  []PaymentRecord `json:"payment_history"`
	DeliveryStatus  DeliveryStatus  `json:"delivery_status"`
	CreatedBy       string          `json:"created_by"`
	CreatedByID     string          `json:"created_by_id"`
	History         []HistoryEntry  `json:"history"`
}

// Clone returns a deep copy so callers can mutate without aliasing the
// stored snapshot.
func (o Order) Clone() Order {
	out := o
	out.PaymentHistory = append([]PaymentRecord(nil), o.PaymentHistory...)
	out.History = append([]HistoryEntry(nil), o.History...)
	return out
}

var (
	ErrNotFound     = errors.New("order not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)
