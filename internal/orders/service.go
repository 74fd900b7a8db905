package orders

import (
	"context"
	"fmt"
	mathrand "math/rand"
	"strings"
	"time"

	"tranghoa.org/internal/ids"
)

const (
	markPaidNote    = "Thu cước tại trạm nhận"
	actionCreated   = "Created"
	actionUpdated   = "Updated"
	actionPaid      = "Payment collected"
	actionDelivered = "Marked delivered"
)

// Draft carries the caller-editable order fields for create and update.
type Draft struct {
	SenderStation   Station `json:"sender_station"`
	ReceiverStation Station `json:"receiver_station"`
	SenderName      string  `json:"sender_name"`
	SenderPhone     string  `json:"sender_phone"`
	ReceiverName    string  `json:"receiver_name"`
	ReceiverPhone   string  `json:"receiver_phone"`
	ReceiverAddress string  `json:"receiver_address"`
	GoodsType       string  `json:"goods_type"`
	Quantity        int     `json:"quantity"`
	Note            string  `json:"note"`
	Cost            int64   `json:"cost"`
}

func (d Draft) validate() error {
	if _, err := ParseStation(string(d.SenderStation)); err != nil {
		return err
	}
	if _, err := ParseStation(string(d.ReceiverStation)); err != nil {
		return err
	}
	if d.SenderStation == d.ReceiverStation {
		return fmt.Errorf("%w: sender and receiver station must differ", ErrInvalidInput)
	}
	if strings.TrimSpace(d.SenderName) == "" {
		return fmt.Errorf("%w: sender name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(d.SenderPhone) == "" {
		return fmt.Errorf("%w: sender phone is required", ErrInvalidInput)
	}
	if d.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be >= 1", ErrInvalidInput)
	}
	if d.Cost < 0 {
		return fmt.Errorf("%w: cost must be >= 0", ErrInvalidInput)
	}
	return nil
}

// Service applies order mutations and derives views over store snapshots.
// Every authorization decision is computed locally before the store is
// asked to do anything.
type Service struct {
	store Store
	now   func() time.Time
	code  func() string
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

// WithCodeGenerator overrides the human-readable order code source.
func WithCodeGenerator(fn func() string) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.code = fn
		}
	}
}

// NewService constructs a Service over the given store.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
		code:  GenerateCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateCode returns a short human-readable order code (VD1000..VD9999).
// Uniqueness is not guaranteed; the ULID id is the real key.
func GenerateCode() string {
	return fmt.Sprintf("VD%d", 1000+mathrand.Intn(9000))
}

// Create validates the draft and persists a new order for identity.
func (s *Service) Create(ctx context.Context, identity Identity, d Draft) (Order, error) {
	if identity.AccountID == "" {
		return Order{}, fmt.Errorf("%w: not authenticated", ErrForbidden)
	}
	if err := d.validate(); err != nil {
		return Order{}, err
	}
	now := s.now()
	o := Order{
		ID:              ids.New(),
		Code:            s.code(),
		SenderStation:   d.SenderStation,
		ReceiverStation: d.ReceiverStation,
		CreatedAt:       now,
		SenderName:      strings.TrimSpace(d.SenderName),
		SenderPhone:     strings.TrimSpace(d.SenderPhone),
		ReceiverName:    strings.TrimSpace(d.ReceiverName),
		ReceiverPhone:   strings.TrimSpace(d.ReceiverPhone),
		ReceiverAddress: strings.TrimSpace(d.ReceiverAddress),
		GoodsType:       strings.TrimSpace(d.GoodsType),
		Quantity:        d.Quantity,
		Note:            strings.TrimSpace(d.Note),
		Cost:            d.Cost,
		PaymentStatus:   Unpaid,
		DeliveryStatus:  Pending,
		CreatedBy:       identity.Name,
		CreatedByID:     identity.AccountID,
		History: []HistoryEntry{
			{At: now, Action: actionCreated, ByName: identity.Name},
		},
	}
	if err := s.store.Put(ctx, o); err != nil {
		return Order{}, err
	}
	return o, nil
}

// Get loads a single order.
func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	return s.store.Get(ctx, id)
}

// Update applies the draft's editable fields to an existing order, gated by
// the edit-permission evaluator. Payment and delivery state are untouched.
func (s *Service) Update(ctx context.Context, identity Identity, orderID string, d Draft) (Order, error) {
	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if dec := CanEdit(identity, o, s.now()); !dec.Allowed {
		return Order{}, fmt.Errorf("%w: %s", ErrForbidden, dec.Message())
	}
	if err := d.validate(); err != nil {
		return Order{}, err
	}

	next := o.Clone()
	next.SenderStation = d.SenderStation
	next.ReceiverStation = d.ReceiverStation
	next.SenderName = strings.TrimSpace(d.SenderName)
	next.SenderPhone = strings.TrimSpace(d.SenderPhone)
	next.ReceiverName = strings.TrimSpace(d.ReceiverName)
	next.ReceiverPhone = strings.TrimSpace(d.ReceiverPhone)
	next.ReceiverAddress = strings.TrimSpace(d.ReceiverAddress)
	next.GoodsType = strings.TrimSpace(d.GoodsType)
	next.Quantity = d.Quantity
	next.Note = strings.TrimSpace(d.Note)
	next.Cost = d.Cost
	next.History = append(next.History, HistoryEntry{At: s.now(), Action: actionUpdated, ByName: identity.Name})

	if err := s.store.Put(ctx, next); err != nil {
		return Order{}, err
	}
	return next, nil
}

// MarkPaid transitions payment UNPAID -> PAID. Collecting the fee on arrival
// is treated as proof of delivery, so a successful call also sets delivery
// to DELIVERED. Idempotent: a second call on a PAID order changes nothing
// and appends no log entries. The status change and its audit entries are
// one logical unit: mutation happens on a copy and only survives a
// successful store write.
func (s *Service) MarkPaid(ctx context.Context, identity Identity, orderID string) (Order, error) {
	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if dec := CanEdit(identity, o, s.now()); !dec.Allowed {
		return Order{}, fmt.Errorf("%w: %s", ErrForbidden, dec.Message())
	}
	if o.PaymentStatus == Paid {
		return o, nil
	}

	now := s.now()
	next := o.Clone()
	next.PaymentStatus = Paid
	next.DeliveryStatus = Delivered
	next.PaymentHistory = append(next.PaymentHistory, PaymentRecord{
		At:     now,
		Status: Paid,
		ByID:   identity.AccountID,
		ByName: identity.Name,
		Note:   markPaidNote,
	})
	next.History = append(next.History, HistoryEntry{At: now, Action: actionPaid, ByName: identity.Name})

	if err := s.store.Put(ctx, next); err != nil {
		return Order{}, err
	}
	return next, nil
}

// MarkDelivered transitions delivery PENDING -> DELIVERED, leaving payment
// untouched. Idempotent against its own settled state.
func (s *Service) MarkDelivered(ctx context.Context, identity Identity, orderID string) (Order, error) {
	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if dec := CanEdit(identity, o, s.now()); !dec.Allowed {
		return Order{}, fmt.Errorf("%w: %s", ErrForbidden, dec.Message())
	}
	if o.DeliveryStatus == Delivered {
		return o, nil
	}

	next := o.Clone()
	next.DeliveryStatus = Delivered
	next.History = append(next.History, HistoryEntry{At: s.now(), Action: actionDelivered, ByName: identity.Name})

	if err := s.store.Put(ctx, next); err != nil {
		return Order{}, err
	}
	return next, nil
}

// Delete is the administrative escape hatch; orders are never hard-deleted
// in normal flow.
func (s *Service) Delete(ctx context.Context, identity Identity, orderID string) error {
	if identity.Role != RoleAdmin {
		return fmt.Errorf("%w: delete requires ADMIN", ErrForbidden)
	}
	return s.store.Delete(ctx, orderID)
}

// List fetches a fresh snapshot, applies the station partition for the view
// and then the secondary filter.
func (s *Service) List(ctx context.Context, identity Identity, view View, f Filter) ([]Order, error) {
	snapshot, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	scoped, err := Partition(snapshot, identity, view)
	if err != nil {
		return nil, err
	}
	return f.Apply(scoped, s.now()), nil
}

// Dashboard computes management overview figures from a fresh snapshot.
func (s *Service) Dashboard(ctx context.Context) (DashboardStats, error) {
	snapshot, err := s.store.ListAll(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	return ComputeDashboard(snapshot), nil
}

// Daily computes a one-day handoff manifest from a fresh snapshot.
func (s *Service) Daily(ctx context.Context, day time.Time, station Station) (DailyReport, error) {
	snapshot, err := s.store.ListAll(ctx)
	if err != nil {
		return DailyReport{}, err
	}
	return ComputeDailyReport(snapshot, day, station), nil
}

// Batches returns the phơi groupings of the session station's inbound
// orders, optionally narrowed by a date filter.
func (s *Service) Batches(ctx context.Context, identity Identity, date DateFilter) ([]Batch, error) {
	inbound, err := s.List(ctx, identity, ViewInbound, Filter{Date: date})
	if err != nil {
		return nil, err
	}
	return GroupBatches(inbound), nil
}
