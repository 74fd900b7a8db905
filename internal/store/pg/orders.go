package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"tranghoa.org/internal/orders"
)

var _ orders.Store = (*Store)(nil)

const orderColumns = `id, code, sender_station, receiver_station, created_at,
	sender_name, sender_phone, receiver_name, receiver_phone, receiver_address,
	goods_type, quantity, note, cost, payment_status, delivery_status,
	created_by, created_by_id, payment_history, history`

func (s *Store) ListAll(ctx context.Context) ([]orders.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+orderColumns+` from orders order by created_at desc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []orders.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (orders.Order, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+orderColumns+` from orders where id=$1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return orders.Order{}, orders.ErrNotFound
	}
	if err != nil {
		return orders.Order{}, err
	}
	return o, nil
}

// Put upserts the full record. Last-write-wins: the core implements no
// optimistic concurrency, so the latest writer's row stands.
func (s *Store) Put(ctx context.Context, o orders.Order) error {
	paymentHistory, err := json.Marshal(o.PaymentHistory)
	if err != nil {
		return fmt.Errorf("marshal payment history: %w", err)
	}
	history, err := json.Marshal(o.History)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		insert into orders(id, code, sender_station, receiver_station, created_at,
			sender_name, sender_phone, receiver_name, receiver_phone, receiver_address,
			goods_type, quantity, note, cost, payment_status, delivery_status,
			created_by, created_by_id, payment_history, history)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
		on conflict (id) do update set
			code = excluded.code,
			sender_station = excluded.sender_station,
			receiver_station = excluded.receiver_station,
			sender_name = excluded.sender_name,
			sender_phone = excluded.sender_phone,
			receiver_name = excluded.receiver_name,
			receiver_phone = excluded.receiver_phone,
			receiver_address = excluded.receiver_address,
			goods_type = excluded.goods_type,
			quantity = excluded.quantity,
			note = excluded.note,
			cost = excluded.cost,
			payment_status = excluded.payment_status,
			delivery_status = excluded.delivery_status,
			payment_history = excluded.payment_history,
			history = excluded.history
	`, o.ID, o.Code, o.SenderStation, o.ReceiverStation, o.CreatedAt,
		o.SenderName, o.SenderPhone, o.ReceiverName, o.ReceiverPhone, o.ReceiverAddress,
		o.GoodsType, o.Quantity, o.Note, o.Cost, o.PaymentStatus, o.DeliveryStatus,
		o.CreatedBy, o.CreatedByID, paymentHistory, history)
	return err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from orders where id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return orders.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (orders.Order, error) {
	var (
		o              orders.Order
		paymentHistory []byte
		history        []byte
	)
	if err := row.Scan(&o.ID, &o.Code, &o.SenderStation, &o.ReceiverStation, &o.CreatedAt,
		&o.SenderName, &o.SenderPhone, &o.ReceiverName, &o.ReceiverPhone, &o.ReceiverAddress,
		&o.GoodsType, &o.Quantity, &o.Note, &o.Cost, &o.PaymentStatus, &o.DeliveryStatus,
		&o.CreatedBy, &o.CreatedByID, &paymentHistory, &history); err != nil {
		return orders.Order{}, err
	}
	if len(paymentHistory) > 0 {
		if err := json.Unmarshal(paymentHistory, &o.PaymentHistory); err != nil {
			return orders.Order{}, fmt.Errorf("decode payment history: %w", err)
		}
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &o.History); err != nil {
			return orders.Order{}, fmt.Errorf("decode history: %w", err)
		}
	}
	return o, nil
}
