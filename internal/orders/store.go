package orders

import "context"

// Store describes the persistence operations the order core requires. There
// is no paging and no server-side filtering: views operate on a full
// snapshot fetched per activation, and writes are last-write-wins; the core
// implements no optimistic concurrency of its own.
type Store interface {
	ListAll(ctx context.Context) ([]Order, error)
	Get(ctx context.Context, id string) (Order, error)
	Put(ctx context.Context, o Order) error
	Delete(ctx context.Context, id string) error
}
