package orders

import "sort"

// Batch is a "phơi", the operational grouping of inbound orders sharing a
// sender station and a creation date, used for physical handoff
// reconciliation at the receiving dock.
type Batch struct {
	SenderStation Station `json:"sender_station"`
	Date          string  `json:"date"` // yyyy-mm-dd, local calendar day
	Count         int     `json:"count"`
	TotalQuantity int     `json:"total_quantity"`
	TotalCost     int64   `json:"total_cost"`
	UnpaidCount   int     `json:"unpaid_count"`
	UnpaidCost    int64   `json:"unpaid_cost"`
	Orders        []Order `json:"orders"`
}

// GroupBatches partitions inbound orders into batches keyed by
// (sender station, calendar date of creation). Regrouping the same set
// yields identical groups and aggregates regardless of input ordering:
// grouping is a fold over a map with a deterministic final sort.
func GroupBatches(inbound []Order) []Batch {
	type key struct {
		station Station
		date    string
	}
	groups := make(map[key]*Batch)
	for _, o := range inbound {
		k := key{station: o.SenderStation, date: o.CreatedAt.Local().Format("2006-01-02")}
		b, ok := groups[k]
		if !ok {
			b = &Batch{SenderStation: k.station, Date: k.date}
			groups[k] = b
		}
		b.Count++
		b.TotalQuantity += o.Quantity
		b.TotalCost += o.Cost
		if o.PaymentStatus == Unpaid {
			b.UnpaidCount++
			b.UnpaidCost += o.Cost
		}
		b.Orders = append(b.Orders, o)
	}

	out := make([]Batch, 0, len(groups))
	for _, b := range groups {
		sortByCreatedDesc(b.Orders)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].SenderStation < out[j].SenderStation
	})
	return out
}
