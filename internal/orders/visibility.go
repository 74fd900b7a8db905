package orders

import (
	"fmt"
	"sort"
	"strings"
)

// View names a station-scoped partition of the order collection.
type View string

const (
	// ViewInbound holds orders addressed to the session station.
	ViewInbound View = "inbound"
	// ViewOutbound holds orders originating from the session station.
	ViewOutbound View = "outbound"
	// ViewAll is the unrestricted collection. ADMIN only.
	ViewAll View = "all"
)

// ParseView validates a view name.
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case ViewInbound, ViewOutbound, ViewAll:
		return v, nil
	case "":
		return ViewOutbound, nil
	}
	return "", fmt.Errorf("%w: unknown view %q", ErrInvalidInput, s)
}

// Partition classifies the snapshot into the requested view for identity.
// The station partition is never optional: secondary filters narrow within
// it but cannot widen it. ViewAll is gated to ADMIN; MANAGER and STAFF
// never receive the full set even if they construct the equivalent query.
// The result is a fresh slice sorted by creation time descending; the
// snapshot itself is never mutated.
func Partition(snapshot []Order, identity Identity, view View) ([]Order, error) {
	var keep func(Order) bool
	switch view {
	case ViewInbound:
		keep = func(o Order) bool { return o.ReceiverStation == identity.Station }
	case ViewOutbound:
		keep = func(o Order) bool { return o.SenderStation == identity.Station }
	case ViewAll:
		if identity.Role != RoleAdmin {
			return nil, fmt.Errorf("%w: the unrestricted view requires ADMIN", ErrForbidden)
		}
		keep = func(Order) bool { return true }
	default:
		return nil, fmt.Errorf("%w: unknown view %q", ErrInvalidInput, view)
	}

	out := make([]Order, 0, len(snapshot))
	for _, o := range snapshot {
		if keep(o) {
			out = append(out, o)
		}
	}
	sortByCreatedDesc(out)
	return out, nil
}

func sortByCreatedDesc(list []Order) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}
