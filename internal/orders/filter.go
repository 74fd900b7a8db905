package orders

import (
	"regexp"
	"strings"
	"time"
)

// DateMode selects how the creation-date filter is interpreted.
type DateMode int

const (
	// DateAll applies no date restriction.
	DateAll DateMode = iota
	// DateToday keeps orders created on the current local calendar day.
	DateToday
	// DateYesterday keeps orders created on the previous calendar day.
	DateYesterday
	// DateLast7 keeps orders created in the trailing seven days.
	DateLast7
	// DateMonth keeps orders created in the current calendar month.
	DateMonth
	// DateExact keeps orders created on one given calendar day.
	DateExact
	// DateRange keeps orders created within an inclusive from/to day range.
	DateRange
)

var exactDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DateFilter is a creation-date predicate evaluated against an instant.
type DateFilter struct {
	Mode DateMode
	Day  time.Time // DateExact
	From time.Time // DateRange
	To   time.Time // DateRange
}

// ParseDateFilter interprets a filter value. A literal yyyy-mm-dd string is
// an exact-date filter; the relative keywords are matched case-insensitively.
// Anything unrecognized fails open to "no restriction"; a typo must never
// hide all data.
func ParseDateFilter(value string) DateFilter {
	value = strings.TrimSpace(value)
	if exactDatePattern.MatchString(value) {
		if day, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
			return DateFilter{Mode: DateExact, Day: day}
		}
		return DateFilter{Mode: DateAll}
	}
	switch strings.ToUpper(value) {
	case "TODAY":
		return DateFilter{Mode: DateToday}
	case "YESTERDAY":
		return DateFilter{Mode: DateYesterday}
	case "LAST7":
		return DateFilter{Mode: DateLast7}
	case "MONTH":
		return DateFilter{Mode: DateMonth}
	}
	return DateFilter{Mode: DateAll}
}

// DateRangeFilter builds an inclusive from/to day filter. Zero bounds are
// open on that side.
func DateRangeFilter(from, to time.Time) DateFilter {
	return DateFilter{Mode: DateRange, From: from, To: to}
}

// Matches reports whether an order created at ts passes the filter when
// evaluated at instant now.
func (f DateFilter) Matches(ts, now time.Time) bool {
	ts = ts.In(now.Location())
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch f.Mode {
	case DateToday:
		return !ts.Before(startOfToday) && ts.Before(startOfToday.AddDate(0, 0, 1))
	case DateYesterday:
		return !ts.Before(startOfToday.AddDate(0, 0, -1)) && ts.Before(startOfToday)
	case DateLast7:
		return !ts.Before(startOfToday.AddDate(0, 0, -6)) && ts.Before(startOfToday.AddDate(0, 0, 1))
	case DateMonth:
		return ts.Year() == now.Year() && ts.Month() == now.Month()
	case DateExact:
		y1, m1, d1 := ts.Date()
		y2, m2, d2 := f.Day.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case DateRange:
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, now.Location())
		if !f.From.IsZero() && day.Before(dayOf(f.From, now.Location())) {
			return false
		}
		if !f.To.IsZero() && day.After(dayOf(f.To, now.Location())) {
			return false
		}
		return true
	}
	return true
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Filter is the set of secondary refinements applied after the station
// partition. Every predicate narrows; none can change station eligibility.
type Filter struct {
	Date    DateFilter
	Station Station       // sender-station refinement, empty = any
	Payment PaymentStatus // empty = any
	Query   string        // free text over code, names, phones
}

// Apply evaluates the filter against a partitioned list at instant now,
// returning a fresh slice. Pure and deterministic over its inputs.
func (f Filter) Apply(list []Order, now time.Time) []Order {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]Order, 0, len(list))
	for _, o := range list {
		if !f.Date.Matches(o.CreatedAt, now) {
			continue
		}
		if f.Station != "" && o.SenderStation != f.Station {
			continue
		}
		if f.Payment != "" && o.PaymentStatus != f.Payment {
			continue
		}
		if query != "" && !matchesQuery(o, query) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func matchesQuery(o Order, query string) bool {
	return strings.Contains(strings.ToLower(o.Code), query) ||
		strings.Contains(strings.ToLower(o.SenderName), query) ||
		strings.Contains(strings.ToLower(o.ReceiverName), query) ||
		strings.Contains(o.SenderPhone, query) ||
		strings.Contains(o.ReceiverPhone, query)
}
