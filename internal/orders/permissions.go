package orders

import "time"

// DenialReason identifies why an edit was refused. Callers render the
// matching user-facing message and block the action.
type DenialReason string

const (
	ReasonNotAuthenticated DenialReason = "NOT_AUTHENTICATED"
	ReasonNotOwner         DenialReason = "NOT_OWNER"
	ReasonTooOld           DenialReason = "TOO_OLD"
)

// Decision is the tagged outcome of the edit-permission evaluator. A denial
// is a decision value, not an error.
type Decision struct {
	Allowed bool
	Reason  DenialReason
}

func allow() Decision              { return Decision{Allowed: true} }
func deny(r DenialReason) Decision { return Decision{Reason: r} }

// Message returns the user-facing denial text.
func (d Decision) Message() string {
	switch d.Reason {
	case ReasonNotOwner:
		return "you may only edit orders you created"
	case ReasonTooOld:
		return "order can no longer be edited (not created today)"
	case ReasonNotAuthenticated:
		return "not authenticated"
	}
	return ""
}

// CanEdit decides whether identity may mutate order at instant now. The
// table is evaluated top to bottom, first match wins:
//
//	ADMIN                       -> allowed
//	MANAGER                     -> allowed
//	STAFF, not the creator      -> denied (not owner)
//	STAFF, creator, day rolled  -> denied (too old)
//	STAFF, creator, same day    -> allowed
//
// Pure function: it never mutates identity or order.
func CanEdit(identity Identity, o Order, now time.Time) Decision {
	if identity.AccountID == "" {
		return deny(ReasonNotAuthenticated)
	}
	switch identity.Role {
	case RoleAdmin, RoleManager:
		return allow()
	}
	if o.CreatedByID != identity.AccountID {
		return deny(ReasonNotOwner)
	}
	if !EditWindowOpen(o, now) {
		return deny(ReasonTooOld)
	}
	return allow()
}

// EditWindowOpen answers only the calendar-day half of the edit rule: an
// order is within its window while now falls on the same local calendar day
// as its creation. Midnight-to-midnight, not a rolling 24-hour window: an
// order created at 23:59 closes a minute later, one created at 00:01 stays
// open almost a full day. List views use this alone to decide whether to
// show an edit affordance; role and ownership are combined at the call site.
func EditWindowOpen(o Order, now time.Time) bool {
	if o.CreatedAt.IsZero() {
		return false
	}
	y1, m1, d1 := o.CreatedAt.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
