package milestone

import (
	"slices"
	"strings"
	"time"
)

// DefaultUpcomingLimit is used by Upcoming when no positive limit is given.
const DefaultUpcomingLimit = 5

// IsOverdue reports whether a pending milestone's date lies strictly before now.
// Completed and cancelled milestones are never overdue.
func IsOverdue(m Milestone, now time.Time) bool {
	return m.Status == StatusPending && m.Date.Before(now)
}

// DisplayStatus is the status to present: the stored one, or StatusOverdue
// when the milestone is overdue at now.
func DisplayStatus(m Milestone, now time.Time) Status {
	if IsOverdue(m, now) {
		return StatusOverdue
	}

	return m.Status
}

// Upcoming returns pending milestones dated at or after now, soonest first,
// truncated to limit.
func Upcoming(ms []Milestone, now time.Time, limit int) []Milestone {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}

	out := make([]Milestone, 0, min(limit, len(ms)))
	for _, m := range ms {
		if m.Status == StatusPending && !m.Date.Before(now) {
			out = append(out, m)
		}
	}

	SortByDate(out)

	if len(out) > limit {
		out = out[:limit]
	}

	return out
}

// Overdue returns every overdue milestone, oldest first.
func Overdue(ms []Milestone, now time.Time) []Milestone {
	var out []Milestone

	for _, m := range ms {
		if IsOverdue(m, now) {
			out = append(out, m)
		}
	}

	SortByDate(out)

	return out
}

// SortByDate orders ms in place by date ascending, ties by id.
func SortByDate(ms []Milestone) {
	slices.SortStableFunc(ms, func(a, b Milestone) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}

		return strings.Compare(a.ID.String(), b.ID.String())
	})
}

// Toggle flips a milestone between pending and completed. No other
// transition is exposed; in particular nothing moves a milestone into
// StatusCancelled.
func Toggle(m Milestone, now time.Time) (Milestone, error) {
	switch m.Status {
	case StatusPending:
		m.Status = StatusCompleted
		m.CompletedAt = &now
	case StatusCompleted:
		m.Status = StatusPending
		m.CompletedAt = nil
	default:
		return m, ErrInvalidTransition
	}

	return m, nil
}
