package listing

import (
	"cmp"
	"time"

	"github.com/MrJamesThe3rd/archdesk/internal/milestone"
)

// MilestoneQuery is the milestone counterpart of DocumentQuery. Status is
// compared against the derived display status, so StatusOverdue can be
// selected even though it is never stored.
type MilestoneQuery struct {
	Search   string
	Type     milestone.Type
	Priority milestone.Priority
	Status   milestone.Status
	From     *time.Time
	To       *time.Time
	Sort     SortKey
	Desc     bool
}

// Milestones filters and sorts a milestone snapshot as seen at now.
func Milestones(ms []milestone.Milestone, q MilestoneQuery, now time.Time) ([]milestone.Milestone, error) {
	key := q.Sort
	if key == "" {
		key = SortDate
	}

	var compare func(a, b milestone.Milestone) int

	switch key {
	case SortName:
		compare = func(a, b milestone.Milestone) int { return compareFold(a.Title, b.Title) }
	case SortDate:
		compare = func(a, b milestone.Milestone) int { return a.Date.Compare(b.Date) }
	case SortType:
		compare = func(a, b milestone.Milestone) int { return cmp.Compare(a.Type, b.Type) }
	case SortPriority:
		compare = func(a, b milestone.Milestone) int { return cmp.Compare(a.Priority.Rank(), b.Priority.Rank()) }
	case SortSize:
		return nil, ErrUnsupportedSortKey
	default:
		return nil, ErrInvalidSortKey
	}

	filtered := Filter(ms,
		Contains(q.Search, milestoneSearchFields),
		Equals(q.Type, func(m milestone.Milestone) milestone.Type { return m.Type }),
		Equals(q.Priority, func(m milestone.Milestone) milestone.Priority { return m.Priority }),
		Equals(q.Status, func(m milestone.Milestone) milestone.Status { return milestone.DisplayStatus(m, now) }),
		Between(q.From, q.To, func(m milestone.Milestone) time.Time { return m.Date }),
	)

	return Sort(filtered, compare, func(m milestone.Milestone) string { return m.ID.String() }, q.Desc), nil
}

func milestoneSearchFields(m milestone.Milestone) []string {
	return []string{m.Title, m.Description, string(m.Type)}
}
