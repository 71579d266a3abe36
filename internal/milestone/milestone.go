package milestone

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type is the kind of event a milestone represents.
type Type string

const (
	TypeDelivery  Type = "entrega"
	TypeMeeting   Type = "reunion"
	TypeSiteVisit Type = "visita_obra"
	TypePermit    Type = "licencia"
	TypePayment   Type = "pago"
	TypeOther     Type = "otro"
)

var types = []Type{TypeDelivery, TypeMeeting, TypeSiteVisit, TypePermit, TypePayment, TypeOther}

func ParseType(s string) (Type, error) {
	for _, t := range types {
		if string(t) == s {
			return t, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// Priority of a milestone. Rank orders them from most to least urgent.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

var priorities = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

func ParsePriority(s string) (Priority, error) {
	for _, p := range priorities {
		if string(p) == s {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

// Rank is 0 for critical up to 3 for low. Unknown values sort last.
func (p Priority) Rank() int {
	for i, known := range priorities {
		if p == known {
			return i
		}
	}

	return len(priorities)
}

// Status of a milestone. StatusOverdue is only ever derived, never stored.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

var statuses = []Status{StatusPending, StatusCompleted, StatusOverdue, StatusCancelled}

func ParseStatus(s string) (Status, error) {
	for _, st := range statuses {
		if string(st) == s {
			return st, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Milestone is a dated project event.
type Milestone struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	Title       string
	Description string
	Type        Type
	Date        time.Time
	Priority    Priority
	Status      Status
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
