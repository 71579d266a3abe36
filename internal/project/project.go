package project

import (
	"time"

	"github.com/google/uuid"
)

// Project groups the documents and milestones of one architectural job.
type Project struct {
	ID        uuid.UUID
	Name      string
	Client    string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
