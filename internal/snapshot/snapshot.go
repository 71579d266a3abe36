// Package snapshot assembles the per-project view that listings, the
// calendar and the overview are computed from, and caches it between
// mutations.
package snapshot

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/archdesk/internal/document"
	"github.com/MrJamesThe3rd/archdesk/internal/milestone"
)

type Snapshot struct {
	ProjectID  uuid.UUID             `json:"project_id"`
	Documents  []*document.Document  `json:"documents"`
	Milestones []milestone.Milestone `json:"milestones"`
	LoadedAt   time.Time             `json:"loaded_at"`
}
