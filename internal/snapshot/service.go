package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/archdesk/internal/cache"
	"github.com/MrJamesThe3rd/archdesk/internal/document"
	"github.com/MrJamesThe3rd/archdesk/internal/metrics"
	"github.com/MrJamesThe3rd/archdesk/internal/milestone"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=snapshot

type DocumentLister interface {
	ListDocuments(ctx context.Context, projectID uuid.UUID) ([]*document.Document, error)
}

type MilestoneLister interface {
	ListMilestones(ctx context.Context, projectID uuid.UUID) ([]*milestone.Milestone, error)
}

// Service loads snapshots through a cache. Cache failures are logged and
// the repositories are used directly.
type Service struct {
	documents  DocumentLister
	milestones MilestoneLister
	cache      cache.Cache[Snapshot]
	now        func() time.Time

	// generations is bumped by Invalidate. Load only caches what it read
	// when no invalidation happened in between.
	mu          sync.Mutex
	generations map[uuid.UUID]uint64
}

func NewService(documents DocumentLister, milestones MilestoneLister, c cache.Cache[Snapshot]) *Service {
	return &Service{
		documents:   documents,
		milestones:  milestones,
		cache:       c,
		now:         time.Now,
		generations: make(map[uuid.UUID]uint64),
	}
}

func (s *Service) generation(projectID uuid.UUID) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.generations[projectID]
}

func (s *Service) Load(ctx context.Context, projectID uuid.UUID) (*Snapshot, error) {
	key := projectID.String()

	snap, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("failed to read snapshot cache", "project_id", projectID, "error", err)
	}

	metrics.RecordSnapshotLoad(ok)

	if ok {
		return &snap, nil
	}

	gen := s.generation(projectID)

	docs, err := s.documents.ListDocuments(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	ms, err := s.milestones.ListMilestones(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing milestones: %w", err)
	}

	snap = Snapshot{
		ProjectID:  projectID,
		Documents:  docs,
		Milestones: make([]milestone.Milestone, 0, len(ms)),
		LoadedAt:   s.now(),
	}

	for _, m := range ms {
		snap.Milestones = append(snap.Milestones, *m)
	}

	if gen != s.generation(projectID) {
		return &snap, nil
	}

	if err := s.cache.Set(ctx, key, snap); err != nil {
		slog.Warn("failed to write snapshot cache", "project_id", projectID, "error", err)
	}

	// An invalidation that raced the write above must still win.
	if gen != s.generation(projectID) {
		if err := s.cache.Delete(ctx, key); err != nil {
			slog.Warn("failed to drop stale snapshot", "project_id", projectID, "error", err)
		}
	}

	return &snap, nil
}

// Invalidate drops the cached snapshot of a project. It satisfies the
// Invalidator interfaces of the document, milestone and project services.
func (s *Service) Invalidate(ctx context.Context, projectID uuid.UUID) error {
	s.mu.Lock()
	s.generations[projectID]++
	s.mu.Unlock()

	if err := s.cache.Delete(ctx, projectID.String()); err != nil {
		return fmt.Errorf("invalidating snapshot %s: %w", projectID, err)
	}

	return nil
}
