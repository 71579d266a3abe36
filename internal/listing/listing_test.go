package listing_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/archdesk/internal/document"
	"github.com/MrJamesThe3rd/archdesk/internal/listing"
	"github.com/MrJamesThe3rd/archdesk/internal/milestone"
)

func day(d int) time.Time {
	return time.Date(2024, time.June, d, 10, 0, 0, 0, time.UTC)
}

func doc(id, name string, typ document.Type, uploaded time.Time, size int64, status document.VersionStatus) *document.Document {
	return &document.Document{
		ID:   uuid.MustParse(id),
		Name: name,
		Type: typ,
		Versions: []document.Version{
			{Number: 1, UploadedAt: uploaded, FileSize: size, Status: status},
		},
	}
}

func fixtureDocuments() []*document.Document {
	return []*document.Document{
		doc("00000000-0000-0000-0000-000000000001", "Alzado fachada sur", document.TypePlan, day(3), 300, document.VersionApproved),
		doc("00000000-0000-0000-0000-000000000002", "Memoria descriptiva", document.TypeReport, day(1), 100, document.VersionDraft),
		doc("00000000-0000-0000-0000-000000000003", "Planta baja", document.TypePlan, day(2), 200, document.VersionReview),
		doc("00000000-0000-0000-0000-000000000004", "Detalle FACHADA ventilada", document.TypePlan, day(2), 50, document.VersionDraft),
		doc("00000000-0000-0000-0000-000000000005", "Presupuesto fachada", document.TypeBudget, day(5), 500, document.VersionShared),
	}
}

func ids(docs []*document.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID.String()[len(d.ID.String())-1:]
	}

	return out
}

func TestDocuments_TypeAndSearch(t *testing.T) {
	got, err := listing.Documents(fixtureDocuments(), listing.DocumentQuery{
		Type:   document.TypePlan,
		Search: "fachada",
		Sort:   listing.SortName,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4"}, ids(got))

	for _, d := range got {
		assert.Equal(t, document.TypePlan, d.Type)
		assert.Contains(t, strings.ToLower(d.Name), "fachada")
	}
}

func TestDocuments_NoFiltersKeepsEverything(t *testing.T) {
	input := fixtureDocuments()

	got, err := listing.Documents(input, listing.DocumentQuery{Type: listing.All, Search: "   "})
	require.NoError(t, err)
	assert.ElementsMatch(t, input, got)
	// Default sort is by latest upload ascending, ties by id.
	assert.Equal(t, []string{"2", "3", "4", "1", "5"}, ids(got))
}

func TestDocuments_FilterMonotonicity(t *testing.T) {
	input := fixtureDocuments()
	from := day(2)

	queries := []listing.DocumentQuery{
		{},
		{Search: "a"},
		{Search: "a", Type: document.TypePlan},
		{Search: "a", Type: document.TypePlan, From: &from},
		{Search: "a", Type: document.TypePlan, From: &from, Status: document.VersionDraft},
	}

	prev := input
	for i, q := range queries {
		got, err := listing.Documents(input, q)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(got), len(prev), "query %d", i)

		for _, d := range got {
			assert.Contains(t, prev, d, "query %d", i)
		}

		prev = got
	}

	assert.Equal(t, []string{"4"}, ids(prev))
}

func TestDocuments_SortIdempotent(t *testing.T) {
	keys := []listing.SortKey{listing.SortName, listing.SortDate, listing.SortType, listing.SortSize}

	for _, key := range keys {
		for _, desc := range []bool{false, true} {
			q := listing.DocumentQuery{Sort: key, Desc: desc}

			once, err := listing.Documents(fixtureDocuments(), q)
			require.NoError(t, err)

			twice, err := listing.Documents(once, q)
			require.NoError(t, err)

			assert.Equal(t, ids(once), ids(twice), "%s desc=%v", key, desc)
		}
	}
}

func TestDocuments_SortBySizeDesc(t *testing.T) {
	got, err := listing.Documents(fixtureDocuments(), listing.DocumentQuery{Sort: listing.SortSize, Desc: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "1", "3", "2", "4"}, ids(got))
}

func TestDocuments_DoesNotMutateInput(t *testing.T) {
	input := fixtureDocuments()
	before := ids(input)

	_, err := listing.Documents(input, listing.DocumentQuery{Sort: listing.SortName, Desc: true})
	require.NoError(t, err)
	assert.Equal(t, before, ids(input))
}

func TestDocuments_InvalidSortKeys(t *testing.T) {
	_, err := listing.Documents(nil, listing.DocumentQuery{Sort: listing.SortPriority})
	assert.ErrorIs(t, err, listing.ErrUnsupportedSortKey)

	_, err = listing.Documents(nil, listing.DocumentQuery{Sort: "colour"})
	assert.ErrorIs(t, err, listing.ErrInvalidSortKey)

	got, err := listing.Documents(nil, listing.DocumentQuery{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseSortKey(t *testing.T) {
	k, err := listing.ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, listing.SortDate, k)

	k, err = listing.ParseSortKey("priority")
	require.NoError(t, err)
	assert.Equal(t, listing.SortPriority, k)

	_, err = listing.ParseSortKey("Priority")
	assert.ErrorIs(t, err, listing.ErrInvalidSortKey)
}

func fixtureMilestones() []milestone.Milestone {
	mk := func(id, title string, d int, p milestone.Priority, s milestone.Status) milestone.Milestone {
		return milestone.Milestone{
			ID:       uuid.MustParse(id),
			Title:    title,
			Type:     milestone.TypeDelivery,
			Date:     day(d),
			Priority: p,
			Status:   s,
		}
	}

	return []milestone.Milestone{
		mk("00000000-0000-0000-0000-00000000000a", "Entrega básico", 10, milestone.PriorityHigh, milestone.StatusPending),
		mk("00000000-0000-0000-0000-00000000000b", "Visita de obra", 2, milestone.PriorityLow, milestone.StatusPending),
		mk("00000000-0000-0000-0000-00000000000c", "Pago honorarios", 4, milestone.PriorityCritical, milestone.StatusCompleted),
		mk("00000000-0000-0000-0000-00000000000d", "Licencia obra", 4, milestone.PriorityCritical, milestone.StatusPending),
	}
}

func titles(ms []milestone.Milestone) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Title
	}

	return out
}

func TestMilestones_OverdueIsDerived(t *testing.T) {
	now := day(5)

	got, err := listing.Milestones(fixtureMilestones(), listing.MilestoneQuery{Status: milestone.StatusOverdue}, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"Visita de obra", "Licencia obra"}, titles(got))

	pending, err := listing.Milestones(fixtureMilestones(), listing.MilestoneQuery{Status: milestone.StatusPending}, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"Entrega básico"}, titles(pending))
}

func TestMilestones_SortByPriority(t *testing.T) {
	got, err := listing.Milestones(fixtureMilestones(), listing.MilestoneQuery{Sort: listing.SortPriority}, day(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"Pago honorarios", "Licencia obra", "Entrega básico", "Visita de obra"}, titles(got))

	desc, err := listing.Milestones(fixtureMilestones(), listing.MilestoneQuery{Sort: listing.SortPriority, Desc: true}, day(1))
	require.NoError(t, err)
	// Ties keep id order in both directions.
	assert.Equal(t, []string{"Visita de obra", "Entrega básico", "Pago honorarios", "Licencia obra"}, titles(desc))
}

func TestMilestones_SearchAndRange(t *testing.T) {
	from, to := day(3), day(10)

	got, err := listing.Milestones(fixtureMilestones(), listing.MilestoneQuery{
		Search:   "OBRA",
		From:     &from,
		To:       &to,
		Priority: milestone.PriorityCritical,
	}, day(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"Licencia obra"}, titles(got))
}

func TestMilestones_UnsupportedSize(t *testing.T) {
	_, err := listing.Milestones(fixtureMilestones(), listing.MilestoneQuery{Sort: listing.SortSize}, day(1))
	assert.ErrorIs(t, err, listing.ErrUnsupportedSortKey)
}

func TestFilter_SkipsNilPredicates(t *testing.T) {
	in := []int{1, 2, 3, 4}
	even := listing.Predicate[int](func(n int) bool { return n%2 == 0 })

	assert.Equal(t, []int{2, 4}, listing.Filter(in, nil, even, nil))
	assert.Equal(t, in, listing.Filter[int](in))
}
