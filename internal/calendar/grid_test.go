package calendar_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/archdesk/internal/calendar"
	"github.com/MrJamesThe3rd/archdesk/internal/milestone"
)

func TestBuild_Completeness(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for year := 2023; year <= 2025; year++ {
		for month := time.January; month <= time.December; month++ {
			ref := time.Date(year, month, 15, 12, 0, 0, 0, time.UTC)
			grid := calendar.Build(ref, nil, now)
			cells := grid.Cells()

			require.NotEmpty(t, cells)
			assert.Zero(t, len(cells)%7, "%d-%02d", year, month)
			assert.Equal(t, time.Monday, cells[0].Date.Weekday(), "%d-%02d", year, month)
			assert.Equal(t, time.Sunday, cells[len(cells)-1].Date.Weekday(), "%d-%02d", year, month)

			seen := make(map[int]int)
			for _, c := range cells {
				if c.InMonth {
					seen[c.Date.Day()]++
				}
			}

			daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
			assert.Len(t, seen, daysInMonth, "%d-%02d", year, month)

			for d, n := range seen {
				assert.Equal(t, 1, n, "%d-%02d day %d", year, month, d)
			}
		}
	}
}

func TestBuild_MonthStartingWednesday(t *testing.T) {
	// May 2024 starts on a Wednesday and ends on a Friday.
	ref := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	grid := calendar.Build(ref, nil, ref)
	cells := grid.Cells()

	require.Len(t, cells, 35)
	assert.Equal(t, time.Date(2024, time.April, 29, 0, 0, 0, 0, time.UTC), cells[0].Date)
	assert.Equal(t, time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC), cells[1].Date)
	assert.False(t, cells[0].InMonth)
	assert.False(t, cells[1].InMonth)
	assert.True(t, cells[2].InMonth)
	assert.Equal(t, time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC), cells[34].Date)
	assert.False(t, cells[34].InMonth)
	assert.Len(t, grid.Weeks, 5)
}

func TestBuild_BucketsByLocalDay(t *testing.T) {
	madrid := time.FixedZone("CEST", 2*60*60)
	ref := time.Date(2024, time.May, 1, 0, 0, 0, 0, madrid)

	morning := milestone.Milestone{ID: uuid.New(), Title: "morning", Date: time.Date(2024, time.May, 10, 8, 0, 0, 0, madrid)}
	evening := milestone.Milestone{ID: uuid.New(), Title: "evening", Date: time.Date(2024, time.May, 10, 21, 45, 0, 0, madrid)}
	// 23:30 UTC on the 10th is already the 11th in Madrid.
	lateUTC := milestone.Milestone{ID: uuid.New(), Title: "late", Date: time.Date(2024, time.May, 10, 23, 30, 0, 0, time.UTC)}
	outside := milestone.Milestone{ID: uuid.New(), Title: "outside", Date: time.Date(2024, time.July, 1, 0, 0, 0, 0, madrid)}

	grid := calendar.Build(ref, []milestone.Milestone{evening, lateUTC, morning, outside}, ref)

	tenth, ok := grid.Day(10)
	require.True(t, ok)
	require.Len(t, tenth.Milestones, 2)
	assert.Equal(t, "morning", tenth.Milestones[0].Title)
	assert.Equal(t, "evening", tenth.Milestones[1].Title)

	eleventh, ok := grid.Day(11)
	require.True(t, ok)
	require.Len(t, eleventh.Milestones, 1)
	assert.Equal(t, "late", eleventh.Milestones[0].Title)

	total := 0
	for _, c := range grid.Cells() {
		total += len(c.Milestones)
	}

	assert.Equal(t, 3, total)
}

func TestBuild_AdjacentMonthMilestonesShown(t *testing.T) {
	ref := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	m := milestone.Milestone{ID: uuid.New(), Date: time.Date(2024, time.April, 29, 10, 0, 0, 0, time.UTC)}

	grid := calendar.Build(ref, []milestone.Milestone{m}, ref)
	first := grid.Cells()[0]

	assert.False(t, first.InMonth)
	assert.Len(t, first.Milestones, 1)
}

func TestBuild_Today(t *testing.T) {
	ref := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, time.May, 17, 18, 0, 0, 0, time.UTC)

	grid := calendar.Build(ref, nil, now)

	var today []calendar.Cell
	for _, c := range grid.Cells() {
		if c.Today {
			today = append(today, c)
		}
	}

	require.Len(t, today, 1)
	assert.Equal(t, 17, today[0].Date.Day())

	other := calendar.Build(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), nil, now)
	for _, c := range other.Cells() {
		assert.False(t, c.Today)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	ref := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	ms := []milestone.Milestone{
		{ID: uuid.New(), Date: time.Date(2024, time.February, 14, 9, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), Date: time.Date(2024, time.February, 14, 9, 0, 0, 0, time.UTC)},
	}

	a := calendar.Build(ref, ms, ref)
	b := calendar.Build(ref, []milestone.Milestone{ms[1], ms[0]}, ref)

	assert.Equal(t, a, b)
}

func TestBuild_WeekStartSunday(t *testing.T) {
	ref := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	cells := calendar.Build(ref, nil, ref, calendar.WithWeekStart(time.Sunday)).Cells()

	assert.Equal(t, time.Sunday, cells[0].Date.Weekday())
	assert.Equal(t, time.Saturday, cells[len(cells)-1].Date.Weekday())
}
