// Package calendar lays milestones out on a month grid.
package calendar

import (
	"time"

	"github.com/MrJamesThe3rd/archdesk/internal/milestone"
)

// Cell is a single day of the grid.
type Cell struct {
	Date       time.Time // midnight, in the grid's location
	InMonth    bool
	Today      bool
	Milestones []milestone.Milestone
}

// Grid is a month view made of whole weeks.
type Grid struct {
	Year      int
	Month     time.Month
	WeekStart time.Weekday
	Weeks     [][]Cell
}

type options struct {
	weekStart time.Weekday
}

type Option func(*options)

// WithWeekStart overrides the first day of the week. Monday is the default.
func WithWeekStart(d time.Weekday) Option {
	return func(o *options) { o.weekStart = d }
}

// Build creates the grid for ref's month in ref's location. Leading and
// trailing days of the adjacent months fill the first and last week. Each
// milestone lands in the cell of its local calendar day; milestones outside
// the displayed range are dropped.
func Build(ref time.Time, ms []milestone.Milestone, now time.Time, opts ...Option) Grid {
	o := options{weekStart: time.Monday}
	for _, opt := range opts {
		opt(&o)
	}

	loc := ref.Location()
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -daysSince(first.Weekday(), o.weekStart))
	end := last.AddDate(0, 0, 6-daysSince(last.Weekday(), o.weekStart))

	buckets := bucketByDay(ms, loc)
	today := dayKey(now.In(loc))

	grid := Grid{Year: first.Year(), Month: first.Month(), WeekStart: o.weekStart}

	var week []Cell

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := dayKey(d)

		week = append(week, Cell{
			Date:       d,
			InMonth:    d.Month() == first.Month(),
			Today:      key == today,
			Milestones: buckets[key],
		})

		if len(week) == 7 {
			grid.Weeks = append(grid.Weeks, week)
			week = nil
		}
	}

	return grid
}

// Cells returns every cell of the grid in display order.
func (g Grid) Cells() []Cell {
	out := make([]Cell, 0, len(g.Weeks)*7)
	for _, w := range g.Weeks {
		out = append(out, w...)
	}

	return out
}

// Day returns the cell of the given day of the displayed month.
func (g Grid) Day(day int) (Cell, bool) {
	for _, c := range g.Cells() {
		if c.InMonth && c.Date.Day() == day {
			return c, true
		}
	}

	return Cell{}, false
}

type day struct {
	year  int
	month time.Month
	day   int
}

func dayKey(t time.Time) day {
	y, m, d := t.Date()
	return day{year: y, month: m, day: d}
}

func daysSince(d, weekStart time.Weekday) int {
	return (int(d) - int(weekStart) + 7) % 7
}

func bucketByDay(ms []milestone.Milestone, loc *time.Location) map[day][]milestone.Milestone {
	buckets := make(map[day][]milestone.Milestone)
	for _, m := range ms {
		key := dayKey(m.Date.In(loc))
		buckets[key] = append(buckets[key], m)
	}

	for _, b := range buckets {
		milestone.SortByDate(b)
	}

	return buckets
}
