package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/archdesk/internal/calendar"
	"github.com/MrJamesThe3rd/archdesk/internal/milestone"
	"github.com/MrJamesThe3rd/archdesk/internal/snapshot"
)

const cellWidth = 6

var (
	todayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	outsideStyle = lipgloss.NewStyle().Faint(true)
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

type CalendarModel struct {
	CommonModel
	snapshots *snapshot.Service
	projectID uuid.UUID
	now       func() time.Time

	month      time.Time
	milestones []milestone.Milestone

	loading bool
	err     error
}

func NewCalendarModel(snapshots *snapshot.Service, projectID uuid.UUID, now func() time.Time) CalendarModel {
	return CalendarModel{
		snapshots: snapshots,
		projectID: projectID,
		now:       now,
		month:     firstOfMonth(now()),
		loading:   true,
	}
}

func (m CalendarModel) Title() string { return "Calendar" }
func (m CalendarModel) ShortHelp() string {
	return "Esc: back | n: next month | p: previous month | t: today | r: refresh"
}

func (m CalendarModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CalendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCalendarMsg:
		m.loading = false
		m.err = msg.err
		m.milestones = msg.milestones
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "n":
			m.month = m.month.AddDate(0, 1, 0)
		case "p":
			m.month = m.month.AddDate(0, -1, 0)
		case "t":
			m.month = firstOfMonth(m.now())
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m CalendarModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading calendar...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	now := m.now()
	grid := calendar.Build(m.month, m.milestones, now)

	header := activeStyle(fmt.Sprintf("%s %d", grid.Month, grid.Year))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(renderGrid(grid)),
		renderAgenda(grid, now),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// renderGrid draws one row per week. Days with milestones carry a count.
func renderGrid(g calendar.Grid) string {
	var sb strings.Builder

	for i := range 7 {
		wd := time.Weekday((int(g.WeekStart) + i) % 7)
		fmt.Fprintf(&sb, "%-*s", cellWidth, wd.String()[:2])
	}

	sb.WriteString("\n")

	for _, week := range g.Weeks {
		for _, c := range week {
			label := fmt.Sprintf("%2d", c.Date.Day())
			if n := len(c.Milestones); n > 0 {
				label += fmt.Sprintf("(%d)", n)
			}

			label = fmt.Sprintf("%-*s", cellWidth, label)

			switch {
			case c.Today:
				label = todayStyle.Render(label)
			case !c.InMonth:
				label = outsideStyle.Render(label)
			}

			sb.WriteString(label)
		}

		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// renderAgenda lists the milestones of the displayed month.
func renderAgenda(g calendar.Grid, now time.Time) string {
	var sb strings.Builder

	for _, c := range g.Cells() {
		if !c.InMonth {
			continue
		}

		for _, ms := range c.Milestones {
			status := milestone.DisplayStatus(ms, now)

			line := fmt.Sprintf("%s  %-10s %-8s %s", FormatDate(c.Date), status, ms.Priority, ms.Title)

			switch status {
			case milestone.StatusOverdue:
				line = overdueStyle.Render(line)
			case milestone.StatusCompleted:
				line = doneStyle.Render(line)
			}

			sb.WriteString(line + "\n")
		}
	}

	if sb.Len() == 0 {
		return outsideStyle.Render("No milestones this month")
	}

	return sb.String()
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Messages

type loadCalendarMsg struct {
	milestones []milestone.Milestone
	err        error
}

func (m CalendarModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		snap, err := m.snapshots.Load(ctx, m.projectID)
		if err != nil {
			return loadCalendarMsg{err: err}
		}

		return loadCalendarMsg{milestones: snap.Milestones}
	}
}
