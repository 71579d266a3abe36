package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/archdesk/internal/listing"
	"github.com/MrJamesThe3rd/archdesk/internal/milestone"
	"github.com/MrJamesThe3rd/archdesk/internal/snapshot"
)

var (
	milestoneSorts  = []listing.SortKey{listing.SortDate, listing.SortPriority, listing.SortName, listing.SortType}
	milestoneStatus = []milestone.Status{"", milestone.StatusPending, milestone.StatusOverdue, milestone.StatusCompleted, milestone.StatusCancelled}
)

type milestonesState int

const (
	milestonesStateBrowse milestonesState = iota
	milestonesStateCreate
)

type MilestonesModel struct {
	CommonModel
	svc       *milestone.Service
	snapshots *snapshot.Service
	projectID uuid.UUID
	now       func() time.Time

	state milestonesState
	table table.Model
	all   []milestone.Milestone
	shown []milestone.Milestone
	form  *huh.Form

	sortIdx   int
	desc      bool
	statusIdx int

	loading bool
	err     error
	status  string

	formTitle    string
	formType     milestone.Type
	formPriority milestone.Priority
	formDate     string
}

func NewMilestonesModel(svc *milestone.Service, snapshots *snapshot.Service, projectID uuid.UUID, now func() time.Time) MilestonesModel {
	return MilestonesModel{
		svc:       svc,
		snapshots: snapshots,
		projectID: projectID,
		now:       now,
		table: newTable([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "Status", Width: 10},
			{Title: "Priority", Width: 9},
			{Title: "Type", Width: 12},
			{Title: "Title", Width: 40},
		}),
		loading: true,
	}
}

func (m MilestonesModel) Title() string { return "Milestones" }
func (m MilestonesModel) ShortHelp() string {
	if m.state == milestonesStateCreate {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | t: toggle | c: create | s: sort | o: order | f: status filter | r: refresh"
}

func (m MilestonesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m MilestonesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadMilestonesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.all = msg.milestones
		m.applyQuery()
		return m, nil

	case milestoneSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.info
		}
		m.state = milestonesStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == milestonesStateCreate {
		return m.updateCreate(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "t":
			return m, m.toggleCmd()
		case "c":
			return m.enterCreateMode()
		case "s":
			m.sortIdx = cycle(m.sortIdx, len(milestoneSorts))
			m.applyQuery()
			return m, nil
		case "o":
			m.desc = !m.desc
			m.applyQuery()
			return m, nil
		case "f":
			m.statusIdx = cycle(m.statusIdx, len(milestoneStatus))
			m.applyQuery()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *MilestonesModel) applyQuery() {
	ms, err := listing.Milestones(m.all, listing.MilestoneQuery{
		Status: milestoneStatus[m.statusIdx],
		Sort:   milestoneSorts[m.sortIdx],
		Desc:   m.desc,
	}, m.now())
	if err != nil {
		m.status = err.Error()
		return
	}

	m.shown = ms

	now := m.now()
	rows := make([]table.Row, 0, len(ms))
	for _, item := range ms {
		rows = append(rows, table.Row{
			FormatDate(item.Date),
			string(milestone.DisplayStatus(item, now)),
			string(item.Priority),
			string(item.Type),
			item.Title,
		})
	}
	m.table.SetRows(rows)
}

func (m MilestonesModel) enterCreateMode() (tea.Model, tea.Cmd) {
	m.formTitle = ""
	m.formType = milestone.TypeDelivery
	m.formPriority = milestone.PriorityMedium
	m.formDate = FormatDate(m.now())

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Value(&m.formTitle).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title cannot be empty")
					}
					return nil
				}),

			huh.NewSelect[milestone.Type]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Entrega", milestone.TypeDelivery),
					huh.NewOption("Reunión", milestone.TypeMeeting),
					huh.NewOption("Visita de obra", milestone.TypeSiteVisit),
					huh.NewOption("Licencia", milestone.TypePermit),
					huh.NewOption("Pago", milestone.TypePayment),
					huh.NewOption("Otro", milestone.TypeOther),
				).
				Value(&m.formType),

			huh.NewSelect[milestone.Priority]().
				Key("priority").
				Title("Priority").
				Options(
					huh.NewOption("Critical", milestone.PriorityCritical),
					huh.NewOption("High", milestone.PriorityHigh),
					huh.NewOption("Medium", milestone.PriorityMedium),
					huh.NewOption("Low", milestone.PriorityLow),
				).
				Value(&m.formPriority),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.formDate).
				Validate(func(s string) error {
					_, err := time.Parse(time.DateOnly, s)
					return err
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = milestonesStateCreate
	m.table.Blur()
	return m, m.form.Init()
}

func (m MilestonesModel) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = milestonesStateBrowse
		m.form = nil
		m.table.Focus()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd()
}

func (m MilestonesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading milestones...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	statusLabel := "All"
	if s := milestoneStatus[m.statusIdx]; s != "" {
		statusLabel = string(s)
	}

	order := "asc"
	if m.desc {
		order = "desc"
	}

	header := fmt.Sprintf(
		"[s] Sort: %s | [o] Order: %s | [f] Status: %s",
		activeStyle(string(milestoneSorts[m.sortIdx])),
		activeStyle(order),
		activeStyle(statusLabel),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
	)

	if m.state == milestonesStateCreate && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("New Milestone\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type loadMilestonesMsg struct {
	milestones []milestone.Milestone
	err        error
}

func (m MilestonesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		snap, err := m.snapshots.Load(ctx, m.projectID)
		if err != nil {
			return loadMilestonesMsg{err: err}
		}

		return loadMilestonesMsg{milestones: snap.Milestones}
	}
}

type milestoneSavedMsg struct {
	info string
	err  error
}

func (m MilestonesModel) toggleCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.shown) {
		return nil
	}

	id := m.shown[idx].ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		toggled, err := m.svc.Toggle(ctx, id)
		if err != nil {
			return milestoneSavedMsg{err: err}
		}

		return milestoneSavedMsg{info: fmt.Sprintf("%s is now %s", toggled.Title, toggled.Status)}
	}
}

func (m MilestonesModel) createCmd() tea.Cmd {
	// Bound pointers target an earlier copy of the model, so read by key.
	params := milestone.CreateParams{
		ProjectID: m.projectID,
		Title:     m.form.GetString("title"),
	}
	params.Type, _ = m.form.Get("type").(milestone.Type)
	params.Priority, _ = m.form.Get("priority").(milestone.Priority)
	date := m.form.GetString("date")

	return func() tea.Msg {
		d, err := time.ParseInLocation(time.DateOnly, date, time.Local)
		if err != nil {
			return milestoneSavedMsg{err: err}
		}

		params.Date = d

		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.svc.Create(ctx, params); err != nil {
			return milestoneSavedMsg{err: err}
		}

		return milestoneSavedMsg{info: "Milestone created"}
	}
}
