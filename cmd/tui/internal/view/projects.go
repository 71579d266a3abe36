package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/archdesk/internal/project"
)

// ProjectSelectedMsg is emitted when the user opens a project.
type ProjectSelectedMsg struct {
	Project *project.Project
}

type projectsState int

const (
	projectsStateBrowse projectsState = iota
	projectsStateCreate
)

type ProjectsModel struct {
	CommonModel
	svc *project.Service

	state    projectsState
	table    table.Model
	projects []*project.Project
	form     *huh.Form

	loading bool
	err     error
	status  string

	formName   string
	formClient string
}

func NewProjectsModel(svc *project.Service) ProjectsModel {
	return ProjectsModel{
		svc: svc,
		table: newTable([]table.Column{
			{Title: "Name", Width: 40},
			{Title: "Client", Width: 30},
			{Title: "Created", Width: 12},
		}),
		loading: true,
	}
}

func (m ProjectsModel) Title() string { return "Projects" }
func (m ProjectsModel) ShortHelp() string {
	if m.state == projectsStateCreate {
		return "Navigate form | Esc: cancel"
	}
	return "Enter: open | n: new project | r: refresh | q: quit"
}

// Editing reports whether the create form has focus.
func (m ProjectsModel) Editing() bool {
	return m.state == projectsStateCreate
}

func (m ProjectsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ProjectsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadProjectsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.projects = msg.projects
		m.refreshTable()
		return m, nil

	case projectSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		} else {
			m.status = "Project created"
		}
		m.state = projectsStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == projectsStateCreate {
		return m.updateCreate(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "n":
			return m.enterCreateMode()
		case "enter":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.projects) {
				return m, nil
			}
			p := m.projects[idx]
			return m, func() tea.Msg { return ProjectSelectedMsg{Project: p} }
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ProjectsModel) enterCreateMode() (tea.Model, tea.Cmd) {
	m.formName = ""
	m.formClient = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("client").
				Title("Client").
				Value(&m.formClient),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = projectsStateCreate
	m.table.Blur()
	return m, m.form.Init()
}

func (m ProjectsModel) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = projectsStateBrowse
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

	return m, m.saveCmd()
}

func (m ProjectsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading projects...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	content := boxed(m.table.View())

	if m.state == projectsStateCreate && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("New Project\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ProjectsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.projects))
	for _, p := range m.projects {
		rows = append(rows, table.Row{p.Name, p.Client, FormatDate(p.CreatedAt)})
	}
	m.table.SetRows(rows)
}

// Messages

type loadProjectsMsg struct {
	projects []*project.Project
	err      error
}

func (m ProjectsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		ps, err := m.svc.List(ctx)
		return loadProjectsMsg{projects: ps, err: err}
	}
}

type projectSavedMsg struct {
	err error
}

func (m ProjectsModel) saveCmd() tea.Cmd {
	name, client := m.form.GetString("name"), m.form.GetString("client")

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.svc.Create(ctx, name, client)
		return projectSavedMsg{err: err}
	}
}
