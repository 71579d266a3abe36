package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/archdesk/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/archdesk/internal/cache"
	"github.com/MrJamesThe3rd/archdesk/internal/config"
	"github.com/MrJamesThe3rd/archdesk/internal/database"
	documentStore "github.com/MrJamesThe3rd/archdesk/internal/document/store"
	"github.com/MrJamesThe3rd/archdesk/internal/milestone"
	milestoneStore "github.com/MrJamesThe3rd/archdesk/internal/milestone/store"
	"github.com/MrJamesThe3rd/archdesk/internal/project"
	projectStore "github.com/MrJamesThe3rd/archdesk/internal/project/store"
	"github.com/MrJamesThe3rd/archdesk/internal/snapshot"
)

type model struct {
	projectService   *project.Service
	milestoneService *milestone.Service
	snapshots        *snapshot.Service

	currentView View
	project     *project.Project

	projectsView   view.ProjectsModel
	calendarView   view.CalendarModel
	milestonesView view.MilestonesModel
	documentsView  view.DocumentsModel
}

type View int

const (
	ViewProjects   View = 0
	ViewMenu       View = 1
	ViewCalendar   View = 2
	ViewMilestones View = 3
	ViewDocuments  View = 4
)

func initialModel() model {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var snapshotCache cache.Cache[snapshot.Snapshot] = cache.NewMemory[snapshot.Snapshot](cfg.Redis.SnapshotTTL)
	if cfg.Redis.Addr != "" {
		rdb := cache.NewRedisClient(cache.RedisConfig{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		snapshotCache = cache.NewRedis[snapshot.Snapshot](rdb, "snapshot", cfg.Redis.SnapshotTTL)
	}

	milestones := milestoneStore.New(db)
	snaps := snapshot.NewService(documentStore.New(db), milestones, snapshotCache)
	projSvc := project.NewService(projectStore.New(db), snaps)

	return model{
		projectService:   projSvc,
		milestoneService: milestone.NewService(milestones, snaps),
		snapshots:        snaps,
		currentView:      ViewProjects,
		projectsView:     view.NewProjectsModel(projSvc),
	}
}

func (m model) Init() tea.Cmd {
	return m.projectsView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.currentView {
		case ViewProjects:
			if msg.String() == "q" && !m.projectsView.Editing() {
				return m, tea.Quit
			}
		case ViewMenu:
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "esc", "p":
				m.currentView = ViewProjects
				return m, m.projectsView.Init()
			case "1":
				m.currentView = ViewCalendar
				m.calendarView = view.NewCalendarModel(m.snapshots, m.project.ID, time.Now)

				return m, m.calendarView.Init()
			case "2":
				m.currentView = ViewMilestones
				m.milestonesView = view.NewMilestonesModel(m.milestoneService, m.snapshots, m.project.ID, time.Now)

				return m, m.milestonesView.Init()
			case "3":
				m.currentView = ViewDocuments
				m.documentsView = view.NewDocumentsModel(m.snapshots, m.project.ID)

				return m, m.documentsView.Init()
			}
		}
	case view.ProjectSelectedMsg:
		m.project = msg.Project
		m.currentView = ViewMenu

		return m, nil
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewProjects:
		var newModel tea.Model
		newModel, cmd = m.projectsView.Update(msg)
		m.projectsView = newModel.(view.ProjectsModel)
	case ViewCalendar:
		var newModel tea.Model
		newModel, cmd = m.calendarView.Update(msg)
		m.calendarView = newModel.(view.CalendarModel)
	case ViewMilestones:
		var newModel tea.Model
		newModel, cmd = m.milestonesView.Update(msg)
		m.milestonesView = newModel.(view.MilestonesModel)
	case ViewDocuments:
		var newModel tea.Model
		newModel, cmd = m.documentsView.Update(msg)
		m.documentsView = newModel.(view.DocumentsModel)
	}

	return m, cmd
}

func (m model) View() string {
	var (
		body string
		help string
	)

	switch m.currentView {
	case ViewProjects:
		body, help = m.projectsView.View(), m.projectsView.ShortHelp()
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("Archdesk · %s\n\n", m.project.Name) +
				"1. Calendar\n" +
				"2. Milestones\n" +
				"3. Documents\n\n" +
				"p. Switch project\n" +
				"q. Quit",
		)
	case ViewCalendar:
		body, help = m.calendarView.View(), m.calendarView.ShortHelp()
	case ViewMilestones:
		body, help = m.milestonesView.View(), m.milestonesView.ShortHelp()
	case ViewDocuments:
		body, help = m.documentsView.View(), m.documentsView.ShortHelp()
	default:
		return "Unknown View"
	}

	return body + "\n" + lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(help)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
