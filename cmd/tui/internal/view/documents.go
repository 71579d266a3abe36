package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/archdesk/internal/document"
	"github.com/MrJamesThe3rd/archdesk/internal/listing"
	"github.com/MrJamesThe3rd/archdesk/internal/snapshot"
)

var documentSorts = []listing.SortKey{listing.SortDate, listing.SortName, listing.SortType, listing.SortSize}

type DocumentsModel struct {
	CommonModel
	snapshots *snapshot.Service
	projectID uuid.UUID

	table  table.Model
	search textinput.Model
	all    []*document.Document

	// Filter cycling; type index 0 is every type.
	types   []document.Type
	typeIdx int
	sortIdx int
	desc    bool

	searching bool
	loading   bool
	err       error
	status    string
}

func NewDocumentsModel(snapshots *snapshot.Service, projectID uuid.UUID) DocumentsModel {
	search := textinput.New()
	search.Placeholder = "name, folder, description"
	search.Prompt = "Search: "
	search.CharLimit = 64
	search.Width = 40

	return DocumentsModel{
		snapshots: snapshots,
		projectID: projectID,
		table: newTable([]table.Column{
			{Title: "Name", Width: 32},
			{Title: "Type", Width: 12},
			{Title: "Folder", Width: 20},
			{Title: "Ver", Width: 4},
			{Title: "Status", Width: 9},
			{Title: "Size", Width: 9},
			{Title: "Uploaded", Width: 12},
		}),
		search:  search,
		types:   append([]document.Type{""}, document.Types()...),
		loading: true,
	}
}

func (m DocumentsModel) Title() string { return "Documents" }
func (m DocumentsModel) ShortHelp() string {
	if m.searching {
		return "Enter: apply | Esc: clear"
	}
	return "Esc: back | /: search | t: type | s: sort | o: order | r: refresh"
}

func (m DocumentsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DocumentsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDocumentsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.all = msg.documents
		m.applyQuery()
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil
	}

	if m.searching {
		return m.updateSearch(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "/":
			m.searching = true
			m.table.Blur()
			return m, m.search.Focus()
		case "t":
			m.typeIdx = cycle(m.typeIdx, len(m.types))
			m.applyQuery()
			return m, nil
		case "s":
			m.sortIdx = cycle(m.sortIdx, len(documentSorts))
			m.applyQuery()
			return m, nil
		case "o":
			m.desc = !m.desc
			m.applyQuery()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m DocumentsModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.search.SetValue("")
			fallthrough
		case tea.KeyEnter:
			m.searching = false
			m.search.Blur()
			m.table.Focus()
			m.applyQuery()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applyQuery()
	return m, cmd
}

func (m *DocumentsModel) applyQuery() {
	docs, err := listing.Documents(m.all, listing.DocumentQuery{
		Search: m.search.Value(),
		Type:   m.types[m.typeIdx],
		Sort:   documentSorts[m.sortIdx],
		Desc:   m.desc,
	})
	if err != nil {
		m.status = err.Error()
		return
	}

	rows := make([]table.Row, 0, len(docs))
	for _, d := range docs {
		row := table.Row{d.Name, string(d.Type), d.Folder, "-", "-", "-", "-"}

		if v, ok := d.Latest(); ok {
			row[3] = strconv.Itoa(v.Number)
			row[4] = string(v.Status)
			row[5] = FormatSize(v.FileSize)
			row[6] = FormatDate(v.UploadedAt)
		}

		rows = append(rows, row)
	}
	m.table.SetRows(rows)
	m.status = fmt.Sprintf("%d of %d documents", len(docs), len(m.all))
}

func (m DocumentsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading documents...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	typeLabel := "All"
	if t := m.types[m.typeIdx]; t != "" {
		typeLabel = string(t)
	}

	order := "asc"
	if m.desc {
		order = "desc"
	}

	header := fmt.Sprintf(
		"[t] Type: %s | [s] Sort: %s | [o] Order: %s",
		activeStyle(typeLabel),
		activeStyle(string(documentSorts[m.sortIdx])),
		activeStyle(order),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.search.View(),
		boxed(m.table.View()),
		lipgloss.NewStyle().Faint(true).Render(m.status),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type loadDocumentsMsg struct {
	documents []*document.Document
	err       error
}

func (m DocumentsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		snap, err := m.snapshots.Load(ctx, m.projectID)
		if err != nil {
			return loadDocumentsMsg{err: err}
		}

		return loadDocumentsMsg{documents: snap.Documents}
	}
}
