package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/sidechat/cli/internal/api"
	"github.com/gravitrone/sidechat/cli/internal/i18n"
	"github.com/gravitrone/sidechat/cli/internal/sidebar"
	"github.com/gravitrone/sidechat/cli/internal/ui/components"
)

const searchLimit = 20

type searchResultsMsg struct {
	query   string
	reports []api.Report
}

type searchClosedMsg struct{}

// SearchModel filters reports by name or participant.
type SearchModel struct {
	client  *api.Client
	tr      *i18n.Translator
	query   string
	loading bool
	list    *components.List
	items   []api.Report
	reports []api.Report
	details map[string]api.PersonalDetails
	width   int
	height  int
}

// NewSearchModel builds the search UI model.
func NewSearchModel(client *api.Client, tr *i18n.Translator) SearchModel {
	return SearchModel{
		client: client,
		tr:     tr,
		list:   components.NewList(12),
	}
}

// SetCorpus gives the model the locally known reports, used to filter server
// results and as the whole source when offline.
func (m *SearchModel) SetCorpus(reports []api.Report, details map[string]api.PersonalDetails) {
	m.reports = reports
	m.details = details
}

// Reset clears the query for a fresh overlay.
func (m *SearchModel) Reset() {
	m.query = ""
	m.items = nil
	m.loading = false
	m.list.SetItems(nil)
}

func (m SearchModel) Init() tea.Cmd {
	return nil
}

func (m SearchModel) Update(msg tea.Msg) (SearchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case searchResultsMsg:
		if strings.TrimSpace(msg.query) != strings.TrimSpace(m.query) {
			return m, nil
		}
		m.loading = false
		m.items = msg.reports
		labels := make([]string, len(m.items))
		for i, r := range m.items {
			labels[i] = m.renderEntry(r)
		}
		m.list.SetItems(labels)
		return m, nil
	case tea.KeyMsg:
		switch {
		case isBack(msg):
			if m.query != "" {
				m.Reset()
				return m, nil
			}
			return m, func() tea.Msg { return searchClosedMsg{} }
		case isKey(msg, "ctrl+u"):
			if m.query != "" {
				m.Reset()
				return m, nil
			}
		case isKey(msg, "backspace", "delete"):
			if len(m.query) > 0 {
				r := []rune(m.query)
				m.query = string(r[:len(r)-1])
				cmd := m.search(m.query)
				return m, cmd
			}
		case isDown(msg):
			m.list.Down()
		case isUp(msg):
			m.list.Up()
		case isEnter(msg):
			if idx := m.list.Selected(); idx < len(m.items) {
				report := m.items[idx]
				return m, func() tea.Msg { return reportOpenedMsg{report: report} }
			}
		default:
			if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
				ch := string(msg.Runes)
				if msg.Type == tea.KeySpace {
					ch = " "
				}
				if ch == " " && m.query == "" {
					return m, nil
				}
				m.query += ch
				cmd := m.search(m.query)
				return m, cmd
			}
		}
	}
	return m, nil
}

func (m SearchModel) View() string {
	var b strings.Builder
	b.WriteString("  > " + components.SanitizeOneLine(m.query))
	b.WriteString(AccentStyle.Render("█"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(MutedStyle.Render(m.tr.T("common.loading")))
	} else if strings.TrimSpace(m.query) == "" {
		b.WriteString(MutedStyle.Render(m.tr.T("search.placeholder")))
	} else if len(m.items) == 0 {
		b.WriteString(MutedStyle.Render(m.tr.T("search.noResults")))
	} else {
		visible := m.list.Visible()
		for i, label := range visible {
			absIdx := m.list.RelToAbs(i)
			if m.list.IsSelected(absIdx) {
				b.WriteString(SelectedStyle.Render("  > ") + label)
			} else {
				b.WriteString("    " + label)
			}
			if i < len(visible)-1 {
				b.WriteString("\n")
			}
		}
	}

	return components.Indent(components.TitledBox(m.tr.T("search.title"), b.String(), m.width), 1)
}

func (m SearchModel) renderEntry(r api.Report) string {
	name := components.SanitizeOneLine(r.Name)
	if name == "" {
		name = r.ID
	}
	names := make([]string, 0, len(r.Participants))
	for _, login := range r.Participants {
		names = append(names, sidebar.DisplayName(login, m.details))
	}
	if len(names) == 0 {
		return name
	}
	return name + "  " + MutedStyle.Render(components.SanitizeOneLine(strings.Join(names, ", ")))
}

func (m *SearchModel) search(query string) tea.Cmd {
	q := strings.TrimSpace(query)
	if q == "" {
		m.Reset()
		return nil
	}
	m.loading = true
	local := m.reports
	details := m.details
	client := m.client
	return func() tea.Msg {
		if client == nil {
			return searchResultsMsg{query: q, reports: filterReportsByQuery(local, details, q)}
		}
		results, err := client.SearchReports(q, searchLimit)
		if err != nil {
			return errMsg{err}
		}
		return searchResultsMsg{query: q, reports: filterReportsByQuery(results, details, q)}
	}
}

// filterReportsByQuery keeps reports whose name, ID or participant matches q.
func filterReportsByQuery(items []api.Report, details map[string]api.PersonalDetails, query string) []api.Report {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	out := make([]api.Report, 0, len(items))
	for _, r := range items {
		if strings.Contains(strings.ToLower(r.Name), q) || strings.Contains(strings.ToLower(r.ID), q) {
			out = append(out, r)
			continue
		}
		for _, login := range r.Participants {
			if strings.Contains(strings.ToLower(login), q) ||
				strings.Contains(strings.ToLower(sidebar.DisplayName(login, details)), q) {
				out = append(out, r)
				break
			}
		}
	}
	if len(out) > searchLimit {
		out = out[:searchLimit]
	}
	return out
}
