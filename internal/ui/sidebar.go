package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/sidechat/cli/internal/api"
	"github.com/gravitrone/sidechat/cli/internal/drafts"
	"github.com/gravitrone/sidechat/cli/internal/i18n"
	"github.com/gravitrone/sidechat/cli/internal/logging"
	"github.com/gravitrone/sidechat/cli/internal/sidebar"
	"github.com/gravitrone/sidechat/cli/internal/ui/components"
)

type connectionStatus int

const (
	statusOffline connectionStatus = iota
	statusOnline
	statusSyncing
)

func (s connectionStatus) key() string {
	switch s {
	case statusOnline:
		return "sidebarScreen.online"
	case statusSyncing:
		return "sidebarScreen.syncing"
	default:
		return "sidebarScreen.offline"
	}
}

type reportOpenedMsg struct {
	report api.Report
}

// SidebarModel renders the ordered report list. Reorders triggered by draft or
// focus changes go through a drafts.Gate; report list changes always rebuild.
type SidebarModel struct {
	tr      *i18n.Translator
	log     *logging.Logger
	gate    drafts.Gate
	spinner spinner.Model
	list    *components.List

	reports        []api.Report
	details        map[string]api.PersonalDetails
	me             *api.MyPersonalDetails
	drafts         drafts.Drafts
	activeReportID string
	listHidden     bool
	mode           string

	options    []sidebar.Option
	recomputes int
	status     connectionStatus
	width      int
	height     int
}

// NewSidebarModel builds the sidebar in the given priority mode.
func NewSidebarModel(tr *i18n.Translator, log *logging.Logger, mode string) SidebarModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = WarningStyle
	return SidebarModel{
		tr:      tr,
		log:     log,
		spinner: s,
		list:    components.NewList(12),
		mode:    mode,
		status:  statusSyncing,
	}
}

func (m SidebarModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// SetReports replaces the report list and always rebuilds the options.
func (m *SidebarModel) SetReports(reports []api.Report, details map[string]api.PersonalDetails) {
	m.reports = reports
	if details != nil {
		m.details = details
	}
	m.recompute()
	m.gate.Observe(m.snapshot())
}

// SetDetails replaces personal details and rebuilds display names.
func (m *SidebarModel) SetDetails(details map[string]api.PersonalDetails) {
	m.details = details
	m.recompute()
}

// SetMe sets the signed-in user shown in the header badge.
func (m *SidebarModel) SetMe(me *api.MyPersonalDetails) {
	m.me = me
}

// SetMode switches the priority mode and rebuilds.
func (m *SidebarModel) SetMode(mode string) {
	m.mode = mode
	m.recompute()
}

// ApplyDrafts feeds a draft or focus change through the gate. It returns whether
// the options were rebuilt. When the gate declines, the previous options slice is
// kept as is.
func (m *SidebarModel) ApplyDrafts(d drafts.Drafts, activeReportID string, listHidden bool) bool {
	m.drafts = d
	m.activeReportID = activeReportID
	m.listHidden = listHidden

	next := m.snapshot()
	changed := 0
	if last, ok := m.gate.Last(); ok {
		changed = drafts.Diff(last.Drafts, next.Drafts).Len()
	}
	update := m.gate.Observe(next)
	m.log.GateDecision(activeReportID, changed, listHidden, update)
	if update {
		m.recompute()
	}
	return update
}

// SetStatus changes the connection badge. Entering the syncing state restarts the
// spinner.
func (m *SidebarModel) SetStatus(status connectionStatus) tea.Cmd {
	prev := m.status
	m.status = status
	if status == statusSyncing && prev != statusSyncing {
		return m.spinner.Tick
	}
	return nil
}

// Selected returns the option under the cursor.
func (m SidebarModel) Selected() (sidebar.Option, bool) {
	idx := m.list.Selected()
	if idx < 0 || idx >= len(m.options) {
		return sidebar.Option{}, false
	}
	return m.options[idx], true
}

// Options returns the current ordering.
func (m SidebarModel) Options() []sidebar.Option {
	return m.options
}

func (m SidebarModel) Update(msg tea.Msg) (SidebarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.status != statusSyncing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch {
		case isDown(msg):
			m.list.Down()
		case isUp(msg):
			m.list.Up()
		case isEnter(msg):
			if opt, ok := m.Selected(); ok {
				report := opt.Report
				return m, func() tea.Msg { return reportOpenedMsg{report: report} }
			}
		}
	}
	return m, nil
}

func (m *SidebarModel) snapshot() drafts.Snapshot {
	return drafts.Snapshot{
		Drafts:         m.drafts,
		ActiveReportID: m.activeReportID,
		ListHidden:     m.listHidden,
	}
}

func (m *SidebarModel) recompute() {
	cursorID := ""
	if opt, ok := m.Selected(); ok {
		cursorID = opt.ReportID
	}

	m.options = sidebar.Options(m.reports, m.details, m.drafts, m.activeReportID, m.mode)
	m.recomputes++

	labels := make([]string, len(m.options))
	for i, opt := range m.options {
		labels[i] = m.renderRow(opt)
	}

	cursor := sidebar.FocusedIndex(m.options, m.activeReportID)
	if cursor < 0 {
		cursor = sidebar.FocusedIndex(m.options, cursorID)
	}
	m.list.Replace(labels, cursor)
}

func (m SidebarModel) renderRow(opt sidebar.Option) string {
	var b strings.Builder
	switch {
	case opt.IsPinned:
		b.WriteString(AccentStyle.Render("◆ "))
	case opt.IsUnread:
		b.WriteString(SuccessStyle.Render("● "))
	default:
		b.WriteString("  ")
	}

	name := components.SanitizeOneLine(opt.Text)
	if opt.IsUnread {
		b.WriteString(UnreadStyle.Render(name))
	} else {
		b.WriteString(name)
	}
	if opt.HasDraft {
		b.WriteString(" " + WarningStyle.Render("✎ "+m.tr.T("sidebarScreen.draftBadge")))
	}
	if alt := components.SanitizeOneLine(opt.Alternate); alt != "" {
		b.WriteString("  " + MutedStyle.Render(alt))
	}
	return b.String()
}

func (m SidebarModel) renderHeader() string {
	title := TitleStyle.Render(m.tr.T("sidebarScreen.headerChat"))
	hint := MutedStyle.Render(m.tr.T("sidebarScreen.searchHint") + " ctrl+k")

	initials := "?"
	if m.me != nil {
		initials = initialsFor(m.me.DisplayName, m.me.Login)
	}
	state := m.tr.T(m.status.key())
	indicator := lipgloss.NewStyle().Foreground(statusColor(m.status)).Render("●")
	if m.status == statusSyncing {
		indicator = m.spinner.View()
	}
	badge := BadgeStyle.Render(initials) + " " + indicator + " " + MutedStyle.Render(state)

	return fmt.Sprintf("%s  %s\n%s", title, hint, badge)
}

func (m SidebarModel) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if len(m.options) == 0 {
		b.WriteString(MutedStyle.Render(m.tr.T("sidebarScreen.noReports")))
		return b.String()
	}

	clamp := lipgloss.NewStyle()
	if maxWidth := m.width - 6; maxWidth > 0 {
		clamp = clamp.MaxWidth(maxWidth)
	}
	visible := m.list.Visible()
	for i, label := range visible {
		label = clamp.Render(label)
		absIdx := m.list.RelToAbs(i)
		if m.list.IsSelected(absIdx) {
			b.WriteString(SelectedStyle.Render("> ") + label)
		} else {
			b.WriteString("  " + label)
		}
		if i < len(visible)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *SidebarModel) setSize(width, height int) {
	m.width = width
	m.height = height
	// header, spacer and pane borders
	if rows := height - 6; rows > 0 {
		m.list.SetPageSize(rows)
	}
}

func initialsFor(displayName, login string) string {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = strings.TrimSpace(login)
	}
	if name == "" {
		return "?"
	}
	parts := strings.Fields(name)
	out := ""
	for _, p := range parts {
		r := []rune(p)
		out += strings.ToUpper(string(r[0]))
		if len([]rune(out)) == 2 {
			break
		}
	}
	return out
}
