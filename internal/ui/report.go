package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/sidechat/cli/internal/api"
	"github.com/gravitrone/sidechat/cli/internal/drafts"
	"github.com/gravitrone/sidechat/cli/internal/i18n"
	"github.com/gravitrone/sidechat/cli/internal/ui/components"
)

// DraftWriter persists composer text per report.
type DraftWriter interface {
	Save(key drafts.DraftKey, text string) error
	Clear(key drafts.DraftKey) error
}

// draftChangedMsg carries a composer edit to the app. seq orders edits so a late
// message never overwrites a newer draft.
type draftChangedMsg struct {
	seq  int
	key  drafts.DraftKey
	text string
}

type messageSentMsg struct {
	report api.Report
}

// ReportModel is the conversation pane with its composer.
type ReportModel struct {
	client   *api.Client
	store    DraftWriter
	tr       *i18n.Translator
	report   *api.Report
	composer textinput.Model
	seq      int
	sending  bool
	sent     []string
	width    int
	height   int
}

// NewReportModel builds the report pane.
func NewReportModel(client *api.Client, store DraftWriter, tr *i18n.Translator) ReportModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 4000
	ti.Placeholder = tr.T("reportScreen.composerPlaceholder")
	return ReportModel{
		client:   client,
		store:    store,
		tr:       tr,
		composer: ti,
	}
}

// Open shows report and restores its draft into the composer.
func (m *ReportModel) Open(report api.Report, draft string) tea.Cmd {
	m.report = &report
	m.sent = nil
	m.sending = false
	m.composer.SetValue(draft)
	m.composer.CursorEnd()
	return m.composer.Focus()
}

// Close empties the pane.
func (m *ReportModel) Close() {
	m.report = nil
	m.sent = nil
	m.composer.Blur()
	m.composer.SetValue("")
}

// ReportID returns the open report's ID, or "".
func (m ReportModel) ReportID() string {
	if m.report == nil {
		return ""
	}
	return m.report.ID
}

// Draft returns the composer text.
func (m ReportModel) Draft() string {
	return m.composer.Value()
}

func (m ReportModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ReportModel) Update(msg tea.Msg) (ReportModel, tea.Cmd) {
	switch msg := msg.(type) {
	case messageSentMsg:
		if m.report != nil && msg.report.ID == m.report.ID {
			report := msg.report
			m.report = &report
			m.sending = false
		}
		return m, nil
	case tea.KeyMsg:
		if m.report == nil {
			return m, nil
		}
		if isEnter(msg) {
			return m.send()
		}
		before := m.composer.Value()
		var cmd tea.Cmd
		m.composer, cmd = m.composer.Update(msg)
		if after := m.composer.Value(); after != before {
			draftCmd := m.writeDraft(after)
			return m, tea.Batch(cmd, draftCmd)
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

// writeDraft saves text synchronously, then reports the change.
func (m *ReportModel) writeDraft(text string) tea.Cmd {
	key := drafts.KeyFor(m.report.ID)
	if m.store != nil {
		if err := m.store.Save(key, text); err != nil {
			return func() tea.Msg { return errMsg{err} }
		}
	}
	m.seq++
	seq := m.seq
	return func() tea.Msg {
		return draftChangedMsg{seq: seq, key: key, text: text}
	}
}

func (m ReportModel) send() (ReportModel, tea.Cmd) {
	text := strings.TrimSpace(m.composer.Value())
	if text == "" || m.sending {
		return m, nil
	}

	key := drafts.KeyFor(m.report.ID)
	if m.store != nil {
		if err := m.store.Clear(key); err != nil {
			return m, func() tea.Msg { return errMsg{err} }
		}
	}
	m.composer.SetValue("")
	m.sent = append(m.sent, text)
	m.seq++
	seq := m.seq
	cmds := []tea.Cmd{func() tea.Msg {
		return draftChangedMsg{seq: seq, key: key, text: ""}
	}}

	if m.client != nil {
		m.sending = true
		client := m.client
		reportID := m.report.ID
		cmds = append(cmds, func() tea.Msg {
			report, err := client.AddComment(reportID, text)
			if err != nil {
				return errMsg{err}
			}
			return messageSentMsg{report: *report}
		})
	}
	return m, tea.Batch(cmds...)
}

func (m *ReportModel) setSize(width, height int) {
	m.width = width
	m.height = height
	if w := width - 8; w > 10 {
		m.composer.Width = w
	}
}

func (m ReportModel) title() string {
	if m.report == nil {
		return ""
	}
	name := components.SanitizeOneLine(m.report.Name)
	if name == "" {
		name = m.report.ID
	}
	return name
}

func (m ReportModel) View() string {
	if m.report == nil {
		return MutedStyle.Render(m.tr.T("reportScreen.selectReport"))
	}

	var b strings.Builder
	if len(m.report.Participants) > 0 {
		b.WriteString(MutedStyle.Render(components.SanitizeOneLine(strings.Join(m.report.Participants, ", "))))
		b.WriteString("\n\n")
	}

	lines := make([]string, 0, len(m.sent)+1)
	if last := components.SanitizeText(m.report.LastMessageText); last != "" {
		lines = append(lines, NormalStyle.Render(last))
	}
	for _, text := range m.sent {
		if text == m.report.LastMessageText {
			continue
		}
		lines = append(lines, AccentStyle.Render(components.SanitizeText(text)))
	}
	if len(lines) == 0 {
		b.WriteString(MutedStyle.Render(m.tr.T("reportScreen.noMessages")))
	} else {
		b.WriteString(strings.Join(lines, "\n"))
	}

	b.WriteString("\n\n")
	b.WriteString(m.composer.View())
	if m.sending {
		b.WriteString("\n" + MutedStyle.Render(m.tr.T("common.loading")))
	}
	return b.String()
}
