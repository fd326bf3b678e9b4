package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/sidechat/cli/internal/api"
	"github.com/gravitrone/sidechat/cli/internal/config"
	"github.com/gravitrone/sidechat/cli/internal/drafts"
	"github.com/gravitrone/sidechat/cli/internal/i18n"
	"github.com/gravitrone/sidechat/cli/internal/logging"
	"github.com/gravitrone/sidechat/cli/internal/ui/components"
)

// Terminals narrower than this show one pane at a time.
const narrowBreakpoint = 80

const sidebarPaneWidth = 38

type focusArea int

const (
	focusSidebar focusArea = iota
	focusReport
)

// --- Messages ---

type errMsg struct{ err error }
type clearToastMsg struct{}

type reportsLoadedMsg struct {
	reports []api.Report
}

type personalDetailsLoadedMsg struct {
	details map[string]api.PersonalDetails
}

type myDetailsLoadedMsg struct {
	me *api.MyPersonalDetails
}

type draftsLoadedMsg struct {
	drafts drafts.Drafts
}

// loadFailedMsg marks the connection offline in addition to showing the error.
type loadFailedMsg struct {
	err error
}

type appToast struct {
	level string
	text  string
}

// DraftStore loads and persists drafts.
type DraftStore interface {
	DraftWriter
	Load(ctx context.Context) (drafts.Drafts, error)
}

// Deps are the collaborators the App needs besides the API client and config.
type Deps struct {
	Store      DraftStore
	Logger     *logging.Logger
	Translator *i18n.Translator
}

// --- App Model ---

// App is the root TUI model: sidebar and report panes plus search and workspace
// overlays.
type App struct {
	client *api.Client
	config *config.Config
	store  DraftStore
	log    *logging.Logger
	tr     *i18n.Translator

	width  int
	height int
	focus  focusArea

	reports       []api.Report
	details       map[string]api.PersonalDetails
	me            *api.MyPersonalDetails
	reportsLoaded bool
	detailsLoaded bool

	drafts         drafts.Drafts
	draftSeq       int
	activeReportID string

	sidebar   SidebarModel
	report    ReportModel
	search    SearchModel
	workspace WorkspaceModel

	searchOpen    bool
	workspaceOpen bool
	helpOpen      bool
	notice        string

	err   string
	toast *appToast
}

// NewApp creates the root application model.
func NewApp(client *api.Client, cfg *config.Config, deps Deps) App {
	if cfg == nil {
		cfg = &config.Config{}
	}
	tr := deps.Translator
	if tr == nil {
		tr = i18n.MustNew(cfg.Locale)
	}
	log := deps.Logger
	if log == nil {
		log = logging.Nop()
	}
	var writer DraftWriter
	if deps.Store != nil {
		writer = deps.Store
	}
	return App{
		client:    client,
		config:    cfg,
		store:     deps.Store,
		log:       log,
		tr:        tr,
		drafts:    drafts.Drafts{},
		sidebar:   NewSidebarModel(tr, log, cfg.PriorityMode),
		report:    NewReportModel(client, writer, tr),
		search:    NewSearchModel(client, tr),
		workspace: NewWorkspaceModel(client, tr, log),
	}
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.sidebar.Init(), a.loadDraftsCmd()}
	if a.client != nil {
		cmds = append(cmds, a.loadReportsCmd(), a.loadPersonalDetailsCmd(), a.loadMeCmd())
	}
	return tea.Batch(cmds...)
}

// initialReportDataLoaded is true once both reports and personal details arrived.
func (a App) initialReportDataLoaded() bool {
	return a.reportsLoaded && a.detailsLoaded
}

func (a App) narrow() bool {
	return a.width > 0 && a.width < narrowBreakpoint
}

// listHidden is true when a narrow terminal shows the report instead of the list.
func (a App) listHidden() bool {
	return a.narrow() && a.activeReportID != ""
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		a.syncSidebar()
		return a, nil

	case errMsg:
		a.err = msg.err.Error()
		a.log.Error(msg.err, "ui error")
		return a, nil
	case loadFailedMsg:
		a.err = msg.err.Error()
		a.log.Error(msg.err, "initial load failed")
		cmd := a.sidebar.SetStatus(statusOffline)
		return a, cmd
	case clearToastMsg:
		a.toast = nil
		return a, nil

	case reportsLoadedMsg:
		a.reports = msg.reports
		a.reportsLoaded = true
		a.sidebar.SetReports(a.reports, nil)
		a.search.SetCorpus(a.reports, a.details)
		cmd := a.markOnlineIfLoaded()
		return a, cmd
	case personalDetailsLoadedMsg:
		a.details = msg.details
		a.detailsLoaded = true
		a.sidebar.SetDetails(a.details)
		a.search.SetCorpus(a.reports, a.details)
		cmd := a.markOnlineIfLoaded()
		return a, cmd
	case myDetailsLoadedMsg:
		a.me = msg.me
		a.sidebar.SetMe(msg.me)
		return a, nil
	case draftsLoadedMsg:
		a.drafts = msg.drafts
		if a.report.ReportID() != "" && a.report.Draft() == "" {
			a.report.composer.SetValue(a.drafts.For(a.activeReportID).Text())
		}
		a.syncSidebar()
		return a, nil

	case draftChangedMsg:
		if msg.seq <= a.draftSeq {
			return a, nil
		}
		a.draftSeq = msg.seq
		// empty text stays as a cleared key, the same way the store keeps it
		next := a.drafts.Clone()
		next[msg.key] = msg.text
		a.drafts = next
		a.syncSidebar()
		return a, nil

	case reportOpenedMsg:
		a.searchOpen = false
		cmd := a.openReport(msg.report)
		return a, cmd

	case messageSentMsg:
		a.replaceReport(msg.report)
		var cmd tea.Cmd
		a.report, cmd = a.report.Update(msg)
		return a, cmd

	case searchResultsMsg:
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		return a, cmd
	case searchClosedMsg:
		a.searchOpen = false
		return a, nil

	case workspaceLoadedMsg, avatarUpdatedMsg:
		var cmd tea.Cmd
		a.workspace, cmd = a.workspace.Update(msg)
		return a, cmd
	case workspaceSavedMsg:
		var cmd tea.Cmd
		a.workspace, cmd = a.workspace.Update(msg)
		if msg.err == nil {
			toast := a.setToast("success", a.tr.T("workspaceSettings.saved"))
			return a, tea.Batch(cmd, toast)
		}
		return a, cmd
	case workspaceClosedMsg:
		a.workspaceOpen = false
		if msg.notAllowed {
			a.notice = a.tr.T("workspaceSettings.notAllowed")
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.sidebar, cmd = a.sidebar.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if isQuit(msg) {
			return a, tea.Quit
		}
		if a.notice != "" {
			if isBack(msg) || isEnter(msg) {
				a.notice = ""
			}
			return a, nil
		}
		if a.helpOpen {
			if isBack(msg) || isKey(msg, "?") {
				a.helpOpen = false
			}
			return a, nil
		}
		if a.err != "" {
			a.err = ""
		}
		if a.workspaceOpen {
			var cmd tea.Cmd
			a.workspace, cmd = a.workspace.Update(msg)
			return a, cmd
		}
		if a.searchOpen {
			var cmd tea.Cmd
			a.search, cmd = a.search.Update(msg)
			return a, cmd
		}
		if isSearch(msg) {
			cmd := a.openSearch()
			return a, cmd
		}
		if a.focus == focusReport && a.activeReportID != "" {
			return a.handleReportKeys(msg)
		}
		return a.handleSidebarKeys(msg)
	}

	var cmd tea.Cmd
	a.report, cmd = a.report.Update(msg)
	return a, cmd
}

func (a App) handleReportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isBack(msg):
		if a.narrow() {
			a.closeReport()
		} else {
			a.focus = focusSidebar
			a.report.composer.Blur()
		}
		a.syncSidebar()
		return a, nil
	case isKey(msg, "shift+tab"):
		if !a.narrow() {
			a.focus = focusSidebar
			a.report.composer.Blur()
		}
		return a, nil
	}
	var cmd tea.Cmd
	a.report, cmd = a.report.Update(msg)
	return a, cmd
}

func (a App) handleSidebarKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isKey(msg, "q"):
		return a, tea.Quit
	case isKey(msg, "?"):
		a.helpOpen = true
		return a, nil
	case isKey(msg, "/"):
		cmd := a.openSearch()
		return a, cmd
	case isKey(msg, "w"):
		cmd := a.openWorkspace()
		return a, cmd
	case isKey(msg, "m"):
		cmd := a.togglePriorityMode()
		return a, cmd
	case isKey(msg, "r"):
		cmd := a.refresh()
		return a, cmd
	case isBack(msg):
		if a.activeReportID != "" {
			a.closeReport()
			a.syncSidebar()
		}
		return a, nil
	case isKey(msg, "tab", "right"):
		if a.activeReportID != "" {
			a.focus = focusReport
			cmd := a.report.composer.Focus()
			return a, cmd
		}
		return a, nil
	}
	var cmd tea.Cmd
	a.sidebar, cmd = a.sidebar.Update(msg)
	return a, cmd
}

func (a *App) openReport(report api.Report) tea.Cmd {
	a.activeReportID = report.ID
	a.focus = focusReport
	cmd := a.report.Open(report, a.drafts.For(report.ID).Text())
	a.syncSidebar()
	return cmd
}

func (a *App) closeReport() {
	a.activeReportID = ""
	a.focus = focusSidebar
	a.report.Close()
}

// syncSidebar hands the current drafts and focus to the sidebar gate.
func (a *App) syncSidebar() {
	a.sidebar.ApplyDrafts(a.drafts, a.activeReportID, a.listHidden())
}

func (a *App) replaceReport(report api.Report) {
	next := make([]api.Report, 0, len(a.reports)+1)
	found := false
	for _, r := range a.reports {
		if r.ID == report.ID {
			next = append(next, report)
			found = true
			continue
		}
		next = append(next, r)
	}
	if !found {
		next = append(next, report)
	}
	a.reports = next
	a.sidebar.SetReports(a.reports, nil)
	a.search.SetCorpus(a.reports, a.details)
}

func (a *App) openSearch() tea.Cmd {
	a.searchOpen = true
	a.search.Reset()
	return nil
}

func (a *App) openWorkspace() tea.Cmd {
	if a.me == nil || strings.TrimSpace(a.me.ActivePolicyID) == "" {
		return a.setToast("warning", a.tr.T("workspaceSettings.noWorkspace"))
	}
	a.workspaceOpen = true
	return a.workspace.Open(a.me.ActivePolicyID)
}

func (a *App) togglePriorityMode() tea.Cmd {
	mode := config.PriorityModeGSD
	if config.NormalizePriorityMode(a.config.PriorityMode) == config.PriorityModeGSD {
		mode = config.PriorityModeDefault
	}
	a.config.PriorityMode = mode
	a.sidebar.SetMode(mode)
	a.log.With("mode", mode).Info("priority mode changed")
	if strings.TrimSpace(a.config.APIKey) == "" {
		return nil
	}
	if err := a.config.Save(); err != nil {
		return func() tea.Msg { return errMsg{fmt.Errorf("save config: %w", err)} }
	}
	return nil
}

func (a *App) refresh() tea.Cmd {
	if a.client == nil {
		return nil
	}
	return tea.Batch(a.sidebar.SetStatus(statusSyncing), a.loadReportsCmd(), a.loadPersonalDetailsCmd())
}

func (a *App) markOnlineIfLoaded() tea.Cmd {
	if !a.initialReportDataLoaded() {
		return nil
	}
	return a.sidebar.SetStatus(statusOnline)
}

func (a *App) resize() {
	h := a.height - 4
	switch {
	case a.narrow():
		a.sidebar.setSize(a.width, h)
		a.report.setSize(a.width, h)
	default:
		a.sidebar.setSize(sidebarPaneWidth, h)
		a.report.setSize(a.width-sidebarPaneWidth, h)
	}
	a.search.width = a.width
	a.search.height = a.height
	a.workspace.width = a.width
	a.workspace.height = a.height
}

// --- Loaders ---

func (a App) loadReportsCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		reports, err := client.ListReports()
		if err != nil {
			return loadFailedMsg{err}
		}
		return reportsLoadedMsg{reports: reports}
	}
}

func (a App) loadPersonalDetailsCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		details, err := client.ListPersonalDetails()
		if err != nil {
			return loadFailedMsg{err}
		}
		return personalDetailsLoadedMsg{details: details}
	}
}

func (a App) loadMeCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		me, err := client.GetMyPersonalDetails()
		if err != nil {
			return errMsg{err}
		}
		return myDetailsLoadedMsg{me: me}
	}
}

func (a App) loadDraftsCmd() tea.Cmd {
	store := a.store
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		d, err := store.Load(ctx)
		if err != nil {
			return errMsg{fmt.Errorf("load drafts: %w", err)}
		}
		return draftsLoadedMsg{drafts: d}
	}
}

// --- View ---

func (a App) View() string {
	var content string
	switch {
	case a.notice != "":
		content = centerBlockUniform(components.NoticeDialog(a.tr.T("workspaceSettings.title"), a.notice), a.width)
	case a.helpOpen:
		content = centerBlockUniform(a.renderHelp(), a.width)
	case a.workspaceOpen:
		content = centerBlockUniform(a.workspace.View(), a.width)
	case a.searchOpen:
		content = centerBlockUniform(a.search.View(), a.width)
	case !a.initialReportDataLoaded():
		content = centerBlockUniform(a.renderLoading(), a.width)
	default:
		content = a.renderPanes()
	}

	hints := a.statusHints()
	bar := components.StatusBar(hints, a.width)
	if a.narrow() {
		bar = components.CompactHints(hints, a.width)
	}

	feedback := ""
	if a.err != "" {
		feedback = "\n" + centerBlockUniform(components.ErrorBox("Error", components.SanitizeText(a.err), a.width), a.width)
	} else if a.toast != nil {
		feedback = "\n" + centerBlockUniform(a.renderToast(), a.width)
	}

	return fmt.Sprintf("%s\n%s%s", content, bar, feedback)
}

func (a App) renderLoading() string {
	body := a.sidebar.renderHeader() + "\n\n" + MutedStyle.Render(a.tr.T("common.loading"))
	return components.TitledBox(a.tr.T("sidebarScreen.headerChat"), body, a.width)
}

func (a App) renderPanes() string {
	h := a.height - 4
	if a.narrow() {
		if a.listHidden() {
			return components.Pane(a.report.title(), a.report.View(), a.width, h, true)
		}
		return components.Pane("", a.sidebar.View(), a.width, h, true)
	}
	left := components.Pane("", a.sidebar.View(), sidebarPaneWidth, h, a.focus == focusSidebar)
	right := components.Pane(a.report.title(), a.report.View(), a.width-sidebarPaneWidth, h, a.focus == focusReport)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (a App) statusHints() []string {
	if a.helpOpen || a.notice != "" {
		return []string{components.Hint("esc", a.tr.T("common.back"))}
	}
	if a.workspaceOpen {
		if a.workspace.confirmRemove {
			return []string{
				components.Hint("y", "Confirm"),
				components.Hint("n", a.tr.T("common.cancel")),
			}
		}
		return []string{
			components.Hint("tab", "Fields"),
			components.Hint("←/→", a.tr.T("workspaceSettings.currency")),
			components.Hint("enter", a.tr.T("workspaceSettings.uploadAvatar")),
			components.Hint("ctrl+d", a.tr.T("workspaceSettings.removeAvatar")),
			components.Hint("ctrl+s", a.tr.T("common.save")),
			components.Hint("esc", a.tr.T("common.back")),
		}
	}
	if a.searchOpen {
		return []string{
			components.Hint("↑/↓", "Scroll"),
			components.Hint("enter", a.tr.T("common.open")),
			components.Hint("esc", a.tr.T("common.back")),
		}
	}
	if a.focus == focusReport && a.activeReportID != "" {
		return []string{
			components.Hint("enter", a.tr.T("reportScreen.send")),
			components.Hint("esc", a.tr.T("common.back")),
			components.Hint("ctrl+k", a.tr.T("common.search")),
			components.Hint("ctrl+c", a.tr.T("common.quit")),
		}
	}
	return []string{
		components.Hint("↑/↓", "Scroll"),
		components.Hint("enter", a.tr.T("common.open")),
		components.Hint("/", a.tr.T("common.search")),
		components.Hint("w", a.tr.T("workspaceSettings.title")),
		components.Hint("m", "Mode"),
		components.Hint("r", "Refresh"),
		components.Hint("?", "Help"),
		components.Hint("q", a.tr.T("common.quit")),
	}
}

func (a App) renderHelp() string {
	hints := a.statusHintsFor(focusSidebar)
	hints = append(hints, a.statusHintsFor(focusReport)...)
	lines := make([]string, 0, len(hints)+2)
	lines = append(lines, MutedStyle.Render("esc to close"), "")
	for _, hint := range hints {
		lines = append(lines, "  "+hint)
	}
	return components.Indent(components.TitledBox("Help", strings.Join(lines, "\n"), a.width), 1)
}

func (a App) statusHintsFor(focus focusArea) []string {
	a.helpOpen = false
	a.searchOpen = false
	a.workspaceOpen = false
	a.focus = focus
	if focus == focusReport && a.activeReportID == "" {
		a.activeReportID = "-"
	}
	return a.statusHints()
}

func (a *App) setToast(level, text string) tea.Cmd {
	a.toast = &appToast{
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(2500*time.Millisecond, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	title := "Info"
	switch a.toast.level {
	case "success":
		title = "Success"
	case "warning":
		title = "Warning"
	case "error":
		return components.ErrorBox("Error", a.toast.text, a.width)
	}
	return components.TitledBox(title, a.toast.text, a.width)
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		w := lipgloss.Width(line)
		if w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	if pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
