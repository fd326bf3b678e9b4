package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/sidechat/cli/internal/api"
	"github.com/gravitrone/sidechat/cli/internal/config"
	"github.com/gravitrone/sidechat/cli/internal/drafts"
)

func step(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	model, cmd := a.Update(msg)
	updated, ok := model.(App)
	require.True(t, ok)
	return updated, cmd
}

func loadedApp(t *testing.T, width int) (App, *fakeDraftStore) {
	t.Helper()
	store := newFakeDraftStore()
	app := NewApp(nil, &config.Config{}, Deps{Store: store, Translator: testTranslator(t)})
	app, _ = step(t, app, tea.WindowSizeMsg{Width: width, Height: 30})
	app, _ = step(t, app, reportsLoadedMsg{reports: testReports()})
	app, _ = step(t, app, personalDetailsLoadedMsg{details: testDetails()})
	require.True(t, app.initialReportDataLoaded())
	return app, store
}

func TestAppShowsLoadingUntilReportsAndDetails(t *testing.T) {
	app := NewApp(nil, &config.Config{}, Deps{Translator: testTranslator(t)})
	app, _ = step(t, app, tea.WindowSizeMsg{Width: 120, Height: 30})
	assert.Contains(t, app.View(), "Loading...")

	app, _ = step(t, app, reportsLoadedMsg{reports: testReports()})
	assert.False(t, app.initialReportDataLoaded())

	app, cmd := step(t, app, personalDetailsLoadedMsg{details: testDetails()})
	assert.True(t, app.initialReportDataLoaded())
	assert.Nil(t, cmd)
	assert.Equal(t, statusOnline, app.sidebar.status)
	assert.Contains(t, app.View(), "Gamma")
}

func TestAppTypingInActiveReportDoesNotReorder(t *testing.T) {
	app, _ := loadedApp(t, 120)
	app, _ = step(t, app, reportOpenedMsg{report: testReports()[2]})
	require.Equal(t, "r3", app.activeReportID)
	require.Equal(t, focusReport, app.focus)
	before := app.sidebar.Options()
	count := app.sidebar.recomputes

	app, _ = step(t, app, draftChangedMsg{seq: 1, key: drafts.KeyFor("r3"), text: "h"})
	app, _ = step(t, app, draftChangedMsg{seq: 2, key: drafts.KeyFor("r3"), text: "hi"})

	assert.Equal(t, "hi", app.drafts.For("r3").Text())
	assert.Equal(t, count, app.sidebar.recomputes)
	assert.Same(t, &before[0], &app.sidebar.Options()[0])
}

func TestAppDraftOnOtherReportReorders(t *testing.T) {
	app, _ := loadedApp(t, 120)
	app, _ = step(t, app, reportOpenedMsg{report: testReports()[0]})
	count := app.sidebar.recomputes

	app, _ = step(t, app, draftChangedMsg{seq: 1, key: drafts.KeyFor("r3"), text: "later"})

	assert.Equal(t, count+1, app.sidebar.recomputes)
	assert.Equal(t, "r3", app.sidebar.Options()[0].ReportID)
}

func TestAppIgnoresStaleDraftEvents(t *testing.T) {
	app, _ := loadedApp(t, 120)
	app, _ = step(t, app, reportOpenedMsg{report: testReports()[0]})

	app, _ = step(t, app, draftChangedMsg{seq: 2, key: drafts.KeyFor("r1"), text: "newer"})
	app, _ = step(t, app, draftChangedMsg{seq: 1, key: drafts.KeyFor("r1"), text: "older"})
	assert.Equal(t, "newer", app.drafts.For("r1").Text())

	app, _ = step(t, app, draftChangedMsg{seq: 3, key: drafts.KeyFor("r1"), text: ""})
	assert.False(t, app.drafts.For("r1").Present())
}

func TestAppClearedDraftKeepsKey(t *testing.T) {
	app, _ := loadedApp(t, 120)
	app, _ = step(t, app, reportOpenedMsg{report: testReports()[0]})
	app, _ = step(t, app, draftChangedMsg{seq: 1, key: drafts.KeyFor("r1"), text: "hi"})
	app, _ = step(t, app, draftChangedMsg{seq: 2, key: drafts.KeyFor("r1"), text: ""})

	text, ok := app.drafts[drafts.KeyFor("r1")]
	require.True(t, ok)
	assert.Equal(t, "", text)
	assert.True(t, app.drafts.For("r1").Stored())

	// in-memory state matches what a restart would load
	store, err := drafts.OpenStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save(drafts.KeyFor("r1"), "hi"))
	require.NoError(t, store.Clear(drafts.KeyFor("r1")))
	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, loaded[drafts.KeyFor("r1")], app.drafts[drafts.KeyFor("r1")])
	assert.False(t, app.sidebar.Options()[0].HasDraft)
}

func TestAppNarrowTerminalHidesListWhileReportOpen(t *testing.T) {
	app, _ := loadedApp(t, 60)
	assert.False(t, app.listHidden())

	app, _ = step(t, app, reportOpenedMsg{report: testReports()[1]})
	assert.True(t, app.listHidden())
	count := app.sidebar.recomputes

	// with the list hidden every change rebuilds, even the active draft
	app, _ = step(t, app, draftChangedMsg{seq: 1, key: drafts.KeyFor("r2"), text: "x"})
	assert.Equal(t, count+1, app.sidebar.recomputes)
	assert.Contains(t, app.View(), "Beta")

	app, _ = step(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "", app.activeReportID)
	assert.False(t, app.listHidden())
	assert.Contains(t, app.View(), "Chats")
}

func TestAppWideEscMovesFocusToSidebar(t *testing.T) {
	app, _ := loadedApp(t, 120)
	app, _ = step(t, app, reportOpenedMsg{report: testReports()[1]})

	app, _ = step(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, focusSidebar, app.focus)
	assert.Equal(t, "r2", app.activeReportID)

	app, _ = step(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "", app.activeReportID)
}

func TestAppOpenReportRestoresStoredDraft(t *testing.T) {
	app, _ := loadedApp(t, 120)
	app, _ = step(t, app, draftsLoadedMsg{drafts: drafts.Drafts{drafts.KeyFor("r2"): "saved text"}})

	app, _ = step(t, app, reportOpenedMsg{report: testReports()[1]})
	assert.Equal(t, "saved text", app.report.Draft())
}

func TestAppMessageSentReplacesReport(t *testing.T) {
	app, _ := loadedApp(t, 120)
	count := app.sidebar.recomputes
	updated := testReports()[2]
	updated.LastMessageTimestamp = testBase.Add(10 * time.Hour)
	updated.LastMessageText = "fresh"

	app, _ = step(t, app, messageSentMsg{report: updated})

	assert.Equal(t, count+1, app.sidebar.recomputes)
	assert.Equal(t, "r3", app.sidebar.Options()[0].ReportID)
	assert.Equal(t, "fresh", app.sidebar.Options()[0].Alternate)
	assert.Len(t, app.reports, 3)
}

func TestAppSearchOverlay(t *testing.T) {
	app, _ := loadedApp(t, 120)
	app, _ = step(t, app, runes("/"))
	require.True(t, app.searchOpen)
	assert.Contains(t, app.View(), "Search by name or participant")

	app, _ = step(t, app, searchClosedMsg{})
	assert.False(t, app.searchOpen)

	app, _ = step(t, app, tea.KeyMsg{Type: tea.KeyCtrlK})
	assert.True(t, app.searchOpen)
	app, _ = step(t, app, reportOpenedMsg{report: testReports()[0]})
	assert.False(t, app.searchOpen)
	assert.Equal(t, "r1", app.activeReportID)
}

func TestAppWorkspaceNeedsActivePolicy(t *testing.T) {
	app, _ := loadedApp(t, 120)
	app, cmd := step(t, app, runes("w"))
	assert.False(t, app.workspaceOpen)
	assert.NotNil(t, cmd)
	require.NotNil(t, app.toast)
	assert.Contains(t, app.toast.text, "No workspace")

	app, _ = step(t, app, myDetailsLoadedMsg{me: &api.MyPersonalDetails{Login: "ana", ActivePolicyID: "pol-1"}})
	app, _ = step(t, app, runes("w"))
	assert.True(t, app.workspaceOpen)
	assert.Equal(t, "pol-1", app.workspace.policyID)
}

func TestAppWorkspaceNotAllowedShowsNotice(t *testing.T) {
	app, _ := loadedApp(t, 120)
	app.workspaceOpen = true

	app, _ = step(t, app, workspaceClosedMsg{notAllowed: true})
	assert.False(t, app.workspaceOpen)
	assert.Contains(t, app.View(), "not available")

	app, _ = step(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "", app.notice)
}

func TestAppTogglePriorityMode(t *testing.T) {
	app, _ := loadedApp(t, 120)
	app, cmd := step(t, app, runes("m"))
	assert.Nil(t, cmd)
	assert.Equal(t, config.PriorityModeGSD, app.config.PriorityMode)
	require.Len(t, app.sidebar.Options(), 1)

	app, _ = step(t, app, runes("m"))
	assert.Equal(t, config.PriorityModeDefault, app.config.PriorityMode)
	assert.Len(t, app.sidebar.Options(), 3)
}

func TestAppLoadFailureGoesOffline(t *testing.T) {
	app, _ := loadedApp(t, 120)
	app, _ = step(t, app, loadFailedMsg{err: errors.New("connection refused")})

	assert.Equal(t, statusOffline, app.sidebar.status)
	assert.Contains(t, app.View(), "connection refused")

	app, _ = step(t, app, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "", app.err)
}

func TestAppHelpToggle(t *testing.T) {
	app, _ := loadedApp(t, 120)
	app, _ = step(t, app, runes("?"))
	assert.True(t, app.helpOpen)
	assert.Contains(t, app.View(), "Help")

	app, _ = step(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, app.helpOpen)
}

func TestAppQuit(t *testing.T) {
	app, _ := loadedApp(t, 120)
	_, cmd := step(t, app, runes("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)

	// q is text while composing; ctrl+c still quits
	app, _ = step(t, app, reportOpenedMsg{report: testReports()[0]})
	app, _ = step(t, app, runes("q"))
	assert.Equal(t, "q", app.report.Draft())
	_, cmd = step(t, app, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	_, ok = cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestAppDraftsLoadedPrimesSidebar(t *testing.T) {
	app, _ := loadedApp(t, 120)
	app, _ = step(t, app, draftsLoadedMsg{drafts: drafts.Drafts{drafts.KeyFor("r2"): "pending"}})

	opt := app.sidebar.Options()[0]
	assert.Equal(t, "r2", opt.ReportID)
	assert.True(t, opt.HasDraft)
}

func TestAppLoadDraftsFromStore(t *testing.T) {
	store := newFakeDraftStore()
	store.loaded = drafts.Drafts{drafts.KeyFor("r1"): "x"}
	app := NewApp(nil, &config.Config{}, Deps{Store: store, Translator: testTranslator(t)})

	msg, ok := app.loadDraftsCmd()().(draftsLoadedMsg)
	require.True(t, ok)
	assert.Equal(t, "x", msg.drafts.For("r1").Text())

	store.err = errors.New("boom")
	_, ok = app.loadDraftsCmd()().(errMsg)
	assert.True(t, ok)
}
