package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/sidechat/cli/internal/api"
	"github.com/gravitrone/sidechat/cli/internal/drafts"
	"github.com/gravitrone/sidechat/cli/internal/i18n"
)

func uiTestClient(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *api.Client) {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, api.NewClient(srv.URL, "test-key")
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func testTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.New("en")
	require.NoError(t, err)
	return tr
}

// drainMsgs runs cmd and flattens batches. Only use it with commands that finish
// immediately.
func drainMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drainMsgs(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var testBase = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testReports() []api.Report {
	return []api.Report{
		{ID: "r1", Name: "Alpha", Participants: []string{"ana"}, LastMessageTimestamp: testBase.Add(3 * time.Hour)},
		{ID: "r2", Name: "Beta", Participants: []string{"ben"}, LastMessageTimestamp: testBase.Add(2 * time.Hour), UnreadActionCount: 1},
		{ID: "r3", Name: "Gamma", Participants: []string{"gus"}, LastMessageTimestamp: testBase.Add(1 * time.Hour)},
	}
}

type fakeDraftStore struct {
	saved   map[drafts.DraftKey]string
	cleared []drafts.DraftKey
	loaded  drafts.Drafts
	err     error
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{saved: map[drafts.DraftKey]string{}}
}

func (f *fakeDraftStore) Save(key drafts.DraftKey, text string) error {
	if f.err != nil {
		return f.err
	}
	f.saved[key] = text
	return nil
}

func (f *fakeDraftStore) Clear(key drafts.DraftKey) error {
	if f.err != nil {
		return f.err
	}
	f.cleared = append(f.cleared, key)
	f.saved[key] = ""
	return nil
}

func (f *fakeDraftStore) Load(ctx context.Context) (drafts.Drafts, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.loaded.Clone(), nil
}
