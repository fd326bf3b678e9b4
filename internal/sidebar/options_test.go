package sidebar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/sidechat/cli/internal/api"
	"github.com/gravitrone/sidechat/cli/internal/drafts"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func report(id, name string, ageMinutes int) api.Report {
	return api.Report{ID: id, Name: name, LastMessageTimestamp: base.Add(-time.Duration(ageMinutes) * time.Minute)}
}

func ids(options []Option) []string {
	out := make([]string, len(options))
	for i, o := range options {
		out[i] = o.ReportID
	}
	return out
}

func TestOptionsDefaultModeOrdering(t *testing.T) {
	pinned := report("1", "Pinned", 100)
	pinned.IsPinned = true
	reports := []api.Report{
		report("2", "Old", 50),
		report("3", "New", 1),
		report("4", "Drafted", 90),
		pinned,
	}
	d := drafts.Drafts{drafts.KeyFor("4"): "wip", drafts.KeyFor("3"): ""}

	got := Options(reports, nil, d, "", "default")
	assert.Equal(t, []string{"1", "4", "3", "2"}, ids(got))
	assert.True(t, got[1].HasDraft)
	assert.False(t, got[2].HasDraft, "cleared drafts do not count")
}

func TestOptionsTiesBreakByID(t *testing.T) {
	reports := []api.Report{report("b", "B", 5), report("a", "A", 5)}
	got := Options(reports, nil, nil, "", "default")
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestOptionsGSDModeHidesReadReports(t *testing.T) {
	unread := report("1", "zeta", 10)
	unread.UnreadActionCount = 3
	pinned := report("2", "Beta", 10)
	pinned.IsPinned = true
	reports := []api.Report{
		unread,
		pinned,
		report("3", "alpha", 1),
		report("4", "Active", 100),
	}

	got := Options(reports, nil, nil, "4", "gsd")
	assert.Equal(t, []string{"4", "2", "1"}, ids(got))
	assert.True(t, got[2].IsUnread)
}

func TestOptionsUnknownModeFallsBackToDefault(t *testing.T) {
	reports := []api.Report{report("1", "A", 10), report("2", "B", 1)}
	got := Options(reports, nil, nil, "", "whatever")
	assert.Equal(t, []string{"2", "1"}, ids(got))
}

func TestOptionsResolveParticipantNames(t *testing.T) {
	r := report("1", "", 1)
	r.Participants = []string{"a@x.io", "b@x.io"}
	details := map[string]api.PersonalDetails{
		"a@x.io": {Login: "a@x.io", DisplayName: "Ada"},
	}

	got := Options([]api.Report{r}, details, nil, "", "default")
	require.Len(t, got, 1)
	assert.Equal(t, "Ada, b@x.io", got[0].Text)
	assert.Equal(t, []string{"Ada", "b@x.io"}, got[0].Participants)
	assert.Empty(t, got[0].Alternate)
}

func TestOptionsAlternateText(t *testing.T) {
	withMsg := report("1", "General", 1)
	withMsg.LastMessageText = "see you"
	named := report("2", "Team", 1)
	named.Participants = []string{"a@x.io"}

	got := Options([]api.Report{withMsg, named}, nil, nil, "", "default")
	byID := map[string]Option{}
	for _, o := range got {
		byID[o.ReportID] = o
	}
	assert.Equal(t, "see you", byID["1"].Alternate)
	assert.Equal(t, "a@x.io", byID["2"].Alternate)
}

func TestOptionsFallsBackToID(t *testing.T) {
	got := Options([]api.Report{report("99", " ", 1)}, nil, nil, "", "default")
	require.Len(t, got, 1)
	assert.Equal(t, "99", got[0].Text)
}

func TestFocusedIndex(t *testing.T) {
	options := []Option{{ReportID: "1"}, {ReportID: "2"}}
	assert.Equal(t, 1, FocusedIndex(options, "2"))
	assert.Equal(t, -1, FocusedIndex(options, "3"))
	assert.Equal(t, -1, FocusedIndex(options, ""))
}
