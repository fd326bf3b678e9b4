// Package sidebar builds the ordered list of recent reports shown in the left-hand
// navigation.
package sidebar

import (
	"sort"
	"strings"

	"github.com/gravitrone/sidechat/cli/internal/api"
	"github.com/gravitrone/sidechat/cli/internal/config"
	"github.com/gravitrone/sidechat/cli/internal/drafts"
)

// Option is a single sidebar row.
type Option struct {
	ReportID     string
	Text         string
	Alternate    string
	Participants []string
	HasDraft     bool
	IsUnread     bool
	IsPinned     bool
	Report       api.Report
}

// Options orders reports for the sidebar.
//
// Default mode: pinned first, then reports with a draft, then everything else,
// newest message first within each group. GSD mode hides read reports that are
// neither pinned nor active and sorts the rest by name.
func Options(reports []api.Report, details map[string]api.PersonalDetails, d drafts.Drafts, activeReportID, mode string) []Option {
	gsd := config.NormalizePriorityMode(mode) == config.PriorityModeGSD

	out := make([]Option, 0, len(reports))
	for _, r := range reports {
		opt := newOption(r, details, d)
		if gsd && !opt.IsUnread && !opt.IsPinned && r.ID != activeReportID {
			continue
		}
		out = append(out, opt)
	}

	if gsd {
		sort.SliceStable(out, func(i, j int) bool {
			a, b := strings.ToLower(out[i].Text), strings.ToLower(out[j].Text)
			if a != b {
				return a < b
			}
			return out[i].ReportID < out[j].ReportID
		})
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		gi, gj := group(out[i]), group(out[j])
		if gi != gj {
			return gi < gj
		}
		ti, tj := out[i].Report.LastMessageTimestamp, out[j].Report.LastMessageTimestamp
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].ReportID < out[j].ReportID
	})
	return out
}

// FocusedIndex returns the position of the active report, or -1.
func FocusedIndex(options []Option, activeReportID string) int {
	if activeReportID == "" {
		return -1
	}
	for i, opt := range options {
		if opt.ReportID == activeReportID {
			return i
		}
	}
	return -1
}

func group(opt Option) int {
	switch {
	case opt.IsPinned:
		return 0
	case opt.HasDraft:
		return 1
	default:
		return 2
	}
}

func newOption(r api.Report, details map[string]api.PersonalDetails, d drafts.Drafts) Option {
	names := make([]string, 0, len(r.Participants))
	for _, login := range r.Participants {
		names = append(names, DisplayName(login, details))
	}
	text := strings.TrimSpace(r.Name)
	if text == "" {
		text = strings.Join(names, ", ")
	}
	if text == "" {
		text = r.ID
	}
	alternate := strings.TrimSpace(r.LastMessageText)
	if alternate == "" && len(names) > 0 && text != strings.Join(names, ", ") {
		alternate = strings.Join(names, ", ")
	}
	return Option{
		ReportID:     r.ID,
		Text:         text,
		Alternate:    alternate,
		Participants: names,
		HasDraft:     d.For(r.ID).Present(),
		IsUnread:     r.UnreadActionCount > 0,
		IsPinned:     r.IsPinned,
		Report:       r,
	}
}

// DisplayName resolves a login through personal details, falling back to the login.
func DisplayName(login string, details map[string]api.PersonalDetails) string {
	if pd, ok := details[login]; ok && strings.TrimSpace(pd.DisplayName) != "" {
		return strings.TrimSpace(pd.DisplayName)
	}
	return login
}
