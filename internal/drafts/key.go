package drafts

import "strings"

// KeyPrefix namespaces draft entries in the local store.
const KeyPrefix = "draft_"

// DraftKey is the store key holding the draft for a single report.
type DraftKey string

// KeyFor builds the draft key for a report. An empty report ID yields an empty key,
// which never matches a stored draft.
func KeyFor(reportID string) DraftKey {
	if reportID == "" {
		return ""
	}
	return DraftKey(KeyPrefix + reportID)
}

// ReportID returns the report the key belongs to.
func (k DraftKey) ReportID() (string, bool) {
	id, ok := strings.CutPrefix(string(k), KeyPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

func (k DraftKey) String() string {
	return string(k)
}
