package drafts

import "sort"

// DraftState is one of three variants: NoDraft (the key was never stored), Cleared
// (the key is stored with empty text) or Draft(text).
type DraftState struct {
	text   string
	stored bool
}

// NoDraft is the absent state.
func NoDraft() DraftState {
	return DraftState{}
}

// Cleared is a stored key whose text was emptied.
func Cleared() DraftState {
	return DraftState{stored: true}
}

// Draft wraps text as a draft state. Empty text is Cleared.
func Draft(text string) DraftState {
	return DraftState{text: text, stored: true}
}

// Present reports whether the state holds draft text.
func (s DraftState) Present() bool {
	return s.text != ""
}

// Stored reports whether the key exists at all, cleared or not.
func (s DraftState) Stored() bool {
	return s.stored
}

// Text returns the draft text, or "" for NoDraft and Cleared.
func (s DraftState) Text() string {
	return s.text
}

// Drafts maps draft keys to their stored text.
type Drafts map[DraftKey]string

// State returns the draft state stored under key.
func (d Drafts) State(key DraftKey) DraftState {
	text, ok := d[key]
	if !ok {
		return NoDraft()
	}
	return Draft(text)
}

// For returns the draft state for a report.
func (d Drafts) For(reportID string) DraftState {
	return d.State(KeyFor(reportID))
}

// Clone returns an independent copy. Snapshots hold clones so later edits to the
// live map never leak into a captured snapshot.
func (d Drafts) Clone() Drafts {
	out := make(Drafts, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Keys returns every stored key in sorted order.
func (d Drafts) Keys() []DraftKey {
	keys := make([]DraftKey, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

func sortKeys(keys []DraftKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
}
