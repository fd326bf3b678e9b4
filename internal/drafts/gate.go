package drafts

// Snapshot captures the inputs of a sidebar reorder decision at one point in time.
type Snapshot struct {
	Drafts         Drafts
	ActiveReportID string
	ListHidden     bool
}

// Changes classifies draft keys that differ between two snapshots. A key appears in
// at most one of the three sets.
type Changes struct {
	Added   []DraftKey
	Removed []DraftKey
	Edited  []DraftKey
}

// Len returns the number of changed keys.
func (c Changes) Len() int {
	return len(c.Added) + len(c.Removed) + len(c.Edited)
}

// Keys returns all changed keys in sorted order.
func (c Changes) Keys() []DraftKey {
	keys := make([]DraftKey, 0, c.Len())
	keys = append(keys, c.Added...)
	keys = append(keys, c.Removed...)
	keys = append(keys, c.Edited...)
	sortKeys(keys)
	return keys
}

// Diff compares two draft maps. Classification order is Added, then Removed, then
// Edited. A key appearing is Added and so is Cleared -> Draft. A key disappearing is
// Removed and so is Draft -> Cleared. Any other change of text is Edited.
func Diff(prev, next Drafts) Changes {
	var c Changes
	seen := make(map[DraftKey]struct{}, len(prev)+len(next))
	visit := func(key DraftKey) {
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}

		before, after := prev.State(key), next.State(key)
		switch {
		case before == after:
		case !before.Stored() || (!before.Present() && after.Present()):
			c.Added = append(c.Added, key)
		case !after.Stored() || (before.Present() && !after.Present()):
			c.Removed = append(c.Removed, key)
		default:
			c.Edited = append(c.Edited, key)
		}
	}
	for key := range prev {
		visit(key)
	}
	for key := range next {
		visit(key)
	}
	sortKeys(c.Added)
	sortKeys(c.Removed)
	sortKeys(c.Edited)
	return c
}

// ShouldUpdate decides whether the sidebar must recompute its ordering when moving
// from prev to next. Typing into the open report's own draft is suppressed so the
// list does not jump around while the user composes.
func ShouldUpdate(prev, next Snapshot) bool {
	if next.ListHidden {
		return true
	}
	if next.ActiveReportID != prev.ActiveReportID {
		return true
	}

	changed := Diff(prev.Drafts, next.Drafts)
	switch changed.Len() {
	case 0:
		return false
	case 1:
		active := KeyFor(next.ActiveReportID)
		return active == "" || changed.Keys()[0] != active
	default:
		return true
	}
}

// Gate feeds successive snapshots through ShouldUpdate, always comparing against the
// last snapshot it evaluated. It is not safe for concurrent use; callers drive it from
// a single update loop.
type Gate struct {
	last   Snapshot
	primed bool
}

// Observe evaluates next against the previously observed snapshot and records it.
// The first call always allows an update.
func (g *Gate) Observe(next Snapshot) bool {
	next.Drafts = next.Drafts.Clone()
	if !g.primed {
		g.primed = true
		g.last = next
		return true
	}
	ok := ShouldUpdate(g.last, next)
	g.last = next
	return ok
}

// Last returns the most recently observed snapshot.
func (g *Gate) Last() (Snapshot, bool) {
	return g.last, g.primed
}

// Reset forgets the observed history.
func (g *Gate) Reset() {
	g.last = Snapshot{}
	g.primed = false
}
