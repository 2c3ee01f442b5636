package frame

// FDEntry is one live redirection applied by the executor's redirection
// engine (spec.md §4.3 "Redirection engine": save/restore stack of fd
// state). SavedFd records the duplicate of the original descriptor made
// before redirecting, so it can be dup2'd back when the redirect's scope
// ends; SavedFd == -1 means the descriptor was previously closed.
type FDEntry struct {
	Fd       int
	SavedFd  int
	CloseOnRestore bool // true if SavedFd was opened solely to save state and must be closed after restore
}

// FDTable is the per-frame save/restore stack of redirected descriptors
// (spec.md §4.4 "fd_table"). Each PushScope call corresponds to one
// redirection scope (a simple command, or a compound command with its
// own redirect list); PopScope hands back the entries recorded since the
// matching PushScope, most recent first, and does not itself restore any
// descriptor.
type FDTable struct {
	marks   []int
	entries []FDEntry
}

// NewFDTable creates an empty table.
func NewFDTable() *FDTable {
	return &FDTable{}
}

// PushScope opens a new redirection scope.
func (t *FDTable) PushScope() {
	t.marks = append(t.marks, len(t.entries))
}

// Record adds an entry to the current scope. Callers append one Record
// per fd they redirect, after performing the actual dup2/open.
func (t *FDTable) Record(e FDEntry) {
	t.entries = append(t.entries, e)
}

// PopScope returns the entries recorded since the last PushScope, in
// reverse (most-recently-opened first) order for restoration, and
// removes them from the table.
func (t *FDTable) PopScope() []FDEntry {
	if len(t.marks) == 0 {
		return nil
	}
	mark := t.marks[len(t.marks)-1]
	t.marks = t.marks[:len(t.marks)-1]
	scope := t.entries[mark:]
	out := make([]FDEntry, len(scope))
	for i, e := range scope {
		out[len(scope)-1-i] = e
	}
	t.entries = t.entries[:mark]
	return out
}

// HighestLive returns the highest fd currently recorded as redirected
// across all open scopes, or -1 if none.
func (t *FDTable) HighestLive() int {
	highest := -1
	for _, e := range t.entries {
		if e.Fd > highest {
			highest = e.Fd
		}
	}
	return highest
}

// Clone performs the COPY used when a subshell or background job needs
// its own independent fd bookkeeping (the underlying OS descriptors are
// still inherited by fork, only the table's own state is copied).
func (t *FDTable) Clone() *FDTable {
	clone := NewFDTable()
	clone.marks = append([]int(nil), t.marks...)
	clone.entries = append([]FDEntry(nil), t.entries...)
	return clone
}
