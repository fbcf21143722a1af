package library

import "time"

// History is the LIFO log of borrow and return actions consumed by undo.
// It grows without bound and is not safe for concurrent use on its own;
// LibraryManager serializes access to it.
type History struct {
	entries []UndoEntry
	now     func() time.Time
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{now: time.Now}
}

// Record pushes a new entry for kind on bookID, stamped with the current time.
func (h *History) Record(kind ActionKind, bookID int64) UndoEntry {
	e := UndoEntry{Kind: kind, BookID: bookID, At: h.now()}
	h.Push(e)
	return e
}

// Push adds an existing entry to the top of the stack.
func (h *History) Push(e UndoEntry) {
	h.entries = append(h.entries, e)
}

// Pop removes and returns the most recent entry.
func (h *History) Pop() (UndoEntry, bool) {
	if len(h.entries) == 0 {
		return UndoEntry{}, false
	}
	e := h.entries[len(h.entries)-1]
	h.entries[len(h.entries)-1] = UndoEntry{}
	h.entries = h.entries[:len(h.entries)-1]
	return e, true
}

// Len returns the number of entries available to undo.
func (h *History) Len() int { return len(h.entries) }

// Entries returns a copy of the stack, newest first.
func (h *History) Entries() []UndoEntry {
	out := make([]UndoEntry, len(h.entries))
	for i, e := range h.entries {
		out[len(h.entries)-1-i] = e
	}
	return out
}
