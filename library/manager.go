package library

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"sync"
)

// LibraryManager is the façade the command surface talks to. It owns one
// Store and one History and runs every mutation together with its history
// update under a single lock.
type LibraryManager struct {
	mu      sync.Mutex
	store   Store
	history *History
	log     *slog.Logger
}

// Option configures a LibraryManager.
type Option func(*LibraryManager)

// WithLogger sets the logger used for operation traces.
func WithLogger(l *slog.Logger) Option {
	return func(lm *LibraryManager) {
		if l != nil {
			lm.log = l
		}
	}
}

// NewLibraryManager wraps store with an empty history.
func NewLibraryManager(store Store, opts ...Option) *LibraryManager {
	lm := &LibraryManager{
		store:   store,
		history: NewHistory(),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(lm)
	}
	return lm
}

// OpenLibraryManager opens a fresh store of the given kind and wraps it.
func OpenLibraryManager(kind string, opts ...Option) (*LibraryManager, error) {
	store, err := OpenStore(kind)
	if err != nil {
		return nil, err
	}
	return NewLibraryManager(store, opts...), nil
}

// Close closes the underlying store.
func (lm *LibraryManager) Close() error { return lm.store.Close() }

// ------------------ Catalog ------------------

func (lm *LibraryManager) AddBook(title, author string) (Book, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	b, err := lm.store.AddBook(title, author)
	if err != nil {
		return Book{}, fmt.Errorf("add %q: %w", title, err)
	}
	lm.log.Debug("book added", slog.Int64("book_id", b.ID), slog.String("title", title), slog.String("author", author))
	return b, nil
}

func (lm *LibraryManager) FindByID(id int64) (Book, bool, error) {
	return lm.store.FindByID(id)
}

func (lm *LibraryManager) FindByTitleExact(title string) (Book, bool, error) {
	return lm.store.FindByTitleExact(title)
}

// SearchByTitle yields books whose title contains keyword, ignoring case. An
// empty sequence means no matches.
func (lm *LibraryManager) SearchByTitle(keyword string) iter.Seq2[Book, error] {
	return lm.store.Search(FieldTitle, keyword)
}

// SearchByAuthor yields books whose author contains keyword, ignoring case.
func (lm *LibraryManager) SearchByAuthor(keyword string) iter.Seq2[Book, error] {
	return lm.store.Search(FieldAuthor, keyword)
}

func (lm *LibraryManager) ListAll() iter.Seq2[Book, error] {
	return lm.store.List()
}

// ------------------ Circulation ------------------

// Borrow marks the first book titled title as borrowed and records the action.
// A missing or already borrowed book leaves both catalog and history alone.
func (lm *LibraryManager) Borrow(title string) (Result, error) {
	return lm.circulate("borrow", title, true, Borrowed, AlreadyBorrowed, BorrowAction)
}

// ReturnBook is the inverse of Borrow.
func (lm *LibraryManager) ReturnBook(title string) (Result, error) {
	return lm.circulate("return", title, false, Returned, NotBorrowed, ReturnAction)
}

func (lm *LibraryManager) circulate(op, title string, borrow bool, ok, conflict Outcome, kind ActionKind) (Result, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	b, found, err := lm.store.FindByTitleExact(title)
	if err != nil {
		return Result{}, fmt.Errorf("%s %q: %w", op, title, err)
	}
	if !found {
		return lm.trace(op, title, Result{Outcome: NotFound}), nil
	}
	if b.Borrowed == borrow {
		return lm.trace(op, title, Result{Outcome: conflict, Book: b}), nil
	}

	if _, err := lm.store.SetBorrowed(b.ID, borrow); err != nil {
		return Result{}, fmt.Errorf("%s %q: %w", op, title, err)
	}
	b.Borrowed = borrow
	lm.history.Record(kind, b.ID)
	return lm.trace(op, title, Result{Outcome: ok, Book: b}), nil
}

// ------------------ Undo ------------------

// UndoLast reverses the most recent borrow or return. The consumed entry is
// not itself undoable. If the store fails mid-way the entry is put back.
func (lm *LibraryManager) UndoLast() (Result, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	entry, ok := lm.history.Pop()
	if !ok {
		return lm.trace("undo", "", Result{Outcome: EmptyHistory}), nil
	}

	b, found, err := lm.store.FindByID(entry.BookID)
	if err != nil {
		lm.history.Push(entry)
		return Result{}, fmt.Errorf("undo %s of book %d: %w", entry.Kind, entry.BookID, err)
	}
	if !found {
		return lm.trace("undo", "", Result{Outcome: DanglingReference, Book: Book{ID: entry.BookID}}), nil
	}

	borrowed, outcome := false, BorrowUndone
	if entry.Kind == ReturnAction {
		borrowed, outcome = true, ReturnUndone
	}
	if _, err := lm.store.SetBorrowed(b.ID, borrowed); err != nil {
		lm.history.Push(entry)
		return Result{}, fmt.Errorf("undo %s of book %d: %w", entry.Kind, entry.BookID, err)
	}
	b.Borrowed = borrowed
	return lm.trace("undo", b.Title, Result{Outcome: outcome, Book: b}), nil
}

// History returns the pending undo entries, newest first.
func (lm *LibraryManager) History() []UndoEntry {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.history.Entries()
}

// HistoryLen returns how many actions can still be undone.
func (lm *LibraryManager) HistoryLen() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.history.Len()
}

func (lm *LibraryManager) trace(op, title string, res Result) Result {
	lm.log.Debug(op,
		slog.String("outcome", res.Outcome.String()),
		slog.Int64("book_id", res.Book.ID),
		slog.String("title", title),
		slog.Int("history_len", lm.history.Len()),
	)
	return res
}
