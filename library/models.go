package library

import (
	"fmt"
	"time"
)

// Book is a single catalog record. IDs are assigned sequentially from 1 and,
// like Title and Author, never change once the book is added.
type Book struct {
	ID       int64  `db:"id" json:"id"`
	Title    string `db:"title" json:"title"`
	Author   string `db:"author" json:"author"`
	Borrowed bool   `db:"borrowed" json:"borrowed"`
}

// Status reports the lending state as shown in listings.
func (b Book) Status() string {
	if b.Borrowed {
		return "Borrowed"
	}
	return "Available"
}

// ActionKind identifies which mutation an UndoEntry reverses.
type ActionKind int

const (
	BorrowAction ActionKind = iota + 1
	ReturnAction
)

func (k ActionKind) String() string {
	switch k {
	case BorrowAction:
		return "borrow"
	case ReturnAction:
		return "return"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

func (k ActionKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UndoEntry references the book a borrow or return touched. It does not own
// the book.
type UndoEntry struct {
	Kind   ActionKind `json:"kind"`
	BookID int64      `json:"book_id"`
	At     time.Time  `json:"at"`
}

// Outcome is the discriminated result of a workflow operation. None of these
// are errors; callers render them as status lines.
type Outcome int

const (
	Borrowed Outcome = iota + 1
	Returned
	NotFound
	AlreadyBorrowed
	NotBorrowed
	BorrowUndone
	ReturnUndone
	EmptyHistory
	DanglingReference
)

var outcomeNames = map[Outcome]string{
	Borrowed:          "borrowed",
	Returned:          "returned",
	NotFound:          "not_found",
	AlreadyBorrowed:   "already_borrowed",
	NotBorrowed:       "not_borrowed",
	BorrowUndone:      "borrow_undone",
	ReturnUndone:      "return_undone",
	EmptyHistory:      "empty_history",
	DanglingReference: "dangling_reference",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Result pairs an Outcome with the book it concerns. Book is the zero value
// for NotFound and EmptyHistory; for DanglingReference only Book.ID is set.
type Result struct {
	Outcome Outcome
	Book    Book
}
