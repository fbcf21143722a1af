package cli

import (
	"fmt"
	"io"
	"iter"

	jsoniter "github.com/json-iterator/go"

	"e-library/config"
	"e-library/library"
)

// renderer turns manager results into output lines.
type renderer interface {
	added(b library.Book) error
	outcome(op, title string, res library.Result) error
	// books renders a search when field is set, otherwise the inventory.
	books(field library.Field, keyword string, seq iter.Seq2[library.Book, error]) error
	history(entries []library.UndoEntry) error
}

func newRenderer(format string, w io.Writer) renderer {
	if format == config.FormatJSON {
		return &jsonRenderer{enc: jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)}
	}
	return &textRenderer{w: w}
}

// ---------------------------------------------------------------------------
// Text
// ---------------------------------------------------------------------------

type textRenderer struct {
	w io.Writer
}

func (r *textRenderer) added(b library.Book) error {
	_, err := fmt.Fprintf(r.w, "Book Added: [%d] '%s' by %s\n", b.ID, b.Title, b.Author)
	return err
}

func (r *textRenderer) outcome(_, title string, res library.Result) error {
	_, err := fmt.Fprintln(r.w, statusLine(title, res))
	return err
}

// statusLine renders an outcome. Borrow and return messages quote the title
// as the user typed it; undo messages use the stored title.
func statusLine(title string, res library.Result) string {
	switch res.Outcome {
	case library.Borrowed:
		return fmt.Sprintf("You borrowed '%s'", title)
	case library.Returned:
		return fmt.Sprintf("You returned '%s'", title)
	case library.NotFound:
		return fmt.Sprintf("Book '%s' not found.", title)
	case library.AlreadyBorrowed:
		return fmt.Sprintf("'%s' is already borrowed.", title)
	case library.NotBorrowed:
		return fmt.Sprintf("'%s' was not borrowed.", title)
	case library.BorrowUndone:
		return fmt.Sprintf("Undo: Borrow of '%s' undone.", res.Book.Title)
	case library.ReturnUndone:
		return fmt.Sprintf("Undo: Return of '%s' undone.", res.Book.Title)
	case library.EmptyHistory:
		return "No actions to undo."
	case library.DanglingReference:
		return fmt.Sprintf("Undo failed: Book ID %d not found.", res.Book.ID)
	default:
		return res.Outcome.String()
	}
}

func bookLine(b library.Book) string {
	return fmt.Sprintf(" - [%d] %s by %s [%s]", b.ID, b.Title, b.Author, b.Status())
}

func (r *textRenderer) books(field library.Field, keyword string, seq iter.Seq2[library.Book, error]) error {
	if field != "" {
		fmt.Fprintf(r.w, "Searching by %s '%s':\n", field, keyword)
	}

	found := false
	for b, err := range seq {
		if err != nil {
			return err
		}
		if !found && field == "" {
			fmt.Fprintln(r.w, "E-Library Inventory:")
		}
		found = true
		fmt.Fprintln(r.w, bookLine(b))
	}

	switch {
	case found:
	case field == "":
		fmt.Fprintln(r.w, "Inventory is empty.")
	default:
		fmt.Fprintln(r.w, "No books found.")
	}
	return nil
}

func (r *textRenderer) history(entries []library.UndoEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(r.w, "History is empty.")
		return err
	}
	fmt.Fprintln(r.w, "Undo history (newest first):")
	for _, e := range entries {
		fmt.Fprintf(r.w, " - %s of book [%d] at %s\n", e.Kind, e.BookID, e.At.Format("15:04:05"))
	}
	return nil
}

// ---------------------------------------------------------------------------
// JSON
// ---------------------------------------------------------------------------

type jsonRenderer struct {
	enc *jsoniter.Encoder
}

type outcomeJSON struct {
	Op      string          `json:"op"`
	Outcome library.Outcome `json:"outcome"`
	Title   string          `json:"title,omitempty"`
	Book    *library.Book   `json:"book,omitempty"`
}

type booksJSON struct {
	Op      string         `json:"op"`
	Keyword string         `json:"keyword,omitempty"`
	Books   []library.Book `json:"books"`
}

type historyJSON struct {
	Op      string              `json:"op"`
	Entries []library.UndoEntry `json:"entries"`
}

func (r *jsonRenderer) added(b library.Book) error {
	return r.enc.Encode(struct {
		Op   string       `json:"op"`
		Book library.Book `json:"book"`
	}{Op: "add", Book: b})
}

func (r *jsonRenderer) outcome(op, title string, res library.Result) error {
	out := outcomeJSON{Op: op, Outcome: res.Outcome, Title: title}
	if res.Book.ID != 0 {
		b := res.Book
		out.Book = &b
	}
	return r.enc.Encode(out)
}

func (r *jsonRenderer) books(field library.Field, keyword string, seq iter.Seq2[library.Book, error]) error {
	out := booksJSON{Op: "list", Keyword: keyword, Books: []library.Book{}}
	if field != "" {
		out.Op = "search-" + string(field)
	}
	for b, err := range seq {
		if err != nil {
			return err
		}
		out.Books = append(out.Books, b)
	}
	return r.enc.Encode(out)
}

func (r *jsonRenderer) history(entries []library.UndoEntry) error {
	return r.enc.Encode(historyJSON{Op: "history", Entries: entries})
}
