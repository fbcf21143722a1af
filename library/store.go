package library

import (
	"errors"
	"fmt"
	"iter"
)

// Store kinds accepted by OpenStore.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// ErrUnknownStore is returned by OpenStore for an unsupported kind.
var ErrUnknownStore = errors.New("unknown store")

// Field selects the column a keyword search matches against.
type Field string

const (
	FieldTitle  Field = "title"
	FieldAuthor Field = "author"
)

// Store is the catalog backend a LibraryManager runs against. Lookups report
// a miss with found=false; err is reserved for backend failures.
type Store interface {
	AddBook(title, author string) (Book, error)
	FindByID(id int64) (Book, bool, error)
	FindByTitleExact(title string) (Book, bool, error)
	SetBorrowed(id int64, borrowed bool) (bool, error)
	Search(field Field, keyword string) iter.Seq2[Book, error]
	List() iter.Seq2[Book, error]
	Close() error
}

// OpenStore returns a fresh, empty store of the given kind.
func OpenStore(kind string) (Store, error) {
	switch kind {
	case "", StoreMemory:
		return NewMemoryStore(NewCatalog()), nil
	case StoreSQLite:
		return NewDatabase()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, kind)
	}
}

// memoryStore adapts a Catalog to Store. It never returns an error.
type memoryStore struct {
	catalog *Catalog
}

// NewMemoryStore wraps c as a Store.
func NewMemoryStore(c *Catalog) Store {
	return &memoryStore{catalog: c}
}

func (s *memoryStore) AddBook(title, author string) (Book, error) {
	return s.catalog.AddBook(title, author), nil
}

func (s *memoryStore) FindByID(id int64) (Book, bool, error) {
	b, ok := s.catalog.FindByID(id)
	return b, ok, nil
}

func (s *memoryStore) FindByTitleExact(title string) (Book, bool, error) {
	b, ok := s.catalog.FindByTitleExact(title)
	return b, ok, nil
}

func (s *memoryStore) SetBorrowed(id int64, borrowed bool) (bool, error) {
	return s.catalog.SetBorrowed(id, borrowed), nil
}

func (s *memoryStore) Search(field Field, keyword string) iter.Seq2[Book, error] {
	if field == FieldAuthor {
		return withNilErr(s.catalog.SearchByAuthor(keyword))
	}
	return withNilErr(s.catalog.SearchByTitle(keyword))
}

func (s *memoryStore) List() iter.Seq2[Book, error] {
	return withNilErr(s.catalog.ListAll())
}

func (s *memoryStore) Close() error { return nil }

func withNilErr(seq iter.Seq[Book]) iter.Seq2[Book, error] {
	return func(yield func(Book, error) bool) {
		for b := range seq {
			if !yield(b, nil) {
				return
			}
		}
	}
}
