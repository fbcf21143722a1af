package library

import (
	"iter"
	"strings"
	"sync"
)

// Catalog is the in-memory, insertion-ordered collection of books. Records
// are only ever appended, so an index into books stays valid for the life of
// the catalog. Callers always receive copies.
type Catalog struct {
	mu     sync.RWMutex
	books  []Book
	nextID int64
}

// NewCatalog returns an empty catalog whose first book will get ID 1.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// AddBook appends a new available book and returns it with its assigned ID.
func (c *Catalog) AddBook(title, author string) Book {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	b := Book{ID: c.nextID, Title: title, Author: author}
	c.books = append(c.books, b)
	return b
}

// FindByID returns the book with the given ID.
func (c *Catalog) FindByID(id int64) (Book, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, b := range c.books {
		if b.ID == id {
			return b, true
		}
	}
	return Book{}, false
}

// FindByTitleExact returns the first book, in insertion order, whose title
// equals title ignoring case.
func (c *Catalog) FindByTitleExact(title string) (Book, bool) {
	want := strings.ToLower(title)

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, b := range c.books {
		if strings.ToLower(b.Title) == want {
			return b, true
		}
	}
	return Book{}, false
}

// SetBorrowed updates the lending flag of the book with the given ID. It
// reports false if no such book exists.
func (c *Catalog) SetBorrowed(id int64, borrowed bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.books {
		if c.books[i].ID == id {
			c.books[i].Borrowed = borrowed
			return true
		}
	}
	return false
}

// SearchByTitle yields books whose title contains keyword, ignoring case.
func (c *Catalog) SearchByTitle(keyword string) iter.Seq[Book] {
	kw := strings.ToLower(keyword)
	return c.scan(func(b Book) bool { return strings.Contains(strings.ToLower(b.Title), kw) })
}

// SearchByAuthor yields books whose author contains keyword, ignoring case.
func (c *Catalog) SearchByAuthor(keyword string) iter.Seq[Book] {
	kw := strings.ToLower(keyword)
	return c.scan(func(b Book) bool { return strings.Contains(strings.ToLower(b.Author), kw) })
}

// ListAll yields every book in insertion order.
func (c *Catalog) ListAll() iter.Seq[Book] {
	return c.scan(func(Book) bool { return true })
}

// Len returns the number of books in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.books)
}

// scan walks the catalog one record at a time, taking the read lock per step
// so that yield may call back into the catalog. Each range over the returned
// sequence starts again from the first book.
func (c *Catalog) scan(match func(Book) bool) iter.Seq[Book] {
	return func(yield func(Book) bool) {
		for i := 0; ; i++ {
			c.mu.RLock()
			if i >= len(c.books) {
				c.mu.RUnlock()
				return
			}
			b := c.books[i]
			c.mu.RUnlock()

			if match(b) && !yield(b) {
				return
			}
		}
	}
}
