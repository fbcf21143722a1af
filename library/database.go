package library

import (
	"database/sql"
	"errors"
	"fmt"
	"iter"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const (
	dialectSQLite = "sqlite3"
	tableBooks    = "books"
	colID         = "id"
	colTitle      = "title"
	colAuthor     = "author"
	colBorrowed   = "borrowed"
)

// Database is a Store backed by an in-memory SQLite database. Nothing
// outlives the process: the data is gone once Close is called.
type Database struct {
	db *sqlx.DB
	qb goqu.DialectWrapper
}

// NewDatabase opens a private in-memory SQLite database and applies the schema.
func NewDatabase() (*Database, error) {
	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Every connection to :memory: gets its own database, so the pool is
	// pinned to a single long-lived connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Database{db: db, qb: goqu.Dialect(dialectSQLite)}, nil
}

// Close releases the connection and with it every stored book.
func (d *Database) Close() error { return d.db.Close() }

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sqlx.DB) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`,
		`CREATE TABLE IF NOT EXISTS books (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            borrowed BOOLEAN NOT NULL DEFAULT 0
        );`,
		`CREATE INDEX IF NOT EXISTS idx_books_title_lower ON books(lower(title));`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Store implementation
// ---------------------------------------------------------------------------

func (d *Database) selectBooks() *goqu.SelectDataset {
	return d.qb.From(tableBooks).
		Select(colID, colTitle, colAuthor, colBorrowed).
		Order(goqu.C(colID).Asc()).
		Prepared(true)
}

// AddBook inserts an available book. SQLite's AUTOINCREMENT hands out IDs
// starting at 1 and never reuses them.
func (d *Database) AddBook(title, author string) (Book, error) {
	query, args, err := d.qb.Insert(tableBooks).
		Rows(goqu.Record{colTitle: title, colAuthor: author, colBorrowed: false}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return Book{}, fmt.Errorf("build insert: %w", err)
	}

	res, err := d.db.Exec(query, args...)
	if err != nil {
		return Book{}, fmt.Errorf("insert book: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Book{}, err
	}
	return Book{ID: id, Title: title, Author: author}, nil
}

func (d *Database) FindByID(id int64) (Book, bool, error) {
	return d.getOne(d.selectBooks().Where(goqu.C(colID).Eq(id)).Limit(1))
}

// FindByTitleExact compares lower(title) on both sides; SQLite's lower() only
// folds ASCII letters.
func (d *Database) FindByTitleExact(title string) (Book, bool, error) {
	cond := goqu.Func("lower", goqu.C(colTitle)).Eq(goqu.Func("lower", goqu.V(title)))
	return d.getOne(d.selectBooks().Where(cond).Limit(1))
}

func (d *Database) SetBorrowed(id int64, borrowed bool) (bool, error) {
	query, args, err := d.qb.Update(tableBooks).
		Set(goqu.Record{colBorrowed: borrowed}).
		Where(goqu.C(colID).Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update: %w", err)
	}

	res, err := d.db.Exec(query, args...)
	if err != nil {
		return false, fmt.Errorf("update book %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Search matches keyword as a substring with instr rather than LIKE so that
// '%' and '_' in the keyword are taken literally.
func (d *Database) Search(field Field, keyword string) iter.Seq2[Book, error] {
	col := colTitle
	if field == FieldAuthor {
		col = colAuthor
	}
	cond := goqu.Func("instr",
		goqu.Func("lower", goqu.C(col)),
		goqu.Func("lower", goqu.V(keyword)),
	).Gt(0)
	return d.iterate(d.selectBooks().Where(cond))
}

func (d *Database) List() iter.Seq2[Book, error] {
	return d.iterate(d.selectBooks())
}

func (d *Database) getOne(ds *goqu.SelectDataset) (Book, bool, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return Book{}, false, fmt.Errorf("build select: %w", err)
	}

	var b Book
	err = d.db.Get(&b, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, false, nil
	}
	if err != nil {
		return Book{}, false, fmt.Errorf("select book: %w", err)
	}
	return b, true, nil
}

// iterate runs the query each time the sequence is ranged over. Rows are
// read fully before yielding because the single pooled connection would
// otherwise be held while the caller calls back into the store.
func (d *Database) iterate(ds *goqu.SelectDataset) iter.Seq2[Book, error] {
	return func(yield func(Book, error) bool) {
		query, args, err := ds.ToSQL()
		if err != nil {
			yield(Book{}, fmt.Errorf("build select: %w", err))
			return
		}

		var books []Book
		if err := d.db.Select(&books, query, args...); err != nil {
			yield(Book{}, fmt.Errorf("select books: %w", err))
			return
		}
		for _, b := range books {
			if !yield(b, nil) {
				return
			}
		}
	}
}
