package library

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidSeedRow is returned when a seed row does not have exactly a title
// and an author.
var ErrInvalidSeedRow = errors.New("invalid seed row")

// ImportCSV adds one book per "title,author" row of r, in order. A first row
// of exactly "title,author" is treated as a header. Lines starting with '#'
// are skipped. It returns the books added before any error.
func (lm *LibraryManager) ImportCSV(r io.Reader) ([]Book, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var added []Book
	for first := true; ; first = false {
		rec, err := cr.Read()
		if err == io.EOF {
			return added, nil
		}
		if err != nil {
			return added, fmt.Errorf("read seed: %w", err)
		}
		if first && isSeedHeader(rec) {
			continue
		}
		if len(rec) != 2 {
			line, _ := cr.FieldPos(0)
			return added, fmt.Errorf("%w: line %d has %d fields, want 2", ErrInvalidSeedRow, line, len(rec))
		}

		b, err := lm.AddBook(strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1]))
		if err != nil {
			return added, err
		}
		added = append(added, b)
	}
}

// ImportCSVFile reads the seed file at path (relative paths resolve from cwd).
func (lm *LibraryManager) ImportCSVFile(path string) ([]Book, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return lm.ImportCSV(f)
}

func isSeedHeader(rec []string) bool {
	return len(rec) == 2 &&
		strings.EqualFold(strings.TrimSpace(rec[0]), "title") &&
		strings.EqualFold(strings.TrimSpace(rec[1]), "author")
}
