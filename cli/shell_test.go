package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"e-library/config"
	"e-library/library"
)

// runCLI executes the root command with args, feeding stdin, and returns
// stdout split into lines.
func runCLI(t *testing.T, stdin string, args ...string) []string {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd(config.Default(), strings.NewReader(stdin), &out, &errOut)
	root.SetArgs(args)
	require.NoError(t, root.Execute(), "stderr: %s", errOut.String())
	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func TestDemoTranscript(t *testing.T) {
	want := []string{
		"Book Added: [1] '1984' by George Orwell",
		"Book Added: [2] 'To Kill a Mockingbird' by Harper Lee",
		"Book Added: [3] 'The Great Gatsby' by F. Scott Fitzgerald",
		"E-Library Inventory:",
		" - [1] 1984 by George Orwell [Available]",
		" - [2] To Kill a Mockingbird by Harper Lee [Available]",
		" - [3] The Great Gatsby by F. Scott Fitzgerald [Available]",
		"You borrowed '1984'",
		"You returned '1984'",
		"Undo: Return of '1984' undone.",
		"Undo: Borrow of '1984' undone.",
		"No actions to undo.",
		"Searching by title 'great':",
		" - [3] The Great Gatsby by F. Scott Fitzgerald [Available]",
		"Searching by author 'Orwell':",
		" - [1] 1984 by George Orwell [Available]",
		"E-Library Inventory:",
		" - [1] 1984 by George Orwell [Available]",
		" - [2] To Kill a Mockingbird by Harper Lee [Available]",
		" - [3] The Great Gatsby by F. Scott Fitzgerald [Available]",
	}
	for _, store := range []string{library.StoreMemory, library.StoreSQLite} {
		t.Run(store, func(t *testing.T) {
			assert.Equal(t, want, runCLI(t, "", "demo", "--store", store))
		})
	}
}

func TestShellSession(t *testing.T) {
	script := strings.Join([]string{
		"# a comment",
		"list",
		`add "Dune" "Frank Herbert"`,
		"",
		"borrow dune",
		"borrow Dune",
		"return Missing Book",
		"history",
		"undo",
		"return dune",
		"search-author xyz",
		"exit",
		"list",
	}, "\n")

	got := runCLI(t, script, "shell")
	require.Len(t, got, 11)
	assert.Equal(t, []string{
		"Inventory is empty.",
		"Book Added: [1] 'Dune' by Frank Herbert",
		"You borrowed 'dune'",
		"'Dune' is already borrowed.",
		"Book 'Missing Book' not found.",
		"Undo history (newest first):",
		got[6], // timestamped
		"Undo: Borrow of 'Dune' undone.",
		"'dune' was not borrowed.",
		"Searching by author 'xyz':",
		"No books found.",
	}, got)
	assert.True(t, strings.HasPrefix(got[6], " - borrow of book [1] at "))
}

func TestShellReportsBadInputAndContinues(t *testing.T) {
	script := strings.Join([]string{
		"frobnicate",
		"add OnlyTitle",
		`add "Unclosed`,
		"undo",
	}, "\n")

	got := runCLI(t, script, "shell")
	require.Len(t, got, 4)
	assert.Contains(t, got[0], `Error: unknown command "frobnicate"`)
	assert.Contains(t, got[1], "Error: accepts 2 arg(s), received 1")
	assert.Equal(t, "Error: unterminated \" quote", got[2])
	assert.Equal(t, "No actions to undo.", got[3])
}

func TestRunScriptWithSeed(t *testing.T) {
	dir := t.TempDir()
	seed := filepath.Join(dir, "books.csv")
	script := filepath.Join(dir, "session.txt")
	require.NoError(t, os.WriteFile(seed, []byte("title,author\n1984,George Orwell\nAnimal Farm,George Orwell\n"), 0o644))
	require.NoError(t, os.WriteFile(script, []byte("borrow animal farm\nsearch-author orwell\n"), 0o644))

	got := runCLI(t, "", "run", script, "--seed", seed, "--store", "sqlite")
	assert.Equal(t, []string{
		"You borrowed 'animal farm'",
		"Searching by author 'orwell':",
		" - [1] 1984 by George Orwell [Available]",
		" - [2] Animal Farm by George Orwell [Borrowed]",
	}, got)
}

func TestOneShotCommands(t *testing.T) {
	assert.Equal(t, []string{"Book Added: [1] 'The Hobbit' by J.R.R. Tolkien"},
		runCLI(t, "", "add", "The Hobbit", "J.R.R. Tolkien"))
	assert.Equal(t, []string{"Book 'The Hobbit' not found."},
		runCLI(t, "", "borrow", "The", "Hobbit"))
	assert.Equal(t, []string{"History is empty."}, runCLI(t, "", "history"))
}

func TestJSONFormat(t *testing.T) {
	script := strings.Join([]string{
		`add "Dune" "Frank Herbert"`,
		"borrow Dune",
		"undo",
		"undo",
		"search-title zzz",
	}, "\n")

	got := runCLI(t, script, "shell", "--format", "json")
	require.Len(t, got, 5)
	assert.JSONEq(t, `{"op":"add","book":{"id":1,"title":"Dune","author":"Frank Herbert","borrowed":false}}`, got[0])
	assert.JSONEq(t, `{"op":"borrow","outcome":"borrowed","title":"Dune","book":{"id":1,"title":"Dune","author":"Frank Herbert","borrowed":true}}`, got[1])
	assert.JSONEq(t, `{"op":"undo","outcome":"borrow_undone","book":{"id":1,"title":"Dune","author":"Frank Herbert","borrowed":false}}`, got[2])
	assert.JSONEq(t, `{"op":"undo","outcome":"empty_history"}`, got[3])
	assert.JSONEq(t, `{"op":"search-title","keyword":"zzz","books":[]}`, got[4])
}

func TestUnknownStoreFails(t *testing.T) {
	var out, errOut bytes.Buffer
	root := NewRootCmd(config.Default(), strings.NewReader(""), &out, &errOut)
	root.SetArgs([]string{"list", "--store", "postgres"})
	err := root.Execute()
	assert.ErrorIs(t, err, library.ErrUnknownStore)
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"list", []string{"list"}},
		{`add "The Great Gatsby" 'F. Scott Fitzgerald'`, []string{"add", "The Great Gatsby", "F. Scott Fitzgerald"}},
		{`add "Harry Potter and the Philosopher's Stone" Rowling`, []string{"add", "Harry Potter and the Philosopher's Stone", "Rowling"}},
		{`borrow   1984  `, []string{"borrow", "1984"}},
		{`search-title ""`, []string{"search-title", ""}},
	}
	for _, tt := range tests {
		got, err := splitArgs(tt.line)
		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.want, got, tt.line)
	}

	_, err := splitArgs(`borrow 'oops`)
	assert.Error(t, err)
}

func TestStatusLineCoversEveryOutcome(t *testing.T) {
	for o := library.Borrowed; o <= library.DanglingReference; o++ {
		line := statusLine("X", library.Result{Outcome: o, Book: library.Book{ID: 4, Title: "Y"}})
		assert.NotEqual(t, o.String(), line, "outcome %s has no message", o)
	}
	assert.Equal(t, "Undo failed: Book ID 4 not found.",
		statusLine("", library.Result{Outcome: library.DanglingReference, Book: library.Book{ID: 4}}))
}
