package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"e-library/library"
)

// catalogCommands returns the commands shared by the top level and the shell.
// Inside the shell flag parsing is off so titles may start with '-'.
func (a *app) catalogCommands(session bool) []*cobra.Command {
	cmds := []*cobra.Command{
		{
			Use:   "add <title> <author>",
			Short: "Add a book to the catalog",
			Args:  cobra.ExactArgs(2),
			RunE: func(_ *cobra.Command, args []string) error {
				b, err := a.mgr.AddBook(args[0], args[1])
				if err != nil {
					return err
				}
				return a.render.added(b)
			},
		},
		{
			Use:   "borrow <title>",
			Short: "Borrow a book by its exact title (case-insensitive)",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				title := strings.Join(args, " ")
				res, err := a.mgr.Borrow(title)
				if err != nil {
					return err
				}
				return a.render.outcome("borrow", title, res)
			},
		},
		{
			Use:   "return <title>",
			Short: "Return a borrowed book by its exact title (case-insensitive)",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				title := strings.Join(args, " ")
				res, err := a.mgr.ReturnBook(title)
				if err != nil {
					return err
				}
				return a.render.outcome("return", title, res)
			},
		},
		{
			Use:   "undo",
			Short: "Undo the last borrow or return",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				res, err := a.mgr.UndoLast()
				if err != nil {
					return err
				}
				return a.render.outcome("undo", "", res)
			},
		},
		{
			Use:   "search-title <keyword>",
			Short: "List books whose title contains keyword",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				kw := strings.Join(args, " ")
				return a.render.books(library.FieldTitle, kw, a.mgr.SearchByTitle(kw))
			},
		},
		{
			Use:   "search-author <keyword>",
			Short: "List books whose author contains keyword",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				kw := strings.Join(args, " ")
				return a.render.books(library.FieldAuthor, kw, a.mgr.SearchByAuthor(kw))
			},
		},
		{
			Use:   "list",
			Short: "List every book in insertion order",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return a.render.books("", "", a.mgr.ListAll())
			},
		},
		{
			Use:   "history",
			Short: "Show the actions undo would reverse, newest first",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return a.render.history(a.mgr.History())
			},
		},
	}

	for _, c := range cmds {
		c.DisableFlagParsing = session
	}
	return cmds
}
