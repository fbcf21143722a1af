package cli

import "github.com/spf13/cobra"

// demoScript is the sample session the catalog was first written around.
var demoScript = []string{
	`add "1984" "George Orwell"`,
	`add "To Kill a Mockingbird" "Harper Lee"`,
	`add "The Great Gatsby" "F. Scott Fitzgerald"`,
	`list`,
	`borrow 1984`,
	`return 1984`,
	`undo`,
	`undo`,
	`undo`,
	`search-title great`,
	`search-author Orwell`,
	`list`,
}

func newDemoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Replay the sample session against a fresh catalog",
		Long: `Replay the sample session: add three books, borrow and return one,
undo three times, run two searches and print the inventory.

When --seed is also given the seeded books come first and the demo's IDs
shift accordingly.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			for _, line := range demoScript {
				a.dispatch(line)
			}
			return nil
		},
	}
}
