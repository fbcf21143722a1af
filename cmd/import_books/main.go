// Command import_books checks a seed file before it is handed to
// "elibrary --seed": it imports the rows into a fresh catalog and prints
// what was loaded, or the first bad row.
package main

import (
	"fmt"
	"os"
	"strings"

	"e-library/config"
	"e-library/library"
)

func main() {
	path := "books.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	manager, err := library.OpenLibraryManager(cfg.Store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s store: %v\n", cfg.Store, err)
		os.Exit(1)
	}
	defer manager.Close()

	fmt.Printf("Importing books from %s into a %s catalog...\n", path, cfg.Store)
	added, importErr := manager.ImportCSVFile(path)

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Successfully imported: %d books\n", len(added))
	if importErr != nil {
		fmt.Printf("Stopped at error: %v\n", importErr)
	}

	if len(added) > 0 {
		fmt.Println("\nImported books:")
		fmt.Printf("%-3s %-50s %-30s\n", "ID", "Title", "Author")
		fmt.Println(strings.Repeat("-", 85))
		for b, err := range manager.ListAll() {
			if err != nil {
				fmt.Printf("Error retrieving books: %v\n", err)
				break
			}
			fmt.Printf("%-3d %-50s %-30s\n", b.ID, truncateString(b.Title, 50), truncateString(b.Author, 30))
		}
	}

	if importErr != nil {
		// defer does not run past os.Exit
		manager.Close()
		os.Exit(1)
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
