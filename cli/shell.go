package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Long: `Start an interactive session reading one command per line from stdin.

Commands: add <title> <author>, borrow <title>, return <title>, undo,
search-title <keyword>, search-author <keyword>, list, history, help, exit.
Quote titles that contain spaces, e.g. add "The Great Gatsby" "F. Scott Fitzgerald".`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.repl(a.in, isTerminal(a.in))
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <script>",
		Short: "Run shell commands from a file, one per line ('-' for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if args[0] == "-" {
				return a.repl(a.in, false)
			}
			f, err := os.Open(filepath.Clean(args[0]))
			if err != nil {
				return err
			}
			defer f.Close()
			return a.repl(f, false)
		},
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// repl executes one command per line until EOF or "exit". Blank lines and
// lines starting with '#' are skipped. The banner and prompt are only shown
// when interactive.
func (a *app) repl(in io.Reader, interactive bool) error {
	sc := bufio.NewScanner(in)

	if interactive {
		fmt.Fprintln(a.out, "Welcome to the E-Library!")
		fmt.Fprintln(a.out, "Type 'help' for the list of commands, 'exit' to quit.")
	}

	for {
		if interactive {
			fmt.Fprint(a.out, "\n> ")
		}
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "exit" || line == "quit" {
			if interactive {
				fmt.Fprintln(a.out, "Goodbye!")
			}
			return nil
		}
		a.dispatch(line)
	}
	return sc.Err()
}

// dispatch runs a single shell line. Failures are printed and never end the
// session.
func (a *app) dispatch(line string) {
	args, err := splitArgs(line)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}

	cmd := a.sessionCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
}

// sessionCmd builds a throwaway command tree bound to the running manager.
func (a *app) sessionCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "elibrary",
		Short:         "E-Library shell. Type 'exit' to quit.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(a.out)
	root.SetErr(a.out)
	root.AddCommand(a.catalogCommands(true)...)
	return root
}

// splitArgs splits a shell line on whitespace, honouring single and double
// quotes. Quotes do not nest and there are no escapes.
func splitArgs(line string) ([]string, error) {
	var (
		args  []string
		cur   strings.Builder
		quote rune
		inArg bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case unicode.IsSpace(r):
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
