// Package cli is the command surface of e-library: a cobra command tree whose
// catalog commands can be run one-shot, from a script, or line by line in an
// interactive shell sharing a single LibraryManager.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"e-library/config"
	"e-library/library"
)

// app carries the state every command runs against. It is built once per
// process in the root's PersistentPreRunE.
type app struct {
	cfg    config.Config
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	log    *slog.Logger
	mgr    *library.LibraryManager
	render renderer
}

// NewRootCmd builds the elibrary command tree. Flags start from cfg and
// override it.
func NewRootCmd(cfg config.Config, in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{cfg: cfg, in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "elibrary",
		Short: "In-memory e-library catalog with borrow, return and undo",
		Long: `elibrary keeps a catalog of books in memory and lets you add, borrow,
return and search them. The last borrow or return can be undone, one step
at a time.

Nothing is kept between runs. Use "shell" for an interactive session, "run"
to execute a script of commands, or call a catalog command directly against
a fresh catalog (optionally seeded with --seed).

Examples:
  # Interactive session
  elibrary shell

  # Run a script against a SQLite-backed catalog
  elibrary run session.txt --store sqlite

  # Replay the sample session
  elibrary demo`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.open,
		PersistentPostRunE: a.close,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	f := root.PersistentFlags()
	f.StringVar(&a.cfg.Store, "store", cfg.Store, "catalog backend: memory or sqlite")
	f.StringVar(&a.cfg.Seed, "seed", cfg.Seed, "CSV file of title,author rows to load at startup")
	f.StringVar(&a.cfg.Format, "format", cfg.Format, "output format: text or json")
	f.StringVar(&a.cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	f.StringVar(&a.cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")

	root.AddCommand(newShellCmd(a), newRunCmd(a), newDemoCmd(a))
	root.AddCommand(a.catalogCommands(false)...)
	return root
}

func (a *app) open(*cobra.Command, []string) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	logger, err := a.cfg.Logger(a.errOut)
	if err != nil {
		return err
	}
	a.log = logger.With(slog.String("session", uuid.NewString()))

	mgr, err := library.OpenLibraryManager(a.cfg.Store, library.WithLogger(a.log))
	if err != nil {
		return fmt.Errorf("open %s store: %w", a.cfg.Store, err)
	}
	if a.cfg.Seed != "" {
		added, err := mgr.ImportCSVFile(a.cfg.Seed)
		if err != nil {
			mgr.Close()
			return fmt.Errorf("seed from %s: %w", a.cfg.Seed, err)
		}
		a.log.Info("catalog seeded", slog.String("path", a.cfg.Seed), slog.Int("books", len(added)))
	}

	a.mgr = mgr
	a.render = newRenderer(a.cfg.Format, a.out)
	a.log.Debug("session started", slog.String("store", a.cfg.Store))
	return nil
}

func (a *app) close(*cobra.Command, []string) error {
	if a.mgr == nil {
		return nil
	}
	return a.mgr.Close()
}
