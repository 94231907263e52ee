// Package cli wires the tada commands onto a task store.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/storage"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/ui"
)

// usageError marks bad invocations; they exit with 2 instead of 1.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// needsStore annotates commands that load config and open the task store.
// Built-in commands like help and completion run without it.
const needsStore = "tada/needs-store"

var storeAnnotation = map[string]string{needsStore: "true"}

// app is the per-invocation state shared by subcommands.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *log.Logger
	store  *store.Store
	closer io.Closer
}

// NewRootCmd builds the command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "tada",
		Short: "A tiny to-do list for the terminal",
		Long: `tada keeps a short list of tasks in a local file.

Run without a subcommand to open the interactive list.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          noArgs("tada"),
		Annotations:   storeAnnotation,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
		RunE: a.runUI,
	}

	root.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/tada/config.yaml)")
	root.PersistentFlags().String("data-dir", "", "directory the task list is stored in (default $HOME/.tada)")
	root.PersistentFlags().String("log-level", "", "debug, info, warn or error")
	root.PersistentFlags().String("theme", "", "classic, neon or mono")
	root.PersistentFlags().Bool("ephemeral", false, "keep tasks in memory only; nothing is read from or written to disk")
	_ = a.v.BindPFlag("storage.dir", root.PersistentFlags().Lookup("data-dir"))
	_ = a.v.BindPFlag("logging.level", root.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("ui.theme", root.PersistentFlags().Lookup("theme"))

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usagef("%v", err)
	})

	root.AddCommand(
		newUICmd(a),
		newAddCmd(a),
		newListCmd(a),
		newDoneCmd(a),
		newRemoveCmd(a),
	)
	return root
}

// Execute runs the CLI and returns an exit code (0 ok, 1 error, 2 usage).
func Execute() int {
	return run(NewRootCmd())
}

func run(root *cobra.Command) int {
	err := root.Execute()
	if err == nil {
		return 0
	}
	ui.Fail(root.ErrOrStderr(), err.Error())
	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintln(root.ErrOrStderr())
		_ = root.Usage()
		return 2
	}
	return 1
}

func (a *app) setup(cmd *cobra.Command) error {
	if cmd.Annotations[needsStore] == "" {
		return nil
	}
	cfgFile, _ := cmd.Flags().GetString("config")
	if err := config.Init(a.v, cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	ui.SetTheme(cfg.UI.Theme)

	ephemeral, _ := cmd.Flags().GetBool("ephemeral")

	// The interactive screen owns the terminal, so it logs to a file.
	interactive := cmd.Name() == "ui" || cmd == cmd.Root()
	switch {
	case interactive && ephemeral:
		a.logger = logging.Discard()
	case interactive:
		logger, f, err := logging.NewFile(cfg.LogPath(), cfg.Logging.Level)
		if err != nil {
			return err
		}
		a.logger, a.closer = logger, f
	default:
		a.logger = logging.New(cmd.ErrOrStderr(), cfg.Logging.Level)
	}

	var slot storage.Slot = storage.NewFileSlot(cfg.Storage.Dir)
	if ephemeral {
		slot = storage.NewMemorySlot()
	}
	a.store = store.New(
		slot,
		cfg.Storage.Key,
		store.WithLogger(a.logger),
		store.WithLocale(cfg.Language()),
	)
	a.store.Load()
	a.logger.Debug("store ready", "dir", cfg.Storage.Dir, "key", cfg.Storage.Key, "ephemeral", ephemeral)
	return nil
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

func noArgs(name string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return nil
		}
		if name == "tada" {
			return usagef("unknown subcommand: %s", args[0])
		}
		return usagef("%s: unexpected argument: %s", name, args[0])
	}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
