package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/tui"
	"github.com/idilsaglam/tada/internal/ui"
	"github.com/idilsaglam/tada/internal/view"
)

func newUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "ui",
		Short:       "Open the interactive list",
		Args:        noArgs("ui"),
		Annotations: storeAnnotation,
		RunE:        a.runUI,
	}
}

func (a *app) runUI(cmd *cobra.Command, args []string) error {
	if !isTerminal() {
		return errors.New("ui: stdout is not a terminal, use `tada ls`")
	}
	if err := tui.Run(a.store); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "add <text...>",
		Short:       "Add a new task (text can be multiple words)",
		Annotations: storeAnnotation,
		Example:     `  tada add "Buy milk"
  tada add call the plumber`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usagef("usage: tada add <text...>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.store.Add(strings.Join(args, " "))
			if errors.Is(err, store.ErrEmptyText) {
				return usagef("add: %v", err)
			}
			if err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("added %d", task.ID))
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var filter, sortBy string
	var group bool

	cmd := &cobra.Command{
		Use:         "ls",
		Aliases:     []string{"list"},
		Short:       "List tasks",
		Annotations: storeAnnotation,
		Example:     `  tada ls
  tada ls --filter active --sort az
  tada ls --group`,
		Args: noArgs("ls"),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseFilterMode(filter)
			if err != nil {
				return usagef("ls: %v", err)
			}
			s, err := model.ParseSortMode(sortBy)
			if err != nil {
				return usagef("ls: %v", err)
			}
			a.store.SetFilterMode(f)
			a.store.SetSortMode(s)

			done, pending := a.store.Stats()
			lines := []string{
				ui.Header(done, pending),
				ui.Current().Muted.Render(ui.ProgressBar(done, done+pending, 28)),
				"",
			}
			derived := a.store.View()
			if group {
				lines = append(lines, groupLines(derived)...)
			} else {
				lines = append(lines, flatLines(derived)...)
			}
			lines = append(lines, "", ui.Current().Muted.Render("Tip: add with `tada add \"Buy milk\"`"))
			ui.Panel(cmd.OutOrStdout(), lines)
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "all, active or done")
	cmd.Flags().StringVarP(&sortBy, "sort", "s", "none", "none, az, za, newest or oldest")
	cmd.Flags().BoolVarP(&group, "group", "g", false, "group output by pending/done")
	return cmd
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "done <id>",
		Short:       "Toggle done for the task with id",
		Annotations: storeAnnotation,
		Args:        idArg("done"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := strconv.ParseInt(args[0], 10, 64)
			if _, ok := a.store.Get(id); !ok {
				return fmt.Errorf("done: %d: %w (run `tada ls` to see ids)", id, store.ErrNotFound)
			}
			a.store.ToggleDone(id)
			ui.OK(cmd.OutOrStdout(), "toggled")
			return nil
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "rm <id>",
		Aliases:     []string{"delete"},
		Short:       "Remove the task with id",
		Annotations: storeAnnotation,
		Args:        idArg("rm"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := strconv.ParseInt(args[0], 10, 64)
			if !a.store.Delete(id) {
				return fmt.Errorf("rm: %d: %w (run `tada ls` to see ids)", id, store.ErrNotFound)
			}
			ui.OK(cmd.OutOrStdout(), "removed")
			return nil
		},
	}
}

func idArg(name string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return usagef("usage: tada %s <id>", name)
		}
		if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
			return usagef("%s: not a number: %s", name, args[0])
		}
		return nil
	}
}

// -------------- rendering helpers --------------

func flatLines(tasks []model.Task) []string {
	t := ui.Current()
	if len(tasks) == 0 {
		return []string{t.Muted.Render(view.EmptyMessage)}
	}
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		box, style := t.Muted.Render(t.BoxUnchecked), t.Muted
		text := task.Text
		if len([]rune(text)) > 80 {
			text = string([]rune(text)[:77]) + "..."
		}
		if task.Done {
			box, text = t.Success.Render(t.BoxChecked), t.Done.Render(text)
		}
		out = append(out, fmt.Sprintf("%s %s %s", style.Render(strconv.FormatInt(task.ID, 10)), box, text))
	}
	return out
}

func groupLines(tasks []model.Task) []string {
	var pend, done []model.Task
	for _, task := range tasks {
		if task.Done {
			done = append(done, task)
		} else {
			pend = append(pend, task)
		}
	}
	t := ui.Current()
	section := func(title string, items []model.Task) []string {
		lines := []string{t.Accent.Render(title)}
		if len(items) == 0 {
			return append(lines, t.Muted.Render("(none)"))
		}
		return append(lines, flatLines(items)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}
