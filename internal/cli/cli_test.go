package cli

import (
	"bytes"
	"os"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/storage"
	"github.com/idilsaglam/tada/internal/store"
)

// execute runs the CLI with args against dataDir and returns the exit code
// and captured stdout/stderr.
func execute(t *testing.T, dataDir string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--data-dir", dataDir, "--theme", "mono"}, args...))
	code := run(root)
	return code, out.String(), errOut.String()
}

func storedTasks(t *testing.T, dataDir string) []model.Task {
	t.Helper()
	s := store.New(storage.NewFileSlot(dataDir), store.DefaultKey)
	s.Load()
	return s.Tasks()
}

func TestAddAndList(t *testing.T) {
	dir := t.TempDir()

	code, out, _ := execute(t, dir, "add", "buy", "milk")
	if code != 0 {
		t.Fatalf("add exit = %d", code)
	}
	if !strings.Contains(out, "added") {
		t.Errorf("add output = %q", out)
	}

	tasks := storedTasks(t, dir)
	if len(tasks) != 1 || tasks[0].Text != "buy milk" || tasks[0].Done {
		t.Fatalf("stored = %+v", tasks)
	}

	code, out, _ = execute(t, dir, "ls")
	if code != 0 {
		t.Fatalf("ls exit = %d", code)
	}
	if !strings.Contains(out, "buy milk") || !strings.Contains(out, strconv.FormatInt(tasks[0].ID, 10)) {
		t.Errorf("ls output = %q", out)
	}
}

func TestAddBlankIsUsageError(t *testing.T) {
	dir := t.TempDir()
	code, _, errOut := execute(t, dir, "add", "   ")
	if code != 2 {
		t.Errorf("exit = %d, want 2", code)
	}
	if !strings.Contains(errOut, "cannot be empty") {
		t.Errorf("stderr = %q", errOut)
	}
	if n := len(storedTasks(t, dir)); n != 0 {
		t.Errorf("stored %d tasks, want 0", n)
	}

	if code, _, _ := execute(t, dir, "add"); code != 2 {
		t.Errorf("add without args exit = %d, want 2", code)
	}
}

func TestDoneAndRemove(t *testing.T) {
	dir := t.TempDir()
	execute(t, dir, "add", "a")
	execute(t, dir, "add", "b")
	tasks := storedTasks(t, dir)
	a, b := tasks[0], tasks[1]

	if code, _, _ := execute(t, dir, "done", strconv.FormatInt(a.ID, 10)); code != 0 {
		t.Fatalf("done exit = %d", code)
	}
	tasks = storedTasks(t, dir)
	if !tasks[0].Done || tasks[1].Done {
		t.Errorf("after done stored = %+v", tasks)
	}

	if code, _, _ := execute(t, dir, "rm", strconv.FormatInt(b.ID, 10)); code != 0 {
		t.Fatalf("rm exit = %d", code)
	}
	tasks = storedTasks(t, dir)
	if len(tasks) != 1 || tasks[0].ID != a.ID {
		t.Errorf("after rm stored = %+v", tasks)
	}
}

func TestUnknownIDs(t *testing.T) {
	dir := t.TempDir()
	execute(t, dir, "add", "a")

	for _, cmd := range []string{"done", "rm"} {
		code, _, errOut := execute(t, dir, cmd, "42")
		if code != 1 {
			t.Errorf("%s 42 exit = %d, want 1", cmd, code)
		}
		if !strings.Contains(errOut, "task not found") {
			t.Errorf("%s stderr = %q", cmd, errOut)
		}
		code, _, _ = execute(t, dir, cmd, "abc")
		if code != 2 {
			t.Errorf("%s abc exit = %d, want 2", cmd, code)
		}
	}
	if n := len(storedTasks(t, dir)); n != 1 {
		t.Errorf("stored %d tasks, want 1", n)
	}
}

func TestListFilterSortAndEmpty(t *testing.T) {
	dir := t.TempDir()
	execute(t, dir, "add", "b")
	execute(t, dir, "add", "a")
	execute(t, dir, "add", "c")
	c := storedTasks(t, dir)[2]
	execute(t, dir, "done", strconv.FormatInt(c.ID, 10))

	_, out, _ := execute(t, dir, "ls", "--filter", "active", "--sort", "az")
	if got := listedTexts(out); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("active az listed %v, want [a b]\n%s", got, out)
	}

	_, out, _ = execute(t, dir, "ls", "--sort", "newest")
	if got := listedTexts(out); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Errorf("newest listed %v, want [c a b]\n%s", got, out)
	}

	execute(t, dir, "done", strconv.FormatInt(c.ID, 10))
	_, out, _ = execute(t, dir, "ls", "--filter", "done")
	if !strings.Contains(out, "No tasks to show right now.") {
		t.Errorf("empty done view output = %q", out)
	}

	if code, _, _ := execute(t, dir, "ls", "--sort", "sideways"); code != 2 {
		t.Errorf("bad sort exit = %d, want 2", code)
	}
}

func TestListGroup(t *testing.T) {
	dir := t.TempDir()
	execute(t, dir, "add", "a")
	_, out, _ := execute(t, dir, "ls", "--group")
	if !strings.Contains(out, "Pending") || !strings.Contains(out, "Done") || !strings.Contains(out, "(none)") {
		t.Errorf("group output = %q", out)
	}
}

func TestUnknownSubcommand(t *testing.T) {
	code, _, errOut := execute(t, t.TempDir(), "frobnicate")
	if code != 2 {
		t.Errorf("exit = %d, want 2", code)
	}
	if !strings.Contains(errOut, "unknown subcommand") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestCorruptStoreListsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := storage.NewFileSlot(dir).Set(store.DefaultKey, "{not json"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	code, out, _ := execute(t, dir, "ls")
	if code != 0 {
		t.Fatalf("ls exit = %d", code)
	}
	if !strings.Contains(out, "No tasks to show right now.") {
		t.Errorf("ls output = %q", out)
	}
}

func TestEphemeralWritesNothing(t *testing.T) {
	dir := t.TempDir()

	code, out, _ := execute(t, dir, "--ephemeral", "add", "x")
	if code != 0 {
		t.Fatalf("ephemeral add exit = %d", code)
	}
	if !strings.Contains(out, "added") {
		t.Errorf("add output = %q", out)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("data dir holds %d entries after an ephemeral add, want 0", len(entries))
	}

	_, out, _ = execute(t, dir, "ls")
	if !strings.Contains(out, "No tasks to show right now.") {
		t.Errorf("ls after ephemeral add = %q", out)
	}
}

func TestHelpIgnoresBadConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TADA_UI_THEME", "bogus")

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"help", "ls"})
	if code := run(root); code != 0 {
		t.Fatalf("help ls exit = %d, stderr = %q", code, errOut.String())
	}
	if !strings.Contains(out.String(), "--filter") {
		t.Errorf("help output = %q", out.String())
	}

	// commands that open the store still reject the bad theme
	root = NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"--data-dir", t.TempDir(), "ls"})
	if code := run(root); code != 1 {
		t.Errorf("ls with bad theme exit = %d, want 1", code)
	}
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	code, _, errOut := execute(t, t.TempDir(), "ls", "--colour")
	if code != 2 {
		t.Errorf("exit = %d, want 2", code)
	}
	if !strings.Contains(errOut, "unknown flag") {
		t.Errorf("stderr = %q", errOut)
	}
}

// listedTexts pulls task texts out of mono-theme ls output, where each task
// line reads "| <id> [ ] <text> |".
func listedTexts(out string) []string {
	var texts []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "|")
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		if _, err := strconv.ParseInt(fields[0], 10, 64); err != nil {
			continue
		}
		texts = append(texts, fields[len(fields)-1])
	}
	return texts
}
