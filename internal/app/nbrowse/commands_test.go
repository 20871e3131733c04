package nbrowse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func makeListingTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"zebra", "apple"} {
		if err := os.Mkdir(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	files := map[string]string{
		"notes.txt":   "some notes\n",
		"first file":  "spaced out\n",
		"data.bin":    "\x00\x01",
		"apple/p.txt": "nested\n",
		"zebra/z.txt": "nested\n",
	}
	for name, contents := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestLsOrdering(t *testing.T) {
	t.Parallel()
	root := makeListingTree(t)
	session, out := newTestSession(t, root, "")

	if err := session.Execute("ls"); err != nil {
		t.Fatalf("ls failed: %s", err)
	}
	got := strings.TrimRight(out.String(), "\n")
	// Directories come first, then files, each group in lexicographic order; names containing
	// whitespace are quoted.
	want := `apple  zebra  data.bin  'first file'  notes.txt`
	if got != want {
		t.Errorf("ls printed %q, expected %q", got, want)
	}
}

func TestLsPattern(t *testing.T) {
	t.Parallel()
	root := makeListingTree(t)
	session, out := newTestSession(t, root, "")

	if err := session.Execute("ls *.txt"); err != nil {
		t.Fatalf("ls failed: %s", err)
	}
	if got := strings.TrimRight(out.String(), "\n"); got != "notes.txt" {
		t.Errorf("ls *.txt printed %q", got)
	}

	if err := session.Execute("ls ["); err == nil {
		t.Error("ls with a malformed pattern succeeded, expected an error")
	}
}

func TestLsLong(t *testing.T) {
	t.Parallel()
	root := makeListingTree(t)
	session, out := newTestSession(t, root, "")

	if err := session.Execute("ls -l notes.txt"); err != nil {
		t.Fatalf("ls -l failed: %s", err)
	}
	line := strings.TrimRight(out.String(), "\n")
	if !strings.HasPrefix(line, "text") {
		t.Errorf("long listing %q doesn't start with the class", line)
	}
	if !strings.Contains(line, "11B") {
		t.Errorf("long listing %q doesn't show the size", line)
	}
	if !strings.HasSuffix(line, "notes.txt") {
		t.Errorf("long listing %q doesn't end with the name", line)
	}
}

func TestCdWithoutArgsReturnsToStart(t *testing.T) {
	t.Parallel()
	root := makeListingTree(t)
	start := filepath.Join(root, "apple")
	session, _ := newTestSession(t, root, start)

	if err := session.Execute("cd .."); err != nil {
		t.Fatal(err)
	}
	if err := session.Execute("cd"); err != nil {
		t.Fatal(err)
	}
	if pwd := session.PWD(); pwd != start {
		t.Errorf("cd without arguments landed at %s, expected %s", pwd, start)
	}
}

func TestTypeCommand(t *testing.T) {
	t.Parallel()
	root := makeListingTree(t)
	session, out := newTestSession(t, root, "")

	tests := map[string]string{
		"notes.txt": "notes.txt: file text\n",
		"data.bin":  "data.bin: file binary\n",
		"apple":     "apple: directory dir\n",
	}
	for name, want := range tests {
		out.Reset()
		if err := session.Execute("type " + name); err != nil {
			t.Fatalf("type %s failed: %s", name, err)
		}
		if got := out.String(); got != want {
			t.Errorf("type %s printed %q, expected %q", name, got, want)
		}
	}
}

func TestFindCommand(t *testing.T) {
	t.Parallel()
	root := makeListingTree(t)
	session, out := newTestSession(t, root, "")

	if err := session.Execute("find **/*.txt"); err != nil {
		t.Fatalf("find failed: %s", err)
	}
	got := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	want := map[string]bool{
		"apple/p.txt": true,
		"zebra/z.txt": true,
		"notes.txt":   true,
	}
	if len(got) != len(want) {
		t.Fatalf("find printed %q, expected %d matches", got, len(want))
	}
	for _, line := range got {
		if !want[line] {
			t.Errorf("find printed unexpected match %q", line)
		}
	}
}

func TestEchoCommands(t *testing.T) {
	t.Parallel()
	root := makeListingTree(t)
	session, out := newTestSession(t, root, "")

	if err := session.Execute("echo hello there"); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "hello there\n" {
		t.Errorf("echo printed %q", got)
	}

	out.Reset()
	if err := session.Execute("recho hello there"); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "\"hello there\"\n" {
		t.Errorf("recho printed %q", got)
	}
}

func TestHelpCommand(t *testing.T) {
	t.Parallel()
	root := makeListingTree(t)
	session, out := newTestSession(t, root, "")

	if err := session.Execute("help"); err != nil {
		t.Fatal(err)
	}
	listing := out.String()
	previous := ""
	lines := strings.Split(strings.TrimRight(listing, "\n"), "\n")[1:]
	for _, line := range lines {
		name := strings.TrimSpace(line)
		if name <= previous {
			t.Errorf("help listing isn't sorted: %q after %q", name, previous)
		}
		previous = name
	}
	for _, name := range []string{"ls", "cd", "exit", "ropen"} {
		if !strings.Contains(listing, name) {
			t.Errorf("help listing doesn't mention %s", name)
		}
	}
}

func TestOpenDirectoryChangesLocation(t *testing.T) {
	t.Parallel()
	root := makeListingTree(t)
	session, _ := newTestSession(t, root, "")

	if err := session.Execute("open apple"); err != nil {
		t.Fatalf("open failed: %s", err)
	}
	if pwd, want := session.PWD(), filepath.Join(root, "apple"); pwd != want {
		t.Errorf("open landed at %s, expected %s", pwd, want)
	}
}
