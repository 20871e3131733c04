package launch

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/nbrowse-run/nbrowse/pkg/paths"
)

type memSource struct {
	data []byte
}

func (s memSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func TestLaunchMissingProgram(t *testing.T) {
	t.Parallel()

	l := NewLauncher(true)
	src := paths.NewFileSource(filepath.Join(t.TempDir(), "a.txt"))
	err := l.Launch("definitely-not-a-real-program-nbrowse", src, "a.txt")
	if !errors.Is(err, paths.ErrLaunch) {
		t.Errorf("got %v, want ErrLaunch", err)
	}
}

func TestMaterializeKeepsExtension(t *testing.T) {
	t.Parallel()

	l := NewLauncher(true)
	defer func() {
		_ = l.Cleanup()
	}()

	osPath, err := l.materialize(memSource{data: []byte("extracted")}, "doc.pdf")
	if err != nil {
		t.Fatalf("couldn't materialize: %+v", err)
	}
	if got, want := filepath.Ext(osPath), ".pdf"; got != want {
		t.Errorf("got extension %s, want %s", got, want)
	}
	content, err := os.ReadFile(osPath)
	if err != nil {
		t.Fatalf("couldn't read temp file: %+v", err)
	}
	if string(content) != "extracted" {
		t.Errorf("got content %q, want %q", content, "extracted")
	}

	if err := l.Cleanup(); err != nil {
		t.Fatalf("couldn't clean up: %+v", err)
	}
	if _, err := os.Stat(osPath); !os.IsNotExist(err) {
		t.Errorf("temp file still exists after cleanup")
	}
}

func TestMaterializePassesThroughRealFiles(t *testing.T) {
	t.Parallel()

	osPath := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(osPath, []byte("x"), 0o644); err != nil {
		t.Fatalf("couldn't write test file: %+v", err)
	}

	l := NewLauncher(true)
	got, err := l.materialize(paths.NewFileSource(osPath), "a.txt")
	if err != nil {
		t.Fatalf("couldn't materialize: %+v", err)
	}
	if got != osPath {
		t.Errorf("got %s, want the original path %s", got, osPath)
	}
}
