package paths

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestTextFileRoundTrip(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	const content = "hello\nworld\n"
	osPath := filepath.Join(root, "a.txt")
	if err := os.WriteFile(osPath, []byte(content), 0o644); err != nil {
		t.Fatalf("couldn't write test file: %+v", err)
	}
	f := NewTextFile("a.txt", []string{"a.txt"}, "text", int64(len(content)), NewFileSource(osPath))

	for range 2 {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("couldn't open text file: %+v", err)
		}
		got, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("couldn't read text file: %+v", err)
		}
		_ = rc.Close()
		if !cmp.Equal(string(got), content) {
			t.Errorf("content diff (-want +got):\n%+v", cmp.Diff(content, string(got)))
		}
	}
}

func TestTextFileDecodeError(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	osPath := filepath.Join(root, "a.txt")
	if err := os.WriteFile(osPath, []byte{0xff, 0xfe, 0x00}, 0o644); err != nil {
		t.Fatalf("couldn't write test file: %+v", err)
	}
	f := NewTextFile("a.txt", []string{"a.txt"}, "text", 3, NewFileSource(osPath))
	if _, err := f.Open(); !errors.Is(err, ErrDecode) {
		t.Errorf("got %v, want ErrDecode", err)
	}
}

func TestBinaryFileRawBytes(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	content := []byte{0xff, 0x00, 0x7f}
	osPath := filepath.Join(root, "a.bin")
	if err := os.WriteFile(osPath, content, 0o644); err != nil {
		t.Fatalf("couldn't write test file: %+v", err)
	}
	f := NewBinaryFile("a.bin", []string{"a.bin"}, "binary", 3, NewFileSource(osPath))
	rc, err := f.Open()
	if err != nil {
		t.Fatalf("couldn't open binary file: %+v", err)
	}
	defer func() {
		_ = rc.Close()
	}()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("couldn't read binary file: %+v", err)
	}
	if !cmp.Equal(got, content) {
		t.Errorf("content diff (-want +got):\n%+v", cmp.Diff(content, got))
	}
}

type recordingLauncher struct {
	program string
	name    string
}

func (l *recordingLauncher) Launch(program string, src Source, name string) error {
	l.program = program
	l.name = name
	return nil
}

func TestGenericFileLaunch(t *testing.T) {
	t.Parallel()

	src := NewFileSource("/nonexistent")
	launcher := &recordingLauncher{}

	withProgram := NewGenericFile(
		"a.pdf", []string{"a.pdf"}, "pdf", 0, src, "xdg-open",
	).(GenericFile)
	if err := withProgram.Launch(launcher); err != nil {
		t.Fatalf("couldn't launch: %+v", err)
	}
	if got, want := launcher.program, "xdg-open"; got != want {
		t.Errorf("got program %s, want %s", got, want)
	}

	noProgram := NewGenericFile("a.pdf", []string{"a.pdf"}, "pdf", 0, src, "").(GenericFile)
	if err := noProgram.Launch(launcher); !errors.Is(err, ErrNoHandler) {
		t.Errorf("got %v, want ErrNoHandler", err)
	}
}
