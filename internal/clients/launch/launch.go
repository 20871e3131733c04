// Package launch runs external programs against browsed files. Files whose content isn't on the
// filesystem (archive members, git blobs) are materialized into managed temporary files, which
// are removed when the session ends.
package launch

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/nbrowse-run/nbrowse/pkg/paths"
)

// A Launcher spawns external opener programs. It satisfies [paths.Launcher].
type Launcher struct {
	// Foreground makes launches block the shell until the program exits; otherwise launched
	// programs are left running detached.
	Foreground bool

	tempDir string
}

// NewLauncher makes a Launcher with the given foregrounding policy.
func NewLauncher(foreground bool) *Launcher {
	return &Launcher{
		Foreground: foreground,
	}
}

// Launch runs the program with the file's path as its only argument, materializing non-filesystem
// sources into a temporary file first. Spawn failures are reported as [paths.ErrLaunch]; the
// caller's session state is never affected.
func (l *Launcher) Launch(program string, src paths.Source, name string) error {
	osPath, err := l.materialize(src, name)
	if err != nil {
		return err
	}

	cmd := exec.Command(program, osPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if l.Foreground {
		if err := cmd.Run(); err != nil {
			return errors.Wrapf(paths.ErrLaunch, "%s %s: %s", program, osPath, err)
		}
		return nil
	}
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(paths.ErrLaunch, "%s %s: %s", program, osPath, err)
	}
	// Detached launch: reap the process in the background so it doesn't linger as a zombie,
	// ignoring its exit status.
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

// materialize returns an OS path holding the source's content, copying into a managed temporary
// file when the source isn't filesystem-backed. The temporary file keeps the original name's
// extension so the launched program can recognize the file type.
func (l *Launcher) materialize(src paths.Source, name string) (string, error) {
	if pathed, ok := src.(paths.OSPathed); ok {
		return pathed.OSPath(), nil
	}

	if l.tempDir == "" {
		dir, err := os.MkdirTemp("", "nbrowse-")
		if err != nil {
			return "", errors.Wrap(err, "couldn't make temp dir for extracted files")
		}
		l.tempDir = dir
	}
	temp, err := os.CreateTemp(l.tempDir, "*"+filepath.Ext(name))
	if err != nil {
		return "", errors.Wrap(err, "couldn't make temp file for extracted content")
	}
	defer func() {
		_ = temp.Close()
	}()

	rc, err := src.Open()
	if err != nil {
		return "", errors.Wrapf(err, "couldn't open %s for extraction", name)
	}
	defer func() {
		_ = rc.Close()
	}()
	if _, err := io.Copy(temp, rc); err != nil {
		return "", errors.Wrapf(err, "couldn't extract %s to %s", name, temp.Name())
	}
	return temp.Name(), nil
}

// Cleanup removes all temporary files made by the launcher. Call it when the session ends.
func (l *Launcher) Cleanup() error {
	if l.tempDir == "" {
		return nil
	}
	err := os.RemoveAll(l.tempDir)
	l.tempDir = ""
	return errors.Wrap(err, "couldn't remove temp dir")
}
