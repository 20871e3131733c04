package paths

import (
	"io/fs"
	"syscall"

	"github.com/pkg/errors"
)

// Sentinel errors for the failure modes of navigation, listing, and opening. They are attached as
// root causes under descriptive messages, so callers match them with [errors.Is] while users see
// the full wrapped context.
var (
	// ErrNotFound is reported when a path segment has no matching child.
	ErrNotFound = errors.New("path not found")
	// ErrNotADirectory is reported when a directory operation lands on a non-directory node.
	ErrNotADirectory = errors.New("not a directory")
	// ErrNotAFile is reported when a file operation lands on a non-file node.
	ErrNotAFile = errors.New("not a file")
	// ErrAccessDenied is reported when the backing source refuses to be read.
	ErrAccessDenied = errors.New("access denied")
	// ErrUnreadableArchive is reported when a container's index can't be decoded.
	ErrUnreadableArchive = errors.New("unreadable archive")
	// ErrUnsupportedFormat is reported when a container uses a feature its codec can't decode.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrMemberNotFound is reported when a listed member has vanished from its container.
	ErrMemberNotFound = errors.New("archive member not found")
	// ErrDecode is reported when a text file's bytes aren't valid in its encoding.
	ErrDecode = errors.New("text decoding failed")
	// ErrNoHandler is reported when no external program is configured for a file's class.
	ErrNoHandler = errors.New("no handler for file")
	// ErrLaunch is reported when a configured external program fails to spawn.
	ErrLaunch = errors.New("couldn't launch external program")
	// ErrBrokenReference is reported when a previously-resolved location can no longer be
	// recomputed from the root, i.e. its backing source was invalidated underneath the session.
	ErrBrokenReference = errors.New("stale path reference")
)

// classifyOSError converts a filesystem error into the matching sentinel, keeping the original
// error text as context.
func classifyOSError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrPermission):
		return errors.Wrap(ErrAccessDenied, err.Error())
	case errors.Is(err, fs.ErrNotExist):
		return errors.Wrap(ErrNotFound, err.Error())
	case errors.Is(err, syscall.ENOTDIR):
		return errors.Wrap(ErrNotADirectory, err.Error())
	default:
		return err
	}
}
