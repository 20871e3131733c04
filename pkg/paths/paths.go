// Package paths defines the node contracts for the composite browsing tree, the nodes backed by
// the real filesystem, and the type-dispatch table which decides how directory entries become
// nodes. Virtual-directory backends (e.g. archives) live in their own packages and plug into the
// same contracts.
package paths

import (
	"io"
	"slices"
	"strings"
)

// Kind distinguishes the broad categories of tree nodes.
type Kind int

const (
	KindFile Kind = iota
	KindDir
	KindVirtualDir
)

// A Path is a location in the composite tree. Nodes don't hold live references to their parents;
// instead each node carries the full sequence of name segments from the session root, so parents
// are always recomputed by re-walking from the root.
type Path interface {
	// Name returns the display name of the node.
	Name() string
	// Kind returns the node's category.
	Kind() Kind
	// Class returns the node's dispatch class (e.g. "dir", "text", "7z").
	Class() string
	// Segments returns the name segments from the session root down to this node.
	Segments() []string
}

// A Dir is a navigable node whose children can be listed. Both real directories and virtual
// directories satisfy this contract.
type Dir interface {
	Path
	// Enter prepares the directory for navigation, lazily opening any backing source (e.g. an
	// archive handle). Entering an already-open directory is a no-op.
	Enter() error
	// List returns the directory's immediate children, ordered by SortChildren.
	List() ([]Path, error)
	// Resolve looks up one child by name among the results of List.
	Resolve(name string) (Path, error)
	// Close releases any backing source opened by Enter. Closing is idempotent, and a closed
	// directory may be entered again.
	Close() error
}

// A File is an openable leaf node.
type File interface {
	Path
	// Open returns the file's content as a readable stream positioned at the start. The caller
	// must close the stream.
	Open() (io.ReadCloser, error)
}

// A Sizer reports the size of a node's content, when known.
type Sizer interface {
	Size() int64
}

// A Launcher runs an external program against a file. Sources which aren't filesystem-backed are
// materialized into temporary files whose cleanup is the launcher's responsibility, so callers
// never clean up after a launch.
type Launcher interface {
	Launch(program string, src Source, name string) error
}

// A Launchable is a node which opens in an external program rather than inline.
type Launchable interface {
	Launch(l Launcher) error
}

// A Source provides the byte content behind a file node, whether that's a real file on disk or
// an archive member extracted on demand.
type Source interface {
	Open() (io.ReadCloser, error)
}

// An OSPathed source is backed by a real file which external programs can be pointed at directly.
type OSPathed interface {
	OSPath() string
}

// SortChildren sorts a directory listing in place by the stable ordering shared by all browsable
// directories: directories (real or virtual) before files, then lexicographic by name.
func SortChildren(children []Path) {
	slices.SortStableFunc(children, func(a, b Path) int {
		if da, db := a.Kind() != KindFile, b.Kind() != KindFile; da != db {
			if da {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Name(), b.Name())
	})
}
