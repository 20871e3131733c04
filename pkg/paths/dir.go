package paths

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/pkg/errors"
)

// A DirPath is a directory on the real filesystem. It stores no children; every listing re-reads
// the OS directory contents, so two DirPath values for the same OS path are interchangeable.
type DirPath struct {
	name     string
	segments []string
	osPath   string
	table    *Table
}

// NewDirPath makes a DirPath for the directory at the given OS path.
func NewDirPath(name string, segments []string, osPath string, table *Table) *DirPath {
	return &DirPath{
		name:     name,
		segments: slices.Clone(segments),
		osPath:   filepath.Clean(osPath),
		table:    table,
	}
}

// NewRoot makes the session root DirPath, whose segments are empty.
func NewRoot(osPath string, table *Table) *DirPath {
	osPath = filepath.Clean(osPath)
	return NewDirPath(filepath.Base(osPath), nil, osPath, table)
}

func (d *DirPath) Name() string {
	return d.name
}

func (d *DirPath) Kind() Kind {
	return KindDir
}

func (d *DirPath) Class() string {
	return "dir"
}

func (d *DirPath) Segments() []string {
	return slices.Clone(d.segments)
}

// OSPath returns the directory's location on the filesystem.
func (d *DirPath) OSPath() string {
	return d.osPath
}

// Enter checks that the OS path still is a directory. Real directories have no handle to open.
func (d *DirPath) Enter() error {
	info, err := os.Stat(d.osPath)
	if err != nil {
		return errors.Wrapf(classifyOSError(err), "couldn't enter %s", d.osPath)
	}
	if !info.IsDir() {
		return errors.Wrapf(ErrNotADirectory, "%s is not a directory", d.osPath)
	}
	return nil
}

// List reads the OS directory entries and constructs a node for each via the dispatch table.
func (d *DirPath) List() ([]Path, error) {
	entries, err := os.ReadDir(d.osPath)
	if err != nil {
		return nil, errors.Wrapf(classifyOSError(err), "couldn't list %s", d.osPath)
	}
	children := make([]Path, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		segments := append(slices.Clone(d.segments), name)
		childOS := filepath.Join(d.osPath, name)
		if entry.IsDir() {
			children = append(children, d.table.Dir(name, segments, childOS))
			continue
		}
		src := NewFileSource(childOS)
		if container, ok := d.table.Container(name, segments, src); ok {
			children = append(children, container)
			continue
		}
		var size int64
		if info, err := entry.Info(); err == nil {
			size = info.Size()
		}
		children = append(children, d.table.File(name, segments, size, src))
	}
	SortChildren(children)
	return children, nil
}

// Resolve looks up one immediate child by name.
func (d *DirPath) Resolve(name string) (Path, error) {
	children, err := d.List()
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if child.Name() == name {
			return child, nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "no entry %s in %s", name, d.osPath)
}

// Close is a no-op; real directories hold no handle between listings.
func (d *DirPath) Close() error {
	return nil
}
