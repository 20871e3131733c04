// Package archives presents the contents of container files (7z, zip, tarballs) as virtual
// directories satisfying the same navigation contract as real directories. A container format
// plugs in by implementing Codec; the tree derivation, lazy handle management, and nesting logic
// here are shared by all formats.
package archives

import (
	"bytes"
	"io"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/nbrowse-run/nbrowse/pkg/paths"
	"github.com/nbrowse-run/nbrowse/pkg/structures"
)

// A Member is one entry in a container's flat internal index. Paths are normalized to forward
// slashes with no leading or trailing separators.
type Member struct {
	Path string
	Size int64
	Dir  bool
}

// An Index is a decoded container's member table, from which members can be extracted on demand.
type Index interface {
	// Members returns the container's flat member index.
	Members() []Member
	// Extract returns a readable stream over the content of the member with the given
	// normalized path, reporting [paths.ErrMemberNotFound] if no such member exists.
	Extract(memberPath string) (io.ReadCloser, error)
	// Close releases any resources held by the index.
	Close() error
}

// A Codec decodes one container format into an Index.
type Codec interface {
	// Name identifies the format, and doubles as the dispatch class of its archive nodes.
	Name() string
	// Open decodes the member index of the container held in the byte source.
	Open(ra io.ReaderAt, size int64, opts OpenOptions) (Index, error)
}

// A PasswordFunc asks the user for an archive password.
type PasswordFunc func(prompt string) (string, error)

// OpenOptions carries session-level collaboration points into codec opens.
type OpenOptions struct {
	// Password is consulted when a container turns out to be password-protected; nil means
	// password-protected containers can't be opened.
	Password PasswordFunc
}

// handle owns the decoded index of one container. It is shared between the container's root node
// and all nested nodes derived from it, and cycles between closed and open as the session enters
// and leaves the container's subtree.
type handle struct {
	name  string
	codec Codec
	src   paths.Source
	opts  OpenOptions

	index Index
	file  *os.File // non-nil while open iff the source is filesystem-backed
}

func (h *handle) open() error {
	if h.index != nil {
		return nil
	}
	var ra io.ReaderAt
	var size int64
	if pathed, ok := h.src.(paths.OSPathed); ok {
		file, err := os.Open(pathed.OSPath())
		if err != nil {
			return errors.Wrapf(err, "couldn't open archive file %s", h.name)
		}
		info, err := file.Stat()
		if err != nil {
			_ = file.Close()
			return errors.Wrapf(err, "couldn't stat archive file %s", h.name)
		}
		h.file = file
		ra = file
		size = info.Size()
	} else {
		// The container lives inside another container, so its bytes are materialized in
		// memory; the codec gets random access without anything touching the disk.
		rc, err := h.src.Open()
		if err != nil {
			return errors.Wrapf(err, "couldn't open nested archive %s", h.name)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return errors.Wrapf(err, "couldn't buffer nested archive %s", h.name)
		}
		ra = bytes.NewReader(data)
		size = int64(len(data))
	}

	index, err := h.codec.Open(ra, size, h.opts)
	if err != nil {
		if h.file != nil {
			_ = h.file.Close()
			h.file = nil
		}
		return errors.Wrapf(err, "couldn't decode archive %s", h.name)
	}
	h.index = index
	return nil
}

func (h *handle) close() error {
	var err error
	if h.index != nil {
		err = h.index.Close()
		h.index = nil
	}
	if h.file != nil {
		if closeErr := h.file.Close(); err == nil {
			err = closeErr
		}
		h.file = nil
	}
	return errors.Wrapf(err, "couldn't close archive %s", h.name)
}

// An ArchivePath is a virtual directory over a container's members at one internal prefix. The
// container's root node has prefix ""; entering a directory member yields a node sharing the same
// handle with a one-level-deeper prefix.
type ArchivePath struct {
	name     string
	segments []string
	h        *handle
	prefix   string
	table    *paths.Table
}

// New makes the root ArchivePath for the container held in the byte source. The handle stays
// closed until the node is first entered or listed.
func New(
	name string, segments []string, src paths.Source, codec Codec, table *paths.Table,
	opts OpenOptions,
) *ArchivePath {
	return &ArchivePath{
		name:     name,
		segments: slices.Clone(segments),
		h: &handle{
			name:  name,
			codec: codec,
			src:   src,
			opts:  opts,
		},
		table: table,
	}
}

func (a *ArchivePath) Name() string {
	return a.name
}

func (a *ArchivePath) Kind() paths.Kind {
	return paths.KindVirtualDir
}

func (a *ArchivePath) Class() string {
	return a.h.codec.Name()
}

func (a *ArchivePath) Segments() []string {
	return slices.Clone(a.segments)
}

// Enter decodes the container's member index if the handle isn't already open.
func (a *ArchivePath) Enter() error {
	return a.h.open()
}

// List derives the children at this node's prefix from the flat member index: every member
// exactly one level below the prefix becomes a child, and intermediate directories are inferred
// from deeper member paths even when the container format doesn't list them explicitly.
func (a *ArchivePath) List() ([]paths.Path, error) {
	if err := a.Enter(); err != nil {
		return nil, err
	}
	prefix := a.prefix
	if prefix != "" {
		prefix += "/"
	}

	dirs := make(structures.Set[string])
	files := make(map[string]Member)
	for _, m := range a.h.index.Members() {
		rel, ok := strings.CutPrefix(m.Path, prefix)
		if !ok || rel == "" {
			continue
		}
		switch i := strings.IndexByte(rel, '/'); {
		case i >= 0:
			dirs.Add(rel[:i])
		case m.Dir:
			dirs.Add(rel)
		default:
			files[rel] = m
		}
	}

	children := make([]paths.Path, 0, len(dirs)+len(files))
	for _, name := range structures.Sorted(dirs) {
		children = append(children, &ArchivePath{
			name:     name,
			segments: append(a.Segments(), name),
			h:        a.h,
			prefix:   path.Join(a.prefix, name),
			table:    a.table,
		})
	}
	for name, m := range files {
		if dirs.Has(name) {
			continue
		}
		segments := append(a.Segments(), name)
		src := &memberSource{h: a.h, member: m.Path}
		if container, ok := a.table.Container(name, segments, src); ok {
			children = append(children, container)
			continue
		}
		children = append(children, a.table.File(name, segments, m.Size, src))
	}
	paths.SortChildren(children)
	return children, nil
}

// Resolve looks up one immediate child by name.
func (a *ArchivePath) Resolve(name string) (paths.Path, error) {
	children, err := a.List()
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if child.Name() == name {
			return child, nil
		}
	}
	return nil, errors.Wrapf(paths.ErrNotFound, "no member %s under %s in %s",
		name, a.prefix, a.h.name)
}

// Close releases the container handle. Only the container's root node actually closes; nested
// nodes share the handle, which stays open until navigation leaves the whole subtree.
func (a *ArchivePath) Close() error {
	if a.prefix != "" {
		return nil
	}
	return a.h.close()
}

// memberSource extracts one member's bytes on demand, satisfying the file-content contract for
// nodes inside containers.
type memberSource struct {
	h      *handle
	member string
}

func (s *memberSource) Open() (io.ReadCloser, error) {
	if err := s.h.open(); err != nil {
		return nil, err
	}
	rc, err := s.h.index.Extract(s.member)
	return rc, errors.Wrapf(err, "couldn't extract %s from %s", s.member, s.h.name)
}

// NormalizeMemberPath converts a container's internal member path to the canonical form used
// throughout this package: forward slashes, no leading or trailing separators, no "." segments.
// The root itself normalizes to "".
func NormalizeMemberPath(memberPath string) string {
	normalized := path.Clean(strings.ReplaceAll(memberPath, `\`, "/"))
	normalized = strings.TrimPrefix(normalized, "/")
	if normalized == "." {
		return ""
	}
	return normalized
}
