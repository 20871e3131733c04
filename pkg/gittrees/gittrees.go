// Package gittrees presents the HEAD tree of a git repository as a virtual directory, so a
// repository (or a bare .git directory) can be browsed like a folder of its committed files.
// It implements the same navigation contract as real directories and archives.
package gittrees

import (
	"io"
	"slices"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"

	"github.com/nbrowse-run/nbrowse/pkg/paths"
)

// handle owns the resolved HEAD tree of one repository, shared between the repository's root
// node and all subtree nodes derived from it.
type handle struct {
	name   string
	osPath string
	tree   *object.Tree
}

func (h *handle) open() error {
	if h.tree != nil {
		return nil
	}
	repo, err := git.PlainOpen(h.osPath)
	if err != nil {
		return errors.Wrapf(paths.ErrUnreadableArchive,
			"couldn't open git repository %s: %s", h.osPath, err)
	}
	head, err := repo.Head()
	if err != nil {
		return errors.Wrapf(paths.ErrUnreadableArchive,
			"couldn't resolve HEAD of %s: %s", h.osPath, err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return errors.Wrapf(err, "couldn't load HEAD commit of %s", h.osPath)
	}
	tree, err := commit.Tree()
	if err != nil {
		return errors.Wrapf(err, "couldn't load HEAD tree of %s", h.osPath)
	}
	h.tree = tree
	return nil
}

func (h *handle) close() {
	h.tree = nil
}

// subtree returns the tree at the given slash-separated prefix, or the root tree for "".
func (h *handle) subtree(prefix string) (*object.Tree, error) {
	if prefix == "" {
		return h.tree, nil
	}
	tree, err := h.tree.Tree(prefix)
	if err != nil {
		return nil, errors.Wrapf(paths.ErrNotFound, "no tree %s in %s: %s", prefix, h.name, err)
	}
	return tree, nil
}

// A TreePath is a virtual directory over one directory of a repository's HEAD tree.
type TreePath struct {
	name     string
	segments []string
	h        *handle
	prefix   string
	table    *paths.Table
}

// New makes the root TreePath for the repository at the given OS path. The repository isn't
// opened until the node is first entered or listed.
func New(name string, segments []string, osPath string, table *paths.Table) *TreePath {
	return &TreePath{
		name:     name,
		segments: slices.Clone(segments),
		h: &handle{
			name:   name,
			osPath: osPath,
		},
		table: table,
	}
}

// Register binds repository directories (names ending in .git) to TreePath nodes in the dispatch
// table. This is part of table assembly at session start.
func Register(table *paths.Table) {
	table.RegisterDirContainer(".git", func(name string, segments []string, osPath string) paths.Dir {
		return New(name, segments, osPath, table)
	})
}

func (p *TreePath) Name() string {
	return p.name
}

func (p *TreePath) Kind() paths.Kind {
	return paths.KindVirtualDir
}

func (p *TreePath) Class() string {
	return "git"
}

func (p *TreePath) Segments() []string {
	return slices.Clone(p.segments)
}

// Enter resolves the repository's HEAD tree if it isn't already resolved.
func (p *TreePath) Enter() error {
	return p.h.open()
}

// List returns the tree entries at this node's prefix as child nodes. Blobs go through the same
// dispatch table as real files, so archives committed into a repository stay browsable.
func (p *TreePath) List() ([]paths.Path, error) {
	if err := p.Enter(); err != nil {
		return nil, err
	}
	tree, err := p.h.subtree(p.prefix)
	if err != nil {
		return nil, err
	}

	children := make([]paths.Path, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		segments := append(p.Segments(), entry.Name)
		switch entry.Mode {
		case filemode.Dir:
			prefix := entry.Name
			if p.prefix != "" {
				prefix = p.prefix + "/" + entry.Name
			}
			children = append(children, &TreePath{
				name:     entry.Name,
				segments: segments,
				h:        p.h,
				prefix:   prefix,
				table:    p.table,
			})
		case filemode.Submodule:
			// Submodule contents aren't in this repository's object store.
			continue
		default:
			var size int64
			if file, err := tree.TreeEntryFile(&entry); err == nil {
				size = file.Blob.Size
			}
			src := &blobSource{h: p.h, path: blobPath(p.prefix, entry.Name)}
			if container, ok := p.table.Container(entry.Name, segments, src); ok {
				children = append(children, container)
				continue
			}
			children = append(children, p.table.File(entry.Name, segments, size, src))
		}
	}
	paths.SortChildren(children)
	return children, nil
}

// Resolve looks up one immediate child by name.
func (p *TreePath) Resolve(name string) (paths.Path, error) {
	children, err := p.List()
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if child.Name() == name {
			return child, nil
		}
	}
	return nil, errors.Wrapf(paths.ErrNotFound, "no entry %s under %s in %s",
		name, p.prefix, p.h.name)
}

// Close drops the resolved tree. Only the repository's root node closes; subtree nodes share the
// handle.
func (p *TreePath) Close() error {
	if p.prefix == "" {
		p.h.close()
	}
	return nil
}

// blobSource reads one blob out of the repository's HEAD tree on demand.
type blobSource struct {
	h    *handle
	path string
}

func (s *blobSource) Open() (io.ReadCloser, error) {
	if err := s.h.open(); err != nil {
		return nil, err
	}
	file, err := s.h.tree.File(s.path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, errors.Wrapf(paths.ErrMemberNotFound, "no blob %s in %s",
				s.path, s.h.name)
		}
		return nil, errors.Wrapf(err, "couldn't look up blob %s in %s", s.path, s.h.name)
	}
	reader, err := file.Reader()
	return reader, errors.Wrapf(err, "couldn't read blob %s in %s", s.path, s.h.name)
}

func blobPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
