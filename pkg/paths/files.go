package paths

import (
	"bytes"
	"io"
	"slices"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// fileNode holds the attributes shared by every file node. The concrete types differ only in how
// they open their content.
type fileNode struct {
	name     string
	segments []string
	class    string
	size     int64
	src      Source
}

func (f fileNode) Name() string {
	return f.name
}

func (f fileNode) Kind() Kind {
	return KindFile
}

func (f fileNode) Class() string {
	return f.class
}

func (f fileNode) Segments() []string {
	return slices.Clone(f.segments)
}

func (f fileNode) Size() int64 {
	return f.size
}

// A TextFile is a file read as text. Opening it validates the encoding up front, so a stream
// obtained from Open never yields undecodable bytes.
type TextFile struct {
	fileNode
}

// NewTextFile makes a TextFile node; it satisfies [FileCtor].
func NewTextFile(name string, segments []string, class string, size int64, src Source) File {
	return TextFile{fileNode{
		name:     name,
		segments: slices.Clone(segments),
		class:    class,
		size:     size,
		src:      src,
	}}
}

// Open returns the file's content, decoded as UTF-8.
func (f TextFile) Open() (io.ReadCloser, error) {
	raw, err := f.src.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't open text file %s", f.name)
	}
	defer func() {
		_ = raw.Close()
	}()
	content, err := io.ReadAll(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't read text file %s", f.name)
	}
	if !utf8.Valid(content) {
		return nil, errors.Wrapf(ErrDecode, "%s is not valid utf-8 text", f.name)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

// A BinaryFile is a file read as raw bytes, with no decoding.
type BinaryFile struct {
	fileNode
}

// NewBinaryFile makes a BinaryFile node; it satisfies [FileCtor].
func NewBinaryFile(name string, segments []string, class string, size int64, src Source) File {
	return BinaryFile{fileNode{
		name:     name,
		segments: slices.Clone(segments),
		class:    class,
		size:     size,
		src:      src,
	}}
}

// Open returns the file's raw content.
func (f BinaryFile) Open() (io.ReadCloser, error) {
	rc, err := f.src.Open()
	return rc, errors.Wrapf(err, "couldn't open binary file %s", f.name)
}

// A GenericFile is a file opened by an external program chosen for its class (images, PDFs,
// videos, and anything else without a dedicated node type).
type GenericFile struct {
	fileNode
	program string
}

// NewGenericFile makes a GenericFile node which launches the given program, or reports
// [ErrNoHandler] on launch if the program is empty.
func NewGenericFile(
	name string, segments []string, class string, size int64, src Source, program string,
) File {
	return GenericFile{
		fileNode: fileNode{
			name:     name,
			segments: slices.Clone(segments),
			class:    class,
			size:     size,
			src:      src,
		},
		program: program,
	}
}

// Open returns the file's raw content, for commands which read it inline anyway.
func (f GenericFile) Open() (io.ReadCloser, error) {
	rc, err := f.src.Open()
	return rc, errors.Wrapf(err, "couldn't open file %s", f.name)
}

// Launch opens the file in its class's external program.
func (f GenericFile) Launch(l Launcher) error {
	if f.program == "" {
		return errors.Wrapf(ErrNoHandler, "no opener program is configured for class %s", f.class)
	}
	return l.Launch(f.program, f.src, f.name)
}
