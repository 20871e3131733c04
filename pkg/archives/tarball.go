package archives

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"github.com/pkg/errors"

	"github.com/nbrowse-run/nbrowse/pkg/paths"
)

// A TarballCodec decodes tar containers, optionally gzip-compressed. Whether decompression is
// needed is decided by magic bytes, not by filename, so .tar and .tar.gz/.tgz share one codec.
type TarballCodec struct{}

func (TarballCodec) Name() string {
	return "tarball"
}

func (TarballCodec) Open(ra io.ReaderAt, size int64, _ OpenOptions) (Index, error) {
	head := make([]byte, 262)
	n, err := ra.ReadAt(head, 0)
	if err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "couldn't read container head")
	}
	kind, err := filetype.Match(head[:n])
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't determine container type")
	}
	index := &tarballIndex{
		ra:   ra,
		size: size,
	}
	switch kind {
	case matchers.TypeGz:
		index.compressed = true
	case matchers.TypeTar:
	default:
		return nil, errors.Wrapf(paths.ErrUnreadableArchive,
			"unrecognized container file type: %s", kind.MIME.Value)
	}

	// Tar has no central directory, so the whole stream is scanned once to build the index.
	if err := index.scan(func(header *tar.Header, _ *tar.Reader) (stop bool, err error) {
		memberPath := NormalizeMemberPath(header.Name)
		if memberPath == "" {
			return false, nil
		}
		switch header.Typeflag {
		case tar.TypeDir:
			index.members = append(index.members, Member{Path: memberPath, Dir: true})
		case tar.TypeReg:
			index.members = append(index.members, Member{Path: memberPath, Size: header.Size})
		}
		return false, nil
	}); err != nil {
		return nil, errors.Wrap(paths.ErrUnreadableArchive, err.Error())
	}
	return index, nil
}

type tarballIndex struct {
	ra         io.ReaderAt
	size       int64
	compressed bool
	members    []Member
}

func (x *tarballIndex) Members() []Member {
	return x.members
}

// Extract re-reads the stream up to the requested member. Tar is sequential, so members are
// buffered rather than streamed to keep extraction independent of stream position.
func (x *tarballIndex) Extract(memberPath string) (io.ReadCloser, error) {
	var content []byte
	found := false
	if err := x.scan(func(header *tar.Header, r *tar.Reader) (stop bool, err error) {
		if header.Typeflag != tar.TypeReg || NormalizeMemberPath(header.Name) != memberPath {
			return false, nil
		}
		found = true
		content, err = io.ReadAll(r)
		return true, errors.Wrapf(err, "couldn't read member %s", memberPath)
	}); err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(paths.ErrMemberNotFound, "no file member %s", memberPath)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (x *tarballIndex) Close() error {
	return nil
}

// scan walks the tar stream from the start, calling fn for each header until fn stops the walk
// or the stream ends.
func (x *tarballIndex) scan(fn func(header *tar.Header, r *tar.Reader) (bool, error)) error {
	var stream io.Reader = io.NewSectionReader(x.ra, 0, x.size)
	if x.compressed {
		uncompressed, err := gzip.NewReader(stream)
		if err != nil {
			return errors.Wrapf(err, "couldn't create a gzip decompressor")
		}
		defer func() {
			_ = uncompressed.Close()
		}()
		stream = uncompressed
	}
	tarReader := tar.NewReader(stream)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "couldn't walk tar stream")
		}
		stop, err := fn(header, tarReader)
		if err != nil || stop {
			return err
		}
	}
}
