package archives

import (
	"io"

	"github.com/bodgit/sevenzip"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"github.com/pkg/errors"

	"github.com/nbrowse-run/nbrowse/pkg/paths"
)

// maxPasswordAttempts bounds how often an encrypted archive re-prompts before giving up.
const maxPasswordAttempts = 3

// A SevenZipCodec decodes 7z containers, including password-protected ones.
type SevenZipCodec struct{}

func (SevenZipCodec) Name() string {
	return "7z"
}

// Open decodes the 7z member index. If plain decoding fails on a source carrying the 7z
// signature and a password callback is available, the user gets a few attempts before the
// archive is reported as unreadable. The signature gate keeps merely corrupt files from
// prompting: the backend reports encrypted headers and corrupt data with the same unexported
// errors, but garbage never has a valid signature.
func (SevenZipCodec) Open(ra io.ReaderAt, size int64, opts OpenOptions) (Index, error) {
	reader, err := sevenzip.NewReader(ra, size)
	if err != nil && opts.Password != nil && looksLikeSevenZip(ra) {
		for range maxPasswordAttempts {
			var password string
			if password, err = opts.Password("Archive password: "); err != nil {
				break
			}
			if reader, err = sevenzip.NewReaderWithPassword(ra, size, password); err == nil {
				break
			}
		}
	}
	if err != nil {
		return nil, errors.Wrap(paths.ErrUnreadableArchive, err.Error())
	}

	index := &sevenzipIndex{
		byPath: make(map[string]*sevenzip.File, len(reader.File)),
	}
	for _, file := range reader.File {
		memberPath := NormalizeMemberPath(file.Name)
		if memberPath == "" {
			continue
		}
		info := file.FileInfo()
		index.members = append(index.members, Member{
			Path: memberPath,
			Size: info.Size(),
			Dir:  info.IsDir(),
		})
		if !info.IsDir() {
			index.byPath[memberPath] = file
		}
	}
	return index, nil
}

// looksLikeSevenZip reports whether the source's magic bytes identify it as a 7z container.
func looksLikeSevenZip(ra io.ReaderAt) bool {
	head := make([]byte, 262)
	n, err := ra.ReadAt(head, 0)
	if err != nil && err != io.EOF {
		return false
	}
	kind, err := filetype.Match(head[:n])
	return err == nil && kind == matchers.Type7z
}

type sevenzipIndex struct {
	members []Member
	byPath  map[string]*sevenzip.File
}

func (x *sevenzipIndex) Members() []Member {
	return x.members
}

func (x *sevenzipIndex) Extract(memberPath string) (io.ReadCloser, error) {
	file, ok := x.byPath[memberPath]
	if !ok {
		return nil, errors.Wrapf(paths.ErrMemberNotFound, "no file member %s", memberPath)
	}
	rc, err := file.Open()
	if err != nil {
		return nil, errors.Wrap(paths.ErrUnsupportedFormat, err.Error())
	}
	return rc, nil
}

func (x *sevenzipIndex) Close() error {
	return nil
}
