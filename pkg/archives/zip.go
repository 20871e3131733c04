package archives

import (
	"archive/zip"
	"io"

	"github.com/pkg/errors"

	"github.com/nbrowse-run/nbrowse/pkg/paths"
)

// A ZipCodec decodes zip containers with the standard library.
type ZipCodec struct{}

func (ZipCodec) Name() string {
	return "zip"
}

func (ZipCodec) Open(ra io.ReaderAt, size int64, _ OpenOptions) (Index, error) {
	reader, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, errors.Wrap(paths.ErrUnreadableArchive, err.Error())
	}

	index := &zipIndex{
		byPath: make(map[string]*zip.File, len(reader.File)),
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

type zipIndex struct {
	members []Member
	byPath  map[string]*zip.File
}

func (x *zipIndex) Members() []Member {
	return x.members
}

func (x *zipIndex) Extract(memberPath string) (io.ReadCloser, error) {
	file, ok := x.byPath[memberPath]
	if !ok {
		return nil, errors.Wrapf(paths.ErrMemberNotFound, "no file member %s", memberPath)
	}
	rc, err := file.Open()
	if err != nil {
		if errors.Is(err, zip.ErrAlgorithm) {
			return nil, errors.Wrap(paths.ErrUnsupportedFormat, err.Error())
		}
		return nil, err
	}
	return rc, nil
}

func (x *zipIndex) Close() error {
	return nil
}
