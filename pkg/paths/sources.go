package paths

import (
	"io"
	"os"
	"path/filepath"
)

// A FileSource reads a real file on the filesystem.
type FileSource struct {
	path string
}

// NewFileSource makes a FileSource for the file at the given OS path.
func NewFileSource(osPath string) FileSource {
	return FileSource{path: filepath.Clean(osPath)}
}

// Open returns a readable stream over the file's content.
func (s FileSource) Open() (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, classifyOSError(err)
	}
	return f, nil
}

// OSPath returns the location of the file on the filesystem, so external programs can be pointed
// at it without copying.
func (s FileSource) OSPath() string {
	return s.path
}
