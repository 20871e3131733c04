package archives

import (
	"github.com/nbrowse-run/nbrowse/pkg/paths"
)

// Register binds the built-in container formats to their filename suffixes in the dispatch
// table. This is part of table assembly at session start.
func Register(table *paths.Table, opts OpenOptions) {
	codecs := map[string]Codec{
		".7z":     SevenZipCodec{},
		".zip":    ZipCodec{},
		".tar":    TarballCodec{},
		".tar.gz": TarballCodec{},
		".tgz":    TarballCodec{},
	}
	for suffix, codec := range codecs {
		table.RegisterContainer(suffix, func(name string, segments []string, src paths.Source) paths.Dir {
			return New(name, segments, src, codec, table, opts)
		})
	}
}
