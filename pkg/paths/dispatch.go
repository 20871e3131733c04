package paths

import (
	"sort"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"github.com/pkg/errors"
)

// A FileCtor constructs the concrete file node for one dispatch class.
type FileCtor func(name string, segments []string, class string, size int64, src Source) File

// A ContainerCtor constructs a virtual directory over a byte source, e.g. an archive node over
// the archive file's content. The source may itself live inside another container.
type ContainerCtor func(name string, segments []string, src Source) Dir

// A DirContainerCtor constructs a virtual directory over a real directory on the filesystem,
// e.g. a git repository's tree over its .git directory.
type DirContainerCtor func(name string, segments []string, osPath string) Dir

// Overrides layer caller configuration over a table's built-in defaults. On key collision the
// override wins.
type Overrides struct {
	// Classes maps a filename extension (with or without the leading dot) to a dispatch class.
	Classes map[string]string
	// Openers maps a dispatch class to the external program which opens files of that class.
	Openers map[string]string
}

type containerRule struct {
	suffix string
	ctor   ContainerCtor
}

type dirContainerRule struct {
	suffix string
	ctor   DirContainerCtor
}

// A Table decides which concrete node type backs each directory entry. It is assembled once at
// session start — defaults, then overrides, then container registrations — and must not be
// mutated afterwards.
type Table struct {
	classes       map[string]string
	ctors         map[string]FileCtor
	openers       map[string]string
	containers    []containerRule
	dirContainers []dirContainerRule
}

// DefaultTable makes a dispatch table with the built-in extension-to-class mappings and the
// text/binary node constructors.
func DefaultTable() *Table {
	t := &Table{
		classes: map[string]string{
			".txt":  "text",
			".md":   "text",
			".log":  "text",
			".bin":  "binary",
			".jpg":  "image",
			".jpeg": "image",
			".png":  "image",
			".bmp":  "image",
			".webp": "image",
			".pdf":  "pdf",
			".mp4":  "video",
			".mkv":  "video",
			".webm": "video",
			".gif":  "video",
		},
		openers: map[string]string{},
	}
	t.ctors = map[string]FileCtor{
		"text":   NewTextFile,
		"binary": NewBinaryFile,
	}
	return t
}

// Apply merges the overrides into the table. This is part of table assembly and must happen
// before the interactive session starts.
func (t *Table) Apply(o Overrides) error {
	for ext, class := range o.Classes {
		if class == "" {
			return errors.Errorf("extension %s is mapped to an empty class", ext)
		}
		normalized := normalizeExt(ext)
		if normalized == "." {
			return errors.Errorf("empty extension is mapped to class %s", class)
		}
		t.classes[normalized] = class
	}
	for class, program := range o.Openers {
		if class == "" {
			return errors.Errorf("program %s is mapped to an empty class", program)
		}
		t.openers[class] = program
	}
	return nil
}

// RegisterClass binds a dispatch class to a concrete file node constructor, replacing the
// generic-opener fallback for that class.
func (t *Table) RegisterClass(class string, ctor FileCtor) {
	t.ctors[class] = ctor
}

// RegisterContainer binds a filename suffix (e.g. ".7z" or ".tar.gz") to a virtual-directory
// constructor for file entries with that suffix.
func (t *Table) RegisterContainer(suffix string, ctor ContainerCtor) {
	t.containers = append(t.containers, containerRule{
		suffix: strings.ToLower(suffix),
		ctor:   ctor,
	})
	// Longest suffix wins, so ".tar.gz" beats a hypothetical ".gz" rule.
	sort.SliceStable(t.containers, func(i, j int) bool {
		return len(t.containers[i].suffix) > len(t.containers[j].suffix)
	})
}

// RegisterDirContainer binds a directory-name suffix (e.g. ".git") to a virtual-directory
// constructor for real directory entries with that suffix.
func (t *Table) RegisterDirContainer(suffix string, ctor DirContainerCtor) {
	t.dirContainers = append(t.dirContainers, dirContainerRule{
		suffix: strings.ToLower(suffix),
		ctor:   ctor,
	})
	sort.SliceStable(t.dirContainers, func(i, j int) bool {
		return len(t.dirContainers[i].suffix) > len(t.dirContainers[j].suffix)
	})
}

// Classify determines the dispatch class for a filename. Extensions in the table win; unmapped
// extensions fall back to magic-database classification by extension, and anything still unknown
// is treated as text, matching the browser's default of printing file contents inline.
func (t *Table) Classify(name string) string {
	ext := strings.ToLower(ext(name))
	if class, ok := t.classes[ext]; ok {
		return class
	}
	if kind := filetype.GetType(strings.TrimPrefix(ext, ".")); kind != filetype.Unknown {
		switch {
		case kind.MIME.Type == "image":
			return "image"
		case kind.MIME.Type == "video":
			return "video"
		case kind == matchers.TypePdf:
			return "pdf"
		default:
			return "binary"
		}
	}
	return "text"
}

// Opener returns the external program configured for a dispatch class, or "" if none is.
func (t *Table) Opener(class string) string {
	return t.openers[class]
}

// File constructs the file node for a directory entry, dispatching on the entry's classified
// name. Classes without a registered constructor get a generic-opener node, never an error.
func (t *Table) File(name string, segments []string, size int64, src Source) File {
	class := t.Classify(name)
	if ctor, ok := t.ctors[class]; ok {
		return ctor(name, segments, class, size, src)
	}
	return NewGenericFile(name, segments, class, size, src, t.openers[class])
}

// Container constructs a virtual directory for a file entry whose name matches a registered
// container suffix. The second result reports whether any suffix matched.
func (t *Table) Container(name string, segments []string, src Source) (Dir, bool) {
	lower := strings.ToLower(name)
	for _, rule := range t.containers {
		if strings.HasSuffix(lower, rule.suffix) {
			return rule.ctor(name, segments, src), true
		}
	}
	return nil, false
}

// Dir constructs the directory node for a real directory entry, dispatching container suffixes
// (e.g. ".git") to their virtual-directory constructors and everything else to DirPath.
func (t *Table) Dir(name string, segments []string, osPath string) Dir {
	lower := strings.ToLower(name)
	for _, rule := range t.dirContainers {
		if strings.HasSuffix(lower, rule.suffix) {
			return rule.ctor(name, segments, osPath)
		}
	}
	return NewDirPath(name, segments, osPath, t)
}

// ext returns the filename's extension including the leading dot, like path.Ext, but treats
// dotfiles such as ".bashrc" as having no extension.
func ext(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return ""
	}
	return name[i:]
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
