package nbrowse

import (
	"fmt"
	"io"
	"math/rand/v2"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	units "github.com/docker/go-units"
	"github.com/pkg/errors"

	"github.com/nbrowse-run/nbrowse/internal/clients/cli"
	"github.com/nbrowse-run/nbrowse/pkg/paths"
	"github.com/nbrowse-run/nbrowse/pkg/structures"
)

// A CommandFunc implements a shell command. It receives the session and the whitespace-split
// arguments after the command name.
type CommandFunc func(s *Session, args []string) error

func builtinCommands() map[string]CommandFunc {
	return map[string]CommandFunc{
		"ls":      lsCommand,
		"cd":      cdCommand,
		"pwd":     pwdCommand,
		"open":    openCommand,
		"cat":     catCommand,
		"type":    typeCommand,
		"find":    findCommand,
		"echo":    echoCommand,
		"recho":   rechoCommand,
		"ropen":   ropenCommand,
		"refresh": refreshCommand,
		"help":    helpCommand,
	}
}

// lsCommand lists the current location's children. "-l" switches to a long listing with class
// and size columns; any other arguments are glob patterns which filter the listing by name.
func lsCommand(s *Session, args []string) error {
	long := false
	patterns := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "-l" {
			long = true
			continue
		}
		patterns = append(patterns, arg)
	}

	children, err := s.Current().List()
	if err != nil {
		return err
	}
	matched := make([]paths.Path, 0, len(children))
	for _, child := range children {
		ok, err := matchesAny(patterns, child.Name())
		if err != nil {
			return err
		}
		if ok {
			matched = append(matched, child)
		}
	}

	if !long {
		names := make([]string, 0, len(matched))
		for _, child := range matched {
			names = append(names, s.theme.Paint(cli.QuoteName(child.Name()), child))
		}
		if len(names) > 0 {
			fmt.Fprintln(s.out, strings.Join(names, "  "))
		}
		return nil
	}
	for _, child := range matched {
		size := "-"
		if sizer, ok := child.(paths.Sizer); ok {
			size = units.HumanSize(float64(sizer.Size()))
		}
		fmt.Fprintf(
			s.out, "%-12s %10s  %s\n",
			child.Class(), size, s.theme.Paint(cli.QuoteName(child.Name()), child),
		)
	}
	return nil
}

func matchesAny(patterns []string, name string) (bool, error) {
	if len(patterns) == 0 {
		return true, nil
	}
	for _, pattern := range patterns {
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return false, errors.Wrapf(err, "couldn't match pattern %s", pattern)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// cdCommand changes the current location. Without arguments it returns to the session's
// starting location.
func cdCommand(s *Session, args []string) error {
	if len(args) == 0 {
		return s.NavigateStart()
	}
	return s.Navigate(strings.Join(args, " "))
}

func pwdCommand(s *Session, args []string) error {
	fmt.Fprintln(s.out, s.PWD())
	return nil
}

// openCommand opens the named path the way its kind demands: directories are entered, files
// with an external opener are launched, and everything else is printed like cat.
func openCommand(s *Session, args []string) error {
	if len(args) == 0 {
		return errors.New("open needs a path")
	}
	name := strings.Join(args, " ")
	node, trail, err := s.locate(name)
	if err != nil {
		return err
	}
	if dir, ok := node.(paths.Dir); ok {
		if err = dir.Enter(); err != nil {
			s.releaseTrail(trail)
			return err
		}
		s.commit(trail)
		return nil
	}
	// The node's content is read before the lookup's archive handles are released.
	defer s.releaseTrail(trail)
	if launchable, ok := node.(paths.Launchable); ok {
		return launchable.Launch(s.launcher)
	}
	return printFile(s, node)
}

func catCommand(s *Session, args []string) error {
	if len(args) == 0 {
		return errors.New("cat needs a path")
	}
	node, trail, err := s.locate(strings.Join(args, " "))
	if err != nil {
		return err
	}
	defer s.releaseTrail(trail)
	return printFile(s, node)
}

func printFile(s *Session, node paths.Path) error {
	file, ok := node.(paths.File)
	if !ok {
		return errors.Wrapf(paths.ErrNotAFile, "couldn't read %s", node.Name())
	}
	reader, err := file.Open()
	if err != nil {
		return err
	}
	defer reader.Close()
	if _, err = io.Copy(s.out, reader); err != nil {
		return errors.Wrapf(err, "couldn't read %s", node.Name())
	}
	fmt.Fprintln(s.out)
	return nil
}

// typeCommand reports how the dispatcher sees the named path: its kind and its dispatch class.
func typeCommand(s *Session, args []string) error {
	name := "."
	if len(args) > 0 {
		name = strings.Join(args, " ")
	}
	node, trail, err := s.locate(name)
	if err != nil {
		return err
	}
	s.releaseTrail(trail)
	fmt.Fprintf(s.out, "%s: %s %s\n", node.Name(), kindName(node.Kind()), node.Class())
	return nil
}

func kindName(kind paths.Kind) string {
	switch kind {
	case paths.KindDir:
		return "directory"
	case paths.KindVirtualDir:
		return "virtual directory"
	default:
		return "file"
	}
}

// findCommand walks the tree under the current location and prints every relative path matching
// the glob pattern (default "*", "**" spans directories). Directories opened during the walk are
// closed on the way back up.
func findCommand(s *Session, args []string) error {
	pattern := "**"
	if len(args) > 0 {
		pattern = args[0]
	}
	return findUnder(s, s.Current(), "", pattern)
}

func findUnder(s *Session, dir paths.Dir, prefix string, pattern string) error {
	children, err := dir.List()
	if err != nil {
		return err
	}
	for _, child := range children {
		rel := path.Join(prefix, child.Name())
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return errors.Wrapf(err, "couldn't match pattern %s", pattern)
		}
		if ok {
			fmt.Fprintln(s.out, s.theme.Paint(rel, child))
		}
		sub, isDir := child.(paths.Dir)
		if !isDir {
			continue
		}
		if err = sub.Enter(); err != nil {
			fmt.Fprintf(s.out, "%s: %s\n", rel, err)
			continue
		}
		err = findUnder(s, sub, rel, pattern)
		sub.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func echoCommand(s *Session, args []string) error {
	fmt.Fprintln(s.out, strings.Join(args, " "))
	return nil
}

func rechoCommand(s *Session, args []string) error {
	fmt.Fprintf(s.out, "%q\n", strings.Join(args, " "))
	return nil
}

// ropenCommand opens a randomly-chosen child of the current location.
func ropenCommand(s *Session, args []string) error {
	children, err := s.Current().List()
	if err != nil {
		return err
	}
	if len(children) == 0 {
		return errors.New("nothing here to open")
	}
	chosen := children[rand.IntN(len(children))]
	fmt.Fprintf(s.out, "Opening %s...\n", s.theme.Paint(chosen.Name(), chosen))
	return openCommand(s, []string{chosen.Name()})
}

func refreshCommand(s *Session, args []string) error {
	return s.Refresh()
}

func helpCommand(s *Session, args []string) error {
	names := make(structures.Set[string])
	for name := range s.commands {
		names.Add(name)
	}
	names.Add("exit")
	fmt.Fprintln(s.out, "Available commands:")
	indented := cli.NewIndentedWriter(1, s.out)
	for _, name := range structures.Sorted(names) {
		fmt.Fprintln(indented, name)
	}
	return nil
}
