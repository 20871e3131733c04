package nbrowse

import (
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/nbrowse-run/nbrowse/internal/clients/cli"
	"github.com/nbrowse-run/nbrowse/internal/clients/launch"
	"github.com/nbrowse-run/nbrowse/pkg/archives"
	"github.com/nbrowse-run/nbrowse/pkg/gittrees"
	"github.com/nbrowse-run/nbrowse/pkg/paths"
)

// SessionOptions configures a new browsing session.
type SessionOptions struct {
	// Root is the OS path which becomes the session's navigation root; ".." never escapes it.
	Root string
	// Start is the OS path of the initial location. It must be inside Root; empty means Root.
	Start string
	// Color enables colored output when the config doesn't say otherwise.
	Color bool
	// Out receives all command output.
	Out io.Writer
	// Config holds the loaded session configuration.
	Config Config
}

// A Session is the dispatcher at the heart of the browser: it owns the dispatch table, the
// launcher for external programs, and the trail of entered directories from the navigation root
// down to the current location. All navigation goes through the trail, so the session can close
// archive and repository handles as soon as they're no longer on the way to the current location.
type Session struct {
	rootOS     string
	start      []string
	trail      []paths.Dir
	table      *paths.Table
	launcher   *launch.Launcher
	out        io.Writer
	theme      cli.Theme
	commands   map[string]CommandFunc
	passwordFn archives.PasswordFunc
}

// NewSession builds a session rooted at opts.Root and navigates it to opts.Start. The dispatch
// table is assembled from the built-in defaults, the config's overrides, and the archive and git
// tree handlers.
func NewSession(opts SessionOptions) (*Session, error) {
	rootOS, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't resolve root %s", opts.Root)
	}
	s := &Session{
		rootOS:   rootOS,
		out:      opts.Out,
		theme:    cli.Theme{Enabled: opts.Config.ColorEnabled(opts.Color)},
		launcher: launch.NewLauncher(opts.Config.Foreground),
		commands: builtinCommands(),
	}
	table := paths.DefaultTable()
	if err = table.Apply(opts.Config.Overrides()); err != nil {
		return nil, errors.Wrap(err, "couldn't apply config overrides")
	}
	archives.Register(table, archives.OpenOptions{Password: s.askPassword})
	gittrees.Register(table)
	s.table = table

	root := paths.NewRoot(rootOS, table)
	if err = root.Enter(); err != nil {
		return nil, errors.Wrapf(err, "couldn't enter root %s", rootOS)
	}
	s.trail = []paths.Dir{root}

	if opts.Start != "" {
		startOS, err := filepath.Abs(opts.Start)
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't resolve start %s", opts.Start)
		}
		rel, err := filepath.Rel(rootOS, startOS)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, errors.Errorf("start %s is outside root %s", startOS, rootOS)
		}
		if rel != "." {
			if err = s.Navigate(filepath.ToSlash(rel)); err != nil {
				return nil, errors.Wrapf(err, "couldn't enter start %s", startOS)
			}
		}
	}
	s.start = slices.Clone(s.Current().Segments())
	return s, nil
}

// Current returns the session's current location, the last entry of the trail.
func (s *Session) Current() paths.Dir {
	return s.trail[len(s.trail)-1]
}

// PWD returns the current location as an OS-style path rooted at the session root. Locations
// inside archives and repository trees extend the path of their containing file.
func (s *Session) PWD() string {
	return filepath.Join(append([]string{s.rootOS}, s.Current().Segments()...)...)
}

// SetPasswordFunc installs the interactive prompt used when an encrypted archive asks for a
// password. Without one, encrypted archives fail to open.
func (s *Session) SetPasswordFunc(fn archives.PasswordFunc) {
	s.passwordFn = fn
}

func (s *Session) askPassword(prompt string) (string, error) {
	if s.passwordFn == nil {
		return "", errors.New("no password input available")
	}
	return s.passwordFn(prompt)
}

// RegisterCommand adds a shell command to the session, replacing any builtin of the same name.
func (s *Session) RegisterCommand(name string, fn CommandFunc) {
	s.commands[name] = fn
}

// locate resolves name relative to the current location and returns the resolved node together
// with the trail leading to it (including the node itself when it's a directory). The session's
// own trail is left untouched; names starting with "/" resolve from the session root, and ".."
// steps to the parent without ever leaving the root.
//
// Resolving through an archive opens its handle, so the returned trail owns resources: callers
// must either commit it or pass it to releaseTrail once done with the node. On error the trail
// built so far is released here.
func (s *Session) locate(name string) (paths.Path, []paths.Dir, error) {
	trail := slices.Clone(s.trail)
	if strings.HasPrefix(name, "/") {
		trail = trail[:1]
	}
	segments := strings.Split(name, "/")
	for i, segment := range segments {
		switch segment {
		case "", ".":
			continue
		case "..":
			if len(trail) == 1 {
				s.releaseTrail(trail)
				return nil, nil, errors.New("already at the root")
			}
			trail = trail[:len(trail)-1]
			continue
		}
		child, err := trail[len(trail)-1].Resolve(segment)
		if err != nil {
			s.releaseTrail(trail)
			return nil, nil, err
		}
		if dir, ok := child.(paths.Dir); ok {
			trail = append(trail, dir)
			continue
		}
		if i < len(segments)-1 {
			s.releaseTrail(trail)
			return nil, nil, errors.Wrapf(paths.ErrNotADirectory, "couldn't descend into %s", segment)
		}
		return child, trail, nil
	}
	return trail[len(trail)-1], trail, nil
}

// releaseTrail closes, from the deepest up, every directory of a temporary trail which the
// session's own trail doesn't share, so handles opened only for a lookup don't outlive it.
func (s *Session) releaseTrail(trail []paths.Dir) {
	for i := len(trail) - 1; i >= 0; i-- {
		if !slices.Contains(s.trail, trail[i]) {
			trail[i].Close()
		}
	}
}

// commit replaces the session trail, closing every dropped directory from the deepest up.
// Closing is safe for shared archive handles: only the node holding the whole archive releases
// the underlying reader.
func (s *Session) commit(trail []paths.Dir) {
	for i := len(s.trail) - 1; i >= 0; i-- {
		if !slices.Contains(trail, s.trail[i]) {
			s.trail[i].Close()
		}
	}
	s.trail = trail
}

// Navigate makes the directory named by name the current location. On any error the current
// location is left unchanged.
func (s *Session) Navigate(name string) error {
	node, trail, err := s.locate(name)
	if err != nil {
		return err
	}
	dir, ok := node.(paths.Dir)
	if !ok {
		s.releaseTrail(trail)
		return errors.Wrapf(paths.ErrNotADirectory, "couldn't enter %s", node.Name())
	}
	if err = dir.Enter(); err != nil {
		s.releaseTrail(trail)
		return err
	}
	s.commit(trail)
	return nil
}

// NavigateStart returns to the session's initial location.
func (s *Session) NavigateStart() error {
	return s.Navigate("/" + strings.Join(s.start, "/"))
}

// Refresh re-resolves the current location from the root, picking up external changes to the
// underlying filesystem. If the location no longer exists the trail is left unchanged and the
// error wraps ErrBrokenReference; other failures (e.g. a permission change) keep their own
// cause so callers can tell staleness from transient trouble.
func (s *Session) Refresh() error {
	segments := s.Current().Segments()
	trail := slices.Clone(s.trail[:1])
	for _, segment := range segments {
		child, err := trail[len(trail)-1].Resolve(segment)
		if err != nil {
			s.releaseTrail(trail)
			if errors.Is(err, paths.ErrNotFound) {
				return errors.Wrapf(paths.ErrBrokenReference,
					"couldn't re-resolve %s: %s", segment, err)
			}
			return err
		}
		dir, ok := child.(paths.Dir)
		if !ok {
			s.releaseTrail(trail)
			return errors.Wrapf(paths.ErrBrokenReference, "%s is no longer a directory", segment)
		}
		if err = dir.Enter(); err != nil {
			s.releaseTrail(trail)
			if errors.Is(err, paths.ErrNotFound) || errors.Is(err, paths.ErrNotADirectory) {
				return errors.Wrapf(paths.ErrBrokenReference,
					"couldn't re-enter %s: %s", segment, err)
			}
			return err
		}
		trail = append(trail, dir)
	}
	s.commit(trail)
	return nil
}

// Execute parses a shell line and runs the named command. Unknown commands are reported as an
// error without changing session state.
func (s *Session) Execute(line string) error {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil
	}
	command, ok := s.commands[tokens[0]]
	if !ok {
		return errors.Errorf("invalid command %s", tokens[0])
	}
	return command(s, tokens[1:])
}

// Cleanup closes the trail from the deepest location up and removes any temporary files
// materialized for external programs.
func (s *Session) Cleanup() error {
	for i := len(s.trail) - 1; i >= 0; i-- {
		s.trail[i].Close()
	}
	s.trail = s.trail[:1]
	return s.launcher.Cleanup()
}
