package cli

import (
	"testing"

	"github.com/nbrowse-run/nbrowse/pkg/paths"
)

type fakeNode struct {
	kind  paths.Kind
	class string
}

func (n fakeNode) Name() string       { return "node" }
func (n fakeNode) Kind() paths.Kind   { return n.kind }
func (n fakeNode) Class() string      { return n.class }
func (n fakeNode) Segments() []string { return nil }

var checkPaintTests = map[string]struct {
	node paths.Path
	want string
}{
	"text files are plain": {
		node: fakeNode{kind: paths.KindFile, class: "text"},
		want: "node",
	},
	"binary files are plain": {
		node: fakeNode{kind: paths.KindFile, class: "binary"},
		want: "node",
	},
	"images are magenta": {
		node: fakeNode{kind: paths.KindFile, class: "image"},
		want: magenta + "node" + reset,
	},
	"custom opener classes are bold yellow": {
		node: fakeNode{kind: paths.KindFile, class: "music"},
		want: boldYellow + "node" + reset,
	},
	"real directories are bold blue": {
		node: fakeNode{kind: paths.KindDir, class: "dir"},
		want: boldBlue + "node" + reset,
	},
	"archives are bold red": {
		node: fakeNode{kind: paths.KindVirtualDir, class: "zip"},
		want: boldRed + "node" + reset,
	},
	"git trees are bold cyan": {
		node: fakeNode{kind: paths.KindVirtualDir, class: "git"},
		want: boldCyan + "node" + reset,
	},
}

func TestThemePaint(t *testing.T) {
	t.Parallel()
	theme := Theme{Enabled: true}
	for name, tc := range checkPaintTests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := theme.Paint("node", tc.node); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestThemeDisabledPassesThrough(t *testing.T) {
	t.Parallel()
	theme := Theme{}
	node := fakeNode{kind: paths.KindVirtualDir, class: "zip"}
	if got := theme.Paint("node", node); got != "node" {
		t.Errorf("a disabled theme painted %q", got)
	}
}
