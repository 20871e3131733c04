package cli

import (
	"github.com/nbrowse-run/nbrowse/pkg/paths"
)

// ANSI SGR sequences for the node categories shown in listings and prompts.
const (
	reset      = "\x1b[0m"
	boldRed    = "\x1b[31;1m"
	boldBlue   = "\x1b[34;1m"
	boldCyan   = "\x1b[36;1m"
	magenta    = "\x1b[35m"
	boldPurple = "\x1b[35;1m"
	yellow     = "\x1b[33m"
	boldYellow = "\x1b[33;1m"
)

// A Theme decides how nodes are colored. The zero value is a disabled theme which passes text
// through unchanged.
type Theme struct {
	Enabled bool
}

// Code returns the ANSI color sequence for the node, or "" when the node has no special color or
// the theme is disabled. Archives are red, other virtual directories cyan, real directories
// blue; file colors follow the node's dispatch class.
func (t Theme) Code(p paths.Path) string {
	if !t.Enabled {
		return ""
	}
	switch p.Kind() {
	case paths.KindVirtualDir:
		if p.Class() == "git" {
			return boldCyan
		}
		return boldRed
	case paths.KindDir:
		return boldBlue
	}
	switch p.Class() {
	case "image":
		return magenta
	case "video":
		return boldPurple
	case "pdf":
		return yellow
	case "text", "binary":
		return ""
	}
	// Custom classes from config overrides, opened by external programs.
	return boldYellow
}

// Paint wraps the text in the node's color.
func (t Theme) Paint(text string, p paths.Path) string {
	code := t.Code(p)
	if code == "" {
		return text
	}
	return code + text + reset
}
