package main

import (
	"log"
	"os"
	"runtime/debug"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"

	"github.com/nbrowse-run/nbrowse/internal/app/nbrowse"
)

func main() {
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var defaultStart, _ = os.Getwd()

var app = &cli.App{
	Name:    "nbrowse",
	Version: toolVersion,
	Usage:   "Interactively browses files, archives, and git trees",
	Action:  browse,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "start",
			Aliases: []string{"s"},
			Value:   defaultStart,
			Usage:   "Path of the initial location",
			EnvVars: []string{"NBROWSE_START"},
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path of the YAML config file",
			EnvVars: []string{"NBROWSE_CONFIG"},
		},
		&cli.BoolFlag{
			Name:    "no-color",
			Usage:   "Disable colored output",
			EnvVars: []string{"NBROWSE_NO_COLOR", "NO_COLOR"},
		},
		&cli.BoolFlag{
			Name:    "foreground",
			Usage:   "Make external opener programs block the shell until they exit",
			EnvVars: []string{"NBROWSE_FOREGROUND"},
		},
	},
	Suggest: true,
}

func browse(c *cli.Context) error {
	config, err := nbrowse.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if c.Bool("foreground") {
		config.Foreground = true
	}
	if c.Bool("no-color") {
		colorOff := false
		config.Color = &colorOff
	}
	session, err := nbrowse.NewSession(nbrowse.SessionOptions{
		Root:   "/",
		Start:  c.String("start"),
		Color:  true,
		Out:    os.Stdout,
		Config: config,
	})
	if err != nil {
		return err
	}
	return session.RunShell()
}

// Versioning

// fallbackVersion is the version which the nbrowse tool reports itself as if its actual version
// is unknown.
const fallbackVersion = "v0.1.0-dev"

var (
	toolVersion = determineVersion(buildSummary, fallbackVersion)
	// buildSummary should be overridden by ldflags, such as with GoReleaser's "Summary".
	buildSummary = ""
)

// determineVersion returns either a semver, a pseudoversion, or a Git hash based on information
// available from Go's `debug.ReadBuildInfo()`.
func determineVersion(override, fallback string) string {
	if override != "" {
		return override
	}

	const dirtySuffix = "-dirty"
	if info, ok := debug.ReadBuildInfo(); ok &&
		info.Main.Version != "" && info.Main.Version != "(devel)" {
		v := info.Main.Version
		if versioninfo.DirtyBuild {
			v += dirtySuffix
		}
		return v
	}
	if v := versioninfo.Version; v != "unknown" && v != "(devel)" {
		if versioninfo.DirtyBuild {
			v += dirtySuffix
		}
		return v
	}

	if r := versioninfo.Revision; r != "unknown" && r != "" {
		if versioninfo.DirtyBuild {
			r += dirtySuffix
		}
		return r
	}
	return fallback
}
