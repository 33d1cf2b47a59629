// promptgate decides whether a reviewed prompt version may be promoted and
// summarizes how a version's text changed from an earlier one.
//
// Usage:
//
//	promptgate [flags] <version>
//	promptgate diff [old_version] <new_version>
//	promptgate status list|show|delete [version]
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"promptgate/internal/config"
	"promptgate/internal/logging"
)

// Exit codes. Any decision, including quarantine, exits with ExitOK.
const (
	ExitOK            = 0
	ExitUsage         = 1
	ExitInvalidConfig = 3
	ExitNotFound      = 4
)

var version = "dev"

// now is replaced in tests to pin evaluated_at_utc.
var now = time.Now

func main() {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	os.Exit(run(os.Args, os.Environ(), wd, os.Stdout, os.Stderr))
}

// env carries everything a command needs that would otherwise be global.
type env struct {
	environ []string
	root    string
	stdout  io.Writer
	stderr  io.Writer
	log     zerolog.Logger
}

// run builds and runs the CLI app and returns the process exit code.
// It is separated from main() to enable testing.
func run(args []string, environ []string, root string, stdout, stderr io.Writer) int {
	e := &env{
		environ: environ,
		root:    root,
		stdout:  stdout,
		stderr:  stderr,
		log:     zerolog.Nop(),
	}

	err := newApp(e).Run(args)
	if err == nil {
		return ExitOK
	}

	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(stderr, msg)
		}
		return exitErr.ExitCode()
	}
	fmt.Fprintln(stderr, "Error:", err)
	return ExitUsage
}

func newApp(e *env) *cli.App {
	return &cli.App{
		Name:      "promptgate",
		Usage:     "Decide promotion status for reviewed prompt versions",
		UsageText: "promptgate [flags] <version>\npromptgate diff [old_version] <new_version>\npromptgate status list|show|delete [version]",
		ArgsUsage: "<version>",
		Version:   version,
		Writer:    e.stdout,
		ErrWriter: e.stderr,
		// "help" and "h" stay available as version names; -h still prints help.
		HideHelpCommand: true,
		// Exit codes are returned from run, never via os.Exit inside the app.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "reviews-dir", Usage: "Directory of <version>/review.json files (env " + config.EnvReviewsDir + ")"},
			&cli.StringFlag{Name: "rules", Usage: "Promotion rules file, JSON or YAML (env " + config.EnvRulesFile + ")"},
			&cli.StringFlag{Name: "status-dir", Usage: "Directory decisions are written to (env " + config.EnvStatusDir + ")"},
			&cli.StringFlag{Name: "versions-dir", Usage: "Directory of <version>/user.md prompt files (env " + config.EnvVersionsDir + ")"},
			&cli.StringFlag{Name: "diffs-dir", Usage: "Directory diff artifacts are written to (env " + config.EnvDiffsDir + ")"},
			&cli.StringFlag{Name: "log-level", Usage: "Log level: debug, info, warn, error (env " + config.EnvLogLevel + ")"},
			&cli.StringFlag{Name: "log-format", Usage: "Log format: console or json (env " + config.EnvLogFormat + ")"},
		}, outputFlags()...),
		Before: func(c *cli.Context) error {
			jsonLogs, err := logging.ParseFormat(config.LogFormat(c.String("log-format"), e.environ))
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), ExitUsage)
			}
			logger, err := logging.New(e.stderr, logging.Options{
				Level: config.LogLevel(c.String("log-level"), e.environ),
				JSON:  jsonLogs,
			})
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), ExitUsage)
			}
			e.log = logger
			return nil
		},
		Action: decideAction(e),
		Commands: []*cli.Command{
			diffCommand(e),
			statusCommand(e),
		},
	}
}

// paths resolves the workspace layout from global flags and the environment.
func (e *env) paths(c *cli.Context) config.Paths {
	return config.Resolve(e.root, e.environ, config.Overrides{
		ReviewsDir:  c.String("reviews-dir"),
		RulesFile:   c.String("rules"),
		StatusDir:   c.String("status-dir"),
		VersionsDir: c.String("versions-dir"),
		DiffsDir:    c.String("diffs-dir"),
	})
}

func (e *env) ciMode(c *cli.Context) bool {
	return config.CIMode(boolFlag(c, "ci"), e.environ)
}

// outputFlags are declared on the app and again on every command, so they
// may be given before or after the command name.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "ci", Usage: "Emit GitHub Actions annotations (also CI or " + config.EnvCI + ")"},
		&cli.BoolFlag{Name: "json", Usage: "Print the payload as JSON"},
		&cli.BoolFlag{Name: "dry-run", Usage: "Evaluate without writing any files"},
		&cli.BoolFlag{Name: "verbose", Usage: "Print the inputs behind a decision"},
	}
}

// boolFlag reports whether name was set at any level of the command line.
// A command's own flag set shadows its parents', so each level is asked.
func boolFlag(c *cli.Context, name string) bool {
	for _, ctx := range c.Lineage() {
		if ctx.Bool(name) {
			return true
		}
	}
	return false
}

// reserved reports whether name would be dispatched as a command instead of
// being decided as a version.
func reserved(app *cli.App, name string) bool {
	return name == "help" || name == "h" || app.Command(name) != nil
}

func reservedError(name string) cli.ExitCoder {
	return cli.Exit(fmt.Sprintf("ERROR: %q is a command name and cannot be decided as a version", name), ExitUsage)
}
