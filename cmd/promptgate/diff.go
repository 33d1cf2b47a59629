package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"promptgate/internal/policy"
	"promptgate/internal/semdiff"
)

func diffCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "Summarize line changes between two prompt versions",
		ArgsUsage: "[old_version] <new_version>",
		Description: "With one argument the old version is the highest semantic version\n" +
			"below new_version that has content.",
		Flags:           outputFlags(),
		HideHelpCommand: true,
		Action: func(c *cli.Context) error {
			var oldVersion, newVersion string
			source := semdiff.NewSource(e.paths(c).VersionsDir)

			switch c.NArg() {
			case 1:
				newVersion = c.Args().Get(0)
				prev, err := source.Previous(newVersion)
				if err != nil {
					return exitError(err)
				}
				oldVersion = prev
			case 2:
				oldVersion, newVersion = c.Args().Get(0), c.Args().Get(1)
			default:
				return cli.Exit("Usage: promptgate diff [old_version] <new_version>", ExitUsage)
			}
			return runDiff(e, c, source, oldVersion, newVersion)
		},
	}
}

func runDiff(e *env, c *cli.Context, source *semdiff.Source, oldVersion, newVersion string) error {
	for _, v := range []string{oldVersion, newVersion} {
		if err := policy.CheckVersion(v); err != nil {
			return exitError(err)
		}
	}

	log := e.log.With().Str("old_version", oldVersion).Str("new_version", newVersion).Logger()

	oldLines, err := source.ReadLines(oldVersion)
	if err != nil {
		return exitError(err)
	}
	newLines, err := source.ReadLines(newVersion)
	if err != nil {
		return exitError(err)
	}

	result := semdiff.Compute(oldVersion, newVersion, oldLines, newLines)
	log.Info().
		Int("lines_added", result.Summary.LinesAdded).
		Int("lines_removed", result.Summary.LinesRemoved).
		Str("change_type", string(result.Summary.ChangeType)).
		Msg("diff computed")

	written := !boolFlag(c, "dry-run")
	if written {
		out, err := result.WriteToDir(e.paths(c).DiffsDir)
		if err != nil {
			return exitError(fmt.Errorf("write diff for %s: %w", newVersion, err))
		}
		log.Debug().Str("path", out).Msg("diff written")
	} else {
		log.Info().Msg("dry run, diff not written")
	}

	if e.ciMode(c) {
		fmt.Fprint(e.stderr, semdiff.FormatCI(result.Summary))
	}

	if boolFlag(c, "json") {
		out, err := semdiff.FormatJSON(result.Summary)
		if err != nil {
			return exitError(err)
		}
		fmt.Fprintln(e.stdout, out)
		return nil
	}

	fmt.Fprint(e.stdout, semdiff.FormatCLI(result.Summary, written))
	if text := result.Text(); boolFlag(c, "verbose") && text != "" {
		fmt.Fprintln(e.stdout, text)
	}
	return nil
}
