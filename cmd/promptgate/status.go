package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"

	"promptgate/internal/policy"
	"promptgate/internal/review"
	"promptgate/internal/semdiff"
	"promptgate/internal/status"
)

func statusCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:            "status",
		Usage:           "Inspect or remove stored promotion decisions",
		Flags:           outputFlags(),
		HideHelpCommand: true,
		// Reached only without a known subcommand.
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return reservedError("status")
			}
			return cli.Exit(fmt.Sprintf("Usage: promptgate status list|show|delete [version] (unknown subcommand %q)", c.Args().First()), ExitUsage)
		},
		Subcommands: []*cli.Command{
			{
				Name:            "list",
				Usage:           "List stored decisions and reviewed versions still undecided",
				Flags:           outputFlags(),
				HideHelpCommand: true,
				Action:          statusList(e),
			},
			{
				Name:            "show",
				Usage:           "Show the stored decision for a version",
				ArgsUsage:       "<version>",
				Flags:           outputFlags(),
				HideHelpCommand: true,
				Action:          statusShow(e),
			},
			{
				Name:            "delete",
				Usage:           "Delete the stored decision for a version",
				ArgsUsage:       "<version>",
				Flags:           outputFlags(),
				HideHelpCommand: true,
				Action:          statusDelete(e),
			},
		},
	}
}

// statusList prints stored decisions. In text mode reviewed versions that
// have no decision yet follow as "undecided"; JSON lists decisions only.
func statusList(e *env) cli.ActionFunc {
	return func(c *cli.Context) error {
		paths := e.paths(c)
		store := status.NewStore(paths.StatusDir)
		summaries, err := store.List()
		if err != nil {
			return exitError(err)
		}

		if boolFlag(c, "json") {
			data, err := json.MarshalIndent(summaries, "", "  ")
			if err != nil {
				return exitError(err)
			}
			fmt.Fprintln(e.stdout, string(data))
			return nil
		}

		reviewed, err := review.NewStore(paths.ReviewsDir).Versions()
		if err != nil {
			return exitError(err)
		}
		var undecided []string
		for _, v := range reviewed {
			if !store.Exists(v) {
				undecided = append(undecided, v)
			}
		}
		sort.SliceStable(undecided, func(i, j int) bool {
			return status.VersionLess(undecided[i], undecided[j])
		})

		if len(summaries) == 0 && len(undecided) == 0 {
			fmt.Fprintln(e.stdout, "No decisions found")
			return nil
		}
		for _, s := range summaries {
			fmt.Fprintf(e.stdout, "%-20s %-16s %s\n", s.Version, s.PromotionStatus, s.EvaluatedAt)
		}
		for _, v := range undecided {
			fmt.Fprintf(e.stdout, "%-20s %-16s %s\n", v, "undecided", "-")
		}
		return nil
	}
}

func statusShow(e *env) cli.ActionFunc {
	return func(c *cli.Context) error {
		version, err := versionArg(c, "status show")
		if err != nil {
			return err
		}

		paths := e.paths(c)
		d, err := status.NewStore(paths.StatusDir).Load(version)
		if err != nil {
			return exitError(fmt.Errorf("%w for %s", err, version))
		}

		if boolFlag(c, "json") {
			out, err := policy.FormatJSON(d)
			if err != nil {
				return exitError(err)
			}
			fmt.Fprintln(e.stdout, out)
			return nil
		}

		fmt.Fprint(e.stdout, policy.FormatCLI(d))
		fmt.Fprint(e.stdout, policy.FormatDetail(d))

		// A diff summary written for the same version is shown alongside.
		if s, err := semdiff.LoadSummary(paths.DiffsDir, version); err == nil {
			fmt.Fprint(e.stdout, semdiff.FormatSummary(s))
		}
		return nil
	}
}

func statusDelete(e *env) cli.ActionFunc {
	return func(c *cli.Context) error {
		version, err := versionArg(c, "status delete")
		if err != nil {
			return err
		}
		if boolFlag(c, "dry-run") {
			fmt.Fprintf(e.stdout, "Would delete decision for %s\n", version)
			return nil
		}
		if err := status.NewStore(e.paths(c).StatusDir).Delete(version); err != nil {
			return exitError(fmt.Errorf("%w for %s", err, version))
		}
		e.log.Info().Str("version", version).Msg("status deleted")
		fmt.Fprintf(e.stdout, "Deleted decision for %s\n", version)
		return nil
	}
}

func versionArg(c *cli.Context, command string) (string, error) {
	if c.NArg() != 1 {
		return "", cli.Exit(fmt.Sprintf("Usage: promptgate %s <version>", command), ExitUsage)
	}
	version := c.Args().First()
	if err := policy.CheckVersion(version); err != nil {
		return "", exitError(err)
	}
	return version, nil
}
