package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"promptgate/internal/policy"
	"promptgate/internal/review"
	"promptgate/internal/rules"
	"promptgate/internal/semdiff"
	"promptgate/internal/status"
)

// exitError maps an error to the exit code and message a user sees.
func exitError(err error) cli.ExitCoder {
	switch {
	case errors.Is(err, policy.ErrNotFound),
		errors.Is(err, status.ErrStatusNotFound),
		errors.Is(err, semdiff.ErrContentNotFound),
		errors.Is(err, semdiff.ErrNoPrevious):
		return cli.Exit(policy.FormatError(err), ExitNotFound)
	case errors.Is(err, policy.ErrConfiguration):
		return cli.Exit(policy.FormatError(err), ExitInvalidConfig)
	default:
		return cli.Exit(policy.FormatError(err), ExitUsage)
	}
}

func decideAction(e *env) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit("Usage: promptgate [flags] <version>", ExitUsage)
		}
		version := c.Args().First()
		if reserved(c.App, version) {
			return reservedError(version)
		}
		if err := policy.CheckVersion(version); err != nil {
			return exitError(err)
		}

		paths := e.paths(c)
		log := e.log.With().Str("version", version).Logger()
		log.Debug().
			Str("reviews_dir", paths.ReviewsDir).
			Str("rules_file", paths.RulesFile).
			Str("status_dir", paths.StatusDir).
			Msg("resolved paths")

		// A missing review is reported before any rules problem, and in
		// neither case is a status written.
		result, err := review.NewStore(paths.ReviewsDir).Load(version)
		if err != nil {
			log.Error().Err(err).Msg("review unavailable")
			return exitError(err)
		}

		loaded, err := rules.LoadFromPath(paths.RulesFile)
		if err != nil {
			log.Error().Err(err).Msg("rules unavailable")
			return exitError(err)
		}

		decision := policy.Decide(version, result, loaded.Rules, now())
		decision.RulesDigest = loaded.Digest

		log.Info().
			Str("status", string(decision.PromotionStatus)).
			Str("reason", string(decision.Reason)).
			Str("law", decision.Law).
			Str("rules_digest", loaded.Digest).
			Msg("evaluated")

		if boolFlag(c, "dry-run") {
			log.Info().Msg("dry run, status not written")
		} else {
			store := status.NewStore(paths.StatusDir)
			if err := store.Save(decision); err != nil {
				log.Error().Err(err).Msg("write status")
				return exitError(fmt.Errorf("write status for %s: %w", version, err))
			}
			log.Debug().Str("path", store.Path(version)).Msg("status written")
		}

		if e.ciMode(c) {
			fmt.Fprint(e.stderr, policy.FormatCI(decision))
		}

		if boolFlag(c, "json") {
			out, err := policy.FormatJSON(decision)
			if err != nil {
				return exitError(err)
			}
			fmt.Fprintln(e.stdout, out)
			return nil
		}

		fmt.Fprint(e.stdout, policy.FormatCLI(decision))
		if boolFlag(c, "verbose") {
			fmt.Fprint(e.stdout, policy.FormatDetail(decision))
		}
		return nil
	}
}
