// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package seeding runs the one-shot seed mutation against a Convex deployment.
//
// The runner resolves the deployment endpoint, connects, issues exactly one
// mutation with an empty argument object and reports the outcome: a result line
// on stdout for success, an error line on stderr for anything else. It never
// terminates the process; the caller turns the returned Outcome into an exit code.
package seeding

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	errs "convexseed/cli/internal/errors"
	"convexseed/cli/internal/httperrors"
	"convexseed/cli/internal/logging"
)

const (
	// DefaultEndpoint is the deployment used when no URL is configured.
	DefaultEndpoint = "https://next-octopus-627.convex.cloud"
	// SeedFunction is the mutation invoked by the runner.
	SeedFunction = "seed:seedData"
)

// Process exit codes. No other values are ever produced.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Caller invokes a named remote mutation with an argument payload.
type Caller interface {
	Mutation(ctx context.Context, name string, args map[string]any) (any, error)
}

// Connector constructs a Caller bound to endpoint. A returned error means the
// endpoint itself is unusable and is reported as a configuration error.
type Connector func(endpoint string) (Caller, error)

// Outcome is the result of one run.
type Outcome struct {
	// ExitCode is ExitSuccess or ExitFailure.
	ExitCode int
	// Endpoint is the resolved deployment URL ("" if resolution failed).
	Endpoint string
	// Result is the mutation's return value on success.
	Result any
	// Err is a *errors.E of kind ConfigInvalid or RemoteCallFailed on failure.
	Err error
}

// Runner holds everything a single seed run needs.
type Runner struct {
	// Endpoint is the configured deployment URL; empty selects DefaultEndpoint.
	Endpoint string
	// DefaultEndpoint is the fallback URL. An empty fallback makes a missing
	// configuration a reported error instead of a silent default.
	DefaultEndpoint string
	// Function overrides SeedFunction.
	Function string
	// Connect builds the remote client. A nil Connect fails the run as a
	// configuration error.
	Connect Connector
	// Stdout receives the success line only.
	Stdout io.Writer
	// Stderr receives error and hint lines.
	Stderr io.Writer
	// Logger receives diagnostics.
	Logger zerolog.Logger
	// Progress, when set, is started while the mutation is outstanding and
	// stopped before anything is printed.
	Progress func() (stop func())
}

// ResolveEndpoint returns configured when it is non-blank, otherwise fallback.
func ResolveEndpoint(configured, fallback string) string {
	if v := strings.TrimSpace(configured); v != "" {
		return v
	}
	return strings.TrimSpace(fallback)
}

// Run performs the seed and reports its outcome. It issues at most one remote call.
func (r *Runner) Run(ctx context.Context) Outcome {
	fn := r.Function
	if fn == "" {
		fn = SeedFunction
	}
	stdout, stderr := writerOrDiscard(r.Stdout), writerOrDiscard(r.Stderr)

	endpoint := ResolveEndpoint(r.Endpoint, r.DefaultEndpoint)
	log := r.Logger.With().Str("function", fn).Str("endpoint", logging.Mask(endpoint)).Logger()

	if endpoint == "" {
		err := errs.New(errs.ConfigInvalid, "missing Convex URL")
		log.Error().Str("kind", string(err.Kind)).Msg("no deployment endpoint configured")
		fmt.Fprintf(stderr, "%s Missing Convex URL. Please set VITE_CONVEX_URL or update the configuration.\n", failMark())
		return Outcome{ExitCode: ExitFailure, Err: err}
	}
	if r.Endpoint == "" {
		log.Debug().Msg("no deployment URL configured, using default")
	}

	if r.Connect == nil {
		err := errs.New(errs.ConfigInvalid, "no client connector configured")
		log.Error().Str("kind", string(err.Kind)).Msg("cannot create client")
		fmt.Fprintf(stderr, "%s Invalid Convex URL: no client available for %s\n", failMark(), logging.Mask(endpoint))
		return Outcome{ExitCode: ExitFailure, Endpoint: endpoint, Err: err}
	}
	caller, err := r.Connect(endpoint)
	if err != nil {
		wrapped := errs.Wrap(errs.ConfigInvalid, "invalid Convex URL", err)
		log.Error().Err(err).Str("kind", string(wrapped.Kind)).Msg("cannot create client")
		fmt.Fprintf(stderr, "%s Invalid Convex URL: %s\n", failMark(), logging.Mask(err.Error()))
		return Outcome{ExitCode: ExitFailure, Endpoint: endpoint, Err: wrapped}
	}

	log.Debug().Msg("invoking mutation")
	stop := func() {}
	if r.Progress != nil {
		stop = r.Progress()
	}
	result, err := caller.Mutation(ctx, fn, map[string]any{})
	stop()

	if err != nil {
		wrapped := errs.Wrap(errs.RemoteCallFailed, fn, err)
		log.Debug().Err(err).Str("kind", string(wrapped.Kind)).Str("category", httperrors.Classify(err).String()).Msg("mutation failed")
		fmt.Fprintln(stderr, logging.PresentError(failMark()+" Seed error", err))
		if hint := httperrors.Hint(err, httperrors.ExtractHostFromURL(endpoint)); hint != "" {
			fmt.Fprintln(stderr, hint)
		}
		return Outcome{ExitCode: ExitFailure, Endpoint: endpoint, Err: wrapped}
	}

	log.Debug().Msg("mutation succeeded")
	fmt.Fprintln(stdout, logging.PresentValue(okMark()+" Seed result", result))
	return Outcome{ExitCode: ExitSuccess, Endpoint: endpoint, Result: result}
}

func okMark() string   { return pterm.FgGreen.Sprint("✓") }
func failMark() string { return pterm.FgRed.Sprint("✗") }

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
