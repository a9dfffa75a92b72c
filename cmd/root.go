// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for convex-seed.
// The root command takes no arguments: it resolves the deployment from the
// environment, runs the seed mutation once and maps the outcome to an exit code.
package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"convexseed/cli/internal/config"
	"convexseed/cli/internal/convex"
	"convexseed/cli/internal/httperrors"
	"convexseed/cli/internal/keychain"
	"convexseed/cli/internal/logging"
	"convexseed/cli/internal/seeding"
	"convexseed/cli/internal/terminal"
)

// errReported marks a failure whose message has already been written to stderr.
var errReported = stderrors.New("reported")

// openSecrets opens the OS keychain used as the last-resort credential source.
var openSecrets = func() (config.Secrets, error) {
	return keychain.Open()
}

// newRootCmd builds the root command writing to the given streams.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convex-seed",
		Short: "Run the seed:seedData mutation against a Convex deployment",
		Long: `convex-seed calls the seed:seedData mutation on the Convex deployment named by
VITE_CONVEX_URL (falling back to the project's default deployment) and prints the result.

Settings are read from the environment, .env.local and .env in the working directory,
and config.yaml in the convex-seed config directory. CONVEX_DEPLOY_KEY or
CONVEX_AUTH_TOKEN authorize the call when the function requires it.`,
		Args:               cobra.NoArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := run(cmd.Context(), stdout, stderr)
			if out.ExitCode != seeding.ExitSuccess {
				return errReported
			}
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	return execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// cobra reads os.Args when given nil
	if args == nil {
		args = []string{}
	}
	if !colorEnabled(stdout, stderr) {
		pterm.DisableColor()
	}
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !stderrors.Is(err, errReported) {
			fmt.Fprintf(stderr, "%s %s\n", pterm.FgRed.Sprint("✗"), err)
		}
		return seeding.ExitFailure
	}
	return seeding.ExitSuccess
}

// run loads configuration, wires the Convex client into a seed runner and runs it once.
func run(ctx context.Context, stdout, stderr io.Writer) seeding.Outcome {
	var secrets config.Secrets
	if s, err := openSecrets(); err == nil {
		secrets = s
	}

	cfg, err := config.Load(config.Options{Secrets: secrets})
	if err != nil {
		fmt.Fprintf(stderr, "%s Configuration error: %s\n", pterm.FgRed.Sprint("✗"), logging.Mask(err.Error()))
		return seeding.Outcome{ExitCode: seeding.ExitFailure, Err: err}
	}

	interactive := terminal.IsInteractive(stderr)
	logger := logging.New(stderr, logging.Options{
		Level:   cfg.LogLevel,
		Console: true,
		NoColor: !colorEnabled(stderr),
	}).With().Str("run_id", uuid.NewString()).Logger()

	if cfg.ConfigFile != "" {
		logger.Debug().Str("file", cfg.ConfigFile).Msg("loaded config file")
	}

	runner := &seeding.Runner{
		Endpoint:        cfg.URL,
		DefaultEndpoint: seeding.DefaultEndpoint,
		Connect:         connector(cfg, logger),
		Stdout:          stdout,
		Stderr:          stderr,
		Logger:          logger,
	}
	if interactive {
		runner.Progress = func() func() {
			host := httperrors.ExtractHostFromURL(seeding.ResolveEndpoint(cfg.URL, seeding.DefaultEndpoint))
			return terminal.StartSpinner(stderr, "Seeding "+host, nil, 100*time.Millisecond)
		}
	}
	return runner.Run(ctx)
}

// colorEnabled reports whether every stream in ws is a terminal and NO_COLOR is unset.
func colorEnabled(ws ...io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	for _, w := range ws {
		if !terminal.IsInteractive(w) {
			return false
		}
	}
	return true
}

// connector returns a seeding.Connector that builds Convex clients from cfg.
func connector(cfg config.Config, logger zerolog.Logger) seeding.Connector {
	return func(endpoint string) (seeding.Caller, error) {
		c, err := convex.New(endpoint,
			convex.WithTimeout(cfg.Timeout),
			convex.WithAuth(cfg.AuthToken),
			convex.WithAdminAuth(cfg.DeployKey),
			convex.WithClientID(convex.DefaultClientID+"-"+Version),
			convex.WithLogHandler(serverLogHandler(logger)),
		)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// serverLogHandler forwards console output from the deployment to logger,
// prefixed the way the Convex clients print it, e.g. "[CONVEX M(seed:seedData)] [LOG] 'inserted 3'".
func serverLogHandler(logger zerolog.Logger) convex.LogHandler {
	return func(kind, path string, line convex.LogLine) {
		tag := "?"
		if kind != "" {
			tag = strings.ToUpper(kind[:1])
		}
		prefix := fmt.Sprintf("[CONVEX %s(%s)]", tag, path)
		ev := logger.Info()
		switch strings.ToUpper(line.Level) {
		case "WARN":
			ev = logger.Warn()
		case "ERROR":
			ev = logger.Error()
		}
		if line.Truncated {
			ev = ev.Bool("truncated", true)
		}
		ev.Msgf("%s [%s] %s", prefix, line.Level, logging.Mask(line.Text()))
	}
}
