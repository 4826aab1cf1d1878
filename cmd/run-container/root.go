package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zoobzio/marvrun"
)

// errUsage marks errors in the command line itself: missing positional
// arguments or unparsable flags.
var errUsage = errors.New("invalid arguments")

// app carries the process environment into the command. Tests replace its
// fields to run the command in-process.
type app struct {
	getenv     func(string) string
	getwd      func() (string, error)
	systemRoot string
	uid        int
	gid        int
	stdout     io.Writer
	stderr     io.Writer

	// defaultsPath is read when --config is not given; it may be absent.
	defaultsPath string

	// runner replaces the runner selected from flags when non-nil.
	runner marvrun.Runner

	// code is the exit code of the last launch.
	code int
}

func newApp() *app {
	return &app{
		getenv:       os.Getenv,
		getwd:        os.Getwd,
		systemRoot:   "/",
		defaultsPath: marvrun.DefaultsPath(),
		uid:          os.Getuid(),
		gid:          os.Getgid(),
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// newRootCmd creates the run-container command.
func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run-container [flags] SITE SCANROOT [EXTRA_OPTS ...]",
		Short: "Start a MARV container for a site and a scan root",
		Long: `Start a MARV container for a site and a scan root.

SITE must be a directory containing marv.conf; it is mounted read-write at
/home/marv/site. SCANROOT must be a directory; it is mounted read-only at
/scanroot. A previous container with the same name is stopped and removed
first. EXTRA_OPTS are passed verbatim to the container runtime.

Environment:
  CONTAINER_NAME      container name (default: lower-cased directory name)
  CONTAINER_HOSTNAME  hostname (default: name with . replaced by -)
  HTTP_LISTEN         published host:port (default: 127.0.0.1:8000)
  IMAGE_NAME          image (default: contents of .image-name, else name)
  TIMEZONE            timezone (default: detected from /etc)
  MARV_UID, MARV_GID  numeric ids inside the container (default: yours)
  DEVELOP             mount code for development when non-empty
  DEBUG               trace runtime commands and enable debug in the container`,
		Example: `  run-container sites/example /data/bags
  run-container sites/example /data/bags -e MARV_LOGLEVEL=debug
  HTTP_LISTEN=0.0.0.0:8080 run-container --dry-run sites/example /data/bags`,
		Version:       getVersion(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.launch,
	}

	// Everything after SITE is positional so EXTRA_OPTS reach the runtime untouched.
	cmd.Flags().SetInterspersed(false)

	cmd.Flags().StringP("config", "c", "",
		"Defaults file path (default: $XDG_CONFIG_HOME/marvrun/config.yaml)")
	cmd.Flags().StringP("project", "p", "",
		"Project checkout whose directories are mounted (default: working directory)")
	cmd.Flags().String("runtime", marvrun.DefaultRuntime,
		"Container runtime CLI")
	cmd.Flags().BoolP("dry-run", "n", false,
		"Print the runtime commands instead of running them")
	cmd.Flags().BoolP("verbose", "v", false,
		"Enable verbose logging")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	return cmd
}

// launch is the RunE of the root command.
func (a *app) launch(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: SITE and SCANROOT are required", errUsage)
	}

	configPath, _ := cmd.Flags().GetString("config")
	projectDir, _ := cmd.Flags().GetString("project")
	runtimeBin, _ := cmd.Flags().GetString("runtime")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")

	logger := setupLogger(a.stderr, verbose || a.getenv(marvrun.EnvDebug) != "")

	explicit := configPath != ""
	if !explicit {
		configPath = a.defaultsPath
	}
	defaults, err := marvrun.LoadDefaults(configPath, explicit)
	if err != nil {
		return err
	}

	if projectDir == "" {
		if projectDir, err = a.getwd(); err != nil {
			return fmt.Errorf("working directory: %w", err)
		}
	}

	resolver := marvrun.Resolver{
		Getenv:     a.getenv,
		Defaults:   defaults,
		SystemRoot: a.systemRoot,
		UID:        a.uid,
		GID:        a.gid,
	}
	cfg, err := resolver.Resolve(projectDir)
	if err != nil {
		return err
	}
	logger.Debug("resolved configuration",
		"name", cfg.Name, "hostname", cfg.Hostname, "image", cfg.Image,
		"listen", cfg.Listen, "timezone", cfg.Timezone, "project", cfg.ProjectDir)

	runner := a.runner
	if runner == nil {
		if dryRun {
			runner = &marvrun.PrintRunner{Binary: runtimeBin, Out: a.stdout}
		} else {
			runner = &marvrun.DockerRunner{Binary: runtimeBin, Logger: logger}
		}
	}

	code, err := marvrun.NewLauncher(runner, logger).Launch(cmd.Context(), marvrun.Request{
		Site:     args[0],
		ScanRoot: args[1],
		Extra:    args[2:],
		Config:   cfg,
	}, a.stdout, a.stderr)
	if err != nil {
		return err
	}
	a.code = code
	return nil
}

// run executes the command with args and returns the process exit code.
func run(ctx context.Context, a *app, args []string) int {
	if args == nil {
		// cobra falls back to os.Args on nil.
		args = []string{}
	}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	return a.exitCode(cmd, cmd.ExecuteContext(ctx))
}

// exitCode maps the outcome of a command to a process exit code. Usage
// errors print the usage text; everything else prints the error alone.
func (a *app) exitCode(cmd *cobra.Command, err error) int {
	switch {
	case err == nil:
		return a.code
	case errors.Is(err, errUsage),
		errors.Is(err, marvrun.ErrInvalidSite),
		errors.Is(err, marvrun.ErrInvalidScanRoot):
		fmt.Fprintf(a.stderr, "%s: %v\n\n", cmd.Name(), err)
		fmt.Fprint(a.stderr, cmd.UsageString())
		return 1
	default:
		fmt.Fprintf(a.stderr, "%s: %v\n", cmd.Name(), err)
		return 1
	}
}

// setupLogger creates a structured logger writing to w.
func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
