package marvrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"
)

// DefaultRuntime is the container CLI used when none is configured.
const DefaultRuntime = "docker"

// RestartPolicy is the restart policy every launched container gets.
const RestartPolicy = "unless-stopped"

// WebPort is the port the MARV web server listens on inside the container.
const WebPort = "8000"

// Runner is the interface over container CLI operations.
// All methods block until the underlying command exits.
type Runner interface {
	// Stop stops the named container. It returns an error when the CLI
	// fails, including when no such container exists.
	Stop(ctx context.Context, container string) error

	// Remove removes the named container, with the same error semantics as Stop.
	Remove(ctx context.Context, container string) error

	// Run runs a container with the given options, streaming the CLI's
	// stdout and stderr verbatim, and returns the CLI's exit code.
	// A non-zero exit code is not itself an error; the caller interprets it.
	Run(ctx context.Context, opts RunOptions, stdout, stderr io.Writer) (int, error)
}

// EnvVar is a single -e KEY=VALUE passed to the container.
type EnvVar struct {
	Key   string
	Value string
}

// RunOptions configures a container run invocation.
type RunOptions struct {
	Image    string   // image reference; always the final argument
	Name     string   // container name (--name)
	Hostname string   // container hostname (--hostname)
	Restart  string   // restart policy (--restart)
	Detach   bool     // run in the background (--detach)
	Publish  []string // port mappings (--publish)
	Env      []EnvVar // environment variables (-e K=V), in order
	Mounts   []Mount  // bind mounts (-v)
	Extra    []string // caller options, inserted verbatim before Image
}

// stopCmdArgs returns the CLI arguments for a stop invocation.
func stopCmdArgs(container string) []string {
	return []string{"stop", container}
}

// removeCmdArgs returns the CLI arguments for a remove invocation.
func removeCmdArgs(container string) []string {
	return []string{"rm", container}
}

// runCmdArgs returns the CLI arguments for a run invocation.
func runCmdArgs(opts RunOptions) []string {
	args := []string{"run"}
	if opts.Detach {
		args = append(args, "--detach")
	}
	if opts.Restart != "" {
		args = append(args, "--restart", opts.Restart)
	}
	if opts.Name != "" {
		args = append(args, "--name", opts.Name)
	}
	if opts.Hostname != "" {
		args = append(args, "--hostname", opts.Hostname)
	}
	for _, p := range opts.Publish {
		args = append(args, "--publish", p)
	}
	for _, e := range opts.Env {
		args = append(args, "-e", e.Key+"="+e.Value)
	}
	for _, m := range opts.Mounts {
		v := m.Source + ":" + m.Target
		if m.ReadOnly {
			v += ":ro"
		}
		args = append(args, "-v", v)
	}
	args = append(args, opts.Extra...)
	args = append(args, opts.Image)
	return args
}

// DockerRunner implements Runner using a docker-compatible CLI via os/exec.
type DockerRunner struct {
	Binary string       // CLI to execute; DefaultRuntime when empty
	Logger *slog.Logger // receives one debug record per command; nil discards
}

func (d *DockerRunner) binary() string {
	if d.Binary == "" {
		return DefaultRuntime
	}
	return d.Binary
}

func (d *DockerRunner) command(ctx context.Context, args []string) *exec.Cmd {
	if d.Logger != nil {
		d.Logger.DebugContext(ctx, "exec", "cmd", d.binary()+" "+strings.Join(args, " "))
	}
	//nolint:gosec // the binary is chosen by the operator, arguments are passed without a shell
	return exec.CommandContext(ctx, d.binary(), args...)
}

// quiet runs a command discarding its output and reports only failure.
func (d *DockerRunner) quiet(ctx context.Context, args []string) error {
	cmd := d.command(ctx, args)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", d.binary(), args[0], err)
	}
	return nil
}

// Stop stops the named container.
func (d *DockerRunner) Stop(ctx context.Context, container string) error {
	return d.quiet(ctx, stopCmdArgs(container))
}

// Remove removes the named container.
func (d *DockerRunner) Remove(ctx context.Context, container string) error {
	return d.quiet(ctx, removeCmdArgs(container))
}

// Run runs a container and returns the CLI's exit code. An error is returned
// only when the CLI could not be executed at all.
func (d *DockerRunner) Run(ctx context.Context, opts RunOptions, stdout, stderr io.Writer) (int, error) {
	cmd := d.command(ctx, runCmdArgs(opts))
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitStatus(exitErr), nil
		}
		return -1, fmt.Errorf("%s run: %w", d.binary(), err)
	}
	return 0, nil
}

// exitStatus returns the exit code of a failed CLI. A CLI killed by a signal
// reports 128+signal, the way a shell does.
func exitStatus(exitErr *exec.ExitError) int {
	if code := exitErr.ExitCode(); code >= 0 {
		return code
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return 1
}

// PrintRunner implements Runner by writing each command line to Out instead
// of executing it. Every operation succeeds.
type PrintRunner struct {
	Binary string // CLI name shown in the output; DefaultRuntime when empty
	Out    io.Writer
}

func (p *PrintRunner) print(args []string) error {
	bin := p.Binary
	if bin == "" {
		bin = DefaultRuntime
	}
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = shellQuote(a)
	}
	_, err := fmt.Fprintln(p.Out, bin+" "+strings.Join(quoted, " "))
	return err
}

// Stop prints the stop command.
func (p *PrintRunner) Stop(_ context.Context, container string) error {
	return p.print(stopCmdArgs(container))
}

// Remove prints the remove command.
func (p *PrintRunner) Remove(_ context.Context, container string) error {
	return p.print(removeCmdArgs(container))
}

// Run prints the run command and reports exit code 0.
func (p *PrintRunner) Run(_ context.Context, opts RunOptions, _, _ io.Writer) (int, error) {
	if err := p.print(runCmdArgs(opts)); err != nil {
		return -1, err
	}
	return 0, nil
}

// shellQuote quotes s for a POSIX shell when it contains anything beyond a
// conservative set of safe characters.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./:=@,+%", r)) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
