package marvrun

import (
	"context"
	"io"
	"log/slog"
)

// Launcher validates a launch request, tears down the previous container of
// the same name and starts a new one. Use NewLauncher to create one.
type Launcher struct {
	runner Runner
	logger *slog.Logger
}

// NewLauncher returns a Launcher that executes container operations via
// runner. A nil logger discards all records.
func NewLauncher(runner Runner, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Launcher{
		runner: runner,
		logger: logger,
	}
}

// Request is one launch: the two positional paths, caller options forwarded
// to the runtime, and the derived configuration.
type Request struct {
	Site     string   // site directory, must contain marv.conf
	ScanRoot string   // scan root directory, mounted read-only
	Extra    []string // forwarded verbatim before the image argument
	Config   Config
}

// Launch runs the request and returns the runtime's exit code.
//
// Site and scan root are validated before any container operation; failures
// return ErrInvalidSite or ErrInvalidScanRoot with exit code -1. Stop and
// remove of a previous container are best effort and never fail the launch.
// A non-zero exit code from the run itself is returned with a nil error.
func (l *Launcher) Launch(ctx context.Context, req Request, stdout, stderr io.Writer) (int, error) {
	site, err := ResolveSite(req.Site)
	if err != nil {
		return -1, err
	}
	scanRoot, err := ResolveScanRoot(req.ScanRoot)
	if err != nil {
		return -1, err
	}

	cfg := req.Config
	l.teardown(ctx, cfg.Name)

	opts := RunOptions{
		Image:    cfg.Image,
		Name:     cfg.Name,
		Hostname: cfg.Hostname,
		Restart:  RestartPolicy,
		Detach:   true,
		Publish:  []string{cfg.Listen + ":" + WebPort},
		Env:      cfg.ContainerEnv(),
		Mounts:   Layout(cfg.ProjectDir, site, scanRoot),
		Extra:    req.Extra,
	}

	l.logger.Info("starting container", "name", cfg.Name, "image", cfg.Image, "listen", cfg.Listen)
	code, err := l.runner.Run(ctx, opts, stdout, stderr)
	if err != nil {
		return -1, err
	}
	if code != 0 {
		l.logger.Debug("container run failed", "name", cfg.Name, "code", code)
	}
	return code, nil
}

// teardown stops and removes the named container, ignoring failures. A
// missing container is the common case on first launch.
func (l *Launcher) teardown(ctx context.Context, name string) {
	if err := l.runner.Stop(ctx, name); err != nil {
		l.logger.Debug("stop previous container", "name", name, "error", err)
	}
	if err := l.runner.Remove(ctx, name); err != nil {
		l.logger.Debug("remove previous container", "name", name, "error", err)
	}
}
