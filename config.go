package marvrun

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultListen is the host address the web port is published on when
// neither HTTP_LISTEN nor the defaults file set one.
const DefaultListen = "127.0.0.1:8000"

// ImageMarkerFile records the tag of the last built image, relative to the
// project directory. It is read, never written.
const ImageMarkerFile = ".image-name"

// Environment variables honored by Resolve.
const (
	EnvName      = "CONTAINER_NAME"
	EnvHostname  = "CONTAINER_HOSTNAME"
	EnvListen    = "HTTP_LISTEN"
	EnvImage     = "IMAGE_NAME"
	EnvTimezone  = "TIMEZONE"
	EnvDebug     = "DEBUG"
	EnvDevelop   = "DEVELOP"
	EnvUID       = "MARV_UID"
	EnvGID       = "MARV_GID"
	EnvTerm      = "TERM"
	EnvColorFGBG = "COLORFGBG"
	EnvArgs      = "MARV_ARGS"
	EnvInit      = "MARV_INIT"
)

// Config is the derived configuration of one launch. It is a pure function
// of the project directory, the environment and the defaults file.
type Config struct {
	ProjectDir string // absolute, symlink-free project checkout; mount sources are relative to it
	Name       string // container name
	Hostname   string // container hostname
	Listen     string // published host:port for the web port
	Image      string // image reference
	Timezone   string
	UID        string // numeric user id the container drops to
	GID        string // numeric group id the container drops to

	// Passed through to the container; meaning is defined by the image.
	Debug     string
	Develop   string // host value; substituted on the way in, see ContainerEnv
	Term      string
	ColorFGBG string
	Args      string
	Init      string
}

// Resolver derives a Config. The zero value is not usable; see NewResolver.
type Resolver struct {
	Getenv     func(string) string // environment lookup, usually os.Getenv
	Defaults   Defaults            // values from the defaults file
	SystemRoot string              // filesystem root for timezone probing
	UID        int
	GID        int
}

// NewResolver returns a Resolver reading the process environment and the
// real system timezone files, with uid/gid of the current process.
func NewResolver(defaults Defaults) Resolver {
	return Resolver{
		Getenv:     os.Getenv,
		Defaults:   defaults,
		SystemRoot: "/",
		UID:        os.Getuid(),
		GID:        os.Getgid(),
	}
}

// Resolve computes the Config for a launch from projectDir.
// A non-empty environment variable always wins over the defaults file, which
// wins over values computed from the filesystem.
func (r Resolver) Resolve(projectDir string) (Config, error) {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return Config{}, fmt.Errorf("resolve project directory: %w", err)
	}
	if abs, err = filepath.EvalSymlinks(abs); err != nil {
		return Config{}, fmt.Errorf("resolve project directory: %w", err)
	}

	env := r.Getenv
	if env == nil {
		env = func(string) string { return "" }
	}

	cfg := Config{
		ProjectDir: abs,
		Debug:      env(EnvDebug),
		Develop:    env(EnvDevelop),
		Term:       env(EnvTerm),
		ColorFGBG:  env(EnvColorFGBG),
		Args:       env(EnvArgs),
		Init:       env(EnvInit),
	}

	cfg.Name = firstNonEmpty(env(EnvName), r.Defaults.Name, strings.ToLower(filepath.Base(abs)))
	cfg.Hostname = firstNonEmpty(env(EnvHostname), strings.ReplaceAll(cfg.Name, ".", "-"))
	cfg.Listen = firstNonEmpty(env(EnvListen), r.Defaults.Listen, DefaultListen)

	cfg.Image = firstNonEmpty(env(EnvImage), r.Defaults.Image)
	if cfg.Image == "" {
		cfg.Image = firstNonEmpty(firstLine(filepath.Join(abs, ImageMarkerFile)), cfg.Name)
	}

	cfg.Timezone = firstNonEmpty(env(EnvTimezone), r.Defaults.Timezone)
	if cfg.Timezone == "" {
		cfg.Timezone = DetectTimezone(r.SystemRoot)
	}

	cfg.UID = firstNonEmpty(env(EnvUID), strconv.Itoa(r.UID))
	cfg.GID = firstNonEmpty(env(EnvGID), strconv.Itoa(r.GID))

	return cfg, nil
}

// ContainerEnv returns the environment passed into the container, in a fixed
// order. DEVELOP is never forwarded verbatim: a non-empty host value becomes
// the in-container code path, an empty one stays empty.
func (c Config) ContainerEnv() []EnvVar {
	develop := ""
	if c.Develop != "" {
		develop = ContainerCodeDir
	}
	return []EnvVar{
		{Key: EnvInit, Value: c.Init},
		{Key: EnvArgs, Value: c.Args},
		{Key: EnvDebug, Value: c.Debug},
		{Key: EnvDevelop, Value: develop},
		{Key: EnvTimezone, Value: c.Timezone},
		{Key: EnvUID, Value: c.UID},
		{Key: EnvGID, Value: c.GID},
		{Key: EnvTerm, Value: c.Term},
		{Key: EnvColorFGBG, Value: c.ColorFGBG},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
