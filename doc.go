// Package marvrun starts MARV web containers for a site and a scan root.
//
// A site is a directory holding marv.conf; a scan root is a directory of
// recordings. marvrun validates both, derives a container identity from the
// environment, tears down the previous container of the same name and runs
// a new one with a fixed bind-mount layout.
//
// # Basic usage
//
//	cfg, err := marvrun.NewResolver(marvrun.Defaults{}).Resolve(projectDir)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	l := marvrun.NewLauncher(&marvrun.DockerRunner{}, nil)
//	code, err := l.Launch(ctx, marvrun.Request{
//	    Site:     "sites/example",
//	    ScanRoot: "/data/bags",
//	    Config:   cfg,
//	}, os.Stdout, os.Stderr)
//
// # Derived configuration
//
// Every value of Config has an environment override (CONTAINER_NAME,
// CONTAINER_HOSTNAME, HTTP_LISTEN, IMAGE_NAME, TIMEZONE, MARV_UID, MARV_GID).
// Without one, values come from the optional defaults file and then from the
// filesystem: the project directory name, the .image-name marker and
// /etc/timezone or /etc/localtime.
//
// # Constraints
//
// marvrun drives a docker-compatible CLI via os/exec. Errors from the runtime
// are not interpreted: its output is streamed verbatim and its exit code is
// returned to the caller.
package marvrun
