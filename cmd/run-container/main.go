// Command run-container starts a MARV container for a site and a scan root.
//
// Usage:
//
//	run-container [flags] SITE SCANROOT [EXTRA_OPTS ...]
//
// SITE is a directory containing marv.conf, mounted read-write at
// /home/marv/site. SCANROOT is mounted read-only at /scanroot. EXTRA_OPTS are
// passed verbatim to the container runtime, right before the image name.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, newApp(), os.Args[1:])
	stop()
	os.Exit(code)
}
