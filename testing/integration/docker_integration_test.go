//go:build testing

package integration

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
	"testing"

	"github.com/zoobzio/marvrun"
)

// dockerAvailable reports whether a Docker daemon is reachable.
func dockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run() == nil
}

func skipWithoutDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	if !dockerAvailable() {
		t.Skip("Docker not available")
	}
}

func forceRemove(name string) {
	exec.Command("docker", "rm", "-f", name).Run() //nolint:errcheck
}

func TestDockerRunner_Stop_NoSuchContainer(t *testing.T) {
	skipWithoutDocker(t)

	r := &marvrun.DockerRunner{}
	if err := r.Stop(context.Background(), "marvrun-test-nonexistent"); err == nil {
		t.Error("expected error stopping nonexistent container, got nil")
	}
	if err := r.Remove(context.Background(), "marvrun-test-nonexistent"); err == nil {
		t.Error("expected error removing nonexistent container, got nil")
	}
}

func TestDockerRunner_Run_Detached(t *testing.T) {
	skipWithoutDocker(t)
	const name = "marvrun-test-run-detached"
	forceRemove(name)
	t.Cleanup(func() { forceRemove(name) })

	var stdout bytes.Buffer
	r := &marvrun.DockerRunner{}
	code, err := r.Run(context.Background(), marvrun.RunOptions{
		Image:   "alpine:latest",
		Name:    name,
		Restart: marvrun.RestartPolicy,
		Detach:  true,
		Env:     []marvrun.EnvVar{{Key: "TIMEZONE", Value: "UTC"}},
		Extra:   []string{"--entrypoint", "sleep"},
	}, &stdout, io.Discard)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if code != 0 {
		t.Fatalf("exit code: got %d, want 0", code)
	}
	if strings.TrimSpace(stdout.String()) == "" {
		t.Error("expected container id on stdout")
	}

	// A second run under the same name conflicts until teardown.
	code, err = r.Run(context.Background(), marvrun.RunOptions{Image: "alpine:latest", Name: name, Detach: true}, io.Discard, io.Discard)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if code == 0 {
		t.Error("expected name conflict on second run")
	}

	if err := r.Stop(context.Background(), name); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if err := r.Remove(context.Background(), name); err != nil {
		t.Errorf("Remove: %v", err)
	}
}

func TestDockerRunner_Run_InvalidImage(t *testing.T) {
	skipWithoutDocker(t)

	var stderr bytes.Buffer
	r := &marvrun.DockerRunner{}
	code, err := r.Run(context.Background(), marvrun.RunOptions{Image: "Invalid Image Name"}, io.Discard, &stderr)
	if err != nil {
		t.Fatalf("unexpected process error: %v", err)
	}
	if code == 0 {
		t.Error("expected non-zero exit code for an invalid image reference")
	}
	if stderr.Len() == 0 {
		t.Error("expected runtime error on stderr")
	}
}
