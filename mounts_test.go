//go:build testing

package marvrun

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayout(t *testing.T) {
	mounts := Layout("/src/marv", "/sites/example", "/data/bags")

	want := []Mount{
		{Source: "/src/marv/scripts/container-entrypoint.sh", Target: "/marv_entrypoint.sh"},
		{Source: "/src/marv/CHANGES.rst", Target: "/home/marv/CHANGES.rst"},
		{Source: "/src/marv/README.md", Target: "/home/marv/README.md"},
		{Source: "/src/marv/code", Target: "/home/marv/code"},
		{Source: "/src/marv/docs", Target: "/home/marv/docs"},
		{Source: "/src/marv/requirements", Target: "/home/marv/requirements"},
		{Source: "/src/marv/scripts", Target: "/home/marv/scripts"},
		{Source: "/src/marv/tutorial", Target: "/home/marv/tutorial"},
		{Source: "/sites/example", Target: "/home/marv/site"},
		{Source: "/data/bags", Target: "/scanroot", ReadOnly: true},
	}
	assert.Equal(t, want, mounts)
}

func TestLayout_OnlyScanRootReadOnly(t *testing.T) {
	for _, m := range Layout("/p", "/s", "/r") {
		assert.Equal(t, m.Target == ContainerScanRoot, m.ReadOnly, "mount %s", m.Target)
	}
}
