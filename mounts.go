package marvrun

import "path/filepath"

// Fixed paths inside the container.
const (
	ContainerHome       = "/home/marv"
	ContainerCodeDir    = ContainerHome + "/code"
	ContainerSiteDir    = ContainerHome + "/site"
	ContainerScanRoot   = "/scanroot"
	ContainerEntrypoint = "/marv_entrypoint.sh"
)

// Mount describes a bind mount passed to the container runtime as -v source:target[:ro].
type Mount struct {
	Source   string // absolute host path
	Target   string // absolute path inside the container
	ReadOnly bool
}

// Layout returns the bind mounts for a launch. Project paths are mounted
// read-write so a checkout can be edited live in development mode; the scan
// root is always read-only.
func Layout(projectDir, site, scanRoot string) []Mount {
	project := func(parts ...string) string {
		return filepath.Join(append([]string{projectDir}, parts...)...)
	}

	mounts := []Mount{
		{Source: project("scripts", "container-entrypoint.sh"), Target: ContainerEntrypoint},
		{Source: project("CHANGES.rst"), Target: ContainerHome + "/CHANGES.rst"},
		{Source: project("README.md"), Target: ContainerHome + "/README.md"},
	}
	for _, dir := range []string{"code", "docs", "requirements", "scripts", "tutorial"} {
		mounts = append(mounts, Mount{Source: project(dir), Target: ContainerHome + "/" + dir})
	}
	return append(mounts,
		Mount{Source: site, Target: ContainerSiteDir},
		Mount{Source: scanRoot, Target: ContainerScanRoot, ReadOnly: true},
	)
}
