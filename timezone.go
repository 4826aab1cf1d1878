package marvrun

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// zoneinfoMarker separates the zoneinfo database prefix from the zone name in
// the target of /etc/localtime.
const zoneinfoMarker = "zoneinfo/"

// DetectTimezone returns the host timezone name as seen under root.
// It prefers the first non-empty line of etc/timezone and falls back to the
// symlink target of etc/localtime with its zoneinfo prefix removed.
// It returns an empty string when neither source yields a name.
func DetectTimezone(root string) string {
	if root == "" {
		root = "/"
	}

	if tz := firstLine(filepath.Join(root, "etc", "timezone")); tz != "" {
		return tz
	}

	target, err := os.Readlink(filepath.Join(root, "etc", "localtime"))
	if err != nil {
		return ""
	}
	if i := strings.LastIndex(target, zoneinfoMarker); i >= 0 {
		return target[i+len(zoneinfoMarker):]
	}
	return ""
}

// firstLine returns the first non-blank line of the file at path, trimmed.
// Unreadable files yield an empty string.
func firstLine(path string) string {
	//nolint:gosec // path is built from a fixed set of well-known locations
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line
		}
	}
	return ""
}
