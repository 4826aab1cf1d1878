package marvrun

import "errors"

// ErrInvalidSite is returned when the site path is not a directory containing marv.conf.
var ErrInvalidSite = errors.New("invalid site: marv.conf not found")

// ErrInvalidScanRoot is returned when the scan root is not an existing directory.
var ErrInvalidScanRoot = errors.New("invalid scan root: not a directory")

// ErrDefaultsNotFound is returned when an explicitly requested defaults file does not exist.
var ErrDefaultsNotFound = errors.New("defaults file not found")
