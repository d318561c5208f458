// Package sysmem detects the amount of physical memory of the machine, so
// callers can decide whether a fully materialized coordinate cache fits.
package sysmem

import "errors"

// ErrUnsupported is returned on platforms where detection is not implemented.
var ErrUnsupported = errors.New("sysmem: physical memory detection not supported on this platform")
