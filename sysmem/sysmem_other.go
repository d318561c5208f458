//go:build !linux && !darwin

package sysmem

// Physical returns ErrUnsupported on this platform. Callers should treat
// the 0 result as "unknown" and skip memory-based warnings.
func Physical() (uint64, error) {
	return 0, ErrUnsupported
}
