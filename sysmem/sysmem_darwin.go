//go:build darwin

package sysmem

import "golang.org/x/sys/unix"

// Physical returns the total physical memory of the machine, in bytes.
func Physical() (uint64, error) {
	return unix.SysctlUint64("hw.memsize")
}
