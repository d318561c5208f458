//go:build linux

package sysmem

import "golang.org/x/sys/unix"

// Physical returns the total physical memory of the machine, in bytes.
func Physical() (uint64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, err
	}
	return uint64(info.Totalram) * uint64(info.Unit), nil
}
