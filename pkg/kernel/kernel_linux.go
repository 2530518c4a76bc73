//go:build linux

package kernel

import (
	"sync"

	"golang.org/x/sys/unix"
)

var (
	version     Version
	versionErr  error
	versionOnce sync.Once
)

// Get returns the running kernel version. The uname result is cached.
func Get() (Version, error) {
	versionOnce.Do(func() {
		uts := unix.Utsname{}
		if err := unix.Uname(&uts); err != nil {
			versionErr = err
			return
		}
		version, versionErr = Parse(unix.ByteSliceToString(uts.Release[:]))
	})
	return version, versionErr
}
