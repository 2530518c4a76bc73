//go:build linux

package liburing

import (
	"golang.org/x/sys/unix"
)

// setup asks the kernel for a new io_uring instance with the requested depth.
// The kernel may round entries up, the granted values are written back into p.
func setup(sys syscalls, entries uint32, p *Params) (int, error) {
	fd, err := sys.setup(entries, p)
	if err != nil {
		return -1, kernelError(errMetaOpSetup, err)
	}
	unix.CloseOnExec(fd)
	return fd, nil
}
