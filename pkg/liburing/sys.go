//go:build linux

package liburing

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	offSQRing uint64 = 0
	offCQRing uint64 = 0x8000000
	offSQEs   uint64 = 0x10000000
)

// syscalls is the slice of the kernel a ring needs while it is being set up and torn down.
type syscalls interface {
	setup(entries uint32, p *Params) (int, error)
	register(fd int, opcode uint32, arg unsafe.Pointer, nrArgs uint32) (uint, error)
	close(fd int) error
	mmap(fd int, offset uint64, length uintptr) (unsafe.Pointer, error)
	munmap(addr unsafe.Pointer, length uintptr) error
	madvise(addr unsafe.Pointer, length uintptr, advice int) error
	pagesize() int
	memlockLimit() (cur uint64, max uint64, err error)
}

type linuxSyscalls struct{}

func (linuxSyscalls) setup(entries uint32, p *Params) (int, error) {
	fd, _, errno := unix.Syscall(unix.SYS_IO_URING_SETUP, uintptr(entries), uintptr(unsafe.Pointer(p)), 0)
	runtime.KeepAlive(p)
	if errno != 0 {
		return -1, errno
	}
	return int(fd), nil
}

func (linuxSyscalls) register(fd int, opcode uint32, arg unsafe.Pointer, nrArgs uint32) (uint, error) {
	r1, _, errno := unix.Syscall6(unix.SYS_IO_URING_REGISTER, uintptr(fd), uintptr(opcode), uintptr(arg), uintptr(nrArgs), 0, 0)
	if errno != 0 {
		return 0, errno
	}
	return uint(r1), nil
}

func (linuxSyscalls) close(fd int) error {
	return unix.Close(fd)
}

func (linuxSyscalls) mmap(fd int, offset uint64, length uintptr) (unsafe.Pointer, error) {
	r1, _, errno := unix.Syscall6(
		unix.SYS_MMAP,
		0, length,
		uintptr(unix.PROT_READ|unix.PROT_WRITE),
		uintptr(unix.MAP_SHARED|unix.MAP_POPULATE),
		uintptr(fd), uintptr(offset),
	)
	if errno != 0 {
		return nil, errno
	}
	return unsafe.Pointer(r1), nil
}

func (linuxSyscalls) munmap(addr unsafe.Pointer, length uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_MUNMAP, uintptr(addr), length, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

func (linuxSyscalls) madvise(addr unsafe.Pointer, length uintptr, advice int) error {
	_, _, errno := unix.Syscall(unix.SYS_MADVISE, uintptr(addr), length, uintptr(advice))
	if errno != 0 {
		return errno
	}
	return nil
}

func (linuxSyscalls) pagesize() int {
	return unix.Getpagesize()
}

func (linuxSyscalls) memlockLimit() (uint64, uint64, error) {
	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_MEMLOCK, &rlim); err != nil {
		return 0, 0, err
	}
	return uint64(rlim.Cur), uint64(rlim.Max), nil
}
