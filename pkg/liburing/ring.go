//go:build linux

package liburing

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Ring is a set up and mapped io_uring instance.
// A Ring is not safe for concurrent use.
type Ring struct {
	sq       *SubmissionQueue
	cq       *CompletionQueue
	flags    uint32
	features uint32
	ringFd   int
	sys      syscalls
}

// CreateRing sets up a ring with entries submission slots and the given setup flags.
func CreateRing(entries uint32, flags uint32) (*Ring, error) {
	return createRing(linuxSyscalls{}, entries, NewParams(flags))
}

// CreateRingParams sets up a ring described by p.
// The resolved entry counts, offsets and features are written back into p.
func CreateRingParams(entries uint32, p *Params) (*Ring, error) {
	if p == nil {
		p = &Params{}
	}
	return createRing(linuxSyscalls{}, entries, p)
}

func createRing(sys syscalls, entries uint32, p *Params) (*Ring, error) {
	if p.flags&(SetupNoMmap|SetupRegisteredFdOnly) != 0 {
		return nil, invalidArgument(errMetaOpSetup)
	}
	fd, err := setup(sys, entries, p)
	if err != nil {
		return nil, err
	}
	ring, err := mapRing(sys, fd, p)
	if err != nil {
		_ = sys.close(fd)
		return nil, err
	}
	return ring, nil
}

// MapRing maps an io_uring fd that was set up by the caller with p.
// The ring takes ownership of fd only when mapping succeeds.
func MapRing(fd int, p *Params) (*Ring, error) {
	if fd < 0 || p == nil {
		return nil, invalidArgument(errMetaOpSetup)
	}
	return mapRing(linuxSyscalls{}, fd, p)
}

func mapRing(sys syscalls, fd int, p *Params) (*Ring, error) {
	ring := &Ring{
		sq:     &SubmissionQueue{},
		cq:     &CompletionQueue{},
		ringFd: -1,
		sys:    sys,
	}
	if err := mmapRings(sys, fd, p, ring.sq, ring.cq); err != nil {
		return nil, err
	}
	ring.flags = p.flags
	ring.features = p.features
	ring.ringFd = fd
	return ring, nil
}

// Close unmaps every region of the ring and closes its descriptor.
// A closed ring keeps no mappings, Close on it again is a no-op.
func (ring *Ring) Close() error {
	unmapRings(ring.sys, ring.sq, ring.cq)
	ring.sq = &SubmissionQueue{}
	ring.cq = &CompletionQueue{}
	if ring.ringFd == -1 {
		return nil
	}
	fd := ring.ringFd
	ring.ringFd = -1
	if err := ring.sys.close(fd); err != nil {
		return kernelError(errMetaOpClose, err)
	}
	return nil
}

// DontFork marks every ring mapping MADV_DONTFORK so a forked child does not inherit them.
func (ring *Ring) DontFork() error {
	sq, cq := ring.sq, ring.cq
	if sq == nil || cq == nil || sq.ringPtr == nil || sq.sqes == nil || cq.ringPtr == nil {
		return invalidState(errMetaOpDontFork)
	}

	if err := ring.sys.madvise(sq.sqes, sq.sqesSize(), unix.MADV_DONTFORK); err != nil {
		return mapError(errMetaOpDontFork, err)
	}
	if err := ring.sys.madvise(sq.ringPtr, uintptr(sq.ringSize), unix.MADV_DONTFORK); err != nil {
		return mapError(errMetaOpDontFork, err)
	}
	if cq.ringPtr != sq.ringPtr {
		if err := ring.sys.madvise(cq.ringPtr, uintptr(cq.ringSize), unix.MADV_DONTFORK); err != nil {
			return mapError(errMetaOpDontFork, err)
		}
	}
	return nil
}

func (ring *Ring) Fd() int {
	return ring.ringFd
}

func (ring *Ring) Flags() uint32 {
	return ring.flags
}

func (ring *Ring) Features() uint32 {
	return ring.features
}

func (ring *Ring) HasFeature(feature uint32) bool {
	return ring.features&feature != 0
}

func (ring *Ring) SQ() *SubmissionQueue {
	return ring.sq
}

func (ring *Ring) CQ() *CompletionQueue {
	return ring.cq
}

func (ring *Ring) SQEntries() uint32 {
	if ring.sq.ringEntries == nil {
		return 0
	}
	return *ring.sq.ringEntries
}

func (ring *Ring) CQEntries() uint32 {
	if ring.cq.ringEntries == nil {
		return 0
	}
	return *ring.cq.ringEntries
}

func (ring *Ring) register(opcode uint32, arg unsafe.Pointer, nrArgs uint32) (uint, error) {
	n, err := ring.sys.register(ring.ringFd, opcode, arg, nrArgs)
	if err != nil {
		return 0, kernelError(errMetaOpRegister, err)
	}
	return n, nil
}
