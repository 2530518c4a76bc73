//go:build linux

package liburing

import (
	"syscall"
	"unsafe"
)

// fakeKernel backs ring regions with Go memory and records every call.
type fakeKernel struct {
	features  uint32
	noCQFlags bool
	pageSize  int
	supported map[Op]bool

	memlockCur uint64
	memlockMax uint64
	memlockErr error

	failSetup    error
	failRegister error
	failClose    error
	failMadvise  error
	// failMmapAt fails the n-th mmap call (1-based), 0 never fails.
	failMmapAt int

	nextFd   int
	params   Params
	setups   int
	mmaps    int
	munmaps  []fakeRegion
	closes   []int
	madvises []fakeRegion
	mapped   map[unsafe.Pointer][]byte
}

type fakeRegion struct {
	addr   unsafe.Pointer
	length uintptr
}

func newFakeKernel() *fakeKernel {
	return &fakeKernel{
		features: FeatSingleMMap | FeatNoDrop | FeatSubmitStable,
		pageSize: 4096,
		supported: map[Op]bool{
			OpNop:    true,
			OpReadv:  true,
			OpWritev: true,
			OpRead:   true,
			OpWrite:  true,
			OpSend:   true,
			OpRecv:   true,
		},
		memlockCur: 8 << 20,
		memlockMax: 8 << 20,
		nextFd:     100,
		mapped:     make(map[unsafe.Pointer][]byte),
	}
}

func (f *fakeKernel) setup(entries uint32, p *Params) (int, error) {
	f.setups++
	if f.failSetup != nil {
		return -1, f.failSetup
	}
	if entries == 0 {
		return -1, syscall.EINVAL
	}
	if entries > kernMaxEntries {
		if p.flags&SetupClamp == 0 {
			return -1, syscall.EINVAL
		}
		entries = kernMaxEntries
	}
	sq := RoundupPow2(entries)
	cq := 2 * sq
	if p.flags&SetupCQSize != 0 {
		cq = RoundupPow2(p.cqEntries)
	}
	cqeSize := uint32(p.cqeSize())

	p.sqEntries = sq
	p.cqEntries = cq
	p.features = f.features
	p.sqOff = SQRingOffsets{
		Head:        0,
		Tail:        4,
		RingMask:    8,
		RingEntries: 12,
		Flags:       16,
		Dropped:     20,
		Array:       128 + cq*cqeSize,
	}
	p.cqOff = CQRingOffsets{
		Head:        64,
		Tail:        68,
		RingMask:    72,
		RingEntries: 76,
		Overflow:    80,
		Flags:       84,
		CQEs:        128,
	}
	if f.noCQFlags {
		p.cqOff.Flags = 0
	}
	f.params = *p

	fd := f.nextFd
	f.nextFd++
	return fd, nil
}

func (f *fakeKernel) register(_ int, opcode uint32, arg unsafe.Pointer, nrArgs uint32) (uint, error) {
	if f.failRegister != nil {
		return 0, f.failRegister
	}
	if opcode != registerProbe {
		return 0, syscall.EINVAL
	}
	probe := (*Probe)(arg)
	var last Op
	for op := range f.supported {
		if op > last {
			last = op
		}
	}
	n := uint32(last) + 1
	if n > nrArgs {
		n = nrArgs
	}
	probe.lastOp = uint8(last)
	probe.opsLen = uint8(n)
	for i := uint32(0); i < n; i++ {
		probe.ops[i].Op = uint8(i)
		if f.supported[Op(i)] {
			probe.ops[i].Flags = opSupported
		}
	}
	return 0, nil
}

func (f *fakeKernel) close(fd int) error {
	f.closes = append(f.closes, fd)
	return f.failClose
}

func (f *fakeKernel) mmap(_ int, offset uint64, length uintptr) (unsafe.Pointer, error) {
	f.mmaps++
	if f.failMmapAt == f.mmaps {
		return nil, syscall.ENOMEM
	}
	buf := make([]byte, length)
	ptr := unsafe.Pointer(unsafe.SliceData(buf))
	f.mapped[ptr] = buf

	p := &f.params
	switch offset {
	case offSQRing:
		*(*uint32)(unsafe.Add(ptr, p.sqOff.RingMask)) = p.sqEntries - 1
		*(*uint32)(unsafe.Add(ptr, p.sqOff.RingEntries)) = p.sqEntries
		if p.features&FeatSingleMMap != 0 {
			f.fillCQ(ptr)
		}
	case offCQRing:
		f.fillCQ(ptr)
	case offSQEs:
	default:
		return nil, syscall.EINVAL
	}
	return ptr, nil
}

func (f *fakeKernel) fillCQ(ptr unsafe.Pointer) {
	p := &f.params
	*(*uint32)(unsafe.Add(ptr, p.cqOff.RingMask)) = p.cqEntries - 1
	*(*uint32)(unsafe.Add(ptr, p.cqOff.RingEntries)) = p.cqEntries
}

func (f *fakeKernel) munmap(addr unsafe.Pointer, length uintptr) error {
	f.munmaps = append(f.munmaps, fakeRegion{addr: addr, length: length})
	if _, ok := f.mapped[addr]; !ok {
		return syscall.EINVAL
	}
	delete(f.mapped, addr)
	return nil
}

func (f *fakeKernel) madvise(addr unsafe.Pointer, length uintptr, _ int) error {
	f.madvises = append(f.madvises, fakeRegion{addr: addr, length: length})
	return f.failMadvise
}

func (f *fakeKernel) pagesize() int {
	return f.pageSize
}

func (f *fakeKernel) memlockLimit() (uint64, uint64, error) {
	return f.memlockCur, f.memlockMax, f.memlockErr
}

// live reports the number of regions still mapped.
func (f *fakeKernel) live() int {
	return len(f.mapped)
}
