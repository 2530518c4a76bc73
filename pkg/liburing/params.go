package liburing

import "unsafe"

const (
	kernMaxEntries   = 32768
	kernMaxCQEntries = 2 * kernMaxEntries
)

const (
	MaxEntries     = kernMaxEntries
	DefaultEntries = MaxEntries / 2
)

// SQRingOffsets is struct io_sqring_offsets: byte offsets of the submission ring fields
// inside the region mapped at IORING_OFF_SQ_RING.
type SQRingOffsets struct {
	Head        uint32
	Tail        uint32
	RingMask    uint32
	RingEntries uint32
	Flags       uint32
	Dropped     uint32
	Array       uint32
	Resv1       uint32
	UserAddr    uint64
}

// CQRingOffsets is struct io_cqring_offsets.
type CQRingOffsets struct {
	Head        uint32
	Tail        uint32
	RingMask    uint32
	RingEntries uint32
	Overflow    uint32
	CQEs        uint32
	Flags       uint32
	Resv1       uint32
	UserAddr    uint64
}

// Params is struct io_uring_params.
// The caller fills flags and the optional tuning fields, the kernel writes back
// the granted entry counts, the ring offsets and the feature bits.
type Params struct {
	sqEntries    uint32
	cqEntries    uint32
	flags        uint32
	sqThreadCPU  uint32
	sqThreadIdle uint32
	features     uint32
	wqFd         uint32
	resv         [3]uint32
	sqOff        SQRingOffsets
	cqOff        CQRingOffsets
}

func NewParams(flags uint32) *Params {
	return &Params{flags: flags}
}

func (p *Params) SetFlags(flags uint32) {
	p.flags = flags
}

// SetCQEntries asks for an explicit completion ring size and sets SetupCQSize.
func (p *Params) SetCQEntries(entries uint32) {
	p.cqEntries = entries
	p.flags |= SetupCQSize
}

func (p *Params) SetSQThreadCPU(cpu uint32) {
	p.sqThreadCPU = cpu
}

// SetSQThreadIdle sets the SQPOLL thread idle time in milliseconds.
func (p *Params) SetSQThreadIdle(idle uint32) {
	p.sqThreadIdle = idle
}

// SetWQFd shares the async worker backend of ring fd and sets SetupAttachWQ.
func (p *Params) SetWQFd(fd uint32) {
	p.wqFd = fd
	p.flags |= SetupAttachWQ
}

func (p *Params) SQEntries() uint32 {
	return p.sqEntries
}

func (p *Params) CQEntries() uint32 {
	return p.cqEntries
}

func (p *Params) Flags() uint32 {
	return p.flags
}

func (p *Params) Features() uint32 {
	return p.features
}

func (p *Params) SQThreadCPU() uint32 {
	return p.sqThreadCPU
}

func (p *Params) SQThreadIdle() uint32 {
	return p.sqThreadIdle
}

func (p *Params) WQFd() uint32 {
	return p.wqFd
}

func (p *Params) SQOffsets() SQRingOffsets {
	return p.sqOff
}

func (p *Params) CQOffsets() CQRingOffsets {
	return p.cqOff
}

func (p *Params) sqeSize() uintptr {
	size := unsafe.Sizeof(SubmissionQueueEntry{})
	if p.flags&SetupSQE128 != 0 {
		size += 64
	}
	return size
}

func (p *Params) cqeSize() uintptr {
	size := unsafe.Sizeof(CompletionQueueEvent{})
	if p.flags&SetupCQE32 != 0 {
		size += unsafe.Sizeof(CompletionQueueEvent{})
	}
	return size
}
