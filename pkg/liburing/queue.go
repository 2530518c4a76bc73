//go:build linux

package liburing

import (
	"unsafe"
)

// SubmissionQueue is the view of the submission side of a ring.
// Every pointer refers to memory shared with the kernel and owned by the Ring,
// it stays valid until Ring.Close. Synchronising head and tail is up to the caller.
type SubmissionQueue struct {
	head        *uint32
	tail        *uint32
	ringMask    *uint32
	ringEntries *uint32
	flags       *uint32
	dropped     *uint32
	array       *uint32
	sqes        unsafe.Pointer
	sqeSize     uintptr
	ringSize    uint
	ringPtr     unsafe.Pointer
}

func (sq *SubmissionQueue) Head() *uint32 {
	return sq.head
}

func (sq *SubmissionQueue) Tail() *uint32 {
	return sq.tail
}

func (sq *SubmissionQueue) RingMask() *uint32 {
	return sq.ringMask
}

func (sq *SubmissionQueue) RingEntries() *uint32 {
	return sq.ringEntries
}

func (sq *SubmissionQueue) Flags() *uint32 {
	return sq.flags
}

func (sq *SubmissionQueue) Dropped() *uint32 {
	return sq.dropped
}

// Array returns the index array that maps ring slots to entry slots.
func (sq *SubmissionQueue) Array() []uint32 {
	if sq.array == nil {
		return nil
	}
	return unsafe.Slice(sq.array, *sq.ringEntries)
}

// Entry returns the submission entry in slot index&mask.
func (sq *SubmissionQueue) Entry(index uint32) *SubmissionQueueEntry {
	return (*SubmissionQueueEntry)(unsafe.Add(sq.sqes, uintptr(index&*sq.ringMask)*sq.sqeSize))
}

// EntrySize is 64, or 128 when the ring was set up with SetupSQE128.
func (sq *SubmissionQueue) EntrySize() uintptr {
	return sq.sqeSize
}

func (sq *SubmissionQueue) EntriesPtr() unsafe.Pointer {
	return sq.sqes
}

func (sq *SubmissionQueue) RingPtr() unsafe.Pointer {
	return sq.ringPtr
}

func (sq *SubmissionQueue) RingSize() uint {
	return sq.ringSize
}

func (sq *SubmissionQueue) sqesSize() uintptr {
	return uintptr(*sq.ringEntries) * sq.sqeSize
}

// CompletionQueue is the view of the completion side of a ring.
// With FeatSingleMMap it shares its region with the SubmissionQueue.
type CompletionQueue struct {
	head        *uint32
	tail        *uint32
	ringMask    *uint32
	ringEntries *uint32
	flags       *uint32
	overflow    *uint32
	cqes        unsafe.Pointer
	cqeSize     uintptr
	ringSize    uint
	ringPtr     unsafe.Pointer
}

func (cq *CompletionQueue) Head() *uint32 {
	return cq.head
}

func (cq *CompletionQueue) Tail() *uint32 {
	return cq.tail
}

func (cq *CompletionQueue) RingMask() *uint32 {
	return cq.ringMask
}

func (cq *CompletionQueue) RingEntries() *uint32 {
	return cq.ringEntries
}

// Flags is nil when the kernel does not expose completion ring flags.
func (cq *CompletionQueue) Flags() *uint32 {
	return cq.flags
}

func (cq *CompletionQueue) Overflow() *uint32 {
	return cq.overflow
}

// Event returns the completion event in slot index&mask.
func (cq *CompletionQueue) Event(index uint32) *CompletionQueueEvent {
	return (*CompletionQueueEvent)(unsafe.Add(cq.cqes, uintptr(index&*cq.ringMask)*cq.cqeSize))
}

// EventSize is 16, or 32 when the ring was set up with SetupCQE32.
func (cq *CompletionQueue) EventSize() uintptr {
	return cq.cqeSize
}

func (cq *CompletionQueue) CQEs() unsafe.Pointer {
	return cq.cqes
}

func (cq *CompletionQueue) RingPtr() unsafe.Pointer {
	return cq.ringPtr
}

func (cq *CompletionQueue) RingSize() uint {
	return cq.ringSize
}
