//go:build linux

package liburing

import (
	"unsafe"
)

func setupRingPointers(p *Params, sq *SubmissionQueue, cq *CompletionQueue) {
	sq.head = (*uint32)(unsafe.Add(sq.ringPtr, p.sqOff.Head))
	sq.tail = (*uint32)(unsafe.Add(sq.ringPtr, p.sqOff.Tail))
	sq.ringMask = (*uint32)(unsafe.Add(sq.ringPtr, p.sqOff.RingMask))
	sq.ringEntries = (*uint32)(unsafe.Add(sq.ringPtr, p.sqOff.RingEntries))
	sq.flags = (*uint32)(unsafe.Add(sq.ringPtr, p.sqOff.Flags))
	sq.dropped = (*uint32)(unsafe.Add(sq.ringPtr, p.sqOff.Dropped))
	sq.array = (*uint32)(unsafe.Add(sq.ringPtr, p.sqOff.Array))

	cq.head = (*uint32)(unsafe.Add(cq.ringPtr, p.cqOff.Head))
	cq.tail = (*uint32)(unsafe.Add(cq.ringPtr, p.cqOff.Tail))
	cq.ringMask = (*uint32)(unsafe.Add(cq.ringPtr, p.cqOff.RingMask))
	cq.ringEntries = (*uint32)(unsafe.Add(cq.ringPtr, p.cqOff.RingEntries))
	cq.overflow = (*uint32)(unsafe.Add(cq.ringPtr, p.cqOff.Overflow))
	cq.cqes = unsafe.Add(cq.ringPtr, p.cqOff.CQEs)
	if p.cqOff.Flags != 0 {
		cq.flags = (*uint32)(unsafe.Add(cq.ringPtr, p.cqOff.Flags))
	}
}

// mmapRings maps the regions described by p into sq and cq.
// On failure every region mapped by this call is unmapped again and sq, cq are left zeroed.
func mmapRings(sys syscalls, fd int, p *Params, sq *SubmissionQueue, cq *CompletionQueue) (err error) {
	sq.sqeSize = p.sqeSize()
	cq.cqeSize = p.cqeSize()

	sq.ringSize = uint(uintptr(p.sqOff.Array) + uintptr(p.sqEntries)*unsafe.Sizeof(uint32(0)))
	cq.ringSize = uint(uintptr(p.cqOff.CQEs) + uintptr(p.cqEntries)*cq.cqeSize)

	singleMMap := p.features&FeatSingleMMap != 0
	if singleMMap {
		if cq.ringSize > sq.ringSize {
			sq.ringSize = cq.ringSize
		}
		cq.ringSize = sq.ringSize
	}

	var undo []func()
	defer func() {
		if err == nil {
			return
		}
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
		*sq = SubmissionQueue{}
		*cq = CompletionQueue{}
	}()

	sqPtr, sqErr := sys.mmap(fd, offSQRing, uintptr(sq.ringSize))
	if sqErr != nil {
		err = mapError(errMetaOpMmapSQRing, sqErr)
		return
	}
	sq.ringPtr = sqPtr
	sqSize := uintptr(sq.ringSize)
	undo = append(undo, func() {
		_ = sys.munmap(sqPtr, sqSize)
	})

	if singleMMap {
		cq.ringPtr = sq.ringPtr
	} else {
		cqPtr, cqErr := sys.mmap(fd, offCQRing, uintptr(cq.ringSize))
		if cqErr != nil {
			err = mapError(errMetaOpMmapCQRing, cqErr)
			return
		}
		cq.ringPtr = cqPtr
		cqSize := uintptr(cq.ringSize)
		undo = append(undo, func() {
			_ = sys.munmap(cqPtr, cqSize)
		})
	}

	sqesPtr, sqesErr := sys.mmap(fd, offSQEs, uintptr(p.sqEntries)*sq.sqeSize)
	if sqesErr != nil {
		err = mapError(errMetaOpMmapSQEs, sqesErr)
		return
	}
	sq.sqes = sqesPtr

	setupRingPointers(p, sq, cq)
	return nil
}

// unmapRings releases the entry array, the completion region when it is not shared,
// and the submission region. The entry array length comes from the entry count the
// kernel currently reports.
func unmapRings(sys syscalls, sq *SubmissionQueue, cq *CompletionQueue) {
	if sq.sqes != nil {
		_ = sys.munmap(sq.sqes, sq.sqesSize())
	}
	if cq.ringPtr != nil && cq.ringPtr != sq.ringPtr {
		_ = sys.munmap(cq.ringPtr, uintptr(cq.ringSize))
	}
	if sq.ringPtr != nil {
		_ = sys.munmap(sq.ringPtr, uintptr(sq.ringSize))
	}
}
