//go:build linux

package liburing

// kringSize is the size of struct io_rings that precedes the completion array.
const kringSize = 320

// MLockSize returns the number of bytes the kernel will lock for a ring of entries slots
// set up with flags. It is 0 on kernels that account ring memory to the cgroup instead.
func MLockSize(entries uint32, flags uint32) (uint64, error) {
	return mlockSize(linuxSyscalls{}, entries, NewParams(flags))
}

// MLockSizeParams is MLockSize for a fully described ring.
func MLockSizeParams(entries uint32, p *Params) (uint64, error) {
	return mlockSize(linuxSyscalls{}, entries, p)
}

func mlockSize(sys syscalls, entries uint32, p *Params) (uint64, error) {
	if p == nil {
		p = &Params{}
	}
	features, err := probeFeatures(sys)
	if err != nil {
		return 0, err
	}
	if features&FeatNativeWorkers != 0 {
		return 0, nil
	}

	sq, cq, err := sqCqEntries(entries, p)
	if err != nil {
		return 0, err
	}

	pageSize := uint64(sys.pagesize())
	if int64(pageSize) <= 0 {
		pageSize = 4096
	}
	return ringsSize(p, sq, cq, pageSize), nil
}

// probeFeatures reads the feature bits of the running kernel from a throwaway ring.
func probeFeatures(sys syscalls) (uint32, error) {
	p := &Params{}
	ring, err := createRing(sys, probeEntries, p)
	if err != nil {
		return 0, err
	}
	_ = ring.Close()
	return p.features, nil
}

func sqCqEntries(entries uint32, p *Params) (sq uint32, cq uint32, err error) {
	if entries == 0 {
		return 0, 0, invalidArgument(errMetaOpMLockSize)
	}
	if entries > kernMaxEntries {
		if p.flags&SetupClamp == 0 {
			return 0, 0, invalidArgument(errMetaOpMLockSize)
		}
		entries = kernMaxEntries
	}
	sq = RoundupPow2(entries)

	if p.flags&SetupCQSize == 0 {
		return sq, 2 * sq, nil
	}
	cq = p.cqEntries
	if cq == 0 {
		return 0, 0, invalidArgument(errMetaOpMLockSize)
	}
	if cq > kernMaxCQEntries {
		if p.flags&SetupClamp == 0 {
			return 0, 0, invalidArgument(errMetaOpMLockSize)
		}
		cq = kernMaxCQEntries
	}
	cq = RoundupPow2(cq)
	if cq < sq {
		return 0, 0, invalidArgument(errMetaOpMLockSize)
	}
	return sq, cq, nil
}

// ringsSize mirrors the kernel accounting: the completion side (header plus events,
// cache line aligned) and the submission entries each round up to a power of two pages.
func ringsSize(p *Params, sq uint32, cq uint32, pageSize uint64) uint64 {
	cqSize := uint64(p.cqeSize()) * uint64(cq)
	cqSize += kringSize
	cqSize = (cqSize + 63) &^ 63
	pages := uint64(1) << npages(cqSize, pageSize)

	sqSize := uint64(p.sqeSize()) * uint64(sq)
	pages += uint64(1) << npages(sqSize, pageSize)
	return pages * pageSize
}
