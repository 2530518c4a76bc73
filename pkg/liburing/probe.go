//go:build linux

package liburing

import (
	"unsafe"
)

const registerProbe uint32 = 8

type ProbeOp struct {
	Op    uint8
	Res   uint8
	Flags uint16
	Res2  uint32
}

const (
	probeOpsSize = 256
	probeEntries = 2
)

const opSupported uint16 = 1 << 0

// Probe is struct io_uring_probe with room for every possible opcode.
type Probe struct {
	lastOp uint8
	opsLen uint8
	res    uint16
	res2   [3]uint32
	ops    [probeOpsSize]ProbeOp
}

// LastOp is the highest opcode the kernel knows about.
func (p *Probe) LastOp() Op {
	return Op(p.lastOp)
}

func (p *Probe) Ops() []ProbeOp {
	return p.ops[:p.opsLen]
}

func (p *Probe) IsSupported(op Op) bool {
	if op > p.LastOp() {
		return false
	}
	for _, entry := range p.Ops() {
		if entry.Op != uint8(op) {
			continue
		}
		return entry.Flags&opSupported != 0
	}
	return false
}

// Supported returns the support flag of every opcode the kernel reported.
func (p *Probe) Supported() map[Op]bool {
	ops := make(map[Op]bool, p.opsLen)
	for _, entry := range p.Ops() {
		ops[Op(entry.Op)] = entry.Flags&opSupported != 0
	}
	return ops
}

// RegisterProbe fills probe with up to nrOps opcode entries.
func (ring *Ring) RegisterProbe(probe *Probe, nrOps uint32) error {
	if probe == nil || nrOps > probeOpsSize {
		return invalidArgument(errMetaOpRegister)
	}
	_, err := ring.register(registerProbe, unsafe.Pointer(probe), nrOps)
	return err
}

func (ring *Ring) Probe() (*Probe, error) {
	probe := &Probe{}
	if err := ring.RegisterProbe(probe, probeOpsSize); err != nil {
		return nil, err
	}
	return probe, nil
}

// GetProbe probes the running kernel through a short-lived ring.
func GetProbe() (*Probe, error) {
	return getProbe(linuxSyscalls{})
}

func getProbe(sys syscalls) (*Probe, error) {
	ring, err := createRing(sys, probeEntries, &Params{})
	if err != nil {
		return nil, err
	}
	defer ring.Close()
	return ring.Probe()
}
