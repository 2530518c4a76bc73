//go:build linux

package liburing

import (
	"strconv"

	"github.com/brickingsoft/errors"
)

// MLockInfinity is the RLIM_INFINITY memlock limit.
const MLockInfinity = ^uint64(0)

// MLockLimit returns the soft and hard RLIMIT_MEMLOCK of the process.
func MLockLimit() (cur uint64, max uint64, err error) {
	return mlockLimit(linuxSyscalls{})
}

func mlockLimit(sys syscalls) (uint64, uint64, error) {
	cur, max, err := sys.memlockLimit()
	if err != nil {
		return 0, 0, kernelError(errMetaOpMLockLimit, err)
	}
	return cur, max, nil
}

// CheckMLockBudget estimates the locked memory of a ring and compares it with the soft
// memlock limit. need is returned even when the budget is exceeded.
func CheckMLockBudget(entries uint32, p *Params) (need uint64, err error) {
	return checkMLockBudget(linuxSyscalls{}, entries, p)
}

func checkMLockBudget(sys syscalls, entries uint32, p *Params) (uint64, error) {
	need, err := mlockSize(sys, entries, p)
	if err != nil {
		return 0, err
	}
	if need == 0 {
		return 0, nil
	}
	cur, _, err := mlockLimit(sys)
	if err != nil {
		return need, err
	}
	if cur == MLockInfinity || need <= cur {
		return need, nil
	}
	return need, errors.From(
		ErrMLockBudget,
		errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
		errors.WithMeta(errMetaOpKey, errMetaOpMLockBudget),
		errors.WithMeta(errMetaNeedKey, strconv.FormatUint(need, 10)),
		errors.WithMeta(errMetaLimitKey, strconv.FormatUint(cur, 10)),
	)
}
