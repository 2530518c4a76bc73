//go:build linux

// Package report gathers what the running kernel offers for io_uring and renders it.
package report

import (
	"context"
	"sort"
	"sync"

	"github.com/brickingsoft/rxp"
	"github.com/brickingsoft/uring/internal/config"
	"github.com/brickingsoft/uring/pkg/kernel"
	"github.com/brickingsoft/uring/pkg/liburing"
	"go.uber.org/zap"
)

// Estimate is the locked memory needed by a ring of Depth entries.
type Estimate struct {
	Depth uint32
	Bytes uint64
	Err   error
}

type OpSupport struct {
	Op        liburing.Op
	Supported bool
}

type Report struct {
	Kernel    kernel.Version
	Entries   uint32
	SQEntries uint32
	CQEntries uint32
	Flags     uint32
	Features  uint32
	Ops       []OpSupport
	Estimates []Estimate

	MLockCur  uint64
	MLockMax  uint64
	MLockNeed uint64
	// BudgetErr is set when the configured ring does not fit the memlock limit
	// or its size could not be estimated.
	BudgetErr error
	// RingErr is set when the configured ring could not be created. SQEntries,
	// CQEntries, Flags and Features are zero then.
	RingErr error
}

// Collect creates the configured ring once, probes the kernel and runs the per depth
// estimates on exec. Each estimate uses its own scratch rings.
// A configured ring that cannot be sized or created is recorded in the report,
// only a kernel without usable io_uring fails the whole collection.
func Collect(ctx context.Context, exec rxp.Executors, cfg *config.Config, log *zap.Logger) (*Report, error) {
	v, err := kernel.Get()
	if err != nil {
		return nil, err
	}
	log.Debug("kernel", zap.Stringer("version", v))

	p, err := cfg.Ring.Params()
	if err != nil {
		return nil, err
	}
	r := &Report{
		Kernel:  v,
		Entries: cfg.Ring.Entries,
	}

	r.MLockNeed, r.BudgetErr = liburing.CheckMLockBudget(cfg.Ring.Entries, p)
	if liburing.IsKernelError(r.BudgetErr) {
		return nil, r.BudgetErr
	}
	if r.MLockCur, r.MLockMax, err = liburing.MLockLimit(); err != nil {
		return nil, err
	}

	if ring, ringErr := liburing.CreateRingParams(cfg.Ring.Entries, p); ringErr != nil {
		r.RingErr = ringErr
		log.Debug("ring", zap.Uint32("entries", r.Entries), zap.Error(ringErr))
	} else {
		r.SQEntries = ring.SQEntries()
		r.CQEntries = ring.CQEntries()
		r.Flags = ring.Flags()
		r.Features = ring.Features()
		if err = ring.Close(); err != nil {
			log.Warn("close ring", zap.Error(err))
		}
		log.Debug("ring",
			zap.Uint32("sq", r.SQEntries),
			zap.Uint32("cq", r.CQEntries),
			zap.Strings("features", liburing.FeatureNames(r.Features)),
		)
	}

	probe, err := liburing.GetProbe()
	if err != nil {
		return nil, err
	}
	for op, supported := range probe.Supported() {
		r.Ops = append(r.Ops, OpSupport{Op: op, Supported: supported})
	}
	sort.Slice(r.Ops, func(i, j int) bool {
		return r.Ops[i].Op < r.Ops[j].Op
	})

	r.Estimates = estimate(ctx, exec, cfg.Info.EstimateDepths, p.Flags(), log)
	return r, nil
}

// estimateTask computes one depth on an executor goroutine.
type estimateTask struct {
	estimate *Estimate
	flags    uint32
	wg       *sync.WaitGroup
}

func (task *estimateTask) Handle(_ context.Context) {
	defer task.wg.Done()
	// depths above the kernel maximum are reported clamped
	task.estimate.Bytes, task.estimate.Err = liburing.MLockSize(task.estimate.Depth, task.flags|liburing.SetupClamp)
}

func estimate(ctx context.Context, exec rxp.Executors, depths []uint32, flags uint32, log *zap.Logger) []Estimate {
	estimates := make([]Estimate, len(depths))
	wg := new(sync.WaitGroup)
	for i, depth := range depths {
		estimates[i].Depth = depth
		wg.Add(1)
		task := &estimateTask{
			estimate: &estimates[i],
			flags:    flags,
			wg:       wg,
		}
		if err := exec.Execute(ctx, task); err != nil {
			estimates[i].Err = err
			wg.Done()
		}
	}
	wg.Wait()
	for _, e := range estimates {
		if e.Err != nil {
			log.Warn("estimate", zap.Uint32("depth", e.Depth), zap.Error(e.Err))
		}
	}
	return estimates
}
