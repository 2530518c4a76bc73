//go:build linux

package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/brickingsoft/uring/pkg/liburing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

func formatLimit(v uint64) string {
	if v == liburing.MLockInfinity {
		return "unlimited"
	}
	return strconv.FormatUint(v, 10)
}

// WriteText renders r for a terminal.
func WriteText(w io.Writer, r *Report) error {
	b := new(strings.Builder)
	fmt.Fprintf(b, "kernel:     %s\n", r.Kernel)
	if r.RingErr != nil {
		fmt.Fprintf(b, "ring:       entries=%d error: %v\n", r.Entries, r.RingErr)
	} else {
		fmt.Fprintf(b, "ring:       entries=%d sq=%d cq=%d\n", r.Entries, r.SQEntries, r.CQEntries)
	}
	fmt.Fprintf(b, "flags:      %s\n", strings.Join(liburing.SetupFlagNames(r.Flags), " "))
	fmt.Fprintf(b, "features:   %s\n", strings.Join(liburing.FeatureNames(r.Features), " "))

	supported := make([]string, 0, len(r.Ops))
	unsupported := make([]string, 0)
	for _, op := range r.Ops {
		if op.Supported {
			supported = append(supported, op.Op.String())
		} else {
			unsupported = append(unsupported, op.Op.String())
		}
	}
	fmt.Fprintf(b, "ops:        %d supported\n", len(supported))
	fmt.Fprintf(b, "  supported:   %s\n", strings.Join(supported, " "))
	fmt.Fprintf(b, "  unsupported: %s\n", strings.Join(unsupported, " "))

	fmt.Fprintf(b, "memlock:    soft=%s hard=%s need=%d", formatLimit(r.MLockCur), formatLimit(r.MLockMax), r.MLockNeed)
	if liburing.IsMLockBudgetExceeded(r.BudgetErr) {
		b.WriteString(" EXCEEDED")
	} else if r.BudgetErr != nil {
		fmt.Fprintf(b, " error: %v", r.BudgetErr)
	}
	b.WriteString("\n")

	b.WriteString("estimates:\n")
	for _, e := range r.Estimates {
		if e.Err != nil {
			fmt.Fprintf(b, "  %6d  error: %v\n", e.Depth, e.Err)
			continue
		}
		fmt.Fprintf(b, "  %6d  %d\n", e.Depth, e.Bytes)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func boolGauge(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

func limitGauge(v uint64) float64 {
	if v == liburing.MLockInfinity {
		return math.Inf(1)
	}
	return float64(v)
}

// WritePrometheus renders r in the Prometheus text exposition format.
func WritePrometheus(w io.Writer, r *Report) error {
	reg := prometheus.NewRegistry()

	kernelInfo := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "uring_kernel_info",
		Help: "Running kernel release.",
	}, []string{"release"})
	entries := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "uring_ring_entries",
		Help: "Entries granted to the configured ring.",
	}, []string{"queue"})
	features := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "uring_feature_enabled",
		Help: "Feature bits reported by io_uring_setup.",
	}, []string{"feature"})
	ops := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "uring_op_supported",
		Help: "Opcodes reported by IORING_REGISTER_PROBE.",
	}, []string{"op"})
	estimates := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "uring_mlock_estimate_bytes",
		Help: "Locked memory needed by a ring of the given depth.",
	}, []string{"depth"})
	limits := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "uring_memlock_limit_bytes",
		Help: "RLIMIT_MEMLOCK of the process.",
	}, []string{"kind"})
	need := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "uring_mlock_need_bytes",
		Help: "Locked memory needed by the configured ring.",
	})
	created := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "uring_ring_created",
		Help: "1 when the configured ring could be created.",
	})
	exceeded := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "uring_mlock_budget_exceeded",
		Help: "1 when the configured ring does not fit the soft memlock limit.",
	})
	reg.MustRegister(kernelInfo, created, entries, features, ops, estimates, limits, need, exceeded)

	kernelInfo.WithLabelValues(r.Kernel.String()).Set(1)
	created.Set(boolGauge(r.RingErr == nil))
	if r.RingErr == nil {
		entries.WithLabelValues("sq").Set(float64(r.SQEntries))
		entries.WithLabelValues("cq").Set(float64(r.CQEntries))
	}

	enabled := make(map[string]bool)
	for _, name := range liburing.FeatureNames(r.Features) {
		enabled[name] = true
	}
	for _, name := range liburing.FeatureNames(^uint32(0)) {
		features.WithLabelValues(name).Set(boolGauge(enabled[name]))
	}
	for _, op := range r.Ops {
		ops.WithLabelValues(op.Op.String()).Set(boolGauge(op.Supported))
	}
	for _, e := range r.Estimates {
		if e.Err != nil {
			continue
		}
		estimates.WithLabelValues(strconv.FormatUint(uint64(e.Depth), 10)).Set(float64(e.Bytes))
	}
	limits.WithLabelValues("soft").Set(limitGauge(r.MLockCur))
	limits.WithLabelValues("hard").Set(limitGauge(r.MLockMax))
	need.Set(float64(r.MLockNeed))
	exceeded.Set(boolGauge(liburing.IsMLockBudgetExceeded(r.BudgetErr)))

	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err = expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
