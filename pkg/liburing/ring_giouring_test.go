//go:build linux && giouring

// giouring links against syscall internals, newer linkers need:
//
//	go test -tags giouring -ldflags=-checklinkname=0 ./pkg/liburing/
package liburing_test

import (
	"testing"

	"github.com/brickingsoft/uring/pkg/liburing"
	"github.com/pawelgaczynski/giouring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProbeMatchesGiouring(t *testing.T) {
	requireKernel(t)

	probe, err := liburing.GetProbe()
	require.NoError(t, err)

	other, err := giouring.GetProbe()
	require.NoError(t, err)
	for op := liburing.OpNop; op <= probe.LastOp(); op++ {
		assert.Equal(t, other.IsSupported(uint8(op)), probe.IsSupported(op), op.String())
	}
}
