//go:build linux

package liburing

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMLockSize(t *testing.T) {
	cases := []struct {
		name    string
		entries uint32
		p       *Params
		want    uint64
	}{
		{"depth 5", 5, &Params{}, 8192},
		{"depth 1", 1, nil, 8192},
		{"clamped", 40000, NewParams(SetupClamp), 4194304},
		{"max depth", kernMaxEntries, &Params{}, 4194304},
		// cq: 320+256*16 -> 2 pages, sq: 128*64 -> 2 pages
		{"depth 128", 128, &Params{}, 4 * 4096},
		// cq: 320+8*32 -> 1 page, sq: 4*128 -> 1 page
		{"large entries", 4, NewParams(SetupSQE128 | SetupCQE32), 8192},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFakeKernel()
			got, err := mlockSize(f, c.entries, c.p)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
			assert.Equal(t, 1, f.setups)
			assert.Zero(t, f.live())
		})
	}
}

func TestMLockSizeCQSize(t *testing.T) {
	cqParams := func(flags uint32, cq uint32) *Params {
		p := NewParams(flags)
		p.SetCQEntries(cq)
		return p
	}

	f := newFakeKernel()
	// cq rounds to 1024: 320+1024*16 -> 8 pages, sq: 8*64 -> 1 page
	got, err := mlockSize(f, 8, cqParams(0, 1000))
	require.NoError(t, err)
	assert.EqualValues(t, 9*4096, got)

	got, err = mlockSize(f, 8, cqParams(SetupClamp, 100000))
	require.NoError(t, err)
	// cq: 320+65536*16 -> 512 pages, sq: 1 page
	assert.EqualValues(t, 513*4096, got)

	for name, p := range map[string]*Params{
		"zero cq":       NewParams(SetupCQSize),
		"cq over limit": cqParams(0, kernMaxCQEntries+1),
		"cq below sq":   cqParams(0, 4),
	} {
		_, err = mlockSize(f, 8, p)
		assert.True(t, IsInvalidArgument(err), name)
	}
}

func TestMLockSizeInvalidEntries(t *testing.T) {
	f := newFakeKernel()
	_, err := mlockSize(f, 0, &Params{})
	assert.True(t, IsInvalidArgument(err))

	_, err = mlockSize(f, kernMaxEntries+1, &Params{})
	assert.True(t, IsInvalidArgument(err))
	errno, ok := Errno(err)
	assert.True(t, ok)
	assert.Equal(t, syscall.EINVAL, errno)
}

func TestMLockSizeNativeWorkers(t *testing.T) {
	f := newFakeKernel()
	f.features |= FeatNativeWorkers
	got, err := mlockSize(f, 0, &Params{})
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestMLockSizeProbeFailure(t *testing.T) {
	f := newFakeKernel()
	f.failSetup = syscall.EPERM
	_, err := mlockSize(f, 8, &Params{})
	require.Error(t, err)
	assert.True(t, IsKernelError(err))
}

func TestMLockSizePageSize(t *testing.T) {
	f := newFakeKernel()
	f.pageSize = 0
	got, err := mlockSize(f, 5, &Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 8192, got)

	f.pageSize = 65536
	got, err = mlockSize(f, kernMaxEntries, &Params{})
	require.NoError(t, err)
	// cq: 1048896 bytes -> 32 pages, sq: 2 MiB -> 32 pages
	assert.EqualValues(t, 64*65536, got)
}

func TestMLockSizeDefaultCQMatchesExplicit(t *testing.T) {
	f := newFakeKernel()
	implicit, err := mlockSize(f, 5, &Params{})
	require.NoError(t, err)

	p := &Params{}
	p.SetCQEntries(16)
	explicit, err := mlockSize(f, 5, p)
	require.NoError(t, err)
	assert.Equal(t, implicit, explicit)
}
