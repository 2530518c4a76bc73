//go:build linux

package liburing

import (
	"syscall"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFake(t *testing.T, f *fakeKernel, entries uint32, p *Params) int {
	t.Helper()
	fd, err := setup(f, entries, p)
	require.NoError(t, err)
	return fd
}

func TestMmapRingsSingleMMap(t *testing.T) {
	f := newFakeKernel()
	p := &Params{}
	fd := setupFake(t, f, 4, p)

	sq, cq := &SubmissionQueue{}, &CompletionQueue{}
	require.NoError(t, mmapRings(f, fd, p, sq, cq))

	assert.Equal(t, 2, f.mmaps)
	assert.Equal(t, sq.ringPtr, cq.ringPtr)
	assert.Equal(t, sq.ringSize, cq.ringSize)
	// completion side is larger: 128 + 8*16 vs array + 4*4
	assert.EqualValues(t, p.sqOff.Array+4*4, sq.ringSize)

	assert.EqualValues(t, 4, *sq.RingEntries())
	assert.EqualValues(t, 3, *sq.RingMask())
	assert.EqualValues(t, 8, *cq.RingEntries())
	assert.EqualValues(t, 7, *cq.RingMask())
	assert.Len(t, sq.Array(), 4)
	assert.NotNil(t, cq.Flags())
	assert.Equal(t, unsafe.Add(cq.ringPtr, p.cqOff.CQEs), cq.CQEs())
	assert.Equal(t, unsafe.Add(cq.ringPtr, p.cqOff.Overflow), unsafe.Pointer(cq.Overflow()))
	assert.EqualValues(t, 64, sq.EntrySize())
	assert.EqualValues(t, 16, cq.EventSize())
}

func TestMmapRingsSeparateRegions(t *testing.T) {
	f := newFakeKernel()
	f.features = 0
	p := &Params{}
	fd := setupFake(t, f, 8, p)

	sq, cq := &SubmissionQueue{}, &CompletionQueue{}
	require.NoError(t, mmapRings(f, fd, p, sq, cq))

	assert.Equal(t, 3, f.mmaps)
	assert.NotEqual(t, sq.ringPtr, cq.ringPtr)
	assert.EqualValues(t, p.sqOff.Array+8*4, sq.ringSize)
	assert.EqualValues(t, p.cqOff.CQEs+16*16, cq.ringSize)
	assert.EqualValues(t, 16, *cq.RingEntries())
}

func TestMmapRingsLargeEntries(t *testing.T) {
	f := newFakeKernel()
	p := NewParams(SetupSQE128 | SetupCQE32)
	fd := setupFake(t, f, 4, p)

	sq, cq := &SubmissionQueue{}, &CompletionQueue{}
	require.NoError(t, mmapRings(f, fd, p, sq, cq))

	assert.EqualValues(t, 128, sq.EntrySize())
	assert.EqualValues(t, 32, cq.EventSize())
	assert.Len(t, f.mapped[sq.sqes], 4*128)
	assert.Equal(t, unsafe.Add(sq.sqes, 128), unsafe.Pointer(sq.Entry(5)))
}

func TestMmapRingsWithoutCQFlags(t *testing.T) {
	f := newFakeKernel()
	f.noCQFlags = true
	p := &Params{}
	fd := setupFake(t, f, 4, p)

	sq, cq := &SubmissionQueue{}, &CompletionQueue{}
	require.NoError(t, mmapRings(f, fd, p, sq, cq))
	assert.Nil(t, cq.Flags())
}

func TestMmapRingsUnwind(t *testing.T) {
	cases := []struct {
		name     string
		features uint32
		failAt   int
		mapped   int
	}{
		{"single sq ring", FeatSingleMMap, 1, 0},
		{"single sqes", FeatSingleMMap, 2, 1},
		{"separate sq ring", 0, 1, 0},
		{"separate cq ring", 0, 2, 1},
		{"separate sqes", 0, 3, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFakeKernel()
			f.features = c.features
			f.failMmapAt = c.failAt
			p := &Params{}
			fd := setupFake(t, f, 4, p)

			sq, cq := &SubmissionQueue{}, &CompletionQueue{}
			err := mmapRings(f, fd, p, sq, cq)
			require.Error(t, err)
			assert.True(t, IsMapError(err))
			errno, ok := Errno(err)
			assert.True(t, ok)
			assert.Equal(t, syscall.ENOMEM, errno)

			assert.Len(t, f.munmaps, c.mapped)
			assert.Zero(t, f.live())
			assert.Equal(t, SubmissionQueue{}, *sq)
			assert.Equal(t, CompletionQueue{}, *cq)
		})
	}
}

func TestUnmapRings(t *testing.T) {
	f := newFakeKernel()
	f.features = 0
	p := &Params{}
	fd := setupFake(t, f, 4, p)

	sq, cq := &SubmissionQueue{}, &CompletionQueue{}
	require.NoError(t, mmapRings(f, fd, p, sq, cq))
	unmapRings(f, sq, cq)

	require.Len(t, f.munmaps, 3)
	assert.Equal(t, fakeRegion{sq.sqes, 4 * 64}, f.munmaps[0])
	assert.Equal(t, fakeRegion{cq.ringPtr, uintptr(cq.ringSize)}, f.munmaps[1])
	assert.Equal(t, fakeRegion{sq.ringPtr, uintptr(sq.ringSize)}, f.munmaps[2])
	assert.Zero(t, f.live())
}

func TestUnmapRingsSharedRegion(t *testing.T) {
	f := newFakeKernel()
	p := &Params{}
	fd := setupFake(t, f, 4, p)

	sq, cq := &SubmissionQueue{}, &CompletionQueue{}
	require.NoError(t, mmapRings(f, fd, p, sq, cq))
	unmapRings(f, sq, cq)

	assert.Len(t, f.munmaps, 2)
	assert.Zero(t, f.live())
}
