package liburing_test

import (
	"testing"

	"github.com/brickingsoft/uring/pkg/liburing"
	"github.com/stretchr/testify/assert"
)

func TestParseSetupFlags(t *testing.T) {
	assert.Equal(t, liburing.SetupSQPoll, liburing.ParseSetupFlags("IORING_SETUP_SQPOLL"))
	assert.Equal(t, liburing.SetupSQPoll, liburing.ParseSetupFlags("sqpoll"))
	assert.Equal(t, liburing.SetupCoopTaskRun, liburing.ParseSetupFlags(" coop_taskrun "))
	assert.Equal(t, liburing.SetupCQE32, liburing.ParseSetupFlags("CQE32"))
	assert.Zero(t, liburing.ParseSetupFlags(""))
	assert.Zero(t, liburing.ParseSetupFlags("nope"))
}

func TestSetupFlagNames(t *testing.T) {
	names := liburing.SetupFlagNames(liburing.SetupClamp | liburing.SetupSingleIssuer)
	assert.Equal(t, []string{"IORING_SETUP_CLAMP", "IORING_SETUP_SINGLE_ISSUER"}, names)
	assert.Empty(t, liburing.SetupFlagNames(0))
}

func TestFeatureNames(t *testing.T) {
	names := liburing.FeatureNames(liburing.FeatSingleMMap | liburing.FeatNativeWorkers)
	assert.Equal(t, []string{"IORING_FEAT_SINGLE_MMAP", "IORING_FEAT_NATIVE_WORKERS"}, names)
	assert.Equal(t, uint32(1)<<9, liburing.FeatNativeWorkers)
	assert.Equal(t, uint32(1)<<13, liburing.SetupDeferTaskRun)
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "nop", liburing.OpNop.String())
	assert.Equal(t, "read", liburing.OpRead.String())
	assert.Equal(t, "socket", liburing.OpSocket.String())
	assert.Equal(t, "writev_fixed", liburing.OpWritevFixed.String())
	assert.Equal(t, "op_200", liburing.Op(200).String())
	assert.EqualValues(t, 45, liburing.OpSocket)
	assert.EqualValues(t, 57, liburing.OpListen)
}
