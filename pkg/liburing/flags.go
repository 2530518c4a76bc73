package liburing

import (
	"strings"
)

// Setup flags, see io_uring_setup(2).
const (
	// SetupIOPoll
	// Busy-wait for an I/O completion instead of getting notified by an asynchronous IRQ.
	// The file system (if any) and block device must support polling for this to work.
	// Busy-waiting gives lower latency but may use more CPU than interrupt driven I/O.
	// Currently this only works for file descriptors opened with O_DIRECT.
	// After submitting to a polled context the application must call io_uring_enter(2)
	// to poll the completion ring. Mixing polled and non-polled I/O on one instance is illegal.
	// For NVMe devices the nvme driver must be loaded with poll_queues set.
	SetupIOPoll uint32 = 1 << iota
	// SetupSQPoll
	// A kernel thread is created to poll the submission ring, so the application can issue
	// I/O without a context switch into the kernel.
	// When the thread has been idle for more than sq_thread_idle milliseconds it sets
	// IORING_SQ_NEED_WAKEUP in the submission ring flags and the application must call
	// io_uring_enter(2) with IORING_ENTER_SQ_WAKEUP to wake it up.
	// Before 5.11 files had to be registered with IORING_REGISTER_FILES, check
	// FeatSQPollNonfixed. Since 5.13 no special privilege is needed.
	SetupSQPoll
	// SetupSQAff
	// The polling thread is bound to the cpu set in Params.SQThreadCPU.
	// Only meaningful together with SetupSQPoll.
	// The binding follows cpuset.cpus changes of the cgroup.
	SetupSQAff
	// SetupCQSize
	// Create the completion ring with Params.CQEntries entries.
	// The value must be greater than entries and may be rounded up to the next power of two.
	SetupCQSize
	// SetupClamp
	// Entries above the kernel maximum are clamped to it instead of failing with EINVAL.
	// With SetupCQSize, Params.CQEntries is clamped to the completion maximum too.
	SetupClamp
	// SetupAttachWQ
	// Params.WQFd must be set to an existing io_uring ring file descriptor.
	// The new instance shares the async worker backend of that ring instead of creating
	// its own thread pool. With SetupSQPoll the polling thread is shared as well.
	SetupAttachWQ
	// SetupRDisabled
	// The ring starts disabled. Restrictions can be registered but nothing can be submitted
	// until the ring is enabled through io_uring_register(2).
	// Available since 5.10.
	SetupRDisabled
	// SetupSubmitAll
	// Normally io_uring stops submitting a batch when one of the requests fails.
	// With this flag io_uring_enter(2) keeps submitting the rest of the batch.
	// A CQE is posted for the failed request either way.
	// Available since 5.18.
	SetupSubmitAll
	// SetupCoopTaskRun
	// By default io_uring interrupts a task running in userspace when a completion is posted.
	// Most applications do not need that since events are processed on any kernel/user
	// transition. The exception is a ring shared by several threads where the waiter is not
	// the submitter. Setting this flag improves performance for most other cases.
	// Available since 5.19.
	SetupCoopTaskRun
	// SetupTaskRunFlag
	// Used with SetupCoopTaskRun. IORING_SQ_TASKRUN is set in the submission ring flags
	// whenever completions are waiting to be processed, so peeking the completion ring
	// knows when to enter the kernel.
	// Available since 5.19.
	SetupTaskRunFlag
	// SetupSQE128
	// Submission entries are 128 bytes instead of 64.
	// Required by IORING_OP_URING_CMD passthrough such as NVMe.
	// Available since 5.19.
	SetupSQE128
	// SetupCQE32
	// Completion events are 32 bytes instead of 16.
	// Required by IORING_OP_URING_CMD passthrough such as NVMe.
	// Available since 5.19.
	SetupCQE32
	// SetupSingleIssuer
	// Hint that a single task submits requests. That task is the one that created the ring,
	// or the one that enabled it when SetupRDisabled was used.
	// The kernel enforces it and fails violating requests with EEXIST.
	// With SetupSQPoll the polling thread counts as the single issuer.
	// Available since 6.0.
	SetupSingleIssuer
	// SetupDeferTaskRun
	// Pending work is deferred until io_uring_enter(2) is called with IORING_ENTER_GETEVENTS,
	// instead of running at the end of any system call or thread interrupt.
	// Requires SetupSingleIssuer, and io_uring_enter(2) must be called from the submitting thread.
	// The application is responsible for reaping regularly, otherwise completions may never arrive.
	// Available since 6.1.
	SetupDeferTaskRun
	// SetupNoMmap
	// io_uring uses caller allocated memory instead of kernel memory mapped with mmap(2).
	// cq_off.user_addr points to the ring memory and sq_off.user_addr to the entries.
	// Each region must be contiguous, usually huge pages.
	// Mapping the ring file descriptor fails afterwards.
	// Available since 6.5. CreateRing rejects it.
	SetupNoMmap
	// SetupRegisteredFdOnly
	// The ring file descriptor is registered and its index is returned instead of a file descriptor.
	// io_uring_register(2) calls then need IORING_REGISTER_USE_REGISTERED_RING.
	// Only meaningful together with SetupNoMmap.
	// Available since 6.5. CreateRing rejects it.
	SetupRegisteredFdOnly
	// SetupNoSQArray
	// Submission entries are consumed in order and wrap around at the end of the queue,
	// indexed directly by the tail modulo the ring size instead of through the index array.
	// The index array is not mapped and its offset in SQRingOffsets is zero.
	// Available since 6.6.
	SetupNoSQArray
	// SetupHybridIOPoll
	// Must be used with SetupIOPoll.
	// Hybrid polling sleeps a little before polling for completions, so less CPU is burned
	// than with strict polling. The device must support polling.
	SetupHybridIOPoll
)

// Feature bits reported by the kernel in Params.Features.
const (
	// FeatSingleMMap
	// The submission and completion rings share one mmap(2), the completion ring pointer
	// is derived from the submission ring mapping.
	// Available since 5.4.
	FeatSingleMMap uint32 = 1 << iota
	// FeatNoDrop
	// Completion events are not dropped when the completion ring is full, the kernel keeps
	// them internally and submission fails with EBUSY until the ring is reaped.
	FeatNoDrop
	FeatSubmitStable
	FeatRWCurPos
	FeatCurPersonality
	FeatFastPoll
	FeatPoll32Bits
	FeatSQPollNonfixed
	// FeatExtArg
	// io_uring_enter(2) accepts IORING_ENTER_EXT_ARG with a timeout and signal mask.
	FeatExtArg
	// FeatNativeWorkers means async workers are regular tasks charged through cgroup
	// memory accounting, so ring memory no longer counts against RLIMIT_MEMLOCK. Since 5.12.
	FeatNativeWorkers
	FeatRsrcTags
	FeatCQESkip
	FeatLinkedFile
	FeatRegRegRing
	FeatRecvSendBundle
	FeatMinTimeout
	FeatRWAttr
	FeatNoIOWait
)

var setupFlagNames = []struct {
	name string
	flag uint32
}{
	{"IORING_SETUP_IOPOLL", SetupIOPoll},
	{"IORING_SETUP_SQPOLL", SetupSQPoll},
	{"IORING_SETUP_SQ_AFF", SetupSQAff},
	{"IORING_SETUP_CQSIZE", SetupCQSize},
	{"IORING_SETUP_CLAMP", SetupClamp},
	{"IORING_SETUP_ATTACH_WQ", SetupAttachWQ},
	{"IORING_SETUP_R_DISABLED", SetupRDisabled},
	{"IORING_SETUP_SUBMIT_ALL", SetupSubmitAll},
	{"IORING_SETUP_COOP_TASKRUN", SetupCoopTaskRun},
	{"IORING_SETUP_TASKRUN_FLAG", SetupTaskRunFlag},
	{"IORING_SETUP_SQE128", SetupSQE128},
	{"IORING_SETUP_CQE32", SetupCQE32},
	{"IORING_SETUP_SINGLE_ISSUER", SetupSingleIssuer},
	{"IORING_SETUP_DEFER_TASKRUN", SetupDeferTaskRun},
	{"IORING_SETUP_NO_MMAP", SetupNoMmap},
	{"IORING_SETUP_REGISTERED_FD_ONLY", SetupRegisteredFdOnly},
	{"IORING_SETUP_NO_SQARRAY", SetupNoSQArray},
	{"IORING_SETUP_HYBRID_IOPOLL", SetupHybridIOPoll},
}

var featureNames = []struct {
	name string
	flag uint32
}{
	{"IORING_FEAT_SINGLE_MMAP", FeatSingleMMap},
	{"IORING_FEAT_NODROP", FeatNoDrop},
	{"IORING_FEAT_SUBMIT_STABLE", FeatSubmitStable},
	{"IORING_FEAT_RW_CUR_POS", FeatRWCurPos},
	{"IORING_FEAT_CUR_PERSONALITY", FeatCurPersonality},
	{"IORING_FEAT_FAST_POLL", FeatFastPoll},
	{"IORING_FEAT_POLL_32BITS", FeatPoll32Bits},
	{"IORING_FEAT_SQPOLL_NONFIXED", FeatSQPollNonfixed},
	{"IORING_FEAT_EXT_ARG", FeatExtArg},
	{"IORING_FEAT_NATIVE_WORKERS", FeatNativeWorkers},
	{"IORING_FEAT_RSRC_TAGS", FeatRsrcTags},
	{"IORING_FEAT_CQE_SKIP", FeatCQESkip},
	{"IORING_FEAT_LINKED_FILE", FeatLinkedFile},
	{"IORING_FEAT_REG_REG_RING", FeatRegRegRing},
	{"IORING_FEAT_RECVSEND_BUNDLE", FeatRecvSendBundle},
	{"IORING_FEAT_MIN_TIMEOUT", FeatMinTimeout},
	{"IORING_FEAT_RW_ATTR", FeatRWAttr},
	{"IORING_FEAT_NO_IOWAIT", FeatNoIOWait},
}

// ParseSetupFlags parses one setup flag name, with or without the IORING_SETUP_ prefix.
// Unknown names yield 0.
func ParseSetupFlags(s string) uint32 {
	s = strings.TrimSpace(s)
	s = strings.ToUpper(s)
	if s == "" {
		return 0
	}
	if !strings.HasPrefix(s, "IORING_SETUP_") {
		s = "IORING_SETUP_" + s
	}
	for _, f := range setupFlagNames {
		if f.name == s {
			return f.flag
		}
	}
	return 0
}

// SetupFlagNames lists the names of the setup flags set in flags.
func SetupFlagNames(flags uint32) []string {
	names := make([]string, 0, 4)
	for _, f := range setupFlagNames {
		if flags&f.flag != 0 {
			names = append(names, f.name)
		}
	}
	return names
}

// FeatureNames lists the names of the feature bits set in features.
func FeatureNames(features uint32) []string {
	names := make([]string, 0, len(featureNames))
	for _, f := range featureNames {
		if features&f.flag != 0 {
			names = append(names, f.name)
		}
	}
	return names
}
