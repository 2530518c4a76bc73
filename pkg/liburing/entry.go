package liburing

// SubmissionQueueEntry is the 64 byte struct io_uring_sqe.
// Rings set up with SetupSQE128 use two consecutive slots per entry.
type SubmissionQueueEntry struct {
	OpCode      uint8
	Flags       uint8
	IoPrio      uint16
	Fd          int32
	Off         uint64
	Addr        uint64
	Len         uint32
	OpcodeFlags uint32
	UserData    uint64
	BufIG       uint16
	Personality uint16
	SpliceFdIn  int32
	Addr3       uint64
	_pad2       [1]uint64
}

// CompletionQueueEvent is the 16 byte struct io_uring_cqe.
// Rings set up with SetupCQE32 carry 16 extra bytes after each event.
type CompletionQueueEvent struct {
	UserData uint64
	Res      int32
	Flags    uint32
}
