//go:build linux

package liburing

type Options struct {
	Entries      uint32
	Flags        uint32
	CQEntries    uint32
	SQThreadCPU  uint32
	SQThreadIdle uint32
	WQFd         uint32
}

type Option func(*Options) error

// WithEntries sets the submission ring depth, 0 means DefaultEntries.
// Depths above MaxEntries are rejected unless SetupClamp is also set.
func WithEntries(entries uint32) Option {
	return func(o *Options) error {
		if entries < 1 {
			entries = DefaultEntries
		}
		o.Entries = entries
		return nil
	}
}

// WithFlags
// see https://manpages.debian.org/unstable/liburing-dev/io_uring_setup.2.en.html
func WithFlags(flags uint32) Option {
	return func(o *Options) error {
		o.Flags |= flags
		return nil
	}
}

func WithCQEntries(entries uint32) Option {
	return func(o *Options) error {
		if entries < 1 {
			return invalidArgument(errMetaOpSetup)
		}
		o.CQEntries = entries
		return nil
	}
}

func WithSQThreadIdle(n uint32) Option {
	return func(o *Options) error {
		o.SQThreadIdle = n
		return nil
	}
}

func WithSQThreadCPU(cpuId uint32) Option {
	return func(o *Options) error {
		o.SQThreadCPU = cpuId
		return nil
	}
}

func WithAttachWQFd(fd uint32) Option {
	return func(o *Options) error {
		o.WQFd = fd
		return nil
	}
}

func (opts *Options) params() *Params {
	p := NewParams(opts.Flags)
	p.SetSQThreadCPU(opts.SQThreadCPU)
	p.SetSQThreadIdle(opts.SQThreadIdle)
	if opts.CQEntries > 0 {
		p.SetCQEntries(opts.CQEntries)
	}
	if opts.WQFd > 0 {
		p.SetWQFd(opts.WQFd)
	}
	return p
}

// New creates a ring from options.
func New(options ...Option) (*Ring, error) {
	opts := Options{
		Entries: DefaultEntries,
	}
	for _, o := range options {
		if err := o(&opts); err != nil {
			return nil, err
		}
	}
	if opts.Entries > MaxEntries && opts.Flags&SetupClamp == 0 {
		return nil, invalidArgument(errMetaOpSetup)
	}
	return createRing(linuxSyscalls{}, opts.Entries, opts.params())
}
