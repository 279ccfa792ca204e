package iomerge

import (
	"io"
	"log/slog"
)

// Optimizer merges contiguous control blocks of one logical submission
// stream and reverses the transformation on completion or cancellation.
//
// An Optimizer is not safe for concurrent use: its free list and staging
// scratch are mutated without locks. Confine one Optimizer to one
// submission/completion stream; independent streams get independent
// Optimizers and share nothing.
type Optimizer struct {
	pool     *shadowPool
	segLimit int

	// Staging copies of the caller's batch, so Merge/Expand/Split can
	// compact in place even when the caller reuses one array as both
	// input and output. Sized to depth up front, grown if a larger
	// batch ever shows up.
	cbq []*IOCB
	evq []Event

	depth int

	logger *slog.Logger
	tracer Tracer

	nMerges    uint64
	nCoalesced uint64
	nExpands   uint64
	nSplits    uint64
}

// New creates an Optimizer whose pool holds depth shadow records; depth
// bounds how many original blocks can sit absorbed in merge groups at
// once, so it is normally the maximum batch length the caller submits. A
// depth of zero is legal and disables merging entirely.
func New(depth int, opts ...Option) (*Optimizer, error) {
	if depth < 0 {
		return nil, ErrInvalidDepth
	}

	o := options{
		segLimit: DefaultSegmentLimit,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.segLimit < 2 {
		return nil, ErrInvalidSegmentLimit
	}

	return &Optimizer{
		pool:     newShadowPool(depth, o.segLimit),
		segLimit: o.segLimit,
		cbq:      make([]*IOCB, 0, depth),
		evq:      make([]Event, 0, depth),
		depth:    depth,
		logger:   o.logger,
		tracer:   o.tracer,
	}, nil
}

// Depth returns the configured pool depth.
func (o *Optimizer) Depth() int {
	return o.depth
}

// Close releases the pool and staging storage. The Optimizer must not be
// used afterwards. Close is idempotent.
func (o *Optimizer) Close() {
	o.pool = nil
	o.cbq = nil
	o.evq = nil
}

// Stats is a snapshot of pool occupancy and cumulative operation counts.
type Stats struct {
	Depth     int
	Free      int
	Live      int
	Merges    uint64 // Merge calls
	Coalesced uint64 // blocks absorbed into a group head
	Expands   uint64 // Expand calls
	Splits    uint64 // Split calls
}

// Stats reports current pool occupancy and cumulative counters.
func (o *Optimizer) Stats() Stats {
	return Stats{
		Depth:     o.depth,
		Free:      len(o.pool.free),
		Live:      o.pool.liveCount(),
		Merges:    o.nMerges,
		Coalesced: o.nCoalesced,
		Expands:   o.nExpands,
		Splits:    o.nSplits,
	}
}

// stageCBs copies queue into the control-block scratch so the caller's
// storage can serve as both input and output.
func (o *Optimizer) stageCBs(queue []*IOCB) []*IOCB {
	o.cbq = append(o.cbq[:0], queue...)
	return o.cbq
}

// stageEvents copies events into the event scratch.
func (o *Optimizer) stageEvents(events []Event) []Event {
	o.evq = append(o.evq[:0], events...)
	return o.evq
}
