// Package iomerge coalesces contiguous block-I/O control blocks before they
// are handed to an asynchronous I/O backend, and losslessly reverses the
// transformation afterwards. A disk-virtualization backend with many small,
// frequently-contiguous sub-requests submits fewer, larger operations while
// its callers keep their original per-request completion semantics.
//
// # Quick Start
//
//	opt, _ := iomerge.New(depth)
//	defer opt.Close()
//
//	queue := buildBatch()          // []*iomerge.IOCB, one logical submission
//	queue = opt.Merge(queue)       // adjacent contiguous blocks coalesce
//	submit(queue)                  // hand the compacted batch to the backend
//	...
//	events = opt.Split(events)     // one event per original request
//
// A merged batch that was never submitted (shutdown, timeout handled by the
// caller) is unwound with Expand instead:
//
//	queue = opt.Expand(queue, 0)   // originals restored, shadows reclaimed
//
// # Model
//
// Merge scans a batch left to right. Whenever a block targets the same
// handle and the same read/write class as the current head and starts
// exactly where the head ends, it is absorbed: the head is rewritten in
// place into its vectorized form (OpReadv/OpWritev) and the absorbed
// block's buffer becomes the next vector element. Every member of a group,
// head included, gets a shadow record holding its verbatim pre-merge
// snapshot; Split and Expand walk the shadow chain to restore each member
// exactly and return the records to a fixed-capacity pool.
//
// The pool is sized at construction to the maximum batch depth. When it
// runs dry, merge opportunities are skipped — batching degrades, caller
// I/O never fails.
//
// # Concurrency
//
// An Optimizer is fully synchronous and must be confined to one logical
// submission/completion stream; its free list and staging scratch are
// mutated without locks. Independent streams use independent Optimizers.
//
// iomerge never performs I/O, never schedules requests, and never owns
// caller buffers.
package iomerge
