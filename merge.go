package iomerge

// Merge compacts one logical submission batch in place. The batch is
// scanned left to right: each block that can coalesce with the current
// head is absorbed into the head's group and dropped from the output;
// every block that cannot becomes the new head. The compacted prefix of
// queue's backing array is returned.
//
// Pool exhaustion is not an error: when no shadow record is available the
// merge opportunity is skipped and the block is emitted as is, so batching
// degrades while caller I/O always proceeds.
func (o *Optimizer) Merge(queue []*IOCB) []*IOCB {
	if len(queue) == 0 {
		return queue
	}
	o.nMerges++

	// Stage a copy first; callers may alias input and output storage.
	q := o.stageCBs(queue)

	out := 0
	for _, cb := range q[1:] {
		if o.attach(queue[out], cb) {
			o.nCoalesced++
			continue
		}
		out++
		queue[out] = cb
	}

	merged := queue[:out+1]
	o.logger.Debug("batch merged", "in", len(q), "out", len(merged))
	o.traceMerged(merged)
	return merged
}

// attach absorbs cb into head's group. It returns false when the two
// cannot merge, or when the pool cannot supply the shadow records the
// merge needs. A head shadow acquired within a failing attach is rolled
// back, so a half-built group is never left behind.
func (o *Optimizer) attach(head, cb *IOCB) bool {
	if !o.canMerge(head, cb) {
		return false
	}

	hs := head.shadow
	fresh := hs == nil
	if fresh {
		if hs = o.shadowFor(head); hs == nil {
			return false
		}
	} else {
		hs.check()
	}

	ms := o.shadowFor(cb)
	if ms == nil {
		if fresh {
			head.shadow = nil
			o.pool.release(hs)
		}
		return false
	}

	if !head.Op.IsVector() {
		// First absorption: rewrite the head in place into its
		// vectorized form, its own buffer becoming element 0.
		hs.iov = append(hs.iov, head.Buf[:head.Nbytes])
		head.Op = head.Op.vector()
		head.Buf = nil
		head.Nbytes = 0
	}
	hs.iov = append(hs.iov, cb.Buf[:cb.Nbytes])
	head.Vec = hs.iov

	hs.tail.next = ms
	hs.tail = ms
	return true
}

// shadowFor acquires and initializes a shadow record for cb. The snapshot
// is taken before the association is installed, so a restore brings the
// block back unshadowed.
func (o *Optimizer) shadowFor(cb *IOCB) *shadow {
	s := o.pool.acquire()
	if s == nil {
		return nil
	}
	s.orig = *cb
	s.iocb = cb
	s.head = s
	s.tail = s
	cb.shadow = s
	return s
}
