package iomerge

// Expand reverses Merge for a batch that was never submitted, e.g. on
// shutdown before issue. Entries before from are skipped (already handed
// off); from there on, unmerged blocks pass through unchanged and merged
// blocks are walked member by member: each member's pre-merge snapshot is
// restored to its live slot, the member is emitted in group order, and its
// shadow record returns to the pool. The expanded queue is written to the
// front of queue's backing array (reallocating only if the array cannot
// hold the expanded batch) and returned.
//
// Expand never fabricates results or error codes; the expanded blocks are
// simply the originals again.
func (o *Optimizer) Expand(queue []*IOCB, from int) []*IOCB {
	if len(queue) == 0 {
		return queue
	}
	o.nExpands++

	q := o.stageCBs(queue)

	out := queue[:0]
	for _, cb := range q[from:] {
		if cb.shadow == nil {
			out = append(out, cb)
			continue
		}
		cb.shadow.check()
		for s := cb.shadow; s != nil; {
			next := s.next
			member := s.iocb
			s.restore()
			out = append(out, member)
			o.pool.release(s)
			s = next
		}
	}

	o.logger.Debug("batch expanded", "in", len(q)-from, "out", len(out))
	return out
}
