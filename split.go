package iomerge

// Split turns raw completion events back into one event per original
// request. Events for unmerged blocks pass through unchanged; an event for
// a merged block fans out to every group member in original order, each
// member's snapshot is restored and its shadow record returns to the pool.
// The expanded events are written to the front of events' backing array
// (reallocating only if the array cannot hold them) and returned.
func (o *Optimizer) Split(events []Event) []Event {
	if len(events) == 0 {
		return events
	}
	o.nSplits++

	q := o.stageEvents(events)

	out := events[:0]
	for _, ev := range q {
		if ev.CB.shadow == nil {
			out = append(out, ev)
			continue
		}
		out = o.splitEvent(ev, out)
	}

	o.logger.Debug("events split", "in", len(q), "out", len(out))
	o.traceEvents(out)
	return out
}

// splitEvent fans one merged completion out to the group. A result equal
// to the group's full intended length hands every member its own original
// length; a negative result propagates verbatim to every member; a short
// non-negative result fails the whole group with ResIOError, since a
// single merged result cannot say which members actually transferred.
func (o *Optimizer) splitEvent(ev Event, out []Event) []Event {
	cb := ev.CB
	cb.shadow.check()

	var fail int64
	switch expected := cb.TotalLen(); {
	case ev.Res == expected:
		fail = 0
	case ev.Res < 0:
		fail = ev.Res
	default:
		fail = ResIOError
	}

	for s := cb.shadow; s != nil; {
		next := s.next
		res := fail
		if res == 0 {
			res = s.orig.TotalLen()
		}
		member := s.iocb
		s.restore()
		out = append(out, Event{CB: member, Res: res})
		o.pool.release(s)
		s = next
	}
	return out
}
