package iomerge

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// shadowMagic tags live shadow records. The typed shadow field on IOCB
// already rules out stray pointers; the tag exists to trip on protocol
// violations (a caller resurrecting a released record, or releasing one
// twice) instead of silently corrupting a batch.
const shadowMagic uint32 = 0x73686477 // "shdw"

// shadow preserves one original control block absorbed into a merge group,
// the group head included. While live it is referenced by exactly one
// IOCB; while free it is owned by the pool. Never both, never shared.
type shadow struct {
	orig IOCB    // verbatim pre-merge snapshot
	iocb *IOCB   // live slot this record shadows
	next *shadow // next member in submission order

	// Meaningful on the group's first record only.
	head *shadow
	tail *shadow

	// Vector backing for the head's rewritten IOCB. Fixed capacity
	// (segment limit), populated only on the head as members attach.
	iov [][]byte

	magic uint32
	slot  uint32
}

// check panics unless s is a validly tagged live record. Reaching the
// panic means the calling contract was broken (shadow state mutated or
// pool ownership mixed up); there is nothing sane to recover to.
func (s *shadow) check() {
	if s == nil || s.magic != shadowMagic {
		panic("iomerge: control block references an invalid shadow record")
	}
}

// restore writes the snapshot back over the live control block. The
// snapshot was taken before the shadow association was installed, so the
// restored block comes back unshadowed.
func (s *shadow) restore() {
	s.check()
	if s.iocb == nil {
		panic("iomerge: shadow record has no live control block to restore")
	}
	*s.iocb = s.orig
}

// shadowPool is a fixed-capacity store of shadow records. acquire and
// release are O(1); the pool never blocks and never grows. The live bitmap
// tracks in-use slots so a double release is detected rather than
// corrupting the free list.
type shadowPool struct {
	records []shadow
	free    []*shadow
	live    *roaring.Bitmap
}

func newShadowPool(depth, segLimit int) *shadowPool {
	p := &shadowPool{
		records: make([]shadow, depth),
		free:    make([]*shadow, 0, depth),
		live:    roaring.New(),
	}
	for i := depth - 1; i >= 0; i-- {
		s := &p.records[i]
		s.slot = uint32(i)
		s.iov = make([][]byte, 0, segLimit)
		p.free = append(p.free, s)
	}
	return p
}

// acquire pops a free record, or returns nil when the pool is exhausted.
// Exhaustion is expected: callers skip the merge opportunity and move on.
func (p *shadowPool) acquire() *shadow {
	n := len(p.free)
	if n == 0 {
		return nil
	}
	s := p.free[n-1]
	p.free = p.free[:n-1]
	s.magic = shadowMagic
	p.live.Add(s.slot)
	return s
}

// release zeroes the record and returns it to the free list.
func (p *shadowPool) release(s *shadow) {
	s.check()
	if !p.live.Contains(s.slot) {
		panic(fmt.Sprintf("iomerge: shadow record %d released twice", s.slot))
	}
	p.live.Remove(s.slot)

	s.orig = IOCB{}
	s.iocb = nil
	s.next = nil
	s.head = nil
	s.tail = nil
	for i := range s.iov {
		s.iov[i] = nil
	}
	s.iov = s.iov[:0]
	s.magic = 0

	p.free = append(p.free, s)
}

func (p *shadowPool) liveCount() int { return int(p.live.GetCardinality()) }
