package iomerge

// sameClass reports whether a and b are both reads or both writes. Scalar
// and vectorized forms of the same class are equal.
func sameClass(a, b *IOCB) bool {
	return a.Op.vector() == b.Op.vector()
}

// contiguous reports whether b starts exactly where a ends on the same
// handle.
func contiguous(a, b *IOCB) bool {
	return a.FD == b.FD && a.Offset+a.TotalLen() == b.Offset
}

// canMerge decides whether b may be absorbed into a's group. b must be a
// plain scalar block; a must be scalar or a group head the optimizer
// vectorized itself, with room left under the segment limit. A vectorized
// block built by the caller has no shadow chain to extend and never
// merges.
func (o *Optimizer) canMerge(a, b *IOCB) bool {
	if b.Op.IsVector() || b.shadow != nil {
		return false
	}
	if a.Op.IsVector() {
		if a.shadow == nil {
			return false
		}
		if len(a.Vec) >= o.segLimit {
			return false
		}
	}
	return sameClass(a, b) && contiguous(a, b)
}
