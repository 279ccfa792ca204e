package iomerge

// Event reports the outcome of a submitted control block. Res is the
// backend's signed result: a non-negative count of bytes transferred, or a
// negated errno.
type Event struct {
	CB  *IOCB
	Res int64
}

// ResIOError is the result synthesized for every member of a merged group
// whose completion came back short (non-negative but below the intended
// length). Which members actually transferred is unknowable from a single
// merged result, so the whole group fails. Mirrors -EIO.
const ResIOError int64 = -5
