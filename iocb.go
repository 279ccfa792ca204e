package iomerge

import "fmt"

// Opcode identifies the operation class and form of a control block.
type Opcode uint8

const (
	// OpRead is a scalar read: one buffer, one contiguous range.
	OpRead Opcode = iota + 1
	// OpWrite is a scalar write.
	OpWrite
	// OpReadv is a vectorized read: one contiguous range scattered into
	// multiple buffers.
	OpReadv
	// OpWritev is a vectorized write gathered from multiple buffers.
	OpWritev
)

// DefaultSegmentLimit caps the number of vector elements a merged group may
// accumulate. Matches the kernel's fast-path iovec count (UIO_FASTIOV);
// beyond it the backend would have to allocate, which defeats the point of
// batching small requests.
const DefaultSegmentLimit = 8

// vector maps a scalar opcode to its vectorized form. Vector opcodes map to
// themselves, so two opcodes belong to the same class iff their vector
// forms are equal.
func (o Opcode) vector() Opcode {
	switch o {
	case OpRead:
		return OpReadv
	case OpWrite:
		return OpWritev
	default:
		return o
	}
}

// IsVector reports whether o is a vectorized opcode.
func (o Opcode) IsVector() bool {
	return o == OpReadv || o == OpWritev
}

func (o Opcode) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpReadv:
		return "readv"
	case OpWritev:
		return "writev"
	default:
		return fmt.Sprintf("opcode(%d)", uint8(o))
	}
}

// IOCB describes one pending asynchronous I/O operation.
//
// Scalar form (OpRead/OpWrite): Buf holds the payload buffer and Nbytes its
// length; Vec is nil. Vectorized form (OpReadv/OpWritev): Vec holds the
// elements, the element count is len(Vec), and Buf/Nbytes are unused. The
// two forms are kept in distinct fields rather than overlaying a single
// count field, so the meaning of every field is fixed by Op alone.
//
// Data is a caller cookie; iomerge never reads or writes it. The shadow
// association the optimizer needs while a block is in its custody lives in
// an unexported field, so callers cannot corrupt it by accident.
type IOCB struct {
	Op     Opcode
	FD     int32
	Offset int64
	Nbytes int64
	Buf    []byte
	Vec    [][]byte
	Data   any

	shadow *shadow
}

// PrepRead initializes cb as a scalar read of buf at offset.
func PrepRead(cb *IOCB, fd int32, buf []byte, offset int64) {
	*cb = IOCB{Op: OpRead, FD: fd, Offset: offset, Nbytes: int64(len(buf)), Buf: buf}
}

// PrepWrite initializes cb as a scalar write of buf at offset.
func PrepWrite(cb *IOCB, fd int32, buf []byte, offset int64) {
	*cb = IOCB{Op: OpWrite, FD: fd, Offset: offset, Nbytes: int64(len(buf)), Buf: buf}
}

// TotalLen returns the full intended byte length of the operation: Nbytes
// for scalar blocks, the sum of the element lengths for vectorized ones.
func (cb *IOCB) TotalLen() int64 {
	if !cb.Op.IsVector() {
		return cb.Nbytes
	}
	var sum int64
	for _, el := range cb.Vec {
		sum += int64(len(el))
	}
	return sum
}

// Merged reports whether cb currently carries a shadow association, i.e.
// it heads or belongs to a merge group.
func (cb *IOCB) Merged() bool {
	return cb.shadow != nil
}

// Members returns the number of original requests cb stands for: the group
// size if cb heads a merge group, otherwise 1.
func (cb *IOCB) Members() int {
	if cb.shadow == nil {
		return 1
	}
	cb.shadow.check()
	n := 0
	for s := cb.shadow; s != nil; s = s.next {
		n++
	}
	return n
}
