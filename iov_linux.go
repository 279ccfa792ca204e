//go:build linux

package iomerge

import "golang.org/x/sys/unix"

// Iovecs returns a unix.Iovec view of cb for preadv/pwritev-style
// submission by the caller's backend. Vectorized blocks yield one entry
// per element; scalar blocks yield a single entry. The entries alias cb's
// buffers and stay valid until the block is restored by Split or Expand or
// its buffers are released by the caller.
func (cb *IOCB) Iovecs() []unix.Iovec {
	if !cb.Op.IsVector() {
		iov := make([]unix.Iovec, 1)
		if cb.Nbytes > 0 {
			iov[0].Base = &cb.Buf[0]
		}
		iov[0].SetLen(int(cb.Nbytes))
		return iov
	}
	iov := make([]unix.Iovec, len(cb.Vec))
	for i, el := range cb.Vec {
		if len(el) > 0 {
			iov[i].Base = &el[0]
		}
		iov[i].SetLen(len(el))
	}
	return iov
}
