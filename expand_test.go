package iomerge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotQueue(queue []*IOCB) []IOCB {
	snap := make([]IOCB, len(queue))
	for i, cb := range queue {
		snap[i] = *cb
	}
	return snap
}

func TestExpand(t *testing.T) {
	t.Run("round-trip identity", func(t *testing.T) {
		opt, err := New(16)
		require.NoError(t, err)
		defer opt.Close()

		queue := []*IOCB{
			scalarWrite(3, 0, 512),
			scalarWrite(3, 512, 512),
			scalarWrite(3, 1024, 512),
			scalarRead(3, 2048, 4096),
			scalarWrite(4, 0, 512),
			scalarWrite(4, 512, 1024),
		}
		for i, cb := range queue {
			cb.Data = i
		}
		originals := make([]*IOCB, len(queue))
		copy(originals, queue)
		snap := snapshotQueue(queue)

		merged := opt.Merge(queue)
		require.Len(t, merged, 3)

		restored := opt.Expand(merged, 0)
		require.Len(t, restored, len(snap))
		for i, cb := range restored {
			assert.Same(t, originals[i], cb, "original order preserved")
			assert.Equal(t, snap[i], *cb, "block %d restored byte-identical", i)
		}
		assert.Equal(t, 0, opt.pool.liveCount())
	})

	t.Run("unmerged blocks pass through", func(t *testing.T) {
		opt, err := New(8)
		require.NoError(t, err)
		defer opt.Close()

		queue := []*IOCB{
			scalarWrite(3, 0, 512),
			scalarRead(3, 512, 512),
		}
		out := opt.Expand(queue, 0)
		require.Len(t, out, 2)
		assert.Same(t, queue[0], out[0])
	})

	t.Run("fromIndex skips already-submitted entries", func(t *testing.T) {
		opt, err := New(16)
		require.NoError(t, err)
		defer opt.Close()

		queue := append(contiguousWrites(3, 3, 512), scalarWrite(3, 8192, 512), scalarWrite(3, 8704, 512))
		merged := opt.Merge(queue)
		require.Len(t, merged, 2)

		// Pretend the first merged block was already submitted; only
		// the rest is abandoned.
		out := opt.Expand(merged, 1)
		require.Len(t, out, 2)
		assert.Equal(t, int64(8192), out[0].Offset)
		assert.Equal(t, int64(8704), out[1].Offset)

		// The submitted head still owns its shadows until Split.
		assert.Equal(t, 3, opt.pool.liveCount())
	})

	t.Run("empty batch", func(t *testing.T) {
		opt, err := New(4)
		require.NoError(t, err)
		defer opt.Close()

		assert.Len(t, opt.Expand(nil, 0), 0)
	})
}
