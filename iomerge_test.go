package iomerge

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		opt, err := New(32)
		require.NoError(t, err)
		defer opt.Close()

		assert.Equal(t, 32, opt.Depth())
		assert.Equal(t, DefaultSegmentLimit, opt.segLimit)

		st := opt.Stats()
		assert.Equal(t, 32, st.Depth)
		assert.Equal(t, 32, st.Free)
		assert.Equal(t, 0, st.Live)
	})

	t.Run("negative depth", func(t *testing.T) {
		_, err := New(-1)
		assert.ErrorIs(t, err, ErrInvalidDepth)
	})

	t.Run("unusable segment limit", func(t *testing.T) {
		_, err := New(8, WithSegmentLimit(1))
		assert.ErrorIs(t, err, ErrInvalidSegmentLimit)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		opt, err := New(8)
		require.NoError(t, err)
		opt.Close()
		opt.Close()
	})
}

func TestStatsCounters(t *testing.T) {
	opt, err := New(8)
	require.NoError(t, err)
	defer opt.Close()

	merged := opt.Merge(contiguousWrites(3, 4, 512))
	require.Len(t, merged, 1)
	opt.Split([]Event{{CB: merged[0], Res: 2048}})

	merged = opt.Merge(contiguousWrites(3, 2, 512))
	require.Len(t, merged, 1)
	opt.Expand(merged, 0)

	st := opt.Stats()
	assert.Equal(t, uint64(2), st.Merges)
	assert.Equal(t, uint64(4), st.Coalesced)
	assert.Equal(t, uint64(1), st.Splits)
	assert.Equal(t, uint64(1), st.Expands)
}

// randomBatch builds depth blocks tagged with their index through Data:
// contiguous same-class runs of random length at random disk offsets, the
// shape the merge path sees from a disk tap.
func randomBatch(rng *rand.Rand, n int) []*IOCB {
	queue := make([]*IOCB, 0, n)
	for len(queue) < n {
		segs := rng.Intn(6) + 1
		if len(queue)+segs > n {
			segs = n - len(queue)
		}
		nbytes := int64(rng.Intn(7)+1) << 9
		offset := int64(rng.Intn(1<<20)) << 9
		fd := int32(rng.Intn(2) + 3)
		write := rng.Intn(2) == 0

		for s := 0; s < segs; s++ {
			cb := &IOCB{}
			if write {
				PrepWrite(cb, fd, make([]byte, nbytes), offset)
			} else {
				PrepRead(cb, fd, make([]byte, nbytes), offset)
			}
			cb.Data = len(queue)
			offset += nbytes
			queue = append(queue, cb)
		}
	}
	return queue
}

func TestRandomizedRoundTrip(t *testing.T) {
	const depth = 128

	rng := rand.New(rand.NewSource(1))
	opt, err := New(depth)
	require.NoError(t, err)
	defer opt.Close()

	for run := 0; run < 25; run++ {
		queue := randomBatch(rng, depth)
		snap := snapshotQueue(queue)

		merged := opt.Merge(queue)
		require.LessOrEqual(t, len(merged), depth)

		total := 0
		for _, cb := range merged {
			total += cb.Members()
		}
		require.Equal(t, depth, total, "merge loses no requests")

		if run%3 == 2 {
			// Cancellation path: abandon the whole merged batch.
			restored := opt.Expand(merged, 0)
			require.Len(t, restored, depth)
			for i, cb := range restored {
				require.Equal(t, i, cb.Data)
				require.Equal(t, snap[i], *cb)
			}
		} else {
			// Completion path, in chunks like a backend draining its
			// ring: record the expected per-member result up front.
			want := make([]int64, depth)
			events := make([]Event, 0, len(merged))
			for _, cb := range merged {
				res := cb.TotalLen()
				if rng.Intn(10) >= 8 {
					res = -5
				}
				events = append(events, Event{CB: cb, Res: res})
				if cb.shadow != nil {
					for s := cb.shadow; s != nil; s = s.next {
						idx := s.orig.Data.(int)
						if res < 0 {
							want[idx] = res
						} else {
							want[idx] = s.orig.Nbytes
						}
					}
				} else {
					want[cb.Data.(int)] = res
				}
			}

			done := 0
			for len(events) > 0 {
				chunk := rng.Intn(len(events)) + 1
				split := opt.Split(events[:chunk:chunk])
				for _, ev := range split {
					idx := ev.CB.Data.(int)
					require.Equal(t, want[idx], ev.Res)
					require.Equal(t, snap[idx], *ev.CB)
					done++
				}
				events = events[chunk:]
			}
			require.Equal(t, depth, done, "one event per original request")
		}

		require.Equal(t, 0, opt.pool.liveCount(), "run %d leaked shadow records", run)
		require.Len(t, opt.pool.free, depth)
	}
}
