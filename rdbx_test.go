package srtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRDBXWindowSizeValidation(t *testing.T) {
	for _, size := range []int{63, 0x8000, 1, -1, 0x10000} {
		_, err := newRDBX(size)
		assert.ErrorIs(t, err, ErrBadParam, "window size %d must be rejected", size)
	}

	for _, size := range []int{64, 128, 0x7FFF} {
		r, err := newRDBX(size)
		require.NoError(t, err, "window size %d must be accepted", size)
		assert.Equal(t, size, r.windowSize)
	}

	r, err := newRDBX(0)
	require.NoError(t, err)
	assert.Equal(t, defaultReplayWindowSize, r.windowSize)
}

func TestRDBXSequentialIndices(t *testing.T) {
	r, err := newRDBX(128)
	require.NoError(t, err)

	for seq := uint16(1); seq <= 100; seq++ {
		est, delta := r.estimate(seq)
		assert.Equal(t, uint64(seq), est)
		require.NoError(t, r.check(delta))
		r.add(delta)
	}
	assert.Equal(t, uint64(100), r.packetIndex())
}

func TestRDBXReplayInsideWindow(t *testing.T) {
	r, err := newRDBX(128)
	require.NoError(t, err)

	for _, seq := range []uint16{10, 11, 12, 14} {
		_, delta := r.estimate(seq)
		require.NoError(t, r.check(delta))
		r.add(delta)
	}

	// 13 was never seen: late but acceptable.
	_, delta := r.estimate(13)
	assert.NoError(t, r.check(delta))
	r.add(delta)

	// 12 was seen: replay.
	_, delta = r.estimate(12)
	assert.ErrorIs(t, r.check(delta), ErrReplayFail)
}

func TestRDBXReplayOld(t *testing.T) {
	r, err := newRDBX(64)
	require.NoError(t, err)

	_, delta := r.estimate(1000)
	require.NoError(t, r.check(delta))
	r.add(delta)

	// 900 lies 100 behind the high-water mark, outside the 64-entry window.
	_, delta = r.estimate(900)
	assert.ErrorIs(t, r.check(delta), ErrReplayOld)
}

func TestRDBXRollover(t *testing.T) {
	r, err := newRDBX(128)
	require.NoError(t, err)

	_, delta := r.estimate(65530)
	require.NoError(t, r.check(delta))
	r.add(delta)

	for i := 0; i < 10; i++ {
		seq := uint16(65531 + i) // wraps through 0
		est, d := r.estimate(seq)
		require.NoError(t, r.check(d))
		r.add(d)
		assert.Equal(t, uint64(65531+i), est, "seq %d estimated wrong extended index", seq)
	}

	// ROC is now 1.
	assert.Equal(t, uint64(65540), r.packetIndex())
	assert.Equal(t, uint64(1), r.packetIndex()>>16)

	// The pre-rollover index replays as seen.
	_, delta = r.estimate(65530)
	assert.ErrorIs(t, r.check(delta), ErrReplayFail)
}

func TestRDBXBackwardEstimateAfterRollover(t *testing.T) {
	r, err := newRDBX(128)
	require.NoError(t, err)

	// Advance past a rollover to index 0x10004.
	for _, seq := range []uint16{65533, 65534, 65535, 0, 1, 2, 3, 4} {
		_, delta := r.estimate(seq)
		require.NoError(t, r.check(delta))
		r.add(delta)
	}

	// A late pre-rollover sequence number must map below the rollover, not
	// one cycle ahead.
	est, delta := r.estimate(65532)
	assert.Equal(t, uint64(65532), est)
	assert.NoError(t, r.check(delta))
}

func TestRDBXWindowShiftAcrossWords(t *testing.T) {
	r, err := newRDBX(128)
	require.NoError(t, err)

	_, delta := r.estimate(10)
	require.NoError(t, r.check(delta))
	r.add(delta)

	// Jump far enough to shift the whole window.
	_, delta = r.estimate(500)
	require.NoError(t, r.check(delta))
	r.add(delta)

	_, delta = r.estimate(10)
	assert.ErrorIs(t, r.check(delta), ErrReplayOld)

	_, delta = r.estimate(499)
	assert.NoError(t, r.check(delta))
}
