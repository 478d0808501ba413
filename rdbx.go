package srtp

// Replay database with extended packet indices (RFC 3711 §3.3.2 and
// appendix A). The database tracks a 48-bit high-water index (rollover
// counter in the top 32 bits, sequence number in the low 16) plus a sliding
// bitmask of recently seen packets.

const (
	seqNumMedian = 1 << 15
	seqNumMax    = 1 << 16

	// maxExtendedIndex is the largest representable 48-bit packet index.
	maxExtendedIndex = (uint64(1) << 48) - 1

	defaultReplayWindowSize = 128
	minReplayWindowSize     = 64
	maxReplayWindowSize     = 0x8000
)

type rdbx struct {
	index      uint64
	windowSize int
	window     []uint64
}

// newRDBX validates the window size (zero selects the default) and allocates
// the bitmask.
func newRDBX(windowSize int) (*rdbx, error) {
	if windowSize == 0 {
		windowSize = defaultReplayWindowSize
	}
	if windowSize < minReplayWindowSize || windowSize >= maxReplayWindowSize {
		return nil, ErrBadParam
	}
	return &rdbx{
		windowSize: windowSize,
		window:     make([]uint64, (windowSize+63)/64),
	}, nil
}

// estimate reconstructs the most likely extended index for a 16-bit wire
// sequence number, and the signed distance from the current high-water mark.
func (r *rdbx) estimate(seq uint16) (uint64, int64) {
	if r.index > seqNumMedian {
		return indexGuess(r.index, seq)
	}
	// Still inside the first half-cycle: the wire sequence is the index.
	return uint64(seq), int64(seq) - int64(r.index&(seqNumMax-1))
}

// indexGuess picks the rollover counter that places seq closest to the local
// high-water mark, using signed 16-bit difference arithmetic.
func indexGuess(local uint64, seq uint16) (uint64, int64) {
	localROC := uint32(local >> 16)
	localSeq := int64(uint16(local))
	s := int64(seq)

	guessROC := localROC
	var difference int64

	if localSeq < seqNumMedian {
		if s-localSeq > seqNumMedian {
			guessROC = localROC - 1
			difference = s - localSeq - seqNumMax
		} else {
			difference = s - localSeq
		}
	} else {
		if localSeq-seqNumMedian > s {
			guessROC = localROC + 1
			difference = s - localSeq + seqNumMax
		} else {
			difference = s - localSeq
		}
	}

	return uint64(guessROC)<<16 | uint64(seq), difference
}

// check reports whether a packet at the given distance from the high-water
// mark would be a replay. It never mutates the database.
func (r *rdbx) check(delta int64) error {
	if delta > 0 {
		return nil
	}
	pos := int64(r.windowSize-1) + delta
	if pos < 0 {
		return ErrReplayOld
	}
	if r.getBit(int(pos)) {
		return ErrReplayFail
	}
	return nil
}

// add commits a packet previously approved by check.
func (r *rdbx) add(delta int64) {
	if delta > 0 {
		r.index += uint64(delta)
		r.shiftDown(delta)
		r.setBit(r.windowSize - 1)
		return
	}
	r.setBit(int(int64(r.windowSize-1) + delta))
}

func (r *rdbx) packetIndex() uint64 {
	return r.index
}

func (r *rdbx) getBit(pos int) bool {
	return r.window[pos>>6]>>(uint(pos)&63)&1 == 1
}

func (r *rdbx) setBit(pos int) {
	r.window[pos>>6] |= 1 << (uint(pos) & 63)
}

// shiftDown moves every window bit toward position zero by delta, dropping
// entries that age out.
func (r *rdbx) shiftDown(delta int64) {
	if delta >= int64(r.windowSize) {
		for i := range r.window {
			r.window[i] = 0
		}
		return
	}

	wordShift := int(delta >> 6)
	bitShift := uint(delta & 63)
	n := len(r.window)
	for i := 0; i < n; i++ {
		var v uint64
		if i+wordShift < n {
			v = r.window[i+wordShift] >> bitShift
			if bitShift > 0 && i+wordShift+1 < n {
				v |= r.window[i+wordShift+1] << (64 - bitShift)
			}
		}
		r.window[i] = v
	}
}
