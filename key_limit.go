package srtp

// Key-usage budget. Every protected or successfully unprotected RTP packet
// decrements the budget; the SRTCP paths do not consume it. Crossing the soft
// boundary raises an event once, exhausting the budget raises the hard event
// and the packet is rejected.

type keyLimitState int

const (
	keyLimitNormal keyLimitState = iota
	keyLimitSoft
	keyLimitHard
)

type keyLimitEvent int

const (
	keyEventNone keyLimitEvent = iota
	keyEventSoftLimit
	keyEventHardLimit
)

// softLimitThreshold: the soft warning fires once fewer than this many
// packets remain.
const softLimitThreshold = 0x10000

// maxKeyUsage is the default budget, 2^48-1 packets.
const maxKeyUsage = maxExtendedIndex

type keyLimit struct {
	numLeft uint64
	state   keyLimitState
}

func newKeyLimit() *keyLimit {
	return &keyLimit{numLeft: maxKeyUsage}
}

func (k *keyLimit) set(limit uint64) {
	k.numLeft = limit
	k.state = keyLimitNormal
}

// update consumes one packet from the budget and reports any state change.
func (k *keyLimit) update() keyLimitEvent {
	switch k.state {
	case keyLimitNormal:
		if k.numLeft == 0 {
			k.state = keyLimitHard
			return keyEventHardLimit
		}
		k.numLeft--
		if k.numLeft < softLimitThreshold {
			k.state = keyLimitSoft
			return keyEventSoftLimit
		}
		return keyEventNone
	case keyLimitSoft:
		if k.numLeft == 0 {
			k.state = keyLimitHard
			return keyEventHardLimit
		}
		k.numLeft--
		return keyEventNone
	default:
		return keyEventHardLimit
	}
}
