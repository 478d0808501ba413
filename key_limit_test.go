package srtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLimitDefaultBudget(t *testing.T) {
	limit := newKeyLimit()
	assert.Equal(t, uint64(maxKeyUsage), limit.numLeft)
	assert.Equal(t, keyLimitNormal, limit.state)

	assert.Equal(t, keyEventNone, limit.update())
}

func TestKeyLimitSoftBoundary(t *testing.T) {
	limit := newKeyLimit()
	limit.set(softLimitThreshold + 2)

	assert.Equal(t, keyEventNone, limit.update())
	assert.Equal(t, keyEventNone, limit.update())

	// Crossing the soft boundary reports exactly once.
	assert.Equal(t, keyEventSoftLimit, limit.update())
	assert.Equal(t, keyLimitSoft, limit.state)
	assert.Equal(t, keyEventNone, limit.update())
}

func TestKeyLimitSmallBudget(t *testing.T) {
	limit := newKeyLimit()
	limit.set(3)

	assert.Equal(t, keyEventSoftLimit, limit.update())
	assert.Equal(t, keyEventNone, limit.update())
	assert.Equal(t, keyEventNone, limit.update())

	// Budget exhausted: the fourth packet hits the hard limit.
	assert.Equal(t, keyEventHardLimit, limit.update())
	assert.Equal(t, keyLimitHard, limit.state)

	// And stays there.
	assert.Equal(t, keyEventHardLimit, limit.update())
}
