package srtp

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildRTCPPacket returns a receiver report with the given SSRC and
// payloadLen extra octets of report data.
func buildRTCPPacket(ssrc uint32, payloadLen int) []byte {
	pkt := make([]byte, octetsInRTCPHeader+payloadLen)
	pkt[0] = 0x80
	pkt[1] = 201 // receiver report
	binary.BigEndian.PutUint16(pkt[2:], uint16((len(pkt)/4)-1))
	binary.BigEndian.PutUint32(pkt[4:], ssrc)
	for i := 0; i < payloadLen; i++ {
		pkt[octetsInRTCPHeader+i] = byte(i)
	}
	return pkt
}

func TestProtectUnprotectRTCPAes128Cm(t *testing.T) {
	const ssrc = 0xFEEDFACE
	sender, receiver := newSessionPair(t, aes128CmPolicy(ssrc))

	original := buildRTCPPacket(ssrc, 16)

	protected, err := sender.ProtectRTCP(append([]byte{}, original...))
	require.NoError(t, err)
	assert.Equal(t, len(original)+srtcpTrailerSize+10, len(protected))

	// Confidentiality is on: the E-bit is set and the index is 1.
	trailer := binary.BigEndian.Uint32(protected[len(protected)-10-srtcpTrailerSize:])
	assert.Equal(t, srtcpEBit|1, trailer)

	recovered, err := receiver.UnprotectRTCP(protected)
	require.NoError(t, err)
	assert.Equal(t, original, recovered)
}

func TestUnprotectRTCPReplay(t *testing.T) {
	const ssrc = 0xFEEDFACE
	sender, receiver := newSessionPair(t, aes128CmPolicy(ssrc))

	protected, err := sender.ProtectRTCP(buildRTCPPacket(ssrc, 4))
	require.NoError(t, err)
	saved := append([]byte{}, protected...)

	_, err = receiver.UnprotectRTCP(protected)
	require.NoError(t, err)

	_, err = receiver.UnprotectRTCP(saved)
	assert.ErrorIs(t, err, ErrReplayFail)
}

func TestRTCPIndexIncrements(t *testing.T) {
	const ssrc = 0xFEEDFACE
	sender, err := CreateSession([]*Policy{aes128CmPolicy(ssrc)})
	require.NoError(t, err)

	for want := uint32(1); want <= 3; want++ {
		protected, errProtect := sender.ProtectRTCP(buildRTCPPacket(ssrc, 4))
		require.NoError(t, errProtect)
		trailer := binary.BigEndian.Uint32(protected[len(protected)-10-srtcpTrailerSize:])
		assert.Equal(t, want, trailer&^srtcpEBit)
	}
}

// Null cipher with HMAC-SHA1-80: the E-bit stays clear, corrupting the
// trailer index breaks authentication, and a packet claiming encryption the
// policy does not provide is unverifiable.
func TestProtectUnprotectRTCPNullCipher(t *testing.T) {
	const ssrc = 0x0D15EA5E
	policy := &Policy{
		SSRC: SSRC{Type: SSRCSpecific, Value: ssrc},
		Key:  make([]byte, 30),
		RTP:  CryptoPolicyNullCipherHmacSha1_80(),
		RTCP: CryptoPolicyNullCipherHmacSha1_80(),
	}
	sender, receiver := newSessionPair(t, policy)

	original := buildRTCPPacket(ssrc, 8)

	protected, err := sender.ProtectRTCP(append([]byte{}, original...))
	require.NoError(t, err)
	assert.Equal(t, original, protected[:len(original)], "null cipher must not change the payload")

	trailerPos := len(protected) - 10 - srtcpTrailerSize
	assert.Zero(t, protected[trailerPos]&0x80, "E-bit must be clear without confidentiality")

	tampered := append([]byte{}, protected...)
	tampered[trailerPos+3] ^= 0x01 // flip the low index bit
	_, err = receiver.UnprotectRTCP(tampered)
	assert.ErrorIs(t, err, ErrAuthFail)

	flipped := append([]byte{}, protected...)
	flipped[trailerPos] |= 0x80
	_, err = receiver.UnprotectRTCP(flipped)
	assert.ErrorIs(t, err, ErrCantCheck)

	recovered, err := receiver.UnprotectRTCP(protected)
	require.NoError(t, err)
	assert.Equal(t, original, recovered)
}

func TestProtectUnprotectRTCPAeadAes128Gcm(t *testing.T) {
	const ssrc = 0x44332211
	policy := &Policy{
		SSRC: SSRC{Type: SSRCSpecific, Value: ssrc},
		Key:  make([]byte, 28),
		RTP:  CryptoPolicyAeadAes128Gcm(),
		RTCP: CryptoPolicyAeadAes128Gcm(),
	}
	sender, receiver := newSessionPair(t, policy)

	original := buildRTCPPacket(ssrc, 12)

	protected, err := sender.ProtectRTCP(append([]byte{}, original...))
	require.NoError(t, err)
	assert.Equal(t, len(original)+aeadAuthTagLen+srtcpTrailerSize, len(protected))

	// AEAD layout puts the trailer last.
	trailer := binary.BigEndian.Uint32(protected[len(protected)-srtcpTrailerSize:])
	assert.Equal(t, srtcpEBit|1, trailer)

	tampered := append([]byte{}, protected...)
	tampered[octetsInRTCPHeader] ^= 0xFF
	_, err = receiver.UnprotectRTCP(tampered)
	assert.ErrorIs(t, err, ErrAuthFail)

	recovered, err := receiver.UnprotectRTCP(protected)
	require.NoError(t, err)
	assert.Equal(t, original, recovered)
}

func TestUnprotectRTCPTooShort(t *testing.T) {
	const ssrc = 0xFEEDFACE
	_, receiver := newSessionPair(t, aes128CmPolicy(ssrc))

	// Shorter than header+trailer: rejected before stream lookup.
	_, err := receiver.UnprotectRTCP(buildRTCPPacket(ssrc, 0)[:8])
	assert.ErrorIs(t, err, ErrBadParam)

	// Long enough for the trailer but not for the 10-octet tag.
	short := buildRTCPPacket(ssrc, 6) // 14 octets < 8+10+4
	_, err = receiver.UnprotectRTCP(short)
	assert.ErrorIs(t, err, ErrBadParam)
}

func TestRTCPIndexOverflow(t *testing.T) {
	const ssrc = 0xFEEDFACE
	var events []Event
	sender, err := CreateSession(
		[]*Policy{aes128CmPolicy(ssrc)},
		WithEventHandler(func(e *EventData) { events = append(events, e.Event) }),
	)
	require.NoError(t, err)

	sender.getStream(ssrc).rtcpRdb.windowStart = maxSRTCPIndex

	_, err = sender.ProtectRTCP(buildRTCPPacket(ssrc, 4))
	assert.ErrorIs(t, err, ErrKeyExpired)
	assert.Contains(t, events, EventPacketIndexLimit)
}
