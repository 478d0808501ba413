package srtp

import (
	"crypto/subtle"
	"encoding/binary"
)

// srtpCounter forms the pre-salt AES-ICM counter block for an RTP packet:
// 32 zero bits, the SSRC, then the 48-bit extended index shifted left by 16.
// The cipher XORs its session salt into the block when the IV is set.
func srtpCounter(ssrc uint32, index uint64) [16]byte {
	var iv [16]byte
	binary.BigEndian.PutUint32(iv[4:], ssrc)
	binary.BigEndian.PutUint64(iv[8:], index<<16)
	return iv
}

// srtcpCounter is the SRTCP variant, built from the 31-bit SRTCP index.
func srtcpCounter(ssrc uint32, index uint32) [16]byte {
	var iv [16]byte
	binary.BigEndian.PutUint32(iv[4:], ssrc)
	binary.BigEndian.PutUint32(iv[8:], index>>16)
	binary.BigEndian.PutUint32(iv[12:], index<<16)
	return iv
}

// aeadSRTPNonce forms the 96-bit AES-GCM nonce for RTP per RFC 7714 §8.1:
// two zero octets, the SSRC, the ROC and the sequence number, XORed with the
// stream's 12-byte salt.
func aeadSRTPNonce(ssrc uint32, index uint64, salt *[aeadSaltLen]byte) [aeadSaltLen]byte {
	var iv [aeadSaltLen]byte
	binary.BigEndian.PutUint32(iv[2:], ssrc)
	binary.BigEndian.PutUint32(iv[6:], uint32(index>>16))
	binary.BigEndian.PutUint16(iv[10:], uint16(index))

	for i := range iv {
		iv[i] ^= salt[i]
	}
	return iv
}

// aeadSRTCPNonce is the SRTCP variant per RFC 7714 §9.1: two zero octets,
// the SSRC, two zero octets and the 31-bit SRTCP index, XORed with the salt.
func aeadSRTCPNonce(ssrc uint32, index uint32, salt *[aeadSaltLen]byte) [aeadSaltLen]byte {
	var iv [aeadSaltLen]byte
	binary.BigEndian.PutUint32(iv[2:], ssrc)
	binary.BigEndian.PutUint32(iv[8:], index&maxSRTCPIndex)

	for i := range iv {
		iv[i] ^= salt[i]
	}
	return iv
}

// octetStringIsEq compares two tags in constant time and returns non-zero if
// and only if they differ. Callers MUST treat zero as "equal"; reversing the
// sense of this comparator is a security bug.
func octetStringIsEq(a, b []byte) int {
	if len(a) != len(b) {
		return 1
	}
	return 1 - subtle.ConstantTimeCompare(a, b)
}
