package srtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoPolicyFromProfile(t *testing.T) {
	policy, err := CryptoPolicyFromProfile(ProtectionProfileAes128CmHmacSha1_80, false)
	require.NoError(t, err)
	assert.Equal(t, CipherAesIcm, policy.CipherType)
	assert.Equal(t, 30, policy.CipherKeyLen)
	assert.Equal(t, 10, policy.AuthTagLen)

	policy, err = CryptoPolicyFromProfile(ProtectionProfileAes256CmHmacSha1_80, false)
	require.NoError(t, err)
	assert.Equal(t, 46, policy.CipherKeyLen)

	policy, err = CryptoPolicyFromProfile(ProtectionProfileNullHmacSha1_80, false)
	require.NoError(t, err)
	assert.Equal(t, CipherNull, policy.CipherType)
	assert.Equal(t, SecServAuth, policy.SecServ)
}

// RFC 3711 requires the full 80-bit tag on SRTCP: 32-bit profiles are
// silently upgraded.
func TestCryptoPolicyFromProfileRTCPUpgrade(t *testing.T) {
	for _, profile := range []ProtectionProfile{
		ProtectionProfileAes128CmHmacSha1_32,
		ProtectionProfileAes256CmHmacSha1_32,
	} {
		rtpPolicy, err := CryptoPolicyFromProfile(profile, false)
		require.NoError(t, err)
		assert.Equal(t, 4, rtpPolicy.AuthTagLen)

		rtcpPolicy, err := CryptoPolicyFromProfile(profile, true)
		require.NoError(t, err)
		assert.Equal(t, 10, rtcpPolicy.AuthTagLen, "%s must upgrade to an 80-bit tag for RTCP", profile)
	}
}

func TestCryptoPolicyFromProfileRejectsNullSha1_32(t *testing.T) {
	_, err := CryptoPolicyFromProfile(ProtectionProfileNullHmacSha1_32, false)
	assert.ErrorIs(t, err, ErrBadParam)

	_, err = CryptoPolicyFromProfile(ProtectionProfileNullHmacSha1_32, true)
	assert.ErrorIs(t, err, ErrBadParam)
}
