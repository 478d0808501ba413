package srtp

import "fmt"

// ProtectionProfile names a negotiated SRTP profile, similar to a TLS cipher
// suite. The values match the DTLS-SRTP registry.
type ProtectionProfile uint16

// Supported protection profiles.
const (
	ProtectionProfileAes128CmHmacSha1_80 ProtectionProfile = 0x0001
	ProtectionProfileAes128CmHmacSha1_32 ProtectionProfile = 0x0002
	ProtectionProfileAes256CmHmacSha1_80 ProtectionProfile = 0x0003
	ProtectionProfileAes256CmHmacSha1_32 ProtectionProfile = 0x0004
	ProtectionProfileNullHmacSha1_80     ProtectionProfile = 0x0005
	ProtectionProfileNullHmacSha1_32     ProtectionProfile = 0x0006
)

func (p ProtectionProfile) String() string {
	switch p {
	case ProtectionProfileAes128CmHmacSha1_80:
		return "SRTP_AES128_CM_HMAC_SHA1_80"
	case ProtectionProfileAes128CmHmacSha1_32:
		return "SRTP_AES128_CM_HMAC_SHA1_32"
	case ProtectionProfileAes256CmHmacSha1_80:
		return "SRTP_AES256_CM_HMAC_SHA1_80"
	case ProtectionProfileAes256CmHmacSha1_32:
		return "SRTP_AES256_CM_HMAC_SHA1_32"
	case ProtectionProfileNullHmacSha1_80:
		return "SRTP_NULL_HMAC_SHA1_80"
	case ProtectionProfileNullHmacSha1_32:
		return "SRTP_NULL_HMAC_SHA1_32"
	default:
		return fmt.Sprintf("unknown SRTP profile: %#v", p)
	}
}

// CryptoPolicyFromProfile maps a named profile to a crypto policy.
// NullHmacSha1_32 is not a valid profile and is rejected. When isRTCP is set,
// 32-bit-tag profiles are upgraded to 80-bit tags: RFC 3711 §5.2 requires
// the full tag on SRTCP.
func CryptoPolicyFromProfile(profile ProtectionProfile, isRTCP bool) (CryptoPolicy, error) {
	if isRTCP {
		switch profile {
		case ProtectionProfileAes128CmHmacSha1_32:
			profile = ProtectionProfileAes128CmHmacSha1_80
		case ProtectionProfileAes256CmHmacSha1_32:
			profile = ProtectionProfileAes256CmHmacSha1_80
		default:
		}
	}

	switch profile {
	case ProtectionProfileAes128CmHmacSha1_80:
		return CryptoPolicyAes128CmHmacSha1_80(), nil
	case ProtectionProfileAes128CmHmacSha1_32:
		return CryptoPolicyAes128CmHmacSha1_32(), nil
	case ProtectionProfileAes256CmHmacSha1_80:
		return CryptoPolicyAes256CmHmacSha1_80(), nil
	case ProtectionProfileAes256CmHmacSha1_32:
		return CryptoPolicyAes256CmHmacSha1_32(), nil
	case ProtectionProfileNullHmacSha1_80:
		return CryptoPolicyNullCipherHmacSha1_80(), nil
	default:
		return CryptoPolicy{}, fmt.Errorf("%w: unsupported profile %s", ErrBadParam, profile)
	}
}
