package srtp

// SecurityServices is a bitmask of the protections applied to a packet
// class.
type SecurityServices int

// Security service flags. The sender always authenticates SRTCP regardless
// of the RTCP mask, per RFC 3711 §3.4.
const (
	SecServConf SecurityServices = 1 << iota
	SecServAuth

	SecServConfAndAuth = SecServConf | SecServAuth
)

// SSRCType tags an SSRC specifier.
type SSRCType int

// SSRC specifier kinds. Wildcard kinds install a template stream that is
// cloned on the first sighting of a concrete SSRC.
const (
	SSRCUndefined SSRCType = iota
	SSRCSpecific
	SSRCAnyInbound
	SSRCAnyOutbound
)

// SSRC selects which synchronization source(s) a policy applies to. Value is
// only meaningful for SSRCSpecific.
type SSRC struct {
	Type  SSRCType
	Value uint32
}

// CryptoPolicy describes the transforms for one packet class (RTP or RTCP).
// CipherKeyLen is the combined cipher-key-plus-salt length.
type CryptoPolicy struct {
	CipherType   CipherID
	CipherKeyLen int
	AuthType     AuthID
	AuthKeyLen   int
	AuthTagLen   int
	SecServ      SecurityServices
}

// EKTPolicy is the hook for Encrypted Key Transport. The data path ignores
// it.
type EKTPolicy struct {
	SPI uint16
	Key []byte
}

// Policy describes a stream to be added to a session: which SSRC(s) it
// covers, the master key+salt, and the per-class crypto policies.
type Policy struct {
	SSRC SSRC
	// Key is the master key immediately followed by the master salt,
	// CipherKeyLen octets in total.
	Key  []byte
	RTP  CryptoPolicy
	RTCP CryptoPolicy
	// WindowSize is the RTP replay window; zero selects the default of 128,
	// other values must lie in [64, 32768).
	WindowSize int
	// AllowRepeatTX permits a sender to re-protect an exact duplicate index.
	// Only 0 and 1 are accepted.
	AllowRepeatTX int
	EKT           *EKTPolicy
}

// CryptoPolicyAes128CmHmacSha1_80 fills the policy for
// AES-128-CM with a 10-octet HMAC-SHA1 tag (RFC 3711 default).
func CryptoPolicyAes128CmHmacSha1_80() CryptoPolicy {
	return CryptoPolicy{
		CipherType:   CipherAesIcm,
		CipherKeyLen: 30,
		AuthType:     AuthHmacSha1,
		AuthKeyLen:   20,
		AuthTagLen:   10,
		SecServ:      SecServConfAndAuth,
	}
}

// CryptoPolicyAes128CmHmacSha1_32 is the 4-octet-tag variant.
func CryptoPolicyAes128CmHmacSha1_32() CryptoPolicy {
	policy := CryptoPolicyAes128CmHmacSha1_80()
	policy.AuthTagLen = 4
	return policy
}

// CryptoPolicyAes256CmHmacSha1_80 uses a 46-octet combined key.
func CryptoPolicyAes256CmHmacSha1_80() CryptoPolicy {
	return CryptoPolicy{
		CipherType:   CipherAesIcm,
		CipherKeyLen: 46,
		AuthType:     AuthHmacSha1,
		AuthKeyLen:   20,
		AuthTagLen:   10,
		SecServ:      SecServConfAndAuth,
	}
}

// CryptoPolicyAes256CmHmacSha1_32 is the 4-octet-tag variant.
func CryptoPolicyAes256CmHmacSha1_32() CryptoPolicy {
	policy := CryptoPolicyAes256CmHmacSha1_80()
	policy.AuthTagLen = 4
	return policy
}

// CryptoPolicyNullCipherHmacSha1_80 authenticates without encrypting.
func CryptoPolicyNullCipherHmacSha1_80() CryptoPolicy {
	return CryptoPolicy{
		CipherType:   CipherNull,
		CipherKeyLen: 0,
		AuthType:     AuthHmacSha1,
		AuthKeyLen:   20,
		AuthTagLen:   10,
		SecServ:      SecServAuth,
	}
}

// CryptoPolicyAeadAes128Gcm uses AES-128-GCM with a 16-octet tag. The AEAD
// provides integrity, so no separate authenticator is configured.
func CryptoPolicyAeadAes128Gcm() CryptoPolicy {
	return CryptoPolicy{
		CipherType:   CipherAes128Gcm,
		CipherKeyLen: 16 + aeadSaltLen,
		AuthType:     AuthNull,
		AuthKeyLen:   0,
		AuthTagLen:   aeadAuthTagLen,
		SecServ:      SecServConfAndAuth,
	}
}

// CryptoPolicyAeadAes256Gcm uses AES-256-GCM with a 16-octet tag.
func CryptoPolicyAeadAes256Gcm() CryptoPolicy {
	return CryptoPolicy{
		CipherType:   CipherAes256Gcm,
		CipherKeyLen: 32 + aeadSaltLen,
		AuthType:     AuthNull,
		AuthKeyLen:   0,
		AuthTagLen:   aeadAuthTagLen,
		SecServ:      SecServConfAndAuth,
	}
}
