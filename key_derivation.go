package srtp

// Key derivation per RFC 3711 §4.3: AES-CM acts as a PRF keyed with the
// master key and salted with the master salt. Each derived key is selected
// by a one-byte label placed in octet 7 of an otherwise zero nonce.

const (
	labelSRTPEncryption  = 0x00
	labelSRTPMsgAuth     = 0x01
	labelSRTPSalt        = 0x02
	labelSRTCPEncryption = 0x03
	labelSRTCPMsgAuth    = 0x04
	labelSRTCPSalt       = 0x05
)

// kdfKeyLen reports the PRF key size for the given combined RTP/RTCP
// key+salt lengths: AES-128-CTR with the default 14-byte master salt unless
// either side needs more than 30 octets, in which case AES-256-CTR.
func kdfKeyLen(rtpKeyLen, rtcpKeyLen int) int {
	keyLen := 30
	if rtpKeyLen > keyLen || rtcpKeyLen > keyLen {
		keyLen = 46
	}
	return keyLen
}

// baseKeyLength maps a combined key+salt length back to the cipher key part.
func baseKeyLength(id CipherID, keyLen int) int {
	switch id {
	case CipherAesIcm:
		return keyLen - icmSaltLen
	case CipherAes128Gcm:
		return 16
	case CipherAes256Gcm:
		return 32
	default:
		return keyLen
	}
}

type srtpKDF struct {
	cipher *aesICMCipher
}

// newSRTPKDF keys the PRF. masterKey must already be zero-padded to a legal
// AES-ICM combined length (30 or 46 octets).
func newSRTPKDF(masterKey []byte) (*srtpKDF, error) {
	prf, err := newAesICMCipher(masterKey)
	if err != nil {
		return nil, err
	}
	return &srtpKDF{cipher: prf}, nil
}

// generate fills dst with the keystream of the labeled derivation.
func (k *srtpKDF) generate(dst []byte, label byte) error {
	var nonce [16]byte
	nonce[7] = label

	if err := k.cipher.setIV(nonce[:], directionEncrypt); err != nil {
		return err
	}
	return k.cipher.output(dst)
}

// clear zeroizes the PRF's salt, counter and keystream (the AES key schedule
// is not cleared). Always called, even on failed derivations.
func (k *srtpKDF) clear() {
	k.cipher.zeroize()
}
