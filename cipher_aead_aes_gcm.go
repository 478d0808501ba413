package srtp

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

const aeadAuthTagLen = 16

// aesGCMCipher implements the AEAD transforms of RFC 7714 behind the common
// cipher contract. The combined key carries a trailing 12-byte salt, but the
// nonce arrives fully formed through setIV: the stream layer owns the salt
// (clones keep their own copy) and XORs it while building the IV.
type aesGCMCipher struct {
	cipherID CipherID
	aeadImpl cipher.AEAD
	keyLen   int

	iv      [aeadSaltLen]byte
	aadBuf  []byte
	tag     [aeadAuthTagLen]byte
	scratch []byte
}

func newAesGCMCipher(id CipherID, key []byte) (*aesGCMCipher, error) {
	var base int
	switch id {
	case CipherAes128Gcm:
		base = 16
	case CipherAes256Gcm:
		base = 32
	default:
		return nil, fmt.Errorf("%w: cipher %s is not an AEAD", ErrBadParam, id)
	}
	if len(key) != base+aeadSaltLen {
		return nil, fmt.Errorf("%w: %s combined key length %d", ErrBadParam, id, len(key))
	}

	block, err := aes.NewCipher(key[:base])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitFail, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitFail, err)
	}

	return &aesGCMCipher{cipherID: id, aeadImpl: aead, keyLen: len(key)}, nil
}

func (c *aesGCMCipher) id() CipherID    { return c.cipherID }
func (c *aesGCMCipher) aead() bool      { return true }
func (c *aesGCMCipher) keyLength() int  { return c.keyLen }
func (c *aesGCMCipher) authTagLen() int { return aeadAuthTagLen }

func (c *aesGCMCipher) setIV(iv []byte, _ cipherDirection) error {
	if len(iv) != len(c.iv) {
		return errBadIVLength
	}
	copy(c.iv[:], iv)
	return nil
}

func (c *aesGCMCipher) setAAD(aad []byte) error {
	c.aadBuf = append(c.aadBuf[:0], aad...)
	return nil
}

func (c *aesGCMCipher) encrypt(buf []byte) error {
	out := c.aeadImpl.Seal(c.scratch[:0], c.iv[:], buf, c.aadBuf)
	c.scratch = out
	copy(buf, out[:len(buf)])
	copy(c.tag[:], out[len(buf):])
	return nil
}

func (c *aesGCMCipher) decrypt(buf []byte) (int, error) {
	if len(buf) < aeadAuthTagLen {
		return 0, fmt.Errorf("%w: ciphertext shorter than AEAD tag", ErrAuthFail)
	}
	plaintext, err := c.aeadImpl.Open(buf[:0], c.iv[:], buf, c.aadBuf)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAuthFail, err)
	}
	return len(plaintext), nil
}

func (c *aesGCMCipher) output([]byte) error { return errUnsupportedCipher }

func (c *aesGCMCipher) getTag(tag []byte) (int, error) {
	if len(tag) < aeadAuthTagLen {
		return 0, fmt.Errorf("%w: tag buffer too small", ErrBadParam)
	}
	copy(tag, c.tag[:])
	return aeadAuthTagLen, nil
}

func (c *aesGCMCipher) zeroize() {
	for i := range c.iv {
		c.iv[i] = 0
	}
	for i := range c.tag {
		c.tag[i] = 0
	}
	for i := range c.scratch {
		c.scratch[i] = 0
	}
	for i := range c.aadBuf {
		c.aadBuf[i] = 0
	}
}
