package srtp

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/pion/transport/v3/utils/xor"
)

const icmSaltLen = 14

// aesICMCipher implements AES in Integer Counter Mode (the AES-CM transform
// of RFC 3711 §4.1.1). The combined key is the AES key followed by a 14-byte
// session salt; the salt is XORed into the counter block when the IV is set.
// Keystream is generated lazily and shared between output and encrypt so a
// MAC prefix consumes the same stream the payload encryption continues.
type aesICMCipher struct {
	block  cipher.Block
	salt   [16]byte
	keyLen int

	ctr        [16]byte
	stream     [aes.BlockSize]byte
	streamUsed int
}

func newAesICMCipher(key []byte) (*aesICMCipher, error) {
	switch len(key) {
	case 30, 38, 46:
	default:
		return nil, fmt.Errorf("%w: AES-ICM combined key length %d", ErrBadParam, len(key))
	}

	base := len(key) - icmSaltLen
	block, err := aes.NewCipher(key[:base])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitFail, err)
	}

	c := &aesICMCipher{block: block, keyLen: len(key)}
	copy(c.salt[:icmSaltLen], key[base:])
	return c, nil
}

func (c *aesICMCipher) id() CipherID    { return CipherAesIcm }
func (c *aesICMCipher) aead() bool      { return false }
func (c *aesICMCipher) keyLength() int  { return c.keyLen }
func (c *aesICMCipher) authTagLen() int { return 0 }

func (c *aesICMCipher) setIV(iv []byte, _ cipherDirection) error {
	if len(iv) != len(c.ctr) {
		return errBadIVLength
	}
	for i := range c.ctr {
		c.ctr[i] = c.salt[i] ^ iv[i]
	}
	c.streamUsed = len(c.stream)
	return nil
}

func (c *aesICMCipher) setAAD([]byte) error { return nil }

// xorKeyStream XORs src into dst, continuing the keystream from the previous
// call since the last setIV.
func (c *aesICMCipher) xorKeyStream(dst, src []byte) {
	for i := 0; i < len(src); {
		if c.streamUsed >= len(c.stream) {
			c.block.Encrypt(c.stream[:], c.ctr[:])
			incrementCTR(c.ctr[:])
			c.streamUsed = 0
		}
		n := xor.XorBytes(dst[i:], src[i:], c.stream[c.streamUsed:])
		if n == 0 {
			break
		}
		c.streamUsed += n
		i += n
	}
}

func (c *aesICMCipher) encrypt(buf []byte) error {
	c.xorKeyStream(buf, buf)
	return nil
}

func (c *aesICMCipher) decrypt(buf []byte) (int, error) {
	c.xorKeyStream(buf, buf)
	return len(buf), nil
}

func (c *aesICMCipher) output(keystream []byte) error {
	for i := range keystream {
		keystream[i] = 0
	}
	c.xorKeyStream(keystream, keystream)
	return nil
}

func (c *aesICMCipher) getTag([]byte) (int, error) { return 0, errUnsupportedCipher }

func (c *aesICMCipher) zeroize() {
	for i := range c.salt {
		c.salt[i] = 0
	}
	for i := range c.ctr {
		c.ctr[i] = 0
	}
	for i := range c.stream {
		c.stream[i] = 0
	}
}

// incrementCTR increments a big-endian integer of arbitrary size.
func incrementCTR(ctr []byte) {
	for i := len(ctr) - 1; i >= 0; i-- {
		ctr[i]++
		if ctr[i] != 0 {
			break
		}
	}
}
