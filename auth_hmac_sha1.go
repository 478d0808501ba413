package srtp

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // HMAC-SHA1 is the RFC 3711 predefined transform
	"fmt"
	"hash"
)

type hmacSha1Auth struct {
	mac    hash.Hash
	keyLen int
	tagLen int
}

func newHmacSha1Auth(key []byte, tagLen int) (*hmacSha1Auth, error) {
	if tagLen < 1 || tagLen > sha1.Size {
		return nil, fmt.Errorf("%w: HMAC-SHA1 tag length %d", ErrBadParam, tagLen)
	}
	return &hmacSha1Auth{
		mac:    hmac.New(sha1.New, key),
		keyLen: len(key),
		tagLen: tagLen,
	}, nil
}

func (a *hmacSha1Auth) id() AuthID        { return AuthHmacSha1 }
func (a *hmacSha1Auth) keyLength() int    { return a.keyLen }
func (a *hmacSha1Auth) tagLength() int    { return a.tagLen }
func (a *hmacSha1Auth) prefixLength() int { return 0 }

func (a *hmacSha1Auth) start() error {
	a.mac.Reset()
	return nil
}

func (a *hmacSha1Auth) update(buf []byte) error {
	_, err := a.mac.Write(buf)
	return err
}

func (a *hmacSha1Auth) compute(extra, tag []byte) (int, error) {
	if extra != nil {
		if _, err := a.mac.Write(extra); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrAuthFail, err)
		}
	}
	sum := a.mac.Sum(nil)
	copy(tag, sum[:a.tagLen])
	return a.tagLen, nil
}

func (a *hmacSha1Auth) zeroize() {
	a.mac.Reset()
}
