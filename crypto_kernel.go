package srtp

import (
	"fmt"
	"sync"
)

type cipherFactory func(key []byte) (srtpCipher, error)
type authFactory func(key []byte, tagLen int) (srtpAuth, error)

// cryptoKernel maps primitive identifiers to factories. It is populated by
// Init and cleared by Shutdown; the data path only reads it.
type cryptoKernel struct {
	mu      sync.RWMutex
	ciphers map[CipherID]cipherFactory
	auths   map[AuthID]authFactory
}

var kernel cryptoKernel //nolint:gochecknoglobals

// Init registers the default cipher and authenticator factories. It must be
// called before CreateSession and is safe to call more than once.
func Init() error {
	kernel.mu.Lock()
	defer kernel.mu.Unlock()

	if kernel.ciphers != nil {
		return nil
	}

	kernel.ciphers = map[CipherID]cipherFactory{
		CipherNull: func([]byte) (srtpCipher, error) {
			return newNullCipher(), nil
		},
		CipherAesIcm: func(key []byte) (srtpCipher, error) {
			return newAesICMCipher(key)
		},
		CipherAes128Gcm: func(key []byte) (srtpCipher, error) {
			return newAesGCMCipher(CipherAes128Gcm, key)
		},
		CipherAes256Gcm: func(key []byte) (srtpCipher, error) {
			return newAesGCMCipher(CipherAes256Gcm, key)
		},
	}
	kernel.auths = map[AuthID]authFactory{
		AuthNull: func([]byte, int) (srtpAuth, error) {
			return newNullAuth(), nil
		},
		AuthHmacSha1: func(key []byte, tagLen int) (srtpAuth, error) {
			return newHmacSha1Auth(key, tagLen)
		},
	}
	return nil
}

// Shutdown clears the primitive registry. Sessions created before Shutdown
// keep their already-constructed primitives.
func Shutdown() error {
	kernel.mu.Lock()
	defer kernel.mu.Unlock()

	kernel.ciphers = nil
	kernel.auths = nil
	return nil
}

func (k *cryptoKernel) ready() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.ciphers != nil
}

func (k *cryptoKernel) newCipher(id CipherID, key []byte) (srtpCipher, error) {
	k.mu.RLock()
	factory, ok := k.ciphers[id]
	k.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no cipher registered for id %d", ErrInitFail, id)
	}
	return factory(key)
}

func (k *cryptoKernel) newAuth(id AuthID, key []byte, tagLen int) (srtpAuth, error) {
	k.mu.RLock()
	factory, ok := k.auths[id]
	k.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no auth registered for id %d", ErrInitFail, id)
	}
	return factory(key, tagLen)
}
