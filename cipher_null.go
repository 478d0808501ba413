package srtp

// nullCipher passes data through unchanged. Its keystream is all zeros so a
// MAC prefix, if one were requested, authenticates the plaintext.
type nullCipher struct{}

func newNullCipher() *nullCipher { return &nullCipher{} }

func (*nullCipher) id() CipherID                        { return CipherNull }
func (*nullCipher) aead() bool                          { return false }
func (*nullCipher) keyLength() int                      { return 0 }
func (*nullCipher) authTagLen() int                     { return 0 }
func (*nullCipher) setIV([]byte, cipherDirection) error { return nil }
func (*nullCipher) setAAD([]byte) error                 { return nil }
func (*nullCipher) encrypt([]byte) error                { return nil }

func (*nullCipher) decrypt(buf []byte) (int, error) { return len(buf), nil }

func (*nullCipher) output(keystream []byte) error {
	for i := range keystream {
		keystream[i] = 0
	}
	return nil
}

func (*nullCipher) getTag([]byte) (int, error) { return 0, errUnsupportedCipher }
func (*nullCipher) zeroize()                   {}
