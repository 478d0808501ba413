package srtp

// AuthID identifies a message authentication primitive in the crypto kernel
// registry.
type AuthID uint32

// Registered authenticator identifiers.
const (
	AuthNull AuthID = iota
	AuthHmacSha1
)

func (a AuthID) String() string {
	switch a {
	case AuthNull:
		return "NULL_AUTH"
	case AuthHmacSha1:
		return "HMAC_SHA1"
	default:
		return "UNKNOWN_AUTH"
	}
}

// srtpAuth is the uniform contract over message authenticators. A tag is
// produced by start, zero or more updates, then compute, which may fold in a
// final extra block (the ROC on the SRTP path).
type srtpAuth interface {
	id() AuthID
	keyLength() int
	tagLength() int
	// prefixLength is the number of keystream octets a universal-hash
	// authenticator folds into the tag; zero for HMAC and null.
	prefixLength() int
	start() error
	update(buf []byte) error
	// compute writes tagLength bytes into tag, after absorbing extra (which
	// may be nil), and returns the number of bytes written.
	compute(extra, tag []byte) (int, error)
	zeroize()
}
