package srtp

import "errors"

// Status codes returned across the API. They are stable: callers can rely on
// errors.Is against these values even when the returned error carries
// additional context.
var (
	// ErrBadParam indicates a malformed packet, an inconsistent header, or an
	// invalid policy field.
	ErrBadParam = errors.New("srtp: bad parameter")

	// ErrAllocFail indicates a resource could not be allocated.
	ErrAllocFail = errors.New("srtp: allocation failure")

	// ErrInitFail indicates a primitive or the engine itself could not be
	// initialized, e.g. CreateSession before Init.
	ErrInitFail = errors.New("srtp: initialization failure")

	// ErrNoContext is returned when no stream matches the packet SSRC and the
	// session has no template stream to clone from.
	ErrNoContext = errors.New("srtp: no stream context for SSRC")

	// ErrReplayFail is returned for a packet index that lies inside the
	// replay window and has already been seen.
	ErrReplayFail = errors.New("srtp: replayed packet")

	// ErrReplayOld is returned for a packet index older than the replay
	// window.
	ErrReplayOld = errors.New("srtp: packet index older than replay window")

	// ErrKeyExpired is returned once the key usage hard limit has been
	// reached, or when the SRTCP index would pass 2^31-1.
	ErrKeyExpired = errors.New("srtp: key usage limit reached")

	// ErrAuthFail is returned on an authentication tag mismatch, including
	// AEAD tag verification failures.
	ErrAuthFail = errors.New("srtp: authentication failure")

	// ErrCipherFail is returned when a cipher primitive signals failure.
	ErrCipherFail = errors.New("srtp: cipher failure")

	// ErrParseError indicates a self-inconsistent RTP or RTCP header.
	ErrParseError = errors.New("srtp: parse error")

	// ErrCantCheck is returned when the SRTCP E-bit contradicts the
	// configured confidentiality service, leaving the packet unverifiable.
	ErrCantCheck = errors.New("srtp: security services do not match packet")
)

// Internal conditions that are not part of the stable status surface.
var (
	errBadIVLength       = errors.New("srtp: bad iv length")
	errUnsupportedCipher = errors.New("srtp: operation not supported by cipher")
)
