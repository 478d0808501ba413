package srtp

import "fmt"

type streamDirection int

const (
	dirUnknown streamDirection = iota
	dirSender
	dirReceiver
)

// streamCtx holds the per-SSRC cryptographic state. Streams cloned from a
// template share the cipher, authenticator and key-limit objects with it;
// everything else is owned.
type streamCtx struct {
	ssrc uint32

	rtpCipher  srtpCipher
	rtpAuth    srtpAuth
	rtcpCipher srtpCipher
	rtcpAuth   srtpAuth
	limit      *keyLimit

	rtpRdbx *rdbx
	rtcpRdb rdb

	rtpSalt  [aeadSaltLen]byte
	rtcpSalt [aeadSaltLen]byte

	direction     streamDirection
	rtpServices   SecurityServices
	rtcpServices  SecurityServices
	allowRepeatTX bool

	next *streamCtx
}

// newStreamCtx allocates and initializes a stream from a policy: replay
// databases, key-usage budget, direction and the full key schedule.
func newStreamCtx(p *Policy) (*streamCtx, error) {
	if p == nil || p.Key == nil {
		return nil, ErrBadParam
	}
	if p.AllowRepeatTX != 0 && p.AllowRepeatTX != 1 {
		return nil, fmt.Errorf("%w: allow_repeat_tx must be 0 or 1", ErrBadParam)
	}

	rtpRdbx, err := newRDBX(p.WindowSize)
	if err != nil {
		return nil, err
	}

	stream := &streamCtx{
		ssrc:          p.SSRC.Value,
		limit:         newKeyLimit(),
		rtpRdbx:       rtpRdbx,
		direction:     dirUnknown,
		rtpServices:   p.RTP.SecServ,
		rtcpServices:  p.RTCP.SecServ,
		allowRepeatTX: p.AllowRepeatTX == 1,
	}

	if err := stream.initKeys(p); err != nil {
		return nil, err
	}
	return stream, nil
}

// initKeys runs the KDF and feeds the derived session keys to the RTP and
// RTCP ciphers and authenticators. All temporary key material is zeroized
// before return, also on failure.
func (s *streamCtx) initKeys(p *Policy) error {
	rtpKeyLen := p.RTP.CipherKeyLen
	rtcpKeyLen := p.RTCP.CipherKeyLen
	rtpBase := baseKeyLength(p.RTP.CipherType, rtpKeyLen)
	rtpSaltLen := rtpKeyLen - rtpBase
	rtcpBase := baseKeyLength(p.RTCP.CipherType, rtcpKeyLen)
	rtcpSaltLen := rtcpKeyLen - rtcpBase

	const maxSessionKeyLen = 46
	if rtpSaltLen < 0 || rtcpSaltLen < 0 ||
		rtpKeyLen > maxSessionKeyLen || rtcpKeyLen > maxSessionKeyLen ||
		p.RTP.AuthKeyLen < 0 || p.RTP.AuthKeyLen > maxSessionKeyLen ||
		p.RTCP.AuthKeyLen < 0 || p.RTCP.AuthKeyLen > maxSessionKeyLen {
		return ErrBadParam
	}
	if len(p.Key) < rtpKeyLen || len(p.Key) < rtcpKeyLen {
		return fmt.Errorf("%w: master key+salt shorter than policy demands", ErrBadParam)
	}

	// The KDF always runs AES-CTR, even for shorter AEAD master salts, so
	// the master key material is zero-padded to the PRF key size.
	prfKey := make([]byte, kdfKeyLen(rtpKeyLen, rtcpKeyLen))
	copy(prfKey, p.Key[:rtpKeyLen])
	defer zeroize(prfKey)

	kdf, err := newSRTPKDF(prfKey)
	if err != nil {
		return err
	}
	defer kdf.clear()

	scratch := make([]byte, 46)
	defer zeroize(scratch)

	// SRTP cipher key and salt.
	cipherKey := scratch[:rtpKeyLen]
	if err = kdf.generate(cipherKey[:rtpBase], labelSRTPEncryption); err != nil {
		return fmt.Errorf("%w: %v", ErrInitFail, err)
	}
	if rtpSaltLen > 0 {
		if err = kdf.generate(cipherKey[rtpBase:], labelSRTPSalt); err != nil {
			return fmt.Errorf("%w: %v", ErrInitFail, err)
		}
		copy(s.rtpSalt[:], cipherKey[rtpBase:])
	}
	if s.rtpCipher, err = kernel.newCipher(p.RTP.CipherType, cipherKey); err != nil {
		return err
	}

	// SRTP authentication key.
	authKey := scratch[:p.RTP.AuthKeyLen]
	if err = kdf.generate(authKey, labelSRTPMsgAuth); err != nil {
		return fmt.Errorf("%w: %v", ErrInitFail, err)
	}
	if s.rtpAuth, err = kernel.newAuth(p.RTP.AuthType, authKey, p.RTP.AuthTagLen); err != nil {
		return err
	}

	// SRTCP cipher key and salt.
	cipherKey = scratch[:rtcpKeyLen]
	if err = kdf.generate(cipherKey[:rtcpBase], labelSRTCPEncryption); err != nil {
		return fmt.Errorf("%w: %v", ErrInitFail, err)
	}
	if rtcpSaltLen > 0 {
		if err = kdf.generate(cipherKey[rtcpBase:], labelSRTCPSalt); err != nil {
			return fmt.Errorf("%w: %v", ErrInitFail, err)
		}
		copy(s.rtcpSalt[:], cipherKey[rtcpBase:])
	}
	if s.rtcpCipher, err = kernel.newCipher(p.RTCP.CipherType, cipherKey); err != nil {
		return err
	}

	// SRTCP authentication key.
	authKey = scratch[:p.RTCP.AuthKeyLen]
	if err = kdf.generate(authKey, labelSRTCPMsgAuth); err != nil {
		return fmt.Errorf("%w: %v", ErrInitFail, err)
	}
	if s.rtcpAuth, err = kernel.newAuth(p.RTCP.AuthType, authKey, p.RTCP.AuthTagLen); err != nil {
		return err
	}

	return nil
}

// clone creates a stream for a newly sighted SSRC from a template. Ciphers,
// authenticators and the key-usage budget are shared by reference; replay
// databases are fresh and the salts are copied.
func (s *streamCtx) clone(ssrc uint32) (*streamCtx, error) {
	rtpRdbx, err := newRDBX(s.rtpRdbx.windowSize)
	if err != nil {
		return nil, err
	}

	return &streamCtx{
		ssrc:          ssrc,
		rtpCipher:     s.rtpCipher,
		rtpAuth:       s.rtpAuth,
		rtcpCipher:    s.rtcpCipher,
		rtcpAuth:      s.rtcpAuth,
		limit:         s.limit,
		rtpRdbx:       rtpRdbx,
		rtpSalt:       s.rtpSalt,
		rtcpSalt:      s.rtcpSalt,
		direction:     dirUnknown,
		rtpServices:   s.rtpServices,
		rtcpServices:  s.rtcpServices,
		allowRepeatTX: s.allowRepeatTX,
	}, nil
}

// dealloc releases a stream's owned resources. Resources shared with the
// session template are left alone; the template disposes them exactly once.
func (s *streamCtx) dealloc(template *streamCtx) error {
	zeroize(s.rtpSalt[:])
	zeroize(s.rtcpSalt[:])

	shared := func(c srtpCipher) bool {
		return template != nil && template != s && c != nil &&
			(c == template.rtpCipher || c == template.rtcpCipher)
	}
	sharedAuth := func(a srtpAuth) bool {
		return template != nil && template != s && a != nil &&
			(a == template.rtpAuth || a == template.rtcpAuth)
	}

	if s.rtcpAuth != nil && !sharedAuth(s.rtcpAuth) {
		s.rtcpAuth.zeroize()
	}
	if s.rtcpCipher != nil && !shared(s.rtcpCipher) {
		s.rtcpCipher.zeroize()
	}
	if s.rtpCipher != nil && !shared(s.rtpCipher) {
		s.rtpCipher.zeroize()
	}
	if s.rtpAuth != nil && !sharedAuth(s.rtpAuth) {
		s.rtpAuth.zeroize()
	}
	return nil
}

func zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
