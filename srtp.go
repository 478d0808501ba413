package srtp

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pion/rtp"
)

// Protect transforms an RTP packet into an SRTP packet in place and returns
// the protected packet, which grows by the authentication tag. The returned
// slice aliases pkt's backing array when its capacity allows.
func (s *Session) Protect(pkt []byte) ([]byte, error) {
	var header rtp.Header
	headerLen, err := header.Unmarshal(pkt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadParam, err)
	}

	stream := s.getStream(header.SSRC)
	if stream == nil {
		if s.template == nil {
			return nil, ErrNoContext
		}
		if stream, err = s.cloneFromTemplate(header.SSRC, dirSender); err != nil {
			return nil, err
		}
	} else {
		s.checkDirection(stream, dirSender)
	}

	if stream.rtpCipher.aead() {
		return s.protectAead(stream, &header, headerLen, pkt)
	}

	if err = s.updateKeyLimit(stream); err != nil {
		return nil, err
	}

	est, delta, err := s.senderIndex(stream, header.SequenceNumber)
	if err != nil {
		return nil, err
	}
	stream.rtpRdbx.add(delta)

	iv := srtpCounter(header.SSRC, est)
	if err = stream.rtpCipher.setIV(iv[:], directionEncrypt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
	}

	tagLen := stream.rtpAuth.tagLength()
	bodyLen := len(pkt)
	out := growBufferSize(pkt, bodyLen+tagLen)

	// A universal-hash authenticator consumes a keystream prefix; it is
	// staged in the tag slot before payload encryption continues the stream.
	if prefixLen := stream.rtpAuth.prefixLength(); prefixLen > 0 {
		if err = stream.rtpCipher.output(out[bodyLen : bodyLen+prefixLen]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
		}
	}

	if stream.rtpServices&SecServConf != 0 {
		if err = stream.rtpCipher.encrypt(out[headerLen:bodyLen]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
		}
	}

	if stream.rtpServices&SecServAuth != 0 {
		if err = s.rtpAuthenticate(stream, out[:bodyLen], est, out[bodyLen:bodyLen+tagLen]); err != nil {
			return nil, err
		}
	}

	return out[:bodyLen+tagLen], nil
}

// Unprotect verifies and decrypts an SRTP packet in place, returning the
// recovered RTP packet, which shrinks by the authentication tag. Replay
// state, stream direction and template cloning are only committed after the
// packet authenticates.
func (s *Session) Unprotect(pkt []byte) ([]byte, error) {
	var header rtp.Header
	headerLen, err := header.Unmarshal(pkt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadParam, err)
	}

	stream := s.getStream(header.SSRC)
	provisional := false
	var est uint64
	var delta int64
	if stream == nil {
		if s.template == nil {
			return nil, ErrNoContext
		}
		// Use the template provisionally; it is cloned only after the
		// packet authenticates.
		stream = s.template
		provisional = true
		est = uint64(header.SequenceNumber)
		delta = int64(header.SequenceNumber)
	} else {
		est, delta = stream.rtpRdbx.estimate(header.SequenceNumber)
		if err = stream.rtpRdbx.check(delta); err != nil {
			return nil, err
		}
	}

	if stream.rtpCipher.aead() {
		return s.unprotectAead(stream, &header, headerLen, pkt, est, delta, provisional)
	}

	tagLen := stream.rtpAuth.tagLength()
	if len(pkt) < headerLen+tagLen {
		return nil, fmt.Errorf("%w: packet too short for auth tag", ErrBadParam)
	}
	authLen := len(pkt) - tagLen

	iv := srtpCounter(header.SSRC, est)
	if err = stream.rtpCipher.setIV(iv[:], directionDecrypt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
	}

	if stream.rtpServices&SecServAuth != 0 {
		// Any keystream prefix is consumed first so payload decryption
		// continues the stream at the right offset.
		if prefixLen := stream.rtpAuth.prefixLength(); prefixLen > 0 {
			prefix := make([]byte, prefixLen)
			if err = stream.rtpCipher.output(prefix); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
			}
		}

		var computed [20]byte
		if err = s.rtpAuthenticate(stream, pkt[:authLen], est, computed[:tagLen]); err != nil {
			return nil, err
		}
		if octetStringIsEq(computed[:tagLen], pkt[authLen:]) != 0 {
			return nil, ErrAuthFail
		}
	}

	if err = s.updateKeyLimit(stream); err != nil {
		return nil, err
	}

	if stream.rtpServices&SecServConf != 0 {
		if _, err = stream.rtpCipher.decrypt(pkt[headerLen:authLen]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
		}
	}

	s.checkDirection(stream, dirReceiver)
	if provisional {
		if stream, err = s.cloneFromTemplate(header.SSRC, dirReceiver); err != nil {
			return nil, err
		}
	}
	stream.rtpRdbx.add(delta)

	return pkt[:authLen], nil
}

// senderIndex estimates the extended index for an outgoing sequence number
// and runs the replay check. A duplicate index is tolerated only when the
// policy allows exact retransmission.
func (s *Session) senderIndex(stream *streamCtx, seq uint16) (uint64, int64, error) {
	est, delta := stream.rtpRdbx.estimate(seq)
	if err := stream.rtpRdbx.check(delta); err != nil {
		if !errors.Is(err, ErrReplayFail) || !stream.allowRepeatTX {
			return 0, 0, err
		}
	}
	if est == maxExtendedIndex {
		s.raiseEvent(stream, EventPacketIndexLimit)
	}
	return est, delta, nil
}

// rtpAuthenticate runs the MAC over the packet followed by the rollover
// counter, as RFC 3711 §4.2 requires: M = Authenticated Portion || ROC.
func (s *Session) rtpAuthenticate(stream *streamCtx, buf []byte, est uint64, tag []byte) error {
	if err := stream.rtpAuth.start(); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFail, err)
	}
	if err := stream.rtpAuth.update(buf); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFail, err)
	}

	var rocRaw [4]byte
	binary.BigEndian.PutUint32(rocRaw[:], uint32(est>>16))
	if _, err := stream.rtpAuth.compute(rocRaw[:], tag); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFail, err)
	}
	return nil
}
