package srtp

import (
	"fmt"

	"github.com/pion/rtp"
)

// AEAD data path for RTP (RFC 7714). Framing is shared with the CTR+HMAC
// path; the differences are the 96-bit nonce, the header serving as AAD and
// the cipher providing integrity itself.

func (s *Session) protectAead(stream *streamCtx, header *rtp.Header, headerLen int, pkt []byte) ([]byte, error) {
	if err := s.updateKeyLimit(stream); err != nil {
		return nil, err
	}

	est, delta, err := s.senderIndex(stream, header.SequenceNumber)
	if err != nil {
		return nil, err
	}
	stream.rtpRdbx.add(delta)

	iv := aeadSRTPNonce(header.SSRC, est, &stream.rtpSalt)
	if err = stream.rtpCipher.setIV(iv[:], directionEncrypt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
	}

	tagLen := stream.rtpCipher.authTagLen()
	bodyLen := len(pkt)
	out := growBufferSize(pkt, bodyLen+tagLen)

	if stream.rtpServices&SecServConf != 0 {
		if err = stream.rtpCipher.setAAD(out[:headerLen]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
		}
		if err = stream.rtpCipher.encrypt(out[headerLen:bodyLen]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
		}
	} else {
		// Authentication only: the whole packet is AAD.
		if err = stream.rtpCipher.setAAD(out[:bodyLen]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
		}
		if err = stream.rtpCipher.encrypt(out[bodyLen:bodyLen]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
		}
	}

	if _, err = stream.rtpCipher.getTag(out[bodyLen:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
	}

	return out[:bodyLen+tagLen], nil
}

func (s *Session) unprotectAead(stream *streamCtx, header *rtp.Header, headerLen int, pkt []byte,
	est uint64, delta int64, provisional bool,
) ([]byte, error) {
	tagLen := stream.rtpCipher.authTagLen()
	if len(pkt) < headerLen+tagLen {
		return nil, fmt.Errorf("%w: packet too short for AEAD tag", ErrBadParam)
	}

	iv := aeadSRTPNonce(header.SSRC, est, &stream.rtpSalt)
	if err := stream.rtpCipher.setIV(iv[:], directionDecrypt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
	}

	plaintextLen := len(pkt) - tagLen
	if stream.rtpServices&SecServConf != 0 {
		if err := stream.rtpCipher.setAAD(pkt[:headerLen]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
		}
		// decrypt verifies the tag; failure reports before any state change.
		if _, err := stream.rtpCipher.decrypt(pkt[headerLen:]); err != nil {
			return nil, err
		}
	} else {
		if err := stream.rtpCipher.setAAD(pkt[:plaintextLen]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
		}
		if _, err := stream.rtpCipher.decrypt(pkt[plaintextLen:]); err != nil {
			return nil, err
		}
	}

	if err := s.updateKeyLimit(stream); err != nil {
		return nil, err
	}

	s.checkDirection(stream, dirReceiver)
	if provisional {
		var err error
		if stream, err = s.cloneFromTemplate(header.SSRC, dirReceiver); err != nil {
			return nil, err
		}
	}
	stream.rtpRdbx.add(delta)

	return pkt[:plaintextLen], nil
}
