package srtp

import (
	"encoding/binary"
	"fmt"

	"github.com/pion/rtcp"
)

const (
	octetsInRTCPHeader = 8
	srtcpTrailerSize   = 4

	// srtcpEBit marks an encrypted payload in the high bit of the trailer
	// word.
	srtcpEBit = uint32(1) << 31
)

// ProtectRTCP transforms an RTCP packet into an SRTCP packet in place: the
// trailer word (E-bit plus 31-bit index) and the authentication tag are
// appended. The sender always authenticates SRTCP regardless of the service
// mask.
func (s *Session) ProtectRTCP(pkt []byte) ([]byte, error) {
	if len(pkt) < octetsInRTCPHeader {
		return nil, fmt.Errorf("%w: packet shorter than RTCP header", ErrBadParam)
	}
	var header rtcp.Header
	if err := header.Unmarshal(pkt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadParam, err)
	}
	ssrc := binary.BigEndian.Uint32(pkt[4:])

	stream := s.getStream(ssrc)
	if stream == nil {
		if s.template == nil {
			return nil, ErrNoContext
		}
		var err error
		if stream, err = s.cloneFromTemplate(ssrc, dirSender); err != nil {
			return nil, err
		}
	} else {
		s.checkDirection(stream, dirSender)
	}

	if stream.rtcpCipher.aead() {
		return s.protectRTCPAead(stream, ssrc, pkt)
	}

	if err := stream.rtcpRdb.increment(); err != nil {
		s.raiseEvent(stream, EventPacketIndexLimit)
		return nil, err
	}
	index := stream.rtcpRdb.value()

	conf := stream.rtcpServices&SecServConf != 0
	tagLen := stream.rtcpAuth.tagLength()
	bodyLen := len(pkt)
	out := growBufferSize(pkt, bodyLen+srtcpTrailerSize+tagLen)

	trailer := index
	if conf {
		trailer |= srtcpEBit
	}
	binary.BigEndian.PutUint32(out[bodyLen:], trailer)

	iv := srtcpCounter(ssrc, index)
	if err := stream.rtcpCipher.setIV(iv[:], directionEncrypt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
	}

	tagStart := bodyLen + srtcpTrailerSize
	if prefixLen := stream.rtcpAuth.prefixLength(); prefixLen > 0 {
		if err := stream.rtcpCipher.output(out[tagStart : tagStart+prefixLen]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
		}
	}

	if conf {
		if err := stream.rtcpCipher.encrypt(out[octetsInRTCPHeader:bodyLen]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
		}
	}

	// The MAC covers the packet including the trailer word.
	if err := s.rtcpAuthenticate(stream, out[:tagStart], out[tagStart:tagStart+tagLen]); err != nil {
		return nil, err
	}

	return out[:tagStart+tagLen], nil
}

// UnprotectRTCP verifies and decrypts an SRTCP packet in place, returning
// the recovered RTCP packet. The E-bit must agree with the configured
// confidentiality service; replay state and stream mutations are committed
// only after the packet authenticates.
func (s *Session) UnprotectRTCP(pkt []byte) ([]byte, error) {
	if len(pkt) < octetsInRTCPHeader+srtcpTrailerSize {
		return nil, fmt.Errorf("%w: packet shorter than SRTCP header and trailer", ErrBadParam)
	}
	var header rtcp.Header
	if err := header.Unmarshal(pkt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadParam, err)
	}
	ssrc := binary.BigEndian.Uint32(pkt[4:])

	stream := s.getStream(ssrc)
	provisional := false
	if stream == nil {
		if s.template == nil {
			return nil, ErrNoContext
		}
		stream = s.template
		provisional = true
	}

	if stream.rtcpCipher.aead() {
		return s.unprotectRTCPAead(stream, ssrc, pkt, provisional)
	}

	tagLen := stream.rtcpAuth.tagLength()
	if len(pkt) < octetsInRTCPHeader+tagLen+srtcpTrailerSize {
		return nil, fmt.Errorf("%w: packet too short for trailer and auth tag", ErrBadParam)
	}

	trailerPos := len(pkt) - tagLen - srtcpTrailerSize
	trailer := binary.BigEndian.Uint32(pkt[trailerPos:])
	index := trailer &^ srtcpEBit
	eBit := trailer&srtcpEBit != 0

	conf := stream.rtcpServices&SecServConf != 0
	if eBit != conf {
		return nil, ErrCantCheck
	}

	if err := stream.rtcpRdb.check(index); err != nil {
		return nil, err
	}

	iv := srtcpCounter(ssrc, index)
	if err := stream.rtcpCipher.setIV(iv[:], directionDecrypt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
	}

	authLen := len(pkt) - tagLen
	var computed [20]byte
	if err := s.rtcpAuthenticate(stream, pkt[:authLen], computed[:tagLen]); err != nil {
		return nil, err
	}
	if octetStringIsEq(computed[:tagLen], pkt[authLen:]) != 0 {
		return nil, ErrAuthFail
	}

	if eBit {
		if _, err := stream.rtcpCipher.decrypt(pkt[octetsInRTCPHeader:trailerPos]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
		}
	}

	s.checkDirection(stream, dirReceiver)
	if provisional {
		var err error
		if stream, err = s.cloneFromTemplate(ssrc, dirReceiver); err != nil {
			return nil, err
		}
	}
	stream.rtcpRdb.add(index)

	return pkt[:trailerPos], nil
}

func (s *Session) rtcpAuthenticate(stream *streamCtx, buf, tag []byte) error {
	if err := stream.rtcpAuth.start(); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFail, err)
	}
	if err := stream.rtcpAuth.update(buf); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFail, err)
	}
	if _, err := stream.rtcpAuth.compute(nil, tag); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFail, err)
	}
	return nil
}
