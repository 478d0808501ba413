package srtp

import (
	"encoding/binary"
	"fmt"
)

// AEAD data path for RTCP (RFC 7714 §9-§17). The tag sits between the
// payload and the trailer word, and the trailer (the "ESRTCP word") is
// always part of the AAD.

func (s *Session) protectRTCPAead(stream *streamCtx, ssrc uint32, pkt []byte) ([]byte, error) {
	if err := stream.rtcpRdb.increment(); err != nil {
		s.raiseEvent(stream, EventPacketIndexLimit)
		return nil, err
	}
	index := stream.rtcpRdb.value()

	conf := stream.rtcpServices&SecServConf != 0
	tagLen := stream.rtcpCipher.authTagLen()
	bodyLen := len(pkt)
	out := growBufferSize(pkt, bodyLen+tagLen+srtcpTrailerSize)

	trailer := index
	if conf {
		trailer |= srtcpEBit
	}

	iv := aeadSRTCPNonce(ssrc, index, &stream.rtcpSalt)
	if err := stream.rtcpCipher.setIV(iv[:], directionEncrypt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
	}

	if conf {
		var aad [octetsInRTCPHeader + srtcpTrailerSize]byte
		copy(aad[:], out[:octetsInRTCPHeader])
		binary.BigEndian.PutUint32(aad[octetsInRTCPHeader:], trailer)
		if err := stream.rtcpCipher.setAAD(aad[:]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
		}
		if err := stream.rtcpCipher.encrypt(out[octetsInRTCPHeader:bodyLen]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
		}
	} else {
		aad := make([]byte, bodyLen+srtcpTrailerSize)
		copy(aad, out[:bodyLen])
		binary.BigEndian.PutUint32(aad[bodyLen:], trailer)
		if err := stream.rtcpCipher.setAAD(aad); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
		}
		if err := stream.rtcpCipher.encrypt(out[bodyLen:bodyLen]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
		}
	}

	if _, err := stream.rtcpCipher.getTag(out[bodyLen:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
	}
	binary.BigEndian.PutUint32(out[bodyLen+tagLen:], trailer)

	return out[:bodyLen+tagLen+srtcpTrailerSize], nil
}

func (s *Session) unprotectRTCPAead(stream *streamCtx, ssrc uint32, pkt []byte, provisional bool) ([]byte, error) {
	tagLen := stream.rtcpCipher.authTagLen()
	if len(pkt) < octetsInRTCPHeader+tagLen+srtcpTrailerSize {
		return nil, fmt.Errorf("%w: packet too short for AEAD tag and trailer", ErrBadParam)
	}

	trailer := binary.BigEndian.Uint32(pkt[len(pkt)-srtcpTrailerSize:])
	index := trailer &^ srtcpEBit
	eBit := trailer&srtcpEBit != 0

	conf := stream.rtcpServices&SecServConf != 0
	if eBit != conf {
		return nil, ErrCantCheck
	}

	if err := stream.rtcpRdb.check(index); err != nil {
		return nil, err
	}

	iv := aeadSRTCPNonce(ssrc, index, &stream.rtcpSalt)
	if err := stream.rtcpCipher.setIV(iv[:], directionDecrypt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
	}

	dataEnd := len(pkt) - srtcpTrailerSize - tagLen
	if eBit {
		var aad [octetsInRTCPHeader + srtcpTrailerSize]byte
		copy(aad[:], pkt[:octetsInRTCPHeader])
		binary.BigEndian.PutUint32(aad[octetsInRTCPHeader:], trailer)
		if err := stream.rtcpCipher.setAAD(aad[:]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
		}
		if _, err := stream.rtcpCipher.decrypt(pkt[octetsInRTCPHeader : len(pkt)-srtcpTrailerSize]); err != nil {
			return nil, err
		}
	} else {
		aad := make([]byte, dataEnd+srtcpTrailerSize)
		copy(aad, pkt[:dataEnd])
		binary.BigEndian.PutUint32(aad[dataEnd:], trailer)
		if err := stream.rtcpCipher.setAAD(aad); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCipherFail, err)
		}
		if _, err := stream.rtcpCipher.decrypt(pkt[dataEnd : len(pkt)-srtcpTrailerSize]); err != nil {
			return nil, err
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

	return pkt[:dataEnd], nil
}
