// Package srtp implements the Secure Real-time Transport Protocol (RFC 3711)
// and its AES-GCM extensions (RFC 7714): packet protection and unprotection
// for RTP and RTCP, per-SSRC stream management with wildcard templates,
// extended-index replay protection and labeled key derivation.
package srtp

import (
	"fmt"

	"github.com/pion/logging"
)

// Session owns a set of streams keyed by SSRC, plus at most one template
// stream that is cloned on the first sighting of a new SSRC.
//
// A Session is a single-writer data structure: callers must serialize
// Protect/Unprotect/AddStream/RemoveStream/Close on a given session.
// Distinct sessions are independent.
type Session struct {
	streamList *streamCtx
	template   *streamCtx

	eventHandler EventHandlerFunc
	userData     interface{}

	log logging.LeveledLogger
}

// SessionOption configures a Session at creation time.
type SessionOption func(*Session) error

// WithLoggerFactory supplies the logger factory scoped to this session.
func WithLoggerFactory(f logging.LoggerFactory) SessionOption {
	return func(s *Session) error {
		if f == nil {
			return fmt.Errorf("%w: nil logger factory", ErrBadParam)
		}
		s.log = f.NewLogger("srtp")
		return nil
	}
}

// WithEventHandler installs the event callback. Passing nil disables
// reporting.
func WithEventHandler(h EventHandlerFunc) SessionOption {
	return func(s *Session) error {
		s.eventHandler = h
		return nil
	}
}

// CreateSession allocates a session and adds one stream per policy. On any
// failure the partially built session is torn down and the error surfaced.
func CreateSession(policies []*Policy, opts ...SessionOption) (*Session, error) {
	if !kernel.ready() {
		return nil, fmt.Errorf("%w: srtp.Init has not been called", ErrInitFail)
	}

	s := &Session{
		log: logging.NewDefaultLoggerFactory().NewLogger("srtp"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	for _, p := range policies {
		if err := s.AddStream(p); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	return s, nil
}

// AddStream creates a stream from the policy and installs it: specific SSRCs
// are prepended to the stream list, wildcard SSRCs become the session
// template (at most one). An undefined SSRC specifier is rejected.
func (s *Session) AddStream(p *Policy) error {
	if p == nil {
		return ErrBadParam
	}

	switch p.SSRC.Type {
	case SSRCSpecific:
		if s.getStream(p.SSRC.Value) != nil {
			return fmt.Errorf("%w: duplicate SSRC %d", ErrBadParam, p.SSRC.Value)
		}
		stream, err := newStreamCtx(p)
		if err != nil {
			return err
		}
		stream.next = s.streamList
		s.streamList = stream
		return nil

	case SSRCAnyInbound, SSRCAnyOutbound:
		if s.template != nil {
			return fmt.Errorf("%w: session already has a template stream", ErrBadParam)
		}
		stream, err := newStreamCtx(p)
		if err != nil {
			return err
		}
		// The template's direction matches its wildcard kind.
		if p.SSRC.Type == SSRCAnyInbound {
			stream.direction = dirReceiver
		} else {
			stream.direction = dirSender
		}
		s.template = stream
		return nil

	default:
		return fmt.Errorf("%w: undefined SSRC specifier", ErrBadParam)
	}
}

// RemoveStream unlinks and deallocates the stream with the given SSRC.
func (s *Session) RemoveStream(ssrc uint32) error {
	var prev *streamCtx
	for stream := s.streamList; stream != nil; stream = stream.next {
		if stream.ssrc == ssrc {
			if prev == nil {
				s.streamList = stream.next
			} else {
				prev.next = stream.next
			}
			return stream.dealloc(s.template)
		}
		prev = stream
	}
	return ErrNoContext
}

// Close deallocates every stream, then the template's shared resources
// exactly once. Teardown is conservative: the first failure aborts further
// cleanup and is surfaced.
func (s *Session) Close() error {
	for stream := s.streamList; stream != nil; {
		next := stream.next
		if err := stream.dealloc(s.template); err != nil {
			return err
		}
		stream = next
	}
	s.streamList = nil

	if s.template != nil {
		// Shared resources are disposed here, in fixed order.
		if s.template.rtcpAuth != nil {
			s.template.rtcpAuth.zeroize()
		}
		if s.template.rtcpCipher != nil {
			s.template.rtcpCipher.zeroize()
		}
		s.template.limit = nil
		if s.template.rtpCipher != nil {
			s.template.rtpCipher.zeroize()
		}
		if s.template.rtpAuth != nil {
			s.template.rtpAuth.zeroize()
		}
		s.template.rtpRdbx = nil
		zeroize(s.template.rtpSalt[:])
		zeroize(s.template.rtcpSalt[:])
		s.template = nil
	}
	return nil
}

// SetEventHandler replaces the event callback; nil disables reporting.
func (s *Session) SetEventHandler(h EventHandlerFunc) {
	s.eventHandler = h
}

// SetUserData attaches an opaque value to the session.
func (s *Session) SetUserData(v interface{}) {
	s.userData = v
}

// UserData returns the value set with SetUserData.
func (s *Session) UserData() interface{} {
	return s.userData
}

func (s *Session) getStream(ssrc uint32) *streamCtx {
	for stream := s.streamList; stream != nil; stream = stream.next {
		if stream.ssrc == ssrc {
			return stream
		}
	}
	return nil
}

// cloneFromTemplate materializes a concrete stream for ssrc and prepends it
// to the stream list.
func (s *Session) cloneFromTemplate(ssrc uint32, dir streamDirection) (*streamCtx, error) {
	stream, err := s.template.clone(ssrc)
	if err != nil {
		return nil, err
	}
	stream.direction = dir
	stream.next = s.streamList
	s.streamList = stream
	s.log.Debugf("cloned stream for SSRC %d from template", ssrc)
	return stream, nil
}

// checkDirection pins an unknown stream to want, and reports a collision
// when the stream was already pinned the other way. Processing continues
// either way; the collision is reported through the event handler.
func (s *Session) checkDirection(stream *streamCtx, want streamDirection) {
	if stream.direction == want {
		return
	}
	if stream.direction == dirUnknown {
		stream.direction = want
		return
	}
	s.raiseEvent(stream, EventSSRCCollision)
}

// updateKeyLimit consumes one packet from the stream's budget, reporting
// limit events. It returns ErrKeyExpired at the hard limit.
func (s *Session) updateKeyLimit(stream *streamCtx) error {
	switch stream.limit.update() {
	case keyEventSoftLimit:
		s.raiseEvent(stream, EventKeySoftLimit)
	case keyEventHardLimit:
		s.raiseEvent(stream, EventKeyHardLimit)
		return ErrKeyExpired
	default:
	}
	return nil
}
