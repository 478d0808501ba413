package srtp

// Event enumerates the conditions a session can report outside the normal
// error flow.
type Event int

// Reportable events.
const (
	// EventSSRCCollision fires when a stream is used in the direction
	// opposite to the one it was pinned to.
	EventSSRCCollision Event = iota
	// EventKeySoftLimit fires once when a stream's key-usage budget crosses
	// the soft boundary.
	EventKeySoftLimit
	// EventKeyHardLimit fires when the budget is exhausted; the triggering
	// packet is rejected with ErrKeyExpired.
	EventKeyHardLimit
	// EventPacketIndexLimit fires when an SRTP extended index reaches
	// 2^48-1, or when the SRTCP index would pass 2^31-1 (that SRTCP packet
	// is rejected with ErrKeyExpired).
	EventPacketIndexLimit
)

func (e Event) String() string {
	switch e {
	case EventSSRCCollision:
		return "ssrc_collision"
	case EventKeySoftLimit:
		return "key_soft_limit"
	case EventKeyHardLimit:
		return "key_hard_limit"
	case EventPacketIndexLimit:
		return "packet_index_limit"
	default:
		return "unknown_event"
	}
}

// EventData describes a reported event and the stream it concerns.
type EventData struct {
	Session *Session
	SSRC    uint32
	Event   Event
}

// EventHandlerFunc receives session events. A nil handler disables
// reporting.
type EventHandlerFunc func(*EventData)

func (s *Session) raiseEvent(stream *streamCtx, event Event) {
	s.log.Debugf("event %s on SSRC %d", event, stream.ssrc)
	if s.eventHandler != nil {
		s.eventHandler(&EventData{Session: s, SSRC: stream.ssrc, Event: event})
	}
}
