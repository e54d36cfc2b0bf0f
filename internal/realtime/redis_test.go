package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type captureSink struct {
	userFrames  map[uint][][]byte
	matchFrames map[uint][][]byte
}

func newCaptureSink() *captureSink {
	return &captureSink{
		userFrames:  make(map[uint][][]byte),
		matchFrames: make(map[uint][][]byte),
	}
}

func (s *captureSink) DeliverToUser(userID uint, data []byte) {
	s.userFrames[userID] = append(s.userFrames[userID], data)
}

func (s *captureSink) DeliverToMatch(matchID uint, data []byte) {
	s.matchFrames[matchID] = append(s.matchFrames[matchID], data)
}

func TestDispatchRoutesByChannelPrefix(t *testing.T) {
	sink := newCaptureSink()

	dispatch(sink, UserTopic(7), []byte("a"))
	dispatch(sink, MatchTopic(3), []byte("b"))
	dispatch(sink, MatchTopic(3), []byte("c"))

	assert.Len(t, sink.userFrames[7], 1)
	assert.Len(t, sink.matchFrames[3], 2)
	assert.Equal(t, "a", string(sink.userFrames[7][0]))
}

func TestDispatchIgnoresMalformedChannels(t *testing.T) {
	sink := newCaptureSink()

	dispatch(sink, "user-notanumber", []byte("x"))
	dispatch(sink, "match-", []byte("x"))
	dispatch(sink, "other-1", []byte("x"))

	assert.Empty(t, sink.userFrames)
	assert.Empty(t, sink.matchFrames)
}
