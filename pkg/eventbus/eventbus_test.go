package eventbus

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type promotionEvent struct {
	oldPositionID string
	newPositionID string
}

func captureLogger(level logrus.Level) (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetLevel(level)
	return log, buf
}

func TestPublisher_TopicDelivery(t *testing.T) {
	log, _ := captureLogger(logrus.WarnLevel)
	publisher := NewEventPublisher(log)

	var gotTopic string
	var gotEvent promotionEvent
	publisher.Subscribe(func(topic string, e promotionEvent) {
		gotTopic = topic
		gotEvent = e
	})

	publisher.Publish("position.promoted", promotionEvent{oldPositionID: "a", newPositionID: "b"})

	require.Equal(t, "position.promoted", gotTopic)
	require.Equal(t, "b", gotEvent.newPositionID)
}

func TestPublisher_DropsUnmatchedEvent(t *testing.T) {
	log, buf := captureLogger(logrus.WarnLevel)
	publisher := NewEventPublisher(log)

	publisher.Subscribe(func(topic string, e promotionEvent) {
		t.Error("should not be called")
	})
	publisher.Publish("offering.created", 42)

	require.Contains(t, buf.String(), "no matching subscribers")
	require.Contains(t, buf.String(), "offering.created")
}

func TestPublisher_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	log, buf := captureLogger(logrus.ErrorLevel)
	publisher := NewEventPublisher(log)

	called := false
	publisher.Subscribe(func(topic string, e promotionEvent) { panic("boom") })
	publisher.Subscribe(func(topic string, e promotionEvent) { called = true })

	publisher.Publish("position.promoted", promotionEvent{})

	require.True(t, called)
	require.Contains(t, buf.String(), "event handler panicked")
	require.Contains(t, buf.String(), "position.promoted")
}

func TestPublisher_AllHandlersPanicCountsAsDropped(t *testing.T) {
	log, buf := captureLogger(logrus.WarnLevel)
	publisher := NewEventPublisher(log)

	publisher.Subscribe(func(topic string, e promotionEvent) { panic("always") })
	publisher.Publish("position.promoted", promotionEvent{})

	require.Contains(t, buf.String(), "no matching subscribers")
}

func TestPublisher_Unsubscribe(t *testing.T) {
	log, _ := captureLogger(logrus.PanicLevel)
	publisher := NewEventPublisher(log)

	calls := 0
	handler := func(topic string, e promotionEvent) { calls++ }
	publisher.Subscribe(handler)
	require.Equal(t, 1, publisher.SubscribersCount())

	publisher.Publish("position.promoted", promotionEvent{})
	publisher.Unsubscribe(handler)
	publisher.Publish("position.promoted", promotionEvent{})

	require.Equal(t, 1, calls)
	require.Equal(t, 0, publisher.SubscribersCount())
}

func TestPublisher_Clear(t *testing.T) {
	log, _ := captureLogger(logrus.PanicLevel)
	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(topic string, e promotionEvent) {})
	publisher.Subscribe(func(topic string) {})
	publisher.Clear()
	require.Equal(t, 0, publisher.SubscribersCount())
}

func TestMatchSignature(t *testing.T) {
	handler := func(topic string, e promotionEvent) {}

	require.True(t, MatchSignature(handler, []interface{}{"t", promotionEvent{}}))
	require.False(t, MatchSignature(handler, []interface{}{"t"}))
	require.False(t, MatchSignature(handler, []interface{}{"t", 42}))
	require.False(t, MatchSignature(handler, []interface{}{promotionEvent{}, "t"}))
	require.False(t, MatchSignature(42, []interface{}{"t"}))

	// Nil only fits pointer or interface parameters.
	require.True(t, MatchSignature(func(e *promotionEvent) {}, []interface{}{nil}))
	require.False(t, MatchSignature(func(e promotionEvent) {}, []interface{}{nil}))
	require.True(t, MatchSignature(func(e error) {}, []interface{}{nil}))
}
