package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"escapadas-chatbot-be/internal/dto"
	"escapadas-chatbot-be/internal/entity"
	"escapadas-chatbot-be/internal/observability"
	"escapadas-chatbot-be/internal/pkg/logger"
	"escapadas-chatbot-be/pkg/rag/profile"
	"escapadas-chatbot-be/pkg/sink"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	name string
	err  error

	mu   sync.Mutex
	got  []*entity.Interaction
	done chan struct{}
}

func newRecordingSink(name string, err error) *recordingSink {
	return &recordingSink{name: name, err: err, done: make(chan struct{}, 10)}
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Record(_ context.Context, i *entity.Interaction) error {
	s.mu.Lock()
	s.got = append(s.got, i)
	s.mu.Unlock()
	s.done <- struct{}{}
	return s.err
}

func (s *recordingSink) wait(t *testing.T) {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("sink %s was not called", s.name)
	}
}

type staticClassifier struct {
	profile profile.Profile
}

func (c staticClassifier) Classify(context.Context, string) profile.Profile {
	return c.profile
}

func newPubSub() *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})
}

func TestInteractionFlowClassifiesAndFansOut(t *testing.T) {
	ps := newPubSub()
	defer ps.Close()
	metrics := observability.NewMetrics("test")
	log := logger.NewNopLogger()

	failing := newRecordingSink("sheets", errors.New("quota"))
	ok := newRecordingSink("log", nil)

	consumer := NewInteractionConsumer(ps, "interactions", staticClassifier{profile.Profile{
		BusinessType:   profile.BusinessHotel,
		Intent:         profile.IntentRegister,
		KnowledgeLevel: profile.KnowledgeNew,
	}}, []sink.Sink{failing, ok}, time.Second, metrics, log)
	require.NoError(t, consumer.Consume(context.Background()))

	publisher := NewInteractionPublisher(ps, "interactions", metrics, log)
	publisher.Publish(context.Background(), &dto.InteractionMessage{
		Id:             "0b9a3a43-5a57-4a5e-8f7e-3fd1f0a5a1a0",
		ConversationId: "198.51.100.4",
		Question:       "I own a hotel, how do I join?",
		Answer:         "<p>Sign up!</p><br>",
		Origin:         "gpt",
		FragmentId:     "chunk_3",
		Score:          0.41,
		CreatedAt:      time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
	})

	failing.wait(t)
	ok.wait(t)

	ok.mu.Lock()
	got := ok.got[0]
	ok.mu.Unlock()
	assert.Equal(t, "0b9a3a43-5a57-4a5e-8f7e-3fd1f0a5a1a0", got.Id.String())
	assert.Equal(t, "198.51.100.4", got.ConversationId)
	assert.Equal(t, "hotel", got.BusinessType)
	assert.Equal(t, "register", got.Intent)
	assert.Equal(t, "new", got.KnowledgeLevel)
	assert.Equal(t, "chunk_3", got.FragmentKey)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.InteractionsSent))
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.SinkFailures.WithLabelValues("sheets")) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestInteractionConsumerWithoutClassifier(t *testing.T) {
	ps := newPubSub()
	defer ps.Close()
	metrics := observability.NewMetrics("test")
	log := logger.NewNopLogger()

	rec := newRecordingSink("log", nil)
	require.NoError(t, NewInteractionConsumer(ps, "t", nil, []sink.Sink{rec}, time.Second, metrics, log).Consume(context.Background()))

	NewInteractionPublisher(ps, "t", metrics, log).Publish(context.Background(), &dto.InteractionMessage{
		Id:       "not-a-uuid",
		Question: "hi",
		Origin:   "faq",
	})
	rec.wait(t)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, profile.Unknown, rec.got[0].BusinessType)
	assert.Equal(t, profile.Unknown, rec.got[0].Intent)
	assert.Equal(t, profile.Unknown, rec.got[0].KnowledgeLevel)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", rec.got[0].Id.String())
}
