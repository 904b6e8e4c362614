package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestPublishProfileEvent_KeysByUser(t *testing.T) {
	w := &fakeWriter{}
	c := &KafkaProducerClient{ProfileEventsWriter: w, logger: logger.NewNopLogger()}
	userID := uuid.New()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	err := c.PublishProfileEvent(context.Background(), profile.Event{
		Type: profile.EventUpserted, UserID: userID, GitHubUsername: "octocat", OccurredAt: at,
	})

	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, userID.String(), string(w.msgs[0].Key))

	var payload ProfileEventPayload
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &payload))
	assert.Equal(t, "profile.upserted", payload.EventType)
	assert.Equal(t, userID.String(), payload.UserID)
	assert.Equal(t, "octocat", payload.GitHubUsername)
	assert.True(t, at.Equal(payload.OccurredAt))
}

func TestPublishProfileEvent_WrapsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	c := &KafkaProducerClient{ProfileEventsWriter: &fakeWriter{err: boom}, logger: logger.NewNopLogger()}

	err := c.PublishProfileEvent(context.Background(), profile.Event{Type: profile.EventAccountDeleted, UserID: uuid.New()})

	assert.ErrorIs(t, err, boom)
}

func TestNewKafkaProducerClient_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaProducerClient(config.Config{}, logger.NewNopLogger())
	assert.Error(t, err)
}

type fakeReader struct {
	queue     []kafka.Message
	committed []kafka.Message
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.queue) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error { return nil }

func TestConsumerRun_CommitsEveryMessageInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	good, err := json.Marshal(ProfileEventPayload{EventType: "account.deleted", UserID: "u1", GitHubUsername: "octocat"})
	require.NoError(t, err)
	failing, err := json.Marshal(ProfileEventPayload{EventType: "profile.upserted", UserID: "u2"})
	require.NoError(t, err)

	reader := &fakeReader{
		queue: []kafka.Message{
			{Key: []byte("u1"), Value: good},
			{Key: []byte("x"), Value: []byte("not json")},
			{Key: []byte("u2"), Value: failing},
			{Key: []byte("u1"), Value: good},
		},
		cancel: cancel,
	}
	c := &Consumer{reader: reader, logger: logger.NewNopLogger()}

	var seen []string
	err = c.Run(ctx, func(_ context.Context, p ProfileEventPayload) error {
		seen = append(seen, p.EventType)
		if p.UserID == "u2" {
			return errors.New("handler failed")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"account.deleted", "profile.upserted", "account.deleted"}, seen)
	require.Len(t, reader.committed, 4)
	var keys []string
	for _, m := range reader.committed {
		keys = append(keys, string(m.Key))
	}
	assert.Equal(t, []string{"u1", "x", "u2", "u1"}, keys)
}
