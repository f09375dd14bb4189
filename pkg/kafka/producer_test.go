package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error { return nil }

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
}

func TestPublishMessageEncodesJSON(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, comp: "snappy"}

	require.NoError(t, p.PublishMessage(context.Background(), "insidex-logs", map[string]int{"count": 2}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "insidex-logs", w.msgs[0].Topic)
	assert.Nil(t, w.msgs[0].Key)
	assert.JSONEq(t, `{"count":2}`, string(w.msgs[0].Value))
}

func TestPublishBatchKeysMessages(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := &Producer{writer: w, comp: "snappy"}

	err := p.PublishBatch(context.Background(), "insidex-signals", []Message{
		{Key: []byte("AAPL"), Value: "a"},
		{Key: []byte("MSFT"), Value: []byte("b")},
	})
	assert.Error(t, err)
	require.Len(t, w.msgs, 2)
	assert.Equal(t, "MSFT", string(w.msgs[1].Key))
	assert.Equal(t, "b", string(w.msgs[1].Value))
	assert.NoError(t, p.PublishBatch(context.Background(), "t", nil))
}
