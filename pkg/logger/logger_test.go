package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu      sync.Mutex
	topic   string
	batches [][]AggregatedLogEntry
	done    chan struct{}
}

func (p *recordingPublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic = topic
	p.batches = append(p.batches, payload.([]AggregatedLogEntry))
	close(p.done)
	return nil
}

func TestLoggerWritesTypedFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "debug")

	l.Info("fetched", String("ticker", "AAPL"), Int("rows", 3), Float("score", 0.82), Bool("cached", true))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "fetched", line["message"])
	assert.Equal(t, "AAPL", line["ticker"])
	assert.Equal(t, 3.0, line["rows"])
	assert.Equal(t, 0.82, line["score"])
	assert.Equal(t, true, line["cached"])
}

func TestLoggerLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "warn")
	l.Info("hidden")
	assert.Zero(t, buf.Len())
	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info").With(String("component", "client"))
	l.Info("x")
	assert.Contains(t, buf.String(), `"component":"client"`)
}

func TestCollectorAggregatesDuplicateErrors(t *testing.T) {
	pub := &recordingPublisher{done: make(chan struct{})}
	l := NewWithWriter(&bytes.Buffer{}, "info")
	l.AddCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 10,
		Topic:          "insidex-logs",
		Publisher:      pub,
	})

	for i := 0; i < 3; i++ {
		l.Error("fetch failed", Error(errors.New("boom")))
	}
	l.RemoveCollector()

	select {
	case <-pub.done:
	case <-time.After(2 * time.Second):
		t.Fatal("collector did not publish")
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Equal(t, "insidex-logs", pub.topic)
	require.Len(t, pub.batches, 1)
	require.Len(t, pub.batches[0], 1)
	assert.Equal(t, 3, pub.batches[0][0].Count)
	assert.Equal(t, "boom", pub.batches[0][0].Fields["error"])
}
