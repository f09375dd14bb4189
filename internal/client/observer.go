package client

import (
	"context"
	"time"

	"InsideX/pkg/logger"
	"InsideX/pkg/metrics"
)

// RequestInfo identifies one outbound request.
type RequestInfo struct {
	Op        string
	Method    string
	URL       string
	RequestID string
}

// Observer is notified around every request. Implementations must not block.
type Observer interface {
	RequestStarted(ctx context.Context, info RequestInfo)
	RequestSucceeded(ctx context.Context, info RequestInfo, elapsed time.Duration)
	RequestFailed(ctx context.Context, info RequestInfo, err *APIError, elapsed time.Duration)
}

type observers []Observer

func (o observers) started(ctx context.Context, info RequestInfo) {
	for _, ob := range o {
		ob.RequestStarted(ctx, info)
	}
}

func (o observers) succeeded(ctx context.Context, info RequestInfo, d time.Duration) {
	for _, ob := range o {
		ob.RequestSucceeded(ctx, info, d)
	}
}

func (o observers) failed(ctx context.Context, info RequestInfo, err *APIError, d time.Duration) {
	for _, ob := range o {
		ob.RequestFailed(ctx, info, err, d)
	}
}

// LogObserver writes a debug line before each request and an error line on failure.
type LogObserver struct {
	log *logger.Logger
}

func NewLogObserver(l *logger.Logger) *LogObserver {
	return &LogObserver{log: l.With(logger.String("component", "api_client"))}
}

func (o *LogObserver) RequestStarted(_ context.Context, info RequestInfo) {
	o.log.Debug("api request",
		logger.String("op", info.Op),
		logger.String("method", info.Method),
		logger.String("url", info.URL),
		logger.String("request_id", info.RequestID),
	)
}

func (o *LogObserver) RequestSucceeded(_ context.Context, info RequestInfo, d time.Duration) {
	o.log.Debug("api response",
		logger.String("op", info.Op),
		logger.String("request_id", info.RequestID),
		logger.Duration("duration_ms", d),
	)
}

func (o *LogObserver) RequestFailed(_ context.Context, info RequestInfo, err *APIError, d time.Duration) {
	o.log.Error("api request failed",
		logger.String("op", info.Op),
		logger.String("kind", string(err.Kind)),
		logger.Int("status", err.Status),
		logger.String("detail", err.Message),
		logger.String("request_id", info.RequestID),
		logger.Duration("duration_ms", d),
	)
}

// MetricsObserver counts requests and latencies per operation.
type MetricsObserver struct {
	rec *metrics.Recorder
}

func NewMetricsObserver(rec *metrics.Recorder) *MetricsObserver {
	return &MetricsObserver{rec: rec}
}

func (o *MetricsObserver) RequestStarted(context.Context, RequestInfo) {}

func (o *MetricsObserver) RequestSucceeded(_ context.Context, info RequestInfo, d time.Duration) {
	o.rec.RecordClientRequest(info.Op, "ok", d)
}

func (o *MetricsObserver) RequestFailed(_ context.Context, info RequestInfo, err *APIError, d time.Duration) {
	o.rec.RecordClientRequest(info.Op, string(err.Kind), d)
}
