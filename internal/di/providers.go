package di

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"InsideX/internal/client"
	"InsideX/internal/domain/repository"
	"InsideX/internal/handler/api"
	"InsideX/internal/handler/web"
	internalrepo "InsideX/internal/repository"
	"InsideX/internal/scheduler"
	"InsideX/internal/service/scoring"
	"InsideX/internal/ui/render"
	"InsideX/internal/usecase"
	"InsideX/pkg/cache"
	pkgch "InsideX/pkg/clickhouse"
	"InsideX/pkg/config"
	xhttp "InsideX/pkg/http"
	pkgkafka "InsideX/pkg/kafka"
	"InsideX/pkg/logger"
	"InsideX/pkg/metrics"
	"InsideX/pkg/server"
	"InsideX/pkg/sqlite"
)

// Database is the opened trade database and the dialect spoken to it.
type Database struct {
	DB      *sql.DB
	Dialect internalrepo.Dialect
	io.Closer
}

// Backend bundles the use cases for one-shot CLI commands.
type Backend struct {
	Trades  *usecase.TradesUseCase
	Signals *usecase.SignalsUseCase
	Store   *internalrepo.SQLStore

	closers []io.Closer
}

// Close releases the database and cache.
func (b *Backend) Close() error {
	var first error
	for _, c := range b.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ProvideKafkaProducer returns nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.WriteTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideLogger builds the app logger. Error logs are aggregated and shipped
// to Kafka when a producer exists.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if producer != nil {
		l.AddCollector(&logger.CollectionConfig{
			TimeInterval: cfg.Kafka.FlushEvery,
			Topic:        cfg.Kafka.LogTopic,
			Publisher:    producer,
		})
	}
	return l, nil
}

// ProvideMetrics creates the Prometheus recorder on the default registry.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New(nil)
}

func ProvideStoreMetrics(rec *metrics.Recorder) repository.Metrics {
	return rec
}

// ProvideDatabase opens SQLite (default) or ClickHouse per database.driver.
func ProvideDatabase(cfg *config.Config) (*Database, error) {
	dialect, err := internalrepo.DialectFor(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	switch dialect.Name {
	case internalrepo.ClickHouse.Name:
		ch, err := pkgch.NewClient(
			pkgch.WithHost(cfg.ClickHouse.Host),
			pkgch.WithPort(cfg.ClickHouse.Port),
			pkgch.WithDatabase(cfg.ClickHouse.Database),
			pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
			pkgch.WithMaxConnections(10, 5),
			pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
			pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}
		return &Database{DB: ch.DB(), Dialect: dialect, Closer: ch}, nil
	default:
		lite, err := sqlite.NewClient(sqlite.WithPath(cfg.Database.Path))
		if err != nil {
			return nil, fmt.Errorf("sqlite client: %w", err)
		}
		return &Database{DB: lite.DB(), Dialect: dialect, Closer: lite}, nil
	}
}

// ProvideTradeStore ensures the schema and returns the store.
func ProvideTradeStore(db *Database) (*internalrepo.SQLStore, error) {
	store := internalrepo.NewSQLStore(db.DB, db.Dialect)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("%s schema: %w", db.Dialect.Name, err)
	}
	return store, nil
}

func ProvideTradeStoreInterface(store *internalrepo.SQLStore) repository.TradeStore {
	return store
}

// ProvideCache builds the signal cache: memory, redis or layered.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if cfg.Cache.Backend == "memory" || cfg.Cache.Backend == "" {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MaxSize)), nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	if cfg.Cache.Backend == "redis" {
		return rc, nil
	}
	return cache.NewLayeredCache(rc,
		cache.WithLayeredMemorySize(cfg.Cache.MaxSize),
		cache.WithLayeredMemoryTTL(time.Minute),
	), nil
}

// ProvideSignalPublisher returns nil without a producer.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.SignalPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.SignalsTopic)
}

func ProvideScorer() usecase.Scorer {
	return scoring.NewHeuristic()
}

func ProvideTradesUseCase(store repository.TradeStore, m repository.Metrics, l *logger.Logger) *usecase.TradesUseCase {
	return usecase.NewTradesUseCase(store, m, l)
}

func ProvideSignalsUseCase(store repository.TradeStore, scorer usecase.Scorer, c cache.Service, m repository.Metrics, cfg *config.Config, l *logger.Logger) *usecase.SignalsUseCase {
	return usecase.NewSignalsUseCase(store, scorer, c, cfg.Cache.SignalTTL, m, l)
}

func ProvideAPIHandler(trades *usecase.TradesUseCase, signals *usecase.SignalsUseCase, store *internalrepo.SQLStore, cfg *config.Config, l *logger.Logger) *api.Handler {
	return api.NewHandler(trades, signals, store, api.ScoreLimit{
		Capacity:     cfg.Signals.ScoreRateLimit.Capacity,
		RefillPerSec: cfg.Signals.ScoreRateLimit.RefillPerSec,
	}, l)
}

// ProvideScheduler registers the signal precompute job.
func ProvideScheduler(cfg *config.Config, signals *usecase.SignalsUseCase, c cache.Service, pub repository.SignalPublisher, rec *metrics.Recorder, l *logger.Logger) (*scheduler.Scheduler, error) {
	s := scheduler.New(l, rec, 5*time.Minute)
	job := scheduler.NewPrecomputeSignals(signals, cfg.Signals.WindowDays, cfg.Signals.PrecomputeTop, c, pub, l)
	if err := s.AddJob(cfg.Signals.Schedule, job); err != nil {
		return nil, fmt.Errorf("schedule %q: %w", cfg.Signals.Schedule, err)
	}
	return s, nil
}

func ProvideAPIServer(cfg *config.Config, h *api.Handler, l *logger.Logger) *xhttp.Server {
	return xhttp.NewServer([]xhttp.Handler{h},
		xhttp.WithName("api"),
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS, cfg.Server.CORSOrigins...),
		xhttp.WithMetrics(cfg.Metrics.Enabled, cfg.Metrics.SlowThreshold),
		xhttp.WithLogger(l),
	)
}

// ProvideAPIApp assembles the backend: REST server, scheduler and the
// resources they hold.
func ProvideAPIApp(cfg *config.Config, srv *xhttp.Server, sched *scheduler.Scheduler, db *Database, c cache.Service, producer *pkgkafka.Producer, l *logger.Logger) *server.App {
	opts := []server.Option{
		server.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		server.WithService(srv),
		server.WithService(sched),
		server.WithCloser(db),
		server.WithCloser(l),
	}
	if closer, ok := c.(io.Closer); ok {
		opts = append(opts, server.WithCloser(closer))
	}
	if producer != nil {
		opts = append(opts, server.WithCloser(producer))
	}
	return server.New("api", l, opts...)
}

// ProvideAPIClient builds the typed REST client. Request logging is only
// attached with api.debug.
func ProvideAPIClient(cfg *config.Config, rec *metrics.Recorder, l *logger.Logger) (*client.Client, error) {
	opts := []client.Option{client.WithObserver(client.NewMetricsObserver(rec))}
	if cfg.API.Debug {
		opts = append(opts, client.WithObserver(client.NewLogObserver(l)))
	}
	return client.New(client.Config{
		BaseURL:      cfg.API.BaseURL,
		Timeout:      cfg.API.Timeout,
		RateLimitRPS: cfg.API.RateLimitRPS,
		RateBurst:    cfg.API.RateBurst,
	}, opts...)
}

func ProvideRenderer() (*render.HTML, error) {
	return render.NewHTML()
}

func ProvideWebHandler(cfg *config.Config, c *client.Client, l *logger.Logger) *web.Handler {
	return web.NewHandler(c, cfg.Pagination.PageSize, cfg.Signals.WindowDays, l)
}

// ProvideWebApp serves the dashboard pages on web.host:web.port.
func ProvideWebApp(cfg *config.Config, h *web.Handler, r *render.HTML, l *logger.Logger) *server.App {
	srv := xhttp.NewServer([]xhttp.Handler{h},
		xhttp.WithName("web"),
		xhttp.WithHost(cfg.Web.Host),
		xhttp.WithPort(cfg.Web.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.API.Timeout+5*time.Second, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(false),
		xhttp.WithMetrics(cfg.Metrics.Enabled, cfg.Metrics.SlowThreshold),
		xhttp.WithRenderer(r),
		xhttp.WithLogger(l),
	)
	return server.New("web", l,
		server.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		server.WithService(srv),
		server.WithCloser(l),
	)
}

// ProvideBackend bundles the use cases for CLI commands.
func ProvideBackend(trades *usecase.TradesUseCase, signals *usecase.SignalsUseCase, store *internalrepo.SQLStore, db *Database, c cache.Service) *Backend {
	b := &Backend{Trades: trades, Signals: signals, Store: store, closers: []io.Closer{db}}
	if closer, ok := c.(io.Closer); ok {
		b.closers = append(b.closers, closer)
	}
	return b
}
