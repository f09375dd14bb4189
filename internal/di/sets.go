package di

import "github.com/google/wire"

// InfraSet provides logging, metrics and the optional Kafka producer.
var InfraSet = wire.NewSet(
	ProvideKafkaProducer,
	ProvideLogger,
	ProvideMetrics,
	ProvideStoreMetrics,
)

// BackendSet provides the trade store, cache and use cases.
var BackendSet = wire.NewSet(
	ProvideDatabase,
	ProvideTradeStore,
	ProvideTradeStoreInterface,
	ProvideCache,
	ProvideScorer,
	ProvideTradesUseCase,
	ProvideSignalsUseCase,
)
