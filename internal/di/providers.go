package di

import (
	"fmt"

	"GoldGate/internal/domain/service"
	"GoldGate/internal/handler/api"
	internalrepo "GoldGate/internal/repository"
	"GoldGate/internal/service/feed"
	"GoldGate/internal/service/gemini"
	"GoldGate/internal/service/ledger"
	"GoldGate/internal/service/market"
	"GoldGate/internal/service/metrics"
	"GoldGate/internal/service/payment"
	"GoldGate/internal/usecase"
	"GoldGate/pkg/cache"
	"GoldGate/pkg/config"
	xhttp "GoldGate/pkg/http"
	applogger "GoldGate/pkg/logger"
	"GoldGate/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "console"
	if cfg.IsProduction() {
		format = "json"
	}
	return applogger.New(&applogger.Config{
		Level:  "info",
		Format: format,
		Output: "stdout",
	})
}

// ProvideCacheStore creates the shared cache backend. Memory for a single
// instance, Redis when the signal cache and receipt ledger must be shared.
func ProvideCacheStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case "redis":
		store, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return store, nil
	default:
		return cache.NewMemoryCache(), nil
	}
}

// ProvideModel creates the recommendation model client. Nil when no API key
// is configured; the engine then runs on the rule table alone.
func ProvideModel(cfg *config.Config) service.RecommendationModel {
	client := gemini.NewClient(cfg)
	if client == nil {
		return nil
	}
	return client
}

// ProvideMarketProvider creates the synthetic market data source.
func ProvideMarketProvider(cfg *config.Config) *market.Provider {
	return market.NewProvider(
		market.WithBasePrice(cfg.Market.BasePrice),
		market.WithBaseIndicators(cfg.Market.BaseInflation, cfg.Market.BaseUSDIndex),
		market.WithHistorySize(cfg.Market.HistorySize),
		market.WithUpdateInterval(cfg.Market.UpdateInterval),
	)
}

// ProvideLedger creates the read-only vault client.
func ProvideLedger(cfg *config.Config) service.Ledger {
	return ledger.NewClient(cfg)
}

// ProvideGate creates the payment gate backed by the shared store for
// receipt replay tracking.
func ProvideGate(cfg *config.Config, store cache.Store, l *applogger.Logger) *payment.Gate {
	return payment.NewGate(cfg, store, payment.NoopVerifier{}, l)
}

// ProvideAdvisor creates the signal engine.
func ProvideAdvisor(model service.RecommendationModel, cfg *config.Config, l *applogger.Logger) *usecase.Advisor {
	return usecase.NewAdvisor(model, l,
		usecase.WithModelTimeout(cfg.Model.Timeout),
		usecase.WithSignalTTL(cfg.Cache.SignalTTL),
	)
}

// ProvideSignalPublisher creates the Kafka audit publisher, or nil when
// Kafka is disabled.
func ProvideSignalPublisher(cfg *config.Config) (*internalrepo.KafkaSignalPublisher, error) {
	return internalrepo.NewKafkaSignalPublisher(cfg)
}

// ProvideSignalService creates the orchestrator.
func ProvideSignalService(
	advisor *usecase.Advisor,
	marketProvider *market.Provider,
	store cache.Store,
	publisher *internalrepo.KafkaSignalPublisher,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.SignalService {
	opts := []usecase.ServiceOption{
		usecase.WithCacheTTL(cfg.Cache.SignalTTL),
	}
	if publisher != nil {
		opts = append(opts, usecase.WithPublisher(publisher))
	}
	return usecase.NewSignalService(advisor, marketProvider, store, l, opts...)
}

// ProvidePriceStream creates the websocket price feed.
func ProvidePriceStream(marketProvider *market.Provider, l *applogger.Logger) *feed.Stream {
	return feed.NewStream(marketProvider, l)
}

// ProvideHandler creates the HTTP API handler.
func ProvideHandler(
	cfg *config.Config,
	gate *payment.Gate,
	signals *usecase.SignalService,
	marketProvider *market.Provider,
	vault service.Ledger,
	stream *feed.Stream,
	l *applogger.Logger,
) xhttp.Handler {
	metrics.Register()
	return api.NewHandler(cfg, gate, signals, marketProvider, vault, stream, l)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	handler xhttp.Handler,
	store cache.Store,
	publisher *internalrepo.KafkaSignalPublisher,
	l *applogger.Logger,
) *server.App {
	return server.New(cfg, handler, store, publisher, l)
}
