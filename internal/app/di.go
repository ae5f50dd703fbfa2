// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/allisson/clip/internal/client"
	clipDomain "github.com/allisson/clip/internal/clip/domain"
	clipHTTP "github.com/allisson/clip/internal/clip/http"
	clipRepository "github.com/allisson/clip/internal/clip/repository"
	clipUseCase "github.com/allisson/clip/internal/clip/usecase"
	"github.com/allisson/clip/internal/config"
	cryptoService "github.com/allisson/clip/internal/crypto/service"
	"github.com/allisson/clip/internal/database"
	"github.com/allisson/clip/internal/http"
	"github.com/allisson/clip/internal/metrics"
	"github.com/allisson/clip/internal/share"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Lifecycle context for background goroutines, cancelled by Shutdown
	ctx    context.Context
	cancel context.CancelFunc

	// Infrastructure
	logger          *slog.Logger
	envelopeStore   clipUseCase.EnvelopeStore
	metricsProvider *metrics.Provider

	// Metrics
	businessMetrics metrics.BusinessMetrics

	// Use Cases
	envelopeUseCase clipUseCase.EnvelopeUseCase

	// Handlers
	envelopeHandler *clipHTTP.EnvelopeHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Client side
	encryptor    cryptoService.EncryptionEndpoint
	apiClient    *client.Client
	shareService *share.Service

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	envelopeStoreInit   sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	envelopeUseCaseInit sync.Once
	envelopeHandlerInit sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	encryptorInit       sync.Once
	apiClientInit       sync.Once
	shareServiceInit    sync.Once
	initErrors          map[string]error
	closed              bool
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	ctx, cancel := context.WithCancel(context.Background())
	return &Container{
		config:     cfg,
		ctx:        ctx,
		cancel:     cancel,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// EnvelopeStore returns the envelope store selected at startup.
// The configured durable backend is tried once; on failure the in-memory store
// is used for the rest of the process lifetime when fallback is enabled.
func (c *Container) EnvelopeStore() (clipUseCase.EnvelopeStore, error) {
	var err error
	c.envelopeStoreInit.Do(func() {
		c.envelopeStore, err = c.initEnvelopeStore()
		if err != nil {
			c.initErrors["envelopeStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelopeStore"]; exists {
		return nil, storedErr
	}
	return c.envelopeStore, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. It is a no-op when
// metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// EnvelopeUseCase returns the envelope use case.
func (c *Container) EnvelopeUseCase() (clipUseCase.EnvelopeUseCase, error) {
	var err error
	c.envelopeUseCaseInit.Do(func() {
		c.envelopeUseCase, err = c.initEnvelopeUseCase()
		if err != nil {
			c.initErrors["envelopeUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelopeUseCase"]; exists {
		return nil, storedErr
	}
	return c.envelopeUseCase, nil
}

// EnvelopeHandler returns the HTTP handler for envelope operations.
func (c *Container) EnvelopeHandler() (*clipHTTP.EnvelopeHandler, error) {
	var err error
	c.envelopeHandlerInit.Do(func() {
		c.envelopeHandler, err = c.initEnvelopeHandler()
		if err != nil {
			c.initErrors["envelopeHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelopeHandler"]; exists {
		return nil, storedErr
	}
	return c.envelopeHandler, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Encryptor returns the client-side encryption endpoint.
func (c *Container) Encryptor() cryptoService.EncryptionEndpoint {
	c.encryptorInit.Do(func() {
		c.encryptor = cryptoService.NewEncryptor()
	})
	return c.encryptor
}

// APIClient returns the envelope API client for the configured server URL.
func (c *Container) APIClient() *client.Client {
	c.apiClientInit.Do(func() {
		c.apiClient = client.New(client.Config{
			BaseURL:  c.config.ClipServerURL,
			Timeout:  c.config.ClipClientTimeout,
			RetryMax: c.config.ClipClientRetryMax,
			Logger:   c.Logger(),
		})
	})
	return c.apiClient
}

// ShareService returns the send/receive/burn flows. Send uses the configured
// server; receive and burn use the server named in the link.
func (c *Container) ShareService() *share.Service {
	c.shareServiceInit.Do(func() {
		apiClient := c.APIClient()
		c.shareService = share.NewService(c.Encryptor(), c.clientFor, apiClient.BaseURL())
	})
	return c.shareService
}

// clientFor reuses the configured client for its own server and builds one with
// the same settings for any other.
func (c *Container) clientFor(baseURL string) share.EnvelopeClient {
	apiClient := c.APIClient()
	if strings.TrimRight(baseURL, "/") == apiClient.BaseURL() {
		return apiClient
	}
	return client.New(client.Config{
		BaseURL:  baseURL,
		Timeout:  c.config.ClipClientTimeout,
		RetryMax: c.config.ClipClientRetryMax,
		Logger:   c.Logger(),
	})
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down. Calls after the
// first are no-ops.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.cancel()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.envelopeStore != nil {
		if err := c.envelopeStore.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("envelope store close: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initEnvelopeStore selects the envelope store. The decision is final: a
// durable backend that becomes unreachable later surfaces as ErrStoreUnavailable
// instead of a second downgrade.
func (c *Container) initEnvelopeStore() (clipUseCase.EnvelopeStore, error) {
	logger := c.Logger()

	if c.config.StoreDriver == config.StoreDriverMemory {
		logger.Info("using in-memory envelope store")
		return c.newMemoryEnvelopeStore(), nil
	}
	if !c.config.IsDurableDriver() {
		return nil, fmt.Errorf("unsupported store driver: %s", c.config.StoreDriver)
	}

	store, err := c.connectDurableEnvelopeStore()
	if err == nil {
		logger.Info("connected to durable envelope store", slog.String("driver", c.config.StoreDriver))
		return store, nil
	}

	if !c.config.StoreFallbackEnabled {
		return nil, fmt.Errorf("failed to connect to %s envelope store: %w", c.config.StoreDriver, err)
	}

	logger.Warn(
		"durable envelope store unavailable, falling back to in-memory store",
		slog.String("driver", c.config.StoreDriver),
		slog.Any("error", err),
	)
	return c.newMemoryEnvelopeStore(), nil
}

// connectDurableEnvelopeStore makes the single startup connection attempt,
// bounded by StoreConnectTimeout.
func (c *Container) connectDurableEnvelopeStore() (clipUseCase.EnvelopeStore, error) {
	ctx, cancel := context.WithTimeout(c.ctx, c.config.StoreConnectTimeout)
	defer cancel()

	if c.config.StoreDriver == config.StoreDriverRedis {
		redisClient, err := database.ConnectRedis(ctx, c.config.RedisURL)
		if err != nil {
			return nil, err
		}
		return clipRepository.NewRedisEnvelopeStore(redisClient, c.config.RedisKeyPrefix), nil
	}

	db, err := database.Connect(ctx, database.Config{
		Driver:             c.config.StoreDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}

	if c.config.StoreDriver == config.StoreDriverMySQL {
		return clipRepository.NewMySQLEnvelopeStore(db, nil), nil
	}
	return clipRepository.NewPostgreSQLEnvelopeStore(db, nil), nil
}

func (c *Container) newMemoryEnvelopeStore() clipUseCase.EnvelopeStore {
	return clipRepository.NewMemoryEnvelopeStore(clipRepository.MemoryConfig{
		SweepInterval: c.config.MemorySweepInterval,
	})
}

// initMetricsProvider creates the metrics provider if metrics are enabled.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates business metrics on the provider, or a no-op
// implementation when metrics are disabled.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initEnvelopeUseCase creates the envelope use case with all its dependencies.
func (c *Container) initEnvelopeUseCase() (clipUseCase.EnvelopeUseCase, error) {
	store, err := c.EnvelopeStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope store for envelope use case: %w", err)
	}

	useCase := clipUseCase.NewEnvelopeUseCase(store, clipUseCase.Config{
		TTLPolicy: clipDomain.TTLPolicy{
			Default: c.config.SecretDefaultTTL,
			Max:     c.config.SecretMaxTTL,
		},
		MaxCiphertextBytes: c.config.SecretMaxCiphertextBytes,
		OperationTimeout:   c.config.StoreOperationTimeout,
	})

	if !c.config.MetricsEnabled {
		return useCase, nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for envelope use case: %w", err)
	}
	err = metrics.RegisterStoreBackend(
		provider.MeterProvider(),
		c.config.MetricsNamespace,
		store.Driver(),
		store.Durability() == clipDomain.DurabilityDurable,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register store backend metric: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for envelope use case: %w", err)
	}

	return clipUseCase.NewEnvelopeUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initEnvelopeHandler creates the envelope HTTP handler.
func (c *Container) initEnvelopeHandler() (*clipHTTP.EnvelopeHandler, error) {
	useCase, err := c.EnvelopeUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope use case for envelope handler: %w", err)
	}
	return clipHTTP.NewEnvelopeHandler(useCase, c.Logger()), nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	useCase, err := c.EnvelopeUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope use case for http server: %w", err)
	}

	envelopeHandler, err := c.EnvelopeHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope handler for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(useCase, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(c.ctx, http.RouterConfig{
		CORSEnabled:                   c.config.CORSEnabled,
		CORSAllowOrigins:              c.config.CORSAllowOrigins,
		RateLimitCreateEnabled:        c.config.RateLimitCreateEnabled,
		RateLimitCreateRequestsPerSec: c.config.RateLimitCreateRequestsPerSec,
		RateLimitCreateBurst:          c.config.RateLimitCreateBurst,
		MaxBodyBytes:                  maxBodyBytes(c.config.SecretMaxCiphertextBytes),
		MetricsNamespace:              c.config.MetricsNamespace,
	}, envelopeHandler, provider)

	return server, nil
}

// initMetricsServer creates the metrics server if metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}
	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, provider.Handler(), c.Logger()), nil
}

// maxBodyBytes leaves room for the iv, ttl and JSON framing around a ciphertext
// of maxCiphertext bytes. Zero disables the limit.
func maxBodyBytes(maxCiphertext int) int64 {
	if maxCiphertext <= 0 {
		return 0
	}
	return int64(maxCiphertext) + 4<<10
}
