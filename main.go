package main

// POST /products – Create a new product.
// POST /products/bulk – Create many products at once (all or nothing).
// GET /products – List all products.
// GET /products/{id} – Fetch one product.
// PUT /products/{id} – Update some fields of a product.
// DELETE /products/{id} – Delete a product.
// GET /metrics – Prometheus exposition.
// GET /healthz – Liveness.

// --- EMBED MIGRATIONS ---
import (
	"context"
	_ "embed"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"shopfront/config"
	"shopfront/handler"
	"shopfront/logging"
	"shopfront/metrics"
	"shopfront/service"
	"shopfront/store"
)

//go:embed migrations.sql
var migrationSQL string

func main() {
	envFile := flag.String("env", ".env", "Optional .env file")
	flag.Parse()

	cfg, err := config.LoadServer(*envFile)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	logger, loki, err := logging.New(logging.Config{
		Level:   cfg.LogLevel,
		LokiURL: cfg.LokiURL,
		LokiJob: cfg.LokiJob,
	})
	if err != nil {
		logrus.WithError(err).Fatal("init logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Error("server stopped")
	}

	if loki != nil {
		drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := loki.Close(drainCtx); err != nil {
			logger.WithError(err).Warn("loki drain incomplete")
		}
	}
}

func run(ctx context.Context, cfg config.Server, logger *logrus.Logger) error {
	// --- Store ---
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	// --- Metrics ---
	collector := metrics.NewCollector("")

	// --- Service ---
	svc := service.NewService(st, collector, logger)
	svc.RefreshActiveProducts(ctx)
	var serviceInterface service.ServiceInterface = svc

	// --- Handlers ---
	h := handler.NewHandler(serviceInterface, logger)

	// --- Router ---
	router := handler.NewRouter(h, handler.RouterConfig{
		Metrics:     collector,
		Logger:      logger,
		CORSOrigins: cfg.Origins(),
		StoreName:   cfg.StoreDriver,
	})

	// --- Server ---
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.ListenAddr).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Server, logger logrus.FieldLogger) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pg, err := store.NewPostgresStore(cfg.PostgresDSN)
		if err != nil {
			return nil, errors.Wrap(err, "connect postgres")
		}
		// --- RUN MIGRATIONS ---
		if err := pg.Migrate(ctx, migrationSQL); err != nil {
			_ = pg.Close()
			return nil, err
		}
		logger.Info("database migrations executed successfully")
		return pg, nil
	case config.DriverMongo:
		ms, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, errors.Wrap(err, "connect mongo")
		}
		return ms, nil
	case config.DriverMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return store.NewMemoryStore(), nil
	default:
		return nil, errors.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
