package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"quizboard/internal/account"
	"quizboard/internal/config"
	"quizboard/internal/gemini"
	"quizboard/internal/httpapi"
	"quizboard/internal/logger"
	"quizboard/internal/metrics"
	"quizboard/internal/notify"
	"quizboard/internal/opentdb"
	"quizboard/internal/quiz"
	"quizboard/internal/store"
	"quizboard/internal/streak"
	"quizboard/internal/tracker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configDir := flag.String("config", "./config", "directory holding config.yaml")
	addr := flag.String("addr", "", "HTTP listen address (overrides http.addr)")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *addr != "" {
		cfg.HTTP.Addr = *addr
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("quiz-service stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	loc, err := streak.ParseLocation(cfg.Streak.Timezone)
	if err != nil {
		return err
	}

	db, err := store.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	catalog, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	trivia := opentdb.NewClient(&http.Client{Timeout: 10 * time.Second})
	quizzes := quiz.NewService(catalog, db, func(ctx context.Context, amount int) ([]opentdb.RawQuestion, error) {
		return trivia.FetchQuestions(ctx, opentdb.Query{Amount: amount})
	})

	restored, err := quizzes.Restore(ctx)
	if err != nil {
		return err
	}
	if cfg.Catalog.TriviaQuestions > 0 {
		if _, err := quizzes.ImportTrivia(ctx, cfg.Catalog.TriviaQuestions); err != nil {
			// The bundled categories are still playable.
			lg.Warn("trivia import failed", zap.Error(err))
		}
	}

	m := metrics.New()
	clock := streak.NewSystemClock(loc)
	notifications := notify.NewService(db, clock.Now, lg.Named("notify"))
	accounts := account.NewService(db, db,
		account.WithNotifier(notifications),
		account.WithClock(clock.Now),
		account.WithLogger(lg.Named("account")),
	)
	results := tracker.NewService(db, db, quizzes, clock,
		tracker.WithNotifications(notifications, accounts),
		tracker.WithLogger(lg.Named("tracker")),
		tracker.WithMetrics(m),
	)

	var hints httpapi.Hinter
	if cfg.Hint.Enabled() {
		hints = gemini.NewClientWithBaseURL(cfg.Hint.BaseURL, cfg.Hint.APIKey, cfg.Hint.Model, &http.Client{Timeout: cfg.Hint.Timeout})
	}

	api := httpapi.NewAPI(quizzes, results, accounts, notifications, hints, lg.Named("http"))
	server := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: httpapi.NewRouter(api, httpapi.Options{
			Logger:            lg.Named("http"),
			Metrics:           m,
			CORSOrigins:       cfg.HTTP.CORSOrigins,
			AuthRatePerMinute: cfg.HTTP.AuthRatePerMinute,
		}),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("quiz-service listening",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("storage", cfg.Storage.Driver),
			zap.Int("categories", len(quizzes.Categories())),
			zap.Int("restored_categories", restored),
			zap.String("timezone", loc.String()),
			zap.Bool("hints", cfg.Hint.Enabled()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func loadCatalog(path string) (*quiz.Catalog, error) {
	if path == "" {
		return quiz.DefaultCatalog()
	}
	return quiz.LoadCatalog(path)
}
