package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	authhandler "github.com/ihiteshgupta/learnflow/internal/auth/handler"
	authmiddleware "github.com/ihiteshgupta/learnflow/internal/auth/middleware"
	authservice "github.com/ihiteshgupta/learnflow/internal/auth/service"
	authstore "github.com/ihiteshgupta/learnflow/internal/auth/store"
	"github.com/ihiteshgupta/learnflow/internal/auth/token"
	certhandler "github.com/ihiteshgupta/learnflow/internal/certificate/handler"
	certmetrics "github.com/ihiteshgupta/learnflow/internal/certificate/metrics"
	certservice "github.com/ihiteshgupta/learnflow/internal/certificate/service"
	certstore "github.com/ihiteshgupta/learnflow/internal/certificate/store"
	coursehandler "github.com/ihiteshgupta/learnflow/internal/course/handler"
	courseservice "github.com/ihiteshgupta/learnflow/internal/course/service"
	coursestore "github.com/ihiteshgupta/learnflow/internal/course/store"
	"github.com/ihiteshgupta/learnflow/internal/platform/config"
	"github.com/ihiteshgupta/learnflow/internal/platform/database"
	"github.com/ihiteshgupta/learnflow/internal/platform/health"
	"github.com/ihiteshgupta/learnflow/internal/platform/logger"
	platformmetrics "github.com/ihiteshgupta/learnflow/internal/platform/metrics"
	"github.com/ihiteshgupta/learnflow/internal/platform/middleware"
	progresshandler "github.com/ihiteshgupta/learnflow/internal/progress/handler"
	progressmetrics "github.com/ihiteshgupta/learnflow/internal/progress/metrics"
	progressservice "github.com/ihiteshgupta/learnflow/internal/progress/service"
	progressstore "github.com/ihiteshgupta/learnflow/internal/progress/store"
	"github.com/ihiteshgupta/learnflow/internal/progress/worker"
	"github.com/ihiteshgupta/learnflow/internal/ratelimit"
	ratelimithandler "github.com/ihiteshgupta/learnflow/internal/ratelimit/handler"
	"github.com/ihiteshgupta/learnflow/internal/tutor"
	tutorhandler "github.com/ihiteshgupta/learnflow/internal/tutor/handler"
	tutormetrics "github.com/ihiteshgupta/learnflow/internal/tutor/metrics"
	tutorservice "github.com/ihiteshgupta/learnflow/internal/tutor/service"
	"github.com/ihiteshgupta/learnflow/pkg/platform/tracer"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// stores groups one backend per domain so serve can swap SQLite for
// in-memory with a single branch.
type stores struct {
	auth     authstore.Store
	cert     certstore.Store
	course   coursestore.Store
	progress progressstore.Store
}

func openStores(cfg config.Server) (stores, *sql.DB, error) {
	if cfg.DBPath == "" {
		return stores{
			auth:     authstore.NewInMemory(),
			cert:     certstore.NewInMemory(),
			course:   coursestore.NewInMemory(),
			progress: progressstore.NewInMemory(),
		}, nil, nil
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return stores{}, nil, err
	}
	return stores{
		auth:     authstore.NewSQLite(db),
		cert:     certstore.NewSQLite(db),
		course:   coursestore.NewSQLite(db),
		progress: progressstore.NewSQLite(db),
	}, db, nil
}

// runServe wires dependencies and runs the HTTP server plus the streak
// sweep worker until SIGINT or SIGTERM.
func runServe(ctx context.Context) error {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	log.Info("initializing learnflow",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"tutor_provider", cfg.Tutor.Provider,
	)

	st, db, err := openStores(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	limiter := ratelimit.New(ratelimit.DefaultConfig(),
		ratelimit.WithLogger(log),
		ratelimit.WithMetrics(ratelimit.NewMetrics()),
	)
	tokens := token.NewService(cfg.JWTSigningKey, cfg.TokenTTL)

	authSvc := authservice.NewService(st.auth, tokens, limiter,
		authservice.WithLogger(log),
	)
	certSvc := certservice.NewService(st.cert, cfg.BaseURL,
		certservice.WithLogger(log),
		certservice.WithMetrics(certmetrics.New()),
	)

	var tr tracer.Tracer = tracer.NewNoop()
	if cfg.TracingEnabled {
		tr = tracer.NewOTel()
	}

	progressMetrics := progressmetrics.New()
	progressSvc := progressservice.NewService(st.progress,
		progressservice.WithLogger(log),
		progressservice.WithMetrics(progressMetrics),
		progressservice.WithTracer(tr),
	)
	courseSvc := courseservice.NewService(st.course,
		courseservice.WithLogger(log),
		courseservice.WithCertificateIssuer(certSvc),
		courseservice.WithActivityRecorder(progressSvc),
	)

	provider, err := tutor.NewProvider(cfg.Tutor)
	if err != nil {
		return err
	}
	tutorSvc, err := tutorservice.NewService(provider, limiter,
		tutorservice.WithLogger(log),
		tutorservice.WithMetrics(tutormetrics.New()),
	)
	if err != nil {
		return err
	}

	sweeper, err := worker.New(st.progress,
		worker.WithInterval(cfg.StreakSweepInterval),
		worker.WithLogger(log),
		worker.WithMetrics(progressMetrics),
		worker.WithTracer(tr),
	)
	if err != nil {
		return err
	}

	healthHandler := health.New(cfg.Environment)
	if db != nil {
		healthHandler.RegisterCheck("database", db.Ping)
	}

	router := newRouter(routerDeps{
		cfg:          cfg,
		log:          log,
		metrics:      platformmetrics.New(),
		tokens:       tokens,
		health:       healthHandler,
		auth:         authhandler.New(authSvc, log),
		certificates: certhandler.New(certSvc, log),
		courses:      coursehandler.New(courseSvc, log),
		progress:     progresshandler.New(progressSvc, log),
		tutorChat:    tutorhandler.New(tutorSvc, log),
		limiterAdmin: ratelimithandler.New(limiter, log),
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		log.Info("starting streak sweep worker", "interval", cfg.StreakSweepInterval)
		if err := sweeper.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		return err
	}

	log.Info("server stopped")
	return nil
}

type routerDeps struct {
	cfg          config.Server
	log          *slog.Logger
	metrics      *platformmetrics.Metrics
	tokens       *token.Service
	health       *health.Handler
	auth         *authhandler.Handler
	certificates *certhandler.Handler
	courses      *coursehandler.Handler
	progress     *progresshandler.Handler
	tutorChat    *tutorhandler.Handler
	limiterAdmin *ratelimithandler.Handler
}

func newRouter(d routerDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(d.log))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(d.log))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(d.metrics.Middleware)

	d.health.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	// Public surface.
	d.auth.Register(r)
	d.certificates.RegisterPublic(r)
	d.courses.RegisterPublic(r)

	// Authenticated surface.
	r.Group(func(r chi.Router) {
		r.Use(authmiddleware.Authenticate(d.tokens))

		d.progress.Register(r)
		d.certificates.RegisterMe(r)
		d.courses.RegisterAuthenticated(r)
		d.tutorChat.Register(r)

		r.Group(func(r chi.Router) {
			r.Use(authmiddleware.RequireAdmin)

			d.courses.RegisterAdmin(r)
			d.limiterAdmin.RegisterAdmin(r)
		})
	})

	return r
}
