package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/cors"
	"google.golang.org/grpc"

	"github.com/Billy-Davies-2/snake-draft/internal/auth"
	"github.com/Billy-Davies-2/snake-draft/internal/clickhouse"
	"github.com/Billy-Davies-2/snake-draft/internal/config"
	"github.com/Billy-Davies-2/snake-draft/internal/dal"
	grpcserver "github.com/Billy-Davies-2/snake-draft/internal/grpc"
	"github.com/Billy-Davies-2/snake-draft/internal/handlers"
	"github.com/Billy-Davies-2/snake-draft/internal/logger"
	"github.com/Billy-Davies-2/snake-draft/internal/pubsub"
	"github.com/Billy-Davies-2/snake-draft/internal/scheduler"
	"github.com/Billy-Davies-2/snake-draft/internal/service"
	"github.com/Billy-Davies-2/snake-draft/internal/session"
)

func main() {
	if err := run(); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.InitWithLevel(cfg.LogLevel)
	logger.Info("Starting snake draft service", "environment", cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rankings, err := openRankings(ctx, cfg)
	if err != nil {
		return err
	}
	defer rankings.Close()

	upstream, closeUpstream, err := openEvents(cfg)
	if err != nil {
		return err
	}
	defer closeUpstream()
	events := pubsub.NewWithUpstream(upstream)

	clock := clockwork.NewRealClock()
	sessions := session.NewManager(clock)
	drafts := service.NewDraftService(rankings, sessions, events, service.Options{
		Teams:       cfg.Draft.Teams,
		Rounds:      cfg.Draft.Rounds,
		DefaultSlot: cfg.Draft.DefaultSlot,
		TopN:        cfg.Draft.TopN,
	})
	if err := drafts.Refresh(ctx); err != nil {
		return err
	}

	sched, err := scheduler.NewScheduler(clock)
	if err != nil {
		return err
	}
	if err := sched.Every("session-sweep", cfg.Sessions.Sweep, func() {
		sessions.EvictIdle(cfg.Sessions.TTL)
	}); err != nil {
		return err
	}
	if err := sched.Every("rankings-refresh", cfg.Rankings.Refresh, func() {
		if err := drafts.Refresh(ctx); err != nil {
			logger.Error("Rankings refresh failed", "error", err)
		}
	}); err != nil {
		return err
	}
	authProvider := newAuthProvider(cfg)
	if err := sched.Every("login-sweep", cfg.Sessions.Sweep, func() {
		if n := authProvider.PurgeExpired(); n > 0 {
			logger.Debug("Purged expired login sessions", "count", n)
		}
	}); err != nil {
		return err
	}
	sched.Start()
	defer sched.Shutdown()

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(logUnary))
	grpcserver.RegisterDraftServiceServer(grpcServer, grpcserver.NewServer(drafts))

	grpcAddr := "0.0.0.0:" + cfg.GRPCPort
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC: %w", err)
	}
	go func() {
		logger.Info("gRPC server starting", "address", grpcAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("Failed to serve gRPC", "error", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", authProvider.LoginHandler)
	mux.HandleFunc("/auth/callback", authProvider.CallbackHandler)
	mux.HandleFunc("/auth/logout", authProvider.LogoutHandler)

	if info, err := os.Stat("static"); err == nil && info.IsDir() {
		mux.Handle("/", http.FileServer(http.Dir("static")))
	}

	handlers.NewAPIHandlers(drafts, events).
		SecureCookies(!cfg.IsDevelopment()).
		Register(mux, authProvider.Middleware)

	c := cors.New(cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedOrigins:   []string{"*"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	})

	httpServer := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           c.Handler(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err := <-errCh:
		grpcServer.Stop()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	grpcServer.GracefulStop()
	return httpServer.Shutdown(shutdownCtx)
}

// openRankings opens the configured rankings source, seeding SQL stores
// from the CSV when they are empty
func openRankings(ctx context.Context, cfg *config.Config) (dal.RankingsDAL, error) {
	r := cfg.Rankings
	switch r.Source {
	case "csv":
		logger.Info("Using CSV rankings", "file", r.PlayersCSV)
		return dal.NewCSVDAL(r.PlayersCSV), nil

	case "memory":
		players, err := dal.NewCSVDAL(r.PlayersCSV).LoadPlayers(ctx)
		if err != nil {
			return nil, err
		}
		logger.Info("Using in-memory rankings", "players", len(players))
		return dal.NewMemoryDAL(players), nil

	case "sqlite":
		db, err := dal.NewSQLiteDAL(r.SQLiteFile)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite: %w", err)
		}
		logger.Info("Connected to SQLite database", "file", r.SQLiteFile)
		return seeded(ctx, db, r.PlayersCSV)

	case "postgres":
		db, err := dal.NewPostgresDAL(r.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		logger.Info("Connected to Postgres database")
		return seeded(ctx, db, r.PlayersCSV)

	case "clickhouse":
		ch := cfg.ClickHouse
		client, err := clickhouse.NewClient(clickhouse.Options{
			Addr:     ch.Addr,
			Database: ch.Database,
			Username: ch.User,
			Password: ch.Password,
			Table:    ch.Table,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("Connected to ClickHouse", "address", ch.Addr, "database", ch.Database)
		return client, nil
	}
	return nil, fmt.Errorf("unknown RANKINGS_SOURCE %q", r.Source)
}

type seedableRankings interface {
	dal.RankingsDAL
	dal.Importer
}

func seeded(ctx context.Context, db seedableRankings, csvPath string) (dal.RankingsDAL, error) {
	n, err := dal.SeedFromCSV(ctx, db, csvPath)
	if err != nil {
		db.Close()
		return nil, err
	}
	if n > 0 {
		logger.Info("Seeded rankings from CSV", "players", n, "file", csvPath)
	}
	return db, nil
}

// openEvents uses an embedded NATS server in development and a real one
// otherwise
func openEvents(cfg *config.Config) (pubsub.Upstream, func(), error) {
	if cfg.IsDevelopment() {
		logger.Info("Starting embedded NATS server for local development")
		opts := pubsub.DefaultEmbeddedNATSOptions()
		opts.Subject = cfg.NATS.Subject
		embedded, err := pubsub.NewEmbeddedNATSPubSub(opts)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize embedded NATS: %w", err)
		}
		logger.Info("Embedded NATS server ready", "url", embedded.GetServerURL())
		return embedded, embedded.Close, nil
	}

	logger.Info("Using NATS JetStream", "url", cfg.NATS.URL)
	nats, err := pubsub.NewNATSPubSub(cfg.NATS.URL, cfg.NATS.Subject)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize NATS: %w", err)
	}
	return nats, nats.Close, nil
}

func newAuthProvider(cfg *config.Config) auth.AuthProvider {
	switch cfg.Auth.Mode {
	case "mock":
		logger.Info("Using mock authentication")
		return auth.NewMockAuth()
	case "authentik":
		logger.Info("Using Authentik authentication", "url", cfg.Auth.BaseURL)
		return auth.NewAuthentikAuth(&auth.AuthentikConfig{
			BaseURL:      cfg.Auth.BaseURL,
			ClientID:     cfg.Auth.ClientID,
			ClientSecret: cfg.Auth.ClientSecret,
			RedirectURL:  cfg.Auth.RedirectURL,
			AppSlug:      cfg.Auth.AppSlug,
			Scopes:       []string{"openid", "profile", "email"},
		})
	default:
		logger.Info("Authentication disabled, drafts are keyed by cookie")
		return auth.NewNoAuth()
	}
}

func logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	logger.Debug("gRPC call", "method", info.FullMethod, "duration", time.Since(start).String(), "error", err)
	return resp, err
}
