package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/thereayou/campus-hub/internal/config"
	"github.com/thereayou/campus-hub/internal/database"
	"github.com/thereayou/campus-hub/internal/handlers"
	"github.com/thereayou/campus-hub/internal/membership"
	"github.com/thereayou/campus-hub/internal/middleware"
	"github.com/thereayou/campus-hub/internal/notify"
	"github.com/thereayou/campus-hub/internal/services"
	"github.com/thereayou/campus-hub/internal/websocket"
	"github.com/thereayou/campus-hub/pkg/auth"
)

type Server struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *database.Database
	redis *redis.Client
	hub   *websocket.Hub
	http  *http.Server
}

func NewServer(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	db, err := database.Connect(cfg.Postgres.DSN, log.Named("db"))
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}

	jwtMgr := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)
	blacklist := auth.NewBlacklist(rdb)

	var hubOpts []websocket.Option
	if cfg.WS.RequireClubMembership {
		hubOpts = append(hubOpts, websocket.WithMembershipCheck(db))
	}
	rooms := websocket.NewRooms(db, log.Named("rooms"))
	hub := websocket.NewHub(rooms, websocket.NewPresence(), log.Named("gateway"), hubOpts...)

	emitter := notify.New(db, hub, log.Named("notify"))
	workflow := membership.New(db, emitter, log.Named("membership"))
	authSvc := services.NewAuthService(db, jwtMgr, blacklist, log.Named("auth"))

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log.Named("http")))

	APIEndpoints(router, endpoints{
		auth:          handlers.NewAuthHandler(authSvc, log),
		users:         handlers.NewUserHandler(db, log),
		clubs:         handlers.NewClubHandler(db, workflow, rooms, log),
		messages:      handlers.NewHTTPMessageHandler(db, log),
		notifications: handlers.NewNotificationHandler(emitter, log),
		ws:            handlers.NewWebSocketHandler(hub, cfg.WS.AllowedOrigins, cfg.WS.SendBuffer, log.Named("ws")),
		requireAuth:   middleware.AuthMiddleware(jwtMgr, blacklist, log),
		wsAuth:        middleware.WSAuthMiddleware(jwtMgr, blacklist, cfg.WS.AllowQueryIdentity, log),
	})

	return &Server{
		cfg:   cfg,
		log:   log,
		db:    db,
		redis: rdb,
		hub:   hub,
		http: &http.Server{
			Addr:              ":" + cfg.Service.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run обслуживает HTTP и websocket до отмены ctx, затем мягко останавливается
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.hub.Run()
		return nil
	})

	g.Go(func() error {
		s.log.Info("server starting", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Service.ShutdownTimeout)
		defer cancel()
		err := s.http.Shutdown(shutdownCtx)
		if herr := s.hub.Shutdown(s.cfg.Service.ShutdownTimeout); herr != nil {
			s.log.Warn("gateway shutdown incomplete", zap.Error(herr))
		}
		return err
	})

	err := g.Wait()

	if cerr := s.redis.Close(); cerr != nil {
		s.log.Warn("redis close", zap.Error(cerr))
	}
	if cerr := s.db.Close(); cerr != nil {
		s.log.Warn("postgres close", zap.Error(cerr))
	}
	return err
}
