package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brickandmorty/ticketbooker/config"
	repository "github.com/brickandmorty/ticketbooker/internal/database/postgres"
	rediscache "github.com/brickandmorty/ticketbooker/internal/database/redis"
	"github.com/brickandmorty/ticketbooker/internal/service"
	"github.com/brickandmorty/ticketbooker/internal/transport"
	"github.com/brickandmorty/ticketbooker/internal/worker"

	"github.com/brickandmorty/ticketbooker/pkg/postgres"
	"github.com/brickandmorty/ticketbooker/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize database
	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	ticketRepo := repository.NewTicketRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	// Snapshot cache is optional; without Redis every view is computed
	// from the store directly.
	var snapshotCache service.SnapshotCache
	if cfg.Redis.Host != "" {
		redisClient := redis.NewRedisClient(&cfg.Redis)
		defer redisClient.Close()

		snapshotCache = rediscache.NewSnapshotCache(redisClient, cfg.Availability.SnapshotCacheTTL)
		logrus.Info("Snapshot cache initialized")
	} else {
		logrus.Warn("Redis host not provided, snapshot caching disabled")
	}

	// Initialize services
	availabilityService := service.NewAvailabilityService(bookingRepo, ticketRepo, snapshotCache)
	bookingService := service.NewBookingService(bookingRepo, ticketRepo, availabilityService, snapshotCache)
	ticketService := service.NewTicketService(ticketRepo)

	// Seed the default ticket pool on first run
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ticketService.EnsureDefaultTickets(seedCtx, cfg.Registry.DefaultTicketCount); err != nil {
		cancelSeed()
		logrus.Fatalf("Failed to seed default tickets: %v", err)
	}
	cancelSeed()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Keep the current day's snapshot warm when a cache is present
	if snapshotCache != nil {
		warmer := worker.NewSnapshotWarmer(availabilityService, cfg.Availability.WindowDays, cfg.Worker.WarmupInterval)
		go warmer.Start(ctx)
		logrus.Info("Snapshot warmer started")
	}

	// Initialize handlers
	ticketHandler := transport.NewTicketHandler(ticketService)
	bookingHandler := transport.NewBookingHandler(bookingService)
	availabilityHandler := transport.NewAvailabilityHandler(
		availabilityService,
		cfg.Availability.WindowDays,
		cfg.Availability.SearchBudgetDays,
	)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(ticketHandler, bookingHandler, availabilityHandler)); err != nil {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
