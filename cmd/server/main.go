package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/blog_platform/internal/config"
	"github.com/Skotchmaster/blog_platform/internal/credentials"
	"github.com/Skotchmaster/blog_platform/internal/db"
	"github.com/Skotchmaster/blog_platform/internal/es"
	"github.com/Skotchmaster/blog_platform/internal/httpserver"
	"github.com/Skotchmaster/blog_platform/internal/logging"
	authmw "github.com/Skotchmaster/blog_platform/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/blog_platform/internal/middleware/logging"
	"github.com/Skotchmaster/blog_platform/internal/mykafka"
	"github.com/Skotchmaster/blog_platform/internal/repo"
	"github.com/Skotchmaster/blog_platform/internal/search"
	"github.com/Skotchmaster/blog_platform/internal/service"
	"github.com/Skotchmaster/blog_platform/internal/tokens"
)

func main() {
	config.LoadDotEnv(".env")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	initCtx = logging.IntoContext(initCtx, logger)

	gdb, err := db.Open(initCtx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: gdb}
	store, err := credentials.NewStore(gormRepo, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("credentials: %v", err)
	}
	tokenSvc, err := tokens.NewService(cfg.JWTSecret, tokens.WithTTL(cfg.TokenTTL))
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	authSvc := &service.AuthService{Store: store, Tokens: tokenSvc}
	postSvc := &service.PostService{Repo: gormRepo, Accounts: store}
	userSvc := &service.UserService{Store: store}

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		authSvc.Events = producer
		postSvc.Events = producer
		userSvc.Events = producer
	} else {
		logger.Warn("KAFKA_BROKERS not set, domain events disabled")
	}

	if cfg.ESURL != "" {
		esClient, err := es.NewClient(initCtx, es.Config{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
		}, logger)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		postSvc.Index = &search.Index{ES: esClient, Name: cfg.ESIndex}
	} else {
		logger.Warn("ES_URL not set, post search disabled")
	}

	if err := authSvc.EnsureAdmin(initCtx, cfg.Admin); err != nil {
		log.Fatalf("admin seed: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.BodyLimit("1M"))
	if len(cfg.CORSOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: cfg.CORSOrigins,
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	} else {
		e.Use(echomw.CORS())
	}

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:  &httpserver.AuthHTTP{Svc: authSvc},
		PostsHandler: &httpserver.PostsHTTP{Svc: postSvc},
		UsersHandler: &httpserver.UsersHTTP{Svc: userSvc},
		Resolver:     authmw.NewResolver(tokenSvc, store),
		Ready:        gormRepo.Ping,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close", "error", err)
		}
	}
	_ = db.Close(gdb)

	logger.Info("server stopped")
}
