package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"google.golang.org/grpc/health"

	grpchandler "github.com/shehanaraph-lab/Finnacle/internal/api/grpc/handler"
	grpcrouter "github.com/shehanaraph-lab/Finnacle/internal/api/grpc/router"
	grpcServer "github.com/shehanaraph-lab/Finnacle/internal/api/grpc/server"
	httpctx "github.com/shehanaraph-lab/Finnacle/internal/api/http/context"
	httprouter "github.com/shehanaraph-lab/Finnacle/internal/api/http/router"
	httpServer "github.com/shehanaraph-lab/Finnacle/internal/api/http/server"
	"github.com/shehanaraph-lab/Finnacle/internal/cache"
	"github.com/shehanaraph-lab/Finnacle/internal/config"
	"github.com/shehanaraph-lab/Finnacle/internal/identity"
	"github.com/shehanaraph-lab/Finnacle/internal/logger"
	"github.com/shehanaraph-lab/Finnacle/internal/mailer"
	"github.com/shehanaraph-lab/Finnacle/internal/model"
	"github.com/shehanaraph-lab/Finnacle/internal/repository/memory"
	"github.com/shehanaraph-lab/Finnacle/internal/repository/postgres"
	"github.com/shehanaraph-lab/Finnacle/internal/server"
	"github.com/shehanaraph-lab/Finnacle/internal/service"
	"github.com/shehanaraph-lab/Finnacle/internal/storage/minio"
	"github.com/shehanaraph-lab/Finnacle/internal/storage/s3"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

type objectStorage interface {
	model.Storage
	model.Pinger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.Environment)

	var (
		store       model.Transactor
		revocations model.RevocationStore
		checks      []service.Check
	)
	switch cfg.Database.Driver {
	case "memory":
		mem := memory.NewStore()
		store, revocations = mem, mem
		checks = append(checks, service.Check{Name: "database", Pinger: mem})
		logger.Warn("using in-memory store, data will not survive a restart")
	default:
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN, cfg.Database.MaxConns)
		if err != nil {
			logger.Fatal("failed to initialize database", "error", err)
		}
		defer db.Close()

		pg := postgres.NewStore(db.DB)
		store, revocations = pg, pg.Revocations()
		checks = append(checks, service.Check{Name: "database", Pinger: db})
	}

	cachedRevocations := cache.NewRevocations(revocations, cfg.Cache.Size, cfg.Cache.TTL)
	checks = append(checks, service.Check{Name: "cache", Pinger: cachedRevocations})

	oracle, err := newOracle(ctx, cfg.Identity, cachedRevocations)
	if err != nil {
		logger.Fatal("failed to initialize identity provider", "error", err, "provider", cfg.Identity.Provider)
	}

	var mail model.Mailer
	switch cfg.Mail.Provider {
	case "resend":
		mail = mailer.NewResend(cfg.Mail.ResendAPIKey, cfg.Mail.From, logger)
	default:
		mail = mailer.NewLog(logger)
	}

	objects, err := newObjectStorage(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err, "provider", cfg.Storage.Provider)
	}

	reconciler := service.NewReconciler(oracle, store, logger)
	accountService := service.NewAccount(reconciler, oracle, store, mail, logger)
	profileService := service.NewProfile(store, logger)

	var avatarService *service.Avatar
	if objects != nil {
		avatarService = service.NewAvatar(store, objects, logger)
		checks = append(checks, service.Check{Name: "storage", Pinger: objects})
	}

	healthService := service.NewHealth(checks, cfg.ReadinessTimeout, logger)

	httpHandler := httprouter.New(
		accountService,
		reconciler,
		profileService,
		avatarService,
		healthService,
		httpctx.NewManager(),
		logger,
		httprouter.Options{
			Version:      buildVersion,
			Environment:  cfg.Environment,
			AllowOrigins: cfg.HTTP.AllowOrigins,
			BodyLimit:    cfg.HTTP.BodyLimit,
		},
	).Register()
	restServer := httpServer.NewHTTPServer(httpHandler, fmt.Sprintf(":%s", cfg.HTTP.Port))

	healthServer := health.NewServer()
	probeServer := grpcServer.NewGRPCServer(grpcrouter.New(healthServer, logger).Register(), fmt.Sprintf(":%s", cfg.GRPC.Port))
	watcher := grpchandler.NewHealthWatcher(healthService, healthServer, cfg.GRPC.HealthInterval, logger)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		watcher.Run(ctx)
	}()

	servers := []struct {
		srv model.Server
		sl  model.SecurityLayer
	}{
		{restServer, securityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)},
		{probeServer, securityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)},
	}

	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server, sl model.SecurityLayer) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			err := s.Start(sl)
			if err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}(s.srv, s.sl)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.srv.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.srv.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func securityLayer(enableHTTPS bool, certFileName, privateKeyFileName string) model.SecurityLayer {
	if enableHTTPS {
		return server.NewTLSListener(certFileName, privateKeyFileName)
	}
	return server.NewPlainListener()
}

func newOracle(ctx context.Context, cfg config.Identity, revocations model.RevocationStore) (model.IdentityOracle, error) {
	switch cfg.Provider {
	case "jwt":
		return identity.NewJWT(cfg.JWTSecret, cfg.JWTIssuer, cfg.ResetURL, revocations), nil
	default:
		return identity.NewFirebase(ctx, cfg.ProjectID, cfg.CredentialsFile)
	}
}

// newObjectStorage returns nil when avatars are disabled.
func newObjectStorage(ctx context.Context, cfg config.Storage) (objectStorage, error) {
	switch cfg.Provider {
	case "minio":
		return minio.New(ctx, minio.Config{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Bucket:    cfg.Bucket,
			UseSSL:    cfg.UseSSL,
		})
	case "s3":
		return s3.New(ctx, s3.Config{
			Endpoint:        cfg.Endpoint,
			Region:          cfg.Region,
			AccessKeyID:     cfg.AccessKey,
			SecretAccessKey: cfg.SecretKey,
			Bucket:          cfg.Bucket,
			UsePathStyle:    cfg.UsePathStyle,
		})
	default:
		return nil, nil
	}
}
