package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/drsn-tech/catalog-core/internal/cfg"
	v1Http "github.com/drsn-tech/catalog-core/internal/delivery/v1/http"
	"github.com/drsn-tech/catalog-core/internal/infrastructure"
	"github.com/drsn-tech/catalog-core/internal/infrastructure/kafka"
	minioInfra "github.com/drsn-tech/catalog-core/internal/infrastructure/minio"
	s3Repo "github.com/drsn-tech/catalog-core/internal/repository/minio"
	"github.com/drsn-tech/catalog-core/internal/repository/pgdb"
	pgdbConv "github.com/drsn-tech/catalog-core/internal/repository/pgdb/converter"
	redisRepo "github.com/drsn-tech/catalog-core/internal/repository/redis"
	"github.com/drsn-tech/catalog-core/internal/usecase"
	"github.com/drsn-tech/catalog-core/pkg/clients"
	"github.com/drsn-tech/catalog-core/pkg/closer"
	"github.com/drsn-tech/catalog-core/pkg/e"
	"github.com/drsn-tech/catalog-core/pkg/logger"
	"github.com/drsn-tech/catalog-core/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

// Run собирает приложение и блокируется до сигнала завершения.
func Run(cfg *config.Config, log logger.Logger) error {
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	cl := closer.NewCloser(2 * time.Second)

	db, err := initPGDB(log, cfg)
	if err != nil {
		log.Errorf(err, "failed to initialize database")
		return err
	}
	cl.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	prConv := pgdbConv.NewProductConverterImpl()
	admConv := pgdbConv.NewAdminConverterImpl()
	obConv := pgdbConv.NewOutboxEventConverterImpl()

	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	adminRepo := pgdb.NewAdminRepo(db.Pool, admConv)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, obConv)
	txRunner := pgdb.NewPgTxRunner(db.Pool)

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		log.Errorf(err, "failed to initialize minio client")
		return err
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		log.Errorf(err, "failed to initialize MinIO bucket")
		return err
	}
	minioCancel()

	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)
	imagesInfra := minioInfra.NewMinioInfrastructure(imageRepo, cfg.Minio, log, appCtx)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(redisCtx); err != nil {
		redisCancel()
		log.Errorf(err, "failed to connect to redis")
		return err
	}
	redisCancel()
	cl.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})

	cacheRepo := redisRepo.NewCacheRepo(redisClient, cfg.Redis, log)

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		log.Errorf(err, "failed to initialize kafka producer")
		return err
	}
	cl.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		log.Errorf(err, "failed to ensure kafka topic")
		return err
	}

	outboxWorker := kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn)
	outboxWorker.Start(appCtx)
	cl.Add(func(ctx context.Context) error {
		outboxWorker.Stop()
		return nil
	})

	catalogStore := usecase.NewCatalogStore(productRepo, outboxRepo, cacheRepo, txRunner, log)

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := catalogStore.Load(loadCtx); err != nil {
		log.Warnf("initial catalog load failed: %v", err)
	}
	loadCancel()

	authUC := usecase.NewAuthUseCase(adminRepo, log, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	workflow := usecase.NewAdminWorkflow(catalogStore, imagesInfra, infrastructure.NewAutoConfirmer(), log)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(catalogStore, authUC, workflow)

	httpSrv := v1Http.NewServer(r, cfg.Http)

	errCh := make(chan error, 1)
	go func() {
		log.Infof("HTTP server started on port %s", cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	cl.Add(func(ctx context.Context) error {
		return imagesInfra.WaitForCleanup(ctx)
	})
	cl.Add(func(ctx context.Context) error {
		return httpSrv.Stop(ctx)
	})

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		log.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		log.Infof("Received shutdown signal, stopping gracefully...")
	}

	appCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := cl.Close(shutdownCtx); err != nil {
		log.Warnf("shutdown finished with errors: %v", err)
	} else {
		log.Infof("Application shutdown complete")
	}

	return appErr
}

func initPGDB(log logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		log.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(log); err != nil {
		log.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		log.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
