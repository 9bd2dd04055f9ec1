// Package finalworks собирает HTTP-приложение платформы: хранилище,
// миграции, кеш, очередь почтовых событий и маршруты.
package finalworks

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/finalworks-platform/internal/cache"
	"github.com/magabrotheeeer/finalworks-platform/internal/config"
	"github.com/magabrotheeeer/finalworks-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/finalworks-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/finalworks-platform/internal/lib/sl"
	"github.com/magabrotheeeer/finalworks-platform/internal/migrations"
	authservice "github.com/magabrotheeeer/finalworks-platform/internal/services/auth"
	bookmarkservice "github.com/magabrotheeeer/finalworks-platform/internal/services/bookmark"
	faultlogservice "github.com/magabrotheeeer/finalworks-platform/internal/services/faultlog"
	ratingservice "github.com/magabrotheeeer/finalworks-platform/internal/services/rating"
	studentservice "github.com/magabrotheeeer/finalworks-platform/internal/services/student"
	tagservice "github.com/magabrotheeeer/finalworks-platform/internal/services/tag"
	workservice "github.com/magabrotheeeer/finalworks-platform/internal/services/work"
	"github.com/magabrotheeeer/finalworks-platform/internal/storage"
	amqplib "github.com/streadway/amqp"
)

// App — HTTP-приложение платформы выпускных работ.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *storage.Storage
	amqpConn *amqplib.Connection
}

// New собирает приложение: подключает Postgres и Redis, прогоняет миграции,
// подключает RabbitMQ (необязательно: без брокера письма не отправляются,
// но регистрация работает) и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	// Записи уровня Error дополнительно попадают в журнал сбоев.
	logger = slog.New(sl.NewFaultCaptureHandler(logger.Handler(), db))

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var amqpConn *amqplib.Connection
	var emails authservice.EmailPublisher
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		logger.Warn("rabbitmq unavailable, welcome emails disabled", sl.Err(err))
	} else {
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetEmailQueues())
		if err != nil {
			conn.Close()
			return nil, err
		}
		amqpConn = conn
		emails = rabbitmq.NewEmailPublisher(ch)
	}

	jwtMaker := jwt.NewMaker(cfg.JWTToken.SecretKey, cfg.JWTToken.TokenTTL)

	auth := authservice.NewAuthService(db, jwtMaker, emails, logger)
	works := workservice.NewWorkService(db, db, db, db, logger)
	ratings := ratingservice.NewRatingService(db, cacheRedis, logger)
	bookmarks := bookmarkservice.NewBookmarkService(db, logger)
	tags := tagservice.NewTagService(db, cacheRedis, logger)
	students := studentservice.NewStudentService(db, logger)
	faultlogs := faultlogservice.NewFaultLogService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:      auth,
		Works:     works,
		Ratings:   ratings,
		Bookmarks: bookmarks,
		Tags:      tags,
		Students:  students,
		FaultLogs: faultlogs,
	})

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		amqpConn: amqpConn,
	}, nil
}

// Run запускает HTTP-сервер и корректно останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.amqpConn != nil {
			if closeErr := a.amqpConn.Close(); closeErr != nil {
				a.logger.Error("failed to close rabbitmq connection", sl.Err(closeErr))
			}
		}
		a.db.DB.Close()
		return err
	}
}
