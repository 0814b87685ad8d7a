// Package classification Delegation Manager Service.
//
// Delegation Manager routes delegation requests (events) between users and divisions and tracks
// them through their verification workflow.
//
// Terms Of Service:
//
// there are no TOS at this moment, use at your own risk we take no responsibility
//
//	Version: 0.1.0
//	License: TODO
//
//	Consumes:
//	  - application/json
//	  - multipart/form-data
//
//	Produces:
//	  - application/json
//
// swagger:meta
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/delegasi/delegation-manager/internal/handler"
	"github.com/delegasi/delegation-manager/internal/log"
	"github.com/delegasi/delegation-manager/internal/server"
	"github.com/delegasi/delegation-manager/internal/tracing"
	"github.com/delegasi/delegation-manager/pkg/config"
	"github.com/delegasi/delegation-manager/pkg/division"
	"github.com/delegasi/delegation-manager/pkg/event"
	"github.com/delegasi/delegation-manager/pkg/notification"
	"github.com/delegasi/delegation-manager/pkg/report"
	"github.com/delegasi/delegation-manager/pkg/response"
	"github.com/delegasi/delegation-manager/pkg/storage"
	"github.com/delegasi/delegation-manager/pkg/upload"
	"github.com/delegasi/delegation-manager/pkg/user"
	"github.com/gin-gonic/gin"
	"github.com/go-mail/mail"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Failed to run delegation manager", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.ProvideConfig()

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(cfg.JaegerEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("Failed to shutdown tracing", "error", err)
		}
	}()

	db, err := storage.NewDatabase(logger, cfg.Database)
	if err != nil {
		return err
	}

	fileStore, err := storage.NewFileStore(ctx, logger, cfg.Storage)
	if err != nil {
		return err
	}
	uploadService := upload.NewService(fileStore)

	divisionService := division.NewService(division.NewRepository(db))
	userService := user.NewService(user.NewRepository(db), divisionService)

	if cfg.Admin.Enabled() {
		err := user.CreateAdminUser(ctx, cfg.Admin.Email, cfg.Admin.Password, userService)
		if err != nil {
			return err
		}
	}

	var publisher interface {
		Publish(ctx context.Context, message notification.Message) error
	}
	if cfg.RabbitMq.Enabled() {
		p, err := notification.NewPublisher(cfg.RabbitMq.GetUrl(), cfg.RabbitMq.Exchange)
		if err != nil {
			return err
		}
		defer func() {
			if err := p.Close(); err != nil {
				logger.Error("Failed to close RabbitMQ publisher", "error", err)
			}
		}()
		publisher = p
	}

	var mailer interface {
		Send(ctx context.Context, to string, message notification.Message) error
	}
	if cfg.SMTP.Enabled() {
		dialer := mail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
		mailer = notification.NewMailer(dialer, cfg.SMTP.From, cfg.UIURL)
	}

	broker := notification.NewBroker()
	notifier := notification.NewNotifier(logger, broker, publisher, mailer)

	eventService := event.NewService(logger, event.NewRepository(db), userService, divisionService, notifier)
	responseService := response.NewService(logger, response.NewRepository(db), eventService, userService)

	err = handler.RegisterValidation(event.Validations)
	if err != nil {
		return err
	}

	r := server.GetEngine(logger, cfg.BasePath)
	registerRoutes(r, cfg.BasePath, handlers{
		user:         user.NewHandler(userService, uploadService),
		division:     division.NewHandler(divisionService),
		event:        event.NewHandler(eventService, uploadService, report.NewExporter(logger)),
		response:     response.NewHandler(responseService, uploadService),
		notification: notification.NewHandler(broker),
		upload:       upload.NewHandler(uploadService),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	// notification streams only end once their subscription is closed
	srv.RegisterOnShutdown(broker.Close)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Delegation manager listening", "addr", srv.Addr, "basePath", cfg.BasePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down delegation manager")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	notifier.Wait()
	return err
}

type handlers struct {
	user         user.Handler
	division     division.Handler
	event        event.Handler
	response     response.Handler
	notification notification.Handler
	upload       upload.Handler
}

func registerRoutes(r *gin.Engine, basePath string, h handlers) {
	router := r.Group(basePath)
	user.Routes(router, h.user)
	division.Routes(router, h.division)
	event.Routes(router, h.event)
	response.Routes(router, h.response)
	notification.Routes(router, h.notification)

	// stored files are referenced by URLs like /uploads-event/<name>, independent of the base path
	upload.Routes(r, h.upload)
}

func newLogger(cfg config.Config) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %v", cfg.LogLevel, err)
	}

	options := slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch cfg.LogFormat {
	case "json":
		h = slog.NewJSONHandler(os.Stdout, &options)
	case "pretty":
		h = log.NewPrettyJSONHandler(os.Stdout, &log.PrettyJSONHandlerOptions{HandlerOptions: options})
	default:
		return nil, fmt.Errorf("unsupported log format %q", cfg.LogFormat)
	}

	return slog.New(log.New(h)), nil
}
