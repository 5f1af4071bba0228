package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vagnerhf/library/library/config"
	"github.com/vagnerhf/library/library/internal/handler"
	"github.com/vagnerhf/library/library/internal/mail"
	"github.com/vagnerhf/library/library/internal/queue"
	"github.com/vagnerhf/library/library/internal/repository"
	"github.com/vagnerhf/library/library/internal/server"
	"github.com/vagnerhf/library/library/internal/service"
	"github.com/vagnerhf/library/library/migrations"
	"github.com/vagnerhf/library/pkg/auth"
	"github.com/vagnerhf/library/pkg/circuit_breaker"
	"github.com/vagnerhf/library/pkg/kafka"
	"github.com/vagnerhf/library/pkg/logger"
	"github.com/vagnerhf/library/pkg/postgres"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func Run(cfg config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	defer db.Close()
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	if err = kafka.CreateTopics(cfg.Kafka, kafka.LoanCreatedTopic); err != nil {
		log.Warn("kafka.CreateTopics", zap.Error(err))
	}
	asyncProducer, err := kafka.NewAsyncProducer(cfg.Kafka)
	if err != nil {
		log.Fatal("kafka.NewAsyncProducer", zap.Error(err))
	}
	producer := queue.NewProducer(asyncProducer, kafka.LoanCreatedTopic, log)

	tokens, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Fatal("auth.NewManager", zap.Error(err))
	}
	svc := service.NewService(repo, producer, tokens, log)
	if cfg.Admin.Email != "" {
		if err = svc.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Error("admin seed", zap.Error(err))
		}
	}

	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	group, gCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("http server start ON: ",
			zap.String("addr",
				net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
		return srv.Run()
	})
	group.Go(func() error {
		<-gCtx.Done()
		log.Debug("Graceful shutdown", zap.Error(context.Cause(gCtx)))

		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return srv.Stop(closeCtx)
	})

	if cfg.Kafka.EnableConsumer {
		consumerGroup, err := kafka.NewConsumer(cfg.Kafka, kafka.MailerConsumerGroup)
		if err != nil {
			log.Fatal("kafka.NewConsumer", zap.Error(err))
		}
		sender := mail.NewSender(cfg.Mail, circuit_breaker.New(cfg.CircuitBreaker), log)
		consumer := handler.NewConsumer(sender.SendLoanCreated, log)
		group.Go(func() error {
			return kafka.Consume(gCtx, consumerGroup, consumer, log, kafka.LoanCreatedTopic)
		})
		group.Go(func() error {
			<-gCtx.Done()
			return consumerGroup.Close()
		})
	}

	if err = group.Wait(); err != nil {
		log.Error("app stopped", zap.Error(err))
	}
	if err = producer.Close(); err != nil {
		log.Warn("producer.Close", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
}
