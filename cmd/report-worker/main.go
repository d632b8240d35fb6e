// Package main 报告生成 worker 入口
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/guygrubbs/dap-deploy-sub000/internal/config"
	"github.com/guygrubbs/dap-deploy-sub000/internal/infrastructure/messaging"
	einoobs "github.com/guygrubbs/dap-deploy-sub000/internal/observability/eino"
	"github.com/guygrubbs/dap-deploy-sub000/internal/wire"
	"github.com/guygrubbs/dap-deploy-sub000/pkg/logger"
	"github.com/guygrubbs/dap-deploy-sub000/pkg/tracer"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	ctx := context.Background()

	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: "report-worker",
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init tracer", err)
	}
	defer func() { _ = shutdown(ctx) }()

	einoobs.Init()

	app, cleanup, err := wire.InitializeWorker(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize worker", err)
	}
	defer cleanup()

	consumer := messaging.NewConsumer(app.RedisClient.Redis(), messaging.ConsumerConfig{
		Stream:        messaging.StreamReportGenerate,
		Group:         messaging.ConsumerGroupReportWorker,
		ConsumerName:  hostnameConsumerName(),
		BlockTimeout:  cfg.Messaging.RedisStream.BlockTimeout,
		ClaimInterval: cfg.Messaging.RedisStream.ClaimInterval,
		RetryLimit:    cfg.Messaging.RedisStream.RetryLimit,
		Backoff: messaging.BackoffConfig{
			Initial:    cfg.Messaging.RedisStream.RetryBackoff.Initial,
			Max:        cfg.Messaging.RedisStream.RetryBackoff.Max,
			Multiplier: cfg.Messaging.RedisStream.RetryBackoff.Multiplier,
		},
	})

	consumer.RegisterHandler(messaging.MsgTypeReportGenerate, func(msgCtx context.Context, msg *messaging.Message) error {
		var payload messaging.ReportJobMessage
		if err := msg.UnmarshalPayload(&payload); err != nil {
			return err
		}

		if err := app.Service.RunJob(msgCtx, payload.JobID); err != nil {
			return err
		}

		// 生成完成后失效内容缓存，读侧拿到最新章节
		if app.Cache != nil {
			_ = app.Cache.InvalidateReport(msgCtx, payload.ReportID)
		}
		return nil
	})

	if err := consumer.Start(ctx); err != nil {
		logger.Fatal(ctx, "failed to start consumer", err)
	}

	go consumer.MonitorDLQ(ctx, 100)

	log := logger.FromContext(ctx)
	log.Info("report-worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("report-worker shutting down")
	consumer.Stop()
}

func hostnameConsumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
