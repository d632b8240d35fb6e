//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"github.com/guygrubbs/dap-deploy-sub000/internal/application/report"
	"github.com/guygrubbs/dap-deploy-sub000/internal/application/retrieval"
	"github.com/guygrubbs/dap-deploy-sub000/internal/config"
	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/repository"
	"github.com/guygrubbs/dap-deploy-sub000/internal/infrastructure/llm"
	"github.com/guygrubbs/dap-deploy-sub000/internal/infrastructure/messaging"
	"github.com/guygrubbs/dap-deploy-sub000/internal/infrastructure/persistence/postgres"
	"github.com/guygrubbs/dap-deploy-sub000/internal/infrastructure/persistence/redis"
	"github.com/guygrubbs/dap-deploy-sub000/internal/interfaces/http/handler"
	"github.com/guygrubbs/dap-deploy-sub000/internal/interfaces/http/middleware"
	"github.com/guygrubbs/dap-deploy-sub000/internal/interfaces/http/router"
	"github.com/guygrubbs/dap-deploy-sub000/internal/workflow/chain"
	workflowport "github.com/guygrubbs/dap-deploy-sub000/internal/workflow/port"
)

// InitializeApp 初始化 API 网关（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		EmbeddingSet,
		MilvusSet,
		RetrievalSet,
		WorkflowSet,
		ReportSet,
		handler.NewReportHandler,
		router.New,
	)
	return nil, nil, nil
}

// InitializeWorker 初始化报告生成 worker
func InitializeWorker(ctx context.Context, cfg *config.Config) (*WorkerApp, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		EmbeddingSet,
		MilvusSet,
		RetrievalSet,
		WorkflowSet,
		ReportSet,
		wire.Struct(new(WorkerApp), "*"),
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewReportRepository,
	postgres.NewSectionRepository,
	postgres.NewJobRepository,
	postgres.NewSettingRepository,
	postgres.NewSegmentRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.ReportRepository), new(*postgres.ReportRepository)),
	wire.Bind(new(repository.SectionRepository), new(*postgres.SectionRepository)),
	wire.Bind(new(repository.JobRepository), new(*postgres.JobRepository)),
	wire.Bind(new(repository.SettingRepository), new(*postgres.SettingRepository)),
	wire.Bind(new(repository.SegmentRepository), new(*postgres.SegmentRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideMessagingProducer,
	messaging.NewGeneratePublisher,
	messaging.NewStatusNotifier,
	wire.Bind(new(report.JobPublisher), new(*messaging.GeneratePublisher)),
	wire.Bind(new(report.Notifier), new(*messaging.StatusNotifier)),
)

// MilvusSet 可选 Milvus（不可达时降级为无检索）
var MilvusSet = wire.NewSet(
	ProvideMilvusClientOptional,
	ProvideMilvusRepositoryOptional,
	ProvideRetrievalVectorRepositoryOptional,
)

// EmbeddingSet 可选 Embedder（不可用时禁用向量检索/索引）
var EmbeddingSet = wire.NewSet(
	ProvideEmbedderOptional,
)

// RetrievalSet 检索引擎与索引器
var RetrievalSet = wire.NewSet(
	ProvideRetrievalEngine,
	ProvideRetrievalIndexer,
	wire.Bind(new(report.DocumentIndexer), new(*retrieval.Indexer)),
)

// WorkflowSet 生成链提供者集合
var WorkflowSet = wire.NewSet(
	llm.NewEinoFactory,
	wire.Bind(new(workflowport.ChatModelFactory), new(*llm.EinoFactory)),
	chain.NewSectionChain,
	chain.NewProfileChain,
)

// ReportSet 报告应用服务提供者集合
var ReportSet = wire.NewSet(
	ProvideSectionInvoker,
	ProvideProfileExtractor,
	ProvideRetrier,
	ProvideOrchestrator,
	report.NewApprovalPolicy,
	ProvideRenderer,
	ProvideObjectStore,
	ProvideServiceDeps,
	report.NewService,
)
