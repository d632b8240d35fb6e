// Package wire 提供依赖注入配置
package wire

import (
	"context"

	einoembedding "github.com/cloudwego/eino/components/embedding"

	"github.com/guygrubbs/dap-deploy-sub000/internal/application/report"
	"github.com/guygrubbs/dap-deploy-sub000/internal/application/retrieval"
	"github.com/guygrubbs/dap-deploy-sub000/internal/config"
	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/repository"
	infraembedding "github.com/guygrubbs/dap-deploy-sub000/internal/infrastructure/embedding"
	"github.com/guygrubbs/dap-deploy-sub000/internal/infrastructure/messaging"
	"github.com/guygrubbs/dap-deploy-sub000/internal/infrastructure/persistence/milvus"
	"github.com/guygrubbs/dap-deploy-sub000/internal/infrastructure/persistence/postgres"
	"github.com/guygrubbs/dap-deploy-sub000/internal/infrastructure/persistence/redis"
	"github.com/guygrubbs/dap-deploy-sub000/internal/infrastructure/render"
	"github.com/guygrubbs/dap-deploy-sub000/internal/infrastructure/storage"
	"github.com/guygrubbs/dap-deploy-sub000/internal/workflow/chain"
	"github.com/guygrubbs/dap-deploy-sub000/pkg/logger"
)

// WorkerApp 报告 worker 的依赖容器。
type WorkerApp struct {
	Service     *report.Service
	RedisClient *redis.Client
	Cache       *redis.Cache
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideMessagingProducer 提供消息生产者
func ProvideMessagingProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	maxLen := cfg.Messaging.RedisStream.MaxLen
	if maxLen <= 0 {
		maxLen = 100000
	}
	return messaging.NewProducer(redisClient.Redis(), int64(maxLen))
}

func ProvideMilvusClientOptional(ctx context.Context, cfg *config.Config) (*milvus.Client, func(), error) {
	client, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		logger.Warn(ctx, "milvus not available, vector features disabled", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

func ProvideMilvusRepositoryOptional(client *milvus.Client) *milvus.Repository {
	if client == nil {
		return nil
	}
	return milvus.NewRepository(client)
}

func ProvideRetrievalVectorRepositoryOptional(repo *milvus.Repository) retrieval.VectorRepository {
	if repo == nil {
		return nil
	}
	return milvus.NewRetrievalVectorRepository(repo)
}

func ProvideEmbedderOptional(ctx context.Context, cfg *config.Config) (einoembedding.Embedder, error) {
	embedder, err := infraembedding.NewEinoEmbedder(ctx, &cfg.Embedding)
	if err != nil {
		logger.Warn(ctx, "embedding not available, vector features disabled", "error", err.Error())
		return nil, nil
	}
	return embedder, nil
}

func ProvideRetrievalEngine(cfg *config.Config, embedder einoembedding.Embedder, vectorRepo retrieval.VectorRepository, segmentRepo repository.SegmentRepository) *retrieval.Engine {
	topK := 0
	if cfg != nil {
		topK = cfg.Retrieval.TopK
	}
	return retrieval.NewEngine(embedder, vectorRepo, segmentRepo, topK)
}

func ProvideRetrievalIndexer(cfg *config.Config, embedder einoembedding.Embedder, vectorRepo retrieval.VectorRepository, segmentRepo repository.SegmentRepository) *retrieval.Indexer {
	bs := 0
	if cfg != nil {
		bs = cfg.Embedding.BatchSize
	}
	return retrieval.NewIndexer(embedder, vectorRepo, segmentRepo, bs)
}

// ProvideSectionInvoker 提供章节生成链适配器
func ProvideSectionInvoker(c *chain.SectionChain, cfg *config.Config) report.SectionInvoker {
	return report.NewChainInvoker(c, cfg.LLM.DefaultProvider)
}

// ProvideProfileExtractor 提供画像抽取链适配器
func ProvideProfileExtractor(c *chain.ProfileChain, cfg *config.Config) report.ProfileExtractor {
	return report.NewProfileInvoker(c, cfg.LLM.DefaultProvider)
}

// ProvideRetrier 提供章节级重试执行器
func ProvideRetrier(cfg *config.Config) *report.Retrier {
	pacer := report.NewIntervalPacer(cfg.Report.PaceInterval)
	return report.NewRetrier(cfg.Report.MaxAttempts, cfg.Report.RetryDelay, cfg.Report.CallTimeout, pacer)
}

// ProvideOrchestrator 提供报告编排器
func ProvideOrchestrator(invoker report.SectionInvoker, engine *retrieval.Engine, retrier *report.Retrier, cfg *config.Config) *report.Orchestrator {
	return report.NewOrchestrator(invoker, engine, retrier, cfg.LLM.DefaultProvider, cfg.Report.SectionConcurrency)
}

// ProvideRenderer 提供 PDF 渲染器，未启用时报告只保留结构化内容
func ProvideRenderer(cfg *config.Config) report.Renderer {
	if !cfg.Render.Enabled {
		return nil
	}
	return render.NewPDFRenderer(&cfg.Render)
}

// ProvideObjectStore 提供对象存储，未配置时跳过 PDF 归档
func ProvideObjectStore(ctx context.Context, cfg *config.Config) (report.ObjectStore, error) {
	if cfg.Storage.R2.AccountID == "" || cfg.Storage.R2.Bucket == "" {
		logger.Warn(ctx, "r2 storage not configured, pdf archiving disabled")
		return nil, nil
	}
	store, err := storage.NewR2Store(ctx, &cfg.Storage.R2)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// ProvideServiceDeps 汇总报告服务的可选依赖
func ProvideServiceDeps(
	profiles report.ProfileExtractor,
	indexer report.DocumentIndexer,
	renderer report.Renderer,
	store report.ObjectStore,
	notifier report.Notifier,
	publisher report.JobPublisher,
) report.ServiceDeps {
	return report.ServiceDeps{
		Profiles:  profiles,
		Indexer:   indexer,
		Renderer:  renderer,
		Store:     store,
		Notifier:  notifier,
		Publisher: publisher,
	}
}
