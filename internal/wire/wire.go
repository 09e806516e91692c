//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	appblog "blogsmith-ai-api/internal/application/blog"
	"blogsmith-ai-api/internal/application/usage"
	"blogsmith-ai-api/internal/config"
	"blogsmith-ai-api/internal/domain/repository"
	"blogsmith-ai-api/internal/infrastructure/llm"
	"blogsmith-ai-api/internal/infrastructure/persistence/postgres"
	"blogsmith-ai-api/internal/infrastructure/persistence/redis"
	"blogsmith-ai-api/internal/interfaces/http/handler"
	"blogsmith-ai-api/internal/interfaces/http/middleware"
	"blogsmith-ai-api/internal/interfaces/http/router"
	workflowport "blogsmith-ai-api/internal/workflow/port"
)

// App 组装完成的应用：路由器与用量记录器。
// UsageRecorder 单独暴露给 main 注册到 Eino 全局回调。
type App struct {
	Router        *router.Router
	UsageRecorder *usage.Recorder
}

// InitializeApp 初始化整个应用
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		PostgresSet,
		RedisSet,
		PipelineSet,
		RouterSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewArticleRepository,
	postgres.NewLLMUsageEventRepository,
	wire.Bind(new(repository.ArticleRepository), new(*postgres.ArticleRepository)),
	wire.Bind(new(repository.LLMUsageEventRepository), new(*postgres.LLMUsageEventRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
	wire.Bind(new(appblog.ArchiveCache), new(*redis.Cache)),
)

// PipelineSet 生成流水线提供者集合
var PipelineSet = wire.NewSet(
	llm.NewEinoFactory,
	wire.Bind(new(workflowport.ChatModelFactory), new(*llm.EinoFactory)),
	appblog.NewPipeline,
	wire.Bind(new(handler.BlogGenerator), new(*appblog.Pipeline)),
	ProvideArchiveConfig,
	appblog.NewArchiver,
	usage.NewRecorder,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	handler.NewHealthHandler,
	handler.NewBlogHandler,
	handler.NewArticleHandler,
	handler.NewUsageHandler,
	wire.Struct(new(router.RouterHandlers), "*"),
	router.NewWithDeps,
)

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

// ProvideArchiveConfig 提供归档配置
func ProvideArchiveConfig(cfg *config.Config) *config.ArchiveConfig {
	return &cfg.Archive
}
