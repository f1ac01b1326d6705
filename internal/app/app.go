package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/showee/rag-api/internal/agents"
	"github.com/showee/rag-api/internal/agents/forum"
	"github.com/showee/rag-api/internal/config"
	"github.com/showee/rag-api/internal/core"
	db "github.com/showee/rag-api/internal/core/database"
	"github.com/showee/rag-api/internal/core/ingest"
	"github.com/showee/rag-api/internal/core/llm"
	objectclient "github.com/showee/rag-api/internal/core/object-client"
	"github.com/showee/rag-api/internal/tts"
)

type App struct {
	DBClient    core.DbClient
	Coordinator *agents.Coordinator
	Server      *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Database initialized and ready.")

	objClient, err := newObjectClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Object client initialized and ready.")

	embedder, llmProvider, err := newAIProviders(appCtx, cfg)
	if err != nil {
		return nil, err
	}

	chunker := ingest.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	indexer := ingest.NewIndexer(dbClient, embedder, chunker, 16)
	extractor := ingest.NewDocconvExtractor(false)

	speech := tts.NewClient(cfg.TTSBaseURL, cfg.TTSOutputDir)

	coordinator := agents.NewCoordinator(
		agents.NewChatAgent(dbClient, embedder, llmProvider, speech, cfg.TopK, cfg.GenModel, agents.ModelsForProvider(cfg.AIProvider)),
		agents.NewDocumentAgent(dbClient, objClient, cfg.BucketName, extractor, indexer),
		agents.NewSessionAgent(dbClient),
		forum.NewAgent(indexer,
			forum.NewStackOverflow(nil),
			forum.NewHabr(nil),
			forum.NewMailRu(nil),
		),
	)

	server := NewServer(cfg, coordinator)

	return &App{DBClient: dbClient, Coordinator: coordinator, Server: server}, nil
}

func newObjectClient(ctx context.Context, cfg *config.Config) (core.ObjectClient, error) {
	if cfg.AwsAccessKey != "" && cfg.AwsSecretKey != "" {
		return objectclient.NewS3Client(ctx, cfg)
	}
	return objectclient.NewDirClient(cfg.UploadDir)
}

func newAIProviders(ctx context.Context, cfg *config.Config) (core.EmbeddingProvider, core.LLMProvider, error) {
	switch cfg.AIProvider {
	case "gemini":
		embedder, err := llm.NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbedModel)
		if err != nil {
			return nil, nil, fmt.Errorf("couldn't initialize the embedder, %w", err)
		}
		provider, err := llm.NewGeminiLLM(ctx, cfg.GeminiAPIKey, cfg.GenModel)
		if err != nil {
			return nil, nil, fmt.Errorf("couldn't initialize the llm, %w", err)
		}
		return embedder, provider, nil
	case "", "ollama":
		return llm.NewOllamaEmbedder(cfg.OllamaURL, cfg.EmbedModel),
			llm.NewOllamaLLM(cfg.OllamaURL, cfg.GenModel), nil
	default:
		return nil, nil, fmt.Errorf("unknown AI provider: %s", cfg.AIProvider)
	}
}

func (a *App) Close() {
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
