package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL  string
	Port         string
	AIProvider   string
	OllamaURL    string
	GenModel     string
	EmbedModel   string
	EmbedDim     int
	GeminiAPIKey string
	TopK         int
	ChunkSize    int
	ChunkOverlap int
	UploadDir    string
	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string
	TTSBaseURL   string
	TTSOutputDir string
}

// LoadConfig loads the environment variables and return config
func LoadConfig() *Config {

	_ = godotenv.Load()

	provider := getEnv("AI_PROVIDER", "ollama")

	// Model defaults follow the provider so a bare AI_PROVIDER switch
	// yields names the backend can actually serve.
	genModel, embedModel := "llama3.2", "nomic-embed-text"
	if provider == "gemini" {
		genModel, embedModel = "gemini-1.5-flash", "text-embedding-004"
	}

	cfg := &Config{
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		Port:         getEnv("PORT", "8000"),
		AIProvider:   provider,
		OllamaURL:    getEnv("OLLAMA_URL", "http://localhost:11434"),
		GenModel:     getEnv("GEN_MODEL", genModel),
		EmbedModel:   getEnv("EMBED_MODEL", embedModel),
		EmbedDim:     getEnvInt("EMBED_DIM", 768),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		TopK:         getEnvInt("RETRIEVE_TOP_K", 2),
		ChunkSize:    getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 200),
		UploadDir:    getEnv("UPLOAD_DIR", "./uploads"),
		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", "rag-api-docs"),
		TTSBaseURL:   getEnv("TTS_URL", ""),
		TTSOutputDir: getEnv("TTS_OUTPUT_DIR", "./tts/output"),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}
