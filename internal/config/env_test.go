package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/rag")

	cfg := LoadConfig()

	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.AIProvider != "ollama" {
		t.Errorf("AIProvider = %q, want ollama", cfg.AIProvider)
	}
	if cfg.GenModel != "llama3.2" {
		t.Errorf("GenModel = %q, want llama3.2", cfg.GenModel)
	}
	if cfg.TopK != 2 {
		t.Errorf("TopK = %d, want 2", cfg.TopK)
	}
	if cfg.ChunkSize != 1000 || cfg.ChunkOverlap != 200 {
		t.Errorf("chunking = %d/%d, want 1000/200", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.EmbedDim != 768 {
		t.Errorf("EmbedDim = %d, want 768", cfg.EmbedDim)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/rag")
	t.Setenv("PORT", "9001")
	t.Setenv("RETRIEVE_TOP_K", "5")
	t.Setenv("AI_PROVIDER", "gemini")

	cfg := LoadConfig()

	if cfg.Port != "9001" {
		t.Errorf("Port = %q, want 9001", cfg.Port)
	}
	if cfg.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.TopK)
	}
	if cfg.AIProvider != "gemini" {
		t.Errorf("AIProvider = %q, want gemini", cfg.AIProvider)
	}
}

func TestLoadConfigGeminiModelDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/rag")
	t.Setenv("AI_PROVIDER", "gemini")

	cfg := LoadConfig()

	if cfg.GenModel != "gemini-1.5-flash" {
		t.Errorf("GenModel = %q, want gemini-1.5-flash", cfg.GenModel)
	}
	if cfg.EmbedModel != "text-embedding-004" {
		t.Errorf("EmbedModel = %q, want text-embedding-004", cfg.EmbedModel)
	}
}

func TestGetEnvIntRejectsGarbage(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "not-a-number")

	if got := getEnvInt("CHUNK_SIZE", 1000); got != 1000 {
		t.Errorf("getEnvInt = %d, want fallback 1000", got)
	}
}
