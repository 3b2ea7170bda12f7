package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port            string
	DBPath          string
	KBFile          string
	IndexPath       string
	MetaPath        string
	EmbEndpoint     string
	EmbAPIKey       string
	EmbModel        string
	GenEndpoint     string
	GenAPIKey       string
	GenModel        string
	TopK            int
	MaxHistoryTurns int
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	getInt := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Printf("[cfg] %s=%q is not a number, using %d", k, v, def)
		}
		return def
	}
	cfg := AppConfig{
		Port:            get("PORT", "8080"),
		DBPath:          get("DB_PATH", "advisor.db"),
		KBFile:          get("KB_FILE", "knowledgebase.md"),
		IndexPath:       get("INDEX_PATH", "vector_index.gob"),
		MetaPath:        get("META_PATH", "vector_meta.json"),
		EmbEndpoint:     get("EMB_ENDPOINT", "https://api.openai.com"),
		EmbAPIKey:       get("EMB_API_KEY", ""),
		EmbModel:        get("EMB_MODEL", "text-embedding-3-small"),
		GenEndpoint:     get("GEN_ENDPOINT", "https://api.groq.com/openai"),
		GenAPIKey:       get("GROQ_API_KEY", ""),
		GenModel:        get("GEN_MODEL", "llama-3.1-8b-instant"),
		TopK:            getInt("TOP_K", 8),
		MaxHistoryTurns: getInt("MAX_HISTORY_TURNS", 8),
	}
	log.Printf("[cfg] port=%s db=%s kb=%s emb_model=%s gen_model=%s top_k=%d",
		cfg.Port, cfg.DBPath, cfg.KBFile, cfg.EmbModel, cfg.GenModel, cfg.TopK)
	return cfg
}
