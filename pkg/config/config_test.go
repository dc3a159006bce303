package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("ICECAT_TOKEN", "")
	t.Setenv("RAPIDAPI_KEY", "")
	t.Setenv("HUGGINGFACE_API_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("SERVER_HOST", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("CACHE_DIR", "")
	t.Setenv("TELEMETRY_PARQUET_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("default server port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Providers.Driver != "mock" {
		t.Errorf("default provider driver = %q, want mock", cfg.Providers.Driver)
	}
	if cfg.Sentiment.Provider != "lexicon" {
		t.Errorf("default sentiment provider = %q, want lexicon", cfg.Sentiment.Provider)
	}
	if cfg.Scoring.TopK != 5 {
		t.Errorf("default top_k = %d, want 5", cfg.Scoring.TopK)
	}
	if cfg.Scoring.MMRLambda != 0.7 {
		t.Errorf("default mmr_lambda = %v, want 0.7", cfg.Scoring.MMRLambda)
	}
	if cfg.Planner.Enabled {
		t.Error("planner should be disabled by default")
	}
}

func TestEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("HUGGINGFACE_API_TOKEN", "hf_test_token")
	t.Setenv("ICECAT_TOKEN", "icecat_test")
	t.Setenv("RAPIDAPI_KEY", "rapid_test")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("SERVER_HOST", "")
	t.Setenv("CACHE_DIR", "")
	t.Setenv("TELEMETRY_PARQUET_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Sentiment.Token != "hf_test_token" {
		t.Errorf("sentiment token = %q, want hf_test_token", cfg.Sentiment.Token)
	}
	if cfg.Sentiment.Provider != "huggingface" {
		t.Errorf("sentiment provider = %q, want huggingface after token override", cfg.Sentiment.Provider)
	}
	if cfg.Providers.Icecat.Token != "icecat_test" {
		t.Errorf("icecat token = %q, want icecat_test", cfg.Providers.Icecat.Token)
	}
	if cfg.Providers.RapidAPI.Key != "rapid_test" {
		t.Errorf("rapidapi key = %q, want rapid_test", cfg.Providers.RapidAPI.Key)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server port = %d, want 9090", cfg.Server.Port)
	}
}
