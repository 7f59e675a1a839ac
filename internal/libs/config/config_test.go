package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Test with default values
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIPort != "8080" {
		t.Errorf("expected default APIPort=8080, got %s", cfg.APIPort)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("expected default LogLevel=info, got %s", cfg.LogLevel)
	}

	if cfg.CountBackend != BackendLocal {
		t.Errorf("expected default CountBackend=local, got %s", cfg.CountBackend)
	}

	if cfg.WorkerInterval != time.Minute {
		t.Errorf("expected default WorkerInterval=1m, got %s", cfg.WorkerInterval)
	}
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("API_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("COUNT_BACKEND", "Elasticsearch")
	t.Setenv("ELASTICSEARCH_URLS", "http://es1:9200, http://es2:9200")
	t.Setenv("WORKER_INDICES", "logs-*,metrics")
	t.Setenv("WORKER_INTERVAL", "15s")
	t.Setenv("TIMESTAMP_ZONE", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIPort != "9000" {
		t.Errorf("expected APIPort=9000, got %s", cfg.APIPort)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("expected LogLevel=debug, got %s", cfg.LogLevel)
	}

	if cfg.CountBackend != BackendElasticsearch {
		t.Errorf("expected CountBackend=elasticsearch, got %s", cfg.CountBackend)
	}

	if len(cfg.ElasticsearchURLs) != 2 || cfg.ElasticsearchURLs[1] != "http://es2:9200" {
		t.Errorf("unexpected ElasticsearchURLs %v", cfg.ElasticsearchURLs)
	}

	if len(cfg.WorkerIndices) != 2 || cfg.WorkerIndices[0] != "logs-*" {
		t.Errorf("unexpected WorkerIndices %v", cfg.WorkerIndices)
	}

	if cfg.WorkerInterval != 15*time.Second {
		t.Errorf("expected WorkerInterval=15s, got %s", cfg.WorkerInterval)
	}

	loc, err := cfg.Location()
	if err != nil || loc != time.UTC {
		t.Errorf("expected UTC location, got %v (%v)", loc, err)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown backend", "COUNT_BACKEND", "solr"},
		{"bad interval", "WORKER_INTERVAL", "soon"},
		{"negative interval", "WORKER_INTERVAL", "-5s"},
		{"bad zone", "TIMESTAMP_ZONE", "Mars/Olympus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
