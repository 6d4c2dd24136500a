package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want 3000", cfg.Port)
	}
	if len(cfg.AllowedOrigins) != 3 {
		t.Errorf("AllowedOrigins = %v, want 3 defaults", cfg.AllowedOrigins)
	}
	if cfg.PlaceholderStaffEmail != "staff@example.com" {
		t.Errorf("PlaceholderStaffEmail = %q", cfg.PlaceholderStaffEmail)
	}
	if cfg.IsProduction() {
		t.Error("development env reported as production")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestRateLimitNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   RateLimitConfig
		want RateLimitConfig
	}{
		{
			name: "zero values are clamped",
			in:   RateLimitConfig{},
			want: RateLimitConfig{Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, TTL: 2 * time.Second},
		},
		{
			name: "burst overrides capacity",
			in:   RateLimitConfig{Capacity: 10, Burst: 25, RefillTokens: 5, RefillInterval: time.Minute, TTL: time.Hour},
			want: RateLimitConfig{Capacity: 25, Burst: 25, RefillTokens: 5, RefillInterval: time.Minute, TTL: time.Hour},
		},
		{
			name: "refill every switches to single tokens",
			in:   RateLimitConfig{Capacity: 10, RefillTokens: 5, RefillInterval: time.Minute, RefillEvery: 3 * time.Second, TTL: time.Second},
			want: RateLimitConfig{Capacity: 10, RefillTokens: 1, RefillInterval: 3 * time.Second, RefillEvery: 3 * time.Second, TTL: 6 * time.Second},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.normalize(); got != tt.want {
				t.Errorf("normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadRateLimitDefaults(t *testing.T) {
	cfg, err := LoadRateLimitConfig()
	if err != nil {
		t.Fatalf("LoadRateLimitConfig: %v", err)
	}
	if cfg.Capacity != 100 || cfg.RefillTokens != 100 || cfg.RefillInterval != 15*time.Minute {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadCacheConfigMethods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	cfg, err := LoadCacheConfig()
	if err != nil {
		t.Fatalf("LoadCacheConfig: %v", err)
	}
	if !cfg.Methods["GET"] || !cfg.Methods["HEAD"] || cfg.Methods["POST"] {
		t.Errorf("Methods = %v", cfg.Methods)
	}
}
