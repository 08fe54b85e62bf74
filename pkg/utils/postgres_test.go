package utils

import "testing"

func TestPostgresPoolDefaults(t *testing.T) {
	cfg := PostgresPoolConfig{}.withDefaults()
	if cfg.MaxOpenConns <= 0 || cfg.ConnMaxLifetime <= 0 || cfg.PingTimeout <= 0 {
		t.Fatalf("expected defaults to be applied, got %+v", cfg)
	}
}
