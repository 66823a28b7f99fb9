package strategyconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	// 테스트용 YAML 경로
	path := "../../config/strategy/kospi_pairs_v1.yaml"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("config file not found")
	}

	cfg, yamlData, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Meta.StrategyID != "kospi_pairs_v1" {
		t.Errorf("expected strategy_id=kospi_pairs_v1, got %s", cfg.Meta.StrategyID)
	}
	if cfg.Scan.CorrelationThreshold != 0.8 {
		t.Errorf("expected correlation_threshold=0.8, got %v", cfg.Scan.CorrelationThreshold)
	}
	if len(cfg.Universe.Symbols) < 2 {
		t.Errorf("expected at least 2 symbols, got %d", len(cfg.Universe.Symbols))
	}

	// 해시 생성
	hash, err := Hash(cfg)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("expected 64 char hash, got %d", len(hash))
	}

	// 동일 설정 → 동일 해시
	hash2, _ := Hash(cfg)
	if hash != hash2 {
		t.Error("hash not deterministic")
	}

	t.Logf("config hash: %s", hash)
	t.Logf("yaml size: %d bytes", len(yamlData))
}

func TestLoad_UnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	yaml := `
meta:
  strategy_id: test
universe:
  symbols: ["A", "B"]
  lookback_days: 100
scan:
  correlation_threshold: 0.8
  p_value_threshold: 0.05
  min_observations: 30
  half_life_cap_days: 252
backtest:
  entry_z: 2.0
  exit_z: 0.5
typo_field: true
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	// KnownFields(true) → 알 수 없는 필드는 즉시 실패
	if _, _, err := Load(path); err == nil {
		t.Error("expected error for unknown field")
	}
}

func validConfig() *Config {
	return &Config{
		Meta:     Meta{StrategyID: "test", Version: "1.0.0"},
		Universe: Universe{Symbols: []string{"005930", "000660"}, LookbackDays: 365},
		Scan: Scan{
			CorrelationThreshold: 0.8,
			PValueThreshold:      0.05,
			MinObservations:      30,
			HalfLifeCapDays:      252,
		},
		Backtest: Backtest{EntryZ: 2.0, ExitZ: 0.5},
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing strategy id", func(c *Config) { c.Meta.StrategyID = "" }},
		{"single symbol", func(c *Config) { c.Universe.Symbols = []string{"005930"} }},
		{"duplicate symbol", func(c *Config) { c.Universe.Symbols = []string{"005930", "005930"} }},
		{"correlation out of range", func(c *Config) { c.Scan.CorrelationThreshold = 1.5 }},
		{"p-value out of range", func(c *Config) { c.Scan.PValueThreshold = 1.0 }},
		{"min observations too small", func(c *Config) { c.Scan.MinObservations = 2 }},
		{"entry below exit", func(c *Config) { c.Backtest.EntryZ = 0.3 }},
		{"negative exit", func(c *Config) { c.Backtest.ExitZ = -0.5; c.Backtest.EntryZ = 2.0 }},
		{"negative optimize entry", func(c *Config) { c.Optimize.EntryCandidates = []float64{-1.0} }},
		{"zero analysis period", func(c *Config) { c.Analysis.PeriodsMonths = []int{0} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestHash_ChangesWithConfig(t *testing.T) {
	a := validConfig()
	b := validConfig()
	b.Backtest.EntryZ = 2.5

	hashA, err := Hash(a)
	if err != nil {
		t.Fatal(err)
	}
	hashB, err := Hash(b)
	if err != nil {
		t.Fatal(err)
	}
	if hashA == hashB {
		t.Error("different configs must hash differently")
	}
}
