package strategyconfig

import "fmt"

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === Universe ===
	if len(cfg.Universe.Symbols) < 2 {
		return ValidationError{"universe.symbols", "need at least 2 symbols"}
	}
	seen := make(map[string]bool, len(cfg.Universe.Symbols))
	for i, s := range cfg.Universe.Symbols {
		if s == "" {
			return ValidationError{fmt.Sprintf("universe.symbols[%d]", i), "must not be empty"}
		}
		if seen[s] {
			return ValidationError{fmt.Sprintf("universe.symbols[%d]", i), fmt.Sprintf("duplicate symbol %s", s)}
		}
		seen[s] = true
	}
	if cfg.Universe.LookbackDays <= 0 {
		return ValidationError{"universe.lookback_days", "must be > 0"}
	}

	// === Scan ===
	if cfg.Scan.CorrelationThreshold < 0 || cfg.Scan.CorrelationThreshold > 1 {
		return ValidationError{"scan.correlation_threshold", "must be in range [0, 1]"}
	}
	if cfg.Scan.PValueThreshold <= 0 || cfg.Scan.PValueThreshold >= 1 {
		return ValidationError{"scan.p_value_threshold", "must be in range (0, 1)"}
	}
	if cfg.Scan.MinObservations < 3 {
		return ValidationError{"scan.min_observations", "must be >= 3"}
	}
	if cfg.Scan.HalfLifeCapDays <= 0 {
		return ValidationError{"scan.half_life_cap_days", "must be > 0"}
	}

	// === Backtest ===
	if cfg.Backtest.ExitZ < 0 {
		return ValidationError{"backtest.exit_z", "must be >= 0"}
	}
	if cfg.Backtest.EntryZ <= cfg.Backtest.ExitZ {
		return ValidationError{"backtest", "entry_z must be > exit_z"}
	}
	if cfg.Backtest.Window < 0 {
		return ValidationError{"backtest.window", "must be >= 0"}
	}

	// === Optimize ===
	// 빈 그리드는 허용 (최적화 생략), 음수 임계값은 불허
	for i, v := range cfg.Optimize.EntryCandidates {
		if v <= 0 {
			return ValidationError{fmt.Sprintf("optimize.entry_candidates[%d]", i), "must be > 0"}
		}
	}
	for i, v := range cfg.Optimize.ExitCandidates {
		if v < 0 {
			return ValidationError{fmt.Sprintf("optimize.exit_candidates[%d]", i), "must be >= 0"}
		}
	}

	// === Analysis ===
	for i, m := range cfg.Analysis.PeriodsMonths {
		if m <= 0 {
			return ValidationError{fmt.Sprintf("analysis.periods_months[%d]", i), "must be > 0"}
		}
	}

	return nil
}
