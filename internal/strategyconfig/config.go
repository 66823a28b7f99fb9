package strategyconfig

import "time"

// Config는 페어 트레이딩 전략의 전체 설정
type Config struct {
	Meta     Meta     `yaml:"meta" json:"meta"`
	Universe Universe `yaml:"universe" json:"universe"`
	Scan     Scan     `yaml:"scan" json:"scan"`
	Backtest Backtest `yaml:"backtest" json:"backtest"`
	Optimize Optimize `yaml:"optimize" json:"optimize"`
	Analysis Analysis `yaml:"analysis" json:"analysis"`
}

// Meta 메타 정보
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
	Timezone   string `yaml:"timezone" json:"timezone"`
}

// Universe 스캔 대상 풀
type Universe struct {
	Symbols      []string `yaml:"symbols" json:"symbols"`
	LookbackDays int      `yaml:"lookback_days" json:"lookback_days"`
}

// Scan 페어 발굴 파라미터
type Scan struct {
	CorrelationThreshold float64 `yaml:"correlation_threshold" json:"correlation_threshold"`
	PValueThreshold      float64 `yaml:"p_value_threshold" json:"p_value_threshold"`
	MinObservations      int     `yaml:"min_observations" json:"min_observations"`
	HalfLifeCapDays      float64 `yaml:"half_life_cap_days" json:"half_life_cap_days"`
}

// Backtest 시뮬레이션 파라미터
type Backtest struct {
	EntryZ float64 `yaml:"entry_z" json:"entry_z"`
	ExitZ  float64 `yaml:"exit_z" json:"exit_z"`
	Window int     `yaml:"window" json:"window"` // 0 = min(60, n/4)
}

// Optimize 임계값 탐색 그리드
type Optimize struct {
	EntryCandidates []float64 `yaml:"entry_candidates" json:"entry_candidates"`
	ExitCandidates  []float64 `yaml:"exit_candidates" json:"exit_candidates"`
}

// Analysis 기간별 분석 파라미터
type Analysis struct {
	PeriodsMonths []int `yaml:"periods_months" json:"periods_months"`
}

// DecisionSnapshot 의사결정 스냅샷 (재현성용)
type DecisionSnapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigYAML string    `json:"config_yaml"`
	StrategyID string    `json:"strategy_id"`
	CreatedAt  time.Time `json:"created_at"`
}
