package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the runtime-wide set of defaults loaded from an optional YAML or
// JSON5 file via Load. Nothing in the core package requires a config file to
// exist: every default here also exists as a Go constant at its point of use
// (agent.DefaultMaxToolIterations, contextstrategy.TrimThreshold, and so on).
// Load exists for operators who want to override those defaults without
// recompiling.
type Config struct {
	LLM           LLMConfig           `yaml:"llm"`
	Memory        MemoryConfig        `yaml:"memory"`
	Context       ContextConfig       `yaml:"context"`
	Orchestration OrchestrationConfig `yaml:"orchestration"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// LLMConfig holds runtime-wide LLM session defaults.
type LLMConfig struct {
	// DefaultMaxTokens seeds a new Session's token budget when the caller
	// doesn't specify one.
	DefaultMaxTokens int `yaml:"default_max_tokens"`

	// DefaultMaxToolIterations caps tool-call round-trips within a single
	// Agent.Send call; an Agent's own metadata override may only lower it.
	DefaultMaxToolIterations int `yaml:"default_max_tool_iterations"`
}

// MemoryConfig holds Memory Store background-sweep settings.
type MemoryConfig struct {
	// SweepInterval is how often the background sweeper reaps expired
	// entries. Zero means use the package default (1s).
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// ContextConfig holds the usage-ratio thresholds that drive the
// context-compaction strategies.
type ContextConfig struct {
	TrimThreshold             float64 `yaml:"trim_threshold"`
	SelfCompressionThreshold  float64 `yaml:"self_compression_threshold"`
	NoveltyAwareHighRatio     float64 `yaml:"novelty_aware_high_ratio"`
	NoveltyAwareModerateRatio float64 `yaml:"novelty_aware_moderate_ratio"`
	NoveltyThreshold          float64 `yaml:"novelty_threshold"`
}

// OrchestrationConfig holds defaults for orchestration runs that don't
// specify their own bound.
type OrchestrationConfig struct {
	// DebateConvergenceThreshold is the default early-stop threshold for
	// Debate mode when a run doesn't set RunOptions.ConvergenceThreshold.
	DebateConvergenceThreshold float64 `yaml:"debate_convergence_threshold"`

	// DefaultMaxIterations bounds Ralph and AnthropicAgentTeams runs that
	// don't set RunOptions.MaxIterations.
	DefaultMaxIterations int `yaml:"default_max_iterations"`
}

// LoggingConfig mirrors observability.LogConfig's fields so it can be
// populated straight from a loaded Config.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// defaultConfig mirrors the package-level constants used when no config
// file is loaded at all.
func defaultConfig() Config {
	return Config{
		LLM: LLMConfig{
			DefaultMaxTokens:         8192,
			DefaultMaxToolIterations: 5,
		},
		Memory: MemoryConfig{
			SweepInterval: time.Second,
		},
		Context: ContextConfig{
			TrimThreshold:             0.85,
			SelfCompressionThreshold:  0.80,
			NoveltyAwareHighRatio:     0.90,
			NoveltyAwareModerateRatio: 0.70,
			NoveltyThreshold:          0.30,
		},
		Orchestration: OrchestrationConfig{
			DebateConvergenceThreshold: 0.75,
			DefaultMaxIterations:       10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads path (YAML or JSON5, resolving $include directives and
// expanding environment variables), applies defaultConfig for any zero
// field, and validates the result.
func Load(path string) (*Config, error) {
	raw, err := LoadRaw(path)
	if err != nil {
		return nil, err
	}
	cfg, err := decodeRawConfig(raw)
	if err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	d := defaultConfig()
	if cfg.LLM.DefaultMaxTokens == 0 {
		cfg.LLM.DefaultMaxTokens = d.LLM.DefaultMaxTokens
	}
	if cfg.LLM.DefaultMaxToolIterations == 0 {
		cfg.LLM.DefaultMaxToolIterations = d.LLM.DefaultMaxToolIterations
	}
	if cfg.Memory.SweepInterval == 0 {
		cfg.Memory.SweepInterval = d.Memory.SweepInterval
	}
	if cfg.Context.TrimThreshold == 0 {
		cfg.Context.TrimThreshold = d.Context.TrimThreshold
	}
	if cfg.Context.SelfCompressionThreshold == 0 {
		cfg.Context.SelfCompressionThreshold = d.Context.SelfCompressionThreshold
	}
	if cfg.Context.NoveltyAwareHighRatio == 0 {
		cfg.Context.NoveltyAwareHighRatio = d.Context.NoveltyAwareHighRatio
	}
	if cfg.Context.NoveltyAwareModerateRatio == 0 {
		cfg.Context.NoveltyAwareModerateRatio = d.Context.NoveltyAwareModerateRatio
	}
	if cfg.Context.NoveltyThreshold == 0 {
		cfg.Context.NoveltyThreshold = d.Context.NoveltyThreshold
	}
	if cfg.Orchestration.DebateConvergenceThreshold == 0 {
		cfg.Orchestration.DebateConvergenceThreshold = d.Orchestration.DebateConvergenceThreshold
	}
	if cfg.Orchestration.DefaultMaxIterations == 0 {
		cfg.Orchestration.DefaultMaxIterations = d.Orchestration.DefaultMaxIterations
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = d.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = d.Logging.Format
	}
}

// ConfigValidationError collects every validation issue found in one pass,
// rather than failing on the first.
type ConfigValidationError struct {
	Issues []string
}

func (e *ConfigValidationError) Error() string {
	return "config validation failed:\n- " + strings.Join(e.Issues, "\n- ")
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	var issues []string

	if cfg.LLM.DefaultMaxTokens <= 0 {
		issues = append(issues, "llm.default_max_tokens must be > 0")
	}
	if cfg.LLM.DefaultMaxToolIterations <= 0 {
		issues = append(issues, "llm.default_max_tool_iterations must be > 0")
	}
	if cfg.Memory.SweepInterval < 0 {
		issues = append(issues, "memory.sweep_interval must be >= 0")
	}
	if !validRatio(cfg.Context.TrimThreshold) {
		issues = append(issues, "context.trim_threshold must be in (0, 1]")
	}
	if !validRatio(cfg.Context.SelfCompressionThreshold) {
		issues = append(issues, "context.self_compression_threshold must be in (0, 1]")
	}
	if !validRatio(cfg.Context.NoveltyAwareHighRatio) {
		issues = append(issues, "context.novelty_aware_high_ratio must be in (0, 1]")
	}
	if !validRatio(cfg.Context.NoveltyAwareModerateRatio) {
		issues = append(issues, "context.novelty_aware_moderate_ratio must be in (0, 1]")
	}
	if cfg.Context.NoveltyAwareModerateRatio > cfg.Context.NoveltyAwareHighRatio {
		issues = append(issues, "context.novelty_aware_moderate_ratio must be <= novelty_aware_high_ratio")
	}
	if cfg.Context.NoveltyThreshold < 0 || cfg.Context.NoveltyThreshold > 1 {
		issues = append(issues, "context.novelty_threshold must be in [0, 1]")
	}
	if !validRatio(cfg.Orchestration.DebateConvergenceThreshold) {
		issues = append(issues, "orchestration.debate_convergence_threshold must be in (0, 1]")
	}
	if cfg.Orchestration.DefaultMaxIterations <= 0 {
		issues = append(issues, "orchestration.default_max_iterations must be > 0")
	}
	if !validLogLevel(cfg.Logging.Level) {
		issues = append(issues, fmt.Sprintf("logging.level %q must be one of debug, info, warn, error", cfg.Logging.Level))
	}
	if !validLogFormat(cfg.Logging.Format) {
		issues = append(issues, fmt.Sprintf("logging.format %q must be json or text", cfg.Logging.Format))
	}

	if len(issues) > 0 {
		return &ConfigValidationError{Issues: issues}
	}
	return nil
}

func validRatio(v float64) bool {
	return v > 0 && v <= 1
}

func validLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
		return true
	default:
		return false
	}
}

func validLogFormat(format string) bool {
	switch strings.ToLower(format) {
	case "json", "text":
		return true
	default:
		return false
	}
}
