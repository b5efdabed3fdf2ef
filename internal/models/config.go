package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RewardWeights scales per-resource progress in the Q-learning reward
type RewardWeights struct {
	Mox float64 `yaml:"mox"`
	Aga float64 `yaml:"aga"`
	Lye float64 `yaml:"lye"`
}

// QLearningConfig holds hyperparameters for the tabular learner
type QLearningConfig struct {
	Alpha       float64       `yaml:"alpha"`
	Gamma       float64       `yaml:"gamma"`
	Epsilon     float64       `yaml:"epsilon"`
	BinWidth    int           `yaml:"bin_width"`
	StepPenalty float64       `yaml:"step_penalty"`
	Weights     RewardWeights `yaml:"reward_weights"`
}

// ScoreConfig holds hyperparameters for the combo-score learner
type ScoreConfig struct {
	Alpha          float64 `yaml:"alpha"`
	Epsilon        float64 `yaml:"epsilon"`
	BaselineWindow int     `yaml:"baseline_window"`
	ReportWindow   int     `yaml:"report_window"`
	ShiftEpsilon   float64 `yaml:"shift_epsilon"`
}

// TrainingConfig is the YAML document accepted by the training commands
type TrainingConfig struct {
	Episodes int       `yaml:"episodes"`
	Seed     uint64    `yaml:"seed"`
	Workers  int       `yaml:"workers"`
	MaxSteps int       `yaml:"max_steps"`
	Targets  Resources `yaml:"targets"`

	QLearning QLearningConfig `yaml:"q_learning"`
	Scores    ScoreConfig     `yaml:"scores"`
}

// DefaultTrainingConfig returns the default hyperparameters
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Episodes: 10000,
		Seed:     1,
		Workers:  1,
		MaxSteps: 1_000_000,
		Targets:  DefaultTargets,
		QLearning: QLearningConfig{
			Alpha:       0.1,
			Gamma:       0.95,
			Epsilon:     0.1,
			BinWidth:    5000,
			StepPenalty: 1,
			Weights:     RewardWeights{Mox: 10, Aga: 1, Lye: 100},
		},
		Scores: ScoreConfig{
			Alpha:          0.1,
			Epsilon:        0.1,
			BaselineWindow: 100,
			ReportWindow:   50,
			ShiftEpsilon:   1e-3,
		},
	}
}

// LoadTrainingConfig reads a YAML file over the defaults
func LoadTrainingConfig(path string) (TrainingConfig, error) {
	cfg := DefaultTrainingConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid training config %s: %w", path, err)
	}
	return cfg, nil
}

// ValidateTrainingConfig rejects out-of-range hyperparameters
func ValidateTrainingConfig(c TrainingConfig) error {
	switch {
	case c.Episodes < 0:
		return fmt.Errorf("%w: episodes must be >= 0, got %d", ErrConfiguration, c.Episodes)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrConfiguration, c.Workers)
	case c.MaxSteps < 1:
		return fmt.Errorf("%w: max_steps must be >= 1, got %d", ErrConfiguration, c.MaxSteps)
	case c.Targets.Mox < 0 || c.Targets.Aga < 0 || c.Targets.Lye < 0:
		return fmt.Errorf("%w: targets must be non-negative", ErrConfiguration)
	}

	q := c.QLearning
	if err := checkRate("q_learning.alpha", q.Alpha, false); err != nil {
		return err
	}
	if err := checkRate("q_learning.gamma", q.Gamma, true); err != nil {
		return err
	}
	if err := checkRate("q_learning.epsilon", q.Epsilon, true); err != nil {
		return err
	}
	if q.BinWidth < 1 {
		return fmt.Errorf("%w: q_learning.bin_width must be >= 1, got %d", ErrConfiguration, q.BinWidth)
	}

	s := c.Scores
	if s.Alpha <= 0 {
		return fmt.Errorf("%w: scores.alpha must be > 0, got %g", ErrConfiguration, s.Alpha)
	}
	if err := checkRate("scores.epsilon", s.Epsilon, true); err != nil {
		return err
	}
	if s.BaselineWindow < 1 || s.ReportWindow < 1 {
		return fmt.Errorf("%w: score windows must be >= 1", ErrConfiguration)
	}
	if s.ShiftEpsilon <= 0 {
		return fmt.Errorf("%w: scores.shift_epsilon must be > 0, got %g", ErrConfiguration, s.ShiftEpsilon)
	}
	return nil
}

// checkRate requires v in (0,1], or [0,1] when zero is allowed
func checkRate(name string, v float64, allowZero bool) error {
	if v > 1 || v < 0 || (!allowZero && v == 0) {
		return fmt.Errorf("%w: %s out of range: %g", ErrConfiguration, name, v)
	}
	return nil
}
