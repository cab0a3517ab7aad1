package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server tuning, loadable from YAML. Zero-value fields
// fall back to the defaults below so a partial file is fine.
type Config struct {
	World   WorldConfig   `yaml:"world"`
	Match   MatchConfig   `yaml:"match"`
	Economy EconomyConfig `yaml:"economy"`
	Bots    BotConfig     `yaml:"bots"`
}

// WorldConfig describes the map geometry and static terrain.
type WorldConfig struct {
	MapRadius      float64 `yaml:"mapRadius"`
	MinY           float64 `yaml:"minY"`
	MaxY           float64 `yaml:"maxY"`
	ObstacleCount  int     `yaml:"obstacleCount"`
	LandmarkRadius float64 `yaml:"landmarkRadius"`
}

// MatchConfig drives the PLAYING/PODIUM/RESTARTING cycle.
type MatchConfig struct {
	PlayDuration     time.Duration `yaml:"playDuration"`
	PodiumDuration   time.Duration `yaml:"podiumDuration"`
	RestartCountdown time.Duration `yaml:"restartCountdown"`
	PodiumSize       int           `yaml:"podiumSize"`
}

// EconomyConfig drives the pickup spawners.
type EconomyConfig struct {
	ProcessorInterval time.Duration `yaml:"processorInterval"`
	ProcessorCap      int           `yaml:"processorCap"`
	CannonInterval    time.Duration `yaml:"cannonInterval"`
	CannonCap         int           `yaml:"cannonCap"`
}

// BotConfig selects how many bots run and with which strategy profile.
// Profiles are interchangeable tunings of the one strategy implementation;
// the shipped presets correspond to the classic five personalities.
type BotConfig struct {
	Count          int                   `yaml:"count"`
	DefaultProfile string                `yaml:"defaultProfile"`
	Profiles       map[string]BotProfile `yaml:"profiles"`
}

// BotProfile is the per-strategy tuning block.
type BotProfile struct {
	RetreatHealthPct float64       `yaml:"retreatHealthPct"` // drop to RETREATING below this health %
	RecoverHealthPct float64       `yaml:"recoverHealthPct"` // leave RETREATING above this health %
	DangerThreshold  float64       `yaml:"dangerThreshold"`  // accumulated danger forcing retreat
	AggressionPower  int           `yaml:"aggressionPower"`  // min own power before hunting players
	FlankTriggerDist float64       `yaml:"flankTriggerDist"` // switch ATTACKING -> FLANKING beyond this
	SafetyMargin     float64       `yaml:"safetyMargin"`     // obstacle clearance margin
	CannonWeight     float64       `yaml:"cannonWeight"`     // collect-score boost for cannons under cap
	ReevalInterval   time.Duration `yaml:"reevalInterval"`

	// Base collect priority per stat kind; need adjustments multiply these.
	CollectWeights map[string]float64 `yaml:"collectWeights"`
}

// DefaultConfig returns the built-in tuning.
func DefaultConfig() Config {
	return Config{
		World: WorldConfig{
			MapRadius:      500,
			MinY:           0,
			MaxY:           60,
			ObstacleCount:  40,
			LandmarkRadius: 30,
		},
		Match: MatchConfig{
			PlayDuration:     5 * time.Minute,
			PodiumDuration:   10 * time.Second,
			RestartCountdown: 5 * time.Second,
			PodiumSize:       3,
		},
		Economy: EconomyConfig{
			ProcessorInterval: 3 * time.Second,
			ProcessorCap:      300,
			CannonInterval:    45 * time.Second,
			CannonCap:         10,
		},
		Bots: BotConfig{
			Count:          8,
			DefaultProfile: "balanced",
			Profiles:       DefaultBotProfiles(),
		},
	}
}

// DefaultBotProfiles returns the shipped strategy presets.
func DefaultBotProfiles() map[string]BotProfile {
	base := map[string]float64{
		StatAttack: 1.0, StatAttackSpeed: 1.0, StatRange: 1.0,
		StatSpeed: 1.0, StatRepairSpeed: 0.8, StatResistance: 1.0, StatHP: 1.2,
	}
	mk := func(m map[string]float64) map[string]float64 {
		out := make(map[string]float64, len(base))
		for k, v := range base {
			out[k] = v
		}
		for k, v := range m {
			out[k] = v
		}
		return out
	}
	return map[string]BotProfile{
		"balanced": {
			RetreatHealthPct: 40, RecoverHealthPct: 80, DangerThreshold: 50,
			AggressionPower: 10, FlankTriggerDist: 60, SafetyMargin: 3,
			CannonWeight: 2.5, ReevalInterval: 500 * time.Millisecond,
			CollectWeights: mk(nil),
		},
		"aggressive": {
			RetreatHealthPct: 25, RecoverHealthPct: 60, DangerThreshold: 80,
			AggressionPower: 6, FlankTriggerDist: 80, SafetyMargin: 2,
			CannonWeight: 3.0, ReevalInterval: 400 * time.Millisecond,
			CollectWeights: mk(map[string]float64{StatAttack: 1.6, StatAttackSpeed: 1.4}),
		},
		"cautious": {
			RetreatHealthPct: 55, RecoverHealthPct: 90, DangerThreshold: 30,
			AggressionPower: 16, FlankTriggerDist: 50, SafetyMargin: 5,
			CannonWeight: 2.0, ReevalInterval: 600 * time.Millisecond,
			CollectWeights: mk(map[string]float64{StatResistance: 1.6, StatHP: 1.8}),
		},
		"greedy": {
			RetreatHealthPct: 35, RecoverHealthPct: 75, DangerThreshold: 55,
			AggressionPower: 20, FlankTriggerDist: 60, SafetyMargin: 3,
			CannonWeight: 4.0, ReevalInterval: 500 * time.Millisecond,
			CollectWeights: mk(map[string]float64{StatSpeed: 1.5}),
		},
		"skirmisher": {
			RetreatHealthPct: 45, RecoverHealthPct: 70, DangerThreshold: 45,
			AggressionPower: 8, FlankTriggerDist: 40, SafetyMargin: 4,
			CannonWeight: 2.5, ReevalInterval: 350 * time.Millisecond,
			CollectWeights: mk(map[string]float64{StatRange: 1.6, StatSpeed: 1.4}),
		},
	}
}

// LoadConfig reads a YAML config file, applying defaults for absent fields.
// A missing path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults backfills zero values after a partial YAML load.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.World.MapRadius <= 0 {
		c.World.MapRadius = d.World.MapRadius
	}
	if c.World.MaxY <= c.World.MinY {
		c.World.MinY = d.World.MinY
		c.World.MaxY = d.World.MaxY
	}
	if c.World.ObstacleCount <= 0 {
		c.World.ObstacleCount = d.World.ObstacleCount
	}
	if c.World.LandmarkRadius <= 0 {
		c.World.LandmarkRadius = d.World.LandmarkRadius
	}
	if c.Match.PlayDuration <= 0 {
		c.Match.PlayDuration = d.Match.PlayDuration
	}
	if c.Match.PodiumDuration <= 0 {
		c.Match.PodiumDuration = d.Match.PodiumDuration
	}
	if c.Match.RestartCountdown <= 0 {
		c.Match.RestartCountdown = d.Match.RestartCountdown
	}
	if c.Match.PodiumSize <= 0 {
		c.Match.PodiumSize = d.Match.PodiumSize
	}
	if c.Economy.ProcessorInterval <= 0 {
		c.Economy.ProcessorInterval = d.Economy.ProcessorInterval
	}
	if c.Economy.ProcessorCap <= 0 {
		c.Economy.ProcessorCap = d.Economy.ProcessorCap
	}
	if c.Economy.CannonInterval <= 0 {
		c.Economy.CannonInterval = d.Economy.CannonInterval
	}
	if c.Economy.CannonCap <= 0 {
		c.Economy.CannonCap = d.Economy.CannonCap
	}
	if c.Bots.Count < 0 {
		c.Bots.Count = 0
	}
	if c.Bots.DefaultProfile == "" {
		c.Bots.DefaultProfile = d.Bots.DefaultProfile
	}
	if len(c.Bots.Profiles) == 0 {
		c.Bots.Profiles = d.Bots.Profiles
	}
}

// Profile resolves a profile by name, falling back to the default preset.
func (bc BotConfig) Profile(name string) BotProfile {
	if p, ok := bc.Profiles[name]; ok {
		return p
	}
	if p, ok := bc.Profiles[bc.DefaultProfile]; ok {
		return p
	}
	return DefaultBotProfiles()["balanced"]
}
