package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file must fall back to defaults, got %v", err)
	}
	if cfg.World.MapRadius != 500 {
		t.Fatalf("map radius = %v, want default 500", cfg.World.MapRadius)
	}
	if len(cfg.Bots.Profiles) == 0 {
		t.Fatal("default profiles missing")
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("world:\n  mapRadius: 250\nbots:\n  count: 2\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.World.MapRadius != 250 {
		t.Fatalf("map radius = %v, want 250", cfg.World.MapRadius)
	}
	if cfg.Bots.Count != 2 {
		t.Fatalf("bot count = %v, want 2", cfg.Bots.Count)
	}
	// everything unstated backfills from defaults
	if cfg.World.ObstacleCount != 40 {
		t.Fatalf("obstacle count = %v, want default 40", cfg.World.ObstacleCount)
	}
	if cfg.Match.PodiumSize != 3 {
		t.Fatalf("podium size = %v, want default 3", cfg.Match.PodiumSize)
	}
	if len(cfg.Bots.Profiles) == 0 {
		t.Fatal("profiles not backfilled")
	}
}

func TestLoadConfigCustomProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`bots:
  defaultProfile: custom
  profiles:
    custom:
      retreatHealthPct: 33
      recoverHealthPct: 70
      dangerThreshold: 40
      collectWeights:
        hp: 2.5
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	p := cfg.Bots.Profile("custom")
	if p.RetreatHealthPct != 33 || p.RecoverHealthPct != 70 {
		t.Fatalf("profile thresholds = %+v", p)
	}
	if p.CollectWeights["hp"] != 2.5 {
		t.Fatalf("collect weights = %v", p.CollectWeights)
	}
	if cfg.Bots.DefaultProfile != "custom" {
		t.Fatalf("default profile = %q", cfg.Bots.DefaultProfile)
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("world: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("malformed yaml accepted")
	}
}

func TestProfileResolution(t *testing.T) {
	bc := DefaultConfig().Bots

	if p := bc.Profile("aggressive"); p.RetreatHealthPct != 25 {
		t.Fatalf("aggressive profile retreat = %v", p.RetreatHealthPct)
	}
	// unknown names resolve to the default preset
	def := bc.Profile(bc.DefaultProfile)
	if p := bc.Profile("no-such-profile"); p.RetreatHealthPct != def.RetreatHealthPct {
		t.Fatal("unknown profile did not fall back to the default")
	}
}

func TestProfilePresetsAreDistinct(t *testing.T) {
	profiles := DefaultBotProfiles()
	if len(profiles) != 5 {
		t.Fatalf("presets = %d, want 5", len(profiles))
	}
	if profiles["aggressive"].AggressionPower >= profiles["cautious"].AggressionPower {
		t.Fatal("aggressive preset should hunt earlier than cautious")
	}
	if profiles["cautious"].RetreatHealthPct <= profiles["aggressive"].RetreatHealthPct {
		t.Fatal("cautious preset should retreat earlier than aggressive")
	}
}
