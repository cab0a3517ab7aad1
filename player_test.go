package main

import "testing"

func TestMitigateDamage(t *testing.T) {
	if got := MitigateDamage(10, 0); got != 10 {
		t.Fatalf("no resistance: %d, want 10", got)
	}
	if got := MitigateDamage(10, 100); got != 5 {
		t.Fatalf("100 resistance: %d, want 5", got)
	}
	// diminishing returns, never full immunity
	if got := MitigateDamage(10, 10000); got != 1 {
		t.Fatalf("extreme resistance: %d, want floor of 1", got)
	}
	if got := MitigateDamage(0, 50); got != 0 {
		t.Fatalf("zero raw: %d, want 0", got)
	}
	// monotone: more resistance never means more damage
	prev := MitigateDamage(40, 0)
	for r := 10.0; r <= 300; r += 10 {
		cur := MitigateDamage(40, r)
		if cur > prev {
			t.Fatalf("damage rose from %d to %d at resistance %v", prev, cur, r)
		}
		prev = cur
	}
}

func TestTakeDamage(t *testing.T) {
	p := NewPlayer("p1", "x", false, 500)
	if died := p.TakeDamage(30); died {
		t.Fatal("30 damage should not kill a fresh player")
	}
	if p.HP != 70 {
		t.Fatalf("hp = %d, want 70", p.HP)
	}
	if died := p.TakeDamage(200); !died {
		t.Fatal("overkill must report death")
	}
	if p.HP != 0 || p.Alive {
		t.Fatalf("dead player hp=%d alive=%v", p.HP, p.Alive)
	}
	// dead players absorb nothing further
	if died := p.TakeDamage(10); died {
		t.Fatal("dead player died twice")
	}
}

func TestApplyBoost(t *testing.T) {
	p := NewPlayer("p1", "x", false, 500)
	base := p.Stats

	p.ApplyBoost(StatAttack)
	if p.Stats.Attack != base.Attack+1 {
		t.Fatalf("attack = %v", p.Stats.Attack)
	}
	p.ApplyBoost(StatHP)
	if p.MaxHP != PlayerMaxHP+1 || p.HP != PlayerMaxHP+1 {
		t.Fatalf("hp boost gave hp=%d max=%d", p.HP, p.MaxHP)
	}
	p.ApplyBoost("bogus")
	if p.Power() != 2 {
		t.Fatalf("power = %d, want 2", p.Power())
	}
	if !almostEq(p.Scale(), 1+2*ScalePerPower) {
		t.Fatalf("scale = %v", p.Scale())
	}
	if !almostEq(p.HitRadius(), PlayerHitBase*p.Scale()) {
		t.Fatalf("hit radius = %v", p.HitRadius())
	}
}

func TestRepairAccumulator(t *testing.T) {
	p := NewPlayer("p1", "x", false, 500)
	p.HP = 50
	p.Stats.RepairSpeed = 0.5

	// 0.5 hp accumulated, below one whole point
	if p.Repair(1.0) {
		t.Fatal("half a point should not heal yet")
	}
	if p.HP != 50 {
		t.Fatalf("hp moved early: %d", p.HP)
	}
	// second second tips the accumulator over
	if !p.Repair(1.0) {
		t.Fatal("accumulated point did not heal")
	}
	if p.HP != 51 {
		t.Fatalf("hp = %d, want 51", p.HP)
	}

	// never past max
	p.HP = p.MaxHP - 1
	p.Stats.RepairSpeed = 100
	p.Repair(1.0)
	if p.HP != p.MaxHP {
		t.Fatalf("hp = %d, want clamped at %d", p.HP, p.MaxHP)
	}
}

func TestSpawnRing(t *testing.T) {
	for i := 0; i < 50; i++ {
		p := NewPlayer("p", "x", false, 500)
		d := p.Pos.HorizontalDist()
		if d < 500*SpawnRingMin-1e-9 || d > 500*SpawnRingMax+1e-9 {
			t.Fatalf("spawned at dist %v", d)
		}
	}
}

func TestResetForMatch(t *testing.T) {
	p := NewPlayer("p1", "keeper", false, 500)
	p.ApplyBoost(StatSpeed)
	p.ApplyBoost(StatHP)
	p.SideCannons = 3
	p.HP = 10
	p.Alive = false
	p.LastShotMs = 12345

	p.ResetForMatch(500)
	if p.Name != "keeper" {
		t.Fatal("name must survive a reset")
	}
	if p.Power() != 0 || p.SideCannons != 0 {
		t.Fatalf("progress survived: power=%d cannons=%d", p.Power(), p.SideCannons)
	}
	if p.Stats != DefaultStats() {
		t.Fatalf("stats = %+v", p.Stats)
	}
	if p.HP != PlayerMaxHP || p.MaxHP != PlayerMaxHP || !p.Alive {
		t.Fatalf("hp=%d max=%d alive=%v", p.HP, p.MaxHP, p.Alive)
	}
	if p.LastShotMs != 0 {
		t.Fatal("fire cooldown survived the reset")
	}
}

func TestCloneIndependence(t *testing.T) {
	p := NewPlayer("p1", "x", false, 500)
	p.ApplyBoost(StatAttack)

	c := p.Clone()
	c.Collected[StatAttack] = 99
	c.HP = 1

	if p.Collected[StatAttack] != 1 {
		t.Fatal("clone mutation leaked into the original map")
	}
	if p.HP != PlayerMaxHP {
		t.Fatal("clone mutation leaked into the original fields")
	}
}
