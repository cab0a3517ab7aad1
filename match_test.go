package main

import (
	"testing"
	"time"
)

func boostN(p *Player, kind string, n int) {
	for i := 0; i < n; i++ {
		p.ApplyBoost(kind)
	}
}

func TestComputeWinnersOrdering(t *testing.T) {
	g := newTestGame()
	a, _ := addHuman(t, g, "bronze", Vec3{X: 10, Y: 0, Z: 0})
	b, _ := addHuman(t, g, "gold", Vec3{X: 20, Y: 0, Z: 0})
	c, _ := addHuman(t, g, "silver", Vec3{X: 30, Y: 0, Z: 0})
	d, _ := addHuman(t, g, "fourth", Vec3{X: 40, Y: 0, Z: 0})

	g.mu.Lock()
	boostN(a, StatAttack, 3)
	boostN(b, StatAttack, 12)
	boostN(c, StatAttack, 7)
	boostN(d, StatAttack, 1)
	winners := g.computeWinners()
	g.mu.Unlock()

	if len(winners) != 3 {
		t.Fatalf("podium size = %d, want 3", len(winners))
	}
	want := []string{b.ID, c.ID, a.ID}
	for i, w := range winners {
		if w.ID != want[i] {
			t.Fatalf("podium[%d] = %s (%s), want %s", i, w.ID, w.Name, want[i])
		}
	}
	if winners[0].Power != 12 {
		t.Fatalf("winner power = %d, want 12", winners[0].Power)
	}
}

func TestComputeWinnersTieBreak(t *testing.T) {
	g := newTestGame()
	first, _ := addHuman(t, g, "early", Vec3{X: 10, Y: 0, Z: 0})
	second, _ := addHuman(t, g, "late", Vec3{X: 20, Y: 0, Z: 0})

	g.mu.Lock()
	boostN(first, StatAttack, 5)
	boostN(second, StatAttack, 5)
	winners := g.computeWinners()
	g.mu.Unlock()

	// equal power resolves by join order
	if winners[0].ID != first.ID {
		t.Fatalf("tie went to %s, want the earlier joiner", winners[0].Name)
	}
}

func TestMatchPhaseCycle(t *testing.T) {
	g := newTestGame()
	_, rec := addHuman(t, g, "watcher", Vec3{X: 100, Y: 0, Z: 0})

	g.mu.Lock()
	m := g.world.Match()
	firstID := m.ID

	// play time exhausted
	m.PhaseAt = time.Now().Add(-g.cfg.Match.PlayDuration - time.Second)
	g.tickMatch(time.Now())
	if m.Phase != PhasePodium {
		t.Fatalf("phase = %v, want PODIUM", m.Phase)
	}
	if m.EndedAt.IsZero() {
		t.Fatal("EndedAt not stamped")
	}

	// podium display over
	m.PhaseAt = time.Now().Add(-g.cfg.Match.PodiumDuration - time.Second)
	g.tickMatch(time.Now())
	if m.Phase != PhaseRestarting {
		t.Fatalf("phase = %v, want RESTARTING", m.Phase)
	}

	// countdown over: a fresh match begins
	m.PhaseAt = time.Now().Add(-g.cfg.Match.RestartCountdown - time.Second)
	g.tickMatch(time.Now())
	m = g.world.Match()
	if m.Phase != PhasePlaying {
		t.Fatalf("phase = %v, want PLAYING", m.Phase)
	}
	if m.ID == firstID {
		t.Fatal("restart reused the old match id")
	}
	g.mu.Unlock()

	for _, msg := range []string{MsgMatchEnded, MsgMatchRestarting, MsgMatchRestarted, MsgRefresh} {
		if !rec.has(msg) {
			t.Fatalf("lifecycle message %q never broadcast", msg)
		}
	}
}

func TestRestartReinstatesHumans(t *testing.T) {
	g := newTestGame()
	p, _ := addHuman(t, g, "survivor", Vec3{X: 100, Y: 0, Z: 0})

	g.mu.Lock()
	boostN(p, StatSpeed, 6)
	p.SideCannons = 2
	p.HP = 7
	g.world.SetProcessor(NewProcessor(StatAttack, Vec3{X: 5}))
	g.world.SetProjectile(&Projectile{ID: "stray", OwnerID: p.ID})

	g.restartMatch(time.Now())

	if p.Power() != 0 || p.SideCannons != 0 {
		t.Fatalf("progress survived restart: power=%d cannons=%d", p.Power(), p.SideCannons)
	}
	if p.HP != PlayerMaxHP || !p.Alive {
		t.Fatalf("player not reinstated: hp=%d alive=%v", p.HP, p.Alive)
	}
	if p.Name != "survivor" {
		t.Fatal("name lost across restart")
	}
	if len(g.world.processors) != 0 || len(g.world.projectiles) != 0 {
		t.Fatal("transient entities survived restart")
	}
	if g.world.Structure("landmark") == nil {
		t.Fatal("terrain not regenerated")
	}
	g.mu.Unlock()
}

func TestPodiumFreezesSimulation(t *testing.T) {
	g := newTestGame()
	p, _ := addHuman(t, g, "idle", Vec3{X: 100, Y: 0, Z: 0})

	g.mu.Lock()
	g.world.Match().Phase = PhasePodium
	g.world.Match().PhaseAt = time.Now()
	p.HP = 50
	p.Stats.RepairSpeed = 100
	g.mu.Unlock()

	g.update()

	g.mu.RLock()
	defer g.mu.RUnlock()
	if p.HP != 50 {
		t.Fatal("simulation ran during the podium phase")
	}
	if len(g.world.processors) != 0 {
		t.Fatal("spawners ran during the podium phase")
	}
}
