package main

import (
	"testing"
	"time"
)

func TestSpawnerAccumulators(t *testing.T) {
	g := newTestGame()
	g.mu.Lock()
	defer g.mu.Unlock()

	// 2.5 intervals worth of time spawns exactly 2 processors
	interval := g.economy.cfg.ProcessorInterval.Seconds()
	g.economy.Tick(g, interval*2.5)
	if len(g.world.processors) != 2 {
		t.Fatalf("processors = %d, want 2", len(g.world.processors))
	}
	// the half-interval remainder carries over
	g.economy.Tick(g, interval*0.5)
	if len(g.world.processors) != 3 {
		t.Fatalf("processors = %d, want 3", len(g.world.processors))
	}
}

func TestProcessorCap(t *testing.T) {
	g := newTestGame()
	g.mu.Lock()
	defer g.mu.Unlock()

	g.economy.cfg.ProcessorCap = 2
	for i := 0; i < 5; i++ {
		g.economy.spawnProcessor(g)
	}
	if len(g.world.processors) != 2 {
		t.Fatalf("processors = %d, want capped at 2", len(g.world.processors))
	}
}

func TestCannonSpawnPlacement(t *testing.T) {
	g := newTestGame()
	g.mu.Lock()
	defer g.mu.Unlock()

	g.economy.spawnCannon(g)
	if len(g.world.cannons) != 1 {
		t.Fatalf("cannons = %d, want 1", len(g.world.cannons))
	}
	for _, c := range g.world.cannons {
		d := c.Pos.HorizontalDist()
		lo := g.cfg.World.LandmarkRadius + CannonRingMin
		hi := g.cfg.World.LandmarkRadius + CannonRingMax
		if d < lo-1e-9 || d > hi+1e-9 {
			t.Fatalf("cannon at dist %v, want [%v, %v]", d, lo, hi)
		}
	}
}

func TestCollectProcessor(t *testing.T) {
	g := newTestGame()
	p, rec := addHuman(t, g, "scooper", Vec3{X: 100, Y: 0, Z: 0})

	proc := NewProcessor(StatHP, Vec3{X: 101, Y: 0, Z: 0})
	g.mu.Lock()
	g.world.SetProcessor(proc)
	g.mu.Unlock()

	g.HandleCollect(p.ID, proc.ID)

	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.world.Processor(proc.ID) != nil {
		t.Fatal("collected processor still in the store")
	}
	if p.HP != 101 || p.MaxHP != 101 {
		t.Fatalf("hp boost missing: hp=%d max=%d", p.HP, p.MaxHP)
	}
	if p.Power() != 1 {
		t.Fatalf("power = %d, want 1", p.Power())
	}
	if !rec.has(MsgProcCollected) || !rec.has(MsgPlayerUpdated) {
		t.Fatal("collection not broadcast")
	}
}

func TestCollectOutOfReach(t *testing.T) {
	g := newTestGame()
	p, _ := addHuman(t, g, "reacher", Vec3{X: 100, Y: 0, Z: 0})

	// fresh player reach is 2.0 * scale 1.0
	proc := NewProcessor(StatAttack, Vec3{X: 103, Y: 0, Z: 0})
	g.mu.Lock()
	g.world.SetProcessor(proc)
	g.mu.Unlock()

	g.HandleCollect(p.ID, proc.ID)

	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.world.Processor(proc.ID) == nil {
		t.Fatal("out-of-reach pickup consumed")
	}
	if p.Power() != 0 {
		t.Fatal("out-of-reach pickup granted power")
	}
}

func TestCollectStaleIDIsBenign(t *testing.T) {
	g := newTestGame()
	p, _ := addHuman(t, g, "racer", Vec3{X: 100, Y: 0, Z: 0})

	proc := NewProcessor(StatAttack, Vec3{X: 101, Y: 0, Z: 0})
	g.mu.Lock()
	g.world.SetProcessor(proc)
	g.mu.Unlock()

	g.HandleCollect(p.ID, proc.ID)
	g.HandleCollect(p.ID, proc.ID) // second claim races against the first

	g.mu.RLock()
	defer g.mu.RUnlock()
	if p.Power() != 1 {
		t.Fatalf("power = %d, want exactly 1 from a double claim", p.Power())
	}
}

func TestCollectCannonCap(t *testing.T) {
	g := newTestGame()
	p, _ := addHuman(t, g, "arsenal", Vec3{X: 100, Y: 0, Z: 0})

	g.mu.Lock()
	p.SideCannons = MaxSideCannons
	c := NewCannon(Vec3{X: 101, Y: 0, Z: 0})
	g.world.SetCannon(c)
	g.mu.Unlock()

	g.HandleCollectCannon(p.ID, c.ID)

	g.mu.RLock()
	defer g.mu.RUnlock()
	if p.SideCannons != MaxSideCannons {
		t.Fatalf("side cannons = %d, exceeded the cap", p.SideCannons)
	}
	// the pickup stays for someone who can still use it
	if g.world.Cannon(c.ID) == nil {
		t.Fatal("capped collect consumed the pickup")
	}
}

func TestCollectCannon(t *testing.T) {
	g := newTestGame()
	p, rec := addHuman(t, g, "gunsmith", Vec3{X: 100, Y: 0, Z: 0})

	c := NewCannon(Vec3{X: 101, Y: 0, Z: 0})
	g.mu.Lock()
	g.world.SetCannon(c)
	g.mu.Unlock()

	g.HandleCollectCannon(p.ID, c.ID)

	g.mu.RLock()
	defer g.mu.RUnlock()
	if p.SideCannons != 1 {
		t.Fatalf("side cannons = %d, want 1", p.SideCannons)
	}
	if g.world.Cannon(c.ID) != nil {
		t.Fatal("collected cannon still in the store")
	}
	if !rec.has(MsgCannonCollected) {
		t.Fatal("collection not broadcast")
	}
}

func TestLootDropHalvesCounts(t *testing.T) {
	g := newTestGame()
	v, _ := addHuman(t, g, "loser", Vec3{X: 100, Y: 0, Z: 0})

	g.mu.Lock()
	for i := 0; i < 5; i++ {
		v.ApplyBoost(StatAttack)
	}
	for i := 0; i < 3; i++ {
		v.ApplyBoost(StatRange)
	}
	v.ApplyBoost(StatHP) // count 1 floors to 0 drops
	g.economy.LootDrop(g, v)

	kinds := map[string]int{}
	for _, p := range g.world.processors {
		kinds[p.Kind]++
	}
	g.mu.Unlock()

	if kinds[StatAttack] != 2 || kinds[StatRange] != 1 || kinds[StatHP] != 0 {
		t.Fatalf("loot drops = %v, want attack:2 range:1 hp:0", kinds)
	}
}

func TestEconomyReset(t *testing.T) {
	e := NewEconomy(DefaultConfig().Economy, DefaultConfig().World)
	e.procAcc = 2 * time.Second
	e.cannonAcc = 30 * time.Second
	e.Reset()
	if e.procAcc != 0 || e.cannonAcc != 0 {
		t.Fatal("reset left accumulator residue")
	}
}
