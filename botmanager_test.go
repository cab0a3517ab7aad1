package main

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func newBotGame(count int) *Game {
	cfg := DefaultConfig()
	cfg.Bots.Count = count
	return NewGame(cfg, zap.NewNop())
}

func TestSpawnAllPopulation(t *testing.T) {
	g := newBotGame(6)
	if got := g.BotCount(); got != 6 {
		t.Fatalf("bot count = %d, want 6", got)
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	for id, p := range g.world.players {
		if !p.IsBot {
			t.Fatalf("non-bot player %s in a bots-only game", id)
		}
		if p.JoinOrder == 0 {
			t.Fatalf("bot %s missing a join order", id)
		}
	}
}

func TestBotUpdateMovesBots(t *testing.T) {
	g := newBotGame(3)
	g.mu.Lock()
	before := map[string]Vec3{}
	for id, p := range g.world.players {
		before[id] = p.Pos
	}
	now := time.Now()
	for i := 0; i < 20; i++ {
		g.bots.Update(now.Add(time.Duration(i)*100*time.Millisecond), 0.1)
	}
	moved := 0
	for id, p := range g.world.players {
		if Distance(before[id], p.Pos) > 0.01 {
			moved++
		}
	}
	g.mu.Unlock()

	if moved == 0 {
		t.Fatal("no bot moved across 20 updates")
	}
}

func TestBotIntegratorBlocksStructures(t *testing.T) {
	g := newBotGame(0)
	g.mu.Lock()
	p := NewPlayer("bot-t", "T", true, 500)
	p.Pos = Vec3{X: 100, Y: 0, Z: 0}
	g.world.SetPlayer(p)
	g.world.SetStructure(&Structure{ID: "wall", Pos: Vec3{X: 104, Y: 0, Z: 0}, Radius: 5, HP: 50, MaxHP: 50, Destructible: true})

	// intent clips straight into the wall
	g.bots.applyMove(p, &MoveIntent{Pos: Vec3{X: 103, Y: 0, Z: 0}, R: 1.5, Dir: HeadingVec(1.5)})
	g.mu.Unlock()

	g.mu.RLock()
	defer g.mu.RUnlock()
	if p.Pos.X != 100 {
		t.Fatalf("blocked move shifted position to %v", p.Pos)
	}
	// heading still applies so the bot can turn free
	if p.Rotation != 1.5 {
		t.Fatalf("blocked move dropped the heading change: %v", p.Rotation)
	}
}

func TestBotRespawnAfterDelay(t *testing.T) {
	g := newBotGame(1)
	g.mu.Lock()
	var bp *Player
	for _, p := range g.world.players {
		bp = p
	}
	bp.HP = 0
	bp.Alive = false

	now := time.Now()
	g.bots.Update(now, 0.1) // records the death
	g.bots.Update(now.Add(time.Second), 0.1)
	if bp.Alive {
		t.Fatal("bot respawned before the delay")
	}
	g.bots.Update(now.Add(botRespawnDelay+time.Second), 0.1)
	alive := bp.Alive
	hp := bp.HP
	g.mu.Unlock()

	if !alive || hp != PlayerMaxHP {
		t.Fatalf("bot not reinstated: alive=%v hp=%d", alive, hp)
	}
}

func TestNotifyReachesAllBots(t *testing.T) {
	g := newBotGame(2)
	g.mu.Lock()
	g.bots.Notify(BotEvent{Kind: BotEvDamaged, TargetID: "nobody", AttackerID: "h1", HealthPct: 50})
	for _, b := range g.bots.bots {
		if b.attackerID != "" {
			t.Fatal("irrelevant event mutated a bot")
		}
	}
	g.mu.Unlock()
}
