package main

import "time"

const cannonPlacementTries = 10

// Economy runs the two fixed-interval pickup spawners and the loot-drop
// path. It is inert unless the match phase is PLAYING (the game loop only
// ticks it then).
type Economy struct {
	cfg       EconomyConfig
	world     WorldConfig
	procAcc   time.Duration
	cannonAcc time.Duration
}

// NewEconomy creates the spawner state.
func NewEconomy(cfg EconomyConfig, world WorldConfig) *Economy {
	return &Economy{cfg: cfg, world: world}
}

// Reset clears the spawn accumulators (match restart).
func (e *Economy) Reset() {
	e.procAcc = 0
	e.cannonAcc = 0
}

// Tick advances both spawners. Caller holds the game lock.
func (e *Economy) Tick(g *Game, dt float64) {
	step := time.Duration(dt * float64(time.Second))
	e.procAcc += step
	for e.procAcc >= e.cfg.ProcessorInterval {
		e.procAcc -= e.cfg.ProcessorInterval
		e.spawnProcessor(g)
	}
	e.cannonAcc += step
	for e.cannonAcc >= e.cfg.CannonInterval {
		e.cannonAcc -= e.cfg.CannonInterval
		e.spawnCannon(g)
	}
}

// spawnProcessor places a random-kind processor uniformly in a disk capped
// below the map radius.
func (e *Economy) spawnProcessor(g *Game) {
	if len(g.world.processors) >= e.cfg.ProcessorCap {
		return
	}
	pos := RandInDisk(e.world.MapRadius * 0.9)
	proc := NewProcessor(RandomProcessorKind(), pos)
	g.world.SetProcessor(proc)
	g.broadcast(Envelope{T: MsgProcSpawned, Data: proc.ToState()})
}

// spawnCannon places a cannon pickup in an annulus around the central
// landmark, retrying until the position passes the bounding-volume check.
func (e *Economy) spawnCannon(g *Game) {
	if len(g.world.cannons) >= e.cfg.CannonCap {
		return
	}
	for i := 0; i < cannonPlacementTries; i++ {
		pos := RandInAnnulus(Vec3{},
			e.world.LandmarkRadius+CannonRingMin,
			e.world.LandmarkRadius+CannonRingMax)
		if !InBounds(pos, e.world) {
			continue
		}
		c := NewCannon(pos)
		g.world.SetCannon(c)
		g.broadcast(Envelope{T: MsgCannonSpawned, Data: c.ToState()})
		return
	}
}

// LootDrop re-spawns half of a dead player's accumulated pickups (floor)
// as processors jittered around the death position. Each drop is bounds
// checked independently; invalid positions are silently skipped.
func (e *Economy) LootDrop(g *Game, victim *Player) {
	for _, kind := range StatKinds {
		n := victim.Collected[kind] / 2
		for i := 0; i < n; i++ {
			pos := victim.Pos.Add(RandInDisk(LootJitterRadius))
			pos.Y = victim.Pos.Y
			if !InBounds(pos, e.world) {
				continue
			}
			proc := NewProcessor(kind, pos)
			g.world.SetProcessor(proc)
			g.broadcast(Envelope{T: MsgProcSpawned, Data: proc.ToState()})
		}
	}
}

// HandleCollect consumes a processor for the requesting player. Stale ids
// (already collected) are a benign race and ignored.
func (g *Game) HandleCollect(playerID, procID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.world.Player(playerID)
	if p == nil || !p.Alive {
		return
	}
	proc := g.world.Processor(procID)
	if proc == nil {
		return
	}
	if Distance(p.Pos, proc.Pos) > CollectRadius(p) {
		return
	}

	g.world.DeleteProcessor(procID)
	p.ApplyBoost(proc.Kind)
	g.broadcast(Envelope{T: MsgProcCollected, Data: CollectedMsg{ID: procID, PlayerID: p.ID, Kind: proc.Kind}})
	g.broadcast(Envelope{T: MsgPlayerUpdated, Data: p.ToState()})
	g.bots.Notify(BotEvent{Kind: BotEvPickupTaken, PickupID: procID, AttackerID: p.ID})
}

// HandleCollectCannon consumes a cannon pickup. Once the collector holds
// the side-cannon cap, the request is silently ignored and the pickup
// stays for someone else.
func (g *Game) HandleCollectCannon(playerID, cannonID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.world.Player(playerID)
	if p == nil || !p.Alive {
		return
	}
	c := g.world.Cannon(cannonID)
	if c == nil {
		return
	}
	if p.SideCannons >= MaxSideCannons {
		return
	}
	if Distance(p.Pos, c.Pos) > CollectRadius(p) {
		return
	}

	g.world.DeleteCannon(cannonID)
	p.SideCannons++
	g.broadcast(Envelope{T: MsgCannonCollected, Data: CollectedMsg{ID: cannonID, PlayerID: p.ID}})
	g.broadcast(Envelope{T: MsgPlayerUpdated, Data: p.ToState()})
	g.bots.Notify(BotEvent{Kind: BotEvPickupTaken, PickupID: cannonID, AttackerID: p.ID})
}
