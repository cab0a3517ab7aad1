package main

import "time"

// MatchPhase represents the lifecycle of a match
type MatchPhase int

const (
	PhasePlaying    MatchPhase = 0
	PhasePodium     MatchPhase = 1
	PhaseRestarting MatchPhase = 2
)

// String returns the wire name of a phase.
func (p MatchPhase) String() string {
	switch p {
	case PhasePodium:
		return "PODIUM"
	case PhaseRestarting:
		return "RESTARTING"
	default:
		return "PLAYING"
	}
}

// MatchState is the single live match record.
type MatchState struct {
	ID        string
	Phase     MatchPhase
	StartedAt time.Time
	PhaseAt   time.Time // when the current phase began
	EndedAt   time.Time
	Winners   []WinnerEntry
}

// World is the authoritative in-memory entity store. It is the sole owner
// of all entity records; access happens under the game loop's lock, so the
// store itself carries no synchronization.
type World struct {
	players     map[string]*Player
	processors  map[string]*Processor
	cannons     map[string]*Cannon
	projectiles map[string]*Projectile
	structures  map[string]*Structure
	match       MatchState
}

// NewWorld creates an empty store.
func NewWorld() *World {
	return &World{
		players:     make(map[string]*Player),
		processors:  make(map[string]*Processor),
		cannons:     make(map[string]*Cannon),
		projectiles: make(map[string]*Projectile),
		structures:  make(map[string]*Structure),
	}
}

// Player returns a live player record or nil.
func (w *World) Player(id string) *Player { return w.players[id] }

// SetPlayer stores a player record.
func (w *World) SetPlayer(p *Player) { w.players[p.ID] = p }

// DeletePlayer removes a player record.
func (w *World) DeletePlayer(id string) { delete(w.players, id) }

// Processor returns a live processor or nil.
func (w *World) Processor(id string) *Processor { return w.processors[id] }

// SetProcessor stores a processor.
func (w *World) SetProcessor(p *Processor) { w.processors[p.ID] = p }

// DeleteProcessor removes a processor.
func (w *World) DeleteProcessor(id string) { delete(w.processors, id) }

// Cannon returns a live cannon pickup or nil.
func (w *World) Cannon(id string) *Cannon { return w.cannons[id] }

// SetCannon stores a cannon pickup.
func (w *World) SetCannon(c *Cannon) { w.cannons[c.ID] = c }

// DeleteCannon removes a cannon pickup.
func (w *World) DeleteCannon(id string) { delete(w.cannons, id) }

// Projectile returns a live projectile or nil.
func (w *World) Projectile(id string) *Projectile { return w.projectiles[id] }

// SetProjectile stores a projectile.
func (w *World) SetProjectile(p *Projectile) { w.projectiles[p.ID] = p }

// DeleteProjectile removes a projectile.
func (w *World) DeleteProjectile(id string) { delete(w.projectiles, id) }

// Structure returns a structure or nil.
func (w *World) Structure(id string) *Structure { return w.structures[id] }

// SetStructure stores a structure.
func (w *World) SetStructure(s *Structure) { w.structures[s.ID] = s }

// Match returns the live match state.
func (w *World) Match() *MatchState { return &w.match }

// PlayerCount returns the number of live players (humans and bots).
func (w *World) PlayerCount() int { return len(w.players) }

// ResetStructures replaces the static terrain wholesale.
func (w *World) ResetStructures(list []*Structure) {
	w.structures = make(map[string]*Structure, len(list))
	for _, s := range list {
		w.structures[s.ID] = s
	}
}

// ClearTransient drops all processors, cannons and projectiles, and
// removes bot players. Humans survive a match reset.
func (w *World) ClearTransient() {
	w.processors = make(map[string]*Processor)
	w.cannons = make(map[string]*Cannon)
	w.projectiles = make(map[string]*Projectile)
	for id, p := range w.players {
		if p.IsBot {
			delete(w.players, id)
		}
	}
}

// WorldSnapshot is a deep, independent copy handed to the bot engine.
// Mutating it never touches the live store.
type WorldSnapshot struct {
	Players     map[string]*Player
	Processors  map[string]*Processor
	Cannons     map[string]*Cannon
	Projectiles map[string]*Projectile
	Structures  map[string]*Structure
	Match       MatchState
}

// Snapshot deep-copies the store.
func (w *World) Snapshot() *WorldSnapshot {
	snap := &WorldSnapshot{
		Players:     make(map[string]*Player, len(w.players)),
		Processors:  make(map[string]*Processor, len(w.processors)),
		Cannons:     make(map[string]*Cannon, len(w.cannons)),
		Projectiles: make(map[string]*Projectile, len(w.projectiles)),
		Structures:  make(map[string]*Structure, len(w.structures)),
		Match:       w.match,
	}
	for id, p := range w.players {
		snap.Players[id] = p.Clone()
	}
	for id, p := range w.processors {
		cp := *p
		snap.Processors[id] = &cp
	}
	for id, c := range w.cannons {
		cp := *c
		snap.Cannons[id] = &cp
	}
	for id, pr := range w.projectiles {
		cp := *pr
		snap.Projectiles[id] = &cp
	}
	for id, s := range w.structures {
		cp := *s
		snap.Structures[id] = &cp
	}
	snap.Match.Winners = append([]WinnerEntry(nil), w.match.Winners...)
	return snap
}

// ToState flattens the store into the full protocol snapshot.
func (w *World) ToState(now time.Time) GameState {
	gs := GameState{
		MatchID:     w.match.ID,
		Phase:       w.match.Phase.String(),
		Players:     make([]PlayerState, 0, len(w.players)),
		Projectiles: make([]ProjectileState, 0, len(w.projectiles)),
		Processors:  make([]ProcessorState, 0, len(w.processors)),
		Cannons:     make([]CannonState, 0, len(w.cannons)),
		Structures:  make([]StructureState, 0, len(w.structures)),
		Winners:     append([]WinnerEntry(nil), w.match.Winners...),
		StartedAt:   w.match.StartedAt.UnixMilli(),
		Now:         now.UnixMilli(),
	}
	if !w.match.EndedAt.IsZero() {
		gs.EndedAt = w.match.EndedAt.UnixMilli()
	}
	for _, p := range w.players {
		gs.Players = append(gs.Players, p.ToState())
	}
	for _, pr := range w.projectiles {
		gs.Projectiles = append(gs.Projectiles, pr.ToState())
	}
	for _, p := range w.processors {
		gs.Processors = append(gs.Processors, p.ToState())
	}
	for _, c := range w.cannons {
		gs.Cannons = append(gs.Cannons, c.ToState())
	}
	for _, s := range w.structures {
		gs.Structures = append(gs.Structures, s.ToState())
	}
	return gs
}
