package main

import (
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

const (
	TickRate     = 20 // simulation ticks per second
	TickDuration = time.Second / TickRate
	BotTickEvery = 2 // bot engine runs at TickRate/BotTickEvery
)

const maxPlayers = 64

// Broadcaster is the outbound half of a connected client.
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Game owns the authoritative world and the cooperative tick loop. All
// mutation happens under mu: inbound client handlers and the ticker
// interleave but never overlap, which is the whole concurrency model —
// handlers stay short and never block on I/O while holding the lock.
type Game struct {
	mu      sync.RWMutex
	cfg     Config
	log     *zap.Logger
	world   *World
	clients map[string]Broadcaster // playerID -> client
	economy *Economy
	bots    *BotManager
	tick    uint64
	running bool
	stop    chan struct{}
	joinSeq int
}

// NewGame creates a game with generated terrain, a fresh match and the
// configured bot population.
func NewGame(cfg Config, log *zap.Logger) *Game {
	g := &Game{
		cfg:     cfg,
		log:     log,
		world:   NewWorld(),
		clients: make(map[string]Broadcaster),
		stop:    make(chan struct{}),
	}
	g.economy = NewEconomy(cfg.Economy, cfg.World)
	g.bots = NewBotManager(g, cfg.Bots, log)
	g.world.ResetStructures(GenerateStructures(cfg.World))
	g.startMatch()
	g.bots.SpawnAll()
	return g
}

// Run starts the game loop
func (g *Game) Run() {
	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.update()
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop. Stopping the loop stops every dependent
// timer (spawners, bot ticks, phase deadlines) before any teardown.
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.running = false
		close(g.stop)
	}
}

// update runs one game tick
func (g *Game) update() {
	g.mu.Lock()
	defer g.mu.Unlock()

	dt := 1.0 / float64(TickRate)
	now := time.Now()
	g.tick++

	if g.world.Match().Phase == PhasePlaying {
		g.repairPlayers(dt)
		g.economy.Tick(g, dt)
		if g.tick%BotTickEvery == 0 {
			g.bots.Update(now, dt*BotTickEvery)
		}
		g.expireProjectiles(now)
	}

	g.tickMatch(now)
}

// repairPlayers applies the repairSpeed stat to every live player.
func (g *Game) repairPlayers(dt float64) {
	for _, p := range g.world.players {
		if p.Repair(dt) {
			g.broadcast(Envelope{T: MsgPlayerUpdated, Data: p.ToState()})
		}
	}
}

// expireProjectiles removes projectiles past their max lifetime.
func (g *Game) expireProjectiles(now time.Time) {
	for id, pr := range g.world.projectiles {
		if pr.Expired(now) {
			g.world.DeleteProjectile(id)
			g.broadcast(Envelope{T: MsgProjRemoved, Data: map[string]string{"id": id}})
		}
	}
}

// AddPlayer adds a new human player to the game. Returns nil when full.
func (g *Game) AddPlayer(name string) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.world.players) >= maxPlayers {
		return nil
	}
	p := NewPlayer(GenerateID(4), name, false, g.cfg.World.MapRadius)
	g.joinSeq++
	p.JoinOrder = g.joinSeq
	g.world.SetPlayer(p)
	g.broadcastExcept(p.ID, Envelope{T: MsgPlayerJoined, Data: p.ToState()})
	return p
}

// RemovePlayer removes a player (disconnect).
func (g *Game) RemovePlayer(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.world.Player(id) == nil {
		return
	}
	g.world.DeletePlayer(id)
	delete(g.clients, id)
	g.broadcast(Envelope{T: MsgPlayerLeft, Data: map[string]string{"id": id}})
}

// SetClient associates a broadcaster with a player
func (g *Game) SetClient(playerID string, client Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[playerID] = client
}

// PlayerCount returns the number of players including bots.
func (g *Game) PlayerCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.world.PlayerCount()
}

// BotCount returns the number of live bots.
func (g *Game) BotCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, p := range g.world.players {
		if p.IsBot {
			n++
		}
	}
	return n
}

// MatchID returns the id of the current match.
func (g *Game) MatchID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.world.Match().ID
}

// Phase returns the current match phase.
func (g *Game) Phase() MatchPhase {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.world.Match().Phase
}

// FullState marshals the complete snapshot for connect/resync pushes.
func (g *Game) FullState() []byte {
	g.mu.RLock()
	defer g.mu.RUnlock()
	data, err := msgpack.Marshal(g.world.ToState(time.Now()))
	if err != nil {
		g.log.Error("state marshal", zap.Error(err))
		return nil
	}
	return data
}

// broadcast sends a message to every connected client. Caller holds mu.
func (g *Game) broadcast(msg Envelope) {
	for _, c := range g.clients {
		c.SendJSON(msg)
	}
}

// broadcastExcept sends to everyone but one player. Caller holds mu.
func (g *Game) broadcastExcept(id string, msg Envelope) {
	for pid, c := range g.clients {
		if pid != id {
			c.SendJSON(msg)
		}
	}
}

// sendTo sends to a single player if connected. Caller holds mu.
func (g *Game) sendTo(id string, msg Envelope) {
	if c, ok := g.clients[id]; ok {
		c.SendJSON(msg)
	}
}
