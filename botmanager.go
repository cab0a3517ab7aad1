package main

import (
	"sort"
	"time"

	"go.uber.org/zap"
)

const botRespawnDelay = 5 * time.Second

// botNames is the display-name pool for spawned bots.
var botNames = []string{
	"Vector", "Circuit", "Havoc", "Quill", "Rampart", "Sable",
	"Torque", "Nimbus", "Crag", "Wisp", "Forge", "Pylon",
	"Drift", "Ember", "Gale", "Onyx", "Rivet", "Static",
}

// BotManager owns the bot population: spawning, the per-tick decision
// pass, the server-side movement integrator, and the event feed. A bot
// whose decision logic panics is recovered and skipped for the tick so it
// can never halt the loop or its peers.
type BotManager struct {
	g    *Game
	cfg  BotConfig
	log  *zap.Logger
	bots map[string]*Bot
	dead map[string]time.Time // bot id -> time of death, for respawn
}

// NewBotManager creates an empty manager bound to a game.
func NewBotManager(g *Game, cfg BotConfig, log *zap.Logger) *BotManager {
	return &BotManager{
		g:    g,
		cfg:  cfg,
		log:  log,
		bots: make(map[string]*Bot),
		dead: make(map[string]time.Time),
	}
}

// SpawnAll brings the population up to the configured count, cycling
// through the profile presets. Caller holds the game lock.
func (bm *BotManager) SpawnAll() {
	names := make([]string, 0, len(bm.cfg.Profiles))
	for name := range bm.cfg.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		names = []string{bm.cfg.DefaultProfile}
	}
	for i := 0; i < bm.cfg.Count; i++ {
		bm.spawnOne(names[i%len(names)])
	}
}

// spawnOne creates one bot player plus its FSM. Caller holds the game lock.
func (bm *BotManager) spawnOne(profileName string) {
	id := "bot-" + GenerateID(3)
	name := botNames[int(randFloat()*float64(len(botNames)))%len(botNames)]
	p := NewPlayer(id, name, true, bm.g.cfg.World.MapRadius)
	bm.g.joinSeq++
	p.JoinOrder = bm.g.joinSeq
	bm.g.world.SetPlayer(p)
	bm.bots[id] = NewBot(id, bm.cfg.Profile(profileName), bm.g.cfg.World)
	bm.g.broadcast(Envelope{T: MsgPlayerJoined, Data: p.ToState()})
}

// Clear removes all bot FSMs (their players are cleared by the world
// reset). Caller holds the game lock.
func (bm *BotManager) Clear() {
	bm.bots = make(map[string]*Bot)
	bm.dead = make(map[string]time.Time)
}

// Notify fans one event out to every bot.
func (bm *BotManager) Notify(ev BotEvent) {
	for _, b := range bm.bots {
		b.HandleEvent(ev)
	}
}

// Update runs one decision pass: a single deep snapshot, one Step per bot,
// and intents applied through the collision-checked integrator plus the
// shared fire path. Caller holds the game lock.
func (bm *BotManager) Update(now time.Time, dt float64) {
	snap := bm.g.world.Snapshot()

	for id, bot := range bm.bots {
		p := bm.g.world.Player(id)
		if p == nil {
			delete(bm.bots, id)
			delete(bm.dead, id)
			continue
		}
		if !p.Alive {
			bm.respawn(id, p, now)
			continue
		}
		delete(bm.dead, id)

		move, fire := bm.stepSafely(bot, snap, now, dt)
		if move != nil {
			bm.applyMove(p, move)
		}
		if fire != nil {
			bm.g.fire(id, *fire, now)
		}
	}
}

// stepSafely runs one bot tick under a recover so a panicking bot cannot
// take down the loop.
func (bm *BotManager) stepSafely(bot *Bot, snap *WorldSnapshot, now time.Time, dt float64) (move *MoveIntent, fire *FireRequest) {
	defer func() {
		if r := recover(); r != nil {
			move, fire = nil, nil
			bm.log.Error("bot step panic",
				zap.String("bot", bot.ID),
				zap.String("state", bot.state.String()),
				zap.Any("panic", r))
		}
	}()
	move, fire = bot.Step(snap, now, dt)
	return
}

// applyMove is the server-owned integrator: bots skip the anti-cheat
// displacement check but may not clip into standing structures or leave
// the map. A blocked move keeps the heading change so the bot can turn
// out of the corner; the stuck detector catches anything that stays wedged.
func (bm *BotManager) applyMove(p *Player, move *MoveIntent) {
	blocked := false
	if !InBounds(move.Pos, bm.g.cfg.World) {
		blocked = true
	} else {
		for _, s := range bm.g.world.structures {
			if s.Destroyed {
				continue
			}
			if Distance(move.Pos, s.Pos) < s.Radius+1 {
				blocked = true
				break
			}
		}
	}
	if !blocked {
		p.Pos = move.Pos
	}
	p.Rotation = move.R
	p.Dir = move.Dir
	bm.g.broadcast(Envelope{T: MsgPlayerMoved, Data: MovedMsg{
		ID: p.ID, Pos: p.Pos, R: p.Rotation, Dir: p.Dir,
	}})
}

// respawn reinstates a dead bot after the delay with fresh default stats.
func (bm *BotManager) respawn(id string, p *Player, now time.Time) {
	diedAt, ok := bm.dead[id]
	if !ok {
		bm.dead[id] = now
		return
	}
	if now.Sub(diedAt) < botRespawnDelay {
		return
	}
	delete(bm.dead, id)
	p.ResetForMatch(bm.g.cfg.World.MapRadius)
	if bot := bm.bots[id]; bot != nil {
		profile := bot.profile
		bm.bots[id] = NewBot(id, profile, bm.g.cfg.World)
	}
	bm.g.broadcast(Envelope{T: MsgPlayerUpdated, Data: p.ToState()})
}
