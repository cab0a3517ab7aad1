package main

import (
	"math"
	"sort"
	"time"
)

// BotState is the finite-state machine state of one bot.
type BotState int

const (
	BotCollecting BotState = 0
	BotAttacking  BotState = 1
	BotFlanking   BotState = 2
	BotRetreating BotState = 3
)

// String returns a readable state name for logs.
func (s BotState) String() string {
	switch s {
	case BotAttacking:
		return "ATTACKING"
	case BotFlanking:
		return "FLANKING"
	case BotRetreating:
		return "RETREATING"
	default:
		return "COLLECTING"
	}
}

const (
	BotTurnRate      = 3.0  // radians/s max turn
	BotLookahead     = 15.0 // forward obstruction cast distance
	BotForwardCone   = 0.6  // half-angle of the cast cone, radians
	BotAvoidTurn     = 1.2  // heading offset applied when avoiding
	BotCloseReverse  = 3.0  // clearance below which the bot backs off
	BotFacingTol     = 0.15 // max angular error to fire, radians
	BotRetreatDist   = 80.0
	BotFlankOffset   = 25.0
	BotFlankBehind   = 10.0
	BotWaypointReach = 4.0

	BotStuckEpsilon = 0.05
	BotStuckLimit   = 12 // consecutive near-zero updates before forced reroute

	obstaclePenaltyK = 50.0

	// danger integrator tuning
	dangerDecayDelay   = 2 * time.Second
	dangerDecayRate    = 10.0 // per second after the delay
	dangerHPWeight     = 2.0
	dangerEnemyRadius  = 40.0
	dangerEnemyRate    = 6.0 // per second at point-blank
	dangerDamagedBump  = 10.0
	dangerKillDiscount = 20.0
	dangerLossDiscount = 15.0
)

// decayValue is a threat integrator: raised by events, it decays linearly
// toward zero after a grace delay. Sampled each tick instead of scheduling
// a timer per damage event.
type decayValue struct {
	level     float64
	raisedAt  time.Time
	sampledAt time.Time
}

// Raise bumps the level and restarts the decay delay.
func (d *decayValue) Raise(now time.Time, amount float64) {
	d.Sample(now)
	d.level += amount
	d.raisedAt = now
}

// Lower drops the level immediately, clamping at zero.
func (d *decayValue) Lower(amount float64) {
	d.level -= amount
	if d.level < 0 {
		d.level = 0
	}
}

// Sample returns the current level after applying elapsed decay.
func (d *decayValue) Sample(now time.Time) float64 {
	if d.level > 0 {
		decayFrom := d.raisedAt.Add(dangerDecayDelay)
		if d.sampledAt.After(decayFrom) {
			decayFrom = d.sampledAt
		}
		if now.After(decayFrom) {
			d.level -= dangerDecayRate * now.Sub(decayFrom).Seconds()
			if d.level < 0 {
				d.level = 0
			}
		}
	}
	d.sampledAt = now
	return d.level
}

type targetKind int

const (
	targetNone targetKind = iota
	targetProcessor
	targetCannon
	targetPlayer
	targetPoint
)

type botTarget struct {
	kind  targetKind
	id    string
	point Vec3
}

// BotEvent kinds — a closed variant set delivered out-of-band from the
// snapshot feed.
type botEventKind int

const (
	BotEvDamaged botEventKind = iota
	BotEvKilled
	BotEvPickupTaken
)

// BotEvent is one out-of-band notification to the bot engine.
type BotEvent struct {
	Kind       botEventKind
	TargetID   string  // victim (damaged/killed) or unused
	AttackerID string  // attacker, killer, or pickup collector
	PickupID   string  // pickup taken
	HealthPct  float64 // victim health after a damaged event
}

// botEventHandlers dispatches events by kind. Handlers filter for
// relevance themselves; every bot sees the full feed.
var botEventHandlers = map[botEventKind]func(*Bot, BotEvent){
	BotEvDamaged:     (*Bot).onDamaged,
	BotEvKilled:      (*Bot).onKilled,
	BotEvPickupTaken: (*Bot).onPickupTaken,
}

// MoveIntent is the movement a bot wants applied this tick. It flows
// through the server-owned integrator, never the anti-cheat validator.
type MoveIntent struct {
	Pos Vec3
	R   float64
	Dir Vec3
}

// Bot is one FSM instance. All state here is private to the bot; the
// world is only observed through per-tick deep-copy snapshots, and the
// only outputs are movement and fire intents.
type Bot struct {
	ID      string
	profile BotProfile
	world   WorldConfig

	state      BotState
	target     botTarget
	flankSide  float64 // +1 or -1, fixed per flank approach
	attackerID string  // last known attacker, retaliation + retreat vector
	danger     decayValue
	lastEval   time.Time
	lastHP     int
	lastPos    Vec3
	stuckCount int
}

// NewBot creates a bot FSM bound to a player id.
func NewBot(id string, profile BotProfile, world WorldConfig) *Bot {
	side := 1.0
	if randFloat() < 0.5 {
		side = -1
	}
	return &Bot{
		ID:        id,
		profile:   profile,
		world:     world,
		state:     BotCollecting,
		flankSide: side,
		lastHP:    PlayerMaxHP,
	}
}

// HandleEvent dispatches one out-of-band event through the handler table.
func (b *Bot) HandleEvent(ev BotEvent) {
	if h, ok := botEventHandlers[ev.Kind]; ok {
		h(b, ev)
	}
}

func (b *Bot) onDamaged(ev BotEvent) {
	if ev.TargetID != b.ID {
		return
	}
	b.danger.Raise(time.Now(), dangerDamagedBump)
	b.attackerID = ev.AttackerID
	if ev.HealthPct < b.profile.RetreatHealthPct {
		b.state = BotRetreating
		b.target = botTarget{}
	}
}

func (b *Bot) onKilled(ev BotEvent) {
	if b.target.kind == targetPlayer && b.target.id == ev.TargetID {
		b.target = botTarget{}
		b.state = BotCollecting
		if ev.AttackerID == b.ID {
			b.danger.Lower(dangerKillDiscount)
		}
	}
	if ev.TargetID == b.attackerID {
		b.attackerID = ""
		b.danger.Lower(dangerLossDiscount)
	}
}

func (b *Bot) onPickupTaken(ev BotEvent) {
	if ev.AttackerID == b.ID {
		return
	}
	if (b.target.kind == targetProcessor || b.target.kind == targetCannon) && b.target.id == ev.PickupID {
		// contested pickup lost; re-select next cycle
		b.target = botTarget{}
	}
}

// Step runs one decision tick against a snapshot and returns the bot's
// intents. It never mutates the snapshot's source store.
func (b *Bot) Step(snap *WorldSnapshot, now time.Time, dt float64) (*MoveIntent, *FireRequest) {
	me := snap.Players[b.ID]
	if me == nil || !me.Alive {
		return nil, nil
	}

	// hp drop since last sample feeds the threat integrator
	if me.HP < b.lastHP {
		b.danger.Raise(now, float64(b.lastHP-me.HP)*dangerHPWeight)
	}
	b.lastHP = me.HP
	b.accumulateProximityDanger(me, snap, now, dt)
	danger := b.danger.Sample(now)

	if now.Sub(b.lastEval) >= b.profile.ReevalInterval {
		b.lastEval = now
		b.evaluate(me, snap, danger)
	}

	waypoint := b.waypoint(me, snap)
	intent := b.steer(me, snap, waypoint, dt)
	b.checkStuck(me.Pos)

	fire := b.firePolicy(me, snap, intent.R, now)
	return intent, fire
}

// accumulateProximityDanger raises danger for enemies inside the proximity
// radius, weighted by closeness.
func (b *Bot) accumulateProximityDanger(me *Player, snap *WorldSnapshot, now time.Time, dt float64) {
	for _, p := range snap.Players {
		if p.ID == me.ID || !p.Alive || p.IsBot {
			continue
		}
		d := Distance(me.Pos, p.Pos)
		if d < dangerEnemyRadius {
			b.danger.Raise(now, (1-d/dangerEnemyRadius)*dangerEnemyRate*dt)
		}
	}
}

// evaluate applies the state-transition policy at the bounded interval.
func (b *Bot) evaluate(me *Player, snap *WorldSnapshot, danger float64) {
	healthPct := me.HealthPct()

	if healthPct < b.profile.RetreatHealthPct || danger > b.profile.DangerThreshold {
		if b.state != BotRetreating {
			b.state = BotRetreating
			b.target = botTarget{}
		}
		return
	}

	switch b.state {
	case BotRetreating:
		if healthPct > b.profile.RecoverHealthPct {
			b.state = BotCollecting
			b.target = botTarget{}
		}

	case BotCollecting, BotFlanking:
		if me.Power() >= b.profile.AggressionPower {
			if id, ok := b.selectAttackTarget(me, snap); ok {
				b.state = BotAttacking
				b.target = botTarget{kind: targetPlayer, id: id}
				return
			}
		}
		if b.state == BotFlanking {
			// flank target gone
			if t := snap.Players[b.target.id]; t == nil || !t.Alive {
				b.state = BotCollecting
				b.target = botTarget{}
			}
		}

	case BotAttacking:
		t := snap.Players[b.target.id]
		if t == nil || !t.Alive {
			b.state = BotCollecting
			b.target = botTarget{}
			return
		}
		if Distance(me.Pos, t.Pos) > b.profile.FlankTriggerDist {
			b.state = BotFlanking
			if randFloat() < 0.5 {
				b.flankSide = -b.flankSide
			}
		}
	}
}

// waypoint resolves the current movement goal for the bot's state.
func (b *Bot) waypoint(me *Player, snap *WorldSnapshot) Vec3 {
	switch b.state {
	case BotRetreating:
		return b.retreatPoint(me, snap)

	case BotAttacking:
		if t := snap.Players[b.target.id]; t != nil {
			return t.Pos
		}
		return me.Pos

	case BotFlanking:
		if t := snap.Players[b.target.id]; t != nil {
			perp := HeadingVec(t.Rotation + math.Pi/2).Scale(b.flankSide * BotFlankOffset)
			behind := HeadingVec(t.Rotation).Scale(-BotFlankBehind)
			return b.clampToMap(t.Pos.Add(perp).Add(behind))
		}
		return me.Pos

	default: // COLLECTING
		b.ensureCollectTarget(me, snap)
		switch b.target.kind {
		case targetProcessor:
			if p := snap.Processors[b.target.id]; p != nil {
				return p.Pos
			}
		case targetCannon:
			if c := snap.Cannons[b.target.id]; c != nil {
				return c.Pos
			}
		case targetPoint:
			if Distance(me.Pos, b.target.point) > BotWaypointReach {
				return b.target.point
			}
		}
		// stale or reached; re-select next cycle
		b.target = botTarget{}
		return me.Pos
	}
}

// retreatPoint moves away from the last known attacker, or toward the map
// edge when no attacker is known.
func (b *Bot) retreatPoint(me *Player, snap *WorldSnapshot) Vec3 {
	var away Vec3
	if att := snap.Players[b.attackerID]; att != nil && att.Alive {
		away = me.Pos.Sub(att.Pos).Normalized()
	}
	if away.IsZero() {
		away = Vec3{X: me.Pos.X, Z: me.Pos.Z}.Normalized()
		if away.IsZero() {
			away = HeadingVec(randFloat() * 2 * math.Pi)
		}
	}
	return b.clampToMap(me.Pos.Add(away.Scale(BotRetreatDist)))
}

// ensureCollectTarget picks the best pickup by score, or a random
// reachable point when nothing qualifies.
func (b *Bot) ensureCollectTarget(me *Player, snap *WorldSnapshot) {
	switch b.target.kind {
	case targetProcessor:
		if snap.Processors[b.target.id] != nil {
			return
		}
	case targetCannon:
		if snap.Cannons[b.target.id] != nil {
			return
		}
	case targetPoint:
		if Distance(me.Pos, b.target.point) > BotWaypointReach {
			return
		}
	}

	weights := b.collectWeights(me)
	bestScore := math.MaxFloat64
	var best botTarget

	// sorted iteration keeps ties deterministic (first-seen id order)
	procIDs := make([]string, 0, len(snap.Processors))
	for id := range snap.Processors {
		procIDs = append(procIDs, id)
	}
	sort.Strings(procIDs)
	for _, id := range procIDs {
		p := snap.Processors[id]
		w := weights[p.Kind]
		if w <= 0 {
			w = 0.1
		}
		score := (Distance(me.Pos, p.Pos) + b.obstaclePenalty(me.Pos, p.Pos, snap)) / w
		if score < bestScore {
			bestScore = score
			best = botTarget{kind: targetProcessor, id: id}
		}
	}

	if me.SideCannons < MaxSideCannons {
		cannonIDs := make([]string, 0, len(snap.Cannons))
		for id := range snap.Cannons {
			cannonIDs = append(cannonIDs, id)
		}
		sort.Strings(cannonIDs)
		for _, id := range cannonIDs {
			c := snap.Cannons[id]
			score := (Distance(me.Pos, c.Pos) + b.obstaclePenalty(me.Pos, c.Pos, snap)) / b.profile.CannonWeight
			if score < bestScore {
				bestScore = score
				best = botTarget{kind: targetCannon, id: id}
			}
		}
	}

	if best.kind == targetNone {
		best = botTarget{kind: targetPoint, point: b.clampToMap(RandInDisk(b.world.MapRadius * 0.8))}
	}
	b.target = best
}

// collectWeights returns the stat-kind priorities adjusted by current
// needs: hurt bots favor repair, threatened bots favor defense, strong
// bots favor offense.
func (b *Bot) collectWeights(me *Player) map[string]float64 {
	out := make(map[string]float64, len(b.profile.CollectWeights))
	for k, v := range b.profile.CollectWeights {
		out[k] = v
	}
	if me.HealthPct() < 50 {
		out[StatHP] *= 2
		out[StatRepairSpeed] *= 2
	}
	if b.danger.level > b.profile.DangerThreshold/2 {
		out[StatResistance] *= 1.5
	}
	if me.Power() > 2*b.profile.AggressionPower {
		out[StatAttack] *= 1.5
		out[StatAttackSpeed] *= 1.5
		out[StatRange] *= 1.5
	}
	return out
}

// selectAttackTarget scores living non-bot players with power at most
// 1.3x the bot's own; highest score wins.
func (b *Bot) selectAttackTarget(me *Player, snap *WorldSnapshot) (string, bool) {
	ownPower := float64(me.Power())
	bestScore := math.Inf(-1)
	bestID := ""

	ids := make([]string, 0, len(snap.Players))
	for id := range snap.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := snap.Players[id]
		if p.ID == me.ID || !p.Alive || p.IsBot {
			continue
		}
		if float64(p.Power()) > ownPower*1.3 {
			continue
		}
		score := (ownPower - float64(p.Power())) + (100 - p.HealthPct()) - 0.1*Distance(me.Pos, p.Pos)
		if score > bestScore {
			bestScore = score
			bestID = id
		}
	}
	return bestID, bestID != ""
}

// obstaclePenalty scores the clearance of a straight-line path: the
// minimum perpendicular distance from any standing structure, inverted
// into a penalty once inside the structure radius plus safety margin.
func (b *Bot) obstaclePenalty(from, to Vec3, snap *WorldSnapshot) float64 {
	minClearance := math.MaxFloat64
	for _, s := range snap.Structures {
		if s.Destroyed {
			continue
		}
		clearance := PointSegmentDist(s.Pos, from, to) - s.Radius
		if clearance < minClearance {
			minClearance = clearance
		}
	}
	if minClearance >= b.profile.SafetyMargin {
		return 0
	}
	if minClearance < 0.1 {
		minClearance = 0.1
	}
	return obstaclePenaltyK / minClearance
}

// steer turns toward the waypoint with obstruction avoidance and moves
// forward, slowing or reversing when something sits right ahead.
func (b *Bot) steer(me *Player, snap *WorldSnapshot, waypoint Vec3, dt float64) *MoveIntent {
	desired := me.Rotation
	to := waypoint.Sub(me.Pos)
	if to.Len() > 0.01 {
		desired = HeadingOf(to)
	}
	speedFactor := 1.0

	// short-range forward cast: structures and non-target players in a
	// narrow cone ahead
	obDist, obSide, obRadius, blocked := b.forwardObstruction(me, snap)
	if blocked {
		desired = me.Rotation - obSide*BotAvoidTurn
		if obDist < obRadius+BotCloseReverse {
			speedFactor = -0.5 // back out instead of grinding in
		} else {
			speedFactor = 0.4
		}
	}

	diff := NormalizeAngle(desired - me.Rotation)
	maxTurn := BotTurnRate * dt
	if diff > maxTurn {
		diff = maxTurn
	} else if diff < -maxTurn {
		diff = -maxTurn
	}
	rot := me.Rotation + diff

	dir := HeadingVec(rot)
	step := me.Stats.Speed * speedFactor * dt
	pos := b.clampToMap(me.Pos.Add(dir.Scale(step)))
	pos.Y = me.Pos.Y

	return &MoveIntent{Pos: pos, R: rot, Dir: dir}
}

// forwardObstruction finds the nearest structure or non-target player
// inside the forward cone. Returns its distance, which side it occupies
// (+1 left / -1 right), its radius, and whether anything was found.
func (b *Bot) forwardObstruction(me *Player, snap *WorldSnapshot) (dist, side, radius float64, found bool) {
	dist = math.MaxFloat64
	check := func(pos Vec3, r float64) {
		d := Distance(me.Pos, pos)
		if d > BotLookahead+r || d >= dist {
			return
		}
		angle := NormalizeAngle(HeadingOf(pos.Sub(me.Pos)) - me.Rotation)
		if math.Abs(angle) > BotForwardCone {
			return
		}
		dist = d
		radius = r
		if angle >= 0 {
			side = 1
		} else {
			side = -1
		}
		found = true
	}
	for _, s := range snap.Structures {
		if !s.Destroyed {
			check(s.Pos, s.Radius)
		}
	}
	for _, p := range snap.Players {
		if p.ID == me.ID || !p.Alive {
			continue
		}
		if b.target.kind == targetPlayer && b.target.id == p.ID {
			continue
		}
		check(p.Pos, p.HitRadius())
	}
	return
}

// firePolicy fires at the current player target, or opportunistically at
// any non-bot player crossing the sights, gated by facing, range and the
// attack-speed cooldown.
func (b *Bot) firePolicy(me *Player, snap *WorldSnapshot, rot float64, now time.Time) *FireRequest {
	cooldownMs := int64(1000 / math.Max(me.Stats.AttackSpeed, 0.01))
	if me.LastShotMs != 0 && now.UnixMilli()-me.LastShotMs < cooldownMs {
		return nil
	}

	var target *Player
	if b.target.kind == targetPlayer {
		target = snap.Players[b.target.id]
	}
	if target == nil || !target.Alive {
		// opportunistic fire at any human in reach while doing something else
		bestDist := math.MaxFloat64
		for _, p := range snap.Players {
			if p.ID == me.ID || !p.Alive || p.IsBot {
				continue
			}
			if d := Distance(me.Pos, p.Pos); d < bestDist {
				bestDist = d
				target = p
			}
		}
	}
	if target == nil || !target.Alive {
		return nil
	}

	d := Distance(me.Pos, target.Pos)
	if d > me.Stats.Range {
		return nil
	}
	aim := HeadingOf(target.Pos.Sub(me.Pos))
	if math.Abs(NormalizeAngle(aim-rot)) > BotFacingTol {
		return nil
	}
	return &FireRequest{Pos: me.Pos, Dir: target.Pos.Sub(me.Pos).Normalized()}
}

// checkStuck watches the bot's actual position across updates; a bot that
// barely moves for too many consecutive updates gets a random heading and
// target to break the symmetry. Intents do not count as movement: the
// integrator may reject the position while still applying the heading.
func (b *Bot) checkStuck(pos Vec3) {
	if Distance(b.lastPos, pos) < BotStuckEpsilon {
		b.stuckCount++
		if b.stuckCount > BotStuckLimit {
			b.stuckCount = 0
			b.target = botTarget{kind: targetPoint, point: b.clampToMap(RandInDisk(b.world.MapRadius * 0.8))}
			if b.state != BotRetreating {
				b.state = BotCollecting
			}
		}
	} else {
		b.stuckCount = 0
	}
	b.lastPos = pos
}

// clampToMap pulls a point back inside 98% of the map radius.
func (b *Bot) clampToMap(p Vec3) Vec3 {
	limit := b.world.MapRadius * 0.98
	if h := p.HorizontalDist(); h > limit {
		s := limit / h
		p.X *= s
		p.Z *= s
	}
	p.Y = Clamp(p.Y, b.world.MinY, b.world.MaxY)
	return p
}
