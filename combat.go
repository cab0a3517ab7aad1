package main

import (
	"math"
	"time"
)

// SideCannonSpread is the angular offset between barrels when a player
// holds side-cannon slots.
const SideCannonSpread = 0.12

// HandleFire validates a fire request and spawns projectiles from the
// owner's server-side stats.
func (g *Game) HandleFire(playerID string, req FireRequest) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fire(playerID, req, time.Now())
}

// fire is the shared fire path for humans and bots. Caller holds mu.
func (g *Game) fire(playerID string, req FireRequest, now time.Time) {
	owner := g.world.Player(playerID)
	if owner == nil || !owner.Alive {
		return
	}
	if req.Dir.IsZero() || !InBounds(req.Pos, g.cfg.World) {
		return
	}
	// claimed muzzle must sit on the owner
	if Distance(req.Pos, owner.Pos) > MuzzleTolerance {
		return
	}
	// rate of fire comes from the attackSpeed stat
	cooldownMs := int64(1000 / math.Max(owner.Stats.AttackSpeed, 0.01))
	if owner.LastShotMs != 0 && now.UnixMilli()-owner.LastShotMs < cooldownMs {
		return
	}
	owner.LastShotMs = now.UnixMilli()

	dir := req.Dir.Normalized()
	heading := HeadingOf(dir)
	for i := 0; i <= owner.SideCannons; i++ {
		d := dir
		if i > 0 {
			// alternate left/right barrels
			off := SideCannonSpread * float64((i+1)/2)
			if i%2 == 0 {
				off = -off
			}
			d = HeadingVec(heading + off)
			d.Y = dir.Y
			d = d.Normalized()
		}
		proj := NewProjectile(owner, req.Pos, d, now)
		g.world.SetProjectile(proj)
		g.broadcast(Envelope{T: MsgProjCreated, Data: proj.ToState()})
	}
}

// HandleImpact resolves a projectile-impact report. Resolution tries, in
// order: the referenced projectile id, an owner+proximity match, and the
// simplified fallback that synthesizes a projectile from the attacker's
// stats when the target is a player within 1.2x the attacker's range.
// The fallback exists because projectile state legitimately desyncs under
// packet loss.
func (g *Game) HandleImpact(playerID string, rep ImpactReport) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	attacker := g.world.Player(playerID)
	if attacker == nil {
		return
	}

	proj, stored := g.resolveProjectile(attacker, rep, now)
	if proj == nil {
		return
	}
	if stored {
		// resolved regardless of outcome below
		defer func() {
			g.world.DeleteProjectile(proj.ID)
			g.broadcast(Envelope{T: MsgProjRemoved, Data: map[string]string{"id": proj.ID}})
		}()
	}

	if proj.Expired(now) {
		return
	}
	if !proj.WithinTravel(rep.Pos) {
		return
	}

	target := g.world.Player(rep.TargetID)
	if target == nil || !target.Alive || target.ID == attacker.ID {
		return
	}
	// hit circle grows with the target's power scale
	if Distance(rep.Pos, target.Pos) > target.HitRadius() {
		return
	}

	g.applyPlayerDamage(attacker, target, proj.Damage)
}

// resolveProjectile finds the projectile an impact report refers to.
// The boolean reports whether it came from the store (and must be deleted).
func (g *Game) resolveProjectile(attacker *Player, rep ImpactReport, now time.Time) (*Projectile, bool) {
	// a: explicit id, must be the reporter's own projectile
	if rep.ProjID != "" {
		if pr := g.world.Projectile(rep.ProjID); pr != nil && pr.OwnerID == attacker.ID {
			return pr, true
		}
	}

	// b: owner + proximity — closest of the reporter's live projectiles
	// whose spawn point is within half its range of the claimed impact
	var best *Projectile
	bestDist := math.MaxFloat64
	for _, pr := range g.world.projectiles {
		if pr.OwnerID != attacker.ID {
			continue
		}
		d := Distance(pr.Pos, rep.Pos)
		if d <= pr.Range/2 && d < bestDist {
			best = pr
			bestDist = d
		}
	}
	if best != nil {
		return best, true
	}

	// c: simplified fallback for lost projectile state
	target := g.world.Player(rep.TargetID)
	if target == nil || !attacker.Alive {
		return nil, false
	}
	if Distance(attacker.Pos, target.Pos) > attacker.Stats.Range*FallbackRangeSlack {
		return nil, false
	}
	transient := NewProjectile(attacker, attacker.Pos, target.Pos.Sub(attacker.Pos), now)
	return transient, false
}

// applyPlayerDamage lands damage, broadcasting the hit and, on death, the
// kill plus loot drop. Caller holds mu.
func (g *Game) applyPlayerDamage(attacker, victim *Player, rawDamage int) {
	died := victim.TakeDamage(rawDamage)
	g.broadcast(Envelope{T: MsgDamaged, Data: DamagedMsg{
		TargetID:   victim.ID,
		AttackerID: attacker.ID,
		Damage:     MitigateDamage(rawDamage, victim.Stats.Resistance),
		HP:         victim.HP,
	}})
	g.bots.Notify(BotEvent{
		Kind:       BotEvDamaged,
		TargetID:   victim.ID,
		AttackerID: attacker.ID,
		HealthPct:  victim.HealthPct(),
	})

	if died {
		g.broadcast(Envelope{T: MsgKilled, Data: KilledMsg{VictimID: victim.ID, AttackerID: attacker.ID}})
		g.economy.LootDrop(g, victim)
		g.bots.Notify(BotEvent{Kind: BotEvKilled, TargetID: victim.ID, AttackerID: attacker.ID})
	}
}

// HandleStructHit applies reported damage to a destructible structure.
// The damage magnitude is capped by the attacker's attack stat; claims on
// missing or indestructible structures are benign and ignored.
func (g *Game) HandleStructHit(playerID string, req StructHitMsg) {
	g.mu.Lock()
	defer g.mu.Unlock()

	attacker := g.world.Player(playerID)
	if attacker == nil || !attacker.Alive {
		return
	}
	s := g.world.Structure(req.ID)
	if s == nil || !s.Destructible || s.Destroyed {
		return
	}
	// the reported hit must be plausibly within the attacker's reach
	if Distance(attacker.Pos, s.Pos) > attacker.Stats.Range*StructHitSlack+s.Radius {
		return
	}
	dmg := req.Damage
	if limit := int(attacker.Stats.Attack); dmg > limit || dmg <= 0 {
		dmg = limit
	}
	if s.TakeDamage(dmg) {
		g.broadcast(Envelope{T: MsgStructDestroyed, Data: map[string]string{"id": s.ID}})
		return
	}
	g.broadcast(Envelope{T: MsgStructDamaged, Data: StructDamagedMsg{ID: s.ID, HP: s.HP}})
}
