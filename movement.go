package main

// MoveTimeAllowance converts a player's speed stat into the per-update
// displacement cap. Generous enough for jitter and catch-up frames while
// still making teleports impossible.
const MoveTimeAllowance = 0.5

// InBounds reports whether a position lies inside the map's bounding
// volume: horizontal distance within the map radius, height within
// [minY, maxY].
func InBounds(pos Vec3, w WorldConfig) bool {
	if pos.HorizontalDist() > w.MapRadius {
		return false
	}
	return pos.Y >= w.MinY && pos.Y <= w.MaxY
}

// HandleStateUpdate validates a client-claimed state and merges the
// accepted fields. Rejected claims never mutate the stored position; the
// last-known-good position is pushed back instead. Bots never come through
// here — their movement is server-integrated and collision-checked.
func (g *Game) HandleStateUpdate(playerID string, upd StateUpdate) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.world.Player(playerID)
	if p == nil || p.IsBot {
		return
	}

	if !InBounds(upd.Pos, g.cfg.World) {
		g.sendTo(playerID, Envelope{T: MsgPosCorrect, Data: PosCorrectMsg{Pos: p.Pos, R: p.Rotation}})
		return
	}

	if Distance(p.Pos, upd.Pos) > p.Stats.Speed*MoveTimeAllowance {
		g.sendTo(playerID, Envelope{T: MsgPosCorrect, Data: PosCorrectMsg{Pos: p.Pos, R: p.Rotation}})
		return
	}

	p.Pos = upd.Pos
	p.Rotation = upd.R
	if !upd.Dir.IsZero() {
		p.Dir = upd.Dir.Normalized()
	}
	if upd.HP != nil {
		hp := *upd.HP
		if hp < 0 {
			hp = 0
		}
		if hp > p.MaxHP {
			hp = p.MaxHP
		}
		p.HP = hp
	}
	if upd.Alive != nil {
		// a client can concede death but never resurrect itself
		p.Alive = *upd.Alive && p.HP > 0
	}

	g.broadcastExcept(playerID, Envelope{T: MsgPlayerMoved, Data: MovedMsg{
		ID: p.ID, Pos: p.Pos, R: p.Rotation, Dir: p.Dir,
	}})
}
