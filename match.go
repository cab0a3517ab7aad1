package main

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// startMatch initializes a fresh match record. Caller holds mu (or runs
// before the loop starts).
func (g *Game) startMatch() {
	m := g.world.Match()
	m.ID = uuid.NewString()
	m.Phase = PhasePlaying
	m.StartedAt = time.Now()
	m.PhaseAt = m.StartedAt
	m.EndedAt = time.Time{}
	m.Winners = nil
	g.log.Info("match started", zap.String("match", m.ID))
}

// tickMatch drives the PLAYING -> PODIUM -> RESTARTING -> PLAYING cycle.
// Each transition is broadcast before the next phase's deadline is armed.
// Caller holds mu.
func (g *Game) tickMatch(now time.Time) {
	m := g.world.Match()
	elapsed := now.Sub(m.PhaseAt)

	switch m.Phase {
	case PhasePlaying:
		if elapsed >= g.cfg.Match.PlayDuration {
			g.endMatch(now)
		}
	case PhasePodium:
		if elapsed >= g.cfg.Match.PodiumDuration {
			m.Phase = PhaseRestarting
			m.PhaseAt = now
			g.broadcast(Envelope{T: MsgMatchRestarting, Data: MatchRestartingMsg{
				CountdownMs: g.cfg.Match.RestartCountdown.Milliseconds(),
			}})
		}
	case PhaseRestarting:
		if elapsed >= g.cfg.Match.RestartCountdown {
			g.restartMatch(now)
		}
	}
}

// endMatch computes the podium and enters PODIUM. Caller holds mu.
func (g *Game) endMatch(now time.Time) {
	m := g.world.Match()
	m.Phase = PhasePodium
	m.PhaseAt = now
	m.EndedAt = now
	m.Winners = g.computeWinners()
	g.log.Info("match ended",
		zap.String("match", m.ID),
		zap.Int("winners", len(m.Winners)))
	g.broadcast(Envelope{T: MsgMatchEnded, Data: MatchEndedMsg{MatchID: m.ID, Winners: m.Winners}})
}

// computeWinners ranks players by total accumulated stat count, descending,
// ties broken by join order. Caller holds mu.
func (g *Game) computeWinners() []WinnerEntry {
	players := make([]*Player, 0, len(g.world.players))
	for _, p := range g.world.players {
		players = append(players, p)
	}
	sort.SliceStable(players, func(i, j int) bool {
		pi, pj := players[i].Power(), players[j].Power()
		if pi != pj {
			return pi > pj
		}
		return players[i].JoinOrder < players[j].JoinOrder
	})
	n := g.cfg.Match.PodiumSize
	if n > len(players) {
		n = len(players)
	}
	winners := make([]WinnerEntry, 0, n)
	for _, p := range players[:n] {
		winners = append(winners, WinnerEntry{ID: p.ID, Name: p.Name, Power: p.Power()})
	}
	return winners
}

// restartMatch tears down the old match and starts a new one: bots and
// transient entities cleared, terrain regenerated, connected humans
// reinstated at fresh positions with default stats and kept names, then a
// hard refresh directive so clients resync against the new world.
// Caller holds mu.
func (g *Game) restartMatch(now time.Time) {
	g.bots.Clear()
	g.world.ClearTransient()
	g.world.ResetStructures(GenerateStructures(g.cfg.World))
	g.economy.Reset()

	for _, p := range g.world.players {
		p.ResetForMatch(g.cfg.World.MapRadius)
	}

	g.startMatch()
	g.bots.SpawnAll()

	g.broadcast(Envelope{T: MsgMatchRestarted, Data: MatchRestartedMsg{MatchID: g.world.Match().ID}})
	g.broadcast(Envelope{T: MsgRefresh})
}
