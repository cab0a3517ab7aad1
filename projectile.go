package main

import "time"

const (
	ProjectileMaxAge   = 5 * time.Second
	MuzzleTolerance    = 5.0 // claimed muzzle vs. actual owner position
	ImpactRangeSlack   = 1.1 // impact must be within range*1.1 of spawn
	FallbackRangeSlack = 1.2 // simplified-fallback target distance bound
)

// Projectile is an ephemeral combat event. It never moves server-side:
// the spawn position, direction, damage and range are enough to validate
// any impact report against it.
type Projectile struct {
	ID      string
	OwnerID string
	Pos     Vec3 // spawn position
	Dir     Vec3 // normalized
	Damage  int
	Range   float64
	Created time.Time
}

// NewProjectile builds a projectile from the owner's current stats.
// Damage and range are never taken from client-supplied values.
func NewProjectile(owner *Player, pos Vec3, dir Vec3, now time.Time) *Projectile {
	return &Projectile{
		ID:      GenerateID(3),
		OwnerID: owner.ID,
		Pos:     pos,
		Dir:     dir.Normalized(),
		Damage:  int(owner.Stats.Attack),
		Range:   owner.Stats.Range,
		Created: now,
	}
}

// Expired reports whether the projectile exceeded its max lifetime.
func (pr *Projectile) Expired(now time.Time) bool {
	return now.Sub(pr.Created) > ProjectileMaxAge
}

// WithinTravel reports whether an impact point is plausible for this
// projectile, allowing 10% slack over the nominal range.
func (pr *Projectile) WithinTravel(impact Vec3) bool {
	return Distance(pr.Pos, impact) <= pr.Range*ImpactRangeSlack
}

// ToState converts to protocol state
func (pr *Projectile) ToState() ProjectileState {
	return ProjectileState{
		ID:      pr.ID,
		Owner:   pr.OwnerID,
		Pos:     pr.Pos,
		Dir:     pr.Dir,
		Range:   pr.Range,
		Created: pr.Created.UnixMilli(),
	}
}
