package main

const (
	ObstacleMinRadius = 2.0
	ObstacleMaxRadius = 6.0
	ObstacleMinHP     = 20
	ObstacleMaxHP     = 60
	StructHitSlack    = 1.2 // reported hit must be this close to the structure, in attacker ranges
)

// Structure is static terrain: one indestructible central landmark plus
// destructible decorative obstacles. Destroyed obstacles stay in the store
// as inert markers so clients can render rubble.
type Structure struct {
	ID           string
	Pos          Vec3
	Radius       float64
	HP           int
	MaxHP        int
	Destructible bool
	Destroyed    bool
}

// TakeDamage applies damage to a destructible structure and returns true
// if this hit destroyed it.
func (s *Structure) TakeDamage(dmg int) bool {
	if !s.Destructible || s.Destroyed {
		return false
	}
	s.HP -= dmg
	if s.HP <= 0 {
		s.HP = 0
		s.Destroyed = true
		return true
	}
	return false
}

// GenerateStructures builds the static terrain for a match: the central
// landmark and a scatter of destructible obstacles kept off the spawn ring.
func GenerateStructures(w WorldConfig) []*Structure {
	out := make([]*Structure, 0, w.ObstacleCount+1)
	out = append(out, &Structure{
		ID:           "landmark",
		Pos:          Vec3{},
		Radius:       w.LandmarkRadius,
		Destructible: false,
	})
	for i := 0; i < w.ObstacleCount; i++ {
		// keep obstacles between the landmark and the spawn ring
		pos := RandInAnnulus(Vec3{}, w.LandmarkRadius*2, w.MapRadius*0.85)
		hp := ObstacleMinHP + int(randFloat()*float64(ObstacleMaxHP-ObstacleMinHP))
		out = append(out, &Structure{
			ID:           GenerateID(4),
			Pos:          pos,
			Radius:       ObstacleMinRadius + randFloat()*(ObstacleMaxRadius-ObstacleMinRadius),
			HP:           hp,
			MaxHP:        hp,
			Destructible: true,
		})
	}
	return out
}

// ToState converts to protocol state
func (s *Structure) ToState() StructureState {
	return StructureState{
		ID:           s.ID,
		Pos:          s.Pos,
		Radius:       s.Radius,
		HP:           s.HP,
		MaxHP:        s.MaxHP,
		Destructible: s.Destructible,
		Destroyed:    s.Destroyed,
	}
}
