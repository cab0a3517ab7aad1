package main

import "math"

// Stat kinds. Processors come in exactly these seven flavors.
const (
	StatAttack      = "attack"
	StatAttackSpeed = "attackSpeed"
	StatRange       = "range"
	StatSpeed       = "speed"
	StatRepairSpeed = "repairSpeed"
	StatResistance  = "resistance"
	StatHP          = "hp"
)

// StatKinds lists all seven kinds in a fixed order.
var StatKinds = []string{
	StatAttack, StatAttackSpeed, StatRange, StatSpeed,
	StatRepairSpeed, StatResistance, StatHP,
}

// StatBoosts is the fixed boost magnitude granted per processor kind.
var StatBoosts = map[string]float64{
	StatAttack:      1,
	StatAttackSpeed: 0.05,
	StatRange:       1,
	StatSpeed:       0.3,
	StatRepairSpeed: 0.2,
	StatResistance:  1,
	StatHP:          1,
}

const (
	PlayerMaxHP    = 100
	PlayerHitBase  = 3.0   // base collision radius, grows with scale
	ScalePerPower  = 0.005 // visual/collision scale growth per power point
	MaxSideCannons = 4
	SpawnRingMin   = 0.90 // fraction of map radius
	SpawnRingMax   = 0.95
)

// StatBlock holds a player's live combat stats.
type StatBlock struct {
	Resistance  float64 `json:"resistance" msgpack:"resistance"`
	Attack      float64 `json:"attack" msgpack:"attack"`
	AttackSpeed float64 `json:"attackSpeed" msgpack:"attackSpeed"`
	Range       float64 `json:"range" msgpack:"range"`
	Speed       float64 `json:"speed" msgpack:"speed"`
	RepairSpeed float64 `json:"repairSpeed" msgpack:"repairSpeed"`
}

// DefaultStats returns the stat block every player starts a match with.
func DefaultStats() StatBlock {
	return StatBlock{
		Resistance:  0,
		Attack:      10,
		AttackSpeed: 1,
		Range:       50,
		Speed:       20,
		RepairSpeed: 0,
	}
}

// Player is a human or bot combatant. The world store owns the record;
// bots only ever see deep copies.
type Player struct {
	ID          string
	Name        string
	Pos         Vec3
	Rotation    float64 // heading angle in the X/Z plane
	Dir         Vec3    // unit direction vector
	HP          int
	MaxHP       int
	Alive       bool
	IsBot       bool
	Stats       StatBlock
	Collected   map[string]int // stat kind -> pickups absorbed
	SideCannons int
	JoinOrder   int // podium tie-break

	LastShotMs int64   // unix ms of last accepted fire
	repairAcc  float64 // fractional repair carry-over
}

// NewPlayer creates a player on the spawn ring at 90-95% of the map radius.
func NewPlayer(id, name string, isBot bool, mapRadius float64) *Player {
	pos := RandInAnnulus(Vec3{}, mapRadius*SpawnRingMin, mapRadius*SpawnRingMax)
	rot := math.Atan2(-pos.Z, -pos.X) // face the center
	return &Player{
		ID:        id,
		Name:      name,
		Pos:       pos,
		Rotation:  rot,
		Dir:       HeadingVec(rot),
		HP:        PlayerMaxHP,
		MaxHP:     PlayerMaxHP,
		Alive:     true,
		IsBot:     isBot,
		Stats:     DefaultStats(),
		Collected: make(map[string]int),
	}
}

// Power is the sum of collected pickup counts across all stat kinds.
func (p *Player) Power() int {
	total := 0
	for _, n := range p.Collected {
		total += n
	}
	return total
}

// Scale returns the power-derived size factor 1 + power*0.005.
func (p *Player) Scale() float64 {
	return 1 + float64(p.Power())*ScalePerPower
}

// HitRadius is the collision radius used for impact validation.
func (p *Player) HitRadius() float64 {
	return PlayerHitBase * p.Scale()
}

// HealthPct returns current health as a percentage of max.
func (p *Player) HealthPct() float64 {
	if p.MaxHP == 0 {
		return 0
	}
	return float64(p.HP) / float64(p.MaxHP) * 100
}

// MitigateDamage applies diminishing-returns resistance mitigation:
// effective = round(max(1, raw / (1 + resistance/100))). Resistance
// approaches but never reaches full mitigation; floor of 1 damage.
func MitigateDamage(raw int, resistance float64) int {
	if raw <= 0 {
		return 0
	}
	eff := float64(raw) / (1 + resistance/100)
	if eff < 1 {
		eff = 1
	}
	return int(math.Round(eff))
}

// TakeDamage applies pre-mitigation damage and returns true on death.
// HP is clamped to zero atomically with the alive flag.
func (p *Player) TakeDamage(raw int) bool {
	if !p.Alive {
		return false
	}
	p.HP -= MitigateDamage(raw, p.Stats.Resistance)
	if p.HP <= 0 {
		p.HP = 0
		p.Alive = false
		return true
	}
	return false
}

// ApplyBoost records a collected processor of the given kind.
func (p *Player) ApplyBoost(kind string) {
	boost, ok := StatBoosts[kind]
	if !ok {
		return
	}
	p.Collected[kind]++
	switch kind {
	case StatAttack:
		p.Stats.Attack += boost
	case StatAttackSpeed:
		p.Stats.AttackSpeed += boost
	case StatRange:
		p.Stats.Range += boost
	case StatSpeed:
		p.Stats.Speed += boost
	case StatRepairSpeed:
		p.Stats.RepairSpeed += boost
	case StatResistance:
		p.Stats.Resistance += boost
	case StatHP:
		p.MaxHP += int(boost)
		p.HP += int(boost)
	}
}

// Repair regenerates health from the repairSpeed stat. Fractional HP is
// carried between ticks so low rates still heal. Returns true when HP moved.
func (p *Player) Repair(dt float64) bool {
	if !p.Alive || p.Stats.RepairSpeed <= 0 || p.HP >= p.MaxHP {
		return false
	}
	p.repairAcc += p.Stats.RepairSpeed * dt
	if p.repairAcc < 1 {
		return false
	}
	heal := int(p.repairAcc)
	p.repairAcc -= float64(heal)
	p.HP += heal
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
	return true
}

// ResetForMatch reinstates the player for a fresh match: new spawn ring
// position, default stats, full health. The display name survives.
func (p *Player) ResetForMatch(mapRadius float64) {
	pos := RandInAnnulus(Vec3{}, mapRadius*SpawnRingMin, mapRadius*SpawnRingMax)
	p.Pos = pos
	p.Rotation = math.Atan2(-pos.Z, -pos.X)
	p.Dir = HeadingVec(p.Rotation)
	p.Stats = DefaultStats()
	p.Collected = make(map[string]int)
	p.SideCannons = 0
	p.HP = PlayerMaxHP
	p.MaxHP = PlayerMaxHP
	p.Alive = true
	p.LastShotMs = 0
	p.repairAcc = 0
}

// Clone returns a deep copy, safe to hand to the bot engine.
func (p *Player) Clone() *Player {
	cp := *p
	cp.Collected = make(map[string]int, len(p.Collected))
	for k, v := range p.Collected {
		cp.Collected[k] = v
	}
	return &cp
}

// ToState converts to protocol state
func (p *Player) ToState() PlayerState {
	counts := make(map[string]int, len(p.Collected))
	for k, v := range p.Collected {
		counts[k] = v
	}
	return PlayerState{
		ID:          p.ID,
		Name:        p.Name,
		Pos:         p.Pos,
		R:           p.Rotation,
		Dir:         p.Dir,
		HP:          p.HP,
		MaxHP:       p.MaxHP,
		Alive:       p.Alive,
		Bot:         p.IsBot,
		Stats:       p.Stats,
		Collected:   counts,
		SideCannons: p.SideCannons,
		Power:       p.Power(),
	}
}
