package main

const (
	CollectRadiusBase = 2.0 // grows with the collector's scale factor
	LootJitterRadius  = 6.0
	CannonRingMin     = 10.0 // annulus around the landmark, offsets from its edge
	CannonRingMax     = 60.0
)

// Processor is a collectible stat-boost pickup.
type Processor struct {
	ID    string
	Kind  string
	Boost float64
	Pos   Vec3
}

// NewProcessor spawns a processor of the given kind at pos.
func NewProcessor(kind string, pos Vec3) *Processor {
	return &Processor{
		ID:    GenerateID(4),
		Kind:  kind,
		Boost: StatBoosts[kind],
		Pos:   pos,
	}
}

// RandomProcessorKind picks uniformly among the seven stat kinds.
func RandomProcessorKind() string {
	return StatKinds[int(randFloat()*float64(len(StatKinds)))%len(StatKinds)]
}

// Cannon is a collectible that grants one side-cannon slot, capped at
// MaxSideCannons per player.
type Cannon struct {
	ID  string
	Pos Vec3
}

// NewCannon spawns a cannon pickup at pos.
func NewCannon(pos Vec3) *Cannon {
	return &Cannon{ID: GenerateID(4), Pos: pos}
}

// CollectRadius is how close a collector must be to a pickup, scaled by
// the collector's power.
func CollectRadius(collector *Player) float64 {
	return CollectRadiusBase * collector.Scale()
}

// ToState converts to protocol state
func (pr *Processor) ToState() ProcessorState {
	return ProcessorState{ID: pr.ID, Kind: pr.Kind, Boost: pr.Boost, Pos: pr.Pos}
}

// ToState converts to protocol state
func (c *Cannon) ToState() CannonState {
	return CannonState{ID: c.ID, Pos: c.Pos}
}
