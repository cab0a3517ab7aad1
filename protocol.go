package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin       = "join"
	MsgUpdate     = "update" // periodic state claim
	MsgFire       = "fire"
	MsgImpact     = "impact"
	MsgCollect    = "collect"       // processor
	MsgCollectGun = "collectCannon" // cannon
	MsgStructHit  = "structHit"
	MsgResync     = "resync"
)

// Server -> Client message types. The full msgpack snapshot travels as a
// raw binary frame, not an envelope.
const (
	MsgWelcome         = "welcome"
	MsgError           = "error"
	MsgPlayerJoined    = "playerJoined"
	MsgPlayerLeft      = "playerLeft"
	MsgPlayerMoved     = "playerMoved"
	MsgPlayerUpdated   = "playerUpdated"
	MsgPosCorrect      = "posCorrect"
	MsgProjCreated     = "projCreated"
	MsgProjRemoved     = "projRemoved"
	MsgProcSpawned     = "procSpawned"
	MsgProcCollected   = "procCollected"
	MsgCannonSpawned   = "cannonSpawned"
	MsgCannonCollected = "cannonCollected"
	MsgStructDamaged   = "structDamaged"
	MsgStructDestroyed = "structDestroyed"
	MsgDamaged         = "damaged"
	MsgKilled          = "killed"
	MsgMatchEnded      = "matchEnded"
	MsgMatchRestarting = "matchRestarting"
	MsgMatchRestarted  = "matchRestarted"
	MsgRefresh         = "refresh"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// JoinMsg carries the client's profile on join.
type JoinMsg struct {
	Name string `json:"name"`
}

// StateUpdate is the periodic client claim. HP and Alive are optional;
// absent fields are left untouched by the validator.
type StateUpdate struct {
	Pos   Vec3    `json:"pos"`
	R     float64 `json:"r"`
	Dir   Vec3    `json:"dir"`
	HP    *int    `json:"hp,omitempty"`
	Alive *bool   `json:"alive,omitempty"`
}

// FireRequest asks the server to spawn a projectile. Damage and range
// always come from the owner's server-side stats.
type FireRequest struct {
	Pos Vec3 `json:"pos"`
	Dir Vec3 `json:"dir"`
}

// ImpactReport claims a projectile hit something. Either ProjID references
// a live projectile, or the owner+position heuristic resolves one.
type ImpactReport struct {
	ProjID   string `json:"pid,omitempty"`
	TargetID string `json:"tid"`
	Pos      Vec3   `json:"pos"`
}

// CollectRequest asks to pick up a processor or cannon by id.
type CollectRequest struct {
	ID string `json:"id"`
}

// StructHitMsg reports damage dealt to a structure.
type StructHitMsg struct {
	ID     string  `json:"id"`
	Damage int     `json:"dmg"`
	Pos    Vec3    `json:"pos"`
}

// PlayerState is the full per-player record.
type PlayerState struct {
	ID          string         `json:"id" msgpack:"id"`
	Name        string         `json:"n" msgpack:"n"`
	Pos         Vec3           `json:"pos" msgpack:"pos"`
	R           float64        `json:"r" msgpack:"r"`
	Dir         Vec3           `json:"dir" msgpack:"dir"`
	HP          int            `json:"hp" msgpack:"hp"`
	MaxHP       int            `json:"mhp" msgpack:"mhp"`
	Alive       bool           `json:"a" msgpack:"a"`
	Bot         bool           `json:"bot" msgpack:"bot"`
	Stats       StatBlock      `json:"st" msgpack:"st"`
	Collected   map[string]int `json:"col" msgpack:"col"`
	SideCannons int            `json:"sc" msgpack:"sc"`
	Power       int            `json:"pw" msgpack:"pw"`
}

// ProjectileState is broadcast per projectile
type ProjectileState struct {
	ID      string  `json:"id" msgpack:"id"`
	Owner   string  `json:"o" msgpack:"o"`
	Pos     Vec3    `json:"pos" msgpack:"pos"`
	Dir     Vec3    `json:"dir" msgpack:"dir"`
	Range   float64 `json:"rg" msgpack:"rg"`
	Created int64   `json:"ts" msgpack:"ts"` // unix ms
}

// ProcessorState is broadcast per processor pickup
type ProcessorState struct {
	ID    string  `json:"id" msgpack:"id"`
	Kind  string  `json:"k" msgpack:"k"`
	Boost float64 `json:"b" msgpack:"b"`
	Pos   Vec3    `json:"pos" msgpack:"pos"`
}

// CannonState is broadcast per cannon pickup
type CannonState struct {
	ID  string `json:"id" msgpack:"id"`
	Pos Vec3   `json:"pos" msgpack:"pos"`
}

// StructureState is broadcast per structure
type StructureState struct {
	ID           string  `json:"id" msgpack:"id"`
	Pos          Vec3    `json:"pos" msgpack:"pos"`
	Radius       float64 `json:"rad" msgpack:"rad"`
	HP           int     `json:"hp" msgpack:"hp"`
	MaxHP        int     `json:"mhp" msgpack:"mhp"`
	Destructible bool    `json:"dd" msgpack:"dd"`
	Destroyed    bool    `json:"x" msgpack:"x"`
}

// GameState is the full snapshot pushed on connect and resync. Winners and
// the end timestamp are populated once the match leaves PLAYING, so a
// client arriving mid-podium can render it.
type GameState struct {
	MatchID     string            `json:"mid" msgpack:"mid"`
	Phase       string            `json:"ph" msgpack:"ph"`
	Players     []PlayerState     `json:"p" msgpack:"p"`
	Projectiles []ProjectileState `json:"pr" msgpack:"pr"`
	Processors  []ProcessorState  `json:"pc" msgpack:"pc"`
	Cannons     []CannonState     `json:"cn" msgpack:"cn"`
	Structures  []StructureState  `json:"s" msgpack:"s"`
	Winners     []WinnerEntry     `json:"w" msgpack:"w"`
	StartedAt   int64             `json:"st" msgpack:"st"` // unix ms
	EndedAt     int64             `json:"et" msgpack:"et"` // unix ms, zero while PLAYING
	Now         int64             `json:"now" msgpack:"now"`
}

// WelcomeMsg is sent to a player when they join
type WelcomeMsg struct {
	ID      string `json:"id"`
	MatchID string `json:"mid"`
}

// PosCorrectMsg pushes the authoritative position after a rejected claim.
type PosCorrectMsg struct {
	Pos Vec3    `json:"pos"`
	R   float64 `json:"r"`
}

// MovedMsg is the per-entity movement delta.
type MovedMsg struct {
	ID  string  `json:"id"`
	Pos Vec3    `json:"pos"`
	R   float64 `json:"r"`
	Dir Vec3    `json:"dir"`
}

// DamagedMsg is broadcast whenever damage lands.
type DamagedMsg struct {
	TargetID   string `json:"tid"`
	AttackerID string `json:"aid"`
	Damage     int    `json:"dmg"`
	HP         int    `json:"hp"`
}

// KilledMsg is broadcast on a death.
type KilledMsg struct {
	VictimID   string `json:"vid"`
	AttackerID string `json:"aid"`
}

// CollectedMsg is broadcast when a pickup is consumed.
type CollectedMsg struct {
	ID       string `json:"id"`
	PlayerID string `json:"pid"`
	Kind     string `json:"k,omitempty"`
}

// StructDamagedMsg is broadcast when a structure takes damage.
type StructDamagedMsg struct {
	ID string `json:"id"`
	HP int    `json:"hp"`
}

// WinnerEntry is one podium row.
type WinnerEntry struct {
	ID    string `json:"id"`
	Name  string `json:"n"`
	Power int    `json:"pw"`
}

// MatchEndedMsg carries the podium.
type MatchEndedMsg struct {
	MatchID string        `json:"mid"`
	Winners []WinnerEntry `json:"w"`
}

// MatchRestartingMsg announces the imminent restart.
type MatchRestartingMsg struct {
	CountdownMs int64 `json:"cd"`
}

// MatchRestartedMsg announces the new match.
type MatchRestartedMsg struct {
	MatchID string `json:"mid"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}
