// Package netmsg defines the wire protocol between clients and the
// authoritative simulation: a thin JSON envelope with typed payloads.
package netmsg

import "encoding/json"

const (
	MsgHello    = "hello"
	MsgWelcome  = "welcome"
	MsgMove     = "move"
	MsgActivate = "activate"
	MsgUse      = "use"
	MsgState    = "state"
)

// Envelope wraps every message with its type tag.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

// Hello is the first client message.
type Hello struct {
	Name string `json:"name"`
}

// Welcome binds the session to its player entity.
type Welcome struct {
	Player uint64 `json:"player"`
}

// Move asks the authority to relocate the sender's tether anchor.
type Move struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Activate triggers the sender's wielded gun in hand (manual release).
type Activate struct{}

// Use attempts a targeted interaction with the sender's wielded gun.
type Use struct {
	Target uint64 `json:"target"`
}

// GunState is the replicated view of one tether gun.
type GunState struct {
	Entity   uint64          `json:"entity"`
	Tethered uint64          `json:"tethered,omitempty"`
	Anchor   uint64          `json:"anchor,omitempty"`
	Visuals  map[string]bool `json:"visuals,omitempty"`
}

// StrapState is the replicated occupancy of one piece of restraint
// furniture.
type StrapState struct {
	Entity    uint64   `json:"entity"`
	Occupants []uint64 `json:"occupants,omitempty"`
}

// BodyState is the replicated pose of one physics body.
type BodyState struct {
	Entity   uint64  `json:"entity"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
}

// State is a snapshot of entities that changed since the last broadcast.
type State struct {
	Tick   uint64       `json:"tick"`
	Guns   []GunState   `json:"guns,omitempty"`
	Straps []StrapState `json:"straps,omitempty"`
	Bodies []BodyState  `json:"bodies,omitempty"`
}
