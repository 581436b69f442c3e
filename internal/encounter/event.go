package encounter

import (
	"encoding/json"
	"time"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeStart             // Encounter start with backend and progress
	EventTypeShove
	EventTypeCounter
	EventTypeBossShove
	EventTypeFall
	EventTypeOutcome
	EventTypeReapply
	EventTypeTimeScale
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is the core event structure for the event log
type Event struct {
	Version   uint8           `json:"version"`   // Schema version
	Type      EventType       `json:"type"`      // Event type
	Timestamp int64           `json:"timestamp"` // Unix nano
	Sequence  uint64          `json:"sequence"`  // Monotonic sequence
	TickNum   int64           `json:"tickNum"`   // Physics tick this occurred in
	SimTime   float64         `json:"simTime"`   // Scaled simulation seconds
	Source    string          `json:"source"`    // Emitting agent role (for rate limiting)
	Payload   json.RawMessage `json:"payload"`   // JSON-encoded payload
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeStart:
		return "start"
	case EventTypeShove:
		return "shove"
	case EventTypeCounter:
		return "counter"
	case EventTypeBossShove:
		return "boss_shove"
	case EventTypeFall:
		return "fall"
	case EventTypeOutcome:
		return "outcome"
	case EventTypeReapply:
		return "reapply"
	case EventTypeTimeScale:
		return "time_scale"
	default:
		return "unknown"
	}
}

// Typed payloads for different event types

// StartPayload records how the encounter was set up
type StartPayload struct {
	Backend  string `json:"backend"`
	TickRate int    `json:"tickRate"`
	Progress int    `json:"progress"`
}

// ShovePayload contains a player shove
type ShovePayload struct {
	Impulse  float64 `json:"impulse"`
	Approach float64 `json:"approach"`
	BossMass float64 `json:"bossMass"`
	PushX    float64 `json:"pushX"`
	PushY    float64 `json:"pushY"`
}

// CounterPayload contains a boss counter
type CounterPayload struct {
	Instant bool    `json:"instant"`
	Impulse float64 `json:"impulse"`
	PushX   float64 `json:"pushX"`
	PushY   float64 `json:"pushY"`
}

// BossShovePayload contains a boss contact shove
type BossShovePayload struct {
	Impulse float64 `json:"impulse"`
	PlayerX float64 `json:"playerX"`
	BossX   float64 `json:"bossX"`
}

// FallPayload records an agent dropping into the pit
type FallPayload struct {
	Role      string `json:"role"`
	LivesLeft int    `json:"livesLeft"`
}

// OutcomePayload records the end of the fight
type OutcomePayload struct {
	Outcome string `json:"outcome"`
	Reason  string `json:"reason"`
}

// ReapplyPayload records a difficulty write
type ReapplyPayload struct {
	Progress    int     `json:"progress"`
	Profile     string  `json:"profile"`
	ShoveDeltaV float64 `json:"shoveDeltaV"`
	BossMass    float64 `json:"bossMass"`
}

// TimeScalePayload records a slow-motion change
type TimeScalePayload struct {
	Scale float64 `json:"scale"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) json.RawMessage {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum int64, simTime float64, source string, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		SimTime:   simTime,
		Source:    source,
		Payload:   EncodePayload(payload),
	}
}
