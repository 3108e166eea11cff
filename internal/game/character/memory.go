package character

import "time"

const (
	shortTermCap = 20
	longTermCap  = 50

	// longTermImpactThreshold promotes evicted short-term events whose
	// absolute impact exceeds it.
	longTermImpactThreshold = 5
)

// MemoryEvent is one remembered happening.
type MemoryEvent struct {
	Type         string // "action_start", "action_complete", ...
	Action       string // action id, if any
	Location     string // area id, if any
	InvolvedChar string // other character id, if any
	Impact       float64
	At           time.Time // room sim time
}

// Relationship tracks accumulated feelings toward one other character.
//
// Invariant: Friendship stays in [-100, 100]; Romance stays in [0, 100].
type Relationship struct {
	Friendship       float64
	Romance          float64
	InteractionCount int
	LastInteraction  time.Time
}

// Memory stores a character's recent events and relationship map.
// Short-term is newest-first and capped; evicted entries with large impact
// are promoted to the long-term buffer.
type Memory struct {
	ShortTerm     []MemoryEvent
	LongTerm      []MemoryEvent
	relationships map[string]*Relationship
}

// NewMemory returns an empty Memory.
func NewMemory() *Memory {
	return &Memory{relationships: make(map[string]*Relationship)}
}

// AddEvent prepends event to short-term memory, evicting the oldest entry
// once the cap is reached.
//
// Postcondition: len(ShortTerm) <= 20 and len(LongTerm) <= 50.
func (m *Memory) AddEvent(event MemoryEvent) {
	m.ShortTerm = append([]MemoryEvent{event}, m.ShortTerm...)
	if len(m.ShortTerm) > shortTermCap {
		old := m.ShortTerm[len(m.ShortTerm)-1]
		m.ShortTerm = m.ShortTerm[:len(m.ShortTerm)-1]
		if old.Impact > longTermImpactThreshold || old.Impact < -longTermImpactThreshold {
			m.LongTerm = append([]MemoryEvent{old}, m.LongTerm...)
			if len(m.LongTerm) > longTermCap {
				m.LongTerm = m.LongTerm[:longTermCap]
			}
		}
	}
}

// Relationship returns the relationship entry for charID, creating a zero
// entry on first access.
func (m *Memory) Relationship(charID string) *Relationship {
	rel, ok := m.relationships[charID]
	if !ok {
		rel = &Relationship{}
		m.relationships[charID] = rel
	}
	return rel
}

// ModifyRelationship adjusts friendship and romance toward charID, clamped,
// and records the interaction.
func (m *Memory) ModifyRelationship(charID string, friendshipDelta, romanceDelta float64, now time.Time) {
	rel := m.Relationship(charID)
	rel.Friendship = clamp(rel.Friendship+friendshipDelta, -100, 100)
	rel.Romance = clamp(rel.Romance+romanceDelta, 0, 100)
	rel.InteractionCount++
	rel.LastInteraction = now
}

// RecentAbout returns short-term events involving charID, newest first.
func (m *Memory) RecentAbout(charID string) []MemoryEvent {
	var events []MemoryEvent
	for _, e := range m.ShortTerm {
		if e.InvolvedChar == charID {
			events = append(events, e)
		}
	}
	return events
}

// RememberedActionSince reports whether actionID appears in short-term
// memory with a timestamp at or after cutoff.
func (m *Memory) RememberedActionSince(actionID string, cutoff time.Time) bool {
	for _, e := range m.ShortTerm {
		if e.Action == actionID && !e.At.Before(cutoff) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
