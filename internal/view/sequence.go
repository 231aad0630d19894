package view

import "sync"

// Ticket identifies one request issued for a logical slot such as
// "search box" or "latest page".
type Ticket struct {
	Slot string
	Seq  uint64
}

// Sequencer hands out increasing tickets per slot so a late response for a
// superseded request can be recognised and dropped.
type Sequencer struct {
	mu     sync.Mutex
	latest map[string]uint64
}

// NewSequencer creates an empty sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{latest: make(map[string]uint64)}
}

// Issue returns a ticket that supersedes every earlier ticket for slot.
func (s *Sequencer) Issue(slot string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[slot]++
	return Ticket{Slot: slot, Seq: s.latest[slot]}
}

// Current reports whether t is still the newest ticket for its slot.
func (s *Sequencer) Current(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t.Seq != 0 && s.latest[t.Slot] == t.Seq
}
