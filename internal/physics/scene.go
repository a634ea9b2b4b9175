package physics

import "sync/atomic"

// Scene publishes attractor snapshots. Readers always observe one complete
// set; edits build a new set and swap it in.
type Scene struct {
	current atomic.Pointer[AttractorSet]
}

func NewScene(initial []Attractor) (*Scene, error) {
	set, err := NewAttractorSet(initial)
	if err != nil {
		return nil, err
	}
	s := &Scene{}
	s.current.Store(set)
	return s, nil
}

// Snapshot returns the current set. The returned set never changes.
func (s *Scene) Snapshot() *AttractorSet {
	return s.current.Load()
}

// Update replaces the scene contents. On error the previous snapshot stays.
func (s *Scene) Update(attractors []Attractor) (*AttractorSet, error) {
	set, err := NewAttractorSet(attractors)
	if err != nil {
		return nil, err
	}
	s.current.Store(set)
	return set, nil
}

// Edit applies fn to a copy of the current attractors and publishes the
// result. Concurrent edits retry against the snapshot that won.
func (s *Scene) Edit(fn func([]Attractor) []Attractor) (*AttractorSet, error) {
	for {
		prev := s.current.Load()
		set, err := NewAttractorSet(fn(prev.Attractors()))
		if err != nil {
			return nil, err
		}
		if s.current.CompareAndSwap(prev, set) {
			return set, nil
		}
	}
}
