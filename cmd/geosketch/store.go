package main

import (
	"sync"
	"time"

	"github.com/paulmach/orb"
)

// Symbol is a completed annotation: the points the user committed while
// drawing, in commit order.
type Symbol struct {
	ID          int
	Geometry    orb.MultiPoint
	CompletedAt time.Time
}

// SymbolStore holds finished symbols. It is shared between the UI goroutine
// and the local API server, so access is guarded.
type SymbolStore struct {
	mu      sync.Mutex
	nextID  int
	symbols []Symbol
}

func NewSymbolStore() *SymbolStore {
	return &SymbolStore{nextID: 1}
}

func (s *SymbolStore) Add(geom orb.MultiPoint) Symbol {
	s.mu.Lock()
	defer s.mu.Unlock()

	sym := Symbol{
		ID:          s.nextID,
		Geometry:    geom,
		CompletedAt: time.Now(),
	}
	s.nextID++
	s.symbols = append(s.symbols, sym)
	return sym
}

func (s *SymbolStore) All() []Symbol {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Symbol, len(s.symbols))
	copy(out, s.symbols)
	return out
}

func (s *SymbolStore) Find(id int) (Symbol, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sym := range s.symbols {
		if sym.ID == id {
			return sym, true
		}
	}
	return Symbol{}, false
}

func (s *SymbolStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.symbols)
}
