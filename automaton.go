package fstlookup

import "sort"

// StateID identifies a state in an Automaton. State 0 is always the start
// state.
type StateID int

// Arc is a single transition: consume Lower on the lower side while
// emitting Upper on the upper side (or vice versa, depending on search
// direction), moving from Source to Destination. Two arcs are equal iff
// all four fields match; arc ordering is insertion order, not defined by
// value.
type Arc struct {
	Source      StateID
	Upper       SymbolID
	Lower       SymbolID
	Destination StateID
}

// State holds a contiguous slice (by offset/count into Automaton.Arcs) of
// a state's outgoing arcs. The automaton is a flat states-vector plus a
// flat arcs-vector rather than owned/pointer-linked nodes: this keeps
// cycles free (ids, not pointers) and traversal cache-friendly.
type State struct {
	ArcStart int
	ArcCount int
}

// Automaton is the in-memory FST graph: immutable after construction,
// safe to share by reference across goroutines for concurrent reads.
type Automaton struct {
	Sigma     *SymbolTable
	States    []State
	Arcs      []Arc
	Start     StateID
	accepting map[StateID]struct{}
}

// IsAccepting reports whether s is an accepting state.
func (a *Automaton) IsAccepting(s StateID) bool {
	_, ok := a.accepting[s]
	return ok
}

// ArcsFrom returns the outgoing arcs of s, in the order they were
// declared in the source file. Panics if s is out of range: an
// out-of-range state id at search time is a parser bug, not a user
// error.
func (a *Automaton) ArcsFrom(s StateID) []Arc {
	if int(s) < 0 || int(s) >= len(a.States) {
		panic("fstlookup: state id out of range")
	}
	st := a.States[s]
	return a.Arcs[st.ArcStart : st.ArcStart+st.ArcCount]
}

// Invert swaps Upper and Lower on every arc, producing a new Automaton
// that shares the same SymbolTable and accepting set. Used to implement
// the "invert" construction option: applied once at construction rather
// than on every search.
func (a *Automaton) Invert() *Automaton {
	inverted := make([]Arc, len(a.Arcs))
	for i, arc := range a.Arcs {
		inverted[i] = Arc{
			Source:      arc.Source,
			Upper:       arc.Lower,
			Lower:       arc.Upper,
			Destination: arc.Destination,
		}
	}
	return &Automaton{
		Sigma:     a.Sigma,
		States:    a.States,
		Arcs:      inverted,
		Start:     a.Start,
		accepting: a.accepting,
	}
}

// automatonBuilder accumulates arcs and accepting-state markers while the
// parser walks the ##states## section, then produces a flat Automaton.
// Kept separate from Automaton itself so construction (which needs
// mutable, growable state) never leaks into the immutable public type.
type automatonBuilder struct {
	arcs      []Arc
	accepting map[StateID]struct{}
	maxState  StateID
}

func newAutomatonBuilder() *automatonBuilder {
	return &automatonBuilder{accepting: make(map[StateID]struct{})}
}

func (b *automatonBuilder) track(s StateID) {
	if s > b.maxState {
		b.maxState = s
	}
}

// addArcRecord appends an arc with the given source/upper/lower/destination
// symbol and state ids, tracking the maximum referenced state id so the
// final States slice is sized correctly even for states that are only
// ever a destination.
func (b *automatonBuilder) addArcRecord(source StateID, upper, lower SymbolID, dest StateID) {
	b.arcs = append(b.arcs, Arc{Source: source, Upper: upper, Lower: lower, Destination: dest})
	b.track(source)
	b.track(dest)
}

func (b *automatonBuilder) markAccepting(s StateID) {
	b.accepting[s] = struct{}{}
	b.track(s)
}

// finalize groups arcs by source state (stably, so arc-insertion order
// within a state is preserved) and builds the flat States/Arcs vectors.
func (b *automatonBuilder) finalize(sigma *SymbolTable, start StateID) *Automaton {
	sort.SliceStable(b.arcs, func(i, j int) bool {
		return b.arcs[i].Source < b.arcs[j].Source
	})

	numStates := int(b.maxState) + 1
	if numStates < int(start)+1 {
		numStates = int(start) + 1
	}
	states := make([]State, numStates)

	i := 0
	for i < len(b.arcs) {
		src := b.arcs[i].Source
		groupStart := i
		for i < len(b.arcs) && b.arcs[i].Source == src {
			i++
		}
		states[src] = State{ArcStart: groupStart, ArcCount: i - groupStart}
	}

	return &Automaton{
		Sigma:     sigma,
		States:    states,
		Arcs:      b.arcs,
		Start:     start,
		accepting: b.accepting,
	}
}
