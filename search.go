package fstlookup

// Side selects which label of an arc is matched against input, and which
// is emitted as output.
type Side int

const (
	// SideDown matches input against the lower label and emits the upper
	// label (this is what Analyze uses).
	SideDown Side = iota
	// SideUp matches input against the upper label and emits the lower
	// label (this is what Generate uses).
	SideUp
)

// searchFrame is one entry on the explicit DFS stack. Grounded on
// fst_lookup/fst.py's Transducer._accept recursive generator: the same
// "try epsilon, try a matching symbol, try a flag" branching, reshaped
// into an explicit stack, so a ResultIter can resume exactly where it
// paused instead of materializing every result eagerly.
type searchFrame struct {
	state     StateID
	arcs      []Arc
	arcIdx    int
	inputPos  int
	env       Environment
	triedEmit bool

	// visitKey is the cycle-guard key registered when this frame was
	// pushed, the root frame included. pushedOutput reports whether entering this frame
	// appended exactly one symbol to the shared output stack; it is true
	// for every frame except the root.
	visitKey     string
	pushedOutput bool
}

// ResultIter lazily enumerates the accepting paths of a transduction:
// each call to Next returns the next result (a sequence of Symbols
// including flags, not yet formatted or stripped) until it reports
// done=true. A ResultIter holds its own
// stack and must not be advanced from multiple goroutines concurrently.
// Abandoning one (simply not calling Next again) releases no external
// resources: only ordinary Go heap memory is held.
type ResultIter struct {
	automaton *Automaton
	tokens    []Token
	side      Side

	stack   []*searchFrame
	output  []Symbol
	visited map[string]bool
}

// newResultIter sets up a ResultIter at the automaton's start state, with
// no input consumed and an empty feature environment.
func newResultIter(a *Automaton, tokens []Token, side Side) *ResultIter {
	it := &ResultIter{
		automaton: a,
		tokens:    tokens,
		side:      side,
		visited:   make(map[string]bool),
	}
	rootKey := visitKey(a.Start, 0, Environment{})
	it.push(a.Start, 0, Environment{}, rootKey, false, Symbol{})
	return it
}

// push installs a new frame on the stack. Its (state, inputPos, env) key
// is always registered with the cycle guard so that re-entering the same
// triple later on the same branch is refused, whether or not this frame
// is the root. If sym is a real arc traversal (not the root), it is also
// appended to the shared output stack.
func (it *ResultIter) push(state StateID, inputPos int, env Environment, key string, hasOutput bool, sym Symbol) {
	it.visited[key] = true
	if hasOutput {
		it.output = append(it.output, sym)
	}
	it.stack = append(it.stack, &searchFrame{
		state:        state,
		arcs:         it.automaton.ArcsFrom(state),
		inputPos:     inputPos,
		env:          env,
		visitKey:     key,
		pushedOutput: hasOutput,
	})
}

func (it *ResultIter) pop() {
	top := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	delete(it.visited, top.visitKey)
	if top.pushedOutput {
		it.output = it.output[:len(it.output)-1]
	}
}

// Next advances the search and returns the next result, or done=true once
// every accepting path has been produced. The returned slice is a fresh
// copy, safe to retain across later calls to Next — the iterator's
// internal output buffer keeps growing and shrinking underneath it as the
// search continues.
func (it *ResultIter) Next() (result []Symbol, done bool) {
	for len(it.stack) > 0 {
		top := it.stack[len(it.stack)-1]

		if !top.triedEmit {
			top.triedEmit = true
			if top.inputPos == len(it.tokens) && it.automaton.IsAccepting(top.state) {
				return append([]Symbol{}, it.output...), false
			}
		}

		if top.arcIdx >= len(top.arcs) {
			it.pop()
			continue
		}
		arc := top.arcs[top.arcIdx]
		top.arcIdx++

		var inID, outID SymbolID
		if it.side == SideDown {
			inID, outID = arc.Lower, arc.Upper
		} else {
			inID, outID = arc.Upper, arc.Lower
		}
		inSym := it.automaton.Sigma.MustLookup(inID)

		switch {
		case inSym.Kind == KindFlag:
			ok, nextEnv := Evaluate(top.env, inSym)
			if !ok {
				continue
			}
			it.tryEnter(top, arc.Destination, top.inputPos, nextEnv, inSym)

		case inSym.Kind == KindEpsilon:
			outSym := it.automaton.Sigma.MustLookup(outID)
			it.tryEnter(top, arc.Destination, top.inputPos, top.env, outSym)

		default:
			if top.inputPos >= len(it.tokens) {
				continue
			}
			matched, emitted := matchArcInput(it.automaton.Sigma, inID, inSym, outID, it.tokens[top.inputPos])
			if !matched {
				continue
			}
			it.tryEnter(top, arc.Destination, top.inputPos+1, top.env, emitted)
		}
	}
	return nil, true
}

// tryEnter pushes a child frame for (dest, inputPos, env), unless that
// exact triple is already present on the current branch of the stack, in
// which case the branch is pruned (the cycle guard).
func (it *ResultIter) tryEnter(parent *searchFrame, dest StateID, inputPos int, env Environment, sym Symbol) {
	key := visitKey(dest, inputPos, env)
	if it.visited[key] {
		return
	}
	it.push(dest, inputPos, env, key, true, sym)
}

func visitKey(state StateID, inputPos int, env Environment) string {
	return itoa(int(state)) + "|" + itoa(inputPos) + "|" + env.fingerprint()
}

// itoa avoids pulling in strconv just for small non-negative ints in a
// hot path; SymbolID/StateID/positions are always small in practice.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// matchArcInput decides whether inSym (the label on the matching side of
// an arc, interned at inID) accepts tok, and if so what Symbol to emit on
// the output side (outID resolved against sigma). Identity arcs pass the
// unmatched character straight through.
func matchArcInput(sigma *SymbolTable, inID SymbolID, inSym Symbol, outID SymbolID, tok Token) (matched bool, emitted Symbol) {
	switch inSym.Kind {
	case KindIdentity, KindUnknown:
		if tok.Known {
			return false, Symbol{}
		}
		outSym := sigma.MustLookup(outID)
		if outSym.Kind == KindIdentity {
			return true, Symbol{Kind: KindGrapheme, Text: tok.Text}
		}
		return true, outSym
	default:
		if !tok.Known || tok.ID != inID {
			return false, Symbol{}
		}
		return true, sigma.MustLookup(outID)
	}
}
