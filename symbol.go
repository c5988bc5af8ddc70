package fstlookup

import "fmt"

// SymbolID is a dense, zero-based integer identifying a Symbol within a
// SymbolTable. Id 0 is reserved for Epsilon per the Foma convention.
type SymbolID int

// SymbolKind tags the variant held by a Symbol.
type SymbolKind uint8

const (
	KindEpsilon SymbolKind = iota
	KindIdentity
	KindUnknown
	KindGrapheme
	KindMultiChar
	KindFlag
)

func (k SymbolKind) String() string {
	switch k {
	case KindEpsilon:
		return "epsilon"
	case KindIdentity:
		return "identity"
	case KindUnknown:
		return "unknown"
	case KindGrapheme:
		return "grapheme"
	case KindMultiChar:
		return "multichar"
	case KindFlag:
		return "flag"
	default:
		return "invalid"
	}
}

// FlagOp is one of the six flag-diacritic operators.
type FlagOp byte

const (
	FlagPositive FlagOp = 'P'
	FlagNegative FlagOp = 'N'
	FlagRequire  FlagOp = 'R'
	FlagDisallow FlagOp = 'D'
	FlagClear    FlagOp = 'C'
	FlagUnify    FlagOp = 'U'
)

// Symbol is a single entry in an FST's alphabet: either a wildcard
// (Epsilon/Identity/Unknown), a piece of text (Grapheme/MultiChar), or a
// flag diacritic (a no-surface constraint on the feature environment).
type Symbol struct {
	Kind SymbolKind

	// Text holds the verbatim sigma-section text for Grapheme and
	// MultiChar symbols, and the original "@OP.feature[.value]@" text for
	// Flag symbols (kept around for diagnostics and round-tripping).
	Text string

	// Flag-only fields.
	Op       FlagOp
	Feature  string
	Value    string
	HasValue bool
}

// IsFlag reports whether sym is a flag diacritic.
func (sym Symbol) IsFlag() bool {
	return sym.Kind == KindFlag
}

// IsGraphical reports whether sym can appear in surface output, i.e. it is
// a Grapheme or MultiChar symbol.
func (sym Symbol) IsGraphical() bool {
	return sym.Kind == KindGrapheme || sym.Kind == KindMultiChar
}

func (sym Symbol) String() string {
	switch sym.Kind {
	case KindEpsilon:
		return "@_EPSILON_SYMBOL_@"
	case KindIdentity:
		return "@_IDENTITY_SYMBOL_@"
	case KindUnknown:
		return "@_UNKNOWN_SYMBOL_@"
	case KindGrapheme, KindMultiChar:
		return sym.Text
	case KindFlag:
		if sym.HasValue {
			return fmt.Sprintf("@%c.%s.%s@", sym.Op, sym.Feature, sym.Value)
		}
		return fmt.Sprintf("@%c.%s@", sym.Op, sym.Feature)
	default:
		return "<invalid-symbol>"
	}
}

// Epsilon, Identity and Unknown are the three special wildcard symbols.
// They are package-level values, copied wherever they are needed, since
// they carry no per-instance state.
var (
	epsilonSymbol  = Symbol{Kind: KindEpsilon}
	identitySymbol = Symbol{Kind: KindIdentity}
	unknownSymbol  = Symbol{Kind: KindUnknown}
)

// SymbolTable interns all symbols appearing in an automaton's sigma
// section. It is built once by the parser and is immutable thereafter.
type SymbolTable struct {
	// byID maps a dense symbol id to its Symbol. Grown lazily while
	// parsing, as ids arrive in any order.
	byID []Symbol

	// textToID indexes Grapheme and MultiChar symbols by their surface
	// text, for the tokenizer's longest-match lookups. Built once
	// finalization completes.
	textToID map[string]SymbolID

	// trie backs greedy longest-match tokenization over textToID's keys.
	trie *symbolTrie
}

func newSymbolTable() *SymbolTable {
	return &SymbolTable{}
}

// set installs sym at id, growing the backing slice as needed. Mirrors
// the lazy-growth discipline used for automaton states: nothing requires
// ids to arrive in order, only that every id eventually gets a symbol.
func (t *SymbolTable) set(id SymbolID, sym Symbol) {
	if int(id) >= len(t.byID) {
		grown := make([]Symbol, id+1)
		copy(grown, t.byID)
		t.byID = grown
	}
	t.byID[id] = sym
}

// finalize builds the text-indexed lookup structures used by the
// tokenizer. Must be called once, after all sigma entries are set.
func (t *SymbolTable) finalize() {
	t.textToID = make(map[string]SymbolID)
	t.trie = newSymbolTrie()
	for id, sym := range t.byID {
		if !sym.IsGraphical() || sym.Text == "" {
			continue
		}
		t.textToID[sym.Text] = SymbolID(id)
		t.trie.insert(sym.Text, SymbolID(id))
	}
}

// Len returns the number of interned symbols (|sigma|).
func (t *SymbolTable) Len() int {
	return len(t.byID)
}

// Lookup returns the symbol for id and whether id is in range.
func (t *SymbolTable) Lookup(id SymbolID) (Symbol, bool) {
	if id < 0 || int(id) >= len(t.byID) {
		return Symbol{}, false
	}
	return t.byID[id], true
}

// MustLookup is Lookup without the ok return, for call sites that have
// already validated id comes from a parsed, invariant-checked automaton.
// It panics on an out-of-range id: an out-of-range symbol id at search
// time is a programming error, not a user error.
func (t *SymbolTable) MustLookup(id SymbolID) Symbol {
	sym, ok := t.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("fstlookup: symbol id %d out of range (sigma size %d)", id, len(t.byID)))
	}
	return sym
}
