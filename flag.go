package fstlookup

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// flagPattern recognizes the general shape of a flag-diacritic symbol
// text: @<op-letter>.<feature>[.<value>]@. The operator letter is
// captured separately so an unrecognized letter can be reported as a
// ParseError rather than silently treated as an ordinary MultiChar
// symbol.
var flagPattern = regexp.MustCompile(`^@([A-Za-z])\.([^.@]+)(?:\.([^@]+))?@$`)

// looksLikeFlag reports whether text has the "@X.y[.z]@" shape, without
// validating the operator letter or arity.
func looksLikeFlag(text string) bool {
	return flagPattern.MatchString(text)
}

// parseFlagSymbol parses text (known to match flagPattern) into a Flag
// Symbol, enforcing each operator's arity.
func parseFlagSymbol(text string) (Symbol, error) {
	m := flagPattern.FindStringSubmatch(text)
	if m == nil {
		return Symbol{}, fmt.Errorf("%q is not a flag diacritic", text)
	}
	opLetter, feature, value := m[1], m[2], m[3]
	hasValue := m[3] != ""

	var op FlagOp
	switch strings.ToUpper(opLetter) {
	case "P":
		op = FlagPositive
	case "N":
		op = FlagNegative
	case "R":
		op = FlagRequire
	case "D":
		op = FlagDisallow
	case "C":
		op = FlagClear
	case "U":
		op = FlagUnify
	default:
		return Symbol{}, fmt.Errorf("unrecognized flag-diacritic operator %q in %q", opLetter, text)
	}

	switch op {
	case FlagPositive, FlagNegative, FlagUnify:
		if !hasValue {
			return Symbol{}, fmt.Errorf("flag diacritic %q requires a value", text)
		}
	case FlagClear:
		if hasValue {
			return Symbol{}, fmt.Errorf("flag diacritic %q takes no value", text)
		}
	case FlagRequire, FlagDisallow:
		// Both arities are valid for R and D.
	}

	return Symbol{
		Kind:     KindFlag,
		Text:     text,
		Op:       op,
		Feature:  feature,
		Value:    value,
		HasValue: hasValue,
	}, nil
}

// featureState describes what is currently known about a single feature
// in an Environment: unset, positively set to a value, or negatively set
// (explicitly excluded from a value).
type featureState struct {
	defined  bool
	negative bool
	value    string
}

// Environment is a feature environment threaded through a search branch,
// mutated (by copying) on every flag-diacritic arc traversal. The zero
// value is the environment at the root of a search: every feature unset.
type Environment struct {
	features map[string]featureState
}

// Get returns the state of a feature, and whether it has been set at all
// (positively or negatively).
func (e Environment) Get(feature string) (value string, negative bool, defined bool) {
	fs, ok := e.features[feature]
	if !ok {
		return "", false, false
	}
	return fs.value, fs.negative, true
}

// with returns a copy of e with feature set to the given state. The
// receiver is never mutated: each arc traversal produces a new
// Environment value, so a frame's environment never changes after it is
// pushed onto the search stack.
func (e Environment) with(feature string, fs featureState) Environment {
	next := make(map[string]featureState, len(e.features)+1)
	for k, v := range e.features {
		next[k] = v
	}
	next[feature] = fs
	return Environment{features: next}
}

// clear returns a copy of e with feature removed entirely.
func (e Environment) clear(feature string) Environment {
	if _, ok := e.features[feature]; !ok {
		return e
	}
	next := make(map[string]featureState, len(e.features))
	for k, v := range e.features {
		if k != feature {
			next[k] = v
		}
	}
	return Environment{features: next}
}

// Evaluate applies a flag-diacritic Symbol's constraint to env. It
// returns ok=false if the constraint fails (the branch must be pruned),
// or ok=true and the resulting environment for the branch that traverses
// the arc. sym must satisfy sym.IsFlag().
//
// Grounded on fst_lookup/flags.py's FlagDiacritic.test/apply pair,
// generalized to support the Positive/Negative distinction this
// specification's table adds (the original implementation only ever
// stores a plain string value per feature; this one also remembers
// "explicitly not this value").
func Evaluate(env Environment, sym Symbol) (ok bool, next Environment) {
	if sym.Kind != KindFlag {
		panic("fstlookup: Evaluate called on a non-flag symbol")
	}

	value, negative, defined := env.Get(sym.Feature)

	switch sym.Op {
	case FlagPositive:
		return true, env.with(sym.Feature, featureState{defined: true, value: sym.Value})

	case FlagNegative:
		return true, env.with(sym.Feature, featureState{defined: true, negative: true, value: sym.Value})

	case FlagClear:
		return true, env.clear(sym.Feature)

	case FlagRequire:
		if !sym.HasValue {
			// R with no value: feature must be set to any value.
			return defined, env
		}
		// R with a value: feature must be positively set to exactly this value.
		return defined && !negative && value == sym.Value, env

	case FlagDisallow:
		if !sym.HasValue {
			// D with no value: feature must be unset.
			return !defined, env
		}
		// D with a value: feature must not be positively set to this value.
		return !(defined && !negative && value == sym.Value), env

	case FlagUnify:
		// Unset, or positively set to this exact value, or negatively set
		// to some other value, all permit unification.
		allowed := !defined || (!negative && value == sym.Value) || (negative && value != sym.Value)
		if !allowed {
			return false, env
		}
		return true, env.with(sym.Feature, featureState{defined: true, value: sym.Value})

	default:
		panic(fmt.Sprintf("fstlookup: unknown flag op %q", sym.Op))
	}
}

// fingerprint returns a canonical, order-independent string encoding of
// env, used as part of the path-search engine's cycle-guard key. This
// must not conflate two environments that differ in a way that would
// change future evaluation results.
func (e Environment) fingerprint() string {
	if len(e.features) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.features))
	for k := range e.features {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fs := e.features[k]
		b.WriteString(k)
		b.WriteByte('=')
		if fs.negative {
			b.WriteByte('!')
		}
		b.WriteString(fs.value)
		b.WriteByte(';')
	}
	return b.String()
}
