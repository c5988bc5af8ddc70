// Package fstlookup loads a finite-state transducer produced by the Foma
// toolkit and performs bidirectional lookup over it, in the manner of
// Beesley & Karttunen's "apply up"/"apply down": given a surface word
// form it enumerates the analyses (lemma plus tag sequence) accepted by
// the transducer's lower side and emitted on the upper side, and given an
// analysis it enumerates the surface forms that produce it.
package fstlookup

import (
	"bytes"
	"io"
	"os"
	"strings"
)

// Options configures construction of an FST.
type Options struct {
	// Invert swaps the roles of the upper and lower labels globally, for
	// FSTs (commonly ones produced by HFST rather than Foma) whose label
	// convention is reversed.
	Invert bool
}

// FST is a loaded, ready-to-query finite-state transducer. Mirrors the
// teacher package's Lemmatizer: a small struct built once by a
// constructor, exposing thin public methods that delegate to the
// unexported search machinery.
type FST struct {
	automaton *Automaton
}

// FromBytes parses a gzip-compressed Foma network from memory.
func FromBytes(data []byte, opts Options) (*FST, error) {
	return FromReader(bytes.NewReader(data), opts)
}

// FromReader parses a gzip-compressed Foma network read from r.
func FromReader(r io.Reader, opts Options) (*FST, error) {
	automaton, err := Parse(r)
	if err != nil {
		return nil, err
	}
	if opts.Invert {
		automaton = automaton.Invert()
	}
	return &FST{automaton: automaton}, nil
}

// FromFile opens path and parses it as a gzip-compressed Foma network.
func FromFile(path string, opts Options) (*FST, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return FromReader(f, opts)
}

// Analysis is one ordered sequence of symbol texts produced by Analyze:
// typically a lemma followed by its grammatical tags, e.g.
// ["eat", "+V", "+Past"].
type Analysis []string

// AnalysisSeq is a lazily-advanced sequence of Analyses. Call Next
// repeatedly until it reports done=true.
type AnalysisSeq struct {
	iter *ResultIter
}

// Next returns the next analysis, or done=true once the surface form's
// analyses have been exhausted.
func (s *AnalysisSeq) Next() (Analysis, bool) {
	result, done := s.iter.Next()
	if done {
		return nil, true
	}
	return formatTransduction(result), false
}

// All drains the sequence into a slice. Convenience for callers that do
// not need laziness (e.g. tests asserting on a whole multiset of
// results); large or cyclic automatons should prefer Next.
func (s *AnalysisSeq) All() []Analysis {
	var out []Analysis
	for {
		a, done := s.Next()
		if done {
			return out
		}
		out = append(out, a)
	}
}

// Analyze returns the lazy sequence of analyses for surface. An unknown
// input character makes that branch fail silently rather than raising an
// error; the method itself never errors.
func (f *FST) Analyze(surface string) *AnalysisSeq {
	tokens := Tokenize(f.automaton.Sigma, surface)
	return &AnalysisSeq{iter: newResultIter(f.automaton, tokens, SideDown)}
}

// SurfaceSeq is a lazily-advanced sequence of surface forms produced by
// Generate.
type SurfaceSeq struct {
	iter *ResultIter
}

// Next returns the next surface form, or done=true once exhausted.
func (s *SurfaceSeq) Next() (string, bool) {
	result, done := s.iter.Next()
	if done {
		return "", true
	}
	return joinSurface(result), false
}

// All drains the sequence into a slice; see AnalysisSeq.All.
func (s *SurfaceSeq) All() []string {
	var out []string
	for {
		form, done := s.Next()
		if done {
			return out
		}
		out = append(out, form)
	}
}

// Generate returns the lazy sequence of surface forms for analysis.
func (f *FST) Generate(analysis string) *SurfaceSeq {
	tokens := Tokenize(f.automaton.Sigma, analysis)
	return &SurfaceSeq{iter: newResultIter(f.automaton, tokens, SideUp)}
}

// Sigma exposes the loaded symbol table, e.g. for a diagnostic dump (see
// cmd/server's /api/sigma endpoint).
func (f *FST) Sigma() *SymbolTable {
	return f.automaton.Sigma
}

// formatTransduction strips flag diacritics and Epsilon from result and
// groups the remaining symbols into a sequence of strings: consecutive
// Graphemes are concatenated, and each MultiChar symbol stands alone.
// Mirrors fst_lookup/fst.py's FST._format_transduction.
func formatTransduction(result []Symbol) Analysis {
	var out Analysis
	var run strings.Builder
	flush := func() {
		if run.Len() > 0 {
			out = append(out, run.String())
			run.Reset()
		}
	}
	for _, sym := range result {
		switch sym.Kind {
		case KindFlag, KindEpsilon, KindUnknown:
			continue
		case KindMultiChar:
			flush()
			out = append(out, sym.Text)
		default: // Grapheme, or a literal pass-through Grapheme from Identity
			run.WriteString(sym.Text)
		}
	}
	flush()
	return out
}

// joinSurface strips flag diacritics and Epsilon and concatenates every
// remaining symbol's text, for Generate's surface-string results.
func joinSurface(result []Symbol) string {
	var b strings.Builder
	for _, sym := range result {
		switch sym.Kind {
		case KindFlag, KindEpsilon, KindUnknown:
			continue
		default:
			b.WriteString(sym.Text)
		}
	}
	return b.String()
}
