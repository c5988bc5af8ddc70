package fstlookup

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
)

// section identifies which part of the Foma network text the parser is
// currently dispatching lines to. Mirrors the handle_header/handle_props/
// handle_sigma/handle_states/handle_end dispatch table in
// fst_lookup/parse.py's FomaParser, collapsed into a single enum since Go
// has no convenient "current bound method" idiom.
type section int

const (
	sectionHeader section = iota
	sectionProps
	sectionSigma
	sectionStates
)

// Parse decompresses r as gzip and decodes the first Foma network found
// in the resulting text. Multiple networks may be concatenated in a
// single file; Parse loads only the first and stops without reading the
// rest of the stream.
func Parse(r io.Reader) (*Automaton, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("gzip: %v", err)}
	}
	defer gz.Close()
	return ParseText(gz)
}

// ParseText decodes an already-decompressed Foma network text stream.
// Exposed separately from Parse so tests (and callers who already have
// the decompressed text, e.g. piped from an external "foma" process) can
// skip the gzip layer.
func ParseText(r io.Reader) (*Automaton, error) {
	p := &parser{
		sigma:   newSymbolTable(),
		states:  newAutomatonBuilder(),
		scanner: bufio.NewScanner(r),
	}
	// Sigma texts are short, but be generous with the scanner's buffer in
	// case a network carries unusually long multi-character symbols.
	p.scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	if err := p.run(); err != nil {
		return nil, err
	}
	if !p.sawEnd {
		return nil, &ParseError{Line: p.lineNum, Reason: "truncated network: missing ##end## section"}
	}
	return p.states.finalize(p.sigma, 0), nil
}

type parser struct {
	scanner *bufio.Scanner
	lineNum int

	sigma  *SymbolTable
	states *automatonBuilder

	current      section
	haveHeader   bool
	impliedState StateID
	haveImplied  bool
	sawEnd       bool
}

func (p *parser) run() error {
	for p.scanner.Scan() {
		p.lineNum++
		line := p.scanner.Text()
		if line == "" {
			continue
		}

		if isSectionMarker(line) {
			name, err := sectionName(line)
			if err != nil {
				return &ParseError{Line: p.lineNum, Reason: err.Error()}
			}
			if name == "end" {
				p.sawEnd = true
				return nil
			}
			sec, err := p.enterSection(name)
			if err != nil {
				return &ParseError{Line: p.lineNum, Reason: err.Error()}
			}
			p.current = sec
			continue
		}

		switch p.current {
		case sectionHeader, sectionProps:
			// Properties are read but mostly ignored: this package has no
			// use yet for arity or the network name, so the line is simply
			// skipped.
		case sectionSigma:
			if err := p.handleSigmaLine(line); err != nil {
				return &ParseError{Line: p.lineNum, Reason: err.Error()}
			}
			// The sigma section is finished and the symbol table is
			// built once we transition to ##states##; finalize happens
			// there (see enterSection).
		case sectionStates:
			if err := p.handleStatesLine(line); err != nil {
				return &ParseError{Line: p.lineNum, Reason: err.Error()}
			}
		}
	}
	if err := p.scanner.Err(); err != nil {
		return &ParseError{Line: p.lineNum, Reason: fmt.Sprintf("read error: %v", err)}
	}
	// Scanner exhausted without ever seeing ##end##.
	return nil
}

func isSectionMarker(line string) bool {
	return strings.HasPrefix(line, "##") && strings.HasSuffix(line, "##") && len(line) >= 4
}

func sectionName(line string) (string, error) {
	mid := strings.TrimSpace(line[2 : len(line)-2])
	if mid == "" {
		return "", fmt.Errorf("empty section marker")
	}
	return mid, nil
}

func (p *parser) enterSection(name string) (section, error) {
	switch {
	case strings.HasPrefix(name, "foma-net"):
		if p.haveHeader {
			// A second network's header: we only load the first, and we
			// should already have returned at its ##end## marker before
			// reaching here.
			return 0, fmt.Errorf("unexpected second ##foma-net## header")
		}
		p.haveHeader = true
		return sectionHeader, nil
	case name == "props":
		return sectionProps, nil
	case name == "sigma":
		return sectionSigma, nil
	case name == "states":
		p.sigma.finalize()
		return sectionStates, nil
	default:
		return 0, fmt.Errorf("unrecognized section marker %q", name)
	}
}

// handleSigmaLine parses one "<id> <text>" sigma entry. The first space
// separates id from text; everything after that single separating space
// is the verbatim symbol text.
func (p *parser) handleSigmaLine(line string) error {
	sp := strings.IndexByte(line, ' ')
	if sp < 0 {
		return fmt.Errorf("malformed sigma line %q: no separator", line)
	}
	idStr, text := line[:sp], line[sp+1:]
	id, err := strconv.Atoi(idStr)
	if err != nil || id < 0 {
		return fmt.Errorf("malformed sigma id %q", idStr)
	}

	sym, err := classifySymbolText(text)
	if err != nil {
		return err
	}
	p.sigma.set(SymbolID(id), sym)
	return nil
}

// classifySymbolText classifies a sigma-section symbol text: the three
// specials by exact text match, then flag diacritics by pattern, then
// MultiChar/Grapheme by rune count.
func classifySymbolText(text string) (Symbol, error) {
	switch text {
	case "@_EPSILON_SYMBOL_@":
		return epsilonSymbol, nil
	case "@_UNKNOWN_SYMBOL_@":
		return unknownSymbol, nil
	case "@_IDENTITY_SYMBOL_@":
		return identitySymbol, nil
	}
	if looksLikeFlag(text) {
		return parseFlagSymbol(text)
	}
	n := utf8.RuneCountInString(text)
	if n > 1 {
		return Symbol{Kind: KindMultiChar, Text: text}, nil
	}
	if n == 1 {
		return Symbol{Kind: KindGrapheme, Text: text}, nil
	}
	return Symbol{}, fmt.Errorf("empty symbol text")
}

// handleStatesLine parses one states-section record, implementing the
// four record shapes and the implicit-state shorthand.
func (p *parser) handleStatesLine(line string) error {
	fields, err := parseIntFields(line)
	if err != nil {
		return err
	}

	if len(fields) == 5 && isSentinel(fields) {
		// End-of-states sentinel; the actual section transition still
		// comes from the ##end## marker line that follows.
		return nil
	}

	switch len(fields) {
	case 2:
		if !p.haveImplied {
			return fmt.Errorf("2-field arc record used before any implied state was established")
		}
		in, dest := fields[0], fields[1]
		return p.addArc(int(p.impliedState), in, in, dest)

	case 3:
		if !p.haveImplied {
			return fmt.Errorf("3-field arc record used before any implied state was established")
		}
		in, out, dest := fields[0], fields[1], fields[2]
		return p.addArc(int(p.impliedState), in, out, dest)

	case 4:
		s, in, dest, final := fields[0], fields[1], fields[2], fields[3]
		p.setImplied(s)
		if dest >= 0 {
			if err := p.addArc(s, in, in, dest); err != nil {
				return err
			}
		}
		if final > 0 {
			p.states.markAccepting(StateID(s))
		}
		return nil

	case 5:
		s, in, out, dest, final := fields[0], fields[1], fields[2], fields[3], fields[4]
		p.setImplied(s)
		if dest >= 0 {
			if err := p.addArc(s, in, out, dest); err != nil {
				return err
			}
		}
		if final > 0 {
			p.states.markAccepting(StateID(s))
		}
		return nil

	default:
		return fmt.Errorf("malformed states record %q: expected 2-5 fields, got %d", line, len(fields))
	}
}

func (p *parser) setImplied(s int) {
	p.impliedState = StateID(s)
	p.haveImplied = true
}

func (p *parser) addArc(source, upper, lower, dest int) error {
	if source < 0 || dest < 0 {
		return fmt.Errorf("negative state id in arc record (source=%d, dest=%d)", source, dest)
	}
	if _, ok := p.sigma.Lookup(SymbolID(upper)); !ok {
		return fmt.Errorf("arc references unknown upper symbol id %d", upper)
	}
	if _, ok := p.sigma.Lookup(SymbolID(lower)); !ok {
		return fmt.Errorf("arc references unknown lower symbol id %d", lower)
	}
	p.states.addArcRecord(StateID(source), SymbolID(upper), SymbolID(lower), StateID(dest))
	p.impliedState = StateID(source)
	p.haveImplied = true
	return nil
}

func isSentinel(fields []int) bool {
	for _, f := range fields {
		if f != -1 {
			return false
		}
	}
	return true
}

func parseIntFields(line string) ([]int, error) {
	parts := strings.Fields(line)
	out := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("malformed integer field %q in %q", part, line)
		}
		out[i] = n
	}
	return out, nil
}
