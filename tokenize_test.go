package fstlookup

import "testing"

func buildTable(t *testing.T, texts ...string) *SymbolTable {
	t.Helper()
	tbl := newSymbolTable()
	tbl.set(0, epsilonSymbol)
	tbl.set(1, unknownSymbol)
	tbl.set(2, identitySymbol)
	for i, text := range texts {
		kind := KindGrapheme
		if len([]rune(text)) > 1 {
			kind = KindMultiChar
		}
		tbl.set(SymbolID(3+i), Symbol{Kind: kind, Text: text})
	}
	tbl.finalize()
	return tbl
}

func TestTokenizeGreedyLongestMatch(t *testing.T) {
	tbl := buildTable(t, "c", "a", "t", "+N", "+Past")

	tokens := Tokenize(tbl, "cat+Past")
	want := []string{"c", "a", "t", "+Past"}
	if len(tokens) != len(want) {
		t.Fatalf("Tokenize returned %d tokens, want %d: %+v", len(tokens), len(want), tokens)
	}
	for i, tok := range tokens {
		if !tok.Known {
			t.Errorf("token %d (%q) reported Known=false", i, tok.Text)
		}
		if tok.Text != want[i] {
			t.Errorf("token %d = %q, want %q", i, tok.Text, want[i])
		}
	}
}

func TestTokenizeUnknownCharacterFallback(t *testing.T) {
	tbl := buildTable(t, "c", "a", "t")

	tokens := Tokenize(tbl, "cax")
	if len(tokens) != 3 {
		t.Fatalf("Tokenize returned %d tokens, want 3: %+v", len(tokens), tokens)
	}
	if !tokens[0].Known || !tokens[1].Known {
		t.Errorf("tokens[0:2] should be known: %+v", tokens[:2])
	}
	if tokens[2].Known || tokens[2].Text != "x" {
		t.Errorf("tokens[2] = %+v, want unknown %q", tokens[2], "x")
	}
}

func TestTokenizePrefersLongerMultiCharMatch(t *testing.T) {
	tbl := buildTable(t, "+N", "+Ne")

	tokens := Tokenize(tbl, "+Ne")
	if len(tokens) != 1 || tokens[0].Text != "+Ne" {
		t.Errorf("Tokenize(%q) = %+v, want a single %q token", "+Ne", tokens, "+Ne")
	}
}
