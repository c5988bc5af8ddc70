package fstlookup

import "testing"

func TestParseFlagSymbolArity(t *testing.T) {
	tests := []struct {
		text    string
		wantErr bool
	}{
		{"@P.case.nom@", false},
		{"@N.case.nom@", false},
		{"@U.case.nom@", false},
		{"@P.case@", true}, // P requires a value
		{"@C.case@", false},
		{"@C.case.nom@", true}, // C takes no value
		{"@R.case@", false},    // R: feature-only is valid
		{"@R.case.nom@", false},
		{"@D.case@", false},
		{"@X.case.nom@", true}, // unrecognized operator
	}
	for _, tt := range tests {
		_, err := parseFlagSymbol(tt.text)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseFlagSymbol(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
		}
	}
}

func TestLooksLikeFlag(t *testing.T) {
	if !looksLikeFlag("@P.case.nom@") {
		t.Error("looksLikeFlag(@P.case.nom@) = false, want true")
	}
	if looksLikeFlag("+N") {
		t.Error("looksLikeFlag(+N) = true, want false")
	}
	if looksLikeFlag("cat") {
		t.Error("looksLikeFlag(cat) = true, want false")
	}
}

func TestEvaluatePositiveThenRequire(t *testing.T) {
	pos, _ := parseFlagSymbol("@P.case.nom@")
	req, _ := parseFlagSymbol("@R.case.nom@")

	ok, env := Evaluate(Environment{}, pos)
	if !ok {
		t.Fatal("Positive should never fail")
	}
	ok, _ = Evaluate(env, req)
	if !ok {
		t.Error("Require case=nom should succeed after Positive case=nom")
	}

	reqOther, _ := parseFlagSymbol("@R.case.acc@")
	ok, _ = Evaluate(env, reqOther)
	if ok {
		t.Error("Require case=acc should fail after Positive case=nom")
	}
}

func TestEvaluateNegativeExcludesValue(t *testing.T) {
	neg, _ := parseFlagSymbol("@N.case.nom@")
	_, env := Evaluate(Environment{}, neg)

	reqNom, _ := parseFlagSymbol("@R.case.nom@")
	if ok, _ := Evaluate(env, reqNom); ok {
		t.Error("Require case=nom should fail after Negative case=nom")
	}

	disNom, _ := parseFlagSymbol("@D.case.nom@")
	if ok, _ := Evaluate(env, disNom); !ok {
		t.Error("Disallow case=nom should succeed after Negative case=nom")
	}
}

func TestEvaluateDisallowUnsetFeature(t *testing.T) {
	dis, _ := parseFlagSymbol("@D.case@")
	if ok, _ := Evaluate(Environment{}, dis); !ok {
		t.Error("Disallow with no value should succeed when feature is unset")
	}
}

func TestEvaluateClearRemovesFeature(t *testing.T) {
	pos, _ := parseFlagSymbol("@P.case.nom@")
	clr, _ := parseFlagSymbol("@C.case@")
	_, env := Evaluate(Environment{}, pos)
	_, env = Evaluate(env, clr)

	value, negative, defined := env.Get("case")
	if defined {
		t.Errorf("Get(case) after Clear = (%q, %v, %v), want undefined", value, negative, defined)
	}
}

func TestEvaluateUnify(t *testing.T) {
	uni, _ := parseFlagSymbol("@U.case.nom@")

	ok, env := Evaluate(Environment{}, uni)
	if !ok {
		t.Fatal("Unify on an unset feature should succeed")
	}

	ok, _ = Evaluate(env, uni)
	if !ok {
		t.Error("Unify with a matching already-set value should succeed")
	}

	uniOther, _ := parseFlagSymbol("@U.case.acc@")
	if ok, _ := Evaluate(env, uniOther); ok {
		t.Error("Unify with a conflicting already-set value should fail")
	}
}

func TestEnvironmentFingerprintOrderIndependent(t *testing.T) {
	a, _ := parseFlagSymbol("@P.case.nom@")
	b, _ := parseFlagSymbol("@P.number.sg@")

	_, env1 := Evaluate(Environment{}, a)
	_, env1 = Evaluate(env1, b)

	_, env2 := Evaluate(Environment{}, b)
	_, env2 = Evaluate(env2, a)

	if env1.fingerprint() != env2.fingerprint() {
		t.Errorf("fingerprint() depends on insertion order: %q != %q", env1.fingerprint(), env2.fingerprint())
	}
}

func TestEnvironmentWithDoesNotMutateReceiver(t *testing.T) {
	pos, _ := parseFlagSymbol("@P.case.nom@")
	_, env1 := Evaluate(Environment{}, pos)

	other, _ := parseFlagSymbol("@P.case.acc@")
	_, env2 := Evaluate(env1, other)

	value, _, _ := env1.Get("case")
	if value != "nom" {
		t.Errorf("original Environment mutated: Get(case) = %q, want %q", value, "nom")
	}
	value2, _, _ := env2.Get("case")
	if value2 != "acc" {
		t.Errorf("derived Environment wrong: Get(case) = %q, want %q", value2, "acc")
	}
}
