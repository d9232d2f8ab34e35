package peg

import "testing"

func TestHookControlsConsumption(t *testing.T) {
	// fn ignores how much True matched (nothing) and instead skips forward
	// to the next "|" in the full text, simulating a teleport past an
	// out-of-band captured region.
	skipToBar := func(text string, pos, n int, env MatchEnv) (int, Capture, bool) {
		i := pos
		for i < len(text) && text[i] != '|' {
			i++
		}
		return i - pos, nil, i < len(text)
	}

	pat := Seq(Hook(skipToBar, True), T("|"), T("tail"))
	r, err := Match(pat, "xyz|tail")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Ok || r.N != len("xyz|tail") {
		t.Fatalf("got %+v", r)
	}
}

func TestHookEchoesMatchedLengthForCapture(t *testing.T) {
	// A capturing hook that only wants a side effect must return n
	// unchanged so it doesn't disturb normal consumption.
	var seen string
	captureSpan := func(text string, pos, n int, env MatchEnv) (int, Capture, bool) {
		seen = text[pos : pos+n]
		return n, nil, true
	}

	pat := Seq(Hook(captureSpan, Q1(R('a', 'z'))), T("!"))
	r, err := Match(pat, "word!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Ok || r.N != len("word!") {
		t.Fatalf("got %+v", r)
	}
	if seen != "word" {
		t.Fatalf("expected captured span %q, got %q", "word", seen)
	}
}

func TestHookSeesEnv(t *testing.T) {
	type counter struct{ n int }
	bump := func(text string, pos, n int, env MatchEnv) (int, Capture, bool) {
		env.(*counter).n++
		return n, nil, true
	}

	c := &counter{}
	pat := Qnn(3, Hook(bump, True))
	r, err := ConfiguredMatch(Config{Env: c}, pat, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Ok {
		t.Fatalf("expected match")
	}
	if c.n != 3 {
		t.Fatalf("expected hook invoked 3 times, got %d", c.n)
	}
}

func TestHookDismatchPropagates(t *testing.T) {
	alwaysFail := func(text string, pos, n int, env MatchEnv) (int, Capture, bool) {
		return 0, nil, false
	}
	pat := Hook(alwaysFail, True)
	r, err := Match(pat, "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Ok {
		t.Fatalf("expected dismatch")
	}
}

func TestHookPushesCapture(t *testing.T) {
	pushHello := func(text string, pos, n int, env MatchEnv) (int, Capture, bool) {
		return n, &Token{Type: 1, Value: "hello"}, true
	}
	pat := Hook(pushHello, True)
	caps, err := Parse(pat, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(caps) != 1 {
		t.Fatalf("expected one capture, got %d", len(caps))
	}
	tok, ok := caps[0].(*Token)
	if !ok || tok.Value != "hello" {
		t.Fatalf("got %+v", caps[0])
	}
}
