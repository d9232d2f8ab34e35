package peg

import "testing"

type posCapture struct {
	text  string
	start Position
	end   Position
}

func (posCapture) IsTerminal() bool { return false }

func TestCCPCapturesStartAndEndPosition(t *testing.T) {
	cons := func(subs []Capture, start, end Position) (Capture, error) {
		return &posCapture{text: "group", start: start, end: end}, nil
	}

	pat := Seq(T("  "), CCP(cons, Q1(R('a', 'z'))))
	caps, err := Parse(pat, "  abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(caps) != 1 {
		t.Fatalf("expected one capture, got %d", len(caps))
	}
	got, ok := caps[0].(*posCapture)
	if !ok {
		t.Fatalf("unexpected capture type %T", caps[0])
	}
	if got.start.Offest != 2 {
		t.Fatalf("expected start offset 2, got %d", got.start.Offest)
	}
	if got.end.Offest != 5 {
		t.Fatalf("expected end offset 5, got %d", got.end.Offest)
	}
}

func TestCCPPropagatesChildCaptures(t *testing.T) {
	leaf := func(span string, pos Position) (Capture, error) {
		return &Token{Type: 1, Value: span, Position: pos}, nil
	}
	cons := func(subs []Capture, start, end Position) (Capture, error) {
		return &Variable{Name: "wrap", Subs: subs}, nil
	}

	pat := CCP(cons, Q1(CT(leaf, R('a', 'z'))))
	caps, err := Parse(pat, "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(caps) != 1 {
		t.Fatalf("expected one capture, got %d", len(caps))
	}
	v, ok := caps[0].(*Variable)
	if !ok {
		t.Fatalf("unexpected capture type %T", caps[0])
	}
	if len(v.Subs) != 3 {
		t.Fatalf("expected 3 sub-captures, got %d", len(v.Subs))
	}
}

func TestCCPDismatchDiscardsArgs(t *testing.T) {
	called := false
	cons := func(subs []Capture, start, end Position) (Capture, error) {
		called = true
		return &posCapture{}, nil
	}
	pat := CCP(cons, T("nope"))
	r, err := Match(pat, "other")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Ok {
		t.Fatalf("expected dismatch")
	}
	if called {
		t.Fatalf("constructor must not run when sub-pattern dismatches")
	}
}
